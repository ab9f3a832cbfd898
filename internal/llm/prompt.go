package llm

const completionInstruction = "You are a code completion tool. Respond with ONLY raw code - " +
	"no markdown formatting, no code fence blocks (```), no language indicators. " +
	"Replace or complete this code:\n\n"

const completionTrailer = "\n\nProvide only raw code without any formatting:"

// CompletionPrompt wraps source text in the raw-code-only instruction.
func CompletionPrompt(text string) string {
	return completionInstruction + text + completionTrailer
}
