package llm

import "errors"

var (
	// ErrOllamaUnavailable indicates the Ollama server is unreachable.
	ErrOllamaUnavailable = errors.New("ollama server unavailable")

	// ErrTimeout indicates the request exceeded the configured timeout.
	ErrTimeout = errors.New("llm request timed out")

	// ErrBadStatus indicates the server answered with a non-2xx status.
	ErrBadStatus = errors.New("unexpected ollama status")

	// ErrMalformed indicates the response body could not be decoded.
	ErrMalformed = errors.New("malformed ollama response")

	// ErrNoResponse indicates a well-formed reply that carried no
	// "response" field. Callers report it separately from transport failures.
	ErrNoResponse = errors.New("no response from server")
)
