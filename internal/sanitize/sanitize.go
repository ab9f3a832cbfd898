// Package sanitize strips markdown code fencing from model output so it can
// be inserted into a buffer as plain source text.
//
// The passes are a fixed, order-sensitive sequence of anchored removals,
// not a markdown parser. Each edge of the text loses at most one fence per
// call; fences embedded in the body are left alone.
package sanitize

import (
	"regexp"
	"strings"
)

var (
	// An opening fence, its optional language tag, and the newline after it.
	openingFence = regexp.MustCompile("^```[\\s\\S]*?\\n")
	// A closing fence on its own final line.
	closingFenceLine = regexp.MustCompile("\\n```$")
	bareOpeningFence = regexp.MustCompile("^```")
	bareClosingFence = regexp.MustCompile("```$")
)

// Sanitize removes the outermost markdown fence markers from text and trims
// surrounding whitespace. It is total: every input, including "", yields a
// result.
func Sanitize(text string) string {
	s := strings.TrimSpace(text)
	s = openingFence.ReplaceAllLiteralString(s, "")
	s = closingFenceLine.ReplaceAllLiteralString(s, "")
	s = bareOpeningFence.ReplaceAllLiteralString(s, "")
	s = bareClosingFence.ReplaceAllLiteralString(s, "")
	return strings.TrimSpace(s)
}
