package preview

import "strings"

// htmlEscaper handles '&' in the same pass as the others, so already
// produced entities are never escaped twice.
var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#039;",
)

// EscapeHTML escapes the five characters that can change the structure of
// surrounding markup: & < > " '.
func EscapeHTML(s string) string {
	return htmlEscaper.Replace(s)
}
