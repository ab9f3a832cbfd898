package bridge

import "github.com/alexanderramin/hedgehog/internal/editor"

// Request types sent by the editor.
const (
	TypeSuggest = "suggest"
	TypePing    = "ping"
	TypeModels  = "models"
)

// Response types sent to the editor.
const (
	TypeProgress = "progress"
	TypeInfo     = "info"
	TypeError    = "error"
	TypeEdit     = "edit"
	TypePong     = "pong"
	TypePreview  = "preview" // message carries the preview page URL
	TypeDone     = "done"
)

// Span is a piece of buffer text and where it sits.
type Span struct {
	Range editor.Range `json:"range"`
	Text  string       `json:"text"`
}

// Request is one line read from the editor.
type Request struct {
	ID   string `json:"id,omitempty"`
	Type string `json:"type"`
	Path string `json:"path,omitempty"`

	// Selection is the current selection; an empty range is a bare cursor.
	Selection *Span `json:"selection,omitempty"`
	// Line is the line under the cursor, used when the selection is empty.
	Line *Span `json:"line,omitempty"`
}

// Response is one line written to the editor.
type Response struct {
	ID        string        `json:"id"`
	Type      string        `json:"type"`
	Message   string        `json:"message,omitempty"`
	Path      string        `json:"path,omitempty"`
	Range     *editor.Range `json:"range,omitempty"`
	Text      *string       `json:"text,omitempty"`
	Outcome   string        `json:"outcome,omitempty"`
	Models    []string      `json:"models,omitempty"`
	Available *bool         `json:"available,omitempty"`
	Done      bool          `json:"done,omitempty"` // progress finished
}
