// Package editor models the text source and buffer mutator a suggestion
// works against: a selection or active line to read, and a single
// whole-range replace to write.
package editor

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrInvalidRange indicates a range that is inverted or outside the buffer.
	ErrInvalidRange = errors.New("invalid range")

	// ErrNoSelection indicates the buffer has no cursor or selection to work on.
	ErrNoSelection = errors.New("no selection")
)

// Position is a 0-based line and byte column.
type Position struct {
	Line int `json:"line"`
	Col  int `json:"col"`
}

// Before reports whether p sorts strictly before o.
func (p Position) Before(o Position) bool {
	return p.Line < o.Line || (p.Line == o.Line && p.Col < o.Col)
}

// Range is a half-open span [Start, End) of a buffer.
type Range struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// IsEmpty reports whether the range selects nothing, i.e. a bare cursor.
func (r Range) IsEmpty() bool {
	return r.Start == r.End
}

// String renders the range 1-based, the way editors display positions.
func (r Range) String() string {
	return fmt.Sprintf("%d:%d-%d:%d", r.Start.Line+1, r.Start.Col+1, r.End.Line+1, r.End.Col+1)
}

// Buffer is the editor-side collaborator of a suggestion.
type Buffer interface {
	// Selection returns the current selection; an empty range is a cursor.
	Selection() (Range, error)

	// Text returns the text covered by r.
	Text(r Range) (string, error)

	// LineRange returns the range of a whole line, excluding its line break.
	LineRange(line int) (Range, error)

	// Replace writes text over r in one edit.
	Replace(ctx context.Context, r Range, text string) error
}

// Target is the text a suggestion is computed for and where it goes.
type Target struct {
	Text  string
	Range Range
}

// TargetOf returns the selected text, or the cursor's line when nothing
// is selected.
func TargetOf(buf Buffer) (Target, error) {
	sel, err := buf.Selection()
	if err != nil {
		return Target{}, err
	}

	rng := sel
	if sel.IsEmpty() {
		rng, err = buf.LineRange(sel.Start.Line)
		if err != nil {
			return Target{}, err
		}
	}

	text, err := buf.Text(rng)
	if err != nil {
		return Target{}, err
	}
	return Target{Text: text, Range: rng}, nil
}
