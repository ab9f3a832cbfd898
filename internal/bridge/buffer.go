package bridge

import (
	"context"
	"fmt"

	"github.com/alexanderramin/hedgehog/internal/editor"
)

// remoteBuffer is the editor's buffer as described by one suggest request.
// Replace does not touch any file: it sends an edit for the editor to apply.
type remoteBuffer struct {
	id   string
	path string
	sel  *Span
	line *Span
	send func(Response) error
}

func (b *remoteBuffer) Selection() (editor.Range, error) {
	if b.sel == nil {
		return editor.Range{}, editor.ErrNoSelection
	}
	return b.sel.Range, nil
}

func (b *remoteBuffer) Text(r editor.Range) (string, error) {
	switch {
	case b.sel != nil && b.sel.Range == r:
		return b.sel.Text, nil
	case b.line != nil && b.line.Range == r:
		return b.line.Text, nil
	default:
		return "", fmt.Errorf("%w: %s was not sent by the editor", editor.ErrInvalidRange, r)
	}
}

func (b *remoteBuffer) LineRange(line int) (editor.Range, error) {
	if b.line == nil || b.line.Range.Start.Line != line {
		return editor.Range{}, fmt.Errorf("%w: line %d was not sent by the editor", editor.ErrInvalidRange, line+1)
	}
	return b.line.Range, nil
}

func (b *remoteBuffer) Replace(ctx context.Context, r editor.Range, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return b.send(Response{
		ID:    b.id,
		Type:  TypeEdit,
		Path:  b.path,
		Range: &r,
		Text:  &text,
	})
}
