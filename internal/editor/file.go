package editor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// FileBuffer is a file held in memory with a selection. Replace writes the
// whole file back through a temp file and rename.
type FileBuffer struct {
	path string
	mode os.FileMode

	mu        sync.Mutex
	content   string
	selection Range
}

// OpenFile loads path with the given selection. The selection is validated
// against the file contents.
func OpenFile(path string, selection Range) (*FileBuffer, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	b := &FileBuffer{
		path:      path,
		mode:      info.Mode().Perm(),
		content:   string(data),
		selection: selection,
	}
	if _, _, err := b.offsets(selection); err != nil {
		return nil, err
	}
	return b, nil
}

// Path returns the file the buffer was loaded from.
func (b *FileBuffer) Path() string { return b.path }

// Content returns the current buffer contents.
func (b *FileBuffer) Content() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.content
}

func (b *FileBuffer) Selection() (Range, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.selection, nil
}

// Select moves the selection to r.
func (b *FileBuffer) Select(r Range) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, _, err := b.offsets(r); err != nil {
		return err
	}
	b.selection = r
	return nil
}

// All returns the range covering the whole buffer.
func (b *FileBuffer) All() Range {
	b.mu.Lock()
	defer b.mu.Unlock()
	lines := strings.Split(b.content, "\n")
	last := len(lines) - 1
	return Range{End: Position{Line: last, Col: len(lines[last])}}
}

func (b *FileBuffer) Text(r Range) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	start, end, err := b.offsets(r)
	if err != nil {
		return "", err
	}
	return b.content[start:end], nil
}

func (b *FileBuffer) LineRange(line int) (Range, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	lines := strings.Split(b.content, "\n")
	if line < 0 || line >= len(lines) {
		return Range{}, fmt.Errorf("%w: line %d of %d", ErrInvalidRange, line+1, len(lines))
	}
	text := strings.TrimSuffix(lines[line], "\r")
	return Range{
		Start: Position{Line: line, Col: 0},
		End:   Position{Line: line, Col: len(text)},
	}, nil
}

func (b *FileBuffer) Replace(ctx context.Context, r Range, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	start, end, err := b.offsets(r)
	if err != nil {
		return err
	}

	updated := b.content[:start] + text + b.content[end:]
	if err := writeAtomic(b.path, []byte(updated), b.mode); err != nil {
		return fmt.Errorf("writing %s: %w", b.path, err)
	}
	b.content = updated
	return nil
}

// offsets converts r into byte offsets of content. Callers hold mu.
func (b *FileBuffer) offsets(r Range) (int, int, error) {
	if r.End.Before(r.Start) {
		return 0, 0, fmt.Errorf("%w: %s ends before it starts", ErrInvalidRange, r)
	}
	lines := strings.Split(b.content, "\n")
	start, err := offsetOf(lines, r.Start)
	if err != nil {
		return 0, 0, err
	}
	end, err := offsetOf(lines, r.End)
	if err != nil {
		return 0, 0, err
	}
	return start, end, nil
}

func offsetOf(lines []string, p Position) (int, error) {
	if p.Line < 0 || p.Line >= len(lines) {
		return 0, fmt.Errorf("%w: line %d of %d", ErrInvalidRange, p.Line+1, len(lines))
	}
	if p.Col < 0 || p.Col > len(lines[p.Line]) {
		return 0, fmt.Errorf("%w: column %d of line %d", ErrInvalidRange, p.Col+1, p.Line+1)
	}
	off := 0
	for i := 0; i < p.Line; i++ {
		off += len(lines[i]) + 1
	}
	return off + p.Col, nil
}

func writeAtomic(path string, data []byte, mode os.FileMode) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".hedgehog-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Chmod(mode); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
