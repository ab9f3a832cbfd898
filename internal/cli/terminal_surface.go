package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/alexanderramin/hedgehog/internal/gate"
	tea "github.com/charmbracelet/bubbletea"
)

// ErrSurfaceClosed is returned by Show on a surface that was already closed.
var ErrSurfaceClosed = errors.New("terminal preview closed")

// TerminalSurface is a gate.Surface drawn in the terminal with bubbletea.
type TerminalSurface struct {
	in   io.Reader
	out  io.Writer
	opts []tea.ProgramOption

	mu      sync.Mutex
	program *tea.Program
	closed  bool
}

// NewTerminalSurface creates a surface reading keys from in and drawing to
// out on the alternate screen. Extra options are appended to the program's.
func NewTerminalSurface(in io.Reader, out io.Writer, opts ...tea.ProgramOption) *TerminalSurface {
	return &TerminalSurface{in: in, out: out, opts: opts}
}

// Show runs the preview program until a decision is made, the surface is
// closed or ctx is done.
func (s *TerminalSurface) Show(ctx context.Context, p gate.Preview, r *gate.Resolver) error {
	opts := append([]tea.ProgramOption{
		tea.WithContext(ctx),
		tea.WithInput(s.in),
		tea.WithOutput(s.out),
		tea.WithAltScreen(),
	}, s.opts...)
	program := tea.NewProgram(newPreviewView(p, r), opts...)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrSurfaceClosed
	}
	s.program = program
	s.mu.Unlock()

	_, err := program.Run()
	switch {
	case err == nil:
		return nil
	case errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil:
		return nil
	case errors.Is(err, tea.ErrInterrupted):
		// SIGINT counts as dismissal.
		return nil
	default:
		return fmt.Errorf("running terminal preview: %w", err)
	}
}

// Close quits a running program. Calling it again is a no-op.
func (s *TerminalSurface) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	program := s.program
	s.mu.Unlock()

	if program != nil {
		program.Quit()
	}
	return nil
}
