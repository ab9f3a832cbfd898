package gate

import (
	"context"
	"errors"
	"fmt"
)

// ErrSurface wraps failures reported by a surface.
var ErrSurface = errors.New("confirmation surface failed")

// Surface presents a Preview and reports the user's choice through a Resolver.
type Surface interface {
	// Show renders p and blocks until the surface is gone: closed, dismissed
	// by the user, or abandoned because ctx is done. Actions resolve r.
	Show(ctx context.Context, p Preview, r *Resolver) error

	// Close tears the surface down and makes a running Show return.
	// It must be safe to call more than once.
	Close() error
}

// Confirm presents original and candidate on s and waits for a decision.
//
// Dismissal and cancellation of ctx both resolve Rejected. The surface is
// closed, and its Show has returned, before Confirm returns. A non-nil error
// means the surface failed; the returned Decision is still authoritative.
func Confirm(ctx context.Context, s Surface, original, candidate string) (Decision, error) {
	r := NewResolver()
	p := Preview{Original: original, Candidate: candidate}

	showCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	shown := make(chan error, 1)
	go func() {
		shown <- s.Show(showCtx, p, r)
	}()

	var showErr error
	returned := false
	select {
	case <-r.Done():
	case showErr = <-shown:
		returned = true
		r.Resolve(Rejected)
	case <-ctx.Done():
		r.Resolve(Rejected)
	}

	closeErr := s.Close()
	cancel()
	if !returned {
		showErr = <-shown
	}

	decision, _ := r.Decision()

	var errs []error
	if showErr != nil {
		errs = append(errs, showErr)
	}
	if closeErr != nil {
		errs = append(errs, closeErr)
	}
	if len(errs) > 0 {
		return decision, fmt.Errorf("%w: %w", ErrSurface, errors.Join(errs...))
	}
	return decision, nil
}
