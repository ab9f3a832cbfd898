// Package gate implements the confirmation step between a candidate edit
// and the buffer: a surface shows the original and candidate text, and
// exactly one Decision comes back per call.
package gate

import "sync"

// Decision is the outcome of one confirmation.
type Decision int

const (
	Rejected Decision = iota
	Accepted
)

func (d Decision) String() string {
	if d == Accepted {
		return "accepted"
	}
	return "rejected"
}

// Preview is the pair of texts a surface presents.
type Preview struct {
	Original  string
	Candidate string
}

// Resolver is a one-shot resolution point shared by every exit path of a
// surface. The first Resolve wins; later calls are no-ops.
type Resolver struct {
	once     sync.Once
	done     chan struct{}
	decision Decision
}

// NewResolver returns an unresolved Resolver.
func NewResolver() *Resolver {
	return &Resolver{done: make(chan struct{})}
}

// Resolve records d if nothing has been recorded yet and reports whether
// this call was the one that resolved.
func (r *Resolver) Resolve(d Decision) bool {
	won := false
	r.once.Do(func() {
		r.decision = d
		won = true
		close(r.done)
	})
	return won
}

// Done is closed once a decision has been recorded.
func (r *Resolver) Done() <-chan struct{} {
	return r.done
}

// Decision returns the recorded decision and whether there is one yet.
func (r *Resolver) Decision() (Decision, bool) {
	select {
	case <-r.done:
		return r.decision, true
	default:
		return Rejected, false
	}
}
