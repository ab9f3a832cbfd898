// Package suggest runs the suggestion workflow: read the target text, ask
// the model for a replacement, sanitize it, confirm it with the user, and
// apply it to the buffer only on acceptance.
package suggest

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/alexanderramin/hedgehog/internal/editor"
	"github.com/alexanderramin/hedgehog/internal/gate"
	"github.com/alexanderramin/hedgehog/internal/llm"
	"github.com/alexanderramin/hedgehog/internal/metrics"
	"github.com/alexanderramin/hedgehog/internal/sanitize"
	"go.uber.org/zap"
)

// User-facing messages. Every run except a dropped one ends in exactly one.
const (
	MsgNoEditor   = "No active editor found"
	MsgProgress   = "Getting code suggestion..."
	MsgNoResponse = "No response from server"
	MsgFailed     = "Failed to get code suggestion"
	MsgApplied    = "Code suggestion applied!"
	MsgRejected   = "Code suggestion rejected"
)

// Outcome is how a run ended.
type Outcome string

const (
	OutcomeApplied    Outcome = "applied"
	OutcomeRejected   Outcome = "rejected"
	OutcomeBusy       Outcome = "busy"
	OutcomeNoEditor   Outcome = "no_editor"
	OutcomeNoResponse Outcome = "no_response"
	OutcomeFailed     Outcome = "failed"
)

// Notifier shows messages to the user. ctx carries per-request values
// set by the caller of Run.
type Notifier interface {
	Info(ctx context.Context, msg string)
	Error(ctx context.Context, msg string)
	// Progress shows msg until the returned func is called.
	Progress(ctx context.Context, msg string) (stop func())
}

// SurfaceFactory returns a fresh confirmation surface for one run.
type SurfaceFactory func(ctx context.Context) (gate.Surface, error)

// Coordinator owns the workflow and its re-entrancy guard. Build one per
// process and share it between every trigger.
type Coordinator struct {
	client   llm.Client
	surfaces SurfaceFactory
	notify   Notifier
	model    string
	logger   *zap.Logger
	metrics  *metrics.Metrics

	busy atomic.Bool
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithModel overrides the model configured on the client.
func WithModel(model string) Option {
	return func(c *Coordinator) { c.model = model }
}

// WithLogger sets the logger for failure causes.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Coordinator) { c.logger = logger }
}

// WithMetrics records decisions and outcomes on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Coordinator) { c.metrics = m }
}

// New creates a Coordinator.
func New(client llm.Client, surfaces SurfaceFactory, notify Notifier, opts ...Option) *Coordinator {
	c := &Coordinator{
		client:   client,
		surfaces: surfaces,
		notify:   notify,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Busy reports whether a run is in flight.
func (c *Coordinator) Busy() bool {
	return c.busy.Load()
}

// Run executes one suggestion against buf. A call made while another is in
// flight returns OutcomeBusy at once without notifying anyone.
func (c *Coordinator) Run(ctx context.Context, buf editor.Buffer) (outcome Outcome) {
	if !c.busy.CompareAndSwap(false, true) {
		return OutcomeBusy
	}
	defer c.busy.Store(false)

	defer func() {
		if p := recover(); p != nil {
			c.logger.Error("suggestion run panicked", zap.Any("panic", p), zap.Stack("stack"))
			c.notify.Error(ctx, MsgFailed)
			outcome = OutcomeFailed
		}
		c.metrics.IncrementOutcome(string(outcome))
	}()

	return c.run(ctx, buf)
}

func (c *Coordinator) run(ctx context.Context, buf editor.Buffer) Outcome {
	if buf == nil {
		c.notify.Error(ctx, MsgNoEditor)
		return OutcomeNoEditor
	}

	target, err := editor.TargetOf(buf)
	if err != nil {
		if errors.Is(err, editor.ErrNoSelection) {
			c.notify.Error(ctx, MsgNoEditor)
			return OutcomeNoEditor
		}
		return c.fail(ctx, "reading target text", err)
	}

	candidate, err := c.complete(ctx, target.Text)
	if errors.Is(err, llm.ErrNoResponse) {
		c.logger.Warn("completion returned no response", zap.String("range", target.Range.String()))
		c.notify.Error(ctx, MsgNoResponse)
		return OutcomeNoResponse
	}
	if err != nil {
		return c.fail(ctx, "requesting completion", err)
	}

	cleaned := sanitize.Sanitize(candidate)

	surface, err := c.surfaces(ctx)
	if err != nil {
		return c.fail(ctx, "opening preview", err)
	}
	decision, err := gate.Confirm(ctx, surface, target.Text, cleaned)
	c.metrics.IncrementDecision(decision.String())
	if err != nil {
		if decision != gate.Accepted {
			return c.fail(ctx, "showing preview", err)
		}
		c.logger.Warn("preview reported an error after acceptance", zap.Error(err))
	}

	if decision != gate.Accepted {
		c.notify.Info(ctx, MsgRejected)
		return OutcomeRejected
	}

	if err := buf.Replace(ctx, target.Range, cleaned); err != nil {
		return c.fail(ctx, "applying edit", err)
	}
	c.notify.Info(ctx, MsgApplied)
	return OutcomeApplied
}

func (c *Coordinator) complete(ctx context.Context, text string) (string, error) {
	stop := c.notify.Progress(ctx, MsgProgress)
	defer stop()

	resp, err := c.client.Generate(ctx, llm.GenerateRequest{
		Model:  c.model,
		Prompt: llm.CompletionPrompt(text),
	})
	if err != nil {
		return "", err
	}
	return resp.Text, nil
}

func (c *Coordinator) fail(ctx context.Context, step string, err error) Outcome {
	c.logger.Error("suggestion failed", zap.String("step", step), zap.Error(err))
	c.notify.Error(ctx, MsgFailed)
	return OutcomeFailed
}
