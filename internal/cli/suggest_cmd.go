package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/alexanderramin/hedgehog/internal/config"
	"github.com/alexanderramin/hedgehog/internal/editor"
	"github.com/alexanderramin/hedgehog/internal/gate"
	"github.com/alexanderramin/hedgehog/internal/preview"
	"github.com/alexanderramin/hedgehog/internal/suggest"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

// errOutcome marks a run that ended without applying or rejecting. The
// notifier has already told the user why.
var errOutcome = errors.New("suggestion not applied")

// rangeValue is a pflag.Value for --range.
type rangeValue struct {
	r   editor.Range
	set bool
}

var _ pflag.Value = (*rangeValue)(nil)

func (v *rangeValue) String() string {
	if !v.set {
		return ""
	}
	return v.r.String()
}

func (v *rangeValue) Set(s string) error {
	r, err := editor.ParseRange(s)
	if err != nil {
		return err
	}
	v.r, v.set = r, true
	return nil
}

func (v *rangeValue) Type() string { return "range" }

type suggestOptions struct {
	rng         rangeValue
	line        int
	preview     string
	model       string
	chooseModel bool
}

func newSuggestCmd(app *App) *cobra.Command {
	opts := &suggestOptions{}

	cmd := &cobra.Command{
		Use:   "suggest FILE",
		Short: "Ask the model to rewrite part of a file and confirm before applying",
		Long: `Sends the selected text to the completion server, shows the original
next to the suggestion, and writes the suggestion into FILE only if you accept it.

Without --range or --line the whole file is the selection. --line picks a
single line; --range takes 1-based positions such as 12, 12:5, 12-14 or
12:5-14:3.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.suggest(cmd.Context(), args[0], opts)
		},
	}

	flags := cmd.Flags()
	flags.Var(&opts.rng, "range", "selection to rewrite, 1-based (L[:C][-L[:C]])")
	flags.IntVar(&opts.line, "line", 0, "rewrite this 1-based line")
	flags.StringVar(&opts.preview, "preview", "", "preview surface: auto, terminal or browser")
	flags.StringVar(&opts.model, "model", "", "model to use instead of the configured one")
	flags.BoolVar(&opts.chooseModel, "choose-model", false, "pick a model from those installed")
	cmd.MarkFlagsMutuallyExclusive("range", "line")
	cmd.MarkFlagsMutuallyExclusive("model", "choose-model")

	return cmd
}

func (app *App) suggest(ctx context.Context, path string, opts *suggestOptions) error {
	buf, err := openTarget(path, opts)
	if err != nil {
		return err
	}

	mode, err := app.previewMode(opts.preview)
	if err != nil {
		return err
	}

	model := opts.model
	if opts.chooseModel {
		model, err = chooseModel(ctx, app.Client, app.Config.LLM.Model)
		if err != nil {
			return err
		}
	}

	coordOpts := []suggest.Option{
		suggest.WithLogger(app.Logger),
		suggest.WithMetrics(app.Metrics),
	}
	if model != "" {
		coordOpts = append(coordOpts, suggest.WithModel(model))
	}

	notify := &terminalNotifier{out: app.Stderr, animate: app.interactive()}
	coord := suggest.New(app.Client, app.surfaceFactory(mode), notify, coordOpts...)

	switch outcome := coord.Run(ctx, buf); outcome {
	case suggest.OutcomeApplied, suggest.OutcomeRejected:
		return nil
	default:
		return fmt.Errorf("%w (%s)", errOutcome, outcome)
	}
}

// openTarget loads path with the selection described by the flags.
func openTarget(path string, opts *suggestOptions) (*editor.FileBuffer, error) {
	sel := editor.Range{}
	switch {
	case opts.rng.set:
		sel = opts.rng.r
	case opts.line > 0:
		p := editor.Position{Line: opts.line - 1}
		sel = editor.Range{Start: p, End: p}
	case opts.line < 0:
		return nil, fmt.Errorf("%w: --line must be positive", editor.ErrInvalidRange)
	}

	buf, err := editor.OpenFile(path, sel)
	if err != nil {
		return nil, err
	}
	if !opts.rng.set && opts.line == 0 {
		if err := buf.Select(buf.All()); err != nil {
			return nil, err
		}
	}
	return buf, nil
}

// previewMode resolves auto to terminal when stdin is a terminal.
func (app *App) previewMode(flag string) (string, error) {
	mode := app.Config.Preview
	if flag != "" {
		mode = flag
	}
	switch mode {
	case config.PreviewTerminal, config.PreviewBrowser:
		return mode, nil
	case config.PreviewAuto, "":
		if app.interactive() {
			return config.PreviewTerminal, nil
		}
		return config.PreviewBrowser, nil
	default:
		return "", fmt.Errorf("%w: preview %q (want auto, terminal or browser)", config.ErrInvalid, mode)
	}
}

func (app *App) surfaceFactory(mode string) suggest.SurfaceFactory {
	if mode == config.PreviewTerminal {
		return func(context.Context) (gate.Surface, error) {
			return NewTerminalSurface(app.Stdin, app.Stdout), nil
		}
	}
	return func(context.Context) (gate.Surface, error) {
		return preview.NewBrowserSurface(
			preview.WithLogger(app.Logger),
			preview.WithAnnounce(app.announcePreview),
		), nil
	}
}

func (app *App) announcePreview(url string) {
	fmt.Fprintf(app.Stderr, "Preview: %s\n", url)
	if app.OpenBrowser == nil {
		return
	}
	if err := app.OpenBrowser(url); err != nil {
		app.Logger.Warn("opening browser failed", zap.String("url", url), zap.Error(err))
	}
}
