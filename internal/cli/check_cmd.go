package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/alexanderramin/hedgehog/internal/cli/formatter"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var errUnreachable = errors.New("completion server unreachable")

func newCheckCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Check that the completion server is reachable and list its models",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := app.check(cmd.Context())
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatCheck(report))
			return err
		},
	}
}

func (app *App) check(ctx context.Context) (formatter.CheckReport, error) {
	report := formatter.CheckReport{
		Endpoint: app.Config.LLM.Endpoint,
		Model:    app.Config.LLM.Model,
	}

	report.Available = app.Client.Available(ctx)
	if !report.Available {
		return report, fmt.Errorf("%w at %s", errUnreachable, report.Endpoint)
	}

	models, err := app.Client.Models(ctx)
	if err != nil {
		app.Logger.Warn("listing models failed", zap.Error(err))
		return report, fmt.Errorf("listing models: %w", err)
	}
	report.Models = models
	return report, nil
}
