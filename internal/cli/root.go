package cli

import (
	"io"

	"github.com/alexanderramin/hedgehog/internal/config"
	"github.com/alexanderramin/hedgehog/internal/llm"
	"github.com/alexanderramin/hedgehog/internal/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// App holds everything commands share. main builds one per process.
type App struct {
	Config  config.Config
	Logger  *zap.Logger
	Client  llm.Client
	Metrics *metrics.Metrics

	// Registry backs the /metrics endpoint of `serve`.
	Registry *prometheus.Registry

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// IsInteractive reports whether stdin is a terminal.
	IsInteractive func() bool

	// OpenBrowser opens the browser preview. Nil means print the URL only.
	OpenBrowser func(url string) error

	Version string
}

// NewRootCmd creates the top-level "hedgehog" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "hedgehog",
		Short:         "Local-model code suggestions with a confirm-before-apply preview",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetIn(app.Stdin)
	root.SetOut(app.Stdout)
	root.SetErr(app.Stderr)

	root.AddCommand(
		newSuggestCmd(app),
		newServeCmd(app),
		newCheckCmd(app),
		newVersionCmd(app),
	)

	return root
}

func (app *App) interactive() bool {
	return app.IsInteractive != nil && app.IsInteractive()
}

// DefaultOpenBrowser is the platform browser launcher.
func DefaultOpenBrowser(url string) error {
	return openBrowser(url)
}
