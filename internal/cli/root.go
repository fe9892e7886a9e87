// Package cli implements the swagdeco command line.
package cli

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kalyuk/swagdeco/annotate"
	"github.com/kalyuk/swagdeco/config"
	"github.com/kalyuk/swagdeco/demo"
	"github.com/kalyuk/swagdeco/httpmw"
	"github.com/kalyuk/swagdeco/swagger"
)

// Execute runs the swagdeco CLI.
func Execute() error {
	return NewRootCmd().Execute()
}

// app carries the state shared by subcommands once the config is loaded.
type app struct {
	configFile string
	verbose    bool

	cfg    *config.Config
	logger *slog.Logger
}

// NewRootCmd constructs the root command so tests can exercise the CLI.
func NewRootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:   "swagdeco",
		Short: "Serve and export a Swagger 2.0 documented demo API",
		Long: `swagdeco builds routes and a Swagger 2.0 document from annotated
controller members.

Example:
  swagdeco serve --framework gin      # Serve the demo API with docs at /docs
  swagdeco export --format yaml       # Print the generated document
  swagdeco routes                     # List the mounted routes
  swagdeco check ./handlers           # Validate directive comments`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.load(cmd.ErrOrStderr())
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().StringVarP(&a.configFile, "config", "c", "", "config file (default: swagdeco.yaml)")
	cmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")

	for _, sub := range []*cobra.Command{
		newServeCmd(a),
		newExportCmd(a),
		newRoutesCmd(a),
		newCheckCmd(a),
	} {
		cmd.AddCommand(sub)
	}

	setFlagErrors(cmd)
	return cmd
}

// setFlagErrors turns cobra flag errors into usage errors that carry the
// command usage text, for cmd and all of its subcommands.
func setFlagErrors(cmd *cobra.Command) {
	cmd.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		return newUsageError(fmt.Sprintf("%v\n\n%s", err, c.UsageString()))
	})
	for _, sub := range cmd.Commands() {
		setFlagErrors(sub)
	}
}

func (a *app) load(logOut io.Writer) error {
	cfg, err := config.Load(a.configFile)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if a.verbose {
		cfg.Log.Level = "debug"
	}

	a.cfg = cfg
	a.logger = newLogger(cfg.Log, logOut)
	return nil
}

// newLogger builds the slog logger described by cfg. Records logged with a
// request context carry the request id.
func newLogger(cfg config.LogConfig, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}

	var h slog.Handler
	if strings.EqualFold(cfg.Format, "json") {
		h = slog.NewJSONHandler(w, opts)
	} else {
		h = slog.NewTextHandler(w, opts)
	}
	return slog.New(httpmw.NewContextHandler(h))
}

// registry builds the document and registers the demo API on it.
func (a *app) registry(opts ...annotate.Option) (*annotate.Registry, error) {
	doc := swagger.New(a.cfg.DocumentOptions(a.logger)...)

	opts = append([]annotate.Option{annotate.WithLogger(a.logger)}, opts...)
	reg := annotate.New(doc, opts...)
	reg.Configure(a.cfg.Settings())

	if err := demo.Register(reg, demo.NewRepository()); err != nil {
		return nil, err
	}
	return reg, nil
}
