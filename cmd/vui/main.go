package main

import (
	stderrors "errors"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/vango-dev/vui/internal/config"
	"github.com/vango-dev/vui/internal/errors"
	"github.com/vango-dev/vui/pkg/vui"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// app holds state shared by all commands once flags are parsed.
type app struct {
	configDir string
	debug     bool
	logLevel  string
	logFormat string

	cfg    *config.Config
	logger *slog.Logger
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		printError(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "vui",
		Short: "Render and inspect vui component trees",
		Long: `vui renders component trees into an in-memory document.

Use it to render the bundled demos, save HTML snapshots locally or to S3,
and serve a devtools inspector that accepts events over a websocket.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "version" {
				return nil
			}
			return a.setup(cmd.ErrOrStderr())
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&a.configDir, "config", "c", "", "Directory containing vui.json (default: nearest above working directory)")
	flags.BoolVar(&a.debug, "debug", false, "Enable development checks")
	flags.StringVar(&a.logLevel, "log-level", "", "Log level: debug, info, warn, error (default from vui.json)")
	flags.StringVar(&a.logFormat, "log-format", "", "Log format: text or json (default from vui.json)")

	rootCmd.AddCommand(
		renderCmd(a),
		snapshotCmd(a),
		serveCmd(a),
		demosCmd(),
		versionCmd(),
	)
	return rootCmd
}

// setup loads configuration, applies flag overrides and builds the logger.
func (a *app) setup(stderr io.Writer) error {
	var (
		cfg *config.Config
		err error
	)
	if a.configDir != "" {
		cfg, err = config.Load(a.configDir)
	} else {
		cfg, err = config.LoadFromWorkingDir()
	}
	if err != nil {
		return err
	}

	if a.debug {
		cfg.Debug = true
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	if a.logFormat != "" {
		cfg.Log.Format = a.logFormat
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	opts := &slog.HandlerOptions{Level: cfg.LogLevel()}
	var handler slog.Handler
	if cfg.Log.Format == "json" {
		handler = slog.NewJSONHandler(stderr, opts)
	} else {
		handler = slog.NewTextHandler(stderr, opts)
	}

	a.cfg = cfg
	a.logger = slog.New(handler)
	return nil
}

// printError prints err, using the structured format for runtime and
// registry errors.
func printError(w io.Writer, err error) {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		errors.SetColors(false)
	}
	var (
		rerr *vui.RenderError
		herr *vui.HookMisuseError
	)
	switch {
	case stderrors.As(err, &rerr):
		err = rerr.Structured()
	case stderrors.As(err, &herr):
		err = herr.Structured()
	}
	errors.Fprint(w, err)
}
