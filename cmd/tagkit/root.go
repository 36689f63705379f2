package main

import (
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/vango-dev/tagkit/internal/config"
	tkerrors "github.com/vango-dev/tagkit/internal/errors"
	"github.com/vango-dev/tagkit/pkg/components"
	"github.com/vango-dev/tagkit/pkg/element"
	"github.com/vango-dev/tagkit/pkg/render"
)

// app holds the state shared by every command.
type app struct {
	configPath string
	verbose    bool
	noColor    bool

	cfg    *config.Config
	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "tagkit",
		Short: "Render and explore declarative components",
		Long: `tagkit upgrades custom tags in HTML into live components.

Each registered tag binds its attributes to state, renders into an
isolated style scope, and re-renders once per unit of work when its
state changes. Commands:

  • render   upgrade a page and print the result
  • check    report component diagnostics
  • serve    explore a page in the browser
  • tags     list built-in components`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "Config file (default: tagkit.json or tagkit.yaml in the current directory or a parent)")
	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&a.noColor, "no-color", false, "Disable colored output")

	rootCmd.AddCommand(
		renderCmd(a),
		checkCmd(a),
		serveCmd(a),
		tagsCmd(a),
		versionCmd(),
	)
	return rootCmd
}

func (a *app) setup(cmd *cobra.Command) error {
	var err error
	if a.configPath != "" {
		a.cfg, err = config.LoadFile(a.configPath)
	} else {
		a.cfg, err = config.Discover(".")
	}
	if err != nil {
		return err
	}
	if err := a.cfg.Validate(); err != nil {
		return err
	}

	if a.noColor || !a.cfg.Diagnostics.Color {
		tkerrors.DisableColors()
	}

	level := slog.LevelInfo
	if a.verbose {
		level = slog.LevelDebug
	}
	a.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	slog.SetDefault(a.logger)

	if path := a.cfg.Path(); path != "" {
		a.logger.Debug("loaded config", "path", path)
	}
	return nil
}

// registry returns a registry holding every built-in component.
func (a *app) registry() (*element.Registry, error) {
	reg := element.NewRegistry()
	if err := components.Register(reg); err != nil {
		return nil, err
	}
	return reg, nil
}

// documentOptions translates the configuration into document options.
func (a *app) documentOptions() []element.Option {
	opts := []element.Option{
		element.WithLogger(a.logger),
		element.WithMaxFlushPasses(a.cfg.Scheduler.MaxFlushPasses),
		element.WithRenderConfig(a.renderConfig()),
	}
	if a.cfg.Scheduler.ManualFlush {
		opts = append(opts, element.WithManualFlush())
	}
	return opts
}

func (a *app) renderConfig() render.RendererConfig {
	return render.RendererConfig{
		Pretty: a.cfg.Render.Pretty,
		Indent: a.cfg.Render.Indent,
	}
}

// readMarkup reads a page from path, or from stdin when path is "-".
func readMarkup(cmd *cobra.Command, path string) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", tkerrors.New(tkerrors.CodeMarkupRead).
			WithDetail("Could not read " + path + ": " + err.Error()).
			Wrap(err)
	}
	return string(data), nil
}
