package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vango-dev/tagkit/internal/playground"
)

func serveCmd(a *app) *cobra.Command {
	var (
		port int
		host string
	)

	cmd := &cobra.Command{
		Use:   "serve FILE",
		Short: "Serve a page in the playground",
		Long: `Serve one live document over HTTP. Events can be dispatched with
POST /dispatch or over the /ws websocket; /metrics exposes render metrics.

Examples:
  tagkit serve page.html
  tagkit serve page.html --port=8080
  tagkit serve page.html --host=0.0.0.0`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if port > 0 {
				a.cfg.Serve.Port = port
			}
			if host != "" {
				a.cfg.Serve.Host = host
			}
			return a.runServe(cmd, args[0])
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to listen on (default from config)")
	cmd.Flags().StringVarP(&host, "host", "H", "", "Host to bind to (default from config)")

	return cmd
}

func (a *app) runServe(cmd *cobra.Command, path string) error {
	markup, err := readMarkup(cmd, path)
	if err != nil {
		return err
	}
	reg, err := a.registry()
	if err != nil {
		return err
	}

	srv, err := playground.New(playground.Config{
		Registry:        reg,
		Markup:          markup,
		AllowedOrigins:  a.cfg.Serve.AllowedOrigins,
		Namespace:       a.cfg.Metrics.Namespace,
		TracerName:      a.cfg.Tracing.TracerName,
		Logger:          a.logger,
		DocumentOptions: a.documentOptions(),
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	out := cmd.OutOrStdout()
	success(out, "Serving %s", path)
	info(out, "Document:  %s/", a.cfg.URL())
	info(out, "Dispatch:  POST %s/dispatch", a.cfg.URL())
	info(out, "Metrics:   %s/metrics", a.cfg.URL())

	return srv.ListenAndServe(ctx, a.cfg.Address())
}
