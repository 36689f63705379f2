package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vango-dev/tagkit/pkg/diag"
	"github.com/vango-dev/tagkit/pkg/element"
)

func checkCmd(a *app) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "check FILE",
		Short: "Report component diagnostics for a page",
		Long: `Load an HTML page and print every diagnostic its components report:
invalid or missing attributes, failing hooks and failing renders.
Exits non-zero when anything was reported.

Examples:
  tagkit check page.html
  tagkit check page.html --format json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runCheck(cmd, args[0], format)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "Output format: text, compact or json (default from config)")

	return cmd
}

func (a *app) runCheck(cmd *cobra.Command, path, format string) error {
	f := a.cfg.DiagnosticFormat()
	if format != "" {
		var err error
		if f, err = diag.ParseFormat(format); err != nil {
			return err
		}
	}

	markup, err := readMarkup(cmd, path)
	if err != nil {
		return err
	}
	reg, err := a.registry()
	if err != nil {
		return err
	}

	rec := diag.NewRecorder()
	out := cmd.OutOrStdout()
	opts := append(a.documentOptions(), element.WithDiagnostics(diag.Multi(rec, diag.NewWriter(out, f))))
	doc := element.NewDocument(reg, opts...)
	if err := doc.LoadString(markup); err != nil {
		return err
	}

	if n := rec.Len(); n > 0 {
		return fmt.Errorf("%s: %d diagnostic(s) in %d component(s)", path, n, len(doc.Instances()))
	}
	if f != diag.FormatJSON {
		success(out, "%s: %d component(s), no diagnostics", path, len(doc.Instances()))
	}
	return nil
}
