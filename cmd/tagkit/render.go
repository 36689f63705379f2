package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/vango-dev/tagkit/pkg/diag"
	"github.com/vango-dev/tagkit/pkg/element"
)

type instanceState struct {
	Tag     string         `yaml:"tag"`
	Scope   string         `yaml:"scope"`
	Renders int            `yaml:"renders"`
	State   map[string]any `yaml:"state"`
}

func renderCmd(a *app) *cobra.Command {
	var (
		events    []string
		pretty    bool
		showState bool
	)

	cmd := &cobra.Command{
		Use:   "render FILE",
		Short: "Upgrade the components in a page and print the result",
		Long: `Load an HTML page, upgrade every built-in component tag, optionally
dispatch events, and print the resulting body. Use "-" to read stdin.

Each --event is selector:event[=data] and runs as its own unit of work,
in order. Diagnostics are printed to stderr.

Examples:
  tagkit render page.html
  tagkit render page.html --event "click-counter button.inc:click" --state
  tagkit render - --pretty < page.html`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runRender(cmd, args[0], events, pretty, showState)
		},
	}

	cmd.Flags().StringArrayVarP(&events, "event", "e", nil, "Event to dispatch as selector:event[=data] (repeatable)")
	cmd.Flags().BoolVar(&pretty, "pretty", false, "Indent component output")
	cmd.Flags().BoolVar(&showState, "state", false, "Print instance state as YAML after the HTML")

	return cmd
}

func (a *app) runRender(cmd *cobra.Command, path string, events []string, pretty, showState bool) error {
	flags := make([]eventFlag, 0, len(events))
	for _, e := range events {
		f, err := parseEventFlag(e)
		if err != nil {
			return err
		}
		flags = append(flags, f)
	}

	markup, err := readMarkup(cmd, path)
	if err != nil {
		return err
	}
	if pretty {
		a.cfg.Render.Pretty = true
	}

	reg, err := a.registry()
	if err != nil {
		return err
	}
	opts := append(a.documentOptions(),
		element.WithDiagnostics(diag.NewWriter(cmd.ErrOrStderr(), a.cfg.DiagnosticFormat())),
	)
	doc := element.NewDocument(reg, opts...)
	if err := doc.LoadString(markup); err != nil {
		return err
	}

	for _, f := range flags {
		if err := doc.DispatchSelector(f.Selector, f.Event, f.Data); err != nil {
			return fmt.Errorf("dispatch %s on %q: %w", f.Event, f.Selector, err)
		}
		if a.cfg.Scheduler.ManualFlush {
			doc.Flush()
		}
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, doc.BodyHTML())

	if showState {
		insts := doc.Instances()
		states := make([]instanceState, 0, len(insts))
		for _, inst := range insts {
			states = append(states, instanceState{
				Tag:     inst.Tag(),
				Scope:   inst.ScopeID(),
				Renders: inst.Renders(),
				State:   inst.State().Snapshot(),
			})
		}
		fmt.Fprintln(out, "---")
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(states); err != nil {
			return err
		}
		return enc.Close()
	}
	return nil
}
