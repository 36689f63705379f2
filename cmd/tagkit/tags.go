package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/vango-dev/tagkit/pkg/components"
)

func tagsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tags [TAG...]",
		Short: "List built-in components and their attributes",
		Long: `List the built-in component tags with a usage example and the
attributes each one declares. Pass tag names to show only those.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runTags(cmd, args)
		},
	}
}

func (a *app) runTags(cmd *cobra.Command, only []string) error {
	want := map[string]bool{}
	for _, t := range only {
		want[strings.ToLower(t)] = true
	}

	out := cmd.OutOrStdout()
	shown := 0
	for _, def := range components.All() {
		if len(want) > 0 && !want[def.Tag()] {
			continue
		}
		shown++

		fmt.Fprintf(out, "<%s>\n", def.Tag())
		fmt.Fprintf(out, "  %s\n\n", def.Usage())

		tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "  ATTRIBUTE\tKIND\tDEFAULT\tREQUIRED\tOPTIONS")
		for _, spec := range def.Schema() {
			required := ""
			if spec.Required {
				required = "yes"
			}
			fmt.Fprintf(tw, "  %s\t%s\t%v\t%s\t%s\n",
				spec.Name, spec.Kind, spec.Default, required, strings.Join(spec.Options, "|"))
		}
		if err := tw.Flush(); err != nil {
			return err
		}
		fmt.Fprintln(out)
	}

	if shown == 0 && len(want) > 0 {
		return fmt.Errorf("no built-in component named %s", strings.Join(only, ", "))
	}
	return nil
}
