package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ludo-technologies/dsastcheck/domain"
	"github.com/ludo-technologies/dsastcheck/internal/rules"
	"github.com/ludo-technologies/dsastcheck/service"
)

func rulesCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "rules",
		Short: "List the rule ids the checker reports",
		Long: `List every rule id with the files it applies to. Rule ids are what
allowlist entries and rules.disabled refer to.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch domain.OutputFormat(format) {
			case domain.OutputFormatJSON:
				return service.WriteJSON(out, rules.Catalog)
			case domain.OutputFormatYAML:
				return service.WriteYAML(out, rules.Catalog)
			case domain.OutputFormatText, "":
				w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "RULE\tSCOPE\tDESCRIPTION")
				for _, info := range rules.Catalog {
					fmt.Fprintf(w, "%s\t%s\t%s\n", info.ID, info.Scope, info.Description)
				}
				return w.Flush()
			default:
				return fmt.Errorf("unsupported output format: %s", format)
			}
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "text", "Output format: text, json, yaml")
	return cmd
}
