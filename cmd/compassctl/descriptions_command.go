package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newScanDescriptionsCommand(ctx *commandContext) *cobra.Command {
	var apply bool

	cmd := &cobra.Command{
		Use:   "scan-descriptions",
		Short: "Fill missing destination descriptions with fallback text",
		RunE: func(cmd *cobra.Command, args []string) error {
			service, err := ctx.ensureService(cmd.Context())
			if err != nil {
				return err
			}
			overrides, textRules, err := ctx.matchConfig()
			if err != nil {
				return fmt.Errorf("failed to load match config: %w", err)
			}

			fills, err := service.FillMissingDescriptions(cmd.Context(), overrides, textRules, apply)
			if err != nil {
				return err
			}
			if len(fills) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Every destination already has a description.")
				return nil
			}

			rows := make([][]string, 0, len(fills))
			for _, f := range fills {
				source := "template"
				if f.FromRule {
					source = "rule"
				}
				rows = append(rows, []string{f.Name, truncate(f.Description, 60), source})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Destination", "Description", "Source"}, rows))

			if apply {
				fmt.Fprintf(cmd.OutOrStdout(), "Applied %d description(s).\n", len(fills))
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "%d description(s) proposed. Re-run with --apply to persist.\n", len(fills))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&apply, "apply", false, "Persist the proposed descriptions")

	return cmd
}

// truncate shortens to n runes so accented text never splits mid-rune.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-3]) + "..."
}
