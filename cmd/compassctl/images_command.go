package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newAssignImagesCommand(ctx *commandContext) *cobra.Command {
	var apply bool

	cmd := &cobra.Command{
		Use:   "assign-images",
		Short: "Match local images to destinations without one",
		RunE: func(cmd *cobra.Command, args []string) error {
			service, err := ctx.ensureService(cmd.Context())
			if err != nil {
				return err
			}
			catalog, err := ctx.buildCatalog(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to scan asset roots: %w", err)
			}
			overrides, _, err := ctx.matchConfig()
			if err != nil {
				return fmt.Errorf("failed to load match config: %w", err)
			}

			assignments, err := service.AssignLocalImages(cmd.Context(), catalog, overrides, apply)
			if err != nil {
				return err
			}
			if len(assignments) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No destinations are missing an image, or nothing matched.")
				return nil
			}

			rows := make([][]string, 0, len(assignments))
			for _, a := range assignments {
				rows = append(rows, []string{a.Name, a.ImageURL, a.Source})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Destination", "Image", "Source"}, rows))

			if apply {
				fmt.Fprintf(cmd.OutOrStdout(), "Applied %d assignment(s).\n", len(assignments))
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "%d assignment(s) proposed. Re-run with --apply to persist.\n", len(assignments))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&apply, "apply", false, "Persist the proposed assignments")

	return cmd
}
