package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/compasslk/compass/internal/app/dedupe"
)

func newDedupeCommand(ctx *commandContext) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "dedupe",
		Short: "Resolve duplicate destinations",
		Long: "Computes the duplicate removal plan and prints it. " +
			"Without --yes nothing is deleted; with --yes the plan is " +
			"audited to disk and then applied.",
		RunE: func(cmd *cobra.Command, args []string) error {
			service, err := ctx.ensureService(cmd.Context())
			if err != nil {
				return err
			}

			plan, err := service.DedupePreview(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to compute plan: %w", err)
			}
			if plan.Empty() {
				fmt.Fprintln(cmd.OutOrStdout(), "No duplicates found.")
				return nil
			}

			fmt.Fprintln(cmd.OutOrStdout(), renderPlan(plan))
			fmt.Fprintf(cmd.OutOrStdout(), "%d group(s), %d row(s) slated for removal\n",
				len(plan.Groups), len(plan.RemoveIDs()))

			if !yes {
				fmt.Fprintln(cmd.OutOrStdout(), "Dry run. Re-run with --yes to apply.")
				return nil
			}

			result, err := service.DedupeApply(cmd.Context(), plan, true)
			if err != nil {
				return fmt.Errorf("failed to apply plan: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d row(s). Audit record: %s\n",
				len(result.Deleted), result.AuditPath)
			if result.Partial() {
				for _, f := range result.Failed {
					fmt.Fprintf(cmd.ErrOrStderr(), "failed: %s: %s\n", f.ID, f.Message())
				}
				return fmt.Errorf("%d row(s) could not be removed", len(result.Failed))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "Apply the plan instead of printing it")

	return cmd
}

func renderPlan(plan dedupe.Plan) string {
	headers := []string{"Key", "Keeper", "Score", "Removes"}
	rows := make([][]string, 0, len(plan.Groups))
	for _, g := range plan.Groups {
		rows = append(rows, []string{
			g.Key,
			g.Keeper.ID + "  " + g.Keeper.Name,
			strconv.Itoa(dedupe.Score(g.Keeper)),
			strconv.Itoa(len(g.Remove)),
		})
	}
	return renderTable(headers, rows)
}
