package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	ctx := newCommandContext()

	rootCmd := &cobra.Command{
		Use:           "compassctl",
		Short:         "Compass LK maintenance CLI",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			ctx.close()
		},
	}

	rootCmd.AddCommand(newDedupeCommand(ctx))
	rootCmd.AddCommand(newAssignImagesCommand(ctx))
	rootCmd.AddCommand(newScanDescriptionsCommand(ctx))

	return rootCmd
}
