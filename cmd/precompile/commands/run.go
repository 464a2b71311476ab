package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (c *CLI) newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Restore, rebuild, cache and sync compiled assets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts := runOptions(cmd)
			opts.Required, _ = cmd.Flags().GetBool("required")

			report, err := c.app.Run(cmd.Context(), opts)
			if report != nil {
				out := cmd.OutOrStdout()
				_, _ = fmt.Fprintf(out, "outcome: %s\n", report.Outcome)
				if report.Sync != nil {
					_, _ = fmt.Fprintf(out, "sync: %d uploaded, %d skipped, %d failed\n",
						report.Sync.Uploaded, report.Sync.Skipped, report.Sync.Failed)
				}
			}
			return err
		},
	}
	cmd.Flags().BoolP("required", "r", false, "Fail when the build task cannot be started")
	return cmd
}
