package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func (c *CLI) newCacheCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cache",
		Short: "Show what is cached for the source and output trees",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			statuses, err := c.app.CacheStatus(runOptions(cmd))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, s := range statuses {
				if s.Entry == nil {
					_, _ = fmt.Fprintf(out, "%s: not cached\n", s.Key)
					continue
				}
				_, _ = fmt.Fprintf(out, "%s: %d files, %s, stored %s\n  %s\n",
					s.Key, s.Entry.Files, s.Entry.Digest, s.Entry.StoredAt.Format(time.RFC3339), s.Path)
			}
			return nil
		},
	}
}
