package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ashrotd/singcoach/internal/coaching"
	"github.com/ashrotd/singcoach/internal/ui/components"
)

var statsCmd = &cobra.Command{
	Use:   "stats <user-id>",
	Short: "Show practice statistics for a user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		rows, err := e.store.SessionRepo().ListForStats(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("query sessions: %w", err)
		}

		sessions := make([]coaching.SessionStat, 0, len(rows))
		for _, r := range rows {
			sessions = append(sessions, coaching.SessionStat{Score: r.Score, DurationSeconds: r.DurationSeconds})
		}
		st := coaching.UserStats(sessions)

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return writeJSON(cmd.OutOrStdout(), st)
		}
		fmt.Fprintln(cmd.OutOrStdout(), components.StatsCard(args[0], st))
		return nil
	},
}

func init() {
	statsCmd.Flags().Bool("json", false, "Print the statistics as JSON")
}
