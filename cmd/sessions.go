package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ashrotd/singcoach/internal/store"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Inspect recorded practice sessions",
}

var sessionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List sessions, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		user, _ := cmd.Flags().GetString("user")
		limit, _ := cmd.Flags().GetInt("limit")
		offset, _ := cmd.Flags().GetInt("offset")

		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		list, err := e.store.SessionRepo().List(cmd.Context(),
			store.SessionFilter{UserID: user},
			store.Page{Limit: limit, Offset: offset},
		)
		if err != nil {
			return fmt.Errorf("list sessions: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(list) == 0 {
			fmt.Fprintln(out, "No sessions found.")
			return nil
		}

		// Header.
		fmt.Fprintf(out, "%-36s  %-19s  %-12s  %6s  %7s  %s\n",
			"ID", "Created", "User", "Score", "Secs", "Feedback")
		fmt.Fprintln(out, strings.Repeat("─", 100))

		for _, s := range list {
			fmt.Fprintf(out, "%-36s  %-19s  %-12s  %6s  %7s  %s\n",
				s.ID,
				s.CreatedAt.Local().Format("2006-01-02 15:04:05"),
				truncate(orDash(s.UserID), 12),
				formatOptFloat(s.Score, "%.1f"),
				formatOptFloat(s.DurationSeconds, "%.0f"),
				truncate(orDash(derefString(s.Feedback)), 40),
			)
		}
		fmt.Fprintf(out, "\n%d sessions\n", len(list))
		return nil
	},
}

var sessionsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		s, err := e.store.SessionRepo().Get(cmd.Context(), args[0])
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("session %s not found", args[0])
		}
		if err != nil {
			return fmt.Errorf("get session: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "ID:        %s\n", s.ID)
		fmt.Fprintf(out, "User:      %s\n", orDash(s.UserID))
		fmt.Fprintf(out, "Audio:     %s\n", s.AudioURL)
		fmt.Fprintf(out, "Score:     %s\n", formatOptFloat(s.Score, "%.1f"))
		fmt.Fprintf(out, "Duration:  %ss\n", formatOptFloat(s.DurationSeconds, "%.0f"))
		fmt.Fprintf(out, "Created:   %s\n", s.CreatedAt.Local().Format("2006-01-02 15:04:05"))
		fmt.Fprintf(out, "Updated:   %s\n", s.UpdatedAt.Local().Format("2006-01-02 15:04:05"))
		if s.Feedback != nil {
			fmt.Fprintf(out, "Feedback:  %s\n", *s.Feedback)
		}
		if len(s.PitchData) > 0 {
			fmt.Fprintln(out)
			fmt.Fprintln(out, "Pitch data:")
			fmt.Fprintln(out, string(s.PitchData))
		}
		return nil
	},
}

var sessionsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		err = e.store.SessionRepo().Delete(cmd.Context(), args[0])
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("session %s not found", args[0])
		}
		if err != nil {
			return fmt.Errorf("delete session: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted session %s\n", args[0])
		return nil
	},
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func formatOptFloat(f *float64, format string) string {
	if f == nil {
		return "-"
	}
	return fmt.Sprintf(format, *f)
}

func init() {
	sessionsListCmd.Flags().StringP("user", "u", "", "Only sessions for this user ID")
	sessionsListCmd.Flags().IntP("limit", "n", store.DefaultPageLimit, "Number of sessions to show")
	sessionsListCmd.Flags().Int("offset", 0, "Number of sessions to skip")

	sessionsCmd.AddCommand(sessionsListCmd)
	sessionsCmd.AddCommand(sessionsShowCmd)
	sessionsCmd.AddCommand(sessionsDeleteCmd)
}
