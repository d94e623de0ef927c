package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ashrotd/singcoach/internal/coaching"
	"github.com/ashrotd/singcoach/internal/store"
	"github.com/ashrotd/singcoach/internal/ui/components"
)

var feedbackCmd = &cobra.Command{
	Use:   "feedback",
	Short: "Generate full coaching feedback for a practice take",
	Example: `  singcoach feedback --score 82 --duration 45
  singcoach feedback --score 64 --pitch-file take.json --session 6f1c2d7e-...`,
	RunE: func(cmd *cobra.Command, args []string) error {
		req, err := analyzeRequestFromFlags(cmd)
		if err != nil {
			return err
		}
		asJSON, _ := cmd.Flags().GetBool("json")

		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		ctx := cmd.Context()
		coach, err := e.newCoach(ctx)
		if err != nil {
			return fmt.Errorf("create coach: %w", err)
		}

		resp, err := coach.Analyze(ctx, req)
		if err != nil {
			return err
		}

		if req.SessionID != "" {
			summary := resp.Coaching.Summary
			if _, err := e.store.SessionRepo().Update(ctx, req.SessionID, store.SessionUpdate{Feedback: &summary}); err != nil {
				e.logger.Warn("failed to attach feedback to session", "session_id", req.SessionID, "error", err)
			}
		}

		out := cmd.OutOrStdout()
		if asJSON {
			return writeJSON(out, resp)
		}
		fmt.Fprintln(out, components.FeedbackCard(*req.Score, resp.Coaching, resp.Model, resp.UsingAI))
		if resp.Fallback {
			fmt.Fprintln(cmd.ErrOrStderr(), "AI provider unavailable; showing mock feedback:", resp.Result.ProviderError)
		}
		return nil
	},
}

var quickCmd = &cobra.Command{
	Use:   "quick",
	Short: "Print a one-paragraph feedback summary",
	RunE: func(cmd *cobra.Command, args []string) error {
		full, err := analyzeRequestFromFlags(cmd)
		if err != nil {
			return err
		}

		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		ctx := cmd.Context()
		coach, err := e.newCoach(ctx)
		if err != nil {
			return fmt.Errorf("create coach: %w", err)
		}

		summary, err := coach.Quick(ctx, coaching.QuickRequest{
			Score:           full.Score,
			PitchData:       full.PitchData,
			DurationSeconds: full.DurationSeconds,
		})
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), summary)
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Report whether AI coaching is configured",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		coach, err := e.newCoach(cmd.Context())
		if err != nil {
			return fmt.Errorf("create coach: %w", err)
		}

		st := coach.AIStatus()
		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return writeJSON(cmd.OutOrStdout(), st)
		}
		fmt.Fprintln(cmd.OutOrStdout(), st.Message)
		if st.AIConfigured {
			fmt.Fprintf(cmd.OutOrStdout(), "Provider:  %s\nModel:     %s\n", e.cfg.LLM.Provider, e.cfg.LLM.ResolvedModel())
		}
		return nil
	},
}

// analyzeRequestFromFlags builds a request from --score, --duration,
// --pitch-data / --pitch-file and --session. Unset score stays nil so
// validation reports it.
func analyzeRequestFromFlags(cmd *cobra.Command) (coaching.AnalyzeRequest, error) {
	var req coaching.AnalyzeRequest

	if cmd.Flags().Changed("score") {
		v, _ := cmd.Flags().GetFloat64("score")
		req.Score = &v
	}
	if cmd.Flags().Changed("duration") {
		v, _ := cmd.Flags().GetFloat64("duration")
		req.DurationSeconds = &v
	}
	if f := cmd.Flags().Lookup("session"); f != nil {
		req.SessionID = f.Value.String()
	}

	inline, _ := cmd.Flags().GetString("pitch-data")
	path, _ := cmd.Flags().GetString("pitch-file")
	switch {
	case inline != "" && path != "":
		return req, fmt.Errorf("use --pitch-data or --pitch-file, not both")
	case inline != "":
		req.PitchData = json.RawMessage(inline)
	case path != "":
		raw, err := readPitchFile(path)
		if err != nil {
			return req, err
		}
		req.PitchData = raw
	}
	if len(req.PitchData) > 0 && !json.Valid(req.PitchData) {
		return req, fmt.Errorf("pitch data is not valid JSON")
	}
	return req, nil
}

func readPitchFile(path string) (json.RawMessage, error) {
	var r io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open pitch file: %w", err)
		}
		defer f.Close()
		r = f
	}
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read pitch file: %w", err)
	}
	return raw, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func init() {
	for _, c := range []*cobra.Command{feedbackCmd, quickCmd} {
		c.Flags().Float64P("score", "s", 0, "Overall accuracy score (0-100)")
		c.Flags().Float64P("duration", "d", 0, "Recording length in seconds")
		c.Flags().String("pitch-data", "", "Pitch analysis as inline JSON")
		c.Flags().String("pitch-file", "", "Read pitch analysis JSON from a file (- for stdin)")
	}
	feedbackCmd.Flags().String("session", "", "Session ID to attach the summary to")
	feedbackCmd.Flags().Bool("json", false, "Print the response as JSON")
	statusCmd.Flags().Bool("json", false, "Print the status as JSON")
}
