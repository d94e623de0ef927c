package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/ashrotd/singcoach/internal/coaching"
	"github.com/ashrotd/singcoach/internal/ui/theme"
)

const cardWidth = 72

// FeedbackCard renders coaching feedback for the terminal. model and
// usingAI describe where the feedback came from.
func FeedbackCard(score float64, fb coaching.Feedback, model string, usingAI bool) string {
	var b strings.Builder

	tier := coaching.Classify(score).String()
	b.WriteString(theme.Title.Render("Coaching Feedback"))
	b.WriteString("  ")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.TierColor(tier)).Render(tier))
	b.WriteString("\n\n")
	b.WriteString(NewScoreBar("Score", score, cardWidth-6).View())
	b.WriteString("\n\n")
	b.WriteString(theme.Body.Width(cardWidth - 6).Render(fb.Summary))
	b.WriteString("\n")

	writeList(&b, "Strengths", fb.Strengths)
	writeList(&b, "Areas to improve", fb.AreasToImprove)

	if len(fb.RecommendedExercises) > 0 {
		b.WriteString("\n")
		b.WriteString(theme.Heading.Render("Exercises"))
		b.WriteString("\n")
		for _, ex := range fb.RecommendedExercises {
			fmt.Fprintf(&b, "%s %s\n", theme.Bullet.String(), theme.Body.Bold(true).Render(ex.Name))
			fmt.Fprintf(&b, "  %s\n", theme.Body.Render(ex.Description))
			fmt.Fprintf(&b, "  %s\n", theme.Hint.Render(ex.Instructions))
		}
	}

	b.WriteString("\n")
	b.WriteString(theme.Body.Width(cardWidth - 6).Render(fb.Encouragement))
	b.WriteString("\n\n")
	b.WriteString(theme.Label.Render("Next session focus"))
	b.WriteString(theme.Body.Render(fb.NextSessionFocus))
	b.WriteString("\n")

	source := theme.Hint.Render("mock feedback")
	if usingAI {
		source = theme.Hint.Render("via " + model)
	}
	b.WriteString(source)

	return theme.Card.Render(b.String())
}

func writeList(b *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	b.WriteString("\n")
	b.WriteString(theme.Heading.Render(title))
	b.WriteString("\n")
	for _, it := range items {
		fmt.Fprintf(b, "%s %s\n", theme.Bullet.String(), theme.Body.Render(it))
	}
}

// StatsCard renders a user's practice statistics.
func StatsCard(userID string, st coaching.PracticeStats) string {
	var b strings.Builder

	b.WriteString(theme.Title.Render("Practice Stats"))
	if userID != "" {
		b.WriteString("  ")
		b.WriteString(theme.Hint.Render(userID))
	}
	b.WriteString("\n\n")

	row := func(label, value string) {
		b.WriteString(theme.Label.Render(label))
		b.WriteString(theme.Body.Render(value))
		b.WriteString("\n")
	}
	row("Sessions", fmt.Sprintf("%d", st.TotalSessions))
	row("Practice time", fmt.Sprintf("%d min (%d s)", st.TotalPracticeMinutes, st.TotalPracticeSeconds))
	b.WriteString("\n")
	b.WriteString(NewScoreBar("Average", st.AverageScore, cardWidth-6).View())
	b.WriteString("\n")
	b.WriteString(NewScoreBar("Best   ", st.BestScore, cardWidth-6).View())

	return theme.Card.Render(b.String())
}
