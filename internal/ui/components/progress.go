package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/ashrotd/singcoach/internal/coaching"
	"github.com/ashrotd/singcoach/internal/ui/theme"
)

// ScoreBar displays a score as a horizontal bar colored by its tier.
type ScoreBar struct {
	Label string
	Score float64
	Width int
}

// NewScoreBar creates a new score bar.
func NewScoreBar(label string, score float64, width int) ScoreBar {
	return ScoreBar{
		Label: label,
		Score: score,
		Width: width,
	}
}

// View renders the score bar.
func (p ScoreBar) View() string {
	var result string

	if p.Label != "" {
		result += lipgloss.NewStyle().Foreground(theme.Text).Render(p.Label) + "  "
	}

	labelWidth := lipgloss.Width(result)
	scoreWidth := 7 // "  100.0"

	barWidth := p.Width - labelWidth - scoreWidth
	if barWidth < 4 {
		barWidth = 4
	}

	filled := int(float64(barWidth) * p.Score / 100)
	if filled > barWidth {
		filled = barWidth
	}
	if filled < 0 {
		filled = 0
	}
	empty := barWidth - filled

	tier := coaching.Classify(p.Score).String()
	filledStr := lipgloss.NewStyle().
		Background(theme.TierColor(tier)).
		Render(strings.Repeat(" ", filled))

	emptyStr := lipgloss.NewStyle().
		Background(theme.Border).
		Render(strings.Repeat(" ", empty))

	result += filledStr + emptyStr
	result += lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Render(fmt.Sprintf("  %5.1f", p.Score))

	return result
}
