package coaching

import (
	"bytes"
	"encoding/json"
	"strconv"
	"text/template"
)

var coachingPromptTemplate = template.Must(template.New("coaching").Parse(`You are an expert vocal coach with years of experience. You're analyzing a singing session and need to provide constructive, encouraging feedback.

**Session Data:**
- Overall Score: {{.Score}}/100
- Recording Duration: {{.Duration}} seconds
- Pitch Data: {{.PitchData}}

**Your Task:**
Analyze this singing session using your expertise as a vocal coach. Follow these steps in your thinking (but don't show these steps to the student):

1. **Pattern Analysis**: What patterns do you notice in the pitch accuracy? Are they consistent or inconsistent? Better on certain notes?

2. **Root Cause**: Based on the patterns, what is likely causing any issues? (breath support, tension, range limitations, etc.)

3. **Strengths**: What did they do well? Be specific and encouraging.

4. **Improvement Areas**: What's the main thing they should focus on?

5. **Exercise Recommendation**: What specific vocal exercise would help most?

Now provide your coaching feedback in a warm, encouraging tone. Only show the final result, never the analysis steps. Structure your response as JSON:

{
  "summary": "Brief overall assessment (2-3 sentences)",
  "strengths": ["strength 1", "strength 2"],
  "areas_to_improve": ["area 1", "area 2"],
  "recommended_exercises": [
    {
      "name": "Exercise name",
      "description": "What it helps with",
      "instructions": "How to do it"
    }
  ],
  "encouragement": "Personal encouraging message",
  "next_session_focus": "What to focus on next time"
}

Remember: Be specific, encouraging, and actionable. The student wants to improve!`))

type promptData struct {
	Score     string
	Duration  string
	PitchData string
}

// BuildPrompt renders the coaching instruction for a session.
func BuildPrompt(in SessionInput) string {
	var buf bytes.Buffer
	// The template is static and the data is plain strings.
	_ = coachingPromptTemplate.Execute(&buf, promptData{
		Score:     formatNumber(in.Score),
		Duration:  formatNumber(in.DurationSeconds),
		PitchData: formatPitchData(in.PitchData),
	})
	return buf.String()
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// formatPitchData pretty-prints the payload with two-space indentation.
// Missing or malformed payloads render as an empty object.
func formatPitchData(raw json.RawMessage) string {
	if len(bytes.TrimSpace(raw)) == 0 {
		return "{}"
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return "{}"
	}
	return buf.String()
}
