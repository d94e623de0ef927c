package coaching

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ashrotd/singcoach/internal/llm"
)

// Fixed copy for degraded feedback.
const (
	DegradedEncouragement    = "Keep practicing!"
	DegradedNextSessionFocus = "Continue working on the areas mentioned above."
)

// errNoObject is reported when the text has no balanced JSON object.
var errNoObject = errors.New("no JSON object in response")

// Normalized is the tagged result of Normalize. When Degraded is false,
// Feedback was parsed from a schema-valid object. When it is true,
// Feedback is the degraded form and Err says why.
type Normalized struct {
	Feedback Feedback
	Degraded bool
	Err      error
}

// Normalize turns a raw provider reply into Feedback. It never fails:
// text without a valid feedback object yields the degraded form, whose
// summary is the raw text verbatim.
func Normalize(raw string) Normalized {
	fb, err := parseFeedback(raw)
	if err != nil {
		return Normalized{Feedback: degradedFeedback(raw), Degraded: true, Err: err}
	}
	return Normalized{Feedback: fb}
}

func parseFeedback(raw string) (Feedback, error) {
	span, ok := findObject(raw)
	if !ok {
		return Feedback{}, errNoObject
	}

	if err := llm.ValidateJSON(FeedbackSchema, []byte(span)); err != nil {
		return Feedback{}, err
	}

	var fb Feedback
	if err := json.Unmarshal([]byte(span), &fb); err != nil {
		return Feedback{}, fmt.Errorf("decode feedback: %w", err)
	}
	return fb.withEmptySlices(), nil
}

func degradedFeedback(raw string) Feedback {
	return Feedback{
		Summary:              raw,
		Strengths:            []string{},
		AreasToImprove:       []string{},
		RecommendedExercises: []Exercise{},
		Encouragement:        DegradedEncouragement,
		NextSessionFocus:     DegradedNextSessionFocus,
	}
}

// withEmptySlices replaces nil slices so the JSON form never has nulls.
func (f Feedback) withEmptySlices() Feedback {
	if f.Strengths == nil {
		f.Strengths = []string{}
	}
	if f.AreasToImprove == nil {
		f.AreasToImprove = []string{}
	}
	if f.RecommendedExercises == nil {
		f.RecommendedExercises = []Exercise{}
	}
	return f
}

// findObject returns the first balanced {...} span that is valid JSON.
// Braces inside JSON strings are ignored. If a candidate span is not
// valid JSON, scanning resumes at the next opening brace.
func findObject(s string) (string, bool) {
	for start := 0; start < len(s); start++ {
		if s[start] != '{' {
			continue
		}
		end, ok := matchBrace(s, start)
		if !ok {
			continue
		}
		if span := s[start : end+1]; json.Valid([]byte(span)) {
			return span, true
		}
	}
	return "", false
}

// matchBrace returns the index of the brace closing the one at start.
func matchBrace(s string, start int) (int, bool) {
	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i, true
			}
		}
	}
	return 0, false
}
