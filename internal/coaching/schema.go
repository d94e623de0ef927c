package coaching

import "github.com/ashrotd/singcoach/internal/llm"

// FeedbackSchema is the shape a provider reply must have to be accepted
// as structured feedback.
var FeedbackSchema = &llm.Schema{
	Name:        "coaching-feedback",
	Description: "Structured vocal coaching feedback for one practice session",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"summary": map[string]any{
				"type":        "string",
				"description": "Brief overall assessment (2-3 sentences)",
			},
			"strengths": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string"},
			},
			"areas_to_improve": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string"},
			},
			"recommended_exercises": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"name":         map[string]any{"type": "string"},
						"description":  map[string]any{"type": "string"},
						"instructions": map[string]any{"type": "string"},
					},
					"required": []any{"name", "description", "instructions"},
				},
			},
			"encouragement": map[string]any{
				"type": "string",
			},
			"next_session_focus": map[string]any{
				"type": "string",
			},
		},
		"required": []any{
			"summary", "strengths", "areas_to_improve",
			"recommended_exercises", "encouragement", "next_session_focus",
		},
	},
}
