package coaching

// tierTemplate is the hand-authored copy for one tier.
type tierTemplate struct {
	summary        string
	strengths      []string
	areasToImprove []string
	encouragement  string
}

var tierTemplates = map[Tier]tierTemplate{
	TierExcellent: {
		summary:        "Excellent performance! Your pitch accuracy is outstanding and shows great vocal control.",
		strengths:      []string{"Exceptional pitch accuracy", "Strong breath support", "Consistent tone quality"},
		areasToImprove: []string{"Explore expanding your vocal range", "Work on dynamic variation"},
		encouragement:  "You're doing amazingly well! Keep pushing your boundaries.",
	},
	TierGood: {
		summary:        "Good job! You demonstrate solid vocal fundamentals with room for refinement.",
		strengths:      []string{"Good overall pitch control", "Decent breath management"},
		areasToImprove: []string{"Improve accuracy on higher notes", "Work on sustaining longer phrases"},
		encouragement:  "You're making great progress! Consistent practice will take you to the next level.",
	},
	TierFair: {
		summary:        "You're on the right track! Focus on the fundamentals to build a stronger foundation.",
		strengths:      []string{"Good effort and persistence", "Some accurate note transitions"},
		areasToImprove: []string{"Strengthen breath support", "Work on pitch accuracy", "Practice scales regularly"},
		encouragement:  "Every great singer started where you are. Keep practicing daily!",
	},
	TierImproving: {
		summary:        "Great start! Let's focus on building your fundamentals with simple exercises.",
		strengths:      []string{"You're taking the first steps", "Willingness to practice"},
		areasToImprove: []string{"Master basic breath control", "Practice matching single notes", "Build confidence"},
		encouragement:  "Remember, every expert was once a beginner. You've got this!",
	},
}

// Shared by every tier.
var (
	defaultExercises = []Exercise{
		{
			Name:         "Breathing Exercise - Hiss Technique",
			Description:  "Builds diaphragm strength and breath control",
			Instructions: "1. Stand up straight\n2. Take a deep breath through your nose\n3. Exhale slowly making a 'sssss' sound\n4. Try to sustain for 20 seconds\n5. Repeat 5 times daily",
		},
		{
			Name:         "Pitch Matching",
			Description:  "Improves accuracy by matching reference tones",
			Instructions: "1. Play a note on piano or app\n2. Sing 'ah' to match the pitch\n3. Hold steady for 5 seconds\n4. Practice with C4, D4, E4, F4, G4",
		},
	}
	defaultNextSessionFocus = "Focus on breath control and matching single notes accurately."
)

// MockFeedback returns the rule-based feedback for the session's tier.
// It never fails and needs no network. The returned slices are fresh
// copies and may be modified by the caller.
func MockFeedback(in SessionInput) Feedback {
	tpl := tierTemplates[Classify(in.Score)]
	return Feedback{
		Summary:              tpl.summary,
		Strengths:            append([]string(nil), tpl.strengths...),
		AreasToImprove:       append([]string(nil), tpl.areasToImprove...),
		RecommendedExercises: append([]Exercise(nil), defaultExercises...),
		Encouragement:        tpl.encouragement,
		NextSessionFocus:     defaultNextSessionFocus,
	}
}
