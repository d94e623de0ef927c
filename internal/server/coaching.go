package server

import (
	"net/http"

	"github.com/ashrotd/singcoach/internal/coaching"
	"github.com/ashrotd/singcoach/internal/store"
)

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req coaching.AnalyzeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.respondError(w, r, err, "")
		return
	}

	resp, err := s.coach.Analyze(r.Context(), req)
	if err != nil {
		s.respondError(w, r, err, "")
		return
	}

	if req.SessionID != "" {
		summary := resp.Coaching.Summary
		if _, err := s.sessions.Update(r.Context(), req.SessionID, store.SessionUpdate{Feedback: &summary}); err != nil {
			s.logger.WarnContext(r.Context(), "failed to attach feedback to session",
				"session_id", req.SessionID,
				"error", err,
			)
		}
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"coaching": resp.Coaching,
		"using_ai": resp.UsingAI,
		"model":    resp.Model,
		"fallback": resp.Fallback,
	})
}

func (s *Server) handleQuickFeedback(w http.ResponseWriter, r *http.Request) {
	var req coaching.QuickRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.respondError(w, r, err, "")
		return
	}

	summary, err := s.coach.Quick(r.Context(), req)
	if err != nil {
		s.respondError(w, r, err, "")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"feedback": summary,
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	st := s.coach.AIStatus()
	respondJSON(w, http.StatusOK, map[string]any{
		"success":       true,
		"ai_configured": st.AIConfigured,
		"message":       st.Message,
	})
}
