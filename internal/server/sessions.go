package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ashrotd/singcoach/internal/coaching"
	"github.com/ashrotd/singcoach/internal/store"
)

const sessionNotFound = "Session not found"

// sessionJSON is the wire form of a session record.
type sessionJSON struct {
	ID              string          `json:"id"`
	UserID          *string         `json:"user_id"`
	AudioURL        string          `json:"audio_url"`
	PitchData       json.RawMessage `json:"pitch_data"`
	Feedback        *string         `json:"feedback"`
	Score           *float64        `json:"score"`
	DurationSeconds *float64        `json:"duration_seconds"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

func toSessionJSON(s *store.Session) sessionJSON {
	out := sessionJSON{
		ID:              s.ID,
		AudioURL:        s.AudioURL,
		PitchData:       s.PitchData,
		Feedback:        s.Feedback,
		Score:           s.Score,
		DurationSeconds: s.DurationSeconds,
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
	}
	if s.UserID != "" {
		uid := s.UserID
		out.UserID = &uid
	}
	if len(out.PitchData) == 0 {
		out.PitchData = json.RawMessage("null")
	}
	return out
}

type createSessionRequest struct {
	UserID          string          `json:"user_id"`
	AudioURL        string          `json:"audio_url" validate:"required"`
	PitchData       json.RawMessage `json:"pitch_data"`
	Feedback        *string         `json:"feedback"`
	Score           *float64        `json:"score"`
	DurationSeconds *float64        `json:"duration_seconds" validate:"omitempty,gte=0"`
}

// updateSessionRequest ignores id and created_at; unknown fields are
// dropped by the decoder.
type updateSessionRequest struct {
	UserID          *string         `json:"user_id"`
	AudioURL        *string         `json:"audio_url" validate:"omitempty,min=1"`
	PitchData       json.RawMessage `json:"pitch_data"`
	Feedback        *string         `json:"feedback"`
	Score           *float64        `json:"score"`
	DurationSeconds *float64        `json:"duration_seconds" validate:"omitempty,gte=0"`
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, err := queryInt(q.Get("limit"), "limit", store.DefaultPageLimit)
	if err != nil {
		s.respondError(w, r, err, "")
		return
	}
	offset, err := queryInt(q.Get("offset"), "offset", 0)
	if err != nil {
		s.respondError(w, r, err, "")
		return
	}
	if limit == 0 {
		limit = store.DefaultPageLimit
	}
	if limit > store.MaxPageLimit {
		limit = store.MaxPageLimit
	}

	list, err := s.sessions.List(r.Context(),
		store.SessionFilter{UserID: q.Get("user_id")},
		store.Page{Limit: limit, Offset: offset},
	)
	if err != nil {
		s.respondError(w, r, err, "")
		return
	}

	data := make([]sessionJSON, 0, len(list))
	for i := range list {
		data = append(data, toSessionJSON(&list[i]))
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data":    data,
		"count":   len(data),
		"pagination": map[string]int{
			"limit":  limit,
			"offset": offset,
		},
	})
}

func queryInt(raw, name string, def int) (int, error) {
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, &coaching.ValidationError{Field: name, Message: name + " must be a non-negative integer"}
	}
	return n, nil
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.respondError(w, r, err, "")
		return
	}
	if err := coaching.ValidateRequest(req); err != nil {
		s.respondError(w, r, err, "")
		return
	}

	sess := &store.Session{
		UserID:          req.UserID,
		AudioURL:        req.AudioURL,
		PitchData:       req.PitchData,
		Feedback:        req.Feedback,
		Score:           req.Score,
		DurationSeconds: req.DurationSeconds,
	}
	if err := s.sessions.Insert(r.Context(), sess); err != nil {
		s.respondError(w, r, err, "")
		return
	}

	respondJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"message": "Session created successfully",
		"data":    toSessionJSON(sess),
	})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, r, err, sessionNotFound)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data":    toSessionJSON(sess),
	})
}

func (s *Server) handleUpdateSession(w http.ResponseWriter, r *http.Request) {
	var req updateSessionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.respondError(w, r, err, "")
		return
	}
	if err := coaching.ValidateRequest(req); err != nil {
		s.respondError(w, r, err, "")
		return
	}

	sess, err := s.sessions.Update(r.Context(), chi.URLParam(r, "id"), store.SessionUpdate{
		UserID:          req.UserID,
		AudioURL:        req.AudioURL,
		PitchData:       req.PitchData,
		Feedback:        req.Feedback,
		Score:           req.Score,
		DurationSeconds: req.DurationSeconds,
	})
	if err != nil {
		s.respondError(w, r, err, sessionNotFound)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Session updated successfully",
		"data":    toSessionJSON(sess),
	})
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.respondError(w, r, err, sessionNotFound)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Session deleted successfully",
	})
}

func (s *Server) handleUserStats(w http.ResponseWriter, r *http.Request) {
	rows, err := s.sessions.ListForStats(r.Context(), chi.URLParam(r, "user_id"))
	if err != nil {
		s.respondError(w, r, err, "")
		return
	}

	stats := make([]coaching.SessionStat, 0, len(rows))
	for _, row := range rows {
		stats = append(stats, coaching.SessionStat{Score: row.Score, DurationSeconds: row.DurationSeconds})
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data":    coaching.UserStats(stats),
	})
}
