package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"
)

var sessionColumns = []string{
	"id", "user_id", "audio_url", "pitch_data", "feedback",
	"score", "duration_seconds", "created_at", "updated_at",
}

// sessionRepo implements SessionRepo with the ent SQL builder so the same
// code serves SQLite and PostgreSQL.
type sessionRepo struct {
	db      *sql.DB
	dialect string
	now     func() time.Time
}

func (r *sessionRepo) Insert(ctx context.Context, sess *Session) error {
	now := r.now().UTC()
	sess.ID = uuid.NewString()
	sess.CreatedAt = now
	sess.UpdatedAt = now

	query, args := entsql.Dialect(r.dialect).
		Insert(sessionsTable).
		Columns(sessionColumns...).
		Values(
			sess.ID,
			nullString(sess.UserID),
			sess.AudioURL,
			nullJSON(sess.PitchData),
			nullStringPtr(sess.Feedback),
			nullFloat(sess.Score),
			nullFloat(sess.DurationSeconds),
			formatTime(sess.CreatedAt),
			formatTime(sess.UpdatedAt),
		).
		Query()

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

func (r *sessionRepo) List(ctx context.Context, filter SessionFilter, page Page) ([]Session, error) {
	b := entsql.Dialect(r.dialect)
	sel := b.Select(sessionColumns...).From(b.Table(sessionsTable))
	if filter.UserID != "" {
		sel.Where(entsql.EQ(sel.C("user_id"), filter.UserID))
	}

	limit := page.Limit
	if limit <= 0 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	sel.OrderBy(entsql.Desc(sel.C("created_at")), entsql.Desc(sel.C("id"))).Limit(limit)
	if page.Offset > 0 {
		sel.Offset(page.Offset)
	}

	query, args := sel.Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	var out []Session
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *sess)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}
	return out, nil
}

func (r *sessionRepo) Get(ctx context.Context, id string) (*Session, error) {
	b := entsql.Dialect(r.dialect)
	sel := b.Select(sessionColumns...).From(b.Table(sessionsTable))
	sel.Where(entsql.EQ(sel.C("id"), id))

	query, args := sel.Query()
	sess, err := scanSession(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return sess, nil
}

func (r *sessionRepo) Update(ctx context.Context, id string, upd SessionUpdate) (*Session, error) {
	ub := entsql.Dialect(r.dialect).
		Update(sessionsTable).
		Set("updated_at", formatTime(r.now()))

	if upd.UserID != nil {
		ub.Set("user_id", nullString(*upd.UserID))
	}
	if upd.AudioURL != nil {
		ub.Set("audio_url", *upd.AudioURL)
	}
	if upd.PitchData != nil {
		ub.Set("pitch_data", nullJSON(upd.PitchData))
	}
	if upd.Feedback != nil {
		ub.Set("feedback", *upd.Feedback)
	}
	if upd.Score != nil {
		ub.Set("score", *upd.Score)
	}
	if upd.DurationSeconds != nil {
		ub.Set("duration_seconds", *upd.DurationSeconds)
	}

	query, args := ub.Where(entsql.EQ("id", id)).Query()
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("update session: %w", err)
	}
	if err := requireAffected(res); err != nil {
		return nil, err
	}
	return r.Get(ctx, id)
}

func (r *sessionRepo) Delete(ctx context.Context, id string) error {
	query, args := entsql.Dialect(r.dialect).
		Delete(sessionsTable).
		Where(entsql.EQ("id", id)).
		Query()

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return requireAffected(res)
}

func (r *sessionRepo) ListForStats(ctx context.Context, userID string) ([]SessionMetrics, error) {
	b := entsql.Dialect(r.dialect)
	sel := b.Select("score", "duration_seconds").From(b.Table(sessionsTable))
	sel.Where(entsql.EQ(sel.C("user_id"), userID))

	query, args := sel.Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query session metrics: %w", err)
	}
	defer rows.Close()

	var out []SessionMetrics
	for rows.Next() {
		var score, duration sql.NullFloat64
		if err := rows.Scan(&score, &duration); err != nil {
			return nil, fmt.Errorf("scan session metrics: %w", err)
		}
		out = append(out, SessionMetrics{
			Score:           floatPtr(score),
			DurationSeconds: floatPtr(duration),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate session metrics: %w", err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (*Session, error) {
	var (
		sess                 Session
		userID, pitch, fb    sql.NullString
		score, duration      sql.NullFloat64
		createdAt, updatedAt string
	)
	err := row.Scan(&sess.ID, &userID, &sess.AudioURL, &pitch, &fb,
		&score, &duration, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("scan session: %w", err)
	}

	sess.UserID = userID.String
	if pitch.Valid {
		sess.PitchData = []byte(pitch.String)
	}
	if fb.Valid {
		sess.Feedback = &fb.String
	}
	sess.Score = floatPtr(score)
	sess.DurationSeconds = floatPtr(duration)

	if sess.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if sess.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &sess, nil
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullStringPtr(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func nullJSON(raw []byte) any {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	return string(raw)
}

func nullFloat(f *float64) any {
	if f == nil {
		return nil
	}
	return *f
}

func floatPtr(f sql.NullFloat64) *float64 {
	if !f.Valid {
		return nil
	}
	v := f.Float64
	return &v
}
