package store

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func insertSession(t *testing.T, repo SessionRepo, userID string, score, duration *float64) *Session {
	t.Helper()
	sess := &Session{
		UserID:          userID,
		AudioURL:        "s3://takes/" + userID + ".webm",
		Score:           score,
		DurationSeconds: duration,
	}
	require.NoError(t, repo.Insert(context.Background(), sess))
	return sess
}

func TestSessionInsertAndGet(t *testing.T) {
	s := openTestStore(t)
	repo := s.SessionRepo()
	ctx := context.Background()

	sess := &Session{
		UserID:          "singer-1",
		AudioURL:        "s3://takes/1.webm",
		PitchData:       json.RawMessage(`{"notes":["C4","D4"]}`),
		Score:           ptr(82.5),
		DurationSeconds: ptr(95.0),
	}
	require.NoError(t, repo.Insert(ctx, sess))
	require.NotEmpty(t, sess.ID)
	assert.False(t, sess.CreatedAt.IsZero())
	assert.Equal(t, sess.CreatedAt, sess.UpdatedAt)

	got, err := repo.Get(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, "singer-1", got.UserID)
	assert.Equal(t, "s3://takes/1.webm", got.AudioURL)
	assert.JSONEq(t, `{"notes":["C4","D4"]}`, string(got.PitchData))
	assert.Nil(t, got.Feedback)
	require.NotNil(t, got.Score)
	assert.Equal(t, 82.5, *got.Score)
	require.NotNil(t, got.DurationSeconds)
	assert.Equal(t, 95.0, *got.DurationSeconds)
	assert.True(t, sess.CreatedAt.Equal(got.CreatedAt))
}

func TestSessionInsertNullableFields(t *testing.T) {
	s := openTestStore(t)
	repo := s.SessionRepo()

	sess := insertSession(t, repo, "", nil, nil)
	got, err := repo.Get(context.Background(), sess.ID)
	require.NoError(t, err)
	assert.Empty(t, got.UserID)
	assert.Nil(t, got.PitchData)
	assert.Nil(t, got.Score)
	assert.Nil(t, got.DurationSeconds)
}

func TestSessionZeroScoreIsStored(t *testing.T) {
	s := openTestStore(t)
	repo := s.SessionRepo()

	sess := insertSession(t, repo, "u", ptr(0.0), ptr(0.0))
	got, err := repo.Get(context.Background(), sess.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Score)
	assert.Equal(t, 0.0, *got.Score)
}

func TestSessionGetNotFound(t *testing.T) {
	s := openTestStore(t)
	_, err := s.SessionRepo().Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSessionListNewestFirst(t *testing.T) {
	s := openTestStore(t)
	repo := s.SessionRepo()
	ctx := context.Background()

	first := insertSession(t, repo, "u1", ptr(10.0), nil)
	second := insertSession(t, repo, "u1", ptr(20.0), nil)
	third := insertSession(t, repo, "u1", ptr(30.0), nil)

	got, err := repo.List(ctx, SessionFilter{}, Page{})
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, third.ID, got[0].ID)
	assert.Equal(t, second.ID, got[1].ID)
	assert.Equal(t, first.ID, got[2].ID)
}

func TestSessionListFilterAndPaginate(t *testing.T) {
	s := openTestStore(t)
	repo := s.SessionRepo()
	ctx := context.Background()

	var mine []*Session
	for i := 0; i < 5; i++ {
		mine = append(mine, insertSession(t, repo, "me", ptr(float64(i)), nil))
		insertSession(t, repo, "other", nil, nil)
	}

	all, err := repo.List(ctx, SessionFilter{UserID: "me"}, Page{})
	require.NoError(t, err)
	require.Len(t, all, 5)
	for _, sess := range all {
		assert.Equal(t, "me", sess.UserID)
	}

	page, err := repo.List(ctx, SessionFilter{UserID: "me"}, Page{Limit: 2, Offset: 1})
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, mine[3].ID, page[0].ID)
	assert.Equal(t, mine[2].ID, page[1].ID)

	past, err := repo.List(ctx, SessionFilter{UserID: "me"}, Page{Limit: 10, Offset: 10})
	require.NoError(t, err)
	assert.Empty(t, past)
}

func TestSessionUpdatePartial(t *testing.T) {
	s := openTestStore(t)
	repo := s.SessionRepo()
	ctx := context.Background()

	sess := insertSession(t, repo, "u", ptr(70.0), ptr(30.0))

	updated, err := repo.Update(ctx, sess.ID, SessionUpdate{
		Feedback: ptr("Nice breath support."),
	})
	require.NoError(t, err)
	require.NotNil(t, updated.Feedback)
	assert.Equal(t, "Nice breath support.", *updated.Feedback)
	assert.Equal(t, 70.0, *updated.Score)
	assert.Equal(t, 30.0, *updated.DurationSeconds)
	assert.Equal(t, sess.AudioURL, updated.AudioURL)
	assert.True(t, sess.CreatedAt.Equal(updated.CreatedAt))
	assert.True(t, updated.UpdatedAt.After(sess.UpdatedAt))

	updated, err = repo.Update(ctx, sess.ID, SessionUpdate{
		Score:     ptr(91.0),
		PitchData: json.RawMessage(`[440,442]`),
	})
	require.NoError(t, err)
	assert.Equal(t, 91.0, *updated.Score)
	assert.JSONEq(t, `[440,442]`, string(updated.PitchData))
	assert.Equal(t, "Nice breath support.", *updated.Feedback)
}

func TestSessionUpdateNotFound(t *testing.T) {
	s := openTestStore(t)
	_, err := s.SessionRepo().Update(context.Background(), "missing", SessionUpdate{Score: ptr(1.0)})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSessionDelete(t *testing.T) {
	s := openTestStore(t)
	repo := s.SessionRepo()
	ctx := context.Background()

	sess := insertSession(t, repo, "u", nil, nil)
	require.NoError(t, repo.Delete(ctx, sess.ID))

	_, err := repo.Get(ctx, sess.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, repo.Delete(ctx, sess.ID), ErrNotFound)
}

func TestSessionListForStats(t *testing.T) {
	s := openTestStore(t)
	repo := s.SessionRepo()
	ctx := context.Background()

	insertSession(t, repo, "u", ptr(80.0), ptr(120.0))
	insertSession(t, repo, "u", nil, ptr(60.0))
	insertSession(t, repo, "u", ptr(100.0), nil)
	insertSession(t, repo, "someone-else", ptr(5.0), ptr(5.0))

	metrics, err := repo.ListForStats(ctx, "u")
	require.NoError(t, err)
	require.Len(t, metrics, 3)

	var scored, timed int
	for _, m := range metrics {
		if m.Score != nil {
			scored++
		}
		if m.DurationSeconds != nil {
			timed++
		}
	}
	assert.Equal(t, 2, scored)
	assert.Equal(t, 2, timed)

	none, err := repo.ListForStats(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, none)
}
