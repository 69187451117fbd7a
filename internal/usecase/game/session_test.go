package usecase_game

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VICHiNG16/MusicDuel/internal/docstore"
	"github.com/VICHiNG16/MusicDuel/internal/model"
)

func fiveRounds() []model.RoundDefinition {
	defs := make([]model.RoundDefinition, 0, model.RoundsPerGame)
	for i := 0; i < model.RoundsPerGame; i++ {
		correct := model.Option{
			TrackName:  fmt.Sprintf("Track %d", i),
			ArtworkURL: "https://example.com/a.jpg",
			TrackID:    i,
		}
		defs = append(defs, model.RoundDefinition{
			Song: model.Song{
				TrackID:    i,
				TrackName:  correct.TrackName,
				ArtistName: "Artist",
				PreviewURL: "https://example.com/p.m4a",
				ArtworkURL: correct.ArtworkURL,
			},
			Options: []model.Option{
				{TrackName: "Wrong A", TrackID: 100 + i},
				correct,
				{TrackName: "Wrong B", TrackID: 200 + i},
				{TrackName: "Wrong C", TrackID: 300 + i},
			},
		})
	}
	return defs
}

func previewSnapshot(t *testing.T, round int) docstore.Snapshot {
	t.Helper()
	room := playingRoom(round, model.PhasePreview)
	room.Songs = fiveRounds()
	return snapshotOf(t, room, nil, nil)
}

func loadGuess(t *testing.T, store docstore.Store, code string, role model.Role) (model.Guess, bool) {
	t.Helper()
	snap, ok, err := store.Load(context.Background(), docstore.RoomKey(code))
	require.NoError(t, err)
	if !ok {
		return model.Guess{}, false
	}
	room, err := docstore.DecodeRoom(snap)
	require.NoError(t, err)
	g, ok := room.Guesses[role]
	return g, ok
}

func newTestSession(store docstore.Store, role model.Role) (*Session, *time.Time) {
	session := NewSession(store, "AB12CD", role, 30*time.Second, nil, nil)
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	session.clock = func() time.Time { return now }
	return session, &now
}

func TestSession_CorrectGuessScoresFromClockSnapshot(t *testing.T) {
	store := newCountingStore()
	ctx := context.Background()
	require.NoError(t, store.Write(ctx, docstore.RoomKey("AB12CD"), map[string]any{docstore.FieldHost: true}))

	session, now := newTestSession(store, model.RoleHost)
	session.handle(ctx, previewSnapshot(t, 0))

	// 10 seconds into the round: 20 remain.
	*now = now.Add(10 * time.Second)
	require.NoError(t, session.Guess(ctx, "Track 0"))

	guess, ok := loadGuess(t, store, "AB12CD", model.RoleHost)
	require.True(t, ok)
	assert.Equal(t, "Track 0", guess.Guess)
	assert.Equal(t, 1200, guess.ScoreDelta)
}

func TestSession_IncorrectGuessScoresZero(t *testing.T) {
	store := newCountingStore()
	ctx := context.Background()

	session, _ := newTestSession(store, model.RoleGuest)
	session.handle(ctx, previewSnapshot(t, 0))

	require.NoError(t, session.Guess(ctx, "Wrong A"))

	guess, ok := loadGuess(t, store, "AB12CD", model.RoleGuest)
	require.True(t, ok)
	assert.Equal(t, 0, guess.ScoreDelta)
}

func TestSession_SecondGuessIsNoOp(t *testing.T) {
	store := newCountingStore()
	ctx := context.Background()

	session, _ := newTestSession(store, model.RoleHost)
	session.handle(ctx, previewSnapshot(t, 0))

	require.NoError(t, session.Guess(ctx, "Track 0"))
	require.NoError(t, session.Guess(ctx, "Wrong A"))

	assert.Equal(t, int64(1), store.writes.Load())

	guess, _ := loadGuess(t, store, "AB12CD", model.RoleHost)
	assert.Equal(t, "Track 0", guess.Guess)
}

func TestSession_GuessReopensNextRound(t *testing.T) {
	store := newCountingStore()
	ctx := context.Background()

	session, _ := newTestSession(store, model.RoleHost)
	session.handle(ctx, previewSnapshot(t, 0))
	require.NoError(t, session.Guess(ctx, "Track 0"))

	session.handle(ctx, previewSnapshot(t, 1))
	require.NoError(t, session.Guess(ctx, "Track 1"))

	assert.Equal(t, int64(2), store.writes.Load())
}

func TestSession_GuessOutsidePreviewRejected(t *testing.T) {
	store := newCountingStore()
	ctx := context.Background()

	session, _ := newTestSession(store, model.RoleHost)

	// No snapshot observed yet.
	assert.ErrorIs(t, session.Guess(ctx, "Track 0"), ErrNoActiveRound)

	room := playingRoom(0, model.PhaseReveal)
	room.Songs = fiveRounds()
	session.handle(ctx, snapshotOf(t, room, nil, nil))
	assert.ErrorIs(t, session.Guess(ctx, "Track 0"), ErrNoActiveRound)

	assert.Equal(t, int64(0), store.writes.Load())
}

func TestSession_ExpirySubmitsTimeoutSentinel(t *testing.T) {
	store := newCountingStore()
	ctx := context.Background()

	session, _ := newTestSession(store, model.RoleGuest)
	session.handle(ctx, previewSnapshot(t, 2))

	session.expire(ctx, 2)

	guess, ok := loadGuess(t, store, "AB12CD", model.RoleGuest)
	require.True(t, ok)
	assert.Equal(t, model.TimeoutGuess, guess.Guess)
	assert.Equal(t, 0, guess.ScoreDelta)
}

func TestSession_ExpiryAfterGuessIsNoOp(t *testing.T) {
	store := newCountingStore()
	ctx := context.Background()

	session, _ := newTestSession(store, model.RoleHost)
	session.handle(ctx, previewSnapshot(t, 0))
	require.NoError(t, session.Guess(ctx, "Track 0"))

	session.expire(ctx, 0)

	assert.Equal(t, int64(1), store.writes.Load())
	guess, _ := loadGuess(t, store, "AB12CD", model.RoleHost)
	assert.Equal(t, "Track 0", guess.Guess)
}

func TestSession_ExpiryForStaleRoundIsNoOp(t *testing.T) {
	store := newCountingStore()
	ctx := context.Background()

	session, _ := newTestSession(store, model.RoleHost)
	session.handle(ctx, previewSnapshot(t, 1))

	// A timer from round 0 firing late must not write anything.
	session.expire(ctx, 0)

	assert.Equal(t, int64(0), store.writes.Load())
}

func TestSession_CountdownFiresWithoutGuess(t *testing.T) {
	store := newCountingStore()
	ctx := context.Background()

	session := NewSession(store, "AB12CD", model.RoleHost, 20*time.Millisecond, nil, nil)
	session.handle(ctx, previewSnapshot(t, 0))

	require.Eventually(t, func() bool {
		guess, ok := loadGuess(t, store, "AB12CD", model.RoleHost)
		return ok && guess.Guess == model.TimeoutGuess
	}, time.Second, 5*time.Millisecond)
}

func TestSession_RevealStopsCountdown(t *testing.T) {
	store := newCountingStore()
	ctx := context.Background()

	session := NewSession(store, "AB12CD", model.RoleHost, 30*time.Millisecond, nil, nil)
	session.handle(ctx, previewSnapshot(t, 0))

	room := playingRoom(0, model.PhaseReveal)
	room.Songs = fiveRounds()
	session.handle(ctx, snapshotOf(t, room, nil, nil))

	time.Sleep(80 * time.Millisecond)
	assert.Equal(t, int64(0), store.writes.Load())
}

func TestSession_SecondsRemaining(t *testing.T) {
	store := newCountingStore()
	ctx := context.Background()

	session, now := newTestSession(store, model.RoleHost)
	assert.Equal(t, 0, session.SecondsRemaining())

	session.handle(ctx, previewSnapshot(t, 0))
	assert.Equal(t, 30, session.SecondsRemaining())

	*now = now.Add(12 * time.Second)
	assert.Equal(t, 18, session.SecondsRemaining())
}

func TestSession_OnUpdateReceivesSnapshots(t *testing.T) {
	store := newCountingStore()
	ctx := context.Background()

	var seen []model.Phase
	session := NewSession(store, "AB12CD", model.RoleHost, 30*time.Second, func(room model.Room) {
		seen = append(seen, room.Phase)
	}, nil)

	session.handle(ctx, previewSnapshot(t, 0))
	room := playingRoom(0, model.PhaseReveal)
	session.handle(ctx, snapshotOf(t, room, nil, nil))

	assert.Equal(t, []model.Phase{model.PhasePreview, model.PhaseReveal}, seen)
}
