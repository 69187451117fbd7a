package usecase_game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VICHiNG16/MusicDuel/internal/docstore"
	"github.com/VICHiNG16/MusicDuel/internal/model"
)

func playingRoom(round int, phase model.Phase) model.Room {
	return model.Room{
		Host:   true,
		Guest:  true,
		Artist: "Daft Punk",
		Status: model.StatusPlaying,
		Round:  round,
		Phase:  phase,
		Scores: model.Scores{Host: 500, Guest: 300},
	}
}

func TestGuessScore(t *testing.T) {
	testCases := []struct {
		name      string
		correct   bool
		remaining int
		expected  int
	}{
		{name: "correct at 20s remaining", correct: true, remaining: 20, expected: 1200},
		{name: "correct at full clock", correct: true, remaining: 30, expected: 1300},
		{name: "correct at zero", correct: true, remaining: 0, expected: 1000},
		{name: "incorrect", correct: false, remaining: 25, expected: 0},
		{name: "negative remaining clamps", correct: true, remaining: -3, expected: 1000},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, GuessScore(tc.correct, tc.remaining))
		})
	}
}

func TestRevealTransition(t *testing.T) {
	testCases := []struct {
		name    string
		solo    bool
		guesses map[model.Role]model.Guess
		phase   model.Phase
		ready   bool
		scores  model.Scores
	}{
		{
			name:  "solo fires on host guess alone",
			solo:  true,
			phase: model.PhasePreview,
			guesses: map[model.Role]model.Guess{
				model.RoleHost: {Guess: "Around the World", ScoreDelta: 1200},
			},
			ready:  true,
			scores: model.Scores{Host: 1700, Guest: 300},
		},
		{
			name:  "multiplayer waits for both",
			phase: model.PhasePreview,
			guesses: map[model.Role]model.Guess{
				model.RoleHost: {Guess: "Around the World", ScoreDelta: 1200},
			},
			ready: false,
		},
		{
			name:  "multiplayer fires on both",
			phase: model.PhasePreview,
			guesses: map[model.Role]model.Guess{
				model.RoleHost:  {Guess: "Around the World", ScoreDelta: 1200},
				model.RoleGuest: {Guess: "One More Time", ScoreDelta: 0},
			},
			ready:  true,
			scores: model.Scores{Host: 1700, Guest: 300},
		},
		{
			name:  "timeout peer contributes zero delta",
			phase: model.PhasePreview,
			guesses: map[model.Role]model.Guess{
				model.RoleHost:  {Guess: model.TimeoutGuess, ScoreDelta: 0},
				model.RoleGuest: {Guess: "Harder Better", ScoreDelta: 1150},
			},
			ready:  true,
			scores: model.Scores{Host: 500, Guest: 1450},
		},
		{
			name:  "no guesses no transition",
			phase: model.PhasePreview,
			ready: false,
		},
		{
			name:  "already revealed is inert",
			phase: model.PhaseReveal,
			guesses: map[model.Role]model.Guess{
				model.RoleHost:  {Guess: "x", ScoreDelta: 100},
				model.RoleGuest: {Guess: "y", ScoreDelta: 100},
			},
			ready: false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			room := playingRoom(2, tc.phase)
			room.Guesses = tc.guesses

			fields, ok := RevealTransition(room, tc.solo)
			require.Equal(t, tc.ready, ok)
			if !ok {
				assert.Nil(t, fields)
				return
			}

			assert.Equal(t, model.PhaseReveal, fields[docstore.FieldPhase])
			assert.Equal(t, tc.scores, fields[docstore.FieldScores])
		})
	}
}

func TestRevealTransition_ScoresNeverDecrease(t *testing.T) {
	room := playingRoom(0, model.PhasePreview)
	room.Guesses = map[model.Role]model.Guess{
		model.RoleHost:  {Guess: model.TimeoutGuess, ScoreDelta: 0},
		model.RoleGuest: {Guess: model.TimeoutGuess, ScoreDelta: 0},
	}

	fields, ok := RevealTransition(room, false)
	require.True(t, ok)

	scores := fields[docstore.FieldScores].(model.Scores)
	assert.GreaterOrEqual(t, scores.Host, room.Scores.Host)
	assert.GreaterOrEqual(t, scores.Guest, room.Scores.Guest)
}

func TestAdvanceTransition(t *testing.T) {
	testCases := []struct {
		name     string
		solo     bool
		round    int
		phase    model.Phase
		votes    map[model.Role]model.Vote
		ready    bool
		gameOver bool
	}{
		{
			name:  "solo advances on host vote",
			solo:  true,
			round: 1,
			phase: model.PhaseReveal,
			votes: map[model.Role]model.Vote{model.RoleHost: {Ready: true}},
			ready: true,
		},
		{
			name:  "solo ignores guest vote",
			solo:  true,
			round: 1,
			phase: model.PhaseReveal,
			votes: map[model.Role]model.Vote{model.RoleGuest: {Ready: true}},
			ready: false,
		},
		{
			name:  "multiplayer advances on guest vote alone",
			round: 1,
			phase: model.PhaseReveal,
			votes: map[model.Role]model.Vote{model.RoleGuest: {Ready: true}},
			ready: true,
		},
		{
			name:  "multiplayer advances on host vote alone",
			round: 1,
			phase: model.PhaseReveal,
			votes: map[model.Role]model.Vote{model.RoleHost: {Ready: true}},
			ready: true,
		},
		{
			name:  "no votes no transition",
			round: 1,
			phase: model.PhaseReveal,
			ready: false,
		},
		{
			name:  "votes during preview are inert",
			round: 1,
			phase: model.PhasePreview,
			votes: map[model.Role]model.Vote{model.RoleHost: {Ready: true}},
			ready: false,
		},
		{
			name:     "final round goes terminal",
			round:    4,
			phase:    model.PhaseReveal,
			votes:    map[model.Role]model.Vote{model.RoleGuest: {Ready: true}},
			ready:    true,
			gameOver: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			room := playingRoom(tc.round, tc.phase)
			room.Votes = tc.votes

			fields, ok := AdvanceTransition(room, tc.solo)
			require.Equal(t, tc.ready, ok)
			if !ok {
				return
			}

			if tc.gameOver {
				assert.Equal(t, model.PhaseGameOver, fields[docstore.FieldPhase])
				// currentRound stays put past the final round.
				assert.NotContains(t, fields, docstore.FieldRound)
				return
			}

			assert.Equal(t, tc.round+1, fields[docstore.FieldRound])
			assert.Equal(t, model.PhasePreview, fields[docstore.FieldPhase])
			for _, role := range []model.Role{model.RoleHost, model.RoleGuest} {
				assert.Contains(t, fields, docstore.GuessField(role))
				assert.Nil(t, fields[docstore.GuessField(role)])
				assert.Contains(t, fields, docstore.VoteField(role))
				assert.Nil(t, fields[docstore.VoteField(role)])
			}
		})
	}
}
