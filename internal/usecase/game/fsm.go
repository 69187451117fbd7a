package usecase_game

import (
	"github.com/VICHiNG16/MusicDuel/internal/docstore"
	"github.com/VICHiNG16/MusicDuel/internal/model"
)

// The round state machine is expressed as pure guarded transitions over a
// room snapshot. Each function returns the exact merge payload for the
// shared document, or ok=false when the snapshot does not satisfy the
// transition's precondition. Only the host role may apply these payloads.

// GuessScore is the scoring contract: a correct guess is worth 1000 plus 10
// per second left on the guesser's clock, computed once at guess time and
// never recomputed.
func GuessScore(correct bool, secondsRemaining int) int {
	if !correct {
		return 0
	}
	if secondsRemaining < 0 {
		secondsRemaining = 0
	}
	return 1000 + 10*secondsRemaining
}

// RevealTransition fires when every required guess for the active round is
// present: host only in solo, both roles in multiplayer. The payload folds
// the per-role deltas into the cumulative scores and closes the round in the
// same merge.
func RevealTransition(room model.Room, solo bool) (map[string]any, bool) {
	if room.Phase != model.PhasePreview {
		return nil, false
	}

	host, hostOK := room.GuessOf(model.RoleHost)
	guest, guestOK := room.GuessOf(model.RoleGuest)
	if !hostOK || (!solo && !guestOK) {
		return nil, false
	}

	return map[string]any{
		docstore.FieldPhase: model.PhaseReveal,
		docstore.FieldScores: model.Scores{
			Host:  room.Scores.Host + host.ScoreDelta,
			Guest: room.Scores.Guest + guest.ScoreDelta,
		},
	}, true
}

// AdvanceTransition fires on the first next-round vote: host only in solo,
// either role in multiplayer. A single ready vote is enough to advance; that
// asymmetry is deliberate. Past the final round the payload is the terminal
// gameOver write and currentRound stays put; otherwise the round index moves
// forward and both transient maps are cleared in the same merge.
func AdvanceTransition(room model.Room, solo bool) (map[string]any, bool) {
	if room.Phase != model.PhaseReveal {
		return nil, false
	}

	if !room.VoteOf(model.RoleHost) && (solo || !room.VoteOf(model.RoleGuest)) {
		return nil, false
	}

	next := room.Round + 1
	if next >= model.RoundsPerGame {
		return map[string]any{
			docstore.FieldPhase: model.PhaseGameOver,
		}, true
	}

	return map[string]any{
		docstore.FieldRound:                  next,
		docstore.FieldPhase:                  model.PhasePreview,
		docstore.GuessField(model.RoleHost):  nil,
		docstore.GuessField(model.RoleGuest): nil,
		docstore.VoteField(model.RoleHost):   nil,
		docstore.VoteField(model.RoleGuest):  nil,
	}, true
}
