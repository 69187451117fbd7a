package usecase_game

import (
	"context"

	"github.com/VICHiNG16/MusicDuel/internal/docstore"
	"github.com/VICHiNG16/MusicDuel/internal/model"
)

// Writers are the ownership-partitioned surface onto the shared document.
// A PeerWriter can only touch its own role's map entries; transition payloads
// (scores, gameState, currentRound) go through a HostWriter. Nothing else in
// the codebase writes room fields after game start.

type PeerWriter struct {
	store docstore.Store
	key   string
	role  model.Role
}

func NewPeerWriter(store docstore.Store, code string, role model.Role) *PeerWriter {
	return &PeerWriter{
		store: store,
		key:   docstore.RoomKey(code),
		role:  role,
	}
}

func (w *PeerWriter) Role() model.Role {
	return w.role
}

func (w *PeerWriter) SubmitGuess(ctx context.Context, guess model.Guess) error {
	return w.store.Write(ctx, w.key, map[string]any{
		docstore.GuessField(w.role): guess,
	})
}

func (w *PeerWriter) VoteNextRound(ctx context.Context) error {
	return w.store.Write(ctx, w.key, map[string]any{
		docstore.VoteField(w.role): model.Vote{Ready: true},
	})
}

type HostWriter struct {
	store docstore.Store
	key   string
}

func NewHostWriter(store docstore.Store, code string) *HostWriter {
	return &HostWriter{
		store: store,
		key:   docstore.RoomKey(code),
	}
}

// Apply performs a transition payload as one atomic merge.
func (w *HostWriter) Apply(ctx context.Context, fields map[string]any) error {
	return w.store.Write(ctx, w.key, fields)
}
