package usecase_room

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/VICHiNG16/MusicDuel/internal/docstore"
	"github.com/VICHiNG16/MusicDuel/internal/model"
	usecase_rounds "github.com/VICHiNG16/MusicDuel/internal/usecase/rounds"
)

var (
	ErrRoomNotFound       = errors.New("no such room")
	ErrRoomNotStartable   = errors.New("room is not in a startable state")
	ErrCatalogUnavailable = errors.New("song catalog unavailable")
	ErrInternal           = errors.New("internal error")

	// Re-exported so the delivery layer maps it without importing the builder.
	ErrInsufficientSongs = usecase_rounds.ErrInsufficientSongs
)

//go:generate mockery --name=Catalog --output=./mocks/catalog --filename=catalog.go
type Catalog interface {
	FetchTracks(ctx context.Context, artist string) ([]model.Song, error)
}

type Usecase struct {
	store   docstore.Store
	catalog Catalog
	now     func() time.Time

	// rand.Rand is not safe for concurrent use; handlers share one source.
	rngMu sync.Mutex
	rng   *rand.Rand
}

func New(store docstore.Store, catalog Catalog, rng *rand.Rand) *Usecase {
	return &Usecase{
		store:   store,
		catalog: catalog,
		rng:     rng,
		now:     time.Now,
	}
}

// Create writes a fresh room document and returns its code. Codes are short
// and client-generated; a collision overwriting a stale room is an accepted
// risk, same as the upstream app.
func (u *Usecase) Create(ctx context.Context, artist string) (string, error) {
	code := u.buildRoomCode()

	err := u.store.Replace(ctx, docstore.RoomKey(code), map[string]any{
		docstore.FieldHost:      true,
		docstore.FieldArtist:    artist,
		docstore.FieldStatus:    model.StatusWaiting,
		docstore.FieldCreatedAt: u.now().UnixMilli(),
	})
	if err != nil {
		return "", errors.Join(ErrInternal, err)
	}
	return code, nil
}

// Join merges guest presence into an existing room.
func (u *Usecase) Join(ctx context.Context, code string) error {
	_, ok, err := u.store.Load(ctx, docstore.RoomKey(code))
	if err != nil {
		return errors.Join(ErrInternal, err)
	}
	if !ok {
		return ErrRoomNotFound
	}

	if err := u.store.Write(ctx, docstore.RoomKey(code), map[string]any{
		docstore.FieldGuest: true,
	}); err != nil {
		return errors.Join(ErrInternal, err)
	}
	return nil
}

// Start fetches the catalog, builds the five rounds and flips the room into
// play in a single merge. Any failure leaves status at waiting so the host
// can retry.
func (u *Usecase) Start(ctx context.Context, code string) error {
	room, err := u.Snapshot(ctx, code)
	if err != nil {
		return err
	}
	if room.Status != model.StatusWaiting {
		return ErrRoomNotStartable
	}

	key := docstore.RoomKey(code)
	if err := u.store.Write(ctx, key, map[string]any{
		docstore.FieldStatus: model.StatusLoading,
	}); err != nil {
		return errors.Join(ErrInternal, err)
	}

	defs, err := u.buildRounds(ctx, room.Artist)
	if err != nil {
		// Back to waiting; the failure is retriable from the lobby.
		_ = u.store.Write(ctx, key, map[string]any{
			docstore.FieldStatus: model.StatusWaiting,
		})
		return err
	}

	if err := u.store.Write(ctx, key, map[string]any{
		docstore.FieldStatus: model.StatusPlaying,
		docstore.FieldSongs:  defs,
		docstore.FieldRound:  0,
		docstore.FieldScores: model.Scores{},
		docstore.FieldPhase:  model.PhasePreview,
	}); err != nil {
		return errors.Join(ErrInternal, err)
	}
	return nil
}

func (u *Usecase) buildRounds(ctx context.Context, artist string) ([]model.RoundDefinition, error) {
	songs, err := u.catalog.FetchTracks(ctx, artist)
	if err != nil {
		return nil, errors.Join(ErrCatalogUnavailable, err)
	}

	u.rngMu.Lock()
	defs, err := usecase_rounds.Build(songs, u.rng)
	u.rngMu.Unlock()
	if err != nil {
		return nil, err
	}
	return defs, nil
}

// Snapshot returns the decoded room document.
func (u *Usecase) Snapshot(ctx context.Context, code string) (model.Room, error) {
	snap, ok, err := u.store.Load(ctx, docstore.RoomKey(code))
	if err != nil {
		return model.Room{}, errors.Join(ErrInternal, err)
	}
	if !ok {
		return model.Room{}, ErrRoomNotFound
	}

	room, err := docstore.DecodeRoom(snap)
	if err != nil {
		return model.Room{}, errors.Join(ErrInternal, err)
	}
	return room, nil
}

func (u *Usecase) buildRoomCode() string {
	const codeLen = 6
	const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	u.rngMu.Lock()
	defer u.rngMu.Unlock()

	var builder strings.Builder
	builder.Grow(codeLen)
	for i := 0; i < codeLen; i++ {
		builder.WriteByte(alphabet[u.rng.Intn(len(alphabet))])
	}
	return builder.String()
}
