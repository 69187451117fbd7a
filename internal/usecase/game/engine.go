package usecase_game

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/VICHiNG16/MusicDuel/internal/docstore"
	"github.com/VICHiNG16/MusicDuel/internal/model"
)

// Archiver persists a finished match. Failures are logged and swallowed; the
// archive is off the peer-visible protocol path.
//
//go:generate mockery --name=Archiver --output=./mocks/archiver --filename=archiver.go
type Archiver interface {
	Save(ctx context.Context, result model.MatchResult) error
}

// Engine is the host-side arbiter. It subscribes to the room document and
// re-evaluates both transition predicates on every delivered snapshot, since
// no ordering holds across the two peers' writes. Each transition is applied
// at most once per round, guarded by in-memory last-processed markers.
//
// The markers live and die with the engine: a host client that reconnects
// mid-round starts a fresh engine and can in principle reprocess a
// transition. That limitation is inherited from the upstream design and is
// kept rather than papered over with a persisted flag.
type Engine struct {
	store    docstore.Store
	writer   *HostWriter
	code     string
	solo     bool
	archiver Archiver
	logger   *slog.Logger
	now      func() time.Time

	mu          sync.Mutex
	revealDone  int
	advanceDone int
	archived    bool
}

func NewEngine(store docstore.Store, code string, solo bool, archiver Archiver, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		store:       store,
		writer:      NewHostWriter(store, code),
		code:        code,
		solo:        solo,
		archiver:    archiver,
		logger:      logger,
		now:         time.Now,
		revealDone:  -1,
		advanceDone: -1,
	}
}

// Run attaches the engine to the room and blocks until ctx is done.
func (e *Engine) Run(ctx context.Context) error {
	unsub, err := e.store.Subscribe(ctx, docstore.RoomKey(e.code), func(snap docstore.Snapshot) {
		e.handle(ctx, snap)
	})
	if err != nil {
		return err
	}
	defer unsub()

	<-ctx.Done()
	return nil
}

func (e *Engine) handle(ctx context.Context, snap docstore.Snapshot) {
	room, err := docstore.DecodeRoom(snap)
	if err != nil {
		e.logger.Error("engine: bad room snapshot", "room", e.code, "error", err)
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if fields, ok := RevealTransition(room, e.solo); ok && e.revealDone != room.Round {
		e.revealDone = room.Round
		if err := e.writer.Apply(ctx, fields); err != nil {
			e.logger.Error("engine: reveal write failed", "room", e.code, "round", room.Round, "error", err)
		}
	}

	if fields, ok := AdvanceTransition(room, e.solo); ok && e.advanceDone != room.Round {
		e.advanceDone = room.Round
		if err := e.writer.Apply(ctx, fields); err != nil {
			e.logger.Error("engine: advance write failed", "room", e.code, "round", room.Round, "error", err)
		}
	}

	if room.Phase == model.PhaseGameOver && !e.archived {
		e.archived = true
		e.archive(ctx, room)
	}
}

func (e *Engine) archive(ctx context.Context, room model.Room) {
	if e.archiver == nil {
		return
	}

	result := model.MatchResult{
		ID:         uuid.NewString(),
		RoomCode:   e.code,
		Artist:     room.Artist,
		HostScore:  room.Scores.Host,
		GuestScore: room.Scores.Guest,
		Solo:       e.solo,
		FinishedAt: e.now().UnixMilli(),
	}
	if err := e.archiver.Save(ctx, result); err != nil {
		e.logger.Error("engine: archive failed", "room", e.code, "error", err)
	}
}
