package usecase_game

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/VICHiNG16/MusicDuel/internal/docstore"
	"github.com/VICHiNG16/MusicDuel/internal/model"
)

var ErrNoActiveRound = errors.New("no round is open for guessing")

// Session is one peer's view of a running game. It owns everything that is
// local to a client and never synchronized: the countdown timer, the
// already-guessed flag and the latest decoded snapshot. Its only effect on
// the shared document goes through the role's PeerWriter.
type Session struct {
	store    docstore.Store
	writer   *PeerWriter
	code     string
	roundLen time.Duration
	onUpdate func(model.Room)
	logger   *slog.Logger
	clock    func() time.Time

	mu            sync.Mutex
	room          model.Room
	haveRoom      bool
	guessedRound  int
	observedRound int
	deadline      time.Time
	timer         *time.Timer
}

// NewSession builds a session for one role in one room. onUpdate receives
// every decoded snapshot, in delivery order; it may be nil.
func NewSession(store docstore.Store, code string, role model.Role, roundLen time.Duration, onUpdate func(model.Room), logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{
		store:         store,
		writer:        NewPeerWriter(store, code, role),
		code:          code,
		roundLen:      roundLen,
		onUpdate:      onUpdate,
		logger:        logger,
		clock:         time.Now,
		guessedRound:  -1,
		observedRound: -1,
	}
}

func (s *Session) Role() model.Role {
	return s.writer.Role()
}

// Run attaches the session to the room and blocks until ctx is done. The
// countdown timer is torn down with the subscription.
func (s *Session) Run(ctx context.Context) error {
	unsub, err := s.store.Subscribe(ctx, docstore.RoomKey(s.code), func(snap docstore.Snapshot) {
		s.handle(ctx, snap)
	})
	if err != nil {
		return err
	}
	defer unsub()

	<-ctx.Done()

	s.mu.Lock()
	s.stopTimerLocked()
	s.mu.Unlock()
	return nil
}

func (s *Session) handle(ctx context.Context, snap docstore.Snapshot) {
	room, err := docstore.DecodeRoom(snap)
	if err != nil {
		s.logger.Error("session: bad room snapshot", "room", s.code, "error", err)
		return
	}

	s.mu.Lock()
	s.room = room
	s.haveRoom = true

	switch {
	case room.Status == model.StatusPlaying && room.Phase == model.PhasePreview:
		if room.Round != s.observedRound {
			s.armRoundLocked(ctx, room.Round)
		}
	case room.Phase == model.PhaseReveal, room.Phase == model.PhaseGameOver:
		s.stopTimerLocked()
	}
	s.mu.Unlock()

	if s.onUpdate != nil {
		s.onUpdate(room)
	}
}

// armRoundLocked resets the per-round local state and starts the countdown
// that auto-submits the timeout sentinel.
func (s *Session) armRoundLocked(ctx context.Context, round int) {
	s.observedRound = round
	s.deadline = s.clock().Add(s.roundLen)

	s.stopTimerLocked()
	s.timer = time.AfterFunc(s.roundLen, func() {
		s.expire(ctx, round)
	})
}

func (s *Session) stopTimerLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

// Guess submits the peer's answer for the active round. The first call per
// round wins; repeat calls are no-ops, guarded locally rather than through
// the store. The score delta is computed here, from the clock snapshot at
// guess time, and never recomputed.
func (s *Session) Guess(ctx context.Context, option string) error {
	s.mu.Lock()
	if !s.haveRoom || s.room.Phase != model.PhasePreview {
		s.mu.Unlock()
		return ErrNoActiveRound
	}
	song, ok := s.room.CurrentSong()
	if !ok {
		s.mu.Unlock()
		return ErrNoActiveRound
	}
	if s.guessedRound == s.room.Round {
		s.mu.Unlock()
		return nil
	}
	s.guessedRound = s.room.Round

	remaining := int(s.deadline.Sub(s.clock()).Seconds())
	if remaining < 0 {
		remaining = 0
	}
	s.mu.Unlock()

	guess := model.Guess{
		Guess:      option,
		ScoreDelta: GuessScore(option == song.TrackName, remaining),
	}
	return s.writer.SubmitGuess(ctx, guess)
}

// expire fires when the countdown lapses with no guess made: the timeout
// sentinel goes in with a zero delta so the host's readiness predicate can
// still complete the round.
func (s *Session) expire(ctx context.Context, round int) {
	s.mu.Lock()
	stale := !s.haveRoom ||
		s.room.Phase != model.PhasePreview ||
		s.room.Round != round ||
		s.guessedRound == round
	if !stale {
		s.guessedRound = round
	}
	s.mu.Unlock()

	if stale {
		return
	}

	guess := model.Guess{Guess: model.TimeoutGuess, ScoreDelta: 0}
	if err := s.writer.SubmitGuess(ctx, guess); err != nil {
		s.logger.Error("session: timeout guess failed", "room", s.code, "round", round, "error", err)
	}
}

// VoteNextRound marks this peer ready for the next round. The host advances
// on the first vote it sees, so voting twice is harmless.
func (s *Session) VoteNextRound(ctx context.Context) error {
	return s.writer.VoteNextRound(ctx)
}

// Snapshot returns the latest decoded room this session has observed.
func (s *Session) Snapshot() (model.Room, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.room, s.haveRoom
}

// SecondsRemaining reports the local countdown for UI purposes.
func (s *Session) SecondsRemaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.timer == nil {
		return 0
	}
	remaining := int(s.deadline.Sub(s.clock()).Seconds())
	if remaining < 0 {
		return 0
	}
	return remaining
}
