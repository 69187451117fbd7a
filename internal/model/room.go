package model

// Role is a peer's identity within a room. Every shared field has exactly one
// writer role; the write API in usecase/game enforces that partition.
type Role string

const (
	RoleHost  Role = "host"
	RoleGuest Role = "guest"
)

func (r Role) Opponent() Role {
	if r == RoleHost {
		return RoleGuest
	}
	return RoleHost
}

func (r Role) Valid() bool {
	return r == RoleHost || r == RoleGuest
}

// Status is the room-level lifecycle. Monotonic except loading->waiting on a
// failed start.
type Status string

const (
	StatusWaiting  Status = "waiting"
	StatusLoading  Status = "loading"
	StatusPlaying  Status = "playing"
	StatusGameOver Status = "gameOver"
)

// Phase is the round-level state: preview -> reveal per round, then gameOver
// after the final round.
type Phase string

const (
	PhasePreview  Phase = "preview"
	PhaseReveal   Phase = "reveal"
	PhaseGameOver Phase = "gameOver"
)

// TimeoutGuess is the sentinel submitted when a peer's round timer expires
// before any option was picked. It never matches a track name.
const TimeoutGuess = "TIMEOUT"

// RoundsPerGame is fixed; the builder rejects catalogs that cannot fill it.
const RoundsPerGame = 5

type Guess struct {
	Guess      string `json:"guess"`
	ScoreDelta int    `json:"scoreDelta"`
}

type Vote struct {
	Ready bool `json:"ready"`
}

type Scores struct {
	Host  int `json:"host"`
	Guest int `json:"guest"`
}

func (s Scores) ByRole(r Role) int {
	if r == RoleHost {
		return s.Host
	}
	return s.Guest
}

// Room is the single shared document both peers synchronize through, keyed by
// a human-entered 6-character code under rooms/{code}.
type Room struct {
	Host      bool              `json:"host"`
	Guest     bool              `json:"guest"`
	Artist    string            `json:"artist"`
	Status    Status            `json:"status"`
	CreatedAt int64             `json:"createdAt"`
	Songs     []RoundDefinition `json:"songs,omitempty"`
	Round     int               `json:"currentRound"`
	Phase     Phase             `json:"gameState,omitempty"`
	Scores    Scores            `json:"scores"`
	Guesses   map[Role]Guess    `json:"playerGuesses,omitempty"`
	Votes     map[Role]Vote     `json:"nextRoundVotes,omitempty"`
}

// CurrentSong returns the active round's definition, or false when songs are
// not populated yet or the index is out of range.
func (r Room) CurrentSong() (RoundDefinition, bool) {
	if r.Round < 0 || r.Round >= len(r.Songs) {
		return RoundDefinition{}, false
	}
	return r.Songs[r.Round], true
}

func (r Room) GuessOf(role Role) (Guess, bool) {
	g, ok := r.Guesses[role]
	return g, ok
}

func (r Room) VoteOf(role Role) bool {
	return r.Votes[role].Ready
}
