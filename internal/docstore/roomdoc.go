package docstore

import (
	"encoding/json"
	"fmt"

	"github.com/VICHiNG16/MusicDuel/internal/model"
)

// Room documents live under rooms/{code}. Nested per-role entries are stored
// as dotted fields so a peer's guess or vote is a single-field write that
// never races with the opposite role's entry.
const (
	FieldHost      = "host"
	FieldGuest     = "guest"
	FieldArtist    = "artist"
	FieldStatus    = "status"
	FieldCreatedAt = "createdAt"
	FieldSongs     = "songs"
	FieldRound     = "currentRound"
	FieldPhase     = "gameState"
	FieldScores    = "scores"
)

func RoomKey(code string) string {
	return "rooms/" + code
}

func GuessField(role model.Role) string {
	return "playerGuesses." + string(role)
}

func VoteField(role model.Role) string {
	return "nextRoundVotes." + string(role)
}

// DecodeRoom maps a raw snapshot onto the Room type. Absent fields decode to
// zero values; an empty snapshot is a room that does not exist yet.
func DecodeRoom(snap Snapshot) (model.Room, error) {
	var room model.Room
	for field, dst := range map[string]any{
		FieldHost:      &room.Host,
		FieldGuest:     &room.Guest,
		FieldArtist:    &room.Artist,
		FieldStatus:    &room.Status,
		FieldCreatedAt: &room.CreatedAt,
		FieldSongs:     &room.Songs,
		FieldRound:     &room.Round,
		FieldPhase:     &room.Phase,
		FieldScores:    &room.Scores,
	} {
		raw, ok := snap[field]
		if !ok || len(raw) == 0 {
			continue
		}
		if err := json.Unmarshal(raw, dst); err != nil {
			return model.Room{}, fmt.Errorf("decode room field %q: %w", field, err)
		}
	}

	for _, role := range []model.Role{model.RoleHost, model.RoleGuest} {
		if raw, ok := snap[GuessField(role)]; ok && len(raw) > 0 {
			var g model.Guess
			if err := json.Unmarshal(raw, &g); err != nil {
				return model.Room{}, fmt.Errorf("decode guess of %s: %w", role, err)
			}
			if room.Guesses == nil {
				room.Guesses = make(map[model.Role]model.Guess, 2)
			}
			room.Guesses[role] = g
		}
		if raw, ok := snap[VoteField(role)]; ok && len(raw) > 0 {
			var v model.Vote
			if err := json.Unmarshal(raw, &v); err != nil {
				return model.Room{}, fmt.Errorf("decode vote of %s: %w", role, err)
			}
			if room.Votes == nil {
				room.Votes = make(map[model.Role]model.Vote, 2)
			}
			room.Votes[role] = v
		}
	}

	return room, nil
}
