package usecase_rounds

import (
	"errors"
	"math/rand"

	"github.com/VICHiNG16/MusicDuel/internal/model"
)

var ErrInsufficientSongs = errors.New("not enough songs with previews for this artist")

const optionsPerRound = 4

// Build turns a raw catalog into the game's five rounds: five tracks drawn
// without replacement, each paired with three distractors from the rest of
// the catalog and shuffled into a four-option list. Round order is its own
// shuffle. The catalog qualifies on distinct track ids, not raw length; the
// search API can return the same track more than once.
//
// All randomness flows through rng so tests can pin the sequence.
func Build(songs []model.Song, rng *rand.Rand) ([]model.RoundDefinition, error) {
	catalog := dedupeByTrackID(songs)
	if len(catalog) < model.RoundsPerGame {
		return nil, ErrInsufficientSongs
	}

	pool := make([]model.Song, len(catalog))
	copy(pool, catalog)
	rng.Shuffle(len(pool), func(i, j int) {
		pool[i], pool[j] = pool[j], pool[i]
	})

	defs := make([]model.RoundDefinition, 0, model.RoundsPerGame)
	for _, song := range pool[:model.RoundsPerGame] {
		defs = append(defs, buildRound(song, catalog, rng))
	}
	return defs, nil
}

func dedupeByTrackID(songs []model.Song) []model.Song {
	seen := make(map[int]struct{}, len(songs))
	out := make([]model.Song, 0, len(songs))
	for _, s := range songs {
		if _, ok := seen[s.TrackID]; ok {
			continue
		}
		seen[s.TrackID] = struct{}{}
		out = append(out, s)
	}
	return out
}

func buildRound(song model.Song, catalog []model.Song, rng *rand.Rand) model.RoundDefinition {
	others := make([]model.Song, 0, len(catalog)-1)
	for _, s := range catalog {
		if s.TrackID == song.TrackID {
			continue
		}
		others = append(others, s)
	}
	rng.Shuffle(len(others), func(i, j int) {
		others[i], others[j] = others[j], others[i]
	})

	options := make([]model.Option, 0, optionsPerRound)
	for _, s := range others[:optionsPerRound-1] {
		options = append(options, model.Option{
			TrackName:  s.TrackName,
			ArtworkURL: s.ArtworkURL,
			TrackID:    s.TrackID,
		})
	}
	options = append(options, model.Option{
		TrackName:  song.TrackName,
		ArtworkURL: song.ArtworkURL,
		TrackID:    song.TrackID,
	})
	rng.Shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})

	return model.RoundDefinition{Song: song, Options: options}
}
