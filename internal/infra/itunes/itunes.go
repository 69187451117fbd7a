package infra_itunes

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/VICHiNG16/MusicDuel/internal/model"
)

const (
	DefaultBaseURL = "https://itunes.apple.com"

	maxArtistResults = 5
)

// Client talks to the iTunes Search API. Track fetches surface their errors
// (the lobby shows them and lets the host retry); artist search fails open
// and degrades to an empty result list.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *slog.Logger
}

func New(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
		logger:  slog.Default(),
	}
}

type searchResult struct {
	Kind       string `json:"kind"`
	TrackID    int    `json:"trackId"`
	TrackName  string `json:"trackName"`
	ArtistID   int    `json:"artistId"`
	ArtistName string `json:"artistName"`
	PreviewURL string `json:"previewUrl"`
	ArtworkURL string `json:"artworkUrl100"`
	Genre      string `json:"primaryGenreName"`
}

type searchResponse struct {
	Results []searchResult `json:"results"`
}

// FetchTracks returns an artist's songs that qualify for gameplay: kind is
// "song" and a preview URL is present. Artwork is upgraded to 600x600.
func (c *Client) FetchTracks(ctx context.Context, artist string) ([]model.Song, error) {
	query := url.Values{
		"term":   {artist},
		"entity": {"song"},
		"limit":  {"50"},
	}

	resp, err := c.search(ctx, query)
	if err != nil {
		return nil, err
	}

	songs := make([]model.Song, 0, len(resp.Results))
	for _, r := range resp.Results {
		if r.Kind != "song" || r.PreviewURL == "" {
			continue
		}
		songs = append(songs, model.Song{
			TrackID:    r.TrackID,
			TrackName:  r.TrackName,
			ArtistName: r.ArtistName,
			PreviewURL: r.PreviewURL,
			ArtworkURL: strings.Replace(r.ArtworkURL, "100x100", "600x600", 1),
		})
	}
	return songs, nil
}

// SearchArtists resolves a text fragment into artist candidates. The artist
// entity carries no images, so it searches albums and reuses the album art.
// Any error yields an empty list, never a failure.
func (c *Client) SearchArtists(ctx context.Context, fragment string) ([]model.Artist, error) {
	if len([]rune(fragment)) < 2 {
		return []model.Artist{}, nil
	}

	query := url.Values{
		"term":      {fragment},
		"entity":    {"album"},
		"attribute": {"artistTerm"},
		"limit":     {"20"},
	}

	resp, err := c.search(ctx, query)
	if err != nil {
		c.logger.Warn("artist search failed", "fragment", fragment, "error", err)
		return []model.Artist{}, nil
	}

	seen := make(map[string]struct{}, len(resp.Results))
	artists := make([]model.Artist, 0, maxArtistResults)
	for _, r := range resp.Results {
		if _, ok := seen[r.ArtistName]; ok {
			continue
		}
		seen[r.ArtistName] = struct{}{}
		artists = append(artists, model.Artist{
			ID:       r.ArtistID,
			Name:     r.ArtistName,
			Genre:    r.Genre,
			ImageURL: r.ArtworkURL,
		})
		if len(artists) == maxArtistResults {
			break
		}
	}
	return artists, nil
}

func (c *Client) search(ctx context.Context, query url.Values) (*searchResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/search?"+query.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("itunes search: unexpected status %d", resp.StatusCode)
	}

	var out searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	return &out, nil
}
