package model

// Song is a catalog track as returned by the catalog service. Only tracks
// with a preview URL qualify for gameplay.
type Song struct {
	TrackID    int    `json:"trackId"`
	TrackName  string `json:"trackName"`
	ArtistName string `json:"artistName"`
	PreviewURL string `json:"previewUrl"`
	ArtworkURL string `json:"artworkUrl100"`
}

// Option is one of the four answers shown during a round. Exactly one option
// per round carries the correct track name.
type Option struct {
	TrackName  string `json:"trackName"`
	ArtworkURL string `json:"artworkUrl100"`
	TrackID    int    `json:"trackId"`
}

// RoundDefinition is one round's material: the correct track plus its four
// shuffled options. Built once at game start, immutable thereafter.
type RoundDefinition struct {
	Song
	Options []Option `json:"options"`
}

// Artist is a search hit from the catalog's artist lookup.
type Artist struct {
	ID       int    `json:"artistId"`
	Name     string `json:"artistName"`
	Genre    string `json:"primaryGenreName"`
	ImageURL string `json:"image,omitempty"`
}

// MatchResult is an archived finished game.
type MatchResult struct {
	ID         string `json:"id"`
	RoomCode   string `json:"room_code"`
	Artist     string `json:"artist"`
	HostScore  int    `json:"host_score"`
	GuestScore int    `json:"guest_score"`
	Solo       bool   `json:"solo"`
	FinishedAt int64  `json:"finished_at"`
}
