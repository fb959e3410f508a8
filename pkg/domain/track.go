package domain

import "slices"

// Track identifies one of the fixed training curricula.
type Track string

const (
	TrackBeginner Track = "beginner"
	TrackEngineer Track = "engineer"
	TrackData     Track = "data"
)

// TrackPriority is the declaration order of tracks.
// Ties in scoring are resolved in favor of the earliest entry.
var TrackPriority = []Track{TrackBeginner, TrackEngineer, TrackData}

// Valid reports whether t is a declared track.
func (t Track) Valid() bool {
	return slices.Contains(TrackPriority, t)
}

// TrackInfo is the static reference data of a track.
type TrackInfo struct {
	Track       Track        `json:"track"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Workshops   []string     `json:"workshops"`
	Pricing     PricingTable `json:"pricing"`
}

// WorkshopCount returns the number of workshops bundled in the track.
func (t TrackInfo) WorkshopCount() int {
	return len(t.Workshops)
}
