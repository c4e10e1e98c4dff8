// Package catalog resolves the ordered list of playable tracks from a
// structured track registry, falling back to a raw storage listing.
package catalog

import "time"

const (
	// UnknownArtist is shown when a track carries no artist.
	UnknownArtist = "Unknown Artist"
	// UnknownSong is used for registry rows with an empty title.
	UnknownSong = "Unknown Song"

	// StorageIDBase offsets ids of storage-derived tracks so they never
	// collide with registry ids.
	StorageIDBase int64 = 1_000_000
)

// Track is one playable item in the catalog.
type Track struct {
	ID          int64
	Name        string
	URL         string
	Artist      string
	Duration    time.Duration // 0 when unknown
	SourceKey   string        // storage key, used only for URL resolution
	Description string
}

// Row is a record of the structured track registry.
type Row struct {
	ID          int64
	Title       string
	Filename    string
	Artist      string
	Duration    float64 // seconds, 0 when absent
	Description string
	CreatedAt   time.Time
}

// Object is one entry of a storage listing.
type Object struct {
	Key          string
	Size         int64
	LastModified time.Time
}

// Source identifies which backend produced a catalog.
type Source int

const (
	SourceNone Source = iota
	SourceRegistry
	SourceStorage
)

// String returns the source name.
func (s Source) String() string {
	switch s {
	case SourceNone:
		return "none"
	case SourceRegistry:
		return "registry"
	case SourceStorage:
		return "storage"
	default:
		return "unknown"
	}
}
