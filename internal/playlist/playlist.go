// Package playlist implements the ordered track store and its playback
// cursor.
package playlist

import (
	"path/filepath"
	"strings"

	"walkman/internal/tags"
)

// supportedExtensions is the fixed allow-list of playable formats.
var supportedExtensions = map[string]bool{
	".mp3":  true,
	".wav":  true,
	".ogg":  true,
	".flac": true,
}

// SupportedExtension reports whether path has a playable extension.
func SupportedExtension(path string) bool {
	return supportedExtensions[strings.ToLower(filepath.Ext(path))]
}

// Track represents a single playable audio file.
type Track struct {
	Path   string
	Title  string
	Artist string
	Album  string
}

// DisplayName returns the track title, falling back to the file name.
func (t Track) DisplayName() string {
	if t.Title != "" {
		return t.Title
	}
	return filepath.Base(t.Path)
}

func newTrack(path string) Track {
	info := tags.Read(path)
	return Track{
		Path:   path,
		Title:  info.Title,
		Artist: info.Artist,
		Album:  info.Album,
	}
}

// Playlist holds an ordered collection of tracks plus the current-track
// cursor. It is not safe for concurrent use: the playback engine
// serializes all access under its own lock.
type Playlist struct {
	tracks  []Track
	current int // -1 when nothing is selected
}

// New creates an empty playlist.
func New() *Playlist {
	return &Playlist{current: -1}
}

// Current returns the currently selected track, or nil if none.
func (p *Playlist) Current() *Track {
	if p.current < 0 || p.current >= len(p.tracks) {
		return nil
	}
	return &p.tracks[p.current]
}

// CurrentIndex returns the cursor position (-1 if none).
func (p *Playlist) CurrentIndex() int {
	return p.current
}

// SetCurrent moves the cursor to index. Returns false if index is out
// of bounds.
func (p *Playlist) SetCurrent(index int) bool {
	if index < 0 || index >= len(p.tracks) {
		return false
	}
	p.current = index
	return true
}

// ClearCurrent resets the cursor to no selection.
func (p *Playlist) ClearCurrent() {
	p.current = -1
}

// Track returns the track at index, or nil if out of bounds.
func (p *Playlist) Track(index int) *Track {
	if index < 0 || index >= len(p.tracks) {
		return nil
	}
	return &p.tracks[index]
}

// Tracks returns a snapshot copy of all tracks.
func (p *Playlist) Tracks() []Track {
	result := make([]Track, len(p.tracks))
	copy(result, p.tracks)
	return result
}

// Len returns the number of tracks.
func (p *Playlist) Len() int {
	return len(p.tracks)
}

// IsEmpty reports whether the playlist has no tracks.
func (p *Playlist) IsEmpty() bool {
	return len(p.tracks) == 0
}
