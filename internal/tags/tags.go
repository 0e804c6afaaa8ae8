// Package tags reads display metadata from audio files.
package tags

import (
	"os"
	"path/filepath"

	"github.com/dhowden/tag"
)

// Info holds the display metadata of a track.
type Info struct {
	Path   string
	Title  string
	Artist string
	Album  string
}

// Read returns tag metadata for path. Missing or unreadable tags are
// not an error: the title falls back to the file name.
func Read(path string) Info {
	info := Info{
		Path:  path,
		Title: filepath.Base(path),
	}

	f, err := os.Open(path)
	if err != nil {
		return info
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if err != nil {
		return info
	}

	if title := m.Title(); title != "" {
		info.Title = title
	}
	info.Artist = m.Artist()
	info.Album = m.Album()
	return info
}
