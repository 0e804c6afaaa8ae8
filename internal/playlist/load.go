package playlist

import (
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
)

// Errors reported by playlist mutations. All are recoverable at the
// call site and leave the playlist unchanged.
var (
	ErrNotADirectory     = errors.New("not a directory")
	ErrNotAFile          = errors.New("not a regular file")
	ErrUnsupportedFormat = errors.New("unsupported audio format")
	ErrValidationFailed  = errors.New("file failed validation")
)

// Validator reports whether the audio backend can decode the file at
// path.
type Validator func(path string) bool

// LoadDirectory replaces the playlist with the playable audio files
// found in dir, in lexicographic order. Files with an allow-listed
// extension that fail validation are returned in failed. Any previous
// playlist and cursor are discarded, even when dir holds no playable
// files.
func (p *Playlist) LoadDirectory(dir string, validate Validator) (loaded int, failed []string, err error) {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return 0, nil, errors.Wrapf(ErrNotADirectory, "%s", dir)
	}

	entries, err := os.ReadDir(dir) // sorted by filename
	if err != nil {
		return 0, nil, err
	}

	p.tracks = nil
	p.current = -1

	for _, entry := range entries {
		if !entry.Type().IsRegular() || !SupportedExtension(entry.Name()) {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if validate != nil && !validate(path) {
			failed = append(failed, path)
			continue
		}
		p.tracks = append(p.tracks, newTrack(path))
	}

	return len(p.tracks), failed, nil
}

// AddFile validates and appends a single file to the playlist. On any
// error the playlist is left unchanged.
func (p *Playlist) AddFile(path string, validate Validator) error {
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return errors.Wrapf(ErrNotAFile, "%s", path)
	}
	if !SupportedExtension(path) {
		return errors.Wrapf(ErrUnsupportedFormat, "%s", filepath.Ext(path))
	}
	if validate != nil && !validate(path) {
		return errors.Wrapf(ErrValidationFailed, "%s", path)
	}
	p.tracks = append(p.tracks, newTrack(path))
	return nil
}
