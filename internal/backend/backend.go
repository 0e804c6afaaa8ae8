// Package backend abstracts the audio decode/output subsystem the
// playback engine drives.
package backend

import "time"

// Interface defines the audio backend contract for dependency injection
// and testing.
type Interface interface {
	// Load prepares the track at path for playback, releasing any
	// previously loaded track.
	Load(path string) error
	// Play starts playback of the loaded track.
	Play()
	// Pause pauses the loaded track.
	Pause()
	// Resume resumes a paused track.
	Resume()
	// Stop halts playback and releases the loaded track.
	Stop()
	// SetVolume applies a linear volume level in [0, 1].
	SetVolume(level float64)
	// IsActive reports whether the loaded track is still producing audio.
	IsActive() bool
	// Position returns the playback position of the loaded track.
	// ok is false when the backend cannot report one.
	Position() (pos time.Duration, ok bool)
	// Validate reports whether the file at path can be decoded. It
	// returns false on any decode or I/O error and releases all
	// resources before returning.
	Validate(path string) bool
	// Close shuts the backend down.
	Close() error
}
