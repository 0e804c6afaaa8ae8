package playback

import "walkman/internal/mode"

// TrackChange is emitted when playback starts on a track.
//
// Emitted by Play/PlayIndex on every successful load, which includes
// NextTrack/PrevTrack and monitor-driven advances. Pause and Stop do
// not emit TrackChange.
type TrackChange struct {
	Index int
	Path  string
}

// PlaylistUpdate is emitted when the playlist contents change, carrying
// the new track count.
type PlaylistUpdate struct {
	Count int
}

// ShuffleChange is emitted when the shuffle flag flips.
type ShuffleChange struct {
	Enabled bool
}

// LoopChange is emitted when the loop mode changes.
type LoopChange struct {
	Mode mode.LoopMode
}
