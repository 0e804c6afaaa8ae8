// Package playback implements the playback engine: the transport state
// machine over the audio backend, the playlist cursor, the shuffle and
// loop modes, and the end-of-track monitor that ties them together.
package playback

import (
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"

	"walkman/internal/backend"
	"walkman/internal/mode"
	"walkman/internal/playlist"
)

// Playback errors. All are recoverable at the call site; the engine
// state stays consistent after any of them.
var (
	ErrInvalidIndex    = errors.New("track index out of range")
	ErrNoTracks        = errors.New("playlist is empty")
	ErrAllTracksFailed = errors.New("no playlist entry could be loaded")
)

const (
	// DefaultVolume is the initial volume level.
	DefaultVolume = 0.7
	// DefaultPollInterval is how often the monitor asks the backend
	// whether audio is still active.
	DefaultPollInterval = 500 * time.Millisecond

	volumeStep = 0.1
)

// Engine orchestrates the audio backend, the playlist and the playback
// modes, and exposes the transport API. A single mutex serializes every
// mutation, shared between foreground callers and the end-of-track
// monitor.
type Engine struct {
	mu sync.Mutex

	backend backend.Interface
	list    *playlist.Playlist
	modes   *mode.Controller

	state     State
	volume    float64
	startedAt time.Time // playback clock: last start or resume

	pollInterval time.Duration
	monitorStop  chan struct{} // non-nil while an unsignaled monitor runs

	subs   []*Subscription
	subsMu sync.RWMutex

	closed bool
	log    zerolog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithPollInterval overrides the monitor poll interval.
func WithPollInterval(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.pollInterval = d
		}
	}
}

// WithLogger sets the engine logger.
func WithLogger(log zerolog.Logger) Option {
	return func(e *Engine) {
		e.log = log
	}
}

// New creates a playback engine driving the given backend.
func New(b backend.Interface, opts ...Option) *Engine {
	e := &Engine{
		backend:      b,
		list:         playlist.New(),
		modes:        mode.NewController(),
		volume:       DefaultVolume,
		pollInterval: DefaultPollInterval,
		log:          zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	b.SetVolume(e.volume)
	return e
}

// --- Playlist ---

// LoadDirectory replaces the playlist with the playable audio files in
// dir, validating each through the backend. Any previous playlist,
// cursor and shuffle order are discarded. Emits one playlist-updated
// event with the new count, even when it is zero.
func (e *Engine) LoadDirectory(dir string) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	count, failed, err := e.list.LoadDirectory(dir, e.backend.Validate)
	if err != nil {
		return 0, err
	}
	e.modes.Reset()

	if len(failed) > 0 {
		e.log.Warn().Int("failed", len(failed)).Msg("some files failed validation")
	}
	e.log.Info().Str("dir", dir).Int("tracks", count).Msg("playlist loaded")
	e.emitPlaylistUpdated(count)
	return count, nil
}

// AddFile validates and appends a single file to the playlist.
func (e *Engine) AddFile(path string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.list.AddFile(path, e.backend.Validate); err != nil {
		return err
	}
	e.emitPlaylistUpdated(e.list.Len())
	return nil
}

// Tracks returns a snapshot copy of the playlist.
func (e *Engine) Tracks() []playlist.Track {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.list.Tracks()
}

// --- Transport ---

// Play starts or resumes playback. When paused it resumes; otherwise it
// starts from the current selection, or from the first track when
// nothing is selected yet.
func (e *Engine) Play() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.playLocked(-1)
}

// PlayIndex starts playback at the given playlist index.
func (e *Engine) PlayIndex(index int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.list.Track(index) == nil {
		return errors.Wrapf(ErrInvalidIndex, "index %d of %d", index, e.list.Len())
	}
	return e.playLocked(index)
}

// playLocked implements the play transition. index < 0 means "no
// explicit index": resume when paused, else start from the current
// selection or the first track.
func (e *Engine) playLocked(index int) error {
	if index >= 0 {
		e.list.SetCurrent(index)
	} else if e.state == StatePaused {
		e.backend.Resume()
		e.state = StatePlaying
		e.startedAt = time.Now()
		e.ensureMonitorLocked()
		return nil
	}

	if e.list.Current() == nil {
		if e.list.IsEmpty() {
			return ErrNoTracks
		}
		e.list.SetCurrent(0)
	}
	return e.startCurrentLocked()
}

// startCurrentLocked loads and starts the current track, skipping over
// entries the backend refuses to load. The sweep is bounded by the
// playlist length so an all-corrupt playlist cannot loop forever.
func (e *Engine) startCurrentLocked() error {
	var lastErr error
	for attempt := 0; attempt < e.list.Len(); attempt++ {
		track := e.list.Current()
		if track == nil {
			break
		}

		if err := e.backend.Load(track.Path); err != nil {
			lastErr = err
			e.log.Warn().Str("path", track.Path).Err(err).Msg("skipping unplayable track")
			next, ok := e.modes.NextIndex(e.list.CurrentIndex(), e.list.Len())
			if !ok {
				break
			}
			e.list.SetCurrent(next)
			continue
		}

		e.backend.SetVolume(e.volume)
		e.backend.Play()
		e.state = StatePlaying
		e.startedAt = time.Now()

		index := e.list.CurrentIndex()
		e.log.Debug().Int("index", index).Str("track", track.DisplayName()).Msg("playback started")
		e.emitTrackChanged(index, track.Path)
		e.emitStarted()
		e.ensureMonitorLocked()
		return nil
	}

	e.state = StateStopped
	e.emitStopped()
	if lastErr != nil {
		e.log.Error().Err(lastErr).Msg("every playlist entry failed to load")
	}
	return ErrAllTracksFailed
}

// Pause pauses playback. It succeeds only from the playing state.
func (e *Engine) Pause() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != StatePlaying {
		return false
	}
	e.backend.Pause()
	e.state = StatePaused
	return true
}

// Unpause resumes paused playback. It succeeds only from the paused
// state.
func (e *Engine) Unpause() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.unpauseLocked()
}

func (e *Engine) unpauseLocked() bool {
	if e.state != StatePaused {
		return false
	}
	e.backend.Resume()
	e.state = StatePlaying
	e.startedAt = time.Now()
	e.ensureMonitorLocked()
	return true
}

// PlayPause is the single-button transport control: it pauses when
// playing, resumes when paused and starts playback when stopped.
func (e *Engine) PlayPause() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	switch e.state {
	case StatePlaying:
		e.backend.Pause()
		e.state = StatePaused
		return nil
	case StatePaused:
		e.unpauseLocked()
		return nil
	default:
		return e.playLocked(-1)
	}
}

// Stop halts playback and signals the monitor. It succeeds only when
// not already stopped.
func (e *Engine) Stop() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stopLocked()
}

func (e *Engine) stopLocked() bool {
	if e.state == StateStopped {
		return false
	}
	e.backend.Stop()
	e.state = StateStopped
	if e.monitorStop != nil {
		close(e.monitorStop)
		e.monitorStop = nil
	}
	e.emitStopped()
	return true
}

// NextTrack advances to the next track as decided by the mode
// controller. At the end of the playlist under loop mode One it replays
// the current track. Returns false when playback cannot advance.
func (e *Engine) NextTrack() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.nextTrackLocked()
}

func (e *Engine) nextTrackLocked() bool {
	next, ok := e.modes.NextIndex(e.list.CurrentIndex(), e.list.Len())
	if ok {
		return e.playLocked(next) == nil
	}
	if e.modes.Loop() == mode.LoopOne && e.list.Current() != nil {
		return e.playLocked(e.list.CurrentIndex()) == nil
	}
	return false
}

// PrevTrack moves one position back in playlist order. It never
// consults the shuffle order.
func (e *Engine) PrevTrack() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.list.CurrentIndex() <= 0 {
		return false
	}
	return e.playLocked(e.list.CurrentIndex()-1) == nil
}

// --- Volume ---

// SetVolume clamps v to [0, 1], applies it to the backend and returns
// the applied value.
func (e *Engine) SetVolume(v float64) float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.setVolumeLocked(v)
}

func (e *Engine) setVolumeLocked(v float64) float64 {
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	e.volume = v
	e.backend.SetVolume(v)
	return v
}

// Volume returns the current volume level.
func (e *Engine) Volume() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.volume
}

// VolumeUp raises the volume one step and returns the new level.
func (e *Engine) VolumeUp() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.setVolumeLocked(e.volume + volumeStep)
}

// VolumeDown lowers the volume one step and returns the new level.
func (e *Engine) VolumeDown() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.setVolumeLocked(e.volume - volumeStep)
}

// --- Modes ---

// ToggleShuffle flips shuffle mode, regenerating the shuffle order on
// enable, and returns the new flag.
func (e *Engine) ToggleShuffle() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	enabled := e.modes.ToggleShuffle(e.list.Len())
	e.emitShuffleChanged(enabled)
	return enabled
}

// SetShuffle sets shuffle mode directly. It emits shuffle-changed only
// when the flag actually flips.
func (e *Engine) SetShuffle(enabled bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.modes.Shuffle() == enabled {
		return
	}
	e.modes.SetShuffle(enabled, e.list.Len())
	e.emitShuffleChanged(enabled)
}

// ToggleLoop advances the loop mode through Off -> All -> One -> Off
// and returns the new mode.
func (e *Engine) ToggleLoop() mode.LoopMode {
	e.mu.Lock()
	defer e.mu.Unlock()
	m := e.modes.ToggleLoop()
	e.emitLoopChanged(m)
	return m
}

// SetLoop sets the loop mode directly. It emits loop-changed only on an
// actual change.
func (e *Engine) SetLoop(m mode.LoopMode) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.modes.Loop() == m {
		return
	}
	e.modes.SetLoop(m)
	e.emitLoopChanged(m)
}

// --- Queries ---

// State returns the current playback state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Position returns the playback position of the current track. It
// prefers the backend-reported position and falls back to wall time
// since playback last started or resumed. Returns 0 when stopped or
// paused.
func (e *Engine) Position() time.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != StatePlaying {
		return 0
	}
	if pos, ok := e.backend.Position(); ok && pos >= 0 {
		return pos
	}
	if !e.startedAt.IsZero() {
		return time.Since(e.startedAt)
	}
	return 0
}

// Status is a read-only snapshot of the engine state.
type Status struct {
	State       State
	Index       int
	Track       string
	Volume      float64
	PlaylistLen int
	Shuffle     bool
	Loop        mode.LoopMode
}

// Status returns a snapshot of the current engine state.
func (e *Engine) Status() Status {
	e.mu.Lock()
	defer e.mu.Unlock()
	st := Status{
		State:       e.state,
		Index:       e.list.CurrentIndex(),
		Volume:      e.volume,
		PlaylistLen: e.list.Len(),
		Shuffle:     e.modes.Shuffle(),
		Loop:        e.modes.Loop(),
	}
	if track := e.list.Current(); track != nil {
		st.Track = track.DisplayName()
	}
	return st
}

// --- Events ---

// Subscribe creates a new event subscription.
func (e *Engine) Subscribe() *Subscription {
	e.subsMu.Lock()
	defer e.subsMu.Unlock()
	sub := newSubscription()
	e.subs = append(e.subs, sub)
	return sub
}

func (e *Engine) forEachSub(fn func(*Subscription)) {
	e.subsMu.RLock()
	defer e.subsMu.RUnlock()
	for _, s := range e.subs {
		fn(s)
	}
}

func (e *Engine) emitTrackChanged(index int, path string) {
	e.forEachSub(func(s *Subscription) { s.sendTrack(TrackChange{Index: index, Path: path}) })
}

func (e *Engine) emitStarted() {
	e.forEachSub(func(s *Subscription) { s.sendStarted() })
}

func (e *Engine) emitStopped() {
	e.forEachSub(func(s *Subscription) { s.sendStopped() })
}

func (e *Engine) emitPlaylistUpdated(count int) {
	e.forEachSub(func(s *Subscription) { s.sendPlaylist(PlaylistUpdate{Count: count}) })
}

func (e *Engine) emitShuffleChanged(enabled bool) {
	e.forEachSub(func(s *Subscription) { s.sendShuffle(ShuffleChange{Enabled: enabled}) })
}

func (e *Engine) emitLoopChanged(m mode.LoopMode) {
	e.forEachSub(func(s *Subscription) { s.sendLoop(LoopChange{Mode: m}) })
}

// --- Lifecycle ---

// Close stops playback, halts the monitor and closes all
// subscriptions.
func (e *Engine) Close() error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil
	}
	e.closed = true
	if e.state != StateStopped {
		e.backend.Stop()
		e.state = StateStopped
	}
	if e.monitorStop != nil {
		close(e.monitorStop)
		e.monitorStop = nil
	}
	e.mu.Unlock()

	e.subsMu.Lock()
	for _, s := range e.subs {
		s.close()
	}
	e.subs = nil
	e.subsMu.Unlock()

	return e.backend.Close()
}
