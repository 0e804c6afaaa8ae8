package backend

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/flac"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/gopxl/beep/v2/vorbis"
	"github.com/gopxl/beep/v2/wav"
)

// speakerRate is the fixed output sample rate. Tracks with a different
// rate are resampled on the fly.
const speakerRate = beep.SampleRate(44100)

// Beep is the real audio backend, built on beep/v2 and the system
// speaker.
type Beep struct {
	mu sync.Mutex

	streamer beep.StreamSeekCloser
	format   beep.Format
	ctrl     *beep.Ctrl
	volume   *effects.Volume
	file     *os.File
	level    float64
	done     chan struct{} // closed by the speaker callback at end of track
}

// Verify Beep implements Interface at compile time.
var _ Interface = (*Beep)(nil)

// NewBeep initializes the speaker and returns the backend. A speaker
// initialization failure is a hard setup failure: no playback operation
// can be attempted after it.
func NewBeep() (*Beep, error) {
	if err := speaker.Init(speakerRate, speakerRate.N(time.Second/10)); err != nil {
		return nil, errors.Wrap(err, "initializing speaker")
	}
	return &Beep{level: 1.0}, nil
}

// decode opens and decodes the audio file at path by extension.
func decode(path string) (*os.File, beep.StreamSeekCloser, beep.Format, error) {
	var format beep.Format

	ext := strings.ToLower(filepath.Ext(path))
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, format, err
	}

	var streamer beep.StreamSeekCloser
	switch ext {
	case ".mp3":
		streamer, format, err = mp3.Decode(f)
	case ".wav":
		streamer, format, err = wav.Decode(f)
	case ".ogg":
		streamer, format, err = vorbis.Decode(f)
	case ".flac":
		streamer, format, err = flac.Decode(f)
	default:
		err = errors.Newf("unsupported format: %s", ext)
	}
	if err != nil {
		f.Close()
		return nil, nil, format, err
	}
	return f, streamer, format, nil
}

// Load prepares path for playback, releasing any previous track first.
func (b *Beep) Load(path string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.stopLocked()

	f, streamer, format, err := decode(path)
	if err != nil {
		return errors.Wrapf(err, "loading %s", filepath.Base(path))
	}

	var source beep.Streamer = streamer
	if format.SampleRate != speakerRate {
		source = beep.Resample(4, format.SampleRate, speakerRate, streamer)
	}

	b.file = f
	b.streamer = streamer
	b.format = format
	b.ctrl = &beep.Ctrl{Streamer: source}
	b.volume = &effects.Volume{
		Streamer: b.ctrl,
		Base:     2,
		Volume:   levelToVolume(b.level),
		Silent:   b.level <= 0,
	}
	b.done = make(chan struct{})
	return nil
}

// Play submits the loaded track to the speaker.
func (b *Beep) Play() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.volume == nil {
		return
	}
	done := b.done
	speaker.Play(beep.Seq(b.volume, beep.Callback(func() {
		close(done)
	})))
}

// Pause pauses the speaker stream.
func (b *Beep) Pause() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.ctrl == nil {
		return
	}
	speaker.Lock()
	b.ctrl.Paused = true
	speaker.Unlock()
}

// Resume resumes a paused stream.
func (b *Beep) Resume() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.ctrl == nil {
		return
	}
	speaker.Lock()
	b.ctrl.Paused = false
	speaker.Unlock()
}

// Stop halts playback and releases the loaded track.
func (b *Beep) Stop() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.stopLocked()
}

func (b *Beep) stopLocked() {
	if b.streamer == nil {
		return
	}

	speaker.Clear()

	b.streamer.Close()
	b.streamer = nil
	if b.file != nil {
		b.file.Close()
		b.file = nil
	}
	b.ctrl = nil
	b.volume = nil

	select {
	case <-b.done:
		// Callback already closed it.
	default:
		close(b.done)
	}
}

// SetVolume applies a linear volume level in [0, 1].
func (b *Beep) SetVolume(level float64) {
	if level < 0 {
		level = 0
	}
	if level > 1 {
		level = 1
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.level = level
	if b.volume == nil {
		return
	}
	speaker.Lock()
	b.volume.Volume = levelToVolume(level)
	b.volume.Silent = level <= 0
	speaker.Unlock()
}

// IsActive reports whether the loaded track is still producing audio.
// A paused track counts as active.
func (b *Beep) IsActive() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.streamer == nil {
		return false
	}
	select {
	case <-b.done:
		return false
	default:
		return true
	}
}

// Position reports the decode position of the loaded track.
func (b *Beep) Position() (time.Duration, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.streamer == nil {
		return 0, false
	}
	return b.format.SampleRate.D(b.streamer.Position()), true
}

// Validate performs a trial decode of path and reports whether it
// succeeded. It never touches the playback state.
func (b *Beep) Validate(path string) bool {
	f, streamer, _, err := decode(path)
	if err != nil {
		return false
	}
	streamer.Close()
	f.Close()
	return true
}

// Close stops playback and shuts the speaker down.
func (b *Beep) Close() error {
	b.Stop()
	speaker.Close()
	return nil
}
