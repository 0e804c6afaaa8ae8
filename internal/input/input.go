// Package input maps logical button events onto playback engine
// operations. The physical input layer (hardware buttons or an
// equivalent source) delivers these events already debounced; the
// engine performs no debouncing of its own.
package input

import (
	"time"

	"github.com/rs/zerolog"

	"walkman/internal/playback"
)

// Event is a logical button event delivered by an input source.
type Event string

const (
	PlayPause  Event = "play_pause"
	Next       Event = "next"
	Prev       Event = "prev"
	VolumeUp   Event = "vol_up"
	VolumeDown Event = "vol_down"
	Shuffle    Event = "shuffle"
	Loop       Event = "loop"
)

// MinRefireInterval is the recommended minimum interval between
// repeated identical events from a physical input source.
const MinRefireInterval = 200 * time.Millisecond

// Handler dispatches input events to the playback engine.
type Handler struct {
	engine *playback.Engine
	log    zerolog.Logger
}

// NewHandler creates a handler driving the given engine.
func NewHandler(engine *playback.Engine, log zerolog.Logger) *Handler {
	return &Handler{engine: engine, log: log}
}

// Handle performs the engine operation bound to ev. Unknown events are
// logged and ignored.
func (h *Handler) Handle(ev Event) {
	switch ev {
	case PlayPause:
		if err := h.engine.PlayPause(); err != nil {
			h.log.Warn().Err(err).Msg("play/pause failed")
		}
	case Next:
		if !h.engine.NextTrack() {
			h.log.Debug().Msg("end of playlist")
		}
	case Prev:
		if !h.engine.PrevTrack() {
			h.log.Debug().Msg("already at first track")
		}
	case VolumeUp:
		h.log.Debug().Float64("volume", h.engine.VolumeUp()).Msg("volume up")
	case VolumeDown:
		h.log.Debug().Float64("volume", h.engine.VolumeDown()).Msg("volume down")
	case Shuffle:
		h.log.Info().Bool("enabled", h.engine.ToggleShuffle()).Msg("shuffle toggled")
	case Loop:
		h.log.Info().Stringer("mode", h.engine.ToggleLoop()).Msg("loop mode changed")
	default:
		h.log.Warn().Str("event", string(ev)).Msg("unknown input event")
	}
}
