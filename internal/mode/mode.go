// Package mode owns the playback mode state: the loop policy and the
// shuffle permutation, and the decision of which track plays next.
package mode

import (
	"math/rand"
	"slices"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
)

// LoopMode defines the playlist-end behavior.
type LoopMode int

const (
	LoopOff LoopMode = iota
	LoopAll
	LoopOne
)

// String returns the loop mode name.
func (m LoopMode) String() string {
	switch m {
	case LoopOff:
		return "Off"
	case LoopAll:
		return "All"
	case LoopOne:
		return "One"
	default:
		return "Unknown"
	}
}

// Cycle returns the next mode in the fixed Off -> All -> One -> Off
// cycle.
func (m LoopMode) Cycle() LoopMode {
	switch m {
	case LoopOff:
		return LoopAll
	case LoopAll:
		return LoopOne
	default:
		return LoopOff
	}
}

// ParseLoopMode parses a loop mode name ("off", "all", "one").
func ParseLoopMode(s string) (LoopMode, error) {
	switch strings.ToLower(s) {
	case "off", "":
		return LoopOff, nil
	case "all":
		return LoopAll, nil
	case "one":
		return LoopOne, nil
	default:
		return LoopOff, errors.Newf("invalid loop mode: %q", s)
	}
}

// Controller holds the shuffle flag, the shuffle order and the loop
// mode. It is not safe for concurrent use: the playback engine
// serializes all access under its own lock.
type Controller struct {
	shuffle bool
	order   []int
	loop    LoopMode
	rng     *rand.Rand
}

// NewController creates a controller with shuffle disabled and loop
// off.
func NewController() *Controller {
	return &Controller{
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Shuffle reports whether shuffle is enabled.
func (c *Controller) Shuffle() bool {
	return c.shuffle
}

// SetShuffle sets the shuffle flag. Enabling generates a fresh
// permutation over playlistLen indices; disabling clears it.
func (c *Controller) SetShuffle(enabled bool, playlistLen int) {
	c.shuffle = enabled
	if enabled {
		c.order = c.permutation(playlistLen)
	} else {
		c.order = nil
	}
}

// ToggleShuffle flips the shuffle flag and returns the new value.
func (c *Controller) ToggleShuffle(playlistLen int) bool {
	c.SetShuffle(!c.shuffle, playlistLen)
	return c.shuffle
}

// Loop returns the current loop mode.
func (c *Controller) Loop() LoopMode {
	return c.loop
}

// SetLoop sets the loop mode directly.
func (c *Controller) SetLoop(m LoopMode) {
	c.loop = m
}

// ToggleLoop advances the loop mode through the fixed cycle and returns
// the new mode.
func (c *Controller) ToggleLoop() LoopMode {
	c.loop = c.loop.Cycle()
	return c.loop
}

// Order returns a copy of the current shuffle order.
func (c *Controller) Order() []int {
	return slices.Clone(c.order)
}

// SetOrder pins the shuffle order, for restoring state or for
// deterministic tests.
func (c *Controller) SetOrder(order []int) {
	c.order = slices.Clone(order)
}

// Reset discards the shuffle order. It is rebuilt lazily on the next
// NextIndex call while shuffle stays enabled.
func (c *Controller) Reset() {
	c.order = nil
}

// NextIndex computes the playlist index that follows current, given the
// current playlist length. ok is false when playback should end
// instead of advancing. Loop mode One never influences this decision;
// single-track repeat is the engine's job.
func (c *Controller) NextIndex(current, length int) (next int, ok bool) {
	if length == 0 {
		return 0, false
	}

	if !c.shuffle {
		if current+1 < length {
			return current + 1, true
		}
		if c.loop == LoopAll {
			return 0, true
		}
		return 0, false
	}

	// A stale order (playlist replaced or resized) is discarded and
	// rebuilt before use.
	if len(c.order) != length {
		c.order = c.permutation(length)
	}

	pos := slices.Index(c.order, current)
	if pos < 0 {
		// Current track is unknown to the order; restart from its head.
		return c.order[0], true
	}
	if pos+1 < len(c.order) {
		return c.order[pos+1], true
	}
	if c.loop == LoopAll {
		c.order = c.permutation(length)
		return c.order[0], true
	}
	return 0, false
}

func (c *Controller) permutation(n int) []int {
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	c.rng.Shuffle(n, func(i, j int) {
		order[i], order[j] = order[j], order[i]
	})
	return order
}
