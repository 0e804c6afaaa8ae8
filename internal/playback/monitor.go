package playback

import (
	"time"

	"walkman/internal/mode"
)

// The end-of-track monitor is a single background goroutine per engine,
// started lazily by the first successful play and never duplicated. It
// polls the backend for activity and advances playback when a track
// finishes naturally. Stop and Close signal it through its stop
// channel; the channel is re-checked under the engine lock before every
// advance so a stop that wins the race between the ticker firing and
// the lock cannot be followed by a spurious advance.

// ensureMonitorLocked starts the monitor unless one is already running
// and unsignaled.
func (e *Engine) ensureMonitorLocked() {
	if e.monitorStop != nil {
		return
	}
	stop := make(chan struct{})
	e.monitorStop = stop
	go e.monitor(stop)
}

func (e *Engine) monitor(stop chan struct{}) {
	ticker := time.NewTicker(e.pollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if !e.pollOnce(stop) {
				return
			}
		}
	}
}

// pollOnce performs one monitor iteration and reports whether the
// monitor should keep running.
func (e *Engine) pollOnce(stop chan struct{}) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	select {
	case <-stop:
		// Stop won the race between the ticker firing and the lock.
		return false
	default:
	}

	switch e.state {
	case StateStopped:
		e.detachMonitorLocked(stop)
		return false
	case StatePaused:
		return true
	}

	if e.backend.IsActive() {
		return true
	}

	// Track finished naturally.
	advanced := false
	if e.modes.Loop() == mode.LoopOne && e.list.Current() != nil {
		advanced = e.playLocked(e.list.CurrentIndex()) == nil
	} else {
		advanced = e.nextTrackLocked()
	}
	if advanced {
		return true
	}

	// True end of playlist.
	if e.state != StateStopped {
		e.state = StateStopped
		e.emitStopped()
	}
	e.detachMonitorLocked(stop)
	return false
}

// detachMonitorLocked clears the engine's reference to a monitor that
// exits on its own, so a later play starts a fresh one.
func (e *Engine) detachMonitorLocked(stop chan struct{}) {
	if e.monitorStop == stop {
		e.monitorStop = nil
	}
}
