// Package watch monitors the loaded music directory and appends newly
// created audio files to the playlist through the engine's normal
// add-file path, validation included.
package watch

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"walkman/internal/playback"
	"walkman/internal/playlist"
)

// settleDelay gives a newly created file time to be fully written
// before it is validated.
const settleDelay = 500 * time.Millisecond

// Watcher watches a single directory for new audio files.
type Watcher struct {
	fs     *fsnotify.Watcher
	engine *playback.Engine
	log    zerolog.Logger
	settle time.Duration
	seen   map[string]bool
}

// New starts watching dir and feeding new files into the engine.
func New(dir string, engine *playback.Engine, log zerolog.Logger) (*Watcher, error) {
	return newWatcher(dir, engine, log, settleDelay)
}

func newWatcher(dir string, engine *playback.Engine, log zerolog.Logger, settle time.Duration) (*Watcher, error) {
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fs.Add(dir); err != nil {
		fs.Close()
		return nil, err
	}
	w := &Watcher{
		fs:     fs,
		engine: engine,
		log:    log,
		settle: settle,
		seen:   make(map[string]bool),
	}
	go w.run()
	w.log.Info().Str("dir", dir).Msg("watching music directory")
	return w, nil
}

func (w *Watcher) run() {
	for {
		select {
		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			w.handle(event)

		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.log.Error().Err(err).Msg("watcher error")
		}
	}
}

func (w *Watcher) handle(event fsnotify.Event) {
	// Ignore temporary and hidden files.
	name := filepath.Base(event.Name)
	if strings.HasPrefix(name, ".") || strings.HasSuffix(name, ".tmp") {
		return
	}
	if !event.Has(fsnotify.Create) || !playlist.SupportedExtension(event.Name) {
		return
	}
	if w.seen[event.Name] {
		return
	}
	w.seen[event.Name] = true

	go func(path string) {
		time.Sleep(w.settle) // let the file finish writing
		if err := w.engine.AddFile(path); err != nil {
			w.log.Warn().Str("path", path).Err(err).Msg("ignoring new file")
			return
		}
		w.log.Info().Str("path", path).Msg("added new file to playlist")
	}(event.Name)
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	return w.fs.Close()
}
