package main

import (
	"bufio"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rs/zerolog/log"

	"walkman/internal/backend"
	"walkman/internal/config"
	"walkman/internal/input"
	"walkman/internal/logger"
	"walkman/internal/playback"
	"walkman/internal/watch"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	if len(os.Args) > 1 {
		cfg.MusicDir = os.Args[1]
	}
	if err := logger.Init(cfg.Log.Level, cfg.Log.Output); err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}

	if cfg.MusicDir == "" {
		log.Fatal().Msg("no music directory configured (set music_dir or pass one as argument)")
	}

	be, err := backend.NewBeep()
	if err != nil {
		log.Fatal().Err(err).Msg("audio backend initialization failed")
	}

	engine := playback.New(be,
		playback.WithPollInterval(cfg.PollInterval()),
		playback.WithLogger(log.Logger),
	)
	defer engine.Close()

	engine.SetVolume(cfg.Volume)
	engine.SetShuffle(cfg.Shuffle)
	engine.SetLoop(cfg.LoopMode())

	count, err := engine.LoadDirectory(cfg.MusicDir)
	if err != nil {
		log.Fatal().Err(err).Str("dir", cfg.MusicDir).Msg("loading music directory failed")
	}
	if count == 0 {
		log.Warn().Str("dir", cfg.MusicDir).Msg("no playable files found")
	}

	if cfg.WatchLibrary {
		watcher, err := watch.New(cfg.MusicDir, engine, log.Logger)
		if err != nil {
			log.Error().Err(err).Msg("library watcher failed to start")
		} else {
			defer watcher.Close()
		}
	}

	sub := engine.Subscribe()
	go logEvents(sub)

	if count > 0 {
		if err := engine.Play(); err != nil {
			log.Error().Err(err).Msg("playback failed to start")
		}
	}

	quit := make(chan struct{})
	go readCommands(input.NewHandler(engine, log.Logger), quit)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	select {
	case <-sig:
	case <-quit:
	}
	log.Info().Msg("shutting down")
}

// logEvents reports engine notifications on the log; it stands in for
// a display layer.
func logEvents(sub *playback.Subscription) {
	for {
		select {
		case e := <-sub.TrackChanged:
			log.Info().Int("index", e.Index).Str("path", e.Path).Msg("track changed")
		case <-sub.Started:
			log.Debug().Msg("playback started")
		case <-sub.Stopped:
			log.Info().Msg("playback stopped")
		case e := <-sub.PlaylistUpdated:
			log.Info().Int("count", e.Count).Msg("playlist updated")
		case e := <-sub.ShuffleChanged:
			log.Info().Bool("enabled", e.Enabled).Msg("shuffle changed")
		case e := <-sub.LoopChanged:
			log.Info().Stringer("mode", e.Mode).Msg("loop changed")
		case <-sub.Done:
			return
		}
	}
}

// readCommands maps single-letter lines on stdin onto logical button
// events, standing in for the hardware input source.
func readCommands(handler *input.Handler, quit chan<- struct{}) {
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		switch strings.TrimSpace(scanner.Text()) {
		case "p":
			handler.Handle(input.PlayPause)
		case "n":
			handler.Handle(input.Next)
		case "b":
			handler.Handle(input.Prev)
		case "+":
			handler.Handle(input.VolumeUp)
		case "-":
			handler.Handle(input.VolumeDown)
		case "s":
			handler.Handle(input.Shuffle)
		case "l":
			handler.Handle(input.Loop)
		case "q":
			close(quit)
			return
		}
	}
}
