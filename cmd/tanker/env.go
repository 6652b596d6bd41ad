package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/term"

	"github.com/vovakirdan/tanker-run/internal/audio"
	"github.com/vovakirdan/tanker-run/internal/audio/speakerout"
	"github.com/vovakirdan/tanker-run/internal/core"
	"github.com/vovakirdan/tanker-run/internal/platform/tui"
	"github.com/vovakirdan/tanker-run/internal/storage"
)

// speakerBuffer is the audio device latency.
const speakerBuffer = 100 * time.Millisecond

// newLogger logs to --log-file, or nowhere: the terminal belongs to the game.
func newLogger() (*log.Logger, func(), error) {
	if flagLogFile == "" {
		return log.New(io.Discard), func() {}, nil
	}
	f, err := os.OpenFile(flagLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	logger := log.NewWithOptions(f, log.Options{
		ReportTimestamp: true,
		Prefix:          "tanker",
	})
	if flagDebug {
		logger.SetLevel(log.DebugLevel)
	}
	//nolint:errcheck // Best-effort close on exit
	return logger, func() { f.Close() }, nil
}

// openStore opens the journal. Play goes on without one.
func openStore(logger *log.Logger) *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open run journal: %v\n", err)
		logger.Warn("open journal", "path", flagDBPath, "err", err)
		return nil
	}
	return store
}

// newAudio opens the sound device unless muted. A machine without one
// plays silently.
func newAudio(logger *log.Logger) *audio.Engine {
	if flagMute {
		return audio.New(nil, logger)
	}
	out, err := speakerout.Open(audio.SampleRate, speakerBuffer)
	if err != nil {
		logger.Warn("no audio device, playing silently", "err", err)
		return audio.New(nil, logger)
	}
	return audio.New(out, logger)
}

// terminalRuntime sizes the screen from the terminal.
func terminalRuntime() core.RuntimeConfig {
	rt := core.DefaultConfig()
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		rt.ScreenW = w
		rt.ScreenH = h
	}
	rt.TickDuration = runConfig.Timing.TickDuration()
	rt.Seed = flagSeed
	return rt
}

// interactiveEnv builds everything a local terminal session needs.
// The returned func releases it.
func interactiveEnv() (tui.Env, func(), error) {
	logger, closeLog, err := newLogger()
	if err != nil {
		return tui.Env{}, nil, err
	}
	store := openStore(logger)
	engine := newAudio(logger)

	env := tui.Env{
		Config:  runConfig,
		Runtime: terminalRuntime(),
		Store:   store,
		Audio:   engine,
		Logger:  logger,
	}
	cleanup := func() {
		engine.Close()
		if store != nil {
			store.Close()
		}
		closeLog()
	}
	return env, cleanup, nil
}
