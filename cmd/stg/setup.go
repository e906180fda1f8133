package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-stg/internal/config"
	"github.com/vovakirdan/tui-stg/internal/fontraster"
	"github.com/vovakirdan/tui-stg/internal/glyph"
	"github.com/vovakirdan/tui-stg/internal/gpu"
	"github.com/vovakirdan/tui-stg/internal/logging"
	"github.com/vovakirdan/tui-stg/internal/render"
	"github.com/vovakirdan/tui-stg/internal/sprite"
	"github.com/vovakirdan/tui-stg/internal/storage"
)

// loadConfig reads the config file and applies the global flag overrides.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return config.Config{}, err
	}
	if flagFPS > 0 {
		cfg.TickRate = flagFPS
	}
	if flagDBPath != "" {
		cfg.Storage.DBPath = flagDBPath
	}
	if flagLogLevel != "" {
		cfg.Log.Level = flagLogLevel
	}
	if flagLogFile != "" {
		cfg.Log.File = flagLogFile
	}
	return cfg, cfg.Validate()
}

// stderrLogger is used by commands that do not take over the terminal.
func stderrLogger(cfg config.Config) *log.Logger {
	l, err := logging.New(logging.Options{Level: cfg.Log.Level, Prefix: "stg"})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		return logging.Discard()
	}
	return l
}

// fileLogger logs to the configured file while the TUI runs. The returned
// close function is never nil.
func fileLogger(cfg config.Config) (*log.Logger, func()) {
	noop := func() {}
	if cfg.Log.File == "" {
		return logging.Discard(), noop
	}
	f, err := logging.OpenFile(config.ExpandHome(cfg.Log.File))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		return logging.Discard(), noop
	}
	closeFile := func() { f.Close() }
	l, err := logging.New(logging.Options{Level: cfg.Log.Level, Prefix: "stg", Output: f})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		return logging.Discard(), closeFile
	}
	return l, closeFile
}

// openStore opens the run history. The game works without it.
func openStore(cfg config.Config) *storage.Store {
	store, err := storage.Open(config.ExpandHome(cfg.Storage.DBPath))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open scores database: %v\n", err)
		return nil
	}
	return store
}

// terminalSize returns the terminal size or 80x24.
func terminalSize() (int, int) {
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 && h > 0 {
		return w, h
	}
	return 80, 24
}

// engine is the device, glyph atlas, sprites and compositor of one session.
type engine struct {
	device  *gpu.Device
	atlas   *glyph.Atlas
	sprites *sprite.Set
	comp    *render.Compositor
	watcher *sprite.Watcher
	dataDir string
	logger  *log.Logger
}

// newEngine builds the rendering stack. With watch set, changes to sprite
// files in the data directory are reported by e.watcher.
func newEngine(cfg config.Config, logger *log.Logger, watch bool) (*engine, error) {
	e := &engine{
		device:  gpu.NewDevice(),
		dataDir: config.ExpandHome(cfg.DataDir),
		logger:  logger,
	}

	atlas, err := glyph.New(e.device, fontraster.Opener, cfg.Font, cfg.Render.Premultiplied, glyph.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	e.atlas = atlas

	e.sprites, err = sprite.Load(e.device, e.dataDir, logger)
	if err != nil {
		atlas.Close()
		return nil, err
	}

	e.comp, err = render.New(render.OptionsFromConfig(cfg.Render), e.sprites, atlas)
	if err != nil {
		atlas.Close()
		return nil, err
	}

	if watch {
		if w, err := sprite.Watch(e.dataDir, logger); err != nil {
			logger.Debug("sprite hot reload disabled", "dir", e.dataDir, "error", err)
		} else {
			e.watcher = w
		}
	}
	return e, nil
}

// reloadSprites reloads every sprite from the data directory.
func (e *engine) reloadSprites() (render.SpriteSource, error) {
	set, err := sprite.Load(e.device, e.dataDir, e.logger)
	if err != nil {
		return nil, err
	}
	e.sprites = set
	return set, nil
}

func (e *engine) Close() {
	if e.watcher != nil {
		e.watcher.Close()
	}
	stats := e.atlas.Stats()
	e.logger.Debug("glyph atlas closed",
		"glyphs", e.atlas.Len(),
		"hits", stats.Hits,
		"misses", stats.Misses,
		"rasterized", stats.Rasterized,
	)
	e.atlas.Close()
}
