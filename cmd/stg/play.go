package main

import (
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-stg/internal/config"
	"github.com/vovakirdan/tui-stg/internal/games/stg"
	"github.com/vovakirdan/tui-stg/internal/platform/tui"
	"github.com/vovakirdan/tui-stg/internal/registry"
	"github.com/vovakirdan/tui-stg/internal/storage"
)

var (
	flagDifficulty    string
	flagPremultiplied bool
	flagDataDir       string
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play the game",
	Long: `Start playing immediately.

Controls:
  Arrows/HJKL/WASD  - Move (diagonals by holding two)
  P/Esc             - Pause
  R                 - Restart (after game over)
  ?                 - Toggle help
  Q/Ctrl+C          - Quit

Difficulty options:
  easy   - Start at the base fire rate, speeds up over time
  normal - Start at 30% difficulty, speeds up over time
  hard   - Start at 70% difficulty, speeds up over time
  fixed  - The enemy keeps its base fire rate

Sprites are read from the data directory (xchu.png, bullet.png or .bmp)
and reloaded when the files change.

Examples:
  stg play
  stg play --difficulty hard
  stg play --premultiplied
  stg play --data ./data --config ./my-stg.yaml`,
	Args: cobra.NoArgs,
	Run:  runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
	playCmd.Flags().BoolVar(&flagPremultiplied, "premultiplied", false, "Upload glyphs with premultiplied alpha")
	playCmd.Flags().StringVar(&flagDataDir, "data", "", "Directory with sprite overrides")
}

func runPlay(cmd *cobra.Command, args []string) {
	cfg, err := loadConfig()
	if err != nil {
		fatalf("%v", err)
	}
	preset, err := config.ParsePreset(flagDifficulty)
	if err != nil {
		fatalf("%v", err)
	}
	if cmd.Flags().Changed("premultiplied") {
		cfg.Render.Premultiplied = flagPremultiplied
	}
	if flagDataDir != "" {
		cfg.DataDir = flagDataDir
	}

	store := openStore(cfg)
	err = playGame(cfg, preset, store)
	if store != nil {
		store.Close()
	}
	if err != nil {
		fatalf("%v", err)
	}
}

// playGame runs one game session until the player quits.
func playGame(cfg config.Config, preset config.DifficultyPreset, store *storage.Store) error {
	config.ApplyPreset(&cfg, preset)

	logger, closeLog := fileLogger(cfg)
	defer closeLog()

	eng, err := newEngine(cfg, logger, true)
	if err != nil {
		return err
	}
	defer eng.Close()

	stg.SetConfig(cfg)
	game, err := registry.Create(stg.ID)
	if err != nil {
		return err
	}

	w, h := terminalSize()
	logger.Info("starting game", "difficulty", string(preset), "tick_rate", cfg.TickRate, "screen", [2]int{w, h})

	return tui.Run(game, tui.Options{
		Compositor:    eng.comp,
		Store:         store,
		Runtime:       cfg.RuntimeConfig(w, h-1),
		HoldTicks:     cfg.Input.HoldTicks,
		Difficulty:    string(preset),
		Logger:        logger,
		Watcher:       eng.watcher,
		ReloadSprites: eng.reloadSprites,
	})
}
