package main

import (
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-stg/internal/config"
	"github.com/vovakirdan/tui-stg/internal/games/stg"
	"github.com/vovakirdan/tui-stg/internal/platform/tui"
	"github.com/vovakirdan/tui-stg/internal/registry"
	"github.com/vovakirdan/tui-stg/internal/storage"
)

// runMenu loops between the title menu, the game and the scoreboard.
func runMenu(cmd *cobra.Command, args []string) {
	cfg, err := loadConfig()
	if err != nil {
		fatalf("%v", err)
	}

	store := openStore(cfg)
	err = menuLoop(cfg, store)
	if store != nil {
		store.Close()
	}
	if err != nil {
		fatalf("%v", err)
	}
}

func menuLoop(cfg config.Config, store *storage.Store) error {
	game, err := registry.Create(stg.ID)
	if err != nil {
		return err
	}
	title := game.Title()

	for {
		w, h := terminalSize()
		item, err := tui.RunMenu(title, stg.ID, store, w, h)
		if err != nil {
			return err
		}
		if item == nil {
			return nil
		}

		if item.Scoreboard {
			back, err := tui.RunScoreboard(store, stg.ID, w, h)
			if err != nil {
				return err
			}
			if !back {
				return nil
			}
			continue
		}

		if err := playGame(cfg, item.Preset, store); err != nil {
			return err
		}
	}
}
