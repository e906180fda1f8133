package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-stg/internal/config"
	"github.com/vovakirdan/tui-stg/internal/games/stg"
	"github.com/vovakirdan/tui-stg/internal/platform/tui"
	"github.com/vovakirdan/tui-stg/internal/registry"
	"github.com/vovakirdan/tui-stg/internal/storage"
)

var (
	flagScoresTUI   bool
	flagScoresLimit int
	flagScoresClear bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores [game]",
	Short: "Show the run history",
	Long: `Display the best runs, ticks survived, for a game (default stg).

Examples:
  stg scores
  stg scores --limit 25
  stg scores --tui
  stg scores --clear`,
	Args: cobra.MaximumNArgs(1),
	Run:  runScores,
}

func init() {
	scoresCmd.Flags().BoolVar(&flagScoresTUI, "tui", false, "Browse scores interactively")
	scoresCmd.Flags().IntVar(&flagScoresLimit, "limit", 10, "Number of runs to show")
	scoresCmd.Flags().BoolVar(&flagScoresClear, "clear", false, "Delete the history of the game")
}

func runScores(cmd *cobra.Command, args []string) {
	gameID := stg.ID
	if len(args) == 1 {
		gameID = args[0]
	}
	if !registry.Exists(gameID) {
		fatalf("unknown game %q (run 'stg list')", gameID)
	}

	cfg, err := loadConfig()
	if err != nil {
		fatalf("%v", err)
	}
	store, err := storage.Open(config.ExpandHome(cfg.Storage.DBPath))
	if err != nil {
		fatalf("opening scores database: %v", err)
	}

	err = showScores(store, gameID)
	store.Close()
	if err != nil {
		fatalf("%v", err)
	}
}

func showScores(store *storage.Store, gameID string) error {
	if flagScoresClear {
		if err := store.ClearScores(gameID); err != nil {
			return err
		}
		fmt.Printf("Cleared the history of %s.\n", gameID)
		return nil
	}

	if flagScoresTUI {
		w, h := terminalSize()
		_, err := tui.RunScoreboard(store, gameID, w, h)
		return err
	}

	scores, err := store.TopScores(gameID, flagScoresLimit)
	if err != nil {
		return err
	}

	fmt.Printf("High Scores - %s\n\n", gameID)
	if len(scores) == 0 {
		fmt.Println("No runs recorded yet.")
		fmt.Println()
		fmt.Println("Run 'stg play' to set the first high score!")
		return nil
	}

	fmt.Printf("  %-4s  %-8s  %-8s  %-8s  %s\n", "Rank", "Ticks", "Diff", "Run", "Date")
	fmt.Printf("  %-4s  %-8s  %-8s  %-8s  %s\n", "----", "-----", "----", "---", "----")
	for i, e := range scores {
		diff := e.Difficulty
		if diff == "" {
			diff = "-"
		}
		fmt.Printf("  %-4d  %-8d  %-8s  %-8.8s  %s\n", i+1, e.Score, diff, e.RunID, e.CreatedAt.Format("2006-01-02 15:04"))
	}

	stats, err := store.GetGameStats(gameID)
	if err != nil {
		return err
	}
	fmt.Println()
	fmt.Printf("Best: %d  Runs: %d  Average: %.1f\n", stats.HighScore, stats.GamesCount, stats.AvgScore)
	return nil
}
