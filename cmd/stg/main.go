// stg is a small shooting game rendered in the terminal. Sprites and text
// are drawn into an offscreen framebuffer and shown as half-block cells.
//
// Usage:
//
//	stg                      - Title menu (difficulty, high scores)
//	stg play                 - Play immediately
//	stg glyphs <text>        - Rasterize text through the glyph atlas
//	stg scores               - Show the run history
//	stg list                 - List registered games
//
// Global flags:
//
//	--fps <rate>         - Override the tick rate
//	--config <path>      - YAML or TOML config file
//	--db <path>          - Run history database (default: ~/.stg/scores.db)
//	--log-level <level>  - debug, info, warn, error
//	--log-file <path>    - Log file used while the game owns the terminal
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	// Import games to register them
	_ "github.com/vovakirdan/tui-stg/internal/games/stg"
)

var (
	// Global flags
	flagFPS      int
	flagConfig   string
	flagDBPath   string
	flagLogLevel string
	flagLogFile  string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "stg",
	Short: "Shooting game in your terminal",
	Long: `stg is a one-screen shooting game: dodge the bullets the enemy fires
at you for as long as you can. Every tick survived is one point.

Running stg without a command opens the title menu.

Examples:
  stg
  stg play --difficulty hard
  stg glyphs "fps: 60"
  stg scores --tui`,
	Run: runMenu,
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 0, "Tick rate (0 = from config)")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to a YAML or TOML config file")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to the run history database")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "Log file while the game is running")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(glyphsCmd)
	rootCmd.AddCommand(scoresCmd)
}

// fatalf reports an error and exits.
func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
