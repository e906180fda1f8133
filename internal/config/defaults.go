package config

import (
	_ "embed"

	"github.com/vovakirdan/tui-stg/internal/glyph"
)

//go:embed defaults/stg.yaml
var defaultYAML []byte

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return defaultYAML
}

// Default returns the hardcoded configuration. It matches defaults/stg.yaml.
func Default() Config {
	return Config{
		TickRate: 60,
		DataDir:  "data",
		Game: GameConfig{
			Player: PlayerConfig{
				Speed: 0.05,
				HalfW: 0.5,
				HalfH: 0.5,
			},
			Enemy: EnemyConfig{
				StartX:       3,
				Speed:        0.01,
				FireInterval: 60,
				HalfSize:     0.75,
				Tint:         ColorConfig{R: 1, G: 0.3, B: 0, A: 1},
			},
			Bullet: BulletConfig{
				Speed:    0.1,
				Lifetime: 60,
				HalfW:    0.3,
				HalfH:    0.15,
			},
		},
		Difficulty: DifficultyConfig{
			Enabled:      false,
			InitialLevel: 0.0,
			Progression: ProgressionConfig{
				Type:  "time",
				MaxAt: 3600, // one minute at 60 ticks
			},
			Scaling: ScalingConfig{
				FireIntervalReduction: 40,
				BulletSpeedMultiplier: 1.0,
			},
		},
		Font: glyph.FontDescriptor{
			Family: "go",
			Size:   30,
			Weight: 400,
		},
		Render: RenderConfig{
			Width:   640,
			Height:  480,
			FOV:     45,
			CameraZ: -8,
			Clear:   ColorConfig{R: 0.1, G: 0.3, B: 0.5, A: 1},
			Text:    ColorConfig{R: 1, G: 1, B: 1, A: 0.8},
			Overlay: "日本語も書けるよ。",
		},
		Input: InputConfig{
			HoldTicks: 6,
		},
		Storage: StorageConfig{
			DBPath: "~/.stg/scores.db",
		},
		Log: LogConfig{
			Level: "info",
			File:  "~/.stg/stg.log",
		},
	}
}
