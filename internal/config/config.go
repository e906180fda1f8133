// Package config loads the game configuration from YAML or TOML files and
// manages difficulty presets.
package config

import (
	"fmt"

	"github.com/vovakirdan/tui-stg/internal/core"
	"github.com/vovakirdan/tui-stg/internal/glyph"
)

// Config is the complete runtime configuration.
type Config struct {
	TickRate   int                  `yaml:"tick_rate" toml:"tick_rate"`
	DataDir    string               `yaml:"data_dir" toml:"data_dir"`
	Game       GameConfig           `yaml:"game" toml:"game"`
	Difficulty DifficultyConfig     `yaml:"difficulty" toml:"difficulty"`
	Font       glyph.FontDescriptor `yaml:"font" toml:"font"`
	Render     RenderConfig         `yaml:"render" toml:"render"`
	Input      InputConfig          `yaml:"input" toml:"input"`
	Storage    StorageConfig        `yaml:"storage" toml:"storage"`
	Log        LogConfig            `yaml:"log" toml:"log"`
}

// GameConfig holds the per-variant movement and collision constants.
// Extents are half sizes, in world units.
type GameConfig struct {
	Player PlayerConfig `yaml:"player" toml:"player"`
	Enemy  EnemyConfig  `yaml:"enemy" toml:"enemy"`
	Bullet BulletConfig `yaml:"bullet" toml:"bullet"`
}

// PlayerConfig defines the player ship.
type PlayerConfig struct {
	StartX float64 `yaml:"start_x" toml:"start_x"`
	StartY float64 `yaml:"start_y" toml:"start_y"`
	Speed  float64 `yaml:"speed" toml:"speed"`
	HalfW  float64 `yaml:"half_w" toml:"half_w"`
	HalfH  float64 `yaml:"half_h" toml:"half_h"`
}

// EnemyConfig defines the enemy turret.
type EnemyConfig struct {
	StartX       float64     `yaml:"start_x" toml:"start_x"`
	StartY       float64     `yaml:"start_y" toml:"start_y"`
	Speed        float64     `yaml:"speed" toml:"speed"`                 // max homing step per tick
	FireInterval int         `yaml:"fire_interval" toml:"fire_interval"` // ticks between shots
	HalfSize     float64     `yaml:"half_size" toml:"half_size"`
	Tint         ColorConfig `yaml:"tint" toml:"tint"`
}

// BulletConfig defines enemy bullets.
type BulletConfig struct {
	Speed    float64 `yaml:"speed" toml:"speed"`       // leftward step per tick
	Lifetime int     `yaml:"lifetime" toml:"lifetime"` // updates before removal
	HalfW    float64 `yaml:"half_w" toml:"half_w"`
	HalfH    float64 `yaml:"half_h" toml:"half_h"`
}

// ColorConfig is an RGBA color with components in [0,1].
type ColorConfig struct {
	R float64 `yaml:"r" toml:"r"`
	G float64 `yaml:"g" toml:"g"`
	B float64 `yaml:"b" toml:"b"`
	A float64 `yaml:"a" toml:"a"`
}

// Color converts to a core.Color.
func (c ColorConfig) Color() core.Color {
	return core.Color{R: c.R, G: c.G, B: c.B, A: c.A}
}

// RenderConfig describes the virtual framebuffer and camera.
type RenderConfig struct {
	Width         int         `yaml:"width" toml:"width"`
	Height        int         `yaml:"height" toml:"height"`
	FOV           float64     `yaml:"fov" toml:"fov"` // vertical, degrees
	CameraZ       float64     `yaml:"camera_z" toml:"camera_z"`
	Clear         ColorConfig `yaml:"clear" toml:"clear"`
	Text          ColorConfig `yaml:"text" toml:"text"`
	Premultiplied bool        `yaml:"premultiplied" toml:"premultiplied"`
	Overlay       string      `yaml:"overlay" toml:"overlay"` // line shown under the fps counter
}

// InputConfig tunes keyboard handling.
type InputConfig struct {
	// HoldTicks is how long a key press keeps its direction held. Terminals
	// report presses only, so auto-repeat re-arms it.
	HoldTicks int `yaml:"hold_ticks" toml:"hold_ticks"`
}

// StorageConfig locates the run history database.
type StorageConfig struct {
	DBPath string `yaml:"db_path" toml:"db_path"`
}

// LogConfig controls logging output.
type LogConfig struct {
	Level string `yaml:"level" toml:"level"`
	File  string `yaml:"file" toml:"file"`
}

// Validate reports the first setting that cannot run.
func (c Config) Validate() error {
	switch {
	case c.TickRate <= 0:
		return fmt.Errorf("config: tick_rate must be positive, got %d", c.TickRate)
	case c.Font.Size <= 0:
		return fmt.Errorf("config: font.size must be positive, got %d", c.Font.Size)
	case c.Render.Width <= 0 || c.Render.Height <= 0:
		return fmt.Errorf("config: render size %dx%d is invalid", c.Render.Width, c.Render.Height)
	case c.Render.FOV <= 0 || c.Render.FOV >= 180:
		return fmt.Errorf("config: render.fov must be in (0,180), got %g", c.Render.FOV)
	case c.Render.CameraZ == 0:
		return fmt.Errorf("config: render.camera_z must be non-zero")
	case c.Game.Enemy.FireInterval <= 0:
		return fmt.Errorf("config: game.enemy.fire_interval must be positive, got %d", c.Game.Enemy.FireInterval)
	case c.Game.Bullet.Lifetime <= 0:
		return fmt.Errorf("config: game.bullet.lifetime must be positive, got %d", c.Game.Bullet.Lifetime)
	case c.Input.HoldTicks < 1:
		return fmt.Errorf("config: input.hold_ticks must be at least 1, got %d", c.Input.HoldTicks)
	}
	return nil
}

// RuntimeConfig derives the core runtime settings for a screen size.
func (c Config) RuntimeConfig(w, h int) core.RuntimeConfig {
	return core.RuntimeConfig{ScreenW: w, ScreenH: h, TickRate: c.TickRate}
}
