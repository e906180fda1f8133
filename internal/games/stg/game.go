// Package stg implements a single-screen shooting game.
// The player dodges bullets fired by an enemy that tracks the player's
// height. The score is the number of ticks survived.
package stg

import (
	"fmt"
	"strings"
	"time"

	"github.com/vovakirdan/tui-stg/internal/config"
	"github.com/vovakirdan/tui-stg/internal/core"
	"github.com/vovakirdan/tui-stg/internal/registry"
)

// ID is the registry and score-table identifier of the game.
const ID = "stg"

// FrameTimeSmoothing is the weight of the previous average in the frame
// time moving average.
const FrameTimeSmoothing = 0.95

// gameConfig stores the configuration set via CLI
var gameConfig = config.Default()

// SetConfig sets the configuration used by games created afterwards.
func SetConfig(cfg config.Config) {
	gameConfig = cfg
}

// Game implements the shooting game logic.
type Game struct {
	cfg        config.Config
	world      *World
	difficulty *config.DifficultyManager
	runtime    core.RuntimeConfig
	tickCount  int  // ticks survived
	gameOver   bool // player destroyed
	paused     bool

	frameTime float64 // moving average of frame duration, milliseconds
	lastFrame time.Time
	now       func() time.Time
}

// New creates a game using the configuration set by SetConfig.
func New() *Game {
	return NewWithConfig(gameConfig)
}

// NewWithConfig creates a game with an explicit configuration.
func NewWithConfig(cfg config.Config) *Game {
	return &Game{cfg: cfg, now: time.Now}
}

// ID returns the unique identifier for this game.
func (g *Game) ID() string {
	return ID
}

// Title returns the display name for this game.
func (g *Game) Title() string {
	return "Shooting Game"
}

// Reset initializes or restarts the game.
func (g *Game) Reset(runtime core.RuntimeConfig) {
	g.runtime = runtime
	g.difficulty = config.NewDifficultyManager(g.cfg.Difficulty)

	if g.world == nil {
		g.world = NewWorld(g.cfg.Game)
	} else {
		g.world.Reset()
	}

	gc := g.world.Config()
	g.world.Add(NewPlayer(&gc))
	g.world.Add(NewEnemy(gc.Enemy.StartX, gc.Enemy.StartY, &gc))

	g.tickCount = 0
	g.gameOver = false
	g.paused = false
	g.lastFrame = time.Time{}
}

// Step advances the game by one tick.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	if g.gameOver {
		return core.StepResult{State: g.State()}
	}

	// Handle pause toggle
	if in.Has(core.CommandPause) {
		g.paused = !g.paused
	}

	if g.paused {
		return core.StepResult{State: g.State()}
	}

	g.tickCount++

	if g.difficulty.IsEnabled() {
		g.world.SetFireInterval(g.difficulty.FireInterval(g.cfg.Game.Enemy.FireInterval, g.tickCount))
		g.world.SetBulletSpeed(g.difficulty.BulletSpeed(g.cfg.Game.Bullet.Speed, g.tickCount))
	}

	g.world.Step(in.State)

	if _, ok := g.world.Player(); !ok {
		g.gameOver = true
	}

	return core.StepResult{State: g.State()}
}

// Render draws every object in spawn order and then the text overlay.
// The only error is a glyph that failed to rasterize.
func (g *Game) Render(dst core.Canvas) error {
	g.observeFrame()

	g.world.Each(func(o *Object) bool {
		dst.DrawQuad(o.Quad())
		return true
	})

	return dst.DrawString(0, 0, g.overlay())
}

// overlay builds the text block drawn in the top-left corner.
func (g *Game) overlay() string {
	var b strings.Builder
	fmt.Fprintf(&b, "fps: %.1f", g.FPS())
	if g.cfg.Render.Overlay != "" {
		b.WriteString("\n")
		b.WriteString(g.cfg.Render.Overlay)
	}
	switch {
	case g.gameOver:
		fmt.Fprintf(&b, "\nGAME OVER  score: %d", g.tickCount)
	case g.paused:
		b.WriteString("\nPAUSED")
	}
	return b.String()
}

// observeFrame folds the time since the previous Render into the frame
// time average.
func (g *Game) observeFrame() {
	now := g.now()
	if !g.lastFrame.IsZero() {
		dur := float64(now.Sub(g.lastFrame)) / float64(time.Millisecond)
		g.frameTime = g.frameTime*FrameTimeSmoothing + dur*(1-FrameTimeSmoothing)
	}
	g.lastFrame = now
}

// FPS returns the smoothed frame rate, or 0 before two frames were drawn.
func (g *Game) FPS() float64 {
	if g.frameTime <= 0 {
		return 0
	}
	return 1000 / g.frameTime
}

// World exposes the object registry.
func (g *Game) World() *World {
	return g.world
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	return core.GameState{
		Score:    g.tickCount,
		GameOver: g.gameOver,
		Paused:   g.paused,
	}
}

func init() {
	registry.Register(ID, func() registry.Game {
		return New()
	})
}
