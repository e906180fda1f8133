package stg

import (
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/vovakirdan/tui-stg/internal/config"
	"github.com/vovakirdan/tui-stg/internal/core"
	"github.com/vovakirdan/tui-stg/internal/registry"
)

// recordingCanvas captures draw calls.
type recordingCanvas struct {
	quads   []core.Quad
	strings []string
	err     error
}

func (c *recordingCanvas) DrawQuad(q core.Quad) {
	c.quads = append(c.quads, q)
}

func (c *recordingCanvas) DrawString(x, y float64, s string) error {
	c.strings = append(c.strings, s)
	return c.err
}

func newTestGame() *Game {
	g := NewWithConfig(config.Default())
	g.Reset(core.DefaultConfig())
	return g
}

func TestResetSpawnsPlayerAndEnemy(t *testing.T) {
	g := newTestGame()
	w := g.World()

	if w.Len() != 2 {
		t.Fatalf("Len() = %d, expected 2", w.Len())
	}
	if w.At(0).Kind() != KindPlayer || w.At(1).Kind() != KindEnemy {
		t.Errorf("spawn order = %v, %v", w.At(0).Kind(), w.At(1).Kind())
	}
	if x, y := w.At(1).Pos(); x != 3 || y != 0 {
		t.Errorf("enemy at (%g, %g), expected (3, 0)", x, y)
	}
	if g.State() != (core.GameState{}) {
		t.Errorf("State() = %+v after Reset", g.State())
	}
}

func TestIdlePlayerIsShotDown(t *testing.T) {
	g := newTestGame()

	var state core.GameState
	for i := 0; i < 200 && !state.GameOver; i++ {
		state = g.Step(core.NewInputFrame()).State
	}

	if !state.GameOver {
		t.Fatal("an idle player should be hit by the first bullet")
	}
	// Bullet spawns at tick 60 and needs about 22 updates to reach the player
	if state.Score < 80 || state.Score > 90 {
		t.Errorf("score = %d, expected the hit around tick 82", state.Score)
	}

	before := state.Score
	state = g.Step(core.NewInputFrame()).State
	if state.Score != before {
		t.Error("game over should freeze the score")
	}
}

func TestDodgingPlayerSurvives(t *testing.T) {
	g := newTestGame()

	// Move up for a second, then stay; the enemy tracks slower than the
	// player moves, so early bullets pass below.
	for i := 0; i < 90; i++ {
		in := core.NewInputFrame()
		in.State.Up = i < 40
		if g.Step(in).State.GameOver {
			t.Fatalf("player died at tick %d", i+1)
		}
	}
}

func TestPauseFreezesSimulation(t *testing.T) {
	g := newTestGame()

	pause := core.NewInputFrame()
	pause.Set(core.CommandPause)

	g.Step(core.NewInputFrame())
	state := g.Step(pause).State
	if !state.Paused {
		t.Fatal("pause command should pause")
	}
	for i := 0; i < 10; i++ {
		g.Step(core.NewInputFrame())
	}
	if g.State().Score != 1 {
		t.Errorf("score advanced while paused: %d", g.State().Score)
	}

	if g.Step(pause).State.Paused {
		t.Error("second pause command should resume")
	}
	if g.State().Score != 2 {
		t.Errorf("score = %d after resume tick, expected 2", g.State().Score)
	}
}

func TestRenderDrawsObjectsThenOverlay(t *testing.T) {
	g := newTestGame()
	c := &recordingCanvas{}

	if err := g.Render(c); err != nil {
		t.Fatalf("Render() failed: %v", err)
	}
	if len(c.quads) != 2 {
		t.Fatalf("drew %d quads, expected 2", len(c.quads))
	}
	if c.quads[1].Color.G != 0.3 {
		t.Errorf("enemy quad tint = %+v", c.quads[1].Color)
	}
	if len(c.strings) != 1 {
		t.Fatalf("drew %d strings, expected 1", len(c.strings))
	}
	if want := "fps: 0.0\n日本語も書けるよ。"; c.strings[0] != want {
		t.Errorf("overlay = %q, expected %q", c.strings[0], want)
	}
}

func TestRenderPropagatesGlyphErrors(t *testing.T) {
	g := newTestGame()
	boom := errors.New("glyph failed")
	if err := g.Render(&recordingCanvas{err: boom}); !errors.Is(err, boom) {
		t.Errorf("Render() error = %v", err)
	}
}

func TestOverlayShowsGameState(t *testing.T) {
	g := newTestGame()
	pause := core.NewInputFrame()
	pause.Set(core.CommandPause)
	g.Step(pause)

	c := &recordingCanvas{}
	_ = g.Render(c)
	if !strings.HasSuffix(c.strings[0], "\nPAUSED") {
		t.Errorf("paused overlay = %q", c.strings[0])
	}
}

func TestFrameTimeMovingAverage(t *testing.T) {
	g := newTestGame()
	clock := time.Unix(0, 0)
	g.now = func() time.Time {
		clock = clock.Add(10 * time.Millisecond)
		return clock
	}

	c := &recordingCanvas{}
	_ = g.Render(c)
	if g.FPS() != 0 {
		t.Errorf("FPS() = %g after one frame, expected 0", g.FPS())
	}

	_ = g.Render(c) // 0*0.95 + 10*0.05 = 0.5ms
	if math.Abs(g.FPS()-2000) > 1e-6 {
		t.Errorf("FPS() = %g, expected 2000", g.FPS())
	}

	_ = g.Render(c) // 0.5*0.95 + 0.5 = 0.975ms
	if math.Abs(g.FPS()-1000/0.975) > 1e-6 {
		t.Errorf("FPS() = %g, expected %g", g.FPS(), 1000/0.975)
	}
}

func TestDifficultyPresetFiresSooner(t *testing.T) {
	cfg := config.Default()
	config.ApplyPreset(&cfg, config.DifficultyHard)
	g := NewWithConfig(cfg)
	g.Reset(core.DefaultConfig())

	// 60 - round(0.7 * 40) = 32 ticks between shots
	for i := 0; i < 31; i++ {
		g.Step(core.NewInputFrame())
	}
	if g.World().Len() != 2 {
		t.Fatalf("fired before tick 32: %d objects", g.World().Len())
	}
	g.Step(core.NewInputFrame())
	if g.World().Len() != 3 {
		t.Errorf("expected a bullet at tick 32, have %d objects", g.World().Len())
	}
}

func TestRegistered(t *testing.T) {
	if !registry.Exists(ID) {
		t.Fatal("game should register itself")
	}
	g, err := registry.Create(ID)
	if err != nil {
		t.Fatal(err)
	}
	if g.Title() != "Shooting Game" {
		t.Errorf("Title() = %q", g.Title())
	}
}
