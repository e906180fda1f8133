package tui

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-stg/internal/config"
	"github.com/vovakirdan/tui-stg/internal/core"
	"github.com/vovakirdan/tui-stg/internal/render"
	"github.com/vovakirdan/tui-stg/internal/storage"
)

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestMapKey(t *testing.T) {
	keys := DefaultKeyMap()
	tests := []struct {
		msg tea.KeyMsg
		dir Direction
		cmd core.Command
	}{
		{tea.KeyMsg{Type: tea.KeyLeft}, DirLeft, core.CommandNone},
		{runeKey('h'), DirLeft, core.CommandNone},
		{runeKey('d'), DirRight, core.CommandNone},
		{runeKey('k'), DirUp, core.CommandNone},
		{tea.KeyMsg{Type: tea.KeyDown}, DirDown, core.CommandNone},
		{runeKey('p'), DirNone, core.CommandPause},
		{tea.KeyMsg{Type: tea.KeyEsc}, DirNone, core.CommandPause},
		{runeKey('r'), DirNone, core.CommandRestart},
		{runeKey('q'), DirNone, core.CommandQuit},
		{tea.KeyMsg{Type: tea.KeyCtrlC}, DirNone, core.CommandQuit},
		{runeKey('x'), DirNone, core.CommandNone},
	}
	for _, tt := range tests {
		dir, cmd := keys.MapKey(tt.msg)
		if dir != tt.dir || cmd != tt.cmd {
			t.Errorf("MapKey(%q) = %v, %v; expected %v, %v", tt.msg.String(), dir, cmd, tt.dir, tt.cmd)
		}
	}
}

func TestHeldInputDecays(t *testing.T) {
	h := NewHeldInput(3)
	h.Press(DirLeft)
	h.Press(DirUp)

	for i := 0; i < 3; i++ {
		s := h.Tick()
		if !s.Left || !s.Up || s.Right || s.Down {
			t.Fatalf("tick %d: %+v", i, s)
		}
	}
	if s := h.Tick(); s.Any() {
		t.Errorf("press should expire after 3 ticks, got %+v", s)
	}
}

func TestHeldInputRepeatAndOpposite(t *testing.T) {
	h := NewHeldInput(2)
	h.Press(DirLeft)
	h.Tick()
	h.Press(DirLeft) // auto-repeat re-arms
	h.Tick()
	if s := h.Tick(); !s.Left {
		t.Error("re-armed press should still be held")
	}

	h.Press(DirRight)
	if s := h.Tick(); s.Left || !s.Right {
		t.Errorf("opposite press should release left, got %+v", s)
	}

	h.Press(DirDown)
	h.Release()
	if s := h.Tick(); s.Any() {
		t.Errorf("Release() left %+v held", s)
	}

	if NewHeldInput(0).hold != 1 {
		t.Error("hold should be at least one tick")
	}
}

func TestRenderScreen(t *testing.T) {
	s := core.NewScreen(3, 2)
	for y := 0; y < 2; y++ {
		for x := 0; x < 3; x++ {
			s.SetCell(x, y, core.Cell{Rune: '▀', Fg: core.RGB8{R: uint8(x * 80)}, Bg: core.RGB8{B: 200}})
		}
	}

	out := RenderScreen(s)
	if n := strings.Count(out, "▀"); n != 6 {
		t.Errorf("rendered %d half blocks, expected 6", n)
	}
	if n := strings.Count(out, "\n"); n != 1 {
		t.Errorf("rendered %d newlines, expected 1", n)
	}
}

// stubGame dies after a fixed number of steps and records its input.
type stubGame struct {
	resets    int
	steps     int
	dieAfter  int
	last      core.InputFrame
	renderErr error
	rendered  int
}

func (g *stubGame) ID() string    { return "stub" }
func (g *stubGame) Title() string { return "Stub" }

func (g *stubGame) Reset(core.RuntimeConfig) {
	g.resets++
	g.steps = 0
}

func (g *stubGame) Step(in core.InputFrame) core.StepResult {
	g.last = core.InputFrame{State: in.State}
	if in.Has(core.CommandPause) {
		g.last.Set(core.CommandPause)
	}
	if g.steps < g.dieAfter {
		g.steps++
	}
	return core.StepResult{State: g.State()}
}

func (g *stubGame) Render(dst core.Canvas) error {
	g.rendered++
	return g.renderErr
}

func (g *stubGame) State() core.GameState {
	return core.GameState{Score: g.steps, GameOver: g.steps >= g.dieAfter}
}

func step(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return nm, cmd
}

func TestModelHeldInputReachesGame(t *testing.T) {
	g := &stubGame{dieAfter: 100}
	m := NewModel(g, Options{Runtime: core.DefaultConfig(), HoldTicks: 2})
	m.Init()

	m, _ = step(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	m, _ = step(t, m, runeKey('p'))
	m, _ = step(t, m, TickMsg{})
	if !g.last.State.Left || !g.last.Has(core.CommandPause) {
		t.Errorf("first tick input = %+v", g.last)
	}

	m, _ = step(t, m, TickMsg{})
	if !g.last.State.Left || g.last.Has(core.CommandPause) {
		t.Errorf("second tick input = %+v; pause must be one-shot", g.last)
	}

	step(t, m, TickMsg{})
	if g.last.State.Left {
		t.Error("left should be released after the hold period")
	}
}

func TestModelSavesRunOnce(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "scores.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	g := &stubGame{dieAfter: 3}
	m := NewModel(g, Options{Runtime: core.DefaultConfig(), Store: store, Difficulty: "hard"})
	m.Init()

	for i := 0; i < 6; i++ {
		m, _ = step(t, m, TickMsg{})
	}

	runs, err := store.AllScores("stub")
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 || runs[0].Score != 3 || runs[0].Difficulty != "hard" {
		t.Fatalf("saved runs = %+v", runs)
	}
	if m.LastRunID() != runs[0].RunID {
		t.Errorf("LastRunID() = %q, expected %q", m.LastRunID(), runs[0].RunID)
	}

	// restart and die again: a second run is saved
	m, _ = step(t, m, runeKey('r'))
	m, _ = step(t, m, TickMsg{})
	if g.resets != 2 {
		t.Errorf("restart should reset the game, resets = %d", g.resets)
	}
	for i := 0; i < 4; i++ {
		m, _ = step(t, m, TickMsg{})
	}
	if runs, _ := store.AllScores("stub"); len(runs) != 2 {
		t.Errorf("expected 2 saved runs, got %d", len(runs))
	}
}

func TestModelRenderErrorQuits(t *testing.T) {
	comp, err := render.New(render.Options{Width: 8, Height: 8, FOV: 45, CameraZ: -8}, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	boom := errors.New("boom")
	g := &stubGame{dieAfter: 100, renderErr: boom}
	m := NewModel(g, Options{Runtime: core.DefaultConfig(), Compositor: comp})
	m.Init()

	m, cmd := step(t, m, TickMsg{})
	if !errors.Is(m.Err(), boom) {
		t.Errorf("Err() = %v, expected boom", m.Err())
	}
	if cmd == nil {
		t.Fatal("expected a quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("render failure should quit the program")
	}
	if m.View() != "" {
		t.Error("quitting model should render nothing")
	}
}

func TestModelPresentsFrame(t *testing.T) {
	comp, err := render.New(render.Options{
		Width: 8, Height: 8, FOV: 45, CameraZ: -8,
		Clear: core.Color{R: 1, A: 1},
	}, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	g := &stubGame{dieAfter: 100}
	m := NewModel(g, Options{Runtime: core.RuntimeConfig{ScreenW: 4, ScreenH: 2, TickRate: 60}, Compositor: comp})
	m.Init()

	m, _ = step(t, m, TickMsg{})
	if g.rendered != 1 {
		t.Errorf("rendered %d frames, expected 1", g.rendered)
	}
	if c := m.screen.GetCell(1, 1); c.Rune != render.HalfBlock || c.Fg.R < 250 {
		t.Errorf("presented cell = %+v", c)
	}
}

func TestModelResizeKeepsHelpLine(t *testing.T) {
	m := NewModel(&stubGame{dieAfter: 1}, Options{Runtime: core.DefaultConfig()})
	m, _ = step(t, m, tea.WindowSizeMsg{Width: 40, Height: 12})
	if m.screen.Width() != 40 || m.screen.Height() != 11 {
		t.Errorf("screen = %dx%d, expected 40x11", m.screen.Width(), m.screen.Height())
	}
}

func TestModelQuit(t *testing.T) {
	m := NewModel(&stubGame{dieAfter: 1}, Options{Runtime: core.DefaultConfig()})
	m, cmd := step(t, m, runeKey('q'))
	if cmd == nil || !m.quitting {
		t.Fatal("q should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
}

func TestMenuSelection(t *testing.T) {
	m := NewMenuModel("Shooting Game", "stg", nil, 80, 24)

	first, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if sel := first.(MenuModel).Selected(); sel == nil || sel.Preset != config.DifficultyFixed {
		t.Fatalf("default entry = %+v, want the fixed preset", sel)
	}

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyDown})
	next, cmd := next.(MenuModel).Update(tea.KeyMsg{Type: tea.KeyEnter})
	mm := next.(MenuModel)
	if cmd == nil || mm.Selected() == nil || mm.Selected().Preset != "easy" {
		t.Fatalf("selected = %+v", mm.Selected())
	}

	next, _ = NewMenuModel("Shooting Game", "stg", nil, 80, 24).Update(tea.KeyMsg{Type: tea.KeyTab})
	if sel := next.(MenuModel).Selected(); sel == nil || !sel.Scoreboard {
		t.Errorf("tab should pick the scoreboard, got %+v", sel)
	}

	if !strings.Contains(m.View(), "Shooting Game") {
		t.Error("menu should show the game title")
	}
}

func TestScoreboardDifficultyTabs(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "scores.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	for _, r := range []storage.ScoreEntry{
		{GameID: "stg", Score: 40, Difficulty: "fixed"},
		{GameID: "stg", Score: 90, Difficulty: "easy"},
		{GameID: "stg", Score: 70, Difficulty: "easy"},
	} {
		if _, err := store.SaveRun(r); err != nil {
			t.Fatal(err)
		}
	}

	m := NewScoreboardModel(store, "stg", 80, 24)
	if m.Tab().Label != "" || len(m.Scores()) != 3 {
		t.Fatalf("all tab: label %q, %d scores", m.Tab().Label, len(m.Scores()))
	}

	tests := []struct {
		key   tea.KeyMsg
		label config.DifficultyPreset
		count int
	}{
		{tea.KeyMsg{Type: tea.KeyTab}, config.DifficultyFixed, 1},
		{tea.KeyMsg{Type: tea.KeyRight}, config.DifficultyEasy, 2},
		{tea.KeyMsg{Type: tea.KeyTab}, config.DifficultyNormal, 0},
		{tea.KeyMsg{Type: tea.KeyLeft}, config.DifficultyEasy, 2},
		{tea.KeyMsg{Type: tea.KeyShiftTab}, config.DifficultyFixed, 1},
		{tea.KeyMsg{Type: tea.KeyShiftTab}, "", 3},
		{tea.KeyMsg{Type: tea.KeyShiftTab}, config.DifficultyHard, 0},
	}
	for i, tt := range tests {
		next, _ := m.Update(tt.key)
		m = next.(ScoreboardModel)
		if m.Tab().Label != tt.label || len(m.Scores()) != tt.count {
			t.Fatalf("step %d: tab %q with %d scores, want %q with %d",
				i, m.Tab().Label, len(m.Scores()), tt.label, tt.count)
		}
	}

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	m = next.(ScoreboardModel)
	if got := m.Scores(); len(got) != 0 {
		t.Fatalf("normal tab should be empty, got %+v", got)
	}
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	m = next.(ScoreboardModel)
	if got := m.Scores(); len(got) != 2 || got[0].Score != 90 {
		t.Errorf("easy tab scores = %+v", got)
	}
	if !strings.Contains(m.View(), "easy") {
		t.Error("view should show the difficulty tabs")
	}
}
