package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-stg/internal/core"
	"github.com/vovakirdan/tui-stg/internal/logging"
	"github.com/vovakirdan/tui-stg/internal/registry"
	"github.com/vovakirdan/tui-stg/internal/render"
	"github.com/vovakirdan/tui-stg/internal/sprite"
	"github.com/vovakirdan/tui-stg/internal/storage"
)

// Options wires a game to its collaborators.
type Options struct {
	Compositor *render.Compositor
	Store      *storage.Store // nil disables score saving
	Runtime    core.RuntimeConfig
	HoldTicks  int
	Difficulty string // recorded with each saved run
	Logger     *log.Logger

	// Watcher, when set, triggers ReloadSprites on data-directory changes.
	Watcher       *sprite.Watcher
	ReloadSprites func() (render.SpriteSource, error)
}

// Model is the Bubble Tea model for running the game.
type Model struct {
	game       registry.Game
	opts       Options
	screen     *core.Screen
	keys       KeyMap
	help       help.Model
	held       HeldInput
	inputFrame core.InputFrame
	gameState  core.GameState
	quitting   bool
	scoreSaved bool // Whether score has been saved for current game over
	lastRunID  string
	err        error
}

// spriteChangedMsg carries one data-directory change.
type spriteChangedMsg sprite.Change

// NewModel creates a new Bubble Tea model for the given game.
func NewModel(game registry.Game, opts Options) Model {
	if opts.Runtime.TickRate <= 0 {
		opts.Runtime.TickRate = core.DefaultConfig().TickRate
	}
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}

	return Model{
		game:       game,
		opts:       opts,
		screen:     core.NewScreen(opts.Runtime.ScreenW, opts.Runtime.ScreenH),
		keys:       DefaultKeyMap(),
		help:       help.New(),
		held:       NewHeldInput(opts.HoldTicks),
		inputFrame: core.NewInputFrame(),
	}
}

// Init initializes the model and starts the game.
func (m Model) Init() tea.Cmd {
	m.game.Reset(m.opts.Runtime)
	// Note: gameState will be set on first tick (value receiver limitation)

	cmds := []tea.Cmd{tickCmd(m.opts.Runtime.TickRate)}
	if m.opts.Watcher != nil {
		cmds = append(cmds, waitForSpriteChange(m.opts.Watcher))
	}
	return tea.Batch(cmds...)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case TickMsg:
		return m.handleTick()

	case spriteChangedMsg:
		return m.handleSpriteChange(sprite.Change(msg))
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Help) {
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	dir, cmd := m.keys.MapKey(msg)
	switch cmd {
	case core.CommandQuit:
		m.quitting = true
		return m, tea.Quit
	case core.CommandRestart:
		if m.gameState.GameOver {
			m.inputFrame.Set(core.CommandRestart)
		}
	case core.CommandPause:
		m.inputFrame.Set(core.CommandPause)
	}
	m.held.Press(dir)

	return m, nil
}

// handleResize processes window resize events. The bottom line is kept for help.
func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	h := msg.Height - 1
	if h < 1 {
		h = 1
	}
	m.opts.Runtime.ScreenW = msg.Width
	m.opts.Runtime.ScreenH = h
	m.screen.Resize(msg.Width, h)
	m.help.Width = msg.Width
	return m, nil
}

// handleTick advances the simulation one tick and renders the frame.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	if m.inputFrame.Has(core.CommandRestart) && m.gameState.GameOver {
		m.game.Reset(m.opts.Runtime)
		m.gameState = m.game.State()
		m.scoreSaved = false
		m.held.Release()
		m.inputFrame.Clear()
		return m, tickCmd(m.opts.Runtime.TickRate)
	}

	m.inputFrame.State = m.held.Tick()
	result := m.game.Step(m.inputFrame)
	m.gameState = result.State

	if m.gameState.GameOver && !m.scoreSaved {
		m.saveRun()
		m.scoreSaved = true
	}

	m.inputFrame.Clear()

	if err := m.renderFrame(); err != nil {
		m.opts.Logger.Error("frame failed", "error", err)
		m.err = err
		m.quitting = true
		return m, tea.Quit
	}

	return m, tickCmd(m.opts.Runtime.TickRate)
}

// saveRun records the finished run. Failures are logged; play continues.
func (m *Model) saveRun() {
	if m.opts.Store == nil || m.gameState.Score <= 0 {
		return
	}
	e, err := m.opts.Store.SaveRun(storage.ScoreEntry{
		GameID:     m.game.ID(),
		Score:      m.gameState.Score,
		Difficulty: m.opts.Difficulty,
	})
	if err != nil {
		m.opts.Logger.Warn("cannot save run", "error", err)
		return
	}
	m.lastRunID = e.RunID
	m.opts.Logger.Info("run saved", "run", e.RunID, "score", e.Score)
}

// renderFrame draws the game through the compositor into the screen buffer.
func (m *Model) renderFrame() error {
	c := m.opts.Compositor
	if c == nil {
		return nil
	}
	c.Begin()
	if err := m.game.Render(c); err != nil {
		return err
	}
	c.Present(m.screen)
	return nil
}

func (m Model) handleSpriteChange(ch sprite.Change) (tea.Model, tea.Cmd) {
	if m.opts.ReloadSprites != nil && m.opts.Compositor != nil {
		set, err := m.opts.ReloadSprites()
		if err != nil {
			m.opts.Logger.Warn("sprite reload failed", "texture", ch.Texture, "path", ch.Path, "error", err)
		} else {
			m.opts.Compositor.SetSprites(set)
			m.opts.Logger.Info("sprites reloaded", "texture", ch.Texture, "op", ch.Op.String())
		}
	}
	return m, waitForSpriteChange(m.opts.Watcher)
}

// waitForSpriteChange blocks on the watcher; a closed watcher ends the loop.
func waitForSpriteChange(w *sprite.Watcher) tea.Cmd {
	return func() tea.Msg {
		ch, ok := <-w.Changes()
		if !ok {
			return nil
		}
		return spriteChangedMsg(ch)
	}
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	return RenderScreen(m.screen) + "\n" + helpStyle.Render(m.help.View(m.keys))
}

// Err returns the error that stopped the game, if any.
func (m Model) Err() error {
	return m.err
}

// LastRunID returns the run ID of the most recently saved run.
func (m Model) LastRunID() string {
	return m.lastRunID
}

// Run starts the Bubble Tea program and returns the error that ended the
// game, if any.
func Run(game registry.Game, opts Options) error {
	p := tea.NewProgram(
		NewModel(game, opts),
		tea.WithAltScreen(),
	)

	final, err := p.Run()
	if err != nil {
		return err
	}
	if fm, ok := final.(Model); ok {
		return fm.Err()
	}
	return nil
}
