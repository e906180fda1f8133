package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-stg/internal/core"
)

// KeyMap defines the key bindings for the game screen.
type KeyMap struct {
	Left    key.Binding
	Right   key.Binding
	Up      key.Binding
	Down    key.Binding
	Pause   key.Binding
	Restart key.Binding
	Help    key.Binding
	Quit    key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Left, k.Right, k.Up, k.Down, k.Pause, k.Restart, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Left, k.Right, k.Up, k.Down},
		{k.Pause, k.Restart, k.Help, k.Quit},
	}
}

// DefaultKeyMap returns arrows, vim keys and WASD for movement.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Left: key.NewBinding(
			key.WithKeys("left", "h", "a"),
			key.WithHelp("←/h/a", "left"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l", "d"),
			key.WithHelp("→/l/d", "right"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k", "w"),
			key.WithHelp("↑/k/w", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j", "s"),
			key.WithHelp("↓/j/s", "down"),
		),
		Pause: key.NewBinding(
			key.WithKeys("p", "esc"),
			key.WithHelp("p", "pause"),
		),
		Restart: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "restart"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// Direction is one of the four movement keys.
type Direction int

const (
	DirNone Direction = iota
	DirLeft
	DirRight
	DirUp
	DirDown
)

// MapKey translates a key message to a direction or a command.
// At most one of the results is set.
func (k KeyMap) MapKey(msg tea.KeyMsg) (Direction, core.Command) {
	switch {
	case key.Matches(msg, k.Quit):
		return DirNone, core.CommandQuit
	case key.Matches(msg, k.Pause):
		return DirNone, core.CommandPause
	case key.Matches(msg, k.Restart):
		return DirNone, core.CommandRestart
	case key.Matches(msg, k.Left):
		return DirLeft, core.CommandNone
	case key.Matches(msg, k.Right):
		return DirRight, core.CommandNone
	case key.Matches(msg, k.Up):
		return DirUp, core.CommandNone
	case key.Matches(msg, k.Down):
		return DirDown, core.CommandNone
	}
	return DirNone, core.CommandNone
}

// HeldInput turns key presses into held directions. Terminals report
// presses and auto-repeats but no releases, so a press keeps its direction
// held for a fixed number of ticks. Pressing a direction releases the
// opposite one.
type HeldInput struct {
	hold      int
	remaining [5]int // indexed by Direction
}

// NewHeldInput creates a HeldInput that holds each press for holdTicks ticks.
func NewHeldInput(holdTicks int) HeldInput {
	if holdTicks < 1 {
		holdTicks = 1
	}
	return HeldInput{hold: holdTicks}
}

// Press arms d for the hold duration.
func (h *HeldInput) Press(d Direction) {
	if d == DirNone {
		return
	}
	h.remaining[d] = h.hold
	h.remaining[opposite(d)] = 0
}

// Tick returns the directions held during this tick and ages every press.
func (h *HeldInput) Tick() core.InputState {
	s := core.InputState{
		Left:  h.remaining[DirLeft] > 0,
		Right: h.remaining[DirRight] > 0,
		Up:    h.remaining[DirUp] > 0,
		Down:  h.remaining[DirDown] > 0,
	}
	for d := range h.remaining {
		if h.remaining[d] > 0 {
			h.remaining[d]--
		}
	}
	return s
}

// Release drops every held direction.
func (h *HeldInput) Release() {
	h.remaining = [5]int{}
}

func opposite(d Direction) Direction {
	switch d {
	case DirLeft:
		return DirRight
	case DirRight:
		return DirLeft
	case DirUp:
		return DirDown
	case DirDown:
		return DirUp
	}
	return DirNone
}
