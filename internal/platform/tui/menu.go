package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-stg/internal/config"
	"github.com/vovakirdan/tui-stg/internal/storage"
)

// MenuItem is one line of the title menu.
type MenuItem struct {
	Label      string
	Preset     config.DifficultyPreset // empty for the scoreboard entry
	Scoreboard bool
}

// MenuKeyMap defines the key bindings for the title menu.
type MenuKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Select key.Binding
	Scores key.Binding
	Quit   key.Binding
}

// DefaultMenuKeyMap returns default key bindings.
func DefaultMenuKeyMap() MenuKeyMap {
	return MenuKeyMap{
		Up:     key.NewBinding(key.WithKeys("up", "k", "w")),
		Down:   key.NewBinding(key.WithKeys("down", "j", "s")),
		Select: key.NewBinding(key.WithKeys("enter", " ")),
		Scores: key.NewBinding(key.WithKeys("tab")),
		Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c", "esc")),
	}
}

// MenuModel is the Bubble Tea model for the title menu.
type MenuModel struct {
	title     string
	items     []MenuItem
	cursor    int
	width     int
	height    int
	highScore int
	keys      MenuKeyMap
	quitting  bool
	selected  *MenuItem
}

// NewMenuModel creates the title menu. store may be nil.
func NewMenuModel(title, gameID string, store *storage.Store, width, height int) MenuModel {
	items := []MenuItem{
		{Label: "Start", Preset: config.DifficultyFixed},
		{Label: "Start (easy)", Preset: config.DifficultyEasy},
		{Label: "Start (normal)", Preset: config.DifficultyNormal},
		{Label: "Start (hard)", Preset: config.DifficultyHard},
		{Label: "High scores", Scoreboard: true},
	}

	m := MenuModel{
		title:  title,
		items:  items,
		width:  width,
		height: height,
		keys:   DefaultMenuKeyMap(),
	}
	if store != nil {
		if hs, err := store.HighScore(gameID); err == nil {
			m.highScore = hs
		}
	}
	return m
}

// Init initializes the menu model.
func (m MenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	}

	return m, nil
}

// handleKey processes keyboard input for menu navigation.
func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}

	case key.Matches(msg, m.keys.Select):
		selected := m.items[m.cursor]
		m.selected = &selected
		return m, tea.Quit

	case key.Matches(msg, m.keys.Scores):
		selected := m.items[len(m.items)-1]
		m.selected = &selected
		return m, tea.Quit
	}

	return m, nil
}

// View renders the menu.
func (m MenuModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	b.WriteString("\n")
	b.WriteString(centerText(titleStyle.Render(m.title), m.width))
	b.WriteString("\n\n")
	if m.highScore > 0 {
		b.WriteString(centerText(fmt.Sprintf("best: %d ticks", m.highScore), m.width))
		b.WriteString("\n\n")
	}

	for i, item := range m.items {
		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}
		b.WriteString(centerText(cursor+item.Label, m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	controls := "Up/Down: Navigate  |  Enter: Select  |  Tab: Scores  |  Q: Quit"
	b.WriteString(centerText(controls, m.width))
	b.WriteString("\n")

	return b.String()
}

// Selected returns the selected menu item, or nil if none selected.
func (m MenuModel) Selected() *MenuItem {
	return m.selected
}

// IsQuitting returns true if user requested to quit.
func (m MenuModel) IsQuitting() bool {
	return m.quitting
}

// centerText centers text within given width.
func centerText(text string, width int) string {
	w := lipgloss.Width(text)
	if w >= width {
		return text
	}
	return strings.Repeat(" ", (width-w)/2) + text
}

// RunMenu shows the title menu and returns the chosen item, or nil on quit.
func RunMenu(title, gameID string, store *storage.Store, width, height int) (*MenuItem, error) {
	p := tea.NewProgram(NewMenuModel(title, gameID, store, width, height), tea.WithAltScreen())

	final, err := p.Run()
	if err != nil {
		return nil, err
	}
	m, ok := final.(MenuModel)
	if !ok || m.IsQuitting() {
		return nil, nil
	}
	return m.Selected(), nil
}
