package core

// InputState is the directional input sampled once per frame.
// The four flags are independent; holding two of them moves diagonally.
type InputState struct {
	Left  bool
	Right bool
	Up    bool
	Down  bool
}

// Any reports whether any direction is held.
func (s InputState) Any() bool {
	return s.Left || s.Right || s.Up || s.Down
}

// Command is a non-directional request from the player for one frame.
type Command int

const (
	CommandNone    Command = iota
	CommandPause           // P, Escape - pause/unpause game
	CommandRestart         // R key - restart game after game over
	CommandQuit            // Q, Ctrl+C - exit
)

// String returns a human-readable name for the command.
func (c Command) String() string {
	switch c {
	case CommandNone:
		return "None"
	case CommandPause:
		return "Pause"
	case CommandRestart:
		return "Restart"
	case CommandQuit:
		return "Quit"
	default:
		return "Unknown"
	}
}

// InputFrame is everything the platform hands a game for one tick.
type InputFrame struct {
	State    InputState
	Commands map[Command]bool
}

// NewInputFrame creates an empty input frame.
func NewInputFrame() InputFrame {
	return InputFrame{
		Commands: make(map[Command]bool),
	}
}

// Set marks a command as triggered for this frame.
func (f *InputFrame) Set(c Command) {
	if f.Commands == nil {
		f.Commands = make(map[Command]bool)
	}
	f.Commands[c] = true
}

// Has returns true if the given command was triggered this frame.
func (f InputFrame) Has(c Command) bool {
	if f.Commands == nil {
		return false
	}
	return f.Commands[c]
}

// Clear resets the commands for the next frame. Directional state is kept;
// the platform owns its lifetime.
func (f *InputFrame) Clear() {
	for k := range f.Commands {
		delete(f.Commands, k)
	}
}
