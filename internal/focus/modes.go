package focus

// Mode is the interaction sub-mode that currently owns keyboard focus.
type Mode int

const (
	ModeIdle Mode = iota
	ModeEditingInputField
	ModeEditingDropdown
)

func (m Mode) String() string {
	switch m {
	case ModeEditingInputField:
		return "editing_input_field"
	case ModeEditingDropdown:
		return "editing_dropdown"
	default:
		return "idle"
	}
}

// MarshalText renders the mode by name in YAML and JSON output.
func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// caretGrace is how many frames a freshly entered field may lack a caret
// before the tracker treats it as defocused.
const caretGrace = 3

// Modes is the session-wide edit-mode context. Every component may read it;
// only the Tracker and the EditHelper write it, so at most one editing
// sub-mode is ever active.
type Modes struct {
	mode   Mode
	target int64 // field or dropdown item the mode is scoped to

	caretSeen bool
	grace     int
}

// NewModes returns an idle context.
func NewModes() *Modes {
	return &Modes{}
}

// Mode returns the current sub-mode.
func (m *Modes) Mode() Mode { return m.mode }

// EditingInputField reports whether a text field is being edited.
func (m *Modes) EditingInputField() bool { return m.mode == ModeEditingInputField }

// EditingDropdown reports whether an open dropdown holds focus.
func (m *Modes) EditingDropdown() bool { return m.mode == ModeEditingDropdown }

// Editing reports whether any editing sub-mode is active.
func (m *Modes) Editing() bool { return m.mode != ModeIdle }

// Target returns the identity the current sub-mode is scoped to, or 0.
func (m *Modes) Target() int64 { return m.target }

func (m *Modes) enterInputField(id int64) {
	m.mode = ModeEditingInputField
	m.target = id
	m.caretSeen = false
	m.grace = caretGrace
}

func (m *Modes) enterDropdown(id int64) {
	m.mode = ModeEditingDropdown
	m.target = id
	m.caretSeen = false
	m.grace = 0
}

func (m *Modes) reset() {
	*m = Modes{}
}
