package replay

import "fmt"

// ManaSelector stands in for the host's mana-color popup.
type ManaSelector struct {
	Open     bool     `yaml:"open"`
	Options  []string `yaml:"options"`
	Max      int      `yaml:"max_selections"`
	Current  int      `yaml:"current,omitempty"`
	Selected []string `yaml:"selected,omitempty"`
}

func (m *ManaSelector) IsOpen() bool          { return m.Open }
func (m *ManaSelector) ValidOptionCount() int { return len(m.Options) }
func (m *ManaSelector) MaxSelections() int    { return m.Max }
func (m *ManaSelector) CurrentSelection() int { return m.Current }

func (m *ManaSelector) AllSelectionsComplete() bool { return m.Current >= m.Max }

func (m *ManaSelector) OptionAt(i int) string {
	if i < 0 || i >= len(m.Options) {
		return ""
	}
	return m.Options[i]
}

func (m *ManaSelector) SelectOption(i int) error {
	if !m.Open {
		return fmt.Errorf("selector is closed")
	}
	if i < 0 || i >= len(m.Options) {
		return fmt.Errorf("option %d out of range", i)
	}
	m.Selected = append(m.Selected, m.Options[i])
	m.Current++
	if m.Current >= m.Max {
		m.Open = false
	}
	return nil
}

func (m *ManaSelector) Close() error {
	m.Open = false
	return nil
}

// AutoPassController stands in for the host's auto-pass toggle.
type AutoPassController struct {
	Enabled bool `yaml:"enabled"`
}

func (a *AutoPassController) AutoPassEnabled() bool { return a.Enabled }

func (a *AutoPassController) SetAutoPass(on bool) error {
	a.Enabled = on
	return nil
}

// PhaseStopControl stands in for one phase-stop button.
type PhaseStopControl struct {
	Name string `yaml:"phase"`
	Set  bool   `yaml:"set,omitempty"`
}

func (p *PhaseStopControl) Phase() string   { return p.Name }
func (p *PhaseStopControl) IsStopSet() bool { return p.Set }

func (p *PhaseStopControl) ToggleStop() error {
	p.Set = !p.Set
	return nil
}
