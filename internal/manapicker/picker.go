// Package manapicker narrates the host's mana-color choice popup and lets the
// player pick colors with the number keys.
package manapicker

import (
	"strings"
	"time"

	"github.com/mj1618/arena-access/internal/capability"
	"github.com/mj1618/arena-access/internal/clock"
	"github.com/mj1618/arena-access/internal/logging"
	"github.com/mj1618/arena-access/internal/model"
	"github.com/mj1618/arena-access/internal/platform"
)

// Methods is the shape required of the host's selector type.
var Methods = []capability.Method{
	{Name: "IsOpen", NumIn: 0, NumOut: 1},
	{Name: "ValidOptionCount", NumIn: 0, NumOut: 1},
	{Name: "OptionAt", NumIn: 1, NumOut: 1},
	{Name: "MaxSelections", NumIn: 0, NumOut: 1},
	{Name: "CurrentSelection", NumIn: 0, NumOut: 1},
	{Name: "AllSelectionsComplete", NumIn: 0, NumOut: 1},
	{Name: "SelectOption", NumIn: 1, NumOut: 1},
	{Name: "Close", NumIn: 0, NumOut: 1},
}

// State is what the picker last read from the host.
type State struct {
	Open     bool     `yaml:"open"              json:"open"`
	Options  []string `yaml:"options,omitempty" json:"options,omitempty"`
	Pick     int      `yaml:"pick"              json:"pick"`
	Total    int      `yaml:"total"             json:"total"`
	Disabled bool     `yaml:"disabled"          json:"disabled"`
}

// Options tunes the Picker.
type Options struct {
	PollInterval time.Duration
	MaxOptions   int
}

// Picker polls for an open selector and handles number-key picks.
type Picker struct {
	probe     *capability.Probe
	keys      platform.Keyboard
	announcer platform.Announcer
	strings   platform.Strings
	clock     clock.Clock
	opts      Options
	log       *logging.Logger

	polled   bool
	lastPoll time.Time

	open      bool
	instance  capability.Instance
	options   []string
	pick      int
	total     int
	announced bool
}

// New creates a Picker over probe.
func New(p *platform.Provider, probe *capability.Probe, c clock.Clock, opts Options, log *logging.Logger) *Picker {
	if opts.MaxOptions < 1 {
		opts.MaxOptions = 6
	}
	if log == nil {
		log = logging.NopLogger()
	}
	return &Picker{
		probe:     probe,
		keys:      p.Keyboard,
		announcer: p.Announcer,
		strings:   p.Strings,
		clock:     c,
		opts:      opts,
		log:       log.WithComponent("manapicker"),
	}
}

// Update polls for the popup every PollInterval.
func (m *Picker) Update(_ *model.Scene) {
	now := m.clock.Now()
	if m.polled && now.Sub(m.lastPoll) < m.opts.PollInterval {
		return
	}
	m.polled = true
	m.lastPoll = now

	insts, err := m.probe.Instances()
	if err != nil {
		m.reset()
		return
	}
	for _, inst := range insts {
		open, err := inst.Bool("IsOpen")
		if err != nil || !open {
			continue
		}
		if !m.open {
			m.instance = inst
			if m.read() {
				m.open = true
				m.announced = false
				m.log.Debug("picker opened", "options", len(m.options), "total", m.total)
			}
		}
		return
	}
	if m.open {
		m.log.Debug("picker closed by host")
	}
	m.reset()
}

// HandleInput narrates a newly opened popup and handles picks. It reports
// whether a key was consumed.
func (m *Picker) HandleInput(_ *model.Scene) bool {
	if !m.open {
		return false
	}
	if !m.announced {
		m.narrate()
	}

	if m.keys.Held(platform.KeyCtrl) {
		return false
	}
	switch {
	case m.keys.Pressed(platform.KeyBackspace):
		if err := m.instance.Invoke("Close"); err != nil {
			m.announcer.Announce(m.strings.Format("mana_failed", err.Error()), platform.PriorityHigh)
			return true
		}
		m.reset()
		m.announcer.Announce(m.strings.Get("mana_closed"), platform.PriorityNormal)
		return true
	}

	for _, k := range platform.DigitKeys[1:] {
		if m.keys.Pressed(k) {
			m.choose(platform.DigitValue(k))
			return true
		}
	}
	return false
}

// State returns a snapshot for diagnostics.
func (m *Picker) State() State {
	st := State{
		Open:     m.open,
		Pick:     m.pick,
		Total:    m.total,
		Disabled: m.probe.Status() == capability.StatusUnavailable,
	}
	st.Options = append(st.Options, m.options...)
	return st
}

// IsOpen reports whether the popup is being handled.
func (m *Picker) IsOpen() bool { return m.open }

// Reset forgets the popup.
func (m *Picker) Reset() {
	m.reset()
	m.polled = false
}

func (m *Picker) choose(n int) {
	if n < 1 || n > len(m.options) {
		m.announcer.Announce(m.strings.Get("mana_invalid_key"), platform.PriorityNormal)
		return
	}
	name := m.options[n-1]
	if err := m.instance.Invoke("SelectOption", n-1); err != nil {
		m.log.Warn("select failed", "option", n-1, "error", err)
		m.announcer.Announce(m.strings.Format("mana_failed", err.Error()), platform.PriorityHigh)
		return
	}
	m.announcer.Announce(m.strings.Format("mana_picked", name), platform.PriorityNormal)

	done, err := m.instance.Bool("AllSelectionsComplete")
	if err != nil || done {
		m.reset()
		return
	}
	if open, err := m.instance.Bool("IsOpen"); err != nil || !open {
		m.reset()
		return
	}
	if !m.read() {
		m.reset()
		return
	}
	m.announced = false
}

// read loads the option list and pick counters from the instance.
func (m *Picker) read() bool {
	count, err := m.instance.Int("ValidOptionCount")
	if err != nil {
		return false
	}
	count = min(count, m.opts.MaxOptions)
	options := make([]string, 0, count)
	for i := 0; i < count; i++ {
		name, err := m.instance.Text("OptionAt", i)
		if err != nil {
			return false
		}
		options = append(options, name)
	}
	total, err := m.instance.Int("MaxSelections")
	if err != nil {
		return false
	}
	pick, err := m.instance.Int("CurrentSelection")
	if err != nil {
		return false
	}
	m.options = options
	m.total = total
	m.pick = pick
	return true
}

func (m *Picker) narrate() {
	m.announced = true
	parts := make([]string, len(m.options))
	for i, o := range m.options {
		parts[i] = m.strings.Format("mana_option", i+1, o)
	}
	head := m.strings.Format("mana_open", m.pick+1, max(m.total, 1))
	m.announcer.Announce(head+". "+strings.Join(parts, ", "), platform.PriorityNormal)
}

func (m *Picker) reset() {
	m.open = false
	m.instance = capability.Instance{}
	m.options = nil
	m.pick = 0
	m.total = 0
	m.announced = false
}
