// Package priority bridges the host's auto-pass and phase-stop controls.
package priority

import (
	"errors"
	"slices"
	"strings"
	"unicode"

	"github.com/mj1618/arena-access/internal/capability"
	"github.com/mj1618/arena-access/internal/logging"
	"github.com/mj1618/arena-access/internal/model"
	"github.com/mj1618/arena-access/internal/platform"
)

// AutoPassMethods is the shape required of the host's auto-pass type.
var AutoPassMethods = []capability.Method{
	{Name: "AutoPassEnabled", NumIn: 0, NumOut: 1},
	{Name: "SetAutoPass", NumIn: 1, NumOut: 1},
}

// PhaseStopMethods is the shape required of the host's phase-stop type.
var PhaseStopMethods = []capability.Method{
	{Name: "Phase", NumIn: 0, NumOut: 1},
	{Name: "IsStopSet", NumIn: 0, NumOut: 1},
	{Name: "ToggleStop", NumIn: 0, NumOut: 1},
}

// PhaseOrder assigns phases to the digit keys 1..9 then 0.
var PhaseOrder = []string{
	"Upkeep",
	"Draw",
	"Main1",
	"BeginCombat",
	"DeclareAttackers",
	"DeclareBlockers",
	"CombatDamage",
	"EndCombat",
	"Main2",
	"End",
}

// KeyForSlot returns the digit for the i-th phase slot (1..9, then 0).
func KeyForSlot(i int) int {
	return (i + 1) % 10
}

// KeyOrder lists the digit keys in slot order.
func KeyOrder() []int {
	keys := make([]int, len(PhaseOrder))
	for i := range keys {
		keys[i] = KeyForSlot(i)
	}
	return keys
}

// PhaseMapping is one digit key's phase and its host handles.
type PhaseMapping struct {
	Key     int                   `yaml:"key"     json:"key"`
	Phase   string                `yaml:"phase"   json:"phase"`
	Handles []capability.Instance `yaml:"-"       json:"-"`
	Count   int                   `yaml:"handles" json:"handles"`
}

// Controller handles Ctrl+P (auto-pass) and Ctrl+digit (phase stops).
type Controller struct {
	autoPass  *capability.Probe
	phaseStop *capability.Probe
	keys      platform.Keyboard
	announcer platform.Announcer
	strings   platform.Strings
	log       *logging.Logger

	scene   string
	mapped  bool
	mapping map[int]*PhaseMapping
}

// New creates a Controller over the two probes.
func New(p *platform.Provider, autoPass, phaseStop *capability.Probe, log *logging.Logger) *Controller {
	if log == nil {
		log = logging.NopLogger()
	}
	return &Controller{
		autoPass:  autoPass,
		phaseStop: phaseStop,
		keys:      p.Keyboard,
		announcer: p.Announcer,
		strings:   p.Strings,
		log:       log.WithComponent("priority"),
	}
}

// HandleInput processes the priority hotkeys and reports whether one was consumed.
func (c *Controller) HandleInput(s *model.Scene) bool {
	if !c.keys.Held(platform.KeyCtrl) {
		return false
	}
	if c.keys.Pressed(platform.KeyP) {
		c.toggleAutoPass()
		return true
	}
	for d, k := range platform.DigitKeys {
		if c.keys.Pressed(k) {
			c.togglePhase(s, d)
			return true
		}
	}
	return false
}

// AutoPassEnabled queries the host's auto-pass state.
func (c *Controller) AutoPassEnabled() (bool, error) {
	inst, err := c.first(c.autoPass)
	if err != nil {
		return false, err
	}
	return inst.Bool("AutoPassEnabled")
}

// Invalidate drops the phase mapping; the next hotkey rebuilds it.
func (c *Controller) Invalidate() {
	c.scene = ""
	c.mapped = false
	c.mapping = nil
}

// Mapping returns the phase mapping for s, building it when needed.
func (c *Controller) Mapping(s *model.Scene) map[int]*PhaseMapping {
	name := ""
	if s != nil {
		name = s.Name
	}
	if c.mapped && c.scene == name {
		return c.mapping
	}
	insts, err := c.phaseStop.Instances()
	if err != nil || len(insts) == 0 {
		// Transient: controls not loaded yet. Retry on the next hotkey.
		return nil
	}

	byPhase := make(map[string][]capability.Instance)
	var discovered []string
	for _, inst := range insts {
		phase, err := inst.Text("Phase")
		if err != nil {
			continue
		}
		if _, ok := byPhase[phase]; !ok {
			discovered = append(discovered, phase)
		}
		byPhase[phase] = append(byPhase[phase], inst)
	}

	var order []string
	for _, p := range PhaseOrder {
		if _, ok := byPhase[p]; ok {
			order = append(order, p)
		}
	}
	for _, p := range discovered {
		if !slices.Contains(PhaseOrder, p) {
			order = append(order, p)
		}
	}

	mapping := make(map[int]*PhaseMapping)
	for i, p := range order {
		if i >= 10 {
			c.log.WarnOnce("phase-overflow:"+p, "more phases than digit keys", "phase", p)
			break
		}
		key := KeyForSlot(i)
		mapping[key] = &PhaseMapping{Key: key, Phase: p, Handles: byPhase[p], Count: len(byPhase[p])}
	}

	c.scene = name
	c.mapped = true
	c.mapping = mapping
	c.log.Debug("phase mapping built", "scene", name, "phases", len(mapping))
	return mapping
}

func (c *Controller) toggleAutoPass() {
	inst, err := c.first(c.autoPass)
	if err != nil {
		c.announcer.Announce(c.strings.Get("priority_unavailable"), platform.PriorityHigh)
		return
	}
	enabled, err := inst.Bool("AutoPassEnabled")
	if err == nil {
		err = inst.Invoke("SetAutoPass", !enabled)
	}
	if err != nil {
		c.log.Warn("auto-pass toggle failed", "error", err)
		c.announcer.Announce(c.strings.Format("priority_failed", c.strings.Get("autopass_label")), platform.PriorityHigh)
		return
	}
	if !enabled {
		c.announcer.Announce(c.strings.Get("autopass_on"), platform.PriorityNormal)
	} else {
		c.announcer.Announce(c.strings.Get("autopass_off"), platform.PriorityNormal)
	}
}

func (c *Controller) togglePhase(s *model.Scene, digit int) {
	if c.phaseStop.Status() == capability.StatusUnavailable {
		c.announcer.Announce(c.strings.Get("priority_unavailable"), platform.PriorityHigh)
		return
	}
	m, ok := c.Mapping(s)[digit]
	if !ok {
		c.announcer.Announce(c.strings.Format("phase_stop_unmapped", digit), platform.PriorityNormal)
		return
	}

	label := PhaseLabel(m.Phase)
	var set bool
	for i, h := range m.Handles {
		if err := h.Invoke("ToggleStop"); err != nil {
			c.log.Warn("phase toggle failed", "phase", m.Phase, "error", err)
			c.announcer.Announce(c.strings.Format("priority_failed", label), platform.PriorityHigh)
			return
		}
		if i == 0 {
			var err error
			if set, err = h.Bool("IsStopSet"); err != nil {
				c.log.Warn("phase stop read failed", "phase", m.Phase, "error", err)
				c.announcer.Announce(c.strings.Format("priority_failed", label), platform.PriorityHigh)
				return
			}
		}
	}
	if set {
		c.announcer.Announce(c.strings.Format("phase_stop_on", label), platform.PriorityNormal)
	} else {
		c.announcer.Announce(c.strings.Format("phase_stop_off", label), platform.PriorityNormal)
	}
}

func (c *Controller) first(p *capability.Probe) (capability.Instance, error) {
	insts, err := p.Instances()
	if err != nil {
		return capability.Instance{}, err
	}
	if len(insts) == 0 {
		return capability.Instance{}, errNoInstance
	}
	return insts[0], nil
}

var errNoInstance = errors.New("no live instance")

// PhaseLabel turns "DeclareAttackers" into "declare attackers" and "Main1"
// into "main 1".
func PhaseLabel(phase string) string {
	var b strings.Builder
	var prev rune
	for i, r := range phase {
		if i > 0 && (unicode.IsUpper(r) || (unicode.IsDigit(r) && !unicode.IsDigit(prev))) {
			b.WriteByte(' ')
		}
		b.WriteRune(unicode.ToLower(r))
		prev = r
	}
	return b.String()
}
