package dispatch

import (
	"github.com/mj1618/arena-access/internal/duel"
	"github.com/mj1618/arena-access/internal/focus"
	"github.com/mj1618/arena-access/internal/holder"
	"github.com/mj1618/arena-access/internal/manapicker"
	"github.com/mj1618/arena-access/internal/panel"
	"github.com/mj1618/arena-access/internal/priority"
)

// State is a serializable snapshot of the session after the last frame.
type State struct {
	Session     string                  `yaml:"session"                json:"session"`
	Frame       int64                   `yaml:"frame"                  json:"frame"`
	Scene       string                  `yaml:"scene"                  json:"scene"`
	Mode        focus.Mode              `yaml:"mode"                   json:"mode"`
	Focused     int64                   `yaml:"focused,omitempty"      json:"focused,omitempty"`
	FocusMoves  int                     `yaml:"focus_moves"            json:"focus_moves"`
	Screen      string                  `yaml:"screen,omitempty"       json:"screen,omitempty"`
	Element     string                  `yaml:"element,omitempty"      json:"element,omitempty"`
	Elements    int                     `yaml:"elements"               json:"elements"`
	HelpOpen    bool                    `yaml:"help_open"              json:"help_open"`
	Panels      []panel.TrackedPanel    `yaml:"panels,omitempty"       json:"panels,omitempty"`
	Targeting   *TargetState            `yaml:"targeting,omitempty"    json:"targeting,omitempty"`
	Discard     *DiscardState           `yaml:"discard,omitempty"      json:"discard,omitempty"`
	ManaPicker  manapicker.State        `yaml:"mana_picker"            json:"mana_picker"`
	Phases      []priority.PhaseMapping `yaml:"phases,omitempty"       json:"phases,omitempty"`
	Pending     []string                `yaml:"pending,omitempty"      json:"pending,omitempty"`
	Holders     holder.Stats            `yaml:"holders"                json:"holders"`
	LastHandler string                  `yaml:"last_handler,omitempty" json:"last_handler,omitempty"`
}

// TargetState describes an active target mode.
type TargetState struct {
	Index   int               `yaml:"index"   json:"index"`
	Targets []duel.TargetInfo `yaml:"targets" json:"targets"`
}

// DiscardState describes an active discard prompt.
type DiscardState struct {
	Required int `yaml:"required" json:"required"`
	Selected int `yaml:"selected" json:"selected"`
}

// State returns the current snapshot.
func (e *Engine) State() State {
	st := State{
		Session:     e.session,
		Frame:       e.frame,
		Scene:       e.sceneName,
		Mode:        e.modes.Mode(),
		Focused:     e.tracker.FocusedID(),
		FocusMoves:  e.focusMoves,
		Screen:      e.screens.Active(),
		Elements:    len(e.screens.Elements()),
		HelpOpen:    e.help.IsOpen(),
		Panels:      e.panels.Tracked(),
		ManaPicker:  e.picker.State(),
		Pending:     e.queue.Pending(),
		Holders:     e.holders.Stats(),
		LastHandler: e.lastHandler,
	}
	if cur, ok := e.screens.Current(); ok {
		st.Element = cur.Label
	}
	if e.targets.IsActive() {
		st.Targeting = &TargetState{Index: e.targets.Index(), Targets: e.targets.Targets()}
	}
	if e.discard.IsActive() && e.scene != nil {
		st.Discard = &DiscardState{Required: e.discard.Required(), Selected: e.discard.Selected(e.scene)}
	}
	if e.scene != nil {
		for _, key := range priority.KeyOrder() {
			if m, ok := e.priority.Mapping(e.scene)[key]; ok {
				st.Phases = append(st.Phases, *m)
			}
		}
	}
	return st
}
