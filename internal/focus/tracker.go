// Package focus follows the host's focus pointer and owns the edit sub-modes
// (text field editing and open dropdowns).
package focus

import (
	"regexp"

	"github.com/mj1618/arena-access/internal/logging"
	"github.com/mj1618/arena-access/internal/model"
	"github.com/mj1618/arena-access/internal/platform"
)

// FocusChanged is published whenever the focus pointer moves.
type FocusChanged struct {
	PreviousID int64
	Current    *model.Object
}

// Tracker polls the focus pointer once per frame.
type Tracker struct {
	modes        *Modes
	text         platform.TextExtractor
	announcer    platform.Announcer
	dropdownItem *regexp.Regexp
	log          *logging.Logger

	lastID        int64
	lastAnnounced string
	listeners     []func(FocusChanged)
}

// NewTracker creates a Tracker writing to modes. dropdownItem matches the names
// the host gives to items of an open dropdown list.
func NewTracker(modes *Modes, p *platform.Provider, dropdownItem *regexp.Regexp, log *logging.Logger) *Tracker {
	if log == nil {
		log = logging.NopLogger()
	}
	return &Tracker{
		modes:        modes,
		text:         p.Text,
		announcer:    p.Announcer,
		dropdownItem: dropdownItem,
		log:          log.WithComponent("focus"),
	}
}

// Subscribe registers fn to receive focus changes.
func (t *Tracker) Subscribe(fn func(FocusChanged)) {
	t.listeners = append(t.listeners, fn)
}

// Update reads the focus pointer and reports whether it moved this frame.
func (t *Tracker) Update(s *model.Scene) bool {
	t.checkCaret(s)

	cur := int64(0)
	if s != nil {
		cur = s.FocusedID
	}
	if cur == t.lastID {
		return false
	}

	prev := t.lastID
	t.lastID = cur
	obj := s.Lookup(cur)

	for _, fn := range t.listeners {
		fn(FocusChanged{PreviousID: prev, Current: obj})
	}

	t.updateDropdownMode(obj)

	if obj == nil {
		return true
	}
	text := t.text.GetText(obj)
	if text == "" || text == t.lastAnnounced {
		return true
	}
	t.lastAnnounced = text
	t.announcer.Announce(text, platform.PriorityNormal)
	return true
}

// MarkAnnounced records text as already spoken so the echo of a focus change
// a navigator caused itself is not repeated.
func (t *Tracker) MarkAnnounced(text string) {
	t.lastAnnounced = text
}

// FocusedID returns the identity seen on the last Update.
func (t *Tracker) FocusedID() int64 {
	return t.lastID
}

// Reset forgets the last focus and announcement and leaves every edit sub-mode.
func (t *Tracker) Reset() {
	t.lastID = 0
	t.lastAnnounced = ""
	t.modes.reset()
}

// IsDropdownItem reports whether o is named like an open dropdown entry.
func (t *Tracker) IsDropdownItem(o *model.Object) bool {
	return o != nil && t.dropdownItem != nil && t.dropdownItem.MatchString(o.Name)
}

func (t *Tracker) updateDropdownMode(obj *model.Object) {
	if t.IsDropdownItem(obj) {
		if t.modes.EditingInputField() {
			t.log.Debug("dropdown focus ends field editing", "field", t.modes.Target())
		}
		t.modes.enterDropdown(obj.ID)
		return
	}
	if t.modes.EditingDropdown() {
		t.modes.reset()
	}
}

// checkCaret leaves field editing once the field loses its caret or is destroyed.
func (t *Tracker) checkCaret(s *model.Scene) {
	if !t.modes.EditingInputField() {
		return
	}
	info := Field(s.Lookup(t.modes.Target()))
	switch {
	case !info.Valid:
		t.log.Debug("edited field destroyed", "field", t.modes.Target())
		t.modes.reset()
	case info.HasCaret:
		t.modes.caretSeen = true
	case t.modes.caretSeen || t.modes.grace <= 0:
		t.log.Debug("edited field lost caret", "field", t.modes.Target())
		t.modes.reset()
	default:
		t.modes.grace--
	}
}
