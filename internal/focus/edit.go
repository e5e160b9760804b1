package focus

import (
	"fmt"

	"github.com/mj1618/arena-access/internal/logging"
	"github.com/mj1618/arena-access/internal/model"
	"github.com/mj1618/arena-access/internal/platform"
)

// EditHelper handles keystrokes while a text field is being edited.
type EditHelper struct {
	modes     *Modes
	keys      platform.Keyboard
	activator platform.Activator
	announcer platform.Announcer
	text      platform.TextExtractor
	strings   platform.Strings
	log       *logging.Logger

	// Snapshot of the field at the end of the previous frame, used to name
	// the character a Backspace removed.
	prevText  string
	prevCaret int
}

// NewEditHelper creates an EditHelper writing to modes.
func NewEditHelper(modes *Modes, p *platform.Provider, log *logging.Logger) *EditHelper {
	if log == nil {
		log = logging.NopLogger()
	}
	return &EditHelper{
		modes:     modes,
		keys:      p.Keyboard,
		activator: p.Activator,
		announcer: p.Announcer,
		text:      p.Text,
		strings:   p.Strings,
		log:       log.WithComponent("edit"),
	}
}

// EnterEditMode activates the field o and starts editing it.
func (h *EditHelper) EnterEditMode(o *model.Object) error {
	info := Field(o)
	if !info.Valid {
		return fmt.Errorf("object %d is not an input field", objectID(o))
	}
	if err := h.activator.ActivateInputField(o); err != nil {
		return fmt.Errorf("failed to activate field %d: %w", o.ID, err)
	}
	h.modes.enterInputField(o.ID)
	h.snapshot(info)

	label := h.text.GetInputFieldLabel(o)
	h.announcer.Announce(h.strings.Format("edit_mode_entered", label, h.content(info)), platform.PriorityNormal)
	return nil
}

// ExitEditMode stops editing and says so.
func (h *EditHelper) ExitEditMode() {
	h.Clear()
	h.announcer.Announce(h.strings.Get("edit_mode_exited"), platform.PriorityNormal)
}

// Clear stops editing silently.
func (h *EditHelper) Clear() {
	if h.modes.EditingInputField() {
		h.modes.reset()
	}
	h.prevText = ""
	h.prevCaret = 0
}

// HandleEditing processes this frame's keys while a field is edited and
// reports whether the keystroke was consumed. tab receives -1 or +1 after Tab
// leaves the field.
func (h *EditHelper) HandleEditing(s *model.Scene, tab func(dir int)) bool {
	if !h.modes.EditingInputField() {
		return false
	}
	info := Field(s.Lookup(h.modes.Target()))
	if !info.Valid {
		h.Clear()
		return false
	}
	defer h.snapshot(info)

	switch {
	case h.keys.Pressed(platform.KeyEscape):
		h.ExitEditMode()
		return true

	case h.keys.Consume(platform.KeyTab):
		dir := 1
		if h.keys.Held(platform.KeyShift) {
			dir = -1
		}
		h.Clear()
		if tab != nil {
			tab(dir)
		}
		return true

	case h.keys.Pressed(platform.KeyBackspace):
		// Not consumed: the host must still perform the deletion.
		if info.Password {
			h.announcer.Announce(h.strings.Get("star"), platform.PriorityNormal)
			return false
		}
		r, ok := DeletedChar(h.prevText, h.prevCaret, info.Text)
		if !ok {
			h.announcer.Announce(h.strings.Get("unknown_char"), platform.PriorityNormal)
			return false
		}
		h.announcer.Announce(h.describe(r), platform.PriorityNormal)
		return false

	case h.keys.Pressed(platform.KeyUp), h.keys.Pressed(platform.KeyDown):
		h.announcer.Announce(h.content(info), platform.PriorityNormal)
		if err := h.activator.ActivateInputField(info.Object); err != nil {
			h.log.Warn("failed to reactivate field", "field", info.Object.ID, "error", err)
		}
		return true

	case h.keys.Pressed(platform.KeyLeft):
		h.announceCaret(info, info.Caret <= 0, "start")
		return true

	case h.keys.Pressed(platform.KeyRight):
		h.announceCaret(info, info.Caret >= len([]rune(info.Text)), "end")
		return true
	}
	return false
}

func (h *EditHelper) announceCaret(info FieldInfo, atBoundary bool, boundaryKey string) {
	runes := []rune(info.Text)
	switch {
	case len(runes) == 0:
		h.announcer.Announce(h.strings.Get("blank"), platform.PriorityNormal)
	case atBoundary:
		h.announcer.Announce(h.strings.Get(boundaryKey), platform.PriorityNormal)
	case info.Password:
		h.announcer.Announce(h.strings.Get("star"), platform.PriorityNormal)
	default:
		h.announcer.Announce(h.describe(runes[info.Caret]), platform.PriorityNormal)
	}
}

// content is the spoken field value. Password fields only report a count.
func (h *EditHelper) content(info FieldInfo) string {
	n := len([]rune(info.Text))
	switch {
	case n == 0:
		return h.strings.Get("empty")
	case info.Password:
		return h.strings.Plural(n, "password_chars")
	default:
		return info.Text
	}
}

func (h *EditHelper) describe(r rune) string {
	if r == ' ' {
		return h.strings.Get("space")
	}
	return string(r)
}

func (h *EditHelper) snapshot(info FieldInfo) {
	h.prevText = info.Text
	h.prevCaret = info.Caret
}

// DeletedChar names the character a deletion removed, given the field before
// (text and caret) and after. It tries, in order: the rune before the old
// caret, the first rune where the texts diverge, and the rune following cur
// when cur is a strict prefix of prev. ok is false when none applies.
func DeletedChar(prev string, prevCaret int, cur string) (r rune, ok bool) {
	p := []rune(prev)
	c := []rune(cur)

	if i := prevCaret - 1; i >= 0 && i < len(p) {
		return p[i], true
	}
	n := min(len(p), len(c))
	for i := 0; i < n; i++ {
		if p[i] != c[i] {
			return p[i], true
		}
	}
	if len(c) < len(p) {
		return p[len(c)], true
	}
	return 0, false
}

func objectID(o *model.Object) int64 {
	if o == nil {
		return 0
	}
	return o.ID
}
