package navigator

import (
	"github.com/mj1618/arena-access/internal/platform"
)

// Help is the modal keyboard-help list. While open it consumes all input.
type Help struct {
	keys      platform.Keyboard
	announcer platform.Announcer
	strings   platform.Strings
	items     []string

	open  bool
	index int
}

// NewHelp creates a Help listing items.
func NewHelp(p *platform.Provider, items []string) *Help {
	return &Help{
		keys:      p.Keyboard,
		announcer: p.Announcer,
		strings:   p.Strings,
		items:     items,
	}
}

// IsOpen reports whether the help list is showing.
func (h *Help) IsOpen() bool { return h.open }

// HandleInput toggles the list on F1 and navigates it while open.
func (h *Help) HandleInput() bool {
	if !h.open {
		if !h.keys.Pressed(platform.KeyF1) || len(h.items) == 0 {
			return false
		}
		h.open = true
		h.index = 0
		h.announcer.AnnounceInterrupt(h.strings.Plural(len(h.items), "help_opened"))
		h.announceCurrent()
		return true
	}

	switch {
	case h.keys.Pressed(platform.KeyF1), h.keys.Pressed(platform.KeyEscape):
		h.Close()
	case h.keys.Pressed(platform.KeyDown), h.keys.Pressed(platform.KeyTab) && !h.keys.Held(platform.KeyShift):
		h.index = (h.index + 1) % len(h.items)
		h.announceCurrent()
	case h.keys.Pressed(platform.KeyUp), h.keys.Pressed(platform.KeyTab):
		h.index = (h.index - 1 + len(h.items)) % len(h.items)
		h.announceCurrent()
	}
	return true
}

// Close hides the list and says so.
func (h *Help) Close() {
	if !h.open {
		return
	}
	h.open = false
	h.index = 0
	h.announcer.Announce(h.strings.Get("help_closed"), platform.PriorityNormal)
}

// Reset hides the list silently.
func (h *Help) Reset() {
	h.open = false
	h.index = 0
}

func (h *Help) announceCurrent() {
	h.announcer.Announce(h.strings.Format("nav_position", h.items[h.index], h.index+1, len(h.items)), platform.PriorityNormal)
}
