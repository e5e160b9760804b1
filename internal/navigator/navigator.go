// Package navigator implements keyboard navigation over the elements of the
// active screen.
package navigator

import (
	"github.com/mj1618/arena-access/internal/logging"
	"github.com/mj1618/arena-access/internal/model"
	"github.com/mj1618/arena-access/internal/platform"
)

// Element is one keyboard-selectable target on the current screen.
type Element struct {
	Object *model.Object
	Label  string
}

// Screen is implemented by every screen-level navigator. The Navigator drives
// the lifecycle DetectScreen, DiscoverElements, then ValidateElements on a
// fixed cadence.
type Screen interface {
	// Name is the catalog suffix of the spoken screen name ("screen.<name>").
	Name() string
	DetectScreen(s *model.Scene) bool
	DiscoverElements(s *model.Scene) []Element
	// ValidateElements reports whether elems still describe the screen.
	ValidateElements(s *model.Scene, elems []Element) bool
}

// Ticker is implemented by screens that narrate state of their own each frame.
type Ticker interface {
	Tick(s *model.Scene, a platform.Announcer, strs platform.Strings)
}

// Marker records text as already spoken (focus.Tracker).
type Marker interface {
	MarkAnnounced(text string)
}

// Options tunes the Navigator.
type Options struct {
	// ValidateInterval re-validates elements every N frames.
	ValidateInterval int
}

// Navigator owns the element list of the active screen.
type Navigator struct {
	screens   []Screen
	keys      platform.Keyboard
	activator platform.Activator
	announcer platform.Announcer
	text      platform.TextExtractor
	strings   platform.Strings
	marker    Marker
	opts      Options
	log       *logging.Logger

	active   Screen
	elements []Element
	index    int
	frame    int
}

// New creates a Navigator trying screens in order.
func New(p *platform.Provider, opts Options, marker Marker, log *logging.Logger, screens ...Screen) *Navigator {
	if opts.ValidateInterval < 1 {
		opts.ValidateInterval = 1
	}
	if log == nil {
		log = logging.NopLogger()
	}
	return &Navigator{
		screens:   screens,
		keys:      p.Keyboard,
		activator: p.Activator,
		announcer: p.Announcer,
		text:      p.Text,
		strings:   p.Strings,
		marker:    marker,
		opts:      opts,
		log:       log.WithComponent("navigator"),
	}
}

// Update detects the active screen and keeps its elements current.
func (n *Navigator) Update(s *model.Scene) {
	n.frame++

	if n.active != nil && !n.active.DetectScreen(s) {
		n.log.Debug("screen left", "screen", n.active.Name())
		n.deactivate()
	}
	if n.active == nil {
		for _, sc := range n.screens {
			if sc.DetectScreen(s) {
				n.activate(s, sc)
				break
			}
		}
	}
	if n.active == nil {
		return
	}

	if n.frame%n.opts.ValidateInterval == 0 && !n.active.ValidateElements(s, n.elements) {
		n.rediscover(s)
	}
	if t, ok := n.active.(Ticker); ok {
		t.Tick(s, n.announcer, n.strings)
	}
}

// Refresh rediscovers the active screen's elements and re-announces it, for
// use when the surrounding context changed (a panel opened over it).
func (n *Navigator) Refresh(s *model.Scene) {
	if n.active == nil {
		return
	}
	sc := n.active
	n.deactivate()
	if sc.DetectScreen(s) {
		n.activate(s, sc)
	}
}

// HandleInput processes navigation keys and reports whether one was consumed.
func (n *Navigator) HandleInput(s *model.Scene) bool {
	if n.active == nil || len(n.elements) == 0 {
		return false
	}
	switch {
	case n.keys.Pressed(platform.KeyTab):
		if n.keys.Held(platform.KeyShift) {
			n.Move(-1)
		} else {
			n.Move(1)
		}
		return true
	case n.keys.Pressed(platform.KeyDown):
		n.Move(1)
		return true
	case n.keys.Pressed(platform.KeyUp):
		n.Move(-1)
		return true
	case n.keys.Pressed(platform.KeyEnter):
		n.activateCurrent(s)
		return true
	}
	return false
}

// Move advances the cursor by dir with wraparound and announces the element.
func (n *Navigator) Move(dir int) {
	if len(n.elements) == 0 {
		return
	}
	n.index = ((n.index+dir)%len(n.elements) + len(n.elements)) % len(n.elements)
	n.announceCurrent()
}

// Active returns the active screen's name, or "".
func (n *Navigator) Active() string {
	if n.active == nil {
		return ""
	}
	return n.active.Name()
}

// Elements returns the current element list.
func (n *Navigator) Elements() []Element {
	return n.elements
}

// Current returns the element under the cursor.
func (n *Navigator) Current() (Element, bool) {
	if n.index < 0 || n.index >= len(n.elements) {
		return Element{}, false
	}
	return n.elements[n.index], true
}

// Reset drops the active screen without announcing.
func (n *Navigator) Reset() {
	n.deactivate()
	n.frame = 0
}

func (n *Navigator) activate(s *model.Scene, sc Screen) {
	n.active = sc
	n.elements = sc.DiscoverElements(s)
	n.index = 0
	n.log.Debug("screen entered", "screen", sc.Name(), "elements", len(n.elements))

	name := n.strings.Get("screen." + sc.Name())
	n.announcer.Announce(n.strings.Plural(len(n.elements), "screen_entered", name, len(n.elements)), platform.PriorityNormal)
	if len(n.elements) > 0 {
		n.announceCurrent()
	}
}

func (n *Navigator) deactivate() {
	n.active = nil
	n.elements = nil
	n.index = 0
}

// rediscover rebuilds the element list, keeping the cursor on the same object
// when it survived.
func (n *Navigator) rediscover(s *model.Scene) {
	var keep int64
	if cur, ok := n.Current(); ok {
		keep = cur.Object.ID
	}
	n.elements = n.active.DiscoverElements(s)
	n.index = 0
	for i, e := range n.elements {
		if e.Object.ID == keep {
			n.index = i
			break
		}
	}
	n.log.Debug("elements rediscovered", "screen", n.active.Name(), "elements", len(n.elements))
}

func (n *Navigator) announceCurrent() {
	cur, ok := n.Current()
	if !ok {
		return
	}
	if err := n.activator.SetFocus(cur.Object); err != nil {
		n.log.Debug("set focus failed", "object", cur.Object.ID, "error", err)
	}
	if n.marker != nil {
		n.marker.MarkAnnounced(n.text.GetText(cur.Object))
	}
	n.announcer.Announce(n.strings.Format("nav_position", cur.Label, n.index+1, len(n.elements)), platform.PriorityNormal)
}

func (n *Navigator) activateCurrent(s *model.Scene) {
	cur, ok := n.Current()
	if !ok {
		return
	}
	if !s.Alive(cur.Object) {
		n.rediscover(s)
		n.announcer.Announce(n.strings.Format("nav_click_failed", cur.Label), platform.PriorityHigh)
		return
	}
	res := n.activator.SimulatePointerClick(cur.Object)
	if !res.Success {
		n.log.Warn("click failed", "object", cur.Object.ID, "message", res.Message)
		n.announcer.Announce(n.strings.Format("nav_click_failed", cur.Label), platform.PriorityHigh)
	}
}
