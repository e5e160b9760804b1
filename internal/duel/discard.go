package duel

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/mj1618/arena-access/internal/cards"
	"github.com/mj1618/arena-access/internal/holder"
	"github.com/mj1618/arena-access/internal/logging"
	"github.com/mj1618/arena-access/internal/model"
	"github.com/mj1618/arena-access/internal/platform"
	"github.com/mj1618/arena-access/internal/schedule"
	"github.com/mj1618/arena-access/internal/uitext"
)

var (
	submitLabel   = regexp.MustCompile(`(?i)^submit\s*\d+`)
	discardPrompt = regexp.MustCompile(`(?i)discard\s+(\d+|a)\s+cards?`)
)

// DiscardNavigator lets the player pick cards from hand when the host asks
// for a discard.
type DiscardNavigator struct {
	holders   *holder.Cache
	keys      platform.Keyboard
	activator platform.Activator
	announcer platform.Announcer
	text      platform.TextExtractor
	strings   platform.Strings
	queue     *schedule.Queue
	delay     time.Duration
	log       *logging.Logger

	active   bool
	required int
	submitID int64
	hand     []*model.Object
	index    int
	recount  *schedule.Task
}

// NewDiscardNavigator creates a DiscardNavigator. After each toggle the
// selected count is re-read and announced delay later on queue.
func NewDiscardNavigator(p *platform.Provider, holders *holder.Cache, queue *schedule.Queue, delay time.Duration, log *logging.Logger) *DiscardNavigator {
	if log == nil {
		log = logging.NopLogger()
	}
	return &DiscardNavigator{
		holders:   holders,
		keys:      p.Keyboard,
		activator: p.Activator,
		announcer: p.Announcer,
		text:      p.Text,
		strings:   p.Strings,
		queue:     queue,
		delay:     delay,
		log:       log.WithComponent("discard"),
	}
}

// Detect reports whether the host shows a discard prompt: a visible
// "Submit N" button while no target markers are shown.
func (d *DiscardNavigator) Detect(s *model.Scene) bool {
	return findSubmit(s) != nil && !cards.HasValidTargetsOnBattlefield(s)
}

// Update enters or leaves discard mode and refreshes the hand.
func (d *DiscardNavigator) Update(s *model.Scene) {
	submit := findSubmit(s)
	detected := submit != nil && !cards.HasValidTargetsOnBattlefield(s)

	switch {
	case detected && !d.active:
		d.enter(s, submit)
	case !detected && d.active:
		d.log.Debug("discard prompt gone")
		d.Exit()
	case d.active:
		d.submitID = submit.ID
		d.refreshHand(s)
	}
}

// HandleInput processes discard-mode keys and reports whether one was consumed.
func (d *DiscardNavigator) HandleInput(s *model.Scene) bool {
	if !d.active {
		return false
	}
	switch {
	case d.keys.Pressed(platform.KeyRight),
		d.keys.Pressed(platform.KeyTab) && !d.keys.Held(platform.KeyShift):
		d.move(1)
		return true

	case d.keys.Pressed(platform.KeyLeft), d.keys.Pressed(platform.KeyTab):
		d.move(-1)
		return true

	case d.keys.Pressed(platform.KeyEnter):
		d.toggle(s)
		return true

	case d.keys.Pressed(platform.KeySpace):
		d.submit(s)
		return true
	}
	return false
}

// Exit leaves discard mode and cancels the pending re-count.
func (d *DiscardNavigator) Exit() {
	d.recount.Cancel()
	d.recount = nil
	d.active = false
	d.required = 0
	d.submitID = 0
	d.hand = nil
	d.index = 0
}

// IsActive reports whether discard mode is on.
func (d *DiscardNavigator) IsActive() bool { return d.active }

// Required returns the number of cards the prompt asked for.
func (d *DiscardNavigator) Required() int { return d.required }

// Selected counts the hand cards currently marked selected.
func (d *DiscardNavigator) Selected(s *model.Scene) int {
	n := 0
	for _, c := range cards.CardsIn(d.holders.Find(s, cards.LocalHand)) {
		if cards.IsSelected(c) {
			n++
		}
	}
	return n
}

func (d *DiscardNavigator) enter(s *model.Scene, submit *model.Object) {
	d.active = true
	d.submitID = submit.ID
	d.required = ParseRequired(s)
	d.index = 0
	d.refreshHand(s)

	d.log.Debug("discard mode", "required", d.required, "hand", len(d.hand))
	d.announcer.Announce(d.strings.Plural(d.required, "discard_mode"), platform.PriorityNormal)
	if len(d.hand) == 0 {
		d.announcer.Announce(d.strings.Get("discard_no_cards"), platform.PriorityNormal)
		return
	}
	d.announceCurrent()
}

func (d *DiscardNavigator) refreshHand(s *model.Scene) {
	var keep int64
	if d.index < len(d.hand) {
		keep = d.hand[d.index].ID
	}
	d.hand = cards.CardsIn(d.holders.Find(s, cards.LocalHand))
	d.index = 0
	for i, c := range d.hand {
		if c.ID == keep {
			d.index = i
			break
		}
	}
}

func (d *DiscardNavigator) move(dir int) {
	if len(d.hand) == 0 {
		d.announcer.Announce(d.strings.Get("discard_no_cards"), platform.PriorityNormal)
		return
	}
	n := len(d.hand)
	d.index = ((d.index+dir)%n + n) % n
	d.announceCurrent()
}

func (d *DiscardNavigator) toggle(s *model.Scene) {
	if len(d.hand) == 0 {
		d.announcer.Announce(d.strings.Get("discard_no_cards"), platform.PriorityNormal)
		return
	}
	stale := d.hand[d.index]
	card := s.Lookup(stale.ID)
	if card == nil {
		d.refreshHand(s)
		d.announcer.Announce(d.strings.Format("discard_click_failed", cards.GetCardName(stale), platform.ErrNotAlive.Error()), platform.PriorityHigh)
		return
	}
	res := d.activator.SimulatePointerClick(card)
	if !res.Success {
		d.announcer.Announce(d.strings.Format("discard_click_failed", cards.GetCardName(card), res.Message), platform.PriorityHigh)
		return
	}

	d.recount.Cancel()
	d.recount = d.queue.After("discard-recount", d.delay, func(cur *model.Scene) {
		d.recount = nil
		if !d.active {
			return
		}
		selected := d.Selected(cur)
		d.announcer.Announce(d.strings.Plural(selected, "discard_selected", selected, d.required), platform.PriorityNormal)
	})
}

func (d *DiscardNavigator) submit(s *model.Scene) {
	selected := d.Selected(s)
	if selected != d.required {
		d.announcer.Announce(d.strings.Format("discard_need", d.required, selected), platform.PriorityHigh)
		return
	}
	button := s.Lookup(d.submitID)
	if button == nil {
		d.announcer.Announce(d.strings.Format("discard_submit_failed", platform.ErrNotAlive.Error()), platform.PriorityHigh)
		return
	}
	res := d.activator.SimulatePointerClick(button)
	if !res.Success {
		d.announcer.Announce(d.strings.Format("discard_submit_failed", res.Message), platform.PriorityHigh)
		return
	}
	d.announcer.Announce(d.strings.Get("discard_submitted"), platform.PriorityNormal)
}

func (d *DiscardNavigator) announceCurrent() {
	card := d.hand[d.index]
	label := cards.GetCardName(card)
	if label == "" {
		label = d.text.GetText(card)
	}
	d.announcer.Announce(d.strings.Format("nav_position", label, d.index+1, len(d.hand)), platform.PriorityNormal)
}

// ParseRequired reads the discard count from the prompt text, or 0.
func ParseRequired(s *model.Scene) int {
	required := 0
	s.Walk(func(o *model.Object) bool {
		if required != 0 || !o.ActiveSelf() {
			return false
		}
		m := discardPrompt.FindStringSubmatch(uitext.Clean(o.Text))
		if m == nil {
			return true
		}
		if strings.EqualFold(m[1], "a") {
			required = 1
		} else if n, err := strconv.Atoi(m[1]); err == nil {
			required = n
		}
		return false
	})
	return required
}

// findSubmit returns the visible "Submit N" button, or nil.
func findSubmit(s *model.Scene) *model.Object {
	var found *model.Object
	s.Walk(func(o *model.Object) bool {
		if found != nil || !o.ActiveSelf() {
			return false
		}
		if o.IsInteractive() && submitLabel.MatchString(buttonText(o)) {
			found = o
			return false
		}
		return true
	})
	return found
}

func buttonText(o *model.Object) string {
	if t := uitext.Clean(o.Text); t != "" {
		return t
	}
	for _, c := range o.Children {
		if c.ActiveSelf() {
			if t := uitext.Clean(c.Text); t != "" {
				return t
			}
		}
	}
	return ""
}
