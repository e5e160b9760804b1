// Package duel implements the in-duel modes: choosing targets and choosing
// cards to discard.
package duel

import (
	"cmp"
	"slices"
	"strings"

	"github.com/mj1618/arena-access/internal/cards"
	"github.com/mj1618/arena-access/internal/holder"
	"github.com/mj1618/arena-access/internal/logging"
	"github.com/mj1618/arena-access/internal/model"
	"github.com/mj1618/arena-access/internal/platform"
)

// Player avatars are not cards; they get fixed identities for de-duplication.
const (
	localPlayerID    int64 = -1
	opponentPlayerID int64 = -2
)

// TargetInfo is one candidate for the current spell or ability.
type TargetInfo struct {
	Object     *model.Object `yaml:"-"                json:"-"`
	Name       string        `yaml:"name"             json:"name"`
	InstanceID int64         `yaml:"instance_id"      json:"instance_id"`
	Kind       cards.Kind    `yaml:"kind"             json:"kind"`
	Opponent   bool          `yaml:"opponent"         json:"opponent"`
	Detail     string        `yaml:"detail,omitempty" json:"detail,omitempty"`
}

// TargetNavigator cycles through valid targets while the host asks for one.
type TargetNavigator struct {
	holders   *holder.Cache
	keys      platform.Keyboard
	activator platform.Activator
	announcer platform.Announcer
	strings   platform.Strings
	log       *logging.Logger

	active    bool
	signalled bool
	targets   []TargetInfo
	index     int
}

// NewTargetNavigator creates a TargetNavigator.
func NewTargetNavigator(p *platform.Provider, holders *holder.Cache, log *logging.Logger) *TargetNavigator {
	if log == nil {
		log = logging.NopLogger()
	}
	return &TargetNavigator{
		holders:   holders,
		keys:      p.Keyboard,
		activator: p.Activator,
		announcer: p.Announcer,
		strings:   p.Strings,
		log:       log.WithComponent("target"),
	}
}

// Update enters target mode on the rising edge of the host's target markers
// and leaves it when the markers are gone.
func (t *TargetNavigator) Update(s *model.Scene) {
	signal := cards.HasValidTargetsOnBattlefield(s)
	switch {
	case signal && !t.signalled && !t.active:
		t.EnterTargetMode(s)
	case !signal && t.active:
		t.log.Debug("target markers cleared")
		t.Exit()
	}
	t.signalled = signal
}

// EnterTargetMode gathers the current targets and announces the first. It
// reports whether any target was found.
func (t *TargetNavigator) EnterTargetMode(s *model.Scene) bool {
	t.targets = t.scan(s)
	t.index = 0
	if len(t.targets) == 0 {
		t.active = false
		t.announcer.Announce(t.strings.Get("target_none"), platform.PriorityNormal)
		return false
	}
	t.active = true
	t.announcer.Announce(t.strings.Plural(len(t.targets), "target_mode"), platform.PriorityNormal)
	t.announceCurrent()
	return true
}

// HandleInput processes target-mode keys and reports whether one was consumed.
func (t *TargetNavigator) HandleInput(s *model.Scene) bool {
	if !t.active {
		return false
	}
	switch {
	case t.keys.Pressed(platform.KeyTab):
		dir := 1
		if t.keys.Held(platform.KeyShift) {
			dir = -1
		}
		n := len(t.targets)
		t.index = ((t.index+dir)%n + n) % n
		t.announceCurrent()
		return true

	case t.keys.Pressed(platform.KeyEnter):
		t.choose(s)
		return true

	case t.keys.Pressed(platform.KeyBackspace):
		t.Exit()
		t.announcer.Announce(t.strings.Get("target_cancelled"), platform.PriorityNormal)
		return true
	}
	return false
}

// Exit leaves target mode silently.
func (t *TargetNavigator) Exit() {
	t.active = false
	t.targets = nil
	t.index = 0
}

// Reset leaves target mode and forgets the last host signal.
func (t *TargetNavigator) Reset() {
	t.Exit()
	t.signalled = false
}

// IsActive reports whether target mode is on.
func (t *TargetNavigator) IsActive() bool { return t.active }

// Targets returns the current candidates in cycle order.
func (t *TargetNavigator) Targets() []TargetInfo { return t.targets }

// Index returns the cursor position.
func (t *TargetNavigator) Index() int { return t.index }

func (t *TargetNavigator) choose(s *model.Scene) {
	cur := t.targets[t.index]
	obj := s.Lookup(cur.Object.ID)
	if obj == nil {
		t.announcer.Announce(t.strings.Format("target_failed", t.describe(cur), platform.ErrNotAlive.Error()), platform.PriorityHigh)
		return
	}
	res := t.activator.SimulatePointerClick(obj)
	if !res.Success {
		t.log.Warn("target click failed", "target", cur.Name, "message", res.Message)
		t.announcer.Announce(t.strings.Format("target_failed", t.describe(cur), res.Message), platform.PriorityHigh)
		return
	}
	t.announcer.Announce(t.strings.Format("target_selected", t.describe(cur)), platform.PriorityNormal)
	t.Exit()
}

func (t *TargetNavigator) announceCurrent() {
	cur := t.targets[t.index]
	t.announcer.Announce(t.strings.Format("target_position", t.describe(cur), t.index+1, len(t.targets)), platform.PriorityNormal)
}

// describe renders "Grizzly Bears, creature 2/2", prefixed with the owner for
// the opponent's cards.
func (t *TargetNavigator) describe(ti TargetInfo) string {
	if ti.Kind == cards.KindPlayer {
		return ti.Name
	}
	label := ti.Name + ", " + t.strings.Get("kind."+string(ti.Kind))
	if ti.Detail != "" {
		label += " " + ti.Detail
	}
	if ti.Opponent {
		label = t.strings.Format("target_owner.opponent", label)
	}
	return label
}

// scan collects marked cards from both battlefields and the stack, then both
// avatars, de-duplicated by instance identity.
func (t *TargetNavigator) scan(s *model.Scene) []TargetInfo {
	seen := make(map[int64]bool)
	var out []TargetInfo
	add := func(ti TargetInfo) {
		if seen[ti.InstanceID] {
			return
		}
		seen[ti.InstanceID] = true
		out = append(out, ti)
	}

	for _, zone := range []string{cards.LocalBattlefield, cards.OpponentBattlefield, cards.Stack} {
		for _, c := range cards.CardsIn(t.holders.Find(s, zone)) {
			if !cards.IsValidTarget(c) {
				continue
			}
			info := cards.ExtractCardInfo(c)
			if info.InstanceID == 0 {
				continue
			}
			add(TargetInfo{
				Object:     c,
				Name:       info.Name,
				InstanceID: info.InstanceID,
				Kind:       info.Kind,
				Opponent:   info.Opponent,
				Detail:     info.PowerToughness,
			})
		}
	}

	avatars := []struct {
		zone     string
		id       int64
		opponent bool
	}{
		{cards.LocalAvatar, localPlayerID, false},
		{cards.OpponentAvatar, opponentPlayerID, true},
	}
	for _, a := range avatars {
		o := t.holders.Find(s, a.zone)
		if o == nil || !o.ActiveInHierarchy() || !cards.IsValidTarget(o) {
			continue
		}
		add(TargetInfo{
			Object:     o,
			Name:       cards.PlayerName(o),
			InstanceID: a.id,
			Kind:       cards.KindPlayer,
			Opponent:   a.opponent,
		})
	}

	slices.SortStableFunc(out, compareTargets)
	return out
}

// compareTargets orders cards before players, the local side before the
// opponent's, then by name.
func compareTargets(a, b TargetInfo) int {
	aPlayer, bPlayer := a.Kind == cards.KindPlayer, b.Kind == cards.KindPlayer
	if aPlayer != bPlayer {
		if aPlayer {
			return 1
		}
		return -1
	}
	if a.Opponent != b.Opponent {
		if a.Opponent {
			return 1
		}
		return -1
	}
	if c := cmp.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name)); c != 0 {
		return c
	}
	return cmp.Compare(a.InstanceID, b.InstanceID)
}
