// Package cards recognizes card and zone objects in the duel scene.
package cards

import (
	"strconv"
	"strings"

	"github.com/mj1618/arena-access/internal/model"
	"github.com/mj1618/arena-access/internal/uitext"
)

const (
	// cardPrefix starts the name of every card view: "CDC #1234".
	cardPrefix = "CDC #"
	// TargetMarker is the child shown on a card or avatar that is a legal target.
	TargetMarker = "TargetHighlight"
	// SelectMarker is the child shown on a card currently selected.
	SelectMarker = "SelectHighlight"
)

// Zone holder name fragments.
const (
	LocalBattlefield    = "LocalBattlefieldCardHolder"
	OpponentBattlefield = "OpponentBattlefieldCardHolder"
	Stack               = "StackCardHolder"
	LocalHand           = "LocalHandCardHolder"
	LocalAvatar         = "LocalPlayerAvatar"
	OpponentAvatar      = "OpponentPlayerAvatar"
)

// Kind classifies a card by its type line.
type Kind string

const (
	KindCreature     Kind = "creature"
	KindPlaneswalker Kind = "planeswalker"
	KindArtifact     Kind = "artifact"
	KindEnchantment  Kind = "enchantment"
	KindLand         Kind = "land"
	KindPermanent    Kind = "permanent"
	KindPlayer       Kind = "player"
)

// kindOrder resolves multi-typed cards ("Artifact Creature" is a creature).
var kindOrder = []Kind{KindCreature, KindPlaneswalker, KindLand, KindArtifact, KindEnchantment}

// Info is what the navigators announce about a card.
type Info struct {
	InstanceID     int64  `yaml:"instance_id"               json:"instance_id"`
	Name           string `yaml:"name"                      json:"name"`
	TypeLine       string `yaml:"type_line,omitempty"       json:"type_line,omitempty"`
	PowerToughness string `yaml:"power_toughness,omitempty" json:"power_toughness,omitempty"`
	Kind           Kind   `yaml:"kind"                      json:"kind"`
	Opponent       bool   `yaml:"opponent,omitempty"        json:"opponent,omitempty"`
}

// IsCard reports whether o is a card view.
func IsCard(o *model.Object) bool {
	return o != nil && strings.HasPrefix(o.Name, cardPrefix)
}

// InstanceID returns the card's game instance id parsed from its name, or 0.
// Several views of the same card share an instance id.
func InstanceID(o *model.Object) int64 {
	if !IsCard(o) {
		return 0
	}
	rest := strings.TrimPrefix(o.Name, cardPrefix)
	end := 0
	for end < len(rest) && rest[end] >= '0' && rest[end] <= '9' {
		end++
	}
	id, err := strconv.ParseInt(rest[:end], 10, 64)
	if err != nil {
		return 0
	}
	return id
}

// GetCardName returns the card's title text.
func GetCardName(o *model.Object) string {
	if o == nil {
		return ""
	}
	if title := o.FindDescendant("Title"); title != nil {
		if t := uitext.Clean(title.Text); t != "" {
			return t
		}
	}
	return uitext.Clean(o.Text)
}

// IsOpponentCard reports whether o sits under an opponent-owned holder.
func IsOpponentCard(o *model.Object) bool {
	return o.HasAncestorNamed("Opponent")
}

// ExtractCardInfo gathers the announceable facts about a card.
func ExtractCardInfo(o *model.Object) Info {
	info := Info{
		InstanceID: InstanceID(o),
		Name:       GetCardName(o),
		Opponent:   IsOpponentCard(o),
		Kind:       KindPermanent,
	}
	if tl := o.FindDescendant("TypeLine"); tl != nil {
		info.TypeLine = uitext.Clean(tl.Text)
	}
	if pt := o.FindDescendant("PowerToughness"); pt != nil && pt.ActiveInHierarchy() {
		info.PowerToughness = uitext.Clean(pt.Text)
	}
	info.Kind = kindOf(info.TypeLine)
	return info
}

func kindOf(typeLine string) Kind {
	lower := strings.ToLower(typeLine)
	for _, k := range kindOrder {
		if strings.Contains(lower, string(k)) {
			return k
		}
	}
	return KindPermanent
}

// HasMarker reports whether o carries an active marker child (TargetMarker, SelectMarker).
func HasMarker(o *model.Object, marker string) bool {
	if o == nil {
		return false
	}
	for _, c := range o.Children {
		if strings.Contains(c.Name, marker) && c.ActiveInHierarchy() {
			return true
		}
	}
	return false
}

// IsValidTarget reports whether o is currently highlighted as a legal target.
func IsValidTarget(o *model.Object) bool {
	return HasMarker(o, TargetMarker)
}

// IsSelected reports whether o is highlighted as selected.
func IsSelected(o *model.Object) bool {
	return HasMarker(o, SelectMarker)
}

// HasValidTargetsOnBattlefield reports whether any card or avatar in the scene
// shows an active target marker.
func HasValidTargetsOnBattlefield(s *model.Scene) bool {
	found := false
	s.Walk(func(o *model.Object) bool {
		if found || !o.ActiveSelf() {
			return false
		}
		if (IsCard(o) || isAvatar(o)) && IsValidTarget(o) {
			found = true
			return false
		}
		return true
	})
	return found
}

// CardsIn returns the active cards below holder in hierarchy order.
func CardsIn(holder *model.Object) []*model.Object {
	var out []*model.Object
	if holder == nil {
		return out
	}
	for _, c := range holder.Children {
		c.Walk(func(o *model.Object) bool {
			if !o.ActiveSelf() {
				return false
			}
			if IsCard(o) {
				out = append(out, o)
				return false
			}
			return true
		})
	}
	return out
}

func isAvatar(o *model.Object) bool {
	return strings.Contains(o.Name, "PlayerAvatar")
}

// PlayerName returns the spoken name of a player avatar.
func PlayerName(avatar *model.Object) string {
	if avatar == nil {
		return ""
	}
	if n := avatar.FindDescendant("PlayerName"); n != nil {
		if t := uitext.Clean(n.Text); t != "" {
			return t
		}
	}
	return uitext.Clean(avatar.Text)
}
