package navigator

import (
	"slices"

	"github.com/mj1618/arena-access/internal/cards"
	"github.com/mj1618/arena-access/internal/model"
	"github.com/mj1618/arena-access/internal/platform"
)

// ScopeFunc returns the object navigation is confined to, or nil.
type ScopeFunc func(s *model.Scene) *model.Object

// MenuScreen navigates the interactive elements of the topmost panel, or of
// the whole scene when no panel is open and the scene is not a duel.
type MenuScreen struct {
	text       platform.TextExtractor
	scope      ScopeFunc
	duelScenes []string
}

// NewMenuScreen creates a MenuScreen. In scenes named in duelScenes it only
// activates while scope reports a panel.
func NewMenuScreen(text platform.TextExtractor, scope ScopeFunc, duelScenes ...string) *MenuScreen {
	return &MenuScreen{text: text, scope: scope, duelScenes: duelScenes}
}

func (m *MenuScreen) Name() string { return "menu" }

func (m *MenuScreen) DetectScreen(s *model.Scene) bool {
	root, whole := m.root(s)
	if root == nil && !whole {
		return false
	}
	return len(m.collect(s, root)) > 0
}

func (m *MenuScreen) DiscoverElements(s *model.Scene) []Element {
	root, _ := m.root(s)
	return m.collect(s, root)
}

func (m *MenuScreen) ValidateElements(s *model.Scene, elems []Element) bool {
	return sameObjects(elems, m.DiscoverElements(s))
}

// root returns the scoping object, or whole=true when the entire scene applies.
func (m *MenuScreen) root(s *model.Scene) (root *model.Object, whole bool) {
	if m.scope != nil {
		if top := m.scope(s); top != nil {
			return top, false
		}
	}
	if s == nil || slices.Contains(m.duelScenes, s.Name) {
		return nil, false
	}
	return nil, true
}

func (m *MenuScreen) collect(s *model.Scene, root *model.Object) []Element {
	var out []Element
	visit := func(o *model.Object) bool {
		if !o.ActiveSelf() || cards.IsCard(o) {
			return false
		}
		if o.IsInteractive() {
			out = append(out, Element{Object: o, Label: m.text.GetText(o)})
			return false
		}
		return true
	}
	if root != nil {
		if root.ActiveInHierarchy() {
			for _, c := range root.Children {
				c.Walk(visit)
			}
		}
		return out
	}
	s.Walk(visit)
	return out
}

func sameObjects(a, b []Element) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Object.ID != b[i].Object.ID {
			return false
		}
	}
	return true
}
