package cards

import (
	"testing"

	"github.com/mj1618/arena-access/internal/model"
)

func card(id int64, name string, title, typeLine, pt string, children ...*model.Object) *model.Object {
	kids := []*model.Object{
		{ID: id*10 + 1, Name: "Title", Text: title},
		{ID: id*10 + 2, Name: "TypeLine", Text: typeLine},
	}
	if pt != "" {
		kids = append(kids, &model.Object{ID: id*10 + 3, Name: "PowerToughness", Text: pt})
	}
	return &model.Object{ID: id, Name: name, Children: append(kids, children...)}
}

func duelScene(marked bool) *model.Scene {
	marker := &model.Object{ID: 900, Name: TargetMarker, Inactive: !marked}
	return model.NewScene("Duel",
		&model.Object{ID: 1, Name: "Duel", Children: []*model.Object{
			{ID: 2, Name: LocalBattlefield, Children: []*model.Object{
				card(3, "CDC #101", "Grizzly Bears", "Creature — Bear", "2/2", marker),
			}},
			{ID: 4, Name: OpponentBattlefield, Children: []*model.Object{
				card(5, "CDC #202 (Clone)", "<b>Ornithopter</b>", "Artifact Creature — Thopter", "0/2"),
			}},
		}},
	)
}

func TestInstanceID(t *testing.T) {
	tests := []struct {
		name string
		want int64
	}{
		{"CDC #101", 101},
		{"CDC #202 (Clone)", 202},
		{"CDC #", 0},
		{"Avatar", 0},
	}
	for _, tt := range tests {
		if got := InstanceID(&model.Object{Name: tt.name}); got != tt.want {
			t.Errorf("InstanceID(%q) = %d, want %d", tt.name, got, tt.want)
		}
	}
}

func TestExtractCardInfo(t *testing.T) {
	s := duelScene(false)

	bear := ExtractCardInfo(s.Lookup(3))
	if bear.Name != "Grizzly Bears" || bear.Kind != KindCreature || bear.PowerToughness != "2/2" || bear.Opponent {
		t.Errorf("bear = %+v", bear)
	}

	thopter := ExtractCardInfo(s.Lookup(5))
	if thopter.Name != "Ornithopter" || thopter.Kind != KindCreature || !thopter.Opponent {
		t.Errorf("thopter = %+v", thopter)
	}
	if thopter.InstanceID != 202 {
		t.Errorf("instance id = %d", thopter.InstanceID)
	}
}

func TestKindOf(t *testing.T) {
	tests := map[string]Kind{
		"Basic Land — Forest":           KindLand,
		"Legendary Planeswalker — Jace": KindPlaneswalker,
		"Artifact — Equipment":          KindArtifact,
		"Enchantment — Aura":            KindEnchantment,
		"":                              KindPermanent,
	}
	for line, want := range tests {
		if got := kindOf(line); got != want {
			t.Errorf("kindOf(%q) = %s, want %s", line, got, want)
		}
	}
}

func TestHasValidTargetsOnBattlefield(t *testing.T) {
	if HasValidTargetsOnBattlefield(duelScene(false)) {
		t.Error("inactive marker must not count")
	}
	if !HasValidTargetsOnBattlefield(duelScene(true)) {
		t.Error("expected an active marker to be found")
	}
}

func TestCardsIn(t *testing.T) {
	s := duelScene(false)
	got := CardsIn(s.Lookup(2))
	if len(got) != 1 || got[0].ID != 3 {
		t.Errorf("CardsIn = %v", got)
	}
	if len(CardsIn(nil)) != 0 {
		t.Error("nil holder should yield nothing")
	}
}

func TestPlayerName(t *testing.T) {
	avatar := &model.Object{ID: 1, Name: OpponentAvatar, Children: []*model.Object{
		{ID: 2, Name: "PlayerName", Text: "<b>Sparky</b>"},
	}}
	if got := PlayerName(avatar); got != "Sparky" {
		t.Errorf("PlayerName = %q", got)
	}
	if got := PlayerName(&model.Object{ID: 3, Name: LocalAvatar, Text: "You"}); got != "You" {
		t.Errorf("PlayerName fallback = %q", got)
	}
}
