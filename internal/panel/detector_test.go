package panel

import (
	"testing"

	"github.com/mj1618/arena-access/internal/config"
	"github.com/mj1618/arena-access/internal/model"
)

// everyFrame runs the detector's real work on each call.
func everyFrame() Options {
	opts := OptionsFrom(config.Default().Panels)
	opts.CheckInterval = 1
	opts.RescanMultiplier = 1
	return opts
}

func popup(id int64, name string, alpha *float64, inactive bool) *model.Object {
	return &model.Object{
		ID: id, Name: name, Alpha: alpha, Inactive: inactive,
		Children: []*model.Object{
			{ID: id*10 + 1, Name: "OK", Components: []string{"Button"}},
		},
	}
}

func sceneWith(panels ...*model.Object) *model.Scene {
	return model.NewScene("Home", &model.Object{ID: 1, Name: "Canvas", Children: panels})
}

func TestDetector_OpacityHysteresis(t *testing.T) {
	d := New(everyFrame(), nil)

	samples := []struct {
		alpha       float64
		appeared    bool
		disappear   bool
		wantVisible bool
	}{
		{0.0, false, false, false},
		{0.5, false, false, false},
		{0.98, false, false, false},
		{0.99, true, false, true},
		{0.5, false, false, true},
		{0.02, false, false, true},
		{0.011, false, false, true},
		{0.01, false, true, false},
		{0.6, false, false, false},
		{1.0, true, false, true},
	}
	for i, sm := range samples {
		s := sceneWith(popup(2, "SettingsPopup(Clone)", model.Float(sm.alpha), false))
		ch := d.CheckForChanges(s)
		if (ch.Appeared != "") != sm.appeared || (ch.Disappeared != "") != sm.disappear {
			t.Errorf("sample %d (alpha %v): change = %+v", i, sm.alpha, ch)
		}
		tracked := d.Tracked()
		if len(tracked) != 1 || tracked[0].Visible != sm.wantVisible {
			t.Errorf("sample %d: tracked = %+v, want visible=%v", i, tracked, sm.wantVisible)
		}
	}
}

func TestDetector_JitterNeverFlips(t *testing.T) {
	d := New(everyFrame(), nil)
	for _, a := range []float64{0.02, 0.5, 0.98, 0.3, 0.97, 0.011} {
		ch := d.CheckForChanges(sceneWith(popup(2, "RewardPopup(Clone)", model.Float(a), false)))
		if ch.HasChange {
			t.Fatalf("alpha %v produced a change: %+v", a, ch)
		}
	}
}

func TestDetector_InactivePanelDoesNotAppear(t *testing.T) {
	d := New(everyFrame(), nil)
	ch := d.CheckForChanges(sceneWith(popup(2, "ConfirmDialog(Clone)", model.Float(1), true)))
	if ch.HasChange {
		t.Errorf("inactive panel must not appear: %+v", ch)
	}
	ch = d.CheckForChanges(sceneWith(popup(2, "ConfirmDialog(Clone)", model.Float(1), false)))
	if ch.Appeared != "ConfirmDialog" {
		t.Errorf("Appeared = %q, want ConfirmDialog", ch.Appeared)
	}
}

func TestDetector_AncestorClamp(t *testing.T) {
	d := New(everyFrame(), nil)
	d.CheckForChanges(sceneWith(popup(2, "DeckPanel(Clone)", nil, false)))

	faded := model.NewScene("Home", &model.Object{
		ID: 1, Name: "Canvas", Alpha: model.Float(0),
		Children: []*model.Object{popup(2, "DeckPanel(Clone)", nil, false)},
	})
	ch := d.CheckForChanges(faded)
	if ch.Disappeared != "DeckPanel" {
		t.Errorf("faded ancestor should hide the panel, got %+v", ch)
	}
}

func TestDetector_DestroyedIsPrunedSilently(t *testing.T) {
	d := New(everyFrame(), nil)
	d.CheckForChanges(sceneWith(popup(2, "SettingsPopup(Clone)", nil, false)))

	ch := d.CheckForChanges(sceneWith())
	if ch.HasChange {
		t.Errorf("destruction must not report a change: %+v", ch)
	}
	if len(d.Tracked()) != 0 {
		t.Errorf("destroyed panel still tracked: %+v", d.Tracked())
	}
	if ch.Topmost != nil {
		t.Error("topmost should be cleared")
	}
}

func TestDetector_CandidateFilter(t *testing.T) {
	d := New(everyFrame(), nil)
	s := sceneWith(
		popup(2, "SettingsPopup", nil, false),            // not a clone
		&model.Object{ID: 3, Name: "BannerPanel(Clone)"}, // no interactive descendant
		popup(4, "Tooltip(Clone)", nil, false),           // not whitelisted
		popup(5, "StorePanel(Clone)", nil, false),
	)
	d.CheckForChanges(s)
	tracked := d.Tracked()
	if len(tracked) != 1 || tracked[0].ID != 5 {
		t.Errorf("tracked = %+v, want only StorePanel", tracked)
	}
}

func TestDetector_TopmostPriority(t *testing.T) {
	d := New(everyFrame(), nil)
	deep := &model.Object{ID: 2, Name: "Holder", Children: []*model.Object{
		{ID: 3, Name: "Inner", Children: []*model.Object{popup(4, "DeckPanel(Clone)", nil, false)}},
	}}
	s := sceneWith(deep, popup(5, "ConfirmPopup(Clone)", nil, false))

	ch := d.CheckForChanges(s)
	if ch.Topmost == nil || ch.Topmost.ID != 5 {
		t.Fatalf("popup should outrank a deeper panel, got %v", ch.Topmost)
	}
	if ch.Appeared != "ConfirmPopup" {
		t.Errorf("representative = %q, want ConfirmPopup", ch.Appeared)
	}

	sorted := model.NewScene("Home", &model.Object{ID: 1, Name: "Canvas", Children: []*model.Object{
		{ID: 6, Name: "Overlay", Canvas: &model.Canvas{SortOrder: 20}, Children: []*model.Object{
			popup(7, "StorePanel(Clone)", nil, false),
		}},
		popup(5, "ConfirmPopup(Clone)", nil, false),
	}})
	ch = d.CheckForChanges(sorted)
	if ch.Topmost == nil || ch.Topmost.ID != 7 {
		t.Errorf("sort order 20 should outrank a popup, got %v", ch.Topmost)
	}
}

func TestDetector_TieBreaksTowardMostRecent(t *testing.T) {
	d := New(everyFrame(), nil)
	d.CheckForChanges(sceneWith(popup(9, "AlphaPopup(Clone)", nil, false)))

	ch := d.CheckForChanges(sceneWith(
		popup(9, "AlphaPopup(Clone)", nil, false),
		popup(3, "BetaPopup(Clone)", nil, false),
	))
	if ch.Appeared != "BetaPopup" {
		t.Fatalf("Appeared = %q", ch.Appeared)
	}
	if ch.Topmost == nil || ch.Topmost.ID != 3 {
		t.Errorf("equal priority should favor the newer panel, got %v", ch.Topmost)
	}
}

func TestDetector_Cadence(t *testing.T) {
	opts := everyFrame()
	opts.CheckInterval = 10
	opts.RescanMultiplier = 6
	d := New(opts, nil)

	withPanel := sceneWith(popup(3, "SettingsPopup(Clone)", nil, false))
	for frame := 1; frame <= 9; frame++ {
		if ch := d.CheckForChanges(withPanel); ch.HasChange {
			t.Fatalf("frame %d ran between ticks", frame)
		}
	}
	if len(d.Tracked()) != 0 {
		t.Fatal("nothing should be tracked before the first tick")
	}
	if ch := d.CheckForChanges(withPanel); ch.Appeared != "SettingsPopup" {
		t.Errorf("expected appearance on the tenth frame, got %+v", ch)
	}
	if ch := d.CheckForChanges(withPanel); ch.Topmost == nil || ch.Topmost.ID != 3 {
		t.Errorf("topmost should be re-resolved between ticks, got %v", ch.Topmost)
	}
}

func TestDetector_PeriodicRescanFindsNewPanels(t *testing.T) {
	opts := everyFrame()
	opts.RescanMultiplier = 3
	d := New(opts, nil)

	first := popup(2, "StorePanel(Clone)", nil, false)
	d.CheckForChanges(sceneWith(first)) // frame 1: nothing tracked yet, so it rescans

	both := sceneWith(popup(2, "StorePanel(Clone)", nil, false), popup(4, "RewardPopup(Clone)", nil, false))
	if ch := d.CheckForChanges(both); ch.Appeared != "" { // frame 2: no rescan
		t.Fatalf("new panel found before rescan: %+v", ch)
	}
	if ch := d.CheckForChanges(both); ch.Appeared != "RewardPopup" { // frame 3: rescan
		t.Errorf("expected rescan on frame 3, got %+v", ch)
	}
}

func TestDetector_RecycledIdentity(t *testing.T) {
	d := New(everyFrame(), nil)
	d.CheckForChanges(sceneWith(popup(2, "StorePanel(Clone)", nil, false)))

	// Same id now names an unrelated object.
	ch := d.CheckForChanges(sceneWith(&model.Object{ID: 2, Name: "Decor"}))
	if ch.HasChange || len(d.Tracked()) != 0 {
		t.Errorf("recycled id should be pruned silently: %+v %+v", ch, d.Tracked())
	}
}

func TestDetector_Reset(t *testing.T) {
	d := New(everyFrame(), nil)
	d.CheckForChanges(sceneWith(popup(2, "StorePanel(Clone)", nil, false)))
	d.Reset()
	if len(d.Tracked()) != 0 || d.Topmost(sceneWith()) != nil {
		t.Error("Reset should clear all state")
	}
}
