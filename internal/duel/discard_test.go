package duel

import (
	"strconv"
	"testing"
	"time"

	"github.com/mj1618/arena-access/internal/cards"
	"github.com/mj1618/arena-access/internal/clock"
	"github.com/mj1618/arena-access/internal/holder"
	"github.com/mj1618/arena-access/internal/model"
	"github.com/mj1618/arena-access/internal/platform"
	"github.com/mj1618/arena-access/internal/platform/platformtest"
	"github.com/mj1618/arena-access/internal/schedule"
)

func handCard(id, instance int64, title string, selected bool) *model.Object {
	return &model.Object{
		ID:   id,
		Name: "CDC #" + strconv.FormatInt(instance, 10),
		Children: []*model.Object{
			{ID: id*100 + 1, Name: "Title", Text: title},
			{ID: id*100 + 2, Name: cards.SelectMarker, Inactive: !selected},
		},
	}
}

func discardScene(prompt string, selected ...bool) *model.Scene {
	sel := func(i int) bool { return i < len(selected) && selected[i] }
	return model.NewScene("Duel", &model.Object{ID: 1, Name: "DuelScene", Children: []*model.Object{
		{ID: 2, Name: "PromptText", Text: prompt},
		{ID: 3, Name: "Btn_Submit", Components: []string{"Button"}, Children: []*model.Object{
			{ID: 31, Name: "Text", Text: "Submit 0"},
		}},
		{ID: 4, Name: cards.LocalHand, Children: []*model.Object{
			handCard(40, 701, "Shock", sel(0)),
			handCard(41, 702, "Island", sel(1)),
			handCard(42, 703, "Opt", sel(2)),
		}},
	}})
}

type discardFixture struct {
	h     *platformtest.Harness
	clock *clock.FakeClock
	queue *schedule.Queue
	dn    *DiscardNavigator
}

func newDiscardFixture() *discardFixture {
	h := platformtest.New()
	c := clock.Fake(time.Unix(0, 0))
	q := schedule.New(c)
	return &discardFixture{
		h:     h,
		clock: c,
		queue: q,
		dn:    NewDiscardNavigator(h.Provider, holder.New(), q, 200*time.Millisecond, nil),
	}
}

func (f *discardFixture) press(s *model.Scene, keys ...platform.Key) bool {
	f.h.Keys.Press(keys...)
	defer f.h.Keys.EndFrame()
	return f.dn.HandleInput(s)
}

func TestParseRequired(t *testing.T) {
	tests := []struct {
		prompt string
		want   int
	}{
		{"Discard 2 cards", 2},
		{"<b>Discard a card</b>", 1},
		{"discard 3 cards.", 3},
		{"Choose wisely", 0},
	}
	for _, tt := range tests {
		if got := ParseRequired(discardScene(tt.prompt)); got != tt.want {
			t.Errorf("ParseRequired(%q) = %d, want %d", tt.prompt, got, tt.want)
		}
	}
}

func TestDiscard_DetectionExcludesTargeting(t *testing.T) {
	f := newDiscardFixture()
	s := discardScene("Discard 2 cards")
	if !f.dn.Detect(s) {
		t.Fatal("submit button should trigger discard mode")
	}

	marked := discardScene("Discard 2 cards")
	hand := marked.Lookup(4)
	hand.Children[0].Children = append(hand.Children[0].Children, &model.Object{ID: 999, Name: cards.TargetMarker})
	marked.Link()
	if f.dn.Detect(marked) {
		t.Error("an active target marker means targeting, not discard")
	}
}

func TestDiscard_EntersAndNavigates(t *testing.T) {
	f := newDiscardFixture()
	s := discardScene("Discard 2 cards")
	f.dn.Update(s)
	if !f.dn.IsActive() || f.dn.Required() != 2 {
		t.Fatalf("active = %v, required = %d", f.dn.IsActive(), f.dn.Required())
	}
	texts := f.h.Texts()
	if texts[0] != "Discard 2 cards" || texts[1] != "Shock, 1 of 3" {
		t.Errorf("entry announcements = %v", texts)
	}

	f.press(s, platform.KeyRight)
	if got := f.h.LastText(); got != "Island, 2 of 3" {
		t.Errorf("Right = %q", got)
	}
	f.press(s, platform.KeyLeft)
	f.press(s, platform.KeyLeft)
	if got := f.h.LastText(); got != "Opt, 3 of 3" {
		t.Errorf("Left wraps = %q", got)
	}
}

func TestDiscard_RequiredCountCapturedOnce(t *testing.T) {
	f := newDiscardFixture()
	f.dn.Update(discardScene("Discard 2 cards"))
	f.dn.Update(discardScene("Discard a card"))
	if f.dn.Required() != 2 {
		t.Errorf("required changed mid-mode to %d", f.dn.Required())
	}
}

func TestDiscard_ToggleSchedulesRecount(t *testing.T) {
	f := newDiscardFixture()
	s := discardScene("Discard 2 cards")
	f.dn.Update(s)

	if !f.press(s, platform.KeyEnter) {
		t.Fatal("Enter should be consumed")
	}
	if f.h.Activator.ClickCount(40) != 1 {
		t.Fatalf("clicks = %v", f.h.Activator.Clicks)
	}

	after := discardScene("Discard 2 cards", true)
	f.queue.Run(after)
	if got := f.h.LastText(); got == "1 card selected, need 2" {
		t.Fatal("recount must wait for the delay")
	}

	f.clock.Advance(200 * time.Millisecond)
	if n := f.queue.Run(after); n != 1 {
		t.Fatalf("ran %d tasks, want 1", n)
	}
	if got := f.h.LastText(); got != "1 card selected, need 2" {
		t.Errorf("recount = %q", got)
	}
}

func TestDiscard_SubmitEnforcesCount(t *testing.T) {
	f := newDiscardFixture()
	one := discardScene("Discard 2 cards", true)
	f.dn.Update(one)

	f.press(one, platform.KeySpace)
	e, _ := f.h.Recorder.Last()
	if e.Text != "Need 2, have 1" || e.Priority != platform.PriorityHigh {
		t.Errorf("rejection = %+v", e)
	}
	if f.h.Activator.ClickCount(3) != 0 {
		t.Fatal("submit must not be clicked")
	}

	two := discardScene("Discard 2 cards", true, true)
	f.dn.Update(two)
	f.press(two, platform.KeySpace)
	if got := f.h.Activator.ClickCount(3); got != 1 {
		t.Errorf("submit clicked %d times, want 1", got)
	}
	if got := f.h.LastText(); got != "Discard submitted" {
		t.Errorf("announcement = %q", got)
	}
}

func TestDiscard_ExitCancelsRecount(t *testing.T) {
	f := newDiscardFixture()
	s := discardScene("Discard 1 card")
	f.dn.Update(s)
	f.press(s, platform.KeyEnter)
	if len(f.queue.Pending()) != 1 {
		t.Fatalf("pending = %v", f.queue.Pending())
	}

	gone := model.NewScene("Duel", &model.Object{ID: 1, Name: "DuelScene"})
	f.dn.Update(gone)
	if f.dn.IsActive() {
		t.Fatal("prompt gone, mode should exit")
	}
	f.clock.Advance(time.Second)
	if n := f.queue.Run(gone); n != 0 {
		t.Errorf("cancelled recount ran (%d tasks)", n)
	}
}

func TestDiscard_InactiveConsumesNothing(t *testing.T) {
	f := newDiscardFixture()
	if f.press(discardScene("Discard 1 card"), platform.KeySpace) {
		t.Error("inactive mode consumes nothing")
	}
}
