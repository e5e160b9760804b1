package manapicker

import (
	"errors"
	"testing"
	"time"

	"github.com/mj1618/arena-access/internal/capability"
	"github.com/mj1618/arena-access/internal/clock"
	"github.com/mj1618/arena-access/internal/platform"
	"github.com/mj1618/arena-access/internal/platform/platformtest"
)

type fakeSelector struct {
	open     bool
	options  []string
	total    int
	current  int
	selected []int
	closed   bool
	failNext error
}

func (f *fakeSelector) IsOpen() bool { return f.open }
func (f *fakeSelector) ValidOptionCount() int { return len(f.options) }
func (f *fakeSelector) OptionAt(i int) string { return f.options[i] }
func (f *fakeSelector) MaxSelections() int { return f.total }
func (f *fakeSelector) CurrentSelection() int { return f.current }
func (f *fakeSelector) AllSelectionsComplete() bool { return f.current >= f.total }

func (f *fakeSelector) SelectOption(i int) error {
	if f.failNext != nil {
		err := f.failNext
		f.failNext = nil
		return err
	}
	f.selected = append(f.selected, i)
	f.current++
	if f.current >= f.total {
		f.open = false
	}
	return nil
}

func (f *fakeSelector) Close() error {
	f.closed = true
	f.open = false
	return nil
}

type fixture struct {
	h     *platformtest.Harness
	clock *clock.FakeClock
	sel   *fakeSelector
	m     *Picker
}

func newFixture(total int, options ...string) *fixture {
	h := platformtest.New()
	sel := &fakeSelector{open: true, options: options, total: total}
	h.Caps["ManaColorSelector"] = []any{sel}
	c := clock.Fake(time.Unix(0, 0))
	probe := capability.NewProbe(h.Caps, "ManaColorSelector", Methods, nil)
	m := New(h.Provider, probe, c, Options{PollInterval: 100 * time.Millisecond, MaxOptions: 6}, nil)
	return &fixture{h: h, clock: c, sel: sel, m: m}
}

func (f *fixture) frame(keys ...platform.Key) bool {
	f.h.Keys.Press(keys...)
	defer f.h.Keys.EndFrame()
	f.m.Update(nil)
	return f.m.HandleInput(nil)
}

var sixColors = []string{"White", "Blue", "Black", "Red", "Green", "Colorless"}

func TestPicker_OpensAndNarrates(t *testing.T) {
	f := newFixture(1, "White", "Blue")
	f.frame()
	if !f.m.IsOpen() {
		t.Fatal("picker should open")
	}
	want := "Choose mana color, pick 1 of 1. 1: White, 2: Blue"
	if got := f.h.LastText(); got != want {
		t.Errorf("narration = %q, want %q", got, want)
	}
	f.frame()
	if len(f.h.Texts()) != 1 {
		t.Errorf("narration repeated: %v", f.h.Texts())
	}
}

func TestPicker_InvalidKeyMutatesNothing(t *testing.T) {
	f := newFixture(1, sixColors...)
	f.frame()
	before := f.m.State()

	if !f.frame(platform.Key7) {
		t.Fatal("out-of-range digit should be consumed")
	}
	if got := f.h.LastText(); got != "Invalid key" {
		t.Errorf("announcement = %q", got)
	}
	if len(f.sel.selected) != 0 {
		t.Errorf("host selection changed: %v", f.sel.selected)
	}
	after := f.m.State()
	if len(after.Options) != len(before.Options) || after.Pick != before.Pick || !after.Open {
		t.Errorf("state changed: %+v -> %+v", before, after)
	}
}

func TestPicker_PicksAndRenarrates(t *testing.T) {
	f := newFixture(2, "White", "Blue", "Black")
	f.frame()

	f.frame(platform.Key2)
	if len(f.sel.selected) != 1 || f.sel.selected[0] != 1 {
		t.Fatalf("selected = %v", f.sel.selected)
	}
	if got := f.h.LastText(); got != "Blue chosen" {
		t.Errorf("pick = %q", got)
	}

	f.frame()
	if got := f.h.LastText(); got != "Choose mana color, pick 2 of 2. 1: White, 2: Blue, 3: Black" {
		t.Errorf("re-narration = %q", got)
	}

	f.frame(platform.Key3)
	if f.m.IsOpen() {
		t.Error("completing the sequence should close the picker")
	}
}

func TestPicker_Backspace(t *testing.T) {
	f := newFixture(1, "White")
	f.frame()
	if !f.frame(platform.KeyBackspace) {
		t.Fatal("Backspace should be consumed")
	}
	if !f.sel.closed || f.m.IsOpen() {
		t.Error("Backspace should close the host popup")
	}
	if got := f.h.LastText(); got != "Color choice cancelled" {
		t.Errorf("announcement = %q", got)
	}
}

func TestPicker_SelectFailureKeepsState(t *testing.T) {
	f := newFixture(1, "White", "Blue")
	f.frame()
	f.sel.failNext = errors.New("busy")
	f.frame(platform.Key1)

	e, _ := f.h.Recorder.Last()
	if e.Priority != platform.PriorityHigh || e.Text != "Could not choose color. busy" {
		t.Errorf("failure = %+v", e)
	}
	if !f.m.IsOpen() {
		t.Error("failure must keep the picker open")
	}
}

func TestPicker_PollsOnInterval(t *testing.T) {
	f := newFixture(1, "White")
	f.sel.open = false
	f.frame()
	if f.m.IsOpen() {
		t.Fatal("closed selector should not open")
	}

	f.sel.open = true
	f.clock.Advance(50 * time.Millisecond)
	f.frame()
	if f.m.IsOpen() {
		t.Error("poll ran before the interval elapsed")
	}
	f.clock.Advance(50 * time.Millisecond)
	f.frame()
	if !f.m.IsOpen() {
		t.Error("poll should run once the interval elapsed")
	}
}

func TestPicker_CtrlDigitsFallThrough(t *testing.T) {
	f := newFixture(1, "White")
	f.frame()
	f.h.Keys.Hold(platform.KeyCtrl)
	if f.frame(platform.Key1) {
		t.Error("Ctrl+digit belongs to the phase stops")
	}
}

type brokenSelector struct{}

func (brokenSelector) IsOpen() bool { return true }

func TestPicker_DisabledWhenShapeMismatch(t *testing.T) {
	h := platformtest.New()
	h.Caps["ManaColorSelector"] = []any{brokenSelector{}}
	c := clock.Fake(time.Unix(0, 0))
	probe := capability.NewProbe(h.Caps, "ManaColorSelector", Methods, nil)
	m := New(h.Provider, probe, c, Options{PollInterval: 100 * time.Millisecond}, nil)

	for i := 0; i < 5; i++ {
		m.Update(nil)
		c.Advance(time.Second)
	}
	if m.IsOpen() || !m.State().Disabled {
		t.Errorf("state = %+v", m.State())
	}
	h.Keys.Press(platform.Key1)
	if m.HandleInput(nil) {
		t.Error("disabled picker consumes nothing")
	}
}
