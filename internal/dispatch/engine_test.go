package dispatch

import (
	"errors"
	"slices"
	"testing"

	"github.com/mj1618/arena-access/internal/cards"
	"github.com/mj1618/arena-access/internal/config"
	"github.com/mj1618/arena-access/internal/focus"
	"github.com/mj1618/arena-access/internal/model"
	"github.com/mj1618/arena-access/internal/platform"
	"github.com/mj1618/arena-access/internal/platform/platformtest"
)

type fixture struct {
	t *testing.T
	h *platformtest.Harness
	e *Engine
}

func newFixture(t *testing.T, cfg *config.Config) *fixture {
	t.Helper()
	h := platformtest.New()
	e, err := New(h.Provider, cfg, nil, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return &fixture{t: t, h: h, e: e}
}

func (f *fixture) frame(s *model.Scene, keys ...platform.Key) string {
	f.t.Helper()
	f.h.Reader.Scene = s
	f.h.Keys.Press(keys...)
	defer f.h.Keys.EndFrame()
	name, err := f.e.Frame()
	if err != nil {
		f.t.Fatalf("Frame: %v", err)
	}
	return name
}

func homeScene() *model.Scene {
	return model.NewScene("Home", &model.Object{ID: 1, Name: "Canvas", Children: []*model.Object{
		{ID: 2, Name: "Btn_Play", Text: "Play", Components: []string{"Button"}},
		{ID: 3, Name: "Btn_Decks", Text: "Decks", Components: []string{"Button"}},
		{ID: 4, Name: "Btn_Store", Text: "Store", Components: []string{"Button"}},
	}})
}

func loginScene() *model.Scene {
	s := model.NewScene("Login", &model.Object{ID: 1, Name: "Canvas", Children: []*model.Object{
		{ID: 2, Name: "Input_Email", Components: []string{"InputField"},
			Input: &model.InputField{Text: "bob", Caret: 1, HasCaret: true}},
		{ID: 3, Name: "Btn_Login", Text: "Log in", Components: []string{"Button"}},
	}})
	s.FocusedID = 2
	return s
}

func duelScene(marked bool) *model.Scene {
	return model.NewScene("Duel", &model.Object{ID: 1, Name: "DuelRoot", Children: []*model.Object{
		{ID: 2, Name: cards.LocalBattlefield, Children: []*model.Object{
			{ID: 10, Name: "CDC #501", Children: []*model.Object{
				{ID: 11, Name: "Title", Text: "Grizzly Bears"},
				{ID: 12, Name: "TypeLine", Text: "Creature"},
				{ID: 13, Name: cards.TargetMarker, Inactive: !marked},
			}},
		}},
	}})
}

func duelConfig() *config.Config {
	cfg := config.Default()
	cfg.Navigator.DuelScenes = []string{"Duel"}
	return cfg
}

func TestEngine_MenuNavigation(t *testing.T) {
	f := newFixture(t, nil)
	s := homeScene()

	f.frame(s)
	texts := f.h.Texts()
	if len(texts) < 2 || texts[0] != "Menu. 3 items" || texts[1] != "Play, button, 1 of 3" {
		t.Fatalf("announcements = %v", texts)
	}

	if got := f.frame(s, platform.KeyTab); got != HandlerScreen {
		t.Errorf("handler = %q, want %q", got, HandlerScreen)
	}
	if got := f.h.LastText(); got != "Decks, button, 2 of 3" {
		t.Errorf("announcement = %q", got)
	}
	st := f.e.State()
	if st.Screen != "menu" || st.Element != "Decks, button" || st.Elements != 3 {
		t.Errorf("state = %+v", st)
	}
	if st.Session == "" || st.Session != f.e.Session() {
		t.Errorf("session = %q", st.Session)
	}
}

func TestEngine_UnhandledKeysReportNothing(t *testing.T) {
	f := newFixture(t, nil)
	s := homeScene()
	f.frame(s)
	if got := f.frame(s, platform.KeySpace); got != "" {
		t.Errorf("handler = %q, want none", got)
	}
}

func TestEngine_EnterOnInputFieldStartsEditing(t *testing.T) {
	f := newFixture(t, nil)
	s := loginScene()
	f.frame(s)

	if got := f.frame(s, platform.KeyEnter); got != HandlerEnter {
		t.Fatalf("handler = %q, want %q", got, HandlerEnter)
	}
	if f.e.State().Mode != focus.ModeEditingInputField {
		t.Fatalf("mode = %v", f.e.State().Mode)
	}
	if len(f.h.Activator.Clicks) != 0 {
		t.Error("Enter on a field must not also click it")
	}
	if got := f.e.State().FocusMoves; got != 1 {
		t.Errorf("focus moves = %d, want 1", got)
	}

	if got := f.frame(s, platform.KeyLeft); got != HandlerEdit {
		t.Errorf("handler = %q, want %q", got, HandlerEdit)
	}

	// Tab leaves the field and moves the menu cursor on.
	if got := f.frame(s, platform.KeyTab); got != HandlerEdit {
		t.Errorf("handler = %q, want %q", got, HandlerEdit)
	}
	if f.e.State().Mode != focus.ModeIdle {
		t.Errorf("mode after Tab = %v", f.e.State().Mode)
	}
	if got := f.h.LastText(); got != "Log in, button, 2 of 2" {
		t.Errorf("announcement = %q", got)
	}
}

func TestEngine_HelpIsModal(t *testing.T) {
	f := newFixture(t, nil)
	s := homeScene()
	f.frame(s)

	if got := f.frame(s, platform.KeyF1); got != HandlerHelp {
		t.Fatalf("handler = %q, want %q", got, HandlerHelp)
	}
	if got := f.frame(s, platform.KeyTab); got != HandlerHelp {
		t.Errorf("Tab went to %q while help is open", got)
	}
	f.frame(s, platform.KeyEscape)
	if f.e.State().HelpOpen {
		t.Error("Escape should close help")
	}
	if got := f.frame(s, platform.KeyTab); got != HandlerScreen {
		t.Errorf("handler after help = %q", got)
	}
}

func TestEngine_TypingKeysGoToHostWhileEditing(t *testing.T) {
	tests := []struct {
		name string
		key  platform.Key
	}{
		{"enter", platform.KeyEnter},
		{"backspace", platform.KeyBackspace},
		{"space", platform.KeySpace},
		{"digit", platform.Key1},
		{"help key", platform.KeyF1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, nil)
			s := loginScene()
			f.frame(s)
			if got := f.frame(s, platform.KeyEnter); got != HandlerEnter {
				t.Fatalf("handler = %q, want %q", got, HandlerEnter)
			}

			if got := f.frame(s, tt.key); got != "" {
				t.Errorf("handler = %q, want none", got)
			}
			st := f.e.State()
			if st.Mode != focus.ModeEditingInputField {
				t.Errorf("mode = %v, want editing", st.Mode)
			}
			if st.HelpOpen {
				t.Error("help must not open while typing")
			}
			if len(f.h.Activator.Clicks) != 0 {
				t.Errorf("clicks = %v, want none", f.h.Activator.Clicks)
			}
		})
	}
}

// duelChatScene is a duel with a focused chat field next to a creature.
func duelChatScene(marked bool) *model.Scene {
	s := duelScene(marked)
	s.Roots[0].Children = append(s.Roots[0].Children, &model.Object{
		ID: 20, Name: "Input_Chat", Components: []string{"InputField"},
		Input: &model.InputField{Text: "gg", Caret: 2, HasCaret: true},
	})
	s.Link()
	s.FocusedID = 20
	return s
}

func TestEngine_BackspaceWhileEditingKeepsTargetMode(t *testing.T) {
	f := newFixture(t, duelConfig())
	f.frame(duelChatScene(false))
	if got := f.frame(duelChatScene(false), platform.KeyEnter); got != HandlerEnter {
		t.Fatalf("handler = %q, want %q", got, HandlerEnter)
	}

	f.frame(duelChatScene(true))
	if f.e.State().Targeting == nil {
		t.Fatal("target mode should be on")
	}

	if got := f.frame(duelChatScene(true), platform.KeyBackspace); got != "" {
		t.Errorf("handler = %q, want none", got)
	}
	st := f.e.State()
	if st.Targeting == nil {
		t.Error("Backspace while typing must not cancel target mode")
	}
	if st.Mode != focus.ModeEditingInputField {
		t.Errorf("mode = %v, want editing", st.Mode)
	}
}

func TestEngine_TargetModeOutranksMenus(t *testing.T) {
	f := newFixture(t, duelConfig())
	f.frame(duelScene(true))

	st := f.e.State()
	if st.Targeting == nil || len(st.Targeting.Targets) != 1 {
		t.Fatalf("targeting = %+v", st.Targeting)
	}
	if st.Screen != "" {
		t.Errorf("menus should stay off in a duel without a panel, got %q", st.Screen)
	}
	if got := f.frame(duelScene(true), platform.KeyTab); got != HandlerTarget {
		t.Errorf("handler = %q, want %q", got, HandlerTarget)
	}
}

func TestEngine_SceneChangeResetsModes(t *testing.T) {
	f := newFixture(t, duelConfig())
	f.frame(duelScene(true))
	if f.e.State().Targeting == nil {
		t.Fatal("target mode should be on")
	}

	f.frame(homeScene())
	st := f.e.State()
	if st.Targeting != nil {
		t.Error("a new scene must leave target mode")
	}
	if st.Scene != "Home" || st.Screen != "menu" {
		t.Errorf("state = %+v", st)
	}
}

func TestEngine_PanelAnnouncedAndScoped(t *testing.T) {
	cfg := config.Default()
	cfg.Panels.CheckIntervalFrames = 1
	cfg.Panels.RescanMultiplier = 1
	f := newFixture(t, cfg)

	f.frame(homeScene())

	withPopup := homeScene()
	withPopup.Roots = append(withPopup.Roots, &model.Object{
		ID: 20, Name: "ConfirmPopup(Clone)", Alpha: model.Float(1),
		Children: []*model.Object{
			{ID: 21, Name: "Btn_Yes", Text: "Yes", Components: []string{"Button"}},
			{ID: 22, Name: "Btn_No", Text: "No", Components: []string{"Button"}},
		},
	})
	withPopup.Link()
	f.frame(withPopup)

	if !slices.Contains(f.h.Texts(), "ConfirmPopup opened") {
		t.Errorf("panel opening not announced: %v", f.h.Texts())
	}
	st := f.e.State()
	if st.Elements != 2 || st.Element != "Yes, button" {
		t.Errorf("navigation should be scoped to the popup, state = %+v", st)
	}
}

func TestEngine_PanickingHandlerIsContained(t *testing.T) {
	f := newFixture(t, nil)
	s := homeScene()
	f.frame(s)

	f.h.Activator.OnClick = func(*model.Object) { panic("host exploded") }
	if got := f.frame(s, platform.KeyEnter); got != "" {
		t.Errorf("handler = %q, want none after a panic", got)
	}
	f.h.Activator.OnClick = nil
	if got := f.frame(s, platform.KeyTab); got != HandlerScreen {
		t.Errorf("engine should keep working, handler = %q", got)
	}
}

func TestEngine_ReadErrors(t *testing.T) {
	f := newFixture(t, nil)
	f.h.Reader.Err = errors.New("host gone")
	if _, err := f.e.Frame(); err == nil {
		t.Error("expected read error")
	}
	f.h.Reader.Err = nil
	f.h.Reader.Scene = nil
	if _, err := f.e.Frame(); err == nil {
		t.Error("expected error for a nil scene")
	}
}

func TestNew_RejectsIncompleteProvider(t *testing.T) {
	h := platformtest.New()
	h.Provider.Reader = nil
	if _, err := New(h.Provider, nil, nil, nil); err == nil {
		t.Error("expected error for missing reader")
	}

	cfg := config.Default()
	cfg.Focus.DropdownItemPattern = "("
	if _, err := New(platformtest.New().Provider, cfg, nil, nil); err == nil {
		t.Error("expected error for a bad dropdown pattern")
	}
}
