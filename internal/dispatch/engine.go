// Package dispatch runs the per-frame loop: it reads the scene, keeps every
// detector and navigator current, and offers the frame's keys to each input
// handler in a fixed order until one consumes them.
package dispatch

import (
	"fmt"
	"regexp"

	"github.com/google/uuid"

	"github.com/mj1618/arena-access/internal/capability"
	"github.com/mj1618/arena-access/internal/clock"
	"github.com/mj1618/arena-access/internal/config"
	"github.com/mj1618/arena-access/internal/duel"
	"github.com/mj1618/arena-access/internal/focus"
	"github.com/mj1618/arena-access/internal/holder"
	"github.com/mj1618/arena-access/internal/logging"
	"github.com/mj1618/arena-access/internal/manapicker"
	"github.com/mj1618/arena-access/internal/model"
	"github.com/mj1618/arena-access/internal/navigator"
	"github.com/mj1618/arena-access/internal/panel"
	"github.com/mj1618/arena-access/internal/platform"
	"github.com/mj1618/arena-access/internal/priority"
	"github.com/mj1618/arena-access/internal/schedule"
)

// Handler names reported by Frame, in arbitration order.
const (
	HandlerEdit     = "edit"
	HandlerHelp     = "help"
	HandlerPicker   = "manapicker"
	HandlerTarget   = "target"
	HandlerDiscard  = "discard"
	HandlerPriority = "priority"
	HandlerEnter    = "enter-field"
	HandlerScreen   = "navigator"
)

// itemLister is implemented by string catalogs that carry lists.
type itemLister interface {
	Items(key string) []string
}

// frameStamper is implemented by announcers that record the frame number.
type frameStamper interface {
	SetFrame(frame int64)
}

type handler struct {
	name string
	fn   func(s *model.Scene) bool
}

// Engine owns every component of one session.
type Engine struct {
	provider *platform.Provider
	log      *logging.Logger
	session  string

	modes    *focus.Modes
	holders  *holder.Cache
	queue    *schedule.Queue
	panels   *panel.Detector
	tracker  *focus.Tracker
	editor   *focus.EditHelper
	help     *navigator.Help
	screens  *navigator.Navigator
	targets  *duel.TargetNavigator
	discard  *duel.DiscardNavigator
	picker   *manapicker.Picker
	priority *priority.Controller
	handlers []handler

	scene       *model.Scene
	sceneName   string
	frame       int64
	lastHandler string
	focusMoves  int
}

// New wires a session over p. A nil clock uses the wall clock.
func New(p *platform.Provider, cfg *config.Config, c clock.Clock, log *logging.Logger) (*Engine, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if cfg == nil {
		cfg = config.Default()
	}
	if c == nil {
		c = clock.Real()
	}
	dropdownItem, err := regexp.Compile(cfg.Focus.DropdownItemPattern)
	if err != nil {
		return nil, fmt.Errorf("invalid dropdown item pattern: %w", err)
	}
	if log == nil {
		log = logging.NopLogger()
	}
	session := uuid.NewString()
	log = log.WithSession(session)

	e := &Engine{
		provider: p,
		log:      log.WithComponent("dispatch"),
		session:  session,
		modes:    focus.NewModes(),
		holders:  holder.New(),
		queue:    schedule.New(c),
		panels:   panel.New(panel.OptionsFrom(cfg.Panels), log),
	}
	e.tracker = focus.NewTracker(e.modes, p, dropdownItem, log)
	e.tracker.Subscribe(e.onFocusChanged)
	e.editor = focus.NewEditHelper(e.modes, p, log)

	var helpItems []string
	if l, ok := p.Strings.(itemLister); ok {
		helpItems = l.Items("help_items")
	}
	e.help = navigator.NewHelp(p, helpItems)
	e.screens = navigator.New(p,
		navigator.Options{ValidateInterval: cfg.Navigator.ValidateIntervalFrames},
		e.tracker, log,
		navigator.NewAssetPrepScreen(p.Text, cfg.Navigator.AssetPrepStep),
		navigator.NewMenuScreen(p.Text, e.panels.Topmost, cfg.Navigator.DuelScenes...),
	)

	e.targets = duel.NewTargetNavigator(p, e.holders, log)
	e.discard = duel.NewDiscardNavigator(p, e.holders, e.queue, cfg.Duel.DiscardRecountDelay(), log)
	e.picker = manapicker.New(p,
		capability.NewProbe(p.Capabilities, cfg.ManaPicker.TypeName, manapicker.Methods, log),
		c,
		manapicker.Options{PollInterval: cfg.ManaPicker.PollInterval(), MaxOptions: cfg.ManaPicker.MaxOptions},
		log)
	e.priority = priority.New(p,
		capability.NewProbe(p.Capabilities, cfg.Priority.AutoPassType, priority.AutoPassMethods, log),
		capability.NewProbe(p.Capabilities, cfg.Priority.PhaseStopType, priority.PhaseStopMethods, log),
		log)

	e.handlers = []handler{
		{HandlerEdit, func(s *model.Scene) bool { return e.editor.HandleEditing(s, e.screens.Move) }},
		{HandlerHelp, func(*model.Scene) bool { return e.help.HandleInput() }},
		{HandlerPicker, e.picker.HandleInput},
		{HandlerTarget, e.targets.HandleInput},
		{HandlerDiscard, e.discard.HandleInput},
		{HandlerPriority, e.priority.HandleInput},
		{HandlerEnter, e.enterField},
		{HandlerScreen, e.navigate},
	}
	return e, nil
}

// Session returns the session identifier stamped on every log line.
func (e *Engine) Session() string { return e.session }

// Scene returns the last frame's scene.
func (e *Engine) Scene() *model.Scene { return e.scene }

// Frame runs one frame and returns the name of the handler that consumed the
// keys, or "".
func (e *Engine) Frame() (string, error) {
	s, err := e.provider.Reader.ReadScene()
	if err != nil {
		return "", fmt.Errorf("failed to read scene: %w", err)
	}
	if s == nil {
		return "", fmt.Errorf("reader returned no scene")
	}
	e.frame++
	if fs, ok := e.provider.Announcer.(frameStamper); ok {
		fs.SetFrame(e.frame)
	}
	if s.Name != e.sceneName {
		e.sceneChanged(s.Name)
	}
	e.scene = s

	e.stage("schedule", func() { e.queue.Run(s) })
	e.stage("panels", func() { e.checkPanels(s) })
	e.stage("focus", func() { e.tracker.Update(s) })
	e.stage("target", func() { e.targets.Update(s) })
	e.stage("discard", func() { e.discard.Update(s) })
	e.stage("manapicker", func() { e.picker.Update(s) })
	e.stage("navigator", func() { e.screens.Update(s) })

	e.lastHandler = ""
	for _, h := range e.handlers {
		if e.guard(h.name, func() bool { return h.fn(s) }) {
			e.lastHandler = h.name
			break
		}
		// Keys the edit helper passes through are typing and belong to the host.
		if h.name == HandlerEdit && e.modes.EditingInputField() {
			break
		}
	}
	return e.lastHandler, nil
}

// sceneChanged drops everything that referred to the previous scene.
func (e *Engine) sceneChanged(name string) {
	if e.sceneName != "" {
		e.log.Info("scene changed", "from", e.sceneName, "to", name)
	}
	e.sceneName = name
	e.holders.Clear()
	e.priority.Invalidate()
	e.panels.Reset()
	e.queue.Clear()
	e.editor.Clear()
	e.tracker.Reset()
	e.help.Reset()
	e.screens.Reset()
	e.targets.Reset()
	e.discard.Exit()
	e.picker.Reset()
}

func (e *Engine) checkPanels(s *model.Scene) {
	change := e.panels.CheckForChanges(s)
	if !change.HasChange {
		return
	}
	strs, ann := e.provider.Strings, e.provider.Announcer
	if change.Disappeared != "" {
		ann.Announce(strs.Format("panel_closed", change.Disappeared), platform.PriorityNormal)
	}
	if change.Appeared != "" {
		ann.Announce(strs.Format("panel_opened", change.Appeared), platform.PriorityNormal)
	}
	e.screens.Refresh(s)
}

// enterField starts editing when Enter is pressed on a focused input field.
func (e *Engine) enterField(s *model.Scene) bool {
	if e.modes.Editing() || !e.provider.Keyboard.Pressed(platform.KeyEnter) {
		return false
	}
	obj := s.Focused()
	if !focus.IsInputField(obj) {
		return false
	}
	if err := e.editor.EnterEditMode(obj); err != nil {
		e.log.Warn("failed to enter edit mode", "object", obj.ID, "error", err)
		return false
	}
	return true
}

// navigate leaves the arrow keys to the host while a dropdown is open.
func (e *Engine) navigate(s *model.Scene) bool {
	if e.modes.EditingDropdown() {
		return false
	}
	return e.screens.HandleInput(s)
}

func (e *Engine) stage(name string, fn func()) {
	e.guard(name, func() bool {
		fn()
		return false
	})
}

// guard runs fn, converting a panic into "not handled".
func (e *Engine) guard(name string, fn func() bool) (handled bool) {
	defer func() {
		if r := recover(); r != nil {
			e.log.Error("stage panicked", "stage", name, "frame", e.frame, "panic", fmt.Sprint(r))
			handled = false
		}
	}()
	return fn()
}

func (e *Engine) onFocusChanged(ev focus.FocusChanged) {
	e.focusMoves++
	if ev.Current != nil {
		e.log.Debug("focus changed", "from", ev.PreviousID, "to", ev.Current.ID, "name", ev.Current.Name)
	}
}
