// Package platformtest provides in-memory platform backends for tests.
package platformtest

import (
	"github.com/mj1618/arena-access/internal/announce"
	"github.com/mj1618/arena-access/internal/locale"
	"github.com/mj1618/arena-access/internal/logging"
	"github.com/mj1618/arena-access/internal/model"
	"github.com/mj1618/arena-access/internal/platform"
	"github.com/mj1618/arena-access/internal/uitext"
)

// Reader serves whatever scene is set.
type Reader struct {
	Scene *model.Scene
	Err   error
}

func (r *Reader) ReadScene() (*model.Scene, error) { return r.Scene, r.Err }

// Keyboard is a scripted keyboard. Pressed keys last until EndFrame.
type Keyboard struct {
	pressed  map[platform.Key]bool
	held     map[platform.Key]bool
	consumed []platform.Key
}

// NewKeyboard returns a keyboard with nothing pressed.
func NewKeyboard() *Keyboard {
	return &Keyboard{
		pressed: make(map[platform.Key]bool),
		held:    make(map[platform.Key]bool),
	}
}

// Press marks keys as pressed this frame.
func (k *Keyboard) Press(keys ...platform.Key) {
	for _, key := range keys {
		k.pressed[key] = true
	}
}

// Hold marks keys as held until Release.
func (k *Keyboard) Hold(keys ...platform.Key) {
	for _, key := range keys {
		k.held[key] = true
	}
}

// Release clears held keys.
func (k *Keyboard) Release(keys ...platform.Key) {
	for _, key := range keys {
		delete(k.held, key)
	}
}

// EndFrame clears every pressed key.
func (k *Keyboard) EndFrame() {
	clear(k.pressed)
}

// Consumed lists keys taken with Consume, in order.
func (k *Keyboard) Consumed() []platform.Key {
	return k.consumed
}

func (k *Keyboard) Pressed(key platform.Key) bool { return k.pressed[key] }

func (k *Keyboard) Held(key platform.Key) bool { return k.held[key] || k.pressed[key] }

func (k *Keyboard) Consume(key platform.Key) bool {
	if !k.pressed[key] {
		return false
	}
	delete(k.pressed, key)
	k.consumed = append(k.consumed, key)
	return true
}

// Activator records every action. Clicks succeed unless listed in Fail.
type Activator struct {
	Clicks      []int64
	Activations []int64
	Focused     []int64
	// Fail maps an object identity to the failure message its click returns.
	Fail map[int64]string
	// ActivateErr is returned from ActivateInputField when set.
	ActivateErr error
	// OnClick runs after each recorded click.
	OnClick func(o *model.Object)
}

func (a *Activator) SimulatePointerClick(o *model.Object) platform.ClickResult {
	if o == nil {
		return platform.ClickResult{Message: "no object"}
	}
	a.Clicks = append(a.Clicks, o.ID)
	if msg, ok := a.Fail[o.ID]; ok {
		return platform.ClickResult{Message: msg}
	}
	if a.OnClick != nil {
		a.OnClick(o)
	}
	return platform.ClickResult{Success: true}
}

func (a *Activator) ActivateInputField(o *model.Object) error {
	if a.ActivateErr != nil {
		return a.ActivateErr
	}
	a.Activations = append(a.Activations, o.ID)
	return nil
}

func (a *Activator) SetFocus(o *model.Object) error {
	a.Focused = append(a.Focused, o.ID)
	return nil
}

// ClickCount returns how many times id was clicked.
func (a *Activator) ClickCount(id int64) int {
	n := 0
	for _, c := range a.Clicks {
		if c == id {
			n++
		}
	}
	return n
}

// Capabilities serves fixed instances per type name.
type Capabilities map[string][]any

func (c Capabilities) Instances(typeName string) []any { return c[typeName] }

// Harness bundles a provider with handles to its fakes.
type Harness struct {
	Reader    *Reader
	Keys      *Keyboard
	Activator *Activator
	Recorder  *announce.Recorder
	Strings   *locale.Catalog
	Caps      Capabilities
	Provider  *platform.Provider
}

// New builds a Harness using the English catalog and the default text extractor.
func New() *Harness {
	strs := locale.English(logging.NopLogger())
	h := &Harness{
		Reader:    &Reader{},
		Keys:      NewKeyboard(),
		Activator: &Activator{Fail: make(map[int64]string)},
		Recorder:  announce.NewRecorder(false),
		Strings:   strs,
		Caps:      Capabilities{},
	}
	h.Provider = &platform.Provider{
		Reader:       h.Reader,
		Keyboard:     h.Keys,
		Activator:    h.Activator,
		Announcer:    h.Recorder,
		Text:         uitext.New(strs),
		Strings:      strs,
		Capabilities: h.Caps,
	}
	return h
}

// Texts returns every announcement so far.
func (h *Harness) Texts() []string {
	return h.Recorder.Texts()
}

// LastText returns the most recent announcement, or "".
func (h *Harness) LastText() string {
	e, ok := h.Recorder.Last()
	if !ok {
		return ""
	}
	return e.Text
}
