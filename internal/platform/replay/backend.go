package replay

import (
	"fmt"
	"strings"

	"github.com/mj1618/arena-access/internal/logging"
	"github.com/mj1618/arena-access/internal/model"
	"github.com/mj1618/arena-access/internal/platform"
)

// Default host type names registered for the scenario's capabilities.
const (
	TypeManaSelector = "ManaColorSelector"
	TypeAutoPass     = "AutoPassController"
	TypePhaseStop    = "PhaseStopControl"
)

// Action is one side effect the session asked of the host.
type Action struct {
	Frame   int64  `yaml:"frame"             json:"frame"`
	Kind    string `yaml:"kind"              json:"kind"`
	ID      int64  `yaml:"id"                json:"id"`
	Name    string `yaml:"name,omitempty"    json:"name,omitempty"`
	OK      bool   `yaml:"ok"                json:"ok"`
	Message string `yaml:"message,omitempty" json:"message,omitempty"`
}

// Backend implements every platform interface over a Scenario.
type Backend struct {
	scenario *Scenario
	log      *logging.Logger

	scene     *model.Scene
	sceneKey  string
	nextScene string
	frame     int64

	pressed  map[platform.Key]bool
	held     map[platform.Key]bool
	consumed map[platform.Key]bool

	hosts   map[string][]any
	actions []Action
}

var (
	_ platform.Reader       = (*Backend)(nil)
	_ platform.Keyboard     = (*Backend)(nil)
	_ platform.Activator    = (*Backend)(nil)
	_ platform.Capabilities = (*Backend)(nil)
)

// New creates a Backend. No scene is loaded until the first Begin.
func New(sc *Scenario, log *logging.Logger) *Backend {
	if log == nil {
		log = logging.NopLogger()
	}
	b := &Backend{
		scenario: sc,
		log:      log.WithComponent("replay"),
		pressed:  make(map[platform.Key]bool),
		held:     make(map[platform.Key]bool),
		consumed: make(map[platform.Key]bool),
		hosts:    make(map[string][]any),
	}
	if h := sc.Hosts.ManaSelector; h != nil {
		b.Register(TypeManaSelector, h)
	}
	if h := sc.Hosts.AutoPass; h != nil {
		b.Register(TypeAutoPass, h)
	}
	for _, h := range sc.Hosts.PhaseStops {
		b.Register(TypePhaseStop, h)
	}
	return b
}

// Register adds live instances of a host type.
func (b *Backend) Register(typeName string, instances ...any) {
	b.hosts[typeName] = append(b.hosts[typeName], instances...)
}

// Begin prepares the first frame of step: switches scene when asked and
// presses the step's keys. Naming the live scene again keeps its mutations.
func (b *Backend) Begin(st Step) error {
	key := st.Scene
	if key == "" {
		key = b.nextScene
	}
	if key != "" && (key != b.sceneKey || b.scene == nil) {
		if err := b.LoadScene(key); err != nil {
			return err
		}
	}
	if b.scene == nil {
		return fmt.Errorf("no scene loaded")
	}
	clear(b.held)
	for _, k := range st.held {
		b.held[k] = true
	}
	for _, k := range st.pressed {
		b.pressed[k] = true
	}
	return nil
}

// NextFrame clears this frame's pressed keys and applies a pending scene
// switch requested by a click.
func (b *Backend) NextFrame() error {
	clear(b.pressed)
	clear(b.consumed)
	b.frame++
	if b.nextScene != "" {
		return b.LoadScene(b.nextScene)
	}
	return nil
}

// End releases held keys after the step's last frame.
func (b *Backend) End() {
	clear(b.held)
}

// LoadScene replaces the live scene with a fresh copy of the named snapshot.
func (b *Backend) LoadScene(key string) error {
	s, err := b.scenario.Decode(key)
	if err != nil {
		return err
	}
	b.scene = s
	b.sceneKey = key
	b.nextScene = ""
	b.log.Debug("scene loaded", "scene", key, "objects", s.Count())
	return nil
}

// SceneKey returns the scenario key of the live scene.
func (b *Backend) SceneKey() string { return b.sceneKey }

// Actions returns every recorded host action.
func (b *Backend) Actions() []Action {
	out := make([]Action, len(b.actions))
	copy(out, b.actions)
	return out
}

func (b *Backend) ReadScene() (*model.Scene, error) {
	if b.scene == nil {
		return nil, fmt.Errorf("no scene loaded")
	}
	return b.scene, nil
}

func (b *Backend) Pressed(k platform.Key) bool { return b.pressed[k] && !b.consumed[k] }

func (b *Backend) Held(k platform.Key) bool { return b.held[k] || b.pressed[k] }

func (b *Backend) Consume(k platform.Key) bool {
	if !b.Pressed(k) {
		return false
	}
	b.consumed[k] = true
	return true
}

func (b *Backend) SimulatePointerClick(o *model.Object) platform.ClickResult {
	if !b.scene.Alive(o) {
		b.record("click", o, platform.ErrNotAlive)
		return platform.ClickResult{Message: platform.ErrNotAlive.Error()}
	}
	eff := b.scenario.Clicks[o.ID]
	if eff.Fail != "" {
		b.record("click", o, fmt.Errorf("%s", eff.Fail))
		return platform.ClickResult{Message: eff.Fail}
	}
	if eff.Toggle != "" {
		if t := o.FindDescendant(eff.Toggle); t != nil {
			t.Inactive = !t.Inactive
		}
	}
	if eff.Scene != "" {
		b.nextScene = eff.Scene
	}
	b.record("click", o, nil)
	return platform.ClickResult{Success: true}
}

func (b *Backend) ActivateInputField(o *model.Object) error {
	if !b.scene.Alive(o) {
		b.record("activate", o, platform.ErrNotAlive)
		return platform.ErrNotAlive
	}
	field := o.RichInput
	if field == nil {
		field = o.Input
	}
	if field == nil {
		err := fmt.Errorf("object %d has no input field", o.ID)
		b.record("activate", o, err)
		return err
	}
	field.HasCaret = true
	b.scene.FocusedID = o.ID
	b.record("activate", o, nil)
	return nil
}

func (b *Backend) SetFocus(o *model.Object) error {
	if !b.scene.Alive(o) {
		return platform.ErrNotAlive
	}
	if b.scene.FocusedID == o.ID {
		return nil
	}
	b.scene.FocusedID = o.ID
	b.record("focus", o, nil)
	return nil
}

func (b *Backend) Instances(typeName string) []any {
	return b.hosts[typeName]
}

func (b *Backend) record(kind string, o *model.Object, err error) {
	a := Action{Frame: b.frame + 1, Kind: kind, OK: err == nil}
	if o != nil {
		a.ID = o.ID
		a.Name = strings.TrimSpace(o.Name)
	}
	if err != nil {
		a.Message = err.Error()
	}
	b.actions = append(b.actions, a)
}
