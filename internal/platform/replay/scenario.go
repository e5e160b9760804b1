// Package replay is a host backend driven by a recorded scenario file. Each
// step names a scene snapshot and the keys pressed on that frame; clicks,
// focus moves and field activations are applied back to the live scene.
package replay

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/mj1618/arena-access/internal/model"
	"github.com/mj1618/arena-access/internal/platform"
)

// Scenario is a scripted session.
type Scenario struct {
	Name   string               `yaml:"name"`
	Scenes map[string]yaml.Node `yaml:"scenes"`
	Steps  []Step               `yaml:"steps"`
	// Clicks describes what happens when an object is clicked.
	Clicks map[int64]ClickEffect `yaml:"clicks,omitempty"`
	Hosts  Hosts                 `yaml:"capabilities,omitempty"`
}

// Step is one scripted input, held for Frames frames.
type Step struct {
	// Scene switches to the named scene before the step's first frame.
	Scene string   `yaml:"scene,omitempty"`
	Keys  []string `yaml:"keys,omitempty"`
	Held  []string `yaml:"held,omitempty"`
	// Frames defaults to 1. Keys are pressed on the first frame only.
	Frames int `yaml:"frames,omitempty"`
	// Advance moves the clock forward before each frame of the step.
	Advance time.Duration `yaml:"advance,omitempty"`
	Note    string        `yaml:"note,omitempty"`

	pressed []platform.Key
	held    []platform.Key
}

// ClickEffect is the host's scripted reaction to a click.
type ClickEffect struct {
	// Fail makes the click fail with this message.
	Fail string `yaml:"fail,omitempty"`
	// Toggle flips the active flag of the clicked object's descendant whose
	// name contains this fragment.
	Toggle string `yaml:"toggle,omitempty"`
	// Scene switches to the named scene on the next frame.
	Scene string `yaml:"scene,omitempty"`
}

// Hosts are the reflection-discovered host components.
type Hosts struct {
	ManaSelector *ManaSelector       `yaml:"mana_selector,omitempty"`
	AutoPass     *AutoPassController `yaml:"auto_pass,omitempty"`
	PhaseStops   []*PhaseStopControl `yaml:"phase_stops,omitempty"`
}

// Load reads a scenario file.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario: %w", err)
	}
	sc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return sc, nil
}

// Parse decodes and validates a scenario.
func Parse(data []byte) (*Scenario, error) {
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("failed to parse scenario: %w", err)
	}
	if len(sc.Scenes) == 0 {
		return nil, fmt.Errorf("scenario has no scenes")
	}
	for i := range sc.Steps {
		st := &sc.Steps[i]
		if st.Scene != "" {
			if _, ok := sc.Scenes[st.Scene]; !ok {
				return nil, fmt.Errorf("step %d: unknown scene %q", i+1, st.Scene)
			}
		}
		if st.Frames < 0 {
			return nil, fmt.Errorf("step %d: frames must not be negative", i+1)
		}
		if st.Frames == 0 {
			st.Frames = 1
		}
		var err error
		if st.pressed, err = parseKeys(st.Keys); err != nil {
			return nil, fmt.Errorf("step %d: %w", i+1, err)
		}
		if st.held, err = parseKeys(st.Held); err != nil {
			return nil, fmt.Errorf("step %d: %w", i+1, err)
		}
	}
	if len(sc.Steps) > 0 && sc.Steps[0].Scene == "" {
		return nil, fmt.Errorf("step 1 must name a scene")
	}
	for id, eff := range sc.Clicks {
		if eff.Scene != "" {
			if _, ok := sc.Scenes[eff.Scene]; !ok {
				return nil, fmt.Errorf("click effect for %d: unknown scene %q", id, eff.Scene)
			}
		}
	}
	return &sc, nil
}

// ParseStep builds a step outside a scenario file, for interactive drivers.
func ParseStep(scene string, keys, held []string, frames int, advance time.Duration) (Step, error) {
	st := Step{Scene: scene, Keys: keys, Held: held, Frames: max(frames, 1), Advance: advance}
	var err error
	if st.pressed, err = parseKeys(keys); err != nil {
		return Step{}, err
	}
	if st.held, err = parseKeys(held); err != nil {
		return Step{}, err
	}
	return st, nil
}

func parseKeys(names []string) ([]platform.Key, error) {
	keys := make([]platform.Key, 0, len(names))
	for _, n := range names {
		k, err := platform.ParseKey(n)
		if err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, nil
}

// Decode returns a fresh, linked copy of the named scene snapshot.
func (sc *Scenario) Decode(key string) (*model.Scene, error) {
	node, ok := sc.Scenes[key]
	if !ok {
		return nil, fmt.Errorf("unknown scene %q", key)
	}
	var s model.Scene
	if err := node.Decode(&s); err != nil {
		return nil, fmt.Errorf("failed to decode scene %q: %w", key, err)
	}
	if s.Name == "" {
		s.Name = key
	}
	s.Link()
	return &s, nil
}
