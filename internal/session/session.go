// Package session plays a replay scenario through the dispatch engine and
// collects what was spoken.
package session

import (
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/mj1618/arena-access/internal/announce"
	"github.com/mj1618/arena-access/internal/clock"
	"github.com/mj1618/arena-access/internal/config"
	"github.com/mj1618/arena-access/internal/dispatch"
	"github.com/mj1618/arena-access/internal/locale"
	"github.com/mj1618/arena-access/internal/logging"
	"github.com/mj1618/arena-access/internal/model"
	"github.com/mj1618/arena-access/internal/platform"
	"github.com/mj1618/arena-access/internal/platform/replay"
	"github.com/mj1618/arena-access/internal/uitext"
)

// DefaultFrameTime is the clock advance per frame, about 60 frames a second.
const DefaultFrameTime = 16 * time.Millisecond

// Options configures a Session.
type Options struct {
	Config *config.Config
	Log    *logging.Logger
	// FrameTime is added to the clock before every frame.
	FrameTime time.Duration
}

// StepResult is what one step did.
type StepResult struct {
	Step          int              `yaml:"step"                    json:"step"`
	Scene         string           `yaml:"scene"                   json:"scene"`
	Keys          []string         `yaml:"keys,omitempty"          json:"keys,omitempty"`
	Held          []string         `yaml:"held,omitempty"          json:"held,omitempty"`
	Frames        int              `yaml:"frames"                  json:"frames"`
	Note          string           `yaml:"note,omitempty"          json:"note,omitempty"`
	Handled       string           `yaml:"handled,omitempty"       json:"handled,omitempty"`
	Announcements []announce.Entry `yaml:"announcements,omitempty" json:"announcements,omitempty"`
}

// Result is a complete run.
type Result struct {
	Scenario   string           `yaml:"scenario"          json:"scenario"`
	Session    string           `yaml:"session"           json:"session"`
	Steps      []StepResult     `yaml:"steps"             json:"steps"`
	Transcript []announce.Entry `yaml:"transcript"        json:"transcript"`
	Actions    []replay.Action  `yaml:"actions,omitempty" json:"actions,omitempty"`
	State      dispatch.State   `yaml:"state"             json:"state"`
}

// Session is one scenario being played.
type Session struct {
	scenario  *replay.Scenario
	backend   *replay.Backend
	recorder  *announce.Recorder
	clock     *clock.FakeClock
	engine    *dispatch.Engine
	frameTime time.Duration
	log       *logging.Logger

	next    int
	stepNum int
}

// New builds a session over sc.
func New(sc *replay.Scenario, opts Options) (*Session, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	log := opts.Log
	if log == nil {
		log = logging.NopLogger()
	}
	if opts.FrameTime <= 0 {
		opts.FrameTime = DefaultFrameTime
	}

	strs := locale.English(log)
	if cfg.Speech.Language != "" && cfg.Speech.Language != "en" {
		log.Warn("only the English catalog is built in", "language", cfg.Speech.Language)
	}

	backend := replay.New(sc, log)
	recorder := announce.NewRecorder(cfg.Speech.Verbose)
	fake := clock.Fake(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	p := &platform.Provider{
		Reader:       backend,
		Keyboard:     backend,
		Activator:    backend,
		Announcer:    recorder,
		Text:         uitext.New(strs),
		Strings:      strs,
		Capabilities: backend,
	}
	engine, err := dispatch.New(p, cfg, fake, log)
	if err != nil {
		return nil, fmt.Errorf("failed to start engine: %w", err)
	}
	return &Session{
		scenario:  sc,
		backend:   backend,
		recorder:  recorder,
		clock:     fake,
		engine:    engine,
		frameTime: opts.FrameTime,
		log:       log.WithSession(engine.Session()).WithComponent("session"),
	}, nil
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.engine.Session() }

// Remaining returns the number of scripted steps not yet played.
func (s *Session) Remaining() int { return len(s.scenario.Steps) - s.next }

// Next plays the next scripted step. ok is false when the script is done.
func (s *Session) Next() (res StepResult, ok bool, err error) {
	if s.next >= len(s.scenario.Steps) {
		return StepResult{}, false, nil
	}
	st := s.scenario.Steps[s.next]
	s.next++
	res, err = s.Step(st)
	return res, true, err
}

// Step plays st, scripted or not.
func (s *Session) Step(st replay.Step) (StepResult, error) {
	s.stepNum++
	res := StepResult{Step: s.stepNum, Keys: st.Keys, Held: st.Held, Frames: max(st.Frames, 1), Note: st.Note}
	seq := s.lastSeq()

	if err := s.backend.Begin(st); err != nil {
		return res, fmt.Errorf("step %d: %w", s.stepNum, err)
	}
	res.Scene = s.backend.SceneKey()

	for i := 0; i < res.Frames; i++ {
		s.clock.Advance(s.frameTime + st.Advance)
		handled, err := s.engine.Frame()
		if err != nil {
			s.backend.End()
			return res, fmt.Errorf("step %d frame %d: %w", s.stepNum, i+1, err)
		}
		if handled != "" && res.Handled == "" {
			res.Handled = handled
		}
		if err := s.backend.NextFrame(); err != nil {
			s.backend.End()
			return res, fmt.Errorf("step %d: %w", s.stepNum, err)
		}
	}
	s.backend.End()

	res.Announcements = s.recorder.Since(seq)
	s.log.Debug("step played", "step", s.stepNum, "scene", res.Scene, "handled", res.Handled, "spoken", len(res.Announcements))
	return res, nil
}

// Run plays every remaining scripted step.
func (s *Session) Run() (Result, error) {
	res := Result{Scenario: s.scenario.Name, Session: s.ID()}
	for {
		st, ok, err := s.Next()
		if err != nil {
			return res, err
		}
		if !ok {
			break
		}
		res.Steps = append(res.Steps, st)
	}
	res.Transcript = s.Transcript()
	res.Actions = s.backend.Actions()
	res.State = s.State()
	return res, nil
}

// State returns the engine snapshot.
func (s *Session) State() dispatch.State { return s.engine.State() }

// Transcript returns every announcement so far.
func (s *Session) Transcript() []announce.Entry { return s.recorder.Entries() }

// Since returns announcements after seq.
func (s *Session) Since(seq int) []announce.Entry { return s.recorder.Since(seq) }

// Actions returns every host action so far.
func (s *Session) Actions() []replay.Action { return s.backend.Actions() }

// Scene returns the live scene, or nil before the first step.
func (s *Session) Scene() *model.Scene {
	sc, err := s.backend.ReadScene()
	if err != nil {
		return nil
	}
	return sc
}

// Snapshot decodes a fresh copy of a named scenario scene without loading it.
func (s *Session) Snapshot(key string) (*model.Scene, error) {
	return s.scenario.Decode(key)
}

// Steps returns the number of steps played so far.
func (s *Session) Steps() int { return s.stepNum }

// SceneKeys lists the scenario's scene names.
func (s *Session) SceneKeys() []string {
	return slices.Sorted(maps.Keys(s.scenario.Scenes))
}

func (s *Session) lastSeq() int {
	if e, ok := s.recorder.Last(); ok {
		return e.Seq
	}
	return 0
}
