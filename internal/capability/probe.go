// Package capability discovers host components by type name and calls their
// methods by reflection. A component whose shape does not match is disabled
// for the rest of the session.
package capability

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/mj1618/arena-access/internal/logging"
	"github.com/mj1618/arena-access/internal/platform"
)

// ErrUnavailable is returned once a probe has been disabled.
var ErrUnavailable = errors.New("capability unavailable")

// Method is a required method and its arity.
type Method struct {
	Name   string
	NumIn  int
	NumOut int
}

// Status is the resolution state of a Probe.
type Status int

const (
	// StatusUnresolved means no instance has been seen yet.
	StatusUnresolved Status = iota
	StatusAvailable
	// StatusUnavailable is terminal.
	StatusUnavailable
)

func (s Status) String() string {
	switch s {
	case StatusAvailable:
		return "available"
	case StatusUnavailable:
		return "unavailable"
	default:
		return "unresolved"
	}
}

// MarshalText renders the status by name in YAML and JSON output.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Probe resolves one host type lazily and memoizes the outcome.
type Probe struct {
	caps     platform.Capabilities
	typeName string
	methods  []Method
	log      *logging.Logger

	status Status
	reason string
}

// NewProbe creates a Probe for typeName requiring methods. A nil caps
// disables the probe immediately.
func NewProbe(caps platform.Capabilities, typeName string, methods []Method, log *logging.Logger) *Probe {
	if log == nil {
		log = logging.NopLogger()
	}
	p := &Probe{
		caps:     caps,
		typeName: typeName,
		methods:  methods,
		log:      log.WithComponent("capability").With("type", typeName),
	}
	if caps == nil {
		p.disable("no capability backend")
	}
	return p
}

// TypeName returns the probed host type.
func (p *Probe) TypeName() string { return p.typeName }

// Status returns the current resolution state.
func (p *Probe) Status() Status { return p.status }

// Reason explains why the probe is unavailable.
func (p *Probe) Reason() string { return p.reason }

// Instances returns the live instances, resolving the type's shape on first
// sight. An empty result with a nil error is transient absence.
func (p *Probe) Instances() ([]Instance, error) {
	if p.status == StatusUnavailable {
		return nil, ErrUnavailable
	}
	raw, err := p.lookup()
	if err != nil {
		p.disable(err.Error())
		return nil, ErrUnavailable
	}
	if len(raw) == 0 {
		return nil, nil
	}

	if p.status == StatusUnresolved {
		if err := p.verify(reflect.ValueOf(raw[0])); err != nil {
			p.disable(err.Error())
			return nil, ErrUnavailable
		}
		p.status = StatusAvailable
		p.log.Debug("capability resolved")
	}

	out := make([]Instance, 0, len(raw))
	for _, r := range raw {
		v := reflect.ValueOf(r)
		if !v.IsValid() || (v.Kind() == reflect.Pointer && v.IsNil()) {
			continue
		}
		out = append(out, Instance{probe: p, v: v})
	}
	return out, nil
}

func (p *Probe) lookup() (raw []any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("instance lookup panicked: %v", r)
		}
	}()
	return p.caps.Instances(p.typeName), nil
}

func (p *Probe) verify(v reflect.Value) error {
	if !v.IsValid() {
		return fmt.Errorf("%s: invalid instance", p.typeName)
	}
	for _, m := range p.methods {
		mv := v.MethodByName(m.Name)
		if !mv.IsValid() {
			return fmt.Errorf("%s: missing method %s", p.typeName, m.Name)
		}
		t := mv.Type()
		if t.NumIn() != m.NumIn || t.NumOut() != m.NumOut {
			return fmt.Errorf("%s.%s: want %d in / %d out, got %d / %d",
				p.typeName, m.Name, m.NumIn, m.NumOut, t.NumIn(), t.NumOut())
		}
	}
	return nil
}

func (p *Probe) disable(reason string) {
	if p.status == StatusUnavailable {
		return
	}
	p.status = StatusUnavailable
	p.reason = reason
	p.log.WarnOnce("capability:"+p.typeName, "capability disabled", "reason", reason)
}

// Instance is one live host object of the probed type.
type Instance struct {
	probe *Probe
	v     reflect.Value
}

// Value returns the underlying host object.
func (i Instance) Value() any {
	return i.v.Interface()
}

// Call invokes method with args. A panic inside the host method is returned
// as an error; an argument or result shape mismatch disables the probe.
func (i Instance) Call(method string, args ...any) (out []reflect.Value, err error) {
	if i.probe.status == StatusUnavailable {
		return nil, ErrUnavailable
	}
	m := i.v.MethodByName(method)
	if !m.IsValid() {
		i.probe.disable(fmt.Sprintf("%s: missing method %s", i.probe.typeName, method))
		return nil, ErrUnavailable
	}
	t := m.Type()
	if t.NumIn() != len(args) {
		i.probe.disable(fmt.Sprintf("%s.%s: called with %d args, takes %d", i.probe.typeName, method, len(args), t.NumIn()))
		return nil, ErrUnavailable
	}
	in := make([]reflect.Value, len(args))
	for k, a := range args {
		av := reflect.ValueOf(a)
		want := t.In(k)
		if !av.IsValid() || !av.Type().ConvertibleTo(want) {
			i.probe.disable(fmt.Sprintf("%s.%s: argument %d is not %s", i.probe.typeName, method, k, want))
			return nil, ErrUnavailable
		}
		in[k] = av.Convert(want)
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%s.%s panicked: %v", i.probe.typeName, method, r)
		}
	}()
	return m.Call(in), nil
}

// Bool calls a method returning a single bool.
func (i Instance) Bool(method string, args ...any) (bool, error) {
	out, err := i.Call(method, args...)
	if err != nil {
		return false, err
	}
	if len(out) == 0 || out[0].Kind() != reflect.Bool {
		return false, i.mismatch(method, "bool")
	}
	return out[0].Bool(), nil
}

// Int calls a method returning a single integer.
func (i Instance) Int(method string, args ...any) (int, error) {
	out, err := i.Call(method, args...)
	if err != nil {
		return 0, err
	}
	if len(out) == 0 || !out[0].CanInt() {
		return 0, i.mismatch(method, "int")
	}
	return int(out[0].Int()), nil
}

// Text calls a method returning a single string (or a fmt.Stringer).
func (i Instance) Text(method string, args ...any) (string, error) {
	out, err := i.Call(method, args...)
	if err != nil {
		return "", err
	}
	if len(out) == 0 {
		return "", i.mismatch(method, "string")
	}
	if s, ok := out[0].Interface().(fmt.Stringer); ok {
		return s.String(), nil
	}
	if out[0].Kind() == reflect.String {
		return out[0].String(), nil
	}
	return "", i.mismatch(method, "string")
}

// Invoke calls a method and returns its trailing error result, if it has one.
func (i Instance) Invoke(method string, args ...any) error {
	out, err := i.Call(method, args...)
	if err != nil {
		return err
	}
	if len(out) == 0 {
		return nil
	}
	last := out[len(out)-1]
	if !last.Type().Implements(errorType) {
		return nil
	}
	switch last.Kind() {
	case reflect.Interface, reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		if last.IsNil() {
			return nil
		}
	}
	return last.Interface().(error)
}

var errorType = reflect.TypeOf((*error)(nil)).Elem()

func (i Instance) mismatch(method, want string) error {
	i.probe.disable(fmt.Sprintf("%s.%s: result is not %s", i.probe.typeName, method, want))
	return ErrUnavailable
}
