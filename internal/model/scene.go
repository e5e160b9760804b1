package model

import "strings"

// Scene is one frame's view of the host object graph.
type Scene struct {
	Name      string    `yaml:"name"              json:"name"`
	FocusedID int64     `yaml:"focused,omitempty" json:"focused,omitempty"`
	Roots     []*Object `yaml:"roots"             json:"roots"`

	index map[int64]*Object
}

// NewScene links the given roots into a scene.
func NewScene(name string, roots ...*Object) *Scene {
	s := &Scene{Name: name, Roots: roots}
	s.Link()
	return s
}

// Link rebuilds parent pointers and the identity index. It must be called
// after the tree is mutated structurally or decoded from a file.
func (s *Scene) Link() {
	s.index = make(map[int64]*Object)
	for _, r := range s.Roots {
		link(s.index, r, nil)
	}
}

func link(index map[int64]*Object, o *Object, parent *Object) {
	if o == nil {
		return
	}
	o.parent = parent
	index[o.ID] = o
	for _, c := range o.Children {
		link(index, c, o)
	}
}

// Lookup resolves an identity in the current frame. Nil means the object was
// destroyed (or never existed).
func (s *Scene) Lookup(id int64) *Object {
	if s == nil || id == 0 {
		return nil
	}
	if s.index == nil {
		s.Link()
	}
	return s.index[id]
}

// Alive reports whether o still exists in this frame.
func (s *Scene) Alive(o *Object) bool {
	return o != nil && s.Lookup(o.ID) == o
}

// Focused returns the object holding host UI focus, or nil.
func (s *Scene) Focused() *Object {
	if s == nil {
		return nil
	}
	return s.Lookup(s.FocusedID)
}

// Walk visits every object depth-first in hierarchy order.
func (s *Scene) Walk(fn func(*Object) bool) {
	if s == nil {
		return
	}
	for _, r := range s.Roots {
		r.Walk(fn)
	}
}

// FindAll returns every object satisfying pred, in hierarchy order.
func (s *Scene) FindAll(pred func(*Object) bool) []*Object {
	var out []*Object
	s.Walk(func(o *Object) bool {
		if pred(o) {
			out = append(out, o)
		}
		return true
	})
	return out
}

// FindFirst returns the first object satisfying pred, or nil.
func (s *Scene) FindFirst(pred func(*Object) bool) *Object {
	var found *Object
	s.Walk(func(o *Object) bool {
		if found != nil {
			return false
		}
		if pred(o) {
			found = o
			return false
		}
		return true
	})
	return found
}

// FindByName returns the first object whose name contains fragment.
func (s *Scene) FindByName(fragment string) *Object {
	return s.FindFirst(func(o *Object) bool {
		return strings.Contains(o.Name, fragment)
	})
}

// Count returns the number of objects in the scene.
func (s *Scene) Count() int {
	if s == nil {
		return 0
	}
	if s.index == nil {
		s.Link()
	}
	return len(s.index)
}
