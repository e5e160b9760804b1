package model

import "strings"

// Object is one node of the host's UI object graph as observed in a single frame.
//
// ID is the host's instance identity: stable for the object's lifetime and
// possibly recycled after it is destroyed. An ID that no longer resolves in the
// current Scene belongs to a destroyed object.
type Object struct {
	ID         int64       `yaml:"id"                   json:"id"`
	Name       string      `yaml:"name"                 json:"name"`
	Inactive   bool        `yaml:"inactive,omitempty"   json:"inactive,omitempty"`   // activeSelf == false
	Alpha      *float64    `yaml:"alpha,omitempty"      json:"alpha,omitempty"`      // opacity carrier; nil when absent
	Canvas     *Canvas     `yaml:"canvas,omitempty"     json:"canvas,omitempty"`     // own canvas, if any
	Text       string      `yaml:"text,omitempty"       json:"text,omitempty"`       // visible label text
	Components []string    `yaml:"components,omitempty" json:"components,omitempty"` // host component type names
	Input      *InputField `yaml:"input,omitempty"      json:"input,omitempty"`      // legacy input field
	RichInput  *InputField `yaml:"rich_input,omitempty" json:"rich_input,omitempty"` // rich-text input field
	Children   []*Object   `yaml:"children,omitempty"   json:"children,omitempty"`

	parent *Object
}

// Canvas carries the render ordering of a host canvas.
type Canvas struct {
	SortOrder int `yaml:"sort_order" json:"sort_order"`
}

// InputField is the observable state of a text entry widget.
type InputField struct {
	Text        string `yaml:"text,omitempty"        json:"text,omitempty"`
	Caret       int    `yaml:"caret,omitempty"       json:"caret,omitempty"`
	Password    bool   `yaml:"password,omitempty"    json:"password,omitempty"`
	HasCaret    bool   `yaml:"has_caret,omitempty"   json:"has_caret,omitempty"` // field is focused and editing
	Placeholder string `yaml:"placeholder,omitempty" json:"placeholder,omitempty"`
}

// interactiveComponents are component types that accept pointer or keyboard activation.
var interactiveComponents = map[string]bool{
	"Button":         true,
	"CustomButton":   true,
	"Toggle":         true,
	"Dropdown":       true,
	"TMP_Dropdown":   true,
	"InputField":     true,
	"TMP_InputField": true,
	"Slider":         true,
	"Selectable":     true,
}

// Parent returns the enclosing object, or nil for a root.
func (o *Object) Parent() *Object {
	if o == nil {
		return nil
	}
	return o.parent
}

// ActiveSelf reports the object's own active flag.
func (o *Object) ActiveSelf() bool {
	return o != nil && !o.Inactive
}

// ActiveInHierarchy reports whether the object and every ancestor are active.
func (o *Object) ActiveInHierarchy() bool {
	if o == nil {
		return false
	}
	for cur := o; cur != nil; cur = cur.parent {
		if cur.Inactive {
			return false
		}
	}
	return true
}

// Depth is the number of ancestors above the object.
func (o *Object) Depth() int {
	d := 0
	for cur := o.Parent(); cur != nil; cur = cur.parent {
		d++
	}
	return d
}

// HasComponent reports whether a component of the given type is attached.
func (o *Object) HasComponent(kind string) bool {
	if o == nil {
		return false
	}
	for _, c := range o.Components {
		if c == kind {
			return true
		}
	}
	return false
}

// IsInteractive reports whether the object itself carries a button-like component.
func (o *Object) IsInteractive() bool {
	if o == nil {
		return false
	}
	if o.Input != nil || o.RichInput != nil {
		return true
	}
	for _, c := range o.Components {
		if interactiveComponents[c] {
			return true
		}
	}
	return false
}

// HasInteractiveDescendant reports whether any descendant (not the object itself)
// is interactive.
func (o *Object) HasInteractiveDescendant() bool {
	if o == nil {
		return false
	}
	for _, c := range o.Children {
		if c.IsInteractive() || c.HasInteractiveDescendant() {
			return true
		}
	}
	return false
}

// CanvasSortOrder returns the sort order of the nearest canvas at or above the object.
func (o *Object) CanvasSortOrder() int {
	for cur := o; cur != nil; cur = cur.parent {
		if cur.Canvas != nil {
			return cur.Canvas.SortOrder
		}
	}
	return 0
}

// Walk visits the object and its descendants depth-first. Returning false from
// fn skips the visited object's children.
func (o *Object) Walk(fn func(*Object) bool) {
	if o == nil {
		return
	}
	if !fn(o) {
		return
	}
	for _, c := range o.Children {
		c.Walk(fn)
	}
}

// FindDescendant returns the first descendant whose name contains fragment.
func (o *Object) FindDescendant(fragment string) *Object {
	var found *Object
	for _, c := range o.Children {
		c.Walk(func(cur *Object) bool {
			if found != nil {
				return false
			}
			if strings.Contains(cur.Name, fragment) {
				found = cur
				return false
			}
			return true
		})
		if found != nil {
			return found
		}
	}
	return nil
}

// IsDescendantOf reports whether ancestor appears in the object's parent chain.
func (o *Object) IsDescendantOf(ancestor *Object) bool {
	if ancestor == nil {
		return false
	}
	for cur := o.Parent(); cur != nil; cur = cur.parent {
		if cur.ID == ancestor.ID {
			return true
		}
	}
	return false
}

// HasAncestorNamed reports whether any ancestor's name contains fragment.
func (o *Object) HasAncestorNamed(fragment string) bool {
	for cur := o.Parent(); cur != nil; cur = cur.parent {
		if strings.Contains(cur.Name, fragment) {
			return true
		}
	}
	return false
}

// Path returns the slash-joined names from the root down to the object.
func (o *Object) Path() string {
	var parts []string
	for cur := o; cur != nil; cur = cur.parent {
		parts = append(parts, cur.Name)
	}
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, "/")
}

// Float returns a pointer to v, for building opacity carriers in literals.
func Float(v float64) *float64 {
	return &v
}
