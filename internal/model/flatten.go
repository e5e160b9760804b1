package model

// FlatObject is an object with a path breadcrumb instead of children.
type FlatObject struct {
	ID       int64    `yaml:"id"                 json:"id"`
	Name     string   `yaml:"name"               json:"name"`
	Path     string   `yaml:"path"               json:"path"`
	Depth    int      `yaml:"depth"              json:"depth"`
	Active   bool     `yaml:"active"             json:"active"`
	Alpha    *float64 `yaml:"alpha,omitempty"    json:"alpha,omitempty"`
	Role     string   `yaml:"role,omitempty"     json:"role,omitempty"`
	Text     string   `yaml:"text,omitempty"     json:"text,omitempty"`
	Focused  bool     `yaml:"focused,omitempty"  json:"focused,omitempty"`
	Editable bool     `yaml:"editable,omitempty" json:"editable,omitempty"`
}

// FlattenScene converts the scene tree into a flat list in hierarchy order.
// When activeOnly is set, inactive subtrees are skipped entirely.
func FlattenScene(s *Scene, activeOnly bool) []FlatObject {
	var result []FlatObject
	s.Walk(func(o *Object) bool {
		active := o.ActiveInHierarchy()
		if activeOnly && !active {
			return false
		}
		result = append(result, FlatObject{
			ID:       o.ID,
			Name:     o.Name,
			Path:     o.Path(),
			Depth:    o.Depth(),
			Active:   active,
			Alpha:    o.Alpha,
			Role:     RoleOf(o),
			Text:     o.Text,
			Focused:  o.ID == s.FocusedID,
			Editable: o.Input != nil || o.RichInput != nil,
		})
		return true
	})
	return result
}
