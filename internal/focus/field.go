package focus

import "github.com/mj1618/arena-access/internal/model"

// Flavor identifies which input widget backs a field.
type Flavor int

const (
	FlavorNone Flavor = iota
	FlavorLegacy
	FlavorRich
)

func (f Flavor) String() string {
	switch f {
	case FlavorLegacy:
		return "legacy"
	case FlavorRich:
		return "rich"
	default:
		return "none"
	}
}

// FieldInfo is the uniform view of a legacy or rich-text input field.
type FieldInfo struct {
	Valid    bool
	Text     string
	Caret    int
	Password bool
	HasCaret bool
	Flavor   Flavor
	Object   *model.Object
}

// Field queries whichever input widget o carries, preferring the rich-text one.
func Field(o *model.Object) FieldInfo {
	if o == nil {
		return FieldInfo{}
	}
	in, flavor := o.RichInput, FlavorRich
	if in == nil {
		in, flavor = o.Input, FlavorLegacy
	}
	if in == nil {
		return FieldInfo{}
	}
	caret := in.Caret
	n := len([]rune(in.Text))
	if caret < 0 {
		caret = 0
	}
	if caret > n {
		caret = n
	}
	return FieldInfo{
		Valid:    true,
		Text:     in.Text,
		Caret:    caret,
		Password: in.Password,
		HasCaret: in.HasCaret,
		Flavor:   flavor,
		Object:   o,
	}
}

// IsInputField reports whether o carries either input widget.
func IsInputField(o *model.Object) bool {
	return Field(o).Valid
}
