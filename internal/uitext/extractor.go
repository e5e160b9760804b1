// Package uitext derives the spoken label of a host widget.
package uitext

import (
	"regexp"
	"strings"

	"github.com/mj1618/arena-access/internal/model"
	"github.com/mj1618/arena-access/internal/platform"
)

// richTag matches rich-text markup such as <b>, </color> or <size=80%>.
var richTag = regexp.MustCompile(`<[^<>]*>`)

var spaces = regexp.MustCompile(`\s+`)

// labelChildren are the child names searched for a widget's caption, in order.
var labelChildren = []string{"Label", "Text", "Title", "Caption"}

// Extractor implements platform.TextExtractor.
type Extractor struct {
	strings platform.Strings
}

// New creates an Extractor that localizes role names through s.
func New(s platform.Strings) *Extractor {
	return &Extractor{strings: s}
}

// Clean strips rich-text markup and collapses whitespace.
func Clean(s string) string {
	s = richTag.ReplaceAllString(s, "")
	return strings.TrimSpace(spaces.ReplaceAllString(s, " "))
}

// GetText returns "label, role[, state]" for o. Input fields announce their
// content (or placeholder) instead of a caption.
func (e *Extractor) GetText(o *model.Object) string {
	if o == nil {
		return ""
	}
	label := e.caption(o)
	if f := field(o); f != nil {
		label = e.GetInputFieldLabel(o)
		content := f.Text
		if f.Password && content != "" {
			content = e.strings.Plural(len([]rune(content)), "password_chars")
		}
		if content == "" {
			content = Clean(f.Placeholder)
		}
		if content == "" {
			content = e.strings.Get("empty")
		}
		return join(label, content, e.role(o))
	}

	parts := []string{label, e.role(o)}
	if o.HasComponent("Toggle") {
		if o.FindDescendant("Checkmark").ActiveInHierarchy() {
			parts = append(parts, e.strings.Get("checked"))
		} else {
			parts = append(parts, e.strings.Get("unchecked"))
		}
	}
	return join(parts...)
}

// GetInputFieldLabel returns the caption of an input field: its own text, a
// sibling or child label, or the object name with the field suffix trimmed.
func (e *Extractor) GetInputFieldLabel(o *model.Object) string {
	if o == nil {
		return ""
	}
	if p := o.Parent(); p != nil {
		for _, sib := range p.Children {
			if sib == o {
				continue
			}
			if strings.Contains(sib.Name, "Label") {
				if t := Clean(sib.Text); t != "" {
					return t
				}
			}
		}
	}
	for _, name := range []string{"Label", "Title"} {
		if c := o.FindDescendant(name); c != nil {
			if t := Clean(c.Text); t != "" {
				return t
			}
		}
	}
	return humanize(o.Name)
}

func (e *Extractor) caption(o *model.Object) string {
	if t := Clean(o.Text); t != "" {
		return t
	}
	for _, name := range labelChildren {
		if c := o.FindDescendant(name); c != nil && c.ActiveInHierarchy() {
			if t := Clean(c.Text); t != "" {
				return t
			}
		}
	}
	// Fall back to the first visible text anywhere below.
	var found string
	o.Walk(func(cur *model.Object) bool {
		if found != "" || !cur.ActiveSelf() {
			return false
		}
		found = Clean(cur.Text)
		return found == ""
	})
	if found != "" {
		return found
	}
	return humanize(o.Name)
}

func (e *Extractor) role(o *model.Object) string {
	key := model.RoleOf(o)
	if key == "" {
		return ""
	}
	return e.strings.Get("role." + key)
}

func field(o *model.Object) *model.InputField {
	if o.RichInput != nil {
		return o.RichInput
	}
	return o.Input
}

// humanize turns an object name like "Btn_PlayNow(Clone)" into "PlayNow".
func humanize(name string) string {
	name = strings.TrimSuffix(name, "(Clone)")
	for _, prefix := range []string{"Btn_", "Button_", "Input_", "Toggle_"} {
		name = strings.TrimPrefix(name, prefix)
	}
	for _, suffix := range []string{"_InputField", "InputField", "_Button", "Button"} {
		if trimmed := strings.TrimSuffix(name, suffix); trimmed != "" {
			name = trimmed
		}
	}
	return strings.TrimSpace(strings.ReplaceAll(name, "_", " "))
}

func join(parts ...string) string {
	out := parts[:0:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, ", ")
}
