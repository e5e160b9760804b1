package platform

import (
	"errors"
	"fmt"
	"strings"
)

// Provider bundles all host backends for one session.
type Provider struct {
	Reader       Reader
	Keyboard     Keyboard
	Activator    Activator
	Announcer    Announcer
	Text         TextExtractor
	Strings      Strings
	Capabilities Capabilities
}

// ErrNotAlive is returned when an action targets an object that has been destroyed.
var ErrNotAlive = errors.New("object is no longer alive")

// Validate reports every missing backend. Capabilities is optional: without it
// the reflection-backed features stay disabled.
func (p *Provider) Validate() error {
	var missing []string
	if p.Reader == nil {
		missing = append(missing, "reader")
	}
	if p.Keyboard == nil {
		missing = append(missing, "keyboard")
	}
	if p.Activator == nil {
		missing = append(missing, "activator")
	}
	if p.Announcer == nil {
		missing = append(missing, "announcer")
	}
	if p.Text == nil {
		missing = append(missing, "text extractor")
	}
	if p.Strings == nil {
		missing = append(missing, "strings")
	}
	if len(missing) > 0 {
		return fmt.Errorf("provider is missing: %s", strings.Join(missing, ", "))
	}
	return nil
}
