package platform

import (
	"fmt"
	"strings"
)

// Key identifies a keyboard key the navigators react to.
type Key int

const (
	KeyNone Key = iota
	KeyTab
	KeyEnter
	KeyEscape
	KeyBackspace
	KeySpace
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyShift
	KeyCtrl
	KeyF1
	KeyP
	Key0
	Key1
	Key2
	Key3
	Key4
	Key5
	Key6
	Key7
	Key8
	Key9
)

var keyNames = map[Key]string{
	KeyTab:       "tab",
	KeyEnter:     "enter",
	KeyEscape:    "escape",
	KeyBackspace: "backspace",
	KeySpace:     "space",
	KeyUp:        "up",
	KeyDown:      "down",
	KeyLeft:      "left",
	KeyRight:     "right",
	KeyShift:     "shift",
	KeyCtrl:      "ctrl",
	KeyF1:        "f1",
	KeyP:         "p",
	Key0:         "0",
	Key1:         "1",
	Key2:         "2",
	Key3:         "3",
	Key4:         "4",
	Key5:         "5",
	Key6:         "6",
	Key7:         "7",
	Key8:         "8",
	Key9:         "9",
}

// keyAliases are accepted spellings beyond the canonical names.
var keyAliases = map[string]Key{
	"return":  KeyEnter,
	"esc":     KeyEscape,
	"bksp":    KeyBackspace,
	"control": KeyCtrl,
}

func (k Key) String() string {
	if n, ok := keyNames[k]; ok {
		return n
	}
	return fmt.Sprintf("key(%d)", int(k))
}

// ParseKey converts a key name (case-insensitive) to a Key.
func ParseKey(s string) (Key, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for k, n := range keyNames {
		if n == name {
			return k, nil
		}
	}
	if k, ok := keyAliases[name]; ok {
		return k, nil
	}
	return KeyNone, fmt.Errorf("unknown key: %q", s)
}

// DigitKeys are the number-row keys in order 0..9.
var DigitKeys = [10]Key{Key0, Key1, Key2, Key3, Key4, Key5, Key6, Key7, Key8, Key9}

// DigitValue returns the numeric value of a digit key, or -1.
func DigitValue(k Key) int {
	for i, d := range DigitKeys {
		if d == k {
			return i
		}
	}
	return -1
}

// Priority controls announcement ordering and duplicate suppression.
type Priority int

const (
	PriorityNormal Priority = iota
	// PriorityHigh bypasses duplicate suppression.
	PriorityHigh
)

func (p Priority) String() string {
	if p == PriorityHigh {
		return "high"
	}
	return "normal"
}

// ClickResult is the outcome of a simulated pointer click.
type ClickResult struct {
	Success bool   `yaml:"success"           json:"success"`
	Message string `yaml:"message,omitempty" json:"message,omitempty"`
}

// MarshalText renders the priority by name in YAML and JSON output.
func (p Priority) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}
