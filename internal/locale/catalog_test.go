package locale

import (
	"testing"
)

func TestEnglish_GetAndFormat(t *testing.T) {
	c := English(nil)
	if got := c.Get("edit_mode_exited"); got != "Exited edit mode" {
		t.Errorf("Get = %q", got)
	}
	if got := c.Format("discard_need", 2, 1); got != "Need 2, have 1" {
		t.Errorf("Format = %q", got)
	}
	if got := c.Get("no.such.key"); got != "no.such.key" {
		t.Errorf("missing key should echo, got %q", got)
	}
}

func TestEnglish_Plural(t *testing.T) {
	c := English(nil)
	tests := []struct {
		count int
		want  string
	}{
		{1, "Discard 1 card"},
		{2, "Discard 2 cards"},
		{0, "Discard 0 cards"},
	}
	for _, tt := range tests {
		if got := c.Plural(tt.count, "discard_mode"); got != tt.want {
			t.Errorf("Plural(%d) = %q, want %q", tt.count, got, tt.want)
		}
	}

	if got := c.Plural(1, "discard_selected", 1, 2); got != "1 card selected, need 2" {
		t.Errorf("Plural with args = %q", got)
	}
}

func TestParse_RejectsBadLanguage(t *testing.T) {
	if _, err := Parse([]byte("language: \"!!\"\n"), nil); err == nil {
		t.Error("expected error for invalid language tag")
	}
	if _, err := Parse([]byte(":\n  - ["), nil); err == nil {
		t.Error("expected error for invalid YAML")
	}
}

func TestItems(t *testing.T) {
	c := English(nil)
	items := c.Items("help_items")
	if len(items) == 0 {
		t.Fatal("expected help items")
	}
	items[0] = "mutated"
	if c.Items("help_items")[0] == "mutated" {
		t.Error("Items must return a copy")
	}
	if c.Items("nope") != nil {
		t.Error("missing list should be nil")
	}
}
