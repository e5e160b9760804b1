package platform

import (
	"strings"
	"testing"
)

func TestProviderValidate_ListsMissing(t *testing.T) {
	p := &Provider{}
	err := p.Validate()
	if err == nil {
		t.Fatal("expected error for empty provider")
	}
	for _, want := range []string{"reader", "keyboard", "activator", "announcer", "text extractor", "strings"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %q", err, want)
		}
	}
	if strings.Contains(err.Error(), "capabilities") {
		t.Error("capabilities are optional")
	}
}
