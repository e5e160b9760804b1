package uitext

import (
	"testing"

	"github.com/mj1618/arena-access/internal/locale"
	"github.com/mj1618/arena-access/internal/logging"
	"github.com/mj1618/arena-access/internal/model"
)

func newExtractor() *Extractor {
	return New(locale.English(logging.NopLogger()))
}

func TestClean(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"<b>Play</b>", "Play"},
		{"  Deck   <color=#fff>Builder</color> ", "Deck Builder"},
		{"<size=80%>3</size>/5", "3/5"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Clean(tt.in); got != tt.want {
			t.Errorf("Clean(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestGetText(t *testing.T) {
	s := model.NewScene("Home",
		&model.Object{ID: 1, Name: "Root", Children: []*model.Object{
			{ID: 2, Name: "Btn_Play", Components: []string{"CustomButton"}, Children: []*model.Object{
				{ID: 3, Name: "Text", Text: "<b>Play</b>"},
			}},
			{ID: 4, Name: "Toggle_Music", Components: []string{"Toggle"}, Children: []*model.Object{
				{ID: 5, Name: "Label", Text: "Music"},
				{ID: 6, Name: "Checkmark"},
			}},
			{ID: 7, Name: "Toggle_Sound", Components: []string{"Toggle"}, Children: []*model.Object{
				{ID: 8, Name: "Label", Text: "Sound"},
				{ID: 9, Name: "Checkmark", Inactive: true},
			}},
			{ID: 10, Name: "Btn_Settings_Button", Components: []string{"Button"}},
		}},
	)
	e := newExtractor()

	tests := []struct {
		id   int64
		want string
	}{
		{2, "Play, button"},
		{4, "Music, checkbox, checked"},
		{7, "Sound, checkbox, not checked"},
		{10, "Settings, button"},
	}
	for _, tt := range tests {
		if got := e.GetText(s.Lookup(tt.id)); got != tt.want {
			t.Errorf("GetText(%d) = %q, want %q", tt.id, got, tt.want)
		}
	}
}

func TestGetText_InputFields(t *testing.T) {
	s := model.NewScene("Login",
		&model.Object{ID: 1, Name: "Form", Children: []*model.Object{
			{ID: 2, Name: "EmailLabel", Text: "Email"},
			{ID: 3, Name: "Email_InputField", RichInput: &model.InputField{Text: "a@b.c"}},
			{ID: 4, Name: "Password_InputField", RichInput: &model.InputField{Text: "hunter2", Password: true}},
			{ID: 5, Name: "Search_InputField", Input: &model.InputField{Placeholder: "Search cards"}},
		}},
	)
	e := newExtractor()

	if got := e.GetText(s.Lookup(3)); got != "Email, a@b.c, text field" {
		t.Errorf("email = %q", got)
	}
	if got := e.GetText(s.Lookup(4)); got != "Email, Password, 7 characters, text field" {
		t.Errorf("password = %q", got)
	}
	if got := e.GetText(s.Lookup(5)); got != "Email, Search cards, text field" {
		t.Errorf("search = %q", got)
	}
}

func TestGetInputFieldLabel_FallsBackToName(t *testing.T) {
	s := model.NewScene("Login",
		&model.Object{ID: 1, Name: "Username_InputField", Input: &model.InputField{}},
	)
	if got := newExtractor().GetInputFieldLabel(s.Lookup(1)); got != "Username" {
		t.Errorf("label = %q, want Username", got)
	}
}

func TestGetText_Nil(t *testing.T) {
	if got := newExtractor().GetText(nil); got != "" {
		t.Errorf("GetText(nil) = %q", got)
	}
}
