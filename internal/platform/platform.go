package platform

import "github.com/mj1618/arena-access/internal/model"

// Reader captures the host object graph once per frame.
type Reader interface {
	// ReadScene returns the current frame's snapshot.
	ReadScene() (*model.Scene, error)
}

// Keyboard reports raw key state for the current frame.
type Keyboard interface {
	// Pressed reports whether k went down this frame.
	Pressed(k Key) bool
	// Held reports whether k is currently down.
	Held(k Key) bool
	// Consume atomically checks whether k was pressed this frame and, if so,
	// hides it from the host so it is not handled twice.
	Consume(k Key) bool
}

// Activator drives host widgets.
type Activator interface {
	SimulatePointerClick(o *model.Object) ClickResult
	// ActivateInputField gives o keyboard focus and an input caret.
	ActivateInputField(o *model.Object) error
	// SetFocus moves the host's focus pointer to o.
	SetFocus(o *model.Object) error
}

// Announcer delivers speech to the screen reader.
type Announcer interface {
	Announce(text string, p Priority)
	AnnounceInterrupt(text string)
	AnnounceVerbose(text string, p Priority)
}

// TextExtractor derives spoken text from host widgets.
type TextExtractor interface {
	GetText(o *model.Object) string
	GetInputFieldLabel(o *model.Object) string
}

// Strings looks up localized strings.
type Strings interface {
	Get(key string) string
	Format(key string, args ...any) string
	Plural(count int, baseKey string, args ...any) string
}

// Capabilities discovers live host components by type name at runtime.
type Capabilities interface {
	// Instances returns every live instance of the named type. The concrete
	// values are opaque; callers inspect them by reflection.
	Instances(typeName string) []any
}
