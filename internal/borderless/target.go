package borderless

import (
	"errors"
	"fmt"

	"github.com/1broseidon/borderless/internal/platform"
)

// ErrNoTarget is returned when a Target names nothing.
var ErrNoTarget = errors.New("target needs an id, a title or an image name")

// ErrTargetNotFound is returned when no discovered window matches a Target.
var ErrTargetNotFound = errors.New("no matching window")

// Target selects one window by handle, exact title or exact image name.
// The first non-empty selector wins.
type Target struct {
	ID        platform.WindowID `json:"id,omitempty"`
	Title     string            `json:"title,omitempty"`
	ImageName string            `json:"image_name,omitempty"`
}

func (t Target) String() string {
	switch {
	case t.ID != 0:
		return fmt.Sprintf("window 0x%x", uint64(t.ID))
	case t.Title != "":
		return fmt.Sprintf("title %q", t.Title)
	case t.ImageName != "":
		return fmt.Sprintf("exe %q", t.ImageName)
	}
	return "empty target"
}

// Resolve returns the handle the target names. A handle is used as given so
// that windows hidden from discovery can still be restored.
func (t Target) Resolve(windows []DiscoveredWindow) (platform.WindowID, error) {
	switch {
	case t.ID != 0:
		return t.ID, nil
	case t.Title != "":
		if w, ok := FindFirst(windows, MatchTitle, t.Title); ok {
			return w.ID, nil
		}
	case t.ImageName != "":
		if w, ok := FindFirst(windows, MatchImageName, t.ImageName); ok {
			return w.ID, nil
		}
	default:
		return 0, ErrNoTarget
	}
	return 0, fmt.Errorf("%w: %s", ErrTargetNotFound, t)
}
