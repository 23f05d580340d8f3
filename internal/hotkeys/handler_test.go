package hotkeys

import (
	"errors"
	"slices"
	"testing"

	"github.com/1broseidon/borderless/internal/daemon"
	"github.com/1broseidon/borderless/internal/platform/platformtest"
)

type countingToggler struct {
	calls int
	err   error
}

func (c *countingToggler) ToggleActive() (daemon.ActionResult, error) {
	c.calls++
	return daemon.ActionResult{Window: 9, Changed: true, Borderless: c.calls%2 == 1}, c.err
}

func TestHandler_UnavailableWithoutX11(t *testing.T) {
	h := NewHandler(platformtest.New(), &countingToggler{}, nil)
	if h.Available() {
		t.Fatal("fake backend should not expose X11")
	}
	if err := h.RegisterToggle("Mod4-f"); !errors.Is(err, ErrUnavailable) {
		t.Errorf("RegisterToggle() error = %v, want ErrUnavailable", err)
	}
	if err := h.RegisterToggle("  "); err != nil {
		t.Errorf("empty sequence should disable the hotkey, got %v", err)
	}
	h.Unregister()
}

func TestHandler_SetToggle(t *testing.T) {
	h := NewHandler(platformtest.New(), &countingToggler{}, nil)
	if err := h.SetToggle(" "); err != nil {
		t.Errorf("SetToggle() to the current empty sequence = %v", err)
	}
	if err := h.SetToggle("Mod4-b"); !errors.Is(err, ErrUnavailable) {
		t.Errorf("SetToggle() error = %v, want ErrUnavailable", err)
	}
	if got := h.ToggleKeys(); got != "" {
		t.Errorf("ToggleKeys() = %q after failed bind, want empty", got)
	}
}

func TestHandler_ToggleActiveLogsFailure(t *testing.T) {
	tog := &countingToggler{err: errors.New("no focus")}
	h := NewHandler(platformtest.New(), tog, nil)
	h.toggleActive()
	h.toggleActive()
	if tog.calls != 2 {
		t.Errorf("calls = %d, want 2", tog.calls)
	}
}

func TestIgnoreMasks(t *testing.T) {
	tests := []struct {
		name                    string
		caps, numLock, scrollLk uint16
		want                    []uint16
	}{
		{"caps only", 2, 0, 0, []uint16{0, 2}},
		{"caps and num", 2, 16, 0, []uint16{0, 2, 16, 18}},
		{"all three", 2, 16, 128, []uint16{0, 2, 16, 18, 128, 130, 144, 146}},
		{"num shares caps", 2, 2, 0, []uint16{0, 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ignoreMasks(tt.caps, tt.numLock, tt.scrollLk)
			slices.Sort(got)
			if !slices.Equal(got, tt.want) {
				t.Errorf("ignoreMasks() = %v, want %v", got, tt.want)
			}
		})
	}
}
