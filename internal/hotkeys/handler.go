// Package hotkeys binds global keyboard shortcuts on X11.
package hotkeys

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/xevent"

	"github.com/1broseidon/borderless/internal/daemon"
	"github.com/1broseidon/borderless/internal/platform"
)

// ErrUnavailable is returned when the backend has no X11 connection.
var ErrUnavailable = errors.New("global hotkeys are not available on this backend")

// Toggler flips the foreground window between windowed and borderless.
type Toggler interface {
	ToggleActive() (daemon.ActionResult, error)
}

// x11Accessor is an optional interface for backends that expose X11 internals.
type x11Accessor interface {
	XUtil() *xgbutil.XUtil
	RootWindow() xproto.Window
}

// Handler manages global keyboard shortcuts
type Handler struct {
	xu      *xgbutil.XUtil
	root    xproto.Window
	toggler Toggler
	logger  *slog.Logger

	mu         sync.Mutex
	toggleKeys string
}

var ignoreModsOnce sync.Once

// NewHandler creates a hotkey handler. On backends without X11 every
// registration fails with ErrUnavailable.
func NewHandler(backend platform.Backend, toggler Toggler, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	h := &Handler{toggler: toggler, logger: logger}
	if accessor, ok := backend.(x11Accessor); ok && accessor.XUtil() != nil {
		h.xu = accessor.XUtil()
		h.root = accessor.RootWindow()
		ignoreModsOnce.Do(func() {
			configureIgnoreMods(h.xu)
		})
	}
	return h
}

// Available reports whether hotkeys can be registered.
func (h *Handler) Available() bool {
	return h.xu != nil
}

// RegisterToggle binds keySequence to toggling the active window. An empty
// sequence disables the binding.
func (h *Handler) RegisterToggle(keySequence string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.registerToggleLocked(keySequence)
}

// SetToggle replaces the toggle binding after a config reload. An unchanged
// sequence keeps the current grab.
func (h *Handler) SetToggle(keySequence string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	keySequence = strings.TrimSpace(keySequence)
	if keySequence == h.toggleKeys {
		return nil
	}
	h.Unregister()
	return h.registerToggleLocked(keySequence)
}

// ToggleKeys returns the sequence currently bound to the toggle.
func (h *Handler) ToggleKeys() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.toggleKeys
}

func (h *Handler) registerToggleLocked(keySequence string) error {
	keySequence = strings.TrimSpace(keySequence)
	if keySequence == "" {
		h.toggleKeys = ""
		h.logger.Info("toggle hotkey disabled")
		return nil
	}
	if err := h.RegisterFunc(keySequence, h.toggleActive); err != nil {
		return fmt.Errorf("failed to register toggle hotkey %q: %w", keySequence, err)
	}
	h.toggleKeys = keySequence
	h.logger.Info("toggle hotkey registered", "keys", keySequence)
	return nil
}

func (h *Handler) toggleActive() {
	res, err := h.toggler.ToggleActive()
	if err != nil {
		h.logger.Warn("toggle hotkey failed", "error", err)
		return
	}
	h.logger.Info("toggle hotkey", "window", res.Window, "borderless", res.Borderless, "changed", res.Changed)
}

// RegisterFunc registers an arbitrary hotkey callback.
func (h *Handler) RegisterFunc(keySequence string, callback func()) error {
	if h.xu == nil {
		return ErrUnavailable
	}
	return keybind.KeyPressFun(func(xu *xgbutil.XUtil, ev xevent.KeyPressEvent) {
		callback()
	}).Connect(h.xu, h.root, keySequence, true)
}

// Unregister drops every binding on the root window.
func (h *Handler) Unregister() {
	if h.xu == nil {
		return
	}
	keybind.Detach(h.xu, h.root)
}

func configureIgnoreMods(xu *xgbutil.XUtil) {
	// Always ignore CapsLock.
	caps := uint16(xproto.ModMaskLock)

	numLock := modMaskForKeysym(xu, "Num_Lock")
	scrollLock := modMaskForKeysym(xu, "Scroll_Lock")

	ignore := ignoreMasks(caps, numLock, scrollLock)
	xevent.IgnoreMods = ignore
}

// ignoreMasks returns every combination of the lock modifiers, including
// none, without duplicates.
func ignoreMasks(caps, numLock, scrollLock uint16) []uint16 {
	base := []uint16{caps}
	if numLock != 0 && numLock != caps {
		base = append(base, numLock)
	}
	if scrollLock != 0 && scrollLock != caps && scrollLock != numLock {
		base = append(base, scrollLock)
	}

	seen := map[uint16]bool{0: true}
	ignore := []uint16{0}
	for subset := 1; subset < (1 << len(base)); subset++ {
		var mask uint16
		for bit := range base {
			if subset&(1<<bit) != 0 {
				mask |= base[bit]
			}
		}
		if !seen[mask] {
			seen[mask] = true
			ignore = append(ignore, mask)
		}
	}
	return ignore
}

func modMaskForKeysym(xu *xgbutil.XUtil, keysym string) uint16 {
	for _, keycode := range keybind.StrToKeycodes(xu, keysym) {
		if mask := keybind.ModGet(xu, keycode); mask != 0 {
			return mask
		}
	}
	return 0
}
