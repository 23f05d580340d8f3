// Package platformtest provides an in-memory platform.Backend for tests.
package platformtest

import (
	"errors"
	"sync"

	"github.com/1broseidon/borderless/internal/platform"
)

// ErrNoWindow is returned for identities the fake does not know.
var ErrNoWindow = errors.New("no such window")

// ErrNoMonitor is returned by MonitorBounds for a window without a monitor.
var ErrNoMonitor = errors.New("no monitor")

// Window is the fake's view of one top-level window.
type Window struct {
	ID        platform.WindowID
	Title     string
	PID       uint32
	Hidden    bool
	Chrome    platform.Chrome
	Placement platform.Placement
	// Bounds is the live rectangle; SetGeometry and SetPlacement move it.
	// A moving SetGeometry also rewrites Placement.
	Bounds platform.Rect
	// Monitor is returned by MonitorBounds; nil simulates a failure.
	Monitor *platform.Rect
	// LastZOrder is the z-order of the last SetGeometry without NoZOrder.
	LastZOrder *platform.ZOrder
}

// Call records one backend invocation.
type Call struct {
	Op    string
	ID    platform.WindowID
	Flags platform.GeometryFlags
}

// Backend is a scripted platform.Backend. Every method is safe for
// concurrent use.
type Backend struct {
	mu      sync.Mutex
	shell   platform.WindowID
	active  platform.WindowID
	order   []platform.WindowID
	windows map[platform.WindowID]*Window
	calls   []Call

	// FailGeometry makes SetGeometry calls that move or size fail.
	FailGeometry bool
}

var (
	_ platform.Backend            = (*Backend)(nil)
	_ platform.ActiveWindowSource = (*Backend)(nil)
)

// New returns an empty fake with shell window id 1.
func New() *Backend {
	return &Backend{
		shell:   1,
		windows: make(map[platform.WindowID]*Window),
	}
}

// Add registers a window in enumeration order.
func (b *Backend) Add(w Window) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.windows[w.ID]; !ok {
		b.order = append(b.order, w.ID)
	}
	cp := w
	b.windows[w.ID] = &cp
}

// Remove destroys a window.
func (b *Backend) Remove(id platform.WindowID) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.windows, id)
	for i, o := range b.order {
		if o == id {
			b.order = append(b.order[:i], b.order[i+1:]...)
			break
		}
	}
}

// SetActive sets the window reported by ActiveWindow.
func (b *Backend) SetActive(id platform.WindowID) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.active = id
}

// Window returns a copy of the fake's current state for id.
func (b *Backend) Window(id platform.WindowID) (Window, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	w, ok := b.windows[id]
	if !ok {
		return Window{}, false
	}
	return *w, true
}

// Calls returns every recorded call.
func (b *Backend) Calls() []Call {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Call(nil), b.calls...)
}

// Mutations returns only the calls that change window state.
func (b *Backend) Mutations() []Call {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []Call
	for _, c := range b.calls {
		switch c.Op {
		case "SetStyle", "SetExtendedStyle", "SetPlacement", "SetGeometry", "SetShowState":
			out = append(out, c)
		}
	}
	return out
}

// ResetCalls clears the call log.
func (b *Backend) ResetCalls() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls = nil
}

func (b *Backend) record(op string, id platform.WindowID) {
	b.calls = append(b.calls, Call{Op: op, ID: id})
}

func (b *Backend) lookup(op string, id platform.WindowID) (*Window, error) {
	b.record(op, id)
	w, ok := b.windows[id]
	if !ok {
		return nil, ErrNoWindow
	}
	return w, nil
}

func (b *Backend) EnumerateWindows(visit func(platform.WindowID) bool) error {
	b.mu.Lock()
	order := append([]platform.WindowID{b.shell}, b.order...)
	b.mu.Unlock()

	for _, id := range order {
		if !visit(id) {
			break
		}
	}
	return nil
}

func (b *Backend) ShellWindow() platform.WindowID {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.shell
}

func (b *Backend) ActiveWindow() (platform.WindowID, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.active == 0 {
		return 0, ErrNoWindow
	}
	return b.active, nil
}

func (b *Backend) IsWindow(id platform.WindowID) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, err := b.lookup("IsWindow", id)
	return err == nil
}

func (b *Backend) IsVisible(id platform.WindowID) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	w, err := b.lookup("IsVisible", id)
	return err == nil && !w.Hidden
}

func (b *Backend) Title(id platform.WindowID) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	w, err := b.lookup("Title", id)
	if err != nil {
		return "", err
	}
	return w.Title, nil
}

func (b *Backend) ProcessID(id platform.WindowID) (uint32, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	w, err := b.lookup("ProcessID", id)
	if err != nil {
		return 0, err
	}
	return w.PID, nil
}

func (b *Backend) Style(id platform.WindowID) (uint32, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	w, err := b.lookup("Style", id)
	if err != nil {
		return 0, err
	}
	return w.Chrome.Style, nil
}

func (b *Backend) SetStyle(id platform.WindowID, style uint32) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	w, err := b.lookup("SetStyle", id)
	if err != nil {
		return err
	}
	w.Chrome.Style = style
	return nil
}

func (b *Backend) ExtendedStyle(id platform.WindowID) (uint32, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	w, err := b.lookup("ExtendedStyle", id)
	if err != nil {
		return 0, err
	}
	return w.Chrome.ExStyle, nil
}

func (b *Backend) SetExtendedStyle(id platform.WindowID, style uint32) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	w, err := b.lookup("SetExtendedStyle", id)
	if err != nil {
		return err
	}
	w.Chrome.ExStyle = style
	return nil
}

func (b *Backend) Placement(id platform.WindowID) (platform.Placement, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	w, err := b.lookup("Placement", id)
	if err != nil {
		return platform.Placement{}, err
	}
	return w.Placement, nil
}

func (b *Backend) SetPlacement(id platform.WindowID, p platform.Placement) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	w, err := b.lookup("SetPlacement", id)
	if err != nil {
		return err
	}
	w.Placement = p
	w.Bounds = p.NormalRect
	return nil
}

func (b *Backend) MonitorBounds(id platform.WindowID) (platform.Rect, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	w, err := b.lookup("MonitorBounds", id)
	if err != nil {
		return platform.Rect{}, err
	}
	if w.Monitor == nil {
		return platform.Rect{}, ErrNoMonitor
	}
	return *w.Monitor, nil
}

func (b *Backend) SetGeometry(id platform.WindowID, z platform.ZOrder, r platform.Rect, flags platform.GeometryFlags) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls = append(b.calls, Call{Op: "SetGeometry", ID: id, Flags: flags})
	w, ok := b.windows[id]
	if !ok {
		return ErrNoWindow
	}

	moves := !flags.Has(platform.GeometryNoMove) || !flags.Has(platform.GeometryNoSize)
	if moves && b.FailGeometry {
		return errors.New("reposition failed")
	}
	if !flags.Has(platform.GeometryNoMove) {
		w.Bounds.X, w.Bounds.Y = r.X, r.Y
	}
	if !flags.Has(platform.GeometryNoSize) {
		w.Bounds.Width, w.Bounds.Height = r.Width, r.Height
	}
	if moves {
		// A moved window is shown normal at its new rectangle.
		w.Placement.ShowCommand = platform.ShowNormal
		w.Placement.NormalRect = w.Bounds
	}
	if !flags.Has(platform.GeometryNoZOrder) {
		zz := z
		w.LastZOrder = &zz
	}
	return nil
}

func (b *Backend) SetShowState(id platform.WindowID, cmd platform.ShowCommand) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	w, err := b.lookup("SetShowState", id)
	if err != nil {
		return err
	}
	w.Placement.ShowCommand = cmd
	return nil
}

// ImageNames is a platform.ProcessResolver backed by a map.
type ImageNames map[uint32]string

func (n ImageNames) ImageName(pid uint32) string {
	if name, ok := n[pid]; ok {
		return name
	}
	return platform.UnknownImageName
}
