//go:build linux

package platform

import (
	"fmt"

	"github.com/1broseidon/borderless/internal/x11"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
)

// LinuxBackend implements Backend on an X11 connection. Window chrome is
// expressed through _MOTIF_WM_HINTS and placement through _NET_WM_STATE, so
// the extended style is always zero.
type LinuxBackend struct {
	conn *x11.Connection
}

var (
	_ Backend            = (*LinuxBackend)(nil)
	_ ActiveWindowSource = (*LinuxBackend)(nil)
)

// NewNativeBackend opens the X11 display (empty means $DISPLAY).
func NewNativeBackend(display string) (Backend, error) {
	return NewLinuxBackend(display)
}

// NewLinuxBackend opens a new X11 connection.
func NewLinuxBackend(display string) (*LinuxBackend, error) {
	conn, err := x11.NewConnection(display)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X11: %w", err)
	}
	return &LinuxBackend{conn: conn}, nil
}

// Close closes the underlying X11 connection.
func (b *LinuxBackend) Close() error {
	if b != nil && b.conn != nil {
		b.conn.Close()
	}
	return nil
}

// EventLoop starts the X11 event loop (blocking).
func (b *LinuxBackend) EventLoop() {
	if b != nil && b.conn != nil {
		b.conn.EventLoop()
	}
}

// QuitEventLoop stops EventLoop.
func (b *LinuxBackend) QuitEventLoop() {
	if b != nil && b.conn != nil {
		b.conn.Quit()
	}
}

// XUtil returns the underlying xgbutil connection for X11-specific operations.
func (b *LinuxBackend) XUtil() *xgbutil.XUtil {
	if b == nil || b.conn == nil {
		return nil
	}
	return b.conn.XUtil
}

// RootWindow returns the X11 root window ID.
func (b *LinuxBackend) RootWindow() xproto.Window {
	if b == nil || b.conn == nil {
		return 0
	}
	return b.conn.Root
}

func (b *LinuxBackend) EnumerateWindows(visit func(WindowID) bool) error {
	clients, err := b.conn.ClientWindows()
	if err != nil {
		return err
	}
	for _, w := range clients {
		if !b.conn.IsNormalWindow(w) {
			continue
		}
		if !visit(WindowID(w)) {
			break
		}
	}
	return nil
}

func (b *LinuxBackend) ShellWindow() WindowID {
	return WindowID(b.conn.Root)
}

func (b *LinuxBackend) IsWindow(id WindowID) bool {
	return b.conn.WindowExists(xproto.Window(id))
}

func (b *LinuxBackend) IsVisible(id WindowID) bool {
	return b.conn.IsVisible(xproto.Window(id))
}

func (b *LinuxBackend) Title(id WindowID) (string, error) {
	return b.conn.WindowTitle(xproto.Window(id))
}

func (b *LinuxBackend) ProcessID(id WindowID) (uint32, error) {
	return b.conn.WindowPID(xproto.Window(id))
}

func (b *LinuxBackend) ActiveWindow() (WindowID, error) {
	w, err := b.conn.GetActiveWindow()
	if err != nil {
		return 0, err
	}
	return WindowID(w), nil
}

func (b *LinuxBackend) Style(id WindowID) (uint32, error) {
	hints, err := b.conn.Decorations(xproto.Window(id))
	if err != nil {
		return 0, err
	}
	return styleFromHints(hints), nil
}

func (b *LinuxBackend) SetStyle(id WindowID, style uint32) error {
	return b.conn.SetDecorations(xproto.Window(id), decorationFromStyle(style))
}

// ExtendedStyle has no X11 counterpart.
func (b *LinuxBackend) ExtendedStyle(id WindowID) (uint32, error) {
	if !b.IsWindow(id) {
		return 0, fmt.Errorf("window 0x%x is gone", uint64(id))
	}
	return 0, nil
}

func (b *LinuxBackend) SetExtendedStyle(id WindowID, style uint32) error {
	return nil
}

func (b *LinuxBackend) Placement(id WindowID) (Placement, error) {
	w := xproto.Window(id)
	x, y, width, height, err := b.conn.WindowRect(w)
	if err != nil {
		return Placement{}, err
	}

	states, _ := b.conn.WindowStates(w)
	return Placement{
		ShowCommand: showCommandFromStates(states),
		NormalRect:  Rect{X: x, Y: y, Width: width, Height: height},
	}, nil
}

func (b *LinuxBackend) SetPlacement(id WindowID, p Placement) error {
	w := xproto.Window(id)
	r := p.NormalRect

	switch {
	case p.ShowCommand.IsMinimized():
		if err := b.conn.MoveResizeWindow(w, r.X, r.Y, r.Width, r.Height); err != nil {
			return err
		}
		return b.conn.Iconify(w)
	case p.ShowCommand == ShowMaximized:
		if err := b.conn.MoveResizeWindow(w, r.X, r.Y, r.Width, r.Height); err != nil {
			return err
		}
		return b.conn.SetMaximized(w, true)
	default:
		if states, err := b.conn.WindowStates(w); err == nil && x11.HasState(states, x11.StateHidden) {
			if err := b.conn.Activate(w); err != nil {
				return err
			}
		}
		return b.conn.MoveResizeWindow(w, r.X, r.Y, r.Width, r.Height)
	}
}

func (b *LinuxBackend) MonitorBounds(id WindowID) (Rect, error) {
	mon, err := b.conn.MonitorForWindow(xproto.Window(id))
	if err != nil {
		return Rect{}, err
	}
	return Rect{X: mon.X, Y: mon.Y, Width: mon.Width, Height: mon.Height}, nil
}

// SetGeometry follows SetWindowPos semantics. FrameChanged needs no action
// because the window manager redecorates when the motif hints change.
func (b *LinuxBackend) SetGeometry(id WindowID, z ZOrder, r Rect, flags GeometryFlags) error {
	w := xproto.Window(id)

	if !flags.Has(GeometryNoMove) || !flags.Has(GeometryNoSize) {
		x, y, width, height, err := b.conn.WindowRect(w)
		if err != nil {
			return err
		}
		if !flags.Has(GeometryNoMove) {
			x, y = r.X, r.Y
		}
		if !flags.Has(GeometryNoSize) {
			width, height = r.Width, r.Height
		}
		if err := b.conn.MoveResizeWindow(w, x, y, width, height); err != nil {
			return err
		}
	}

	if !flags.Has(GeometryNoZOrder) {
		if z != ZOrderTop {
			return fmt.Errorf("unsupported z-order %d", z)
		}
		b.conn.Raise(w)
	}

	if flags.Has(GeometryShowWindow) {
		b.conn.Map(w)
	}
	return nil
}

func (b *LinuxBackend) SetShowState(id WindowID, cmd ShowCommand) error {
	w := xproto.Window(id)
	switch {
	case cmd.IsMinimized():
		return b.conn.Iconify(w)
	case cmd == ShowMaximized:
		return b.conn.SetMaximized(w, true)
	case cmd == ShowHide:
		return nil
	default:
		return b.conn.Activate(w)
	}
}

func showCommandFromStates(states []string) ShowCommand {
	switch {
	case x11.HasState(states, x11.StateHidden):
		return ShowMinimized
	case x11.HasState(states, x11.StateMaximizedHorz) && x11.HasState(states, x11.StateMaximizedVert):
		return ShowMaximized
	default:
		return ShowNormal
	}
}
