package x11

import (
	"errors"
	"fmt"
	"strings"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/motif"
	"github.com/BurntSushi/xgbutil/xwindow"
)

// EWMH state atoms used by the backend.
const (
	StateHidden        = "_NET_WM_STATE_HIDDEN"
	StateMaximizedVert = "_NET_WM_STATE_MAXIMIZED_VERT"
	StateMaximizedHorz = "_NET_WM_STATE_MAXIMIZED_HORZ"
)

// ClientWindows returns the window manager's managed client list.
func (c *Connection) ClientWindows() ([]xproto.Window, error) {
	clients, err := ewmh.ClientListGet(c.XUtil)
	if err != nil {
		return nil, fmt.Errorf("failed to get client list: %w", err)
	}
	return clients, nil
}

// IsNormalWindow checks if a window is a normal application window
func (c *Connection) IsNormalWindow(windowID xproto.Window) bool {
	types, err := ewmh.WmWindowTypeGet(c.XUtil, windowID)
	if err != nil {
		return true
	}

	for _, t := range types {
		switch t {
		case "_NET_WM_WINDOW_TYPE_NORMAL", "_NET_WM_WINDOW_TYPE_DIALOG":
			return true
		case "_NET_WM_WINDOW_TYPE_DESKTOP",
			"_NET_WM_WINDOW_TYPE_DOCK",
			"_NET_WM_WINDOW_TYPE_SPLASH",
			"_NET_WM_WINDOW_TYPE_NOTIFICATION":
			return false
		}
	}

	return len(types) == 0
}

// WindowExists reports whether the server still knows the window.
func (c *Connection) WindowExists(windowID xproto.Window) bool {
	_, err := xproto.GetWindowAttributes(c.XUtil.Conn(), windowID).Reply()
	return err == nil
}

// IsVisible reports whether the window is mapped or merely iconified.
// Withdrawn and never-mapped windows are not visible.
func (c *Connection) IsVisible(windowID xproto.Window) bool {
	attrs, err := xproto.GetWindowAttributes(c.XUtil.Conn(), windowID).Reply()
	if err != nil {
		return false
	}
	if attrs.MapState == xproto.MapStateViewable {
		return true
	}
	state, err := icccm.WmStateGet(c.XUtil, windowID)
	return err == nil && state.State == icccm.StateIconic
}

// WindowTitle prefers _NET_WM_NAME and falls back to WM_NAME.
func (c *Connection) WindowTitle(windowID xproto.Window) (string, error) {
	title, err := ewmh.WmNameGet(c.XUtil, windowID)
	if err == nil && strings.TrimSpace(title) != "" {
		return title, nil
	}

	title, err = icccm.WmNameGet(c.XUtil, windowID)
	if err != nil {
		return "", err
	}
	return title, nil
}

// WindowPID reads _NET_WM_PID.
func (c *Connection) WindowPID(windowID xproto.Window) (uint32, error) {
	pid, err := ewmh.WmPidGet(c.XUtil, windowID)
	if err != nil {
		return 0, err
	}
	return uint32(pid), nil
}

// WindowRect returns the window's geometry in root coordinates.
func (c *Connection) WindowRect(windowID xproto.Window) (x, y, width, height int, err error) {
	geom, err := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(windowID)).Reply()
	if err != nil {
		return 0, 0, 0, 0, err
	}

	translate, err := xproto.TranslateCoordinates(c.XUtil.Conn(), windowID, c.Root, 0, 0).Reply()
	if err != nil {
		return 0, 0, 0, 0, err
	}

	return int(translate.DstX), int(translate.DstY), int(geom.Width), int(geom.Height), nil
}

// WindowStates returns the _NET_WM_STATE atoms set on the window.
func (c *Connection) WindowStates(windowID xproto.Window) ([]string, error) {
	return ewmh.WmStateGet(c.XUtil, windowID)
}

// HasState reports whether name appears in states.
func HasState(states []string, name string) bool {
	for _, s := range states {
		if s == name {
			return true
		}
	}
	return false
}

// Decorations reads _MOTIF_WM_HINTS. A window without the property gets
// zero hints, which window managers treat as fully decorated.
func (c *Connection) Decorations(windowID xproto.Window) (*motif.Hints, error) {
	hints, err := motif.WmHintsGet(c.XUtil, windowID)
	if err != nil {
		if !c.WindowExists(windowID) {
			return nil, fmt.Errorf("window 0x%x is gone", windowID)
		}
		return &motif.Hints{}, nil
	}
	return hints, nil
}

// SetDecorations writes the decoration field of _MOTIF_WM_HINTS and keeps the
// rest of the property intact.
func (c *Connection) SetDecorations(windowID xproto.Window, decoration uint) error {
	hints, err := c.Decorations(windowID)
	if err != nil {
		return err
	}
	hints.Flags |= motif.HintDecorations
	hints.Decoration = decoration
	return motif.WmHintsSet(c.XUtil, windowID, hints)
}

// moveResizeSource marks the request as coming from a pager, which window
// managers honour without focus-stealing checks.
const moveResizeSource = 2

// moveResizeData builds a _NET_MOVERESIZE_WINDOW message. Static gravity
// makes x and y the client origin rather than the frame origin, so a
// rectangle read with WindowRect lands back on the same pixels.
func moveResizeData(x, y, width, height int) []uint32 {
	flags := uint32(xproto.GravityStatic) | moveResizeSource<<12 | 1<<8 | 1<<9
	if width > 0 {
		flags |= 1 << 10
	}
	if height > 0 {
		flags |= 1 << 11
	}
	return []uint32{flags, uint32(int32(x)), uint32(int32(y)), uint32(width), uint32(height)}
}

// MoveResizeWindow places the client area of a window at the given root
// coordinates and size. Without a window manager answering
// _NET_MOVERESIZE_WINDOW it falls back to a plain configure request.
func (c *Connection) MoveResizeWindow(windowID xproto.Window, x, y, width, height int) error {
	// A maximized window ignores configure requests in most window managers.
	if err := c.SetMaximized(windowID, false); err != nil {
		return fmt.Errorf("failed to unmaximize 0x%x: %w", windowID, err)
	}

	err := c.sendRootMessage(windowID, "_NET_MOVERESIZE_WINDOW", moveResizeData(x, y, width, height))
	if err == nil {
		return nil
	}

	mask := uint16(xproto.ConfigWindowX | xproto.ConfigWindowY | xproto.ConfigWindowWidth | xproto.ConfigWindowHeight)
	values := []uint32{uint32(int32(x)), uint32(int32(y)), uint32(width), uint32(height)}
	if cerr := xproto.ConfigureWindowChecked(c.XUtil.Conn(), windowID, mask, values).Check(); cerr != nil {
		return fmt.Errorf("failed to move 0x%x: %w", windowID, errors.Join(err, cerr))
	}
	return nil
}

// SetMaximized adds or removes both maximized states. A window without
// _NET_WM_STATE counts as having no states.
func (c *Connection) SetMaximized(windowID xproto.Window, maximized bool) error {
	states, err := c.WindowStates(windowID)
	if err != nil {
		if !c.WindowExists(windowID) {
			return fmt.Errorf("window 0x%x is gone", windowID)
		}
		states = nil
	}

	action := ewmh.StateRemove
	if maximized {
		action = ewmh.StateAdd
	}

	for _, atom := range []string{StateMaximizedHorz, StateMaximizedVert} {
		if HasState(states, atom) == maximized {
			continue
		}
		if err := ewmh.WmStateReq(c.XUtil, windowID, action, atom); err != nil {
			return err
		}
	}
	return nil
}

// Raise restacks the window above its siblings.
func (c *Connection) Raise(windowID xproto.Window) {
	xwindow.New(c.XUtil, windowID).Stack(xproto.StackModeAbove)
}

// Map maps the window.
func (c *Connection) Map(windowID xproto.Window) {
	xwindow.New(c.XUtil, windowID).Map()
}

// Iconify asks the window manager to minimize the window via WM_CHANGE_STATE.
func (c *Connection) Iconify(windowID xproto.Window) error {
	return c.sendRootMessage(windowID, "WM_CHANGE_STATE", []uint32{icccm.StateIconic, 0, 0, 0, 0})
}

// Activate de-iconifies, raises and focuses a window using _NET_ACTIVE_WINDOW.
// The message is built by hand because ewmh.ActiveWindowReq panics on this
// xgbutil version.
func (c *Connection) Activate(windowID xproto.Window) error {
	const sourceIndication = 2 // pager/direct action
	return c.sendRootMessage(windowID, "_NET_ACTIVE_WINDOW", []uint32{sourceIndication, 0, 0, 0, 0})
}

// GetActiveWindow returns the focused client.
func (c *Connection) GetActiveWindow() (xproto.Window, error) {
	return ewmh.ActiveWindowGet(c.XUtil)
}

func (c *Connection) sendRootMessage(windowID xproto.Window, atomName string, data []uint32) error {
	atomReply, err := xproto.InternAtom(c.XUtil.Conn(), false, uint16(len(atomName)), atomName).Reply()
	if err != nil {
		return fmt.Errorf("failed to intern %s: %w", atomName, err)
	}

	ev := xproto.ClientMessageEvent{
		Format: 32,
		Window: windowID,
		Type:   atomReply.Atom,
		Data:   xproto.ClientMessageDataUnionData32New(data),
	}

	return xproto.SendEventChecked(
		c.XUtil.Conn(),
		false,
		c.Root,
		xproto.EventMaskSubstructureRedirect|xproto.EventMaskSubstructureNotify,
		string(ev.Bytes()),
	).Check()
}
