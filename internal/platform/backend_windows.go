//go:build windows

package platform

import (
	"fmt"
	"sync"
	"unsafe"

	"github.com/lxn/win"
	"golang.org/x/sys/windows"
)

var (
	user32                   = windows.NewLazySystemDLL("user32.dll")
	procGetWindowTextLengthW = user32.NewProc("GetWindowTextLengthW")
	procGetWindowTextW       = user32.NewProc("GetWindowTextW")
)

// EnumWindows callbacks cannot carry a Go closure, so a single callback is
// created once and dispatches to the visitor of the enumeration in progress.
var (
	enumMu       sync.Mutex
	enumVisit    func(WindowID) bool
	enumStopped  bool
	enumCallback = windows.NewCallback(func(hwnd uintptr, _ uintptr) uintptr {
		if enumVisit(WindowID(hwnd)) {
			return 1
		}
		enumStopped = true
		return 0
	})
)

// WindowsBackend implements Backend on user32.
type WindowsBackend struct{}

var (
	_ Backend            = (*WindowsBackend)(nil)
	_ ActiveWindowSource = (*WindowsBackend)(nil)
)

// NewNativeBackend returns the user32 backend. display is ignored.
func NewNativeBackend(display string) (Backend, error) {
	return &WindowsBackend{}, nil
}

func hwnd(id WindowID) win.HWND {
	return win.HWND(uintptr(id))
}

func (b *WindowsBackend) EnumerateWindows(visit func(WindowID) bool) error {
	enumMu.Lock()
	defer enumMu.Unlock()

	enumVisit = visit
	enumStopped = false
	defer func() { enumVisit = nil }()

	err := windows.EnumWindows(enumCallback, nil)
	if err != nil && !enumStopped {
		return fmt.Errorf("EnumWindows: %w", err)
	}
	return nil
}

func (b *WindowsBackend) ShellWindow() WindowID {
	return WindowID(windows.GetShellWindow())
}

func (b *WindowsBackend) IsWindow(id WindowID) bool {
	return windows.IsWindow(windows.HWND(id))
}

func (b *WindowsBackend) IsVisible(id WindowID) bool {
	return windows.IsWindowVisible(windows.HWND(id))
}

func (b *WindowsBackend) ActiveWindow() (WindowID, error) {
	fg := windows.GetForegroundWindow()
	if fg == 0 {
		return 0, fmt.Errorf("no foreground window")
	}
	return WindowID(fg), nil
}

func (b *WindowsBackend) Title(id WindowID) (string, error) {
	n, _, _ := procGetWindowTextLengthW.Call(uintptr(id))
	if n == 0 {
		if !b.IsWindow(id) {
			return "", b.gone(id)
		}
		return "", nil
	}

	buf := make([]uint16, n+1)
	copied, _, _ := procGetWindowTextW.Call(uintptr(id), uintptr(unsafe.Pointer(&buf[0])), uintptr(len(buf)))
	return windows.UTF16ToString(buf[:copied]), nil
}

func (b *WindowsBackend) ProcessID(id WindowID) (uint32, error) {
	var pid uint32
	if _, err := windows.GetWindowThreadProcessId(windows.HWND(id), &pid); err != nil {
		return 0, fmt.Errorf("GetWindowThreadProcessId: %w", err)
	}
	return pid, nil
}

func (b *WindowsBackend) Style(id WindowID) (uint32, error) {
	return b.windowLong(id, win.GWL_STYLE)
}

func (b *WindowsBackend) SetStyle(id WindowID, style uint32) error {
	return b.setWindowLong(id, win.GWL_STYLE, style)
}

func (b *WindowsBackend) ExtendedStyle(id WindowID) (uint32, error) {
	return b.windowLong(id, win.GWL_EXSTYLE)
}

func (b *WindowsBackend) SetExtendedStyle(id WindowID, style uint32) error {
	return b.setWindowLong(id, win.GWL_EXSTYLE, style)
}

func (b *WindowsBackend) Placement(id WindowID) (Placement, error) {
	var wp win.WINDOWPLACEMENT
	wp.Length = uint32(unsafe.Sizeof(wp))
	if !win.GetWindowPlacement(hwnd(id), &wp) {
		return Placement{}, fmt.Errorf("GetWindowPlacement failed for window 0x%x", uint64(id))
	}

	return Placement{
		Flags:       wp.Flags,
		ShowCommand: ShowCommand(wp.ShowCmd),
		MinPosition: Point{X: int(wp.PtMinPosition.X), Y: int(wp.PtMinPosition.Y)},
		MaxPosition: Point{X: int(wp.PtMaxPosition.X), Y: int(wp.PtMaxPosition.Y)},
		NormalRect:  rectFromRECT(wp.RcNormalPosition),
	}, nil
}

func (b *WindowsBackend) SetPlacement(id WindowID, p Placement) error {
	wp := win.WINDOWPLACEMENT{
		Flags:            p.Flags,
		ShowCmd:          uint32(p.ShowCommand),
		PtMinPosition:    win.POINT{X: int32(p.MinPosition.X), Y: int32(p.MinPosition.Y)},
		PtMaxPosition:    win.POINT{X: int32(p.MaxPosition.X), Y: int32(p.MaxPosition.Y)},
		RcNormalPosition: rectToRECT(p.NormalRect),
	}
	wp.Length = uint32(unsafe.Sizeof(wp))

	if !win.SetWindowPlacement(hwnd(id), &wp) {
		return fmt.Errorf("SetWindowPlacement failed for window 0x%x", uint64(id))
	}
	return nil
}

func (b *WindowsBackend) MonitorBounds(id WindowID) (Rect, error) {
	mon := win.MonitorFromWindow(hwnd(id), win.MONITOR_DEFAULTTONEAREST)
	if mon == 0 {
		return Rect{}, fmt.Errorf("MonitorFromWindow returned no monitor for window 0x%x", uint64(id))
	}

	var mi win.MONITORINFO
	mi.CbSize = uint32(unsafe.Sizeof(mi))
	if !win.GetMonitorInfo(mon, &mi) {
		return Rect{}, fmt.Errorf("GetMonitorInfo failed for window 0x%x", uint64(id))
	}
	return rectFromRECT(mi.RcMonitor), nil
}

func (b *WindowsBackend) SetGeometry(id WindowID, z ZOrder, r Rect, flags GeometryFlags) error {
	if z != ZOrderTop {
		return fmt.Errorf("unsupported z-order %d", z)
	}
	if !win.SetWindowPos(hwnd(id), win.HWND_TOP, int32(r.X), int32(r.Y), int32(r.Width), int32(r.Height), uint32(flags)) {
		return fmt.Errorf("SetWindowPos failed for window 0x%x", uint64(id))
	}
	return nil
}

// SetShowState ignores ShowWindow's return value, which reports prior
// visibility rather than success.
func (b *WindowsBackend) SetShowState(id WindowID, cmd ShowCommand) error {
	if !b.IsWindow(id) {
		return b.gone(id)
	}
	win.ShowWindow(hwnd(id), int32(cmd))
	return nil
}

func (b *WindowsBackend) windowLong(id WindowID, index int32) (uint32, error) {
	if !b.IsWindow(id) {
		return 0, b.gone(id)
	}
	return uint32(win.GetWindowLongPtr(hwnd(id), index)), nil
}

func (b *WindowsBackend) setWindowLong(id WindowID, index int, value uint32) error {
	if !b.IsWindow(id) {
		return b.gone(id)
	}
	win.SetWindowLongPtr(hwnd(id), index, uintptr(value))
	return nil
}

func (b *WindowsBackend) gone(id WindowID) error {
	return fmt.Errorf("window 0x%x is not a window", uint64(id))
}

func rectFromRECT(r win.RECT) Rect {
	return Rect{
		X:      int(r.Left),
		Y:      int(r.Top),
		Width:  int(r.Right - r.Left),
		Height: int(r.Bottom - r.Top),
	}
}

func rectToRECT(r Rect) win.RECT {
	return win.RECT{
		Left:   int32(r.X),
		Top:    int32(r.Y),
		Right:  int32(r.X + r.Width),
		Bottom: int32(r.Y + r.Height),
	}
}
