package platform

import "errors"

// WindowID is a platform-neutral top-level window handle. Handles may be
// reused by the OS after the window they named is destroyed.
type WindowID uint64

// ErrUnsupported is returned when no native backend exists for the running OS.
var ErrUnsupported = errors.New("window backend not supported on this platform")

// Point is a screen coordinate.
type Point struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
}

// Rect describes a rectangular region in screen coordinates.
type Rect struct {
	X      int `json:"x" yaml:"x"`
	Y      int `json:"y" yaml:"y"`
	Width  int `json:"width" yaml:"width"`
	Height int `json:"height" yaml:"height"`
}

// Chrome holds the two window style bit sets.
type Chrome struct {
	Style   uint32 `json:"style" yaml:"style"`
	ExStyle uint32 `json:"ex_style" yaml:"ex_style"`
}

// ShowCommand is the show state stored in a Placement.
type ShowCommand uint32

const (
	ShowHide          ShowCommand = 0
	ShowNormal        ShowCommand = 1
	ShowMinimized     ShowCommand = 2
	ShowMaximized     ShowCommand = 3
	ShowNoActivate    ShowCommand = 4
	ShowShow          ShowCommand = 5
	ShowMinimize      ShowCommand = 6
	ShowMinNoActive   ShowCommand = 7
	ShowNA            ShowCommand = 8
	ShowRestore       ShowCommand = 9
	ShowDefault       ShowCommand = 10
	ShowForceMinimize ShowCommand = 11
)

// IsMinimized reports whether the show command leaves the window iconified.
func (c ShowCommand) IsMinimized() bool {
	switch c {
	case ShowMinimized, ShowMinimize, ShowMinNoActive, ShowForceMinimize:
		return true
	}
	return false
}

// Placement is the OS record of a window's restored rectangle and show state.
type Placement struct {
	Flags       uint32      `json:"flags" yaml:"flags"`
	ShowCommand ShowCommand `json:"show_command" yaml:"show_command"`
	MinPosition Point       `json:"min_position" yaml:"min_position"`
	MaxPosition Point       `json:"max_position" yaml:"max_position"`
	NormalRect  Rect        `json:"normal_rect" yaml:"normal_rect"`
}

// ZOrder selects where SetGeometry inserts the window in the stacking order.
type ZOrder int

// ZOrderTop raises the window above its non-topmost siblings.
const ZOrderTop ZOrder = 0

// GeometryFlags modify a SetGeometry call. Values match the native
// SetWindowPos flags.
type GeometryFlags uint32

const (
	GeometryNoSize       GeometryFlags = 0x0001
	GeometryNoMove       GeometryFlags = 0x0002
	GeometryNoZOrder     GeometryFlags = 0x0004
	GeometryFrameChanged GeometryFlags = 0x0020
	GeometryShowWindow   GeometryFlags = 0x0040
)

// Has reports whether all bits in f are set.
func (g GeometryFlags) Has(f GeometryFlags) bool {
	return g&f == f
}

// Backend abstracts the window-system calls the engine needs. Every call is
// blocking. Calls on an identity that no longer names a window fail or return
// zero values; they never panic.
type Backend interface {
	// EnumerateWindows calls visit for each top-level window until visit
	// returns false.
	EnumerateWindows(visit func(WindowID) bool) error
	ShellWindow() WindowID
	IsWindow(id WindowID) bool
	IsVisible(id WindowID) bool
	Title(id WindowID) (string, error)
	ProcessID(id WindowID) (uint32, error)

	Style(id WindowID) (uint32, error)
	SetStyle(id WindowID, style uint32) error
	ExtendedStyle(id WindowID) (uint32, error)
	SetExtendedStyle(id WindowID, style uint32) error

	Placement(id WindowID) (Placement, error)
	SetPlacement(id WindowID, p Placement) error

	// MonitorBounds returns the full bounds (not the work area) of the
	// monitor nearest to the window.
	MonitorBounds(id WindowID) (Rect, error)
	SetGeometry(id WindowID, z ZOrder, r Rect, flags GeometryFlags) error
	SetShowState(id WindowID, cmd ShowCommand) error
}

// ActiveWindowSource is implemented by backends that can report the
// foreground window.
type ActiveWindowSource interface {
	ActiveWindow() (WindowID, error)
}

// ProcessResolver maps a process id to its executable image name.
type ProcessResolver interface {
	ImageName(pid uint32) string
}

// UnknownImageName is reported when a process cannot be queried.
const UnknownImageName = "Unknown"

// ProcessResolverFunc adapts a function to ProcessResolver.
type ProcessResolverFunc func(pid uint32) string

func (f ProcessResolverFunc) ImageName(pid uint32) string {
	return f(pid)
}
