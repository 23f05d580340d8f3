package x11

import (
	"errors"
	"fmt"

	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xproto"
)

// ErrNoMonitors is returned when RandR reports no active CRTC.
var ErrNoMonitors = errors.New("no monitors found")

// Monitor represents a physical display
type Monitor struct {
	ID     int
	Name   string
	X      int
	Y      int
	Width  int
	Height int
}

// GetMonitors retrieves all active monitors using XRandR
func (c *Connection) GetMonitors() ([]Monitor, error) {
	if err := randr.Init(c.XUtil.Conn()); err != nil {
		return nil, fmt.Errorf("randr init failed: %w", err)
	}

	resources, err := randr.GetScreenResources(c.XUtil.Conn(), c.Root).Reply()
	if err != nil {
		return nil, fmt.Errorf("failed to get screen resources: %w", err)
	}

	var monitors []Monitor
	for i, crtc := range resources.Crtcs {
		info, err := randr.GetCrtcInfo(c.XUtil.Conn(), crtc, resources.ConfigTimestamp).Reply()
		if err != nil {
			continue
		}

		// Disabled CRTCs report a zero mode.
		if info.Width == 0 || info.Height == 0 || len(info.Outputs) == 0 {
			continue
		}

		name := fmt.Sprintf("Monitor%d", i)
		output, err := randr.GetOutputInfo(c.XUtil.Conn(), info.Outputs[0], resources.ConfigTimestamp).Reply()
		if err == nil {
			name = string(output.Name)
		}

		monitors = append(monitors, Monitor{
			ID:     i,
			Name:   name,
			X:      int(info.X),
			Y:      int(info.Y),
			Width:  int(info.Width),
			Height: int(info.Height),
		})
	}

	return monitors, nil
}

// MonitorForWindow returns the full bounds of the monitor nearest to the
// window. Dock struts and panels are ignored.
func (c *Connection) MonitorForWindow(windowID xproto.Window) (Monitor, error) {
	monitors, err := c.GetMonitors()
	if err != nil {
		return Monitor{}, err
	}

	x, y, w, h, err := c.WindowRect(windowID)
	if err != nil {
		return Monitor{}, err
	}

	mon, ok := NearestMonitor(monitors, x, y, w, h)
	if !ok {
		return Monitor{}, ErrNoMonitors
	}
	return mon, nil
}

// NearestMonitor picks the monitor sharing the largest area with the given
// rectangle. When the rectangle touches no monitor, the monitor whose centre
// is closest to the rectangle's centre wins.
func NearestMonitor(monitors []Monitor, x, y, w, h int) (Monitor, bool) {
	if len(monitors) == 0 {
		return Monitor{}, false
	}

	best := -1
	bestArea := 0
	for i, mon := range monitors {
		isect := intersectionSize(x, y, x+w, y+h, mon.X, mon.Y, mon.X+mon.Width, mon.Y+mon.Height)
		if area := isect.w * isect.h; area > bestArea {
			best = i
			bestArea = area
		}
	}
	if best >= 0 {
		return monitors[best], true
	}

	cx, cy := x+w/2, y+h/2
	best = 0
	bestDist := -1
	for i, mon := range monitors {
		dx := mon.X + mon.Width/2 - cx
		dy := mon.Y + mon.Height/2 - cy
		if dist := dx*dx + dy*dy; bestDist < 0 || dist < bestDist {
			best = i
			bestDist = dist
		}
	}
	return monitors[best], true
}

type intersection struct {
	w int
	h int
}

func intersectionSize(ax1, ay1, ax2, ay2, bx1, by1, bx2, by2 int) intersection {
	x1 := max(ax1, bx1)
	y1 := max(ay1, by1)
	x2 := min(ax2, bx2)
	y2 := min(ay2, by2)

	if x2 <= x1 || y2 <= y1 {
		return intersection{}
	}
	return intersection{w: x2 - x1, h: y2 - y1}
}
