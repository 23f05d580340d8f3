package x11

import (
	"testing"

	"github.com/BurntSushi/xgb/xproto"
)

func TestMoveResizeData_StaticGravity(t *testing.T) {
	data := moveResizeData(100, 100, 800, 600)
	if len(data) != 5 {
		t.Fatalf("len = %d, want 5", len(data))
	}

	flags := data[0]
	if got := flags & 0xff; got != xproto.GravityStatic {
		t.Errorf("gravity = %d, want static (%d)", got, xproto.GravityStatic)
	}
	if got := (flags >> 12) & 0xf; got != moveResizeSource {
		t.Errorf("source = %d, want %d", got, moveResizeSource)
	}
	for bit := uint(8); bit <= 11; bit++ {
		if flags&(1<<bit) == 0 {
			t.Errorf("flag bit %d not set in %#x", bit, flags)
		}
	}
	if data[1] != 100 || data[2] != 100 || data[3] != 800 || data[4] != 600 {
		t.Errorf("geometry = %v", data[1:])
	}
}

func TestMoveResizeData_NegativeOriginAndZeroSize(t *testing.T) {
	data := moveResizeData(-1920, -8, 0, 0)
	if int32(data[1]) != -1920 || int32(data[2]) != -8 {
		t.Errorf("origin = (%d,%d), want (-1920,-8)", int32(data[1]), int32(data[2]))
	}
	if data[0]&(1<<10) != 0 || data[0]&(1<<11) != 0 {
		t.Errorf("size bits set for zero size: %#x", data[0])
	}
}
