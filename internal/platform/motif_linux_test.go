//go:build linux

package platform

import (
	"testing"

	"github.com/BurntSushi/xgbutil/motif"
)

func TestStyleFromHints(t *testing.T) {
	tests := []struct {
		name  string
		hints *motif.Hints
		want  uint32
	}{
		{"no property", nil, ChromeStyleMask},
		{"functions only", &motif.Hints{Flags: motif.HintFunctions}, ChromeStyleMask},
		{"undecorated", &motif.Hints{Flags: motif.HintDecorations, Decoration: motif.DecorationNone}, 0},
		{
			"border and title",
			&motif.Hints{Flags: motif.HintDecorations, Decoration: motif.DecorationBorder | motif.DecorationTitle},
			StyleCaption,
		},
		{
			"all but maximize",
			&motif.Hints{Flags: motif.HintDecorations, Decoration: motif.DecorationAll | motif.DecorationMaximize},
			ChromeStyleMask &^ StyleMaximizeBox,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := styleFromHints(tt.hints); got != tt.want {
				t.Errorf("styleFromHints() = %#x, want %#x", got, tt.want)
			}
		})
	}
}

func TestDecorationRoundTrip(t *testing.T) {
	styles := []uint32{
		0,
		StyleBorder,
		StyleCaption | StyleSysMenu,
		StyleThickFrame | StyleMinimizeBox,
		ChromeStyleMask,
	}
	for _, style := range styles {
		hints := &motif.Hints{Flags: motif.HintDecorations, Decoration: decorationFromStyle(style)}
		if got := styleFromHints(hints); got != style {
			t.Errorf("round trip of %#x = %#x", style, got)
		}
	}
}

func TestStrippedStyleHasNoDecorations(t *testing.T) {
	c := Chrome{Style: ChromeStyleMask | 0x10000000, ExStyle: ChromeExStyleMask}
	if got := decorationFromStyle(c.Stripped().Style); got != motif.DecorationNone {
		t.Errorf("decorationFromStyle(stripped) = %#x, want none", got)
	}
}
