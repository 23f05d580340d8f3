//go:build linux

package platform

import "github.com/BurntSushi/xgbutil/motif"

// decorationBits pairs each motif decoration with the style bit it stands in for.
var decorationBits = []struct {
	decoration uint
	style      uint32
}{
	{motif.DecorationBorder, StyleBorder},
	{motif.DecorationTitle, StyleDlgFrame},
	{motif.DecorationResizeH, StyleThickFrame},
	{motif.DecorationMenu, StyleSysMenu},
	{motif.DecorationMinimize, StyleMinimizeBox},
	{motif.DecorationMaximize, StyleMaximizeBox},
}

// styleFromHints converts _MOTIF_WM_HINTS into style bits. Hints without the
// decorations flag mean the window manager decorates fully.
func styleFromHints(h *motif.Hints) uint32 {
	if h == nil || h.Flags&motif.HintDecorations == 0 {
		return ChromeStyleMask
	}

	var style uint32
	for _, b := range decorationBits {
		if h.Decoration&b.decoration != 0 {
			style |= b.style
		}
	}
	// With DecorationAll set, the listed decorations are the ones removed.
	if h.Decoration&motif.DecorationAll != 0 {
		style = ChromeStyleMask &^ style
	}
	return style
}

// decorationFromStyle is the inverse of styleFromHints.
func decorationFromStyle(style uint32) uint {
	if style&ChromeStyleMask == ChromeStyleMask {
		return motif.DecorationAll
	}

	var deco uint
	for _, b := range decorationBits {
		if style&b.style != 0 {
			deco |= b.decoration
		}
	}
	return deco
}
