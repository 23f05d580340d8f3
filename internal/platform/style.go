package platform

// Window style bits.
const (
	StyleBorder      uint32 = 0x00800000
	StyleDlgFrame    uint32 = 0x00400000
	StyleCaption     uint32 = StyleBorder | StyleDlgFrame
	StyleSysMenu     uint32 = 0x00080000
	StyleThickFrame  uint32 = 0x00040000
	StyleMinimizeBox uint32 = 0x00020000
	StyleMaximizeBox uint32 = 0x00010000
)

// Extended window style bits.
const (
	ExStyleDlgModalFrame uint32 = 0x00000001
	ExStyleStaticEdge    uint32 = 0x00020000
	ExStyleWindowEdge    uint32 = 0x00000100
	ExStyleClientEdge    uint32 = 0x00000200
)

// ChromeStyleMask covers every style bit that draws a frame or title bar.
const ChromeStyleMask = StyleCaption | StyleSysMenu | StyleMinimizeBox |
	StyleMaximizeBox | StyleBorder | StyleDlgFrame | StyleThickFrame

// ChromeExStyleMask covers every extended style bit that draws an edge.
const ChromeExStyleMask = ExStyleClientEdge | ExStyleWindowEdge |
	ExStyleStaticEdge | ExStyleDlgModalFrame

// Stripped returns c with every chrome bit cleared and all other bits kept.
func (c Chrome) Stripped() Chrome {
	return Chrome{
		Style:   c.Style &^ ChromeStyleMask,
		ExStyle: c.ExStyle &^ ChromeExStyleMask,
	}
}
