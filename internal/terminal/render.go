package terminal

import (
	"strings"

	"github.com/retroenv/retrochip8/internal/cpu"
	"github.com/retroenv/retrochip8/internal/runner"
)

// ANSI control sequences.
const (
	clearScreen = "\x1b[2J"
	cursorHome  = "\x1b[H"
	hideCursor  = "\x1b[?25l"
	showCursor  = "\x1b[?25h"
	bell        = "\a"
)

// renderFrame draws the framebuffer with two pixel rows per text line using
// half block characters. Lines end with CRLF as the terminal is in raw mode.
func renderFrame(sb *strings.Builder, fb runner.FrameBuffer) {
	sb.WriteString(cursorHome)
	for y := 0; y < cpu.ScreenHeight; y += 2 {
		for x := range cpu.ScreenWidth {
			top := fb.Pixel(x, y)
			bottom := fb.Pixel(x, y+1)
			switch {
			case top && bottom:
				sb.WriteRune('█')
			case top:
				sb.WriteRune('▀')
			case bottom:
				sb.WriteRune('▄')
			default:
				sb.WriteByte(' ')
			}
		}
		sb.WriteString("\r\n")
	}
}
