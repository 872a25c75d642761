// Package headless implements a frontend without input that prints the last
// rendered screen as text when closed.
package headless

import (
	"fmt"
	"io"
	"strings"

	"github.com/retroenv/retrochip8/internal/cpu"
	"github.com/retroenv/retrochip8/internal/runner"
)

// Compile-time check to ensure Frontend implements runner.Frontend.
var _ runner.Frontend = (*Frontend)(nil)

// Frontend is a frontend without any input.
type Frontend struct {
	output io.Writer
	last   runner.FrameBuffer
	beeps  int
}

// New returns a new headless frontend writing the final screen to output.
func New(output io.Writer) *Frontend {
	return &Frontend{output: output}
}

// Inputs reports no pressed keys.
func (f *Frontend) Inputs() ([cpu.KeyCount]bool, bool) {
	return [cpu.KeyCount]bool{}, false
}

// Render remembers the framebuffer for printing on close.
func (f *Frontend) Render(fb runner.FrameBuffer) {
	f.last = fb
}

// Beep counts the started tones.
func (f *Frontend) Beep(on bool) {
	if on {
		f.beeps++
	}
}

// Close prints the last rendered screen and the number of started tones.
func (f *Frontend) Close() error {
	if f.last == nil {
		return nil
	}
	if _, err := fmt.Fprintf(f.output, "%stones=%d\n", Screen(f.last), f.beeps); err != nil {
		return fmt.Errorf("writing screen: %w", err)
	}
	return nil
}

// Screen returns the framebuffer as text, one line per pixel row with '#'
// for set and '.' for cleared pixels.
func Screen(fb runner.FrameBuffer) string {
	var sb strings.Builder
	sb.Grow((cpu.ScreenWidth + 1) * cpu.ScreenHeight)
	for y := range cpu.ScreenHeight {
		for x := range cpu.ScreenWidth {
			if fb.Pixel(x, y) {
				sb.WriteByte('#')
			} else {
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Registers gives read access to the processor registers.
type Registers interface {
	Registers() [cpu.RegisterCount]uint8
	I() uint16
	PC() uint16
	SP() int
	DelayTimer() uint8
	SoundTimer() uint8
}

// State returns the registers as text in the form
// "V0=00 ... VF=00 \nI=0000 PC=0200 SP=0 DT=00 ST=00\n".
func State(regs Registers) string {
	var sb strings.Builder
	for x, value := range regs.Registers() {
		fmt.Fprintf(&sb, "V%X=%02X ", x, value)
	}
	fmt.Fprintf(&sb, "\nI=%04X PC=%04X SP=%d DT=%02X ST=%02X\n",
		regs.I(), regs.PC(), regs.SP(), regs.DelayTimer(), regs.SoundTimer())
	return sb.String()
}
