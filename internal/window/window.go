// Package window implements a frontend that renders the screen into a
// desktop window and reads the keypad from the keyboard. The window is driven
// by the retrogolib GUI renderer, Loop has to run on the main goroutine while
// the runner calls the frontend methods from another one.
package window

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"sync"
	"time"

	"github.com/retroenv/retrochip8/internal/cpu"
	"github.com/retroenv/retrochip8/internal/runner"
	"github.com/retroenv/retrogolib/gui"
	_ "github.com/retroenv/retrogolib/gui/sdl2" // registers the SDL2 renderer as gui.Setup
	"github.com/retroenv/retrogolib/input"
)

// Title is the window title.
const Title = "retrochip8"

var (
	pixelOn  = color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
	pixelOff = color.RGBA{A: 0xFF}
)

// ErrNoRenderer is returned by Loop if no GUI renderer is available.
var ErrNoRenderer = errors.New("no GUI renderer available")

// Compile-time checks to ensure Window implements the frontend and the GUI
// backend interfaces.
var (
	_ runner.Frontend = (*Window)(nil)
	_ gui.Backend     = (*Window)(nil)
)

// Window is a frontend rendering into a desktop window.
type Window struct {
	setup gui.Initializer
	scale float64

	mu      sync.Mutex
	pending *image.RGBA // written by Render
	keys    [cpu.KeyCount]bool
	quit    bool

	display *image.RGBA // read by the renderer
	cleanup func()
}

// New returns a window frontend that scales every pixel by the scale factor
// and uses the SDL2 renderer.
func New(scale int) *Window {
	return NewWithRenderer(scale, gui.Setup)
}

// NewWithRenderer returns a window frontend that uses the given GUI renderer.
func NewWithRenderer(scale int, setup gui.Initializer) *Window {
	bounds := image.Rect(0, 0, cpu.ScreenWidth, cpu.ScreenHeight)
	w := &Window{
		setup:   setup,
		scale:   float64(scale),
		pending: image.NewRGBA(bounds),
		display: image.NewRGBA(bounds),
	}
	fill(w.pending)
	fill(w.display)
	return w
}

func fill(img *image.RGBA) {
	for y := range cpu.ScreenHeight {
		for x := range cpu.ScreenWidth {
			img.SetRGBA(x, y, pixelOff)
		}
	}
}

// Loop opens the window and presents the last rendered frame at the given
// rate until the window gets closed or the context gets cancelled. Closing
// the window makes Inputs request to quit.
func (w *Window) Loop(ctx context.Context, frameRate int) error {
	if w.setup == nil {
		return ErrNoRenderer
	}
	render, cleanup, err := w.setup(w)
	if err != nil {
		return fmt.Errorf("setting up window: %w", err)
	}
	w.cleanup = cleanup

	if frameRate <= 0 {
		frameRate = 1
	}
	ticker := time.NewTicker(time.Second / time.Duration(frameRate))
	defer ticker.Stop()

	for {
		running, err := render()
		if err != nil {
			w.requestQuit()
			return fmt.Errorf("rendering window: %w", err)
		}
		if !running {
			w.requestQuit()
			return nil
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (w *Window) requestQuit() {
	w.mu.Lock()
	w.quit = true
	w.mu.Unlock()
}

// Inputs returns the pressed keys and whether the window was closed.
func (w *Window) Inputs() ([cpu.KeyCount]bool, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.keys, w.quit
}

// Render copies the framebuffer into the image presented by the next frame.
func (w *Window) Render(fb runner.FrameBuffer) {
	w.mu.Lock()
	defer w.mu.Unlock()

	for y := range cpu.ScreenHeight {
		for x := range cpu.ScreenWidth {
			c := pixelOff
			if fb.Pixel(x, y) {
				c = pixelOn
			}
			w.pending.SetRGBA(x, y, c)
		}
	}
}

// Beep does nothing, the window has no audio output.
func (w *Window) Beep(bool) {}

// Close closes the window. It has to be called on the goroutine that ran Loop.
func (w *Window) Close() error {
	if w.cleanup != nil {
		w.cleanup()
		w.cleanup = nil
	}
	return nil
}

// Image returns the frame to present.
func (w *Window) Image() *image.RGBA {
	w.mu.Lock()
	copy(w.display.Pix, w.pending.Pix)
	w.mu.Unlock()
	return w.display
}

// Dimensions returns the screen size and the window scale factor.
func (w *Window) Dimensions() gui.Dimensions {
	return gui.Dimensions{
		Width:       cpu.ScreenWidth,
		Height:      cpu.ScreenHeight,
		ScaleFactor: w.scale,
	}
}

// WindowTitle returns the window title.
func (w *Window) WindowTitle() string {
	return Title
}

// KeyDown marks the keypad key mapped to the keyboard key as pressed.
func (w *Window) KeyDown(key input.Key) {
	w.setKey(key, true)
}

// KeyUp marks the keypad key mapped to the keyboard key as released.
func (w *Window) KeyUp(key input.Key) {
	w.setKey(key, false)
}

func (w *Window) setKey(key input.Key, pressed bool) {
	index, ok := keyMap[key]
	if !ok {
		return
	}
	w.mu.Lock()
	w.keys[index] = pressed
	w.mu.Unlock()
}

// keyMap maps the left side of a QWERTY keyboard to the hex keypad:
//
//	1 2 3 4    1 2 3 C
//	Q W E R    4 5 6 D
//	A S D F    7 8 9 E
//	Z X C V    A 0 B F
var keyMap = map[input.Key]int{
	input.Key1: 0x1, input.Key2: 0x2, input.Key3: 0x3, input.Key4: 0xC,
	input.Q: 0x4, input.W: 0x5, input.E: 0x6, input.R: 0xD,
	input.A: 0x7, input.S: 0x8, input.D: 0x9, input.F: 0xE,
	input.Z: 0xA, input.X: 0x0, input.C: 0xB, input.V: 0xF,
}
