// Package terminal implements a frontend that renders the screen to an ANSI
// terminal and reads the keypad from the keyboard in raw mode.
package terminal

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/pkg/term"
	"github.com/retroenv/retrochip8/internal/cpu"
	"github.com/retroenv/retrochip8/internal/runner"
)

// DefaultDevice is the terminal device used for keyboard input.
const DefaultDevice = "/dev/tty"

const readTimeout = 100 * time.Millisecond

// Compile-time check to ensure Terminal implements runner.Frontend.
var _ runner.Frontend = (*Terminal)(nil)

// Terminal is a frontend for ANSI terminals.
type Terminal struct {
	input  *term.Term
	output io.Writer
	keys   *keypad

	frame strings.Builder

	done chan struct{}
	wg   sync.WaitGroup
}

// Open switches the terminal device into raw mode and starts reading the
// keyboard. Close restores the terminal.
func Open(device string, output io.Writer, keyHold time.Duration) (*Terminal, error) {
	input, err := term.Open(device, term.RawMode, term.ReadTimeout(readTimeout))
	if err != nil {
		return nil, fmt.Errorf("opening terminal %s: %w", device, err)
	}

	t := &Terminal{
		input:  input,
		output: output,
		keys:   newKeypad(keyHold),
		done:   make(chan struct{}),
	}

	if _, err := io.WriteString(output, clearScreen+hideCursor); err != nil {
		_ = input.Restore()
		_ = input.Close()
		return nil, fmt.Errorf("writing to terminal: %w", err)
	}

	t.wg.Add(1)
	go t.readKeys()
	return t, nil
}

// readKeys reads input bytes until the terminal gets closed. The read
// timeout lets the loop notice the close.
func (t *Terminal) readKeys() {
	defer t.wg.Done()

	buf := make([]byte, 32)
	for {
		select {
		case <-t.done:
			return
		default:
		}

		n, err := t.input.Read(buf)
		if err != nil && !errors.Is(err, io.EOF) {
			t.keys.input(keyEscape, time.Now())
			return
		}

		now := time.Now()
		for _, b := range buf[:n] {
			t.keys.input(b, now)
		}
	}
}

// Inputs returns the keypad state.
func (t *Terminal) Inputs() ([cpu.KeyCount]bool, bool) {
	return t.keys.state(time.Now())
}

// Render draws the framebuffer.
func (t *Terminal) Render(fb runner.FrameBuffer) {
	t.frame.Reset()
	renderFrame(&t.frame, fb)
	_, _ = io.WriteString(t.output, t.frame.String())
}

// Beep rings the terminal bell when the tone starts.
func (t *Terminal) Beep(on bool) {
	if on {
		_, _ = io.WriteString(t.output, bell)
	}
}

// Close stops the keyboard reader and restores the terminal.
func (t *Terminal) Close() error {
	close(t.done)
	t.wg.Wait()

	_, _ = io.WriteString(t.output, showCursor+"\r\n")

	var errs []error
	if err := t.input.Restore(); err != nil {
		errs = append(errs, fmt.Errorf("restoring terminal: %w", err))
	}
	if err := t.input.Close(); err != nil {
		errs = append(errs, fmt.Errorf("closing terminal: %w", err))
	}
	return errors.Join(errs...)
}

// IsTerminal returns whether the file is a character device.
func IsTerminal(file *os.File) bool {
	info, err := file.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
