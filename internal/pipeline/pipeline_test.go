package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/retroenv/retrochip8/internal/cpu"
	"github.com/retroenv/retrochip8/internal/headless"
	"github.com/retroenv/retrochip8/internal/options"
	"github.com/retroenv/retrochip8/internal/repl"
	"github.com/retroenv/retrochip8/internal/runner"
	"github.com/retroenv/retrochip8/internal/window"
	"github.com/retroenv/retrogolib/arch/cpu/chip8"
	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/gui"
	"github.com/retroenv/retrogolib/log"
)

// drawDigitROM draws the font glyph for 5 at (8, 4) and loops forever.
var drawDigitROM = []byte{
	0x60, 0x05, // ld V0, $05
	0xF0, 0x29, // ld F, V0
	0x61, 0x08, // ld V1, $08
	0x62, 0x04, // ld V2, $04
	0xD1, 0x25, // drw V1, V2, $5
	0x12, 0x0A, // jp $20A
}

func headlessOptions(cycles uint64) options.Program {
	opts := options.NewProgram()
	opts.Mode = options.ModeHeadless
	opts.Cycles = cycles
	return opts
}

func TestNew(t *testing.T) {
	p := New(log.NewTestLogger(t), nil, &bytes.Buffer{})

	assert.NotNil(t, p)
	assert.NotNil(t, p.logger)
	assert.NotNil(t, p.loader)
}

func TestExecuteWithROM(t *testing.T) {
	var buf bytes.Buffer
	p := New(log.NewTestLogger(t), nil, &buf)
	frontend := headless.New(&buf)

	result, err := p.ExecuteWithROM(context.Background(), drawDigitROM, headlessOptions(10), frontend)
	assert.NoError(t, err)
	assert.Equal(t, runner.StopCycleLimit, result.Reason)
	assert.Equal(t, uint64(10), result.Cycles)

	output := buf.String()
	assert.Contains(t, output, "V0=05 V1=08 V2=04")
	assert.Contains(t, output, "PC=020A")

	buf.Reset()
	assert.NoError(t, frontend.Close())
	lines := strings.Split(buf.String(), "\n")
	assert.Equal(t, "........####", lines[4][:12]) // glyph row 0xF0
	assert.Equal(t, "........#...", lines[5][:12]) // glyph row 0x80
	assert.Equal(t, "...........#", lines[7][:12]) // glyph row 0x10
}

func TestExecuteWithROM_InvalidOpcode(t *testing.T) {
	var buf bytes.Buffer
	p := New(log.NewTestLogger(t), nil, &buf)

	_, err := p.ExecuteWithROM(context.Background(), []byte{0x00, 0x00}, headlessOptions(5), headless.New(&buf))
	assert.True(t, errors.Is(err, cpu.ErrInvalidOpcode))

	opts := headlessOptions(5)
	opts.ErrorPolicy = options.ErrorPolicySkip
	result, err := p.ExecuteWithROM(context.Background(), []byte{0x00, 0x00}, opts, headless.New(&buf))
	assert.NoError(t, err)
	assert.Equal(t, 5, result.Errors)
}

func TestExecuteWithROM_Trace(t *testing.T) {
	var buf bytes.Buffer
	p := New(log.NewTestLogger(t), nil, &buf)

	opts := headlessOptions(3)
	opts.Trace = filepath.Join(t.TempDir(), "trace.log")

	_, err := p.ExecuteWithROM(context.Background(), drawDigitROM, opts, headless.New(&buf))
	assert.NoError(t, err)

	data, err := os.ReadFile(opts.Trace)
	assert.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	assert.Len(t, lines, 3)
	assert.Equal(t, fmt.Sprintf("$0200  6005  %s V0, $05", chip8.LdName), lines[0])
	assert.Equal(t, fmt.Sprintf("$0204  6108  %s V1, $08", chip8.LdName), lines[2])
}

func TestExecute(t *testing.T) {
	var buf bytes.Buffer
	p := New(log.NewTestLogger(t), nil, &buf)

	opts := headlessOptions(3)
	opts.Input = filepath.Join(t.TempDir(), "add.ch8")
	assert.NoError(t, os.WriteFile(opts.Input, []byte{0x60, 0x01, 0x61, 0x01, 0x80, 0x14}, 0o600))

	result, err := p.Execute(context.Background(), opts)
	assert.NoError(t, err)
	assert.Equal(t, uint64(3), result.Cycles)
	assert.Contains(t, buf.String(), "V0=02 V1=01")
	assert.Contains(t, buf.String(), strings.Repeat(".", cpu.ScreenWidth))
	assert.True(t, strings.HasSuffix(buf.String(), "tones=0\n"))
}

func TestExecuteInteractive(t *testing.T) {
	var buf bytes.Buffer
	p := New(log.NewTestLogger(t), strings.NewReader("6005\n3005\nquit\n"), &buf)

	opts := options.NewProgram()
	opts.Trace = filepath.Join(t.TempDir(), "trace.log")
	assert.True(t, opts.Interactive())

	result, err := p.Execute(context.Background(), opts)
	assert.NoError(t, err)
	assert.Equal(t, uint64(0), result.Cycles)

	output := buf.String()
	assert.Contains(t, output, repl.Prompt)
	assert.Contains(t, output, "V0=05 ")
	assert.Contains(t, output, "PC=0202") // the skip advanced the program counter

	data, err := os.ReadFile(opts.Trace)
	assert.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	assert.Len(t, lines, 2)
	assert.Equal(t, fmt.Sprintf("$0200  3005  %s V0, $05  ; skip", chip8.SeName), lines[1])
}

// fakeRenderer returns a GUI renderer that reports the window as open for
// the given number of frames, or until the loop gets stopped if frames is 0.
func fakeRenderer(frames int, cleanups *int) gui.Initializer {
	return func(backend gui.Backend) (func() (bool, error), func(), error) {
		rendered := 0
		render := func() (bool, error) {
			_ = backend.Image()
			rendered++
			return frames == 0 || rendered < frames, nil
		}
		return render, func() { *cleanups++ }, nil
	}
}

func TestExecuteWindow(t *testing.T) {
	p := New(log.NewTestLogger(t), nil, &bytes.Buffer{})

	opts := options.NewProgram()
	opts.Mode = options.ModeGUI
	opts.Cycles = 20
	opts.ClockRate = 1000
	opts.FrameRate = 200

	var cleanups int
	win := window.NewWithRenderer(opts.Scale, fakeRenderer(0, &cleanups))
	result, err := p.executeWindow(context.Background(), drawDigitROM, opts, win)
	assert.NoError(t, err)
	assert.Equal(t, runner.StopCycleLimit, result.Reason)
	assert.Equal(t, uint64(20), result.Cycles)

	assert.NoError(t, win.Close())
	assert.Equal(t, 1, cleanups)
}

func TestExecuteWindow_Closed(t *testing.T) {
	p := New(log.NewTestLogger(t), nil, &bytes.Buffer{})

	opts := options.NewProgram()
	opts.Mode = options.ModeGUI
	opts.FrameRate = 200

	var cleanups int
	win := window.NewWithRenderer(opts.Scale, fakeRenderer(1, &cleanups))
	result, err := p.executeWindow(context.Background(), drawDigitROM, opts, win)
	assert.NoError(t, err)
	assert.Equal(t, runner.StopQuit, result.Reason)

	assert.NoError(t, win.Close())
	assert.Equal(t, 1, cleanups)
}

func TestExecuteWindow_SetupError(t *testing.T) {
	p := New(log.NewTestLogger(t), nil, &bytes.Buffer{})

	opts := options.NewProgram()
	opts.Mode = options.ModeGUI

	errSetup := errors.New("no display")
	setup := func(gui.Backend) (func() (bool, error), func(), error) {
		return nil, nil, errSetup
	}
	win := window.NewWithRenderer(opts.Scale, setup)
	_, err := p.executeWindow(context.Background(), drawDigitROM, opts, win)
	assert.ErrorIs(t, err, errSetup)
}

func TestExecute_MissingROM(t *testing.T) {
	p := New(log.NewTestLogger(t), nil, &bytes.Buffer{})

	opts := headlessOptions(1)
	opts.Input = filepath.Join(t.TempDir(), "missing.ch8")

	_, err := p.Execute(context.Background(), opts)
	assert.ErrorContains(t, err, "loading ROM")
}
