// Package options contains the program options.
package options

import "github.com/retroenv/retrochip8/internal/cpu"

// Error policies of the emulator.
const (
	ErrorPolicyHalt = "halt"
	ErrorPolicySkip = "skip"
)

// Frontend modes.
const (
	ModeTerminal = "terminal"
	ModeGUI      = "gui"
	ModeHeadless = "headless"
)

// Positional contains positional arguments.
type Positional struct {
	File string `arg:"positional" usage:"ROM file to run, starts the interactive mode if omitted"`
}

// Parameters contains file path options.
type Parameters struct {
	Input string `flag:"i" usage:"input ROM file"`
	Trace string `flag:"trace" usage:"file to write an instruction trace to"`
}

// Flags contains behavior options.
type Flags struct {
	Mode        string `flag:"mode" usage:"frontend: terminal, gui, headless" default:"terminal"`
	Cycles      uint64 `flag:"cycles" usage:"stop after the given number of instructions, 0 for no limit"`
	ClockRate   int    `flag:"hz" usage:"instructions executed per second" default:"700"`
	FrameRate   int    `flag:"fps" usage:"screen refreshes and input polls per second" default:"60"`
	ErrorPolicy string `flag:"on-error" usage:"action on an instruction error: halt, skip" default:"halt"`
	KeyHold     int    `flag:"key-hold" usage:"milliseconds a key counts as pressed after the terminal reported it" default:"150"`
	Scale       int    `flag:"scale" usage:"window scale factor in gui mode" default:"10"`
	Debug       bool   `flag:"debug" usage:"enable debug logging"`
	Quiet       bool   `flag:"q" usage:"quiet mode"`
}

// Headless returns whether the emulator runs without input and prints the
// final screen.
func (f Flags) Headless() bool {
	return f.Mode == ModeHeadless
}

// QuirkFlags disable canonical behaviors of the processor.
type QuirkFlags struct {
	NoClip           bool `flag:"no-clip" usage:"wrap sprites around the screen edges instead of clipping them"`
	NoIndexIncrement bool `flag:"no-index-increment" usage:"leave I unmodified after register store and load"`
	ShiftVX          bool `flag:"shift-vx" usage:"shift Vx in place instead of shifting Vy into Vx"`
	NoVFReset        bool `flag:"no-vf-reset" usage:"leave VF unmodified by OR, AND and XOR"`
}

// Program options of the emulator.
type Program struct {
	Positional
	Parameters
	Flags
	QuirkFlags
}

// Interactive returns whether no ROM was given and instruction words are
// read from the user instead.
func (p Program) Interactive() bool {
	return p.Input == ""
}

// Emulator defines options to control the scheduling loop.
type Emulator struct {
	ClockRate   int
	TimerRate   int
	FrameRate   int
	Cycles      uint64
	HaltOnError bool
}

// Default values, they have to match the default tags of the flags.
const (
	DefaultClockRate = 700
	DefaultTimerRate = cpu.TimerFrequency
	DefaultFrameRate = 60
	DefaultKeyHold   = 150 // milliseconds
	DefaultScale     = 10
)

// NewProgram returns program options with default values.
func NewProgram() Program {
	return Program{
		Flags: Flags{
			Mode:        ModeTerminal,
			ClockRate:   DefaultClockRate,
			FrameRate:   DefaultFrameRate,
			ErrorPolicy: ErrorPolicyHalt,
			KeyHold:     DefaultKeyHold,
			Scale:       DefaultScale,
		},
	}
}

// NewEmulator returns a new emulator options instance with default options.
func NewEmulator() Emulator {
	return Emulator{
		ClockRate:   DefaultClockRate,
		TimerRate:   DefaultTimerRate,
		FrameRate:   DefaultFrameRate,
		HaltOnError: true,
	}
}
