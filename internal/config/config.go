// Package config handles application configuration and setup
package config

import (
	"time"

	"github.com/retroenv/retrochip8/internal/cpu"
	"github.com/retroenv/retrochip8/internal/options"
	"github.com/retroenv/retrogolib/log"
)

// CreateLogger creates a logger with appropriate settings
func CreateLogger(debug, quiet bool) *log.Logger {
	cfg := log.DefaultConfig()
	if debug {
		cfg.Level = log.DebugLevel
	} else if quiet {
		cfg.Level = log.ErrorLevel
	}
	return log.NewWithConfig(cfg)
}

// Quirks converts the quirk flags into processor quirks.
func Quirks(flags options.QuirkFlags) cpu.Quirks {
	quirks := cpu.DefaultQuirks()
	quirks.ClipSprites = !flags.NoClip
	quirks.LoadStoreIncrementI = !flags.NoIndexIncrement
	quirks.ShiftUsesVY = !flags.ShiftVX
	quirks.LogicResetsVF = !flags.NoVFReset
	return quirks
}

// Emulator creates the scheduling options from the program options.
func Emulator(opts options.Program) options.Emulator {
	emu := options.NewEmulator()
	if opts.ClockRate > 0 {
		emu.ClockRate = opts.ClockRate
	}
	if opts.FrameRate > 0 {
		emu.FrameRate = opts.FrameRate
	}
	emu.Cycles = opts.Cycles
	emu.HaltOnError = opts.ErrorPolicy != options.ErrorPolicySkip
	return emu
}

// KeyHold returns the duration a terminal key counts as pressed.
func KeyHold(opts options.Program) time.Duration {
	return time.Duration(opts.KeyHold) * time.Millisecond
}
