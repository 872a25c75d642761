// Package runner implements the scheduling loop that drives the processor.
// Instruction execution, the 60Hz timers and the frontend refresh run in
// independent clock domains.
package runner

import (
	"context"
	"fmt"
	"time"

	"github.com/retroenv/retrochip8/internal/cpu"
	"github.com/retroenv/retrochip8/internal/options"
	"github.com/retroenv/retrogolib/log"
)

// Machine is the processor interface that the runner drives.
type Machine interface {
	FrameBuffer

	Step() error
	Skip()
	OnTick()
	UpdateInputs(states [cpu.KeyCount]bool)
	PC() uint16
	SoundTimer() uint8
}

// FrameBuffer gives read access to the screen pixels.
type FrameBuffer interface {
	Pixel(x, y int) bool
}

// Frontend renders the screen and provides the keypad state.
type Frontend interface {
	// Inputs returns the current keypad state and whether the user requested
	// to quit.
	Inputs() (keys [cpu.KeyCount]bool, quit bool)
	// Render displays the framebuffer.
	Render(fb FrameBuffer)
	// Beep switches the tone on or off.
	Beep(on bool)
	// Close releases the frontend resources.
	Close() error
}

// StopReason describes why a run ended.
type StopReason int

// Stop reasons.
const (
	StopCancelled StopReason = iota
	StopCycleLimit
	StopQuit
	StopError
)

func (s StopReason) String() string {
	switch s {
	case StopCancelled:
		return "cancelled"
	case StopCycleLimit:
		return "cycle limit reached"
	case StopQuit:
		return "quit"
	case StopError:
		return "error"
	default:
		return fmt.Sprintf("StopReason(%d)", int(s))
	}
}

// Result contains the statistics of a run.
type Result struct {
	Cycles uint64 // executed instructions, including failed ones
	Errors int    // skipped failed instructions
	Reason StopReason
}

// Runner schedules the processor and the frontend.
type Runner struct {
	logger   *log.Logger
	machine  Machine
	frontend Frontend
	opts     options.Emulator

	cycles  uint64
	errors  int
	beeping bool
}

// New creates a new runner.
func New(logger *log.Logger, machine Machine, frontend Frontend, opts options.Emulator) *Runner {
	return &Runner{
		logger:   logger,
		machine:  machine,
		frontend: frontend,
		opts:     opts,
	}
}

// Run executes instructions in real time until the context gets cancelled,
// the cycle limit is reached, the frontend requests to quit or an
// instruction fails with the halt error policy.
func (r *Runner) Run(ctx context.Context) (Result, error) {
	cpuTicker := time.NewTicker(interval(r.opts.ClockRate))
	defer cpuTicker.Stop()
	timerTicker := time.NewTicker(interval(r.opts.TimerRate))
	defer timerTicker.Stop()
	frameTicker := time.NewTicker(interval(r.opts.FrameRate))
	defer frameTicker.Stop()

	r.logger.Debug("Starting emulation",
		log.Int("clock_rate", r.opts.ClockRate),
		log.Int("timer_rate", r.opts.TimerRate),
		log.Int("frame_rate", r.opts.FrameRate))

	for {
		select {
		case <-ctx.Done():
			return r.result(StopCancelled), nil

		case <-cpuTicker.C:
			if done, reason, err := r.step(); done {
				return r.result(reason), err
			}

		case <-timerTicker.C:
			r.tick()

		case <-frameTicker.C:
			if r.refresh() {
				return r.result(StopQuit), nil
			}
		}
	}
}

// RunCycles executes up to n instructions as fast as possible. Timers and
// the frontend are serviced after the number of instructions that matches
// their rate relative to the clock rate.
func (r *Runner) RunCycles(ctx context.Context, n uint64) (Result, error) {
	timerEvery := cyclesPer(r.opts.ClockRate, r.opts.TimerRate)
	frameEvery := cyclesPer(r.opts.ClockRate, r.opts.FrameRate)

	for i := uint64(1); i <= n; i++ {
		if err := ctx.Err(); err != nil {
			return r.result(StopCancelled), nil
		}

		if done, reason, err := r.step(); done {
			r.frontend.Render(r.machine)
			return r.result(reason), err
		}
		if i%timerEvery == 0 {
			r.tick()
		}
		if i%frameEvery == 0 && r.refresh() {
			return r.result(StopQuit), nil
		}
	}

	r.frontend.Render(r.machine)
	return r.result(StopCycleLimit), nil
}

// step executes one instruction and returns whether the run is done.
func (r *Runner) step() (bool, StopReason, error) {
	pc := r.machine.PC()
	err := r.machine.Step()
	r.cycles++

	if err != nil {
		if r.opts.HaltOnError {
			return true, StopError, fmt.Errorf("executing instruction at $%04X: %w", pc, err)
		}

		r.errors++
		r.logger.Warn("Skipping failed instruction",
			log.Hex("pc", pc),
			log.Err(err))
		r.machine.Skip()
	}

	if r.opts.Cycles > 0 && r.cycles >= r.opts.Cycles {
		return true, StopCycleLimit, nil
	}
	return false, 0, nil
}

// tick decrements the timers and switches the tone on sound timer changes.
func (r *Runner) tick() {
	r.machine.OnTick()

	beeping := r.machine.SoundTimer() > 0
	if beeping != r.beeping {
		r.beeping = beeping
		r.frontend.Beep(beeping)
	}
}

// refresh polls the frontend input and renders the screen. It returns
// whether the frontend requested to quit.
func (r *Runner) refresh() bool {
	keys, quit := r.frontend.Inputs()
	if quit {
		return true
	}
	r.machine.UpdateInputs(keys)
	r.frontend.Render(r.machine)
	return false
}

func (r *Runner) result(reason StopReason) Result {
	r.logger.Debug("Emulation stopped",
		log.String("reason", reason.String()),
		log.Int("errors", r.errors))

	return Result{
		Cycles: r.cycles,
		Errors: r.errors,
		Reason: reason,
	}
}

func interval(rate int) time.Duration {
	if rate <= 0 {
		rate = 1
	}
	return time.Second / time.Duration(rate)
}

func cyclesPer(clockRate, rate int) uint64 {
	if rate <= 0 || clockRate <= rate {
		return 1
	}
	return uint64(clockRate / rate)
}
