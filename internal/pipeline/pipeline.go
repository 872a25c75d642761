// Package pipeline orchestrates an emulation run.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/retroenv/retrochip8/internal/config"
	"github.com/retroenv/retrochip8/internal/cpu"
	"github.com/retroenv/retrochip8/internal/headless"
	"github.com/retroenv/retrochip8/internal/loader"
	"github.com/retroenv/retrochip8/internal/options"
	"github.com/retroenv/retrochip8/internal/repl"
	"github.com/retroenv/retrochip8/internal/runner"
	"github.com/retroenv/retrochip8/internal/terminal"
	"github.com/retroenv/retrochip8/internal/window"
	"github.com/retroenv/retrogolib/log"
)

// Pipeline orchestrates the complete emulation workflow.
type Pipeline struct {
	logger *log.Logger
	loader *loader.Loader
	input  io.Reader
	output io.Writer
}

// New creates a new emulation pipeline. The interactive mode reads commands
// from input, headless and interactive output is written to output.
func New(logger *log.Logger, input io.Reader, output io.Writer) *Pipeline {
	return &Pipeline{
		logger: logger,
		loader: loader.New(),
		input:  input,
		output: output,
	}
}

// Execute runs the interactive mode if no ROM is given, otherwise it loads
// the ROM, creates the frontend and runs the emulation.
func (p *Pipeline) Execute(ctx context.Context, opts options.Program) (runner.Result, error) {
	if opts.Interactive() {
		return runner.Result{}, p.ExecuteInteractive(ctx, opts)
	}

	rom, err := p.loader.Load(opts.Input)
	if err != nil {
		return runner.Result{}, fmt.Errorf("loading ROM: %w", err)
	}

	p.logger.Info("Running CHIP-8 ROM",
		log.String("file", opts.Input),
		log.String("mode", opts.Mode),
		log.Int("size", len(rom)))

	if opts.Mode == options.ModeGUI {
		win := window.New(opts.Scale)
		result, err := p.executeWindow(ctx, rom, opts, win)
		if closeErr := win.Close(); closeErr != nil {
			err = errors.Join(err, closeErr)
		}
		return result, err
	}

	frontend, err := p.createFrontend(opts)
	if err != nil {
		return runner.Result{}, fmt.Errorf("creating frontend: %w", err)
	}

	result, err := p.ExecuteWithROM(ctx, rom, opts, frontend)
	if closeErr := frontend.Close(); closeErr != nil {
		err = errors.Join(err, closeErr)
	}
	return result, err
}

// ExecuteWithROM runs the emulation of a pre-loaded ROM with the given
// frontend. This is useful for testing and programmatic usage.
func (p *Pipeline) ExecuteWithROM(ctx context.Context, rom []byte, opts options.Program,
	frontend runner.Frontend) (runner.Result, error) {

	trace, err := p.openTrace(opts)
	if err != nil {
		return runner.Result{}, err
	}
	defer trace.close()

	proc := p.newProcessor(opts, trace)
	if err := proc.LoadProgram(rom); err != nil {
		return runner.Result{}, fmt.Errorf("loading program: %w", err)
	}

	r := runner.New(p.logger, proc, frontend, config.Emulator(opts))

	var result runner.Result
	if opts.Headless() && opts.Cycles > 0 {
		result, err = r.RunCycles(ctx, opts.Cycles)
	} else {
		result, err = r.Run(ctx)
	}

	p.logger.Info("Emulation finished",
		log.String("reason", result.Reason.String()),
		log.Int("cycles", int(result.Cycles)),
		log.Int("errors", result.Errors),
		log.Hex("pc", proc.PC()))

	if opts.Headless() {
		if _, dumpErr := io.WriteString(p.output, headless.State(proc)); dumpErr != nil {
			err = errors.Join(err, fmt.Errorf("writing state: %w", dumpErr))
		}
	}
	return result, err
}

// ExecuteInteractive executes instruction words read from the input until
// the input ends or the context gets cancelled.
func (p *Pipeline) ExecuteInteractive(ctx context.Context, opts options.Program) error {
	trace, err := p.openTrace(opts)
	if err != nil {
		return err
	}
	defer trace.close()

	p.logger.Info("Starting interactive mode, enter instruction words in hex, tick or quit")

	proc := p.newProcessor(opts, trace)
	session := repl.New(p.logger, proc, p.input, p.output)
	return session.Run(ctx)
}

// executeWindow runs the emulation on a separate goroutine while the window
// is driven by the calling goroutine, as the GUI renderer requires.
func (p *Pipeline) executeWindow(ctx context.Context, rom []byte, opts options.Program,
	win *window.Window) (runner.Result, error) {

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	type outcome struct {
		result runner.Result
		err    error
	}
	done := make(chan outcome, 1)
	go func() {
		result, err := p.ExecuteWithROM(ctx, rom, opts, win)
		cancel() // stops the window loop
		done <- outcome{result: result, err: err}
	}()

	loopErr := win.Loop(ctx, opts.FrameRate)
	if loopErr != nil {
		cancel()
	}

	out := <-done
	return out.result, errors.Join(out.err, loopErr)
}

// newProcessor creates a processor configured by the options.
func (p *Pipeline) newProcessor(opts options.Program, trace *tracer) *cpu.Processor {
	proc := cpu.New(
		cpu.WithQuirks(config.Quirks(opts.QuirkFlags)),
		cpu.WithTracer(trace.observe),
	)

	quirks := proc.Quirks()
	p.logger.Debug("Processor quirks",
		log.Bool("shift_uses_vy", quirks.ShiftUsesVY),
		log.Bool("logic_resets_vf", quirks.LogicResetsVF),
		log.Bool("load_store_increment_i", quirks.LoadStoreIncrementI),
		log.Bool("clip_sprites", quirks.ClipSprites))
	return proc
}

func (p *Pipeline) createFrontend(opts options.Program) (runner.Frontend, error) {
	if opts.Headless() {
		return headless.New(p.output), nil
	}

	if !terminal.IsTerminal(os.Stdout) {
		return nil, errors.New("output is not a terminal, use -mode headless to run without a terminal")
	}
	return terminal.Open(terminal.DefaultDevice, os.Stdout, config.KeyHold(opts))
}
