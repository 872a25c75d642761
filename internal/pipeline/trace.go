package pipeline

import (
	"bufio"
	"fmt"
	"os"

	"github.com/retroenv/retrochip8/internal/cpu"
	"github.com/retroenv/retrochip8/internal/disasm"
	"github.com/retroenv/retrochip8/internal/options"
	"github.com/retroenv/retrogolib/log"
)

// tracer writes executed instructions to the trace file and, with debug
// logging in headless mode, to the logger.
type tracer struct {
	logger *log.Logger
	debug  bool

	file   *os.File
	writer *bufio.Writer
	err    error
}

func (p *Pipeline) openTrace(opts options.Program) (*tracer, error) {
	t := &tracer{
		logger: p.logger,
		debug:  opts.Debug && opts.Headless(),
	}
	if opts.Trace == "" {
		return t, nil
	}

	file, err := os.Create(opts.Trace)
	if err != nil {
		return nil, fmt.Errorf("creating trace file %s: %w", opts.Trace, err)
	}
	t.file = file
	t.writer = bufio.NewWriter(file)
	return t, nil
}

func (t *tracer) observe(trace cpu.Trace) {
	if t.debug {
		code, _ := disasm.Format(trace.Opcode)
		t.logger.Debug("Executing instruction",
			log.Hex("pc", trace.PC),
			log.Hex("opcode", trace.Opcode),
			log.String("code", code))
	}

	if t.writer == nil || t.err != nil {
		return
	}
	if _, err := fmt.Fprintln(t.writer, disasm.TraceLine(trace.PC, trace.Opcode)); err != nil {
		t.err = err
	}
}

func (t *tracer) close() {
	if t.file == nil {
		return
	}

	if t.err == nil {
		t.err = t.writer.Flush()
	}
	if err := t.file.Close(); err != nil && t.err == nil {
		t.err = err
	}
	if t.err != nil {
		t.logger.Error("Writing trace file failed", log.Err(t.err))
	}
}
