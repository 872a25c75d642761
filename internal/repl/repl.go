// Package repl implements the interactive mode. Instruction words typed by
// the user are executed one at a time and the screen and registers are
// printed after each of them.
package repl

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/retroenv/retrochip8/internal/cpu"
	"github.com/retroenv/retrochip8/internal/disasm"
	"github.com/retroenv/retrochip8/internal/headless"
	"github.com/retroenv/retrogolib/log"
)

// Prompt is printed before every command is read.
const Prompt = "Enter a command: "

// Commands besides instruction words.
const (
	commandTick = "tick"
	commandQuit = "quit"
	commandExit = "exit"
)

// Session reads commands from input and writes the results to output.
type Session struct {
	logger *log.Logger
	proc   *cpu.Processor
	input  io.Reader
	output io.Writer
}

// New returns a new interactive session for the processor.
func New(logger *log.Logger, proc *cpu.Processor, input io.Reader, output io.Writer) *Session {
	return &Session{
		logger: logger,
		proc:   proc,
		input:  input,
		output: output,
	}
}

// Run processes commands until the input ends, a quit command is read or
// the context gets cancelled. Every line holds a hexadecimal instruction
// word, optionally prefixed by $ or 0x, or one of the commands tick, quit
// and exit. Failed instructions are logged and do not end the session.
func (s *Session) Run(ctx context.Context) error {
	lines := make(chan string)
	readErr := make(chan error, 1)
	done := make(chan struct{})
	defer close(done)
	go readLines(s.input, lines, readErr, done)

	if err := s.write(headless.Screen(s.proc)); err != nil {
		return err
	}

	for {
		if err := s.write(Prompt); err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			return nil

		case err := <-readErr:
			if err != nil {
				return fmt.Errorf("reading command: %w", err)
			}
			return nil

		case line := <-lines:
			quit, err := s.handle(line)
			if err != nil || quit {
				return err
			}
		}
	}
}

// readLines sends every input line to lines and the scanner result to
// readErr once the input ended.
func readLines(input io.Reader, lines chan<- string, readErr chan<- error, done <-chan struct{}) {
	scanner := bufio.NewScanner(input)
	for scanner.Scan() {
		select {
		case lines <- scanner.Text():
		case <-done:
			return
		}
	}
	readErr <- scanner.Err()
}

// handle executes a single command and returns whether the session ends.
func (s *Session) handle(line string) (bool, error) {
	line = strings.TrimSpace(line)
	switch strings.ToLower(line) {
	case "":
		return false, nil
	case commandQuit, commandExit:
		return true, nil
	case commandTick:
		s.proc.OnTick()
		return false, s.render(commandTick)
	}

	word, err := ParseWord(line)
	if err != nil {
		s.logger.Error("Invalid instruction word",
			log.String("input", line),
			log.Err(err))
		return false, nil
	}

	if err := s.proc.Execute(word); err != nil {
		s.logger.Error("Executing instruction failed",
			log.Hex("opcode", word),
			log.Err(err))
		return false, nil
	}

	code, _ := disasm.Format(word)
	return false, s.render(code)
}

// render prints the executed command, the screen and the registers.
func (s *Session) render(command string) error {
	return s.write(command + "\n" + headless.Screen(s.proc) + headless.State(s.proc))
}

func (s *Session) write(text string) error {
	if _, err := io.WriteString(s.output, text); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	return nil
}

// ParseWord parses a hexadecimal instruction word with an optional $ or 0x
// prefix.
func ParseWord(text string) (uint16, error) {
	text = strings.TrimPrefix(text, "$")
	text = strings.TrimPrefix(strings.TrimPrefix(text, "0x"), "0X")
	value, err := strconv.ParseUint(text, 16, 16)
	if err != nil {
		return 0, fmt.Errorf("parsing instruction word %q: %w", text, err)
	}
	return uint16(value), nil
}
