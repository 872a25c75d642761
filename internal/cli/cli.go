// Package cli handles command line interface logic
package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/retroenv/retrochip8/internal/options"
	retrocli "github.com/retroenv/retrogolib/cli"
)

// ParseFlags parses command line flags and returns the program options
func ParseFlags() (options.Program, error) {
	opts := options.NewProgram()
	flags := newFlagSet(&opts)

	args, err := flags.Parse(os.Args[1:])
	if err != nil {
		// the flag set printed the usage already
		if errors.Is(err, retrocli.ErrHelpRequested) {
			return opts, &UsageError{}
		}
		return opts, &UsageError{msg: err.Error()}
	}

	if err := validateArgs(args, flags); err != nil {
		return opts, err
	}

	if opts.File != "" {
		if opts.Input != "" {
			return opts, &UsageError{
				flags: flags,
				msg:   fmt.Sprintf("ROM file given twice: %s and %s", opts.Input, opts.File),
			}
		}
		opts.Input = opts.File
	}

	if err := normalizeOptions(&opts); err != nil {
		return opts, err
	}
	return opts, nil
}

func newFlagSet(opts *options.Program) *retrocli.FlagSet {
	flags := retrocli.NewFlagSet("retrochip8")
	flags.AddSection("Parameters", &opts.Parameters)
	flags.AddSection("Flags", &opts.Flags)
	flags.AddSection("Quirks", &opts.QuirkFlags)
	flags.AddPositional(&opts.Positional)
	return flags
}

// UsageError represents an error that should show usage information
type UsageError struct {
	flags *retrocli.FlagSet
	msg   string
}

func (e *UsageError) Error() string {
	return e.msg
}

// ShowUsage prints the usage unless the flag parser did already.
func (e *UsageError) ShowUsage() {
	if e.flags != nil {
		e.flags.ShowUsage()
	}
}

// validateArgs checks that no arguments follow the ROM file
func validateArgs(args []string, flags *retrocli.FlagSet) error {
	if len(args) == 0 {
		return nil
	}

	arg := args[0]
	if arg != "" && arg[0] == '-' {
		return &UsageError{
			flags: flags,
			msg:   fmt.Sprintf("Potential argument %s found after ROM file, please pass the ROM file as last argument", arg),
		}
	}
	return &UsageError{
		flags: flags,
		msg:   fmt.Sprintf("unexpected argument %s, only one ROM file can be run", arg),
	}
}

// normalizeOptions normalizes and validates option values
func normalizeOptions(opts *options.Program) error {
	opts.Mode = strings.ToLower(opts.Mode)
	switch opts.Mode {
	case options.ModeTerminal, options.ModeHeadless:
	case options.ModeGUI:
		if opts.Interactive() {
			return errors.New("gui mode needs a ROM file, the interactive mode runs in the terminal")
		}
	default:
		return fmt.Errorf("unsupported mode: %s. Valid options: %s, %s, %s",
			opts.Mode, options.ModeTerminal, options.ModeGUI, options.ModeHeadless)
	}

	opts.ErrorPolicy = strings.ToLower(opts.ErrorPolicy)
	switch opts.ErrorPolicy {
	case options.ErrorPolicyHalt, options.ErrorPolicySkip:
	default:
		return fmt.Errorf("unsupported error policy: %s. Valid options: %s, %s",
			opts.ErrorPolicy, options.ErrorPolicyHalt, options.ErrorPolicySkip)
	}

	if opts.ClockRate <= 0 {
		return fmt.Errorf("invalid clock rate %d, must be positive", opts.ClockRate)
	}
	if opts.FrameRate <= 0 {
		return fmt.Errorf("invalid frame rate %d, must be positive", opts.FrameRate)
	}
	if opts.Scale <= 0 {
		return fmt.Errorf("invalid scale %d, must be positive", opts.Scale)
	}
	if opts.KeyHold < 0 {
		return fmt.Errorf("invalid key hold %d, must not be negative", opts.KeyHold)
	}
	return nil
}
