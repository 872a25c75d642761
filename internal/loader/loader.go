// Package loader handles ROM file loading operations.
package loader

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/retroenv/retrochip8/internal/cpu"
)

// ErrEmptyROM is returned for ROM files without any content.
var ErrEmptyROM = errors.New("empty ROM")

// Loader handles loading ROM files from disk.
type Loader struct{}

// New creates a new ROM loader.
func New() *Loader {
	return &Loader{}
}

// Load reads a raw CHIP-8 ROM file. CHIP-8 ROMs have no header, the file
// content is the program that gets loaded to cpu.ProgramStart.
func (l *Loader) Load(path string) ([]byte, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening file %s: %w", path, err)
	}
	defer func() { _ = file.Close() }()

	return l.LoadReader(file)
}

// LoadReader reads a raw CHIP-8 ROM from the reader.
func (l *Loader) LoadReader(reader io.Reader) ([]byte, error) {
	// read one byte more than fits to detect oversized ROMs
	data, err := io.ReadAll(io.LimitReader(reader, cpu.MaxProgramSize+1))
	if err != nil {
		return nil, fmt.Errorf("reading ROM: %w", err)
	}

	switch {
	case len(data) == 0:
		return nil, ErrEmptyROM
	case len(data) > cpu.MaxProgramSize:
		return nil, fmt.Errorf("%w: ROM exceeds %d bytes", cpu.ErrProgramTooLarge, cpu.MaxProgramSize)
	}
	return data, nil
}
