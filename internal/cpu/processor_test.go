package cpu

import (
	"errors"
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestNew(t *testing.T) {
	p := New()

	assert.Equal(t, uint16(ProgramStart), p.PC())
	assert.Equal(t, uint16(0), p.I())
	assert.Equal(t, 0, p.SP())
	assert.Equal(t, DefaultQuirks(), p.Quirks())
	for digit := range 16 {
		glyph := Glyph(uint8(digit))
		for row := range FontGlyphSize {
			assert.Equal(t, glyph[row], p.Memory(uint16(FontAddress+digit*FontStride+row)))
		}
		assert.Equal(t, uint8(0), p.Memory(uint16(FontAddress+digit*FontStride+FontGlyphSize)))
	}
}

func TestLoadProgram(t *testing.T) {
	p := New()

	assert.NoError(t, p.LoadProgram([]byte{0x60, 0x01, 0x61, 0x01}))
	assert.Equal(t, uint8(0x60), p.Memory(ProgramStart))
	assert.Equal(t, uint8(0x01), p.Memory(ProgramStart+3))

	err := p.LoadProgram(make([]byte, MaxProgramSize+1))
	assert.True(t, errors.Is(err, ErrProgramTooLarge))

	assert.NoError(t, p.LoadProgram(make([]byte, MaxProgramSize)))
}

func TestStepAddProgram(t *testing.T) {
	p := New()
	assert.NoError(t, p.LoadProgram([]byte{0x60, 0x01, 0x61, 0x01, 0x80, 0x14}))

	for range 3 {
		assert.NoError(t, p.Step())
	}

	assert.Equal(t, uint8(0x02), p.Register(0))
	assert.Equal(t, uint8(0x01), p.Register(1))
	assert.Equal(t, uint8(0), p.Register(0xF))
	assert.Equal(t, uint16(ProgramStart+6), p.PC())
}

func TestStepJumpLandsOnTarget(t *testing.T) {
	p := New()
	assert.NoError(t, p.LoadProgram([]byte{0x12, 0x04, 0x00, 0x00, 0x60, 0x07}))

	assert.NoError(t, p.Step())
	assert.Equal(t, uint16(0x204), p.PC())
	assert.NoError(t, p.Step())
	assert.Equal(t, uint8(0x07), p.Register(0))
}

func TestStepInvalidOpcodeKeepsPC(t *testing.T) {
	p := New()
	assert.NoError(t, p.LoadProgram([]byte{0xFF, 0xFF}))

	err := p.Step()
	assert.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidOpcode))

	var opErr *InvalidOpcodeError
	assert.True(t, errors.As(err, &opErr))
	assert.Equal(t, uint16(0xFFFF), opErr.Opcode)
	assert.Equal(t, uint16(ProgramStart), opErr.PC)
	assert.Equal(t, uint16(ProgramStart), p.PC())

	p.Skip()
	assert.Equal(t, uint16(ProgramStart+2), p.PC())
}

func TestStepFetchPastMemory(t *testing.T) {
	p := New()
	program := make([]byte, MaxProgramSize)
	last := MemorySize - 3 - ProgramStart // instruction at $FFD
	program[last] = 0x60
	program[last+1] = 0x05
	assert.NoError(t, p.LoadProgram(program))
	assert.NoError(t, p.Execute(0x1FFF)) // next fetch at $FFD
	assert.Equal(t, uint16(0xFFD), p.PC())

	assert.NoError(t, p.Step())
	assert.Equal(t, uint8(0x05), p.Register(0))
	assert.Equal(t, uint16(0xFFF), p.PC())

	err := p.Step()
	assert.True(t, errors.Is(err, ErrMemoryAccess))
	assert.Equal(t, uint16(0xFFF), p.PC())
}

func TestExecuteLoadImmediate(t *testing.T) {
	p := New()

	assert.NoError(t, p.Execute(0x6042))
	assert.Equal(t, uint8(0x42), p.Register(0))
	assert.Equal(t, uint16(ProgramStart), p.PC())
}

func TestOnTick(t *testing.T) {
	p := New()
	assert.NoError(t, p.Execute(0x6002))
	assert.NoError(t, p.Execute(0xF015))
	assert.NoError(t, p.Execute(0xF018))

	p.OnTick()
	assert.Equal(t, uint8(1), p.DelayTimer())
	assert.Equal(t, uint8(1), p.SoundTimer())

	p.OnTick()
	p.OnTick()
	assert.Equal(t, uint8(0), p.DelayTimer())
	assert.Equal(t, uint8(0), p.SoundTimer())
}

func TestUpdateInputs(t *testing.T) {
	p := New()

	var keys [KeyCount]bool
	keys[0x3] = true
	keys[0xA] = true
	p.UpdateInputs(keys)
	assert.True(t, p.KeyPressed(0x3))
	assert.True(t, p.KeyPressed(0xA))
	assert.False(t, p.KeyPressed(0x4))
	assert.Equal(t, noKey, p.released)

	keys[0x3] = false
	keys[0xA] = false
	p.UpdateInputs(keys)
	assert.Equal(t, 0xA, p.released)

	// a later update without a release keeps the latched key
	p.UpdateInputs(keys)
	assert.Equal(t, 0xA, p.released)

	// any executed instruction clears the latch
	assert.NoError(t, p.Execute(0x6000))
	assert.Equal(t, noKey, p.released)
}

func TestWaitKeyHighestReleasedKey(t *testing.T) {
	p := New()

	var keys [KeyCount]bool
	keys[0x2] = true
	keys[0x9] = true
	p.UpdateInputs(keys)
	p.UpdateInputs([KeyCount]bool{})

	assert.NoError(t, p.Execute(0xF50A))
	assert.Equal(t, uint8(0x9), p.Register(5))
	assert.Equal(t, uint16(ProgramStart), p.PC())
}

func TestGlyphOne(t *testing.T) {
	assert.Equal(t, [FontGlyphSize]uint8{0x00, 0x60, 0x20, 0x20, 0x70}, Glyph(1))
	assert.Equal(t, uint8(0x00), New().Memory(FontAddress+FontStride))
	assert.Equal(t, uint8(0x60), New().Memory(FontAddress+FontStride+1))
}

func TestPixelWrapsCoordinates(t *testing.T) {
	p := New()
	assert.NoError(t, p.Execute(0xA000)) // glyph 0, top row 0xF0
	assert.NoError(t, p.Execute(0xD001))

	assert.True(t, p.Pixel(0, 0))
	assert.True(t, p.Pixel(ScreenWidth, ScreenHeight))
	assert.True(t, p.Pixel(-ScreenWidth+3, 0))
	assert.False(t, p.Pixel(-1, 0))
}

func TestReset(t *testing.T) {
	p := New(WithQuirks(Quirks{}))
	assert.NoError(t, p.LoadProgram([]byte{0x60, 0x01}))
	assert.NoError(t, p.Step())
	assert.NoError(t, p.Execute(0x2400))

	p.Reset()
	assert.Equal(t, uint8(0), p.Register(0))
	assert.Equal(t, uint16(ProgramStart), p.PC())
	assert.Equal(t, 0, p.SP())
	assert.Equal(t, uint8(0), p.Memory(ProgramStart))
	assert.Equal(t, Quirks{}, p.Quirks())
}

func TestTracer(t *testing.T) {
	var traces []Trace
	p := New(WithTracer(func(trace Trace) {
		traces = append(traces, trace)
	}))
	assert.NoError(t, p.LoadProgram([]byte{0xA1, 0x23, 0x60, 0x01}))

	assert.NoError(t, p.Step())
	assert.NoError(t, p.Step())

	assert.Len(t, traces, 2)
	assert.Equal(t, Trace{PC: 0x200, Opcode: 0xA123}, traces[0])
	assert.Equal(t, Trace{PC: 0x202, Opcode: 0x6001, I: 0x123}, traces[1])
}

func TestFaultErrorMessage(t *testing.T) {
	err := &FaultError{Err: ErrMemoryAccess, Opcode: 0xF355, PC: 0x204, Address: 0x1002}
	assert.Equal(t, "memory access out of range: opcode $F355 at $0204 accessing $1002", err.Error())

	err = &FaultError{Err: ErrStackUnderflow, Opcode: 0x00EE, PC: 0x200, Address: -1}
	assert.Equal(t, "stack underflow: opcode $00EE at $0200", err.Error())
}
