package cpu

import (
	"fmt"
	"math/rand/v2"
)

// Trace describes an instruction that is about to be executed.
type Trace struct {
	PC     uint16
	Opcode uint16
	I      uint16
	SP     int
}

// Tracer is called before every executed instruction.
type Tracer func(Trace)

// Option configures a Processor.
type Option func(*Processor)

// WithQuirks sets the quirks used by the processor.
func WithQuirks(quirks Quirks) Option {
	return func(p *Processor) {
		p.quirks = quirks
	}
}

// WithRandom sets the random byte source used by the RND instruction.
func WithRandom(random func() uint8) Option {
	return func(p *Processor) {
		p.random = random
	}
}

// WithTracer sets a callback that observes every executed instruction.
func WithTracer(tracer Tracer) Option {
	return func(p *Processor) {
		p.tracer = tracer
	}
}

// Processor is a CHIP-8 processor including all of its machine state.
// It is not safe for concurrent use.
type Processor struct {
	v  [RegisterCount]uint8
	i  uint16
	pc uint16

	stack [StackDepth]uint16
	sp    int

	dt uint8 // delay timer
	st uint8 // sound timer

	memory [MemorySize]uint8
	screen [ScreenWidth * ScreenHeight]bool

	keys     [KeyCount]bool
	released int // key released since the last instruction, noKey if none

	quirks Quirks
	random func() uint8
	tracer Tracer
}

// New returns a new processor in its reset state.
func New(opts ...Option) *Processor {
	p := &Processor{
		quirks: DefaultQuirks(),
		random: randomByte,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.Reset()
	return p
}

func randomByte() uint8 {
	return uint8(rand.UintN(256))
}

// Reset clears the complete machine state, restores the font and sets the
// program counter to ProgramStart. The configured options are kept.
func (p *Processor) Reset() {
	p.v = [RegisterCount]uint8{}
	p.i = 0
	p.pc = ProgramStart
	p.stack = [StackDepth]uint16{}
	p.sp = 0
	p.dt = 0
	p.st = 0
	p.memory = [MemorySize]uint8{}
	copy(p.memory[FontAddress:], font[:])
	p.screen = [ScreenWidth * ScreenHeight]bool{}
	p.keys = [KeyCount]bool{}
	p.released = noKey
}

// LoadProgram copies the program bytes into memory starting at ProgramStart.
func (p *Processor) LoadProgram(program []byte) error {
	if len(program) > MaxProgramSize {
		return fmt.Errorf("%w: %d bytes, maximum is %d", ErrProgramTooLarge, len(program), MaxProgramSize)
	}
	copy(p.memory[ProgramStart:], program)
	return nil
}

// Step fetches the instruction at the program counter, executes it and
// advances the program counter. On error the program counter is left
// pointing at the failed instruction, Skip moves past it.
func (p *Processor) Step() error {
	if int(p.pc)+opcodeSize > MemorySize {
		return &FaultError{Err: ErrMemoryAccess, PC: p.pc, Address: int(p.pc)}
	}

	word := uint16(p.memory[p.pc])<<8 | uint16(p.memory[p.pc+1])
	if err := p.Execute(word); err != nil {
		return err
	}
	p.pc += opcodeSize
	return nil
}

// Execute executes the given instruction word without the implicit program
// counter advance of Step. A pending key release observation is consumed.
func (p *Processor) Execute(instruction uint16) error {
	if p.tracer != nil {
		p.tracer(Trace{PC: p.pc, Opcode: instruction, I: p.i, SP: p.sp})
	}

	err := p.execute(Decode(instruction))
	p.released = noKey
	return err
}

// Skip advances the program counter past the current instruction, allowing a
// driver to continue after an error.
func (p *Processor) Skip() {
	p.pc += opcodeSize
}

// OnTick decrements the delay and sound timers, stopping at 0.
func (p *Processor) OnTick() {
	if p.dt > 0 {
		p.dt--
	}
	if p.st > 0 {
		p.st--
	}
}

// UpdateInputs replaces the keypad state. A key that changed from pressed
// to released is latched for the wait for key instruction, the highest one
// wins if several were released. A previously latched release is kept if no
// key was released.
func (p *Processor) UpdateInputs(states [KeyCount]bool) {
	for key, pressed := range states {
		if p.keys[key] && !pressed {
			p.released = key
		}
	}
	p.keys = states
}

// Register returns the value of register Vx.
func (p *Processor) Register(x int) uint8 {
	return p.v[x&0xF]
}

// Registers returns a copy of all registers.
func (p *Processor) Registers() [RegisterCount]uint8 {
	return p.v
}

// PC returns the program counter.
func (p *Processor) PC() uint16 {
	return p.pc
}

// I returns the index register.
func (p *Processor) I() uint16 {
	return p.i
}

// SP returns the number of return addresses on the stack.
func (p *Processor) SP() int {
	return p.sp
}

// Memory returns the byte at the given address, wrapped to the address space.
func (p *Processor) Memory(address uint16) uint8 {
	return p.memory[int(address)%MemorySize]
}

// Pixel returns whether the pixel is set. Coordinates wrap around modulo the
// screen dimensions.
func (p *Processor) Pixel(x, y int) bool {
	x %= ScreenWidth
	if x < 0 {
		x += ScreenWidth
	}
	y %= ScreenHeight
	if y < 0 {
		y += ScreenHeight
	}
	return p.screen[y*ScreenWidth+x]
}

// DelayTimer returns the delay timer value.
func (p *Processor) DelayTimer() uint8 {
	return p.dt
}

// SoundTimer returns the sound timer value, a tone plays while it is not 0.
func (p *Processor) SoundTimer() uint8 {
	return p.st
}

// KeyPressed returns whether the given key of the keypad is pressed.
func (p *Processor) KeyPressed(key int) bool {
	return p.keys[key&0xF]
}

// Quirks returns the quirks used by the processor.
func (p *Processor) Quirks() Quirks {
	return p.quirks
}
