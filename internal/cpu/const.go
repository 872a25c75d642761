package cpu

// Machine dimensions.
const (
	// MemorySize is the size of the addressable memory in bytes.
	MemorySize = 0x1000

	// ProgramStart is the address that programs are loaded to and that
	// execution starts at.
	ProgramStart = 0x200

	// MaxProgramSize is the largest program that fits into memory.
	MaxProgramSize = MemorySize - ProgramStart

	// RegisterCount is the number of general purpose registers V0-VF.
	RegisterCount = 16

	// StackDepth is the number of return addresses the stack can hold.
	StackDepth = 16

	// KeyCount is the number of keys of the hex keypad.
	KeyCount = 16

	// ScreenWidth and ScreenHeight are the framebuffer dimensions in pixels.
	ScreenWidth  = 64
	ScreenHeight = 32

	// TimerFrequency is the rate in Hz that OnTick is expected to be called at.
	TimerFrequency = 60

	opcodeSize = 2
	flag       = 0xF
	noKey      = -1
)

// Font layout.
const (
	// FontAddress is the memory address of the glyph for digit 0.
	FontAddress = 0x000

	// FontStride is the distance in bytes between two glyphs.
	FontStride = 6

	// FontGlyphSize is the number of bytes of a glyph, one byte per row.
	FontGlyphSize = 5
)

// font contains the glyphs for the hex digits 0-F, each padded to FontStride.
var font = [16 * FontStride]uint8{
	0xF0, 0x90, 0x90, 0x90, 0xF0, 0x00, // 0
	0x00, 0x60, 0x20, 0x20, 0x70, 0x00, // 1
	0xF0, 0x10, 0xF0, 0x80, 0xF0, 0x00, // 2
	0xF0, 0x10, 0xF0, 0x10, 0xF0, 0x00, // 3
	0x90, 0x90, 0xF0, 0x10, 0x10, 0x00, // 4
	0xF0, 0x80, 0xF0, 0x10, 0xF0, 0x00, // 5
	0xF0, 0x80, 0xF0, 0x90, 0xF0, 0x00, // 6
	0xF0, 0x10, 0x20, 0x40, 0x40, 0x00, // 7
	0xF0, 0x90, 0xF0, 0x90, 0xF0, 0x00, // 8
	0xF0, 0x90, 0xF0, 0x10, 0xF0, 0x00, // 9
	0xF0, 0x90, 0xF0, 0x90, 0x90, 0x00, // A
	0xE0, 0x90, 0xE0, 0x90, 0xE0, 0x00, // B
	0xF0, 0x80, 0x80, 0x80, 0xF0, 0x00, // C
	0xE0, 0x90, 0x90, 0x90, 0xE0, 0x00, // D
	0xF0, 0x80, 0xF0, 0x80, 0xF0, 0x00, // E
	0xF0, 0x80, 0xF0, 0x80, 0x80, 0x00, // F
}

// Glyph returns the 5 rows of the font glyph for the given hex digit.
func Glyph(digit uint8) [FontGlyphSize]uint8 {
	var glyph [FontGlyphSize]uint8
	offset := int(digit&0xF) * FontStride
	copy(glyph[:], font[offset:offset+FontGlyphSize])
	return glyph
}
