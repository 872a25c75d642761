package cpu

// Instruction is a decoded instruction word with all operand fields extracted
// at their standard nibble positions. Which fields are meaningful depends on
// the instruction.
type Instruction struct {
	Word     uint16 // raw instruction word
	Category uint8  // bits 12-15
	X        uint8  // register X, bits 8-11
	Y        uint8  // register Y, bits 4-7
	N        uint8  // 4 bit immediate, bits 0-3
	KK       uint8  // 8 bit immediate, bits 0-7
	NNN      uint16 // 12 bit address, bits 0-11
}

// Decode extracts the opcode category and operand fields of an instruction word.
func Decode(word uint16) Instruction {
	return Instruction{
		Word:     word,
		Category: uint8(word >> 12),
		X:        uint8(word>>8) & 0xF,
		Y:        uint8(word>>4) & 0xF,
		N:        uint8(word) & 0xF,
		KK:       uint8(word),
		NNN:      word & 0x0FFF,
	}
}
