// Package disasm formats CHIP-8 instruction words as assembly code. The
// instruction names come from the retrogolib CHIP-8 opcode table, the
// operands are formatted from the operand fields of the instruction word.
package disasm

import (
	"fmt"

	"github.com/retroenv/retrochip8/internal/cpu"
	"github.com/retroenv/retrogolib/arch/cpu/chip8"
)

// Lookup returns the opcode table entry that matches the instruction word.
func Lookup(word uint16) (chip8.Opcode, bool) {
	opcodes := chip8.Opcodes[int(word>>12)]
	for _, op := range opcodes {
		if op.Info.Mask&word == op.Info.Value {
			return op, true
		}
	}
	return chip8.Opcode{}, false
}

// Format returns the assembly representation of the instruction word.
// Unknown instruction words are returned as data and ok is false.
func Format(word uint16) (code string, ok bool) {
	op, ok := Lookup(word)
	if !ok || op.Instruction == nil {
		return fmt.Sprintf(".word $%04X", word), false
	}

	name := op.Instruction.Name
	if params := formatParams(cpu.Decode(word)); params != "" {
		return fmt.Sprintf("%s %s", name, params), true
	}
	return name, true
}

// TraceLine returns a trace line for the instruction word executed at the
// given address, in the form "$0200  6001  ld V0, $01". Conditional skip
// instructions are marked with a "; skip" comment.
func TraceLine(pc, word uint16) string {
	code, _ := Format(word)
	if IsSkip(word) {
		code += "  ; skip"
	}
	return fmt.Sprintf("$%04X  %04X  %s", pc, word, code)
}

// IsSkip returns whether the instruction word conditionally skips the next
// instruction.
func IsSkip(word uint16) bool {
	op, ok := Lookup(word)
	if !ok || op.Instruction == nil {
		return false
	}
	return chip8.SkipInstructions.Contains(op.Instruction.Name)
}

// formatParams formats the operands of the instruction.
func formatParams(ins cpu.Instruction) string {
	switch ins.Category {
	case 0x0:
		return "" // cls, ret
	case 0x1, 0x2:
		return fmt.Sprintf("$%03X", ins.NNN)
	case 0x3, 0x4, 0x6, 0x7, 0xC:
		return fmt.Sprintf("V%X, $%02X", ins.X, ins.KK)
	case 0x5, 0x8, 0x9:
		return fmt.Sprintf("V%X, V%X", ins.X, ins.Y)
	case 0xA:
		return fmt.Sprintf("I, $%03X", ins.NNN)
	case 0xB:
		return fmt.Sprintf("V0, $%03X", ins.NNN)
	case 0xD:
		return fmt.Sprintf("V%X, V%X, $%X", ins.X, ins.Y, ins.N)
	case 0xE:
		return fmt.Sprintf("V%X", ins.X)
	case 0xF:
		return formatMiscParams(ins)
	}
	return ""
}

// formatMiscParams formats the operands of the FxKK instructions.
func formatMiscParams(ins cpu.Instruction) string {
	switch ins.KK {
	case 0x07:
		return fmt.Sprintf("V%X, DT", ins.X)
	case 0x0A:
		return fmt.Sprintf("V%X, K", ins.X)
	case 0x15:
		return fmt.Sprintf("DT, V%X", ins.X)
	case 0x18:
		return fmt.Sprintf("ST, V%X", ins.X)
	case 0x1E:
		return fmt.Sprintf("I, V%X", ins.X)
	case 0x29:
		return fmt.Sprintf("F, V%X", ins.X)
	case 0x33:
		return fmt.Sprintf("B, V%X", ins.X)
	case 0x55:
		return fmt.Sprintf("[I], V%X", ins.X)
	case 0x65:
		return fmt.Sprintf("V%X, [I]", ins.X)
	}
	return ""
}
