package cpu

// cls clears the screen.
func (p *Processor) cls() {
	p.screen = [ScreenWidth * ScreenHeight]bool{}
}

// jump sets the program counter so that the next advance lands on target.
func (p *Processor) jump(target uint16) {
	p.pc = target - opcodeSize
}

// skipIf skips the next instruction if the condition holds.
func (p *Processor) skipIf(condition bool) {
	if condition {
		p.pc += opcodeSize
	}
}

// call pushes the address of the calling instruction and jumps to NNN.
func (p *Processor) call(ins Instruction) error {
	if p.sp >= StackDepth {
		return &FaultError{Err: ErrStackOverflow, Opcode: ins.Word, PC: p.pc, Address: -1}
	}
	p.stack[p.sp] = p.pc
	p.sp++
	p.jump(ins.NNN)
	return nil
}

// ret restores the address of the calling instruction, the next advance
// continues after it.
func (p *Processor) ret(ins Instruction) error {
	if p.sp == 0 {
		return &FaultError{Err: ErrStackUnderflow, Opcode: ins.Word, PC: p.pc, Address: -1}
	}
	p.sp--
	p.pc = p.stack[p.sp]
	return nil
}

// or sets Vx to Vx OR Vy.
func (p *Processor) or(x, y uint8) {
	p.v[x] |= p.v[y]
	p.resetFlag()
}

// and sets Vx to Vx AND Vy.
func (p *Processor) and(x, y uint8) {
	p.v[x] &= p.v[y]
	p.resetFlag()
}

// xor sets Vx to Vx XOR Vy.
func (p *Processor) xor(x, y uint8) {
	p.v[x] ^= p.v[y]
	p.resetFlag()
}

// resetFlag clears VF after a logic instruction if the quirk is enabled.
func (p *Processor) resetFlag() {
	if p.quirks.LogicResetsVF {
		p.v[flag] = 0
	}
}

// add sets VF on carry. Arithmetic flags are written after the result, so
// with VF as destination it ends up holding the flag.
func (p *Processor) add(x, y uint8) {
	sum := uint16(p.v[x]) + uint16(p.v[y])
	p.v[x] = uint8(sum)
	p.v[flag] = boolToFlag(sum > 0xFF)
}

// sub sets Vx to Vx - Vy and VF to 1 if no borrow occurred.
func (p *Processor) sub(x, y uint8) {
	vx, vy := p.v[x], p.v[y]
	p.v[x] = vx - vy
	p.v[flag] = boolToFlag(vy <= vx)
}

// subn sets Vx to Vy - Vx and VF to 1 if no borrow occurred.
func (p *Processor) subn(x, y uint8) {
	vx, vy := p.v[x], p.v[y]
	p.v[x] = vy - vx
	p.v[flag] = boolToFlag(vx <= vy)
}

// shr shifts right by one, VF receives the shifted out bit.
func (p *Processor) shr(x, y uint8) {
	value := p.shiftSource(x, y)
	p.v[x] = value >> 1
	p.v[flag] = value & 0x01
}

// shl shifts left by one, VF receives the shifted out bit.
func (p *Processor) shl(x, y uint8) {
	value := p.shiftSource(x, y)
	p.v[x] = value << 1
	p.v[flag] = value >> 7
}

// shiftSource returns the value to shift, Vy or Vx depending on the quirks.
func (p *Processor) shiftSource(x, y uint8) uint8 {
	if p.quirks.ShiftUsesVY {
		return p.v[y]
	}
	return p.v[x]
}

// drw XORs an 8 pixel wide sprite of N rows read from I onto the screen.
// The sprite origin wraps around the screen, pixels running past the edges
// are clipped or wrapped depending on the quirks.
func (p *Processor) drw(ins Instruction) error {
	rows := int(ins.N)
	if end := int(p.i) + rows; rows > 0 && end > MemorySize {
		return p.memoryFault(ins, end-1)
	}

	originX := int(p.v[ins.X]) % ScreenWidth
	originY := int(p.v[ins.Y]) % ScreenHeight
	p.v[flag] = 0

	for row := range rows {
		y := originY + row
		if y >= ScreenHeight {
			if p.quirks.ClipSprites {
				break
			}
			y %= ScreenHeight
		}

		data := p.memory[int(p.i)+row]
		for col := range 8 {
			if data&(0x80>>col) == 0 {
				continue
			}

			x := originX + col
			if x >= ScreenWidth {
				if p.quirks.ClipSprites {
					break
				}
				x %= ScreenWidth
			}

			pixel := &p.screen[y*ScreenWidth+x]
			if *pixel {
				p.v[flag] = 1
			}
			*pixel = !*pixel
		}
	}
	return nil
}

// waitKey stores the latched released key in Vx or repeats the instruction.
func (p *Processor) waitKey(x uint8) {
	if p.released == noKey {
		p.pc -= opcodeSize
		return
	}
	p.v[x] = uint8(p.released)
}

// bcd stores the hundreds, tens and ones digits of Vx at I, I+1 and I+2.
func (p *Processor) bcd(ins Instruction) error {
	if end := int(p.i) + 3; end > MemorySize {
		return p.memoryFault(ins, end-1)
	}

	value := p.v[ins.X]
	p.memory[p.i] = value / 100
	p.memory[p.i+1] = value / 10 % 10
	p.memory[p.i+2] = value % 10
	return nil
}

// storeRegisters copies V0 to Vx inclusive to memory starting at I.
func (p *Processor) storeRegisters(ins Instruction) error {
	count := int(ins.X) + 1
	if end := int(p.i) + count; end > MemorySize {
		return p.memoryFault(ins, end-1)
	}

	copy(p.memory[p.i:], p.v[:count])
	p.advanceIndex(count)
	return nil
}

// loadRegisters fills V0 to Vx inclusive from memory starting at I.
func (p *Processor) loadRegisters(ins Instruction) error {
	count := int(ins.X) + 1
	if end := int(p.i) + count; end > MemorySize {
		return p.memoryFault(ins, end-1)
	}

	copy(p.v[:count], p.memory[p.i:])
	p.advanceIndex(count)
	return nil
}

// advanceIndex moves I past the registers stored or loaded, if enabled.
func (p *Processor) advanceIndex(count int) {
	if p.quirks.LoadStoreIncrementI {
		p.i += uint16(count)
	}
}

// memoryFault returns an error for an access of the given address.
func (p *Processor) memoryFault(ins Instruction, address int) error {
	return &FaultError{Err: ErrMemoryAccess, Opcode: ins.Word, PC: p.pc, Address: address}
}

// boolToFlag converts a condition to a VF value.
func boolToFlag(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}
