package cpu

// execute dispatches the instruction on its category and for the categories
// 0x0, 0x8, 0xE and 0xF on its low byte or nibble.
func (p *Processor) execute(ins Instruction) error {
	switch ins.Category {
	case 0x0:
		switch ins.Word {
		case 0x00E0:
			p.cls()
			return nil
		case 0x00EE:
			return p.ret(ins)
		}

	case 0x1:
		p.jump(ins.NNN)
		return nil

	case 0x2:
		return p.call(ins)

	case 0x3:
		p.skipIf(p.v[ins.X] == ins.KK)
		return nil

	case 0x4:
		p.skipIf(p.v[ins.X] != ins.KK)
		return nil

	case 0x5:
		if ins.N == 0 {
			p.skipIf(p.v[ins.X] == p.v[ins.Y])
			return nil
		}

	case 0x6:
		p.v[ins.X] = ins.KK
		return nil

	case 0x7:
		p.v[ins.X] += ins.KK
		return nil

	case 0x8:
		if p.executeArithmetic(ins) {
			return nil
		}

	case 0x9:
		if ins.N == 0 {
			p.skipIf(p.v[ins.X] != p.v[ins.Y])
			return nil
		}

	case 0xA:
		p.i = ins.NNN
		return nil

	case 0xB:
		p.jump(ins.NNN + uint16(p.v[0]))
		return nil

	case 0xC:
		p.v[ins.X] = p.random() & ins.KK
		return nil

	case 0xD:
		return p.drw(ins)

	case 0xE:
		switch ins.KK {
		case 0x9E:
			p.skipIf(p.keys[p.v[ins.X]&0xF])
			return nil
		case 0xA1:
			p.skipIf(!p.keys[p.v[ins.X]&0xF])
			return nil
		}

	case 0xF:
		if handled, err := p.executeMisc(ins); handled {
			return err
		}
	}

	return &InvalidOpcodeError{Opcode: ins.Word, PC: p.pc}
}

// executeArithmetic executes the 8xyN register instructions and returns
// whether N was a known operation.
func (p *Processor) executeArithmetic(ins Instruction) bool {
	switch ins.N {
	case 0x0:
		p.v[ins.X] = p.v[ins.Y]
	case 0x1:
		p.or(ins.X, ins.Y)
	case 0x2:
		p.and(ins.X, ins.Y)
	case 0x3:
		p.xor(ins.X, ins.Y)
	case 0x4:
		p.add(ins.X, ins.Y)
	case 0x5:
		p.sub(ins.X, ins.Y)
	case 0x6:
		p.shr(ins.X, ins.Y)
	case 0x7:
		p.subn(ins.X, ins.Y)
	case 0xE:
		p.shl(ins.X, ins.Y)
	default:
		return false
	}
	return true
}

// executeMisc executes the FxKK instructions and returns whether KK was a
// known operation.
func (p *Processor) executeMisc(ins Instruction) (bool, error) {
	switch ins.KK {
	case 0x07:
		p.v[ins.X] = p.dt
	case 0x0A:
		p.waitKey(ins.X)
	case 0x15:
		p.dt = p.v[ins.X]
	case 0x18:
		p.st = p.v[ins.X]
	case 0x1E:
		p.i += uint16(p.v[ins.X])
	case 0x29:
		p.i = FontAddress + uint16(p.v[ins.X]&0xF)*FontStride
	case 0x33:
		return true, p.bcd(ins)
	case 0x55:
		return true, p.storeRegisters(ins)
	case 0x65:
		return true, p.loadRegisters(ins)
	default:
		return false, nil
	}
	return true, nil
}
