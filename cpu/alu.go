package cpu

// Alu applies an ALU opcode against the register file. Binary operations
// read registers a and b, compute, and write the result back to a; the
// uint8 representation keeps every result 8-bit masked. Unary operations
// use only a. CMP writes the comparison flags instead of a register.
//
// DIV and MOD by a zero-valued source register fail with
// ErrDivisionByZero and leave the destination register unmodified. An
// opcode the ALU does not implement fails with ErrAluOp.
func (c *Cpu) Alu(op Opcode, operands ...uint8) (err error) {
	a := operands[0]
	var b uint8
	if len(operands) > 1 {
		b = operands[1]
	}

	ra := c.Reg.Get(a)
	rb := c.Reg.Get(b)

	var out uint8
	switch op {
	case ADD:
		out = ra + rb
	case SUB:
		out = ra - rb
	case MUL:
		out = ra * rb
	case DIV:
		if rb == 0 {
			return ErrDivisionByZero
		}
		out = ra / rb
	case MOD:
		if rb == 0 {
			return ErrDivisionByZero
		}
		out = ra % rb
	case AND:
		out = ra & rb
	case OR:
		out = ra | rb
	case XOR:
		out = ra ^ rb
	case SHL:
		// Shifts of 8 or more drain to zero.
		out = ra << rb
	case SHR:
		out = ra >> rb
	case NOT:
		out = ^ra
	case INC:
		out = ra + 1
	case DEC:
		out = ra - 1
	case CMP:
		switch {
		case ra == rb:
			c.Reg.SetFlags(FLAG_E)
		case ra > rb:
			c.Reg.SetFlags(FLAG_G)
		default:
			c.Reg.SetFlags(FLAG_L)
		}
		return
	default:
		return ErrAluOp(op)
	}

	c.Reg.Set(a, out)
	return
}
