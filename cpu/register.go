package cpu

// Comparison flags, set by CMP and consumed by the conditional jumps.
// Exactly one of L, G, E is set after a CMP.
const (
	FLAG_E = uint8(1 << 0) // equal
	FLAG_G = uint8(1 << 1) // greater
	FLAG_L = uint8(1 << 2) // less
)

const (
	NUM_REGISTERS = 8
	SP_REGISTER   = 7    // Register aliased to the stack pointer.
	STACK_TOP     = 0xF7 // Initial stack pointer; the stack grows down.
)

// Registers is the LS-8 register file: eight 8-bit slots plus the
// comparison flags. All access goes through the accessors, so register 7
// stays 8-bit masked regardless of whether it is reached as a register or
// as the stack pointer. Indexes decode modulo 8, the width of the
// register operand field.
type Registers struct {
	slot  [NUM_REGISTERS]uint8
	flags uint8
}

// Get returns the value of register index.
func (r *Registers) Get(index uint8) uint8 {
	return r.slot[index%NUM_REGISTERS]
}

// Set stores value in register index.
func (r *Registers) Set(index uint8, value uint8) {
	r.slot[index%NUM_REGISTERS] = value
}

// Sp returns the stack pointer (register 7).
func (r *Registers) Sp() uint8 {
	return r.slot[SP_REGISTER]
}

// SetSp sets the stack pointer (register 7).
func (r *Registers) SetSp(value uint8) {
	r.slot[SP_REGISTER] = value
}

// Flags returns the comparison flag byte (00000LGE).
func (r *Registers) Flags() uint8 {
	return r.flags
}

// SetFlags replaces the comparison flag byte.
func (r *Registers) SetFlags(flags uint8) {
	r.flags = flags
}

// Flag reports whether any bit in mask is set.
func (r *Registers) Flag(mask uint8) bool {
	return r.flags&mask != 0
}

// Reset zeroes the register file, clears the flags, and restores the
// default stack pointer.
func (r *Registers) Reset() {
	clear(r.slot[:])
	r.flags = 0
	r.slot[SP_REGISTER] = STACK_TOP
}
