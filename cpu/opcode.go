package cpu

import (
	"fmt"
)

// Opcode is a single LS-8 instruction byte. The full byte is the identity
// used for ALU and dispatch lookup; ALU and non-ALU opcodes share the same
// identifier space and are distinguished by the ALU bit.
type Opcode uint8

const (
	NOP  = Opcode(0b00000000)
	HLT  = Opcode(0b00000001)
	RET  = Opcode(0b00010001)
	IRET = Opcode(0b00010011)
	PUSH = Opcode(0b01000101)
	POP  = Opcode(0b01000110)
	PRN  = Opcode(0b01000111)
	PRA  = Opcode(0b01001000)
	CALL = Opcode(0b01010000)
	INT  = Opcode(0b01010010)
	JMP  = Opcode(0b01010100)
	JEQ  = Opcode(0b01010101)
	JNE  = Opcode(0b01010110)
	JGT  = Opcode(0b01010111)
	JLT  = Opcode(0b01011000)
	JLE  = Opcode(0b01011001)
	JGE  = Opcode(0b01011010)
	INC  = Opcode(0b01100101)
	DEC  = Opcode(0b01100110)
	NOT  = Opcode(0b01101001)
	LDI  = Opcode(0b10000010)
	LD   = Opcode(0b10000011)
	ST   = Opcode(0b10000100)
	ADD  = Opcode(0b10100000)
	SUB  = Opcode(0b10100001)
	MUL  = Opcode(0b10100010)
	DIV  = Opcode(0b10100011)
	MOD  = Opcode(0b10100100)
	CMP  = Opcode(0b10100111)
	AND  = Opcode(0b10101000)
	OR   = Opcode(0b10101010)
	XOR  = Opcode(0b10101011)
	SHL  = Opcode(0b10101100)
	SHR  = Opcode(0b10101101)
)

// Instruction byte fields.
const (
	OPERANDS_OFFSET = 6               // Top two bits: operand count.
	ALU_MASK        = uint8(1 << 5)   // Routed to the ALU.
	PC_MASK         = uint8(1 << 4)   // Leaves the PC positioned itself.
	MAX_OPERANDS    = 2               // Largest defined operand count.
)

// opcodeNames maps opcodes to their mnemonics. The reverse mapping feeds
// the assembler, so a plain map is used rather than generated stringer
// output.
var opcodeNames = map[Opcode]string{
	NOP:  "NOP",
	HLT:  "HLT",
	RET:  "RET",
	IRET: "IRET",
	PUSH: "PUSH",
	POP:  "POP",
	PRN:  "PRN",
	PRA:  "PRA",
	CALL: "CALL",
	INT:  "INT",
	JMP:  "JMP",
	JEQ:  "JEQ",
	JNE:  "JNE",
	JGT:  "JGT",
	JLT:  "JLT",
	JLE:  "JLE",
	JGE:  "JGE",
	INC:  "INC",
	DEC:  "DEC",
	NOT:  "NOT",
	LDI:  "LDI",
	LD:   "LD",
	ST:   "ST",
	ADD:  "ADD",
	SUB:  "SUB",
	MUL:  "MUL",
	DIV:  "DIV",
	MOD:  "MOD",
	CMP:  "CMP",
	AND:  "AND",
	OR:   "OR",
	XOR:  "XOR",
	SHL:  "SHL",
	SHR:  "SHR",
}

var mnemonicMap = map[string]Opcode{}

func init() {
	for op, name := range opcodeNames {
		mnemonicMap[name] = op
	}
}

// String returns the mnemonic for known opcodes, or the raw bit pattern.
func (op Opcode) String() string {
	name, ok := opcodeNames[op]
	if !ok {
		return fmt.Sprintf("0b%08b", uint8(op))
	}
	return name
}

// Mnemonic looks up an opcode by its assembler mnemonic.
func Mnemonic(name string) (op Opcode, ok bool) {
	op, ok = mnemonicMap[name]
	return
}

// Inst is a decoded instruction byte.
type Inst struct {
	Op       Opcode // Identity for ALU and dispatch lookup.
	Operands int    // Operand byte count, 0-3.
	IsAlu    bool   // Executes on the ALU instead of the dispatch table.
	SetsPc   bool   // Exempt from the default PC advance.
}

// Decode splits an instruction byte into its tagged fields. Decode is
// total and never fails; an unknown opcode still decodes and faults later
// at dispatch.
func Decode(b uint8) (inst Inst) {
	inst.Op = Opcode(b)
	inst.Operands = int(b >> OPERANDS_OFFSET)
	inst.IsAlu = (b & ALU_MASK) != 0
	inst.SetsPc = (b & PC_MASK) != 0
	return
}
