package emulator

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/ls8/cpu"
)

// doRun assembles source with the emulator defines predefined, loads the
// result, and runs it to a terminal state.
func doRun(t *testing.T, source string) (emu *Emulator, output string, status cpu.Status, err error) {
	t.Helper()

	emu = NewEmulator()

	asm := &cpu.Assembler{}
	for key, value := range emu.Defines() {
		asm.Predefine(key, value)
	}

	prog, err := asm.Parse(strings.NewReader(source))
	assert.NoError(t, err)
	assert.NoError(t, emu.Load(prog))

	buffer := &bytes.Buffer{}
	emu.Cpu.Output = buffer

	status, err = emu.Run()
	output = buffer.String()
	return
}

func TestEmulator_Print(t *testing.T) {
	assert := assert.New(t)

	source := `
	LDI R0 8
	LDI R1 9
	ADD R0 R1
	PRN R0
	HLT
`
	_, output, status, err := doRun(t, source)
	assert.NoError(err)
	assert.Equal(cpu.STATUS_HALTED, status)
	assert.Equal("17\n", output)
}

func TestEmulator_Mult(t *testing.T) {
	assert := assert.New(t)

	source := `
	LDI R0 8
	LDI R1 9
	MUL R0 R1
	PRN R0
	HLT
`
	_, output, status, err := doRun(t, source)
	assert.NoError(err)
	assert.Equal(cpu.STATUS_HALTED, status)
	assert.Equal("72\n", output)
}

func TestEmulator_BranchTaken(t *testing.T) {
	assert := assert.New(t)

	source := `
	LDI R0 1
	LDI R1 2
	CMP R0 R1
	LDI R2 less
	JLT R2
	LDI R3 0
	PRN R3
	HLT
less:
	LDI R3 42
	PRN R3
	HLT
`
	_, output, status, err := doRun(t, source)
	assert.NoError(err)
	assert.Equal(cpu.STATUS_HALTED, status)
	assert.Equal("42\n", output)
}

func TestEmulator_BranchNotTaken(t *testing.T) {
	assert := assert.New(t)

	// JEQ falls through to the next instruction when E is clear.
	source := `
	LDI R0 1
	LDI R1 2
	CMP R0 R1
	LDI R2 equal
	JEQ R2
	LDI R3 7
	PRN R3
	HLT
equal:
	LDI R3 42
	PRN R3
	HLT
`
	_, output, status, err := doRun(t, source)
	assert.NoError(err)
	assert.Equal(cpu.STATUS_HALTED, status)
	assert.Equal("7\n", output)
}

func TestEmulator_Jne(t *testing.T) {
	assert := assert.New(t)

	source := `
	LDI R0 1
	LDI R1 2
	CMP R0 R1
	LDI R2 differ
	JNE R2
	HLT
differ:
	LDI R3 1
	PRN R3
	HLT
`
	_, output, status, err := doRun(t, source)
	assert.NoError(err)
	assert.Equal(cpu.STATUS_HALTED, status)
	assert.Equal("1\n", output)
}

func TestEmulator_Pra(t *testing.T) {
	assert := assert.New(t)

	// NEWLINE comes from the emulator defines.
	source := `
	LDI R0 'H'
	PRA R0
	LDI R0 'i'
	PRA R0
	LDI R0 NEWLINE
	PRA R0
	HLT
`
	_, output, status, err := doRun(t, source)
	assert.NoError(err)
	assert.Equal(cpu.STATUS_HALTED, status)
	assert.Equal("Hi\n", output)
}

func TestEmulator_LdSt(t *testing.T) {
	assert := assert.New(t)

	source := `
	LDI R0 data
	LDI R1 77
	ST R0 R1
	LDI R2 0
	LD R2 R0
	PRN R2
	HLT
data:
	.byte 0
`
	_, output, status, err := doRun(t, source)
	assert.NoError(err)
	assert.Equal(cpu.STATUS_HALTED, status)
	assert.Equal("77\n", output)
}

func TestEmulator_Stack(t *testing.T) {
	assert := assert.New(t)

	source := `
	LDI R0 1
	LDI R1 2
	PUSH R0
	PUSH R1
	POP R0
	POP R1
	PRN R0
	PRN R1
	HLT
`
	_, output, status, err := doRun(t, source)
	assert.NoError(err)
	assert.Equal(cpu.STATUS_HALTED, status)
	assert.Equal("2\n1\n", output)
}

func TestEmulator_Call(t *testing.T) {
	assert := assert.New(t)

	source := `
	LDI R0 double
	LDI R1 15
	CALL R0
	PRN R1
	HLT
double:
	ADD R1 R1
	RET
`
	emu, output, status, err := doRun(t, source)
	assert.NoError(err)
	assert.Equal(cpu.STATUS_HALTED, status)
	assert.Equal("30\n", output)
	assert.Equal(uint8(cpu.STACK_TOP), emu.Cpu.Reg.Sp())
}

func TestEmulator_FaultLine(t *testing.T) {
	assert := assert.New(t)

	source := `
	LDI R0 8
	DIV R0 R1
	HLT
`
	emu, _, status, err := doRun(t, source)
	assert.Equal(cpu.STATUS_FAULTED, status)
	assert.ErrorIs(err, cpu.ErrDivisionByZero)

	// The fault carries the source line of the failing instruction.
	var rerr *ErrRuntime
	if assert.ErrorAs(err, &rerr) {
		assert.Equal(3, rerr.LineNo)
	}
	assert.Equal(err, emu.Cpu.Fault)
}

func TestEmulator_InterruptsUnimplemented(t *testing.T) {
	assert := assert.New(t)

	_, _, status, err := doRun(t, "INT R0\n")
	assert.Equal(cpu.STATUS_FAULTED, status)
	assert.ErrorIs(err, cpu.ErrOpcode(0))
}

func TestEmulator_Trace(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	emu.Cpu.Output = &bytes.Buffer{}

	trace := &bytes.Buffer{}
	emu.TraceTo = trace

	assert.NoError(emu.Load(&cpu.Program{Bytes: []uint8{0x01}}))
	status, err := emu.Run()
	assert.NoError(err)
	assert.Equal(cpu.STATUS_HALTED, status)

	assert.Equal("00 | 01 00 00 | 00 00 00 00 00 00 00 F7\n", trace.String())
}

func TestEmulator_Defines(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()

	defines := map[string]string{}
	for key, value := range emu.Defines() {
		defines[key] = value
	}

	// Emulator defines overlay the CPU defines.
	assert.Equal("0x0a", defines["NEWLINE"])
	assert.Equal("0x20", defines["SPACE"])
	assert.Equal("0xf7", defines["STACK_TOP"])
	assert.Equal("256", defines["MEM_SIZE"])
}
