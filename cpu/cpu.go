// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"errors"
	"fmt"
	"io"
	"iter"
	"log"
	"maps"
	"os"
	"sync/atomic"
)

// Status is the state of the fetch-decode-execute loop. Halted and
// faulted are terminal.
type Status int

const (
	STATUS_RUNNING = Status(0)
	STATUS_HALTED  = Status(1)
	STATUS_FAULTED = Status(2)
)

// String returns the status name.
func (st Status) String() string {
	switch st {
	case STATUS_RUNNING:
		return "running"
	case STATUS_HALTED:
		return "halted"
	case STATUS_FAULTED:
		return "faulted"
	}

	return fmt.Sprintf("Status(%d)", int(st))
}

var _cpu_defines = map[string]string{
	"MEM_SIZE":  fmt.Sprintf("%v", MEM_SIZE),
	"STACK_TOP": fmt.Sprintf("%#x", STACK_TOP),
	"FLAG_E":    fmt.Sprintf("%v", FLAG_E),
	"FLAG_G":    fmt.Sprintf("%v", FLAG_G),
	"FLAG_L":    fmt.Sprintf("%v", FLAG_L),
}

// Cpu is a single LS-8 machine instance. It exclusively owns its memory
// and register file; nothing mutates that state concurrently with the
// loop. Stop is the only member safe to call from another goroutine.
type Cpu struct {
	Verbose bool      // Set to enable per-cycle trace logging.
	Output  io.Writer // Destination for PRN and PRA output.

	Mem    Memory    // Flat RAM.
	Reg    Registers // Register file, including the comparison flags.
	Pc     int       // Program counter.
	Status Status    // Loop state.
	Fault  error     // Fault reason when Status is STATUS_FAULTED.

	programTop int // First address past the loaded image; lower stack bound.
	dispatch   map[Opcode]Handler
	running    bool
	stop       atomic.Bool
}

// NewCpu creates a CPU with zeroed memory and registers, the default
// stack pointer, and the minimal dispatch table (CALL, HLT, LDI, PRN,
// POP, PUSH, RET).
func NewCpu() (c *Cpu) {
	c = &Cpu{
		Output:   os.Stdout,
		dispatch: defaultDispatch(),
	}
	c.Reg.SetSp(STACK_TOP)

	return
}

// Defines for the cpu.
func (c *Cpu) Defines() iter.Seq2[string, string] {
	return maps.All(_cpu_defines)
}

// Reset restores the construction state: zeroed memory and registers,
// default stack pointer, PC at zero. The dispatch table is preserved.
func (c *Cpu) Reset() {
	c.Mem.Reset()
	c.Reg.Reset()
	c.Pc = 0
	c.Status = STATUS_RUNNING
	c.Fault = nil
	c.programTop = 0
	c.stop.Store(false)
}

// Load copies a program image into memory starting at address zero and
// records its extent as the lower bound of the stack region. Images
// larger than memory fail with ErrProgramSize.
func (c *Cpu) Load(prog *Program) (err error) {
	if len(prog.Bytes) > MEM_SIZE {
		return ErrProgramSize(len(prog.Bytes))
	}

	copy(c.Mem.cell[:], prog.Bytes)
	c.programTop = len(prog.Bytes)

	return
}

// Push decrements the stack pointer mod 256 and writes value at the new
// address. The stack region is the span between the loaded program image
// and STACK_TOP; a push that would leave it fails with ErrStackOverflow.
func (c *Cpu) Push(value uint8) (err error) {
	sp := c.Reg.Sp() - 1
	if int(sp) < c.programTop || sp >= STACK_TOP {
		return ErrStackOverflow
	}

	err = c.Mem.Write(int(sp), value)
	if err != nil {
		return
	}

	c.Reg.SetSp(sp)
	return
}

// Pop reads the value at the stack pointer, then increments it mod 256.
// Popping an empty stack fails with ErrStackUnderflow.
func (c *Cpu) Pop() (value uint8, err error) {
	sp := c.Reg.Sp()
	if sp >= STACK_TOP {
		err = ErrStackUnderflow
		return
	}

	value, err = c.Mem.Read(int(sp))
	if err != nil {
		return
	}

	c.Reg.SetSp(sp + 1)
	return
}

// Stop requests that the loop stop before the next fetch. Safe to call
// from another goroutine while Run is in progress; the request is
// consumed by the next Step.
func (c *Cpu) Stop() {
	c.stop.Store(true)
}

// Step executes a single fetch-decode-execute cycle. A pending stop
// request takes effect before the fetch and surfaces as ErrStopped.
func (c *Cpu) Step() (err error) {
	if c.stop.CompareAndSwap(true, false) {
		return ErrStopped
	}

	b, err := c.Mem.Read(c.Pc)
	if err != nil {
		return
	}
	inst := Decode(b)

	if c.Verbose {
		log.Printf("ls8: %v", c.Trace())
	}

	// The operand count is a 2-bit field, so 3 is representable but has
	// no defined encoding. An ALU instruction with no operands is equally
	// meaningless. Both fault rather than silently continue.
	if inst.Operands > MAX_OPERANDS || (inst.IsAlu && inst.Operands == 0) {
		return ErrInst(b)
	}

	var operands [MAX_OPERANDS]uint8
	for n := range inst.Operands {
		operands[n], err = c.Mem.Read(c.Pc + 1 + n)
		if err != nil {
			return
		}
	}

	if inst.IsAlu {
		err = c.Alu(inst.Op, operands[:inst.Operands]...)
	} else {
		handler, ok := c.dispatch[inst.Op]
		if !ok {
			return ErrOpcode(inst.Op)
		}
		err = handler(c, operands[:inst.Operands]...)
	}
	if err != nil {
		return
	}

	if !inst.SetsPc {
		c.Pc += inst.Operands + 1
	}

	return
}

// Run executes until the CPU halts, faults, or a stop is requested. It
// never terminates the hosting process; the terminal status and the
// fault reason (if any) are returned to the caller. After a cooperative
// stop the status remains STATUS_RUNNING and Run may be called again.
func (c *Cpu) Run() (status Status, err error) {
	c.running = true
	defer func() { c.running = false }()

	for c.Status == STATUS_RUNNING {
		err = c.Step()
		if errors.Is(err, ErrStopped) {
			err = nil
			break
		}
		if err != nil {
			c.Status = STATUS_FAULTED
			c.Fault = err
		}
	}

	return c.Status, c.Fault
}
