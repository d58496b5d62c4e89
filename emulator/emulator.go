// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package emulator embeds an LS-8 CPU: it wires the program image and
// output streams, registers the extended opcode handlers on top of the
// core dispatch set, and maps runtime faults back to source lines.
package emulator

import (
	"errors"
	"fmt"
	"io"
	"iter"
	"maps"

	"github.com/ezrec/ls8/cpu"
	"github.com/ezrec/ls8/internal"
)

var _emulator_defines = map[string]string{
	"NEWLINE": "0x0a",
	"SPACE":   "0x20",
}

// Emulator state. CPU + program image + trace stream.
type Emulator struct {
	Verbose  bool         // If set, enables verbose logging.
	*cpu.Cpu              // Reference to the CPU.
	Program  *cpu.Program // Reference to the currently loaded program.

	TraceTo io.Writer // Per-cycle trace destination, nil to disable.
}

// NewEmulator creates an emulator with the extended opcode handlers
// registered: NOP, PRA, LD, ST, and the jump family consuming the CMP
// comparison flags. INT and IRET stay unregistered and fault with an
// unimplemented-opcode error when dispatched.
func NewEmulator() (emu *Emulator) {
	emu = &Emulator{
		Cpu: cpu.NewCpu(),
	}

	extended := map[cpu.Opcode]cpu.Handler{
		cpu.NOP: nopHandler,
		cpu.PRA: praHandler,
		cpu.LD:  ldHandler,
		cpu.ST:  stHandler,
		cpu.JMP: jmpHandler,
		cpu.JEQ: branch(cpu.FLAG_E),
		cpu.JNE: branchNot(cpu.FLAG_E),
		cpu.JGT: branch(cpu.FLAG_G),
		cpu.JLT: branch(cpu.FLAG_L),
		cpu.JGE: branch(cpu.FLAG_G | cpu.FLAG_E),
		cpu.JLE: branch(cpu.FLAG_L | cpu.FLAG_E),
	}
	for op, handler := range extended {
		// The CPU is freshly constructed, so registration cannot fail.
		emu.Cpu.Register(op, handler)
	}

	return
}

// Defines returns an iterator over all of the defines
func (emu *Emulator) Defines() iter.Seq2[string, string] {
	return internal.IterSeq2Concat(maps.All(_emulator_defines),
		emu.Cpu.Defines(),
	)
}

// Load installs a parsed program into CPU memory and keeps it for source
// line mapping.
func (emu *Emulator) Load(prog *cpu.Program) (err error) {
	err = emu.Cpu.Load(prog)
	if err != nil {
		return
	}

	emu.Program = prog
	return
}

// LineNo returns the source line of the instruction at the PC, or zero.
func (emu *Emulator) LineNo() int {
	if emu.Program == nil {
		return 0
	}

	return emu.Program.LineAt(emu.Cpu.Pc)
}

// Run executes until the CPU halts, faults, or is stopped, optionally
// tracing each cycle. Faults are wrapped with the source line of the
// failing instruction.
func (emu *Emulator) Run() (status cpu.Status, err error) {
	emu.Cpu.Verbose = emu.Verbose

	for emu.Cpu.Status == cpu.STATUS_RUNNING {
		if emu.TraceTo != nil {
			fmt.Fprintln(emu.TraceTo, emu.Cpu.Trace())
		}

		lineno := emu.LineNo()
		err = emu.Cpu.Step()
		if errors.Is(err, cpu.ErrStopped) {
			err = nil
			break
		}
		if err != nil {
			err = &ErrRuntime{LineNo: lineno, Err: err}
			emu.Cpu.Status = cpu.STATUS_FAULTED
			emu.Cpu.Fault = err
		}
	}

	status = emu.Cpu.Status
	return
}

func nopHandler(c *cpu.Cpu, operands ...uint8) error {
	return nil
}

func praHandler(c *cpu.Cpu, operands ...uint8) (err error) {
	_, err = fmt.Fprintf(c.Output, "%c", c.Reg.Get(operands[0]))
	return
}

// ldHandler loads the destination register from the address held in the
// source register.
func ldHandler(c *cpu.Cpu, operands ...uint8) (err error) {
	value, err := c.Mem.Read(int(c.Reg.Get(operands[1])))
	if err != nil {
		return
	}

	c.Reg.Set(operands[0], value)
	return
}

// stHandler stores the source register value at the address held in the
// destination register.
func stHandler(c *cpu.Cpu, operands ...uint8) (err error) {
	return c.Mem.Write(int(c.Reg.Get(operands[0])), c.Reg.Get(operands[1]))
}

func jmpHandler(c *cpu.Cpu, operands ...uint8) error {
	c.Pc = int(c.Reg.Get(operands[0]))
	return nil
}

// branch returns a conditional-jump handler taken when any flag in mask
// is set. Jump opcodes own their PC update, so the not-taken path must
// advance past the 2-byte instruction itself.
func branch(mask uint8) cpu.Handler {
	return func(c *cpu.Cpu, operands ...uint8) error {
		if c.Reg.Flag(mask) {
			c.Pc = int(c.Reg.Get(operands[0]))
		} else {
			c.Pc += 2
		}
		return nil
	}
}

// branchNot returns a conditional-jump handler taken when no flag in
// mask is set.
func branchNot(mask uint8) cpu.Handler {
	return func(c *cpu.Cpu, operands ...uint8) error {
		if !c.Reg.Flag(mask) {
			c.Pc = int(c.Reg.Get(operands[0]))
		} else {
			c.Pc += 2
		}
		return nil
	}
}
