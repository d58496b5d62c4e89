package cpu

import (
	"fmt"
)

// Handler executes a non-ALU opcode. The loop invokes it with exactly the
// operand bytes the instruction encoding declares for the opcode. A
// handler for an opcode with the PC bit set must leave the PC positioned
// itself; all other handlers rely on the default advance.
type Handler func(c *Cpu, operands ...uint8) error

// Register adds a handler for an opcode. The dispatch table is built at
// construction and fixed while the loop is running; registration is only
// permitted between construction and Run. Opcodes the table does not name
// fault with ErrOpcode when dispatched.
func (c *Cpu) Register(op Opcode, handler Handler) (err error) {
	if c.running {
		return ErrRunning
	}

	c.dispatch[op] = handler
	return
}

// defaultDispatch builds the minimal handler set.
func defaultDispatch() map[Opcode]Handler {
	return map[Opcode]Handler{
		CALL: callHandler,
		HLT:  hltHandler,
		LDI:  ldiHandler,
		PRN:  prnHandler,
		POP:  popHandler,
		PUSH: pushHandler,
		RET:  retHandler,
	}
}

// hltHandler transitions the loop to halted. Control returns to the
// embedding caller; the hosting process is never terminated here.
func hltHandler(c *Cpu, operands ...uint8) error {
	c.Status = STATUS_HALTED
	return nil
}

func ldiHandler(c *Cpu, operands ...uint8) error {
	c.Reg.Set(operands[0], operands[1])
	return nil
}

func prnHandler(c *Cpu, operands ...uint8) (err error) {
	_, err = fmt.Fprintln(c.Output, c.Reg.Get(operands[0]))
	return
}

func pushHandler(c *Cpu, operands ...uint8) error {
	return c.Push(c.Reg.Get(operands[0]))
}

func popHandler(c *Cpu, operands ...uint8) (err error) {
	value, err := c.Pop()
	if err != nil {
		return
	}

	c.Reg.Set(operands[0], value)
	return
}

// callHandler pushes the return address past this 2-byte instruction,
// then jumps to the address held in the operand register.
func callHandler(c *Cpu, operands ...uint8) (err error) {
	err = c.Push(uint8(c.Pc + 2))
	if err != nil {
		return
	}

	c.Pc = int(c.Reg.Get(operands[0]))
	return
}

func retHandler(c *Cpu, operands ...uint8) (err error) {
	value, err := c.Pop()
	if err != nil {
		return
	}

	c.Pc = int(value)
	return
}
