package cpu

import (
	"fmt"
	"strings"
)

// Trace renders the CPU state as a single line: the PC, the three memory
// bytes starting at the PC, and all eight registers, each as two-digit
// hexadecimal. Out-of-range memory renders as zero; Trace is a pure read
// of state and never fails.
func (c *Cpu) Trace() string {
	peek := func(addr int) (value uint8) {
		value, _ = c.Mem.Read(addr)
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%02X | %02X %02X %02X |",
		c.Pc, peek(c.Pc), peek(c.Pc+1), peek(c.Pc+2))
	for n := range uint8(NUM_REGISTERS) {
		fmt.Fprintf(&sb, " %02X", c.Reg.Get(n))
	}

	return sb.String()
}
