package cpu

import (
	"fmt"
	"strings"
)

// Program is a loadable memory image together with the source line each
// byte came from.
type Program struct {
	Bytes []uint8
	Lines []int // Source line per byte; empty when unavailable.
}

// add appends a byte with its source line.
func (prog *Program) add(value uint8, lineno int) {
	prog.Bytes = append(prog.Bytes, value)
	prog.Lines = append(prog.Lines, lineno)
}

// LineAt returns the source line of the byte at addr, or zero when the
// address has no recorded provenance.
func (prog *Program) LineAt(addr int) int {
	if addr < 0 || addr >= len(prog.Lines) {
		return 0
	}

	return prog.Lines[addr]
}

// Image renders the program in the binary-literal source form accepted by
// the Loader, one byte per line.
func (prog *Program) Image() string {
	var sb strings.Builder
	for _, b := range prog.Bytes {
		fmt.Fprintf(&sb, "%08b\n", b)
	}

	return sb.String()
}
