package cpu

// MEM_SIZE is the number of addressable cells.
const MEM_SIZE = 256

// Memory is the flat byte-addressable RAM.
type Memory struct {
	cell [MEM_SIZE]uint8
}

// Read returns the byte at addr. Access outside 0-255 fails with
// ErrAddress.
func (m *Memory) Read(addr int) (value uint8, err error) {
	if addr < 0 || addr >= MEM_SIZE {
		err = ErrAddress(addr)
		return
	}

	value = m.cell[addr]
	return
}

// Write stores value at addr. Access outside 0-255 fails with ErrAddress.
func (m *Memory) Write(addr int, value uint8) (err error) {
	if addr < 0 || addr >= MEM_SIZE {
		err = ErrAddress(addr)
		return
	}

	m.cell[addr] = value
	return
}

// Reset zeroes all cells.
func (m *Memory) Reset() {
	clear(m.cell[:])
}
