package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTrace_Initial(t *testing.T) {
	assert := assert.New(t)

	c := NewCpu()
	err := c.Load(&Program{Bytes: []uint8{0x82, 0x00, 0x08, 0x01}})
	assert.NoError(err)

	assert.Equal("00 | 82 00 08 | 00 00 00 00 00 00 00 F7", c.Trace())
}

func TestTrace_MidRun(t *testing.T) {
	assert := assert.New(t)

	c := NewCpu()
	err := c.Load(&Program{Bytes: []uint8{0x82, 0x00, 0x08, 0x01}})
	assert.NoError(err)

	assert.NoError(c.Step())
	assert.Equal("03 | 01 00 00 | 08 00 00 00 00 00 00 F7", c.Trace())
}

func TestTrace_PcNearEnd(t *testing.T) {
	assert := assert.New(t)

	// Peeks past the end of memory render as zero rather than failing.
	c := NewCpu()
	c.Pc = MEM_SIZE - 1

	assert.Equal("FF | 00 00 00 | 00 00 00 00 00 00 00 F7", c.Trace())
}
