package cpu

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

const loaderPrint8 = `# print8.ls8: Print the number 8.

10000010 # LDI R0,8
00000000
00001000
01000111 # PRN R0
00000000
00000001 # HLT
`

func TestLoader_Parse(t *testing.T) {
	assert := assert.New(t)

	ld := &Loader{}
	prog, err := ld.Parse(strings.NewReader(loaderPrint8))
	assert.NoError(err)
	assert.Equal([]uint8{0b10000010, 0, 0b1000, 0b01000111, 0, 0b1}, prog.Bytes)

	// Byte provenance skips blank and comment-only lines.
	assert.Equal(3, prog.LineAt(0))
	assert.Equal(8, prog.LineAt(5))
	assert.Equal(0, prog.LineAt(6))
	assert.Equal(0, prog.LineAt(-1))
}

func TestLoader_ParseRuns(t *testing.T) {
	assert := assert.New(t)

	ld := &Loader{}
	prog, err := ld.Parse(strings.NewReader(loaderPrint8))
	assert.NoError(err)

	c := NewCpu()
	output := &strings.Builder{}
	c.Output = output

	assert.NoError(c.Load(prog))
	status, err := c.Run()
	assert.NoError(err)
	assert.Equal(STATUS_HALTED, status)
	assert.Equal("8\n", output.String())
}

func TestLoader_Lenient(t *testing.T) {
	assert := assert.New(t)

	input := "00000001\nbogus\n00000010\n10000010 00000000\n"

	ld := &Loader{}
	prog, err := ld.Parse(strings.NewReader(input))
	assert.NoError(err)

	// Malformed lines are skipped; well-formed lines survive.
	assert.Equal([]uint8{0b1, 0b10}, prog.Bytes)
	assert.Equal(3, prog.LineAt(1))
}

func TestLoader_Strict(t *testing.T) {
	assert := assert.New(t)

	ld := &Loader{Strict: true}
	prog, err := ld.Parse(strings.NewReader("00000001\nbogus\n"))
	assert.Nil(prog)

	var serr *ErrSyntax
	assert.ErrorAs(err, &serr)
	assert.Equal(2, serr.LineNo)
	assert.Equal("bogus", serr.Line)

	var nberr ErrNotBinary
	assert.ErrorAs(err, &nberr)
}

func TestLoader_StrictMultiField(t *testing.T) {
	assert := assert.New(t)

	// Two values on one line are rejected even if each is binary.
	ld := &Loader{Strict: true}
	prog, err := ld.Parse(strings.NewReader("00000001 00000010\n"))
	assert.Nil(prog)

	var serr *ErrSyntax
	assert.ErrorAs(err, &serr)
	assert.Equal(1, serr.LineNo)
}

func TestLoader_NonBinaryDigits(t *testing.T) {
	assert := assert.New(t)

	// Decimal and hexadecimal forms are not binary literals.
	for _, bad := range []string{"2", "0x42", "101020101", "111111111"} {
		ld := &Loader{Strict: true}
		prog, err := ld.Parse(strings.NewReader(bad + "\n"))
		assert.Nil(prog, bad)
		assert.Error(err, bad)
	}
}

func TestProgram_ImageRoundTrip(t *testing.T) {
	assert := assert.New(t)

	prog := &Program{Bytes: []uint8{0x82, 0x00, 0x08, 0x47, 0x00, 0x01}}
	image := prog.Image()
	assert.Equal("10000010\n00000000\n00001000\n01000111\n00000000\n00000001\n", image)

	ld := &Loader{Strict: true}
	loaded, err := ld.Parse(strings.NewReader(image))
	assert.NoError(err)
	assert.Equal(prog.Bytes, loaded.Bytes)
}
