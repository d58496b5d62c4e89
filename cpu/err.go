package cpu

import (
	"errors"

	"github.com/ezrec/ls8/translate"
)

var f = translate.From

var (
	// Execution errors
	ErrDivisionByZero = errors.New(f("division by zero"))
	ErrStackOverflow  = errors.New(f("stack overflow"))
	ErrStackUnderflow = errors.New(f("stack underflow"))
	ErrStopped        = errors.New(f("stop requested"))
	ErrRunning        = errors.New(f("dispatch table is fixed while running"))

	// Assembler errors
	ErrEquateSyntax    = errors.New(f(".equ syntax"))
	ErrEquateDuplicate = errors.New(f(".equ duplicated"))
	ErrLabelDuplicate  = errors.New(f("label duplicated"))
	ErrMacroSyntax     = errors.New(f(".macro syntax"))
	ErrMacroNesting    = errors.New(f(".macro in .macro prohibited"))
	ErrMacroDuplicate  = errors.New(f(".macro duplicated"))
	ErrMacroLonely     = errors.New(f(".macro without .endm"))
	ErrMacroLonelyEndm = errors.New(f(".endm without .macro"))
	ErrByteSyntax      = errors.New(f(".byte syntax"))
	ErrOperandMissing  = errors.New(f("operand missing"))
	ErrOperandExtra    = errors.New(f("excessive operands"))
	ErrRegisterInvalid = errors.New(f("register invalid"))
)

// ErrAluOp indicates an opcode routed to the ALU that it does not
// implement.
type ErrAluOp Opcode

func (e ErrAluOp) Error() string {
	return f("unsupported alu operation 0b%08b", uint8(e))
}

func (e ErrAluOp) Is(err error) (ok bool) {
	_, ok = err.(ErrAluOp)
	return
}

// ErrOpcode indicates a non-ALU opcode with no registered handler.
type ErrOpcode Opcode

func (e ErrOpcode) Error() string {
	return f("unimplemented opcode 0b%08b (%v)", uint8(e), Opcode(e))
}

func (e ErrOpcode) Is(err error) (ok bool) {
	_, ok = err.(ErrOpcode)
	return
}

// ErrInst indicates a structurally malformed instruction byte.
type ErrInst uint8

func (e ErrInst) Error() string {
	return f("malformed instruction 0b%08b", uint8(e))
}

func (e ErrInst) Is(err error) (ok bool) {
	_, ok = err.(ErrInst)
	return
}

// ErrAddress indicates access outside the 256-byte memory.
type ErrAddress int

func (e ErrAddress) Error() string {
	return f("invalid memory address %#x", int(e))
}

func (e ErrAddress) Is(err error) (ok bool) {
	_, ok = err.(ErrAddress)
	return
}

// ErrProgramSize indicates a program image larger than memory.
type ErrProgramSize int

func (e ErrProgramSize) Error() string {
	return f("program too large: %d bytes", int(e))
}

func (e ErrProgramSize) Is(err error) (ok bool) {
	_, ok = err.(ErrProgramSize)
	return
}

// ErrSyntax wraps a loader or assembler error with its source location.
type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err *ErrSyntax) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err *ErrSyntax) Unwrap() error {
	return err.Err
}

type ErrParseNumber string

func (err ErrParseNumber) Error() string {
	return f("'%v' is not a number", string(err))
}

type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}

type ErrParseCharacter string

func (err ErrParseCharacter) Error() string {
	return f("'%v' is not a character", string(err))
}

type ErrNotBinary string

func (err ErrNotBinary) Error() string {
	return f("'%v' is not a binary literal", string(err))
}

type ErrMnemonic string

func (err ErrMnemonic) Error() string {
	return f("'%v' is not an opcode", string(err))
}

type ErrLabelMissing string

func (el ErrLabelMissing) Error() string {
	return f("label %v missing", string(el))
}

type ErrValueRange int64

func (err ErrValueRange) Error() string {
	return f("%v does not fit in a byte", int64(err))
}

// ErrMacro locates an error inside a macro expansion.
type ErrMacro struct {
	Macro string
	Line  int
	Err   error
}

func (err *ErrMacro) Error() string {
	return f("macro %v line %v %v", err.Macro, err.Line, err.Err.Error())
}

func (err *ErrMacro) Unwrap() error {
	return err.Err
}
