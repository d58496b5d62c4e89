// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"maps"
	"regexp"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// Macro represents a macro definition in the assembly language.
type Macro struct {
	LineNo int      // Line number of the macro definition.
	Args   []string // Arguments for the macro.
	Lines  []string // Lines of macro text to expand.
}

// fixup is a label reference to patch once all labels are known.
type fixup struct {
	Addr   int    // Program byte to patch.
	Label  string // Referenced label.
	LineNo int    // Source location of the reference.
	Line   string
}

// systemEquates returns the predefined equates.
func systemEquates() map[string]string {
	equ := maps.Clone(_cpu_defines)
	equ["LINENO"] = "0"
	return equ
}

// Assembler is a single pass macro assembler for the LS-8 instruction set.
type Assembler struct {
	Verbose bool // If set, verbosely logs the assembler actions.

	Label  map[string]int      // Map of labels to byte addresses.
	Equate map[string]string   // Map of equates.
	Macro  map[string](*Macro) // Map of macros.

	predefine map[string]string // Predefines

	prog  *Program
	fixup []fixup
}

// Predefine defines a new equate or redefines an existing equate.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

// registerMap maps register operand names to their indexes.
var registerMap = map[string]uint8{
	"r0": 0,
	"r1": 1,
	"r2": 2,
	"r3": 3,
	"r4": 4,
	"r5": 5,
	"r6": 6,
	"r7": 7,
	"sp": SP_REGISTER,
}

// registerOf looks up a register operand by name.
func registerOf(word string) (index uint8, ok bool) {
	index, ok = registerMap[strings.ToLower(word)]
	return
}

// valueOf returns the byte value of a simple word.
func (asm *Assembler) valueOf(word string) (value uint8, err error) {
	invert := false
	if len(word) > 0 && word[0] == '~' {
		invert = true
		word = word[1:]
	}
	if len(word) == 0 {
		err = ErrParseNumber(word)
		return
	}
	if word[0] == '\'' {
		// Character quotes should have been expanded into
		// values in parseLine()
		err = ErrParseCharacter(word[1 : len(word)-1])
		return
	}

	v64, perr := strconv.ParseInt(word, 0, 64)
	if perr != nil {
		err = ErrParseNumber(word)
		return
	}
	if v64 < -128 || v64 > 255 {
		err = ErrValueRange(v64)
		return
	}

	value = uint8(v64)
	if invert {
		value = ^value
	}

	return
}

// parenEval does compile-time $(...) evaluations
func (asm *Assembler) parenEval(expr string) (value int64, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, str := range asm.Equate {
		var value8 uint8
		value8, err = asm.valueOf(str)
		if err != nil {
			// Ignore non-numeric equates. They may be registers
			// or labels.
			err = nil
			continue
		}
		pred[key] = starlark.MakeInt(int(value8))
	}
	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		return
	}
	st_rc, ok := dict["rc"]
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int, ok := st_rc.(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	value, ok = st_int.Int64()
	if !ok {
		err = ErrParseExpression(expr)
	}
	return
}

var charRe = regexp.MustCompile(`'\\?[^']'`)
var parenRe = regexp.MustCompile(`\$\([^\$]*\)`)

// parseLine parses a single line into opcode words, handling character
// quotes, $() evaluation, equates, labels, and macro expansion.
func (asm *Assembler) parseLine(line string, lineno int) (words []string, err error) {
	// Set line number.
	asm.Equate["LINENO"] = fmt.Sprintf("%v", lineno)

	// Do 'x' evaluations
	line = charRe.ReplaceAllStringFunc(line, func(word string) string {
		str := word[1 : len(word)-1]
		if str[0] == '\\' {
			switch str[1:] {
			case "\\":
				str = "\\"
			case "n":
				str = "\n"
			case "r":
				str = "\r"
			case "e":
				str = "\033"
			default:
				return word
			}
		} else if len(str) != 1 {
			return word
		}
		return fmt.Sprintf("%v", str[0])
	})

	// Do $() evaluations
	line = parenRe.ReplaceAllStringFunc(line, func(str string) string {
		value, _err := asm.parenEval(str[2 : len(str)-1])
		if _err != nil {
			err = _err
		}
		return fmt.Sprintf("%v", value)
	})
	if err != nil {
		return
	}

	words = strings.Fields(line)
	if len(words) == 0 {
		return
	}

	// .equ CONST VALUE
	if words[0] == ".equ" {
		if len(words) != 3 {
			err = ErrEquateSyntax
			return
		}
		_, ok := asm.Equate[words[1]]
		if ok {
			err = ErrEquateDuplicate
			return
		}
		asm.Equate[words[1]] = words[2]
		words = words[:0]
		return
	}

	for n, word := range words {
		// Check for equate next
		equate, ok := asm.Equate[word]
		if ok {
			words[n] = equate
		}
	}

	for strings.HasSuffix(words[0], ":") {
		label := words[0][:len(words[0])-1]
		_, ok := asm.Label[label]
		if ok {
			err = ErrLabelDuplicate
			return
		}

		if asm.Label == nil {
			asm.Label = make(map[string]int, 16)
		}
		asm.Label[label] = len(asm.prog.Bytes)
		words = words[1:]
		if len(words) == 0 {
			return
		}
	}

	// .macro expansion
	macro, ok := asm.Macro[words[0]]
	if ok {
		name := words[0]

		args := words[1:]
		if len(args) != len(macro.Args) {
			err = ErrMacroSyntax
			return
		}
		// Turn args into equs
		old_equate := maps.Clone(asm.Equate)
		for n, arg := range macro.Args {
			asm.Equate[arg] = args[n]
		}
		defer func() { asm.Equate = old_equate }()

		// '@' names are uniquified per expansion site, so a macro with an
		// internal label may be expanded more than once.
		unique := fmt.Sprintf("%v_%v_", name, lineno)

		for n, mline := range macro.Lines {
			mlineno := macro.LineNo + n

			mline = strings.ReplaceAll(mline, "@", unique)
			var mwords []string
			mwords, err = asm.parseLine(mline, mlineno)
			if err == nil {
				err = asm.parseWords(mwords, mlineno)
			}
			if err != nil {
				err = &ErrMacro{Macro: name, Line: mlineno, Err: err}
				return
			}
		}

		words = nil
		return
	}

	return
}

var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// emitValue emits a value operand: either a numeric byte, or a label
// reference patched after the pass.
func (asm *Assembler) emitValue(word string, lineno int, line string) (err error) {
	value, verr := asm.valueOf(word)
	if verr == nil {
		asm.prog.add(value, lineno)
		return
	}

	if identRe.MatchString(word) {
		asm.fixup = append(asm.fixup, fixup{
			Addr:   len(asm.prog.Bytes),
			Label:  word,
			LineNo: lineno,
			Line:   line,
		})
		asm.prog.add(0, lineno)
		return
	}

	err = verr
	return
}

// immediateOperand reports whether operand n of op is a value rather than
// a register index. Only the second operand of LDI is an immediate; every
// other operand names a register.
func immediateOperand(op Opcode, n int) bool {
	return op == LDI && n == 1
}

// parseWords evaluates the words of a line as a directive or instruction.
func (asm *Assembler) parseWords(words []string, lineno int) (err error) {
	// no-op
	if len(words) == 0 {
		return
	}

	// .byte VALUE...
	if words[0] == ".byte" {
		if len(words) < 2 {
			return ErrByteSyntax
		}
		for _, word := range words[1:] {
			err = asm.emitValue(word, lineno, strings.Join(words, " "))
			if err != nil {
				return
			}
		}
		return
	}

	op, ok := Mnemonic(strings.ToUpper(words[0]))
	if !ok {
		return ErrMnemonic(words[0])
	}
	inst := Decode(uint8(op))

	args := words[1:]
	if len(args) < inst.Operands {
		return ErrOperandMissing
	}
	if len(args) > inst.Operands {
		return ErrOperandExtra
	}

	asm.prog.add(uint8(op), lineno)

	for n, arg := range args {
		if immediateOperand(op, n) {
			err = asm.emitValue(arg, lineno, strings.Join(words, " "))
			if err != nil {
				return
			}
			continue
		}

		index, ok := registerOf(arg)
		if !ok {
			return ErrRegisterInvalid
		}
		asm.prog.add(index, lineno)
	}

	return
}

// Parse parses an input stream into a loadable Program.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {

	scanner := bufio.NewScanner(input)

	var line string
	var lineno int
	var macro *Macro

	defer func() {
		if err != nil {
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
			prog = nil
		}
	}()

	clear(asm.Label)
	if asm.Macro == nil {
		asm.Macro = make(map[string](*Macro))
	}
	clear(asm.Macro)
	asm.Equate = systemEquates()
	for attr, val := range asm.predefine {
		asm.Equate[attr] = val
	}
	asm.prog = &Program{}
	asm.fixup = asm.fixup[:0]

	for scanner.Scan() {
		text := scanner.Text()
		lineno += 1

		if asm.Verbose {
			log.Printf("%v: %v\n", lineno, text)
		}

		text_comment := strings.Split(text, "#")
		line = strings.TrimSpace(text_comment[0])
		words := strings.Fields(line)

		// .macro NAME arg...
		if len(words) > 0 && words[0] == ".macro" {
			if macro != nil {
				err = ErrMacroNesting
				return
			}
			if len(words) < 2 {
				err = ErrMacroSyntax
				return
			}
			_, ok := asm.Macro[words[1]]
			if ok {
				err = ErrMacroDuplicate
				return
			}
			macro = &Macro{
				LineNo: lineno + 1,
			}
			if len(words) > 2 {
				macro.Args = words[2:]
			}
			asm.Macro[words[1]] = macro
			continue
		}

		if len(words) > 0 && words[0] == ".endm" {
			if macro == nil {
				err = ErrMacroLonelyEndm
				return
			}
			macro = nil
			continue
		}

		if macro != nil {
			macro.Lines = append(macro.Lines, line)
			continue
		}

		words, err = asm.parseLine(line, lineno)
		if err != nil {
			return
		}

		err = asm.parseWords(words, lineno)
		if err != nil {
			return
		}
	}

	err = scanner.Err()
	if err != nil {
		return
	}

	if macro != nil {
		err = ErrMacroLonely
		return
	}

	// Final linking of label references.
	for _, fx := range asm.fixup {
		addr, ok := asm.Label[fx.Label]
		if !ok {
			lineno = fx.LineNo
			line = fx.Line
			err = ErrLabelMissing(fx.Label)
			return
		}
		if addr > 0xff {
			lineno = fx.LineNo
			line = fx.Line
			err = ErrValueRange(int64(addr))
			return
		}
		asm.prog.Bytes[fx.Addr] = uint8(addr)
	}

	prog = asm.prog
	return
}
