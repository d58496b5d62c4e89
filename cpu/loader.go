// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"bufio"
	"io"
	"log"
	"strconv"
	"strings"
)

// Loader parses a program image in its textual source form: one binary
// literal per line, optional trailing comments after '#', blank and
// comment-only lines skipped.
type Loader struct {
	Strict bool // Fail on malformed lines instead of warning and skipping.
}

// Parse reads a program image from input. Malformed lines follow the
// configured policy: with Strict they fail with an ErrSyntax carrying the
// line number, otherwise they are logged as warnings and skipped.
func (ld *Loader) Parse(input io.Reader) (prog *Program, err error) {
	prog = &Program{}

	scanner := bufio.NewScanner(input)

	var lineno int
	for scanner.Scan() {
		lineno += 1
		line := scanner.Text()

		text, _, _ := strings.Cut(line, "#")
		fields := strings.Fields(text)
		if len(fields) == 0 {
			continue
		}

		var bad error
		var value uint64
		if len(fields) != 1 {
			bad = ErrNotBinary(strings.TrimSpace(text))
		} else {
			value, bad = strconv.ParseUint(fields[0], 2, 8)
			if bad != nil {
				bad = ErrNotBinary(fields[0])
			}
		}

		if bad != nil {
			if ld.Strict {
				prog = nil
				err = &ErrSyntax{LineNo: lineno, Line: line, Err: bad}
				return
			}
			log.Printf("ls8: line %d skipped: %v", lineno, bad)
			continue
		}

		prog.add(uint8(value), lineno)
	}

	err = scanner.Err()
	if err != nil {
		prog = nil
	}

	return
}
