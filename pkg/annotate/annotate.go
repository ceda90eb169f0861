// Package annotate rewrites a wasm3 operation table so that every M3OP,
// M3OP_F, d_m3DebugOp and d_m3DebugTypedOp entry carries an explicit opcode
// index, and collects the discovered entries into a Table.
//
// The scanner is line oriented. It recognizes a few literal macro shapes and
// never parses the surrounding C: a line is either a directive, a template
// line belonging to a debug-op definition, or a live invocation.
package annotate

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedEntry is returned when a recognized invocation does not have
// the field structure the rewrite needs.
var ErrMalformedEntry = errors.New("malformed entry")

const (
	markerOp      = "M3OP"
	markerDebugOp = "d_m3DebugOp"
	markerTypedOp = "d_m3DebugTypedOp"
)

// Result is the outcome of a full pass over one source file.
type Result struct {
	Source string
	Table  *Table
	Next   uint
}

// Annotate runs one pass over src. Line terminators are kept so the output
// has the same number of lines as the input. Nothing is returned unless
// every line was processed.
func Annotate(src string) (*Result, error) {
	var s State
	var out strings.Builder
	out.Grow(len(src) + len(src)/8)

	for i, raw := range strings.SplitAfter(src, "\n") {
		if raw == "" {
			continue
		}
		body, eol := splitEOL(raw)
		line, err := s.Line(body)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		out.WriteString(line)
		out.WriteString(eol)
	}

	return &Result{Source: out.String(), Table: s.Table(), Next: s.Next}, nil
}

func splitEOL(raw string) (string, string) {
	if strings.HasSuffix(raw, "\r\n") {
		return raw[:len(raw)-2], "\r\n"
	}
	if strings.HasSuffix(raw, "\n") {
		return raw[:len(raw)-1], "\n"
	}
	return raw, ""
}
