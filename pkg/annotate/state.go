package annotate

import (
	"fmt"
	"strings"
)

// State is the scanner state threaded through every line of a pass.
// The zero value starts a fresh pass at index 0.
type State struct {
	// Next is the index the next auto-numbered entry receives. It never
	// decreases.
	Next uint
	// InDefinition is set after a debug-op #define and stays set while the
	// following lines still carry an invocation marker.
	InDefinition bool

	occurrences []Entry
	order       []string
	latest      map[string]Entry
}

// Line classifies one line (without its terminator) and returns the
// rewritten text.
func (s *State) Line(line string) (string, error) {
	if strings.HasPrefix(strings.TrimSpace(line), "#") {
		return s.directive(line), nil
	}

	if !hasMarker(line) {
		s.InDefinition = false
		return line, nil
	}

	if s.InDefinition {
		return line, nil
	}

	out := line
	if strings.Contains(line, markerOp) {
		var err error
		if out, err = s.rewriteOp(out); err != nil {
			return "", err
		}
	}
	if strings.Contains(line, markerDebugOp) || strings.Contains(line, markerTypedOp) {
		var err error
		if out, err = s.rewriteDebugOps(out); err != nil {
			return "", err
		}
	}
	return out, nil
}

func hasMarker(line string) bool {
	return strings.Contains(line, markerOp) ||
		strings.Contains(line, markerDebugOp) ||
		strings.Contains(line, markerTypedOp)
}

// assign hands out the next automatic index. It fails rather than let Next
// wrap around.
func (s *State) assign() (uint, error) {
	if s.Next == ^uint(0) {
		return 0, fmt.Errorf("%w: index space exhausted", ErrMalformedEntry)
	}
	idx := s.Next
	s.Next++
	return idx, nil
}

// pin records an explicit index, pushing Next past it if needed.
func (s *State) pin(idx uint) {
	if idx+1 > s.Next {
		s.Next = idx + 1
	}
}

func (s *State) register(name string, idx uint) {
	e := Entry{Name: name, Index: idx, Ident: Sanitize(name)}
	s.occurrences = append(s.occurrences, e)

	if s.latest == nil {
		s.latest = make(map[string]Entry)
	}
	if _, seen := s.latest[e.Ident]; !seen {
		s.order = append(s.order, e.Ident)
	}
	s.latest[e.Ident] = e
}

// Table snapshots the entries registered so far.
func (s *State) Table() *Table {
	t := &Table{
		Occurrences: append([]Entry(nil), s.occurrences...),
		Entries:     make([]Entry, 0, len(s.order)),
	}
	for _, ident := range s.order {
		t.Entries = append(t.Entries, s.latest[ident])
	}
	return t
}
