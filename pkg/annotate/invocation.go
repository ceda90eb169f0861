package annotate

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	opNameRe  = regexp.MustCompile(`(?:M3OP|M3OP_F)\s*\(\s*"([^"]+)"`)
	debugOpRe = regexp.MustCompile(`d_m3Debug(Typed)?Op\s*\((\w+)(?:,\s*(\d+))?\)`)
	debugCall = regexp.MustCompile(`d_m3Debug(?:Typed)?Op\s*\(`)
	commentRe = regexp.MustCompile(`//.*$`)
)

// rewriteOp numbers an M3OP or M3OP_F entry. The index becomes the new
// second field and the old second field moves one place right. Fields are
// counted from the macro name, so text before it is left alone.
func (s *State) rewriteOp(line string) (string, error) {
	m := opNameRe.FindStringSubmatchIndex(line)
	if m == nil {
		// M3OP_RESERVED and friends
		return line, nil
	}
	prefix, call := line[:m[0]], line[m[0]:]
	name := line[m[2]:m[3]]

	parts := strings.SplitN(call, ",", 3)
	if len(parts) < 3 {
		return "", fmt.Errorf("%w: %q needs at least three fields: %s", ErrMalformedEntry, name, strings.TrimSpace(line))
	}

	idx, err := s.assign()
	if err != nil {
		return "", err
	}
	s.register(name, idx)

	out := fmt.Sprintf("%s%s, %d, %s, %s", prefix, parts[0], idx, strings.TrimSpace(parts[1]), parts[2])
	comment := fmt.Sprintf("// 0x%02x", idx)
	if strings.Contains(out, "//") {
		return commentRe.ReplaceAllLiteralString(out, comment), nil
	}
	return strings.TrimRight(out, " \t") + "  " + comment, nil
}

// rewriteDebugOps numbers every debug-op occurrence on the line, left to
// right. Text outside the matches is copied through unchanged. A call the
// pattern cannot read, such as "d_m3DebugOp ( Foo )", is an error.
func (s *State) rewriteDebugOps(line string) (string, error) {
	matches := debugOpRe.FindAllStringSubmatchIndex(line, -1)
	if calls := debugCall.FindAllStringIndex(line, -1); len(calls) != len(matches) {
		return "", fmt.Errorf("%w: unreadable debug op: %s", ErrMalformedEntry, strings.TrimSpace(line))
	}
	if matches == nil {
		return line, nil
	}

	var sb strings.Builder
	last := 0
	for _, m := range matches {
		macro := markerDebugOp
		if m[2] >= 0 {
			macro = markerTypedOp
		}
		name := line[m[4]:m[5]]

		var idx uint
		if m[6] >= 0 {
			n, err := strconv.ParseUint(line[m[6]:m[7]], 10, 0)
			if err != nil || uint(n) == ^uint(0) {
				return "", fmt.Errorf("%w: bad explicit index for %s: %s", ErrMalformedEntry, name, line[m[6]:m[7]])
			}
			idx = uint(n)
			s.pin(idx)
		} else {
			var err error
			if idx, err = s.assign(); err != nil {
				return "", err
			}
		}
		s.register(name, idx)

		sb.WriteString(line[last:m[0]])
		fmt.Fprintf(&sb, "%s (%s, %d)", macro, name, idx)
		last = m[1]
	}
	sb.WriteString(line[last:])
	return sb.String(), nil
}
