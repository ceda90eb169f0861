package annotate

import (
	"regexp"
	"strings"
)

// floatFeature selects the four-variant typed body when it appears on the
// definition line.
const floatFeature = "d_m3HasFloat"

var defineRe = regexp.MustCompile(`^\s*#\s*define\s+(\w+)`)

type definitionKey struct {
	macro string
	float bool
}

// canonicalDefinitions holds the bodies that replace the debug-op macro
// definitions. Whatever body the source had is discarded.
var canonicalDefinitions = map[definitionKey]string{
	{markerDebugOp, false}: "#define d_m3DebugOp(OP, IDX) M3OP (#OP, IDX, 0, none, { op_##OP })",
	{markerDebugOp, true}:  "#define d_m3DebugOp(OP, IDX) M3OP (#OP, IDX, 0, none, { op_##OP })",
	{markerTypedOp, false}: "#define d_m3DebugTypedOp(OP, IDX) M3OP (#OP, IDX, 0, none, { op_##OP##_i32, op_##OP##_i64 })",
	{markerTypedOp, true}:  "#define d_m3DebugTypedOp(OP, IDX) M3OP (#OP, IDX, 0, none, { op_##OP##_i32, op_##OP##_i64, op_##OP##_f32, op_##OP##_f64, })",
}

// CanonicalDefinition returns the replacement body for a debug-op macro
// definition, or false if macro is not one of the rewritten names.
func CanonicalDefinition(macro string, float bool) (string, bool) {
	body, ok := canonicalDefinitions[definitionKey{macro, float}]
	return body, ok
}

// directive handles a line whose first non-blank character is '#'.
func (s *State) directive(line string) string {
	m := defineRe.FindStringSubmatch(line)
	if m == nil {
		return line
	}
	body, ok := CanonicalDefinition(m[1], strings.Contains(line, floatFeature))
	if !ok {
		return line
	}
	s.InDefinition = true
	indent := line[:len(line)-len(strings.TrimLeft(line, " \t"))]
	return indent + body
}
