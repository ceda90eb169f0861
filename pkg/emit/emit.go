// Package emit renders the generated op-name header from an annotated
// operation table.
package emit

import (
	"fmt"
	"sort"
	"strings"

	"m3opgen/pkg/annotate"
)

// Options names the symbols used in the generated header.
type Options struct {
	Guard     string // preprocessor condition around the whole listing
	EnumType  string
	Prefix    string // prepended to every enumerator
	ArrayName string
	Section   string // empty drops the section attribute
	Accessor  string
}

// DefaultOptions matches the names the wasm3 runtime looks up.
func DefaultOptions() Options {
	return Options{
		Guard:     "DEBUG && M3_FUNCTIONS_ENUM",
		EnumType:  "M3OpNames",
		Prefix:    "M3OP_NAME_",
		ArrayName: "opNames",
		Section:   ".rodata",
		Accessor:  "getOpName",
	}
}

// WithDefaults fills every empty field from DefaultOptions, except Section,
// where empty means no attribute. A zero Options becomes DefaultOptions.
func (o Options) WithDefaults() Options {
	def := DefaultOptions()
	if o == (Options{}) {
		return def
	}
	fill := func(v *string, d string) {
		if *v == "" {
			*v = d
		}
	}
	fill(&o.Guard, def.Guard)
	fill(&o.EnumType, def.EnumType)
	fill(&o.Prefix, def.Prefix)
	fill(&o.ArrayName, def.ArrayName)
	fill(&o.Accessor, def.Accessor)
	return o
}

// Header renders the enumeration, the positional name array and the
// accessor. The enumeration lists every upper-cased identifier once, the
// array has one slot per occurrence; both are ordered by index.
func Header(t *annotate.Table, opts Options) string {
	var sb strings.Builder

	sb.WriteString("// Auto-generated enum for operation names\n")
	sb.WriteString("#pragma once\n\n")
	fmt.Fprintf(&sb, "#if %s\n", opts.Guard)
	fmt.Fprintf(&sb, "enum %s {\n", opts.EnumType)
	seen := make(map[string]bool)
	for _, e := range byIndex(t.Entries) {
		name := opts.Prefix + strings.ToUpper(e.Ident)
		if seen[name] {
			continue
		}
		seen[name] = true
		fmt.Fprintf(&sb, "    %s = %d,\n", name, e.Index)
	}
	sb.WriteString("};\n\n")

	sb.WriteString("// Auto-generated array of operation names\n")
	if opts.Section != "" {
		fmt.Fprintf(&sb, "static cstr_t %s[] __attribute__((section(\"%s\"))) = {\n", opts.ArrayName, opts.Section)
	} else {
		fmt.Fprintf(&sb, "static cstr_t %s[] = {\n", opts.ArrayName)
	}
	for _, e := range byIndex(t.Occurrences) {
		fmt.Fprintf(&sb, "    \"%s\",\n", e.Name)
	}
	sb.WriteString("};\n\n")

	sb.WriteString("// Auto-generated getter function\n")
	fmt.Fprintf(&sb, "static cstr_t %s(uint8_t id) {\n", opts.Accessor)
	fmt.Fprintf(&sb, "    return %s[id];\n", opts.ArrayName)
	sb.WriteString("}\n")
	sb.WriteString("#endif\n")

	return sb.String()
}

func byIndex(entries []annotate.Entry) []annotate.Entry {
	sorted := append([]annotate.Entry(nil), entries...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Index < sorted[j].Index
	})
	return sorted
}
