package annotate

import "strings"

// Entry is one operation discovered in the table.
type Entry struct {
	Name  string // as written in the source
	Index uint
	Ident string // Name with . / - : replaced by _
}

// Table is what a pass hands to the header emitter.
type Table struct {
	// Occurrences has one element per registered invocation, in scan order.
	Occurrences []Entry
	// Entries has one element per identifier, in first-seen order, holding
	// the most recent registration for that identifier.
	Entries []Entry
}

var identReplacer = strings.NewReplacer(".", "_", "/", "_", "-", "_", ":", "_")

// Sanitize turns an operation name into an identifier fragment.
func Sanitize(name string) string {
	return identReplacer.Replace(name)
}
