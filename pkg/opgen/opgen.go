// Package opgen ties the annotator and the header emitter together: it reads
// one operation table, numbers it, and writes the rewritten table and the
// generated header only once both have been produced in memory.
package opgen

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"m3opgen/pkg/annotate"
	"m3opgen/pkg/emit"
)

// Paths used when Config leaves them empty. The header lands next to the
// input.
const (
	DefaultInput      = "source/operations_reference.h"
	DefaultHeaderName = "m3_op_names_generated.h"
)

var (
	// ErrNotFound is returned when the input file does not exist.
	ErrNotFound = errors.New("input file not found")

	// ErrNoOperations is returned when the input holds no numbered entry.
	ErrNoOperations = errors.New("no operations found")
)

// Config describes one run. Empty fields take their defaults; in Emit only
// the empty fields are filled.
type Config struct {
	Input  string
	Output string // rewritten table; defaults to <input>.modified<ext>
	Header string // generated header; defaults next to the input
	DryRun bool
	Emit   emit.Options
}

func (c Config) withDefaults() Config {
	if c.Input == "" {
		c.Input = DefaultInput
	}
	if c.Output == "" {
		c.Output = ModifiedPath(c.Input)
	}
	if c.Header == "" {
		c.Header = filepath.Join(filepath.Dir(c.Input), DefaultHeaderName)
	}
	c.Emit = c.Emit.WithDefaults()
	return c
}

// ModifiedPath inserts ".modified" before the extension of path.
func ModifiedPath(path string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + ".modified" + ext
}

// Summary reports what a run found and where it wrote it.
type Summary struct {
	Input       string
	Output      string
	Header      string
	Occurrences int
	Identifiers int
	Next        uint
	Entries     []annotate.Entry
	Written     bool
}

// Run performs one pass. On any error nothing is written.
func Run(cfg Config) (*Summary, error) {
	cfg = cfg.withDefaults()

	if _, err := os.Stat(cfg.Input); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, cfg.Input)
		}
		return nil, err
	}

	src, err := os.ReadFile(cfg.Input)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", cfg.Input, err)
	}

	res, err := annotate.Annotate(string(src))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", cfg.Input, err)
	}
	if len(res.Table.Occurrences) == 0 {
		return nil, fmt.Errorf("%s: %w", cfg.Input, ErrNoOperations)
	}
	header := emit.Header(res.Table, cfg.Emit)

	sum := &Summary{
		Input:       cfg.Input,
		Output:      cfg.Output,
		Header:      cfg.Header,
		Occurrences: len(res.Table.Occurrences),
		Identifiers: len(res.Table.Entries),
		Next:        res.Next,
		Entries:     res.Table.Occurrences,
	}
	if cfg.DryRun {
		return sum, nil
	}

	err = writeFiles([]pendingFile{
		{path: cfg.Output, data: []byte(res.Source)},
		{path: cfg.Header, data: []byte(header)},
	})
	if err != nil {
		return nil, err
	}
	sum.Written = true
	return sum, nil
}
