package opgen

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"m3opgen/pkg/annotate"
	"m3opgen/pkg/emit"
)

func copyFixture(t *testing.T, dir string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", "operations_reference.h"))
	if err != nil {
		t.Fatalf("failed to read fixture: %v", err)
	}
	path := filepath.Join(dir, "operations_reference.h")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("failed to copy fixture: %v", err)
	}
	return path
}

func readGolden(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name+".golden"))
	if err != nil {
		t.Fatalf("failed to read golden file: %v", err)
	}
	return string(data)
}

func TestRunGolden(t *testing.T) {
	dir := t.TempDir()
	input := copyFixture(t, dir)

	sum, err := Run(Config{Input: input})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if want := filepath.Join(dir, "operations_reference.modified.h"); sum.Output != want {
		t.Errorf("Output = %q, want %q", sum.Output, want)
	}
	if want := filepath.Join(dir, DefaultHeaderName); sum.Header != want {
		t.Errorf("Header = %q, want %q", sum.Header, want)
	}
	if !sum.Written {
		t.Error("Written = false")
	}

	// "termination" is registered twice.
	if sum.Occurrences != 82 {
		t.Errorf("Occurrences = %d, want 82", sum.Occurrences)
	}
	if sum.Identifiers != 81 {
		t.Errorf("Identifiers = %d, want 81", sum.Identifiers)
	}
	if sum.Next != 82 {
		t.Errorf("Next = %d, want 82", sum.Next)
	}

	for _, tc := range []struct{ path, golden string }{
		{sum.Output, "operations_reference.modified.h"},
		{sum.Header, DefaultHeaderName},
	} {
		got, err := os.ReadFile(tc.path)
		if err != nil {
			t.Fatalf("failed to read %s: %v", tc.path, err)
		}
		if want := readGolden(t, tc.golden); string(got) != want {
			t.Errorf("%s differs from %s.golden:\n%s", tc.path, tc.golden, got)
		}
	}
}

func TestRunMissingInput(t *testing.T) {
	dir := t.TempDir()
	_, err := Run(Config{Input: filepath.Join(dir, "nope.h")})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("Run() error = %v, want ErrNotFound", err)
	}
	assertEmptyDir(t, dir)
}

func TestRunMalformedWritesNothing(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "ops.h")
	src := "    M3OP( \"nop\", 0, none, x ),\n    M3OP( \"broken\" ),\n"
	if err := os.WriteFile(input, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := Run(Config{Input: input})
	if !errors.Is(err, annotate.ErrMalformedEntry) {
		t.Fatalf("Run() error = %v, want ErrMalformedEntry", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		var names []string
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Errorf("directory holds %v, want only ops.h", names)
	}
}

func TestRunNoOperations(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "ops.h")
	src := "{\n    M3OP_RESERVED, M3OP_RESERVED,\n};\n"
	if err := os.WriteFile(input, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := Run(Config{Input: input})
	if !errors.Is(err, ErrNoOperations) {
		t.Fatalf("Run() error = %v, want ErrNoOperations", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("directory holds %d files, want only ops.h", len(entries))
	}
}

func TestRunDryRun(t *testing.T) {
	dir := t.TempDir()
	input := copyFixture(t, dir)

	sum, err := Run(Config{Input: input, DryRun: true})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if sum.Written {
		t.Error("Written = true on a dry run")
	}
	if sum.Occurrences != 82 {
		t.Errorf("Occurrences = %d, want 82", sum.Occurrences)
	}
	if _, err := os.Stat(sum.Output); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("dry run created %s", sum.Output)
	}
	if _, err := os.Stat(sum.Header); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("dry run created %s", sum.Header)
	}
}

func TestRunExplicitPaths(t *testing.T) {
	dir := t.TempDir()
	input := copyFixture(t, dir)
	outDir := filepath.Join(dir, "out")
	if err := os.Mkdir(outDir, 0o755); err != nil {
		t.Fatal(err)
	}

	cfg := Config{
		Input:  input,
		Output: filepath.Join(outDir, "table.h"),
		Header: filepath.Join(outDir, "names.h"),
	}
	if _, err := Run(cfg); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	entries, err := os.ReadDir(outDir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Errorf("out dir holds %d files, want 2 (no leftover temp files)", len(entries))
	}
}

func TestWriteFilesCleansUpOnFailure(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.h")
	missing := filepath.Join(dir, "missing", "bad.h")

	err := writeFiles([]pendingFile{
		{path: good, data: []byte("x")},
		{path: missing, data: []byte("y")},
	})
	if err == nil {
		t.Fatal("writeFiles succeeded writing into a missing directory")
	}
	assertEmptyDir(t, dir)
}

func TestModifiedPath(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"source/operations_reference.h", "source/operations_reference.modified.h"},
		{"table", "table.modified"},
		{"a.b/ops.c", "a.b/ops.modified.c"},
	}
	for _, tc := range tests {
		if got := ModifiedPath(tc.in); got != tc.want {
			t.Errorf("ModifiedPath(%q) = %q; want %q", tc.in, got, tc.want)
		}
	}
}

func TestConfigDefaults(t *testing.T) {
	cfg := Config{}.withDefaults()
	if cfg.Input != DefaultInput {
		t.Errorf("Input = %q, want %q", cfg.Input, DefaultInput)
	}
	if want := filepath.Join("source", "operations_reference.modified.h"); cfg.Output != want {
		t.Errorf("Output = %q, want %q", cfg.Output, want)
	}
	if want := filepath.Join("source", DefaultHeaderName); cfg.Header != want {
		t.Errorf("Header = %q, want %q", cfg.Header, want)
	}
	if cfg.Emit.Prefix != "M3OP_NAME_" {
		t.Errorf("Emit.Prefix = %q, want M3OP_NAME_", cfg.Emit.Prefix)
	}
}

func TestConfigFillsEmptyEmitFields(t *testing.T) {
	cfg := Config{Emit: emit.Options{Prefix: "OP_"}}.withDefaults()
	want := emit.DefaultOptions()
	want.Prefix = "OP_"
	want.Section = ""
	if cfg.Emit != want {
		t.Errorf("Emit = %+v, want %+v", cfg.Emit, want)
	}
}

func assertEmptyDir(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		var names []string
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Errorf("directory should be empty, holds %v", names)
	}
}
