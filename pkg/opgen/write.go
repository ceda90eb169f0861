package opgen

import (
	"fmt"
	"os"
	"path/filepath"
)

type pendingFile struct {
	path string
	data []byte
	tmp  string
}

// writeFiles stages every file as a temp file beside its target and only
// renames once all of them were written.
func writeFiles(files []pendingFile) (err error) {
	defer func() {
		if err == nil {
			return
		}
		for _, f := range files {
			if f.tmp != "" {
				os.Remove(f.tmp)
			}
		}
	}()

	for i := range files {
		f := &files[i]
		tmp, err := os.CreateTemp(filepath.Dir(f.path), "."+filepath.Base(f.path)+".*")
		if err != nil {
			return fmt.Errorf("failed to stage %s: %w", f.path, err)
		}
		f.tmp = tmp.Name()
		if _, err := tmp.Write(f.data); err != nil {
			tmp.Close()
			return fmt.Errorf("failed to write %s: %w", f.path, err)
		}
		if err := tmp.Close(); err != nil {
			return fmt.Errorf("failed to write %s: %w", f.path, err)
		}
		if err := os.Chmod(f.tmp, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", f.path, err)
		}
	}

	for i := range files {
		f := &files[i]
		if err := os.Rename(f.tmp, f.path); err != nil {
			return fmt.Errorf("failed to write %s: %w", f.path, err)
		}
		f.tmp = ""
	}
	return nil
}
