package cleanup

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"statsweep/internal/fileutil"
)

// backupFiles copies every path into backupDir, preserving each file's
// location relative to dataDir. Copies are checksum-verified; the
// first failure aborts and the caller must treat the run as dead
// before any mutation.
func backupFiles(paths []string, dataDir, backupDir string) error {
	if err := os.MkdirAll(backupDir, 0o755); err != nil {
		return fmt.Errorf("create backup dir: %w", err)
	}
	for _, path := range paths {
		rel, err := filepath.Rel(dataDir, path)
		if err != nil || strings.HasPrefix(rel, "..") {
			rel = filepath.Base(path)
		}
		dst := filepath.Join(backupDir, rel)
		if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
			return fmt.Errorf("create backup subdir for %s: %w", rel, err)
		}
		if err := fileutil.CopyFileVerified(path, dst); err != nil {
			return fmt.Errorf("backup %s: %w", path, err)
		}
	}
	return nil
}

// Restore copies every file under backupDir back to its original
// location beneath dataDir. Used to roll back a bad apply run.
func Restore(backupDir, dataDir string) (int, error) {
	restored := 0
	err := filepath.WalkDir(backupDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".json") {
			return nil
		}
		rel, err := filepath.Rel(backupDir, path)
		if err != nil {
			return err
		}
		dst := filepath.Join(dataDir, rel)
		if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
			return fmt.Errorf("create dir for %s: %w", rel, err)
		}
		if err := fileutil.CopyFileVerified(path, dst); err != nil {
			return fmt.Errorf("restore %s: %w", rel, err)
		}
		restored++
		return nil
	})
	if err != nil {
		return restored, err
	}
	if restored == 0 {
		return 0, fmt.Errorf("no archive files found under %s", backupDir)
	}
	return restored, nil
}
