package importer

import (
	"fmt"
	"os"
)

// Rollback reverses manifest's entries in last-applied-first order:
// each written destination is removed, a backup (if one was made before
// overwriting) is restored in its place, and a moved source file is
// recreated by copying the destination back.
func Rollback(manifest Manifest) error {
	for i := len(manifest.Entries) - 1; i >= 0; i-- {
		entry := manifest.Entries[i]

		if entry.Action == ActionMove && entry.Src != "" {
			if err := copyFile(entry.Dst, entry.Src); err != nil {
				return fmt.Errorf("importer: restoring moved source %s: %w", entry.Src, err)
			}
		}

		if err := os.Remove(entry.Dst); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("importer: removing %s: %w", entry.Dst, err)
		}

		if entry.Backup != "" {
			if err := os.Rename(entry.Backup, entry.Dst); err != nil {
				return fmt.Errorf("importer: restoring backup %s: %w", entry.Backup, err)
			}
		}
	}
	return nil
}
