package utils

import (
	"fmt"
	"os"
)

// CheckDirectoryAccess verifies that dir can be listed and written to.
// Resizing writes a temporary file next to each image, so a read-only
// directory fails every file.
func CheckDirectoryAccess(dir string) error {
	fi, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("cannot access %s: %w", dir, err)
	}
	if !fi.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}

	if _, err := os.ReadDir(dir); err != nil {
		return fmt.Errorf("cannot list %s: %w", dir, err)
	}

	f, err := os.CreateTemp(dir, ".jpegshrink-probe-*")
	if err != nil {
		return fmt.Errorf("%s is not writable: %w", dir, err)
	}
	name := f.Name()
	_ = f.Close()
	if err := os.Remove(name); err != nil {
		return fmt.Errorf("cannot remove probe file in %s: %w", dir, err)
	}

	return nil
}
