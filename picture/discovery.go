package picture

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/lepinkainen/jpegshrink/config"
)

// ScanDirectory lists the JPEG files directly inside directory.
// Subdirectories are not descended into.
func ScanDirectory(directory string, mode config.MatchMode) ([]string, error) {
	entries, err := os.ReadDir(directory)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", directory, err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		if !IsJPEGName(entry.Name(), mode) {
			continue
		}

		files = append(files, filepath.Join(directory, entry.Name()))
	}

	return files, nil
}

// FindJPEGFiles scans every directory and returns the matching files in
// directory order. A file reachable through two spellings of the same
// directory is returned once. Directories that cannot be read are returned
// in failed and do not stop the scan.
func FindJPEGFiles(dirs []string, mode config.MatchMode) (files []string, failed map[string]error) {
	seen := make(map[string]bool)

	for _, dir := range dirs {
		found, err := ScanDirectory(dir, mode)
		if err != nil {
			if failed == nil {
				failed = make(map[string]error)
			}
			failed[dir] = err
			continue
		}

		for _, path := range found {
			key := filepath.Clean(path)
			if abs, err := filepath.Abs(path); err == nil {
				key = abs
			}
			if seen[key] {
				continue
			}
			seen[key] = true
			files = append(files, path)
		}
	}

	return files, failed
}
