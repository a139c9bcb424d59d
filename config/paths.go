package config

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// SmallDirName is the folder name FindSmallDirs looks for
const SmallDirName = "SMALL"

// DirectoryList is the ordered, de-duplicated set of directories to process
type DirectoryList []string

// ParseDirectoryList splits a ';'-separated list of directories.
// Line breaks are removed before splitting.
func ParseDirectoryList(text string) DirectoryList {
	text = strings.NewReplacer("\r", "", "\n", "").Replace(text)
	return NewDirectoryList(strings.Split(text, ";")...)
}

// NewDirectoryList builds a list from individual entries. Surrounding
// whitespace is trimmed, blank entries are dropped and only the first
// occurrence of each directory is kept.
func NewDirectoryList(entries ...string) DirectoryList {
	seen := make(map[string]bool)
	var dirs DirectoryList

	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}

		key := filepath.Clean(entry)
		if seen[key] {
			continue
		}
		seen[key] = true

		dirs = append(dirs, entry)
	}

	return dirs
}

// LoadDirectoryList reads a directory list file
func LoadDirectoryList(path string) (DirectoryList, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory list: %w", err)
	}

	return ParseDirectoryList(string(data)), nil
}

// FindSmallDirs walks root and returns every directory named SMALL (in any
// letter case), in walk order. Folders below a SMALL folder are not searched.
func FindSmallDirs(root string) (DirectoryList, error) {
	var found []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() && strings.EqualFold(d.Name(), SmallDirName) {
			found = append(found, path)
			return filepath.SkipDir
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search %s for %s folders: %w", root, SmallDirName, err)
	}

	return NewDirectoryList(found...), nil
}
