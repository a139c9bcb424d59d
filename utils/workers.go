package utils

import (
	"path/filepath"
	"runtime"
	"strings"
)

// IsNetworkPath detects if a directory is on a network-mounted drive
func IsNetworkPath(path string) bool {
	// UNC paths must be checked before filepath.Abs rewrites them
	if strings.HasPrefix(path, "//") || strings.HasPrefix(path, `\\`) {
		return true
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	absPath = filepath.ToSlash(absPath)

	networkPrefixes := []string{
		"/mnt/",     // Linux NFS/SMB mounts
		"/media/",   // Linux removable/network media
		"/Volumes/", // macOS network volumes
	}
	for _, prefix := range networkPrefixes {
		if strings.HasPrefix(absPath, prefix) {
			return true
		}
	}

	lowerPath := strings.ToLower(absPath)
	for _, indicator := range []string{"nfs", "cifs", "smb", "webdav"} {
		if strings.Contains(lowerPath, "/"+indicator) {
			return true
		}
	}

	return false
}

// DefaultWorkers picks a worker count for resizing files in dirs:
// one CPU per worker for local directories, a single worker as soon as
// any directory lives on a network drive.
func DefaultWorkers(dirs []string) int {
	if HasNetworkPath(dirs) {
		return 1
	}
	return runtime.NumCPU()
}

// HasNetworkPath reports whether any of dirs is on a network drive
func HasNetworkPath(dirs []string) bool {
	for _, dir := range dirs {
		if IsNetworkPath(dir) {
			return true
		}
	}
	return false
}
