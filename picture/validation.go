package picture

import (
	"path/filepath"
	"strings"

	"github.com/lepinkainen/jpegshrink/config"
)

// TempPrefix is prepended to a file name to form its temporary output name
const TempPrefix = "SMALL_"

// IsJPEGName reports whether a directory entry name selects a file for resizing
func IsJPEGName(name string, mode config.MatchMode) bool {
	if mode == config.MatchContains {
		return strings.Contains(name, ".jpg")
	}

	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".jpg" || ext == ".jpeg"
}

// TempPath returns the temporary output path for an image: the same
// directory with SMALL_ prepended to the file name
func TempPath(path string) string {
	dir, name := filepath.Split(path)
	return filepath.Join(dir, TempPrefix+name)
}

// IsTempName reports whether name looks like a temporary output file
func IsTempName(name string) bool {
	return strings.HasPrefix(name, TempPrefix)
}
