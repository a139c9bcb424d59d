package types

import (
	"io"
	"os"
)

// DefaultVersion is the fallback version when AppContext is nil
const DefaultVersion = "dev"

// AppContext holds application-wide context information passed to commands
type AppContext struct {
	Version string

	// Out receives console output; nil means stdout
	Out io.Writer
}

// VersionOrDefault returns the version, tolerating a nil context
func (c *AppContext) VersionOrDefault() string {
	if c == nil || c.Version == "" {
		return DefaultVersion
	}
	return c.Version
}

// Writer returns the console output destination
func (c *AppContext) Writer() io.Writer {
	if c == nil || c.Out == nil {
		return os.Stdout
	}
	return c.Out
}
