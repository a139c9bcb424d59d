package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultQuality is used when the config file omits quality
	DefaultQuality = 85

	// DefaultFilter is the resampling filter used when the config file omits filter
	DefaultFilter = "lanczos3"

	configFileName = "config.json"
	pathsFileName  = "smallPath.txt"
)

// MatchMode selects how directory entries are recognized as JPEG files
type MatchMode string

const (
	// MatchSuffix accepts names ending in .jpg or .jpeg, case-insensitively
	MatchSuffix MatchMode = "suffix"
	// MatchContains accepts any name containing ".jpg", e.g. "a.jpg.bak"
	MatchContains MatchMode = "contains"
)

// KnownFilters lists the resampling filter names accepted in the config
var KnownFilters = []string{"lanczos3", "bilinear", "catmullrom", "approxbilinear", "lanczos", "box"}

// Dimension is a pixel size that can be written either as a number or as a
// quoted number ("500"), the way older config files store it.
type Dimension int

// UnmarshalYAML implements yaml.Unmarshaler
func (d *Dimension) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: expected a number, got %s", value.Line, nodeKindName(value.Kind))
	}

	n, err := strconv.Atoi(strings.TrimSpace(value.Value))
	if err != nil {
		return fmt.Errorf("line %d: invalid dimension %q", value.Line, value.Value)
	}

	*d = Dimension(n)
	return nil
}

func nodeKindName(kind yaml.Kind) string {
	switch kind {
	case yaml.MappingNode:
		return "mapping"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.AliasNode:
		return "alias"
	default:
		return "document"
	}
}

// ResizeConfig holds the target size and encoding settings for a run.
// It is loaded once at startup and passed by value afterwards.
type ResizeConfig struct {
	Width   int
	Height  int
	Quality int
	Filter  string
	Match   MatchMode

	// WorkPath is searched for SMALL folders when no directories are listed
	WorkPath string
}

// fileConfig mirrors the on-disk layout. Keys not listed here are ignored,
// so config files shared with other tools load without errors.
type fileConfig struct {
	Width    Dimension `yaml:"width"`
	Height   Dimension `yaml:"height"`
	Quality  *int      `yaml:"quality"`
	Filter   string    `yaml:"filter"`
	Match    string    `yaml:"match"`
	WorkPath string    `yaml:"work_path"`

	// Spelling used by the upload tool that shares this file
	LegacyWorkPath string `yaml:"WorkPath"`
}

// LoadResizeConfig reads and validates the configuration file at path.
// Both JSON and YAML files are accepted.
func LoadResizeConfig(path string) (ResizeConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ResizeConfig{}, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg, err := ParseResizeConfig(data)
	if err != nil {
		return ResizeConfig{}, fmt.Errorf("%s: %w", path, err)
	}

	return cfg, nil
}

// ParseResizeConfig decodes and validates config file contents
func ParseResizeConfig(data []byte) (ResizeConfig, error) {
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return ResizeConfig{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg := ResizeConfig{
		Width:   int(fc.Width),
		Height:  int(fc.Height),
		Quality: DefaultQuality,
		Filter:  DefaultFilter,
		Match:   MatchSuffix,
	}
	if fc.Quality != nil {
		cfg.Quality = *fc.Quality
	}
	if fc.Filter != "" {
		cfg.Filter = strings.ToLower(fc.Filter)
	}
	if fc.Match != "" {
		cfg.Match = MatchMode(strings.ToLower(fc.Match))
	}
	cfg.WorkPath = fc.WorkPath
	if cfg.WorkPath == "" {
		cfg.WorkPath = fc.LegacyWorkPath
	}

	if err := cfg.Validate(); err != nil {
		return ResizeConfig{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Validate checks that the configuration describes a usable resize
func (c ResizeConfig) Validate() error {
	if c.Width <= 0 {
		return fmt.Errorf("width must be a positive integer, got %d", c.Width)
	}
	if c.Height <= 0 {
		return fmt.Errorf("height must be a positive integer, got %d", c.Height)
	}
	if c.Quality < 0 || c.Quality > 100 {
		return fmt.Errorf("quality must be between 0 and 100, got %d", c.Quality)
	}
	if !isKnownFilter(c.Filter) {
		return fmt.Errorf("unknown filter %q (known: %s)", c.Filter, strings.Join(KnownFilters, ", "))
	}
	if c.Match != MatchSuffix && c.Match != MatchContains {
		return fmt.Errorf("unknown match mode %q (known: %s, %s)", c.Match, MatchSuffix, MatchContains)
	}
	return nil
}

func isKnownFilter(name string) bool {
	for _, f := range KnownFilters {
		if f == name {
			return true
		}
	}
	return false
}

// String renders the config for the run header
func (c ResizeConfig) String() string {
	return fmt.Sprintf("%dx%d, quality %d, filter %s", c.Width, c.Height, c.Quality, c.Filter)
}

// DefaultConfigPath returns config.json next to the executable
func DefaultConfigPath() string {
	return besideExecutable(configFileName)
}

// DefaultDirectoryListPath returns smallPath.txt next to the executable
func DefaultDirectoryListPath() string {
	return besideExecutable(pathsFileName)
}

func besideExecutable(name string) string {
	execPath, err := os.Executable()
	if err != nil {
		return name
	}
	return filepath.Join(filepath.Dir(execPath), name)
}
