package cmd

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/lepinkainen/jpegshrink/config"
)

// SourceFlags selects the configuration file and the directories to work on.
// It is embedded in every command that walks the directory list.
type SourceFlags struct {
	Config string   `help:"Resize configuration file (JSON or YAML). Defaults to config.json next to the executable" type:"path" placeholder:"FILE"`
	Paths  string   `help:"File listing the directories to process, separated by ';'. Defaults to smallPath.txt next to the executable" type:"path" placeholder:"FILE"`
	Dirs   []string `arg:"" optional:"" name:"dirs" help:"Directories to process instead of the ones in the paths file" type:"path"`
}

func (s *SourceFlags) configPath() string {
	if s.Config != "" {
		return s.Config
	}
	return config.DefaultConfigPath()
}

func (s *SourceFlags) pathsPath() string {
	if s.Paths != "" {
		return s.Paths
	}
	return config.DefaultDirectoryListPath()
}

// loadDirectories returns the directories given on the command line, or
// the ones from the paths file when none were given. When neither names a
// directory and the config has a work path, the SMALL folders below it are
// used instead.
func (s *SourceFlags) loadDirectories(cfg config.ResizeConfig) (config.DirectoryList, error) {
	if len(s.Dirs) > 0 {
		return config.NewDirectoryList(s.Dirs...), nil
	}

	dirs, err := config.LoadDirectoryList(s.pathsPath())
	if err != nil && (cfg.WorkPath == "" || !errors.Is(err, fs.ErrNotExist)) {
		return nil, fmt.Errorf("failed to load directories: %w", err)
	}
	if len(dirs) > 0 || cfg.WorkPath == "" {
		return dirs, nil
	}

	return config.FindSmallDirs(cfg.WorkPath)
}
