package cmd

import (
	"errors"
	"fmt"
	"io"
	"io/fs"

	"github.com/lepinkainen/jpegshrink/batch"
	"github.com/lepinkainen/jpegshrink/config"
	"github.com/lepinkainen/jpegshrink/types"
	"github.com/lepinkainen/jpegshrink/ui"
	"github.com/lepinkainen/jpegshrink/utils"
)

// ResizeCmd resizes every JPEG in the configured directories in place
type ResizeCmd struct {
	Source SourceFlags `embed:""`

	Workers     int    `help:"Number of files resized in parallel (0 = one per CPU, 1 on network drives)" default:"1"`
	Width       int    `help:"Override the configured width"`
	Height      int    `help:"Override the configured height"`
	Quality     int    `help:"Override the configured JPEG quality (0-100)" default:"-1"`
	Filter      string `help:"Override the configured resampling filter (lanczos3, bilinear, catmullrom, approxbilinear, lanczos, box)"`
	Match       string `help:"Override how files are selected (suffix, contains)"`
	MaxDistance int    `help:"Warn when the perceptual hash distance between original and resized image exceeds this (1-64, 0 = off)" default:"0"`
	CheckAccess bool   `help:"Check that every directory is writable before starting"`
	TUI         bool   `name:"tui" help:"Show an interactive progress display"`
}

// loadConfig reads the config file and applies command line overrides.
// A missing config file is tolerated when width and height are both given.
func (cmd *ResizeCmd) loadConfig() (config.ResizeConfig, error) {
	cfg, err := config.LoadResizeConfig(cmd.Source.configPath())
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) || cmd.Width <= 0 || cmd.Height <= 0 {
			return config.ResizeConfig{}, err
		}
		cfg = config.ResizeConfig{
			Quality: config.DefaultQuality,
			Filter:  config.DefaultFilter,
			Match:   config.MatchSuffix,
		}
	}

	if cmd.Width > 0 {
		cfg.Width = cmd.Width
	}
	if cmd.Height > 0 {
		cfg.Height = cmd.Height
	}
	if cmd.Quality >= 0 {
		cfg.Quality = cmd.Quality
	}
	if cmd.Filter != "" {
		cfg.Filter = cmd.Filter
	}
	if cmd.Match != "" {
		cfg.Match = config.MatchMode(cmd.Match)
	}

	if err := cfg.Validate(); err != nil {
		return config.ResizeConfig{}, fmt.Errorf("invalid settings: %w", err)
	}
	if cmd.MaxDistance < 0 || cmd.MaxDistance > 64 {
		return config.ResizeConfig{}, fmt.Errorf("max-distance must be between 0 and 64, got %d", cmd.MaxDistance)
	}

	return cfg, nil
}

func (cmd *ResizeCmd) Run(appCtx *types.AppContext) error {
	out := appCtx.Writer()

	cfg, err := cmd.loadConfig()
	if err != nil {
		return err
	}

	dirs, err := cmd.Source.loadDirectories(cfg)
	if err != nil {
		return err
	}

	fmt.Fprintln(out, ui.HeaderStyle.Render(fmt.Sprintf("jpegshrink %s", appCtx.VersionOrDefault())))

	if len(dirs) == 0 {
		fmt.Fprintln(out, ui.InfoStyle.Render("🎯 No directories to process."))
		return nil
	}

	if cmd.CheckAccess {
		for _, dir := range dirs {
			if err := utils.CheckDirectoryAccess(dir); err != nil {
				fmt.Fprintln(out, ui.WarningStyle.Render(fmt.Sprintf("⚠️  %v", err)))
			}
		}
	}

	workers := cmd.Workers
	if workers <= 0 {
		workers = utils.DefaultWorkers(dirs)
		if utils.HasNetworkPath(dirs) {
			fmt.Fprintln(out, "⚠️  Network drive detected, using 1 worker")
		}
	}

	fmt.Fprintf(out, "⚙️  Settings: %s, %d directories\n", cfg, len(dirs))

	opts := batch.Options{
		Workers:         workers,
		MaxHashDistance: cmd.MaxDistance,
	}

	var summary *batch.Summary
	if cmd.TUI {
		summary = runWithTUI(dirs, cfg, opts, appCtx.VersionOrDefault(), out)
	} else {
		opts.Observer = newConsoleObserver(out)
		summary = batch.Run(dirs, cfg, opts)
	}

	printSummary(out, summary)
	return nil
}

// printSummary displays final statistics
func printSummary(out io.Writer, s *batch.Summary) {
	fmt.Fprintf(out, "\n%s\n", ui.HeaderStyle.Render("📊 Resize Summary"))
	fmt.Fprintf(out, "   Directories: %d (%d unreadable)\n", s.Directories, s.DirectoryErrors)
	fmt.Fprintf(out, "   Matched: %d files\n", s.Matched)
	fmt.Fprintf(out, "   Resized: %d files\n", s.Resized)
	fmt.Fprintf(out, "   Skipped: %d files\n", s.Skipped)
	fmt.Fprintf(out, "   Errors: %d files\n", s.Errors)
	if s.Warnings > 0 {
		fmt.Fprintf(out, "   Warnings: %d\n", s.Warnings)
	}

	if s.Resized > 0 {
		fmt.Fprintf(out, "   Size: %s → %s\n", ui.FormatBytes(s.BytesBefore), ui.FormatBytes(s.BytesAfter))
	}

	if len(s.Failures) > 0 {
		fmt.Fprintf(out, "\n%s\n", ui.ErrorStyle.Render("Failed files:"))
		for _, r := range s.Failures {
			fmt.Fprintf(out, "   %v\n", r.Error)
		}
	}

	fmt.Fprintf(out, "\n%s\n", ui.SuccessStyle.Render("🎉 Resize complete!"))
}
