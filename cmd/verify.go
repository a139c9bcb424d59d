package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/schollz/progressbar/v3"

	"github.com/lepinkainen/jpegshrink/config"
	"github.com/lepinkainen/jpegshrink/picture"
	"github.com/lepinkainen/jpegshrink/types"
	"github.com/lepinkainen/jpegshrink/ui"
)

// VerifyCmd checks that every JPEG in the configured directories already has
// the configured size and that no temporary files were left behind.
type VerifyCmd struct {
	Source SourceFlags `embed:""`
}

type verifyProblem struct {
	path   string
	reason string
}

// Run scans the directories and reports files that a resize run would
// still change
func (cmd *VerifyCmd) Run(appCtx *types.AppContext) error {
	out := appCtx.Writer()

	cfg, err := config.LoadResizeConfig(cmd.Source.configPath())
	if err != nil {
		return err
	}
	dirs, err := cmd.Source.loadDirectories(cfg)
	if err != nil {
		return err
	}

	files, failed := picture.FindJPEGFiles(dirs, cfg.Match)
	for _, dir := range dirs {
		if err, ok := failed[dir]; ok {
			fmt.Fprintln(out, ui.ErrorStyle.Render(fmt.Sprintf("❌ Cannot scan %s: %v", dir, err)))
		}
	}

	fmt.Fprintln(out, ui.InfoStyle.Render(fmt.Sprintf("Verifying %d files against %dx%d...", len(files), cfg.Width, cfg.Height)))

	if len(files) == 0 {
		return nil
	}

	bar := progressbar.NewOptions(len(files),
		progressbar.OptionSetWriter(out),
		progressbar.OptionSetDescription("Verifying"),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)

	var problems []verifyProblem
	for _, path := range files {
		if picture.IsTempName(filepath.Base(path)) {
			problems = append(problems, verifyProblem{path, "leftover temporary file"})
		} else if w, h, err := picture.GetDimensions(path); err != nil {
			problems = append(problems, verifyProblem{path, err.Error()})
		} else if w != cfg.Width || h != cfg.Height {
			problems = append(problems, verifyProblem{path, fmt.Sprintf("%dx%d", w, h)})
		}
		_ = bar.Add(1)
	}
	_ = bar.Finish()

	for _, p := range problems {
		fmt.Fprintln(out, ui.ErrorStyle.Render(fmt.Sprintf("❌ %s (%s)", p.path, p.reason)))
	}

	fmt.Fprintf(out, "\n%s\n", ui.InfoStyle.Render(fmt.Sprintf("✅ Verified: %d, ❌ Failed: %d", len(files)-len(problems), len(problems))))
	return nil
}
