package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/corona10/goimagehash"

	"github.com/lepinkainen/jpegshrink/config"
	"github.com/lepinkainen/jpegshrink/picture"
	"github.com/lepinkainen/jpegshrink/types"
	"github.com/lepinkainen/jpegshrink/ui"
)

// SimilarCmd compares JPEGs by perceptual hash. Directory arguments are
// expanded to the JPEGs directly inside them.
//
// With --originals every file is paired with the file of the same name in
// that directory, which shows whether a resize changed what a picture shows.
// Without it all files are compared with each other.
type SimilarCmd struct {
	Paths     []string `arg:"" name:"paths" help:"JPEG files or directories to compare" type:"path"`
	Originals string   `help:"Directory holding copies of the images from before resizing" type:"existingdir" placeholder:"DIR"`
	Match     string   `help:"How JPEGs are picked from directories (suffix, contains)" enum:"suffix,contains" default:"suffix"`
	Threshold int      `help:"Hamming distance threshold for similarity (0-64)" default:"10"`
}

type fileHash struct {
	path string
	hash *goimagehash.ImageHash
}

func (cmd *SimilarCmd) Run(appCtx *types.AppContext) error {
	out := appCtx.Writer()

	if cmd.Threshold < 0 || cmd.Threshold > 64 {
		return fmt.Errorf("threshold must be between 0 and 64, got %d", cmd.Threshold)
	}

	files, err := cmd.expandPaths()
	if err != nil {
		return err
	}

	if cmd.Originals != "" {
		cmd.compareWithOriginals(out, files)
		return nil
	}
	cmd.compareAll(out, files)
	return nil
}

// expandPaths replaces each directory argument with its JPEG files
func (cmd *SimilarCmd) expandPaths() ([]string, error) {
	mode := config.MatchMode(cmd.Match)

	var files []string
	for _, path := range cmd.Paths {
		fi, err := os.Stat(path)
		if err != nil {
			return nil, err
		}
		if !fi.IsDir() {
			files = append(files, path)
			continue
		}

		found, err := picture.ScanDirectory(path, mode)
		if err != nil {
			return nil, err
		}
		files = append(files, found...)
	}
	return files, nil
}

func (cmd *SimilarCmd) compareWithOriginals(out io.Writer, files []string) {
	fmt.Fprintln(out, ui.InfoStyle.Render(fmt.Sprintf("Comparing %d files with originals in %s (threshold: %d)", len(files), cmd.Originals, cmd.Threshold)))

	matched, changed, unpaired := 0, 0, 0
	for _, path := range files {
		original := filepath.Join(cmd.Originals, filepath.Base(path))
		if _, err := os.Stat(original); err != nil {
			fmt.Fprintln(out, ui.WarningStyle.Render(fmt.Sprintf("⚠️  No original for %s", path)))
			unpaired++
			continue
		}

		distance, err := pairDistance(original, path)
		if err != nil {
			fmt.Fprintln(out, ui.ErrorStyle.Render(fmt.Sprintf("❌ %s: %v", path, err)))
			changed++
			continue
		}

		if distance > cmd.Threshold {
			fmt.Fprintln(out, ui.ErrorStyle.Render(fmt.Sprintf("❌ Changed (distance %d): %s", distance, path)))
			changed++
			continue
		}
		fmt.Fprintln(out, ui.DimStyle.Render(fmt.Sprintf("Matches original (distance %d): %s", distance, path)))
		matched++
	}

	fmt.Fprintf(out, "\n%s\n", ui.InfoStyle.Render(fmt.Sprintf("✅ Matching: %d, ❌ Changed: %d, ⚠️  Without original: %d", matched, changed, unpaired)))
}

func pairDistance(a, b string) (int, error) {
	ha, err := picture.CalculatePerceptualHash(a)
	if err != nil {
		return 0, err
	}
	hb, err := picture.CalculatePerceptualHash(b)
	if err != nil {
		return 0, err
	}
	return ha.Distance(hb)
}

func (cmd *SimilarCmd) compareAll(out io.Writer, files []string) {
	if len(files) < 2 {
		fmt.Fprintln(out, ui.ErrorStyle.Render("❌ Need at least 2 files to compare"))
		return
	}

	var hashes []fileHash
	for _, path := range files {
		hash, err := picture.CalculatePerceptualHash(path)
		if err != nil {
			fmt.Fprintln(out, ui.ErrorStyle.Render(fmt.Sprintf("❌ %s: %v", path, err)))
			continue
		}
		hashes = append(hashes, fileHash{path: path, hash: hash})
	}

	fmt.Fprintln(out, ui.InfoStyle.Render(fmt.Sprintf("Comparing %d files with each other (threshold: %d)", len(hashes), cmd.Threshold)))

	found := false
	for i, a := range hashes {
		for _, b := range hashes[i+1:] {
			distance, err := a.hash.Distance(b.hash)
			if err != nil {
				continue
			}
			if distance <= cmd.Threshold {
				fmt.Fprintf(out, "🎯 Similar (distance %d): %s ↔ %s\n", distance, a.path, b.path)
				found = true
			}
		}
	}

	if !found {
		fmt.Fprintln(out, ui.SuccessStyle.Render("✅ No similar files found within threshold"))
	}
}
