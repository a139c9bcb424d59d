package cmd

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lepinkainen/jpegshrink/config"
	"github.com/lepinkainen/jpegshrink/picture"
	"github.com/lepinkainen/jpegshrink/types"
)

func writeJPEG(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 3), G: uint8(y * 5), B: 90, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		t.Fatalf("Failed to encode test JPEG: %v", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		t.Fatalf("Failed to write test JPEG: %v", err)
	}
}

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "config.json")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	return path
}

func TestResizeCmd_Run(t *testing.T) {
	root := t.TempDir()
	photos := filepath.Join(root, "photos")
	if err := os.Mkdir(photos, 0755); err != nil {
		t.Fatalf("Mkdir() error = %v", err)
	}
	writeJPEG(t, filepath.Join(photos, "a.jpg"), 80, 80)
	if err := os.WriteFile(filepath.Join(photos, "b.txt"), []byte("text"), 0644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}

	cfgPath := writeConfig(t, root, `{"width": "40", "height": "20", "quality": 80}`)
	pathsFile := filepath.Join(root, "smallPath.txt")
	if err := os.WriteFile(pathsFile, []byte(photos+";"+photos+"/;\r\n"), 0644); err != nil {
		t.Fatalf("Failed to write paths file: %v", err)
	}

	var out bytes.Buffer
	cmd := &ResizeCmd{Source: SourceFlags{Config: cfgPath, Paths: pathsFile}, Workers: 1, Quality: -1}
	if err := cmd.Run(&types.AppContext{Version: "test", Out: &out}); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	w, h, err := picture.GetDimensions(filepath.Join(photos, "a.jpg"))
	if err != nil || w != 40 || h != 20 {
		t.Errorf("Expected 40x20, got %dx%d (err %v)", w, h, err)
	}

	output := out.String()
	for _, want := range []string{"jpegshrink test", "a.jpg", "Resized: 1 files", "Errors: 0 files"} {
		if !strings.Contains(output, want) {
			t.Errorf("Expected output to contain %q, got:\n%s", want, output)
		}
	}
	if strings.Contains(output, "b.txt") {
		t.Error("Non-JPEG file must not be reported")
	}
}

func TestResizeCmd_ReportsFailuresWithoutError(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "bad.jpg"), []byte("garbage"), 0644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}
	cfgPath := writeConfig(t, root, `{"width": 10, "height": 10}`)

	var out bytes.Buffer
	cmd := &ResizeCmd{Source: SourceFlags{Config: cfgPath, Dirs: []string{root}}, Workers: 1, Quality: -1}
	if err := cmd.Run(&types.AppContext{Out: &out}); err != nil {
		t.Fatalf("Per-file failures must not fail the command, got %v", err)
	}

	output := out.String()
	if !strings.Contains(output, "decode failed for bad.jpg") {
		t.Errorf("Expected stage error in output, got:\n%s", output)
	}
	if !strings.Contains(output, "Errors: 1 files") {
		t.Errorf("Expected error count in summary, got:\n%s", output)
	}
}

func TestResizeCmd_ConfigErrors(t *testing.T) {
	root := t.TempDir()

	t.Run("Missing config", func(t *testing.T) {
		cmd := &ResizeCmd{Source: SourceFlags{Config: filepath.Join(root, "none.json"), Dirs: []string{root}}, Quality: -1}
		if err := cmd.Run(&types.AppContext{Out: &bytes.Buffer{}}); err == nil {
			t.Error("Expected error for missing config")
		}
	})

	t.Run("Invalid config", func(t *testing.T) {
		cfgPath := writeConfig(t, root, `{"width": 0, "height": 10}`)
		cmd := &ResizeCmd{Source: SourceFlags{Config: cfgPath, Dirs: []string{root}}, Quality: -1}
		if err := cmd.Run(&types.AppContext{Out: &bytes.Buffer{}}); err == nil {
			t.Error("Expected error for invalid config")
		}
	})

	t.Run("Missing paths file", func(t *testing.T) {
		cfgPath := writeConfig(t, root, `{"width": 10, "height": 10}`)
		cmd := &ResizeCmd{Source: SourceFlags{Config: cfgPath, Paths: filepath.Join(root, "none.txt")}, Quality: -1}
		if err := cmd.Run(&types.AppContext{Out: &bytes.Buffer{}}); err == nil {
			t.Error("Expected error for missing paths file")
		}
	})

	t.Run("Bad max distance", func(t *testing.T) {
		cfgPath := writeConfig(t, root, `{"width": 10, "height": 10}`)
		cmd := &ResizeCmd{Source: SourceFlags{Config: cfgPath, Dirs: []string{root}}, Quality: -1, MaxDistance: 65}
		if err := cmd.Run(&types.AppContext{Out: &bytes.Buffer{}}); err == nil {
			t.Error("Expected error for max distance above 64")
		}
	})
}

func TestResizeCmd_LoadConfigOverrides(t *testing.T) {
	root := t.TempDir()

	t.Run("Overrides applied", func(t *testing.T) {
		cfgPath := writeConfig(t, root, `{"width": 10, "height": 10, "quality": 50}`)
		cmd := &ResizeCmd{Source: SourceFlags{Config: cfgPath}, Width: 30, Quality: 0, Filter: "box", Match: "contains"}
		cfg, err := cmd.loadConfig()
		if err != nil {
			t.Fatalf("loadConfig() error = %v", err)
		}
		if cfg.Width != 30 || cfg.Height != 10 || cfg.Quality != 0 || cfg.Filter != "box" || cfg.Match != "contains" {
			t.Errorf("Unexpected config %+v", cfg)
		}
	})

	t.Run("Missing file with explicit size", func(t *testing.T) {
		cmd := &ResizeCmd{Source: SourceFlags{Config: filepath.Join(root, "none.json")}, Width: 30, Height: 20, Quality: -1}
		cfg, err := cmd.loadConfig()
		if err != nil {
			t.Fatalf("loadConfig() error = %v", err)
		}
		if cfg.Width != 30 || cfg.Height != 20 || cfg.Quality != 85 {
			t.Errorf("Unexpected config %+v", cfg)
		}
	})

	t.Run("Unknown filter override", func(t *testing.T) {
		cfgPath := writeConfig(t, root, `{"width": 10, "height": 10}`)
		cmd := &ResizeCmd{Source: SourceFlags{Config: cfgPath}, Quality: -1, Filter: "sinc"}
		if _, err := cmd.loadConfig(); err == nil {
			t.Error("Expected error for unknown filter")
		}
	})
}

func TestResizeCmd_ParallelWorkers(t *testing.T) {
	root := t.TempDir()
	for _, name := range []string{"1.jpg", "2.jpg", "3.jpg", "4.jpg"} {
		writeJPEG(t, filepath.Join(root, name), 30, 30)
	}
	cfgPath := writeConfig(t, root, `{"width": 15, "height": 15}`)

	var out bytes.Buffer
	cmd := &ResizeCmd{Source: SourceFlags{Config: cfgPath, Dirs: []string{root}}, Workers: 2, Quality: -1}
	if err := cmd.Run(&types.AppContext{Out: &out}); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if !strings.Contains(out.String(), "Resized: 4 files") {
		t.Errorf("Expected 4 files resized, got:\n%s", out.String())
	}
	if !strings.Contains(out.String(), "Worker 2:") && !strings.Contains(out.String(), "Worker 1:") {
		t.Errorf("Expected worker lines, got:\n%s", out.String())
	}
}

func TestVerifyCmd_Run(t *testing.T) {
	root := t.TempDir()
	writeJPEG(t, filepath.Join(root, "ok.jpg"), 20, 10)
	writeJPEG(t, filepath.Join(root, "big.jpg"), 40, 40)
	cfgPath := writeConfig(t, root, `{"width": 20, "height": 10}`)

	var out bytes.Buffer
	cmd := &VerifyCmd{Source: SourceFlags{Config: cfgPath, Dirs: []string{root}}}
	if err := cmd.Run(&types.AppContext{Out: &out}); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	output := out.String()
	if !strings.Contains(output, "big.jpg (40x40)") {
		t.Errorf("Expected big.jpg reported, got:\n%s", output)
	}
	if !strings.Contains(output, "Verified: 1, ❌ Failed: 1") {
		t.Errorf("Expected totals, got:\n%s", output)
	}
}

func TestIdentifyCmd_Run(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.jpg")
	writeJPEG(t, path, 12, 34)

	var out bytes.Buffer
	cmd := &IdentifyCmd{Files: []string{path}}
	if err := cmd.Run(&types.AppContext{Out: &out}); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	output := out.String()
	for _, want := range []string{"12x34", "ycbcr", "No color profile"} {
		if !strings.Contains(output, want) {
			t.Errorf("Expected output to contain %q, got:\n%s", want, output)
		}
	}
}

func TestSimilarCmd_Run(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.jpg")
	b := filepath.Join(dir, "b.jpg")
	writeJPEG(t, a, 64, 64)
	writeJPEG(t, b, 64, 64)

	var out bytes.Buffer
	cmd := &SimilarCmd{Paths: []string{a, b}, Match: "suffix", Threshold: 10}
	if err := cmd.Run(&types.AppContext{Out: &out}); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !strings.Contains(out.String(), "Similar (distance 0)") {
		t.Errorf("Expected identical images reported as similar, got:\n%s", out.String())
	}

	out.Reset()
	single := &SimilarCmd{Paths: []string{a}, Match: "suffix", Threshold: 10}
	if err := single.Run(&types.AppContext{Out: &out}); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !strings.Contains(out.String(), "Need at least 2 files") {
		t.Errorf("Expected warning for single file, got:\n%s", out.String())
	}

	bad := &SimilarCmd{Paths: []string{a, b}, Match: "suffix", Threshold: 65}
	if err := bad.Run(&types.AppContext{Out: &out}); err == nil {
		t.Error("Expected error for threshold above 64")
	}
}

func TestSimilarCmd_ExpandsDirectories(t *testing.T) {
	dir := t.TempDir()
	writeJPEG(t, filepath.Join(dir, "a.jpg"), 64, 64)
	writeJPEG(t, filepath.Join(dir, "b.JPEG"), 64, 64)
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("text"), 0644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}

	var out bytes.Buffer
	cmd := &SimilarCmd{Paths: []string{dir}, Match: "suffix", Threshold: 10}
	if err := cmd.Run(&types.AppContext{Out: &out}); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	output := out.String()
	if !strings.Contains(output, "Comparing 2 files with each other") {
		t.Errorf("Expected the two JPEGs from the directory, got:\n%s", output)
	}
	if !strings.Contains(output, "a.jpg ↔") || strings.Contains(output, "notes.txt") {
		t.Errorf("Expected only JPEGs compared, got:\n%s", output)
	}

	missing := &SimilarCmd{Paths: []string{filepath.Join(dir, "gone")}, Match: "suffix", Threshold: 10}
	if err := missing.Run(&types.AppContext{Out: &out}); err == nil {
		t.Error("Expected error for missing path")
	}
}

func TestSimilarCmd_Originals(t *testing.T) {
	root := t.TempDir()
	originals := filepath.Join(root, "originals")
	photos := filepath.Join(root, "photos")
	for _, dir := range []string{originals, photos} {
		if err := os.Mkdir(dir, 0755); err != nil {
			t.Fatalf("Mkdir() error = %v", err)
		}
	}

	writeJPEG(t, filepath.Join(originals, "a.jpg"), 160, 160)
	writeJPEG(t, filepath.Join(photos, "a.jpg"), 160, 160)
	writeJPEG(t, filepath.Join(photos, "new.jpg"), 32, 32)

	// Resize the copy in place so the pair differs in size but not content
	result := picture.ResizeFile(filepath.Join(photos, "a.jpg"), config.ResizeConfig{
		Width: 80, Height: 80, Quality: 90, Filter: config.DefaultFilter, Match: config.MatchSuffix,
	}, picture.ResizeOptions{})
	if result.Error != nil {
		t.Fatalf("ResizeFile() error = %v", result.Error)
	}

	var out bytes.Buffer
	cmd := &SimilarCmd{Paths: []string{photos}, Originals: originals, Match: "suffix", Threshold: 10}
	if err := cmd.Run(&types.AppContext{Out: &out}); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	output := out.String()
	for _, want := range []string{"Matches original", "No original for " + filepath.Join(photos, "new.jpg"), "Matching: 1, ❌ Changed: 0, ⚠️  Without original: 1"} {
		if !strings.Contains(output, want) {
			t.Errorf("Expected output to contain %q, got:\n%s", want, output)
		}
	}
}

func TestResizeCmd_WorkPathFallback(t *testing.T) {
	root := t.TempDir()
	work := filepath.Join(root, "work")
	small := filepath.Join(work, "job1", "SMALL")
	nested := filepath.Join(work, "job2", "sub", "small")
	for _, dir := range []string{small, nested, filepath.Join(work, "job3")} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			t.Fatalf("MkdirAll() error = %v", err)
		}
	}
	writeJPEG(t, filepath.Join(small, "a.jpg"), 60, 60)
	writeJPEG(t, filepath.Join(nested, "b.jpg"), 60, 60)
	writeJPEG(t, filepath.Join(work, "job3", "c.jpg"), 60, 60)

	cfgPath := writeConfig(t, root, `{"width": 30, "height": 20, "work_path": "`+filepath.ToSlash(work)+`"}`)

	var out bytes.Buffer
	cmd := &ResizeCmd{
		Source:  SourceFlags{Config: cfgPath, Paths: filepath.Join(root, "missing.txt")},
		Workers: 1,
		Quality: -1,
	}
	if err := cmd.Run(&types.AppContext{Out: &out}); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	for _, path := range []string{filepath.Join(small, "a.jpg"), filepath.Join(nested, "b.jpg")} {
		if w, h, err := picture.GetDimensions(path); err != nil || w != 30 || h != 20 {
			t.Errorf("Expected %s resized to 30x20, got %dx%d (err %v)", path, w, h, err)
		}
	}
	if w, h, _ := picture.GetDimensions(filepath.Join(work, "job3", "c.jpg")); w != 60 || h != 60 {
		t.Errorf("Expected file outside SMALL folders untouched, got %dx%d", w, h)
	}

	// Without a work path a missing paths file is still an error
	cfgPath = writeConfig(t, root, `{"width": 30, "height": 20}`)
	cmd.Source.Config = cfgPath
	if err := cmd.Run(&types.AppContext{Out: &out}); err == nil {
		t.Error("Expected error for missing paths file without work path")
	}
}
