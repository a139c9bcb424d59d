package picture

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"

	"github.com/lepinkainen/jpegshrink/config"
)

// ResizeOptions holds per-run settings that are not part of the config file
type ResizeOptions struct {
	// Resampler overrides the filter named in the config
	Resampler Resampler

	// MaxHashDistance enables a perceptual hash comparison between the
	// source and the output when > 0. Exceeding it only adds a warning.
	MaxHashDistance int
}

// ResizeFile resizes the JPEG at path to the configured size and replaces
// it in place. The new image is first written to SMALL_<name> in the same
// directory and then renamed over the original, so the original is either
// fully replaced or left untouched. Errors are reported in the result,
// never returned.
func ResizeFile(path string, cfg config.ResizeConfig, opts ResizeOptions) *ResizeResult {
	tempFile := TempPath(path)
	result := &ResizeResult{
		OriginalPath: path,
		TempPath:     tempFile,
	}

	fail := func(stage Stage, err error) *ResizeResult {
		result.Error = &StageError{
			Dir:   filepath.Dir(path),
			File:  filepath.Base(path),
			Stage: stage,
			Err:   err,
		}
		return result
	}

	fi, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			result.WasSkipped = true
			result.SkipReason = "source file no longer exists"
			return result
		}
		return fail(StageStat, err)
	}
	if !fi.Mode().IsRegular() {
		return fail(StageStat, errors.New("not a regular file"))
	}
	result.OriginalSize = fi.Size()

	// Never clobber a file we did not create
	if _, err := os.Lstat(tempFile); err == nil {
		return fail(StagePrepare, fmt.Errorf("temporary file %s already exists", filepath.Base(tempFile)))
	}

	resampler := opts.Resampler
	if resampler == nil {
		resampler, err = NewResampler(cfg.Filter)
		if err != nil {
			return fail(StagePrepare, err)
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fail(StageRead, err)
	}

	src, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return fail(StageDecode, err)
	}
	bounds := src.Bounds()
	result.SrcWidth = bounds.Dx()
	result.SrcHeight = bounds.Dy()

	profile, err := ReadICCProfile(data)
	if err != nil {
		result.Warnings = append(result.Warnings, fmt.Sprintf("ignoring unreadable ICC profile: %v", err))
		profile = nil
	}
	if space := profileColorSpace(profile); space != "" && space != "RGB " {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("color profile is for %q data, output is RGB", strings.TrimSpace(space)))
	}

	dst := resampler.Resample(src, cfg.Width, cfg.Height)
	if got := dst.Bounds(); got.Dx() != cfg.Width || got.Dy() != cfg.Height {
		return fail(StageResample, fmt.Errorf("%s produced %dx%d, want %dx%d",
			resampler.Name(), got.Dx(), got.Dy(), cfg.Width, cfg.Height))
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, dst, imaging.JPEG, imaging.JPEGQuality(cfg.Quality)); err != nil {
		return fail(StageEncode, err)
	}
	out := buf.Bytes()

	if len(profile) > 0 {
		embedded, err := EmbedICCProfile(out, profile)
		if err != nil {
			result.Warnings = append(result.Warnings, fmt.Sprintf("color profile not copied: %v", err))
		} else {
			out = embedded
			result.ProfileSize = len(profile)
		}
	}

	if opts.MaxHashDistance > 0 {
		distance, err := hashDistance(src, dst)
		if err != nil {
			result.Warnings = append(result.Warnings, fmt.Sprintf("hash check skipped: %v", err))
		} else {
			result.HashChecked = true
			result.HashDistance = distance
			if distance > opts.MaxHashDistance {
				result.Warnings = append(result.Warnings,
					fmt.Sprintf("perceptual hash distance %d exceeds %d", distance, opts.MaxHashDistance))
			}
		}
	}

	if err := writeTempFile(tempFile, out, fi.Mode().Perm()); err != nil {
		return fail(StageWrite, err)
	}

	if err := os.Rename(tempFile, path); err != nil {
		_ = os.Remove(tempFile)
		return fail(StageReplace, err)
	}

	result.Width = cfg.Width
	result.Height = cfg.Height
	result.NewSize = int64(len(out))
	result.WasResized = true
	return result
}

// profileColorSpace returns the data colour space signature from an ICC
// profile header, e.g. "RGB " or "GRAY", or "" when the header is short.
func profileColorSpace(profile []byte) string {
	if len(profile) < 20 {
		return ""
	}
	return string(profile[16:20])
}

// writeTempFile creates path exclusively and writes data to it. A partially
// written file is removed. An existing file at path is left alone.
func writeTempFile(path string, data []byte, perm fs.FileMode) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, perm)
	if err != nil {
		return err
	}

	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return err
	}
	return nil
}
