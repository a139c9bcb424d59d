package picture

import (
	"fmt"
	"time"
)

// Stage names the step of the resize workflow where a file failed
type Stage string

const (
	StageStat     Stage = "stat"
	StagePrepare  Stage = "prepare"
	StageRead     Stage = "read"
	StageDecode   Stage = "decode"
	StageResample Stage = "resample"
	StageEncode   Stage = "encode"
	StageWrite    Stage = "write"
	StageReplace  Stage = "replace"
)

// StageError is the error recorded for a file that could not be resized
type StageError struct {
	Dir   string
	File  string
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s failed for %s in %s: %v", e.Stage, e.File, e.Dir, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// ResizeResult holds the outcome of resizing a single file
type ResizeResult struct {
	OriginalPath string
	TempPath     string
	SrcWidth     int
	SrcHeight    int
	Width        int
	Height       int
	OriginalSize int64
	NewSize      int64
	ProfileSize  int // bytes of ICC profile carried over, 0 if none
	HashChecked  bool
	HashDistance int
	WasResized   bool
	WasSkipped   bool
	SkipReason   string
	Warnings     []string
	Error        error
}

// ImageInfo contains metadata about a JPEG file
type ImageInfo struct {
	Path        string
	Width       int
	Height      int
	ColorModel  string
	FileSize    int64
	ICC         []byte // nil if absent
	ICCError    error  // set when APP2 segments exist but cannot be reassembled
	CaptureTime time.Time
}
