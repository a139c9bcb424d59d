package cmd

import (
	"errors"
	"fmt"
	"io"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/lepinkainen/jpegshrink/batch"
	"github.com/lepinkainen/jpegshrink/config"
	"github.com/lepinkainen/jpegshrink/picture"
	"github.com/lepinkainen/jpegshrink/ui"
)

// describeResult condenses a result into a short outcome and detail line
func describeResult(r *picture.ResizeResult) (outcome, detail string, ok bool) {
	switch {
	case r.Error != nil:
		var stageErr *picture.StageError
		if errors.As(r.Error, &stageErr) {
			return string(stageErr.Stage) + " failed", stageErr.Err.Error(), false
		}
		return "failed", r.Error.Error(), false
	case r.WasSkipped:
		return "skipped", r.SkipReason, true
	default:
		detail = fmt.Sprintf("%dx%d → %dx%d, %s → %s", r.SrcWidth, r.SrcHeight, r.Width, r.Height,
			ui.FormatBytes(r.OriginalSize), ui.FormatBytes(r.NewSize))
		return "resized", detail, true
	}
}

// consoleObserver prints one line per file as the batch progresses
type consoleObserver struct {
	mu       sync.Mutex
	out      io.Writer
	total    int
	workers  int
	started  int
	finished int
}

func newConsoleObserver(out io.Writer) *consoleObserver {
	return &consoleObserver{out: out}
}

func (o *consoleObserver) BatchStarted(total, workers int) {
	o.total = total
	o.workers = workers
	if total == 0 {
		fmt.Fprintln(o.out, ui.InfoStyle.Render("🎯 No JPEG files found."))
		return
	}
	fmt.Fprintln(o.out, ui.ProcessingStyle.Render(fmt.Sprintf("🖼️  Resizing %d files with %d workers:", total, workers)))
}

func (o *consoleObserver) DirectoryFailed(dir string, err error) {
	fmt.Fprintln(o.out, ui.ErrorStyle.Render(fmt.Sprintf("❌ Cannot scan %s: %v", dir, err)))
}

func (o *consoleObserver) FileStarted(worker int, path string) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.started++
	if o.workers > 1 {
		fmt.Fprintf(o.out, "Worker %d: Resizing %s\n", worker, path)
		return
	}
	fmt.Fprintf(o.out, "\n[%d/%d] Resizing: %s\n", o.started, o.total, path)
}

func (o *consoleObserver) FileFinished(worker int, r *picture.ResizeResult) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.finished++
	outcome, detail, ok := describeResult(r)

	switch {
	case !ok:
		fmt.Fprintln(o.out, ui.ErrorStyle.Render(fmt.Sprintf("❌ Error: %v", r.Error)))
	case r.WasSkipped:
		fmt.Fprintf(o.out, "⏭️  Skipped %s: %s\n", r.OriginalPath, detail)
	default:
		prefix := ""
		if o.workers > 1 {
			prefix = r.OriginalPath + ": "
		}
		fmt.Fprintln(o.out, ui.SuccessStyle.Render(fmt.Sprintf("✅ %s%s", prefix, outcome)))
		fmt.Fprintf(o.out, "   📏 %s\n", detail)
		if r.ProfileSize > 0 {
			fmt.Fprintf(o.out, "   🎨 Color profile kept (%s)\n", ui.FormatBytes(int64(r.ProfileSize)))
		}
		if r.HashChecked {
			fmt.Fprintf(o.out, "   🔍 Perceptual hash distance: %d\n", r.HashDistance)
		}
	}

	for _, w := range r.Warnings {
		fmt.Fprintln(o.out, ui.WarningStyle.Render(fmt.Sprintf("⚠️  %s: %s", r.OriginalPath, w)))
	}
}

// tuiObserver forwards batch events to a running bubbletea program
type tuiObserver struct {
	program  *tea.Program
	finished int
	total    int
}

func (o *tuiObserver) BatchStarted(total, workers int) {
	o.total = total
	o.program.Send(ui.BatchStartedMsg{Total: total, Workers: workers})
}

func (o *tuiObserver) DirectoryFailed(dir string, err error) {
	o.program.Send(ui.DirectoryFailedMsg{Dir: dir, Err: err})
}

func (o *tuiObserver) FileStarted(worker int, path string) {
	o.program.Send(ui.WorkerStartedMsg{WorkerID: worker, Path: path})
}

func (o *tuiObserver) FileFinished(worker int, r *picture.ResizeResult) {
	outcome, detail, ok := describeResult(r)
	for _, w := range r.Warnings {
		detail += "; ⚠️ " + w
	}

	o.finished++
	o.program.Send(ui.WorkerCompletedMsg{
		WorkerID: worker,
		Path:     r.OriginalPath,
		Outcome:  outcome,
		Detail:   detail,
		Success:  ok,
	})
	o.program.Send(ui.OverallProgressMsg{Completed: o.finished, Total: o.total})
}

// runWithTUI runs the batch behind an interactive display. Closing the
// display does not cancel the batch: files already queued are still
// processed before the summary is printed.
func runWithTUI(dirs config.DirectoryList, cfg config.ResizeConfig, opts batch.Options, version string, out io.Writer) *batch.Summary {
	workers := max(opts.Workers, 1)
	p := tea.NewProgram(ui.NewTUIModel(0, workers, version))
	opts.Observer = &tuiObserver{program: p}

	var summary *batch.Summary
	done := make(chan struct{})
	go func() {
		defer close(done)
		summary = batch.Run(dirs, cfg, opts)
		p.Send(ui.BatchDoneMsg{})
	}()

	if _, err := p.Run(); err != nil {
		fmt.Fprintln(out, ui.ErrorStyle.Render(fmt.Sprintf("❌ Display error: %v", err)))
	}

	<-done
	return summary
}
