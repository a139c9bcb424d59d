package ui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
)

// FileLogEntry is one line of the processed files list
type FileLogEntry struct {
	Path    string
	Outcome string
	Detail  string
	Success bool
}

func (f FileLogEntry) FilterValue() string { return f.Path }
func (f FileLogEntry) Title() string       { return f.Path }
func (f FileLogEntry) Description() string {
	status := "✓ " + f.Outcome
	if !f.Success {
		status = "❌ " + f.Outcome
	}
	if f.Detail != "" {
		status += ": " + f.Detail
	}
	return status
}

// WorkerState tracks what a single worker is doing
type WorkerState struct {
	ID          int
	CurrentFile string
	Status      string // "idle", "resizing", "done"
	Handled     int
}

// TUIModel renders a running batch
type TUIModel struct {
	totalFiles     int
	processedFiles int
	failedFiles    int
	workers        []*WorkerState
	fileEntries    []FileLogEntry
	dirErrors      []string

	overallProgress progress.Model
	fileList        list.Model

	width  int
	height int

	done     bool
	quitting bool

	Version string
}

// NewTUIModel creates a model for numFiles files spread over numWorkers
// workers. Worker IDs start at 1.
func NewTUIModel(numFiles, numWorkers int, version string) TUIModel {
	fileList := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	fileList.Title = "Processed Files"

	return TUIModel{
		totalFiles:      numFiles,
		workers:         newWorkers(numWorkers),
		overallProgress: progress.New(progress.WithDefaultGradient()),
		fileList:        fileList,
		Version:         version,
	}
}

func newWorkers(n int) []*WorkerState {
	workers := make([]*WorkerState, n)
	for i := range workers {
		workers[i] = &WorkerState{ID: i + 1, Status: "idle"}
	}
	return workers
}

func (m TUIModel) worker(id int) *WorkerState {
	if id < 1 || id > len(m.workers) {
		return nil
	}
	return m.workers[id-1]
}

// Init implements tea.Model
func (m TUIModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (m TUIModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.quitting = true
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.fileList.SetSize(msg.Width-4, msg.Height/3)

	case BatchStartedMsg:
		m.totalFiles = msg.Total
		if msg.Workers > 0 && msg.Workers != len(m.workers) {
			m.workers = newWorkers(msg.Workers)
		}

	case WorkerStartedMsg:
		if w := m.worker(msg.WorkerID); w != nil {
			w.CurrentFile = msg.Path
			w.Status = "resizing"
		}

	case WorkerCompletedMsg:
		if w := m.worker(msg.WorkerID); w != nil {
			w.Status = "idle"
			w.CurrentFile = ""
			w.Handled++
		}

		m.processedFiles++
		if !msg.Success {
			m.failedFiles++
		}

		m.fileEntries = append(m.fileEntries, FileLogEntry{
			Path:    msg.Path,
			Outcome: msg.Outcome,
			Detail:  msg.Detail,
			Success: msg.Success,
		})
		items := make([]list.Item, len(m.fileEntries))
		for i, entry := range m.fileEntries {
			items[i] = entry
		}
		m.fileList.SetItems(items)

	case DirectoryFailedMsg:
		m.dirErrors = append(m.dirErrors, fmt.Sprintf("%s: %v", msg.Dir, msg.Err))

	case OverallProgressMsg:
		m.processedFiles = msg.Completed
		m.totalFiles = msg.Total

	case BatchDoneMsg:
		m.done = true
		for _, w := range m.workers {
			w.Status = "done"
			w.CurrentFile = ""
		}
		return m, tea.Quit
	}

	return m, nil
}

// View implements tea.Model
func (m TUIModel) View() string {
	if m.quitting && !m.done {
		return "Display closed, waiting for running workers to finish...\n"
	}

	header := HeaderStyle.Render(fmt.Sprintf("jpegshrink %s", m.Version))

	overallPercent := 0.0
	if m.totalFiles > 0 {
		overallPercent = float64(m.processedFiles) / float64(m.totalFiles)
	}
	overallView := fmt.Sprintf("Overall Progress: %s (%d/%d, %d failed)",
		m.overallProgress.ViewAs(overallPercent),
		m.processedFiles,
		m.totalFiles,
		m.failedFiles)

	workerViews := []string{"Worker Status:"}
	for _, w := range m.workers {
		line := fmt.Sprintf("Worker %d: %-9s", w.ID, w.Status)
		if w.CurrentFile != "" {
			line += " " + ProcessingStyle.Render(filepath.Base(w.CurrentFile))
		} else {
			line += " " + DimStyle.Render(fmt.Sprintf("%d handled", w.Handled))
		}
		workerViews = append(workerViews, line)
	}

	sections := []string{header, overallView}
	if len(m.dirErrors) > 0 {
		lines := make([]string, len(m.dirErrors))
		for i, e := range m.dirErrors {
			lines[i] = ErrorStyle.Render("❌ " + e)
		}
		sections = append(sections, strings.Join(lines, "\n"))
	}
	sections = append(sections, strings.Join(workerViews, "\n"), m.fileList.View())

	if m.done {
		sections = append(sections, SuccessStyle.Render("🎉 Batch complete"))
	} else {
		sections = append(sections, "Controls: [q] Close display")
	}

	return strings.Join(sections, "\n\n")
}
