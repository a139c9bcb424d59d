package ui

// TUI Message Types for worker communication
type BatchStartedMsg struct {
	Total   int
	Workers int
}

type WorkerStartedMsg struct {
	WorkerID int
	Path     string
}

type WorkerCompletedMsg struct {
	WorkerID int
	Path     string
	Outcome  string // short status shown in the file log
	Detail   string
	Success  bool
}

type DirectoryFailedMsg struct {
	Dir string
	Err error
}

type OverallProgressMsg struct {
	Completed int
	Total     int
}

// BatchDoneMsg is sent once every file has been handled
type BatchDoneMsg struct{}
