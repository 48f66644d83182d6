package models

import (
	"time"
)

// ScanMode describes how file content is classified
type ScanMode string

const (
	// ModeDeep hashes file content when sizes match
	ModeDeep ScanMode = "deep"
	// ModeQuick checks existence only
	ModeQuick ScanMode = "quick"
)

// Label returns the human description of the mode
func (m ScanMode) Label() string {
	if m == ModeQuick {
		return "Quick Scan (Existence Only)"
	}
	return "Deep Content Comparison"
}

// Report represents the results of one comparison run
type Report struct {
	// Run details
	ID         string
	BaseRoot   string
	TargetRoot string
	Mode       ScanMode

	// Timing
	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration

	// Result holds the records and counts
	Result *Result
}

// RunStatus is the overall outcome used for the process exit code
type RunStatus string

const (
	// RunClean indicates no drift was found
	RunClean RunStatus = "clean"
	// RunDrift indicates at least one modified or missing item
	RunDrift RunStatus = "drift"
	// RunFailed indicates the comparison could not complete
	RunFailed RunStatus = "failed"
)

// Status derives the run status from the result counts
func (r *Report) Status() RunStatus {
	if r.Result == nil {
		return RunFailed
	}
	if r.Result.Counts.HasDrift() {
		return RunDrift
	}
	return RunClean
}

// ExitCode returns the appropriate exit code for the run status
func (s RunStatus) ExitCode() int {
	switch s {
	case RunClean:
		return 0
	case RunDrift:
		return 1
	default:
		return 2
	}
}

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}
