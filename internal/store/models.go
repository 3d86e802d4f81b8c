package store

import (
	"strings"
	"time"
)

// Status represents the lifecycle of a catalog entry.
type Status string

const (
	StatusPending   Status = "pending"
	StatusPreparing Status = "preparing"
	StatusPrepared  Status = "prepared"
	StatusAligning  Status = "aligning"
	StatusAligned   Status = "aligned"
	StatusExporting Status = "exporting"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

var allStatuses = []Status{
	StatusPending,
	StatusPreparing,
	StatusPrepared,
	StatusAligning,
	StatusAligned,
	StatusExporting,
	StatusCompleted,
	StatusFailed,
}

var statusSet = func() map[Status]struct{} {
	set := make(map[Status]struct{}, len(allStatuses))
	for _, status := range allStatuses {
		set[status] = struct{}{}
	}
	return set
}()

var processingStatuses = map[Status]struct{}{
	StatusPreparing: {},
	StatusAligning:  {},
	StatusExporting: {},
}

type statusTransition struct {
	from Status
	to   Status
}

// Rollback targets for entries left mid-stage by an interrupted run.
var stageRollbackTransitions = []statusTransition{
	{from: StatusPreparing, to: StatusPending},
	{from: StatusAligning, to: StatusPrepared},
	{from: StatusExporting, to: StatusAligned},
}

// HealthSummary describes aggregated entry counts per key lifecycle states.
type HealthSummary struct {
	Total      int
	Pending    int
	Processing int
	Failed     int
	Completed  int
}

// Entry represents a catalog entry persisted in SQLite.
type Entry struct {
	ID                      int64
	VoiceKeyHash            string
	Script                  string
	VoiceID                 string
	AudioBase64             string
	AlignmentJSON           string
	NormalizedAlignmentJSON string
	Status                  Status
	WavFile                 string
	LabFile                 string
	TextGridFile            string
	PhonemesJSON            string
	AlignedAt               *time.Time
	ErrorMessage            string
	CreatedAt               time.Time
	UpdatedAt               time.Time
}

// AllStatuses returns the ordered list of known statuses.
func AllStatuses() []Status {
	cp := make([]Status, len(allStatuses))
	copy(cp, allStatuses)
	return cp
}

// ParseStatus converts a string into a known Status.
func ParseStatus(value string) (Status, bool) {
	normalized := Status(strings.ToLower(strings.TrimSpace(value)))
	if normalized == "" {
		return "", false
	}
	_, ok := statusSet[normalized]
	return normalized, ok
}

// IsProcessing returns true when the status reflects an in-flight operation.
func (e Entry) IsProcessing() bool {
	_, ok := processingStatuses[e.Status]
	return ok
}

// IsProcessingStatus reports whether a status reflects an in-flight operation.
func IsProcessingStatus(status Status) bool {
	_, ok := processingStatuses[status]
	return ok
}

// SetFailed marks the entry failed with the supplied message.
func (e *Entry) SetFailed(message string) {
	e.Status = StatusFailed
	e.ErrorMessage = strings.TrimSpace(message)
}

// HasAlignment reports whether a final phoneme alignment has been recorded.
func (e Entry) HasAlignment() bool {
	return strings.TrimSpace(e.PhonemesJSON) != ""
}
