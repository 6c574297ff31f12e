package task

import (
	"context"
	"time"
)

// Status represents the current state of a task
type Status string

// Possible task status values
const (
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	// StatusNotFound is reported for misses and never stored.
	StatusNotFound Status = "not_found"
)

// NotFoundID is the id reported with StatusNotFound.
const NotFoundID = "not_found"

// Task type constants
const (
	// TypeCompetitorSearch compares warehouse stock with the competitor site.
	TypeCompetitorSearch = "competitor_search"
	// TypePartnerSearch looks warehouse stock up on the partner site.
	TypePartnerSearch = "partner_search"
)

// Record is the registry entry of one task.
type Record struct {
	ID string `json:"id"`
	// Owner is the credential of the requesting principal. It is used only
	// for isolation and is never serialized.
	Owner     string    `json:"-"`
	Status    Status    `json:"status"`
	StartTime time.Time `json:"start_time,omitzero"`
	// Result is set only when Status is StatusCompleted.
	Result any `json:"result"`
	// Error is set only when Status is StatusFailed.
	Error *string `json:"error"`
}

// Terminal reports whether the record reached COMPLETED or FAILED.
func (r Record) Terminal() bool {
	return r.Status == StatusCompleted || r.Status == StatusFailed
}

// NotFound returns the synthetic record reported for a miss.
func NotFound() Record {
	return Record{ID: NotFoundID, Status: StatusNotFound}
}

// Task represents a unit of background work to be processed
type Task interface {
	// ID returns the registry id of the task
	ID() string

	// Owner returns the principal the task runs for
	Owner() string

	// Type returns the task type identifier
	Type() string

	// Execute runs the task logic and returns the payload stored on completion
	Execute(ctx context.Context) (any, error)
}
