package task

import (
	"sync"
	"time"
)

type recordKey struct {
	owner string
	id    string
}

// Registry is the process-wide, owner-scoped store of task records.
// Every operation holds one mutex, so each check-owner-then-act is atomic.
// Returned records are copies.
type Registry struct {
	mu      sync.Mutex
	records map[recordKey]Record
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{records: make(map[recordKey]Record)}
}

// Set stores record under id for record.Owner, replacing any previous entry.
func (r *Registry) Set(id string, record Record) {
	record.ID = id

	r.mu.Lock()
	defer r.mu.Unlock()
	r.records[recordKey{owner: record.Owner, id: id}] = record
}

// Get returns the owner's record. A missing record and one owned by someone
// else are indistinguishable.
func (r *Registry) Get(id, owner string) (*Record, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	record, ok := r.records[recordKey{owner: owner, id: id}]
	if !ok {
		return nil, false
	}
	return &record, true
}

// Remove deletes the owner's record. It is a no-op for other owners.
func (r *Registry) Remove(id, owner string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.records, recordKey{owner: owner, id: id})
}

// Begin stores a RUNNING record unless the owner already has one running
// under the same id. In that case the running record is returned and
// started is false. A terminal record is replaced.
func (r *Registry) Begin(id, owner string, startTime time.Time) (existing *Record, started bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := recordKey{owner: owner, id: id}
	if current, ok := r.records[key]; ok && current.Status == StatusRunning {
		return &current, false
	}

	record := Record{ID: id, Owner: owner, Status: StatusRunning, StartTime: startTime}
	r.records[key] = record
	return &record, true
}

// Complete moves a RUNNING record to COMPLETED with result. It reports
// false when there is no running record to update.
func (r *Registry) Complete(id, owner string, result any) bool {
	return r.finish(id, owner, func(rec *Record) {
		rec.Status = StatusCompleted
		rec.Result = result
	})
}

// Fail moves a RUNNING record to FAILED with message.
func (r *Registry) Fail(id, owner, message string) bool {
	return r.finish(id, owner, func(rec *Record) {
		rec.Status = StatusFailed
		rec.Error = &message
	})
}

func (r *Registry) finish(id, owner string, apply func(*Record)) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := recordKey{owner: owner, id: id}
	record, ok := r.records[key]
	if !ok || record.Status != StatusRunning {
		return false
	}
	apply(&record)
	r.records[key] = record
	return true
}

// Observe returns the owner's record and evicts it in the same critical
// section if it is terminal, so a terminal state is delivered exactly once.
func (r *Registry) Observe(id, owner string) (*Record, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := recordKey{owner: owner, id: id}
	record, ok := r.records[key]
	if !ok {
		return nil, false
	}
	if record.Terminal() {
		delete(r.records, key)
	}
	return &record, true
}

// Len returns the number of stored records.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.records)
}
