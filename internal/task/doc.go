// Package task runs long competitor searches in the background and keeps
// their state in an in-memory, owner-scoped registry.
//
// A caller registers a RUNNING record, hands the work to the Runner and
// returns immediately. Workers execute the task on a context detached from
// the submitting request and publish the terminal state into the registry,
// where the owner picks it up by polling. Nothing is persisted; records are
// lost on restart.
package task
