package app

import "github.com/evanschultz/checklist/internal/domain"

// IDGenerator returns unique identifiers for new tasks.
type IDGenerator func() string

// Confirmer asks the user whether a task may be removed.
// Implementations block until the user answers.
type Confirmer interface {
	Confirm(domain.Task) bool
}

// ConfirmerFunc adapts a plain function to Confirmer.
type ConfirmerFunc func(domain.Task) bool

// Confirm calls f.
func (f ConfirmerFunc) Confirm(task domain.Task) bool {
	return f(task)
}

// AlwaysConfirm accepts every removal.
var AlwaysConfirm Confirmer = ConfirmerFunc(func(domain.Task) bool { return true })

// NeverConfirm declines every removal.
var NeverConfirm Confirmer = ConfirmerFunc(func(domain.Task) bool { return false })

// Logger receives mutation events from the task list.
type Logger interface {
	Debug(msg string, keyvals ...any)
	Info(msg string, keyvals ...any)
}

// nopLogger discards all events.
type nopLogger struct{}

// Debug discards the event.
func (nopLogger) Debug(string, ...any) {}

// Info discards the event.
func (nopLogger) Info(string, ...any) {}
