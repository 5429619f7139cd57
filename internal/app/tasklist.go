package app

import (
	"fmt"
	"slices"
	"strings"

	"github.com/evanschultz/checklist/internal/domain"
)

// maxIDAttempts bounds how often the generator is retried when it yields a used or empty id.
const maxIDAttempts = 8

// Snapshot is a read-only copy of the list state handed to display collaborators.
type Snapshot struct {
	Tasks        []domain.Task
	PendingInput string
	Total        int
	Checked      int
	CanAdd       bool
}

// Empty reports whether the snapshot holds no tasks.
func (s Snapshot) Empty() bool {
	return len(s.Tasks) == 0
}

// Option configures a TaskList.
type Option func(*TaskList)

// WithLogger routes mutation events to logger.
func WithLogger(logger Logger) Option {
	return func(l *TaskList) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// TaskList owns the in-memory task list and the pending input.
// It is not safe for concurrent use.
type TaskList struct {
	tasks   []domain.Task
	pending string
	issued  map[string]struct{}

	idGen   IDGenerator
	confirm Confirmer
	logger  Logger
}

// NewTaskList constructs an empty list.
func NewTaskList(idGen IDGenerator, confirm Confirmer, opts ...Option) *TaskList {
	if idGen == nil {
		idGen = func() string { return "" }
	}
	if confirm == nil {
		confirm = NeverConfirm
	}
	l := &TaskList{
		tasks:   []domain.Task{},
		issued:  map[string]struct{}{},
		idGen:   idGen,
		confirm: confirm,
		logger:  nopLogger{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(l)
		}
	}
	return l
}

// SetPendingInput replaces the draft text.
func (l *TaskList) SetPendingInput(text string) {
	l.pending = text
}

// PendingInput returns the draft text.
func (l *TaskList) PendingInput() string {
	return l.pending
}

// AddTask appends a task built from the pending input and clears the draft.
// It does nothing and reports false while the draft is empty.
func (l *TaskList) AddTask() (domain.Task, bool) {
	if l.pending == "" {
		l.logger.Debug("add ignored", "reason", "empty input")
		return domain.Task{}, false
	}
	id, ok := l.nextID()
	if !ok {
		l.logger.Info("add ignored", "reason", "no fresh id", "attempts", maxIDAttempts)
		return domain.Task{}, false
	}
	task, err := domain.NewTask(id, l.pending)
	if err != nil {
		l.logger.Info("add ignored", "reason", err.Error())
		return domain.Task{}, false
	}
	l.issued[task.ID] = struct{}{}
	l.tasks = append(l.tasks, task)
	l.pending = ""
	l.logger.Debug("task added", "id", task.ID, "total", len(l.tasks))
	return task, true
}

// ToggleTask sets the checked flag of the task with id.
func (l *TaskList) ToggleTask(id string, value bool) error {
	idx := l.indexOf(id)
	if idx < 0 {
		l.logger.Debug("toggle ignored", "id", id, "reason", "not found")
		return fmt.Errorf("toggle task %q: %w", id, ErrNotFound)
	}
	l.tasks[idx].SetChecked(value)
	l.logger.Debug("task toggled", "id", id, "checked", value)
	return nil
}

// RemoveTask asks the confirmer and, when accepted, removes the task with id.
// It reports whether the task was removed; a declined prompt is not an error.
func (l *TaskList) RemoveTask(id string) (bool, error) {
	idx := l.indexOf(id)
	if idx < 0 {
		l.logger.Debug("remove ignored", "id", id, "reason", "not found")
		return false, fmt.Errorf("remove task %q: %w", id, ErrNotFound)
	}
	if !l.confirm.Confirm(l.tasks[idx]) {
		l.logger.Debug("remove declined", "id", id)
		return false, nil
	}
	l.tasks = slices.Delete(l.tasks, idx, idx+1)
	l.logger.Debug("task removed", "id", id, "total", len(l.tasks))
	return true, nil
}

// CheckedCount counts checked tasks in the current list.
func (l *TaskList) CheckedCount() int {
	count := 0
	for _, task := range l.tasks {
		if task.Checked {
			count++
		}
	}
	return count
}

// Len returns the number of tasks.
func (l *TaskList) Len() int {
	return len(l.tasks)
}

// Task returns the task with id.
func (l *TaskList) Task(id string) (domain.Task, bool) {
	idx := l.indexOf(id)
	if idx < 0 {
		return domain.Task{}, false
	}
	return l.tasks[idx], true
}

// TaskAt returns the task at a zero-based position.
func (l *TaskList) TaskAt(index int) (domain.Task, bool) {
	if index < 0 || index >= len(l.tasks) {
		return domain.Task{}, false
	}
	return l.tasks[index], true
}

// Tasks returns a copy of the tasks in insertion order.
func (l *TaskList) Tasks() []domain.Task {
	return slices.Clone(l.tasks)
}

// Snapshot returns a copy of the current state with derived counters.
func (l *TaskList) Snapshot() Snapshot {
	return Snapshot{
		Tasks:        l.Tasks(),
		PendingInput: l.pending,
		Total:        len(l.tasks),
		Checked:      l.CheckedCount(),
		CanAdd:       l.pending != "",
	}
}

// indexOf returns the position of the task with id, or -1.
func (l *TaskList) indexOf(id string) int {
	return slices.IndexFunc(l.tasks, func(task domain.Task) bool {
		return task.ID == id
	})
}

// nextID draws ids until one has never been issued by this list.
func (l *TaskList) nextID() (string, bool) {
	for range maxIDAttempts {
		id := strings.TrimSpace(l.idGen())
		if id == "" {
			continue
		}
		if _, used := l.issued[id]; used {
			continue
		}
		return id, true
	}
	return "", false
}
