package domain

import "strings"

// Task is one entry in the checklist.
type Task struct {
	ID      string
	Text    string
	Checked bool
}

// NewTask validates the id and text and returns an unchecked task.
// Text is kept exactly as typed; only an empty string is rejected.
func NewTask(id, text string) (Task, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Task{}, ErrInvalidID
	}
	if text == "" {
		return Task{}, ErrInvalidText
	}
	return Task{
		ID:   id,
		Text: text,
	}, nil
}

// SetChecked sets the completion flag.
func (t *Task) SetChecked(checked bool) {
	t.Checked = checked
}
