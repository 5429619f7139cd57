package tui

import "github.com/atotto/clipboard"

// Labels holds user-facing copy for the header, input, and empty state.
type Labels struct {
	Title            string
	EmptyTitle       string
	EmptyHint        string
	InputPlaceholder string
	RemovePrompt     string
}

// KeyConfig holds configurable list action keys.
type KeyConfig struct {
	Toggle string
	Remove string
	Copy   string
}

type Option func(*Model)

func DefaultLabels() Labels {
	return Labels{
		Title:            "checklist",
		EmptyTitle:       "You have no tasks yet",
		EmptyHint:        "Create tasks and organize your to-do items",
		InputPlaceholder: "Add a new task",
		RemovePrompt:     "Remove this task?",
	}
}

func WithLabels(labels Labels) Option {
	return func(m *Model) {
		defaults := DefaultLabels()
		if labels.Title == "" {
			labels.Title = defaults.Title
		}
		if labels.EmptyTitle == "" {
			labels.EmptyTitle = defaults.EmptyTitle
		}
		if labels.RemovePrompt == "" {
			labels.RemovePrompt = defaults.RemovePrompt
		}
		m.labels = labels
		m.input.Placeholder = labels.InputPlaceholder
	}
}

func WithKeyConfig(cfg KeyConfig) Option {
	return func(m *Model) {
		m.keys.applyConfig(cfg)
	}
}

func WithCharLimit(limit int) Option {
	return func(m *Model) {
		if limit >= 0 {
			m.input.CharLimit = limit
		}
	}
}

// WithClipboard overrides the clipboard writer used by the copy action.
func WithClipboard(write func(string) error) Option {
	return func(m *Model) {
		if write != nil {
			m.copyText = write
		}
	}
}

// defaultClipboard writes to the system clipboard.
var defaultClipboard = clipboard.WriteAll
