package tui

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"charm.land/bubbles/v2/key"
)

// keyMap represents key map data used by this package.
type keyMap struct {
	quit       key.Binding
	forceQuit  key.Binding
	toggleHelp key.Binding
	addTask    key.Binding
	focusNext  key.Binding
	moveUp     key.Binding
	moveDown   key.Binding
	toggleTask key.Binding
	removeTask key.Binding
	copyTask   key.Binding
}

// newKeyMap constructs key map.
func newKeyMap() keyMap {
	return keyMap{
		quit:       key.NewBinding(key.WithKeys("q", "esc"), key.WithHelp("q", "quit")),
		forceQuit:  key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
		toggleHelp: key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "toggle help")),
		addTask:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "add task")),
		focusNext:  key.NewBinding(key.WithKeys("tab", "shift+tab"), key.WithHelp("tab", "input/list")),
		moveUp:     key.NewBinding(key.WithKeys("k", "up", "ctrl+p"), key.WithHelp("k/↑", "task up")),
		moveDown:   key.NewBinding(key.WithKeys("j", "down", "ctrl+n"), key.WithHelp("j/↓", "task down")),
		toggleTask: key.NewBinding(key.WithKeys("x", " ", "space"), key.WithHelp("x/space", "toggle done")),
		removeTask: key.NewBinding(key.WithKeys("d", "delete"), key.WithHelp("d", "remove task")),
		copyTask:   key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy text")),
	}
}

// applyConfig rebinds the configurable list actions.
func (k *keyMap) applyConfig(cfg KeyConfig) {
	k.toggleTask = rebind(k.toggleTask, cfg.Toggle, "x", "toggle done")
	k.removeTask = rebind(k.removeTask, cfg.Remove, "d", "remove task")
	k.copyTask = rebind(k.copyTask, cfg.Copy, "y", "copy text")
}

// rebind replaces a binding when raw names a different key.
// An empty value or the default key keeps the built-in binding and its aliases.
func rebind(current key.Binding, raw, fallback, desc string) key.Binding {
	if value := strings.TrimSpace(raw); value == "" || value == fallback {
		return current
	}
	keys, help := parseBindingKeys(raw, fallback)
	return key.NewBinding(key.WithKeys(keys...), key.WithHelp(help, desc))
}

// parseBindingKeys converts one configured key into matcher keys and help text.
func parseBindingKeys(raw, fallback string) ([]string, string) {
	value := strings.TrimSpace(raw)
	if value == "" {
		value = fallback
	}
	switch strings.ToLower(value) {
	case "space", " ":
		return []string{" ", "space"}, "space"
	}
	if utf8.RuneCountInString(value) == 1 {
		r, _ := utf8.DecodeRuneInString(value)
		if unicode.IsUpper(r) {
			return []string{value, "shift+" + string(unicode.ToLower(r))}, value
		}
		return []string{value}, value
	}
	return []string{strings.ToLower(value)}, value
}

// ShortHelp handles short help.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{
		k.addTask, k.focusNext, k.toggleTask, k.removeTask, k.toggleHelp, k.forceQuit,
	}
}

// FullHelp handles full help.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.addTask, k.focusNext, k.toggleHelp, k.quit, k.forceQuit},
		{k.moveUp, k.moveDown},
		{k.toggleTask, k.removeTask, k.copyTask},
	}
}
