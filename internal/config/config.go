package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"unicode/utf8"

	charmLog "github.com/charmbracelet/log"
	toml "github.com/pelletier/go-toml/v2"
)

type Config struct {
	Logging LoggingConfig `toml:"logging"`
	Confirm ConfirmConfig `toml:"confirm"`
	UI      UIConfig      `toml:"ui"`
	Keys    KeyConfig     `toml:"keys"`
}

type LoggingConfig struct {
	Level   string        `toml:"level"`
	DevFile DevFileConfig `toml:"dev_file"`
}

type DevFileConfig struct {
	Enabled bool   `toml:"enabled"`
	Dir     string `toml:"dir"`
}

type ConfirmConfig struct {
	RemovePrompt string `toml:"remove_prompt"`
}

type UIConfig struct {
	Title            string `toml:"title"`
	EmptyTitle       string `toml:"empty_title"`
	EmptyHint        string `toml:"empty_hint"`
	InputPlaceholder string `toml:"input_placeholder"`
	MarkdownStyle    string `toml:"markdown_style"` // dark | light | notty | ascii
	CharLimit        int    `toml:"char_limit"`
}

type KeyConfig struct {
	Toggle string `toml:"toggle"`
	Remove string `toml:"remove"`
	Copy   string `toml:"copy"`
}

var markdownStyles = []string{"dark", "light", "notty", "ascii"}

func Default() Config {
	return Config{
		Logging: LoggingConfig{
			Level: "info",
			DevFile: DevFileConfig{
				Enabled: true,
				Dir:     "",
			},
		},
		Confirm: ConfirmConfig{
			RemovePrompt: "Remove this task?",
		},
		UI: UIConfig{
			Title:            "checklist",
			EmptyTitle:       "You have no tasks yet",
			EmptyHint:        "Create tasks and organize your to-do items",
			InputPlaceholder: "Add a new task",
			MarkdownStyle:    "dark",
			CharLimit:        280,
		},
		Keys: KeyConfig{
			Toggle: "x",
			Remove: "d",
			Copy:   "y",
		},
	}
}

func Load(path string, defaults Config) (Config, error) {
	cfg := defaults
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if len(content) == 0 {
		return cfg, nil
	}

	if err := toml.Unmarshal(content, &cfg); err != nil {
		return Config{}, fmt.Errorf("decode toml: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) Validate() error {
	if _, err := charmLog.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("invalid logging.level: %q", c.Logging.Level)
	}
	if strings.TrimSpace(c.Confirm.RemovePrompt) == "" {
		return errors.New("confirm.remove_prompt is required")
	}
	if style := strings.TrimSpace(strings.ToLower(c.UI.MarkdownStyle)); style != "" && !slices.Contains(markdownStyles, style) {
		return fmt.Errorf("invalid ui.markdown_style: %q", c.UI.MarkdownStyle)
	}
	if c.UI.CharLimit < 0 {
		return errors.New("ui.char_limit must be >= 0")
	}

	return c.Keys.validate()
}

// reservedKeys are fixed list and screen keys that configurable actions may not take.
var reservedKeys = []string{
	"q", "esc", "ctrl+c", "?", "enter", "tab", "shift+tab", "i",
	"k", "up", "ctrl+p", "j", "down", "ctrl+n",
}

// builtinAliases are extra keys an action keeps while it uses its default key.
var builtinAliases = map[string][]string{
	"toggle": {"space"},
	"remove": {"delete"},
}

func (k KeyConfig) validate() error {
	defaults := Default().Keys
	seen := map[string]string{}
	claim := func(binding, name string) error {
		if other, ok := seen[binding]; ok && other != name {
			return fmt.Errorf("keys.%s duplicates keys.%s: %q", name, other, binding)
		}
		seen[binding] = name
		return nil
	}
	for _, action := range []struct{ name, value, fallback string }{
		{"toggle", k.Toggle, defaults.Toggle},
		{"remove", k.Remove, defaults.Remove},
		{"copy", k.Copy, defaults.Copy},
	} {
		binding := normalizeKey(action.value)
		if binding == "" {
			binding = action.fallback
		}
		if slices.Contains(reservedKeys, binding) {
			return fmt.Errorf("keys.%s uses reserved key %q", action.name, binding)
		}
		if err := claim(binding, action.name); err != nil {
			return err
		}
		if binding != action.fallback {
			continue
		}
		for _, alias := range builtinAliases[action.name] {
			if err := claim(alias, action.name); err != nil {
				return err
			}
		}
	}
	return nil
}

// normalizeKey lowercases named keys; single characters keep their case.
func normalizeKey(raw string) string {
	value := strings.TrimSpace(raw)
	if utf8.RuneCountInString(value) <= 1 {
		return value
	}
	return strings.ToLower(value)
}

// WriteDefault writes cfg as TOML to path unless a file already exists there.
func WriteDefault(path string, cfg Config) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return false, fmt.Errorf("stat config: %w", err)
	}
	if err := EnsureConfigDir(path); err != nil {
		return false, fmt.Errorf("create config dir: %w", err)
	}
	encoded, err := toml.Marshal(cfg)
	if err != nil {
		return false, fmt.Errorf("encode toml: %w", err)
	}
	if err := os.WriteFile(path, encoded, 0o644); err != nil {
		return false, fmt.Errorf("write config: %w", err)
	}
	return true, nil
}

func EnsureConfigDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
