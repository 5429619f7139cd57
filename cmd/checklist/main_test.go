package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/x/ansi"
	"github.com/evanschultz/checklist/internal/config"
)

// TestMain sets deterministic environment defaults for CLI tests.
func TestMain(m *testing.M) {
	_ = os.Setenv("CHECKLIST_DEV_MODE", "false")
	os.Exit(m.Run())
}

// fakeProgram represents fake program data used by this package.
type fakeProgram struct {
	runErr error
}

// Run runs the requested command flow.
func (f fakeProgram) Run() (tea.Model, error) {
	return nil, f.runErr
}

// isolateUserDirs points platform path resolution at temp dirs.
func isolateUserDirs(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	t.Setenv("HOME", root)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(root, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(root, "data"))
	t.Setenv("CHECKLIST_CONFIG", "")
	t.Setenv("CHECKLIST_APP_NAME", "")
	return root
}

// writeConfig writes one config file for a test run.
func writeConfig(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
}

// TestRunVersion verifies behavior for the covered scenario.
func TestRunVersion(t *testing.T) {
	var out strings.Builder
	err := run(context.Background(), []string{"--version"}, nil, &out, io.Discard)
	if err != nil {
		t.Fatalf("run(version) error = %v", err)
	}
	if !strings.Contains(out.String(), "dev") {
		t.Fatalf("expected version output, got %q", out.String())
	}
}

// TestRunStartsProgram verifies behavior for the covered scenario.
func TestRunStartsProgram(t *testing.T) {
	isolateUserDirs(t)
	origFactory := programFactory
	t.Cleanup(func() { programFactory = origFactory })

	started := false
	programFactory = func(m tea.Model) program {
		started = m != nil
		return fakeProgram{}
	}

	cfgPath := filepath.Join(t.TempDir(), "config.toml")
	if err := run(context.Background(), []string{"--config", cfgPath}, nil, io.Discard, io.Discard); err != nil {
		t.Fatalf("run() error = %v", err)
	}
	if !started {
		t.Fatal("expected program factory to receive a model")
	}
}

// TestRunPropagatesProgramError verifies TUI failures are wrapped and returned.
func TestRunPropagatesProgramError(t *testing.T) {
	isolateUserDirs(t)
	origFactory := programFactory
	t.Cleanup(func() { programFactory = origFactory })

	boom := errors.New("boom")
	programFactory = func(tea.Model) program { return fakeProgram{runErr: boom} }

	cfgPath := filepath.Join(t.TempDir(), "config.toml")
	err := run(context.Background(), []string{"--config", cfgPath}, nil, io.Discard, io.Discard)
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped program error, got %v", err)
	}
}

// TestRunInvalidFlag verifies behavior for the covered scenario.
func TestRunInvalidFlag(t *testing.T) {
	err := run(context.Background(), []string{"--wat"}, nil, io.Discard, io.Discard)
	if err == nil {
		t.Fatal("expected error for unknown flag")
	}
}

// TestRunUnknownCommand verifies behavior for the covered scenario.
func TestRunUnknownCommand(t *testing.T) {
	err := run(context.Background(), []string{"nope"}, nil, io.Discard, io.Discard)
	if err == nil {
		t.Fatal("expected error for unknown command")
	}
}

// TestRunPathsCommand verifies behavior for the covered scenario.
func TestRunPathsCommand(t *testing.T) {
	root := isolateUserDirs(t)
	var out strings.Builder
	err := run(context.Background(), []string{"--app", "listx", "--dev", "paths"}, nil, &out, io.Discard)
	if err != nil {
		t.Fatalf("run(paths) error = %v", err)
	}
	output := out.String()
	if !strings.Contains(output, "app: listx") {
		t.Fatalf("expected app name in paths output, got %q", output)
	}
	if !strings.Contains(output, "dev_mode: true") {
		t.Fatalf("expected dev mode in paths output, got %q", output)
	}
	if runtime.GOOS == "linux" {
		wantConfig := filepath.Join(root, "config", "listx-dev", "config.toml")
		if !strings.Contains(output, "config: "+wantConfig) {
			t.Fatalf("expected config path %q, got %q", wantConfig, output)
		}
		wantLog := filepath.Join(root, "data", "listx-dev", "log")
		if !strings.Contains(output, "log_dir: "+wantLog) {
			t.Fatalf("expected log dir under data dir %q, got %q", wantLog, output)
		}
	}
}

// TestRunConfigEnvOverride verifies CHECKLIST_CONFIG is used when no flag is given.
func TestRunConfigEnvOverride(t *testing.T) {
	isolateUserDirs(t)
	cfgPath := filepath.Join(t.TempDir(), "from-env.toml")
	t.Setenv("CHECKLIST_CONFIG", cfgPath)

	var out strings.Builder
	if err := run(context.Background(), []string{"paths"}, nil, &out, io.Discard); err != nil {
		t.Fatalf("run(paths) error = %v", err)
	}
	if !strings.Contains(out.String(), "config: "+cfgPath) {
		t.Fatalf("expected env config path in output, got %q", out.String())
	}
}

// TestRunInitConfigWritesOnce verifies the default config is written and then left alone.
func TestRunInitConfigWritesOnce(t *testing.T) {
	isolateUserDirs(t)
	cfgPath := filepath.Join(t.TempDir(), "nested", "config.toml")

	var first strings.Builder
	if err := run(context.Background(), []string{"--config", cfgPath, "init-config"}, nil, &first, io.Discard); err != nil {
		t.Fatalf("run(init-config) error = %v", err)
	}
	if !strings.Contains(first.String(), "wrote "+cfgPath) {
		t.Fatalf("expected write confirmation, got %q", first.String())
	}
	cfg, err := config.Load(cfgPath, config.Default())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Confirm.RemovePrompt != config.Default().Confirm.RemovePrompt {
		t.Fatalf("expected default remove prompt, got %q", cfg.Confirm.RemovePrompt)
	}

	var second strings.Builder
	if err := run(context.Background(), []string{"--config", cfgPath, "init-config"}, nil, &second, io.Discard); err != nil {
		t.Fatalf("run(init-config) second error = %v", err)
	}
	if !strings.Contains(second.String(), "config already exists") {
		t.Fatalf("expected existing config notice, got %q", second.String())
	}
}

// TestRunRejectsInvalidLoggingLevelFromConfig verifies behavior for the covered scenario.
func TestRunRejectsInvalidLoggingLevelFromConfig(t *testing.T) {
	isolateUserDirs(t)
	cfgPath := filepath.Join(t.TempDir(), "config.toml")
	writeConfig(t, cfgPath, "[logging]\nlevel = \"loud\"\n")

	err := run(context.Background(), []string{"--config", cfgPath}, nil, io.Discard, io.Discard)
	if err == nil {
		t.Fatal("expected invalid logging level to fail")
	}
	if !strings.Contains(err.Error(), "load config") {
		t.Fatalf("expected load config error, got %v", err)
	}
}

// TestRunRejectsEmptyAppName verifies behavior for the covered scenario.
func TestRunRejectsEmptyAppName(t *testing.T) {
	isolateUserDirs(t)
	err := run(context.Background(), []string{"--app", "  ", "paths"}, nil, io.Discard, io.Discard)
	if err == nil {
		t.Fatal("expected blank app name to fail")
	}
}

// TestParseBoolEnv verifies behavior for the covered scenario.
func TestParseBoolEnv(t *testing.T) {
	t.Setenv("CHECKLIST_BOOL_TEST", "true")
	got, ok := parseBoolEnv("CHECKLIST_BOOL_TEST")
	if !ok || !got {
		t.Fatalf("expected true bool env parse, got value=%t ok=%t", got, ok)
	}

	t.Setenv("CHECKLIST_BOOL_TEST", "not-bool")
	if _, ok = parseBoolEnv("CHECKLIST_BOOL_TEST"); ok {
		t.Fatal("expected invalid bool env to return ok=false")
	}

	t.Setenv("CHECKLIST_BOOL_TEST", "")
	if _, ok = parseBoolEnv("CHECKLIST_BOOL_TEST"); ok {
		t.Fatal("expected empty bool env to return ok=false")
	}
}

// TestRunShellScriptedSession verifies the line shell drives add, toggle, and confirmed remove.
func TestRunShellScriptedSession(t *testing.T) {
	isolateUserDirs(t)
	cfgPath := filepath.Join(t.TempDir(), "config.toml")
	script := strings.Join([]string{
		"add",
		"input Buy milk",
		"add",
		"toggle 1",
		"rm 1",
		"n",
		"ls",
		"rm 1",
		"y",
		"toggle 1 on",
		"rm 7",
		"ls",
		"quit",
	}, "\n") + "\n"

	var out strings.Builder
	err := run(context.Background(), []string{"--config", cfgPath, "shell", "--plain"}, strings.NewReader(script), &out, io.Discard)
	if err != nil {
		t.Fatalf("run(shell) error = %v", err)
	}
	output := out.String()
	for _, want := range []string{
		`draft: "Buy milk"`,
		`added #1 "Buy milk"`,
		`"Buy milk" is done (done 1 of 1)`,
		`Remove this task? "Buy milk" [y/N]: `,
		"kept",
		"- [x] 1. ~~Buy milk~~",
		"Created **1** · Done **1 of 1**",
		"removed",
		"no such task: 1",
		"no such task: 7",
		"Created **0** · Done **0 of 0**",
		"**You have no tasks yet**",
	} {
		if !strings.Contains(output, want) {
			t.Fatalf("expected shell output to contain %q, got %q", want, output)
		}
	}
	if strings.Count(output, "added #") != 1 {
		t.Fatalf("expected empty add to be ignored, got %q", output)
	}
}

// TestRunShellStopsAtEOF verifies the shell exits cleanly without an explicit quit.
func TestRunShellStopsAtEOF(t *testing.T) {
	isolateUserDirs(t)
	cfgPath := filepath.Join(t.TempDir(), "config.toml")

	var out strings.Builder
	err := run(context.Background(), []string{"--config", cfgPath, "shell", "--plain"}, strings.NewReader("add Walk dog\nwat\n"), &out, io.Discard)
	if err != nil {
		t.Fatalf("run(shell) error = %v", err)
	}
	if !strings.Contains(out.String(), `unknown command "wat"`) {
		t.Fatalf("expected unknown command hint, got %q", out.String())
	}
}

// TestRunShellKeepsDraftSpacing verifies shell drafts keep the text as typed after the command.
func TestRunShellKeepsDraftSpacing(t *testing.T) {
	isolateUserDirs(t)
	cfgPath := filepath.Join(t.TempDir(), "config.toml")
	script := "input   two  spaces \nadd\nadd  lead\nadd   \nquit\n"

	var out strings.Builder
	err := run(context.Background(), []string{"--config", cfgPath, "shell", "--plain"}, strings.NewReader(script), &out, io.Discard)
	if err != nil {
		t.Fatalf("run(shell) error = %v", err)
	}
	output := out.String()
	for _, want := range []string{
		`draft: "  two  spaces "`,
		`added #1 "  two  spaces "`,
		`added #2 " lead"`,
	} {
		if !strings.Contains(output, want) {
			t.Fatalf("expected shell output to contain %q, got %q", want, output)
		}
	}
	if strings.Contains(output, "added #3") {
		t.Fatalf("expected whitespace-only add with empty draft to be ignored, got %q", output)
	}
}

// TestRunShellStyledOutput verifies glamour output drops markdown markers.
func TestRunShellStyledOutput(t *testing.T) {
	isolateUserDirs(t)
	cfgPath := filepath.Join(t.TempDir(), "config.toml")
	writeConfig(t, cfgPath, "[ui]\nmarkdown_style = \"dark\"\n")

	var out strings.Builder
	err := run(context.Background(), []string{"--config", cfgPath, "shell", "--width", "60"}, strings.NewReader("quit\n"), &out, io.Discard)
	if err != nil {
		t.Fatalf("run(shell) error = %v", err)
	}
	output := ansi.Strip(out.String())
	if !strings.Contains(output, "no tasks yet") {
		t.Fatalf("expected empty state in styled output, got %q", output)
	}
	if strings.Contains(output, "# checklist") {
		t.Fatalf("expected styled output without raw markdown heading, got %q", output)
	}
}

// TestParseOnOff verifies toggle values.
func TestParseOnOff(t *testing.T) {
	cases := map[string]bool{"on": true, "DONE": true, "1": true, "off": false, " open ": false, "0": false}
	for input, want := range cases {
		got, err := parseOnOff(input)
		if err != nil {
			t.Fatalf("parseOnOff(%q) error = %v", input, err)
		}
		if got != want {
			t.Fatalf("parseOnOff(%q) = %t, want %t", input, got, want)
		}
	}
	if _, err := parseOnOff("maybe"); err == nil {
		t.Fatal("expected invalid toggle value to fail")
	}
}

// TestRunDevModeCreatesWorkspaceLogFile verifies behavior for the covered scenario.
func TestRunDevModeCreatesWorkspaceLogFile(t *testing.T) {
	isolateUserDirs(t)
	origFactory := programFactory
	t.Cleanup(func() { programFactory = origFactory })
	programFactory = func(tea.Model) program { return fakeProgram{} }

	workspace := t.TempDir()
	t.Chdir(workspace)

	cfgPath := filepath.Join(workspace, "config.toml")
	writeConfig(t, cfgPath, "[logging.dev_file]\nenabled = true\ndir = \".checklist/log\"\n")
	var stderr bytes.Buffer
	if err := run(context.Background(), []string{"--dev", "--config", cfgPath}, nil, io.Discard, &stderr); err != nil {
		t.Fatalf("run() error = %v", err)
	}
	if got := strings.TrimSpace(stderr.String()); got != "" {
		t.Fatalf("expected no runtime stderr output in TUI mode, got %q", got)
	}

	logDir := filepath.Join(workspace, ".checklist", "log")
	entries, err := os.ReadDir(logDir)
	if err != nil {
		t.Fatalf("ReadDir() error = %v", err)
	}
	var logPath string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".log") {
			logPath = filepath.Join(logDir, entry.Name())
			break
		}
	}
	if logPath == "" {
		t.Fatalf("expected a .log file in %s, got %v", logDir, entries)
	}
	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if !strings.Contains(string(content), "starting tui program loop") {
		t.Fatalf("expected runtime log file to include TUI lifecycle entries, got %q", string(content))
	}
}

// TestRuntimeLoggerCanMuteConsoleSink verifies console output can be suppressed while other sinks remain active.
func TestRuntimeLoggerCanMuteConsoleSink(t *testing.T) {
	var console bytes.Buffer
	cfg := config.Default().Logging

	logger, err := newRuntimeLogger(&console, "checklist", false, cfg, t.TempDir(), fixedNow)
	if err != nil {
		t.Fatalf("newRuntimeLogger() error = %v", err)
	}

	logger.Info("before")
	logger.SetConsoleEnabled(false)
	logger.Info("during")
	logger.SetConsoleEnabled(true)
	logger.Info("after")

	out := console.String()
	if !strings.Contains(out, "before") {
		t.Fatalf("expected console log to include 'before', got %q", out)
	}
	if strings.Contains(out, "during") {
		t.Fatalf("expected muted console log to omit 'during', got %q", out)
	}
	if !strings.Contains(out, "after") {
		t.Fatalf("expected console log to include 'after', got %q", out)
	}
	if logger.DevLogPath() != "" {
		t.Fatalf("expected no dev log outside dev mode, got %q", logger.DevLogPath())
	}
}

// TestRuntimeLoggerDevFileFallsBackToDefaultDir verifies a blank dev dir uses the platform log dir.
func TestRuntimeLoggerDevFileFallsBackToDefaultDir(t *testing.T) {
	defaultDir := filepath.Join(t.TempDir(), "log")
	cfg := config.Default().Logging
	cfg.Level = "debug"

	logger, err := newRuntimeLogger(io.Discard, "checklist", true, cfg, defaultDir, fixedNow)
	if err != nil {
		t.Fatalf("newRuntimeLogger() error = %v", err)
	}
	logger.Debug("task added", "id", "t-1")
	if err := logger.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	want := filepath.Join(defaultDir, "checklist-20260223.log")
	if logger.DevLogPath() != want {
		t.Fatalf("expected dev log path %q, got %q", want, logger.DevLogPath())
	}
	content, err := os.ReadFile(want)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if !strings.Contains(string(content), "task added") || !strings.Contains(string(content), "id=t-1") {
		t.Fatalf("expected logfmt debug entry, got %q", string(content))
	}
}

// TestRuntimeLoggerRejectsInvalidLevel verifies level parsing errors surface.
func TestRuntimeLoggerRejectsInvalidLevel(t *testing.T) {
	cfg := config.Default().Logging
	cfg.Level = "chatty"
	if _, err := newRuntimeLogger(io.Discard, "checklist", false, cfg, "", fixedNow); err == nil {
		t.Fatal("expected invalid level to fail")
	}
}

// TestWorkspaceRootFromUsesNearestMarker verifies workspace-root resolution behavior.
func TestWorkspaceRootFromUsesNearestMarker(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "go.mod"), []byte("module example.com/test\n"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	nested := filepath.Join(root, "cmd", "checklist")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}
	got := workspaceRootFrom(nested)
	if filepath.Clean(got) != filepath.Clean(root) {
		t.Fatalf("expected workspace root %q, got %q", root, got)
	}
}

// TestDevLogFilePathResolvesAgainstWorkspaceRoot verifies relative log dirs anchor at workspace root.
func TestDevLogFilePathResolvesAgainstWorkspaceRoot(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "go.mod"), []byte("module example.com/test\n"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	nested := filepath.Join(root, "cmd", "checklist")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}
	t.Chdir(nested)

	got, err := devLogFilePath(".checklist/log", "checklist", time.Date(2026, 2, 22, 12, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("devLogFilePath() error = %v", err)
	}
	wantPrefix := filepath.Join(root, ".checklist", "log")
	normalize := func(p string) string {
		return strings.TrimPrefix(filepath.Clean(p), "/private")
	}
	if !strings.HasPrefix(normalize(got), normalize(wantPrefix)) {
		t.Fatalf("expected log path under %q, got %q", wantPrefix, got)
	}
	if filepath.Base(got) != "checklist-20260222.log" {
		t.Fatalf("expected dated log file name, got %q", filepath.Base(got))
	}
}

// TestSanitizeLogFileStem verifies app names become safe file stems.
func TestSanitizeLogFileStem(t *testing.T) {
	cases := map[string]string{
		"checklist":     "checklist",
		" my app ":      "my-app",
		"a/b\\c:d":      "a-b-c-d",
		"":              "checklist",
		"///":           "checklist",
		"checklist-dev": "checklist-dev",
	}
	for input, want := range cases {
		if got := sanitizeLogFileStem(input); got != want {
			t.Fatalf("sanitizeLogFileStem(%q) = %q, want %q", input, got, want)
		}
	}
}

// fixedNow returns a stable clock for log file names.
func fixedNow() time.Time {
	return time.Date(2026, 2, 23, 12, 0, 0, 0, time.UTC)
}
