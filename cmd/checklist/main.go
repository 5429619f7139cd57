package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/fang"
	"github.com/evanschultz/checklist/internal/app"
	"github.com/evanschultz/checklist/internal/config"
	"github.com/evanschultz/checklist/internal/platform"
	"github.com/evanschultz/checklist/internal/tui"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// version stores a package-level helper value.
var version = "dev"

// program represents program data used by this package.
type program interface {
	Run() (tea.Model, error)
}

// programFactory stores a package-level helper value.
var programFactory = func(m tea.Model) program {
	return tea.NewProgram(m)
}

// main handles main.
func main() {
	root := newRootCommand(os.Stdin, os.Stdout, os.Stderr)
	if err := fang.Execute(context.Background(), root, fang.WithVersion(version)); err != nil {
		os.Exit(1)
	}
}

// run executes the command tree without fang styling.
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	root := newRootCommand(stdin, stdout, stderr)
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

// globalOptions holds persistent flag values shared by every command.
type globalOptions struct {
	configPath string
	appName    string
	devMode    bool
}

// runtimeEnv is the resolved configuration for one command run.
type runtimeEnv struct {
	opts       globalOptions
	paths      platform.Paths
	configPath string
	cfg        config.Config
}

// newRootCommand builds the command tree; the bare command starts the TUI.
func newRootCommand(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	if stdin == nil {
		stdin = strings.NewReader("")
	}
	if stdout == nil {
		stdout = io.Discard
	}
	if stderr == nil {
		stderr = io.Discard
	}

	opts := globalOptions{appName: "checklist", devMode: version == "dev"}
	if envDev, ok := parseBoolEnv("CHECKLIST_DEV_MODE"); ok {
		opts.devMode = envDev
	}
	if envApp := strings.TrimSpace(os.Getenv("CHECKLIST_APP_NAME")); envApp != "" {
		opts.appName = envApp
	}

	root := &cobra.Command{
		Use:           "checklist",
		Short:         "A single-list task tracker for the terminal",
		Version:       version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := resolveRuntime(opts, true)
			if err != nil {
				return err
			}
			return runTUI(env, stderr)
		},
	}
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	flags := root.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "path to config TOML")
	flags.StringVar(&opts.appName, "app", opts.appName, "application name for config/data path resolution")
	flags.BoolVar(&opts.devMode, "dev", opts.devMode, "use dev mode paths (<app>-dev)")

	root.AddCommand(
		newShellCommand(&opts, stdin, stdout, stderr),
		newPathsCommand(&opts, stdout),
		newInitConfigCommand(&opts, stdout),
	)
	return root
}

// newPathsCommand prints resolved runtime paths.
func newPathsCommand(opts *globalOptions, stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "paths",
		Short: "Print resolved config and data paths",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			env, err := resolveRuntime(*opts, false)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(stdout, "app: %s\n", env.opts.appName)
			_, _ = fmt.Fprintf(stdout, "dev_mode: %t\n", env.opts.devMode)
			_, _ = fmt.Fprintf(stdout, "config: %s\n", env.configPath)
			_, _ = fmt.Fprintf(stdout, "data_dir: %s\n", env.paths.DataDir)
			_, _ = fmt.Fprintf(stdout, "log_dir: %s\n", env.paths.LogDir())
			return nil
		},
	}
}

// newInitConfigCommand writes the default config file when none exists.
func newInitConfigCommand(opts *globalOptions, stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "init-config",
		Short: "Write a default config file",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			env, err := resolveRuntime(*opts, false)
			if err != nil {
				return err
			}
			written, err := config.WriteDefault(env.configPath, config.Default())
			if err != nil {
				return fmt.Errorf("write default config %q: %w", env.configPath, err)
			}
			if !written {
				_, _ = fmt.Fprintf(stdout, "config already exists: %s\n", env.configPath)
				return nil
			}
			_, _ = fmt.Fprintf(stdout, "wrote %s\n", env.configPath)
			return nil
		},
	}
}

// runTUI runs the interactive board until the user quits.
func runTUI(env runtimeEnv, stderr io.Writer) error {
	logger, err := newRuntimeLogger(stderr, env.opts.appName, env.opts.devMode, env.cfg.Logging, env.paths.LogDir(), time.Now)
	if err != nil {
		return fmt.Errorf("configure runtime logger: %w", err)
	}
	// Keep TUI rendering clean: runtime logs stay in the dev-file sink while the list is active.
	logger.SetConsoleEnabled(false)
	defer func() {
		if closeErr := logger.Close(); closeErr != nil {
			_, _ = fmt.Fprintf(stderr, "warning: close runtime log sink: %v\n", closeErr)
		}
	}()
	logRuntimeResolved(logger, env)

	confirm := tui.NewModalConfirmer()
	list := app.NewTaskList(uuid.NewString, confirm, app.WithLogger(logger))
	m := tui.NewModel(
		list,
		confirm,
		tui.WithLabels(toTUILabels(env.cfg)),
		tui.WithKeyConfig(tui.KeyConfig{
			Toggle: env.cfg.Keys.Toggle,
			Remove: env.cfg.Keys.Remove,
			Copy:   env.cfg.Keys.Copy,
		}),
		tui.WithCharLimit(env.cfg.UI.CharLimit),
	)

	logger.Info("starting tui program loop")
	if _, err := programFactory(m).Run(); err != nil {
		logger.Error("tui program terminated with error", "err", err)
		return fmt.Errorf("run tui program: %w", err)
	}
	logger.Info("command flow complete", "command", "tui", "tasks", list.Len(), "checked", list.CheckedCount())
	return nil
}

// toTUILabels maps config copy into model labels.
func toTUILabels(cfg config.Config) tui.Labels {
	return tui.Labels{
		Title:            cfg.UI.Title,
		EmptyTitle:       cfg.UI.EmptyTitle,
		EmptyHint:        cfg.UI.EmptyHint,
		InputPlaceholder: cfg.UI.InputPlaceholder,
		RemovePrompt:     cfg.Confirm.RemovePrompt,
	}
}

// logRuntimeResolved records the resolved startup configuration.
func logRuntimeResolved(logger *runtimeLogger, env runtimeEnv) {
	logger.Info("startup configuration resolved", "app", env.opts.appName, "dev_mode", env.opts.devMode)
	logger.Debug("runtime paths resolved", "config_path", env.configPath, "data_dir", env.paths.DataDir, "log_dir", env.paths.LogDir())
	logger.Info("configuration loaded", "config_path", env.configPath, "log_level", env.cfg.Logging.Level)
	if devPath := logger.DevLogPath(); devPath != "" {
		logger.Info("dev file logging enabled", "path", devPath)
	}
}

// resolveRuntime resolves paths and, when requested, loads the config file.
func resolveRuntime(opts globalOptions, loadConfig bool) (runtimeEnv, error) {
	opts.appName = strings.TrimSpace(opts.appName)
	if opts.appName == "" {
		return runtimeEnv{}, errors.New("app name is required")
	}
	paths, err := platform.DefaultPathsWithOptions(platform.Options{
		AppName: opts.appName,
		DevMode: opts.devMode,
	})
	if err != nil {
		return runtimeEnv{}, fmt.Errorf("resolve paths: %w", err)
	}

	configPath := strings.TrimSpace(opts.configPath)
	if configPath == "" {
		if envPath := strings.TrimSpace(os.Getenv("CHECKLIST_CONFIG")); envPath != "" {
			configPath = envPath
		} else {
			configPath = paths.ConfigPath
		}
	}

	env := runtimeEnv{
		opts:       opts,
		paths:      paths,
		configPath: configPath,
		cfg:        config.Default(),
	}
	if !loadConfig {
		return env, nil
	}
	cfg, err := config.Load(configPath, config.Default())
	if err != nil {
		return runtimeEnv{}, fmt.Errorf("load config %q: %w", configPath, err)
	}
	env.cfg = cfg
	return env, nil
}

// parseBoolEnv parses input into a normalized form.
func parseBoolEnv(name string) (bool, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return false, false
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, false
	}
	return v, true
}
