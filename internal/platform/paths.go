// Package platform resolves per-user locations for the config file and runtime logs.
package platform

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// Paths holds the resolved per-user locations for one app name.
type Paths struct {
	ConfigPath string
	DataDir    string
}

// LogDir is the dev log directory used when logging.dev_file.dir is blank.
func (p Paths) LogDir() string {
	if p.DataDir == "" {
		return ""
	}
	return filepath.Join(p.DataDir, "log")
}

// Options selects the app name and dev mode used for resolution.
type Options struct {
	AppName string
	DevMode bool
}

// dirName returns the per-app directory name, suffixed with -dev in dev mode.
func (o Options) dirName() string {
	name := strings.TrimSpace(o.AppName)
	if name == "" {
		name = "checklist"
	}
	if o.DevMode {
		name += "-dev"
	}
	return name
}

// baseOverrides names the env vars that replace the config and data bases per OS.
var baseOverrides = map[string]struct{ config, data string }{
	"linux":   {config: "XDG_CONFIG_HOME", data: "XDG_DATA_HOME"},
	"windows": {config: "APPDATA", data: "LOCALAPPDATA"},
}

// DefaultPathsWithOptions resolves paths for the running OS and user.
func DefaultPathsWithOptions(opts Options) (Paths, error) {
	configBase, dataBase, err := userBaseDirs(runtime.GOOS)
	if err != nil {
		return Paths{}, err
	}
	env := map[string]string{}
	if vars, ok := baseOverrides[runtime.GOOS]; ok {
		env[vars.config] = os.Getenv(vars.config)
		env[vars.data] = os.Getenv(vars.data)
	}
	return PathsFor(runtime.GOOS, env, configBase, dataBase, opts.dirName())
}

// PathsFor resolves config and data locations for one OS, environment, and app directory name.
func PathsFor(goos string, env map[string]string, userConfigDir, userDataDir, appName string) (Paths, error) {
	appName = strings.TrimSpace(appName)
	if appName == "" {
		return Paths{}, errors.New("empty app name")
	}

	configBase, dataBase := userConfigDir, userDataDir
	if vars, ok := baseOverrides[goos]; ok {
		configBase = firstNonEmpty(env[vars.config], configBase)
		dataBase = firstNonEmpty(env[vars.data], dataBase)
	}
	if configBase == "" || dataBase == "" {
		return Paths{}, errors.New("empty base dirs")
	}

	return Paths{
		ConfigPath: filepath.Join(configBase, appName, "config.toml"),
		DataDir:    filepath.Join(dataBase, appName),
	}, nil
}

// userBaseDirs returns the OS defaults before env overrides.
// Linux keeps data under ~/.local/share; elsewhere data sits beside config.
func userBaseDirs(goos string) (string, string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", "", fmt.Errorf("user config dir: %w", err)
	}
	if goos != "linux" {
		return configDir, configDir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", "", fmt.Errorf("user home dir: %w", err)
	}
	return configDir, filepath.Join(home, ".local", "share"), nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
