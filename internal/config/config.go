// Package config loads the application configuration: a JSONC config file
// with global/project precedence, plus TOML feature flags.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tailscale/hujson"
)

// Config holds all configuration options.
type Config struct {
	// From config files (serialized)
	DataDir       string `json:"data_dir"`
	WorkflowsFile string `json:"workflows_file,omitempty"`
	FlagsFile     string `json:"flags_file,omitempty"`

	// Resolved paths (computed, not serialized)
	EffectiveCwd string `json:"-"` // Absolute working directory (from -C flag or os.Getwd)
	DataDirAbs   string `json:"-"` // Absolute path to the data directory

	// Sources tracks which config files were loaded (for diagnostics)
	Sources Sources `json:"-"`
}

// Sources tracks which config files were loaded.
type Sources struct {
	Global  string // Path to global config if loaded, empty otherwise
	Project string // Path to project config if loaded, empty otherwise
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		DataDir: ".nexuspm",
	}
}

// FileName is the default project config file name.
const FileName = ".nexuspm.json"

var (
	ErrFileNotFound = errors.New("config file not found")
	ErrFileRead     = errors.New("cannot read config file")
	ErrInvalid      = errors.New("invalid config file")
	ErrDataDirEmpty = errors.New("data_dir cannot be empty")
)

// globalPath returns the path to the global config file.
// Uses $XDG_CONFIG_HOME/nexuspm/config.json if set, otherwise
// ~/.config/nexuspm/config.json. Empty when no home can be determined.
func globalPath(env map[string]string) string {
	if xdgConfig := env["XDG_CONFIG_HOME"]; xdgConfig != "" {
		return filepath.Join(xdgConfig, "nexuspm", "config.json")
	}

	if home := env["HOME"]; home != "" {
		return filepath.Join(home, ".config", "nexuspm", "config.json")
	}

	return ""
}

// LoadInput holds the inputs for Load.
type LoadInput struct {
	WorkDir        string            // Absolute working directory
	ConfigPath     string            // -c/--config flag value; empty = default lookup
	DataDirFlag    string            // --data-dir flag value
	HasDataDirFlag bool              // whether --data-dir was passed
	Env            map[string]string // process environment
}

// Load resolves configuration with the following precedence (highest wins):
// defaults, global user config, project config (.nexuspm.json), explicit
// config file via -c, CLI overrides.
func Load(in LoadInput) (Config, error) {
	cfg := Default()

	globalCfg, globalSrc, err := loadGlobal(in.Env)
	if err != nil {
		return Config{}, err
	}

	cfg = merge(cfg, globalCfg)
	cfg.Sources.Global = globalSrc

	projectCfg, projectSrc, err := loadProject(in.WorkDir, in.ConfigPath)
	if err != nil {
		return Config{}, err
	}

	cfg = merge(cfg, projectCfg)
	cfg.Sources.Project = projectSrc

	if in.HasDataDirFlag {
		cfg.DataDir = in.DataDirFlag
	}

	if cfg.DataDir == "" {
		return Config{}, ErrDataDirEmpty
	}

	cfg.EffectiveCwd = in.WorkDir

	cfg.DataDirAbs = cfg.DataDir
	if !filepath.IsAbs(cfg.DataDirAbs) {
		cfg.DataDirAbs = filepath.Join(in.WorkDir, cfg.DataDir)
	}

	return cfg, nil
}

// WorkflowsPath resolves the configured workflow file to an absolute path.
// Empty when no workflow file is configured (built-in defaults apply).
func (c Config) WorkflowsPath() string {
	return c.resolve(c.WorkflowsFile)
}

// FlagsPath resolves the configured feature-flag file to an absolute path.
// Empty when no flags file is configured (defaults apply).
func (c Config) FlagsPath() string {
	return c.resolve(c.FlagsFile)
}

func (c Config) resolve(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}

	return filepath.Join(c.EffectiveCwd, path)
}

func loadGlobal(env map[string]string) (Config, string, error) {
	path := globalPath(env)
	if path == "" {
		return Config{}, "", nil
	}

	cfg, loaded, err := loadFile(path, false)
	if err != nil {
		return Config{}, "", err
	}

	if !loaded {
		return Config{}, "", nil
	}

	return cfg, path, nil
}

func loadProject(workDir, configPath string) (Config, string, error) {
	var (
		cfgFile   string
		mustExist bool
	)

	if configPath != "" {
		// Explicit config file - must exist
		cfgFile = configPath
		if !filepath.IsAbs(cfgFile) {
			cfgFile = filepath.Join(workDir, cfgFile)
		}

		mustExist = true

		_, statErr := os.Stat(cfgFile)
		if statErr != nil {
			return Config{}, "", fmt.Errorf("%w: %s", ErrFileNotFound, configPath)
		}
	} else {
		cfgFile = filepath.Join(workDir, FileName)
	}

	cfg, loaded, err := loadFile(cfgFile, mustExist)
	if err != nil {
		return Config{}, "", err
	}

	if !loaded {
		return Config{}, "", nil
	}

	return cfg, cfgFile, nil
}

func loadFile(path string, mustExist bool) (Config, bool, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is intentionally user-controlled
	if err != nil {
		if mustExist {
			return Config{}, false, fmt.Errorf("%w: %s", ErrFileRead, path)
		}

		return Config{}, false, nil
	}

	cfg, parseErr := parse(data)
	if parseErr != nil {
		return Config{}, false, fmt.Errorf("%w %s: %w", ErrInvalid, path, parseErr)
	}

	return cfg, true, nil
}

func parse(data []byte) (Config, error) {
	// Standardize JSONC to JSON
	standardized, err := hujson.Standardize(data)
	if err != nil {
		return Config{}, fmt.Errorf("invalid JSONC: %w", err)
	}

	var cfg Config

	unmarshalErr := json.Unmarshal(standardized, &cfg)
	if unmarshalErr != nil {
		return Config{}, fmt.Errorf("invalid JSON: %w", unmarshalErr)
	}

	return cfg, nil
}

func merge(base, overlay Config) Config {
	if overlay.DataDir != "" {
		base.DataDir = overlay.DataDir
	}

	if overlay.WorkflowsFile != "" {
		base.WorkflowsFile = overlay.WorkflowsFile
	}

	if overlay.FlagsFile != "" {
		base.FlagsFile = overlay.FlagsFile
	}

	return base
}

// Format returns the config as formatted JSON.
func Format(cfg Config) (string, error) {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to format config: %w", err)
	}

	return string(data), nil
}
