package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/joshuacasinadaptica/NexusPM/internal/config"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Parallel()

	workDir := t.TempDir()

	cfg, err := config.Load(config.LoadInput{WorkDir: workDir, Env: map[string]string{}})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.DataDir != ".nexuspm" {
		t.Errorf("DataDir = %q, want .nexuspm", cfg.DataDir)
	}

	want := filepath.Join(workDir, ".nexuspm")
	if cfg.DataDirAbs != want {
		t.Errorf("DataDirAbs = %q, want %q", cfg.DataDirAbs, want)
	}

	if cfg.Sources.Global != "" || cfg.Sources.Project != "" {
		t.Errorf("Sources = %+v, want empty", cfg.Sources)
	}
}

func TestLoadProjectConfig(t *testing.T) {
	t.Parallel()

	workDir := t.TempDir()
	writeFile(t, filepath.Join(workDir, config.FileName), `{
		// project-local settings
		"data_dir": "data",
		"workflows_file": "workflows.json",
	}`)

	cfg, err := config.Load(config.LoadInput{WorkDir: workDir, Env: map[string]string{}})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.DataDir != "data" {
		t.Errorf("DataDir = %q, want data", cfg.DataDir)
	}

	wantWf := filepath.Join(workDir, "workflows.json")
	if got := cfg.WorkflowsPath(); got != wantWf {
		t.Errorf("WorkflowsPath() = %q, want %q", got, wantWf)
	}

	if cfg.Sources.Project == "" {
		t.Error("Sources.Project should record the loaded file")
	}
}

func TestLoadGlobalThenProjectPrecedence(t *testing.T) {
	t.Parallel()

	workDir := t.TempDir()
	home := t.TempDir()

	writeFile(t, filepath.Join(home, ".config", "nexuspm", "config.json"),
		`{"data_dir": "global-data", "flags_file": "flags.toml"}`)
	writeFile(t, filepath.Join(workDir, config.FileName),
		`{"data_dir": "project-data"}`)

	cfg, err := config.Load(config.LoadInput{
		WorkDir: workDir,
		Env:     map[string]string{"HOME": home},
	})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	// Project wins for data_dir; global's flags_file survives untouched.
	if cfg.DataDir != "project-data" {
		t.Errorf("DataDir = %q, want project-data", cfg.DataDir)
	}

	if cfg.FlagsFile != "flags.toml" {
		t.Errorf("FlagsFile = %q, want flags.toml", cfg.FlagsFile)
	}

	if cfg.Sources.Global == "" {
		t.Error("Sources.Global should record the loaded file")
	}
}

func TestLoadXDGConfigHomeWins(t *testing.T) {
	t.Parallel()

	workDir := t.TempDir()
	home := t.TempDir()
	xdg := t.TempDir()

	writeFile(t, filepath.Join(home, ".config", "nexuspm", "config.json"),
		`{"data_dir": "home-data"}`)
	writeFile(t, filepath.Join(xdg, "nexuspm", "config.json"),
		`{"data_dir": "xdg-data"}`)

	cfg, err := config.Load(config.LoadInput{
		WorkDir: workDir,
		Env:     map[string]string{"HOME": home, "XDG_CONFIG_HOME": xdg},
	})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.DataDir != "xdg-data" {
		t.Errorf("DataDir = %q, want xdg-data", cfg.DataDir)
	}
}

func TestLoadExplicitConfigFile(t *testing.T) {
	t.Parallel()

	workDir := t.TempDir()
	writeFile(t, filepath.Join(workDir, "custom.json"), `{"data_dir": "custom-data"}`)
	writeFile(t, filepath.Join(workDir, config.FileName), `{"data_dir": "default-data"}`)

	cfg, err := config.Load(config.LoadInput{
		WorkDir:    workDir,
		ConfigPath: "custom.json",
		Env:        map[string]string{},
	})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.DataDir != "custom-data" {
		t.Errorf("DataDir = %q, want custom-data", cfg.DataDir)
	}
}

func TestLoadExplicitConfigFileMustExist(t *testing.T) {
	t.Parallel()

	_, err := config.Load(config.LoadInput{
		WorkDir:    t.TempDir(),
		ConfigPath: "missing.json",
		Env:        map[string]string{},
	})
	if !errors.Is(err, config.ErrFileNotFound) {
		t.Fatalf("Load() error = %v, want ErrFileNotFound", err)
	}
}

func TestLoadDataDirFlagWins(t *testing.T) {
	t.Parallel()

	workDir := t.TempDir()
	writeFile(t, filepath.Join(workDir, config.FileName), `{"data_dir": "project-data"}`)

	cfg, err := config.Load(config.LoadInput{
		WorkDir:        workDir,
		DataDirFlag:    "flag-data",
		HasDataDirFlag: true,
		Env:            map[string]string{},
	})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.DataDir != "flag-data" {
		t.Errorf("DataDir = %q, want flag-data", cfg.DataDir)
	}
}

func TestLoadEmptyDataDirRejected(t *testing.T) {
	t.Parallel()

	_, err := config.Load(config.LoadInput{
		WorkDir:        t.TempDir(),
		DataDirFlag:    "",
		HasDataDirFlag: true,
		Env:            map[string]string{},
	})
	if !errors.Is(err, config.ErrDataDirEmpty) {
		t.Fatalf("Load() error = %v, want ErrDataDirEmpty", err)
	}
}

func TestLoadInvalidJSON(t *testing.T) {
	t.Parallel()

	workDir := t.TempDir()
	writeFile(t, filepath.Join(workDir, config.FileName), `{"data_dir": `)

	_, err := config.Load(config.LoadInput{WorkDir: workDir, Env: map[string]string{}})
	if !errors.Is(err, config.ErrInvalid) {
		t.Fatalf("Load() error = %v, want ErrInvalid", err)
	}
}

func TestFormatOmitsComputedFields(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	cfg.EffectiveCwd = "/somewhere"
	cfg.DataDirAbs = "/somewhere/.nexuspm"

	out, err := config.Format(cfg)
	if err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	if want := `"data_dir": ".nexuspm"`; !strings.Contains(out, want) {
		t.Errorf("Format() = %s, want it to contain %s", out, want)
	}

	if strings.Contains(out, "/somewhere") {
		t.Errorf("Format() = %s, computed paths should not serialize", out)
	}
}
