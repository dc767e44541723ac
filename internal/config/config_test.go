package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fdprog.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Interval != 2*time.Second {
		t.Fatalf("expected default interval 2s, got %v", cfg.Interval)
	}
	if cfg.Verbose {
		t.Fatal("expected verbose off by default")
	}
}

func TestLoadFromFile(t *testing.T) {
	path := writeConfig(t, `
interval: 500ms
verbose: true
commands: [cp, dd]
pids: [100, 200]
ignore: ["/proc", "/sys"]
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Interval != 500*time.Millisecond {
		t.Fatalf("expected 500ms interval, got %v", cfg.Interval)
	}
	if !cfg.Verbose {
		t.Fatal("expected verbose on")
	}
	if len(cfg.Commands) != 2 || cfg.Commands[0] != "cp" {
		t.Fatalf("unexpected commands: %v", cfg.Commands)
	}
	if len(cfg.PIDs) != 2 || cfg.PIDs[1] != 200 {
		t.Fatalf("unexpected pids: %v", cfg.PIDs)
	}
	if len(cfg.Ignore) != 2 {
		t.Fatalf("unexpected ignore prefixes: %v", cfg.Ignore)
	}
}

func TestLoadRejectsBadInterval(t *testing.T) {
	path := writeConfig(t, "interval: -1s\n")
	if _, err := Load(path); err == nil {
		t.Fatal("expected an error for a non-positive interval")
	}
	path = writeConfig(t, "interval: soon\n")
	if _, err := Load(path); err == nil {
		t.Fatal("expected an error for an unparseable interval")
	}
}

func TestLoadRejectsBadPID(t *testing.T) {
	path := writeConfig(t, "pids: [0]\n")
	if _, err := Load(path); err == nil {
		t.Fatal("expected an error for pid 0")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected an error for a missing config file")
	}
}

func TestEnvOverrides(t *testing.T) {
	path := writeConfig(t, "interval: 10s\n")
	t.Setenv(envInterval, "250ms")
	t.Setenv(envVerbose, "1")

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Interval != 250*time.Millisecond {
		t.Fatalf("expected env to win over file, got %v", cfg.Interval)
	}
	if !cfg.Verbose {
		t.Fatal("expected verbose from env")
	}
}

func TestInvalidEnvKeepsPrevious(t *testing.T) {
	path := writeConfig(t, "interval: 10s\n")
	t.Setenv(envInterval, "whenever")

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Interval != 10*time.Second {
		t.Fatalf("expected the file value to survive a bad env override, got %v", cfg.Interval)
	}
}
