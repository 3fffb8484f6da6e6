package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"CYCLEKIT_DFX", "CYCLEKIT_THRESHOLD", "CYCLEKIT_AMOUNT", "CYCLEKIT_SOURCE",
		"CYCLEKIT_CANISTER_IDS", "CYCLEKIT_DFX_JSON", "CYCLEKIT_LOG_LEVEL", "CYCLEKIT_TIMEOUT",
	} {
		t.Setenv(k, "")
	}
	t.Setenv("CYCLEKIT_NETWORK", "ic")
}

func TestReadHostConfigFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	data := "network: local\nthreshold: \"10_000\"\ntimeout: 90s\ncanister_ids: ids.json\n"
	if err := os.WriteFile(cfgPath, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CYCLEKIT_CONFIG", cfgPath)
	os.Unsetenv("CYCLEKIT_NETWORK")

	cfg, err := ReadHostConfig("")
	if err != nil {
		t.Fatalf("ReadHostConfig error: %v", err)
	}
	if cfg.Network != "local" {
		t.Fatalf("network=%q", cfg.Network)
	}
	if cfg.Threshold != "10_000" {
		t.Fatalf("threshold=%q", cfg.Threshold)
	}
	if cfg.Timeout != 90*time.Second {
		t.Fatalf("timeout=%v", cfg.Timeout)
	}
	if cfg.CanisterIDs != "ids.json" {
		t.Fatalf("canister ids=%q", cfg.CanisterIDs)
	}
	if cfg.Amount != "2000000000000" || cfg.Dfx != "dfx" {
		t.Fatalf("defaults not kept: %+v", cfg)
	}
}

func TestReadHostConfigMissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := ReadHostConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("ReadHostConfig error: %v", err)
	}
	if cfg != Defaults() {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
}

func TestReadHostConfigEnvOverridesFile(t *testing.T) {
	clearEnv(t)
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(cfgPath, []byte("amount: \"1\"\nlog_level: warn\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CYCLEKIT_AMOUNT", "5")
	t.Setenv("CYCLEKIT_NETWORK", "")
	t.Setenv("CYCLEKIT_TIMEOUT", "2m")

	cfg, err := ReadHostConfig(cfgPath)
	if err != nil {
		t.Fatalf("ReadHostConfig error: %v", err)
	}
	if cfg.Amount != "5" {
		t.Fatalf("expected env amount, got %q", cfg.Amount)
	}
	if cfg.LogLevel != "warn" {
		t.Fatalf("expected file log level, got %q", cfg.LogLevel)
	}
	if cfg.Network != "" {
		t.Fatalf("expected empty network from env, got %q", cfg.Network)
	}
	if cfg.Timeout != 2*time.Minute {
		t.Fatalf("timeout=%v", cfg.Timeout)
	}
}

func TestReadHostConfigBadInput(t *testing.T) {
	clearEnv(t)
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(cfgPath, []byte("network: [\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadHostConfig(cfgPath); err == nil {
		t.Fatal("expected parse error")
	}

	t.Setenv("CYCLEKIT_TIMEOUT", "soon")
	if _, err := ReadHostConfig(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected timeout parse error")
	}
}
