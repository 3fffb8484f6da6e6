package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// HostConfig is the per-user cyclectl configuration. Zero-valued fields in the
// file keep their defaults.
type HostConfig struct {
	Dfx         string        `yaml:"dfx"`
	Network     string        `yaml:"network"`
	Threshold   string        `yaml:"threshold"`
	Amount      string        `yaml:"amount"`
	Source      string        `yaml:"source"`
	CanisterIDs string        `yaml:"canister_ids"`
	DfxJSON     string        `yaml:"dfx_json"`
	Timeout     time.Duration `yaml:"timeout"`
	LogLevel    string        `yaml:"log_level"`
}

// Defaults mirrors a mainnet run from the project root.
func Defaults() HostConfig {
	return HostConfig{
		Dfx:         "dfx",
		Network:     "ic",
		Threshold:   "4000000000000",
		Amount:      "2000000000000",
		Source:      "status",
		CanisterIDs: "canister_ids.json",
		DfxJSON:     "dfx.json",
		LogLevel:    "info",
	}
}

// Path returns the config file location: $CYCLEKIT_CONFIG, else
// <user config dir>/cyclekit/config.yaml.
func Path() string {
	path := strings.TrimSpace(os.Getenv("CYCLEKIT_CONFIG"))
	if path == "" {
		if dir, err := os.UserConfigDir(); err == nil {
			path = filepath.Join(dir, "cyclekit", "config.yaml")
		} else if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, ".config", "cyclekit", "config.yaml")
		}
	}
	return path
}

// ReadHostConfig loads the file at path over the defaults, then applies
// environment overrides. A missing file is not an error. An empty path uses
// Path().
func ReadHostConfig(path string) (HostConfig, error) {
	cfg := Defaults()
	if strings.TrimSpace(path) == "" {
		path = Path()
	}
	if strings.TrimSpace(path) != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("parsing config %s: %w", path, err)
			}
		case os.IsNotExist(err):
		default:
			return cfg, fmt.Errorf("reading config %s: %w", path, err)
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *HostConfig) applyEnv() error {
	c.Dfx = getEnv("CYCLEKIT_DFX", c.Dfx)
	if v, ok := os.LookupEnv("CYCLEKIT_NETWORK"); ok {
		c.Network = strings.TrimSpace(v)
	}
	c.Threshold = getEnv("CYCLEKIT_THRESHOLD", c.Threshold)
	c.Amount = getEnv("CYCLEKIT_AMOUNT", c.Amount)
	c.Source = getEnv("CYCLEKIT_SOURCE", c.Source)
	c.CanisterIDs = getEnv("CYCLEKIT_CANISTER_IDS", c.CanisterIDs)
	c.DfxJSON = getEnv("CYCLEKIT_DFX_JSON", c.DfxJSON)
	c.LogLevel = getEnv("CYCLEKIT_LOG_LEVEL", c.LogLevel)
	if v := getEnv("CYCLEKIT_TIMEOUT", ""); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("CYCLEKIT_TIMEOUT: %w", err)
		}
		c.Timeout = d
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
