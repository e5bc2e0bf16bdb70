package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"

	"tinygo.org/x/sleep"
)

// Driver names.
const (
	DriverLogind = "logind"
	DriverSim    = "sim"
)

// Config is the sleepctl configuration.
type Config struct {
	Driver         string `yaml:"driver"`
	RTC            string `yaml:"rtc"`
	Retained       string `yaml:"retained"`
	BootState      string `yaml:"boot_state"`
	ColdBootStatus int32  `yaml:"cold_boot_status"`
	Lenient        bool   `yaml:"lenient"`
	Interactive    bool   `yaml:"interactive"`
}

// Overrides holds values given on the command line. Nil fields were not set.
type Overrides struct {
	Driver         *string
	RTC            *string
	Retained       *string
	ColdBootStatus *int32
	Lenient        *bool
}

// Load resolves configuration from flags > env > config file. An empty path
// selects ~/.sleepctl/config.yaml if it exists.
func Load(path string, o Overrides) (*Config, error) {
	cfg := &Config{
		Driver:   DriverLogind,
		RTC:      sleep.DefaultRTC,
		Retained: sleep.DefaultRetainedPath,
	}

	// 1. Load config file as base
	explicit := path != ""
	if !explicit {
		path = configFilePath()
	}
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("invalid config file %s: %w", path, err)
			}
		case explicit:
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// 2. Environment variables override config file
	if v := os.Getenv("SLEEPCTL_DRIVER"); v != "" {
		cfg.Driver = v
	}
	if v := os.Getenv("SLEEPCTL_RTC"); v != "" {
		cfg.RTC = v
	}
	if v := os.Getenv("SLEEPCTL_RETAINED"); v != "" {
		cfg.Retained = v
	}
	if v := os.Getenv("SLEEPCTL_BOOT_STATE"); v != "" {
		cfg.BootState = v
	}
	if v := os.Getenv("SLEEPCTL_COLD_BOOT_STATUS"); v != "" {
		n, err := strconv.ParseInt(v, 0, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid SLEEPCTL_COLD_BOOT_STATUS: %w", err)
		}
		cfg.ColdBootStatus = int32(n)
	}
	if v := os.Getenv("SLEEPCTL_LENIENT"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("invalid SLEEPCTL_LENIENT: %w", err)
		}
		cfg.Lenient = b
	}

	// 3. CLI flags override everything
	if o.Driver != nil {
		cfg.Driver = *o.Driver
	}
	if o.RTC != nil {
		cfg.RTC = *o.RTC
	}
	if o.Retained != nil {
		cfg.Retained = *o.Retained
	}
	if o.ColdBootStatus != nil {
		cfg.ColdBootStatus = *o.ColdBootStatus
	}
	if o.Lenient != nil {
		cfg.Lenient = *o.Lenient
	}

	switch cfg.Driver {
	case DriverLogind, DriverSim:
	default:
		return nil, fmt.Errorf("unknown driver %q (want %s or %s)", cfg.Driver, DriverLogind, DriverSim)
	}
	if cfg.Driver == DriverLogind && cfg.Retained == "" {
		return nil, fmt.Errorf("retained memory path is required (--retained, SLEEPCTL_RETAINED, or config file)")
	}
	// The boot state belongs with the retained status it guards.
	if cfg.BootState == "" {
		cfg.BootState = filepath.Join(filepath.Dir(cfg.Retained), "boot.yaml")
	}

	return cfg, nil
}

// ArityMode returns the native call policy selected by the configuration.
func (c *Config) ArityMode() sleep.ArityMode {
	if c.Lenient {
		return sleep.Lenient
	}
	return sleep.Strict
}

func configFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	p := filepath.Join(home, ".sleepctl", "config.yaml")
	if _, err := os.Stat(p); err == nil {
		return p
	}
	return ""
}
