package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"soul/internal/driver"
)

func errInvalidFlag(name, value, expected string) error {
	return fmt.Errorf("invalid --%s value %q (expected %s)", name, value, expected)
}

// loadConfig reads soul.toml (explicit or discovered) and applies the
// persistent flag overrides on top of it.
func loadConfig(cmd *cobra.Command) (driver.Config, error) {
	pf := cmd.Root().PersistentFlags()
	path, err := pf.GetString("config")
	if err != nil {
		return driver.Config{}, err
	}
	cfg := driver.DefaultConfig()
	if path == "" {
		wd, err := os.Getwd()
		if err != nil {
			return driver.Config{}, fmt.Errorf("failed to get working directory: %w", err)
		}
		found, ok, err := driver.FindConfig(wd)
		if err != nil {
			return driver.Config{}, err
		}
		if ok {
			path = found
		}
	}
	if path != "" {
		if cfg, err = driver.LoadConfig(path); err != nil {
			return driver.Config{}, err
		}
	}

	if pf.Changed("max-faults") {
		if cfg.Check.MaxFaults, err = pf.GetInt("max-faults"); err != nil {
			return driver.Config{}, err
		}
	}
	if pf.Changed("fatal") {
		if cfg.Check.Fatal, err = pf.GetString("fatal"); err != nil {
			return driver.Config{}, err
		}
	}
	if pf.Changed("trace") {
		if cfg.Trace.Output, err = pf.GetString("trace"); err != nil {
			return driver.Config{}, err
		}
		// a trace file without a level means phase tracing
		if cfg.Trace.Level == "off" && !pf.Changed("trace-level") {
			cfg.Trace.Level = "phase"
		}
	}
	if pf.Changed("trace-level") {
		if cfg.Trace.Level, err = pf.GetString("trace-level"); err != nil {
			return driver.Config{}, err
		}
	}
	if pf.Changed("trace-mode") {
		if cfg.Trace.Mode, err = pf.GetString("trace-mode"); err != nil {
			return driver.Config{}, err
		}
	}
	if pf.Changed("trace-format") {
		if cfg.Trace.Format, err = pf.GetString("trace-format"); err != nil {
			return driver.Config{}, err
		}
	}
	if err := cfg.Validate(); err != nil {
		return driver.Config{}, err
	}
	return cfg, nil
}
