package driver

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/BurntSushi/toml"

	"soul/internal/diag"
	"soul/internal/trace"
)

// ConfigFileName is the file FindConfig looks for.
const ConfigFileName = "soul.toml"

// Config is the checker configuration read from soul.toml. Command-line
// flags override it.
type Config struct {
	Check CheckConfig `toml:"check"`
	Trace TraceConfig `toml:"trace"`
	Cache CacheConfig `toml:"cache"`
}

type CheckConfig struct {
	// Fatal is the lowest severity that fails a unit.
	Fatal     string `toml:"fatal"`
	MaxFaults int    `toml:"max_faults"`
	Jobs      int    `toml:"jobs"`
}

type TraceConfig struct {
	Level  string `toml:"level"`
	Mode   string `toml:"mode"`
	Format string `toml:"format"`
	Output string `toml:"output"`
}

type CacheConfig struct {
	Enabled bool   `toml:"enabled"`
	Dir     string `toml:"dir"`
}

// DefaultConfig returns the configuration used without a soul.toml.
func DefaultConfig() Config {
	return Config{
		Check: CheckConfig{Fatal: "error", MaxFaults: 0, Jobs: 0},
		Trace: TraceConfig{Level: "off", Mode: "stream", Format: "text", Output: "-"},
		Cache: CacheConfig{Enabled: false},
	}
}

// FindConfig walks up from startDir to locate soul.toml.
func FindConfig(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, ConfigFileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// LoadConfig decodes path over the defaults. Keys missing from the file
// keep their default values.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("%s: unknown key %q", path, undecoded[0].String())
	}
	if meta.IsDefined("cache", "dir") && !meta.IsDefined("cache", "enabled") {
		cfg.Cache.Enabled = true
	}
	if cfg.Cache.Dir != "" && !filepath.IsAbs(cfg.Cache.Dir) {
		cfg.Cache.Dir = filepath.Join(filepath.Dir(path), cfg.Cache.Dir)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks every enumerated value.
func (c Config) Validate() error {
	if _, err := diag.ParseSeverity(c.Check.Fatal); err != nil {
		return fmt.Errorf("[check].fatal: %w", err)
	}
	if c.Check.MaxFaults < 0 {
		return fmt.Errorf("[check].max_faults must not be negative, got %d", c.Check.MaxFaults)
	}
	if c.Check.Jobs < 0 {
		return fmt.Errorf("[check].jobs must not be negative, got %d", c.Check.Jobs)
	}
	if _, err := trace.ParseLevel(c.Trace.Level); err != nil {
		return fmt.Errorf("[trace].level: %w", err)
	}
	if _, err := trace.ParseMode(c.Trace.Mode); err != nil {
		return fmt.Errorf("[trace].mode: %w", err)
	}
	if _, err := trace.ParseFormat(c.Trace.Format); err != nil {
		return fmt.Errorf("[trace].format: %w", err)
	}
	return nil
}

// FatalSeverity returns the parsed fatal threshold.
func (c Config) FatalSeverity() diag.Severity {
	sev, err := diag.ParseSeverity(c.Check.Fatal)
	if err != nil {
		return diag.SevError
	}
	return sev
}

// JobCount resolves Jobs, defaulting to GOMAXPROCS.
func (c Config) JobCount() int {
	if c.Check.Jobs <= 0 {
		return runtime.GOMAXPROCS(0)
	}
	return c.Check.Jobs
}

// TracerConfig converts the [trace] table for trace.New.
func (c Config) TracerConfig() (trace.Config, error) {
	level, err := trace.ParseLevel(c.Trace.Level)
	if err != nil {
		return trace.Config{}, err
	}
	mode, err := trace.ParseMode(c.Trace.Mode)
	if err != nil {
		return trace.Config{}, err
	}
	format, err := trace.ParseFormat(c.Trace.Format)
	if err != nil {
		return trace.Config{}, err
	}
	return trace.Config{Level: level, Mode: mode, Format: format, OutputPath: c.Trace.Output}, nil
}
