// Package cliconfig is the sdlc binary's own process-level
// configuration: which project root to operate on, how verbosely to
// log, and how long the watch loop debounces. It is
// distinct from the per-project .sdlc/config.yaml the core persists
// (see internal/config) — this is the CLI's own settings file,
// resolved the same way the teacher's specmcp.toml was: defaults,
// layered with an optional TOML file, layered with environment
// variables that always win.
package cliconfig

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Config holds the sdlc CLI's own settings. Precedence: environment
// variables > config file > defaults.
type Config struct {
	Project ProjectConfig `toml:"project"`
	Log     LogConfig     `toml:"log"`
	Watch   WatchConfig   `toml:"watch"`
}

// ProjectConfig points the CLI at a project root when one isn't given
// on the command line.
type ProjectConfig struct {
	Root string `toml:"root"`
}

// LogConfig controls the CLI's structured logging.
type LogConfig struct {
	Level  string `toml:"level"`  // debug, info, warn, error
	Format string `toml:"format"` // text or json
}

// WatchConfig controls the `sdlc watch` filesystem-watch loop.
type WatchConfig struct {
	DebounceMs int `toml:"debounce_ms"`
}

// Load builds a Config by reading an optional TOML file and
// environment variables.
//
// Config file search order (first found wins):
//  1. Path passed via the configPath parameter
//  2. SDLC_CONFIG environment variable
//  3. ./sdlc.toml (current directory)
//  4. ~/.config/sdlc/sdlc.toml (XDG-style)
//
// All fields are optional in the config file. Environment variables
// always override file values.
func Load(configPath string) (*Config, error) {
	cfg := &Config{
		Project: ProjectConfig{Root: "."},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Watch: WatchConfig{
			DebounceMs: 300,
		},
	}

	if err := cfg.loadFile(configPath); err != nil {
		return nil, err
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) loadFile(configPath string) error {
	path := resolveConfigPath(configPath)
	if path == "" {
		return nil // no config file found; rely on defaults + env
	}

	if _, err := toml.DecodeFile(path, c); err != nil {
		return fmt.Errorf("reading config file %s: %w", path, err)
	}

	return nil
}

func resolveConfigPath(explicit string) string {
	if explicit != "" {
		if _, err := os.Stat(explicit); err == nil {
			return explicit
		}
	}

	if p := os.Getenv("SDLC_CONFIG"); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	if _, err := os.Stat("sdlc.toml"); err == nil {
		return "sdlc.toml"
	}

	if home, err := os.UserHomeDir(); err == nil {
		p := home + "/.config/sdlc/sdlc.toml"
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}

func (c *Config) applyEnv() {
	envOverride("SDLC_PROJECT_ROOT", &c.Project.Root)
	envOverride("SDLC_LOG_LEVEL", &c.Log.Level)
	envOverride("SDLC_LOG_FORMAT", &c.Log.Format)

	if v := os.Getenv("SDLC_WATCH_DEBOUNCE_MS"); v != "" {
		var ms int
		if _, err := fmt.Sscanf(v, "%d", &ms); err == nil && ms > 0 {
			c.Watch.DebounceMs = ms
		}
	}
}

// Validate checks that required fields make sense.
func (c *Config) Validate() error {
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log format: %q (must be \"text\" or \"json\")", c.Log.Format)
	}
	if c.Project.Root == "" {
		return fmt.Errorf("project.root must not be empty")
	}
	return nil
}

func envOverride(key string, dst *string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}
