// Package config persists the project-level .sdlc/config.yaml: which
// phases are enabled, which artifacts gate entry into each, quality
// thresholds, the optional dev-platform command catalog, and the gate
// definitions the classifier attaches to each action.
package config

import (
	"os"

	"github.com/sdlcstack/sdlc/internal/atomicio"
	"github.com/sdlcstack/sdlc/internal/gate"
	"github.com/sdlcstack/sdlc/internal/paths"
	"github.com/sdlcstack/sdlc/internal/sdlcerr"
	"github.com/sdlcstack/sdlc/internal/taxonomy"
	"gopkg.in/yaml.v3"
)

// WarnLevel grades a config validation warning.
type WarnLevel int

const (
	WarnLevelWarning WarnLevel = iota
	WarnLevelError
)

func (l WarnLevel) String() string {
	if l == WarnLevelError {
		return "error"
	}
	return "warning"
}

// Warning is one finding from Config.Validate.
type Warning struct {
	Level   WarnLevel
	Message string
}

// QualityConfig holds the score thresholds the prepare/classifier
// layers consult when quality-gating a phase transition.
type QualityConfig struct {
	MinScoreToAdvance int  `yaml:"min_score_to_advance"`
	MinScoreToRelease int  `yaml:"min_score_to_release"`
	RequireAllLenses  bool `yaml:"require_all_lenses"`
}

// DefaultQualityConfig mirrors the core's built-in defaults.
func DefaultQualityConfig() QualityConfig {
	return QualityConfig{
		MinScoreToAdvance: 70,
		MinScoreToRelease: 80,
		RequireAllLenses:  true,
	}
}

// PhaseConfig controls which phases are enabled and which artifacts
// must be satisfied before a feature may enter each phase.
type PhaseConfig struct {
	Enabled           []taxonomy.Phase                    `yaml:"enabled"`
	RequiredArtifacts map[string][]taxonomy.ArtifactType `yaml:"required_artifacts"`
}

// DefaultRequiredArtifacts mirrors the core's phase-entry table.
func DefaultRequiredArtifacts() map[string][]taxonomy.ArtifactType {
	return map[string][]taxonomy.ArtifactType{
		"specified": {taxonomy.Spec},
		"planned":   {taxonomy.Spec, taxonomy.Design, taxonomy.Tasks, taxonomy.QaPlan},
		"review":    {taxonomy.ArtifactReview},
		// audit requires an approved review to enter
		"audit": {taxonomy.ArtifactReview},
		// qa requires an approved audit to enter
		"qa": {taxonomy.ArtifactAudit},
		// merge requires approved qa_results to enter
		"merge": {taxonomy.QaResults},
	}
}

// DefaultPhaseConfig mirrors the core's built-in defaults: every phase
// enabled, the standard required-artifact table.
func DefaultPhaseConfig() PhaseConfig {
	return PhaseConfig{
		Enabled:           taxonomy.AllPhases(),
		RequiredArtifacts: DefaultRequiredArtifacts(),
	}
}

// IsEnabled reports whether phase is in the enabled set.
func (c PhaseConfig) IsEnabled(phase taxonomy.Phase) bool {
	for _, p := range c.Enabled {
		if p == phase {
			return true
		}
	}
	return false
}

// RequiredFor returns the artifacts that must be satisfied to enter phase.
func (c PhaseConfig) RequiredFor(phase taxonomy.Phase) []taxonomy.ArtifactType {
	return c.RequiredArtifacts[phase.String()]
}

// PlatformArg is one named argument to a dev-platform command.
type PlatformArg struct {
	Name     string   `yaml:"name"`
	Required bool     `yaml:"required,omitempty"`
	Choices  []string `yaml:"choices,omitempty"`
}

// PlatformCommand is one entry in the project's dev-platform catalog
// (e.g. "deploy", "start") — a script the project owner has wired up
// for an external collaborator to invoke on the project's behalf.
type PlatformCommand struct {
	Description string            `yaml:"description"`
	Script      string            `yaml:"script,omitempty"`
	Args        []PlatformArg     `yaml:"args,omitempty"`
	Subcommands map[string]string `yaml:"subcommands,omitempty"`
}

// PlatformConfig is the project's dev-platform command catalog.
type PlatformConfig struct {
	Commands map[string]PlatformCommand `yaml:"commands,omitempty"`
}

// ProjectConfig names the project itself.
type ProjectConfig struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
}

// Config is the top-level .sdlc/config.yaml document.
type Config struct {
	Version     int                          `yaml:"version"`
	Project     ProjectConfig                `yaml:"project"`
	Phases      PhaseConfig                  `yaml:"phases"`
	Platform    *PlatformConfig              `yaml:"platform,omitempty"`
	Quality     *QualityConfig               `yaml:"quality,omitempty"`
	SdlcVersion string                       `yaml:"sdlc_version,omitempty"`
	AppPort     int                          `yaml:"app_port,omitempty"`
	Gates       map[string][]gate.Definition `yaml:"gates,omitempty"`
}

// New builds a fresh Config with the project name set and every other
// field at its default.
func New(projectName string) Config {
	return Config{
		Version: 1,
		Project: ProjectConfig{Name: projectName},
		Phases:  DefaultPhaseConfig(),
	}
}

// Load reads and parses .sdlc/config.yaml under root. Returns
// sdlcerr.ErrNotInitialized if the file does not exist.
func Load(root string) (Config, error) {
	path := paths.ConfigPath(root)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, sdlcerr.ErrNotInitialized
		}
		return Config{}, &sdlcerr.IOError{Op: "read", Path: path, Err: err}
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, &sdlcerr.SerdeError{Path: path, Err: err}
	}
	return cfg, nil
}

// Save writes c to .sdlc/config.yaml under root, atomically.
func (c Config) Save(root string) error {
	path := paths.ConfigPath(root)
	data, err := yaml.Marshal(c)
	if err != nil {
		return &sdlcerr.SerdeError{Path: path, Err: err}
	}
	return atomicio.WriteFile(path, data, 0o644)
}

// Validate reports configuration warnings. The core's check set is
// currently empty — every shape is valid by construction — but the
// hook exists so collaborators have a single place to plug project
// linting in without changing the Config shape.
func (c Config) Validate() []Warning {
	return nil
}

// QualityOrDefault returns the configured QualityConfig, or the
// built-in default when none was set.
func (c Config) QualityOrDefault() QualityConfig {
	if c.Quality != nil {
		return *c.Quality
	}
	return DefaultQualityConfig()
}

// GatesFor returns the gate definitions attached to an action, or nil
// if none are configured.
func (c Config) GatesFor(action taxonomy.ActionType) []gate.Definition {
	if c.Gates == nil {
		return nil
	}
	return c.Gates[action.String()]
}
