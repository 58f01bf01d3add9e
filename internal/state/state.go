// Package state persists the project-level .sdlc/state.yaml: a cached
// index of active features, milestones, and ponders, kept current by
// the commands that call its Add/Remove helpers. It exists so
// collaborators have a single cheap read instead of a full directory
// walk on every invocation; prepare.CurrentProjectPhase, for one, takes
// its list of milestones from here.
package state

import (
	"os"

	"github.com/sdlcstack/sdlc/internal/atomicio"
	"github.com/sdlcstack/sdlc/internal/paths"
	"github.com/sdlcstack/sdlc/internal/sdlcerr"
	"gopkg.in/yaml.v3"
)

// State is the .sdlc/state.yaml document.
type State struct {
	Project        string   `yaml:"project"`
	ActiveFeatures []string `yaml:"active_features"`
	Milestones     []string `yaml:"milestones"`
	ActivePonders  []string `yaml:"active_ponders"`
	Blocked        []string `yaml:"blocked,omitempty"`
}

// New builds an empty State for a freshly initialized project.
func New(project string) State {
	return State{
		Project:        project,
		ActiveFeatures: []string{},
		Milestones:     []string{},
		ActivePonders:  []string{},
	}
}

// Load reads and parses .sdlc/state.yaml under root. Returns
// sdlcerr.ErrNotInitialized if the file does not exist.
func Load(root string) (State, error) {
	path := paths.StatePath(root)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return State{}, sdlcerr.ErrNotInitialized
		}
		return State{}, &sdlcerr.IOError{Op: "read", Path: path, Err: err}
	}
	var s State
	if err := yaml.Unmarshal(data, &s); err != nil {
		return State{}, &sdlcerr.SerdeError{Path: path, Err: err}
	}
	return s, nil
}

// Save writes s to .sdlc/state.yaml under root, atomically.
func (s State) Save(root string) error {
	path := paths.StatePath(root)
	data, err := yaml.Marshal(s)
	if err != nil {
		return &sdlcerr.SerdeError{Path: path, Err: err}
	}
	return atomicio.WriteFile(path, data, 0o644)
}

// AddActiveFeature records slug as active, if not already present.
func (s *State) AddActiveFeature(slug string) {
	for _, f := range s.ActiveFeatures {
		if f == slug {
			return
		}
	}
	s.ActiveFeatures = append(s.ActiveFeatures, slug)
}

// RemoveActiveFeature drops slug from the active set, if present.
func (s *State) RemoveActiveFeature(slug string) {
	out := s.ActiveFeatures[:0]
	for _, f := range s.ActiveFeatures {
		if f != slug {
			out = append(out, f)
		}
	}
	s.ActiveFeatures = out
}

// AddMilestone records slug as a tracked milestone, if not already present.
func (s *State) AddMilestone(slug string) {
	for _, m := range s.Milestones {
		if m == slug {
			return
		}
	}
	s.Milestones = append(s.Milestones, slug)
}

// AddActivePonder records slug as an active ponder, if not already present.
func (s *State) AddActivePonder(slug string) {
	for _, p := range s.ActivePonders {
		if p == slug {
			return
		}
	}
	s.ActivePonders = append(s.ActivePonders, slug)
}

// RemoveActivePonder drops slug from the active-ponder set, if present.
func (s *State) RemoveActivePonder(slug string) {
	out := s.ActivePonders[:0]
	for _, p := range s.ActivePonders {
		if p != slug {
			out = append(out, p)
		}
	}
	s.ActivePonders = out
}
