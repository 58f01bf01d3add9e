// Package milestone implements the Milestone aggregate: a named,
// ordered list of feature slugs tracked toward a shared release. A
// milestone only orders features — the dependency and wave planning
// that schedules them lives in the prepare package.
package milestone

import (
	"fmt"
	"os"
	"time"

	"github.com/sdlcstack/sdlc/internal/atomicio"
	"github.com/sdlcstack/sdlc/internal/paths"
	"github.com/sdlcstack/sdlc/internal/sdlcerr"
	"gopkg.in/yaml.v3"
)

// Status is a milestone's lifecycle position.
type Status int

const (
	StatusActive Status = iota
	StatusComplete
	StatusCancelled
)

func (s Status) String() string {
	switch s {
	case StatusComplete:
		return "complete"
	case StatusCancelled:
		return "cancelled"
	default:
		return "active"
	}
}

// ParseStatus parses the snake_case wire representation.
func ParseStatus(s string) (Status, error) {
	switch s {
	case "active":
		return StatusActive, nil
	case "complete":
		return StatusComplete, nil
	case "cancelled":
		return StatusCancelled, nil
	default:
		return 0, sdlcerr.Wrapf(sdlcerr.ErrInvalidSlug, "unknown milestone status %q", s)
	}
}

func (s Status) MarshalYAML() (interface{}, error) { return s.String(), nil }

func (s *Status) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := ParseStatus(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Milestone is an ordered collection of feature slugs tracked as one
// release unit.
type Milestone struct {
	Slug        string     `yaml:"slug" json:"slug"`
	Title       string     `yaml:"title" json:"title"`
	Status      Status     `yaml:"status" json:"status"`
	Features    []string   `yaml:"features" json:"features"`
	CreatedAt   time.Time  `yaml:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `yaml:"updated_at" json:"updated_at"`
	CompletedAt *time.Time `yaml:"completed_at,omitempty" json:"completed_at,omitempty"`
	CancelledAt *time.Time `yaml:"cancelled_at,omitempty" json:"cancelled_at,omitempty"`
}

// New constructs an empty, active Milestone.
func New(slug, title string) Milestone {
	now := time.Now().UTC()
	return Milestone{
		Slug:      slug,
		Title:     title,
		Status:    StatusActive,
		Features:  []string{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Create validates slug, refuses a collision, and persists a new
// Milestone.
func Create(root, slug, title string) (Milestone, error) {
	if err := paths.ValidateSlug(slug); err != nil {
		return Milestone{}, err
	}
	if _, err := os.Stat(paths.MilestoneDir(root, slug)); err == nil {
		return Milestone{}, sdlcerr.Wrapf(sdlcerr.ErrMilestoneExists, "%q", slug)
	}

	m := New(slug, title)
	if err := m.Save(root); err != nil {
		return Milestone{}, err
	}
	return m, nil
}

// Load reads a milestone's manifest.yaml.
func Load(root, slug string) (Milestone, error) {
	path := paths.MilestoneManifest(root, slug)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Milestone{}, sdlcerr.Wrapf(sdlcerr.ErrMilestoneNotFound, "%q", slug)
		}
		return Milestone{}, &sdlcerr.IOError{Op: "read", Path: path, Err: err}
	}
	var m Milestone
	if err := yaml.Unmarshal(data, &m); err != nil {
		return Milestone{}, &sdlcerr.SerdeError{Path: path, Err: err}
	}
	return m, nil
}

// Save persists m to its manifest.yaml, atomically.
func (m *Milestone) Save(root string) error {
	m.UpdatedAt = time.Now().UTC()
	path := paths.MilestoneManifest(root, m.Slug)
	data, err := yaml.Marshal(m)
	if err != nil {
		return &sdlcerr.SerdeError{Path: path, Err: err}
	}
	return atomicio.WriteFile(path, data, 0o644)
}

// List returns every milestone under .sdlc/milestones, sorted by
// CreatedAt.
func List(root string) ([]Milestone, error) {
	dir := paths.MilestonesDirPath(root)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, &sdlcerr.IOError{Op: "readdir", Path: dir, Err: err}
	}

	var out []Milestone
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		m, err := Load(root, e.Name())
		if err != nil {
			continue
		}
		out = append(out, m)
	}

	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j].CreatedAt.Before(out[j-1].CreatedAt); j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out, nil
}

func (m *Milestone) indexOf(slug string) int {
	for i, s := range m.Features {
		if s == slug {
			return i
		}
	}
	return -1
}

// AddFeature appends slug if not already present, reporting whether it
// was added.
func (m *Milestone) AddFeature(slug string) bool {
	if m.indexOf(slug) >= 0 {
		return false
	}
	m.Features = append(m.Features, slug)
	return true
}

// AddFeatureAt inserts slug at position pos (clamped to the list
// bounds) if not already present, reporting whether it was added.
func (m *Milestone) AddFeatureAt(slug string, pos int) bool {
	if m.indexOf(slug) >= 0 {
		return false
	}
	if pos < 0 {
		pos = 0
	}
	if pos > len(m.Features) {
		pos = len(m.Features)
	}
	m.Features = append(m.Features, "")
	copy(m.Features[pos+1:], m.Features[pos:])
	m.Features[pos] = slug
	return true
}

// RemoveFeature removes slug, reporting whether it was present.
func (m *Milestone) RemoveFeature(slug string) bool {
	i := m.indexOf(slug)
	if i < 0 {
		return false
	}
	m.Features = append(m.Features[:i], m.Features[i+1:]...)
	return true
}

// ReorderFeatures replaces the feature order with order, requiring it
// to be a permutation of the existing set.
func (m *Milestone) ReorderFeatures(order []string) error {
	if len(order) != len(m.Features) {
		return fmt.Errorf("reorder must list exactly the %d feature(s) already in the milestone", len(m.Features))
	}
	seen := make(map[string]bool, len(order))
	for _, s := range order {
		if m.indexOf(s) < 0 {
			return fmt.Errorf("feature %q is not in this milestone", s)
		}
		if seen[s] {
			return fmt.Errorf("feature %q listed more than once", s)
		}
		seen[s] = true
	}
	m.Features = append([]string(nil), order...)
	return nil
}

// Complete marks the milestone StatusComplete.
func (m *Milestone) Complete() {
	now := time.Now().UTC()
	m.Status = StatusComplete
	m.CompletedAt = &now
}

// Cancel marks the milestone StatusCancelled.
func (m *Milestone) Cancel() {
	now := time.Now().UTC()
	m.Status = StatusCancelled
	m.CancelledAt = &now
}

// UpdateTitle changes the milestone's title.
func (m *Milestone) UpdateTitle(title string) {
	m.Title = title
}
