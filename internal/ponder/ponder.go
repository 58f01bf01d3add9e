// Package ponder tracks investigation workspaces in the minimal shape
// project_phase() needs: a slug, a title, a status, and timestamps. The
// richer session/workspace machinery (orientation notes, session
// files, per-session artifacts) belongs to an external investigation
// collaborator and is out of scope here — this package only needs to
// answer "is anything still being actively pondered?"
package ponder

import (
	"fmt"
	"os"
	"time"

	"github.com/sdlcstack/sdlc/internal/atomicio"
	"github.com/sdlcstack/sdlc/internal/paths"
	"github.com/sdlcstack/sdlc/internal/sdlcerr"
	"gopkg.in/yaml.v3"
)

// Status is a ponder's position in its own small lifecycle.
type Status int

const (
	Exploring Status = iota
	Converging
	Committed
	Parked
)

func (s Status) String() string {
	switch s {
	case Exploring:
		return "exploring"
	case Converging:
		return "converging"
	case Committed:
		return "committed"
	case Parked:
		return "parked"
	default:
		return fmt.Sprintf("ponder_status(%d)", int(s))
	}
}

// ParseStatus parses the snake_case wire representation.
func ParseStatus(s string) (Status, error) {
	switch s {
	case "exploring":
		return Exploring, nil
	case "converging":
		return Converging, nil
	case "committed":
		return Committed, nil
	case "parked":
		return Parked, nil
	default:
		return 0, sdlcerr.Wrapf(sdlcerr.ErrInvalidInvestigationKind, "%q", s)
	}
}

func (s Status) MarshalYAML() (interface{}, error) {
	return s.String(), nil
}

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

// IsTerminal reports whether the ponder is done influencing project
// phase inference: Committed or Parked.
func (s Status) IsTerminal() bool {
	return s == Committed || s == Parked
}

// Entry is one investigation workspace's index record.
type Entry struct {
	Slug        string     `yaml:"slug" json:"slug"`
	Title       string     `yaml:"title" json:"title"`
	Status      Status     `yaml:"status" json:"status"`
	CreatedAt   time.Time  `yaml:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `yaml:"updated_at" json:"updated_at"`
	CommittedAt *time.Time `yaml:"committed_at,omitempty" json:"committed_at,omitempty"`
	CommittedTo []string   `yaml:"committed_to,omitempty" json:"committed_to,omitempty"`
	Tags        []string   `yaml:"tags,omitempty" json:"tags,omitempty"`
}

// New constructs a ponder entry in Exploring status.
func New(slug, title string) Entry {
	now := time.Now().UTC()
	return Entry{
		Slug:      slug,
		Title:     title,
		Status:    Exploring,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func pondersIndexPath(root string) string {
	return paths.Root(root) + "/ponders.yaml"
}

// list is the on-disk shape of ponders.yaml: a flat list of entries.
type list struct {
	Entries []Entry `yaml:"entries"`
}

// LoadAll reads every tracked ponder entry.
func LoadAll(root string) ([]Entry, error) {
	path := pondersIndexPath(root)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, &sdlcerr.IOError{Op: "read", Path: path, Err: err}
	}
	var l list
	if err := yaml.Unmarshal(data, &l); err != nil {
		return nil, &sdlcerr.SerdeError{Path: path, Err: err}
	}
	return l.Entries, nil
}

// SaveAll persists the full ponder list atomically.
func SaveAll(root string, entries []Entry) error {
	path := pondersIndexPath(root)
	data, err := yaml.Marshal(list{Entries: entries})
	if err != nil {
		return &sdlcerr.SerdeError{Path: path, Err: err}
	}
	return atomicio.WriteFile(path, data, 0o644)
}

// Create appends a new ponder entry, failing if slug is already used.
func Create(root, slug, title string) (Entry, error) {
	if err := paths.ValidateSlug(slug); err != nil {
		return Entry{}, err
	}

	entries, err := LoadAll(root)
	if err != nil {
		return Entry{}, err
	}
	for _, e := range entries {
		if e.Slug == slug {
			return Entry{}, sdlcerr.Wrapf(sdlcerr.ErrPonderExists, "%q", slug)
		}
	}

	entry := New(slug, title)
	entries = append(entries, entry)
	if err := SaveAll(root, entries); err != nil {
		return Entry{}, err
	}
	return entry, nil
}

// List returns every tracked ponder.
func List(root string) ([]Entry, error) {
	return LoadAll(root)
}

// ActiveCount returns how many ponders are still in a non-terminal
// status — the count project_phase() consults to decide whether the
// project is still in its Pondering phase.
func ActiveCount(entries []Entry) int {
	count := 0
	for _, e := range entries {
		if !e.Status.IsTerminal() {
			count++
		}
	}
	return count
}
