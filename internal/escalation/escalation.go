// Package escalation implements the human escalation queue: typed
// requests that only a human can action (a secret, a product
// question, a vision call, a manual test). IDs are sequential:
// E1, E2, E3, … When created with a source feature, a Blocker comment
// is automatically added to that feature so the classifier's
// wait_for_approval gate engages; resolving the escalation removes
// that comment and leaves an Fyi note behind for whoever resumes work.
package escalation

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/sdlcstack/sdlc/internal/atomicio"
	"github.com/sdlcstack/sdlc/internal/comment"
	"github.com/sdlcstack/sdlc/internal/feature"
	"github.com/sdlcstack/sdlc/internal/paths"
	"github.com/sdlcstack/sdlc/internal/sdlcerr"
	"github.com/sdlcstack/sdlc/internal/taxonomy"
	"gopkg.in/yaml.v3"
)

// Kind names what a human is being asked to do.
type Kind int

const (
	KindSecretRequest Kind = iota
	KindQuestion
	KindVision
	KindManualTest
)

func (k Kind) String() string {
	switch k {
	case KindSecretRequest:
		return "secret_request"
	case KindQuestion:
		return "question"
	case KindVision:
		return "vision"
	case KindManualTest:
		return "manual_test"
	default:
		return fmt.Sprintf("escalation_kind(%d)", int(k))
	}
}

// ParseKind parses the snake_case wire representation.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "secret_request":
		return KindSecretRequest, nil
	case "question":
		return KindQuestion, nil
	case "vision":
		return KindVision, nil
	case "manual_test":
		return KindManualTest, nil
	default:
		return 0, sdlcerr.Wrapf(sdlcerr.ErrInvalidInvestigationKind, "unknown escalation kind %q: must be secret_request, question, vision, or manual_test", s)
	}
}

func (k Kind) MarshalYAML() (interface{}, error) { return k.String(), nil }

func (k *Kind) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := ParseKind(raw)
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Status is Open until a human resolves the escalation.
type Status int

const (
	StatusOpen Status = iota
	StatusResolved
)

func (s Status) String() string {
	if s == StatusResolved {
		return "resolved"
	}
	return "open"
}

func (s Status) MarshalYAML() (interface{}, error) { return s.String(), nil }

func (s *Status) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	if raw == "resolved" {
		*s = StatusResolved
	} else {
		*s = StatusOpen
	}
	return nil
}

// Item is one escalation record.
type Item struct {
	ID              string     `yaml:"id" json:"id"`
	Kind            Kind       `yaml:"kind" json:"kind"`
	Title           string     `yaml:"title" json:"title"`
	Context         string     `yaml:"context" json:"context"`
	SourceFeature   string     `yaml:"source_feature,omitempty" json:"source_feature,omitempty"`
	LinkedCommentID string     `yaml:"linked_comment_id,omitempty" json:"linked_comment_id,omitempty"`
	Status          Status     `yaml:"status" json:"status"`
	CreatedAt       time.Time  `yaml:"created_at" json:"created_at"`
	ResolvedAt      *time.Time `yaml:"resolved_at,omitempty" json:"resolved_at,omitempty"`
	Resolution      string     `yaml:"resolution,omitempty" json:"resolution,omitempty"`
}

func loadAll(root string) ([]Item, error) {
	path := paths.EscalationPath(root)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, &sdlcerr.IOError{Op: "read", Path: path, Err: err}
	}
	if len(data) == 0 {
		return nil, nil
	}
	var items []Item
	if err := yaml.Unmarshal(data, &items); err != nil {
		return nil, &sdlcerr.SerdeError{Path: path, Err: err}
	}
	return items, nil
}

func saveAll(root string, items []Item) error {
	path := paths.EscalationPath(root)
	data, err := yaml.Marshal(items)
	if err != nil {
		return &sdlcerr.SerdeError{Path: path, Err: err}
	}
	return atomicio.WriteFile(path, data, 0o644)
}

func nextID(items []Item) string {
	return fmt.Sprintf("E%d", len(items)+1)
}

// Create appends a new open escalation. If sourceFeature is non-empty,
// a Blocker comment naming the escalation is added to that feature and
// saved immediately.
func Create(root string, kind Kind, title, context, sourceFeature string) (Item, error) {
	items, err := loadAll(root)
	if err != nil {
		return Item{}, err
	}
	id := nextID(items)

	var linkedCommentID string
	if sourceFeature != "" {
		f, err := feature.Load(root, sourceFeature)
		if err != nil {
			return Item{}, err
		}
		body := fmt.Sprintf("[Escalation %s] %s", id, title)
		linkedCommentID = f.AddComment(body, taxonomy.FlagBlocker, comment.FeatureTarget(), "sdlc")
		if err := f.Save(root); err != nil {
			return Item{}, err
		}
	}

	item := Item{
		ID:              id,
		Kind:            kind,
		Title:           title,
		Context:         context,
		SourceFeature:   sourceFeature,
		LinkedCommentID: linkedCommentID,
		Status:          StatusOpen,
		CreatedAt:       time.Now().UTC(),
	}

	items = append(items, item)
	if err := saveAll(root, items); err != nil {
		return Item{}, err
	}
	return item, nil
}

// StatusFilter selects which escalations List returns.
type StatusFilter int

const (
	FilterOpen StatusFilter = iota
	FilterResolved
	FilterAll
)

// List returns escalations matching filter.
func List(root string, filter StatusFilter) ([]Item, error) {
	items, err := loadAll(root)
	if err != nil {
		return nil, err
	}
	if filter == FilterAll {
		return items, nil
	}
	want := StatusOpen
	if filter == FilterResolved {
		want = StatusResolved
	}
	var out []Item
	for _, it := range items {
		if it.Status == want {
			out = append(out, it)
		}
	}
	return out, nil
}

// Get returns a single escalation by ID.
func Get(root, id string) (Item, error) {
	items, err := loadAll(root)
	if err != nil {
		return Item{}, err
	}
	for _, it := range items {
		if it.ID == id {
			return it, nil
		}
	}
	return Item{}, sdlcerr.Wrapf(sdlcerr.ErrEscalationNotFound, "%q", id)
}

// Resolve marks an escalation resolved, removes its linked blocker
// comment from the source feature (if any), and leaves an Fyi comment
// behind with the resolution text.
func Resolve(root, id, resolution string) (Item, error) {
	items, err := loadAll(root)
	if err != nil {
		return Item{}, err
	}

	pos := -1
	for i, it := range items {
		if it.ID == id {
			pos = i
			break
		}
	}
	if pos < 0 {
		return Item{}, sdlcerr.Wrapf(sdlcerr.ErrEscalationNotFound, "%q", id)
	}

	if slug := items[pos].SourceFeature; slug != "" {
		f, loadErr := feature.Load(root, slug)
		if loadErr != nil && !errors.Is(loadErr, sdlcerr.ErrFeatureNotFound) {
			return Item{}, loadErr
		}
		if loadErr == nil {
			if cid := items[pos].LinkedCommentID; cid != "" {
				kept := f.Comments[:0]
				for _, c := range f.Comments {
					if c.ID != cid {
						kept = append(kept, c)
					}
				}
				f.Comments = kept
			}
			body := fmt.Sprintf("[Escalation %s resolved] %s\n\n%s", items[pos].ID, items[pos].Title, resolution)
			f.AddComment(body, taxonomy.FlagFyi, comment.FeatureTarget(), "human")
			if err := f.Save(root); err != nil {
				return Item{}, err
			}
		}
	}

	now := time.Now().UTC()
	items[pos].Status = StatusResolved
	items[pos].ResolvedAt = &now
	items[pos].Resolution = resolution
	items[pos].LinkedCommentID = ""

	resolved := items[pos]
	if err := saveAll(root, items); err != nil {
		return Item{}, err
	}
	return resolved, nil
}
