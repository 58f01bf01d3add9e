// Package comment implements the per-feature comment thread: blocker,
// question, and fyi notes attached either to the feature itself or to
// one of its tasks. An unresolved Blocker or Question comment is what
// the classifier's Rule 2 looks for before anything else — see
// internal/rules.
package comment

import (
	"fmt"
	"time"

	"github.com/sdlcstack/sdlc/internal/sdlcerr"
	"github.com/sdlcstack/sdlc/internal/taxonomy"
	"gopkg.in/yaml.v3"
)

// TargetKind discriminates whether a comment is attached to the
// feature as a whole or to one of its tasks.
type TargetKind int

const (
	TargetFeature TargetKind = iota
	TargetTask
)

// Target names what a Comment is attached to.
type Target struct {
	Kind   TargetKind `yaml:"kind" json:"kind"`
	TaskID string     `yaml:"task_id,omitempty" json:"task_id,omitempty"`
}

// FeatureTarget is the Target for a feature-level comment.
func FeatureTarget() Target {
	return Target{Kind: TargetFeature}
}

// TaskTarget is the Target for a comment attached to task id.
func TaskTarget(id string) Target {
	return Target{Kind: TargetTask, TaskID: id}
}

func (t Target) MarshalYAML() (interface{}, error) {
	if t.Kind == TargetTask {
		return map[string]string{"task": t.TaskID}, nil
	}
	return "feature", nil
}

func (t *Target) UnmarshalYAML(value *yaml.Node) error {
	var asString string
	if err := value.Decode(&asString); err == nil {
		*t = FeatureTarget()
		return nil
	}
	var asMap struct {
		Task string `yaml:"task"`
	}
	if err := value.Decode(&asMap); err != nil {
		return err
	}
	*t = TaskTarget(asMap.Task)
	return nil
}

// Comment is one entry in a feature's comment thread.
type Comment struct {
	ID         string              `yaml:"id" json:"id"`
	Body       string              `yaml:"body" json:"body"`
	Flag       taxonomy.CommentFlag `yaml:"flag,omitempty" json:"flag,omitempty"`
	Target     Target              `yaml:"target" json:"target"`
	Author     string              `yaml:"author,omitempty" json:"author,omitempty"`
	CreatedAt  time.Time           `yaml:"created_at" json:"created_at"`
	ResolvedAt *time.Time          `yaml:"resolved_at,omitempty" json:"resolved_at,omitempty"`
}

// IsPending reports whether the comment still gates the pipeline: it
// carries a Blocker or Question flag and has not been resolved.
func (c Comment) IsPending() bool {
	return c.ResolvedAt == nil && c.Flag.GatesPipeline()
}

// Add appends a new comment to comments, allocating the next C<n> ID
// from nextSeq (which it increments in place), and returns the new ID.
func Add(comments *[]Comment, nextSeq *int, body string, flag taxonomy.CommentFlag, target Target, author string) string {
	*nextSeq++
	id := fmt.Sprintf("C%d", *nextSeq)
	*comments = append(*comments, Comment{
		ID:        id,
		Body:      body,
		Flag:      flag,
		Target:    target,
		Author:    author,
		CreatedAt: time.Now().UTC(),
	})
	return id
}

// Resolve marks the comment with the given ID as resolved. Resolving
// an already-resolved comment is a no-op; resolving an ID that isn't
// present returns ErrCommentNotFound.
func Resolve(comments []Comment, id string) error {
	now := time.Now().UTC()
	for i := range comments {
		if comments[i].ID == id {
			if comments[i].ResolvedAt == nil {
				comments[i].ResolvedAt = &now
			}
			return nil
		}
	}
	return sdlcerr.Wrapf(sdlcerr.ErrCommentNotFound, "%q", id)
}

// HasPendingBlockers reports whether any comment in the slice still
// gates the pipeline (an unresolved Blocker or Question).
func HasPendingBlockers(comments []Comment) bool {
	for _, c := range comments {
		if c.IsPending() {
			return true
		}
	}
	return false
}

// PendingMessage returns the body of the first comment that still
// gates the pipeline, for use in a WaitForApproval classification
// message. Returns "" if none are pending.
func PendingMessage(comments []Comment) string {
	for _, c := range comments {
		if c.IsPending() {
			return c.Body
		}
	}
	return ""
}

// Find returns the comment with the given ID, if present.
func Find(comments []Comment, id string) (Comment, bool) {
	for _, c := range comments {
		if c.ID == id {
			return c, true
		}
	}
	return Comment{}, false
}
