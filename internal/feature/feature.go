// Package feature implements the Feature aggregate: the unit the
// classifier, the phase transition engine, and the milestone planner
// all operate on. A Feature owns its seven artifacts (created eagerly,
// Missing, at construction time), its task ledger, its comment thread,
// its phase history, and its quality scores.
package feature

import (
	"errors"
	"os"
	"sort"
	"time"

	"github.com/sdlcstack/sdlc/internal/artifact"
	"github.com/sdlcstack/sdlc/internal/atomicio"
	"github.com/sdlcstack/sdlc/internal/comment"
	"github.com/sdlcstack/sdlc/internal/config"
	"github.com/sdlcstack/sdlc/internal/paths"
	"github.com/sdlcstack/sdlc/internal/score"
	"github.com/sdlcstack/sdlc/internal/sdlcerr"
	"github.com/sdlcstack/sdlc/internal/task"
	"github.com/sdlcstack/sdlc/internal/taxonomy"
	"gopkg.in/yaml.v3"
)

// PhaseTransition is one open-or-closed entry in a feature's phase
// history. Exactly one entry (the last) has a nil ExitedAt, and its
// Phase equals the feature's current phase.
type PhaseTransition struct {
	Phase     taxonomy.Phase `yaml:"phase" json:"phase"`
	EnteredAt time.Time      `yaml:"entered" json:"entered"`
	ExitedAt  *time.Time     `yaml:"exited,omitempty" json:"exited,omitempty"`
}

// Feature is the aggregate root for one unit of work moving through
// the SDLC pipeline.
type Feature struct {
	Slug           string              `yaml:"slug" json:"slug"`
	Title          string              `yaml:"title" json:"title"`
	Description    string              `yaml:"description,omitempty" json:"description,omitempty"`
	Phase          taxonomy.Phase      `yaml:"phase" json:"phase"`
	CreatedAt      time.Time           `yaml:"created_at" json:"created_at"`
	UpdatedAt      time.Time           `yaml:"updated_at" json:"updated_at"`
	Artifacts      []artifact.Artifact `yaml:"artifacts" json:"artifacts"`
	Tasks          []task.Task         `yaml:"tasks" json:"tasks"`
	Comments       []comment.Comment   `yaml:"comments,omitempty" json:"comments,omitempty"`
	NextCommentSeq int                 `yaml:"next_comment_seq,omitempty" json:"next_comment_seq,omitempty"`
	NextTaskSeq    int                 `yaml:"next_task_seq,omitempty" json:"next_task_seq,omitempty"`
	Blockers       []string            `yaml:"blockers" json:"blockers"`
	PhaseHistory   []PhaseTransition   `yaml:"phase_history" json:"phase_history"`
	Dependencies   []string            `yaml:"dependencies" json:"dependencies"`
	Archived       bool                `yaml:"archived" json:"archived"`
	Scores         []score.QualityScore `yaml:"scores,omitempty" json:"scores,omitempty"`
}

// New constructs a Feature in Draft phase with all seven artifacts
// created Missing at their conventional paths.
func New(slug, title, description string) Feature {
	now := time.Now().UTC()
	return Feature{
		Slug:        slug,
		Title:       title,
		Description: description,
		Phase:       taxonomy.Draft,
		CreatedAt:   now,
		UpdatedAt:   now,
		Artifacts:   defaultArtifacts(slug),
		Tasks:       []task.Task{},
		Blockers:    []string{},
		PhaseHistory: []PhaseTransition{
			{Phase: taxonomy.Draft, EnteredAt: now},
		},
		Dependencies: []string{},
	}
}

func defaultArtifacts(slug string) []artifact.Artifact {
	types := taxonomy.AllArtifactTypes()
	out := make([]artifact.Artifact, len(types))
	for i, t := range types {
		out[i] = artifact.New(t, paths.RelFeatureArtifact(slug, t.Filename()))
	}
	return out
}

// ---------------------------------------------------------------------------
// Persistence
// ---------------------------------------------------------------------------

// Create allocates a new feature directory and persists a fresh
// Feature. Fails with ErrInvalidSlug if slug violates the slug
// grammar, ErrFeatureExists if the feature directory already exists.
func Create(root, slug, title, description string) (Feature, error) {
	if err := paths.ValidateSlug(slug); err != nil {
		return Feature{}, err
	}

	dir := paths.FeatureDir(root, slug)
	if _, err := os.Stat(dir); err == nil {
		return Feature{}, sdlcerr.Wrapf(sdlcerr.ErrFeatureExists, "%q", slug)
	}

	f := New(slug, title, description)
	if err := f.Save(root); err != nil {
		return Feature{}, err
	}
	return f, nil
}

// Load reads and parses a feature's manifest.yaml.
func Load(root, slug string) (Feature, error) {
	manifest := paths.FeatureManifest(root, slug)
	data, err := os.ReadFile(manifest)
	if err != nil {
		if os.IsNotExist(err) {
			return Feature{}, sdlcerr.Wrapf(sdlcerr.ErrFeatureNotFound, "%q", slug)
		}
		return Feature{}, &sdlcerr.IOError{Op: "read", Path: manifest, Err: err}
	}
	var f Feature
	if err := yaml.Unmarshal(data, &f); err != nil {
		return Feature{}, &sdlcerr.SerdeError{Path: manifest, Err: err}
	}
	return f, nil
}

// Save writes the feature's manifest.yaml atomically.
func (f *Feature) Save(root string) error {
	manifest := paths.FeatureManifest(root, f.Slug)
	data, err := yaml.Marshal(f)
	if err != nil {
		return &sdlcerr.SerdeError{Path: manifest, Err: err}
	}
	return atomicio.WriteFile(manifest, data, 0o644)
}

// List loads every feature under root, sorted by creation time.
func List(root string) ([]Feature, error) {
	dir := paths.FeaturesDirPath(root)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, &sdlcerr.IOError{Op: "readdir", Path: dir, Err: err}
	}

	var out []Feature
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		f, err := Load(root, e.Name())
		if err != nil {
			if errors.Is(err, sdlcerr.ErrFeatureNotFound) {
				continue
			}
			return nil, err
		}
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

// ---------------------------------------------------------------------------
// Phase transitions
// ---------------------------------------------------------------------------

// CanTransitionTo reports whether the feature may move to target under
// cfg, without mutating anything.
func (f *Feature) CanTransitionTo(target taxonomy.Phase, cfg config.Config) error {
	if !cfg.Phases.IsEnabled(target) {
		return sdlcerr.Wrapf(sdlcerr.ErrPhaseDisabled, "%q", target.String())
	}

	if target <= f.Phase {
		return &sdlcerr.InvalidTransition{
			From:   f.Phase.String(),
			To:     target.String(),
			Reason: "forward-only",
		}
	}

	for _, t := range cfg.Phases.RequiredFor(target) {
		a := f.Artifact(t)
		if a == nil || !a.IsSatisfied() {
			return &sdlcerr.MissingArtifact{Artifact: t.String(), Phase: target.String()}
		}
	}

	return nil
}

// Transition moves the feature to target, closing the open phase
// history entry and opening a new one.
func (f *Feature) Transition(target taxonomy.Phase, cfg config.Config) error {
	if err := f.CanTransitionTo(target, cfg); err != nil {
		return err
	}

	now := time.Now().UTC()
	if n := len(f.PhaseHistory); n > 0 && f.PhaseHistory[n-1].ExitedAt == nil {
		f.PhaseHistory[n-1].ExitedAt = &now
	}

	f.Phase = target
	f.UpdatedAt = now
	f.PhaseHistory = append(f.PhaseHistory, PhaseTransition{Phase: target, EnteredAt: now})

	return nil
}

// ---------------------------------------------------------------------------
// Artifact helpers
// ---------------------------------------------------------------------------

// Artifact returns the artifact of the given type, or nil if absent
// (should not occur given invariant I1: every type is created eagerly).
func (f *Feature) Artifact(t taxonomy.ArtifactType) *artifact.Artifact {
	for i := range f.Artifacts {
		if f.Artifacts[i].Type == t {
			return &f.Artifacts[i]
		}
	}
	return nil
}

func (f *Feature) mustArtifact(t taxonomy.ArtifactType) (*artifact.Artifact, error) {
	a := f.Artifact(t)
	if a == nil {
		return nil, sdlcerr.Wrapf(sdlcerr.ErrArtifactNotFound, "%q", t.String())
	}
	return a, nil
}

// MarkArtifactDraft moves an artifact into Draft (see artifact.MarkDraft).
func (f *Feature) MarkArtifactDraft(t taxonomy.ArtifactType) error {
	a, err := f.mustArtifact(t)
	if err != nil {
		return err
	}
	a.MarkDraft()
	f.UpdatedAt = time.Now().UTC()
	return nil
}

// ApproveArtifact transitions an artifact to Approved, recording by.
func (f *Feature) ApproveArtifact(t taxonomy.ArtifactType, by string) error {
	a, err := f.mustArtifact(t)
	if err != nil {
		return err
	}
	a.Approve(by)
	f.UpdatedAt = time.Now().UTC()
	return nil
}

// RejectArtifact transitions an artifact to Rejected, recording reason.
func (f *Feature) RejectArtifact(t taxonomy.ArtifactType, reason string) error {
	a, err := f.mustArtifact(t)
	if err != nil {
		return err
	}
	a.Reject(reason)
	f.UpdatedAt = time.Now().UTC()
	return nil
}

// WaiveArtifact transitions a never-drafted artifact to Waived.
func (f *Feature) WaiveArtifact(t taxonomy.ArtifactType, reason string) error {
	a, err := f.mustArtifact(t)
	if err != nil {
		return err
	}
	if !a.Waive(reason) {
		return &sdlcerr.InvalidTransition{From: a.Status.String(), To: taxonomy.Waived.String(), Reason: "artifact already has content"}
	}
	f.UpdatedAt = time.Now().UTC()
	return nil
}

// ---------------------------------------------------------------------------
// Metadata mutations
// ---------------------------------------------------------------------------

// UpdateTitle renames the feature.
func (f *Feature) UpdateTitle(title string) {
	f.Title = title
	f.UpdatedAt = time.Now().UTC()
}

// SetDescription sets the feature's description.
func (f *Feature) SetDescription(description string) {
	f.Description = description
	f.UpdatedAt = time.Now().UTC()
}

// ClearDescription removes the feature's description.
func (f *Feature) ClearDescription() {
	f.Description = ""
	f.UpdatedAt = time.Now().UTC()
}

// ---------------------------------------------------------------------------
// Comments
// ---------------------------------------------------------------------------

// AddComment appends a new comment and returns its C<n> ID.
func (f *Feature) AddComment(body string, flag taxonomy.CommentFlag, target comment.Target, author string) string {
	id := comment.Add(&f.Comments, &f.NextCommentSeq, body, flag, target, author)
	f.UpdatedAt = time.Now().UTC()
	return id
}

// ResolveComment marks a comment resolved. Returns ErrCommentNotFound
// if id isn't present.
func (f *Feature) ResolveComment(id string) error {
	if err := comment.Resolve(f.Comments, id); err != nil {
		return err
	}
	f.UpdatedAt = time.Now().UTC()
	return nil
}

// ---------------------------------------------------------------------------
// Tasks
// ---------------------------------------------------------------------------

// AddTask appends a new Pending task and returns its T<n> ID.
func (f *Feature) AddTask(title string) string {
	id := task.Add(&f.Tasks, &f.NextTaskSeq, title)
	f.UpdatedAt = time.Now().UTC()
	return id
}

// StartTask transitions a task to InProgress.
func (f *Feature) StartTask(id string) error {
	if err := task.Start(f.Tasks, id); err != nil {
		return err
	}
	f.UpdatedAt = time.Now().UTC()
	return nil
}

// CompleteTask transitions a task to Completed.
func (f *Feature) CompleteTask(id string) error {
	if err := task.Complete(f.Tasks, id); err != nil {
		return err
	}
	f.UpdatedAt = time.Now().UTC()
	return nil
}

// BlockTask transitions a task to Blocked, recording reason.
func (f *Feature) BlockTask(id, reason string) error {
	if err := task.Block(f.Tasks, id, reason); err != nil {
		return err
	}
	f.UpdatedAt = time.Now().UTC()
	return nil
}

// ---------------------------------------------------------------------------
// Quality score helpers
// ---------------------------------------------------------------------------

// AddScore adds or replaces the score for the given lens.
func (f *Feature) AddScore(s score.QualityScore) {
	out := f.Scores[:0]
	for _, existing := range f.Scores {
		if existing.Lens != s.Lens {
			out = append(out, existing)
		}
	}
	f.Scores = append(out, s)
	f.UpdatedAt = time.Now().UTC()
}

// ScoreFor returns the current score for the given lens, if any.
func (f *Feature) ScoreFor(lens string) (score.QualityScore, bool) {
	for _, s := range f.Scores {
		if s.Lens == lens {
			return s, true
		}
	}
	return score.QualityScore{}, false
}

// AllScoresAbove reports whether every lens score is at or above
// threshold. False when there are no scores at all.
func (f *Feature) AllScoresAbove(threshold int) bool {
	if len(f.Scores) == 0 {
		return false
	}
	for _, s := range f.Scores {
		if s.Score < threshold {
			return false
		}
	}
	return true
}

// ---------------------------------------------------------------------------
// Misc helpers
// ---------------------------------------------------------------------------

// IsBlocked reports whether the feature has any feature-level blocker.
func (f *Feature) IsBlocked() bool {
	return len(f.Blockers) > 0
}

// AllArtifactsApprovedFor reports whether every artifact required to
// enter phase is satisfied.
func (f *Feature) AllArtifactsApprovedFor(phase taxonomy.Phase, cfg config.Config) bool {
	for _, t := range cfg.Phases.RequiredFor(phase) {
		a := f.Artifact(t)
		if a == nil || !a.IsSatisfied() {
			return false
		}
	}
	return true
}

// UnapprovedArtifacts returns the artifacts still in Draft or NeedsFix.
func (f *Feature) UnapprovedArtifacts() []artifact.Artifact {
	var out []artifact.Artifact
	for _, a := range f.Artifacts {
		if a.Status == taxonomy.ArtifactDraft || a.Status == taxonomy.NeedsFix {
			out = append(out, a)
		}
	}
	return out
}
