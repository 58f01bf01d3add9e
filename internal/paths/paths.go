// Package paths centralizes the on-disk layout of a project's .sdlc
// directory and the slug/ID grammars used throughout the core. Every
// other package that touches the filesystem goes through here rather
// than hand-rolling path joins, the same way feature.rs routes every
// path through its paths module instead of inlining format! calls.
package paths

import (
	"fmt"
	"path/filepath"
	"regexp"

	"github.com/sdlcstack/sdlc/internal/sdlcerr"
)

const (
	sdlcDir        = ".sdlc"
	FeaturesDir    = "features"
	MilestonesDir  = "milestones"
	ConfigFile     = "config.yaml"
	StateFile      = "state.yaml"
	EscalationFile = "escalations.yaml"
	FeatureManifestFile   = "manifest.yaml"
	MilestoneManifestFile = "manifest.yaml"
)

var slugPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
var commentIDPattern = regexp.MustCompile(`^C[1-9][0-9]*$`)
var taskIDPattern = regexp.MustCompile(`^T[1-9][0-9]*$`)
var escalationIDPattern = regexp.MustCompile(`^E[1-9][0-9]*$`)

// ValidateSlug enforces the slug grammar: non-empty, characters in
// [a-zA-Z0-9_-].
func ValidateSlug(slug string) error {
	if !slugPattern.MatchString(slug) {
		return sdlcerr.Wrapf(sdlcerr.ErrInvalidSlug, "%q", slug)
	}
	return nil
}

// ValidateCommentID checks the ^C[1-9][0-9]*$ grammar.
func ValidateCommentID(id string) bool {
	return commentIDPattern.MatchString(id)
}

// ValidateTaskID checks the ^T[1-9][0-9]*$ grammar.
func ValidateTaskID(id string) bool {
	return taskIDPattern.MatchString(id)
}

// ValidateEscalationID checks the ^E[1-9][0-9]*$ grammar.
func ValidateEscalationID(id string) bool {
	return escalationIDPattern.MatchString(id)
}

// Root joins root with ".sdlc".
func Root(root string) string {
	return filepath.Join(root, sdlcDir)
}

// ConfigPath is the project-level config.yaml path.
func ConfigPath(root string) string {
	return filepath.Join(Root(root), ConfigFile)
}

// StatePath is the project-level state.yaml path.
func StatePath(root string) string {
	return filepath.Join(Root(root), StateFile)
}

// EscalationPath is the flat escalations.yaml path.
func EscalationPath(root string) string {
	return filepath.Join(Root(root), EscalationFile)
}

// FeaturesDirPath is the directory containing every feature's subtree.
func FeaturesDirPath(root string) string {
	return filepath.Join(Root(root), FeaturesDir)
}

// FeatureDir is the subtree for a single feature.
func FeatureDir(root, slug string) string {
	return filepath.Join(FeaturesDirPath(root), slug)
}

// FeatureManifest is a feature's manifest.yaml path.
func FeatureManifest(root, slug string) string {
	return filepath.Join(FeatureDir(root, slug), FeatureManifestFile)
}

// FeatureArtifact is the content path for one of a feature's markdown
// artifacts, e.g. features/<slug>/spec.md.
func FeatureArtifact(root, slug, filename string) string {
	return filepath.Join(FeatureDir(root, slug), filename)
}

// RelFeatureArtifact returns the artifact path as it is stored inside
// the Feature aggregate itself: relative to root, always forward-slash
// joined, matching the ".sdlc/features/<slug>/<file>" convention the
// original core persists into Artifact.path.
func RelFeatureArtifact(slug, filename string) string {
	return fmt.Sprintf("%s/%s/%s/%s", sdlcDir, FeaturesDir, slug, filename)
}

// MilestonesDirPath is the directory containing every milestone's subtree.
func MilestonesDirPath(root string) string {
	return filepath.Join(Root(root), MilestonesDir)
}

// MilestoneDir is the subtree for a single milestone.
func MilestoneDir(root, slug string) string {
	return filepath.Join(MilestonesDirPath(root), slug)
}

// MilestoneManifest is a milestone's manifest.yaml path.
func MilestoneManifest(root, slug string) string {
	return filepath.Join(MilestoneDir(root, slug), MilestoneManifestFile)
}
