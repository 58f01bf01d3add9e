package paths_test

import (
	"testing"

	"github.com/sdlcstack/sdlc/internal/paths"
	"github.com/sdlcstack/sdlc/internal/sdlcerr"
	"github.com/stretchr/testify/assert"
)

func TestValidateSlug(t *testing.T) {
	t.Parallel()

	assert.NoError(t, paths.ValidateSlug("checkout-flow_v2"))
	assert.Error(t, paths.ValidateSlug(""))
	assert.Error(t, paths.ValidateSlug("has a space"))
	assert.Error(t, paths.ValidateSlug("slash/in/slug"))
}

func TestValidateSlugErrorIsInvalidSlug(t *testing.T) {
	t.Parallel()

	err := paths.ValidateSlug("")
	assert.ErrorIs(t, err, sdlcerr.ErrInvalidSlug)
}

func TestIDGrammars(t *testing.T) {
	t.Parallel()

	assert.True(t, paths.ValidateCommentID("C1"))
	assert.True(t, paths.ValidateCommentID("C42"))
	assert.False(t, paths.ValidateCommentID("C0"))
	assert.False(t, paths.ValidateCommentID("c1"))

	assert.True(t, paths.ValidateTaskID("T1"))
	assert.False(t, paths.ValidateTaskID("T0"))

	assert.True(t, paths.ValidateEscalationID("E7"))
	assert.False(t, paths.ValidateEscalationID("E"))
}

func TestFeaturePathsNestUnderSdlcRoot(t *testing.T) {
	t.Parallel()

	root := "/tmp/project"
	assert.Equal(t, "/tmp/project/.sdlc/features/checkout/manifest.yaml", paths.FeatureManifest(root, "checkout"))
	assert.Equal(t, "/tmp/project/.sdlc/features/checkout/spec.md", paths.FeatureArtifact(root, "checkout", "spec.md"))
}

func TestRelFeatureArtifactIsForwardSlashJoined(t *testing.T) {
	t.Parallel()

	assert.Equal(t, ".sdlc/features/checkout/spec.md", paths.RelFeatureArtifact("checkout", "spec.md"))
}

func TestMilestonePaths(t *testing.T) {
	t.Parallel()

	root := "/tmp/project"
	assert.Equal(t, "/tmp/project/.sdlc/milestones/v1/manifest.yaml", paths.MilestoneManifest(root, "v1"))
}
