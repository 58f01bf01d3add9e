package escalation

import (
	"testing"

	"github.com/sdlcstack/sdlc/internal/feature"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateWithoutSourceFeature(t *testing.T) {
	root := t.TempDir()

	item, err := Create(root, KindQuestion, "Which provider?", "need a decision", "")
	require.NoError(t, err)
	assert.Equal(t, "E1", item.ID)
	assert.Equal(t, StatusOpen, item.Status)
	assert.Empty(t, item.LinkedCommentID)
}

func TestCreateWithSourceFeatureAddsBlockerComment(t *testing.T) {
	root := t.TempDir()

	_, err := feature.Create(root, "auth", "Auth", "")
	require.NoError(t, err)

	item, err := Create(root, KindSecretRequest, "Need API key", "for the payments provider", "auth")
	require.NoError(t, err)
	assert.NotEmpty(t, item.LinkedCommentID)

	f, err := feature.Load(root, "auth")
	require.NoError(t, err)
	require.Len(t, f.Comments, 1)
	assert.True(t, f.Comments[0].IsPending())
}

func TestNextIDIncrements(t *testing.T) {
	root := t.TempDir()

	a, err := Create(root, KindVision, "Scope check", "is this in scope?", "")
	require.NoError(t, err)
	b, err := Create(root, KindVision, "Scope check 2", "again", "")
	require.NoError(t, err)

	assert.Equal(t, "E1", a.ID)
	assert.Equal(t, "E2", b.ID)
}

func TestListFiltersByStatus(t *testing.T) {
	root := t.TempDir()

	a, err := Create(root, KindManualTest, "Verify on device", "manual check", "")
	require.NoError(t, err)
	_, err = Create(root, KindQuestion, "Other", "other", "")
	require.NoError(t, err)

	_, err = Resolve(root, a.ID, "done manually")
	require.NoError(t, err)

	open, err := List(root, FilterOpen)
	require.NoError(t, err)
	assert.Len(t, open, 1)

	all, err := List(root, FilterAll)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	resolved, err := List(root, FilterResolved)
	require.NoError(t, err)
	assert.Len(t, resolved, 1)
}

func TestResolveRemovesBlockerComment(t *testing.T) {
	root := t.TempDir()

	_, err := feature.Create(root, "auth", "Auth", "")
	require.NoError(t, err)

	item, err := Create(root, KindSecretRequest, "Need API key", "context", "auth")
	require.NoError(t, err)

	resolved, err := Resolve(root, item.ID, "key provisioned")
	require.NoError(t, err)
	assert.Equal(t, StatusResolved, resolved.Status)
	assert.Empty(t, resolved.LinkedCommentID)

	f, err := feature.Load(root, "auth")
	require.NoError(t, err)
	require.Len(t, f.Comments, 1)
	assert.False(t, f.Comments[0].IsPending())
	assert.Contains(t, f.Comments[0].Body, "key provisioned")
}

func TestGetNotFound(t *testing.T) {
	root := t.TempDir()

	_, err := Get(root, "E99")
	assert.Error(t, err)
}
