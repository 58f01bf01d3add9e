package milestone

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateLoad(t *testing.T) {
	t.Parallel()
	root := t.TempDir()

	m, err := Create(root, "launch", "Launch Week")
	require.NoError(t, err)
	assert.Equal(t, StatusActive, m.Status)

	loaded, err := Load(root, "launch")
	require.NoError(t, err)
	assert.Equal(t, m.Title, loaded.Title)
}

func TestCreateDuplicateFails(t *testing.T) {
	t.Parallel()
	root := t.TempDir()

	_, err := Create(root, "launch", "Launch Week")
	require.NoError(t, err)
	_, err = Create(root, "launch", "Launch Week Again")
	assert.Error(t, err)
}

func TestAddFeatureDedup(t *testing.T) {
	t.Parallel()
	m := New("launch", "Launch Week")

	assert.True(t, m.AddFeature("auth"))
	assert.False(t, m.AddFeature("auth"))
	assert.Equal(t, []string{"auth"}, m.Features)
}

func TestAddFeatureAtInsertsAtPosition(t *testing.T) {
	t.Parallel()
	m := New("launch", "Launch Week")
	m.AddFeature("auth")
	m.AddFeature("billing")

	assert.True(t, m.AddFeatureAt("payments", 1))
	assert.Equal(t, []string{"auth", "payments", "billing"}, m.Features)
}

func TestRemoveFeature(t *testing.T) {
	t.Parallel()
	m := New("launch", "Launch Week")
	m.AddFeature("auth")

	assert.True(t, m.RemoveFeature("auth"))
	assert.False(t, m.RemoveFeature("auth"))
	assert.Empty(t, m.Features)
}

func TestReorderFeaturesRequiresPermutation(t *testing.T) {
	t.Parallel()
	m := New("launch", "Launch Week")
	m.AddFeature("auth")
	m.AddFeature("billing")

	require.NoError(t, m.ReorderFeatures([]string{"billing", "auth"}))
	assert.Equal(t, []string{"billing", "auth"}, m.Features)

	assert.Error(t, m.ReorderFeatures([]string{"billing"}))
	assert.Error(t, m.ReorderFeatures([]string{"billing", "missing"}))
}

func TestCompleteAndCancel(t *testing.T) {
	t.Parallel()
	m := New("launch", "Launch Week")
	m.Complete()
	assert.Equal(t, StatusComplete, m.Status)
	require.NotNil(t, m.CompletedAt)

	m2 := New("other", "Other")
	m2.Cancel()
	assert.Equal(t, StatusCancelled, m2.Status)
	require.NotNil(t, m2.CancelledAt)
}

func TestListSorted(t *testing.T) {
	t.Parallel()
	root := t.TempDir()

	_, err := Create(root, "a", "A")
	require.NoError(t, err)
	_, err = Create(root, "b", "B")
	require.NoError(t, err)

	list, err := List(root)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "a", list[0].Slug)
	assert.Equal(t, "b", list[1].Slug)
}
