package ponder_test

import (
	"testing"

	"github.com/sdlcstack/sdlc/internal/ponder"
	"github.com/sdlcstack/sdlc/internal/sdlcerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAndList(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	entry, err := ponder.Create(dir, "auth-approach", "Which auth approach")
	require.NoError(t, err)
	assert.Equal(t, ponder.Exploring, entry.Status)

	entries, err := ponder.List(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "auth-approach", entries[0].Slug)
}

func TestCreateDuplicateFails(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	_, err := ponder.Create(dir, "dup", "first")
	require.NoError(t, err)

	_, err = ponder.Create(dir, "dup", "second")
	require.Error(t, err)
	assert.ErrorIs(t, err, sdlcerr.ErrPonderExists)
}

func TestActiveCountExcludesTerminal(t *testing.T) {
	t.Parallel()

	entries := []ponder.Entry{
		{Slug: "a", Status: ponder.Exploring},
		{Slug: "b", Status: ponder.Converging},
		{Slug: "c", Status: ponder.Committed},
		{Slug: "d", Status: ponder.Parked},
	}
	assert.Equal(t, 2, ponder.ActiveCount(entries))
}

func TestParseStatusRoundTrip(t *testing.T) {
	t.Parallel()

	for _, s := range []ponder.Status{ponder.Exploring, ponder.Converging, ponder.Committed, ponder.Parked} {
		parsed, err := ponder.ParseStatus(s.String())
		require.NoError(t, err)
		assert.Equal(t, s, parsed)
	}
}

func TestParseStatusRejectsUnknown(t *testing.T) {
	t.Parallel()

	_, err := ponder.ParseStatus("lost-in-thought")
	require.Error(t, err)
	assert.ErrorIs(t, err, sdlcerr.ErrInvalidInvestigationKind)
}

func TestListOnEmptyProjectReturnsEmpty(t *testing.T) {
	t.Parallel()

	entries, err := ponder.List(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, entries)
}
