package comment_test

import (
	"testing"

	"github.com/sdlcstack/sdlc/internal/comment"
	"github.com/sdlcstack/sdlc/internal/sdlcerr"
	"github.com/sdlcstack/sdlc/internal/taxonomy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestAddAllocatesMonotonicIDs(t *testing.T) {
	t.Parallel()

	var comments []comment.Comment
	seq := 0

	id1 := comment.Add(&comments, &seq, "first", taxonomy.NoFlag, comment.FeatureTarget(), "alice")
	id2 := comment.Add(&comments, &seq, "second", taxonomy.NoFlag, comment.FeatureTarget(), "bob")

	assert.Equal(t, "C1", id1)
	assert.Equal(t, "C2", id2)
	assert.Len(t, comments, 2)
}

func TestBlockerGatesUntilResolved(t *testing.T) {
	t.Parallel()

	var comments []comment.Comment
	seq := 0
	id := comment.Add(&comments, &seq, "waiting on legal", taxonomy.FlagBlocker, comment.FeatureTarget(), "alice")

	assert.True(t, comment.HasPendingBlockers(comments))
	assert.Equal(t, "waiting on legal", comment.PendingMessage(comments))

	comment.Resolve(comments, id)
	assert.False(t, comment.HasPendingBlockers(comments))
}

func TestFyiCommentNeverGates(t *testing.T) {
	t.Parallel()

	var comments []comment.Comment
	seq := 0
	comment.Add(&comments, &seq, "looks good", taxonomy.FlagFyi, comment.FeatureTarget(), "alice")

	assert.False(t, comment.HasPendingBlockers(comments))
}

func TestResolveUnknownIDReturnsNotFound(t *testing.T) {
	t.Parallel()

	var comments []comment.Comment
	seq := 0
	comment.Add(&comments, &seq, "note", taxonomy.FlagQuestion, comment.FeatureTarget(), "alice")

	err := comment.Resolve(comments, "C999")
	require.ErrorIs(t, err, sdlcerr.ErrCommentNotFound)
	assert.True(t, comment.HasPendingBlockers(comments))
}

func TestResolveAlreadyResolvedIsNoOp(t *testing.T) {
	t.Parallel()

	var comments []comment.Comment
	seq := 0
	id := comment.Add(&comments, &seq, "note", taxonomy.FlagBlocker, comment.FeatureTarget(), "alice")

	require.NoError(t, comment.Resolve(comments, id))
	require.NoError(t, comment.Resolve(comments, id))
	assert.False(t, comment.HasPendingBlockers(comments))
}

func TestTaskTargetRoundTripsThroughYAML(t *testing.T) {
	t.Parallel()

	c := comment.Comment{ID: "C1", Body: "blocked", Target: comment.TaskTarget("T1")}
	data, err := yaml.Marshal(c)
	require.NoError(t, err)

	var decoded comment.Comment
	require.NoError(t, yaml.Unmarshal(data, &decoded))
	assert.Equal(t, comment.TargetTask, decoded.Target.Kind)
	assert.Equal(t, "T1", decoded.Target.TaskID)
}

func TestFeatureTargetRoundTripsThroughYAML(t *testing.T) {
	t.Parallel()

	c := comment.Comment{ID: "C1", Body: "fine", Target: comment.FeatureTarget()}
	data, err := yaml.Marshal(c)
	require.NoError(t, err)

	var decoded comment.Comment
	require.NoError(t, yaml.Unmarshal(data, &decoded))
	assert.Equal(t, comment.TargetFeature, decoded.Target.Kind)
}
