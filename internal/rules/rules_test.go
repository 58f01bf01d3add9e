package rules

import (
	"testing"

	"github.com/sdlcstack/sdlc/internal/classifier"
	"github.com/sdlcstack/sdlc/internal/comment"
	"github.com/sdlcstack/sdlc/internal/config"
	"github.com/sdlcstack/sdlc/internal/feature"
	"github.com/sdlcstack/sdlc/internal/state"
	"github.com/sdlcstack/sdlc/internal/taxonomy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCtx(t *testing.T, f feature.Feature, cfg config.Config) *classifier.EvalContext {
	t.Helper()
	st := state.New("test")
	return &classifier.EvalContext{
		Feature: &f,
		State:   &st,
		Config:  cfg,
		Root:    t.TempDir(),
	}
}

func TestDraftNoSpecGivesCreateSpec(t *testing.T) {
	t.Parallel()
	f := feature.New("checkout", "Checkout", "")
	ctx := newCtx(t, f, config.New("test"))

	c := classifier.New(DefaultRules()).Classify(ctx)
	assert.Equal(t, taxonomy.CreateSpec, c.Action)
}

func TestDraftSpecDraftGivesApproveSpec(t *testing.T) {
	t.Parallel()
	f := feature.New("checkout", "Checkout", "")
	require.NoError(t, f.MarkArtifactDraft(taxonomy.Spec))
	ctx := newCtx(t, f, config.New("test"))

	c := classifier.New(DefaultRules()).Classify(ctx)
	assert.Equal(t, taxonomy.ApproveSpec, c.Action)
}

func TestBlockedFeatureGivesUnblock(t *testing.T) {
	t.Parallel()
	f := feature.New("checkout", "Checkout", "")
	f.Blockers = []string{"payments"}
	ctx := newCtx(t, f, config.New("test"))

	c := classifier.New(DefaultRules()).Classify(ctx)
	assert.Equal(t, taxonomy.UnblockDependency, c.Action)
}

func TestBlockerCommentGivesWaitForApproval(t *testing.T) {
	t.Parallel()
	f := feature.New("checkout", "Checkout", "")
	f.AddComment("needs a human call", taxonomy.FlagBlocker, comment.FeatureTarget(), "sdlc")
	ctx := newCtx(t, f, config.New("test"))

	c := classifier.New(DefaultRules()).Classify(ctx)
	assert.Equal(t, taxonomy.WaitForApproval, c.Action)
}

func TestQuestionCommentGivesWaitForApproval(t *testing.T) {
	t.Parallel()
	f := feature.New("checkout", "Checkout", "")
	f.AddComment("what should this do on timeout?", taxonomy.FlagQuestion, comment.FeatureTarget(), "sdlc")
	ctx := newCtx(t, f, config.New("test"))

	c := classifier.New(DefaultRules()).Classify(ctx)
	assert.Equal(t, taxonomy.WaitForApproval, c.Action)
}

func TestReleasedGivesDone(t *testing.T) {
	t.Parallel()
	f := feature.New("checkout", "Checkout", "")
	f.Phase = taxonomy.Released
	ctx := newCtx(t, f, config.New("test"))

	c := classifier.New(DefaultRules()).Classify(ctx)
	assert.Equal(t, taxonomy.Done, c.Action)
	assert.Empty(t, c.NextCommand)
}
