package artifact_test

import (
	"testing"

	"github.com/sdlcstack/sdlc/internal/artifact"
	"github.com/sdlcstack/sdlc/internal/taxonomy"
	"github.com/stretchr/testify/assert"
)

func TestNewStartsMissing(t *testing.T) {
	t.Parallel()

	a := artifact.New(taxonomy.Spec, "features/checkout/spec.md")
	assert.Equal(t, taxonomy.Missing, a.Status)
	assert.False(t, a.IsSatisfied())
}

func TestMarkDraftIsIdempotent(t *testing.T) {
	t.Parallel()

	a := artifact.New(taxonomy.Spec, "spec.md")
	a.MarkDraft()
	assert.Equal(t, taxonomy.ArtifactDraft, a.Status)

	a.MarkDraft()
	assert.Equal(t, taxonomy.ArtifactDraft, a.Status)
}

func TestApproveSatisfies(t *testing.T) {
	t.Parallel()

	a := artifact.New(taxonomy.Spec, "spec.md")
	a.MarkDraft()
	a.Approve("alice")

	assert.Equal(t, taxonomy.Approved, a.Status)
	assert.Equal(t, "alice", a.ApprovedBy)
	assert.True(t, a.IsSatisfied())
}

func TestRejectClearsApproval(t *testing.T) {
	t.Parallel()

	a := artifact.New(taxonomy.Spec, "spec.md")
	a.Approve("alice")
	a.Reject("missing edge cases")

	assert.Equal(t, taxonomy.Rejected, a.Status)
	assert.Equal(t, "missing edge cases", a.Reason)
	assert.False(t, a.IsSatisfied())
}

func TestWaiveOnlyFromMissing(t *testing.T) {
	t.Parallel()

	a := artifact.New(taxonomy.QaPlan, "qa-plan.md")
	assert.True(t, a.Waive("not needed for this feature"))
	assert.Equal(t, taxonomy.Waived, a.Status)
	assert.True(t, a.IsSatisfied())

	b := artifact.New(taxonomy.QaPlan, "qa-plan.md")
	b.MarkDraft()
	assert.False(t, b.Waive("too late"))
	assert.Equal(t, taxonomy.ArtifactDraft, b.Status)
}

func TestNeedsFixIsNotSatisfied(t *testing.T) {
	t.Parallel()

	a := artifact.New(taxonomy.Review, "review.md")
	a.Approve("bob")
	a.NeedsFix("style nits")

	assert.Equal(t, taxonomy.NeedsFix, a.Status)
	assert.False(t, a.IsSatisfied())
}
