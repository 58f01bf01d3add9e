package prepare

import (
	"testing"

	"github.com/sdlcstack/sdlc/internal/config"
	"github.com/sdlcstack/sdlc/internal/feature"
	"github.com/sdlcstack/sdlc/internal/milestone"
	"github.com/sdlcstack/sdlc/internal/ponder"
	"github.com/sdlcstack/sdlc/internal/state"
	"github.com/sdlcstack/sdlc/internal/task"
	"github.com/sdlcstack/sdlc/internal/taxonomy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T, root string) {
	t.Helper()
	require.NoError(t, config.New("test").Save(root))
	require.NoError(t, state.New("test").Save(root))
}

func addFeature(t *testing.T, root, slug string) feature.Feature {
	t.Helper()
	f, err := feature.Create(root, slug, slug, "")
	require.NoError(t, err)
	st, err := state.Load(root)
	require.NoError(t, err)
	st.AddActiveFeature(slug)
	require.NoError(t, st.Save(root))
	return f
}

func addFeatureWithDescription(t *testing.T, root, slug, description string) feature.Feature {
	t.Helper()
	f, err := feature.Create(root, slug, slug, description)
	require.NoError(t, err)
	st, err := state.Load(root)
	require.NoError(t, err)
	st.AddActiveFeature(slug)
	require.NoError(t, st.Save(root))
	return f
}

func addMilestone(t *testing.T, root, slug string, featureSlugs []string) milestone.Milestone {
	t.Helper()
	m, err := milestone.Create(root, slug, slug)
	require.NoError(t, err)
	for _, fs := range featureSlugs {
		m.AddFeature(fs)
	}
	require.NoError(t, m.Save(root))
	st, err := state.Load(root)
	require.NoError(t, err)
	st.AddMilestone(slug)
	require.NoError(t, st.Save(root))
	return m
}

func loadAndSave(t *testing.T, root, slug string, mutate func(*feature.Feature)) {
	t.Helper()
	f, err := feature.Load(root, slug)
	require.NoError(t, err)
	mutate(&f)
	require.NoError(t, f.Save(root))
}

func TestProjectPhaseIdle(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	setup(t, root)

	phase, err := CurrentProjectPhase(root)
	require.NoError(t, err)
	assert.Equal(t, PhaseIdle, phase.Kind)
}

func TestProjectPhasePondering(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	setup(t, root)

	_, err := ponder.Create(root, "my-idea", "My Idea")
	require.NoError(t, err)

	phase, err := CurrentProjectPhase(root)
	require.NoError(t, err)
	assert.Equal(t, PhasePondering, phase.Kind)
}

func TestProjectPhasePlanning(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	setup(t, root)

	addFeature(t, root, "feat-a")
	addFeature(t, root, "feat-b")
	addMilestone(t, root, "v1", []string{"feat-a", "feat-b"})

	phase, err := CurrentProjectPhase(root)
	require.NoError(t, err)
	assert.Equal(t, PhasePlanning, phase.Kind)
	assert.Equal(t, "v1", phase.Milestone)
}

func TestProjectPhaseExecuting(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	setup(t, root)

	addFeature(t, root, "feat-a")
	addFeature(t, root, "feat-b")
	loadAndSave(t, root, "feat-a", func(f *feature.Feature) { f.Phase = taxonomy.Implementation })
	addMilestone(t, root, "v1", []string{"feat-a", "feat-b"})

	phase, err := CurrentProjectPhase(root)
	require.NoError(t, err)
	assert.Equal(t, PhaseExecuting, phase.Kind)
}

func TestProjectPhaseVerifying(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	setup(t, root)

	addFeature(t, root, "feat-a")
	addFeature(t, root, "feat-b")
	loadAndSave(t, root, "feat-a", func(f *feature.Feature) { f.Phase = taxonomy.Released })
	loadAndSave(t, root, "feat-b", func(f *feature.Feature) { f.Phase = taxonomy.Released })
	addMilestone(t, root, "v1", []string{"feat-a", "feat-b"})

	phase, err := CurrentProjectPhase(root)
	require.NoError(t, err)
	assert.Equal(t, PhaseVerifying, phase.Kind)
}

func TestPrepareEmptyMilestone(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	setup(t, root)
	addMilestone(t, root, "v1", nil)

	result, err := Prepare(root, "v1")
	require.NoError(t, err)
	assert.Empty(t, result.Waves)
	assert.Equal(t, "v1", result.Milestone)
	assert.Equal(t, 0, result.MilestoneProgress.Total)
}

func TestPrepareNoDeps(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	setup(t, root)
	addFeature(t, root, "feat-a")
	addFeature(t, root, "feat-b")
	addFeature(t, root, "feat-c")
	addMilestone(t, root, "v1", []string{"feat-a", "feat-b", "feat-c"})

	result, err := Prepare(root, "v1")
	require.NoError(t, err)
	require.Len(t, result.Waves, 1)
	assert.Len(t, result.Waves[0].Items, 3)
	assert.Equal(t, 1, result.Waves[0].Number)
	for _, item := range result.Waves[0].Items {
		assert.Empty(t, item.BlockedBy)
	}
}

func TestPrepareLinearDeps(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	setup(t, root)
	addFeature(t, root, "feat-a")
	addFeature(t, root, "feat-b")
	addFeature(t, root, "feat-c")
	loadAndSave(t, root, "feat-b", func(f *feature.Feature) { f.Dependencies = []string{"feat-a"} })
	loadAndSave(t, root, "feat-c", func(f *feature.Feature) { f.Dependencies = []string{"feat-b"} })
	addMilestone(t, root, "v1", []string{"feat-a", "feat-b", "feat-c"})

	result, err := Prepare(root, "v1")
	require.NoError(t, err)
	require.Len(t, result.Waves, 3)
	assert.Equal(t, "feat-a", result.Waves[0].Items[0].Slug)
	assert.Equal(t, "feat-b", result.Waves[1].Items[0].Slug)
	assert.Equal(t, "feat-c", result.Waves[2].Items[0].Slug)
	assert.Equal(t, []string{"feat-a"}, result.Waves[1].Items[0].BlockedBy)
	assert.Equal(t, []string{"feat-b"}, result.Waves[2].Items[0].BlockedBy)
}

func TestPrepareDiamondDeps(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	setup(t, root)
	addFeature(t, root, "feat-a")
	addFeature(t, root, "feat-b")
	addFeature(t, root, "feat-c")
	addFeature(t, root, "feat-d")
	loadAndSave(t, root, "feat-b", func(f *feature.Feature) { f.Dependencies = []string{"feat-a"} })
	loadAndSave(t, root, "feat-c", func(f *feature.Feature) { f.Dependencies = []string{"feat-a"} })
	loadAndSave(t, root, "feat-d", func(f *feature.Feature) { f.Dependencies = []string{"feat-b", "feat-c"} })
	addMilestone(t, root, "v1", []string{"feat-a", "feat-b", "feat-c", "feat-d"})

	result, err := Prepare(root, "v1")
	require.NoError(t, err)
	require.Len(t, result.Waves, 3)
	assert.Equal(t, "feat-a", result.Waves[0].Items[0].Slug)
	assert.Len(t, result.Waves[1].Items, 2)
	assert.Equal(t, "feat-d", result.Waves[2].Items[0].Slug)
}

func TestPrepareCycleDetection(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	setup(t, root)
	addFeature(t, root, "feat-a")
	addFeature(t, root, "feat-b")
	loadAndSave(t, root, "feat-a", func(f *feature.Feature) { f.Dependencies = []string{"feat-b"} })
	loadAndSave(t, root, "feat-b", func(f *feature.Feature) { f.Dependencies = []string{"feat-a"} })
	addMilestone(t, root, "v1", []string{"feat-a", "feat-b"})

	result, err := Prepare(root, "v1")
	require.NoError(t, err)

	found := false
	for _, g := range result.Gaps {
		if g.Severity == SeverityBlocker && containsSubstr(g.Message, "cycle") {
			found = true
		}
	}
	assert.True(t, found)
	assert.Empty(t, result.Waves)
}

func TestPrepareBrokenDepRef(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	setup(t, root)
	addFeature(t, root, "feat-a")
	loadAndSave(t, root, "feat-a", func(f *feature.Feature) { f.Dependencies = []string{"nonexistent"} })
	addMilestone(t, root, "v1", []string{"feat-a"})

	result, err := Prepare(root, "v1")
	require.NoError(t, err)

	var broken []Gap
	for _, g := range result.Gaps {
		if g.Severity == SeverityBlocker && containsSubstr(g.Message, "does not exist") {
			broken = append(broken, g)
		}
	}
	require.Len(t, broken, 1)
	assert.Contains(t, broken[0].Message, "nonexistent")
}

func TestPrepareMissingDescription(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	setup(t, root)
	addFeature(t, root, "feat-a")
	addFeatureWithDescription(t, root, "feat-b", "Has a desc")
	addMilestone(t, root, "v1", []string{"feat-a", "feat-b"})

	result, err := Prepare(root, "v1")
	require.NoError(t, err)

	var descGaps []Gap
	for _, g := range result.Gaps {
		if g.Severity == SeverityWarning && containsSubstr(g.Message, "no description") {
			descGaps = append(descGaps, g)
		}
	}
	require.Len(t, descGaps, 1)
	assert.Equal(t, "feat-a", descGaps[0].Feature)
}

func TestPrepareHitlExcluded(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	setup(t, root)
	addFeature(t, root, "feat-a")
	addFeature(t, root, "feat-blocked")
	loadAndSave(t, root, "feat-blocked", func(f *feature.Feature) { f.Blockers = []string{"waiting-on-api"} })
	addMilestone(t, root, "v1", []string{"feat-a", "feat-blocked"})

	result, err := Prepare(root, "v1")
	require.NoError(t, err)

	blockedFound := false
	for _, b := range result.Blocked {
		if b.Slug == "feat-blocked" {
			blockedFound = true
		}
	}
	assert.True(t, blockedFound)

	waveSlugs := map[string]bool{}
	for _, w := range result.Waves {
		for _, it := range w.Items {
			waveSlugs[it.Slug] = true
		}
	}
	assert.True(t, waveSlugs["feat-a"])
	assert.False(t, waveSlugs["feat-blocked"])
}

func TestPrepareImplementationNeedsWorktree(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	setup(t, root)
	addFeature(t, root, "feat-impl")
	loadAndSave(t, root, "feat-impl", func(f *feature.Feature) {
		f.Phase = taxonomy.Implementation
		f.Tasks = append(f.Tasks, task.Task{ID: "t1", Title: "Do the thing", Status: taxonomy.Pending})
	})
	addFeature(t, root, "feat-draft")
	addMilestone(t, root, "v1", []string{"feat-impl", "feat-draft"})

	result, err := Prepare(root, "v1")
	require.NoError(t, err)

	var implItem, draftItem *WaveItem
	for _, w := range result.Waves {
		for i := range w.Items {
			if w.Items[i].Slug == "feat-impl" {
				implItem = &w.Items[i]
			}
			if w.Items[i].Slug == "feat-draft" {
				draftItem = &w.Items[i]
			}
		}
	}
	require.NotNil(t, implItem)
	require.NotNil(t, draftItem)
	assert.True(t, implItem.NeedsWorktree)
	assert.False(t, draftItem.NeedsWorktree)
}

func TestPrepareIdleReturnsEmpty(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	setup(t, root)

	result, err := Prepare(root, "")
	require.NoError(t, err)
	assert.Equal(t, PhaseIdle, result.ProjectPhase.Kind)
	assert.Empty(t, result.Waves)
	assert.Empty(t, result.Milestone)
}

func TestPrepareNextCommandsSuggestsPrepareWhenFresh(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	setup(t, root)
	addFeature(t, root, "feat-a")
	addFeature(t, root, "feat-b")
	addMilestone(t, root, "v1", []string{"feat-a", "feat-b"})

	result, err := Prepare(root, "v1")
	require.NoError(t, err)
	require.Len(t, result.NextCommands, 1)
	assert.Equal(t, "/sdlc-prepare v1", result.NextCommands[0])
}

func TestPrepareNextCommandsFallsBackToRun(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	setup(t, root)
	addFeature(t, root, "feat-a")
	loadAndSave(t, root, "feat-a", func(f *feature.Feature) { f.Phase = taxonomy.Specified })
	addFeature(t, root, "feat-b")
	addMilestone(t, root, "v1", []string{"feat-a", "feat-b"})

	result, err := Prepare(root, "v1")
	require.NoError(t, err)
	require.NotEmpty(t, result.NextCommands)
	for _, c := range result.NextCommands {
		assert.True(t, len(c) >= len("/sdlc-run") && c[:len("/sdlc-run")] == "/sdlc-run")
	}
}

func TestPrepareProgress(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	setup(t, root)
	addFeature(t, root, "released")
	loadAndSave(t, root, "released", func(f *feature.Feature) { f.Phase = taxonomy.Released })
	addFeature(t, root, "in-progress")
	loadAndSave(t, root, "in-progress", func(f *feature.Feature) { f.Phase = taxonomy.Specified })
	addFeature(t, root, "blocked")
	loadAndSave(t, root, "blocked", func(f *feature.Feature) { f.Blockers = []string{"reason"} })
	addFeature(t, root, "pending")
	addMilestone(t, root, "v1", []string{"released", "in-progress", "blocked", "pending"})

	result, err := Prepare(root, "v1")
	require.NoError(t, err)
	progress := result.MilestoneProgress
	assert.Equal(t, 4, progress.Total)
	assert.Equal(t, 1, progress.Released)
	assert.Equal(t, 1, progress.InProgress)
	assert.Equal(t, 1, progress.Blocked)
	assert.Equal(t, 1, progress.Pending)
}

func containsSubstr(s, substr string) bool {
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			return true
		}
	}
	return false
}
