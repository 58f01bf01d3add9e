package config_test

import (
	"testing"

	"github.com/sdlcstack/sdlc/internal/config"
	"github.com/sdlcstack/sdlc/internal/gate"
	"github.com/sdlcstack/sdlc/internal/sdlcerr"
	"github.com/sdlcstack/sdlc/internal/taxonomy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHasEveryPhaseEnabled(t *testing.T) {
	t.Parallel()

	cfg := config.New("widgets")
	assert.Equal(t, "widgets", cfg.Project.Name)
	assert.True(t, cfg.Phases.IsEnabled(taxonomy.Specified))
	assert.True(t, cfg.Phases.IsEnabled(taxonomy.Released))
}

func TestRequiredForMatchesDefaultTable(t *testing.T) {
	t.Parallel()

	cfg := config.New("widgets")
	assert.Equal(t, []taxonomy.ArtifactType{taxonomy.Spec}, cfg.Phases.RequiredFor(taxonomy.Specified))
	assert.ElementsMatch(t,
		[]taxonomy.ArtifactType{taxonomy.Spec, taxonomy.Design, taxonomy.Tasks, taxonomy.QaPlan},
		cfg.Phases.RequiredFor(taxonomy.Planned))
}

func TestSaveLoadRoundTrip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfg := config.New("widgets")
	cfg.Gates = map[string][]gate.Definition{
		"run_qa": {{Name: "lint", Kind: gate.KindShell, Command: "make lint"}},
	}

	require.NoError(t, cfg.Save(dir))

	loaded, err := config.Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "widgets", loaded.Project.Name)
	assert.Equal(t, []gate.Definition{{Name: "lint", Kind: gate.KindShell, Command: "make lint"}}, loaded.Gates["run_qa"])
}

func TestLoadWithoutInitReturnsNotInitialized(t *testing.T) {
	t.Parallel()

	_, err := config.Load(t.TempDir())
	require.Error(t, err)
	assert.ErrorIs(t, err, sdlcerr.ErrNotInitialized)
}

func TestQualityOrDefaultFallsBack(t *testing.T) {
	t.Parallel()

	cfg := config.New("widgets")
	assert.Equal(t, config.DefaultQualityConfig(), cfg.QualityOrDefault())

	custom := config.QualityConfig{MinScoreToAdvance: 50, MinScoreToRelease: 60, RequireAllLenses: false}
	cfg.Quality = &custom
	assert.Equal(t, custom, cfg.QualityOrDefault())
}

func TestGatesForUnconfiguredActionIsNil(t *testing.T) {
	t.Parallel()

	cfg := config.New("widgets")
	assert.Nil(t, cfg.GatesFor(taxonomy.RunQa))
}
