package rules

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adaptcoach/internal/adaptive"
)

func TestParse_OverlaysDefaults(t *testing.T) {
	doc := `
exercise:
  load_clamp: {min: 0.6, max: 1.3}
  levels:
    Advanced: {load: 1.2, series: 1.2, reps: 0.9}
intensity:
  Alto: 2
`
	got, err := Parse([]byte(doc))
	require.NoError(t, err)

	def := adaptive.DefaultTables()
	assert.Equal(t, adaptive.Bounds{Min: 0.6, Max: 1.3}, got.Exercise.LoadClamp)
	assert.Equal(t, adaptive.Multiplier{Load: 1.2, Series: 1.2, Reps: 0.9}, got.Exercise.Levels[adaptive.Advanced])
	assert.Equal(t, def.Exercise.Levels[adaptive.Beginner], got.Exercise.Levels[adaptive.Beginner])
	assert.Equal(t, 2.0, got.Intensity[adaptive.Alto])
	assert.Equal(t, def.Intensity[adaptive.Leve], got.Intensity[adaptive.Leve])
	assert.Equal(t, def.Nutrition, got.Nutrition)
}

func TestParse_Empty(t *testing.T) {
	got, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, adaptive.DefaultTables(), got)
}

func TestParse_Invalid(t *testing.T) {
	_, err := Parse([]byte("exercise:\n  load_step: 0\n"))
	require.ErrorIs(t, err, ErrInvalidTables)
	assert.ErrorContains(t, err, "exercise.load_step")

	_, err = Parse([]byte("exercise: ["))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidTables)
}

func TestLoad(t *testing.T) {
	got, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, adaptive.DefaultTables(), got)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte("exercise:\n  load_step: 1.25\n"), 0o644))
	got, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, 1.25, got.Exercise.LoadStep)
}

func TestMarshal_RoundTrip(t *testing.T) {
	out, err := Marshal(adaptive.DefaultTables())
	require.NoError(t, err)

	back, err := Parse(out)
	require.NoError(t, err)
	assert.Equal(t, adaptive.DefaultTables(), back)
}

func TestStore_Replace(t *testing.T) {
	s := NewStore(nil)
	before := s.Engine()

	bad := adaptive.DefaultTables()
	bad.Units.OtherStep = 0
	require.Error(t, s.Replace(bad))
	assert.Same(t, before, s.Engine())

	good := adaptive.DefaultTables()
	good.Exercise.LoadStep = 5
	require.NoError(t, s.Replace(good))
	assert.NotSame(t, before, s.Engine())
	assert.Equal(t, 5.0, s.Engine().Tables().Exercise.LoadStep)
}
