package adaptive

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTables_Valid(t *testing.T) {
	require.NoError(t, DefaultTables().Validate())
}

func TestTables_ValidateCollectsEveryProblem(t *testing.T) {
	tb := DefaultTables()
	delete(tb.Exercise.Levels, Advanced)
	tb.Exercise.LoadClamp = Bounds{Min: 0, Max: 1}
	tb.Exercise.AgeBrackets[0].Under = 0
	tb.Nutrition.Clamp.Fats = Bounds{Min: 1.2, Max: 0.8}
	tb.Intensity[Alto] = -1
	tb.Units.MassStep = 0

	err := tb.Validate()
	require.Error(t, err)
	for _, want := range []string{
		"exercise.levels[Advanced]",
		"exercise.load_clamp",
		"exercise.age_brackets[0]: only the last bracket may be open",
		"nutrition.clamp.fats",
		"intensity[Alto]",
		"units: steps must be positive",
	} {
		assert.ErrorContains(t, err, want)
	}
}

func TestBounds_Clamp(t *testing.T) {
	b := Bounds{Min: 0.5, Max: 1.5}

	v, capped := b.Clamp(0.2)
	assert.Equal(t, 0.5, v)
	assert.True(t, capped)

	v, capped = b.Clamp(1.7)
	assert.Equal(t, 1.5, v)
	assert.True(t, capped)

	v, capped = b.Clamp(1.1)
	assert.Equal(t, 1.1, v)
	assert.False(t, capped)
}

func TestNewEngine_NilUsesDefaults(t *testing.T) {
	e := NewEngine(nil)
	assert.Equal(t, DefaultTables(), e.Tables())
}
