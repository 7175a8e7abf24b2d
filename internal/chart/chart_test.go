package chart

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adaptcoach/internal/adaptive"
	"adaptcoach/internal/i18n"
)

func TestFactorBreakdown(t *testing.T) {
	result := adaptive.ReconstructPrescription(
		adaptive.Baseline{Sets: 4, Reps: 8, LoadKg: 80},
		adaptive.NewProfile(adaptive.RawProfile{TrainingLevel: "avanzado", Ages: []int{40}, Injuries: []string{"hombro_high"}}),
	)

	data, err := FactorBreakdown(result, i18n.LangSpanish)
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Greater(t, img.Bounds().Dx(), img.Bounds().Dy())
}

func TestFactorBreakdown_EmptyResult(t *testing.T) {
	data, err := FactorBreakdown(adaptive.AdaptiveResult{LoadFactor: 1}, i18n.LangEnglish)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("\x89PNG")))
}
