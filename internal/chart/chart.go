// Package chart renders prescription results as PNG images.
package chart

import (
	"bytes"
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"adaptcoach/internal/adaptive"
	"adaptcoach/internal/i18n"
)

// FactorBreakdown draws one bar per contributing factor's load multiplier and a
// final bar with the clamped total. A dashed line marks 1.0 (no change).
func FactorBreakdown(result adaptive.AdaptiveResult, lang i18n.Language) ([]byte, error) {
	values := make(plotter.Values, 0, len(result.Factors)+1)
	names := make([]string, 0, len(result.Factors)+1)
	for _, d := range result.Factors {
		values = append(values, d.Peso)
		names = append(names, d.Name)
	}
	values = append(values, result.LoadFactor)
	names = append(names, i18n.T("chart.total", lang))

	p := plot.New()
	p.Title.Text = i18n.T("chart.title", lang)
	p.Y.Label.Text = i18n.T("chart.axis", lang)
	p.Y.Min = 0

	bars, err := plotter.NewBarChart(values, vg.Points(28))
	if err != nil {
		return nil, fmt.Errorf("bar chart: %w", err)
	}
	bars.LineStyle.Width = vg.Length(0)
	p.Add(bars)
	p.NominalX(names...)

	neutral := plotter.NewFunction(func(float64) float64 { return 1 })
	neutral.Dashes = []vg.Length{vg.Points(4), vg.Points(3)}
	p.Add(neutral)

	width := 8 * vg.Inch
	if len(values) > 8 {
		width = vg.Length(len(values)) * vg.Inch
	}
	writerTo, err := p.WriterTo(width, 4*vg.Inch, "png")
	if err != nil {
		return nil, fmt.Errorf("render chart: %w", err)
	}

	var buf bytes.Buffer
	if _, err := writerTo.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("encode chart: %w", err)
	}
	return buf.Bytes(), nil
}
