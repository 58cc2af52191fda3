// Package chart draws the aggregate and outlier views of an analysis bundle
// as PNG images.
package chart

import (
	"fmt"
	"image/color"
	"log/slog"
	"math"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/KaramelBytes/profitlens/internal/analysis"
	"github.com/KaramelBytes/profitlens/internal/utils"
)

var (
	barColor  = color.RGBA{R: 70, G: 130, B: 180, A: 255}
	lineColor = color.RGBA{R: 0, G: 100, B: 0, A: 255}
	boxColor  = color.RGBA{R: 139, G: 0, B: 0, A: 255}
)

// RenderAll writes one chart per non-empty aggregate and a boxplot for every
// field with outliers into dir. It returns the written paths.
func RenderAll(b *analysis.Bundle, dir string) ([]string, error) {
	if err := utils.EnsureDir(dir); err != nil {
		return nil, fmt.Errorf("create chart dir: %w", err)
	}
	var written []string
	add := func(name string, p *plot.Plot, w, h vg.Length) error {
		if p == nil {
			return nil
		}
		path := filepath.Join(dir, name)
		if err := p.Save(w, h, path); err != nil {
			return fmt.Errorf("save %s: %w", name, err)
		}
		written = append(written, path)
		return nil
	}

	bars := []struct {
		file  string
		title string
		agg   analysis.Aggregate
	}{
		{"profit_by_product.png", "Profit by product", b.ByProduct},
		{"profit_by_location.png", "Profit by location", b.ByLocation},
		{"profit_by_year.png", "Profit by year", b.ByYear},
	}
	for _, c := range bars {
		p, err := Bar(c.title, c.agg)
		if err != nil {
			return written, err
		}
		if err := add(c.file, p, 12*vg.Inch, 6*vg.Inch); err != nil {
			return written, err
		}
	}

	p, err := Line("Monthly profit", b.ByMonth)
	if err != nil {
		return written, err
	}
	if err := add("profit_by_month.png", p, 12*vg.Inch, 6*vg.Inch); err != nil {
		return written, err
	}

	if b.Outliers != nil {
		for _, d := range b.Outliers.Distributions {
			p, err := Box(d)
			if err != nil {
				return written, err
			}
			name := "boxplot_" + utils.SafeFileName(d.Field) + ".png"
			if err := add(name, p, 6*vg.Inch, 8*vg.Inch); err != nil {
				return written, err
			}
		}
	}
	slog.Debug("charts rendered", "dir", dir, "count", len(written))
	return written, nil
}

// Bar draws an aggregate as a bar chart with one nominal tick per group.
// It returns nil for an empty aggregate.
func Bar(title string, a analysis.Aggregate) (*plot.Plot, error) {
	if len(a.Groups) == 0 {
		return nil, nil
	}
	p := plot.New()
	p.Title.Text = title
	p.Title.TextStyle.Font.Size = vg.Points(16)
	p.X.Label.Text = a.Field
	p.Y.Label.Text = "Profit"

	values := make(plotter.Values, len(a.Groups))
	labels := make([]string, len(a.Groups))
	for i, g := range a.Groups {
		values[i] = g.Sum
		labels[i] = g.Key
	}
	bars, err := plotter.NewBarChart(values, vg.Points(20))
	if err != nil {
		return nil, fmt.Errorf("bar chart %q: %w", title, err)
	}
	bars.Color = barColor
	bars.LineStyle.Width = vg.Length(0)
	p.Add(bars)
	p.Add(plotter.NewGrid())

	p.NominalX(labels...)
	if len(labels) > 6 {
		p.X.Tick.Label.Rotation = math.Pi / 4
		p.X.Tick.Label.YAlign = draw.YCenter
		p.X.Tick.Label.XAlign = draw.XRight
	}
	if lo := minSum(a); lo > 0 {
		p.Y.Min = 0
	}
	return p, nil
}

// Line draws the month aggregate as a line through the months present.
func Line(title string, a analysis.Aggregate) (*plot.Plot, error) {
	if len(a.Groups) == 0 {
		return nil, nil
	}
	p := plot.New()
	p.Title.Text = title
	p.Title.TextStyle.Font.Size = vg.Points(16)
	p.X.Label.Text = a.Field
	p.Y.Label.Text = "Profit"

	points := make(plotter.XYs, len(a.Groups))
	labels := make([]string, len(a.Groups))
	for i, g := range a.Groups {
		points[i].X = float64(i)
		points[i].Y = g.Sum
		labels[i] = g.Key
	}
	line, pts, err := plotter.NewLinePoints(points)
	if err != nil {
		return nil, fmt.Errorf("line chart %q: %w", title, err)
	}
	line.Color = lineColor
	line.Width = vg.Points(2)
	pts.GlyphStyle.Shape = draw.CircleGlyph{}
	pts.GlyphStyle.Color = lineColor
	p.Add(line, pts)
	p.Add(plotter.NewGrid())
	p.NominalX(labels...)
	return p, nil
}

// Box draws the distribution of one field as a boxplot.
func Box(d analysis.Distribution) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = "Boxplot " + d.Field
	p.Title.TextStyle.Font.Size = vg.Points(16)
	p.Y.Label.Text = d.Field

	box, err := plotter.NewBoxPlot(vg.Points(60), 0, plotter.Values(d.Values))
	if err != nil {
		return nil, fmt.Errorf("boxplot %q: %w", d.Field, err)
	}
	box.FillColor = color.RGBA{R: 176, G: 196, B: 222, A: 255}
	box.MedianStyle.Color = boxColor
	box.GlyphStyle.Color = boxColor
	p.Add(box)
	p.NominalX(d.Field)
	return p, nil
}

func minSum(a analysis.Aggregate) float64 {
	lo := math.Inf(1)
	for _, g := range a.Groups {
		lo = math.Min(lo, g.Sum)
	}
	return lo
}
