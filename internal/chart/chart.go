// Package chart renders estimator sweeps as PNG line charts.
package chart

import (
	"errors"
	"fmt"
	"image/color"
	"io"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/mr1hm/go-crop-advisor/internal/estimator"
)

const (
	Width  = 8 * vg.Inch
	Height = 5 * vg.Inch
)

var ErrEmptySweep = errors.New("sweep has no points")

var lineColor = color.RGBA{R: 34, G: 139, B: 34, A: 255}

func New(s estimator.Sweep) (*plot.Plot, error) {
	if len(s.Points) == 0 {
		return nil, ErrEmptySweep
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s yield vs %s", s.Crop, s.Parameter)
	p.Title.TextStyle.Font.Size = vg.Points(14)
	p.X.Label.Text = fmt.Sprintf("%s (%s)", s.Parameter, s.Unit)
	p.Y.Label.Text = "yield (tonnes/hectare)"
	p.Y.Min = 0

	xys := make(plotter.XYs, len(s.Points))
	for i, pt := range s.Points {
		xys[i].X = pt.Input
		xys[i].Y = pt.Yield
	}

	line, err := plotter.NewLine(xys)
	if err != nil {
		return nil, fmt.Errorf("error creating line: %w", err)
	}
	line.LineStyle.Width = vg.Points(2)
	line.LineStyle.Color = lineColor

	points, err := plotter.NewScatter(xys)
	if err != nil {
		return nil, fmt.Errorf("error creating scatter: %w", err)
	}
	points.GlyphStyle.Shape = draw.CircleGlyph{}
	points.GlyphStyle.Radius = vg.Points(3)
	points.GlyphStyle.Color = lineColor

	p.Add(plotter.NewGrid(), line, points)
	return p, nil
}

// RenderSweep writes the sweep as a PNG image to w.
func RenderSweep(w io.Writer, s estimator.Sweep) error {
	p, err := New(s)
	if err != nil {
		return err
	}
	wt, err := p.WriterTo(Width, Height, "png")
	if err != nil {
		return fmt.Errorf("error creating png writer: %w", err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("error writing png: %w", err)
	}
	return nil
}
