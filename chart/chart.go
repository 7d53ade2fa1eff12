// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package chart renders aggregate reports as images.
package chart

import (
	"errors"
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"golang.org/x/benchagg/report"
)

// Options controls chart layout.
type Options struct {
	Title  string
	XLabel string
	YLabel string

	// LogScale uses a logarithmic Y axis. Every minimum must
	// then be positive.
	LogScale bool

	// Width and Height default to 8x5 inches.
	Width, Height vg.Length
}

// entries adapts report entries to plotter.XYer and
// plotter.YErrorer. Y is the median; the error bars span min to max.
type entries []report.Entry

func (es entries) Len() int {
	return len(es)
}

func (es entries) XY(i int) (x, y float64) {
	return float64(es[i].Key), es[i].Median.Float()
}

func (es entries) YError(i int) (low, high float64) {
	e := es[i]
	return e.Median.Float() - e.Min.Float(), e.Max.Float() - e.Median.Float()
}

// Plot builds a plot of es: a line through the medians, with error
// bars from the minimum to the maximum of each key.
func Plot(es []report.Entry, opts Options) (*plot.Plot, error) {
	if len(es) == 0 {
		return nil, errors.New("chart: no data to plot")
	}
	if opts.LogScale {
		for _, e := range es {
			if !(e.Min.Float() > 0) {
				return nil, fmt.Errorf("chart: key %d has non-positive minimum %v; cannot use a log scale", e.Key, e.Min)
			}
		}
	}

	p := plot.New()
	p.Title.Text = opts.Title
	p.X.Label.Text = opts.XLabel
	p.Y.Label.Text = opts.YLabel
	if opts.LogScale {
		p.Y.Scale = plot.LogScale{}
		p.Y.Tick.Marker = plot.LogTicks{}
	}

	grid := plotter.NewGrid()
	grid.Vertical.Color = nil
	p.Add(grid)

	data := entries(es)
	line, points, err := plotter.NewLinePoints(data)
	if err != nil {
		return nil, fmt.Errorf("chart: %w", err)
	}
	line.Color = color.RGBA{R: 0x1f, G: 0x77, B: 0xb4, A: 0xff}
	points.Color = line.Color
	points.Radius = vg.Points(2)

	bars, err := plotter.NewYErrorBars(data)
	if err != nil {
		return nil, fmt.Errorf("chart: %w", err)
	}
	bars.Color = color.Gray{Y: 0x60}

	p.Add(bars, line, points)
	return p, nil
}

// Render plots es and saves the image to path. The image format is
// taken from the file extension (png, svg, pdf, ...).
func Render(es []report.Entry, path string, opts Options) error {
	p, err := Plot(es, opts)
	if err != nil {
		return err
	}
	w, h := opts.Width, opts.Height
	if w == 0 {
		w = 8 * vg.Inch
	}
	if h == 0 {
		h = 5 * vg.Inch
	}
	return p.Save(w, h, path)
}
