/*
 * rplot.go, part of gocryst.
 *
 * Copyright 2024 Raul Mera <rmera{at}chemDOThelsinkiDOTfi>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

//Package rplot draws the usual diagnostic plots of a refinement: Fo against Fc,
//and the z-scores of a comparison between two refinements, block by block.
package rplot

import (
	"fmt"
	"image/color"
	"math"
	"strconv"

	cryst "github.com/rmera/gocryst"
	"github.com/rmera/gocryst/rstat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

//Size is the side of the square plots, in inches.
var Size = 5.0

func basicPlot(title, x, y string) *plot.Plot {
	p := plot.New()
	p.Title.Padding = 3 * vg.Millimeter
	p.Title.Text = title
	p.X.Label.Text = x
	p.Y.Label.Text = y
	p.Add(plotter.NewGrid())
	return p
}

//FoFc plots Fo against Fc for each table in sets, with a different color per set,
//and the Fo=Fc line. The plot is saved to filename, the format is taken from its extension.
//If names is not nil, it must contain one legend entry per set.
func FoFc(sets []cryst.Rows, names []string, title, filename string) error {
	if len(sets) == 0 {
		return fmt.Errorf("goCryst/rplot.FoFc: no data to plot")
	}
	if names != nil && len(names) != len(sets) {
		return fmt.Errorf("goCryst/rplot.FoFc: %d names given for %d data sets", len(names), len(sets))
	}
	p := basicPlot(title, "Fc", "Fo")
	var max float64
	for key, rows := range sets {
		pts := make(plotter.XYs, 0, rows.Len())
		for i := 0; i < rows.Len(); i++ {
			r := rows.Row(i)
			if math.IsNaN(r.Fc) || math.IsNaN(r.Fo) {
				continue
			}
			pts = append(pts, plotter.XY{X: r.Fc, Y: r.Fo})
			max = math.Max(max, math.Max(r.Fc, r.Fo))
		}
		s, err := plotter.NewScatter(pts)
		if err != nil {
			return fmt.Errorf("goCryst/rplot.FoFc: set %d: %w", key, err)
		}
		r, g, b := colors(key, len(sets))
		s.GlyphStyle.Color = color.RGBA{R: r, G: g, B: b, A: 255}
		s.GlyphStyle.Radius = vg.Points(1.5)
		s.GlyphStyle.Shape = draw.CircleGlyph{}
		p.Add(s)
		if names != nil {
			p.Legend.Add(names[key], s)
		}
	}
	ident := plotter.NewFunction(func(x float64) float64 { return x })
	ident.Color = color.Gray{Y: 80}
	ident.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
	p.Add(ident)
	p.X.Min, p.Y.Min = 0, 0
	p.X.Max, p.Y.Max = max*1.05, max*1.05
	p.Legend.Top = true
	p.Legend.Left = true
	return p.Save(vg.Length(Size)*vg.Inch, vg.Length(Size)*vg.Inch, filename)
}

//ZScores plots a bar per line of the comparison, with its z-score. The combined
//line, if present, is labeled "all".
func ZScores(C []rstat.BlockComparison, title, filename string) error {
	if len(C) == 0 {
		return fmt.Errorf("goCryst/rplot.ZScores: no data to plot")
	}
	vals := make(plotter.Values, 0, len(C))
	labels := make([]string, 0, len(C))
	for _, v := range C {
		z := v.Z
		if math.IsNaN(z) {
			z = 0
		}
		vals = append(vals, z)
		if v.Combined {
			labels = append(labels, "all")
			continue
		}
		labels = append(labels, strconv.Itoa(v.Block))
	}
	p := basicPlot(title, "Block", "z")
	bars, err := plotter.NewBarChart(vals, vg.Points(15))
	if err != nil {
		return fmt.Errorf("goCryst/rplot.ZScores: %w", err)
	}
	r, g, b := colors(0, 1)
	bars.Color = color.RGBA{R: r, G: g, B: b, A: 255}
	bars.LineStyle.Width = vg.Length(0)
	p.Add(bars)
	p.NominalX(labels...)
	return p.Save(vg.Length(Size)*vg.Inch, vg.Length(Size)*vg.Inch, filename)
}

//takes hue (0-360), v and s (0-1), returns r,g,b (0-255)
func iHVS2RGB(h, v, s float64) (uint8, uint8, uint8) {
	var r, g, b float64
	maxcolor := 255.0
	conversion := maxcolor * v
	if s == 0.0 {
		return uint8(conversion), uint8(conversion), uint8(conversion)
	}
	h = h / 60
	i := math.Floor(h)
	f := h - i
	p := v * (1 - s)
	q := v * (1 - s*f)
	t := v * (1 - s*(1-f))
	switch int(i) {
	case 0:
		r, g, b = v, t, p
	case 1:
		r, g, b = q, v, p
	case 2:
		r, g, b = p, v, t
	case 3:
		r, g, b = p, q, v
	case 4:
		r, g, b = t, p, v
	default: //case 5
		r, g, b = v, p, q
	}
	return uint8(r * conversion), uint8(g * conversion), uint8(b * conversion)
}

//colors returns the key-th of steps colors spread over the hue circle, skipping yellows,
//which are hard to see on a white background.
func colors(key, steps int) (r, g, b uint8) {
	norm := 260.0 / float64(steps)
	h := float64(key)*norm + 20.0
	if h < 55 {
		h -= 20.0
	} else {
		h += 20.0
	}
	return iHVS2RGB(h, 1, 1)
}
