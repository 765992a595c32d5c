/*
Copyright © 2019 the rasterstack authors.
This file is part of rasterstack.

rasterstack is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

rasterstack is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with rasterstack.  If not, see <http://www.gnu.org/licenses/>.
*/

package rasterstack

import (
	"fmt"
	"io"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// Default plot dimensions.
const (
	PlotWidth  = 8 * vg.Inch
	PlotHeight = 4 * vg.Inch
)

// Plot draws s as a line plot of value against time and writes it to w.
// format is the image format, e.g. "png", "svg" or "pdf". Missing values
// are skipped.
func (s *Series) Plot(w io.Writer, format string) error {
	xys := make(plotter.XYs, 0, s.Len())
	for i, t := range s.Times {
		if math.IsNaN(s.Values[i]) || math.IsInf(s.Values[i], 0) {
			continue
		}
		xys = append(xys, plotter.XY{X: float64(t.Unix()), Y: s.Values[i]})
	}
	if len(xys) == 0 {
		return fmt.Errorf("rasterstack: plotting %s: no valid values", s.Name)
	}

	p := plot.New()
	p.Title.Text = s.Name
	p.X.Label.Text = "time"
	p.Y.Label.Text = s.Name
	p.X.Tick.Marker = plot.TimeTicks{Format: "2006-01"}
	p.Add(plotter.NewGrid())

	l, pts, err := plotter.NewLinePoints(xys)
	if err != nil {
		return fmt.Errorf("rasterstack: plotting %s: %v", s.Name, err)
	}
	pts.Radius = vg.Points(2)
	p.Add(l, pts)

	wt, err := p.WriterTo(PlotWidth, PlotHeight, format)
	if err != nil {
		return fmt.Errorf("rasterstack: plotting %s: %v", s.Name, err)
	}
	if _, err = wt.WriteTo(w); err != nil {
		return fmt.Errorf("rasterstack: writing %s plot: %v", s.Name, err)
	}
	return nil
}
