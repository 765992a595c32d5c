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
	"math"
	"time"

	"github.com/ctessum/geom"
	"github.com/ctessum/sparse"
	"github.com/sirupsen/logrus"
)

// Stack is a time series of rasters that share the same grid.
type Stack struct {
	// Name is the name of the stacked variable, e.g. "AET".
	Name        string
	Description string
	Units       string

	// Times holds the date of each time step, in ascending order.
	Times []time.Time

	// X and Y hold the map coordinates of the pixel centers.
	X, Y []float64

	// Data holds the pixel values with dimensions [time, y, x].
	// Missing values are NaN.
	Data *sparse.DenseArray

	GeoTransform [6]float64
	Projection   string

	// Sources holds the path of the file each time step was read from.
	Sources []string
}

// StackOptions hold the descriptive information for a new Stack.
type StackOptions struct {
	// Name is the variable name. If empty, the part of the first input
	// file name before the first underscore is used.
	Name        string
	Description string
	Units       string

	// Log receives progress messages. If nil, the standard logger is used.
	Log logrus.FieldLogger
}

// NewStack returns a stack with nt time steps whose grid matches
// template. All time steps are initially zero.
func NewStack(name string, nt int, template *Raster) (*Stack, error) {
	if nt <= 0 {
		return nil, ErrNoInputs
	}
	if err := template.check(); err != nil {
		return nil, err
	}
	switch name {
	case "":
		return nil, fmt.Errorf("rasterstack: variable name is empty")
	case "time", "x", "y":
		return nil, fmt.Errorf("rasterstack: variable name %q conflicts with a coordinate name", name)
	}
	gt := template.GeoTransform
	s := &Stack{
		Name:         name,
		Times:        make([]time.Time, nt),
		X:            make([]float64, template.NX),
		Y:            make([]float64, template.NY),
		Data:         sparse.ZerosDense(nt, template.NY, template.NX),
		GeoTransform: gt,
		Projection:   template.Projection,
		Sources:      make([]string, nt),
	}
	for i := range s.X {
		s.X[i] = gt[0] + (float64(i)+0.5)*gt[1]
	}
	for j := range s.Y {
		s.Y[j] = gt[3] + (float64(j)+0.5)*gt[5]
	}
	return s, nil
}

// NX returns the number of columns.
func (s *Stack) NX() int { return s.Data.Shape[2] }

// NY returns the number of rows.
func (s *Stack) NY() int { return s.Data.Shape[1] }

// NT returns the number of time steps.
func (s *Stack) NT() int { return s.Data.Shape[0] }

// SetLayer copies the pixels of r into time step t, which is
// labeled with date.
func (s *Stack) SetLayer(t int, date time.Time, r *Raster) error {
	if t < 0 || t >= s.NT() {
		return fmt.Errorf("rasterstack: time index %d out of range [0, %d)", t, s.NT())
	}
	if err := r.check(); err != nil {
		return err
	}
	if r.NX != s.NX() || r.NY != s.NY() {
		return fmt.Errorf("rasterstack: raster %s is %d×%d but the stack is %d×%d",
			r.Path, r.NX, r.NY, s.NX(), s.NY())
	}
	offset := t * s.NX() * s.NY()
	for i, v := range r.Data {
		if r.isNoData(v) {
			v = math.NaN()
		}
		s.Data.Elements[offset+i] = v
	}
	s.Times[t] = date
	s.Sources[t] = r.Path
	return nil
}

// Concatenate reads each of the inputs, which must be in chronological
// order, and stacks them along a new leading time dimension.
func Concatenate(reader RasterReader, inputs []Input, chunks Chunks, opts StackOptions) (*Stack, error) {
	if len(inputs) == 0 {
		return nil, ErrNoInputs
	}
	log := opts.Log
	if log == nil {
		log = logrus.StandardLogger()
	}
	name := opts.Name
	if name == "" {
		name = filePrefix(inputs[0].Path)
	}
	var s *Stack
	for t, in := range inputs {
		if t > 0 && !in.Date.After(inputs[t-1].Date) {
			return nil, fmt.Errorf("rasterstack: input %s (%s) is not after %s (%s)",
				in.Path, DateString(in.Date), inputs[t-1].Path, DateString(inputs[t-1].Date))
		}
		r, err := reader.ReadRaster(in.Path, chunks)
		if err != nil {
			return nil, fmt.Errorf("rasterstack: reading %s: %v", in.Path, err)
		}
		if s == nil {
			if s, err = NewStack(name, len(inputs), r); err != nil {
				return nil, err
			}
			s.Description = opts.Description
			s.Units = opts.Units
		}
		if err := s.SetLayer(t, in.Date, r); err != nil {
			return nil, err
		}
		log.WithFields(logrus.Fields{
			"file": in.Path,
			"date": DateString(in.Date),
			"step": fmt.Sprintf("%d/%d", t+1, len(inputs)),
		}).Debug("added raster to stack")
	}
	return s, nil
}

// Bounds returns the outer edges of the stack's grid in map coordinates.
func (s *Stack) Bounds() *geom.Bounds {
	gt := s.GeoTransform
	x0, x1 := gt[0], gt[0]+float64(s.NX())*gt[1]
	y0, y1 := gt[3], gt[3]+float64(s.NY())*gt[5]
	return &geom.Bounds{
		Min: geom.Point{X: math.Min(x0, x1), Y: math.Min(y0, y1)},
		Max: geom.Point{X: math.Max(x0, x1), Y: math.Max(y0, y1)},
	}
}

// Pixel returns the time series at column xi and row yi.
func (s *Stack) Pixel(xi, yi int) (*Series, error) {
	if xi < 0 || xi >= s.NX() || yi < 0 || yi >= s.NY() {
		return nil, fmt.Errorf("rasterstack: pixel (x=%d, y=%d) is outside of the %d×%d grid",
			xi, yi, s.NX(), s.NY())
	}
	o := &Series{
		Name:   s.Name,
		Times:  make([]time.Time, s.NT()),
		Values: make([]float64, s.NT()),
	}
	copy(o.Times, s.Times)
	for t := range o.Values {
		o.Values[t] = s.Data.Get(t, yi, xi)
	}
	return o, nil
}

// PixelIndex returns the column and row of the pixel containing map
// coordinate p.
func (s *Stack) PixelIndex(p geom.Point) (xi, yi int, err error) {
	b := s.Bounds()
	if p.X < b.Min.X || p.X > b.Max.X || p.Y < b.Min.Y || p.Y > b.Max.Y {
		return -1, -1, fmt.Errorf("rasterstack: point (%g, %g) is outside of the grid bounds %v", p.X, p.Y, b)
	}
	gt := s.GeoTransform
	xi = int(math.Floor((p.X - gt[0]) / gt[1]))
	yi = int(math.Floor((p.Y - gt[3]) / gt[5]))
	// Points on the far edges belong to the last pixel.
	if xi == s.NX() {
		xi--
	}
	if yi == s.NY() {
		yi--
	}
	return xi, yi, nil
}

// PixelAt returns the time series of the pixel containing map coordinate p.
func (s *Stack) PixelAt(p geom.Point) (*Series, error) {
	xi, yi, err := s.PixelIndex(p)
	if err != nil {
		return nil, err
	}
	return s.Pixel(xi, yi)
}
