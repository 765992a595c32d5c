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
	"os"
	"strings"
	"time"

	"github.com/ctessum/cdf"
	"github.com/ctessum/sparse"
	"github.com/spatialmodel/rasterstack/internal/hash"
)

// TimeUnits are the units of the time coordinate in output files.
const TimeUnits = "days since 1970-01-01 00:00:00"

// fillValue marks missing values in output files. It is the NetCDF
// default fill value for the float type.
const fillValue = float32(9.9692099683868690e+36)

// Write writes s to NetCDF file w. Time is stored as the record
// dimension, so each time step is written as one record.
func (s *Stack) Write(w *os.File) error {
	nt, ny, nx := s.NT(), s.NY(), s.NX()
	if len(s.Times) != nt || len(s.X) != nx || len(s.Y) != ny {
		return fmt.Errorf("rasterstack: writing netcdf: coordinate lengths (%d, %d, %d) do not match data shape %v",
			len(s.Times), len(s.Y), len(s.X), s.Data.Shape)
	}

	h := cdf.NewHeader([]string{"time", "y", "x"}, []int{0, ny, nx})
	h.AddAttribute("", "comment", "Time series of rasters created by rasterstack")
	h.AddAttribute("", "Conventions", "CF-1.6")
	h.AddAttribute("", "rasterstack_version", Version)
	h.AddAttribute("", "geotransform", s.GeoTransform[:])
	h.AddAttribute("", "source_fingerprint", hash.Sources(s.Sources, s.Times))
	if s.Projection != "" {
		h.AddAttribute("", "crs_wkt", s.Projection)
	}

	h.AddVariable("time", []string{"time"}, []float64{0})
	h.AddAttribute("time", "standard_name", "time")
	h.AddAttribute("time", "units", TimeUnits)
	h.AddAttribute("time", "calendar", "standard")

	xName, yName, xUnits, yUnits := coordinateInfo(s.Projection)
	h.AddVariable("y", []string{"y"}, []float64{0})
	h.AddAttribute("y", "standard_name", yName)
	h.AddAttribute("y", "units", yUnits)
	h.AddVariable("x", []string{"x"}, []float64{0})
	h.AddAttribute("x", "standard_name", xName)
	h.AddAttribute("x", "units", xUnits)

	h.AddVariable(s.Name, []string{"time", "y", "x"}, []float32{0})
	h.AddAttribute(s.Name, "description", s.Description)
	h.AddAttribute(s.Name, "units", s.Units)
	h.AddAttribute(s.Name, "_FillValue", []float32{fillValue})
	h.Define()

	f, err := cdf.Create(w, h) // writes the header to w
	if err != nil {
		return fmt.Errorf("rasterstack: writing netcdf header: %v", err)
	}

	if _, err = f.Writer("x", []int{0}, f.Header.Lengths("x")).Write(s.X); err != nil {
		return fmt.Errorf("rasterstack: writing netcdf variable x: %v", err)
	}
	if _, err = f.Writer("y", []int{0}, f.Header.Lengths("y")).Write(s.Y); err != nil {
		return fmt.Errorf("rasterstack: writing netcdf variable y: %v", err)
	}
	days := make([]float64, nt)
	for i, t := range s.Times {
		days[i] = float64(t.Unix()) / secondsPerDay
	}
	if _, err = f.Writer("time", []int{0}, nil).Write(days); err != nil {
		return fmt.Errorf("rasterstack: writing netcdf variable time: %v", err)
	}

	layer := make([]float32, nx*ny)
	for t := 0; t < nt; t++ {
		for i, v := range s.Data.Elements[t*nx*ny : (t+1)*nx*ny] {
			if math.IsNaN(v) {
				layer[i] = fillValue
			} else {
				layer[i] = float32(v)
			}
		}
		if _, err = f.Writer(s.Name, []int{t, 0, 0}, nil).Write(layer); err != nil {
			return fmt.Errorf("rasterstack: writing netcdf variable %s time step %d: %v", s.Name, t, err)
		}
	}
	if err = cdf.UpdateNumRecs(w); err != nil {
		return fmt.Errorf("rasterstack: updating netcdf record count: %v", err)
	}
	return nil
}

const secondsPerDay = 24 * 60 * 60

// coordinateInfo returns the CF standard names and units of the x and y
// coordinates for the given WKT projection.
func coordinateInfo(wkt string) (xName, yName, xUnits, yUnits string) {
	switch {
	case strings.HasPrefix(strings.TrimSpace(wkt), "GEOGCS"):
		return "longitude", "latitude", "degrees_east", "degrees_north"
	case wkt == "":
		return "projection_x_coordinate", "projection_y_coordinate", "1", "1"
	default:
		return "projection_x_coordinate", "projection_y_coordinate", "m", "m"
	}
}

// LoadStack reads a stack from NetCDF file f. name is the name of the
// variable to read; if it is empty, the first variable with dimensions
// [time, y, x] is used.
func LoadStack(f *os.File, name string) (*Stack, error) {
	ff, err := cdf.Open(f)
	if err != nil {
		return nil, fmt.Errorf("rasterstack: opening netcdf file: %v", err)
	}
	fi, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("rasterstack: opening netcdf file: %v", err)
	}
	if name == "" {
		for _, v := range ff.Header.Variables() {
			dims := ff.Header.Dimensions(v)
			if len(dims) == 3 && dims[0] == "time" && dims[1] == "y" && dims[2] == "x" {
				name = v
				break
			}
		}
		if name == "" {
			return nil, fmt.Errorf("rasterstack: netcdf file has no variable with dimensions [time, y, x]")
		}
	}
	dims := ff.Header.Dimensions(name)
	if len(dims) != 3 || dims[0] != "time" || dims[1] != "y" || dims[2] != "x" {
		return nil, fmt.Errorf("rasterstack: netcdf variable %s has dimensions %v; want [time y x]", name, dims)
	}
	lengths := ff.Header.Lengths(name)
	ny, nx := lengths[1], lengths[2]
	nt := int(ff.Header.NumRecs(fi.Size()))
	if nt <= 0 {
		return nil, fmt.Errorf("rasterstack: netcdf variable %s has no time steps", name)
	}

	s := &Stack{
		Name:        name,
		Description: stringAttribute(ff, name, "description"),
		Units:       stringAttribute(ff, name, "units"),
		Projection:  stringAttribute(ff, "", "crs_wkt"),
		Data:        sparse.ZerosDense(nt, ny, nx),
		Sources:     make([]string, nt),
	}
	s.GeoTransform = IdentityGeoTransform
	if gt, ok := ff.Header.GetAttribute("", "geotransform").([]float64); ok && len(gt) == 6 {
		copy(s.GeoTransform[:], gt)
	}

	if s.X, err = readNCFCoord(ff, "x", nil, nil); err != nil {
		return nil, err
	}
	if s.Y, err = readNCFCoord(ff, "y", nil, nil); err != nil {
		return nil, err
	}
	if len(s.X) != nx || len(s.Y) != ny {
		return nil, fmt.Errorf("rasterstack: netcdf coordinate lengths (%d, %d) do not match variable %s (%d, %d)",
			len(s.Y), len(s.X), name, ny, nx)
	}
	tv, err := readNCFCoord(ff, "time", []int{0}, []int{nt})
	if err != nil {
		return nil, err
	}
	unit, epoch, err := parseTimeUnits(stringAttribute(ff, "time", "units"))
	if err != nil {
		return nil, err
	}
	s.Times = make([]time.Time, nt)
	for i, v := range tv {
		s.Times[i] = epoch.Add(time.Duration(math.Round(v * float64(unit)))).UTC()
	}

	fill := math.NaN()
	switch fv := ff.Header.FillValue(name).(type) {
	case float32:
		fill = float64(fv)
	case float64:
		fill = fv
	}
	for t := 0; t < nt; t++ {
		r := ff.Reader(name, []int{t, 0, 0}, []int{t + 1, 0, 0})
		buf := r.Zero(nx * ny)
		if _, err := r.Read(buf); err != nil {
			return nil, fmt.Errorf("rasterstack: reading netcdf variable %s time step %d: %v", name, t, err)
		}
		layer, err := toFloat64(buf)
		if err != nil {
			return nil, fmt.Errorf("rasterstack: reading netcdf variable %s: %v", name, err)
		}
		dst := s.Data.Elements[t*nx*ny : (t+1)*nx*ny]
		for i, v := range layer {
			if v == fill {
				v = math.NaN()
			}
			dst[i] = v
		}
	}
	return s, nil
}

// readNCFCoord reads a numeric variable from ff as float64 values.
func readNCFCoord(ff *cdf.File, v string, begin, end []int) ([]float64, error) {
	if ff.Header.Lengths(v) == nil {
		return nil, fmt.Errorf("rasterstack: netcdf variable %s not in file", v)
	}
	n := ff.Header.Lengths(v)[0]
	if end != nil {
		n = end[0] - begin[0]
	}
	r := ff.Reader(v, begin, end)
	buf := r.Zero(n)
	if _, err := r.Read(buf); err != nil {
		return nil, fmt.Errorf("rasterstack: reading netcdf variable %s: %v", v, err)
	}
	o, err := toFloat64(buf)
	if err != nil {
		return nil, fmt.Errorf("rasterstack: reading netcdf variable %s: %v", v, err)
	}
	return o, nil
}

// toFloat64 converts a buffer returned by cdf.Reader.Zero to float64 values.
func toFloat64(buf interface{}) ([]float64, error) {
	switch b := buf.(type) {
	case []float64:
		return b, nil
	case []float32:
		o := make([]float64, len(b))
		for i, v := range b {
			o[i] = float64(v)
		}
		return o, nil
	case []int32:
		o := make([]float64, len(b))
		for i, v := range b {
			o[i] = float64(v)
		}
		return o, nil
	case []int16:
		o := make([]float64, len(b))
		for i, v := range b {
			o[i] = float64(v)
		}
		return o, nil
	default:
		return nil, fmt.Errorf("unsupported data type %T", buf)
	}
}

// stringAttribute returns attribute a of variable v, or an empty string
// if it doesn't exist or isn't text.
func stringAttribute(ff *cdf.File, v, a string) string {
	s, _ := ff.Header.GetAttribute(v, a).(string)
	return s
}

// parseTimeUnits parses CF time units such as
// "days since 1970-01-01 00:00:00".
func parseTimeUnits(units string) (time.Duration, time.Time, error) {
	parts := strings.SplitN(strings.TrimSpace(units), " since ", 2)
	if len(parts) != 2 {
		return 0, time.Time{}, fmt.Errorf("rasterstack: invalid netcdf time units %q", units)
	}
	var unit time.Duration
	switch strings.ToLower(parts[0]) {
	case "days", "day", "d":
		unit = 24 * time.Hour
	case "hours", "hour", "h":
		unit = time.Hour
	case "minutes", "minute", "min":
		unit = time.Minute
	case "seconds", "second", "s":
		unit = time.Second
	default:
		return 0, time.Time{}, fmt.Errorf("rasterstack: unsupported netcdf time unit %q", parts[0])
	}
	ref := strings.TrimSpace(parts[1])
	for _, layout := range []string{"2006-01-02 15:04:05", "2006-01-02T15:04:05", "2006-01-02 15:04", "2006-01-02", "2006-1-2 15:04:05", "2006-1-2"} {
		if t, err := time.Parse(layout, ref); err == nil {
			return unit, t, nil
		}
	}
	return 0, time.Time{}, fmt.Errorf("rasterstack: invalid reference date in netcdf time units %q", units)
}
