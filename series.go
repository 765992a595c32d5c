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
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Series is the time series of a single pixel.
type Series struct {
	Name   string
	Times  []time.Time
	Values []float64
}

// Len returns the number of time steps in s.
func (s *Series) Len() int { return len(s.Times) }

// WriteCSV writes s to w as two columns, "time" and s.Name, with one row
// per time step. Missing values are written as empty fields.
func (s *Series) WriteCSV(w io.Writer) error {
	if len(s.Times) != len(s.Values) {
		return fmt.Errorf("rasterstack: series %s has %d times but %d values", s.Name, len(s.Times), len(s.Values))
	}
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"time", s.Name}); err != nil {
		return fmt.Errorf("rasterstack: writing csv: %v", err)
	}
	for i, t := range s.Times {
		if err := cw.Write([]string{DateString(t), formatFloat(s.Values[i])}); err != nil {
			return fmt.Errorf("rasterstack: writing csv: %v", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("rasterstack: writing csv: %v", err)
	}
	return nil
}

// ReadSeriesCSV reads a series in the format written by WriteCSV.
func ReadSeriesCSV(r io.Reader) (*Series, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 2
	cr.TrimLeadingSpace = true
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("rasterstack: reading csv header: %v", err)
	}
	if strings.TrimSpace(header[0]) != "time" {
		return nil, fmt.Errorf("rasterstack: csv first column is %q; want \"time\"", header[0])
	}
	s := &Series{Name: strings.TrimSpace(header[1])}
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, fmt.Errorf("rasterstack: reading csv: %v", err)
		}
		t, err := time.Parse(DateFormat, strings.TrimSpace(rec[0]))
		if err != nil {
			return nil, fmt.Errorf("rasterstack: csv line %d: %v", line, err)
		}
		v := math.NaN()
		if f := strings.TrimSpace(rec[1]); f != "" {
			if v, err = strconv.ParseFloat(f, 64); err != nil {
				return nil, fmt.Errorf("rasterstack: csv line %d: %v", line, err)
			}
		}
		s.Times = append(s.Times, t)
		s.Values = append(s.Values, v)
	}
	return s, nil
}

// Head returns a series holding the first n time steps of s, or all of
// them if s has fewer than n.
func (s *Series) Head(n int) *Series {
	if n > s.Len() {
		n = s.Len()
	}
	if n < 0 {
		n = 0
	}
	o := &Series{
		Name:   s.Name,
		Times:  make([]time.Time, n),
		Values: make([]float64, n),
	}
	copy(o.Times, s.Times)
	copy(o.Values, s.Values)
	return o
}

// Table returns s formatted as an aligned text table for display.
func (s *Series) Table() string {
	b := new(bytes.Buffer)
	w := tabwriter.NewWriter(b, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(w, "time\t%s\t\n", s.Name)
	for i, t := range s.Times {
		v := formatFloat(s.Values[i])
		if v == "" {
			v = "NaN"
		}
		fmt.Fprintf(w, "%s\t%s\t\n", DateString(t), v)
	}
	w.Flush()
	return b.String()
}

// Summary holds descriptive statistics of a series. Missing values are
// excluded from all of them.
type Summary struct {
	Count       int
	Missing     int
	Mean, Std   float64
	Min, Max    float64
	First, Last time.Time
}

// Summary calculates descriptive statistics of s. Statistics of a series
// without valid values are NaN.
func (s *Series) Summary() Summary {
	o := Summary{Mean: math.NaN(), Std: math.NaN(), Min: math.NaN(), Max: math.NaN()}
	if s.Len() > 0 {
		o.First, o.Last = s.Times[0], s.Times[s.Len()-1]
	}
	valid := s.valid()
	o.Count = len(valid)
	o.Missing = s.Len() - o.Count
	switch len(valid) {
	case 0:
		return o
	case 1:
		o.Mean = valid[0]
	default:
		o.Mean, o.Std = stat.MeanStdDev(valid, nil)
	}
	o.Min, o.Max = floats.Min(valid), floats.Max(valid)
	return o
}

func (s Summary) String() string {
	return fmt.Sprintf("count=%d missing=%d mean=%g std=%g min=%g max=%g", s.Count, s.Missing, s.Mean, s.Std, s.Min, s.Max)
}

// valid returns the values of s that are not NaN.
func (s *Series) valid() []float64 {
	o := make([]float64, 0, len(s.Values))
	for _, v := range s.Values {
		if !math.IsNaN(v) {
			o = append(o, v)
		}
	}
	return o
}

// formatFloat formats v for text output, with NaN as an empty string.
func formatFloat(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}
