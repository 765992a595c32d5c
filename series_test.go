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
	"math"
	"strings"
	"testing"
	"time"
)

func testSeries() *Series {
	return &Series{
		Name: "AET",
		Times: []time.Time{
			time.Date(1980, 10, 1, 0, 0, 0, 0, time.UTC),
			time.Date(1980, 11, 1, 0, 0, 0, 0, time.UTC),
			time.Date(1980, 12, 1, 0, 0, 0, 0, time.UTC),
			time.Date(1981, 1, 1, 0, 0, 0, 0, time.UTC),
		},
		Values: []float64{1.5, math.NaN(), 3, 4.5},
	}
}

func TestSeriesWriteCSV(t *testing.T) {
	b := new(bytes.Buffer)
	if err := testSeries().WriteCSV(b); err != nil {
		t.Fatal(err)
	}
	want := `time,AET
1980-10-01,1.5
1980-11-01,
1980-12-01,3
1981-01-01,4.5
`
	if b.String() != want {
		t.Errorf("have\n%s\nwant\n%s", b.String(), want)
	}

	s, err := ReadSeriesCSV(strings.NewReader(want))
	if err != nil {
		t.Fatal(err)
	}
	if s.Name != "AET" || s.Len() != 4 {
		t.Fatalf("have %s with %d rows", s.Name, s.Len())
	}
	if !math.IsNaN(s.Values[1]) || s.Values[3] != 4.5 {
		t.Errorf("values: %v", s.Values)
	}
	if !s.Times[3].Equal(time.Date(1981, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("time: %v", s.Times[3])
	}
}

func TestReadSeriesCSV_bad(t *testing.T) {
	for _, in := range []string{
		"",
		"date,AET\n1980-10-01,1\n",
		"time,AET\n1980-10,1\n",
		"time,AET\n1980-10-01,abc\n",
	} {
		if _, err := ReadSeriesCSV(strings.NewReader(in)); err == nil {
			t.Errorf("%q: expected an error", in)
		}
	}
}

func TestSeriesHead(t *testing.T) {
	s := testSeries()
	h := s.Head(2)
	if h.Len() != 2 || h.Values[0] != 1.5 {
		t.Errorf("head: %+v", h)
	}
	if s.Head(10).Len() != 4 {
		t.Error("head longer than series")
	}
	table := s.Head(5).Table()
	if !strings.Contains(table, "1980-11-01") || !strings.Contains(table, "NaN") {
		t.Errorf("table:\n%s", table)
	}
}

func TestSeriesSummary(t *testing.T) {
	sum := testSeries().Summary()
	if sum.Count != 3 || sum.Missing != 1 {
		t.Errorf("count: %d, missing: %d", sum.Count, sum.Missing)
	}
	if sum.Mean != 3 || sum.Min != 1.5 || sum.Max != 4.5 {
		t.Errorf("summary: %v", sum)
	}
	if sum.Std != 1.5 {
		t.Errorf("std: have %g, want 1.5", sum.Std)
	}
	empty := (&Series{Name: "AET"}).Summary()
	if empty.Count != 0 || !math.IsNaN(empty.Mean) {
		t.Errorf("empty summary: %v", empty)
	}
}

func TestSeriesPlot(t *testing.T) {
	b := new(bytes.Buffer)
	if err := testSeries().Plot(b, "png"); err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(b.Bytes(), []byte("\x89PNG")) {
		t.Error("output is not a png image")
	}
	missing := &Series{Name: "AET", Times: testSeries().Times[:1], Values: []float64{math.NaN()}}
	if err := missing.Plot(new(bytes.Buffer), "png"); err == nil {
		t.Error("expected an error")
	}
}
