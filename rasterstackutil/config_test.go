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

package rasterstackutil

import (
	"path/filepath"
	"testing"

	"github.com/ctessum/geom"
)

func TestPixel(t *testing.T) {
	cfg := InitializeConfig()
	p, err := cfg.pixel()
	if err != nil {
		t.Fatal(err)
	}
	if p.X != 200 || p.Y != 200 || p.Coordinate != nil {
		t.Errorf("default pixel: %+v", p)
	}

	cfg.Set("Pixel.Coordinate", []interface{}{-119.5, "44.25"})
	p, err = cfg.pixel()
	if err != nil {
		t.Fatal(err)
	}
	if p.Coordinate == nil || *p.Coordinate != (geom.Point{X: -119.5, Y: 44.25}) {
		t.Errorf("coordinate: %+v", p.Coordinate)
	}

	cfg.Set("Pixel.Coordinate", "1,2,3")
	if _, err = cfg.pixel(); err == nil {
		t.Error("expected an error")
	}
	cfg.Set("Pixel.Coordinate", "1,abc")
	if _, err = cfg.pixel(); err == nil {
		t.Error("expected an error")
	}
}

func TestPixel_env(t *testing.T) {
	t.Setenv("RASTERSTACK_PIXEL_X", "12")
	t.Setenv("RASTERSTACK_PIXEL_COORDINATE", "3.5,4.5")
	cfg := InitializeConfig()
	p, err := cfg.pixel()
	if err != nil {
		t.Fatal(err)
	}
	if p.X != 12 {
		t.Errorf("have x=%d, want 12", p.X)
	}
	if p.Coordinate == nil || *p.Coordinate != (geom.Point{X: 3.5, Y: 4.5}) {
		t.Errorf("coordinate: %+v", p.Coordinate)
	}
}

func TestCheckOutputFile(t *testing.T) {
	dir := t.TempDir()
	if _, err := checkOutputFile("OutputFile", "", false); err == nil {
		t.Error("expected an error for a missing file")
	}
	if f, err := checkOutputFile("CSVFile", "", true); err != nil || f != "" {
		t.Errorf("optional file: %q, %v", f, err)
	}
	t.Setenv("RASTERSTACK_TEST_DIR", dir)
	f, err := checkOutputFile("OutputFile", "${RASTERSTACK_TEST_DIR}/AET_ok.nc", false)
	if err != nil {
		t.Fatal(err)
	}
	if f != filepath.Join(dir, "AET_ok.nc") {
		t.Errorf("have %s", f)
	}
	if _, err := checkOutputFile("OutputFile", filepath.Join(dir, "nope", "AET_ok.nc"), false); err == nil {
		t.Error("expected an error for a missing directory")
	}
	if _, err := checkOutputFile("OutputFile", "http://example.com/AET_ok.nc", false); err == nil {
		t.Error("expected an error for an http location")
	}
	if _, err := checkOutputFile("OutputFile", "file://"+filepath.ToSlash(dir)+"/AET_ok.nc", false); err != nil {
		t.Error(err)
	}
}

func TestCheckPlotFormat(t *testing.T) {
	for f, want := range map[string]string{
		"":            "",
		"AET_ok.png":  "png",
		"plot.SVG":    "svg",
		"a/b/c.pdf":   "pdf",
		"AET_ok.jpeg": "jpeg",
	} {
		have, err := checkPlotFormat(f)
		if err != nil {
			t.Errorf("%s: %v", f, err)
		}
		if have != want {
			t.Errorf("%s: have %s, want %s", f, have, want)
		}
	}
	if _, err := checkPlotFormat("AET_ok.bmp"); err == nil {
		t.Error("expected an error")
	}
}

func TestSampleConfig(t *testing.T) {
	cfg := InitializeConfig()
	sc, err := cfg.sampleConfig()
	if err != nil {
		t.Fatal(err)
	}
	if sc.Start.Year() != 1980 || sc.Start.Month() != 10 || sc.Months != 12 || sc.Prefix != "AET" {
		t.Errorf("sample config: %+v", sc)
	}
	cfg.Set("Sample.Start", "1980-10")
	if _, err := cfg.sampleConfig(); err == nil {
		t.Error("expected an error")
	}
}
