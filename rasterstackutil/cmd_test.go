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
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/BurntSushi/toml"
	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/rasterstack"
	"github.com/spatialmodel/rasterstack/geotiff"
)

// sampleData creates a small set of sample rasters and returns the
// directory they are in.
func sampleData(t *testing.T) string {
	dir := filepath.Join(t.TempDir(), "data")
	cfg := InitializeConfig()
	cfg.Root.SetArgs([]string{"sample",
		"--Sample.OutputDir=" + dir,
		"--Sample.NX=30",
		"--Sample.NY=20",
		"--Sample.Months=3",
	})
	if err := cfg.Root.Execute(); err != nil {
		t.Fatal(err)
	}
	return dir
}

func writeConfig(t *testing.T, v map[string]interface{}) string {
	fname := filepath.Join(t.TempDir(), "config.toml")
	f, err := os.Create(fname)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := toml.NewEncoder(f).Encode(v); err != nil {
		t.Fatal(err)
	}
	return fname
}

func readCSV(t *testing.T, fname string) *rasterstack.Series {
	f, err := os.Open(fname)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	s, err := rasterstack.ReadSeriesCSV(f)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestConvert(t *testing.T) {
	dataDir := sampleData(t)
	outDir := t.TempDir()
	cfgFile := writeConfig(t, map[string]interface{}{
		"InputDir":   dataDir,
		"OutputFile": filepath.Join(outDir, "AET_ok.nc"),
		"CSVFile":    filepath.Join(outDir, "AET_ok.csv"),
		"PlotFile":   filepath.Join(outDir, "AET_ok.png"),
		"Units":      "mm",
		"Chunks":     map[string]interface{}{"X": 7, "Y": 7},
		"Pixel":      map[string]interface{}{"X": 5, "Y": 5},
	})

	cfg := InitializeConfig()
	out := new(bytes.Buffer)
	cfg.Root.SetOut(out)
	cfg.Root.SetArgs([]string{"convert", "--config=" + cfgFile})
	if err := cfg.Root.Execute(); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "1980-12-01") {
		t.Errorf("missing preview table:\n%s", out.String())
	}
	for _, f := range []string{"AET_ok.nc", "AET_ok.csv", "AET_ok.png"} {
		if _, err := os.Stat(filepath.Join(outDir, f)); err != nil {
			t.Error(err)
		}
	}
	s := readCSV(t, filepath.Join(outDir, "AET_ok.csv"))
	if s.Name != "AET" || s.Len() != 3 {
		t.Fatalf("csv has variable %s and %d rows", s.Name, s.Len())
	}
	for i, want := range []string{"1980-10-01", "1980-11-01", "1980-12-01"} {
		if rasterstack.DateString(s.Times[i]) != want {
			t.Errorf("row %d: have %s, want %s", i, rasterstack.DateString(s.Times[i]), want)
		}
	}

	// Extract the same pixel by its coordinate.
	cfg = InitializeConfig()
	cfg.Root.SetOut(new(bytes.Buffer))
	cfg.Root.SetArgs([]string{"extract",
		"--OutputFile=" + filepath.Join(outDir, "AET_ok.nc"),
		"--CSVFile=" + filepath.Join(outDir, "coord.csv"),
		"--Pixel.Coordinate=-119.945,44.945",
	})
	if err := cfg.Root.Execute(); err != nil {
		t.Fatal(err)
	}
	s2 := readCSV(t, filepath.Join(outDir, "coord.csv"))
	if s2.Len() != s.Len() {
		t.Fatalf("have %d rows, want %d", s2.Len(), s.Len())
	}
	for i := range s.Values {
		if s.Values[i] != s2.Values[i] {
			t.Errorf("row %d: have %g, want %g", i, s2.Values[i], s.Values[i])
		}
	}
}

func TestConvert_empty(t *testing.T) {
	cfg := InitializeConfig()
	cfg.Root.SetArgs([]string{"convert",
		"--InputDir=" + t.TempDir(),
		"--OutputFile=" + filepath.Join(t.TempDir(), "AET_ok.nc"),
	})
	if err := cfg.Root.Execute(); err != rasterstack.ErrNoInputs {
		t.Errorf("have error %v, want %v", err, rasterstack.ErrNoInputs)
	}
}

func TestConvert_blob(t *testing.T) {
	dataDir := sampleData(t)
	outDir := t.TempDir()
	opts := &ConvertOptions{
		InputDir:   dataDir,
		Pattern:    "*.tif",
		OutputFile: "file://" + filepath.ToSlash(filepath.Join(outDir, "out", "AET_ok.nc")),
		Chunks:     rasterstack.DefaultChunks,
		Extract: &ExtractOptions{
			Pixel:   Pixel{X: 29, Y: 19},
			CSVFile: "file://" + filepath.ToSlash(filepath.Join(outDir, "out", "AET_ok.csv")),
		},
	}
	s, ts, err := Convert(context.Background(), geotiff.Reader{}, opts, logrus.StandardLogger())
	if err != nil {
		t.Fatal(err)
	}
	if s.NT() != 3 || s.NX() != 30 || s.NY() != 20 {
		t.Errorf("shape: %v", s.Data.Shape)
	}
	// The lower-right corner of the sample rasters is missing.
	if ts.Summary().Count != 0 {
		t.Errorf("have %d valid values, want 0", ts.Summary().Count)
	}
	for _, f := range []string{"AET_ok.nc", "AET_ok.csv"} {
		if _, err := os.Stat(filepath.Join(outDir, "out", f)); err != nil {
			t.Error(err)
		}
	}

	// Blob input directory.
	opts.InputDir = "file://" + filepath.ToSlash(dataDir)
	opts.OutputFile = filepath.Join(outDir, "local.nc")
	opts.Extract = nil
	s2, _, err := Convert(context.Background(), geotiff.Reader{}, opts, logrus.StandardLogger())
	if err != nil {
		t.Fatal(err)
	}
	if s2.NT() != 3 {
		t.Errorf("have %d time steps, want 3", s2.NT())
	}
}

func TestExtract_http(t *testing.T) {
	dataDir := sampleData(t)
	outDir := t.TempDir()
	opts := &ConvertOptions{
		InputDir:   dataDir,
		Pattern:    "*.tif",
		OutputFile: filepath.Join(outDir, "AET_ok.nc"),
	}
	if _, _, err := Convert(context.Background(), geotiff.Reader{}, opts, logrus.StandardLogger()); err != nil {
		t.Fatal(err)
	}
	srv := httptest.NewServer(http.FileServer(http.Dir(outDir)))
	defer srv.Close()

	ts, err := Extract(context.Background(), srv.URL+"/AET_ok.nc", "AET", &ExtractOptions{Pixel: Pixel{X: 0, Y: 0}}, logrus.StandardLogger())
	if err != nil {
		t.Fatal(err)
	}
	if ts.Len() != 3 || ts.Summary().Count != 3 {
		t.Errorf("series: %+v", ts)
	}
	if _, err := Extract(context.Background(), srv.URL+"/nope.nc", "", &ExtractOptions{}, logrus.StandardLogger()); err == nil {
		t.Error("expected an error")
	}
}

func TestDates(t *testing.T) {
	dataDir := sampleData(t)
	cfg := InitializeConfig()
	out := new(bytes.Buffer)
	cfg.Root.SetOut(out)
	cfg.Root.SetArgs([]string{"dates", "--InputDir=" + dataDir})
	if err := cfg.Root.Execute(); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("have %d lines, want 3:\n%s", len(lines), out.String())
	}
	if !strings.HasPrefix(lines[0], "1980-10-01\t") || !strings.HasSuffix(lines[2], "AET_198012_ok.tif") {
		t.Errorf("output:\n%s", out.String())
	}
}

func TestVersion(t *testing.T) {
	cfg := InitializeConfig()
	out := new(bytes.Buffer)
	cfg.Root.SetOut(out)
	cfg.Root.SetArgs([]string{"version"})
	if err := cfg.Root.Execute(); err != nil {
		t.Fatal(err)
	}
	if out.String() != "rasterstack v"+rasterstack.Version+"\n" {
		t.Errorf("have %q", out.String())
	}
}
