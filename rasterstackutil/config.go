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
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ctessum/geom"
	"github.com/spatialmodel/rasterstack"
	"github.com/spatialmodel/rasterstack/cloud"
	"github.com/spf13/cast"
)

// isRemote returns whether path refers to a file that must be
// downloaded or uploaded.
func isRemote(path string) bool {
	return cloud.IsBlob(path) || isHTTP(path)
}

func isHTTP(path string) bool {
	return strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://")
}

// checkInputDir makes sure the input directory is specified, and
// expands any environment variables.
func checkInputDir(dir string) (string, error) {
	if dir == "" {
		return "", fmt.Errorf("rasterstack: you need to specify an input directory (for example: InputDir=\"../data\")")
	}
	return os.ExpandEnv(dir), nil
}

// checkInputFile makes sure the input file is specified, and
// expands any environment variables.
func checkInputFile(f string) (string, error) {
	if f == "" {
		return "", fmt.Errorf("rasterstack: you need to specify a NetCDF file (for example: OutputFile=\"AET_ok.nc\")")
	}
	return os.ExpandEnv(f), nil
}

// checkOutputFile makes sure that the directory of output file f
// exists, and expands any environment variables. Empty paths are
// allowed if optional is true.
func checkOutputFile(varName, f string, optional bool) (string, error) {
	if f == "" {
		if optional {
			return "", nil
		}
		return "", fmt.Errorf("rasterstack: you need to specify an output file configuration variable (for example: %s=\"AET_ok.nc\")", varName)
	}
	f = os.ExpandEnv(f)
	if cloud.IsBlob(f) {
		bucket, _, err := cloud.Split(context.TODO(), f)
		if err != nil {
			return f, fmt.Errorf("rasterstack: error when checking %s location: %v", varName, err)
		}
		bucket.Close()
		return f, nil
	}
	if isHTTP(f) {
		return f, fmt.Errorf("rasterstack: %s cannot be an http location", varName)
	}
	outdir := filepath.Dir(f)
	if _, err := os.Stat(outdir); err != nil {
		return f, fmt.Errorf("rasterstack: the %s directory doesn't exist: %v", varName, err)
	}
	return f, nil
}

// checkPlotFormat returns the image format of plot file f.
func checkPlotFormat(f string) (string, error) {
	if f == "" {
		return "", nil
	}
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(f), "."))
	switch ext {
	case "png", "jpg", "jpeg", "svg", "pdf", "eps", "tif", "tiff":
		return ext, nil
	default:
		return "", fmt.Errorf("rasterstack: unsupported PlotFile format %q", filepath.Ext(f))
	}
}

// pixel returns the pixel selection from the configuration.
func (cfg *Cfg) pixel() (Pixel, error) {
	p := Pixel{X: cfg.GetInt("Pixel.X"), Y: cfg.GetInt("Pixel.Y")}
	c, err := toStringSliceE(cfg.Get("Pixel.Coordinate"))
	if err != nil {
		return p, fmt.Errorf("rasterstack: invalid Pixel.Coordinate: %v", err)
	}
	if len(c) == 0 {
		return p, nil
	}
	if len(c) != 2 {
		return p, fmt.Errorf("rasterstack: Pixel.Coordinate must have 2 values (x,y) but has %d", len(c))
	}
	var pt geom.Point
	if pt.X, err = cast.ToFloat64E(strings.TrimSpace(c[0])); err != nil {
		return p, fmt.Errorf("rasterstack: invalid Pixel.Coordinate: %v", err)
	}
	if pt.Y, err = cast.ToFloat64E(strings.TrimSpace(c[1])); err != nil {
		return p, fmt.Errorf("rasterstack: invalid Pixel.Coordinate: %v", err)
	}
	p.Coordinate = &pt
	return p, nil
}

// toStringSliceE converts a configuration value to a string slice,
// accounting for the fact that it may be a comma-separated string
// if it was set from an environment variable.
func toStringSliceE(i interface{}) ([]string, error) {
	switch v := i.(type) {
	case nil:
		return nil, nil
	case string:
		if v == "" {
			return nil, nil
		}
		return strings.Split(v, ","), nil
	default:
		return cast.ToStringSliceE(i)
	}
}

// extractOptions returns the pixel extraction options from the configuration.
func (cfg *Cfg) extractOptions() (*ExtractOptions, error) {
	p, err := cfg.pixel()
	if err != nil {
		return nil, err
	}
	o := &ExtractOptions{
		Pixel:    p,
		HeadRows: cfg.GetInt("HeadRows"),
		Show:     cfg.GetBool("Show"),
	}
	if o.CSVFile, err = checkOutputFile("CSVFile", cfg.GetString("CSVFile"), true); err != nil {
		return nil, err
	}
	if o.PlotFile, err = checkOutputFile("PlotFile", cfg.GetString("PlotFile"), true); err != nil {
		return nil, err
	}
	if o.PlotFormat, err = checkPlotFormat(o.PlotFile); err != nil {
		return nil, err
	}
	return o, nil
}

// convertOptions returns the conversion options from the configuration.
func (cfg *Cfg) convertOptions() (*ConvertOptions, error) {
	var err error
	o := &ConvertOptions{
		Pattern: cfg.GetString("Pattern"),
		Chunks: rasterstack.Chunks{
			X: cfg.GetInt("Chunks.X"),
			Y: cfg.GetInt("Chunks.Y"),
		},
		Stack: rasterstack.StackOptions{
			Name:        cfg.GetString("Variable"),
			Units:       cfg.GetString("Units"),
			Description: cfg.GetString("Description"),
			Log:         cfg.Log,
		},
	}
	if o.InputDir, err = checkInputDir(cfg.GetString("InputDir")); err != nil {
		return nil, err
	}
	if o.OutputFile, err = checkOutputFile("OutputFile", cfg.GetString("OutputFile"), false); err != nil {
		return nil, err
	}
	ext, err := cfg.extractOptions()
	if err != nil {
		return nil, err
	}
	if ext.CSVFile != "" || ext.PlotFile != "" {
		o.Extract = ext
	}
	return o, nil
}

// sampleConfig returns the sample raster options from the configuration.
func (cfg *Cfg) sampleConfig() (SampleConfig, error) {
	sc := SampleConfig{
		OutputDir:  os.ExpandEnv(cfg.GetString("Sample.OutputDir")),
		Prefix:     cfg.GetString("Sample.Prefix"),
		Months:     cfg.GetInt("Sample.Months"),
		NX:         cfg.GetInt("Sample.NX"),
		NY:         cfg.GetInt("Sample.NY"),
		Resolution: cfg.GetFloat64("Sample.Resolution"),
	}
	start, err := time.Parse("200601", cfg.GetString("Sample.Start"))
	if err != nil {
		return sc, fmt.Errorf("rasterstack: invalid Sample.Start: %v", err)
	}
	sc.Start = start
	return sc, nil
}
