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
	"io"
	"io/ioutil"
	"os"

	"github.com/ctessum/geom"
	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/rasterstack"
	"github.com/spatialmodel/rasterstack/cloud"
)

// Pixel specifies the pixel to extract a time series from.
type Pixel struct {
	// X and Y are the column and row indices of the pixel, with row 0
	// at the top of the raster.
	X, Y int

	// Coordinate, if not nil, is the map coordinate of the pixel. It
	// takes precedence over X and Y.
	Coordinate *geom.Point
}

// ExtractOptions specify how a pixel time series is extracted and saved.
type ExtractOptions struct {
	Pixel Pixel

	// CSVFile is where the time series is written. If empty, no
	// CSV file is written.
	CSVFile string

	// PlotFile is where a plot of the time series is written, in
	// format PlotFormat. If empty, no plot is created.
	PlotFile, PlotFormat string

	// HeadRows is the number of rows of the series to log.
	HeadRows int

	// Show specifies whether the plot should be opened after it
	// is created.
	Show bool
}

// ConvertOptions specify how a set of rasters is converted to NetCDF.
type ConvertOptions struct {
	// InputDir is the directory or blob storage prefix that holds
	// the input rasters.
	InputDir string

	// Pattern is the glob pattern that input file names must match.
	Pattern string

	// OutputFile is the NetCDF file to write.
	OutputFile string

	Chunks rasterstack.Chunks
	Stack  rasterstack.StackOptions

	// Extract, if not nil, specifies a pixel time series to extract
	// after the NetCDF file is written.
	Extract *ExtractOptions
}

// ListInputs returns the files in dir matching pattern, sorted by
// the dates in their names. dir can be a blob storage location.
func ListInputs(ctx context.Context, dir, pattern string) ([]rasterstack.Input, error) {
	var files []string
	var err error
	if cloud.IsBlob(dir) {
		files, err = cloud.ListMatching(ctx, dir, pattern)
	} else {
		files, err = rasterstack.Discover(dir, pattern)
	}
	if err != nil {
		return nil, err
	}
	return rasterstack.SortInputs(files)
}

// findInputs returns the local paths of the input rasters sorted by date,
// downloading them to tmpDir if they are in blob storage.
func findInputs(ctx context.Context, dir, pattern, tmpDir string) ([]rasterstack.Input, error) {
	if !cloud.IsBlob(dir) {
		return ListInputs(ctx, dir, pattern)
	}
	files, err := cloud.DownloadMatching(ctx, dir, pattern, tmpDir)
	if err != nil {
		return nil, err
	}
	return rasterstack.SortInputs(files)
}

// Convert stacks the rasters specified by opts, which are read using
// reader, and writes them to a NetCDF file. If opts.Extract is not nil,
// the specified pixel time series is also extracted and returned.
func Convert(ctx context.Context, reader rasterstack.RasterReader, opts *ConvertOptions, log logrus.FieldLogger) (*rasterstack.Stack, *rasterstack.Series, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	tmpDir, err := ioutil.TempDir("", "rasterstack")
	if err != nil {
		return nil, nil, fmt.Errorf("rasterstack: creating temporary directory: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	inputs, err := findInputs(ctx, opts.InputDir, opts.Pattern, tmpDir)
	if err != nil {
		return nil, nil, err
	}
	log.WithFields(logrus.Fields{
		"dir":   opts.InputDir,
		"files": len(inputs),
		"step":  "discover",
	}).Info("found input rasters")
	if len(inputs) > 0 {
		log.WithFields(logrus.Fields{
			"first": rasterstack.DateString(inputs[0].Date),
			"last":  rasterstack.DateString(inputs[len(inputs)-1].Date),
		}).Info("date range")
	}

	so := opts.Stack
	if so.Log == nil {
		so.Log = log
	}
	s, err := rasterstack.Concatenate(reader, inputs, opts.Chunks, so)
	if err != nil {
		return nil, nil, err
	}

	u := new(uploader)
	defer u.close()
	ncf, err := u.maybeUpload(opts.OutputFile)
	if err != nil {
		return nil, nil, err
	}
	if err = writeStack(ncf, s); err != nil {
		return nil, nil, err
	}
	log.WithFields(logrus.Fields{
		"file":  opts.OutputFile,
		"shape": fmt.Sprint(s.Data.Shape),
		"step":  "netcdf",
	}).Info("wrote NetCDF file")

	var ts *rasterstack.Series
	if opts.Extract != nil {
		if ts, err = extract(s, opts.Extract, u, log); err != nil {
			return nil, nil, err
		}
	}
	if err = u.uploadOutput(ctx, log); err != nil {
		return nil, nil, err
	}
	return s, ts, nil
}

// Extract reads the NetCDF file inputFile, which can be a local
// path, blob storage location, or URL, and extracts the pixel time
// series of variable varName specified by opts.
func Extract(ctx context.Context, inputFile, varName string, opts *ExtractOptions, log logrus.FieldLogger) (*rasterstack.Series, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	tmpDir, err := ioutil.TempDir("", "rasterstack")
	if err != nil {
		return nil, fmt.Errorf("rasterstack: creating temporary directory: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	local, err := maybeDownload(ctx, inputFile, tmpDir)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(local)
	if err != nil {
		return nil, fmt.Errorf("rasterstack: opening NetCDF file: %v", err)
	}
	defer f.Close()
	s, err := rasterstack.LoadStack(f, varName)
	if err != nil {
		return nil, err
	}
	log.WithFields(logrus.Fields{
		"file":  inputFile,
		"shape": fmt.Sprint(s.Data.Shape),
	}).Info("read NetCDF file")

	u := new(uploader)
	defer u.close()
	ts, err := extract(s, opts, u, log)
	if err != nil {
		return nil, err
	}
	if err = u.uploadOutput(ctx, log); err != nil {
		return nil, err
	}
	return ts, nil
}

// extract extracts a pixel time series from s and writes it to the
// files specified by opts.
func extract(s *rasterstack.Stack, opts *ExtractOptions, u *uploader, log logrus.FieldLogger) (*rasterstack.Series, error) {
	var ts *rasterstack.Series
	var err error
	if opts.Pixel.Coordinate != nil {
		ts, err = s.PixelAt(*opts.Pixel.Coordinate)
	} else {
		ts, err = s.Pixel(opts.Pixel.X, opts.Pixel.Y)
	}
	if err != nil {
		return nil, err
	}
	sum := ts.Summary()
	log.WithFields(logrus.Fields{
		"variable": ts.Name,
		"count":    sum.Count,
		"missing":  sum.Missing,
		"mean":     sum.Mean,
		"std":      sum.Std,
		"min":      sum.Min,
		"max":      sum.Max,
		"step":     "extract",
	}).Info("extracted pixel time series")
	if opts.HeadRows > 0 {
		log.Debugf("first %d time steps:\n%s", opts.HeadRows, ts.Head(opts.HeadRows).Table())
	}

	if opts.CSVFile != "" {
		local, err := u.maybeUpload(opts.CSVFile)
		if err != nil {
			return nil, err
		}
		if err = writeFile(local, ts.WriteCSV); err != nil {
			return nil, err
		}
		log.WithFields(logrus.Fields{"file": opts.CSVFile, "step": "csv"}).Info("wrote CSV file")
	}
	if opts.PlotFile != "" {
		format := opts.PlotFormat
		if format == "" {
			if format, err = checkPlotFormat(opts.PlotFile); err != nil {
				return nil, err
			}
		}
		local, err := u.maybeUpload(opts.PlotFile)
		if err != nil {
			return nil, err
		}
		err = writeFile(local, func(w io.Writer) error { return ts.Plot(w, format) })
		if err != nil {
			return nil, err
		}
		log.WithFields(logrus.Fields{"file": opts.PlotFile, "step": "plot"}).Info("wrote plot")
	}
	return ts, nil
}

// writeStack writes s to NetCDF file path, overwriting any existing file.
func writeStack(path string, s *rasterstack.Stack) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("rasterstack: creating NetCDF file: %v", err)
	}
	if err = s.Write(f); err != nil {
		f.Close()
		return err
	}
	if err = f.Close(); err != nil {
		return fmt.Errorf("rasterstack: closing NetCDF file: %v", err)
	}
	return nil
}

// writeFile creates file path and writes to it using write.
func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("rasterstack: creating output file: %v", err)
	}
	if err = write(f); err != nil {
		f.Close()
		return err
	}
	if err = f.Close(); err != nil {
		return fmt.Errorf("rasterstack: closing %s: %v", path, err)
	}
	return nil
}
