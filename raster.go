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
)

// Raster holds the pixels and spatial reference of one raster band.
type Raster struct {
	Path string

	NX, NY int // number of columns and rows

	// Data holds NY rows of NX pixels, starting with the top row.
	Data []float64

	// GeoTransform holds the affine coefficients mapping pixel
	// (column, row) to map coordinates, in GDAL order:
	// [originX, pixelWidth, rowRotation, originY, columnRotation, pixelHeight].
	GeoTransform [6]float64

	// Projection is the spatial reference of the raster in WKT format.
	Projection string

	NoData    float64 // value of missing pixels
	HasNoData bool    // whether NoData is set
}

// RasterReader reads single-band rasters from files.
type RasterReader interface {
	// ReadRaster reads the raster at path in windows of size chunks.
	ReadRaster(path string, chunks Chunks) (*Raster, error)
}

// RasterReaderFunc is an adapter that allows an ordinary function to
// be used as a RasterReader.
type RasterReaderFunc func(path string, chunks Chunks) (*Raster, error)

// ReadRaster calls f(path, chunks).
func (f RasterReaderFunc) ReadRaster(path string, chunks Chunks) (*Raster, error) {
	return f(path, chunks)
}

// IdentityGeoTransform is the geotransform of a raster without spatial
// reference information: pixel indices are used as coordinates.
var IdentityGeoTransform = [6]float64{0, 1, 0, 0, 0, 1}

// Get returns the value at column i and row j.
func (r *Raster) Get(i, j int) float64 { return r.Data[j*r.NX+i] }

// check makes sure the dimensions of r are consistent.
func (r *Raster) check() error {
	if r.NX <= 0 || r.NY <= 0 {
		return fmt.Errorf("rasterstack: raster %s has invalid size %d×%d", r.Path, r.NX, r.NY)
	}
	if len(r.Data) != r.NX*r.NY {
		return fmt.Errorf("rasterstack: raster %s is %d×%d but has %d pixels", r.Path, r.NX, r.NY, len(r.Data))
	}
	if r.GeoTransform[2] != 0 || r.GeoTransform[4] != 0 {
		return fmt.Errorf("rasterstack: raster %s is rotated, which is not supported", r.Path)
	}
	if r.GeoTransform[1] == 0 || r.GeoTransform[5] == 0 {
		return fmt.Errorf("rasterstack: raster %s has a zero pixel size", r.Path)
	}
	return nil
}

// isNoData returns whether v represents a missing value in r.
func (r *Raster) isNoData(v float64) bool {
	if math.IsNaN(v) {
		return true
	}
	return r.HasNoData && v == r.NoData
}
