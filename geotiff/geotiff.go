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

// Package geotiff reads and writes single-band GeoTIFF rasters using GDAL.
package geotiff

import (
	"fmt"

	"github.com/airbusgeo/godal"
	"github.com/spatialmodel/rasterstack"
)

func init() {
	godal.RegisterAll()
}

// Reader reads rasters with GDAL. It implements rasterstack.RasterReader.
type Reader struct {
	// Band is the 1-based index of the band to read. Zero means the
	// first band.
	Band int
}

// ReadRaster reads one band of the raster at path, one window of
// size chunks at a time.
func (r Reader) ReadRaster(path string, chunks rasterstack.Chunks) (*rasterstack.Raster, error) {
	ds, err := godal.Open(path)
	if err != nil {
		return nil, fmt.Errorf("geotiff: opening %s: %v", path, err)
	}
	defer ds.Close()

	st := ds.Structure()
	bandIndex := r.Band
	if bandIndex == 0 {
		bandIndex = 1
	}
	bands := ds.Bands()
	if bandIndex < 1 || bandIndex > len(bands) {
		return nil, fmt.Errorf("geotiff: %s has %d bands; band %d requested", path, len(bands), bandIndex)
	}
	band := bands[bandIndex-1]

	o := &rasterstack.Raster{
		Path:       path,
		NX:         st.SizeX,
		NY:         st.SizeY,
		Data:       make([]float64, st.SizeX*st.SizeY),
		Projection: ds.Projection(),
	}
	if o.GeoTransform, err = ds.GeoTransform(); err != nil {
		// Rasters without spatial reference use pixel coordinates.
		o.GeoTransform = rasterstack.IdentityGeoTransform
	}
	o.NoData, o.HasNoData = band.NoData()

	var buf []float64
	for _, w := range chunks.Windows(st.SizeX, st.SizeY) {
		n := w.Width * w.Height
		if cap(buf) < n {
			buf = make([]float64, n)
		}
		buf = buf[:n]
		if err := band.Read(w.X, w.Y, buf, w.Width, w.Height); err != nil {
			return nil, fmt.Errorf("geotiff: reading %s window %+v: %v", path, w, err)
		}
		for j := 0; j < w.Height; j++ {
			copy(o.Data[(w.Y+j)*st.SizeX+w.X:(w.Y+j)*st.SizeX+w.X+w.Width], buf[j*w.Width:(j+1)*w.Width])
		}
	}
	return o, nil
}

// Write writes r to path as a single-band Float32 GeoTIFF.
func Write(path string, r *rasterstack.Raster) error {
	if len(r.Data) != r.NX*r.NY {
		return fmt.Errorf("geotiff: raster is %d×%d but has %d pixels", r.NX, r.NY, len(r.Data))
	}
	ds, err := godal.Create(godal.GTiff, path, 1, godal.Float32, r.NX, r.NY)
	if err != nil {
		return fmt.Errorf("geotiff: creating %s: %v", path, err)
	}
	if err = ds.SetGeoTransform(r.GeoTransform); err != nil {
		ds.Close()
		return fmt.Errorf("geotiff: setting geotransform of %s: %v", path, err)
	}
	if r.Projection != "" {
		if err = ds.SetProjection(r.Projection); err != nil {
			ds.Close()
			return fmt.Errorf("geotiff: setting projection of %s: %v", path, err)
		}
	}
	band := ds.Bands()[0]
	if r.HasNoData {
		if err = band.SetNoData(r.NoData); err != nil {
			ds.Close()
			return fmt.Errorf("geotiff: setting nodata of %s: %v", path, err)
		}
	}
	if err = band.Write(0, 0, r.Data, r.NX, r.NY); err != nil {
		ds.Close()
		return fmt.Errorf("geotiff: writing %s: %v", path, err)
	}
	if err = ds.Close(); err != nil {
		return fmt.Errorf("geotiff: closing %s: %v", path, err)
	}
	return nil
}

// WGS84 returns the WKT representation of the WGS 84 geographic
// coordinate system.
func WGS84() (string, error) {
	sr, err := godal.NewSpatialRefFromEPSG(4326)
	if err != nil {
		return "", fmt.Errorf("geotiff: %v", err)
	}
	defer sr.Close()
	wkt, err := sr.WKT()
	if err != nil {
		return "", fmt.Errorf("geotiff: %v", err)
	}
	return wkt, nil
}
