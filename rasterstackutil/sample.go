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
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/spatialmodel/rasterstack"
	"github.com/spatialmodel/rasterstack/geotiff"
)

// SampleConfig specifies a set of synthetic monthly rasters.
type SampleConfig struct {
	OutputDir string
	Prefix    string

	// Start is the month of the first raster.
	Start time.Time

	// Months is the number of rasters.
	Months int

	NX, NY int

	// Resolution is the pixel size in degrees.
	Resolution float64
}

// sampleNoData is the value of missing pixels in sample rasters.
const sampleNoData = -9999

// Sample writes the rasters specified by sc as GeoTIFF files named
// <Prefix>_<YYYYMM>_ok.tif, and returns their paths. The values follow
// a seasonal cycle with a spatial gradient, and a block of pixels
// in the lower-right corner is missing.
func Sample(sc SampleConfig) ([]string, error) {
	if sc.Months <= 0 || sc.NX <= 0 || sc.NY <= 0 || sc.Resolution <= 0 {
		return nil, fmt.Errorf("rasterstack: invalid sample configuration %+v", sc)
	}
	if sc.Prefix == "" {
		return nil, fmt.Errorf("rasterstack: sample prefix is empty")
	}
	if err := os.MkdirAll(sc.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("rasterstack: creating sample directory: %v", err)
	}
	wkt, err := geotiff.WGS84()
	if err != nil {
		return nil, err
	}
	start := time.Date(sc.Start.Year(), sc.Start.Month(), 1, 0, 0, 0, 0, time.UTC)
	o := make([]string, sc.Months)
	for m := 0; m < sc.Months; m++ {
		date := start.AddDate(0, m, 0)
		r := &rasterstack.Raster{
			NX:           sc.NX,
			NY:           sc.NY,
			Data:         sampleValues(date, sc.NX, sc.NY),
			GeoTransform: [6]float64{-120, sc.Resolution, 0, 45, 0, -sc.Resolution},
			Projection:   wkt,
			NoData:       sampleNoData,
			HasNoData:    true,
		}
		o[m] = filepath.Join(sc.OutputDir, fmt.Sprintf("%s_%s_ok.tif", sc.Prefix, date.Format("200601")))
		if err := geotiff.Write(o[m], r); err != nil {
			return nil, err
		}
	}
	return o, nil
}

// sampleValues returns synthetic evapotranspiration values [mm/month]
// for the given month.
func sampleValues(date time.Time, nx, ny int) []float64 {
	season := 40 * math.Sin(2*math.Pi*float64(date.Month()-4)/12)
	o := make([]float64, nx*ny)
	for j := 0; j < ny; j++ {
		for i := 0; i < nx; i++ {
			if i >= nx-nx/10 && j >= ny-ny/10 && nx >= 10 && ny >= 10 {
				o[j*nx+i] = sampleNoData
				continue
			}
			o[j*nx+i] = math.Max(0, 60+season+20*float64(i)/float64(nx)-20*float64(j)/float64(ny))
		}
	}
	return o
}
