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

// Package rasterstack stacks a directory of single-band rasters, one per
// month, into a time × y × x array, writes the array to a NetCDF file, and
// extracts single-pixel time series from it.
package rasterstack

import (
	"errors"
)

// Version gives the version number.
const Version = "1.0.0"

// ErrNoInputs is returned when a stack is requested from an empty list
// of input files.
var ErrNoInputs = errors.New("rasterstack: no input rasters")

// Chunks specifies the size of the windows in which rasters are read.
// A non-positive size means the whole extent in that direction.
type Chunks struct {
	X, Y int
}

// DefaultChunks is the read window size used when none is configured.
var DefaultChunks = Chunks{X: 5490, Y: 5490}

// Window is a rectangular block of raster pixels, with X and Y giving the
// column and row of its upper-left corner.
type Window struct {
	X, Y, Width, Height int
}

// Windows splits an nx × ny raster into read windows of size c,
// in row-major order. Windows at the right and bottom edges are clipped.
func (c Chunks) Windows(nx, ny int) []Window {
	cx, cy := c.X, c.Y
	if cx <= 0 || cx > nx {
		cx = nx
	}
	if cy <= 0 || cy > ny {
		cy = ny
	}
	var o []Window
	for y := 0; y < ny; y += cy {
		h := cy
		if y+h > ny {
			h = ny - y
		}
		for x := 0; x < nx; x += cx {
			w := cx
			if x+w > nx {
				w = nx - x
			}
			o = append(o, Window{X: x, Y: y, Width: w, Height: h})
		}
	}
	return o
}
