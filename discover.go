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
	"os"
	"path/filepath"
	"sort"
	"time"
)

// Input is a raster file together with the date parsed from its name.
type Input struct {
	Path string
	Date time.Time
}

// Discover returns the regular files in dir whose base names match pattern
// (e.g., "*.tif"), sorted by name. An existing directory without any
// matching files results in an empty list rather than an error.
func Discover(dir, pattern string) ([]string, error) {
	fi, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("rasterstack: input directory: %v", err)
	}
	if !fi.IsDir() {
		return nil, fmt.Errorf("rasterstack: input path %s is not a directory", dir)
	}
	if _, err = filepath.Match(pattern, ""); err != nil {
		return nil, fmt.Errorf("rasterstack: file pattern %q: %v", pattern, err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("rasterstack: input directory: %v", err)
	}
	files := make([]string, 0, len(entries))
	for _, e := range entries {
		// Only the base name is matched, so dir may contain glob metacharacters.
		if ok, _ := filepath.Match(pattern, e.Name()); !ok {
			continue
		}
		m := filepath.Join(dir, e.Name())
		fi, err := os.Stat(m)
		if err != nil {
			return nil, fmt.Errorf("rasterstack: %v", err)
		}
		if fi.IsDir() {
			continue
		}
		files = append(files, m)
	}
	sort.Strings(files)
	return files, nil
}

// SortInputs parses the date from each of the given file names and
// returns the files in chronological order. Two files with the same
// date result in an error, because they would occupy the same time step.
func SortInputs(paths []string) ([]Input, error) {
	dates, err := FileDates(paths)
	if err != nil {
		return nil, err
	}
	o := make([]Input, len(paths))
	for i, p := range paths {
		o[i] = Input{Path: p, Date: dates[i]}
	}
	sort.SliceStable(o, func(i, j int) bool { return o[i].Date.Before(o[j].Date) })
	for i := 1; i < len(o); i++ {
		if o[i].Date.Equal(o[i-1].Date) {
			return nil, fmt.Errorf("rasterstack: files %s and %s have the same date %s",
				o[i-1].Path, o[i].Path, DateString(o[i].Date))
		}
	}
	return o, nil
}

// Dates returns the date of each input.
func Dates(inputs []Input) []time.Time {
	o := make([]time.Time, len(inputs))
	for i, in := range inputs {
		o[i] = in.Date
	}
	return o
}
