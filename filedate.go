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
	"path/filepath"
	"strings"
	"time"
)

// DateFormat is the format of the dates in the time series output.
const DateFormat = "2006-01-02"

// fileDateLayout is the layout of the date token embedded in file names.
const fileDateLayout = "200601"

// FileDate returns the date embedded in the base name of path, which
// must follow the pattern <prefix>_<YYYYMM>_<suffix>.<ext>
// (e.g., AET_198010_ok.tif). The returned date is the first day of the
// month, in UTC.
func FileDate(path string) (time.Time, error) {
	base := filepath.Base(path)
	parts := strings.Split(base, "_")
	if len(parts) < 2 {
		return time.Time{}, fmt.Errorf("rasterstack: file name %q has no _YYYYMM_ date token", base)
	}
	tok := parts[1]
	if len(tok) != len(fileDateLayout) || strings.Trim(tok, "0123456789") != "" {
		return time.Time{}, fmt.Errorf("rasterstack: date token %q in file name %q is not in YYYYMM format", tok, base)
	}
	t, err := time.Parse(fileDateLayout, tok)
	if err != nil {
		return time.Time{}, fmt.Errorf("rasterstack: parsing date in file name %q: %v", base, err)
	}
	return t, nil
}

// FileDates returns the date embedded in each of the given file names,
// in the same order as the files.
func FileDates(paths []string) ([]time.Time, error) {
	o := make([]time.Time, len(paths))
	for i, p := range paths {
		t, err := FileDate(p)
		if err != nil {
			return nil, err
		}
		o[i] = t
	}
	return o, nil
}

// DateString formats t as YYYY-MM-DD.
func DateString(t time.Time) string { return t.Format(DateFormat) }

// filePrefix returns the part of the base name of path before the
// first underscore, which is typically the variable name.
func filePrefix(path string) string {
	base := filepath.Base(path)
	if i := strings.Index(base, "_"); i > 0 {
		return base[:i]
	}
	return strings.TrimSuffix(base, filepath.Ext(base))
}
