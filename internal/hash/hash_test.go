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

package hash

import (
	"testing"
	"time"
)

func TestSources(t *testing.T) {
	dates := []time.Time{
		time.Date(1980, 10, 1, 0, 0, 0, 0, time.UTC),
		time.Date(1980, 11, 1, 0, 0, 0, 0, time.UTC),
	}
	a := Sources([]string{"/data/AET_198010_ok.tif", "/data/AET_198011_ok.tif"}, dates)
	b := Sources([]string{"/other/AET_198010_ok.tif", "/other/AET_198011_ok.tif"}, dates)
	if a != b {
		t.Errorf("fingerprint depends on directory: %s != %s", a, b)
	}
	c := Sources([]string{"/data/AET_198011_ok.tif", "/data/AET_198010_ok.tif"}, dates)
	if a == c {
		t.Errorf("fingerprint does not depend on file order")
	}
	if len(a) != 32 {
		t.Errorf("fingerprint %s has length %d; want 32", a, len(a))
	}
}

type stringer struct{}

func (stringer) String() string { return "x" }

func TestHashStringer(t *testing.T) {
	if h := Hash(stringer{}); h != "x" {
		t.Errorf("have %s, want x", h)
	}
}
