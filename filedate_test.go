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
	"testing"
	"time"
)

func TestFileDate(t *testing.T) {
	d, err := FileDate("../data/AET_198010_ok.tif")
	if err != nil {
		t.Fatal(err)
	}
	want := time.Date(1980, 10, 1, 0, 0, 0, 0, time.UTC)
	if !d.Equal(want) {
		t.Errorf("have %v, want %v", d, want)
	}
	if s := DateString(d); s != "1980-10-01" {
		t.Errorf("have %s, want 1980-10-01", s)
	}
}

func TestFileDate_malformed(t *testing.T) {
	for _, name := range []string{
		"AET.tif",
		"AET_1980_ok.tif",
		"AET_19801a_ok.tif",
		"AET_198013_ok.tif",
		"AET_ok_198010.tif",
	} {
		if _, err := FileDate(name); err == nil {
			t.Errorf("%s: expected an error", name)
		}
	}
}

func TestFileDates(t *testing.T) {
	dates, err := FileDates([]string{"AET_200001_ok.tif", "AET_199912_ok.tif"})
	if err != nil {
		t.Fatal(err)
	}
	if len(dates) != 2 {
		t.Fatalf("have %d dates, want 2", len(dates))
	}
	if DateString(dates[0]) != "2000-01-01" || DateString(dates[1]) != "1999-12-01" {
		t.Errorf("wrong dates %v", dates)
	}
	if _, err := FileDates([]string{"AET_200001_ok.tif", "bad.tif"}); err == nil {
		t.Error("expected an error")
	}
}

func TestFilePrefix(t *testing.T) {
	for path, want := range map[string]string{
		"/data/AET_198010_ok.tif": "AET",
		"PET_200001.tif":          "PET",
		"noprefix.tif":            "noprefix",
	} {
		if have := filePrefix(path); have != want {
			t.Errorf("%s: have %s, want %s", path, have, want)
		}
	}
}
