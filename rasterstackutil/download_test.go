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
	"os"
	"path/filepath"
	"testing"
)

func TestMaybeDownload_local(t *testing.T) {
	dir := t.TempDir()
	fname := filepath.Join(dir, "AET_ok.nc")
	if err := os.WriteFile(fname, nil, 0644); err != nil {
		t.Fatal(err)
	}
	p, err := maybeDownload(context.Background(), fname, dir)
	if err != nil {
		t.Fatal(err)
	}
	if p != fname {
		t.Errorf("have %s, want %s", p, fname)
	}
}

func TestMaybeDownload_statError(t *testing.T) {
	dir := t.TempDir()
	fname := filepath.Join(dir, "AET_ok.nc")
	if err := os.WriteFile(fname, nil, 0644); err != nil {
		t.Fatal(err)
	}
	// A path below a regular file cannot be checked, but it does not
	// simply fail to exist.
	if _, err := maybeDownload(context.Background(), filepath.Join(fname, "x.nc"), dir); err == nil {
		t.Error("expected an error")
	}
}
