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

// Package hash calculates fingerprints of the inputs to a raster stack.
package hash

import (
	"encoding/gob"
	"fmt"
	"hash/fnv"
	"path/filepath"
	"time"

	"github.com/davecgh/go-spew/spew"
)

// Hash returns a hash key for the specified object.
func Hash(object interface{}) string {
	if s, ok := object.(fmt.Stringer); ok {
		return s.String()
	}
	h := fnv.New128a()

	e := gob.NewEncoder(h)
	if err := e.Encode(object); err == nil {
		bKey := h.Sum([]byte{})
		return fmt.Sprintf("%x", bKey[0:h.Size()])
	}
	// If gob can't encode the object (e.g., it has no exported
	// fields) use spew instead.
	h.Reset()
	printer := spew.ConfigState{
		Indent:                  " ",
		SortKeys:                true,
		DisableMethods:          true,
		SpewKeys:                true,
		DisablePointerAddresses: true,
		DisableCapacities:       true,
	}
	printer.Fprintf(h, "%#v", object)
	bKey := h.Sum([]byte{})
	return fmt.Sprintf("%x", bKey[0:h.Size()])
}

type source struct {
	File string
	Date string
}

// Sources returns a fingerprint of a set of input files and their
// dates. Only the base names of the files are used, so the fingerprint
// does not depend on where the files are stored.
func Sources(paths []string, dates []time.Time) string {
	s := make([]source, len(paths))
	for i, p := range paths {
		s[i].File = filepath.Base(p)
		if i < len(dates) {
			s[i].Date = dates[i].UTC().Format("2006-01-02")
		}
	}
	return Hash(s)
}
