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
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/rasterstack/cloud"
)

type uploader struct {
	// files is a set of file path pairs. The first of each pair
	// is a local file path and the second is a blob storage
	// path where it should be uploaded to.
	files [][2]string
	dir   string
}

// maybeUpload checks whether the given output file path refers to
// a blob storage location. If it does, then a temporary file location
// is returned. The file will then be uploaded to blob storage when
// uploadOutput method is run.
func (u *uploader) maybeUpload(path string) (string, error) {
	if !cloud.IsBlob(path) {
		return path, nil
	}
	if u.dir == "" {
		var err error
		u.dir, err = ioutil.TempDir("", "rasterstack-upload")
		if err != nil {
			return "", fmt.Errorf("rasterstack: creating temporary upload directory: %v", err)
		}
	}
	local := filepath.Join(u.dir, fmt.Sprintf("%d_%s", len(u.files), filepath.Base(path)))
	u.files = append(u.files, [2]string{local, path})
	return local, nil
}

// uploadOutput uploads all of the files registered with maybeUpload.
func (u *uploader) uploadOutput(ctx context.Context, log logrus.FieldLogger) error {
	for _, files := range u.files {
		if err := cloud.Upload(ctx, files[0], files[1], log); err != nil {
			return fmt.Errorf("rasterstack: uploading file '%s' to '%s': %v", files[0], files[1], err)
		}
		log.WithField("file", files[1]).Debug("uploaded file")
	}
	return nil
}

// close deletes the temporary upload directory.
func (u *uploader) close() {
	if u.dir != "" {
		os.RemoveAll(u.dir)
	}
}
