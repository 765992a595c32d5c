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
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"

	"github.com/spatialmodel/rasterstack/cloud"
)

// maybeDownload checks if the input is an existing file locally.
// If not, it checks if the file is a URL or blob storage location.
// If it is, it downloads the file to dir and
// returns the path to the downloaded file.
func maybeDownload(ctx context.Context, p, dir string) (string, error) {
	// Check if local file exists. If it does, return the given path.
	if _, err := os.Stat(p); err == nil {
		return p, nil
	} else if !os.IsNotExist(err) {
		return "", fmt.Errorf("rasterstack: checking input %s: %v", p, err)
	}
	if isHTTP(p) {
		return downloadHTTP(ctx, p, dir)
	}
	if cloud.IsBlob(p) {
		return cloud.Download(ctx, p, dir)
	}
	return p, nil
}

// downloadHTTP downloads a file from the specified URL to dir and returns
// the path to the downloaded file.
func downloadHTTP(ctx context.Context, url, dir string) (string, error) {
	req, err := http.NewRequest("GET", url, nil)
	if err != nil {
		return "", fmt.Errorf("rasterstack: downloading %s: %v", url, err)
	}
	resp, err := http.DefaultClient.Do(req.WithContext(ctx))
	if err != nil {
		return "", fmt.Errorf("rasterstack: downloading %s: %v", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("rasterstack: downloading %s: %s", url, resp.Status)
	}
	fname := filepath.Join(dir, path.Base(req.URL.Path))
	w, err := os.Create(fname)
	if err != nil {
		return "", fmt.Errorf("rasterstack: creating file for download: %v", err)
	}
	if _, err = io.Copy(w, resp.Body); err != nil {
		w.Close()
		return "", fmt.Errorf("rasterstack: downloading %s: %v", url, err)
	}
	if err = w.Close(); err != nil {
		return "", fmt.Errorf("rasterstack: downloading %s: %v", url, err)
	}
	return fname, nil
}
