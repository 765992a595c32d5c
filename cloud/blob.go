/*
Copyright © 2018 the rasterstack authors.
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

package cloud

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/cenkalti/backoff"
	"github.com/sirupsen/logrus"
	"gocloud.dev/blob"
)

// MaxRetries is the number of times a failed upload is retried.
var MaxRetries uint64 = 5

// Download copies the blob at path to a file of the same base name
// in directory dir and returns the path to the local file.
func Download(ctx context.Context, path, dir string) (string, error) {
	bucket, key, err := Split(ctx, path)
	if err != nil {
		return "", err
	}
	defer bucket.Close()
	return downloadBlob(ctx, bucket, key, dir)
}

// ListMatching returns the paths of all blobs directly under the prefix
// dirPath whose base names match the glob pattern, in lexical order.
func ListMatching(ctx context.Context, dirPath, pattern string) ([]string, error) {
	if _, err := path.Match(pattern, ""); err != nil {
		return nil, fmt.Errorf("cloud: file pattern %q: %v", pattern, err)
	}
	bucket, prefix, err := Split(ctx, dirPath)
	if err != nil {
		return nil, err
	}
	defer bucket.Close()
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	iter := bucket.List(&blob.ListOptions{
		Prefix:    prefix,
		Delimiter: "/",
	})
	var o []string
	for {
		obj, err := iter.Next(ctx)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("cloud: listing blobs in %s: %v", dirPath, err)
		}
		if obj.IsDir {
			continue
		}
		if ok, _ := path.Match(pattern, path.Base(obj.Key)); ok {
			o = append(o, strings.TrimSuffix(dirPath, "/")+"/"+path.Base(obj.Key))
		}
	}
	return o, nil
}

// DownloadMatching copies all blobs directly under the prefix dirPath
// whose base names match the glob pattern to local directory dir, and
// returns the paths to the local files in lexical order.
func DownloadMatching(ctx context.Context, dirPath, pattern, dir string) ([]string, error) {
	blobs, err := ListMatching(ctx, dirPath, pattern)
	if err != nil {
		return nil, err
	}
	o := make([]string, len(blobs))
	for i, b := range blobs {
		if o[i], err = Download(ctx, b, dir); err != nil {
			return nil, err
		}
	}
	return o, nil
}

// downloadBlob copies blob key from bucket to directory dir.
func downloadBlob(ctx context.Context, bucket *blob.Bucket, key, dir string) (string, error) {
	r, err := bucket.NewReader(ctx, key, nil)
	if err != nil {
		return "", fmt.Errorf("cloud: reading blob key %s: %v", key, err)
	}
	defer r.Close()
	fname := filepath.Join(dir, path.Base(key))
	w, err := os.Create(fname)
	if err != nil {
		return "", fmt.Errorf("cloud: creating file for download: %v", err)
	}
	if _, err = io.Copy(w, r); err != nil {
		w.Close()
		return "", fmt.Errorf("cloud: downloading blob key %s: %v", key, err)
	}
	if err = w.Close(); err != nil {
		return "", fmt.Errorf("cloud: downloading blob key %s: %v", key, err)
	}
	return fname, nil
}

// Upload copies local file src to blob path dst. Failed uploads are
// retried with exponential backoff.
func Upload(ctx context.Context, src, dst string, log logrus.FieldLogger) error {
	bucket, key, err := Split(ctx, dst)
	if err != nil {
		return err
	}
	defer bucket.Close()
	b := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), MaxRetries), ctx)
	return backoff.RetryNotify(
		func() error {
			return writeBlob(ctx, bucket, key, src)
		},
		b,
		func(err error, d time.Duration) {
			log.WithField("file", dst).Warnf("%v: retrying in %v", err, d)
		},
	)
}

// writeBlob writes the contents of file src to the given bucket.
func writeBlob(ctx context.Context, bucket *blob.Bucket, key, src string) error {
	r, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("cloud: opening file '%s' for upload: %v", src, err)
	}
	defer r.Close()
	w, err := bucket.NewWriter(ctx, key, &blob.WriterOptions{})
	if err != nil {
		return fmt.Errorf("cloud: creating writer for blob %s: %v", key, err)
	}
	if _, err = io.Copy(w, r); err != nil {
		w.Close()
		return fmt.Errorf("cloud: copying blob %s: %v", key, err)
	}
	if err = w.Close(); err != nil {
		return fmt.Errorf("cloud: writing blob %s: %v", key, err)
	}
	return nil
}
