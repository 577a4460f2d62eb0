/*
 * files.go, part of gocryst.
 *
 * Copyright 2024 Raul Mera <rmera{at}chemDOThelsinkiDOTfi>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

package cryst

import (
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

//*zstd.Decoder doesn't implement io.ReadCloser, so we wrap it.
type zstdCloser struct {
	*zstd.Decoder
	f *os.File
}

// Close closes the decoder and the underlying file. It can not be used after this call
func (z zstdCloser) Close() error {
	z.Decoder.Close()
	return z.f.Close()
}

type gzipCloser struct {
	*gzip.Reader
	f *os.File
}

func (g gzipCloser) Close() error {
	g.Reader.Close()
	return g.f.Close()
}

// OpenFile opens the file name for reading. Files ending in .zst or .gz are
// decompressed on the fly. The caller must close the returned object.
func OpenFile(name string) (io.ReadCloser, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	lower := strings.ToLower(name)
	switch {
	case strings.HasSuffix(lower, ".zst"), strings.HasSuffix(lower, ".zstd"):
		d, err := zstd.NewReader(f)
		if err != nil {
			f.Close()
			return nil, err
		}
		return zstdCloser{Decoder: d, f: f}, nil
	case strings.HasSuffix(lower, ".gz"):
		g, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, err
		}
		return gzipCloser{Reader: g, f: f}, nil
	}
	return f, nil
}

// JobFiles returns the names of the Jana files of the job that contains the file name,
// with the given extensions (for instance ".m50", ".m83"). The extension of name
// itself, and a compression suffix, if any, are replaced.
func JobFiles(name string, exts ...string) []string {
	base := name
	for _, c := range []string{".zst", ".zstd", ".gz"} {
		base = strings.TrimSuffix(base, c)
	}
	if i := strings.LastIndex(base, "."); i > strings.LastIndexAny(base, `/\`) {
		base = base[:i]
	}
	ret := make([]string, 0, len(exts))
	for _, e := range exts {
		ret = append(ret, base+e)
	}
	return ret
}
