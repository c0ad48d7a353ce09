// =============================================================================
// helpers/input/input.go - Transparent Trace File Opening
// =============================================================================
//
// Raw datasets are distributed compressed (the MemeTracker monthly dumps as
// gzip, recompressed archives commonly as zstd) and nobody wants to inflate
// 50 GB of quotes on disk just to convert them. Open() picks a decompressor
// from the file extension so the converters read .txt, .gz and .zst inputs
// through the same io.ReadCloser.
//
// =============================================================================

package input

import (
	"compress/gzip"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/pkg/errors"
)

// Open opens path for sequential reading, transparently decompressing
// gzip (.gz) and zstd (.zst, .zstd) inputs. The returned ReadCloser closes
// both the decompressor and the underlying file.
func Open(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open input file %s", path)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".gz":
		gz, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, errors.Wrapf(err, "failed to open gzip stream %s", path)
		}
		return &readCloser{r: gz, closers: []io.Closer{gz, f}}, nil

	case ".zst", ".zstd":
		dec, err := zstd.NewReader(f)
		if err != nil {
			f.Close()
			return nil, errors.Wrapf(err, "failed to open zstd stream %s", path)
		}
		zr := dec.IOReadCloser()
		return &readCloser{r: zr, closers: []io.Closer{zr, f}}, nil

	default:
		return f, nil
	}
}

// readCloser combines a decompressing reader with the closers for every
// layer beneath it. Close closes outermost-first and reports the first
// error.
type readCloser struct {
	r       io.Reader
	closers []io.Closer
}

func (rc *readCloser) Read(p []byte) (int, error) {
	return rc.r.Read(p)
}

func (rc *readCloser) Close() error {
	var first error
	for _, c := range rc.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
