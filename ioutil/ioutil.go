// Package ioutil opens and creates the compressed or plain input/output
// streams the runner reads records from and writes records to: local
// files via github.com/grailbio/base/file, "-" for standard input/output,
// and transparent .gz/.xz/.bz2 decompression and compression keyed off
// the path's extension.
package ioutil

import (
	"bufio"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dsnet/compress/bzip2"
	"github.com/grailbio/base/file"
	"github.com/klauspost/compress/gzip"
	"github.com/pkg/errors"
	"github.com/ulikunitz/xz"
)

// ReadCloser is an io.ReadCloser that also exposes the underlying raw
// file handle's close, so Open can compose a decompressor's Close with
// the file's Close.
type ReadCloser struct {
	io.Reader
	closers []io.Closer
}

// Close closes every layer Open opened, in reverse order, returning the
// first error encountered.
func (r *ReadCloser) Close() error {
	var first error
	for i := len(r.closers) - 1; i >= 0; i-- {
		if err := r.closers[i].Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Open opens path for reading, decompressing transparently based on its
// extension (.gz, .xz, .bz2). Path "-" reads from standard input
// (never compressed — compression auto-detection is extension-only, per
// spec §6).
func Open(ctx context.Context, path string) (*ReadCloser, error) {
	if path == "-" {
		return &ReadCloser{Reader: os.Stdin}, nil
	}
	f, err := file.Open(ctx, path)
	if err != nil {
		return nil, errors.Wrapf(err, "ioutil: open %s", path)
	}
	raw := f.Reader(ctx)
	rc := &ReadCloser{closers: []io.Closer{closerFunc(func() error { return f.Close(ctx) })}}

	switch extensionOf(path) {
	case "gz":
		gz, err := gzip.NewReader(bufio.NewReader(raw))
		if err != nil {
			return nil, errors.Wrapf(err, "ioutil: gzip %s", path)
		}
		rc.Reader = gz
		rc.closers = append(rc.closers, gz)
	case "xz":
		xr, err := xz.NewReader(bufio.NewReader(raw))
		if err != nil {
			return nil, errors.Wrapf(err, "ioutil: xz %s", path)
		}
		rc.Reader = xr
	case "bz2":
		br, err := bzip2.NewReader(bufio.NewReader(raw), nil)
		if err != nil {
			return nil, errors.Wrapf(err, "ioutil: bzip2 %s", path)
		}
		rc.Reader = br
		rc.closers = append(rc.closers, br)
	default:
		rc.Reader = raw
	}
	return rc, nil
}

// WriteCloser is an io.WriteCloser that composes a compressor's Close
// (which flushes trailing bytes) with the underlying file's Close.
type WriteCloser struct {
	io.Writer
	closers []io.Closer
}

// Close closes every layer Create opened, in reverse order (compressor
// first, so its trailer is flushed before the file handle closes).
func (w *WriteCloser) Close() error {
	var first error
	for i := len(w.closers) - 1; i >= 0; i-- {
		if err := w.closers[i].Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Create opens path for writing, compressing transparently based on its
// extension. Path "-" writes to standard output.
func Create(ctx context.Context, path string) (*WriteCloser, error) {
	if path == "-" {
		return &WriteCloser{Writer: os.Stdout}, nil
	}
	f, err := file.Create(ctx, path)
	if err != nil {
		return nil, errors.Wrapf(err, "ioutil: create %s", path)
	}
	raw := f.Writer(ctx)
	wc := &WriteCloser{closers: []io.Closer{closerFunc(func() error { return f.Close(ctx) })}}

	switch extensionOf(path) {
	case "gz":
		gz := gzip.NewWriter(raw)
		wc.Writer = gz
		wc.closers = append(wc.closers, gz)
	case "xz":
		xw, err := xz.NewWriter(raw)
		if err != nil {
			return nil, errors.Wrapf(err, "ioutil: xz %s", path)
		}
		wc.Writer = xw
		wc.closers = append(wc.closers, xw)
	case "bz2":
		bw, err := bzip2.NewWriter(raw, nil)
		if err != nil {
			return nil, errors.Wrapf(err, "ioutil: bzip2 %s", path)
		}
		wc.Writer = bw
		wc.closers = append(wc.closers, bw)
	default:
		wc.Writer = raw
	}
	return wc, nil
}

func extensionOf(path string) string {
	ext := filepath.Ext(path)
	return strings.TrimPrefix(ext, ".")
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }
