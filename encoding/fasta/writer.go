package fasta

import (
	"io"

	"github.com/grailbio/adaptertrim/read"
)

var (
	newline = []byte{'\n'}
	gt      = []byte{'>'}
)

// Writer writes read.Read records in (unwrapped, single-line) FASTA format.
type Writer struct {
	w   io.Writer
	err error
}

// NewWriter constructs a Writer that writes to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Write writes r in FASTA format, ignoring any qualities it may carry.
func (w *Writer) Write(r *read.Read) error {
	w.write(gt)
	w.write(r.Header())
	w.write(newline)
	w.write(r.Sequence)
	w.write(newline)
	return w.err
}

func (w *Writer) write(b []byte) {
	if w.err != nil {
		return
	}
	_, w.err = w.w.Write(b)
}
