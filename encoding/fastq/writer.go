package fastq

import (
	"errors"
	"io"

	"github.com/grailbio/adaptertrim/read"
)

// ErrNoQualities is returned by Write when asked to write a read that has no
// quality scores (e.g. one parsed from a FASTA file).
var ErrNoQualities = errors.New("fastq: read has no qualities")

var (
	newline  = []byte{'\n'}
	atSign   = []byte{'@'}
	plusSign = []byte{'+', '\n'}
)

// Writer writes read.Read records in FASTQ format.
type Writer struct {
	w   io.Writer
	err error
}

// NewWriter constructs a Writer that writes to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Write writes r in FASTQ format. r.Qualities must be non-nil.
func (w *Writer) Write(r *read.Read) error {
	if w.err != nil {
		return w.err
	}
	if r.Qualities == nil {
		w.err = ErrNoQualities
		return w.err
	}
	w.write(atSign)
	w.write(r.Header())
	w.writeln()
	w.write(r.Sequence)
	w.writeln()
	w.write(plusSign)
	w.write(r.Qualities)
	w.writeln()
	return w.err
}

func (w *Writer) write(b []byte) {
	if w.err != nil {
		return
	}
	_, w.err = w.w.Write(b)
}

func (w *Writer) writeln() {
	w.write(newline)
}
