package fasta

import (
	"bufio"
	"bytes"
	"errors"
	"io"

	"github.com/grailbio/adaptertrim/read"
)

// ErrInvalid is returned when a record does not begin with '>'.
var ErrInvalid = errors.New("invalid FASTA record")

var errEOF = errors.New("eof")

// Scanner reads FASTA records (">name", one or more sequence lines until
// the next '>' or end of stream) from an underlying stream, unwrapping
// multi-line sequences into a single Sequence slice. Scanners are not
// thread-safe.
type Scanner struct {
	b       *bufio.Scanner
	err     error
	pending []byte // header line carried over from the previous Scan
	primed  bool
}

// NewScanner constructs a Scanner reading raw FASTA data from r.
func NewScanner(r io.Reader) *Scanner {
	b := bufio.NewScanner(r)
	b.Buffer(nil, 1<<20)
	return &Scanner{b: b}
}

// Scan reads the next record, or returns nil once the stream is exhausted
// or an error occurs — check Err() to distinguish between the two.
// FASTA records have no quality line, so the returned read.Read always has
// Qualities == nil.
func (s *Scanner) Scan() *read.Read {
	if s.err != nil {
		return nil
	}
	header := s.pending
	s.pending = nil
	if header == nil {
		if !s.b.Scan() {
			if s.err = s.b.Err(); s.err == nil {
				s.err = errEOF
			}
			return nil
		}
		header = s.b.Bytes()
	}
	if len(header) == 0 || header[0] != '>' {
		s.err = ErrInvalid
		return nil
	}
	name, comment := splitHeader(header[1:])

	var seq []byte
	for s.b.Scan() {
		line := s.b.Bytes()
		if len(line) > 0 && line[0] == '>' {
			s.pending = append([]byte(nil), line...)
			break
		}
		seq = append(seq, line...)
	}
	if s.pending == nil {
		if err := s.b.Err(); err != nil {
			s.err = err
			return nil
		}
	}
	if seq == nil {
		seq = []byte{}
	}
	return read.New(name, comment, seq, nil)
}

func splitHeader(h []byte) (name, comment []byte) {
	if i := bytes.IndexByte(h, ' '); i >= 0 {
		return append([]byte(nil), h[:i]...), append([]byte(nil), h[i+1:]...)
	}
	return append([]byte(nil), h...), nil
}

// Err returns the scanning error, if any. Reaching end of stream cleanly is
// not an error.
func (s *Scanner) Err() error {
	if s.err == errEOF {
		return nil
	}
	return s.err
}

// ErrDiscordant is returned when the R1 and R2 streams of a PairScanner
// disagree on record count, i.e. one runs out before the other.
var ErrDiscordant = errors.New("discordant FASTA pairs")

// PairScanner composes a pair of scanners to read R1/R2 FASTA streams in
// lockstep.
type PairScanner struct {
	r1, r2 *Scanner
	err    error
}

// NewPairScanner creates a PairScanner from separate R1 and R2 readers.
func NewPairScanner(r1, r2 io.Reader) *PairScanner {
	return &PairScanner{r1: NewScanner(r1), r2: NewScanner(r2)}
}

// Scan reads the next pair, or returns a nil pair once either stream is
// exhausted. Err distinguishes clean EOF from a discordant pair count.
func (p *PairScanner) Scan() read.Pair {
	r1 := p.r1.Scan()
	r2 := p.r2.Scan()
	if (r1 == nil) != (r2 == nil) {
		p.err = ErrDiscordant
		return read.Pair{}
	}
	return read.Pair{R1: r1, R2: r2}
}

// Err returns the scanning error, if any.
func (p *PairScanner) Err() error {
	if err := p.r1.Err(); err != nil {
		return err
	}
	if err := p.r2.Err(); err != nil {
		return err
	}
	return p.err
}
