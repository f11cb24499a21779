// Package fastq implements streaming FASTQ parsing and writing over the
// read.Read record type shared by the rest of the adapter-trimming pipeline.
package fastq

import (
	"bufio"
	"bytes"
	"errors"
	"io"

	"github.com/grailbio/adaptertrim/read"
)

var (
	// ErrShort is returned when a truncated FASTQ record is encountered.
	ErrShort = errors.New("short FASTQ record")
	// ErrInvalid is returned when a malformed FASTQ record is encountered.
	ErrInvalid = errors.New("invalid FASTQ record")
	// ErrDiscordant is returned when two underlying FASTQ streams disagree on
	// read count, i.e. one runs out before the other.
	ErrDiscordant = errors.New("discordant FASTQ pairs")
)

var errEOF = errors.New("eof")

// Scanner reads FASTQ records (four lines per record: "@name", sequence,
// "+", quality) from an underlying stream. Scanners are not thread-safe.
//
// Scanner validates that the name line begins with "@" and that line 3
// begins with "+"; it does not otherwise validate that sequence and quality
// have matching lengths or contain only in-range bytes, and no later stage
// of the pipeline checks this either.
type Scanner struct {
	b   *bufio.Scanner
	err error
}

// NewScanner constructs a Scanner reading raw FASTQ data from r.
func NewScanner(r io.Reader) *Scanner {
	b := bufio.NewScanner(r)
	b.Buffer(nil, 1<<20)
	return &Scanner{b: b}
}

// Scan reads the next record into a freshly allocated read.Read and returns
// it, or nil once the stream is exhausted or an error occurs — check Err()
// to distinguish between the two.
func (s *Scanner) Scan() *read.Read {
	if s.err != nil {
		return nil
	}
	if !s.b.Scan() {
		if s.err = s.b.Err(); s.err == nil {
			s.err = errEOF
		}
		return nil
	}
	header := s.b.Bytes()
	if len(header) == 0 || header[0] != '@' {
		s.err = ErrInvalid
		return nil
	}
	name, comment := splitHeader(header[1:])

	if !s.scan() {
		return nil
	}
	sequence := append([]byte(nil), s.b.Bytes()...)

	if !s.scan() {
		return nil
	}
	sep := s.b.Bytes()
	if len(sep) == 0 || sep[0] != '+' {
		s.err = ErrInvalid
		return nil
	}

	if !s.scan() {
		return nil
	}
	qualities := append([]byte(nil), s.b.Bytes()...)

	return read.New(name, comment, sequence, qualities)
}

func splitHeader(h []byte) (name, comment []byte) {
	if i := bytes.IndexByte(h, ' '); i >= 0 {
		return append([]byte(nil), h[:i]...), append([]byte(nil), h[i+1:]...)
	}
	return append([]byte(nil), h...), nil
}

func (s *Scanner) scan() bool {
	ok := s.b.Scan()
	if !ok {
		if s.err = s.b.Err(); s.err == nil {
			s.err = ErrShort
		}
	}
	return ok
}

// Err returns the scanning error, if any. Reaching end of stream cleanly is
// not an error.
func (s *Scanner) Err() error {
	if s.err == errEOF {
		return nil
	}
	return s.err
}

// PairScanner composes a pair of scanners to read R1/R2 FASTQ streams in
// lockstep, or a single interleaved stream in which R1/R2 alternate.
type PairScanner struct {
	r1, r2 *Scanner
	err    error
}

// NewPairScanner creates a PairScanner from separate R1 and R2 readers.
func NewPairScanner(r1, r2 io.Reader) *PairScanner {
	return &PairScanner{r1: NewScanner(r1), r2: NewScanner(r2)}
}

// NewInterleavedScanner creates a PairScanner that reads R1 and R2 records
// alternately from a single stream.
func NewInterleavedScanner(r io.Reader) *PairScanner {
	s := NewScanner(r)
	return &PairScanner{r1: s, r2: s}
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
	if p.r1 != p.r2 {
		if err := p.r2.Err(); err != nil {
			return err
		}
	}
	return p.err
}
