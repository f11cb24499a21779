package modify

import (
	"bytes"
	"fmt"
	"regexp"

	"github.com/grailbio/adaptertrim/read"
)

// LengthShortener trims a fixed number of bases off one end, with the
// opposite sign convention to Cutter (here positive removes from the end,
// negative from the start), and runs after adapter trimming rather than
// before it.
type LengthShortener struct {
	N int
}

// Process implements Step.
func (l *LengthShortener) Process(r *read.Read) *read.Read {
	length := r.Len()
	if l.N >= 0 {
		n := l.N
		if n > length {
			n = length
		}
		return sliceRead(r, 0, length-n)
	}
	n := -l.N
	if n > length {
		n = length
	}
	return sliceRead(r, n, length)
}

// NEndTrimmer removes any run of N bases from both ends of the read,
// stopping at the first non-N base on each side.
type NEndTrimmer struct{}

// Process implements Step.
func (*NEndTrimmer) Process(r *read.Read) *read.Read {
	start := 0
	for start < len(r.Sequence) && isN(r.Sequence[start]) {
		start++
	}
	stop := len(r.Sequence)
	for stop > start && isN(r.Sequence[stop-1]) {
		stop--
	}
	return sliceRead(r, start, stop)
}

func isN(b byte) bool {
	return b == 'N' || b == 'n'
}

var lengthTagPattern = regexp.MustCompile(`(\w+):(\d+)`)

// LengthTagRewriter locates "Tag:<number>" in the read's comment and
// overwrites the number with the read's current length, for formats that
// embed the pre-trim length in the description (e.g. SRA's "length:101").
type LengthTagRewriter struct {
	Tag string
}

// Process implements Step.
func (l *LengthTagRewriter) Process(r *read.Read) *read.Read {
	if len(r.Comment) == 0 {
		return r
	}
	prefix := []byte(l.Tag + ":")
	idx := bytes.Index(r.Comment, prefix)
	if idx < 0 {
		return r
	}
	rest := r.Comment[idx+len(prefix):]
	end := 0
	for end < len(rest) && rest[end] >= '0' && rest[end] <= '9' {
		end++
	}
	if end == 0 {
		return r
	}
	c := r.Clone()
	newComment := make([]byte, 0, len(c.Comment))
	newComment = append(newComment, c.Comment[:idx+len(prefix)]...)
	newComment = append(newComment, []byte(fmt.Sprintf("%d", c.Len()))...)
	newComment = append(newComment, c.Comment[idx+len(prefix)+end:]...)
	c.Comment = newComment
	return c
}

// SuffixStripper removes one of a set of fixed suffixes from the read's
// name, trying each in turn and stopping at the first one that matches
// (used to strip sequencer-added "/1", "/2" style suffixes).
type SuffixStripper struct {
	Suffixes [][]byte
}

// Process implements Step.
func (s *SuffixStripper) Process(r *read.Read) *read.Read {
	for _, suf := range s.Suffixes {
		if bytes.HasSuffix(r.Name, suf) {
			c := r.Clone()
			c.Name = c.Name[:len(c.Name)-len(suf)]
			return c
		}
	}
	return r
}

// PrefixSuffixAdder wraps the read's name in a fixed prefix and suffix,
// each of which may contain a single "{name}" placeholder filled with the
// name of the adapter that last matched this read (empty if none did).
type PrefixSuffixAdder struct {
	Prefix, Suffix string
}

// Process implements Step.
func (p *PrefixSuffixAdder) Process(r *read.Read) *read.Read {
	if p.Prefix == "" && p.Suffix == "" {
		return r
	}
	name := r.Tag("adapter_name")
	prefix := expandName(p.Prefix, name)
	suffix := expandName(p.Suffix, name)
	c := r.Clone()
	newName := make([]byte, 0, len(prefix)+len(c.Name)+len(suffix))
	newName = append(newName, prefix...)
	newName = append(newName, c.Name...)
	newName = append(newName, suffix...)
	c.Name = newName
	return c
}

var namePlaceholder = regexp.MustCompile(`\{name\}`)

func expandName(tmpl, name string) string {
	return namePlaceholder.ReplaceAllString(tmpl, name)
}

// ZeroCapper clamps every quality value below QualBase (i.e. a negative
// Phred score) up to QualBase, for encoders that can't represent negative
// qualities.
type ZeroCapper struct {
	QualBase byte
}

// Process implements Step.
func (z *ZeroCapper) Process(r *read.Read) *read.Read {
	if !r.HasQualities() {
		return r
	}
	capped := false
	for _, q := range r.Qualities {
		if q < z.QualBase {
			capped = true
			break
		}
	}
	if !capped {
		return r
	}
	c := r.Clone()
	for i, q := range c.Qualities {
		if q < z.QualBase {
			c.Qualities[i] = z.QualBase
		}
	}
	return c
}
