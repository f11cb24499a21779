// Package align implements approximate matching of a short adapter pattern
// against a read, for the placements used by adapter trimming: the pattern
// may be anchored to one end of the read, free to start anywhere near an
// end, or checked against both ends at once.
//
// The read may be much longer than the pattern, but an adapter match is
// always anchored at one end of the read or the other (never in the
// interior), so every search here only ever has to consider a small window
// of the read near that end — its cost is governed by the adapter length
// and error budget, not by the read length.
package align

import "github.com/grailbio/adaptertrim/seq"

// Placement selects which end of the read the pattern is expected at.
type Placement uint8

const (
	// Back matches a 3' adapter: the match must reach the read's last base;
	// the adapter may be only partially present there (partial suffix).
	Back Placement = iota
	// Front matches a 5' adapter: the match must begin at the read's first
	// base; the adapter's leading bases may be missing (partial prefix).
	Front
	// Anywhere tries both Front and Back (unanchored) and keeps the better.
	Anywhere
)

// ErrorRate expresses max_errors as either an absolute error count or a
// fraction of the aligned length, following the convention that a value
// >= 1 on construction means "absolute count" and a value in [0,1) means
// "fraction".
type ErrorRate struct {
	abs      int
	fraction float64
	isAbs    bool
}

// NewErrorRate builds an ErrorRate from a raw max_errors value.
func NewErrorRate(v float64) ErrorRate {
	if v >= 1 {
		return ErrorRate{abs: int(v), isAbs: true}
	}
	return ErrorRate{fraction: v}
}

// Allowed returns the number of errors tolerated for a match of the given
// aligned length.
func (e ErrorRate) Allowed(length int) int {
	if e.isAbs {
		return e.abs
	}
	n := int(e.fraction * float64(length))
	return n
}

// Config bundles the parameters governing one adapter's match search.
type Config struct {
	Placement        Placement
	Anchored         bool
	MaxErrors        ErrorRate
	MinOverlap       int
	AllowIndels      bool
	ReadWildcards    bool
	AdapterWildcards bool
}

// Match describes where, within a read, a pattern matched.
type Match struct {
	RStart, REnd int // half-open region of the read consumed by the match
	AStart, AEnd int // half-open region of the pattern consumed
	Errors       int
	// Front reports whether this match was anchored at the read's start
	// (meaningful only when the search placement was Anywhere).
	Front bool
}

// Length returns the aligned length on the read side.
func (m Match) Length() int {
	return m.REnd - m.RStart
}

// AdapterLength returns the aligned length on the pattern side.
func (m Match) AdapterLength() int {
	return m.AEnd - m.AStart
}

// Align searches read for pattern under cfg, returning the best match found
// and whether one satisfies cfg.MinOverlap and the error budget.
func Align(pattern, read []byte, cfg Config) (Match, bool) {
	switch cfg.Placement {
	case Back:
		return alignBack(pattern, read, cfg)
	case Front:
		return alignFront(pattern, read, cfg)
	case Anywhere:
		mf, okf := alignFront(pattern, read, withAnchored(cfg, false))
		mb, okb := alignBack(pattern, read, withAnchored(cfg, false))
		return pickBetter(mf, okf, mb, okb)
	default:
		return Match{}, false
	}
}

func withAnchored(cfg Config, anchored bool) Config {
	cfg.Anchored = anchored
	return cfg
}

func pickBetter(a Match, aOK bool, b Match, bOK bool) (Match, bool) {
	switch {
	case aOK && bOK:
		if betterThan(b, a) {
			return b, true
		}
		return a, true
	case aOK:
		return a, true
	case bOK:
		return b, true
	default:
		return Match{}, false
	}
}

// betterThan reports whether candidate beats incumbent: longer aligned
// pattern length wins, ties broken by fewer errors.
func betterThan(candidate, incumbent Match) bool {
	cl, il := candidate.AdapterLength(), incumbent.AdapterLength()
	if cl != il {
		return cl > il
	}
	return candidate.Errors < incumbent.Errors
}

// alignBack searches for pattern ending exactly at the read's last base,
// with the pattern consumed from its own beginning (astart=0) and with the
// read's start free to fall anywhere in the search window (when
// cfg.Anchored, the whole pattern must be consumed).
func alignBack(pattern, read []byte, cfg Config) (Match, bool) {
	n := len(read)
	m := len(pattern)
	if n == 0 || m == 0 {
		return Match{}, false
	}
	slack := maxSlack(cfg, m)
	w := m + slack
	if w > n {
		w = n
	}
	text := read[n-w:]

	if !cfg.AllowIndels {
		return hammingBack(pattern, text, n-w, cfg)
	}

	best, bestErr, startCol, ok := bandedOverlap(pattern, text, cfg, true)
	if !ok {
		return Match{}, false
	}
	rstart := (n - w) + startCol
	return Match{
		RStart: rstart,
		REnd:   n,
		AStart: 0,
		AEnd:   best,
		Errors: bestErr,
	}, true
}

// alignFront reduces the front-anchored search to alignBack by reversing
// both the pattern and the candidate read window.
func alignFront(pattern, read []byte, cfg Config) (Match, bool) {
	n := len(read)
	m := len(pattern)
	if n == 0 || m == 0 {
		return Match{}, false
	}
	slack := maxSlack(cfg, m)
	w := m + slack
	if w > n {
		w = n
	}
	text := reversed(read[:w])
	pat := reversed(pattern)

	var (
		best, bestErr, startCol int
		ok                      bool
	)
	if !cfg.AllowIndels {
		m2, ok2 := hammingFront(pat, text, cfg)
		if !ok2 {
			return Match{}, false
		}
		return Match{
			RStart: 0,
			REnd:   m2.AEnd,
			AStart: m - m2.AEnd,
			AEnd:   m,
			Errors: m2.Errors,
			Front:  true,
		}, true
	}
	best, bestErr, startCol, ok = bandedOverlap(pat, text, cfg, true)
	if !ok {
		return Match{}, false
	}
	rend := w - startCol
	return Match{
		RStart: 0,
		REnd:   rend,
		AStart: m - best,
		AEnd:   m,
		Errors: bestErr,
		Front:  true,
	}, true
}

func reversed(b []byte) []byte {
	r := make([]byte, len(b))
	for i, c := range b {
		r[len(b)-1-i] = c
	}
	return r
}

// maxSlack bounds how much longer than the pattern the read-side window
// needs to be to account for indels within the error budget.
func maxSlack(cfg Config, patternLen int) int {
	if !cfg.AllowIndels {
		return 0
	}
	k := cfg.MaxErrors.Allowed(patternLen)
	if k < 1 {
		k = 1
	}
	return k
}

func matchesBase(r, a byte, cfg Config) bool {
	return seq.Matches(r, a, cfg.ReadWildcards, cfg.AdapterWildcards)
}
