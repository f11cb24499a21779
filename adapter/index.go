package adapter

import (
	"bytes"

	farm "github.com/dgryski/go-farm"

	"github.com/grailbio/adaptertrim/align"
)

// Set is a collection of adapters searched together against a read,
// optionally accelerated by a k-mer prefilter over anchored 5' members.
type Set struct {
	all     []*Adapter
	index   *index // nil when indexing is disabled or no member qualifies
	indexed bool   // whether useIndex was requested, independent of whether index ended up non-nil
}

// NewSet builds a Set over adapters. When useIndex is true and at least one
// adapter is an anchored FRONT match (the only placement the index can
// accelerate — it requires a fixed, literal byte range at the read's very
// start) and allows no errors, a k-mer prefilter is built over those
// members; every other adapter is always checked by brute force.
func NewSet(adapters []*Adapter, useIndex bool) *Set {
	s := &Set{all: adapters, indexed: useIndex}
	if useIndex {
		s.index = buildIndex(adapters)
	}
	return s
}

// Adapters returns the set's members, for callers that need to read or
// fold per-adapter statistics (the statistics reporter, the parallel
// runner's per-worker merge).
func (s *Set) Adapters() []*Adapter {
	return s.all
}

// Clone returns a new Set over freshly zero-stats clones of s's adapters,
// rebuilding the k-mer index (if any) against the clones so each worker's
// Set is fully independent.
func (s *Set) Clone() *Set {
	cloned := make([]*Adapter, len(s.all))
	for i, a := range s.all {
		cloned[i] = a.Clone()
	}
	return NewSet(cloned, s.indexed)
}

// Best returns the best-scoring match across every adapter in the set, and
// the adapter it came from.
func (s *Set) Best(seq []byte) (*Adapter, align.Match, bool) {
	candidates := s.all
	if s.index != nil {
		candidates = s.index.candidates(seq, s.all)
	}
	var (
		bestA *Adapter
		best  align.Match
		found bool
	)
	for _, a := range candidates {
		m, ok := a.Align(seq)
		if !ok {
			continue
		}
		if !found || betterMatch(m, best) {
			bestA, best, found = a, m, true
		}
	}
	return bestA, best, found
}

func betterMatch(candidate, incumbent align.Match) bool {
	cl := candidate.AEnd - candidate.AStart
	il := incumbent.AEnd - incumbent.AStart
	if cl != il {
		return cl > il
	}
	return candidate.Errors < incumbent.Errors
}

// index accelerates lookup for anchored-FRONT adapters by hashing the first
// k bytes of each such adapter's pattern, where k is the smallest
// (min_overlap, pattern length) among them. Adapters whose pattern matching
// allows adapter-side wildcards, or whose error budget is not zero, are
// excluded from the hash buckets (a literal-byte hash represents neither
// wildcard equality nor a mismatch) and always checked by brute force
// instead. Candidates are tried in the Set's own order, so the index never
// changes which adapter is reported as the best match — only how many
// candidates are tried.
type index struct {
	k          int
	buckets    map[uint64][]*Adapter
	nonIndexed []*Adapter
}

func buildIndex(adapters []*Adapter) *index {
	var anchoredFront []*Adapter
	var rest []*Adapter
	for _, a := range adapters {
		if a.Cfg.Placement == align.Front && a.Cfg.Anchored && !a.Cfg.AdapterWildcards &&
			a.Cfg.MaxErrors.Allowed(len(a.Pattern)) == 0 {
			anchoredFront = append(anchoredFront, a)
		} else {
			rest = append(rest, a)
		}
	}
	if len(anchoredFront) == 0 {
		return nil
	}

	k := len(anchoredFront[0].Pattern)
	for _, a := range anchoredFront {
		if len(a.Pattern) < k {
			k = len(a.Pattern)
		}
		if a.Cfg.MinOverlap > 0 && a.Cfg.MinOverlap < k {
			k = a.Cfg.MinOverlap
		}
	}
	if k <= 0 {
		return nil
	}

	ix := &index{k: k, buckets: make(map[uint64][]*Adapter), nonIndexed: rest}
	for _, a := range anchoredFront {
		h := farm.Hash64(upper(a.Pattern[:k]))
		ix.buckets[h] = append(ix.buckets[h], a)
	}
	return ix
}

func (ix *index) candidates(readSeq []byte, all []*Adapter) []*Adapter {
	if len(readSeq) < ix.k || hasAmbiguous(readSeq[:ix.k]) {
		// Can't trust the literal-byte hash to stand in for wildcard
		// equality here; fall back to brute force over everything so the
		// index can never miss a match brute force would have found.
		return all
	}
	h := farm.Hash64(upper(readSeq[:ix.k]))
	keep := make(map[*Adapter]bool, len(ix.nonIndexed)+len(ix.buckets[h]))
	for _, a := range ix.nonIndexed {
		keep[a] = true
	}
	for _, a := range ix.buckets[h] {
		keep[a] = true
	}
	out := make([]*Adapter, 0, len(keep))
	for _, a := range all {
		if keep[a] {
			out = append(out, a)
		}
	}
	return out
}

func upper(b []byte) []byte {
	out := make([]byte, len(b))
	for i, c := range b {
		if c >= 'a' && c <= 'z' {
			c -= 'a' - 'A'
		}
		out[i] = c
	}
	return out
}

func hasAmbiguous(b []byte) bool {
	return bytes.IndexFunc(b, func(r rune) bool {
		switch r {
		case 'A', 'C', 'G', 'T', 'a', 'c', 'g', 't':
			return false
		default:
			return true
		}
	}) >= 0
}
