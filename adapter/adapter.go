// Package adapter compiles adapter sequences into matchers and applies
// the matched region to a read according to an action (trim, retain, mask,
// lowercase, or record-only).
package adapter

import (
	"github.com/grailbio/adaptertrim/align"
	"github.com/grailbio/adaptertrim/read"
)

// Action selects what Apply does with the bases covered by a match.
type Action uint8

const (
	// Trim removes the matched region, keeping the rest of the read.
	Trim Action = iota
	// Retain keeps only the matched region, discarding the rest.
	Retain
	// Mask replaces the matched region's bases with 'N', preserving length.
	Mask
	// Lowercase lowercases the matched region's bases, preserving length.
	Lowercase
	// None records the match but leaves the sequence untouched.
	None
)

// Adapter is a compiled pattern plus the action applied on a match and the
// accumulating match statistics.
type Adapter struct {
	Name    string
	Pattern []byte
	Cfg     align.Config
	Action  Action

	stats Stats
}

// New constructs an Adapter. Pattern is not copied; callers should pass an
// owned slice.
func New(name string, pattern []byte, cfg align.Config, action Action) *Adapter {
	return &Adapter{Name: name, Pattern: pattern, Cfg: cfg, Action: action}
}

// Align runs the approximate matcher against seq without modifying
// anything; Apply calls this internally.
func (a *Adapter) Align(seq []byte) (align.Match, bool) {
	return align.Align(a.Pattern, seq, a.Cfg)
}

// Apply searches r.Sequence for a match and, if one is found, returns the
// transformed read (per a.Action) and the match; otherwise it returns r
// unchanged and ok=false. Matching never fails a read outright: "no match"
// is a normal, recordable outcome.
func (a *Adapter) Apply(r *read.Read) (*read.Read, align.Match, bool) {
	m, ok := a.Align(r.Sequence)
	if !ok {
		return r, align.Match{}, false
	}
	return a.ApplyMatch(r, m), m, true
}

// ApplyMatch records m against a's statistics and applies a's Action to r,
// for callers (such as the paired adapter cutter) that already ran the
// search themselves and don't want to pay for it twice.
func (a *Adapter) ApplyMatch(r *read.Read, m align.Match) *read.Read {
	a.record(r, m)
	return a.transform(r, m)
}

func (a *Adapter) transform(r *read.Read, m align.Match) *read.Read {
	switch a.Action {
	case Trim:
		return trimRegion(r, m)
	case Retain:
		return retainRegion(r, m)
	case Mask:
		return recolorRegion(r, m, 'N')
	case Lowercase:
		return lowercaseRegion(r, m)
	default: // None
		return r.Clone()
	}
}

// trimRegion removes read.Sequence[m.RStart:m.REnd]; since a Match is
// always pinned to one end of the read (RStart==0 for a FRONT match,
// REnd==len(seq) for a BACK match), this is always a single slice off
// either end, never a splice out of the middle.
func trimRegion(r *read.Read, m align.Match) *read.Read {
	c := r.Clone()
	if m.RStart == 0 {
		c.Sequence = c.Sequence[m.REnd:]
		if c.Qualities != nil {
			c.Qualities = c.Qualities[m.REnd:]
		}
	} else {
		c.Sequence = c.Sequence[:m.RStart]
		if c.Qualities != nil {
			c.Qualities = c.Qualities[:m.RStart]
		}
	}
	return c
}

// retainRegion keeps only the matched region, the mirror image of Trim.
func retainRegion(r *read.Read, m align.Match) *read.Read {
	c := r.Clone()
	c.Sequence = c.Sequence[m.RStart:m.REnd]
	if c.Qualities != nil {
		c.Qualities = c.Qualities[m.RStart:m.REnd]
	}
	return c
}

func recolorRegion(r *read.Read, m align.Match, b byte) *read.Read {
	c := r.Clone()
	for i := m.RStart; i < m.REnd; i++ {
		c.Sequence[i] = b
	}
	return c
}

func lowercaseRegion(r *read.Read, m align.Match) *read.Read {
	c := r.Clone()
	for i := m.RStart; i < m.REnd; i++ {
		if c.Sequence[i] >= 'A' && c.Sequence[i] <= 'Z' {
			c.Sequence[i] += 'a' - 'A'
		}
	}
	return c
}

// Clone returns a new Adapter sharing a's pattern and configuration but
// starting from zero statistics, for per-worker isolation in the parallel
// runner (spec §5: "per-adapter statistics NOT shared during processing").
func (a *Adapter) Clone() *Adapter {
	return &Adapter{Name: a.Name, Pattern: a.Pattern, Cfg: a.Cfg, Action: a.Action}
}

// Stats returns a snapshot of the adapter's accumulated match statistics.
func (a *Adapter) Stats() Stats {
	return a.stats.clone()
}

// MergeStats folds another worker's delta into a's accumulated statistics
// (used by the parallel runner after a chunk's worker clone finishes).
func (a *Adapter) MergeStats(o Stats) {
	a.stats = a.stats.Add(o)
}

func (a *Adapter) record(r *read.Read, m align.Match) {
	a.stats.addMatch(len(a.Pattern), m)
}
