// Package stats accumulates the global and per-adapter counters produced
// by a pipeline run, and formats the human-readable summary report.
package stats

import (
	"fmt"
	"io"
	"sort"

	"github.com/grailbio/adaptertrim/adapter"
)

// Statistics is the pipeline's running total: global record/filter counters
// plus per-adapter match statistics, split by which mate the adapter was
// searched against. It is a commutative monoid under Add; the zero value is
// the identity.
type Statistics struct {
	Reads int
	Pairs int

	FilteredTooShort   int
	FilteredTooLong    int
	FilteredMaxN       int
	FilteredMaxEE      int
	FilteredUntrimmed  int
	FilteredCasava     int
	FilteredDiscarded  int // discard-trimmed
	WrittenBases       int
	QualityTrimmedBases int

	AdapterStatsR1 map[string]adapter.Stats
	AdapterStatsR2 map[string]adapter.Stats
}

// New returns a zero-value Statistics with its maps initialized, ready for
// incremental updates (Add still works fine on an uninitialized zero value
// too; this is a convenience for direct accumulation).
func New() Statistics {
	return Statistics{
		AdapterStatsR1: make(map[string]adapter.Stats),
		AdapterStatsR2: make(map[string]adapter.Stats),
	}
}

// RecordAdapterMatch folds one adapter's match statistics into the R1 or R2
// side bucket, keyed by adapter name.
func (s *Statistics) RecordAdapterMatch(name string, r2 bool, delta adapter.Stats) {
	bucket := s.AdapterStatsR1
	if r2 {
		bucket = s.AdapterStatsR2
	}
	if bucket == nil {
		bucket = make(map[string]adapter.Stats)
		if r2 {
			s.AdapterStatsR2 = bucket
		} else {
			s.AdapterStatsR1 = bucket
		}
	}
	bucket[name] = bucket[name].Add(delta)
}

// Add returns s merged with o: every counter adds pointwise, and the
// per-adapter maps union with Stats.Add on overlapping keys. Add is
// commutative and associative, and Statistics{} is its identity, so chunk
// deltas from any worker ordering fold to the same total.
func (s Statistics) Add(o Statistics) Statistics {
	out := Statistics{
		Reads:                s.Reads + o.Reads,
		Pairs:                s.Pairs + o.Pairs,
		FilteredTooShort:     s.FilteredTooShort + o.FilteredTooShort,
		FilteredTooLong:      s.FilteredTooLong + o.FilteredTooLong,
		FilteredMaxN:         s.FilteredMaxN + o.FilteredMaxN,
		FilteredMaxEE:        s.FilteredMaxEE + o.FilteredMaxEE,
		FilteredUntrimmed:    s.FilteredUntrimmed + o.FilteredUntrimmed,
		FilteredCasava:       s.FilteredCasava + o.FilteredCasava,
		FilteredDiscarded:    s.FilteredDiscarded + o.FilteredDiscarded,
		WrittenBases:         s.WrittenBases + o.WrittenBases,
		QualityTrimmedBases:  s.QualityTrimmedBases + o.QualityTrimmedBases,
		AdapterStatsR1:       mergeAdapterStats(s.AdapterStatsR1, o.AdapterStatsR1),
		AdapterStatsR2:       mergeAdapterStats(s.AdapterStatsR2, o.AdapterStatsR2),
	}
	return out
}

func mergeAdapterStats(a, b map[string]adapter.Stats) map[string]adapter.Stats {
	if len(a) == 0 && len(b) == 0 {
		return nil
	}
	out := make(map[string]adapter.Stats, len(a)+len(b))
	for k, v := range a {
		out[k] = out[k].Add(v)
	}
	for k, v := range b {
		out[k] = out[k].Add(v)
	}
	return out
}

// Report writes a human-readable summary of s to w, in the style of the
// teacher's fmt.Fprintf-based metrics dumps rather than a templating
// engine: the report is a handful of fixed lines and small per-adapter
// tables, not a document with enough structure to earn text/template.
func Report(w io.Writer, s Statistics) error {
	total := s.Reads
	if s.Pairs > 0 {
		total = s.Pairs
	}
	if _, err := fmt.Fprintf(w, "Total reads processed:%15d\n", total); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Reads filtered as too short:%9d\n", s.FilteredTooShort); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Reads filtered as too long:%10d\n", s.FilteredTooLong); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Reads with too many Ns:%15d\n", s.FilteredMaxN); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Reads with too many expected errors:%2d\n", s.FilteredMaxEE); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Reads discarded as untrimmed:%8d\n", s.FilteredUntrimmed); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Reads discarded as trimmed:%9d\n", s.FilteredDiscarded); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Reads discarded (Casava filter):%5d\n", s.FilteredCasava); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Quality-trimmed bases:%16d\n", s.QualityTrimmedBases); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Total written bases:%18d\n", s.WrittenBases); err != nil {
		return err
	}
	if err := reportAdapterSide(w, "R1", s.AdapterStatsR1); err != nil {
		return err
	}
	return reportAdapterSide(w, "R2", s.AdapterStatsR2)
}

func reportAdapterSide(w io.Writer, side string, m map[string]adapter.Stats) error {
	if len(m) == 0 {
		return nil
	}
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	if _, err := fmt.Fprintf(w, "\n=== Adapters (%s) ===\n", side); err != nil {
		return err
	}
	for _, name := range names {
		st := m[name]
		if _, err := fmt.Fprintf(w, "%-20s %10d matches\n", name, st.Matches); err != nil {
			return err
		}
	}
	return nil
}
