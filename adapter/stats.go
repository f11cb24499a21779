package adapter

import "github.com/grailbio/adaptertrim/align"

// Stats accumulates per-adapter match statistics. It forms a commutative
// monoid under Add: the zero value is the identity, and merging chunk-level
// deltas in any order yields the same totals (mirroring the Statistics
// monoid the runner folds chunk results into).
type Stats struct {
	Matches          int
	RemovedLengths   map[int]int // removed-length histogram, keyed by bases removed
	ErrorsByPosition []int       // index k = count of matches with exactly k errors
	WildcardBases    int
}

func (s *Stats) addMatch(patternLen int, m align.Match) {
	s.Matches++
	removed := m.Length()
	if s.RemovedLengths == nil {
		s.RemovedLengths = make(map[int]int)
	}
	s.RemovedLengths[removed]++

	if need := m.Errors + 1; len(s.ErrorsByPosition) < need {
		grown := make([]int, need)
		copy(grown, s.ErrorsByPosition)
		s.ErrorsByPosition = grown
	}
	s.ErrorsByPosition[m.Errors]++
	_ = patternLen
}

// Add returns s merged with o; neither input is mutated.
func (s Stats) Add(o Stats) Stats {
	out := Stats{Matches: s.Matches + o.Matches, WildcardBases: s.WildcardBases + o.WildcardBases}

	out.RemovedLengths = make(map[int]int, len(s.RemovedLengths)+len(o.RemovedLengths))
	for k, v := range s.RemovedLengths {
		out.RemovedLengths[k] += v
	}
	for k, v := range o.RemovedLengths {
		out.RemovedLengths[k] += v
	}

	n := len(s.ErrorsByPosition)
	if len(o.ErrorsByPosition) > n {
		n = len(o.ErrorsByPosition)
	}
	if n > 0 {
		out.ErrorsByPosition = make([]int, n)
		for i, v := range s.ErrorsByPosition {
			out.ErrorsByPosition[i] += v
		}
		for i, v := range o.ErrorsByPosition {
			out.ErrorsByPosition[i] += v
		}
	}
	return out
}

func (s Stats) clone() Stats {
	return Stats{}.Add(s)
}
