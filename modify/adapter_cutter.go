package modify

import (
	"strconv"

	"github.com/grailbio/adaptertrim/adapter"
	"github.com/grailbio/adaptertrim/align"
	"github.com/grailbio/adaptertrim/read"
)

// AdapterCutter searches a single end against a Set and applies the best
// match's action, repeating up to Times passes (stopping as soon as a pass
// finds nothing). R1 and R2 each get their own AdapterCutter wired up by the
// pipeline, so the two sides never see each other here. Side is purely a
// label ("R1" or "R2") used to attribute statistics to the right bucket; it
// has no effect on matching.
type AdapterCutter struct {
	Set   *adapter.Set
	Times int
	Side  string
}

// CloneSingle implements SingleCloner.
func (c *AdapterCutter) CloneSingle() Step {
	return &AdapterCutter{Set: c.Set.Clone(), Times: c.Times, Side: c.Side}
}

// AdapterStats reports the accumulated per-adapter statistics under c's
// Side label, for Pipeline.Stats to fold into the run's Statistics.
func (c *AdapterCutter) AdapterStats() (r1, r2 map[string]adapter.Stats) {
	m := make(map[string]adapter.Stats)
	for _, a := range c.Set.Adapters() {
		m[a.Name] = a.Stats()
	}
	if c.Side == "R2" {
		return nil, m
	}
	return m, nil
}

// Process implements Step.
func (c *AdapterCutter) Process(r *read.Read) *read.Read {
	times := c.Times
	if times < 1 {
		times = 1
	}
	out := r
	for i := 0; i < times; i++ {
		a, m, ok := c.Set.Best(out.Sequence)
		if !ok {
			break
		}
		before := out
		out = a.ApplyMatch(out, m)
		annotateMatch(out, a.Name, a.Pattern, before, m)
	}
	return out
}

// PairedAdapterCutter treats R1's adapter i and R2's adapter i as one pair:
// the pair is only removed when both mates produce a match, so R1 and R2
// must carry the same number of adapters in the same order.
type PairedAdapterCutter struct {
	R1, R2 []*adapter.Adapter
}

// ClonePair implements PairCloner.
func (c *PairedAdapterCutter) ClonePair() PairStep {
	return &PairedAdapterCutter{R1: cloneAdapters(c.R1), R2: cloneAdapters(c.R2)}
}

func cloneAdapters(as []*adapter.Adapter) []*adapter.Adapter {
	out := make([]*adapter.Adapter, len(as))
	for i, a := range as {
		out[i] = a.Clone()
	}
	return out
}

// AdapterStats reports R1's and R2's accumulated per-adapter statistics.
func (c *PairedAdapterCutter) AdapterStats() (r1, r2 map[string]adapter.Stats) {
	r1 = make(map[string]adapter.Stats)
	for _, a := range c.R1 {
		r1[a.Name] = a.Stats()
	}
	r2 = make(map[string]adapter.Stats)
	for _, a := range c.R2 {
		r2[a.Name] = a.Stats()
	}
	return r1, r2
}

// ProcessPair implements PairStep.
func (c *PairedAdapterCutter) ProcessPair(r1, r2 *read.Read) (*read.Read, *read.Read) {
	out1, out2 := r1, r2
	for i := range c.R1 {
		if i >= len(c.R2) {
			break
		}
		a1, a2 := c.R1[i], c.R2[i]
		m1, ok1 := a1.Align(out1.Sequence)
		if !ok1 {
			continue
		}
		m2, ok2 := a2.Align(out2.Sequence)
		if !ok2 {
			continue
		}
		before1, before2 := out1, out2
		out1 = a1.ApplyMatch(out1, m1)
		out2 = a2.ApplyMatch(out2, m2)
		annotateMatch(out1, a1.Name, a1.Pattern, before1, m1)
		annotateMatch(out2, a2.Name, a2.Pattern, before2, m2)
	}
	return out1, out2
}

// annotateMatch records the match found against before onto out's Tags, so
// a later Renamer step or a side-file writer can recover adapter_name,
// match_sequence, cut_prefix, cut_suffix, rstart/rend, and (when the read
// has qualities) the quality bytes for each region, without threading
// extra return values through the Step interface.
func annotateMatch(out *read.Read, name string, pattern []byte, before *read.Read, m align.Match) {
	out.SetTag("adapter_name", name)
	out.SetTag("match_sequence", string(before.Sequence[m.RStart:m.REnd]))
	out.SetTag("cut_prefix", string(before.Sequence[:m.RStart]))
	out.SetTag("cut_suffix", string(before.Sequence[m.REnd:]))
	if m.REnd == len(before.Sequence) {
		out.SetTag("removed_suffix", string(before.Sequence[m.RStart:m.REnd]))
	}
	out.SetTag("match_errors", strconv.Itoa(m.Errors))
	out.SetTag("match_rstart", strconv.Itoa(m.RStart))
	out.SetTag("match_rend", strconv.Itoa(m.REnd))
	if before.HasQualities() {
		out.SetTag("match_quals", string(before.Qualities[m.RStart:m.REnd]))
		out.SetTag("before_quals", string(before.Qualities[:m.RStart]))
		out.SetTag("after_quals", string(before.Qualities[m.REnd:]))
	}
	if wild := wildcardBases(pattern, before.Sequence, m); wild != "" {
		out.SetTag("wildcard_bases", wild)
	}
}

// wildcardBases returns the read bases aligned against each 'N' in the
// adapter's matched region, for the wildcard side-file. Only meaningful
// when the match has no indels (aligned lengths equal on both sides);
// with indels the adapter-to-read position correspondence isn't a simple
// offset, so this returns "" rather than guess.
func wildcardBases(pattern, readSeq []byte, m align.Match) string {
	if m.Length() != m.AdapterLength() {
		return ""
	}
	var out []byte
	for p := m.AStart; p < m.AEnd; p++ {
		if pattern[p] == 'N' || pattern[p] == 'n' {
			out = append(out, readSeq[m.RStart+(p-m.AStart)])
		}
	}
	return string(out)
}
