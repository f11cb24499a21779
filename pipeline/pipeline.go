package pipeline

import (
	"github.com/grailbio/adaptertrim/adapter"
	"github.com/grailbio/adaptertrim/read"
	"github.com/grailbio/adaptertrim/stats"
)

// PairFilterMode selects how a paired filter verdict on R1 and R2
// combines into a single drop/keep decision for the pair (spec §4.4 "Pair
// filtering").
type PairFilterMode uint8

const (
	// PairFilterAny drops the pair if either mate fails any filter.
	PairFilterAny PairFilterMode = iota
	// PairFilterBoth drops the pair only if both mates fail.
	PairFilterBoth
	// PairFilterFirst drops the pair iff R1 fails.
	PairFilterFirst
)

// Pipeline is one constructed run's modifier chain, filters, and output
// routing. It is built once per invocation and Clone()d per worker in
// parallel mode so each worker accumulates independent statistics (spec
// §5: "per-adapter statistics NOT shared during processing").
type Pipeline struct {
	Steps    []Entry
	Filters  FilterSet
	PairMode PairFilterMode
	Demux    DemuxMode

	// OneSidedAdapters is true when the caller configured adapters on
	// only one mate; it narrows the ANY→BOTH override for the untrimmed
	// predicate described in spec §4.4, so a one-sided adapter list
	// doesn't cause every pair to be discarded as "untrimmed" on its
	// adapter-free mate.
	OneSidedAdapters bool

	stats stats.Statistics
}

// New constructs a Pipeline. steps must already be in the fixed
// application order (spec §4.4, items 1-7).
func New(steps []Entry, filters FilterSet, pairMode PairFilterMode, demux DemuxMode, oneSidedAdapters bool) *Pipeline {
	return &Pipeline{Steps: steps, Filters: filters, PairMode: pairMode, Demux: demux, OneSidedAdapters: oneSidedAdapters}
}

// Clone returns a worker-local Pipeline: stateless steps (cutters,
// trimmers, the renamer) are shared; steps holding per-adapter statistics
// get a fresh, zero-stats copy so concurrent workers never race on the
// same counters.
func (p *Pipeline) Clone() *Pipeline {
	cloned := make([]Entry, len(p.Steps))
	for i, e := range p.Steps {
		cloned[i] = e.clone()
	}
	return &Pipeline{
		Steps:            cloned,
		Filters:          p.Filters,
		PairMode:         p.PairMode,
		Demux:            p.Demux,
		OneSidedAdapters: p.OneSidedAdapters,
	}
}

// Process runs the single-end modifier chain (skipping any PairedKind
// entries — those only ever appear in a pipeline built for paired data)
// and returns the transformed read, its output bin, and whether it
// survives the filters.
func (p *Pipeline) Process(r *read.Read) (*read.Read, Bin, bool) {
	casava := casavaFiltered(r)
	out := r
	for _, e := range p.Steps {
		if e.Kind == SingleKind {
			out = e.Single.Process(out)
		}
	}
	matched := out.Tag("adapter_name") != ""
	p.stats.Reads++

	reason := p.Filters.evaluate(out, matched, casava)
	p.recordReason(reason)
	if reason.Dropped() {
		return out, binForReason(reason), false
	}
	p.stats.WrittenBases += out.Len()
	return out, demuxBin(p.Demux, out.Tag("adapter_name"), matched), true
}

// ProcessPair runs the full modifier chain (both single-end entries,
// applied independently to each mate, and paired entries, applied to
// both mates at once) and returns the transformed pair, its output bin,
// and whether the pair survives the filters under PairMode.
func (p *Pipeline) ProcessPair(r1, r2 *read.Read) (*read.Read, *read.Read, Bin, bool) {
	casava1, casava2 := casavaFiltered(r1), casavaFiltered(r2)
	out1, out2 := r1, r2
	for _, e := range p.Steps {
		switch e.Kind {
		case SingleKind:
			out1 = e.Single.Process(out1)
			out2 = e.Single.Process(out2)
		case PairedKind:
			out1, out2 = e.Paired.ProcessPair(out1, out2)
		}
	}
	matched1 := out1.Tag("adapter_name") != ""
	matched2 := out2.Tag("adapter_name") != ""
	p.stats.Pairs++

	reason1 := p.Filters.evaluate(out1, matched1, casava1)
	reason2 := p.Filters.evaluate(out2, matched2, casava2)

	mode := p.PairMode
	if p.OneSidedAdapters && mode == PairFilterAny &&
		(reason1 == ReasonDiscardUntrimmed || reason2 == ReasonDiscardUntrimmed) {
		mode = PairFilterBoth
	}

	drop := pairDrop(mode, reason1.Dropped(), reason2.Dropped())
	worst := combineReasons(reason1, reason2)
	p.recordReason(worst)

	if drop {
		return out1, out2, binForReason(worst), false
	}
	p.stats.WrittenBases += out1.Len() + out2.Len()
	bin := demuxBin(p.Demux, out1.Tag("adapter_name"), matched1)
	if p.Demux == DemuxCombinatorial {
		bin = demuxBinPair(p.Demux, out1.Tag("adapter_name"), matched1, out2.Tag("adapter_name"), matched2)
	}
	return out1, out2, bin, true
}

func pairDrop(mode PairFilterMode, fail1, fail2 bool) bool {
	switch mode {
	case PairFilterBoth:
		return fail1 && fail2
	case PairFilterFirst:
		return fail1
	default: // PairFilterAny
		return fail1 || fail2
	}
}

// combineReasons picks the higher-precedence (lower-valued, non-None)
// reason between a and b, matching the §4.5 precedence order the Reason
// enum is declared in.
func combineReasons(a, b Reason) Reason {
	switch {
	case !a.Dropped():
		return b
	case !b.Dropped():
		return a
	case a < b:
		return a
	default:
		return b
	}
}

func (p *Pipeline) recordReason(r Reason) {
	switch r {
	case ReasonTooShort:
		p.stats.FilteredTooShort++
	case ReasonTooLong:
		p.stats.FilteredTooLong++
	case ReasonMaxN:
		p.stats.FilteredMaxN++
	case ReasonMaxEE:
		p.stats.FilteredMaxEE++
	case ReasonCasava:
		p.stats.FilteredCasava++
	case ReasonDiscardTrimmed:
		p.stats.FilteredDiscarded++
	case ReasonDiscardUntrimmed:
		p.stats.FilteredUntrimmed++
	}
}

type adapterStatsReporter interface {
	AdapterStats() (r1, r2 map[string]adapter.Stats)
}

// Stats returns p's accumulated run statistics: the global counters
// tracked directly by Process/ProcessPair, folded with the per-adapter
// match statistics owned by whichever adapter-cutter steps are in the
// chain.
func (p *Pipeline) Stats() stats.Statistics {
	out := p.stats
	for _, e := range p.Steps {
		var reporter adapterStatsReporter
		var ok bool
		switch e.Kind {
		case SingleKind:
			reporter, ok = e.Single.(adapterStatsReporter)
		case PairedKind:
			reporter, ok = e.Paired.(adapterStatsReporter)
		}
		if !ok {
			continue
		}
		r1, r2 := reporter.AdapterStats()
		for name, s := range r1 {
			out.RecordAdapterMatch(name, false, s)
		}
		for name, s := range r2 {
			out.RecordAdapterMatch(name, true, s)
		}
	}
	return out
}
