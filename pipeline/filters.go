package pipeline

import (
	"github.com/grailbio/adaptertrim/read"
	"github.com/grailbio/adaptertrim/seq"
)

// FilterSet bundles the length/content/provenance filters applied after
// the modifier chain runs, per spec §3's Pipeline.filters and §4.5's
// precedence order.
type FilterSet struct {
	MinLen int // 0 disables
	MaxLen int // 0 disables

	MaxN  int     // -1 disables
	MaxEE float64 // <=0 disables

	QualBase byte // for MaxEE's expected-error arithmetic; defaults to 33

	DiscardTrimmed   bool
	DiscardUntrimmed bool
	DiscardCasava    bool
}

// Reason names the filter (or absence of one) that decided a record's
// fate, matching spec §4.5's precedence chain.
type Reason uint8

const (
	// ReasonNone means the record survived every filter.
	ReasonNone Reason = iota
	ReasonTooShort
	ReasonTooLong
	ReasonMaxN
	ReasonMaxEE
	ReasonCasava
	ReasonDiscardTrimmed
	ReasonDiscardUntrimmed
)

// Dropped reports whether reason represents a dropped record rather than
// ReasonNone.
func (r Reason) Dropped() bool { return r != ReasonNone }

// evaluate runs r through the filters in precedence order: too-short >
// too-long > max-N > max-EE > discard-casava > discard-trimmed >
// discard-untrimmed. matched reports whether any adapter matched this
// read (drives discard-trimmed/discard-untrimmed); casavaFiltered reports
// whether the read's Illumina header already marked it filtered.
func (f FilterSet) evaluate(r *read.Read, matched, casavaFiltered bool) Reason {
	length := r.Len()
	if f.MinLen > 0 && length < f.MinLen {
		return ReasonTooShort
	}
	if f.MaxLen > 0 && length > f.MaxLen {
		return ReasonTooLong
	}
	if f.MaxN >= 0 && seq.CountN(r.Sequence) > f.MaxN {
		return ReasonMaxN
	}
	if f.MaxEE > 0 && r.HasQualities() {
		base := f.QualBase
		if base == 0 {
			base = 33
		}
		if seq.ExpectedErrors(r.Qualities, base) > f.MaxEE {
			return ReasonMaxEE
		}
	}
	if f.DiscardCasava && casavaFiltered {
		return ReasonCasava
	}
	if f.DiscardTrimmed && matched {
		return ReasonDiscardTrimmed
	}
	if f.DiscardUntrimmed && !matched {
		return ReasonDiscardUntrimmed
	}
	return ReasonNone
}

// casavaFiltered reports whether r's comment carries an Illumina Casava
// 1.8+ header with the filter field set to 'Y' (format
// "<index>:<Y/N>:<control>:<barcode>").
func casavaFiltered(r *read.Read) bool {
	c := r.Comment
	field := 0
	start := 0
	for i := 0; i <= len(c); i++ {
		if i == len(c) || c[i] == ':' {
			if field == 1 && i > start && c[start] == 'Y' {
				return true
			}
			field++
			start = i + 1
		}
	}
	return false
}
