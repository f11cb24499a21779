// Package pipeline composes modify.Step/modify.PairStep modifiers into the
// fixed-order chain, applies the filter precedence from spec §4.5, and
// routes each surviving record to an output bin (main, a length filter
// bin, demultiplex-by-adapter-name, or untrimmed).
package pipeline

import "github.com/grailbio/adaptertrim/modify"

// Kind tags which of the two modifier shapes an Entry holds — the "dynamic
// class hierarchy of modifiers" design note resolved as a tagged variant
// rather than a common base type, since Step and PairStep have genuinely
// different signatures (one read in/out vs. two).
type Kind uint8

const (
	// SingleKind entries run modify.Step.Process on each mate independently.
	SingleKind Kind = iota
	// PairedKind entries run modify.PairStep.ProcessPair on both mates at once.
	PairedKind
)

// Entry is one link in the modifier chain.
type Entry struct {
	Kind   Kind
	Single modify.Step
	Paired modify.PairStep
}

// Single wraps a single-end step as a chain Entry.
func Single(s modify.Step) Entry { return Entry{Kind: SingleKind, Single: s} }

// Paired wraps a pair step as a chain Entry.
func Paired(p modify.PairStep) Entry { return Entry{Kind: PairedKind, Paired: p} }

// clone returns a worker-local copy of e: entries backed by per-adapter
// statistics get a fresh, zero-stats copy (via modify.SingleCloner /
// modify.PairCloner); stateless entries are shared as-is.
func (e Entry) clone() Entry {
	switch e.Kind {
	case SingleKind:
		if c, ok := e.Single.(modify.SingleCloner); ok {
			return Single(c.CloneSingle())
		}
		return e
	case PairedKind:
		if c, ok := e.Paired.(modify.PairCloner); ok {
			return Paired(c.ClonePair())
		}
		return e
	default:
		return e
	}
}
