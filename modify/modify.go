// Package modify implements the fixed-order chain of read modifiers: the
// unconditional cutter, quality trimmers, adapter cutters, the
// reverse-complement prober, post-trim cleanups, and the renamer.
//
// Each modifier is a tagged variant of a single interface rather than a
// class hierarchy: Step for single-end steps, PairStep for steps that need
// to see both mates at once (the paired adapter cutter, the paired
// renamer). The pipeline dispatches over these two interfaces directly; a
// Step applied to paired data simply runs on each mate independently.
package modify

import "github.com/grailbio/adaptertrim/read"

// Step processes one read, returning the (possibly unmodified) result.
// Implementations never mutate r in place; they return a fresh *read.Read
// when they need to change anything.
type Step interface {
	Process(r *read.Read) *read.Read
}

// PairStep processes a mated pair together, for modifiers whose outcome on
// one mate depends on the other (the paired adapter cutter removes a pair
// only when both sides match; the paired renamer's template can reference
// both mates' variables at once).
type PairStep interface {
	ProcessPair(r1, r2 *read.Read) (*read.Read, *read.Read)
}

// SingleCloner is implemented by Steps that own per-worker mutable state
// (adapter match statistics) and need a fresh, zero-stats copy for each
// parallel worker. Steps with no such state (cutters, quality trimmers,
// the renamer) don't implement it and are simply shared across workers.
type SingleCloner interface {
	CloneSingle() Step
}

// PairCloner is SingleCloner's PairStep counterpart.
type PairCloner interface {
	ClonePair() PairStep
}

// sliceRead returns r with its sequence (and qualities, if present)
// restricted to [start, stop); it returns r unchanged when that is the
// whole read, and clones otherwise so the caller never mutates a shared
// backing array.
func sliceRead(r *read.Read, start, stop int) *read.Read {
	if stop > r.Len() {
		stop = r.Len()
	}
	if start < 0 {
		start = 0
	}
	if start > stop {
		start = stop
	}
	if start == 0 && stop == r.Len() {
		return r
	}
	c := r.Clone()
	c.Sequence = c.Sequence[start:stop]
	if c.Qualities != nil {
		c.Qualities = c.Qualities[start:stop]
	}
	return c
}
