package modify

import (
	"github.com/grailbio/adaptertrim/adapter"
	"github.com/grailbio/adaptertrim/align"
	"github.com/grailbio/adaptertrim/read"
	"github.com/grailbio/adaptertrim/seq"
)

// ReverseComplementer decides, per read, whether the read or its reverse
// complement is the better-explained orientation against Set, and rewrites
// the read to that orientation. Ties and forward wins leave the read
// untouched; a reverse win replaces Sequence and Qualities with their
// reverse complement/reverse, sets the read's "rc" tag to "true", and
// appends " rc" to its name.
//
// The comparison is best-match-per-orientation, not best-match-overall:
// each orientation's own best adapter match is computed independently and
// the two are compared, rather than pooling both orientations' candidate
// matches into one Set.Best call.
type ReverseComplementer struct {
	Set *adapter.Set
}

// CloneSingle implements SingleCloner.
func (rc *ReverseComplementer) CloneSingle() Step {
	return &ReverseComplementer{Set: rc.Set.Clone()}
}

// Process implements Step.
func (rc *ReverseComplementer) Process(r *read.Read) *read.Read {
	_, fwd, fwdOK := rc.Set.Best(r.Sequence)

	revSeq := seq.ReverseComplement(r.Sequence)
	_, rev, revOK := rc.Set.Best(revSeq)

	if !revOK || (fwdOK && !betterRC(rev, fwd)) {
		return r
	}

	c := r.Clone()
	c.Sequence = revSeq
	if c.Qualities != nil {
		seq.ReverseInplace(c.Qualities)
	}
	c.SetTag("rc", "true")
	c.Name = append(append([]byte{}, c.Name...), []byte(" rc")...)
	return c
}

func betterRC(candidate, incumbent align.Match) bool {
	cl := candidate.AEnd - candidate.AStart
	il := incumbent.AEnd - incumbent.AStart
	if cl != il {
		return cl > il
	}
	return candidate.Errors < incumbent.Errors
}

