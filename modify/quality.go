package modify

import "github.com/grailbio/adaptertrim/read"

// QualityTrimmer implements the standard running-sum quality trimmer:
// Phred cutoffs (CutoffFront, CutoffBack) are applied independently to
// each end, trimming while the cumulative sum of (cutoff - quality) stays
// non-negative and stopping at the running maximum.
type QualityTrimmer struct {
	CutoffFront, CutoffBack int
	QualBase                byte
}

// Process implements Step.
func (q *QualityTrimmer) Process(r *read.Read) *read.Read {
	if !r.HasQualities() {
		return r
	}
	start := trimFrontIndex(r.Qualities, q.CutoffFront, q.QualBase)
	stop := trimBackIndex(r.Qualities, q.CutoffBack, q.QualBase)
	if start >= stop {
		return sliceRead(r, 0, 0)
	}
	return sliceRead(r, start, stop)
}

// NextSeqQualityTrimmer is the standard trimmer's 3'-only sibling: it
// treats every G base as if it had quality 0 (NextSeq/NovaSeq two-color
// chemistry encodes "no signal" as a high-confidence G, which the running
// sum must not trust) before running the same back-trim core.
type NextSeqQualityTrimmer struct {
	Cutoff   int
	QualBase byte
}

// Process implements Step.
func (n *NextSeqQualityTrimmer) Process(r *read.Read) *read.Read {
	if !r.HasQualities() {
		return r
	}
	adjusted := make([]byte, len(r.Qualities))
	copy(adjusted, r.Qualities)
	for i, b := range r.Sequence {
		if b == 'G' || b == 'g' {
			adjusted[i] = n.QualBase
		}
	}
	stop := trimBackIndex(adjusted, n.Cutoff, n.QualBase)
	return sliceRead(r, 0, stop)
}

// trimFrontIndex returns the index to trim up to (exclusive) from the
// read's 5' end under the running-sum algorithm.
func trimFrontIndex(q []byte, cutoff int, base byte) int {
	s, maxSum, start := 0, 0, 0
	for i, qb := range q {
		qv := int(qb) - int(base)
		s += cutoff - qv
		if s < 0 {
			break
		}
		if s > maxSum {
			maxSum = s
			start = i + 1
		}
	}
	return start
}

// trimBackIndex returns the index to trim from (exclusive end boundary)
// on the read's 3' end under the running-sum algorithm.
func trimBackIndex(q []byte, cutoff int, base byte) int {
	s, maxSum, stop := 0, 0, len(q)
	for i := len(q) - 1; i >= 0; i-- {
		qv := int(q[i]) - int(base)
		s += cutoff - qv
		if s < 0 {
			break
		}
		if s > maxSum {
			maxSum = s
			stop = i
		}
	}
	return stop
}
