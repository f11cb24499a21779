package modify

import (
	"github.com/grailbio/adaptertrim/read"
	"github.com/pkg/errors"
)

// Cutter unconditionally removes a fixed number of bases from one or both
// ends of a read, before adapter trimming runs. A positive cut removes
// from the 5' end; a negative cut removes from the 3' end. R1 and R2 get
// independent Cutters in the pipeline (spec's "applied ... independently
// of R2"), so this type itself is single-end.
type Cutter struct {
	cuts []int
}

// NewCutter validates cuts (at most two; if two, they must have opposite
// signs) and returns a Cutter, or a construction-time error.
func NewCutter(cuts []int) (*Cutter, error) {
	if len(cuts) > 2 {
		return nil, errors.Errorf("cutter: at most two cuts are allowed, got %d", len(cuts))
	}
	if len(cuts) == 2 && sameSign(cuts[0], cuts[1]) {
		return nil, errors.Errorf("cutter: two cuts for one read must have opposite signs, got %d and %d", cuts[0], cuts[1])
	}
	return &Cutter{cuts: append([]int(nil), cuts...)}, nil
}

func sameSign(a, b int) bool {
	return (a >= 0) == (b >= 0)
}

// Process implements Step.
func (c *Cutter) Process(r *read.Read) *read.Read {
	out := r
	for _, n := range c.cuts {
		out = cutOne(out, n)
	}
	return out
}

func cutOne(r *read.Read, n int) *read.Read {
	length := r.Len()
	switch {
	case n > 0:
		if n > length {
			n = length
		}
		return sliceRead(r, n, length)
	case n < 0:
		m := -n
		if m > length {
			m = length
		}
		return sliceRead(r, 0, length-m)
	default:
		return r
	}
}
