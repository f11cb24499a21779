package main

import (
	"github.com/grailbio/adaptertrim/adapter"
	"github.com/grailbio/adaptertrim/modify"
)

// sideSpec bundles one mate's modifier configuration, built from the flag
// set with the "R1"/"R2" (or "U"/"U2" etc.) naming folded away — main.go
// fills in one of these per side and buildSideSteps turns it into the
// fixed-order chain from spec §4.4 items 1-4 and 6 (items 5 and 7, the
// reverse-complementer and renamer, are assembled separately since they
// need the adapter set and template respectively at the pipeline level).
type sideSpec struct {
	side string // "R1" or "R2", for adapter-cutter statistics attribution

	cuts []int

	nextSeqCutoff int // 0 disables (a real cutoff of exactly 0 rarely fires and is not worth a separate on/off flag)
	qualFront     int
	qualBack      int
	qualSet       bool
	qualBase      byte

	adapters []*adapter.Adapter
	times    int

	trimN         bool
	length        int
	lengthSet     bool
	lengthTag     string
	stripSuffixes [][]byte
	prefix        string
	suffix        string
	zeroCap       bool
}

// buildSideSteps returns spec.adapters' steps in the fixed §4.4 order,
// minus the reverse-complementer (pipeline-level, needs --rc) and renamer
// (pipeline-level, needs the rename template shared across the chain).
func buildSideSteps(spec sideSpec) ([]modify.Step, error) {
	var steps []modify.Step

	if len(spec.cuts) > 0 {
		cutter, err := modify.NewCutter(spec.cuts)
		if err != nil {
			return nil, err
		}
		steps = append(steps, cutter)
	}

	if spec.nextSeqCutoff > 0 {
		steps = append(steps, &modify.NextSeqQualityTrimmer{Cutoff: spec.nextSeqCutoff, QualBase: spec.qualBase})
	}
	if spec.qualSet {
		steps = append(steps, &modify.QualityTrimmer{CutoffFront: spec.qualFront, CutoffBack: spec.qualBack, QualBase: spec.qualBase})
	}

	if len(spec.adapters) > 0 {
		set := adapter.NewSet(spec.adapters, true)
		times := spec.times
		if times < 1 {
			times = 1
		}
		steps = append(steps, &modify.AdapterCutter{Set: set, Times: times, Side: spec.side})
	}

	if spec.lengthSet {
		steps = append(steps, &modify.LengthShortener{N: spec.length})
	}
	if spec.trimN {
		steps = append(steps, &modify.NEndTrimmer{})
	}
	if spec.lengthTag != "" {
		steps = append(steps, &modify.LengthTagRewriter{Tag: spec.lengthTag})
	}
	if len(spec.stripSuffixes) > 0 {
		steps = append(steps, &modify.SuffixStripper{Suffixes: spec.stripSuffixes})
	}
	if spec.prefix != "" || spec.suffix != "" {
		steps = append(steps, &modify.PrefixSuffixAdder{Prefix: spec.prefix, Suffix: spec.suffix})
	}
	if spec.zeroCap {
		steps = append(steps, &modify.ZeroCapper{QualBase: spec.qualBase})
	}
	return steps, nil
}
