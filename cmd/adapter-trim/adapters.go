package main

import (
	"context"
	"strings"

	"github.com/grailbio/adaptertrim/adapter"
	"github.com/grailbio/adaptertrim/align"
	"github.com/grailbio/adaptertrim/ioutil"
	"github.com/grailbio/adaptertrim/pipeline"
	"github.com/pkg/errors"
)

// parseAdapterSpec splits one -a/-g/-A/-G/-b/-B argument into an optional
// "name=" prefix, an anchoring marker appropriate to placement (a leading
// "^" for Front, a trailing "$" for Back), and either a literal pattern or
// a "file:path" reference to a FASTA adapter list.
func parseAdapterSpec(raw string, placement align.Placement) (name, pattern string, anchored bool, fileRef string) {
	if strings.HasPrefix(raw, "file:") {
		return "", "", false, strings.TrimPrefix(raw, "file:")
	}
	if i := strings.IndexByte(raw, '='); i > 0 {
		name, raw = raw[:i], raw[i+1:]
	}
	switch placement {
	case align.Front:
		if strings.HasPrefix(raw, "^") {
			anchored = true
			raw = raw[1:]
		}
	case align.Back:
		if strings.HasSuffix(raw, "$") {
			anchored = true
			raw = raw[:len(raw)-1]
		}
	}
	pattern = raw
	if name == "" {
		name = pattern
	}
	return
}

// buildAdapters constructs one Adapter per entry in specs, all sharing base
// (placement, error rate, overlap, indel/wildcard settings already filled
// in by the caller) and action. A "file:" entry loads every record of a
// FASTA file as an independent adapter via adapter.FromFASTA instead of
// being a single pattern.
func buildAdapters(ctx context.Context, specs []string, placement align.Placement, base align.Config, action adapter.Action) ([]*adapter.Adapter, error) {
	base.Placement = placement
	var out []*adapter.Adapter
	for _, raw := range specs {
		name, pattern, anchored, fileRef := parseAdapterSpec(raw, placement)
		if fileRef != "" {
			rc, err := ioutil.Open(ctx, fileRef)
			if err != nil {
				return nil, errors.Wrapf(err, "adapter file %s", fileRef)
			}
			fromFile, err := adapter.FromFASTA(rc, base, action)
			closeErr := rc.Close()
			if err != nil {
				return nil, errors.Wrapf(err, "adapter file %s", fileRef)
			}
			if closeErr != nil {
				return nil, errors.Wrapf(closeErr, "adapter file %s", fileRef)
			}
			out = append(out, fromFile...)
			continue
		}
		if pattern == "" {
			return nil, errors.Errorf("empty adapter sequence in %q", raw)
		}
		cfg := base
		cfg.Anchored = anchored
		out = append(out, adapter.New(name, []byte(pattern), cfg, action))
	}
	return out, nil
}

func parseAction(s string) (adapter.Action, error) {
	switch s {
	case "trim", "":
		return adapter.Trim, nil
	case "retain":
		return adapter.Retain, nil
	case "mask":
		return adapter.Mask, nil
	case "lowercase":
		return adapter.Lowercase, nil
	case "none":
		return adapter.None, nil
	default:
		return 0, errors.Errorf("unknown --action %q", s)
	}
}

func parsePairFilter(s string) (pipeline.PairFilterMode, error) {
	switch s {
	case "any", "":
		return pipeline.PairFilterAny, nil
	case "both":
		return pipeline.PairFilterBoth, nil
	case "first":
		return pipeline.PairFilterFirst, nil
	default:
		return 0, errors.Errorf("unknown --pair-filter %q", s)
	}
}
