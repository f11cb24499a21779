package main

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// stringList accumulates repeatable -a/-g/-b-style flags.
type stringList []string

func (l *stringList) String() string { return strings.Join(*l, ",") }

func (l *stringList) Set(v string) error {
	*l = append(*l, v)
	return nil
}

// parseCuts parses a -u/-U style argument: a single int, or two
// comma-separated ints of opposite sign (one 5' cut, one 3' cut).
func parseCuts(raw string) ([]int, error) {
	if raw == "" {
		return nil, nil
	}
	var out []int
	for _, part := range strings.Split(raw, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, errors.Wrapf(err, "invalid cut length %q", part)
		}
		out = append(out, n)
	}
	return out, nil
}

// parseQualityCutoff parses a -q/-Q style argument: a single int (3' cutoff
// only) or "front,back".
func parseQualityCutoff(raw string) (front, back int, set bool, err error) {
	if raw == "" {
		return 0, 0, false, nil
	}
	parts := strings.Split(raw, ",")
	switch len(parts) {
	case 1:
		back, err = strconv.Atoi(strings.TrimSpace(parts[0]))
		return 0, back, err == nil, err
	case 2:
		front, err = strconv.Atoi(strings.TrimSpace(parts[0]))
		if err != nil {
			return 0, 0, false, errors.Wrapf(err, "invalid quality cutoff %q", raw)
		}
		back, err = strconv.Atoi(strings.TrimSpace(parts[1]))
		return front, back, err == nil, err
	default:
		return 0, 0, false, errors.Errorf("invalid quality cutoff %q", raw)
	}
}
