package align

// hammingBack finds the best mismatch-only (no indel) match of pattern
// against text, with the match forced to end at text's last byte and the
// pattern consumed from its own start. textOffset is the read index that
// text[0] corresponds to (used only to compute rstart).
//
// This is the allow_indels=false fast path: each candidate overlap length is
// a fixed-offset byte comparison, which is exactly the "bit-parallel"
// word-at-a-time case the Myers algorithm degenerates to when no edit
// operations besides substitution are permitted.
func hammingBack(pattern, text []byte, textOffset int, cfg Config) (Match, bool) {
	n := len(text)
	m := len(pattern)
	best := Match{}
	found := false
	maxLen := m
	if maxLen > n {
		maxLen = n
	}
	for l := maxLen; l >= cfg.MinOverlap; l-- {
		errs := 0
		ok := true
		for i := 0; i < l; i++ {
			if !matchesBase(text[n-l+i], pattern[i], cfg) {
				errs++
				if errs > cfg.MaxErrors.Allowed(l) {
					ok = false
					break
				}
			}
		}
		if !ok {
			continue
		}
		if cfg.Anchored && l != m {
			continue
		}
		cand := Match{
			RStart: textOffset + n - l,
			REnd:   textOffset + n,
			AStart: 0,
			AEnd:   l,
			Errors: errs,
		}
		if !found || betterThan(cand, best) {
			best, found = cand, true
		}
	}
	return best, found
}

// hammingFront is the mirror of hammingBack for the reversed-space search
// alignFront performs: pat and text are both already reversed, so this call
// is structurally identical to hammingBack and the caller is responsible
// for translating the result back into original-read coordinates.
func hammingFront(pat, text []byte, cfg Config) (Match, bool) {
	return hammingBack(pat, text, 0, cfg)
}
