package align

// bandedOverlap computes, for every candidate pattern-prefix length i in
// [cfg.MinOverlap, len(pattern)] (or only i == len(pattern) when cfg
// requires the full pattern), the edit distance of pattern[0:i] against a
// run of text that ends exactly at text's last byte. When freeStart is
// true, that run may begin anywhere within text at no cost (the read
// content before the adapter is free); when false, the run is charged an
// insertion for every leading text byte it skips.
//
// It returns the winning prefix length, its error count, and the text
// column at which its optimal run began (so the caller can recover the
// read offset the match starts at).
//
// This generalizes the row/column edit-distance recurrence used for
// downstream barcode extension: a free top row lets the match "restart" at
// any column for free, while normal diagonal/up/left transitions accumulate
// substitution, deletion and insertion cost as usual.
func bandedOverlap(pattern, text []byte, cfg Config, freeStart bool) (bestLen, bestErr, bestStart int, ok bool) {
	m := len(pattern)
	n := len(text)

	sc := GetScratch()
	defer PutScratch(sc)
	sc.ensure(n)

	prev, cur := sc.costPrev, sc.costCur
	prevStart, curStart := sc.startPrev, sc.startCur

	// Row 0: zero pattern bytes consumed.
	for j := 0; j <= n; j++ {
		if freeStart {
			prev[j] = 0
			prevStart[j] = j
		} else {
			prev[j] = j
			prevStart[j] = 0
		}
	}

	found := false
	for i := 1; i <= m; i++ {
		cur[0] = i
		curStart[0] = 0
		for j := 1; j <= n; j++ {
			subCost := 0
			if !matchesBase(text[j-1], pattern[i-1], cfg) {
				subCost = 1
			}
			diag := prev[j-1] + subCost
			diagStart := prevStart[j-1]
			up := prev[j] + 1 // pattern byte consumed, no text byte (deletion)
			upStart := prevStart[j]
			left := cur[j-1] + 1 // text byte consumed, no pattern byte (insertion)
			leftStart := curStart[j-1]

			best := diag
			start := diagStart
			if up < best {
				best, start = up, upStart
			}
			if left < best {
				best, start = left, leftStart
			}
			cur[j] = best
			curStart[j] = start
		}

		if (cfg.Anchored && i == m) || (!cfg.Anchored && i >= cfg.MinOverlap) {
			errs := cur[n]
			if errs <= cfg.MaxErrors.Allowed(i) {
				cand := Match{AEnd: i, Errors: errs}
				if !found || betterThan(cand, Match{AEnd: bestLen, Errors: bestErr}) {
					bestLen, bestErr, bestStart = i, errs, curStart[n]
					found = true
				}
			}
		}

		prev, cur = cur, prev
		prevStart, curStart = curStart, prevStart
	}

	return bestLen, bestErr, bestStart, found
}
