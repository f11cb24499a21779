package pipeline

// unknownBin is substituted for a missing adapter-name match in
// demultiplex routing (spec §4.5).
const unknownBin = "unknown"

// DemuxMode selects between spec §4.5's two demultiplex routing shapes.
type DemuxMode uint8

const (
	// DemuxNone disables demultiplexing; every surviving record goes to
	// the single main bin.
	DemuxNone DemuxMode = iota
	// DemuxNormal routes by one read's matched adapter name.
	DemuxNormal
	// DemuxCombinatorial routes paired data by the pair (R1 name, R2 name).
	DemuxCombinatorial
)

// Bin identifies an output destination. For DemuxNormal it is the matched
// adapter name (or "unknown"); for DemuxCombinatorial it is
// "<name1>/<name2>"; otherwise it is one of the fixed reason/main labels.
type Bin string

const (
	BinMain              Bin = "main"
	BinTooShort          Bin = "too_short"
	BinTooLong           Bin = "too_long"
	BinMaxN              Bin = "max_n"
	BinMaxEE             Bin = "max_ee"
	BinCasava            Bin = "casava"
	BinDiscardTrimmed    Bin = "discard_trimmed"
	BinDiscardUntrimmed  Bin = "discard_untrimmed"
)

func binForReason(r Reason) Bin {
	switch r {
	case ReasonTooShort:
		return BinTooShort
	case ReasonTooLong:
		return BinTooLong
	case ReasonMaxN:
		return BinMaxN
	case ReasonMaxEE:
		return BinMaxEE
	case ReasonCasava:
		return BinCasava
	case ReasonDiscardTrimmed:
		return BinDiscardTrimmed
	case ReasonDiscardUntrimmed:
		return BinDiscardUntrimmed
	default:
		return BinMain
	}
}

// demuxBin resolves the final bin for a surviving single-end record under
// DemuxNormal: the matched adapter name, or "unknown" when nothing
// matched.
func demuxBin(mode DemuxMode, adapterName string, matched bool) Bin {
	if mode != DemuxNormal {
		return BinMain
	}
	if !matched || adapterName == "" {
		return Bin(unknownBin)
	}
	return Bin(adapterName)
}

// demuxBinPair resolves the combinatorial bin "<name1>/<name2>" for a
// surviving pair, substituting "unknown" on either side with no match.
func demuxBinPair(mode DemuxMode, name1 string, matched1 bool, name2 string, matched2 bool) Bin {
	if mode != DemuxCombinatorial {
		return BinMain
	}
	n1, n2 := unknownBin, unknownBin
	if matched1 && name1 != "" {
		n1 = name1
	}
	if matched2 && name2 != "" {
		n2 = name2
	}
	return Bin(n1 + "/" + n2)
}
