// adapter-trim removes sequencing adapters from FASTQ/FASTA reads, in the
// shape of the classic cutadapt command line: adapters are specified with
// -a/-g/-b (R1) and -A/-G/-B (R2), additional per-read modifications and
// filters run after trimming, and output may be split across a rest-file,
// an info-file, a wildcard-file, and (de)multiplexed main output files.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/grailbio/adaptertrim/adapter"
	"github.com/grailbio/adaptertrim/align"
	"github.com/grailbio/adaptertrim/encoding/fasta"
	"github.com/grailbio/adaptertrim/encoding/fastq"
	"github.com/grailbio/adaptertrim/ioutil"
	"github.com/grailbio/adaptertrim/modify"
	"github.com/grailbio/adaptertrim/pipeline"
	"github.com/grailbio/adaptertrim/runner"
	"github.com/grailbio/adaptertrim/stats"
	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/vcontext"
	"github.com/pkg/errors"
)

var (
	// Finding adapters.
	aList  stringList
	gList  stringList
	bList  stringList
	AList  stringList
	GList  stringList
	BList  stringList

	errorRate  = flag.Float64("e", 0.1, "maximum allowed error rate (or absolute count if >= 1)")
	times      = flag.Int("n", 1, "remove up to this many adapters from each read")
	minOverlap = flag.Int("O", 3, "minimum overlap length between adapter and read")
	action     = flag.String("action", "trim", "what to do with a matched region: trim, retain, mask, lowercase, none")
	rc         = flag.Bool("rc", false, "also try reverse-complementing R1 and keep whichever orientation matches better")
	noIndels   = flag.Bool("no-indels", false, "disallow insertions/deletions within the adapter match")
	matchReadWildcards    = flag.Bool("match-read-wildcards", false, "allow IUPAC wildcard bases in the read to match any adapter base")
	noMatchAdapterWildcards = flag.Bool("no-match-adapter-wildcards", false, "treat IUPAC wildcard bases in the adapter as literal characters instead of wildcards")

	// Additional modifications.
	cutR1       = flag.String("u", "", "remove this many bases from R1 (comma-separated pair for both ends)")
	cutR2       = flag.String("U", "", "remove this many bases from R2")
	qualR1      = flag.String("q", "", "quality-trim R1 (cutoff, or front,back)")
	qualR2      = flag.String("Q", "", "quality-trim R2")
	nextSeqTrim = flag.Int("nextseq-trim", 0, "NextSeq-specific 3' quality trim cutoff (treats G as quality 0)")
	qualityBase = flag.Int("quality-base", 33, "ASCII offset of quality value 0")
	length      = flag.String("length", "", "shorten each read to/by this many bases after trimming")
	trimN       = flag.Bool("trim-n", false, "trim N bases from both ends after adapter trimming")
	lengthTag   = flag.String("length-tag", "", "find TAG:<number> in the comment and rewrite it to the post-trim length")
	stripSuffix stringList
	prefix      = flag.String("x", "", "prefix to add to read names ({name} expands to the matched adapter's name)")
	suffix      = flag.String("y", "", "suffix to add to read names")
	rename      = flag.String("rename", "", "rename template over {id,header,comment,adapter_name,match_sequence,cut_prefix,cut_suffix,rc}")
	zeroCap     = flag.Bool("zero-cap", false, "change negative quality values to zero")
	zeroCapAlt  = flag.Bool("Z", false, "alias for --zero-cap")

	// Filters.
	minLen           = flag.Int("m", 0, "discard reads shorter than this")
	maxLen           = flag.Int("M", 0, "discard reads longer than this")
	maxN             = flag.Int("max-n", -1, "discard reads with more than this many N bases")
	maxEE            = flag.Float64("max-ee", 0, "discard reads with more than this many expected errors")
	discardTrimmed   = flag.Bool("discard-trimmed", false, "discard reads in which an adapter was found")
	discardUntrimmed = flag.Bool("discard-untrimmed", false, "discard reads in which no adapter was found")
	discardCasava    = flag.Bool("discard-casava", false, "discard reads already filtered by the Illumina Casava pipeline")

	// Output.
	mainOutput         = flag.String("o", "-", "main R1/single-end output path")
	pairedOutput       = flag.String("p", "", "main R2 output path (paired mode)")
	fastaOut           = flag.Bool("fasta", false, "write FASTA output even if input has qualities")
	tooShortOutput     = flag.String("too-short-output", "", "output path for reads filtered as too short")
	tooShortPaired     = flag.String("too-short-paired-output", "", "")
	tooLongOutput      = flag.String("too-long-output", "", "output path for reads filtered as too long")
	tooLongPaired      = flag.String("too-long-paired-output", "", "")
	untrimmedOutput    = flag.String("untrimmed-output", "", "output path for reads with no adapter match")
	untrimmedPaired    = flag.String("untrimmed-paired-output", "", "")
	infoFile           = flag.String("info-file", "", "path for the per-read match info file")
	restFile           = flag.String("rest-file", "", "path for the removed-suffix rest file")
	wildcardFile       = flag.String("wildcard-file", "", "path for the adapter-wildcard file")

	// Pairing.
	pairAdapters = flag.Bool("pair-adapters", false, "treat R1 adapter i and R2 adapter i as a pair; remove only when both match")
	pairFilter   = flag.String("pair-filter", "any", "how a pair's filter verdict combines across mates: any, both, first")
	interleaved  = flag.Bool("interleaved", false, "read/write a single R1/R2-interleaved stream")

	// Runtime.
	cores  = flag.Int("j", 1, "number of worker threads")
	quiet  = flag.Bool("quiet", false, "suppress the summary report")
	report = flag.String("report", "-", "path to write the summary report to")
	debug  = flag.Bool("debug", false, "print full error detail instead of a single-line message")
)

func init() {
	flag.Var(&aList, "a", "3' adapter on R1 (repeatable)")
	flag.Var(&gList, "g", "5' adapter on R1 (repeatable)")
	flag.Var(&bList, "b", "adapter on R1, either end (repeatable)")
	flag.Var(&AList, "A", "3' adapter on R2 (repeatable)")
	flag.Var(&GList, "G", "5' adapter on R2 (repeatable)")
	flag.Var(&BList, "B", "adapter on R2, either end (repeatable)")
	flag.Var(&stripSuffix, "strip-suffix", "suffix to strip from read names (repeatable)")
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s [OPTIONS] input.fastq[.gz] [input2.fastq[.gz]]\n", os.Args[0])
	flag.PrintDefaults()
}

func main() {
	flag.Usage = usage
	shutdown := grail.Init()
	defer shutdown()

	ctx, cancel := context.WithCancel(vcontext.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt)
	go func() {
		if _, ok := <-sigCh; ok {
			cancel()
		}
	}()

	code := run(ctx)
	signal.Stop(sigCh)
	close(sigCh)
	os.Exit(code)
}

func run(ctx context.Context) int {
	p, inputPaths, useFasta, err := build(ctx)
	if err != nil {
		reportUserError(err)
		return 2
	}

	out := newOutput(ctx, *mainOutput, *pairedOutput, p.Demux, filterBinPaths{
		tooShort: *tooShortOutput, tooShortPaired: *tooShortPaired,
		tooLong: *tooLongOutput, tooLongPaired: *tooLongPaired,
		untrimmed: *untrimmedOutput, untrimmedPaired: *untrimmedPaired,
	}, useFasta)
	if err := out.openSideFiles(*restFile, *infoFile, *wildcardFile); err != nil {
		reportUserError(err)
		return 2
	}

	cfg := runner.Config{Pipeline: p, Cores: *cores, ChunkSize: 0}

	var (
		st     stats.Statistics
		runErr error
	)
	if paired(inputPaths) {
		src, closeSrc, openErr := openPairSource(ctx, inputPaths, useFasta)
		if openErr != nil {
			reportUserError(openErr)
			return 2
		}
		defer closeSrc()
		if cfg.Cores > 1 {
			st, runErr = runner.ParallelPaired(ctx, cfg, src, out)
		} else {
			st, runErr = runner.SerialPaired(ctx, cfg, src, out)
		}
	} else {
		src, closeSrc, openErr := openSingleSource(ctx, inputPaths[0], useFasta)
		if openErr != nil {
			reportUserError(openErr)
			return 2
		}
		defer closeSrc()
		if cfg.Cores > 1 {
			st, runErr = runner.Parallel(ctx, cfg, src, out)
		} else {
			st, runErr = runner.Serial(ctx, cfg, src, out)
		}
	}

	closeErr := out.Close()

	if ctx.Err() != nil {
		return 130
	}
	if runErr != nil {
		reportRuntimeError(runErr)
		return 1
	}
	if closeErr != nil {
		reportRuntimeError(closeErr)
		return 1
	}

	if !*quiet {
		if err := writeReport(ctx, *report, st); err != nil {
			reportRuntimeError(err)
			return 1
		}
	}
	return 0
}

func paired(inputPaths []string) bool {
	return *interleaved || *pairedOutput != "" || len(inputPaths) == 2
}

func reportUserError(err error) {
	if *debug {
		fmt.Fprintf(os.Stderr, "adapter-trim: %+v\n", err)
		return
	}
	fmt.Fprintf(os.Stderr, "adapter-trim: %v\n", err)
}

func reportRuntimeError(err error) {
	if *debug {
		log.Error.Printf("%+v", err)
		return
	}
	log.Error.Printf("%v", err)
}

func writeReport(ctx context.Context, path string, st stats.Statistics) error {
	if path == "-" || path == "" {
		return stats.Report(os.Stdout, st)
	}
	wc, err := ioutil.Create(ctx, path)
	if err != nil {
		return err
	}
	if err := stats.Report(wc, st); err != nil {
		wc.Close()
		return err
	}
	return wc.Close()
}

// build parses and validates the flag set into a ready-to-run Pipeline,
// the positional input paths, and whether output should be written as
// FASTA. All returned errors are user (construction-time) errors.
func build(ctx context.Context) (*pipeline.Pipeline, []string, bool, error) {
	inputPaths := flag.Args()
	if len(inputPaths) < 1 || len(inputPaths) > 2 {
		return nil, nil, false, errors.Errorf("expected 1 or 2 positional input paths, got %d", len(inputPaths))
	}

	actionVal, err := parseAction(*action)
	if err != nil {
		return nil, nil, false, err
	}
	pairMode, err := parsePairFilter(*pairFilter)
	if err != nil {
		return nil, nil, false, err
	}

	baseCfg := align.Config{
		MaxErrors:        align.NewErrorRate(*errorRate),
		MinOverlap:       *minOverlap,
		AllowIndels:      !*noIndels,
		ReadWildcards:    *matchReadWildcards,
		AdapterWildcards: !*noMatchAdapterWildcards,
	}

	r1Adapters, r2Adapters, err := buildAdapterLists(ctx, baseCfg, actionVal)
	if err != nil {
		return nil, nil, false, err
	}

	cutsR1, err := parseCuts(*cutR1)
	if err != nil {
		return nil, nil, false, err
	}
	cutsR2, err := parseCuts(*cutR2)
	if err != nil {
		return nil, nil, false, err
	}
	qf1, qb1, qset1, err := parseQualityCutoff(*qualR1)
	if err != nil {
		return nil, nil, false, err
	}
	qf2, qb2, qset2, err := parseQualityCutoff(*qualR2)
	if err != nil {
		return nil, nil, false, err
	}
	lenN, lenSet, err := parseLength(*length)
	if err != nil {
		return nil, nil, false, err
	}

	isPaired := paired(inputPaths)
	zCap := *zeroCap || *zeroCapAlt

	var suffixes [][]byte
	for _, s := range stripSuffix {
		suffixes = append(suffixes, []byte(s))
	}

	var steps []pipeline.Entry

	if *pairAdapters && isPaired {
		if len(r1Adapters) == 0 || len(r2Adapters) == 0 {
			return nil, nil, false, errors.New("--pair-adapters needs at least one adapter for both R1 and R2")
		}
		// Items 1-3 (cutter, NextSeq trimmer, standard quality trimmer) run
		// per mate before the paired adapter cutter (item 4); items 6
		// (length/length-tag/suffix/prefix-suffix/zero-cap) run per mate
		// after it, so the fixed §4.4 order holds even though adapter
		// cutting itself is a paired, not single-end, step here.
		r1Pre, err := buildSideSteps(sideSpec{
			side: "R1", cuts: cutsR1, nextSeqCutoff: *nextSeqTrim, qualFront: qf1, qualBack: qb1, qualSet: qset1,
			qualBase: byte(*qualityBase),
		})
		if err != nil {
			return nil, nil, false, err
		}
		for _, s := range r1Pre {
			steps = append(steps, pipeline.Single(s))
		}
		r2Pre, err := buildSideSteps(sideSpec{
			side: "R2", cuts: cutsR2, nextSeqCutoff: *nextSeqTrim, qualFront: qf2, qualBack: qb2, qualSet: qset2,
			qualBase: byte(*qualityBase),
		})
		if err != nil {
			return nil, nil, false, err
		}
		for _, s := range r2Pre {
			steps = append(steps, pipeline.Single(s))
		}

		steps = append(steps, pipeline.Paired(&modify.PairedAdapterCutter{R1: r1Adapters, R2: r2Adapters}))

		r1Post, err := buildSideSteps(sideSpec{
			side: "R1", trimN: *trimN, length: lenN, lengthSet: lenSet, lengthTag: *lengthTag,
			stripSuffixes: suffixes, prefix: *prefix, suffix: *suffix, zeroCap: zCap, qualBase: byte(*qualityBase),
		})
		if err != nil {
			return nil, nil, false, err
		}
		for _, s := range r1Post {
			steps = append(steps, pipeline.Single(s))
		}
		r2Post, err := buildSideSteps(sideSpec{
			side: "R2", trimN: *trimN, length: lenN, lengthSet: lenSet, lengthTag: *lengthTag,
			stripSuffixes: suffixes, prefix: *prefix, suffix: *suffix, zeroCap: zCap, qualBase: byte(*qualityBase),
		})
		if err != nil {
			return nil, nil, false, err
		}
		for _, s := range r2Post {
			steps = append(steps, pipeline.Single(s))
		}
	} else {
		r1Steps, err := buildSideSteps(sideSpec{
			side: "R1", cuts: cutsR1, nextSeqCutoff: *nextSeqTrim, qualFront: qf1, qualBack: qb1, qualSet: qset1,
			qualBase: byte(*qualityBase), adapters: r1Adapters, times: *times, trimN: *trimN, length: lenN,
			lengthSet: lenSet, lengthTag: *lengthTag, stripSuffixes: suffixes, prefix: *prefix, suffix: *suffix, zeroCap: zCap,
		})
		if err != nil {
			return nil, nil, false, err
		}
		for _, s := range r1Steps {
			steps = append(steps, pipeline.Single(s))
		}
		if isPaired {
			r2Steps, err := buildSideSteps(sideSpec{
				side: "R2", cuts: cutsR2, nextSeqCutoff: *nextSeqTrim, qualFront: qf2, qualBack: qb2, qualSet: qset2,
				qualBase: byte(*qualityBase), adapters: r2Adapters, times: *times, trimN: *trimN, length: lenN,
				lengthSet: lenSet, lengthTag: *lengthTag, stripSuffixes: suffixes, prefix: *prefix, suffix: *suffix, zeroCap: zCap,
			})
			if err != nil {
				return nil, nil, false, err
			}
			for _, s := range r2Steps {
				steps = append(steps, pipeline.Single(s))
			}
		}
	}

	if *rc {
		steps = append(steps, pipeline.Single(&modify.ReverseComplementer{Set: adapter.NewSet(r1Adapters, true)}))
	}

	if *rename != "" {
		if isPaired {
			rn, err := modify.NewPairedRenamer(*rename)
			if err != nil {
				return nil, nil, false, err
			}
			steps = append(steps, pipeline.Paired(rn))
		} else {
			rn, err := modify.NewRenamer(*rename)
			if err != nil {
				return nil, nil, false, err
			}
			steps = append(steps, pipeline.Single(rn))
		}
	}

	demux := demuxMode(*mainOutput, *pairedOutput, isPaired)
	oneSided := isPaired && (len(r1Adapters) == 0) != (len(r2Adapters) == 0)

	filters := pipeline.FilterSet{
		MinLen: *minLen, MaxLen: *maxLen, MaxN: *maxN, MaxEE: *maxEE,
		QualBase: byte(*qualityBase), DiscardTrimmed: *discardTrimmed,
		DiscardUntrimmed: *discardUntrimmed, DiscardCasava: *discardCasava,
	}

	p := pipeline.New(steps, filters, pairMode, demux, oneSided)

	useFasta := *fastaOut || isFastaPath(inputPaths[0])
	return p, inputPaths, useFasta, nil
}

func buildAdapterLists(ctx context.Context, base align.Config, action adapter.Action) (r1, r2 []*adapter.Adapter, err error) {
	specs := []struct {
		list      stringList
		placement align.Placement
		target    *[]*adapter.Adapter
	}{
		{aList, align.Back, &r1},
		{gList, align.Front, &r1},
		{bList, align.Anywhere, &r1},
		{AList, align.Back, &r2},
		{GList, align.Front, &r2},
		{BList, align.Anywhere, &r2},
	}
	for _, s := range specs {
		built, err := buildAdapters(ctx, s.list, s.placement, base, action)
		if err != nil {
			return nil, nil, err
		}
		*s.target = append(*s.target, built...)
	}
	return r1, r2, nil
}

func parseLength(raw string) (int, bool, error) {
	if raw == "" {
		return 0, false, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false, errors.Wrapf(err, "invalid --length %q", raw)
	}
	return n, true, nil
}

func demuxMode(outTmpl, pairTmpl string, isPaired bool) pipeline.DemuxMode {
	switch {
	case strings.Contains(outTmpl, "{name1}") || strings.Contains(pairTmpl, "{name1}"):
		return pipeline.DemuxCombinatorial
	case strings.Contains(outTmpl, "{name}"):
		return pipeline.DemuxNormal
	default:
		return pipeline.DemuxNone
	}
}

func isFastaPath(path string) bool {
	base := path
	for _, ext := range []string{".gz", ".xz", ".bz2"} {
		base = strings.TrimSuffix(base, ext)
	}
	switch strings.ToLower(filepath.Ext(base)) {
	case ".fa", ".fasta", ".fna":
		return true
	default:
		return false
	}
}

func openSingleSource(ctx context.Context, path string, useFasta bool) (runner.SingleSource, func() error, error) {
	f, err := ioutil.Open(ctx, path)
	if err != nil {
		return nil, nil, err
	}
	if useFasta {
		return fasta.NewScanner(f), f.Close, nil
	}
	return fastq.NewScanner(f), f.Close, nil
}

func openPairSource(ctx context.Context, paths []string, useFasta bool) (runner.PairSource, func() error, error) {
	if *interleaved {
		if useFasta {
			return nil, nil, errors.New("--interleaved is not supported with FASTA input")
		}
		f, err := ioutil.Open(ctx, paths[0])
		if err != nil {
			return nil, nil, err
		}
		return fastq.NewInterleavedScanner(f), f.Close, nil
	}
	if len(paths) != 2 {
		return nil, nil, errors.Errorf("paired mode requires two input paths (or --interleaved), got %d", len(paths))
	}
	r1, err := ioutil.Open(ctx, paths[0])
	if err != nil {
		return nil, nil, err
	}
	r2, err := ioutil.Open(ctx, paths[1])
	if err != nil {
		r1.Close()
		return nil, nil, err
	}
	closeBoth := func() error {
		err1 := r1.Close()
		err2 := r2.Close()
		if err1 != nil {
			return err1
		}
		return err2
	}
	if useFasta {
		return fasta.NewPairScanner(r1, r2), closeBoth, nil
	}
	return fastq.NewPairScanner(r1, r2), closeBoth, nil
}
