package main

import (
	"context"
	"strings"
	"sync"

	"github.com/grailbio/adaptertrim/encoding/fasta"
	"github.com/grailbio/adaptertrim/encoding/fastq"
	"github.com/grailbio/adaptertrim/ioutil"
	"github.com/grailbio/adaptertrim/pipeline"
	"github.com/grailbio/adaptertrim/read"
	"github.com/grailbio/adaptertrim/sidefile"
)

// recordWriter writes read.Read records in whichever of FASTQ/FASTA format
// the run was configured for, over one opened output path.
type recordWriter struct {
	wc *ioutil.WriteCloser
	fq *fastq.Writer
	fa *fasta.Writer
}

func newRecordWriter(ctx context.Context, path string, useFasta bool) (*recordWriter, error) {
	wc, err := ioutil.Create(ctx, path)
	if err != nil {
		return nil, err
	}
	rw := &recordWriter{wc: wc}
	if useFasta {
		rw.fa = fasta.NewWriter(wc)
	} else {
		rw.fq = fastq.NewWriter(wc)
	}
	return rw, nil
}

func (w *recordWriter) Write(r *read.Read) error {
	if w.fa != nil {
		return w.fa.Write(r)
	}
	return w.fq.Write(r)
}

func (w *recordWriter) Close() error { return w.wc.Close() }

// filterBinPaths maps the fixed filter-reason bins to a caller-supplied
// output path, empty meaning "drop silently" (no flag was given for that
// bin, matching spec §6: max-N, max-EE, discard-trimmed, and
// discard-casava have no dedicated output flag at all).
type filterBinPaths struct {
	tooShort, tooShortPaired     string
	tooLong, tooLongPaired       string
	untrimmed, untrimmedPaired   string
}

// output is the Sink/PairSink implementation backing the CLI: it opens one
// recordWriter per distinct resolved path the first time it's needed
// (main output may demultiplex into many paths; the fixed filter bins
// resolve to at most one path apiece) and fans every surviving record
// through the configured side-file writers as well.
type output struct {
	ctx context.Context

	mainR1Tmpl, mainR2Tmpl string
	demux                  pipeline.DemuxMode
	filters                filterBinPaths
	useFasta               bool

	rest, info, wildcard *sidefile.Writer
	restWC, infoWC, wildcardWC *ioutil.WriteCloser

	mu      sync.Mutex
	writers map[string]*recordWriter
}

func newOutput(ctx context.Context, mainR1, mainR2 string, demux pipeline.DemuxMode, filters filterBinPaths, useFasta bool) *output {
	return &output{
		ctx:        ctx,
		mainR1Tmpl: mainR1,
		mainR2Tmpl: mainR2,
		demux:      demux,
		filters:    filters,
		useFasta:   useFasta,
		writers:    make(map[string]*recordWriter),
	}
}

func (o *output) openSideFiles(restPath, infoPath, wildcardPath string) error {
	open := func(path string) (*sidefile.Writer, *ioutil.WriteCloser, error) {
		if path == "" {
			return nil, nil, nil
		}
		wc, err := ioutil.Create(o.ctx, path)
		if err != nil {
			return nil, nil, err
		}
		return sidefile.NewWriter(wc), wc, nil
	}
	var err error
	if o.rest, o.restWC, err = open(restPath); err != nil {
		return err
	}
	if o.info, o.infoWC, err = open(infoPath); err != nil {
		return err
	}
	if o.wildcard, o.wildcardWC, err = open(wildcardPath); err != nil {
		return err
	}
	return nil
}

func isFilterBin(bin pipeline.Bin) bool {
	switch bin {
	case pipeline.BinTooShort, pipeline.BinTooLong, pipeline.BinMaxN, pipeline.BinMaxEE,
		pipeline.BinCasava, pipeline.BinDiscardTrimmed, pipeline.BinDiscardUntrimmed:
		return true
	default:
		return false
	}
}

// resolveName substitutes {name} (DemuxNormal) or {name1}/{name2}
// (DemuxCombinatorial) in tmpl from bin; it returns tmpl unchanged when
// demultiplexing is off, or when bin is one of the fixed filter bins (those
// never carry name substitutions).
func resolveName(tmpl string, bin pipeline.Bin, demux pipeline.DemuxMode) string {
	if isFilterBin(bin) {
		return tmpl
	}
	switch demux {
	case pipeline.DemuxNormal:
		return strings.ReplaceAll(tmpl, "{name}", string(bin))
	case pipeline.DemuxCombinatorial:
		parts := strings.SplitN(string(bin), "/", 2)
		n1, n2 := parts[0], ""
		if len(parts) == 2 {
			n2 = parts[1]
		}
		out := strings.ReplaceAll(tmpl, "{name1}", n1)
		return strings.ReplaceAll(out, "{name2}", n2)
	default:
		return tmpl
	}
}

func (o *output) pathFor(bin pipeline.Bin, r2 bool) string {
	switch bin {
	case pipeline.BinTooShort:
		if r2 {
			return o.filters.tooShortPaired
		}
		return o.filters.tooShort
	case pipeline.BinTooLong:
		if r2 {
			return o.filters.tooLongPaired
		}
		return o.filters.tooLong
	case pipeline.BinDiscardUntrimmed:
		if r2 {
			return o.filters.untrimmedPaired
		}
		return o.filters.untrimmed
	case pipeline.BinMaxN, pipeline.BinMaxEE, pipeline.BinDiscardTrimmed, pipeline.BinCasava:
		return ""
	default:
		tmpl := o.mainR1Tmpl
		if r2 {
			tmpl = o.mainR2Tmpl
		}
		return resolveName(tmpl, bin, o.demux)
	}
}

func (o *output) writerFor(path string) (*recordWriter, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if w, ok := o.writers[path]; ok {
		return w, nil
	}
	w, err := newRecordWriter(o.ctx, path, o.useFasta)
	if err != nil {
		return nil, err
	}
	o.writers[path] = w
	return w, nil
}

// Write implements runner.Sink.
func (o *output) Write(bin pipeline.Bin, r *read.Read) error {
	o.writeSideFiles(r)
	path := o.pathFor(bin, false)
	if path == "" {
		return nil
	}
	w, err := o.writerFor(path)
	if err != nil {
		return err
	}
	return w.Write(r)
}

// WritePair implements runner.PairSink.
func (o *output) WritePair(bin pipeline.Bin, r1, r2 *read.Read) error {
	o.writeSideFiles(r1)
	o.writeSideFiles(r2)
	p1 := o.pathFor(bin, false)
	if p1 != "" {
		w1, err := o.writerFor(p1)
		if err != nil {
			return err
		}
		if err := w1.Write(r1); err != nil {
			return err
		}
	}
	p2 := o.pathFor(bin, true)
	if p2 == "" {
		return nil
	}
	w2, err := o.writerFor(p2)
	if err != nil {
		return err
	}
	return w2.Write(r2)
}

func (o *output) writeSideFiles(r *read.Read) {
	if o.rest != nil {
		o.rest.WriteRest(r)
	}
	if o.info != nil {
		o.info.WriteInfo(r)
	}
	if o.wildcard != nil {
		o.wildcard.WriteWildcard(r)
	}
}

// Close flushes and closes every writer output opened, returning the first
// error encountered.
func (o *output) Close() error {
	var first error
	record := func(err error) {
		if err != nil && first == nil {
			first = err
		}
	}
	o.mu.Lock()
	for _, w := range o.writers {
		record(w.Close())
	}
	o.mu.Unlock()

	for _, sw := range []*sidefile.Writer{o.rest, o.info, o.wildcard} {
		if sw != nil {
			record(sw.Flush())
		}
	}
	for _, wc := range []*ioutil.WriteCloser{o.restWC, o.infoWC, o.wildcardWC} {
		if wc != nil {
			record(wc.Close())
		}
	}
	return first
}
