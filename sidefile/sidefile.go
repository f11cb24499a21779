// Package sidefile writes the three per-match side channels spec §6
// defines: the rest-file (removed suffixes), the info-file (one
// tab-separated line per read describing its match or lack of one), and
// the wildcard-file (read bases found at the adapter's 'N' positions).
// All three read their data off read.Read.Tags, the same match-metadata
// channel modify.AdapterCutter populates for the renamer.
package sidefile

import (
	"bufio"
	"io"

	"github.com/grailbio/adaptertrim/read"
)

// Writer wraps a buffered io.Writer and the first write error
// encountered, following encoding/fastq.Writer's sticky-error style so
// callers don't have to check every individual line write.
type Writer struct {
	w   *bufio.Writer
	err error
}

// NewWriter constructs a side-file Writer over w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

// Flush flushes buffered output and returns the first error encountered
// by either a prior write or the flush itself.
func (w *Writer) Flush() error {
	if ferr := w.w.Flush(); ferr != nil && w.err == nil {
		w.err = ferr
	}
	return w.err
}

func (w *Writer) writeLine(fields ...string) {
	if w.err != nil {
		return
	}
	for i, f := range fields {
		if i > 0 {
			if _, err := w.w.WriteString("\t"); err != nil {
				w.err = err
				return
			}
		}
		if _, err := w.w.WriteString(f); err != nil {
			w.err = err
			return
		}
	}
	if _, err := w.w.WriteString("\n"); err != nil {
		w.err = err
	}
}

// WriteRest writes a rest-file line for r if it has a 3' (BACK-placement)
// match: "<removed_suffix> <read_name>". Reads with no match, or whose
// match was FRONT-placed, emit nothing — the "removed_suffix" tag is only
// set by annotateMatch when the match consumed the read's tail
// (m.REnd == len(before.Sequence)).
func (w *Writer) WriteRest(r *read.Read) {
	suffix := r.Tag("removed_suffix")
	if suffix == "" {
		return
	}
	if w.err != nil {
		return
	}
	if _, err := w.w.WriteString(suffix); err != nil {
		w.err = err
		return
	}
	if _, err := w.w.WriteString(" "); err != nil {
		w.err = err
		return
	}
	if _, err := w.w.WriteString(string(r.Name)); err != nil {
		w.err = err
		return
	}
	if _, err := w.w.WriteString("\n"); err != nil {
		w.err = err
	}
}

// WriteInfo writes one info-file line for r: name, errors, rstart, rend,
// before_match_seq, match_seq, after_match_seq, adapter_name, match_quals,
// before_quals, after_quals. A read with no match emits "name, -1" and
// empty remaining columns, per spec §6.
func (w *Writer) WriteInfo(r *read.Read) {
	name := r.Tag("adapter_name")
	if name == "" {
		w.writeLine(string(r.Name), "-1", "", "", "", "", "", "", "", "", "")
		return
	}
	w.writeLine(
		string(r.Name),
		r.Tag("match_errors"),
		r.Tag("match_rstart"),
		r.Tag("match_rend"),
		r.Tag("cut_prefix"),
		r.Tag("match_sequence"),
		r.Tag("cut_suffix"),
		name,
		r.Tag("match_quals"),
		r.Tag("before_quals"),
		r.Tag("after_quals"),
	)
}

// WriteWildcard writes a wildcard-file line for r if its match touched
// any adapter-side 'N' positions: "<bases at N positions> <read_name>".
func (w *Writer) WriteWildcard(r *read.Read) {
	bases := r.Tag("wildcard_bases")
	if bases == "" {
		return
	}
	if w.err != nil {
		return
	}
	if _, err := w.w.WriteString(bases); err != nil {
		w.err = err
		return
	}
	if _, err := w.w.WriteString(" "); err != nil {
		w.err = err
		return
	}
	if _, err := w.w.WriteString(string(r.Name)); err != nil {
		w.err = err
		return
	}
	if _, err := w.w.WriteString("\n"); err != nil {
		w.err = err
	}
}
