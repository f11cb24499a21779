package adapter

import (
	"io"

	"github.com/grailbio/adaptertrim/align"
	"github.com/grailbio/adaptertrim/encoding/fasta"
	"github.com/grailbio/base/log"
)

// FromFASTA loads one Adapter per record in a FASTA file, using each
// record's name as the adapter's name and its sequence as the pattern. All
// adapters share cfg and action. A duplicate name is not a construction
// error — cutadapt-compatible tools have long tolerated adapter lists with
// repeated names — but it is logged once so the user notices.
func FromFASTA(r io.Reader, cfg align.Config, action Action) ([]*Adapter, error) {
	f, err := fasta.New(r)
	if err != nil {
		return nil, err
	}
	names := f.SeqNames()
	seen := make(map[string]bool, len(names))
	out := make([]*Adapter, 0, len(names))
	for _, name := range names {
		if seen[name] {
			log.Error.Printf("adapter: duplicate adapter name %q in FASTA file", name)
		}
		seen[name] = true
		length, err := f.Len(name)
		if err != nil {
			return nil, err
		}
		pattern, err := f.Get(name, 0, length)
		if err != nil {
			return nil, err
		}
		out = append(out, New(name, []byte(pattern), cfg, action))
	}
	return out, nil
}
