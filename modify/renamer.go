package modify

import (
	"regexp"
	"strings"

	"github.com/grailbio/adaptertrim/read"
	"github.com/pkg/errors"
)

// renamerVariables is the fixed set of template variables a single-end
// renamer may reference.
var renamerVariables = map[string]func(r *read.Read) string{
	"id":             func(r *read.Read) string { return idOf(r) },
	"header":         func(r *read.Read) string { return string(r.Header()) },
	"comment":        func(r *read.Read) string { return string(r.Comment) },
	"adapter_name":   func(r *read.Read) string { return r.Tag("adapter_name") },
	"match_sequence": func(r *read.Read) string { return r.Tag("match_sequence") },
	"cut_prefix":     func(r *read.Read) string { return r.Tag("cut_prefix") },
	"cut_suffix":     func(r *read.Read) string { return r.Tag("cut_suffix") },
	"rc":             func(r *read.Read) string { return r.Tag("rc") },
}

func idOf(r *read.Read) string {
	name := string(r.Name)
	if i := strings.IndexByte(name, ' '); i >= 0 {
		return name[:i]
	}
	return name
}

var templateVarPattern = regexp.MustCompile(`\{([a-zA-Z0-9_]+)\}`)

// Renamer rewrites a single read's name from a template over
// renamerVariables.
type Renamer struct {
	template string
}

// NewRenamer validates tmpl against the fixed variable set and returns a
// Renamer, or a construction-time error naming the first unknown variable.
func NewRenamer(tmpl string) (*Renamer, error) {
	if err := validateTemplate(tmpl, renamerVariables); err != nil {
		return nil, err
	}
	return &Renamer{template: tmpl}, nil
}

// Process implements Step.
func (rn *Renamer) Process(r *read.Read) *read.Read {
	c := r.Clone()
	c.Name = []byte(expandTemplate(rn.template, r, renamerVariables))
	c.Comment = nil
	return c
}

// PairedRenamer rewrites both mates' names from a single template that may
// reference "_1"/"_2"-suffixed variables for each side in addition to the
// unsuffixed single-end set.
type PairedRenamer struct {
	template string
}

// NewPairedRenamer validates tmpl against the paired variable set.
func NewPairedRenamer(tmpl string) (*PairedRenamer, error) {
	vars := make(map[string]func(r *read.Read) string)
	for k, f := range renamerVariables {
		vars[k] = f
		vars[k+"_1"] = f
		vars[k+"_2"] = f
	}
	if err := validateTemplate(tmpl, vars); err != nil {
		return nil, err
	}
	return &PairedRenamer{template: tmpl}, nil
}

// ProcessPair implements PairStep.
func (rn *PairedRenamer) ProcessPair(r1, r2 *read.Read) (*read.Read, *read.Read) {
	vars1 := pairedVars(r1, r2, "_1", "_2")
	name1 := expandVars(rn.template, vars1)
	vars2 := pairedVars(r2, r1, "_2", "_1")
	name2 := expandVars(rn.template, vars2)

	c1, c2 := r1.Clone(), r2.Clone()
	c1.Name, c1.Comment = []byte(name1), nil
	c2.Name, c2.Comment = []byte(name2), nil
	return c1, c2
}

// pairedVars builds the variable map for one side of the pair: the side's
// own values under both the unsuffixed and own-suffixed names, and the
// mate's values under the mate's suffix.
func pairedVars(self, mate *read.Read, selfSuffix, mateSuffix string) map[string]string {
	out := make(map[string]string, len(renamerVariables)*3)
	for name, f := range renamerVariables {
		v := f(self)
		out[name] = v
		out[name+selfSuffix] = v
		out[name+mateSuffix] = f(mate)
	}
	return out
}

func validateTemplate(tmpl string, vars map[string]func(r *read.Read) string) error {
	for _, m := range templateVarPattern.FindAllStringSubmatch(tmpl, -1) {
		if _, ok := vars[m[1]]; !ok {
			return errors.Errorf("rename: unknown template variable {%s}", m[1])
		}
	}
	return nil
}

func expandTemplate(tmpl string, r *read.Read, vars map[string]func(r *read.Read) string) string {
	return templateVarPattern.ReplaceAllStringFunc(tmpl, func(s string) string {
		name := s[1 : len(s)-1]
		if f, ok := vars[name]; ok {
			return f(r)
		}
		return s
	})
}

func expandVars(tmpl string, vars map[string]string) string {
	return templateVarPattern.ReplaceAllStringFunc(tmpl, func(s string) string {
		name := s[1 : len(s)-1]
		if v, ok := vars[name]; ok {
			return v
		}
		return s
	})
}
