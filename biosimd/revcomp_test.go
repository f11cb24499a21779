package biosimd_test

import (
	"testing"

	"github.com/grailbio/adaptertrim/biosimd"
	"github.com/stretchr/testify/assert"
)

func TestReverseComp8InplaceNoValidate(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"A", "T"},
		{"ACGT", "ACGT"},
		{"AACCGGTT", "AACCGGTT"},
		{"GATTACA", "TGTAATC"},
		{"ACGTN", "NACGT"},
		{"acgt", "acgt"},
	}
	for _, tt := range tests {
		b := []byte(tt.in)
		biosimd.ReverseComp8InplaceNoValidate(b)
		assert.Equal(t, tt.want, string(b), "input %q", tt.in)
	}
}

func TestReverseComp8NoValidate(t *testing.T) {
	src := []byte("GATTACA")
	dst := make([]byte, len(src))
	biosimd.ReverseComp8NoValidate(dst, src)
	assert.Equal(t, "TGTAATC", string(dst))
	assert.Equal(t, "GATTACA", string(src), "src must be unmodified")
}

func TestReverseComp8NoValidatePanicsOnLengthMismatch(t *testing.T) {
	assert.Panics(t, func() {
		biosimd.ReverseComp8NoValidate(make([]byte, 3), make([]byte, 4))
	})
}

func TestReverse8Inplace(t *testing.T) {
	b := []byte("IIIIJJJJ")
	biosimd.Reverse8Inplace(b)
	assert.Equal(t, "JJJJIIII", string(b))
}
