package gridql

import (
	"encoding/json"
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestMarshalLiterals(t *testing.T) {
	testCases := []struct {
		name     string
		value    any
		expected string
	}{
		{
			name:     "struct preserves field order",
			value:    Struct{{Name: "b", Value: 1}, {Name: "a", Value: "x"}},
			expected: `{"b":1,"a":"x"}`,
		},
		{
			name:     "empty struct",
			value:    Struct{},
			expected: `{}`,
		},
		{
			name:     "dict as pair list",
			value:    Dict{{Key: "k", Value: 2}},
			expected: `[{"key":"k","value":2}]`,
		},
		{
			name:     "locus",
			value:    Locus{Contig: "1", Position: 100, ReferenceGenome: "GRCh38"},
			expected: `{"contig":"1","position":100,"referenceGenome":"GRCh38"}`,
		},
		{
			name:     "call",
			value:    Call{Alleles: []int{0, 1}, Phased: true},
			expected: `{"alleles":[0,1],"phased":true}`,
		},
		{
			name:     "nested struct in dict",
			value:    Dict{{Key: 1, Value: Struct{{Name: "n", Value: 2}}}},
			expected: `[{"key":1,"value":{"n":2}}]`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			data, err := json.Marshal(tc.value)
			assert.NoError(t, err)
			assert.Equal(t, tc.expected, string(data))
		})
	}
}
