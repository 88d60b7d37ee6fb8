package gridql

import (
	"math"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/shopspring/decimal"
)

func TestImputeType(t *testing.T) {
	testCases := []struct {
		name     string
		value    any
		expected Type
	}{
		{name: "bool", value: true, expected: TBool},
		{name: "small int", value: 42, expected: TInt32},
		{name: "int32 boundary", value: int(math.MaxInt32), expected: TInt32},
		{name: "large int", value: int64(math.MaxInt32) + 1, expected: TInt64},
		{name: "negative large int", value: int64(math.MinInt32) - 1, expected: TInt64},
		{name: "float64", value: 3.5, expected: TFloat64},
		{name: "float32", value: float32(3.5), expected: TFloat32},
		{name: "decimal", value: decimal.NewFromInt(7), expected: TFloat64},
		{name: "string", value: "hello", expected: TString},
		{name: "locus", value: Locus{Contig: "1", Position: 100, ReferenceGenome: "GRCh37"}, expected: TLocus("GRCh37")},
		{name: "call", value: Call{Alleles: []int{0, 1}}, expected: TCall},
		{name: "interval", value: Interval{Start: 1, End: 10}, expected: TInterval(TInt32)},
		{name: "homogeneous list", value: []any{1, 2, 3}, expected: TArray(TInt32)},
		{name: "numeric list promotes", value: []any{1, 2.5}, expected: TArray(TFloat64)},
		{name: "set", value: Set{1, 2}, expected: TSet(TInt32)},
		{name: "dict", value: Dict{{Key: "a", Value: 1}}, expected: TDict(TString, TInt32)},
		{name: "tuple", value: Tuple{1, "a"}, expected: TTuple(TInt32, TString)},
		{
			name:     "struct preserves field order",
			value:    Struct{{Name: "z", Value: 1}, {Name: "a", Value: "x"}},
			expected: TStruct(Field{Name: "z", Type: TInt32}, Field{Name: "a", Type: TString}),
		},
		{
			name:     "nested list",
			value:    []any{[]any{1}, []any{2, 3}},
			expected: TArray(TArray(TInt32)),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			actual, err := ImputeType(tc.value)
			assert.NoError(t, err)
			assert.True(t, tc.expected.Equal(actual), "expected %s, got %s", tc.expected, actual)
		})
	}
}

func TestImputeTypeErrors(t *testing.T) {
	testCases := []struct {
		name     string
		value    any
		expected error
	}{
		{name: "nil", value: nil, expected: ErrNullValue},
		{name: "empty list", value: []any{}, expected: ErrEmptyContainer},
		{name: "empty set", value: Set{}, expected: ErrEmptyContainer},
		{name: "empty dict", value: Dict{}, expected: ErrEmptyContainer},
		{name: "heterogeneous list", value: []any{1, "a"}, expected: ErrHeterogeneous},
		{name: "heterogeneous dict keys", value: Dict{{Key: 1, Value: "x"}, {Key: "b", Value: "y"}}, expected: ErrHeterogeneous},
		{name: "heterogeneous dict values", value: Dict{{Key: "a", Value: 1}, {Key: "b", Value: "y"}}, expected: ErrHeterogeneous},
		{name: "uint64 overflow", value: uint64(math.MaxUint64), expected: ErrIntegerRange},
		{name: "unsupported shape", value: make(chan int), expected: ErrUnimputable},
		{name: "nil in struct", value: Struct{{Name: "a", Value: nil}}, expected: ErrNullValue},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ImputeType(tc.value)
			assert.IsError(t, err, tc.expected)
		})
	}
}
