package gridql

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// Locus is a genomic position literal used only for type imputation; the
// full domain value space lives outside this core.
type Locus struct {
	Contig          string
	Position        int
	ReferenceGenome string
}

// Call is a genotype call literal.
type Call struct {
	Alleles []int
	Phased  bool
}

// Interval is an interval literal over some point value.
type Interval struct {
	Start any
	End   any
}

// Entry is one ordered field of a Struct literal.
type Entry struct {
	Name  string
	Value any
}

// Struct is an ordered struct literal. Field order is preserved in the
// imputed struct type.
type Struct []Entry

// Tuple is a positional tuple literal.
type Tuple []any

// Set is an unordered collection literal, distinct from []any which
// imputes to an array.
type Set []any

// DictEntry is one key/value pair of a Dict literal.
type DictEntry struct {
	Key   any
	Value any
}

// Dict is a dictionary literal. Entry order carries no meaning.
type Dict []DictEntry

// ImputeType derives the Type of a native value. Containers must be
// non-empty and element types must unify; integers must fit int64.
func ImputeType(v any) (Type, error) {
	switch x := v.(type) {
	case nil:
		return nil, ErrNullValue
	case bool:
		return TBool, nil
	case int:
		return imputeInt(int64(x))
	case int8:
		return TInt32, nil
	case int16:
		return TInt32, nil
	case int32:
		return TInt32, nil
	case int64:
		return imputeInt(x)
	case uint:
		return imputeUint(uint64(x))
	case uint8:
		return TInt32, nil
	case uint16:
		return TInt32, nil
	case uint32:
		return imputeInt(int64(x))
	case uint64:
		return imputeUint(x)
	case float32:
		return TFloat32, nil
	case float64:
		return TFloat64, nil
	case decimal.Decimal:
		return TFloat64, nil
	case string:
		return TString, nil
	case Locus:
		return TLocus(x.ReferenceGenome), nil
	case Call:
		return TCall, nil
	case Interval:
		point, err := ImputeType(x.Start)
		if err != nil {
			return nil, fmt.Errorf("interval point: %w", err)
		}
		return TInterval(point), nil
	case Struct:
		fields := make([]Field, len(x))
		for i, e := range x {
			ft, err := ImputeType(e.Value)
			if err != nil {
				return nil, fmt.Errorf("struct field %q: %w", e.Name, err)
			}
			fields[i] = Field{Name: e.Name, Type: ft}
		}
		return &StructType{Fields: fields}, nil
	case Tuple:
		types := make([]Type, len(x))
		for i, e := range x {
			et, err := ImputeType(e)
			if err != nil {
				return nil, fmt.Errorf("tuple element %d: %w", i, err)
			}
			types[i] = et
		}
		return &TupleType{Types: types}, nil
	case []any:
		elem, err := imputeElements("list", x)
		if err != nil {
			return nil, err
		}
		return TArray(elem), nil
	case Set:
		elem, err := imputeElements("set", x)
		if err != nil {
			return nil, err
		}
		return TSet(elem), nil
	case Dict:
		if len(x) == 0 {
			return nil, fmt.Errorf("dict: %w", ErrEmptyContainer)
		}
		keys := make([]any, len(x))
		values := make([]any, len(x))
		for i, e := range x {
			keys[i] = e.Key
			values[i] = e.Value
		}
		key, err := imputeElements("dict keys", keys)
		if err != nil {
			return nil, err
		}
		value, err := imputeElements("dict values", values)
		if err != nil {
			return nil, err
		}
		return TDict(key, value), nil
	default:
		return nil, fmt.Errorf("%w of %T: %v", ErrUnimputable, v, v)
	}
}

func imputeInt(x int64) (Type, error) {
	if x >= math.MinInt32 && x <= math.MaxInt32 {
		return TInt32, nil
	}
	return TInt64, nil
}

func imputeUint(x uint64) (Type, error) {
	if x <= math.MaxInt32 {
		return TInt32, nil
	}
	if x <= math.MaxInt64 {
		return TInt64, nil
	}
	return nil, fmt.Errorf("%w: %d", ErrIntegerRange, x)
}

// imputeElements imputes every element and unifies the results, reporting
// the offending element types when no unification exists.
func imputeElements(what string, elems []any) (Type, error) {
	if len(elems) == 0 {
		return nil, fmt.Errorf("%s: %w", what, ErrEmptyContainer)
	}
	types := make([]Type, 0, len(elems))
	for _, e := range elems {
		t, err := ImputeType(e)
		if err != nil {
			return nil, fmt.Errorf("%s element: %w", what, err)
		}
		types = append(types, t)
	}
	unified, ok := UnifyTypesLimited(types...)
	if !ok {
		return nil, fmt.Errorf("%w: %s with elements of types %s", ErrHeterogeneous, what, typeNames(types))
	}
	return unified, nil
}

func typeNames(types []Type) string {
	seen := make(map[string]bool)
	s := ""
	for _, t := range types {
		name := t.String()
		if seen[name] {
			continue
		}
		seen[name] = true
		if s != "" {
			s += ", "
		}
		s += name
	}
	return "[" + s + "]"
}
