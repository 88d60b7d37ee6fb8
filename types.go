package gridql

import (
	"fmt"
	"strings"
)

// Kind identifies the variant of a Type.
type Kind int

const (
	BoolKind Kind = iota
	Int32Kind
	Int64Kind
	Float32Kind
	Float64Kind
	StringKind
	CallKind
	LocusKind
	StructKind
	ArrayKind
	SetKind
	DictKind
	TupleKind
	IntervalKind
)

// Type is a sealed interface over the value types of the expression algebra.
// Types are immutable and compared structurally with Equal; the primitive
// variants are package-level singletons.
type Type interface {
	Kind() Kind
	Equal(other Type) bool
	String() string

	valueType() // sealed
}

// primType backs the primitive singletons. The name is the canonical
// rendering used in diagnostics and in literal IR nodes.
type primType struct {
	kind Kind
	name string
}

func (t *primType) Kind() Kind        { return t.kind }
func (t *primType) String() string    { return t.name }
func (t *primType) Equal(o Type) bool { return t == o }
func (t *primType) valueType()        {}

var (
	TBool    Type = &primType{BoolKind, "bool"}
	TInt32   Type = &primType{Int32Kind, "int32"}
	TInt64   Type = &primType{Int64Kind, "int64"}
	TFloat32 Type = &primType{Float32Kind, "float32"}
	TFloat64 Type = &primType{Float64Kind, "float64"}
	TString  Type = &primType{StringKind, "str"}
	TCall    Type = &primType{CallKind, "call"}
)

// LocusType is a genomic locus tagged with its reference genome.
type LocusType struct {
	ReferenceGenome string
}

func (t *LocusType) Kind() Kind     { return LocusKind }
func (t *LocusType) String() string { return fmt.Sprintf("locus<%s>", t.ReferenceGenome) }
func (t *LocusType) valueType()     {}

func (t *LocusType) Equal(o Type) bool {
	ot, ok := o.(*LocusType)
	return ok && ot.ReferenceGenome == t.ReferenceGenome
}

// TLocus returns the locus type for a reference genome.
func TLocus(referenceGenome string) Type {
	return &LocusType{ReferenceGenome: referenceGenome}
}

// Field is one named, typed member of a StructType. Order is significant.
type Field struct {
	Name string
	Type Type
}

// StructType is an ordered mapping of field names to types.
type StructType struct {
	Fields []Field
}

func (t *StructType) Kind() Kind { return StructKind }
func (t *StructType) valueType() {}

func (t *StructType) String() string {
	var sb strings.Builder
	sb.WriteString("struct{")
	for i, f := range t.Fields {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(f.Name)
		sb.WriteString(": ")
		sb.WriteString(f.Type.String())
	}
	sb.WriteString("}")
	return sb.String()
}

func (t *StructType) Equal(o Type) bool {
	ot, ok := o.(*StructType)
	if !ok || len(ot.Fields) != len(t.Fields) {
		return false
	}
	for i, f := range t.Fields {
		if ot.Fields[i].Name != f.Name || !ot.Fields[i].Type.Equal(f.Type) {
			return false
		}
	}
	return true
}

// FieldType returns the type of the named field.
func (t *StructType) FieldType(name string) (Type, bool) {
	for _, f := range t.Fields {
		if f.Name == name {
			return f.Type, true
		}
	}
	return nil, false
}

// TStruct builds a struct type from ordered fields.
func TStruct(fields ...Field) Type {
	return &StructType{Fields: fields}
}

// ArrayType is an ordered collection of one element type.
type ArrayType struct {
	Elem Type
}

func (t *ArrayType) Kind() Kind     { return ArrayKind }
func (t *ArrayType) String() string { return fmt.Sprintf("array<%s>", t.Elem) }
func (t *ArrayType) valueType()     {}

func (t *ArrayType) Equal(o Type) bool {
	ot, ok := o.(*ArrayType)
	return ok && ot.Elem.Equal(t.Elem)
}

// TArray returns the array type of elem.
func TArray(elem Type) Type {
	return &ArrayType{Elem: elem}
}

// SetType is an unordered collection of one element type.
type SetType struct {
	Elem Type
}

func (t *SetType) Kind() Kind     { return SetKind }
func (t *SetType) String() string { return fmt.Sprintf("set<%s>", t.Elem) }
func (t *SetType) valueType()     {}

func (t *SetType) Equal(o Type) bool {
	ot, ok := o.(*SetType)
	return ok && ot.Elem.Equal(t.Elem)
}

// TSet returns the set type of elem.
func TSet(elem Type) Type {
	return &SetType{Elem: elem}
}

// DictType maps a key type to a value type.
type DictType struct {
	Key   Type
	Value Type
}

func (t *DictType) Kind() Kind     { return DictKind }
func (t *DictType) String() string { return fmt.Sprintf("dict<%s, %s>", t.Key, t.Value) }
func (t *DictType) valueType()     {}

func (t *DictType) Equal(o Type) bool {
	ot, ok := o.(*DictType)
	return ok && ot.Key.Equal(t.Key) && ot.Value.Equal(t.Value)
}

// TDict returns the dict type with the given key and value types.
func TDict(key, value Type) Type {
	return &DictType{Key: key, Value: value}
}

// TupleType is a fixed-length positional type list.
type TupleType struct {
	Types []Type
}

func (t *TupleType) Kind() Kind { return TupleKind }
func (t *TupleType) valueType() {}

func (t *TupleType) String() string {
	parts := make([]string, len(t.Types))
	for i, et := range t.Types {
		parts[i] = et.String()
	}
	return fmt.Sprintf("tuple(%s)", strings.Join(parts, ", "))
}

func (t *TupleType) Equal(o Type) bool {
	ot, ok := o.(*TupleType)
	if !ok || len(ot.Types) != len(t.Types) {
		return false
	}
	for i, et := range t.Types {
		if !ot.Types[i].Equal(et) {
			return false
		}
	}
	return true
}

// TTuple builds a tuple type from positional element types.
func TTuple(types ...Type) Type {
	return &TupleType{Types: types}
}

// IntervalType is an interval over a point type.
type IntervalType struct {
	Point Type
}

func (t *IntervalType) Kind() Kind     { return IntervalKind }
func (t *IntervalType) String() string { return fmt.Sprintf("interval<%s>", t.Point) }
func (t *IntervalType) valueType()     {}

func (t *IntervalType) Equal(o Type) bool {
	ot, ok := o.(*IntervalType)
	return ok && ot.Point.Equal(t.Point)
}

// TInterval returns the interval type over point.
func TInterval(point Type) Type {
	return &IntervalType{Point: point}
}

// IsNumeric reports whether t is one of the four numeric primitives.
func IsNumeric(t Type) bool {
	switch t.Kind() {
	case Int32Kind, Int64Kind, Float32Kind, Float64Kind:
		return true
	default:
		return false
	}
}

// IsContainer reports whether t can hold nested values whose coercion may
// require element-wise rebuilding.
func IsContainer(t Type) bool {
	switch t.Kind() {
	case StructKind, ArrayKind, SetKind, DictKind, TupleKind:
		return true
	default:
		return false
	}
}
