package expr

import (
	"fmt"

	"github.com/gridql/gridql"
	"github.com/gridql/gridql/ir"
)

// ToExpr converts a value to an expression, imputing the type of a
// native value. An existing expression passes through unchanged.
func ToExpr(v any) (*Expression, error) {
	if e, ok := v.(*Expression); ok {
		return e, nil
	}
	return Literal(v)
}

// ToExprTyped converts a value to an expression of exactly type t.
// Numeric expressions are widened explicitly; any other mismatch is a
// type error. Native containers are coerced element-wise, and when no
// element required wrapping the whole value becomes a single literal.
func ToExprTyped(v any, t gridql.Type) (*Expression, error) {
	if e, ok := v.(*Expression); ok {
		if t.Equal(e.typ) {
			return e, nil
		}
		return widen(e, t)
	}
	x, err := coerceNative(v, t)
	if err != nil {
		return nil, err
	}
	if e, ok := x.(*Expression); ok {
		return e, nil
	}
	return TypedLiteral(x, t), nil
}

// widen inserts an explicit widening operation taking e to target. Only
// the upward numeric conversions exist: int32 to int64, and either
// integer to either float.
func widen(e *Expression, target gridql.Type) (*Expression, error) {
	if gridql.IsNumeric(e.typ) && gridql.IsNumeric(target) {
		from := e.typ.Kind()
		switch target.Kind() {
		case gridql.Int64Kind:
			if from == gridql.Int32Kind {
				return widenTo(e, "ToInt64", target), nil
			}
		case gridql.Float32Kind:
			if from == gridql.Int32Kind || from == gridql.Int64Kind {
				return widenTo(e, "ToFloat32", target), nil
			}
		case gridql.Float64Kind:
			if from == gridql.Int32Kind || from == gridql.Int64Kind {
				return widenTo(e, "ToFloat64", target), nil
			}
		}
	}
	return nil, fmt.Errorf("expected expression of type %q, found %q: %w",
		target, e.typ, gridql.ErrTypeMismatch)
}

func widenTo(e *Expression, op string, target gridql.Type) *Expression {
	return construct(ir.Apply(op, e.ast), target, e.indices, e.aggregations, e.joins, e.refs)
}

// coerceNative coerces a native value toward type t. The result is either
// the value unchanged (no element needed an expression) or an
// *Expression assembled from the elements that did.
func coerceNative(v any, t gridql.Type) (any, error) {
	if v == nil {
		return TypedLiteral(nil, t), nil
	}
	if e, ok := v.(*Expression); ok {
		if t.Equal(e.typ) {
			return e, nil
		}
		return widen(e, t)
	}
	if !gridql.IsContainer(t) {
		return v, nil
	}

	switch dt := t.(type) {
	case *gridql.StructType:
		s, ok := v.(gridql.Struct)
		if !ok {
			return nil, coercionShapeError(v, t)
		}
		values := make([]any, len(dt.Fields))
		anyExpr := false
		for i, f := range dt.Fields {
			fv, ok := structField(s, f.Name)
			if !ok {
				return nil, fmt.Errorf("missing struct field %q: %w", f.Name, gridql.ErrTypeMismatch)
			}
			coerced, err := coerceNative(fv, f.Type)
			if err != nil {
				return nil, fmt.Errorf("struct field %q: %w", f.Name, err)
			}
			if _, isExpr := coerced.(*Expression); isExpr {
				anyExpr = true
			}
			values[i] = coerced
		}
		if !anyExpr {
			return v, nil
		}
		names := make([]string, len(dt.Fields))
		exprs := make([]*Expression, len(dt.Fields))
		for i, f := range dt.Fields {
			names[i] = f.Name
			exprs[i] = asExpr(values[i], f.Type)
		}
		indices, aggregations, joins, refs, err := unifyAll(exprs...)
		if err != nil {
			return nil, err
		}
		return construct(ir.MakeStruct(names, astsOf(exprs)...), t, indices, aggregations, joins, refs), nil

	case *gridql.ArrayType:
		elems, ok := v.([]any)
		if !ok {
			return nil, coercionShapeError(v, t)
		}
		return coerceElements(v, elems, dt.Elem, t, func(asts []*ir.Node) *ir.Node {
			return ir.MakeArray(asts...)
		})

	case *gridql.SetType:
		elems, ok := v.(gridql.Set)
		if !ok {
			return nil, coercionShapeError(v, t)
		}
		return coerceElements(v, elems, dt.Elem, t, func(asts []*ir.Node) *ir.Node {
			return ir.Apply("ToSet", ir.MakeArray(asts...))
		})

	case *gridql.TupleType:
		elems, ok := v.(gridql.Tuple)
		if !ok {
			return nil, coercionShapeError(v, t)
		}
		if len(elems) != len(dt.Types) {
			return nil, fmt.Errorf("tuple of length %d against %q: %w", len(elems), t, gridql.ErrTypeMismatch)
		}
		values := make([]any, len(elems))
		anyExpr := false
		for i, el := range elems {
			coerced, err := coerceNative(el, dt.Types[i])
			if err != nil {
				return nil, fmt.Errorf("tuple element %d: %w", i, err)
			}
			if _, isExpr := coerced.(*Expression); isExpr {
				anyExpr = true
			}
			values[i] = coerced
		}
		if !anyExpr {
			return v, nil
		}
		exprs := make([]*Expression, len(values))
		for i, val := range values {
			exprs[i] = asExpr(val, dt.Types[i])
		}
		indices, aggregations, joins, refs, err := unifyAll(exprs...)
		if err != nil {
			return nil, err
		}
		return construct(ir.MakeTuple(astsOf(exprs)...), t, indices, aggregations, joins, refs), nil

	case *gridql.DictType:
		entries, ok := v.(gridql.Dict)
		if !ok {
			return nil, coercionShapeError(v, t)
		}
		keys := make([]any, len(entries))
		values := make([]any, len(entries))
		anyExpr := false
		for i, entry := range entries {
			ck, err := coerceNative(entry.Key, dt.Key)
			if err != nil {
				return nil, fmt.Errorf("dict key: %w", err)
			}
			cv, err := coerceNative(entry.Value, dt.Value)
			if err != nil {
				return nil, fmt.Errorf("dict value: %w", err)
			}
			if _, isExpr := ck.(*Expression); isExpr {
				anyExpr = true
			}
			if _, isExpr := cv.(*Expression); isExpr {
				anyExpr = true
			}
			keys[i] = ck
			values[i] = cv
		}
		if !anyExpr {
			return v, nil
		}
		keyArray, err := ToExprTyped(keys, gridql.TArray(dt.Key))
		if err != nil {
			return nil, err
		}
		valueArray, err := ToExprTyped(values, gridql.TArray(dt.Value))
		if err != nil {
			return nil, err
		}
		indices, aggregations, joins, refs, err := unifyAll(keyArray, valueArray)
		if err != nil {
			return nil, err
		}
		return construct(ir.Apply("ToDict", keyArray.ast, valueArray.ast), t, indices, aggregations, joins, refs), nil

	default:
		return nil, coercionShapeError(v, t)
	}
}

// coerceElements handles the shared array/set element walk: coerce every
// element, pass the original through when none became an expression,
// otherwise assemble via wrap.
func coerceElements(original any, elems []any, elemType, containerType gridql.Type,
	wrap func(asts []*ir.Node) *ir.Node) (any, error) {
	values := make([]any, len(elems))
	anyExpr := false
	for i, el := range elems {
		coerced, err := coerceNative(el, elemType)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		if _, isExpr := coerced.(*Expression); isExpr {
			anyExpr = true
		}
		values[i] = coerced
	}
	if !anyExpr {
		return original, nil
	}
	exprs := make([]*Expression, len(values))
	for i, val := range values {
		exprs[i] = asExpr(val, elemType)
	}
	indices, aggregations, joins, refs, err := unifyAll(exprs...)
	if err != nil {
		return nil, err
	}
	return construct(wrap(astsOf(exprs)), containerType, indices, aggregations, joins, refs), nil
}

func asExpr(v any, t gridql.Type) *Expression {
	if e, ok := v.(*Expression); ok {
		return e
	}
	return TypedLiteral(v, t)
}

func astsOf(exprs []*Expression) []*ir.Node {
	asts := make([]*ir.Node, len(exprs))
	for i, e := range exprs {
		asts[i] = e.ast
	}
	return asts
}

func structField(s gridql.Struct, name string) (any, bool) {
	for _, entry := range s {
		if entry.Name == name {
			return entry.Value, true
		}
	}
	return nil, false
}

func coercionShapeError(v any, t gridql.Type) error {
	return fmt.Errorf("cannot coerce %T to %q: %w", v, t, gridql.ErrTypeMismatch)
}
