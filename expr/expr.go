package expr

import (
	"fmt"
	"strings"

	"github.com/gridql/gridql"
	"github.com/gridql/gridql/ir"
)

// InternalError reports a violation of the source-lineage invariant on
// expression construction. It signals a defect in the builder itself,
// never caller misuse, so it is delivered by panic rather than returned.
type InternalError struct {
	Msg     string
	Sources []string
	Indices Indices
	Op      ir.Op
}

func (e *InternalError) Error() string {
	return fmt.Sprintf("internal consistency error: %s\n    sources: [%s]\n    indices: %s\n    under construction: %s",
		e.Msg, strings.Join(e.Sources, ", "), e.Indices, e.Op)
}

// Expression is one immutable node of the algebra: an AST fragment, its
// value type, and the lineage accumulated while building it.
type Expression struct {
	ast          *ir.Node
	typ          gridql.Type
	indices      Indices
	aggregations List[Aggregation]
	joins        List[Join]
	refs         List[FieldRef]
}

// construct builds an Expression and checks the source-consistency
// invariant: every source in refs must equal indices.Source and at most
// one distinct source may appear. Violations panic with InternalError.
func construct(ast *ir.Node, typ gridql.Type, indices Indices,
	aggregations List[Aggregation], joins List[Join], refs List[FieldRef]) *Expression {
	e := &Expression{
		ast:          ast,
		typ:          typ,
		indices:      indices,
		aggregations: aggregations,
		joins:        joins,
		refs:         refs,
	}
	e.verifySources()
	return e
}

func (e *Expression) verifySources() {
	var order []Source
	seen := make(map[Source]bool)
	for _, ref := range e.refs.Values() {
		if !seen[ref.Indices.Source] {
			seen[ref.Indices.Source] = true
			order = append(order, ref.Indices.Source)
		}
	}
	if len(order) > 1 {
		panic(&InternalError{
			Msg:     "too many sources referenced by one expression",
			Sources: names(order),
			Indices: e.indices,
			Op:      e.ast.Op,
		})
	}
	if len(order) == 1 && order[0] != e.indices.Source {
		panic(&InternalError{
			Msg:     "referenced source does not match expression indices",
			Sources: names(order),
			Indices: e.indices,
			Op:      e.ast.Op,
		})
	}
}

func names(sources []Source) []string {
	out := make([]string, len(sources))
	for i, s := range sources {
		out[i] = sourceName(s)
	}
	return out
}

// Literal wraps a native value, imputing its type.
func Literal(v any) (*Expression, error) {
	t, err := gridql.ImputeType(v)
	if err != nil {
		return nil, err
	}
	return TypedLiteral(v, t), nil
}

// TypedLiteral wraps a native value under a known type with empty
// lineage. The value may be nil for a typed null.
func TypedLiteral(v any, t gridql.Type) *Expression {
	return construct(ir.Literal(t, v), t, Indices{Axes: NewAxes()},
		List[Aggregation]{}, List[Join]{}, List[FieldRef]{})
}

// FieldExpr is the expression for an existing source field: a reference
// under the field's indices, with the access recorded in refs. Sources
// use it to hand out their field expressions.
func FieldExpr(name string, t gridql.Type, indices Indices) *Expression {
	refs := List[FieldRef]{}.Prepend(FieldRef{Name: name, Indices: indices})
	return construct(ir.Ref(name), t, indices, List[Aggregation]{}, List[Join]{}, refs)
}

// Type returns the expression's value type.
func (e *Expression) Type() gridql.Type { return e.typ }

// Indices returns the expression's source and axes.
func (e *Expression) Indices() Indices { return e.indices }

// AST returns the expression's IR fragment.
func (e *Expression) AST() *ir.Node { return e.ast }

// Aggregations returns the pending aggregation contexts.
func (e *Expression) Aggregations() List[Aggregation] { return e.aggregations }

// Joins returns the pending joins.
func (e *Expression) Joins() List[Join] { return e.joins }

// Refs returns the recorded field references.
func (e *Expression) Refs() List[FieldRef] { return e.refs }

// WithAggregation returns a copy of e carrying an additional aggregation
// context snapshotting the current lineage.
func (e *Expression) WithAggregation() *Expression {
	agg := Aggregation{Indices: e.indices, Refs: e.refs}
	return construct(e.ast, e.typ, e.indices, e.aggregations.Prepend(agg), e.joins, e.refs)
}

// WithJoin returns a copy of e carrying an additional pending join.
func (e *Expression) WithJoin(j Join) *Expression {
	return construct(e.ast, e.typ, e.indices, e.aggregations, e.joins.Prepend(j), e.refs)
}

// UnaryOp applies a unary operator; type and lineage carry over.
func (e *Expression) UnaryOp(op string) *Expression {
	return construct(ir.Unary(op, e.ast), e.typ, e.indices, e.aggregations, e.joins, e.refs)
}

// BinOp applies a binary operator against other, which may be a native
// value. The result type is supplied by the caller: this primitive
// performs no type inference of its own.
func (e *Expression) BinOp(op string, other any, resultType gridql.Type) (*Expression, error) {
	o, err := ToExpr(other)
	if err != nil {
		return nil, err
	}
	indices, aggregations, joins, refs, err := unifyAll(e, o)
	if err != nil {
		return nil, err
	}
	return construct(ir.Binary(op, e.ast, o.ast), resultType, indices, aggregations, joins, refs), nil
}

// Field selects a named field, preserving lineage and recording the
// access for cross-source diagnostics.
func (e *Expression) Field(name string, resultType gridql.Type) *Expression {
	refs := e.refs.Prepend(FieldRef{Name: name, Indices: e.indices})
	return construct(ir.GetField(e.ast, name), resultType, e.indices, e.aggregations, e.joins, refs)
}

// Method calls a named method with coerced arguments, unifying lineage
// across the receiver and every argument.
func (e *Expression) Method(name string, resultType gridql.Type, args ...any) (*Expression, error) {
	operands := []*Expression{e}
	asts := make([]*ir.Node, 0, len(args))
	for _, arg := range args {
		a, err := ToExpr(arg)
		if err != nil {
			return nil, err
		}
		operands = append(operands, a)
		asts = append(asts, a.ast)
	}
	indices, aggregations, joins, refs, err := unifyAll(operands...)
	if err != nil {
		return nil, err
	}
	return construct(ir.Apply(name, e.ast, asts...), resultType, indices, aggregations, joins, refs), nil
}

// Index indexes the expression by key.
func (e *Expression) Index(resultType gridql.Type, key any) (*Expression, error) {
	k, err := ToExpr(key)
	if err != nil {
		return nil, err
	}
	indices, aggregations, joins, refs, err := unifyAll(e, k)
	if err != nil {
		return nil, err
	}
	return construct(ir.IndexInto(e.ast, k.ast), resultType, indices, aggregations, joins, refs), nil
}

// Slice slices the expression. Start and stop may be nil for open ends; a
// non-nil step is rejected outright.
func (e *Expression) Slice(resultType gridql.Type, start, stop, step any) (*Expression, error) {
	if step != nil {
		return nil, gridql.ErrSliceStep
	}
	operands := []*Expression{e}
	var startAST, stopAST *ir.Node
	if start != nil {
		s, err := ToExpr(start)
		if err != nil {
			return nil, err
		}
		operands = append(operands, s)
		startAST = s.ast
	}
	if stop != nil {
		s, err := ToExpr(stop)
		if err != nil {
			return nil, err
		}
		operands = append(operands, s)
		stopAST = s.ast
	}
	indices, aggregations, joins, refs, err := unifyAll(operands...)
	if err != nil {
		return nil, err
	}
	return construct(ir.SliceOf(e.ast, startAST, stopAST), resultType, indices, aggregations, joins, refs), nil
}

// TransformFunc maps the lambda's bound-variable placeholder to the body
// expression.
type TransformFunc func(placeholder *Expression) (*Expression, error)

// LambdaMethod calls a lambda-bodied method: a fresh bound identifier is
// drawn from the session, a placeholder of inputType carrying the
// receiver's lineage is passed to transform, and the result type is
// computed from the body's type. Extra args are coerced and unified in.
func (e *Expression) LambdaMethod(session *Session, name string, inputType gridql.Type,
	transform TransformFunc, resultTypeOf func(bodyType gridql.Type) gridql.Type, args ...any) (*Expression, error) {
	ident := session.FreshID()
	placeholder := construct(ir.Ref(ident), inputType, e.indices, e.aggregations, e.joins, e.refs)
	body, err := transform(placeholder)
	if err != nil {
		return nil, err
	}

	operands := []*Expression{e, body}
	asts := make([]*ir.Node, 0, len(args))
	for _, arg := range args {
		a, err := ToExpr(arg)
		if err != nil {
			return nil, err
		}
		operands = append(operands, a)
		asts = append(asts, a.ast)
	}
	indices, aggregations, joins, refs, err := unifyAll(operands...)
	if err != nil {
		return nil, err
	}
	ast := ir.Lambda(name, ident, e.ast, body.ast, asts...)
	return construct(ast, resultTypeOf(body.typ), indices, aggregations, joins, refs), nil
}

// Eq compares for equality. The operand types must have a non-trivial
// unification.
func (e *Expression) Eq(other any) (*Expression, error) {
	return e.compare("==", other)
}

// Ne compares for inequality under the same typing rule as Eq.
func (e *Expression) Ne(other any) (*Expression, error) {
	return e.compare("!=", other)
}

func (e *Expression) compare(op string, other any) (*Expression, error) {
	o, err := ToExpr(other)
	if err != nil {
		return nil, err
	}
	if _, ok := gridql.UnifyTypes(e.typ, o.typ); !ok {
		return nil, fmt.Errorf("invalid %q comparison: %w: %q and %q",
			op, gridql.ErrIncomparableTypes, e.typ, o.typ)
	}
	return e.BinOp(op, o, gridql.TBool)
}

// Lt is always rejected: expressions have no total order.
func (e *Expression) Lt(any) (*Expression, error) { return nil, orderError("<", e.typ) }

// Le is always rejected: expressions have no total order.
func (e *Expression) Le(any) (*Expression, error) { return nil, orderError("<=", e.typ) }

// Gt is always rejected: expressions have no total order.
func (e *Expression) Gt(any) (*Expression, error) { return nil, orderError(">", e.typ) }

// Ge is always rejected: expressions have no total order.
func (e *Expression) Ge(any) (*Expression, error) { return nil, orderError(">=", e.typ) }

func orderError(op string, t gridql.Type) error {
	return fmt.Errorf("%q comparison with expression of type %q: %w", op, t, gridql.ErrNoTotalOrder)
}

// Truth is always rejected: an expression has no concrete truth value
// before materialization.
func (e *Expression) Truth() (bool, error) {
	return false, gridql.ErrNoTruthValue
}

// Iterate is always rejected: expressions are not iterable without
// explicit materialization.
func (e *Expression) Iterate() ([]any, error) {
	return nil, gridql.ErrNotIterable
}

// Length is always rejected: expressions have no static length.
func (e *Expression) Length() (int, error) {
	return 0, gridql.ErrNoLength
}

func (e *Expression) String() string {
	return fmt.Sprintf("<expression of type %s>", e.typ)
}
