// Package expr implements the client-side expression algebra: immutable
// expressions carrying a type, an axis/source lineage, and the
// aggregation/join/field-reference bookkeeping needed to combine them
// safely, plus the bridge that materializes an expression into a
// structural IR query over its source.
package expr

import (
	"fmt"
	"sort"
	"strings"

	"github.com/gridql/gridql"
)

// Axis labels of the two structural dimensions.
const (
	RowAxis = "row"
	ColAxis = "column"
)

// Axes is a set of axis labels. Axes values are never mutated after
// construction; Union returns a fresh set.
type Axes map[string]struct{}

// NewAxes builds an axis set from labels.
func NewAxes(labels ...string) Axes {
	a := make(Axes, len(labels))
	for _, l := range labels {
		a[l] = struct{}{}
	}
	return a
}

// Union returns the union of a and b as a new set.
func (a Axes) Union(b Axes) Axes {
	u := make(Axes, len(a)+len(b))
	for l := range a {
		u[l] = struct{}{}
	}
	for l := range b {
		u[l] = struct{}{}
	}
	return u
}

// Equal reports whether a and b contain the same labels.
func (a Axes) Equal(b Axes) bool {
	if len(a) != len(b) {
		return false
	}
	for l := range a {
		if _, ok := b[l]; !ok {
			return false
		}
	}
	return true
}

// Contains reports whether label is in the set.
func (a Axes) Contains(label string) bool {
	_, ok := a[label]
	return ok
}

// Len returns the axis count.
func (a Axes) Len() int { return len(a) }

// Strings returns the labels in sorted order.
func (a Axes) Strings() []string {
	labels := make([]string, 0, len(a))
	for l := range a {
		labels = append(labels, l)
	}
	sort.Strings(labels)
	return labels
}

func (a Axes) String() string {
	return "{" + strings.Join(a.Strings(), ", ") + "}"
}

// Indices locates an expression: the source it is computed against (a
// back-reference, never owned) and the axes its value varies per
// instance of.
type Indices struct {
	Source Source
	Axes   Axes
}

// Equal reports whether two Indices name the same source identity and
// the same axis set.
func (i Indices) Equal(o Indices) bool {
	return i.Source == o.Source && i.Axes.Equal(o.Axes)
}

func (i Indices) String() string {
	return fmt.Sprintf("Indices(axes=%s, source=%s)", i.Axes, sourceName(i.Source))
}

// UnifyIndices folds the inputs into one Indices: axes accumulate as a
// union and the first non-nil source is accepted. A later input carrying
// a different non-nil source fails with ErrSourceMismatch.
func UnifyIndices(indices ...Indices) (Indices, error) {
	axes := NewAxes()
	var src Source
	for _, ind := range indices {
		if src == nil {
			src = ind.Source
		} else if ind.Source != nil && ind.Source != src {
			return Indices{}, gridql.ErrSourceMismatch
		}
		axes = axes.Union(ind.Axes)
	}
	return Indices{Source: src, Axes: axes}, nil
}

// List is a persistent singly-linked list: Prepend and Push return new
// lists sharing the receiver's nodes. The zero value is an empty list.
// Iteration order carries no semantic meaning.
type List[T any] struct {
	head *listNode[T]
	size int
}

type listNode[T any] struct {
	value T
	next  *listNode[T]
}

// Prepend returns a list with v added in front of l's elements.
func (l List[T]) Prepend(v T) List[T] {
	return List[T]{head: &listNode[T]{value: v, next: l.head}, size: l.size + 1}
}

// Push returns a list with every element of other added to l.
func (l List[T]) Push(other List[T]) List[T] {
	res := l
	for n := other.head; n != nil; n = n.next {
		res = res.Prepend(n.value)
	}
	return res
}

// Empty reports whether the list has no elements.
func (l List[T]) Empty() bool { return l.head == nil }

// Len returns the element count.
func (l List[T]) Len() int { return l.size }

// Values returns the elements as a fresh slice.
func (l List[T]) Values() []T {
	vals := make([]T, 0, l.size)
	for n := l.head; n != nil; n = n.next {
		vals = append(vals, n.value)
	}
	return vals
}

// FieldRef records one field access by name together with the indices it
// was read under. Used only for cross-source diagnostics.
type FieldRef struct {
	Name    string
	Indices Indices
}

// Aggregation snapshots the lineage at the point an aggregation context
// was entered.
type Aggregation struct {
	Indices Indices
	Refs    List[FieldRef]
}

// JoinFunc is the deferred computation a join applies to its target once
// the surrounding query is wired; the target's concrete type belongs to
// the external source implementation.
type JoinFunc func(target any) any

// Join represents a not-yet-materialized external computation an
// expression depends on.
type Join struct {
	Compute  JoinFunc
	TempVars []string
	UID      string
}

// unifyAll combines the lineage of all operands: indices are unified
// structurally, and the aggregation/join/ref lists concatenate onto the
// first operand's lists. The success path never groups refs; only on a
// source mismatch is a diagnostic re-scan performed to name every source
// and the fields pulled from it.
func unifyAll(exprs ...*Expression) (Indices, List[Aggregation], List[Join], List[FieldRef], error) {
	all := make([]Indices, len(exprs))
	for i, e := range exprs {
		all[i] = e.indices
	}
	indices, err := UnifyIndices(all...)
	if err != nil {
		return Indices{}, List[Aggregation]{}, List[Join]{}, List[FieldRef]{}, sourceMismatchError(exprs)
	}

	first, rest := exprs[0], exprs[1:]
	aggregations := first.aggregations
	joins := first.joins
	refs := first.refs
	for _, e := range rest {
		aggregations = aggregations.Push(e.aggregations)
		joins = joins.Push(e.joins)
		refs = refs.Push(e.refs)
	}
	return indices, aggregations, joins, refs, nil
}

// sourceMismatchError re-traverses every operand's refs, including refs
// captured by aggregations, and enumerates each distinct source with the
// field names referenced from it.
func sourceMismatchError(exprs []*Expression) error {
	var order []Source
	fields := make(map[Source][]string)
	record := func(ref FieldRef) {
		src := ref.Indices.Source
		if _, ok := fields[src]; !ok {
			order = append(order, src)
		}
		fields[src] = append(fields[src], ref.Name)
	}
	for _, e := range exprs {
		for _, ref := range e.refs.Values() {
			record(ref)
		}
		for _, agg := range e.aggregations.Values() {
			for _, ref := range agg.Refs.Values() {
				record(ref)
			}
		}
	}

	var sb strings.Builder
	for _, src := range order {
		fmt.Fprintf(&sb, "\n        %s: [%s]", sourceName(src), strings.Join(fields[src], ", "))
	}
	return fmt.Errorf("%w\n    found fields from %d objects:%s",
		gridql.ErrSourceMismatch, len(order), sb.String())
}

func sourceName(src Source) string {
	if src == nil {
		return "<none>"
	}
	return src.SourceName()
}
