package expr

import (
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/gridql/gridql"
)

func TestAxes(t *testing.T) {
	a := NewAxes(RowAxis)
	b := NewAxes(ColAxis)

	u := a.Union(b)
	assert.Equal(t, 2, u.Len())
	assert.True(t, u.Contains(RowAxis))
	assert.True(t, u.Contains(ColAxis))
	assert.Equal(t, []string{"column", "row"}, u.Strings())
	assert.Equal(t, "{column, row}", u.String())

	assert.True(t, a.Equal(NewAxes(RowAxis)))
	assert.False(t, a.Equal(b))
	assert.False(t, a.Equal(u))

	// inputs untouched by Union
	assert.Equal(t, 1, a.Len())
	assert.Equal(t, 1, b.Len())
}

func TestUnifyIndices(t *testing.T) {
	src := &fakeTable{name: "t1", key: []string{"id"}}
	other := &fakeTable{name: "t2", key: []string{"id"}}

	t.Run("empty input is sourceless and axisless", func(t *testing.T) {
		got, err := UnifyIndices()
		assert.NoError(t, err)
		assert.Zero(t, got.Source)
		assert.Equal(t, 0, got.Axes.Len())
	})

	t.Run("axes union across a shared source", func(t *testing.T) {
		got, err := UnifyIndices(
			Indices{Source: src, Axes: NewAxes(RowAxis)},
			Indices{Source: nil, Axes: NewAxes(ColAxis)},
		)
		assert.NoError(t, err)
		assert.Equal[Source](t, src, got.Source)
		assert.True(t, got.Axes.Equal(NewAxes(RowAxis, ColAxis)))
	})

	t.Run("nil source before the first real one is absorbed", func(t *testing.T) {
		got, err := UnifyIndices(
			Indices{Axes: NewAxes()},
			Indices{Source: src, Axes: NewAxes(RowAxis)},
		)
		assert.NoError(t, err)
		assert.Equal[Source](t, src, got.Source)
	})

	t.Run("distinct sources never unify", func(t *testing.T) {
		_, err := UnifyIndices(
			Indices{Source: src, Axes: NewAxes(RowAxis)},
			Indices{Source: other, Axes: NewAxes(RowAxis)},
		)
		assert.IsError(t, err, gridql.ErrSourceMismatch)
	})

	t.Run("same axes same source", func(t *testing.T) {
		in := Indices{Source: src, Axes: NewAxes(RowAxis)}
		got, err := UnifyIndices(in, in, in)
		assert.NoError(t, err)
		assert.True(t, got.Equal(in))
	})
}

func TestIndicesEqual(t *testing.T) {
	src := &fakeTable{name: "t", key: []string{"id"}}
	a := Indices{Source: src, Axes: NewAxes(RowAxis)}

	assert.True(t, a.Equal(Indices{Source: src, Axes: NewAxes(RowAxis)}))
	assert.False(t, a.Equal(Indices{Source: src, Axes: NewAxes(ColAxis)}))
	assert.False(t, a.Equal(Indices{Source: nil, Axes: NewAxes(RowAxis)}))
}

func TestListPersistence(t *testing.T) {
	var empty List[int]
	assert.True(t, empty.Empty())
	assert.Equal(t, 0, empty.Len())
	assert.Equal(t, 0, len(empty.Values()))

	one := empty.Prepend(1)
	two := one.Prepend(2)

	// earlier versions unaffected
	assert.True(t, empty.Empty())
	assert.Equal(t, 1, one.Len())
	assert.Equal(t, []int{1}, one.Values())
	assert.Equal(t, []int{2, 1}, two.Values())

	pushed := two.Push(empty.Prepend(3).Prepend(4))
	assert.Equal(t, 4, pushed.Len())
	assert.Equal(t, 2, two.Len())

	vals := pushed.Values()
	seen := make(map[int]bool, len(vals))
	for _, v := range vals {
		seen[v] = true
	}
	assert.Equal(t, map[int]bool{1: true, 2: true, 3: true, 4: true}, seen)
}

func TestSourceMismatchDiagnostic(t *testing.T) {
	left := &fakeTable{name: "people", key: []string{"id"}}
	right := &fakeTable{name: "places", key: []string{"id"}}

	a := FieldExpr("age", gridql.TInt32, Indices{Source: left, Axes: NewAxes(RowAxis)})
	b := FieldExpr("elevation", gridql.TInt32, Indices{Source: right, Axes: NewAxes(RowAxis)})

	_, err := a.BinOp("+", b, gridql.TInt32)
	assert.IsError(t, err, gridql.ErrSourceMismatch)
	assert.Contains(t, err.Error(), "found fields from 2 objects")
	assert.Contains(t, err.Error(), "people: [age]")
	assert.Contains(t, err.Error(), "places: [elevation]")
}
