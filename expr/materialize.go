package expr

import (
	"fmt"
	"slices"

	"github.com/gridql/gridql"
	"github.com/gridql/gridql/ir"
)

// Materialize converts an expression into a single-column structural
// query over its source: a table IR whose records expose the expression's
// value under name. An expression with pending aggregation context cannot
// take this path.
func Materialize(e *Expression, name string, session *Session) (*ir.Node, error) {
	if !e.aggregations.Empty() {
		return nil, gridql.ErrAggregatedExpression
	}

	src := e.indices.Source
	axes := e.indices.Axes

	switch axes.Len() {
	case 0:
		if src == nil {
			// synthetic single-row, single-column stream around the value
			row := ir.MakeStruct([]string{name}, e.ast)
			return ir.TableMapRows(ir.TableRange(1, 1), row, nil), nil
		}
		// bind the value as a fresh global on the source, then read the
		// global back under the requested name
		uid := session.FreshID()
		stream := src.ReadGlobal(uid, e.ast)
		row := ir.MakeStruct([]string{name}, ir.GetField(ir.Ref("row"), uid))
		return ir.TableMapRows(stream, row, nil), nil

	case 1:
		switch s := src.(type) {
		case TableSource:
			keep := make([]string, 0, len(s.Key()))
			for _, k := range s.Key() {
				if k != name {
					keep = append(keep, k)
				}
			}
			return s.SelectWith(keep, name, e.ast), nil
		case MatrixSource:
			return materializeAxis(e, name, s)
		default:
			panic(&InternalError{
				Msg:     fmt.Sprintf("one-axis expression against source %s of unknown kind", sourceName(src)),
				Indices: e.indices,
				Op:      e.ast.Op,
			})
		}

	case 2:
		s, ok := src.(MatrixSource)
		if !ok {
			panic(&InternalError{
				Msg:     fmt.Sprintf("two-axis expression against non-matrix source %s", sourceName(src)),
				Indices: e.indices,
				Op:      e.ast.Op,
			})
		}
		return s.SelectEntries(FieldBinding{Name: name, Value: e.ast}), nil

	default:
		panic(&InternalError{
			Msg:     fmt.Sprintf("expression carries %d axes", axes.Len()),
			Indices: e.indices,
			Op:      e.ast.Op,
		})
	}
}

// materializeAxis handles the one-axis matrix paths, trying the
// field-reuse fast path first: when the expression is identity-equal to
// a field already bound on the source, that field is selected and
// renamed instead of being derived again.
func materializeAxis(e *Expression, name string, s MatrixSource) (*ir.Node, error) {
	axis := e.indices.Axes.Strings()[0]
	key := s.AxisKey(axis)

	if field, ok := s.FieldName(e); ok {
		var m *ir.Node
		if slices.Contains(key, field) {
			m = s.SelectAxis(axis, key, nil)
		} else {
			m = s.SelectAxis(axis, append(slices.Clone(key), field), nil)
		}
		m = s.Rename(m, field, name)
		return s.AxisTable(m, axis), nil
	}

	m := s.SelectAxis(axis, key, &FieldBinding{Name: name, Value: e.ast})
	return s.AxisTable(m, axis), nil
}
