package expr

import (
	"context"
	"slices"

	"github.com/gridql/gridql/ir"
)

// fakeTable is a minimal one-axis source for tests. Structural operations
// build plain IR so results can be asserted by rendering them.
type fakeTable struct {
	name   string
	key    []string
	fields map[*Expression]string
	node   *ir.Node
}

func (f *fakeTable) SourceName() string { return f.name }

func (f *fakeTable) FieldName(e *Expression) (string, bool) {
	name, ok := f.fields[e]
	return name, ok
}

func (f *fakeTable) ReadGlobal(name string, value *ir.Node) *ir.Node {
	return ir.TableMapGlobals(f.node, ir.MakeStruct([]string{name}, value))
}

func (f *fakeTable) Key() []string { return f.key }

func (f *fakeTable) SelectWith(keep []string, name string, value *ir.Node) *ir.Node {
	names := append(slices.Clone(keep), name)
	values := make([]*ir.Node, 0, len(names))
	for _, k := range keep {
		values = append(values, ir.GetField(ir.Ref("row"), k))
	}
	values = append(values, value)
	return ir.TableMapRows(f.node, ir.MakeStruct(names, values...), keep)
}

// field hands out the expression for an existing table field and records
// it for reverse lookup.
func (f *fakeTable) field(name string, e *Expression) *Expression {
	if f.fields == nil {
		f.fields = make(map[*Expression]string)
	}
	f.fields[e] = name
	return e
}

// fakeMatrix is a minimal two-axis source for tests.
type fakeMatrix struct {
	name   string
	rowKey []string
	colKey []string
	fields map[*Expression]string
	node   *ir.Node
}

func (f *fakeMatrix) SourceName() string { return f.name }

func (f *fakeMatrix) FieldName(e *Expression) (string, bool) {
	name, ok := f.fields[e]
	return name, ok
}

func (f *fakeMatrix) ReadGlobal(name string, value *ir.Node) *ir.Node {
	return ir.TableMapGlobals(ir.MatrixRowsTable(f.node), ir.MakeStruct([]string{name}, value))
}

func (f *fakeMatrix) AxisKey(axis string) []string {
	if axis == RowAxis {
		return f.rowKey
	}
	return f.colKey
}

func (f *fakeMatrix) SelectAxis(axis string, fields []string, binding *FieldBinding) *ir.Node {
	names := slices.Clone(fields)
	values := make([]*ir.Node, 0, len(names)+1)
	for _, k := range fields {
		values = append(values, ir.GetField(ir.Ref(axis), k))
	}
	if binding != nil {
		names = append(names, binding.Name)
		values = append(values, binding.Value)
	}
	newValue := ir.MakeStruct(names, values...)
	if axis == RowAxis {
		return ir.MatrixMapRows(f.node, newValue, f.rowKey, f.rowKey)
	}
	return ir.MatrixMapCols(f.node, newValue, f.colKey)
}

func (f *fakeMatrix) Rename(child *ir.Node, oldName, newName string) *ir.Node {
	return ir.TableRename(child, oldName, newName)
}

func (f *fakeMatrix) AxisTable(child *ir.Node, axis string) *ir.Node {
	if axis == RowAxis {
		return ir.MatrixRowsTable(child)
	}
	return ir.MatrixColsTable(child)
}

func (f *fakeMatrix) SelectEntries(binding FieldBinding) *ir.Node {
	entry := ir.MakeStruct([]string{binding.Name}, binding.Value)
	return ir.MatrixEntriesTable(ir.MatrixMapEntries(f.node, entry))
}

func (f *fakeMatrix) field(name string, e *Expression) *Expression {
	if f.fields == nil {
		f.fields = make(map[*Expression]string)
	}
	f.fields[e] = name
	return e
}

// opaqueSource implements only the base Source contract, no axis
// capabilities.
type opaqueSource struct{ name string }

func (o *opaqueSource) SourceName() string                   { return o.name }
func (o *opaqueSource) FieldName(*Expression) (string, bool) { return "", false }
func (o *opaqueSource) ReadGlobal(string, *ir.Node) *ir.Node { return nil }

// fakeEngine records the IR text it receives and replays canned rows.
type fakeEngine struct {
	texts []string
	rows  func(irText string) []map[string]any
	err   error
}

func (f *fakeEngine) Execute(_ context.Context, irText string) ([]map[string]any, error) {
	f.texts = append(f.texts, irText)
	if f.err != nil {
		return nil, f.err
	}
	if f.rows == nil {
		return nil, nil
	}
	return f.rows(irText), nil
}
