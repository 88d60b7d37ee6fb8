// Package ir holds the tree handed to the execution engine: one
// tagged-variant node type covering value expressions, structural
// table/matrix transforms, and leaf readers, plus the textual renderer.
package ir

import (
	"github.com/gridql/gridql"
)

// Op tags a Node variant. The tag doubles as the node name in the
// rendered text.
type Op string

// Value-level operations.
const (
	OpRef        Op = "Ref"
	OpLiteral    Op = "Literal"
	OpUnaryOp    Op = "UnaryOp"
	OpBinaryOp   Op = "BinaryOp"
	OpGetField   Op = "GetField"
	OpApply      Op = "Apply"
	OpLambda     Op = "Lambda"
	OpIndexInto  Op = "Index"
	OpSliceOf    Op = "Slice"
	OpMakeStruct Op = "MakeStruct"
	OpMakeArray  Op = "MakeArray"
	OpMakeTuple  Op = "MakeTuple"
)

// Matrix-level structural operations.
const (
	OpMatrixRead              Op = "MatrixRead"
	OpMatrixFilterRows        Op = "MatrixFilterRows"
	OpMatrixFilterCols        Op = "MatrixFilterCols"
	OpMatrixFilterEntries     Op = "MatrixFilterEntries"
	OpMatrixMapRows           Op = "MatrixMapRows"
	OpMatrixMapCols           Op = "MatrixMapCols"
	OpMatrixMapEntries        Op = "MatrixMapEntries"
	OpMatrixMapGlobals        Op = "MatrixMapGlobals"
	OpMatrixChooseCols        Op = "MatrixChooseCols"
	OpMatrixExplodeRows       Op = "MatrixExplodeRows"
	OpMatrixExplodeCols       Op = "MatrixExplodeCols"
	OpMatrixUnionRows         Op = "MatrixUnionRows"
	OpMatrixCollectColsByKey  Op = "MatrixCollectColsByKey"
	OpMatrixAggRowsByKey      Op = "MatrixAggregateRowsByKey"
	OpMatrixAggColsByKey      Op = "MatrixAggregateColsByKey"
	OpTableToMatrix           Op = "TableToMatrixTable"
	OpMatrixAnnotateRowsTable Op = "MatrixAnnotateRowsTable"
	OpMatrixAnnotateColsTable Op = "MatrixAnnotateColsTable"
	OpLocalizeEntries         Op = "LocalizeEntries"
	OpUnlocalizeEntries       Op = "UnlocalizeEntries"
	OpMatrixRowsTable         Op = "MatrixRowsTable"
	OpMatrixColsTable         Op = "MatrixColsTable"
	OpMatrixEntriesTable      Op = "MatrixEntriesTable"
)

// Table-level structural operations.
const (
	OpTableRead       Op = "TableRead"
	OpTableRange      Op = "TableRange"
	OpTableFilter     Op = "TableFilter"
	OpTableMapRows    Op = "TableMapRows"
	OpTableMapGlobals Op = "TableMapGlobals"
	OpTableKeyBy      Op = "TableKeyBy"
	OpTableRename     Op = "TableRename"
	OpTableUnion      Op = "TableUnion"
)

// Node is one vertex of the IR tree. Which literal fields are meaningful
// depends on Op; children are owned and tree-shaped, never shared.
type Node struct {
	Op Op

	// Name holds the single-name literal of the op: an operator symbol
	// for UnaryOp/BinaryOp, a method or function name for Apply/Lambda,
	// a field name for GetField, a root or entry-field name for the
	// annotate and localize ops.
	Name string

	// Ident is a bound-variable or reference identifier.
	Ident string

	// Names is the op's primary name-list literal: new keys for the map
	// ops, a nested field path for the explode ops, join keys for
	// annotate, struct field names for MakeStruct.
	Names []string

	// Lists carries the multi-list literals of TableToMatrixTable:
	// row key, col key, row fields, col fields, partition key.
	Lists [][]string

	// Indices is the explicit column index list of MatrixChooseCols.
	Indices []int

	// Value and Type describe a Literal node.
	Value any
	Type  gridql.Type

	// Config is the embedded option blob of a leaf reader node.
	Config gridql.ReaderConfig

	// DropRows and DropCols are the read-node column/row drop flags;
	// Count and Partitions size a TableRange.
	DropRows   bool
	DropCols   bool
	Count      int
	Partitions int

	Children []*Node
}

// Ref references a bound variable.
func Ref(ident string) *Node {
	return &Node{Op: OpRef, Ident: ident}
}

// Literal wraps a native value of a known type.
func Literal(typ gridql.Type, value any) *Node {
	return &Node{Op: OpLiteral, Type: typ, Value: value}
}

// Unary applies a unary operator to a value.
func Unary(op string, x *Node) *Node {
	return &Node{Op: OpUnaryOp, Name: op, Children: []*Node{x}}
}

// Binary applies a binary operator to two values.
func Binary(op string, l, r *Node) *Node {
	return &Node{Op: OpBinaryOp, Name: op, Children: []*Node{l, r}}
}

// GetField selects a named field from a struct value.
func GetField(x *Node, name string) *Node {
	return &Node{Op: OpGetField, Name: name, Children: []*Node{x}}
}

// Apply calls a named method on a receiver with arguments.
func Apply(name string, recv *Node, args ...*Node) *Node {
	return &Node{Op: OpApply, Name: name, Children: append([]*Node{recv}, args...)}
}

// Lambda calls a named lambda-bodied method: the receiver, the body the
// bound identifier is free in, and any further arguments.
func Lambda(name, ident string, recv, body *Node, args ...*Node) *Node {
	return &Node{Op: OpLambda, Name: name, Ident: ident, Children: append([]*Node{recv, body}, args...)}
}

// IndexInto indexes a collection by a key value.
func IndexInto(x, key *Node) *Node {
	return &Node{Op: OpIndexInto, Children: []*Node{x, key}}
}

// SliceOf slices a collection; start and stop may be nil for open ends.
func SliceOf(x, start, stop *Node) *Node {
	return &Node{Op: OpSliceOf, Children: []*Node{x, start, stop}}
}

// MakeStruct builds a struct value from ordered names and value children.
func MakeStruct(names []string, values ...*Node) *Node {
	return &Node{Op: OpMakeStruct, Names: names, Children: values}
}

// MakeArray builds an array value from element children.
func MakeArray(elems ...*Node) *Node {
	return &Node{Op: OpMakeArray, Children: elems}
}

// MakeTuple builds a tuple value from element children.
func MakeTuple(elems ...*Node) *Node {
	return &Node{Op: OpMakeTuple, Children: elems}
}

// MatrixRead reads an external matrix source described by config.
func MatrixRead(config gridql.ReaderConfig, dropCols, dropRows bool) *Node {
	return &Node{Op: OpMatrixRead, Config: config, DropCols: dropCols, DropRows: dropRows}
}

// MatrixFilterRows keeps rows satisfying pred.
func MatrixFilterRows(child, pred *Node) *Node {
	return &Node{Op: OpMatrixFilterRows, Children: []*Node{child, pred}}
}

// MatrixFilterCols keeps columns satisfying pred.
func MatrixFilterCols(child, pred *Node) *Node {
	return &Node{Op: OpMatrixFilterCols, Children: []*Node{child, pred}}
}

// MatrixFilterEntries keeps entries satisfying pred.
func MatrixFilterEntries(child, pred *Node) *Node {
	return &Node{Op: OpMatrixFilterEntries, Children: []*Node{child, pred}}
}

// MatrixMapRows replaces the row value; newKey and partitionKey are
// optional replacement key lists.
func MatrixMapRows(child, newRow *Node, newKey, partitionKey []string) *Node {
	n := &Node{Op: OpMatrixMapRows, Children: []*Node{child, newRow}}
	if newKey != nil {
		n.Lists = [][]string{newKey, partitionKey}
	}
	return n
}

// MatrixMapCols replaces the column value with an optional new key.
func MatrixMapCols(child, newCol *Node, newKey []string) *Node {
	return &Node{Op: OpMatrixMapCols, Names: newKey, Children: []*Node{child, newCol}}
}

// MatrixMapEntries replaces the entry value.
func MatrixMapEntries(child, newEntry *Node) *Node {
	return &Node{Op: OpMatrixMapEntries, Children: []*Node{child, newEntry}}
}

// MatrixMapGlobals replaces the global value.
func MatrixMapGlobals(child, newGlobals *Node) *Node {
	return &Node{Op: OpMatrixMapGlobals, Children: []*Node{child, newGlobals}}
}

// MatrixChooseCols keeps the columns at the given old indices, in order.
func MatrixChooseCols(child *Node, oldIndices []int) *Node {
	return &Node{Op: OpMatrixChooseCols, Indices: oldIndices, Children: []*Node{child}}
}

// MatrixExplodeRows explodes rows along a nested field path.
func MatrixExplodeRows(child *Node, path []string) *Node {
	return &Node{Op: OpMatrixExplodeRows, Names: path, Children: []*Node{child}}
}

// MatrixExplodeCols explodes columns along a nested field path.
func MatrixExplodeCols(child *Node, path []string) *Node {
	return &Node{Op: OpMatrixExplodeCols, Names: path, Children: []*Node{child}}
}

// MatrixUnionRows unions the rows of several matrices.
func MatrixUnionRows(children ...*Node) *Node {
	return &Node{Op: OpMatrixUnionRows, Children: children}
}

// MatrixCollectColsByKey collects columns sharing a key.
func MatrixCollectColsByKey(child *Node) *Node {
	return &Node{Op: OpMatrixCollectColsByKey, Children: []*Node{child}}
}

// MatrixAggregateRowsByKey aggregates rows sharing a key with expr.
func MatrixAggregateRowsByKey(child, expr *Node) *Node {
	return &Node{Op: OpMatrixAggRowsByKey, Children: []*Node{child, expr}}
}

// MatrixAggregateColsByKey aggregates columns sharing a key with expr.
func MatrixAggregateColsByKey(child, expr *Node) *Node {
	return &Node{Op: OpMatrixAggColsByKey, Children: []*Node{child, expr}}
}

// TableToMatrix pivots a table into a matrix along the given key and
// field partitions.
func TableToMatrix(child *Node, rowKey, colKey, rowFields, colFields, partitionKey []string) *Node {
	return &Node{
		Op:       OpTableToMatrix,
		Lists:    [][]string{rowKey, colKey, rowFields, colFields, partitionKey},
		Children: []*Node{child},
	}
}

// MatrixAnnotateRowsTable joins table onto rows under root; key overrides
// the join key when non-nil.
func MatrixAnnotateRowsTable(child, table *Node, root string, key []string) *Node {
	return &Node{Op: OpMatrixAnnotateRowsTable, Name: root, Names: key, Children: []*Node{child, table}}
}

// MatrixAnnotateColsTable joins table onto columns under root.
func MatrixAnnotateColsTable(child, table *Node, root string) *Node {
	return &Node{Op: OpMatrixAnnotateColsTable, Name: root, Children: []*Node{child, table}}
}

// LocalizeEntries flattens a matrix into a row-keyed record stream with
// entries bound under entryField.
func LocalizeEntries(child *Node, entryField string) *Node {
	return &Node{Op: OpLocalizeEntries, Name: entryField, Children: []*Node{child}}
}

// UnlocalizeEntries rebuilds two-axis entries from a rows+entries stream
// and a columns stream.
func UnlocalizeEntries(rowsEntries, cols *Node, entryField string) *Node {
	return &Node{Op: OpUnlocalizeEntries, Name: entryField, Children: []*Node{rowsEntries, cols}}
}

// MatrixRowsTable projects the row axis to a table.
func MatrixRowsTable(child *Node) *Node {
	return &Node{Op: OpMatrixRowsTable, Children: []*Node{child}}
}

// MatrixColsTable projects the column axis to a table.
func MatrixColsTable(child *Node) *Node {
	return &Node{Op: OpMatrixColsTable, Children: []*Node{child}}
}

// MatrixEntriesTable flattens a matrix to one record per entry cell.
func MatrixEntriesTable(child *Node) *Node {
	return &Node{Op: OpMatrixEntriesTable, Children: []*Node{child}}
}

// TableRead reads an external table source described by config.
func TableRead(config gridql.ReaderConfig, dropRows bool) *Node {
	return &Node{Op: OpTableRead, Config: config, DropRows: dropRows}
}

// TableRange generates count synthetic rows in partitions pieces.
func TableRange(count, partitions int) *Node {
	return &Node{Op: OpTableRange, Count: count, Partitions: partitions}
}

// TableFilter keeps rows satisfying pred.
func TableFilter(child, pred *Node) *Node {
	return &Node{Op: OpTableFilter, Children: []*Node{child, pred}}
}

// TableMapRows replaces the row value with an optional new key.
func TableMapRows(child, newRow *Node, newKey []string) *Node {
	return &Node{Op: OpTableMapRows, Names: newKey, Children: []*Node{child, newRow}}
}

// TableMapGlobals replaces the global value.
func TableMapGlobals(child, newGlobals *Node) *Node {
	return &Node{Op: OpTableMapGlobals, Children: []*Node{child, newGlobals}}
}

// TableKeyBy rekeys a table.
func TableKeyBy(child *Node, key []string) *Node {
	return &Node{Op: OpTableKeyBy, Names: key, Children: []*Node{child}}
}

// TableRename renames a field; Names holds the old and new names.
func TableRename(child *Node, oldName, newName string) *Node {
	return &Node{Op: OpTableRename, Names: []string{oldName, newName}, Children: []*Node{child}}
}

// TableUnion unions the rows of several tables.
func TableUnion(children ...*Node) *Node {
	return &Node{Op: OpTableUnion, Children: children}
}
