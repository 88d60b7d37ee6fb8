package expr

import (
	"github.com/gridql/gridql/ir"
)

// FieldBinding names a value to bind as a new field during a structural
// select.
type FieldBinding struct {
	Name  string
	Value *ir.Node
}

// Source is the opaque identity an expression's lineage points back at.
// The identity is the interface value itself: two expressions share a
// source only when their Source values are identical. Implementations
// live outside this core; only the call contract is specified here, and
// the structural operations are assumed correct.
type Source interface {
	// SourceName labels the source in diagnostics.
	SourceName() string

	// FieldName is the reverse lookup from expression identity to the
	// name of a field already bound to that exact expression object.
	FieldName(e *Expression) (string, bool)

	// ReadGlobal binds value as a global-scope field called name and
	// returns a synthetic single-row record stream exposing it.
	ReadGlobal(name string, value *ir.Node) *ir.Node
}

// TableSource is the capability surface of a one-axis, table-like source.
type TableSource interface {
	Source

	// Key lists the table's key fields.
	Key() []string

	// SelectWith projects the table to the keep fields plus name bound
	// to value, dropping all other fields and the global scope.
	SelectWith(keep []string, name string, value *ir.Node) *ir.Node
}

// MatrixSource is the capability surface of a two-axis, matrix-like
// source. Structural operations return new IR nodes; operations taking a
// child compose onto a node previously derived from this source.
type MatrixSource interface {
	Source

	// AxisKey lists the key fields of one axis.
	AxisKey(axis string) []string

	// SelectAxis projects the axis to the given fields, binding one
	// optional new field; the other axis and entries are untouched.
	SelectAxis(axis string, fields []string, binding *FieldBinding) *ir.Node

	// Rename renames a field on a node derived from this source.
	Rename(child *ir.Node, oldName, newName string) *ir.Node

	// AxisTable projects child onto the axis as a table, discarding the
	// opposite axis, all entry data, and the global scope.
	AxisTable(child *ir.Node, axis string) *ir.Node

	// SelectEntries binds an entry-level field, retains only each axis's
	// key fields, and flattens to one record per entry cell with the
	// global scope discarded.
	SelectEntries(binding FieldBinding) *ir.Node
}
