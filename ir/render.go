package ir

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/gridql/gridql"
)

// Renderer serializes an IR tree into the engine's fully-parenthesized
// prefix text. A renderer also interns references to externally
// constructed objects: AddReference hands out a stable handle per object
// identity, never reusing a handle within one render pass.
type Renderer struct {
	refs    map[any]string
	counter int
}

// NewRenderer returns an empty renderer for one render pass.
func NewRenderer() *Renderer {
	return &Renderer{refs: make(map[any]string)}
}

// AddReference interns obj and returns its handle. Two distinct objects
// always get distinct handles even when structurally equal; obj must be
// of a comparable type (in practice a pointer).
func (r *Renderer) AddReference(obj any) string {
	if h, ok := r.refs[obj]; ok {
		return h
	}
	h := fmt.Sprintf("__ref_%d", r.counter)
	r.counter++
	r.refs[obj] = h
	return h
}

// Render serializes the tree rooted at n. Rendering is depth-first and
// deterministic: the same tree always yields byte-identical text.
func (r *Renderer) Render(n *Node) (string, error) {
	var sb strings.Builder
	if err := r.render(n, &sb); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func (r *Renderer) render(n *Node, sb *strings.Builder) error {
	if n == nil {
		sb.WriteString("None")
		return nil
	}

	sb.WriteByte('(')
	sb.WriteString(string(n.Op))

	if err := r.renderLiterals(n, sb); err != nil {
		return err
	}

	for _, c := range n.Children {
		sb.WriteByte(' ')
		if err := r.render(c, sb); err != nil {
			return err
		}
	}

	sb.WriteByte(')')
	return nil
}

// renderLiterals writes the op's literal arguments, in the fixed order the
// engine grammar expects: all literals precede all children.
func (r *Renderer) renderLiterals(n *Node, sb *strings.Builder) error {
	switch n.Op {
	case OpRef:
		sb.WriteByte(' ')
		sb.WriteString(EscapeID(n.Ident))
	case OpLiteral:
		sb.WriteByte(' ')
		sb.WriteString(quote(n.Type.String()))
		value, err := json.Marshal(n.Value)
		if err != nil {
			return fmt.Errorf("render literal of type %s: %w", n.Type, err)
		}
		sb.WriteByte(' ')
		sb.WriteString(quote(string(value)))
	case OpUnaryOp, OpBinaryOp:
		sb.WriteByte(' ')
		sb.WriteString(quote(n.Name))
	case OpGetField:
		sb.WriteByte(' ')
		sb.WriteString(EscapeID(n.Name))
	case OpApply:
		sb.WriteByte(' ')
		sb.WriteString(EscapeID(n.Name))
	case OpLambda:
		sb.WriteByte(' ')
		sb.WriteString(EscapeID(n.Name))
		sb.WriteByte(' ')
		sb.WriteString(EscapeID(n.Ident))
	case OpMakeStruct:
		sb.WriteByte(' ')
		writeIDList(sb, n.Names)
	case OpMatrixRead:
		blob, err := configBlob(n.Config)
		if err != nil {
			return err
		}
		sb.WriteString(" None ")
		sb.WriteString(renderBool(n.DropCols))
		sb.WriteByte(' ')
		sb.WriteString(renderBool(n.DropRows))
		sb.WriteByte(' ')
		sb.WriteString(quote(blob))
	case OpTableRead:
		blob, err := configBlob(n.Config)
		if err != nil {
			return err
		}
		sb.WriteByte(' ')
		sb.WriteString(renderBool(n.DropRows))
		sb.WriteByte(' ')
		sb.WriteString(quote(blob))
	case OpTableRange:
		sb.WriteByte(' ')
		sb.WriteString(strconv.Itoa(n.Count))
		sb.WriteByte(' ')
		sb.WriteString(strconv.Itoa(n.Partitions))
	case OpMatrixMapRows:
		if n.Lists == nil {
			sb.WriteString(" None None")
		} else {
			for _, list := range n.Lists {
				sb.WriteByte(' ')
				writeStringList(sb, list)
			}
		}
	case OpMatrixMapCols, OpTableMapRows:
		sb.WriteByte(' ')
		if n.Names == nil {
			sb.WriteString("None")
		} else {
			writeStringList(sb, n.Names)
		}
	case OpMatrixChooseCols:
		sb.WriteString(" (")
		for i, idx := range n.Indices {
			if i > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(strconv.Itoa(idx))
		}
		sb.WriteByte(')')
	case OpMatrixExplodeRows, OpMatrixExplodeCols:
		sb.WriteByte(' ')
		writeIDList(sb, n.Names)
	case OpTableToMatrix:
		for _, list := range n.Lists {
			sb.WriteByte(' ')
			writeStringList(sb, list)
		}
	case OpMatrixAnnotateRowsTable:
		sb.WriteByte(' ')
		sb.WriteString(quote(n.Name))
		sb.WriteByte(' ')
		if n.Names == nil {
			sb.WriteString("None")
		} else {
			writeStringList(sb, n.Names)
		}
	case OpMatrixAnnotateColsTable:
		sb.WriteByte(' ')
		sb.WriteString(quote(n.Name))
	case OpLocalizeEntries, OpUnlocalizeEntries:
		sb.WriteByte(' ')
		sb.WriteString(quote(n.Name))
	case OpTableKeyBy:
		sb.WriteByte(' ')
		writeStringList(sb, n.Names)
	case OpTableRename:
		sb.WriteByte(' ')
		sb.WriteString(EscapeID(n.Names[0]))
		sb.WriteByte(' ')
		sb.WriteString(EscapeID(n.Names[1]))
	}
	return nil
}

// configBlob serializes a reader config to its embedded JSON form with the
// engine-side reader name injected as the first member.
func configBlob(config gridql.ReaderConfig) (string, error) {
	data, err := json.Marshal(config)
	if err != nil {
		return "", fmt.Errorf("render reader config %s: %w", config.ReaderName(), err)
	}
	name, err := json.Marshal(config.ReaderName())
	if err != nil {
		return "", err
	}
	if string(data) == "{}" {
		return fmt.Sprintf(`{"name":%s}`, name), nil
	}
	return fmt.Sprintf(`{"name":%s,%s`, name, data[1:]), nil
}

func renderBool(b bool) string {
	if b {
		return "True"
	}
	return "False"
}

// writeStringList writes a parenthesized list of quoted strings.
func writeStringList(sb *strings.Builder, items []string) {
	sb.WriteByte('(')
	for i, s := range items {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(quote(s))
	}
	sb.WriteByte(')')
}

// writeIDList writes a parenthesized list of escaped identifiers.
func writeIDList(sb *strings.Builder, items []string) {
	sb.WriteByte('(')
	for i, s := range items {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(EscapeID(s))
	}
	sb.WriteByte(')')
}

func quote(s string) string {
	return `"` + EscapeString(s) + `"`
}

// EscapeString escapes quotes, backslashes, and control characters for
// inclusion in a double-quoted grammar literal.
func EscapeString(s string) string {
	var sb strings.Builder
	for _, c := range s {
		switch c {
		case '\\':
			sb.WriteString(`\\`)
		case '"':
			sb.WriteString(`\"`)
		case '\n':
			sb.WriteString(`\n`)
		case '\t':
			sb.WriteString(`\t`)
		case '\r':
			sb.WriteString(`\r`)
		default:
			if c < 0x20 {
				fmt.Fprintf(&sb, `\x%02x`, c)
			} else {
				sb.WriteRune(c)
			}
		}
	}
	return sb.String()
}

// EscapeID renders an identifier, backtick-quoting it when it contains
// characters reserved by the grammar.
func EscapeID(s string) string {
	if isSafeID(s) {
		return s
	}
	var sb strings.Builder
	sb.WriteByte('`')
	for _, c := range s {
		switch c {
		case '`':
			sb.WriteString("\\`")
		case '\\':
			sb.WriteString(`\\`)
		default:
			if c < 0x20 {
				fmt.Fprintf(&sb, `\x%02x`, c)
			} else {
				sb.WriteRune(c)
			}
		}
	}
	sb.WriteByte('`')
	return sb.String()
}

func isSafeID(s string) bool {
	if s == "" {
		return false
	}
	for i, c := range s {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c == '_':
		case c >= '0' && c <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}
