package expr

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/gridql/gridql"
	"github.com/gridql/gridql/ir"
)

// Engine is the external execution boundary: it receives rendered IR
// text and returns concrete result records. Timeout, retry, and
// cancellation policy belong entirely to the implementation.
type Engine interface {
	Execute(ctx context.Context, irText string) ([]map[string]any, error)
}

// Session owns the per-query-building state: the monotonic
// fresh-identifier sequence and the engine handle. Identifiers never
// repeat within a session; a repeated identifier would silently alias
// two independently built bound scopes.
type Session struct {
	id      string
	counter atomic.Int64
	engine  Engine
}

// NewSession returns a session backed by engine; engine may be nil for
// build-only use.
func NewSession(engine Engine) *Session {
	return &Session{id: uuid.NewString(), engine: engine}
}

// ID returns the session's unique identity.
func (s *Session) ID() string { return s.id }

// FreshID returns the next identifier in the session's sequence.
func (s *Session) FreshID() string {
	return fmt.Sprintf("__uid_%d", s.counter.Add(1))
}

// NewJoin builds a pending join with temp variables drawn from the
// session's sequence and a globally unique id.
func (s *Session) NewJoin(compute JoinFunc, tempVarCount int) Join {
	tempVars := make([]string, tempVarCount)
	for i := range tempVars {
		tempVars[i] = s.FreshID()
	}
	return Join{Compute: compute, TempVars: tempVars, UID: uuid.NewString()}
}

// Collect materializes e, renders it, and executes it, returning every
// record's value.
func (s *Session) Collect(ctx context.Context, e *Expression) ([]any, error) {
	if s.engine == nil {
		return nil, fmt.Errorf("session has no engine")
	}
	name := s.FreshID()
	node, err := Materialize(e, name, s)
	if err != nil {
		return nil, err
	}
	text, err := ir.NewRenderer().Render(node)
	if err != nil {
		return nil, err
	}
	rows, err := s.engine.Execute(ctx, text)
	if err != nil {
		return nil, err
	}
	out := make([]any, len(rows))
	for i, row := range rows {
		out[i] = row[name]
	}
	return out, nil
}

// Take returns the first n collected values.
func (s *Session) Take(ctx context.Context, e *Expression, n int) ([]any, error) {
	values, err := s.Collect(ctx, e)
	if err != nil {
		return nil, err
	}
	if len(values) > n {
		values = values[:n]
	}
	return values, nil
}

// Eval evaluates a zero-axis expression to its single value.
func (s *Session) Eval(ctx context.Context, e *Expression) (any, error) {
	if e.indices.Axes.Len() != 0 {
		return nil, fmt.Errorf("eval requires a zero-axis expression, got axes %s: %w",
			e.indices.Axes, gridql.ErrTypeMismatch)
	}
	values, err := s.Collect(ctx, e)
	if err != nil {
		return nil, err
	}
	if len(values) != 1 {
		return nil, fmt.Errorf("eval expected one record, engine returned %d", len(values))
	}
	return values[0], nil
}

// Describe summarizes an expression's type, source, axes, and pending
// aggregation/join dependencies.
func Describe(e *Expression) string {
	s := fmt.Sprintf("Type:\n    %s\nSource:\n    %s\nAxes:\n    %s\n",
		e.typ, sourceName(e.indices.Source), e.indices.Axes)
	if !e.aggregations.Empty() {
		agg := NewAxes()
		for _, a := range e.aggregations.Values() {
			agg = agg.Union(a.Indices.Axes)
		}
		s += fmt.Sprintf("Includes aggregation with axes %s\n", agg)
	}
	if n := e.joins.Len(); n > 0 {
		word := "joins"
		if n == 1 {
			word = "join"
		}
		s += fmt.Sprintf("Depends on %d %s\n", n, word)
	}
	return s
}
