package gridql

import "errors"

// Common errors used throughout the gridql package
var (
	// Type imputation errors

	// ErrNullValue is returned when a type must be imputed from a nil value.
	ErrNullValue = errors.New("cannot impute type of null")
	// ErrEmptyContainer is returned when a container literal has no elements to impute from.
	ErrEmptyContainer = errors.New("cannot impute type of empty container")
	// ErrHeterogeneous indicates container elements whose types have no unification.
	ErrHeterogeneous = errors.New("heterogeneous container elements")
	// ErrIntegerRange indicates an integer literal too large for any integer type.
	ErrIntegerRange = errors.New("no integer type is large enough to store value")
	// ErrUnimputable indicates a native value of a shape with no corresponding type.
	ErrUnimputable = errors.New("cannot impute type")

	// Expression building errors

	// ErrTypeMismatch indicates an expression did not have the type a context required.
	ErrTypeMismatch = errors.New("type mismatch")
	// ErrIncomparableTypes indicates an equality comparison between types with no unification.
	ErrIncomparableTypes = errors.New("cannot compare expressions of incompatible types")
	// ErrNoTotalOrder indicates an ordering comparison; expressions have no total order.
	ErrNoTotalOrder = errors.New("expressions have no total order")
	// ErrNoTruthValue indicates an expression was used where a concrete boolean is required.
	ErrNoTruthValue = errors.New("the truth value of an expression is undefined")
	// ErrNotIterable indicates an attempt to iterate an expression without materializing it.
	ErrNotIterable = errors.New("expressions are not iterable")
	// ErrNoLength indicates a static length query on an expression.
	ErrNoLength = errors.New("expressions have no static length")
	// ErrSliceStep indicates a slice with an explicit step, which is unsupported.
	ErrSliceStep = errors.New("variable slice step is not supported")

	// Lineage errors

	// ErrSourceMismatch indicates an attempt to combine expressions from different sources.
	ErrSourceMismatch = errors.New("cannot combine expressions from different source objects")
	// ErrAggregatedExpression indicates a pending aggregation context on the generic
	// materialization path; aggregations must be resolved separately.
	ErrAggregatedExpression = errors.New("cannot materialize an aggregated expression: resolve the aggregation separately")

	// Configuration errors

	// ErrConfigValidation is returned when reader configuration validation fails.
	ErrConfigValidation = errors.New("reader configuration validation failed")
	// ErrUnknownReader indicates an unrecognized reader kind in a configuration file.
	ErrUnknownReader = errors.New("unknown reader kind")
)
