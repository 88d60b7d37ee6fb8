package gridql

// UnifyTypesLimited unifies types without descending into containers.
// All identical types unify to themselves; otherwise an all-numeric set
// unifies up the promotion lattice (float64 over float32 over integers,
// {int32, int64} to int64). The second result is false when no
// unification exists; that is a probe outcome, not an error.
func UnifyTypesLimited(types ...Type) (Type, bool) {
	if len(types) == 0 {
		return nil, false
	}
	first := types[0]
	identical := true
	allNumeric := IsNumeric(first)
	for _, t := range types[1:] {
		if !t.Equal(first) {
			identical = false
		}
		if !IsNumeric(t) {
			allNumeric = false
		}
	}
	if identical {
		return first, true
	}
	if !allNumeric {
		return nil, false
	}
	var hasFloat64, hasFloat32 bool
	for _, t := range types {
		switch t.Kind() {
		case Float64Kind:
			hasFloat64 = true
		case Float32Kind:
			hasFloat32 = true
		}
	}
	switch {
	case hasFloat64:
		return TFloat64, true
	case hasFloat32:
		return TFloat32, true
	default:
		// non-identical integers can only be {int32, int64}
		return TInt64, true
	}
}

// UnifyTypes is UnifyTypesLimited extended with one level of container
// inference: an all-array set unifies to an array of the unified element
// type.
func UnifyTypes(types ...Type) (Type, bool) {
	if t, ok := UnifyTypesLimited(types...); ok {
		return t, true
	}
	elems := make([]Type, len(types))
	for i, t := range types {
		at, ok := t.(*ArrayType)
		if !ok {
			return nil, false
		}
		elems[i] = at.Elem
	}
	elem, ok := UnifyTypesLimited(elems...)
	if !ok {
		return nil, false
	}
	return TArray(elem), true
}
