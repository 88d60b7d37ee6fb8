package gridql

import (
	"bytes"
	"encoding/json"
)

// MarshalJSON renders a Struct literal as a JSON object in field order.
func (s Struct) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, entry := range s {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(entry.Name)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(entry.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(name)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalJSON renders a Dict literal as an array of key/value pairs in
// entry order.
func (d Dict) MarshalJSON() ([]byte, error) {
	pairs := make([]map[string]any, len(d))
	for i, entry := range d {
		pairs[i] = map[string]any{"key": entry.Key, "value": entry.Value}
	}
	return json.Marshal(pairs)
}

// MarshalJSON renders a Locus literal.
func (l Locus) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]any{
		"contig":          l.Contig,
		"position":        l.Position,
		"referenceGenome": l.ReferenceGenome,
	})
}

// MarshalJSON renders a Call literal.
func (c Call) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]any{
		"alleles": c.Alleles,
		"phased":  c.Phased,
	})
}

// MarshalJSON renders an Interval literal.
func (i Interval) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]any{
		"start": i.Start,
		"end":   i.End,
	})
}
