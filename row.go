// Copyright (c) 2011 Damian Gryski <damian@gryski.com>
// License: GPLv3 or, at your option, any later version

package graph

// Row is a string-keyed, dynamically-typed mapping. Operators are
// generic across schemas, so there is no static per-pipeline row
// type; values are int64, float64, string, bool, Point, []any, or
// nested Row.
type Row map[string]any

// Point is a (longitude, latitude) pair in degrees, the value type
// Haversine consumes and produces.
type Point [2]float64

// Lon returns the point's longitude.
func (p Point) Lon() float64 { return p[0] }

// Lat returns the point's latitude.
func (p Point) Lat() float64 { return p[1] }

// Get returns row[field] and whether it was present.
func (r Row) Get(field string) (any, bool) {
	v, ok := r[field]
	return v, ok
}

// MustGet returns row[field] or a FieldError naming op as the
// requesting operator.
func (r Row) MustGet(op, field string) (any, error) {
	v, ok := r[field]
	if !ok {
		return nil, fieldErr(op, field)
	}
	return v, nil
}

// Clone returns a shallow copy of r. Operators that mutate a row must
// clone it first unless they own the only reference (spec §3:
// "downstream operators may mutate received rows freely only if they
// own the copy").
func (r Row) Clone() Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Merge returns a new row containing all fields of r overlaid with
// fields, which take precedence on key collision. Map operators build
// their output rows this way; Join uses combineRows instead.
func (r Row) Merge(fields Row) Row {
	out := make(Row, len(r)+len(fields))
	for k, v := range r {
		out[k] = v
	}
	for k, v := range fields {
		out[k] = v
	}
	return out
}

// Project returns a new row containing only the named fields.
func (r Row) Project(cols []string) (Row, error) {
	out := make(Row, len(cols))
	for _, c := range cols {
		v, err := r.MustGet("project", c)
		if err != nil {
			return nil, err
		}
		out[c] = v
	}
	return out, nil
}

// keyTuple returns the ordered values of r for the given field names,
// the grouping/sort key value of the row (spec §3).
func keyTuple(r Row, keys []string) ([]any, error) {
	tuple := make([]any, len(keys))
	for i, k := range keys {
		v, err := r.MustGet("key", k)
		if err != nil {
			return nil, err
		}
		tuple[i] = v
	}
	return tuple, nil
}
