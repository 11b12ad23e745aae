// Copyright (c) 2011 Damian Gryski <damian@gryski.com>
// License: GPLv3 or, at your option, any later version

package graph

import (
	"math"
	"regexp"
	"strings"
)

// MapFunc is a pure function from one row to zero, one, or many rows
// (spec §4.2: "row -> sequence of rows"). The wrapper Map flat-maps a
// MapFunc across its upstream stream. The engine makes no assumption
// about a MapFunc beyond purity and single-argument call (Design
// Notes, "Caller-supplied functions").
type MapFunc func(Row) ([]Row, error)

// Map returns a stream that applies op to every row of upstream and
// concatenates the results in order.
func Map(upstream Stream, op MapFunc) Stream {
	var pending []Row
	next := func() (Row, bool, error) {
		for {
			if len(pending) > 0 {
				r := pending[0]
				pending = pending[1:]
				return r, true, nil
			}
			row, ok, err := upstream.Next()
			if err != nil {
				return nil, false, err
			}
			if !ok {
				return nil, false, nil
			}
			out, err := op(row)
			if err != nil {
				return nil, false, err
			}
			pending = out
		}
	}
	return newFuncStream(next, upstream.Close)
}

// UserMap wraps a caller-supplied row->rows function as a MapFunc. It
// exists as a named entry point matching spec §4.2's table; a MapFunc
// is already the "apply user function" shape.
func UserMap(f func(Row) ([]Row, error)) MapFunc {
	return MapFunc(f)
}

// punctuation is the fixed set FilterPunctuation strips: ASCII
// punctuation plus the Unicode curly quotation marks.
const punctuation = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~" + "“”‘’"

// FilterPunctuation removes every rune in the fixed punctuation set
// from the string at col.
func FilterPunctuation(col string) MapFunc {
	return func(r Row) ([]Row, error) {
		v, err := r.MustGet("FilterPunctuation", col)
		if err != nil {
			return nil, err
		}
		s, ok := v.(string)
		if !ok {
			return nil, fieldErr("FilterPunctuation", col)
		}
		s = strings.Map(func(ru rune) rune {
			if strings.ContainsRune(punctuation, ru) {
				return -1
			}
			return ru
		}, s)
		return []Row{r.Merge(Row{col: s})}, nil
	}
}

// LowerCase replaces col's string value with its lowercased form.
func LowerCase(col string) MapFunc {
	return func(r Row) ([]Row, error) {
		v, err := r.MustGet("LowerCase", col)
		if err != nil {
			return nil, err
		}
		s, ok := v.(string)
		if !ok {
			return nil, fieldErr("LowerCase", col)
		}
		return []Row{r.Merge(Row{col: strings.ToLower(s)})}, nil
	}
}

var defaultSplitSep = regexp.MustCompile(`\s+`)

// Split emits one row per fragment of row[col] split by sep (a regex;
// defaults to \s+ when sep is empty). Every other field is preserved
// on each emitted row. Empty fragments are permitted, matching the
// semantics of regexp.Split.
func Split(col, sep string) MapFunc {
	re := defaultSplitSep
	if sep != "" {
		re = regexp.MustCompile(sep)
	}
	return func(r Row) ([]Row, error) {
		v, err := r.MustGet("Split", col)
		if err != nil {
			return nil, err
		}
		s, ok := v.(string)
		if !ok {
			return nil, fieldErr("Split", col)
		}
		parts := re.Split(s, -1)
		out := make([]Row, len(parts))
		for i, p := range parts {
			out[i] = r.Merge(Row{col: p})
		}
		return out, nil
	}
}

// Project emits a row containing exactly the listed fields.
func Project(cols []string) MapFunc {
	return func(r Row) ([]Row, error) {
		out, err := r.Project(cols)
		if err != nil {
			return nil, err
		}
		return []Row{out}, nil
	}
}

// Filter emits the row iff predicate(row) is true.
func Filter(predicate func(Row) (bool, error)) MapFunc {
	return func(r Row) ([]Row, error) {
		ok, err := predicate(r)
		if err != nil {
			return nil, userFuncErr("Filter", err)
		}
		if !ok {
			return nil, nil
		}
		return []Row{r}, nil
	}
}

// Product sets row[out] to the arithmetic product of row[cols].
// Integer operands are widened to float64 before multiplying.
func Product(cols []string, out string) MapFunc {
	return func(r Row) ([]Row, error) {
		product := 1.0
		for _, c := range cols {
			v, err := r.MustGet("Product", c)
			if err != nil {
				return nil, err
			}
			f, err := toFloat(v)
			if err != nil {
				return nil, fieldErr("Product", c)
			}
			product *= f
		}
		return []Row{r.Merge(Row{out: product})}, nil
	}
}

// earthRadiusKM is the Earth radius used by Haversine (spec §4.2).
const earthRadiusKM = 6373.0

// Haversine sets row[out] to the great-circle distance in kilometres
// between the Points at startCol and endCol.
func Haversine(startCol, endCol, out string) MapFunc {
	return func(r Row) ([]Row, error) {
		start, err := asPoint(r, "Haversine", startCol)
		if err != nil {
			return nil, err
		}
		end, err := asPoint(r, "Haversine", endCol)
		if err != nil {
			return nil, err
		}

		lon1, lat1 := toRadians(start.Lon()), toRadians(start.Lat())
		lon2, lat2 := toRadians(end.Lon()), toRadians(end.Lat())

		dLat := lat2 - lat1
		dLon := lon2 - lon1

		h := sin2(dLat/2) + math.Cos(lat1)*math.Cos(lat2)*sin2(dLon/2)
		d := 2 * earthRadiusKM * math.Asin(math.Sqrt(h))

		return []Row{r.Merge(Row{out: d})}, nil
	}
}

func sin2(x float64) float64 {
	s := math.Sin(x)
	return s * s
}

func toRadians(deg float64) float64 { return deg * math.Pi / 180 }

func asPoint(r Row, op, col string) (Point, error) {
	v, err := r.MustGet(op, col)
	if err != nil {
		return Point{}, err
	}
	switch p := v.(type) {
	case Point:
		return p, nil
	case [2]float64:
		return Point(p), nil
	default:
		return Point{}, fieldErr(op, col)
	}
}

func toFloat(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case int64:
		return float64(n), nil
	case int:
		return float64(n), nil
	}
	return 0, ErrField
}
