package graph

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRowMustGetMissing(t *testing.T) {
	r := Row{"a": int64(1)}
	_, err := r.MustGet("test", "b")
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrField))
}

func TestRowClone(t *testing.T) {
	r := Row{"a": int64(1)}
	c := r.Clone()
	c["a"] = int64(2)
	require.Equal(t, int64(1), r["a"])
	require.Equal(t, int64(2), c["a"])
}

func TestRowMerge(t *testing.T) {
	r := Row{"a": int64(1), "b": int64(2)}
	m := r.Merge(Row{"b": int64(3), "c": int64(4)})
	require.Equal(t, Row{"a": int64(1), "b": int64(3), "c": int64(4)}, m)
	// r itself is unchanged.
	require.Equal(t, Row{"a": int64(1), "b": int64(2)}, r)
}

func TestRowProject(t *testing.T) {
	r := Row{"a": int64(1), "b": int64(2), "c": int64(3)}
	p, err := r.Project([]string{"a", "c"})
	require.NoError(t, err)
	require.Equal(t, Row{"a": int64(1), "c": int64(3)}, p)

	_, err = r.Project([]string{"z"})
	require.Error(t, err)
}

func TestKeyTuple(t *testing.T) {
	r := Row{"a": int64(1), "b": "x"}
	tuple, err := keyTuple(r, []string{"b", "a"})
	require.NoError(t, err)
	require.Equal(t, []any{"x", int64(1)}, tuple)

	empty, err := keyTuple(r, nil)
	require.NoError(t, err)
	require.Empty(t, empty)
}

func TestPointLonLat(t *testing.T) {
	p := Point{37.5, 55.7}
	require.Equal(t, 37.5, p.Lon())
	require.Equal(t, 55.7, p.Lat())
}
