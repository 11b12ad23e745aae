package graph

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func identity() MapFunc {
	return func(r Row) ([]Row, error) { return []Row{r}, nil }
}

func genRows(rows []Row) Generator {
	return func() Stream { return newSliceStream(rows) }
}

func TestGraphIdentity(t *testing.T) {
	// Universal property 1.
	rows := []Row{{"a": int64(1)}, {"a": int64(2)}}
	g := FromIter("in").Map(identity())
	out, err := g.Run(Inputs{"in": genRows(rows)})
	require.NoError(t, err)
	got, err := collect(out)
	require.NoError(t, err)
	require.Equal(t, rows, got)
}

func TestGraphBuilderImmutability(t *testing.T) {
	// Universal property 7: g1.Run is unaffected by building g2 off it.
	rows := []Row{{"a": int64(1)}}
	g1 := FromIter("in")
	g2 := g1.Map(UserMap(func(r Row) ([]Row, error) {
		return []Row{r.Merge(Row{"a": int64(99)})}, nil
	}))

	out1, err := g1.Run(Inputs{"in": genRows(rows)})
	require.NoError(t, err)
	got1, err := collect(out1)
	require.NoError(t, err)
	require.Equal(t, rows, got1)

	out2, err := g2.Run(Inputs{"in": genRows(rows)})
	require.NoError(t, err)
	got2, err := collect(out2)
	require.NoError(t, err)
	require.Equal(t, int64(99), got2[0]["a"])
}

func TestGraphBranchReuse(t *testing.T) {
	// Universal property 8: a graph that joins a prefix against itself
	// via two bijective map branches produces one row per source row.
	rows := []Row{{"id": int64(1)}, {"id": int64(2)}, {"id": int64(3)}}
	prefix := FromIter("in")

	left := prefix.Map(UserMap(func(r Row) ([]Row, error) {
		return []Row{r.Merge(Row{"tag": "left"})}, nil
	}))
	right := prefix.Map(UserMap(func(r Row) ([]Row, error) {
		return []Row{r.Merge(Row{"tag": "right"})}, nil
	}))

	joined := left.Sort([]string{"id"}).Join(right.Sort([]string{"id"}), InnerJoiner(), []string{"id"})

	out, err := joined.Run(Inputs{"in": genRows(rows)})
	require.NoError(t, err)
	got, err := collect(out)
	require.NoError(t, err)
	require.Len(t, got, len(rows))
}

func TestGraphRunIsRepeatable(t *testing.T) {
	rows := []Row{{"a": int64(1)}, {"a": int64(2)}}
	g := FromIter("in").Map(identity())
	for i := 0; i < 2; i++ {
		out, err := g.Run(Inputs{"in": genRows(rows)})
		require.NoError(t, err)
		got, err := collect(out)
		require.NoError(t, err)
		require.Equal(t, rows, got)
	}
}

func TestGraphMissingBinding(t *testing.T) {
	g := FromIter("in")
	_, err := g.Run(Inputs{})
	require.ErrorIs(t, err, ErrBinding)
}
