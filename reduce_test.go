package graph

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReduceFirstReducerPreservesFirstOccurrenceOrder(t *testing.T) {
	// Universal property 2: Reduce(FirstReducer, keys) on sorted input
	// yields one row per distinct key tuple, in input order of first
	// occurrence.
	rows := []Row{
		{"k": "a", "v": int64(1)},
		{"k": "a", "v": int64(2)},
		{"k": "b", "v": int64(3)},
		{"k": "c", "v": int64(4)},
	}
	out, err := collect(Reduce(newSliceStream(rows), []string{"k"}, FirstReducer()))
	require.NoError(t, err)
	require.Equal(t, []Row{
		{"k": "a", "v": int64(1)},
		{"k": "b", "v": int64(3)},
		{"k": "c", "v": int64(4)},
	}, out)
}

func TestReduceCount(t *testing.T) {
	rows := []Row{
		{"k": "a"}, {"k": "a"}, {"k": "b"},
	}
	out, err := collect(Reduce(newSliceStream(rows), []string{"k"}, Count("n")))
	require.NoError(t, err)
	require.Equal(t, []Row{
		{"k": "a", "n": int64(2)},
		{"k": "b", "n": int64(1)},
	}, out)
}

func TestReduceEmptyKeyGroupsWholeStream(t *testing.T) {
	rows := []Row{{"v": int64(1)}, {"v": int64(2)}, {"v": int64(3)}}
	out, err := collect(Reduce(newSliceStream(rows), nil, Count("n")))
	require.NoError(t, err)
	require.Equal(t, []Row{{"n": int64(3)}}, out)
}

func TestReduceSum(t *testing.T) {
	rows := []Row{{"k": "a", "v": int64(1)}, {"k": "a", "v": 2.5}}
	out, err := collect(Reduce(newSliceStream(rows), []string{"k"}, Sum("v")))
	require.NoError(t, err)
	require.InDelta(t, 3.5, out[0]["v"], 1e-9)
}

func TestReduceMean(t *testing.T) {
	rows := []Row{{"k": "a", "v": int64(2)}, {"k": "a", "v": int64(4)}}
	out, err := collect(Reduce(newSliceStream(rows), []string{"k"}, Mean("v", "avg")))
	require.NoError(t, err)
	require.InDelta(t, 3.0, out[0]["avg"], 1e-9)
}

func TestTermFrequency(t *testing.T) {
	rows := []Row{
		{"doc_id": int64(1), "word": "a"},
		{"doc_id": int64(1), "word": "a"},
		{"doc_id": int64(1), "word": "b"},
	}
	out, err := collect(Reduce(newSliceStream(rows), []string{"doc_id"}, TermFrequency("word", "tf")))
	require.NoError(t, err)
	require.Len(t, out, 2)
	byWord := map[string]float64{}
	for _, r := range out {
		byWord[r["word"].(string)] = r["tf"].(float64)
	}
	require.InDelta(t, 2.0/3.0, byWord["a"], 1e-9)
	require.InDelta(t, 1.0/3.0, byWord["b"], 1e-9)
}

func TestTopN(t *testing.T) {
	rows := []Row{
		{"v": 1.0}, {"v": 5.0}, {"v": 3.0}, {"v": 4.0}, {"v": 2.0},
	}
	out, err := collect(Reduce(newSliceStream(rows), nil, TopN("v", 3)))
	require.NoError(t, err)
	require.Len(t, out, 3)
	require.Equal(t, 5.0, out[0]["v"])
	require.Equal(t, 4.0, out[1]["v"])
	require.Equal(t, 3.0, out[2]["v"])
}

func TestTopNTieBreaksByFirstSeen(t *testing.T) {
	rows := []Row{
		{"id": int64(1), "v": 2.0},
		{"id": int64(2), "v": 2.0},
		{"id": int64(3), "v": 2.0},
	}
	out, err := collect(Reduce(newSliceStream(rows), nil, TopN("v", 2)))
	require.NoError(t, err)
	require.Len(t, out, 2)
	require.Equal(t, int64(1), out[0]["id"])
	require.Equal(t, int64(2), out[1]["id"])
}

func TestReduceDetectsOrderingViolation(t *testing.T) {
	rows := []Row{{"k": "b"}, {"k": "a"}}
	_, err := collect(Reduce(newSliceStream(rows), []string{"k"}, Count("n")))
	require.ErrorIs(t, err, ErrOrdering)
}
