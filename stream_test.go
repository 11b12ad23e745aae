package graph

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSliceStreamDrains(t *testing.T) {
	rows := []Row{{"a": int64(1)}, {"a": int64(2)}}
	s := newSliceStream(rows)

	got, err := collect(s)
	require.NoError(t, err)
	require.Equal(t, rows, got)
}

func TestCollectClosesOnError(t *testing.T) {
	calls := 0
	boom := errors.New("boom")
	s := newFuncStream(func() (Row, bool, error) {
		return nil, false, boom
	}, func() error {
		calls++
		return nil
	})
	_, err := collect(s)
	require.ErrorIs(t, err, boom)
	require.Equal(t, 1, calls)
}

func TestEmptyStream(t *testing.T) {
	var s Stream = emptyStream{}
	_, ok, err := s.Next()
	require.NoError(t, err)
	require.False(t, ok)
	require.NoError(t, s.Close())
}
