package urlqueue

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFIFOOrder(t *testing.T) {
	f := New()
	f.Push(Record{URL: "a", Depth: 0})
	f.Push(Record{URL: "b", Depth: 1})

	rec, ok := f.Pop()
	require.True(t, ok)
	require.Equal(t, "a", rec.URL)

	rec, ok = f.Pop()
	require.True(t, ok)
	require.Equal(t, "b", rec.URL)

	_, ok = f.Pop()
	require.False(t, ok)
}

func TestEmpty(t *testing.T) {
	f := New()
	require.True(t, f.Empty())
	f.Push(Record{URL: "x"})
	require.False(t, f.Empty())
	require.Equal(t, 1, f.Len())
}
