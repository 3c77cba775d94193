package scheduler

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

// linkGraph simulates a fetch as a lookup in a fixed adjacency map, keeping
// the test independent of any real network access.
func linkGraph(graph map[string][]string) Fetcher {
	return func(ctx context.Context, url string) ([]string, error) {
		return graph[url], nil
	}
}

func allow(candidate string, depth int) bool { return depth <= 2 }

func TestSchedulerDrainsLayersInOrder(t *testing.T) {
	graph := map[string][]string{
		"a": {"b", "c"},
		"b": {"d"},
		"c": {"d"},
		"d": {},
	}

	var depths []int
	s := New("a", 2, 0, linkGraph(graph), allow)
	s.OnProgress = func(depth, drainRemaining, fillSize int) {
		depths = append(depths, depth)
	}

	err := s.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 4, s.Archive().Len()) // a, b, c, d all fall within max depth 2
	// one report per fetch plus one per layer swap, never going back a layer
	require.Equal(t, []int{0, 1, 1, 1, 2, 2}, depths)
}

func TestSchedulerRespectsMaxDepth(t *testing.T) {
	graph := map[string][]string{
		"a": {"b"},
		"b": {"c"},
		"c": {"d"},
	}
	s := New("a", 1, 0, linkGraph(graph), func(string, int) bool { return true })
	require.NoError(t, s.Run(context.Background()))
	require.True(t, s.Archive().Contains("b"))
	require.False(t, s.Archive().Contains("c"))
}

func TestSchedulerCacheThresholdBoundsFillPool(t *testing.T) {
	graph := map[string][]string{
		"a": {"b", "c", "d", "e"},
	}
	s := New("a", 5, 2, linkGraph(graph), func(string, int) bool { return true })
	require.NoError(t, s.Run(context.Background()))
	require.LessOrEqual(t, s.Archive().Len(), 3) // a + at most 2 admitted under the threshold
}
