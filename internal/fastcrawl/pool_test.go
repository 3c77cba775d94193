package fastcrawl

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPoolDrainsSharedFrontier(t *testing.T) {
	graph := map[string][]string{
		"a": {"b", "c"},
		"b": {"d"},
		"c": {"d"},
		"d": {},
	}
	fetch := func(ctx context.Context, url string) ([]string, error) {
		return graph[url], nil
	}
	policy := func(candidate string, depth int) bool { return depth <= 3 }

	p := New("a", 3, 4, fetch, policy)
	require.NoError(t, p.Run(context.Background()))
	require.Equal(t, 4, p.Archive().Len())
}

func TestPoolRespectsMaxDepth(t *testing.T) {
	graph := map[string][]string{
		"a": {"b"},
		"b": {"c"},
	}
	fetch := func(ctx context.Context, url string) ([]string, error) {
		return graph[url], nil
	}
	policy := func(candidate string, depth int) bool { return true }

	p := New("a", 0, 2, fetch, policy)
	require.NoError(t, p.Run(context.Background()))
	require.True(t, p.Archive().Contains("a"))
	require.False(t, p.Archive().Contains("b"))
}
