package archive

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAddIsIdempotent(t *testing.T) {
	a := New()
	require.True(t, a.Add("http://example.com"))
	require.False(t, a.Add("http://example.com"))
	require.Equal(t, 1, a.Len())
	require.True(t, a.Contains("http://example.com"))
}

func TestWalkIsOrdered(t *testing.T) {
	a := New()
	a.Add("c")
	a.Add("a")
	a.Add("b")

	var seen []string
	a.Walk(func(url string) bool {
		seen = append(seen, url)
		return true
	})
	require.Equal(t, []string{"a", "b", "c"}, seen)
}
