package objpool

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetPutReusesSlots(t *testing.T) {
	resets := 0
	p := New(2, func() int { return 0 }, func(v *int) { *v = 0; resets++ })

	i1, v1, err := p.Get()
	require.NoError(t, err)
	*v1 = 42

	_, _, err = p.Get()
	require.NoError(t, err)

	_, _, err = p.Get()
	require.Error(t, err)

	p.Put(i1)
	require.Equal(t, 1, resets)

	idx, v, err := p.Get()
	require.NoError(t, err)
	require.Equal(t, i1, idx)
	require.Equal(t, 0, *v)
}

func TestInUse(t *testing.T) {
	p := New(3, func() int { return 0 }, nil)
	require.Equal(t, 0, p.InUse())
	idx, _, _ := p.Get()
	require.Equal(t, 1, p.InUse())
	p.Put(idx)
	require.Equal(t, 0, p.InUse())
}
