package errs

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWrapPreservesChain(t *testing.T) {
	parent := errors.New("dial refused")
	err := Wrap(TransportError, "dial failed", parent)

	require.Equal(t, TransportError, err.Code())
	require.ErrorIs(t, err, parent)
	require.Contains(t, err.Error(), "dial refused")
}

func TestHasCodeAndGetCode(t *testing.T) {
	err := New(ProtocolError, "bad status line")
	require.True(t, HasCode(err, ProtocolError))
	require.False(t, HasCode(err, TransportError))
	require.Equal(t, ProtocolError, GetCode(err))
	require.Equal(t, Unset, GetCode(errors.New("plain")))
}

func TestIsMatchesByCode(t *testing.T) {
	a := New(PolicyDrop, "blacklisted")
	b := New(PolicyDrop, "depth exceeded")
	require.True(t, errors.Is(a, b))
}
