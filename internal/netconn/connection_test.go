package netconn

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func echoListener(t *testing.T) net.Listener {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		buf := make([]byte, 1024)
		conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		n, _ := conn.Read(buf)
		conn.Write(buf[:n])
	}()
	return ln
}

func TestDialFlushFillRoundTrip(t *testing.T) {
	ln := echoListener(t)
	host, port, err := net.SplitHostPort(ln.Addr().String())
	require.NoError(t, err)

	c, err := Dial(context.Background(), host, port)
	require.NoError(t, err)
	defer c.Close()

	require.True(t, c.state == StateOpen)
	require.False(t, c.UsingTLS())

	require.NoError(t, c.Write.AppendString("ping"))
	n, err := c.Flush()
	require.NoError(t, err)
	require.Equal(t, 4, n)
	require.Equal(t, 0, c.Write.Len())

	_, err = c.Fill(4)
	require.NoError(t, err)
	require.Equal(t, "ping", string(c.Read.Bytes()))
}

func TestCloseIsIdempotent(t *testing.T) {
	ln := echoListener(t)
	host, port, err := net.SplitHostPort(ln.Addr().String())
	require.NoError(t, err)

	c, err := Dial(context.Background(), host, port)
	require.NoError(t, err)
	require.NoError(t, c.Close())
	require.NoError(t, c.Close())
}

func TestSwitchToTLSRequiresOpenPlaintext(t *testing.T) {
	ln := echoListener(t)
	host, port, err := net.SplitHostPort(ln.Addr().String())
	require.NoError(t, err)

	c, err := Dial(context.Background(), host, port)
	require.NoError(t, err)
	require.NoError(t, c.Close())

	err = c.SwitchToTLS(context.Background(), nil)
	require.Error(t, err)
}
