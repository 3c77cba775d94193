// Package netconn implements the crawler's connection abstraction: a
// dialed socket plus the read and write buffers every HTTP transaction
// consumes, with an in-place upgrade path from plaintext to TLS.
package netconn

import (
	"context"
	"crypto/tls"
	"net"
	"time"

	"github.com/gamh86/netwasabi/internal/errs"
	"github.com/gamh86/netwasabi/internal/netbuf"
)

// State models the connection lifecycle.
type State int

const (
	StateClosed State = iota
	StateOpen
	StateTLS
)

// Connection wraps a dialed net.Conn, upgrading in place to TLS, alongside
// the read/write buffers every HTTP transaction consumes.
type Connection struct {
	conn  net.Conn
	host  string
	port  string
	state State

	Read  *netbuf.Buffer
	Write *netbuf.Buffer
}

// Dial opens a plaintext TCP connection to host:port.
func Dial(ctx context.Context, host, port string) (*Connection, error) {
	d := net.Dialer{Timeout: 10 * time.Second}
	conn, err := d.DialContext(ctx, "tcp", net.JoinHostPort(host, port))
	if err != nil {
		return nil, errs.Wrap(errs.TransportError, "dial failed", err)
	}
	return &Connection{
		conn:  conn,
		host:  host,
		port:  port,
		state: StateOpen,
		Read:  netbuf.New(netbuf.DefaultSize),
		Write: netbuf.New(netbuf.DefaultSize),
	}, nil
}

// DialTLS opens a TCP connection and immediately performs the TLS
// handshake.
func DialTLS(ctx context.Context, host, port string, cfg *tls.Config) (*Connection, error) {
	d := tls.Dialer{NetDialer: &net.Dialer{Timeout: 10 * time.Second}, Config: cfg}
	conn, err := d.DialContext(ctx, "tcp", net.JoinHostPort(host, port))
	if err != nil {
		return nil, errs.Wrap(errs.TransportError, "tls dial failed", err)
	}
	return &Connection{
		conn:  conn,
		host:  host,
		port:  port,
		state: StateTLS,
		Read:  netbuf.New(netbuf.DefaultSize),
		Write: netbuf.New(netbuf.DefaultSize),
	}, nil
}

// SwitchToTLS upgrades an open plaintext connection to TLS in place,
// handshaking over the existing socket. Legal only from StateOpen; the
// read and write buffers are preserved across the upgrade.
func (c *Connection) SwitchToTLS(ctx context.Context, cfg *tls.Config) error {
	if c.state != StateOpen {
		return errs.New(errs.TransportError, "tls upgrade requires an open plaintext connection")
	}
	if cfg == nil {
		cfg = &tls.Config{}
	}
	if cfg.ServerName == "" {
		cloned := cfg.Clone()
		cloned.ServerName = c.host
		cfg = cloned
	}

	tlsConn := tls.Client(c.conn, cfg)
	if err := tlsConn.HandshakeContext(ctx); err != nil {
		return errs.Wrap(errs.TransportError, "tls handshake failed", err)
	}
	c.conn = tlsConn
	c.state = StateTLS
	return nil
}

// Host returns the remote host this connection was dialed against.
func (c *Connection) Host() string { return c.host }

// UsingTLS reports whether the session is TLS-wrapped.
func (c *Connection) UsingTLS() bool { return c.state == StateTLS }

// Fill reads up to n bytes from the wire into the read buffer.
func (c *Connection) Fill(n int) (int, error) {
	if err := c.deadline(); err != nil {
		return 0, err
	}
	return c.Read.ReadFrom(c.conn, n)
}

// Flush writes the full write buffer to the wire.
func (c *Connection) Flush() (int, error) {
	if err := c.deadline(); err != nil {
		return 0, err
	}
	return c.Write.WriteTo(c.conn)
}

func (c *Connection) deadline() error {
	if err := c.conn.SetDeadline(time.Now().Add(30 * time.Second)); err != nil {
		return errs.Wrap(errs.TransportError, "set deadline failed", err)
	}
	return nil
}

// Close releases the underlying socket. Safe to call more than once.
func (c *Connection) Close() error {
	if c.state == StateClosed {
		return nil
	}
	c.state = StateClosed
	return c.conn.Close()
}
