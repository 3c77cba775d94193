package httpx

import (
	"context"
	"crypto/tls"
	"net/url"

	"github.com/gamh86/netwasabi/internal/netconn"
)

// Dialer opens a Connection for a target URL. Implementations choose the
// transport; the transaction layer stays polymorphic over it.
type Dialer interface {
	Dial(ctx context.Context, u *url.URL) (*netconn.Connection, error)
}

// DefaultDialer selects plaintext or TLS per URL scheme and default port,
// using TLSConfig (nil is valid and falls back to Go's TLS defaults) for any
// https:// target.
type DefaultDialer struct {
	TLSConfig *tls.Config
}

func (d DefaultDialer) Dial(ctx context.Context, u *url.URL) (*netconn.Connection, error) {
	host := u.Hostname()
	port := u.Port()

	if u.Scheme == "https" {
		if port == "" {
			port = "443"
		}
		return netconn.DialTLS(ctx, host, port, d.TLSConfig)
	}

	if port == "" {
		port = "80"
	}
	return netconn.Dial(ctx, host, port)
}
