// Package tlsconfig builds a *tls.Config from user-facing options,
// validating them first: minimum TLS version, whether to verify the peer
// certificate, and the server name. The CLI sets only the minimum version
// (--tls-min-version).
package tlsconfig

import (
	"crypto/tls"

	"github.com/go-playground/validator/v10"

	"github.com/gamh86/netwasabi/internal/errs"
)

// Options is the user-tunable TLS surface.
type Options struct {
	MinVersion         string `validate:"omitempty,oneof=1.0 1.1 1.2 1.3"`
	InsecureSkipVerify bool
	ServerName         string `validate:"omitempty,hostname_rfc1123"`
}

var versions = map[string]uint16{
	"1.0": tls.VersionTLS10,
	"1.1": tls.VersionTLS11,
	"1.2": tls.VersionTLS12,
	"1.3": tls.VersionTLS13,
}

// Build validates opts and returns the resulting *tls.Config.
func Build(opts Options) (*tls.Config, error) {
	v := validator.New()
	if err := v.Struct(opts); err != nil {
		return nil, errs.Wrap(errs.ConfigError, "invalid tls options", err)
	}

	cfg := &tls.Config{
		MinVersion:         tls.VersionTLS12,
		InsecureSkipVerify: opts.InsecureSkipVerify,
		ServerName:         opts.ServerName,
	}
	if opts.MinVersion != "" {
		cfg.MinVersion = versions[opts.MinVersion]
	}
	return cfg, nil
}
