package tlsconfig

import (
	"crypto/tls"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildDefaultsToTLS12(t *testing.T) {
	cfg, err := Build(Options{})
	require.NoError(t, err)
	require.Equal(t, uint16(tls.VersionTLS12), cfg.MinVersion)
}

func TestBuildHonorsMinVersion(t *testing.T) {
	cfg, err := Build(Options{MinVersion: "1.3"})
	require.NoError(t, err)
	require.Equal(t, uint16(tls.VersionTLS13), cfg.MinVersion)
}

func TestBuildRejectsInvalidVersion(t *testing.T) {
	_, err := Build(Options{MinVersion: "9.9"})
	require.Error(t, err)
}
