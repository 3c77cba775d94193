package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadWithNoConfigFileReturnsDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	opts, err := Load(nil)
	require.NoError(t, err)
	require.Equal(t, Default(), opts)
}

func TestLoadMergesConfigFileOverDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	dir := filepath.Join(home, ".netwasabi")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	xmlDoc := `<netwasabi>
		<max_depth>3</max_depth>
		<cross_domain>true</cross_domain>
		<start_url>http://example.test/</start_url>
	</netwasabi>`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.xml"), []byte(xmlDoc), 0o644))

	opts, err := Load(nil)
	require.NoError(t, err)
	require.Equal(t, 3, opts.MaxDepth)
	require.True(t, opts.CrossDomain)
	require.Equal(t, "http://example.test/", opts.StartURL)
	// Fields absent from the file keep their Default() value.
	require.Equal(t, Default().Workers, opts.Workers)
}

func TestConfigPathUnderDotDir(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	path, err := ConfigPath()
	require.NoError(t, err)
	require.Equal(t, filepath.Join(home, ".netwasabi", "config.xml"), path)
}
