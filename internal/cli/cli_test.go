package cli

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gamh86/netwasabi/internal/config"
	"github.com/gamh86/netwasabi/internal/errs"
)

func TestFlagsOverrideDefaults(t *testing.T) {
	opts := config.Default()
	var captured config.Options

	cmd := Build(&opts, func(o *config.Options) error {
		captured = *o
		return nil
	})

	cmd.SetArgs([]string{
		"http://example.test/",
		"--depth", "2",
		"--xdomain",
		"--cache-set-threshold", "7",
		"--cache-no-threshold",
	})

	require.NoError(t, cmd.Execute())
	require.Equal(t, "http://example.test/", captured.StartURL)
	require.Equal(t, 2, captured.MaxDepth)
	require.True(t, captured.CrossDomain)
	// --cache-no-threshold wins over --cache-set-threshold regardless of
	// flag order.
	require.Equal(t, 0, captured.CacheSetThreshold)
}

func TestCacheSetThresholdWithoutNoThresholdFlag(t *testing.T) {
	opts := config.Default()
	var captured config.Options

	cmd := Build(&opts, func(o *config.Options) error {
		captured = *o
		return nil
	})
	cmd.SetArgs([]string{"http://example.test/", "--cache-set-threshold", "4"})

	require.NoError(t, cmd.Execute())
	require.Equal(t, 4, captured.CacheSetThreshold)
}

func TestInvalidCrawlDelayIsConfigError(t *testing.T) {
	opts := config.Default()
	cmd := Build(&opts, func(*config.Options) error { return nil })
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true
	cmd.SetArgs([]string{"http://example.test/", "--crawl-delay", "99999"})
	err := cmd.Execute()
	require.Error(t, err)
	require.True(t, errs.HasCode(err, errs.ConfigError))
}

func TestShortFlagSpellings(t *testing.T) {
	opts := config.Default()
	var captured config.Options
	cmd := Build(&opts, func(o *config.Options) error {
		captured = *o
		return nil
	})
	cmd.SetArgs([]string{"http://example.test/", "-D", "3", "-T", "-X", "-B", "ads,tracker"})

	require.NoError(t, cmd.Execute())
	require.Equal(t, 3, captured.MaxDepth)
	require.True(t, captured.UseTLS)
	require.True(t, captured.CrossDomain)
	require.Equal(t, "ads,tracker", captured.Blacklist)
}
