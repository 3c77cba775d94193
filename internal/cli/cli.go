// Package cli builds the crawler's cobra command: one root command whose
// flags override whatever the config file seeded, validated before the
// crawl starts.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/gamh86/netwasabi/internal/config"
	"github.com/gamh86/netwasabi/internal/errs"
)

// MaxCrawlDelay bounds --crawl-delay; anything at or above it is rejected
// as a configuration error rather than silently honoured.
const MaxCrawlDelay = 3600

// Build returns the root command; run is invoked once flags are parsed and
// merged into opts.
func Build(opts *config.Options, run func(*config.Options) error) *cobra.Command {
	noThreshold := false

	cmd := &cobra.Command{
		Use:   "netwasabi [start-url]",
		Short: "A breadth-first web crawler",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				opts.StartURL = args[0]
			}
			if noThreshold {
				opts.CacheSetThreshold = 0
			}
			if opts.CrawlDelay < 0 || opts.CrawlDelay >= MaxCrawlDelay {
				return errs.Newf(errs.ConfigError, "crawl delay must be in [0, %d)", MaxCrawlDelay)
			}
			if opts.MaxDepth <= 0 {
				return errs.New(errs.ConfigError, "depth must be positive")
			}
			if opts.CacheSetThreshold < 0 {
				return errs.New(errs.ConfigError, "cache threshold must not be negative")
			}
			return run(opts)
		},
	}

	flags := cmd.Flags()
	flags.IntVarP(&opts.MaxDepth, "depth", "D", opts.MaxDepth, "maximum crawl depth")
	flags.BoolVar(&opts.FastMode, "fast-mode", opts.FastMode, "enable the concurrent worker pool; overrides crawl delay to 0")
	flags.IntVarP(&opts.Workers, "workers", "w", opts.Workers, "fast-mode worker count")
	flags.IntVar(&opts.CacheSetThreshold, "cache-set-threshold", opts.CacheSetThreshold, "max URLs buffered in the fill cache before inserts drop (0 = unbounded)")
	flags.BoolVar(&noThreshold, "cache-no-threshold", false, "disable the fill-cache threshold entirely, overriding --cache-set-threshold")
	flags.BoolVarP(&opts.CrossDomain, "xdomain", "X", opts.CrossDomain, "follow links whose host differs from the seed's host")
	flags.BoolVarP(&opts.UseTLS, "tls", "T", opts.UseTLS, "use HTTPS for the seed URL")
	flags.StringVar(&opts.TLSMinVersion, "tls-min-version", opts.TLSMinVersion, "minimum TLS version (1.0-1.3)")
	flags.IntVar(&opts.CrawlDelay, "crawl-delay", opts.CrawlDelay, "seconds to sleep between fetches in sequential mode")
	flags.StringVarP(&opts.Blacklist, "blacklist", "B", opts.Blacklist, "comma-separated substrings; matching URLs are dropped")
	flags.StringVar(&opts.LogLevel, "log-level", opts.LogLevel, "debug, info, warn or error")
	flags.StringVar(&opts.MetricsAddr, "metrics-addr", opts.MetricsAddr, "address to serve Prometheus metrics on (empty disables)")

	return cmd
}
