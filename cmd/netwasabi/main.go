// Command netwasabi is a breadth-first web crawler. It prints a startup
// banner, loads ${HOME}/.netwasabi/config.xml as default options, parses
// CLI flags over top of them, and drives the crawl until the frontier (or
// the configured depth bound) is exhausted or the process receives an
// interrupt signal.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"net/http"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"

	"github.com/gamh86/netwasabi/internal/cli"
	"github.com/gamh86/netwasabi/internal/config"
	"github.com/gamh86/netwasabi/internal/crawler"
	"github.com/gamh86/netwasabi/internal/errs"
	"github.com/gamh86/netwasabi/internal/logging"
	"github.com/gamh86/netwasabi/internal/metrics"
)

const banner = `
 _   _      _ __        __          _     _
| \ | | ___| |\ \      / /_ _ ___  (_)   | |
|  \| |/ _ \ __\ \ /\ / / _` + "`" + ` / __| | |_  | |
| |\  |  __/ |_ \ V  V / (_| \__ \ | | | |_|
|_| \_|\___|\__| \_/\_/ \__,_|___/ |_|  \__|
`

func main() {
	log := logging.New("info")
	logging.ForceNoColor()

	opts, err := config.Load(log)
	if err != nil {
		log.WithError(err).Fatal("failed loading config")
	}

	root := cli.Build(&opts, func(opts *config.Options) error {
		if lvl, err := logrus.ParseLevel(opts.LogLevel); err == nil {
			log.SetLevel(lvl)
		}

		if opts.StartURL == "" {
			return fmt.Errorf("a start URL is required")
		}

		color.New(color.FgGreen, color.Bold).Print(banner)
		fmt.Printf("netwasabi starting crawl of %s (fast=%v, max-depth=%d)\n",
			opts.StartURL, opts.FastMode, opts.MaxDepth)

		if opts.MetricsAddr != "" {
			mux := http.NewServeMux()
			mux.Handle("/metrics", metrics.Handler())
			srv := &http.Server{Addr: opts.MetricsAddr, Handler: mux}
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.WithError(err).Warn("metrics server stopped")
				}
			}()
		}

		engine, err := crawler.New(*opts, log)
		if err != nil {
			return err
		}

		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGQUIT, syscall.SIGTERM)
		defer cancel()

		return engine.Run(ctx)
	})

	if err := root.Execute(); err != nil {
		if errs.HasCode(err, errs.SignalInterrupt) {
			log.Info("interrupted, shut down cleanly")
			return
		}
		log.WithError(err).Fatal("crawl failed")
	}
}
