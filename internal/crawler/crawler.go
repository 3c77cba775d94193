// Package crawler wires the frontier, archive, HTTP transaction, scheduler
// (or fast-mode pool), extractor, metrics and persistence layers into the
// single top-level engine cmd/netwasabi drives, with two selectable drive
// modes: sequential two-cache and fast-mode concurrent.
package crawler

import (
	"context"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/gamh86/netwasabi/internal/archive/pagestore"
	"github.com/gamh86/netwasabi/internal/config"
	"github.com/gamh86/netwasabi/internal/errs"
	"github.com/gamh86/netwasabi/internal/extract"
	"github.com/gamh86/netwasabi/internal/fastcrawl"
	"github.com/gamh86/netwasabi/internal/httpx"
	"github.com/gamh86/netwasabi/internal/logging"
	"github.com/gamh86/netwasabi/internal/metrics"
	"github.com/gamh86/netwasabi/internal/scheduler"
	"github.com/gamh86/netwasabi/internal/statusline"
	"github.com/gamh86/netwasabi/internal/tlsconfig"
)

// urlMax bounds an individual URL's length; longer candidates are dropped
// before they are queued.
const urlMax = 2048

// Engine is the fully-wired crawler ready to Run against opts.StartURL.
type Engine struct {
	opts        config.Options
	log         *logrus.Entry
	store       *pagestore.Store
	blacklist   []string
	primaryHost string
	txPool      *httpx.TransactionPool

	fetchedN, failedN        int64
	depth, drainLen, fillLen int64
	curURL                   atomic.Value // string
}

// New builds an Engine from opts, resolving the page store directory and
// normalizing the seed URL up front so a bad configuration fails before
// Run. The TLS configuration is built and validated at the start of Run.
func New(opts config.Options, log *logrus.Logger) (*Engine, error) {
	dir, err := config.PagesDir()
	if err != nil {
		return nil, err
	}
	store, err := pagestore.New(dir)
	if err != nil {
		return nil, err
	}

	var blacklist []string
	if opts.Blacklist != "" {
		blacklist = strings.Split(opts.Blacklist, ",")
	}

	opts.StartURL, err = normalizeSeed(opts.StartURL, opts.UseTLS)
	if err != nil {
		return nil, err
	}

	// Fast mode forgoes the per-fetch politeness delay entirely.
	if opts.FastMode {
		opts.CrawlDelay = 0
	}

	var primaryHost string
	if seed, err := url.Parse(opts.StartURL); err == nil {
		primaryHost = seed.Host
	}

	poolCapacity := opts.Workers
	if poolCapacity < 1 {
		poolCapacity = 1
	}

	return &Engine{
		opts:        opts,
		log:         logging.Component(log, "crawler"),
		store:       store,
		blacklist:   blacklist,
		primaryHost: primaryHost,
		txPool:      httpx.NewTransactionPool(poolCapacity),
	}, nil
}

// normalizeSeed fills in a missing scheme on the seed URL and upgrades it
// to https when --tls was passed, so a bare "example.com" seed is usable
// and the TLS flag actually governs the seed's transport.
func normalizeSeed(seed string, useTLS bool) (string, error) {
	if seed == "" {
		return "", nil
	}
	if !strings.Contains(seed, "://") {
		if useTLS {
			seed = "https://" + seed
		} else {
			seed = "http://" + seed
		}
	}
	u, err := url.Parse(seed)
	if err != nil {
		return "", errs.Wrap(errs.ConfigError, "invalid seed url", err)
	}
	if useTLS && u.Scheme == "http" {
		u.Scheme = "https"
	}
	return u.String(), nil
}

func (e *Engine) dialer() (httpx.DefaultDialer, error) {
	if !e.opts.UseTLS {
		return httpx.DefaultDialer{}, nil
	}
	cfg, err := tlsconfig.Build(tlsconfig.Options{MinVersion: e.opts.TLSMinVersion})
	if err != nil {
		return httpx.DefaultDialer{}, err
	}
	return httpx.DefaultDialer{TLSConfig: cfg}, nil
}

// fetch performs one page fetch: GET, persist, extract links. Shared by
// both the sequential scheduler and the fast-mode pool. A uniform delay is
// applied before each request when configured.
func (e *Engine) fetch(dialer httpx.DefaultDialer, extractor extract.Extractor) scheduler.Fetcher {
	return func(ctx context.Context, target string) ([]string, error) {
		if e.opts.CrawlDelay > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(time.Duration(e.opts.CrawlDelay) * time.Second):
			}
		}

		e.curURL.Store(target)

		start := time.Now()
		resp, err := httpx.FetchWithPool(ctx, dialer, target, 0, e.txPool)
		metrics.FetchDuration.Observe(time.Since(start).Seconds())
		if err != nil {
			metrics.PagesFailed.Inc()
			atomic.AddInt64(&e.failedN, 1)
			e.log.WithError(err).WithField("url", target).Warn("fetch failed")
			return nil, err
		}

		metrics.PagesFetched.Inc()
		metrics.BytesFetched.Add(float64(len(resp.Body)))
		atomic.AddInt64(&e.fetchedN, 1)

		// 4xx/5xx responses are not transport failures, but their bodies are
		// error pages: nothing to persist, no links worth following.
		if resp.StatusCode >= 400 {
			return nil, nil
		}

		base, baseErr := url.Parse(resp.FinalURL)

		// Persist the document with its intra-document URLs rewritten to
		// absolute form, so archived pages remain navigable offline.
		persisted := resp.Body
		if baseErr == nil {
			persisted = extract.Rewrite(base, resp.Body)
		}
		if err := e.store.Save(target, persisted); err != nil {
			e.log.WithError(err).WithField("url", target).Warn("persist failed")
		}

		if baseErr != nil {
			return nil, nil
		}
		links, err := extractor.Extract(base, resp.Body)
		if err != nil {
			return nil, nil
		}
		return links, nil
	}
}

// policy drops candidates past the configured max depth, failing basic
// URL validation (not http/https, contains mailto, missing '.', over
// length), crossing domains with --xdomain unset, or matching the
// blacklist.
func (e *Engine) policy() scheduler.Policy {
	return func(candidate string, depth int) bool {
		drop := func() bool {
			metrics.PagesDropped.Inc()
			return false
		}

		if e.opts.MaxDepth >= 0 && depth > e.opts.MaxDepth {
			return drop()
		}
		if len(candidate) == 0 || len(candidate) > urlMax {
			return drop()
		}
		if strings.Contains(candidate, "mailto:") || strings.Contains(candidate, "javascript:") {
			return drop()
		}
		if !strings.Contains(candidate, ".") {
			return drop()
		}

		u, err := url.Parse(candidate)
		if err != nil {
			return drop()
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return drop()
		}
		if !e.opts.CrossDomain && e.primaryHost != "" && u.Host != e.primaryHost {
			return drop()
		}

		for _, b := range e.blacklist {
			if b != "" && strings.Contains(candidate, b) {
				return drop()
			}
		}
		return true
	}
}

// Run drives the crawl to completion in either fast or sequential mode.
func (e *Engine) Run(ctx context.Context) error {
	dialer, err := e.dialer()
	if err != nil {
		return err
	}
	extractor := extract.Default{}
	fetch := e.fetch(dialer, extractor)
	policy := e.policy()

	line := statusline.New()
	statusCtx, stopStatus := context.WithCancel(ctx)
	defer stopStatus()
	go e.renderStatus(statusCtx, line)
	defer line.Close()

	if e.opts.FastMode {
		pool := fastcrawl.New(e.opts.StartURL, e.opts.MaxDepth, e.opts.Workers, fetch, policy)
		pool.OnProgress = func(frontierLen, archiveLen int) {
			atomic.StoreInt64(&e.drainLen, int64(frontierLen))
			atomic.StoreInt64(&e.fillLen, int64(archiveLen))
			e.log.WithField("frontier", frontierLen).WithField("archived", archiveLen).Debug("progress")
		}
		return pool.Run(ctx)
	}

	sched := scheduler.New(e.opts.StartURL, e.opts.MaxDepth, e.opts.CacheSetThreshold, fetch, policy)
	sched.OnProgress = func(depth, drainRemaining, fillSize int) {
		atomic.StoreInt64(&e.depth, int64(depth))
		atomic.StoreInt64(&e.drainLen, int64(drainRemaining))
		atomic.StoreInt64(&e.fillLen, int64(fillSize))
		metrics.FrontierDepth.Set(float64(depth))
		e.log.WithField("depth", depth).WithField("drain", drainRemaining).WithField("fill", fillSize).Debug("progress")
	}
	return sched.Run(ctx)
}

// renderStatus never touches the network: it only reads the Engine's
// atomically-updated counters and periodically repaints the decorative
// status line until the crawl's context is cancelled.
func (e *Engine) renderStatus(ctx context.Context, line *statusline.Line) {
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			drain := atomic.LoadInt64(&e.drainLen)
			fill := atomic.LoadInt64(&e.fillLen)
			curURL, _ := e.curURL.Load().(string)
			line.Update(statusline.Snapshot{
				URL:        curURL,
				Depth:      int(atomic.LoadInt64(&e.depth)),
				DrainFill:  drain,
				DrainTotal: drain,
				FillFill:   fill,
				FillTotal:  fill,
				Fetched:    atomic.LoadInt64(&e.fetchedN),
				Failed:     atomic.LoadInt64(&e.failedN),
			})
		}
	}
}
