// Package fastcrawl implements the concurrent fast-mode crawl: a fixed set
// of workers pulling from a single shared frontier and writing into a
// single shared archive, coordinated with errgroup (fan-out/fan-in with
// cancellation) and a semaphore, sized to the worker count, that each
// worker holds while it pops from the frontier. In-flight fetches are
// bounded by the worker count itself.
package fastcrawl

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/gamh86/netwasabi/internal/archive"
	"github.com/gamh86/netwasabi/internal/scheduler"
	"github.com/gamh86/netwasabi/internal/urlqueue"
)

// Pool runs a fixed number of worker goroutines against a shared frontier.
// The frontier is guarded by a single mutex shared by all workers; the
// archive takes a reader-writer lock of its own.
type Pool struct {
	workers  int
	frontier *urlqueue.Frontier
	seen     *archive.Archive
	maxDepth int

	fetch  scheduler.Fetcher
	policy scheduler.Policy

	mu      sync.Mutex
	cond    *sync.Cond
	pending int // URLs popped but not yet resolved into new frontier entries

	OnProgress func(frontierLen, archiveLen int)
}

// New builds a fast-mode Pool seeded with the start URL at depth 0.
func New(start string, maxDepth, workers int, fetch scheduler.Fetcher, policy scheduler.Policy) *Pool {
	p := &Pool{
		workers:  workers,
		frontier: urlqueue.New(),
		seen:     archive.New(),
		maxDepth: maxDepth,
		fetch:    fetch,
		policy:   policy,
	}
	p.cond = sync.NewCond(&p.mu)
	p.seen.Add(start)
	p.frontier.Push(urlqueue.Record{URL: start, Depth: 0})
	p.pending = 1
	return p
}

// Archive exposes the shared seen-set for persistence/inspection.
func (p *Pool) Archive() *archive.Archive { return p.seen }

// Run starts p.workers goroutines draining the shared frontier until it is
// both empty and no worker has in-flight work left to turn into new
// entries.
func (p *Pool) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	sem := semaphore.NewWeighted(int64(p.workers))

	// A worker blocked in next()'s cond.Wait has no other way to observe
	// context cancellation, since nothing else broadcasts on that path;
	// without this, a SIGINT with all workers idle on cond.Wait would never
	// return, violating the graceful-shutdown property.
	go func() {
		<-ctx.Done()
		p.mu.Lock()
		p.cond.Broadcast()
		p.mu.Unlock()
	}()

	for i := 0; i < p.workers; i++ {
		g.Go(func() error {
			for {
				if err := sem.Acquire(ctx, 1); err != nil {
					return nil
				}
				rec, ok := p.next(ctx)
				sem.Release(1)
				if !ok {
					return nil
				}

				links, err := p.fetch(ctx, rec.URL)
				p.resolve(rec, links, err)

				if p.OnProgress != nil {
					p.OnProgress(p.frontier.Len(), p.seen.Len())
				}
			}
		})
	}

	return g.Wait()
}

// next blocks until a frontier entry is available, the context is
// cancelled, or the crawl has genuinely drained (frontier empty and no
// worker still holds an unresolved pop).
func (p *Pool) next(ctx context.Context) (urlqueue.Record, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for {
		if rec, ok := p.frontier.Pop(); ok {
			return rec, true
		}
		if p.pending == 0 {
			p.cond.Broadcast()
			return urlqueue.Record{}, false
		}
		if ctx.Err() != nil {
			return urlqueue.Record{}, false
		}
		p.cond.Wait()
	}
}

// resolve applies the policy to links discovered from rec and pushes the
// survivors back onto the shared frontier, then wakes any blocked workers.
func (p *Pool) resolve(rec urlqueue.Record, links []string, fetchErr error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.pending--

	if fetchErr == nil {
		depth := rec.Depth + 1
		if depth <= p.maxDepth || p.maxDepth < 0 {
			for _, link := range links {
				if !p.policy(link, depth) {
					continue
				}
				if !p.seen.Add(link) {
					continue
				}
				p.frontier.Push(urlqueue.Record{URL: link, Depth: depth})
				p.pending++
			}
		}
	}

	p.cond.Broadcast()
}
