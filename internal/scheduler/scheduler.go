// Package scheduler implements the sequential two-cache depth-layer crawl
// mode: a "drain" pool holding the current depth layer and a "fill" pool
// accumulating the next layer's discovered URLs, swapped once the drain
// pool empties. An optional cache threshold caps how many URLs may
// accumulate in the fill pool, giving sequential mode bounded memory use.
package scheduler

import (
	"context"

	"github.com/gamh86/netwasabi/internal/archive"
	"github.com/gamh86/netwasabi/internal/errs"
	"github.com/gamh86/netwasabi/internal/urlqueue"
)

// Fetcher fetches one URL and returns the links discovered on the page.
type Fetcher func(ctx context.Context, url string) (links []string, err error)

// Policy decides whether a candidate URL at the given depth should be
// scheduled at all (for example depth bound or blacklist). Already-seen
// URLs are filtered by the caller's archive, not by Policy.
type Policy func(candidate string, depth int) bool

// Scheduler drives the sequential two-cache crawl.
type Scheduler struct {
	drain     *urlqueue.Frontier
	fill      *urlqueue.Frontier
	seen      *archive.Archive
	threshold int
	depth     int
	maxDepth  int

	fetch  Fetcher
	policy Policy

	OnProgress func(depth, drainRemaining, fillSize int)
}

// New builds a Scheduler seeded with the start URL at depth 0.
func New(start string, maxDepth, cacheSetThreshold int, fetch Fetcher, policy Policy) *Scheduler {
	s := &Scheduler{
		drain:     urlqueue.New(),
		fill:      urlqueue.New(),
		seen:      archive.New(),
		threshold: cacheSetThreshold,
		maxDepth:  maxDepth,
		fetch:     fetch,
		policy:    policy,
	}
	s.seen.Add(start)
	s.drain.Push(urlqueue.Record{URL: start, Depth: 0})
	return s
}

// Archive exposes the seen-set for persistence/inspection after a run.
func (s *Scheduler) Archive() *archive.Archive { return s.seen }

// Run drains each depth layer to completion before advancing to the next:
// pop from drain, fetch, enqueue newly discovered links into fill (subject
// to Policy and the cache threshold), and swap drain/fill once drain
// empties.
func (s *Scheduler) Run(ctx context.Context) error {
	for {
		if ctx.Err() != nil {
			return errs.Wrap(errs.SignalInterrupt, "crawl cancelled", ctx.Err())
		}

		rec, ok := s.drain.Pop()
		if !ok {
			if s.fill.Empty() {
				return nil
			}
			s.drain, s.fill = s.fill, s.drain
			s.depth++
			if s.OnProgress != nil {
				s.OnProgress(s.depth, s.drain.Len(), s.fill.Len())
			}
			continue
		}

		if s.maxDepth >= 0 && rec.Depth > s.maxDepth {
			continue
		}

		links, err := s.fetch(ctx, rec.URL)
		if err != nil {
			continue
		}

		for _, link := range links {
			if s.threshold > 0 && s.fill.Len() >= s.threshold {
				break
			}
			if s.maxDepth >= 0 && rec.Depth+1 > s.maxDepth {
				continue
			}
			if !s.policy(link, rec.Depth+1) {
				continue
			}
			if !s.seen.Add(link) {
				continue
			}
			s.fill.Push(urlqueue.Record{URL: link, Depth: rec.Depth + 1})
		}

		if s.OnProgress != nil {
			s.OnProgress(s.depth, s.drain.Len(), s.fill.Len())
		}
	}
}
