// Package statusline renders the decorative terminal status line: a
// rotating colored message plus live counters, refreshed by a dedicated
// goroutine, with one progress bar per depth-layer cache.
package statusline

import (
	"fmt"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
)

// Snapshot is the live state the status line renders each tick.
type Snapshot struct {
	URL        string
	Depth      int
	DrainFill  int64
	DrainTotal int64
	FillFill   int64
	FillTotal  int64
	Fetched    int64
	Failed     int64
}

var messages = []string{
	"crawling the web, one link at a time",
	"draining the depth cache",
	"filling the next layer",
	"archiving what we've seen",
}

// Line renders Snapshot updates to the terminal. Each Update holds a single
// mutex, so concurrent repaints never interleave with one another; log
// output does not take this mutex.
type Line struct {
	mu       sync.Mutex
	progress *mpb.Progress
	drainBar *mpb.Bar
	fillBar  *mpb.Bar
	msgIdx   int
}

// New starts a Line with two depth-layer progress bars (drain pool / fill
// pool), matching the two-cache scheduler's depth layers.
func New() *Line {
	p := mpb.New(mpb.WithWidth(40))
	l := &Line{progress: p}

	l.drainBar = p.AddBar(0,
		mpb.PrependDecorators(decor.Name("drain ")),
		mpb.AppendDecorators(decor.CountersNoUnit("%d / %d")),
	)
	l.fillBar = p.AddBar(0,
		mpb.PrependDecorators(decor.Name("fill  ")),
		mpb.AppendDecorators(decor.CountersNoUnit("%d / %d")),
	)
	return l
}

// Update refreshes the bars and prints the next rotating status message.
func (l *Line) Update(s Snapshot) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.drainBar.SetTotal(s.DrainTotal, false)
	l.drainBar.SetCurrent(s.DrainFill)
	l.fillBar.SetTotal(s.FillTotal, false)
	l.fillBar.SetCurrent(s.FillFill)

	msg := messages[l.msgIdx%len(messages)]
	l.msgIdx++

	color.New(color.FgCyan).Printf("[%s] depth=%d fetched=%d failed=%d %s :: %s\n",
		time.Now().Format("15:04:05"), s.Depth, s.Fetched, s.Failed, s.URL, msg)
	fmt.Print("\033[0m")
}

// Close stops the progress renderer. Shutdown (rather than Wait) is used
// because the two bars track live queue sizes that oscillate rather than
// monotonically reach a fixed total, so they never reach mpb's own
// "complete" state on their own.
func (l *Line) Close() {
	l.progress.Shutdown()
}
