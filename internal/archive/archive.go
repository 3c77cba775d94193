// Package archive implements the crawler's "seen" set: an ordered set of
// already-visited URLs backed by a btree, supporting logarithmic membership
// tests and inserts. URLs are never removed once recorded.
package archive

import (
	"sync"

	"github.com/tidwall/btree"
)

// Archive is a thread-safe ordered set of visited URLs.
type Archive struct {
	mu   sync.RWMutex
	tree *btree.BTreeG[string]
}

// New returns an empty Archive.
func New() *Archive {
	return &Archive{
		tree: btree.NewBTreeG(func(a, b string) bool { return a < b }),
	}
}

// Contains reports whether url has already been archived.
func (a *Archive) Contains(url string) bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	_, ok := a.tree.Get(url)
	return ok
}

// Add records url as visited. It reports true if url was newly inserted
// and false if it was already present, so callers can treat the duplicate
// case as a PolicyDrop without a separate Contains check.
func (a *Archive) Add(url string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	_, existed := a.tree.Set(url)
	return !existed
}

// Len returns the number of archived URLs.
func (a *Archive) Len() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.tree.Len()
}

// Walk calls fn for every archived URL in ascending order, stopping early
// if fn returns false. Used for persisting/inspecting the archive.
func (a *Archive) Walk(fn func(url string) bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	a.tree.Scan(fn)
}
