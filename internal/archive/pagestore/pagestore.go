// Package pagestore persists fetched page bodies to disk, one file per
// URL, named by a stable digest of the canonical URL.
package pagestore

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"

	"github.com/gamh86/netwasabi/internal/errs"
)

// Store writes fetched pages under a root directory.
type Store struct {
	root string
}

// New returns a Store rooted at dir, creating it if necessary.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errs.Wrap(errs.ConfigError, "create page store dir failed", err)
	}
	return &Store{root: dir}, nil
}

// FilenameFor returns the stable filename used to persist url.
func FilenameFor(url string) string {
	sum := sha256.Sum256([]byte(url))
	return hex.EncodeToString(sum[:])
}

// Save writes body to the file named after url, overwriting any prior
// capture of the same URL.
func (s *Store) Save(url string, body []byte) error {
	path := filepath.Join(s.root, FilenameFor(url))
	if err := os.WriteFile(path, body, 0o644); err != nil {
		return errs.Wrap(errs.AllocationFailure, "persist page failed", err)
	}
	return nil
}
