package cache

import (
	"github.com/hashicorp/golang-lru/v2"

	"readmegen/internal/safeio"
)

// Contents serves file reads through an in-memory LRU so that metadata
// extraction and sampling observe one snapshot of a file per run, and
// manifests pulled by several sections hit the disk once.
type Contents struct {
	fs  *safeio.SafeFS
	lru *lru.Cache[string, string]
}

// NewContents builds a read-through cache over the given root-locked
// filesystem holding up to maxEntries files.
func NewContents(fs *safeio.SafeFS, maxEntries int) (*Contents, error) {
	if maxEntries <= 0 {
		maxEntries = 256
	}
	c, err := lru.New[string, string](maxEntries)
	if err != nil {
		return nil, err
	}
	return &Contents{fs: fs, lru: c}, nil
}

// Read returns the full content of the file at the repo-relative path.
func (c *Contents) Read(rel string) (string, error) {
	if v, ok := c.lru.Get(rel); ok {
		return v, nil
	}
	b, err := c.fs.SafeReadFile(rel)
	if err != nil {
		return "", err
	}
	s := string(b)
	c.lru.Add(rel, s)
	return s, nil
}

// ReadHead returns at most n bytes from the start of the file, served from
// the cached copy when one exists. A head read alone is never cached, so
// sniffing a large file does not pull it into memory.
func (c *Contents) ReadHead(rel string, n int) (string, error) {
	if v, ok := c.lru.Get(rel); ok {
		if len(v) > n {
			return v[:n], nil
		}
		return v, nil
	}
	b, err := c.fs.SafeReadHead(rel, n)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Len reports how many files are currently cached.
func (c *Contents) Len() int { return c.lru.Len() }
