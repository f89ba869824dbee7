package export

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sync"
	"time"
)

// CacheVersion is bumped whenever the exporter's observable behavior
// changes; a persisted cache whose version does not match is silently
// discarded rather than erroring, per spec.md §4.6.4.
const CacheVersion = 1

// CacheEntry is one file's cached export outcome.
type CacheEntry struct {
	Version      int
	ContentHash  string
	ModTime      time.Time
	Dependencies []string
	Output       json.RawMessage
}

// BuildCache implements spec.md §4.6.4's incremental build cache: a
// file's outputs are reused verbatim when its content hash matches the
// cache entry and none of its dependency entities are in the changed set.
type BuildCache struct {
	mu      sync.Mutex
	entries map[string]CacheEntry
}

func NewBuildCache() *BuildCache {
	return &BuildCache{entries: make(map[string]CacheEntry)}
}

// HashContent computes the content hash BuildCache keys entries by.
func HashContent(src []byte) string {
	sum := sha256.Sum256(src)
	return hex.EncodeToString(sum[:])
}

// Lookup returns the cached entry for file and whether it is still valid:
// version matches, content hash matches, and none of changedEntities
// intersects the entry's recorded dependency set.
func (c *BuildCache) Lookup(file, contentHash string, changedEntities map[string]bool) (CacheEntry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[file]
	if !ok {
		return CacheEntry{}, false
	}
	if entry.Version != CacheVersion {
		return CacheEntry{}, false
	}
	if entry.ContentHash != contentHash {
		return CacheEntry{}, false
	}
	for _, dep := range entry.Dependencies {
		if changedEntities[dep] {
			return CacheEntry{}, false
		}
	}
	return entry, true
}

// Store records a fresh export outcome for file.
func (c *BuildCache) Store(file string, entry CacheEntry) {
	entry.Version = CacheVersion
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[file] = entry
}

// Invalidate drops file's cache entry, used when its source changes out
// from under an otherwise-valid hash (e.g. a forced rebuild).
func (c *BuildCache) Invalidate(file string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, file)
}
