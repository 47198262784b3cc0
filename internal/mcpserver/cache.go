package mcpserver

import (
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/erraggy/restgen/generator"
)

// generationCache memoizes generator results for the generate tool.
// Results are keyed on the document identity plus every option that
// changes the emitted code, so a repeat call only rewrites files.
// Entries expire lazily; the oldest insertion is evicted at capacity.
type generationCache struct {
	mu      sync.Mutex
	entries map[string]cachedGeneration
	order   []string
	maxSize int
}

type cachedGeneration struct {
	result    *generator.GenerateResult
	expiresAt time.Time
}

var genCache = newGenerationCache(cfg.CacheMaxSize)

func newGenerationCache(maxSize int) *generationCache {
	return &generationCache{entries: make(map[string]cachedGeneration), maxSize: maxSize}
}

// generationKey combines a document key with the generate options. An empty
// document key means the input is not cacheable.
func generationKey(docKey string, opts generationOptions) string {
	if docKey == "" {
		return ""
	}
	return strings.Join([]string{
		docKey,
		"vendor=" + opts.vendor,
		"package=" + opts.packageName,
		"first_declared=" + strconv.FormatBool(opts.firstDeclared),
		"strict=" + strconv.FormatBool(opts.strict),
	}, "|")
}

// lookup returns the cached result for key, dropping it once expired.
func (c *generationCache) lookup(key string) (*generator.GenerateResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if time.Now().After(e.expiresAt) {
		c.remove(key)
		return nil, false
	}
	return e.result, true
}

// store records result under key. Expired entries are dropped first, then
// the oldest entries until there is room.
func (c *generationCache) store(key string, result *generator.GenerateResult, ttl time.Duration) {
	if c.maxSize <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	if _, ok := c.entries[key]; ok {
		c.remove(key)
	}
	for k, e := range c.entries {
		if now.After(e.expiresAt) {
			c.remove(k)
		}
	}
	for len(c.order) >= c.maxSize {
		c.remove(c.order[0])
	}
	c.entries[key] = cachedGeneration{result: result, expiresAt: now.Add(ttl)}
	c.order = append(c.order, key)
}

// remove deletes key. Callers hold mu.
func (c *generationCache) remove(key string) {
	delete(c.entries, key)
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

func (c *generationCache) size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *generationCache) reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]cachedGeneration)
	c.order = nil
}
