package cache

import (
	"crypto/sha256"
	"slices"
	"sync"

	"github.com/viletech/doomfront/internal/utils"
)

// A Cache maps the SHA-256 digest of source texts to parse results. Sources
// are never re-parsed partially: a result is either reused as a whole or
// recomputed.
type Cache[T any] struct {
	entries map[[32]byte]*T
	lock    sync.Mutex

	hits   int
	misses int
}

func New[T any]() *Cache[T] {
	return &Cache[T]{
		entries: make(map[[32]byte]*T, 0),
	}
}

func (c *Cache[T]) Get(source string) (*T, bool) {
	hash := sha256.Sum256(utils.StringAsBytes(source))
	c.lock.Lock()
	defer c.lock.Unlock()

	result, ok := c.entries[hash]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return result, ok
}

func (c *Cache[T]) Put(source string, result *T) {
	hash := sha256.Sum256(utils.StringAsBytes(source))
	c.lock.Lock()
	defer c.lock.Unlock()
	c.entries[hash] = result
}

// GetOrCompute returns the cached result for source or calls compute and
// caches its result, nothing is cached if compute fails. compute is called
// without holding the lock, two goroutines may compute the result of the
// same source concurrently.
func (c *Cache[T]) GetOrCompute(source string, compute func() (*T, error)) (result *T, cached bool, err error) {
	if result, ok := c.Get(source); ok {
		return result, true, nil
	}

	result, err = compute()
	if err != nil {
		return nil, false, err
	}
	c.Put(source, result)
	return result, false, nil
}

// DeleteEntryByValue removes all the entries whose result is result.
func (c *Cache[T]) DeleteEntryByValue(result *T) {
	c.lock.Lock()
	defer c.lock.Unlock()

	for key, cachedResult := range c.entries {
		if cachedResult == result {
			delete(c.entries, key)
		}
	}
}

func (c *Cache[T]) KeepEntriesByValue(keptResults ...*T) {
	c.lock.Lock()
	defer c.lock.Unlock()

	for key, cachedResult := range c.entries {
		if !slices.Contains(keptResults, cachedResult) {
			delete(c.entries, key)
		}
	}
}

func (c *Cache[T]) Len() int {
	c.lock.Lock()
	defer c.lock.Unlock()
	return len(c.entries)
}

// Stats returns the number of successful and failed lookups.
func (c *Cache[T]) Stats() (hits, misses int) {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.hits, c.misses
}
