package bookcache

import (
	"os"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"polybook/internal/book"
)

type entry struct {
	book  *book.Book
	mod   time.Time
	refs  int
	stale bool
}

// Cache keeps opened books around between requests, keyed by path. An
// entry is reopened when the file's modtime changes, and concurrent
// requests for the same path share a single load. A replaced book is
// not closed until every holder has released it.
type Cache struct {
	mu      sync.Mutex
	entries map[string]*entry
	group   singleflight.Group
}

func New() *Cache {
	return &Cache{entries: make(map[string]*entry)}
}

// Get returns the cached book for path, loading it if needed. The book
// stays open at least until release is called; callers must call
// release when done and must not close the book themselves.
func (c *Cache) Get(path string) (b *book.Book, release func(), err error) {
	for {
		info, err := os.Stat(path)
		if err != nil {
			return nil, nil, err
		}

		c.mu.Lock()
		if e, ok := c.entries[path]; ok && e.mod.Equal(info.ModTime()) {
			e.refs++
			c.mu.Unlock()
			return e.book, func() { c.release(e) }, nil
		}
		c.mu.Unlock()

		_, err, _ = c.group.Do(path, func() (any, error) {
			b, err := book.Load(path)
			if err != nil {
				return nil, err
			}

			c.mu.Lock()
			defer c.mu.Unlock()
			if old, ok := c.entries[path]; ok {
				old.stale = true
				if old.refs == 0 {
					_ = old.book.Close()
				}
			}
			c.entries[path] = &entry{book: b, mod: info.ModTime()}
			return b, nil
		})
		if err != nil {
			return nil, nil, err
		}
		// Take the ref through the fast path so it lands on whichever
		// entry is current, even if another load won the race.
	}
}

func (c *Cache) release(e *entry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e.refs--
	if e.stale && e.refs == 0 {
		_ = e.book.Close()
	}
}

// Close releases every cached book. Books still held by callers are
// closed when their last holder releases them.
func (c *Cache) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, e := range c.entries {
		e.stale = true
		if e.refs == 0 {
			_ = e.book.Close()
		}
	}
	c.entries = make(map[string]*entry)
}
