package ledger

import (
	"errors"
	"sort"
)

// KV is the key/value surface the ledger is built on. Both dbm.DB and Cache
// implement it.
type KV interface {
	Get(key []byte) ([]byte, error)
	Set(key, value []byte) error
	Delete(key []byte) error
}

// Writer receives the flushed writes of a Cache. dbm.Batch implements it.
type Writer interface {
	Set(key, value []byte) error
	Delete(key []byte) error
}

var (
	errKeyEmpty  = errors.New("key cannot be empty")
	errValueNil  = errors.New("value cannot be nil")
	errCacheDone = errors.New("cache already written or discarded")
)

// Change is a single buffered write. A nil Value is a deletion.
type Change struct {
	Key   []byte
	Value []byte
}

type cacheEntry struct {
	value   []byte
	deleted bool
}

// Cache buffers writes on top of a parent KV. Reads see the buffered writes
// first and fall through to the parent. Nothing reaches the parent until
// Write; Discard drops every buffered write. Caches nest, which is how an
// instruction's writes are staged on top of the block's.
type Cache struct {
	parent KV
	writes map[string]cacheEntry
	done   bool
}

// NewCache returns an empty cache over parent.
func NewCache(parent KV) *Cache {
	return &Cache{
		parent: parent,
		writes: make(map[string]cacheEntry),
	}
}

// Get implements KV.
func (c *Cache) Get(key []byte) ([]byte, error) {
	if len(key) == 0 {
		return nil, errKeyEmpty
	}
	if e, ok := c.writes[string(key)]; ok {
		if e.deleted {
			return nil, nil
		}
		return copyBytes(e.value), nil
	}
	return c.parent.Get(key)
}

// Set implements KV.
func (c *Cache) Set(key, value []byte) error {
	if err := c.checkWrite(key); err != nil {
		return err
	}
	if value == nil {
		return errValueNil
	}
	c.writes[string(key)] = cacheEntry{value: copyBytes(value)}
	return nil
}

// Delete implements KV.
func (c *Cache) Delete(key []byte) error {
	if err := c.checkWrite(key); err != nil {
		return err
	}
	c.writes[string(key)] = cacheEntry{deleted: true}
	return nil
}

func (c *Cache) checkWrite(key []byte) error {
	if c.done {
		return errCacheDone
	}
	if len(key) == 0 {
		return errKeyEmpty
	}
	return nil
}

// Changes returns the buffered writes in key order.
func (c *Cache) Changes() []Change {
	keys := make([]string, 0, len(c.writes))
	for k := range c.writes {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	changes := make([]Change, 0, len(keys))
	for _, k := range keys {
		e := c.writes[k]
		ch := Change{Key: []byte(k)}
		if !e.deleted {
			ch.Value = copyBytes(e.value)
		}
		changes = append(changes, ch)
	}
	return changes
}

// Len returns the number of buffered writes.
func (c *Cache) Len() int { return len(c.writes) }

// Write flushes the buffered writes into the parent and closes the cache.
func (c *Cache) Write() error {
	return c.WriteTo(c.parent)
}

// WriteTo flushes the buffered writes, in key order, into w and closes the
// cache.
func (c *Cache) WriteTo(w Writer) error {
	if c.done {
		return errCacheDone
	}
	for _, ch := range c.Changes() {
		var err error
		if ch.Value == nil {
			err = w.Delete(ch.Key)
		} else {
			err = w.Set(ch.Key, ch.Value)
		}
		if err != nil {
			return err
		}
	}
	c.writes = nil
	c.done = true
	return nil
}

// Discard drops every buffered write and closes the cache.
func (c *Cache) Discard() {
	c.writes = nil
	c.done = true
}

func copyBytes(bz []byte) []byte {
	if bz == nil {
		return nil
	}
	cp := make([]byte, len(bz))
	copy(cp, bz)
	return cp
}
