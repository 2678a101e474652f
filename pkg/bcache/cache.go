package bcache

import (
	"sync"

	"github.com/kaist-cp/rv6lfs/pkg/blockdev"
	"github.com/kaist-cp/rv6lfs/pkg/lfsfmt"
)

// DefaultNBuf is the buffer-cache capacity used when nothing overrides it
// (see pkg/lfsconfig).
const DefaultNBuf = 30

// Cache is a fixed-capacity set of buffers arranged as a doubly-linked LRU
// list with a sentinel head. head.next is the most recently used buffer,
// head.prev is the least recently used.
//
// mu arbitrates refcnt, dev, blockno, valid, and the prev/next links on
// every buffer; it is held only to traverse or mutate the list, never
// across device I/O. Each buffer's own lock arbitrates its Data and is held
// for the entire span between the call that returns the buffer and the
// matching Brelse.
type Cache struct {
	mu   sync.Mutex
	head *Buffer
	nbuf int
}

// NewCache allocates nbuf buffers, wired into an LRU list around a sentinel
// head, all initially unused.
func NewCache(nbuf int) *Cache {
	if nbuf <= 0 {
		nbuf = DefaultNBuf
	}

	head := &Buffer{}
	head.prev = head
	head.next = head

	c := &Cache{head: head, nbuf: nbuf}

	for i := 0; i < nbuf; i++ {
		b := &Buffer{}
		b.next = head.next
		b.prev = head
		head.next.prev = b
		head.next = b
	}

	return c
}

// bget finds or allocates a buffer for (dev, blockno), returning it pinned
// (refcnt incremented) and exclusively locked. It returns nil if every
// buffer is pinned by someone else.
func (c *Cache) bget(dev blockdev.Device, blockno int64) *Buffer {
	c.mu.Lock()

	for b := c.head.next; b != c.head; b = b.next {
		if b.dev == dev && b.blockno == blockno {
			b.refcnt++
			c.mu.Unlock()
			b.lock.Lock()
			return b
		}
	}

	for b := c.head.prev; b != c.head; b = b.prev {
		if b.refcnt == 0 {
			b.dev = dev
			b.blockno = blockno
			b.valid = false
			b.refcnt = 1
			c.mu.Unlock()
			b.lock.Lock()
			return b
		}
	}

	c.mu.Unlock()
	return nil
}

// Bread returns a pinned, exclusively-locked buffer whose Data is valid,
// reading through to dev on a cache miss. It returns nil if the cache is
// exhausted or the device read fails.
func (c *Cache) Bread(dev blockdev.Device, blockno int64) *Buffer {
	b := c.bget(dev, blockno)
	if b == nil {
		return nil
	}

	if !b.valid {
		if !dev.ReadBlock(blockno, b.Data[:]) {
			b.lock.Unlock()
			return nil
		}
		b.valid = true
	}

	return b
}

// Bwrite forces b's Data through to its device. The caller must already
// hold b exclusively, acquired via Bread/bget — Bwrite does not attempt to
// acquire or verify the lock itself (see DESIGN.md for why this API
// deliberately doesn't try to distinguish "not held by me" from "held by
// someone else": a debug build should assert ownership instead).
func (c *Cache) Bwrite(b *Buffer) bool {
	if b.dev == nil {
		panic("bcache: Bwrite on a buffer that was never bget'd")
	}
	return b.dev.WriteBlock(b.blockno, b.Data[:])
}

// Brelse releases a buffer acquired via Bread/bget. When its refcnt drops
// to zero the buffer moves to the most-recently-used position so the next
// reclaim picks the true LRU victim.
func (c *Cache) Brelse(b *Buffer) {
	c.mu.Lock()
	b.refcnt--
	if b.refcnt == 0 {
		b.prev.next = b.next
		b.next.prev = b.prev

		b.next = c.head.next
		b.prev = c.head
		c.head.next.prev = b
		c.head.next = b
	}
	c.mu.Unlock()

	b.lock.Unlock()
}

// RefCount returns b's current reference count. It exists for tests and
// diagnostics; like every other non-Data field, it's only meaningful while
// the cache mutex is held, so this snapshot can be stale the instant it's
// returned under concurrent access.
func (c *Cache) RefCount(b *Buffer) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return b.refcnt
}

// LRUOrder returns the buffers currently holding refcnt == 0, ordered from
// least to most recently released. It exists for tests.
func (c *Cache) LRUOrder() []*Buffer {
	c.mu.Lock()
	defer c.mu.Unlock()

	var out []*Buffer
	for b := c.head.prev; b != c.head; b = b.prev {
		if b.refcnt == 0 {
			out = append(out, b)
		}
	}
	return out
}

// BSIZE re-exports the fixed block size every buffer's Data spans.
const BSIZE = lfsfmt.BSIZE
