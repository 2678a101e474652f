package bcache

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/kaist-cp/rv6lfs/pkg/blockdev"
)

// memDevice is an in-memory blockdev.Device good enough to drive buffer
// cache tests without touching the host file system.
type memDevice struct {
	mu     sync.Mutex
	blocks map[int64][BSIZE]byte
}

func newMemDevice() *memDevice {
	return &memDevice{blocks: make(map[int64][BSIZE]byte)}
}

func (d *memDevice) ReadBlock(blockno int64, buf []byte) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	b, ok := d.blocks[blockno]
	if !ok {
		return true // zero-filled "disk"
	}
	copy(buf, b[:])
	return true
}

func (d *memDevice) WriteBlock(blockno int64, buf []byte) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	var b [BSIZE]byte
	copy(b[:], buf)
	d.blocks[blockno] = b
	return true
}

var _ blockdev.Device = (*memDevice)(nil)

func TestBreadMissThenHit(t *testing.T) {
	dev := newMemDevice()
	c := NewCache(8)

	b1 := c.Bread(dev, 5)
	require.NotNil(t, b1)
	assert.Equal(t, 1, c.RefCount(b1))
	c.Brelse(b1)

	b2 := c.Bread(dev, 5)
	require.NotNil(t, b2)
	assert.Same(t, b1, b2, "re-reading the same block should reuse its buffer")
	c.Brelse(b2)
}

func TestConcurrentBreadSameBlockSharesBuffer(t *testing.T) {
	dev := newMemDevice()
	c := NewCache(8)

	// The buffer lock is exclusive: the second reader pins the buffer
	// (refcnt 2) and then waits for the first holder to release it.
	first := c.Bread(dev, 5)
	require.NotNil(t, first)

	var g errgroup.Group
	second := make(chan *Buffer, 1)
	g.Go(func() error {
		second <- c.Bread(dev, 5)
		return nil
	})

	require.Eventually(t, func() bool { return c.RefCount(first) == 2 }, time.Second, time.Millisecond)
	assert.Equal(t, 2, c.RefCount(first))

	c.Brelse(first)
	require.NoError(t, g.Wait())
	b2 := <-second
	require.NotNil(t, b2)
	assert.Same(t, first, b2)
	assert.Equal(t, 1, c.RefCount(first))
	c.Brelse(b2)
	assert.Equal(t, 0, c.RefCount(first))
}

func TestBreadExhaustsAtCapacity(t *testing.T) {
	dev := newMemDevice()
	c := NewCache(8)

	held := make([]*Buffer, 0, 8)
	for i := int64(0); i < 8; i++ {
		b := c.Bread(dev, i)
		require.NotNil(t, b, "block %d should succeed", i)
		held = append(held, b)
	}

	nineth := c.Bread(dev, 9)
	assert.Nil(t, nineth, "a 9th distinct block with all buffers pinned must return nil")

	for _, b := range held {
		c.Brelse(b)
	}
}

func TestSerialReadReleaseReusesLRU(t *testing.T) {
	dev := newMemDevice()
	c := NewCache(8)

	var first *Buffer
	for i := int64(0); i < 8; i++ {
		b := c.Bread(dev, i)
		require.NotNil(t, b)
		if i == 0 {
			first = b
		}
		c.Brelse(b)
	}

	// Block 0 was released first and never touched again, so it's the
	// LRU victim when block 8 (a 9th distinct block) is requested.
	ninth := c.Bread(dev, 8)
	require.NotNil(t, ninth)
	assert.Same(t, first, ninth, "the oldest released buffer should be reused")
	assert.Equal(t, int64(8), ninth.Blockno())
	c.Brelse(ninth)
}

func TestBrelsePlacesBufferAtMRU(t *testing.T) {
	dev := newMemDevice()
	c := NewCache(3)

	b0 := c.Bread(dev, 0)
	b1 := c.Bread(dev, 1)
	b2 := c.Bread(dev, 2)
	c.Brelse(b0)
	c.Brelse(b1)
	c.Brelse(b2)

	order := c.LRUOrder()
	require.Len(t, order, 3)
	assert.Same(t, b0, order[0], "b0 released first should be least recently used")
	assert.Same(t, b2, order[2], "b2 released last should be most recently used")
}

func TestRefcntMatchesOutstandingHolds(t *testing.T) {
	dev := newMemDevice()
	c := NewCache(4)

	b := c.Bread(dev, 1)
	require.NotNil(t, b)
	assert.Equal(t, 1, c.RefCount(b))

	// A second Bread of the same block pins the buffer at once but waits
	// on its exclusive lock until b is released.
	second := make(chan *Buffer, 1)
	go func() { second <- c.Bread(dev, 1) }()
	require.Eventually(t, func() bool { return c.RefCount(b) == 2 }, time.Second, time.Millisecond)
	assert.Equal(t, 2, c.RefCount(b))

	c.Brelse(b)
	b2 := <-second
	require.NotNil(t, b2)
	assert.Equal(t, 1, c.RefCount(b2))
	c.Brelse(b2)
	assert.Equal(t, 0, c.RefCount(b))
}

func TestBwriteRoundTripsThroughDevice(t *testing.T) {
	dev := newMemDevice()
	c := NewCache(4)

	b := c.Bread(dev, 3)
	require.NotNil(t, b)
	copy(b.Data[:], []byte("hello world\n"))
	require.True(t, c.Bwrite(b))
	c.Brelse(b)

	var raw [BSIZE]byte
	require.True(t, dev.ReadBlock(3, raw[:]))
	assert.Equal(t, []byte("hello world\n"), raw[:12])
}

func TestNoTwoLiveBuffersShareDevBlockno(t *testing.T) {
	dev := newMemDevice()
	c := NewCache(16)

	// Holders of one buffer are serialized by its exclusive lock, so two
	// overlapping holders of the same block can only mean two buffers.
	var mu sync.Mutex
	live := map[int64]bool{}

	var g errgroup.Group
	for i := int64(0); i < 16; i++ {
		i := i % 5 // force collisions across goroutines
		g.Go(func() error {
			b := c.Bread(dev, i)
			if b == nil {
				return nil
			}
			defer c.Brelse(b)
			mu.Lock()
			if live[i] {
				t.Errorf("two live buffers hold block %d at once", i)
			}
			live[i] = true
			mu.Unlock()
			defer func() {
				mu.Lock()
				live[i] = false
				mu.Unlock()
			}()
			if b.Blockno() != i {
				t.Errorf("buffer for block %d reports blockno %d", i, b.Blockno())
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())
}
