package bcache

import (
	"sync"

	"github.com/kaist-cp/rv6lfs/pkg/blockdev"
	"github.com/kaist-cp/rv6lfs/pkg/lfsfmt"
)

// Buffer is one cached copy of a disk block. Everything except Data is
// owned by the cache-wide mutex; Data is owned by Buffer.lock, which a
// caller must hold for as long as it reads or writes Data.
type Buffer struct {
	dev     blockdev.Device
	blockno int64
	valid   bool
	refcnt  int

	lock sync.Mutex

	// Data holds the BSIZE-byte payload. Callers must hold lock for the
	// entire time they read or write it.
	Data [lfsfmt.BSIZE]byte

	prev, next *Buffer
}

// Blockno returns the block number this buffer is currently pinned to. It
// is only meaningful while the caller holds the buffer (between Bread/Bget
// and the matching Brelse).
func (b *Buffer) Blockno() int64 {
	return b.blockno
}
