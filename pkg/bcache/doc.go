// Package bcache implements the in-kernel buffer cache that mediates every
// block read and write against a blockdev.Device: a fixed number of
// BSIZE-byte buffers held in a doubly-linked LRU list behind a cache-wide
// mutex, each buffer additionally guarded by its own exclusive lock
// (spec.md §4.7, §5).
//
// Lock ordering is fixed: the cache mutex is always acquired and released
// before a buffer's own lock is acquired, and the cache mutex is never held
// across device I/O.
package bcache

/**
 * SPDX-License-Identifier: Apache-2.0
 */
