// Package blockdev defines the synchronous block-device contract consumed
// by the buffer cache and implemented, on the builder side, by a
// file-backed device over a host image file (spec.md §2, §6).
package blockdev

/**
 * SPDX-License-Identifier: Apache-2.0
 */

import "github.com/kaist-cp/rv6lfs/pkg/lfsfmt"

// Device is the contract the buffer cache and the image builder consume.
// Both methods are blocking. A non-success read must leave buf untouched; a
// partial write must not be reported as success. Real kernel block drivers
// (virtio, ahci, ...) are out of scope here and are opaque implementers of
// this interface.
type Device interface {
	ReadBlock(blockno int64, buf []byte) bool
	WriteBlock(blockno int64, buf []byte) bool
}

// BSIZE is the block size every Device implementation must honor.
const BSIZE = lfsfmt.BSIZE
