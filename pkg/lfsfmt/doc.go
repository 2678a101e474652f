// Package lfsfmt describes the on-disk format shared by the rv6lfs image
// builder and the in-kernel buffer cache: layout constants, the byte codec,
// and the encode/decode pair for every on-disk struct (superblock, segment
// summary, dinode, directory entry, imap block, checkpoint).
//
// Nothing in this package performs I/O; it only knows how to turn BSIZE-byte
// buffers into Go values and back, little-endian, regardless of host byte
// order.
package lfsfmt

/**
 * SPDX-License-Identifier: Apache-2.0
 */
