package lfsbuild

/**
 * SPDX-License-Identifier: Apache-2.0
 */

import (
	"fmt"

	"github.com/kaist-cp/rv6lfs/pkg/lfsfmt"
)

// Iappend appends buf to inum's file, growing its direct and single-
// indirect block pointers on demand and advancing its dinode's Size
// (spec.md §4.4). A block is allocated for a logical file position the
// first time it's touched; every later append into the same block reuses
// the pointer already recorded in the dinode or indirect block.
func (b *Builder) Iappend(inum uint32, buf []byte) error {
	d, err := b.readDinode(inum)
	if err != nil {
		return err
	}

	off := int64(d.Size)
	bufOff := 0

	for bufOff < len(buf) {
		fbn := off / lfsfmt.BSIZE
		if fbn >= lfsfmt.MAXFILE {
			return fmt.Errorf("iappend: inode %d: %w", inum, lfsfmt.ErrFileTooLarge)
		}

		blockno, err := b.blockForWrite(&d, inum, fbn)
		if err != nil {
			return fmt.Errorf("iappend: inode %d: %w", inum, err)
		}

		block, err := b.readRaw(blockno)
		if err != nil {
			return fmt.Errorf("iappend: inode %d: %w", inum, err)
		}

		tailOff := off % lfsfmt.BSIZE
		n := len(buf) - bufOff
		if room := lfsfmt.BSIZE - tailOff; int64(n) > room {
			n = int(room)
		}
		copy(block[tailOff:int64(tailOff)+int64(n)], buf[bufOff:bufOff+n])

		if err := b.writeRaw(blockno, block); err != nil {
			return fmt.Errorf("iappend: inode %d: %w", inum, err)
		}

		off += int64(n)
		bufOff += n
	}

	d.Size = uint32(off)
	return b.writeDinode(inum, d)
}

// blockForWrite returns the on-disk block number backing logical block fbn
// of d, allocating it (and, for fbn >= NDIRECT, the indirect block that
// holds its pointer) the first time fbn is touched.
func (b *Builder) blockForWrite(d *lfsfmt.Dinode, inum uint32, fbn int64) (int64, error) {
	if fbn < lfsfmt.NDIRECT {
		if d.Addrs[fbn] == 0 {
			bn, err := b.Balloc(lfsfmt.BlockData, inum, uint32(fbn))
			if err != nil {
				return 0, err
			}
			d.Addrs[fbn] = uint32(bn)
		}
		return int64(d.Addrs[fbn]), nil
	}

	if d.Addrs[lfsfmt.NDIRECT] == 0 {
		bn, err := b.Balloc(lfsfmt.BlockIndirect, inum, 0)
		if err != nil {
			return 0, err
		}
		d.Addrs[lfsfmt.NDIRECT] = uint32(bn)
		empty := make([]byte, lfsfmt.BSIZE)
		if err := b.writeRaw(bn, empty); err != nil {
			return 0, err
		}
	}

	indirect, err := b.readRaw(int64(d.Addrs[lfsfmt.NDIRECT]))
	if err != nil {
		return 0, err
	}

	idx := fbn - lfsfmt.NDIRECT
	entryOff := int(idx * 4)
	existing := lfsfmt.Dec32(indirect[entryOff : entryOff+4])
	if existing != 0 {
		return int64(existing), nil
	}

	bn, err := b.Balloc(lfsfmt.BlockData, inum, uint32(fbn))
	if err != nil {
		return 0, err
	}
	lfsfmt.PutEnc32(indirect, entryOff, uint32(bn))
	if err := b.writeRaw(int64(d.Addrs[lfsfmt.NDIRECT]), indirect); err != nil {
		return 0, err
	}

	return bn, nil
}
