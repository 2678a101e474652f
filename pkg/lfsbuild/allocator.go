package lfsbuild

/**
 * SPDX-License-Identifier: Apache-2.0
 */

import (
	"fmt"

	"github.com/kaist-cp/rv6lfs/pkg/lfsfmt"
)

// Balloc allocates the next block in log order, recording its kind, owning
// inode, and logical block number in its segment's summary (spec.md §4.2).
// It skips over every segment's own summary block automatically: a segment
// boundary is crossed by bumping freeblock past the summary slot before
// computing where the returned block lands.
func (b *Builder) Balloc(btype lfsfmt.BlockType, inum uint32, logicalBlockNo uint32) (int64, error) {
	if (b.freeblock-lfsfmt.NMETA)%lfsfmt.SEGSIZE == 0 {
		b.freeblock++
	}

	if b.freeblock >= lfsfmt.FSSIZE {
		return 0, lfsfmt.ErrExhaustedBlocks
	}

	segnum := lfsfmt.SegNum(b.freeblock)
	summaryBn := lfsfmt.SummaryBlockNo(segnum)
	idx := lfsfmt.EntryIndex(b.freeblock)

	summary, err := b.readRaw(summaryBn)
	if err != nil {
		return 0, fmt.Errorf("balloc: reading segment %d summary: %w", segnum, err)
	}

	entry := lfsfmt.SummaryEntry{Type: btype, Inum: inum, BlockNo: logicalBlockNo}
	entry.Encode(summary, int(idx))

	if err := b.writeRaw(summaryBn, summary); err != nil {
		return 0, fmt.Errorf("balloc: writing segment %d summary: %w", segnum, err)
	}

	lfsfmt.SegTableSet(b.segTable, segnum)

	ret := b.freeblock
	b.freeblock++
	return ret, nil
}

// Ialloc allocates the next inode number, gives it its own dinode block via
// Balloc, and writes a fresh dinode of type t with Nlink 1 (spec.md §4.3).
func (b *Builder) Ialloc(t uint16) (uint32, error) {
	if b.freeinode >= lfsfmt.NINODES {
		return 0, lfsfmt.ErrExhaustedInodes
	}

	inum := uint32(b.freeinode)
	b.freeinode++

	bn, err := b.Balloc(lfsfmt.BlockInode, inum, 0)
	if err != nil {
		return 0, fmt.Errorf("ialloc: %w", err)
	}
	b.imp[inum] = uint32(bn)

	d := lfsfmt.Dinode{Type: t, Nlink: 1}
	block := make([]byte, lfsfmt.BSIZE)
	d.Encode(block)
	if err := b.writeRaw(bn, block); err != nil {
		return 0, fmt.Errorf("ialloc: writing dinode %d: %w", inum, err)
	}

	return inum, nil
}

func (b *Builder) readDinode(inum uint32) (lfsfmt.Dinode, error) {
	bn := int64(b.imp[inum])
	block, err := b.readRaw(bn)
	if err != nil {
		return lfsfmt.Dinode{}, fmt.Errorf("reading dinode %d: %w", inum, err)
	}
	return lfsfmt.DecodeDinode(block), nil
}

func (b *Builder) writeDinode(inum uint32, d lfsfmt.Dinode) error {
	bn := int64(b.imp[inum])
	block := make([]byte, lfsfmt.BSIZE)
	d.Encode(block)
	if err := b.writeRaw(bn, block); err != nil {
		return fmt.Errorf("writing dinode %d: %w", inum, err)
	}
	return nil
}
