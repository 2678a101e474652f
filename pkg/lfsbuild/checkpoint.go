package lfsbuild

/**
 * SPDX-License-Identifier: Apache-2.0
 */

import (
	"fmt"

	"github.com/kaist-cp/rv6lfs/pkg/lfsfmt"
)

// Wimap writes out the in-memory imap, one NENTRY-sized chunk per block,
// and records each chunk's block number for the checkpoint that follows
// (spec.md §4.5).
func (b *Builder) Wimap() error {
	nChunks := lfsfmt.NInodeMap(lfsfmt.NINODES)
	b.impBlockNo = make([]uint32, nChunks)

	for chunk := int64(0); chunk < nChunks; chunk++ {
		start := chunk * lfsfmt.NENTRY
		end := start + lfsfmt.NENTRY
		if end > lfsfmt.NINODES {
			end = lfsfmt.NINODES
		}

		bn, err := b.Balloc(lfsfmt.BlockImap, 0, uint32(chunk))
		if err != nil {
			return fmt.Errorf("wimap: chunk %d: %w", chunk, err)
		}

		block := make([]byte, lfsfmt.BSIZE)
		lfsfmt.DimapEncode(block, b.imp[start:end])
		if err := b.writeRaw(bn, block); err != nil {
			return fmt.Errorf("wimap: chunk %d: %w", chunk, err)
		}

		b.impBlockNo[chunk] = uint32(bn)
	}

	return nil
}

// WriteCheckpoint writes checkpoint slot n (1 or 2). The build process
// always produces checkpoint 1 as authoritative by giving it the higher
// timestamp; checkpoint 2 is written zeroed, the state a freshly
// initialized image starts from before any checkpoint has ever completed
// (spec.md §3, §4.5).
func (b *Builder) WriteCheckpoint(n int) error {
	block := make([]byte, lfsfmt.BSIZE)

	if n == 1 {
		cp := lfsfmt.Checkpoint{
			Imap:      b.impBlockNo,
			SegTable:  b.segTable,
			Timestamp: 1,
		}
		cp.Encode(block)
	}

	var blockno int64
	switch n {
	case 1:
		blockno = lfsfmt.CheckpointBlock1
	case 2:
		blockno = lfsfmt.CheckpointBlock2
	default:
		return fmt.Errorf("write checkpoint: invalid slot %d", n)
	}

	if err := b.writeRaw(blockno, block); err != nil {
		return fmt.Errorf("write checkpoint %d: %w", n, err)
	}
	return nil
}
