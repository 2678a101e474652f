package lfsfmt

/**
 * SPDX-License-Identifier: Apache-2.0
 */

// Disk geometry. Fixed at compile time: this format does not support
// multiple images, dynamic resizing, or autodetecting endianness.
const (
	// BSIZE is the fixed on-disk block size, in bytes.
	BSIZE = 1024

	// FSMAGIC identifies a valid superblock.
	FSMAGIC = 0x10203040

	// FSSIZE is the total number of blocks in the image.
	FSSIZE = 5000

	// NINODES is the total number of inodes the image can hold.
	NINODES = 200

	// SEGSIZE is the number of blocks in one segment, including its
	// summary block.
	SEGSIZE = 10

	// NMETA is the number of fixed metadata blocks at the front of the
	// image: boot block, superblock, checkpoint 1, checkpoint 2.
	NMETA = 4

	// NDIRECT is the number of direct block pointers in a dinode.
	NDIRECT = 12

	// NINDIRECT is the number of block pointers that fit in one
	// indirect block.
	NINDIRECT = BSIZE / 4

	// MAXFILE is the largest file size, in blocks, addressable by a
	// dinode's direct and single-indirect pointers.
	MAXFILE = NDIRECT + NINDIRECT

	// ROOTINO is the inode number of the root directory.
	ROOTINO = 1

	// DIRSIZ is the maximum length of a directory entry name.
	DIRSIZ = 14

	// CheckpointBlock1 and CheckpointBlock2 are the fixed block numbers
	// of the two alternating checkpoints.
	CheckpointBlock1 = 2
	CheckpointBlock2 = 3

	// SuperblockNo is the fixed block number of the superblock.
	SuperblockNo = 1

	// BootBlockNo is the fixed, always-zero boot block.
	BootBlockNo = 0

	// NENTRY is the number of inode-block-number entries that fit in
	// one imap block.
	NENTRY = BSIZE / 4
)

// NSeg returns the number of segments the segment region is divided into,
// given a total image size in blocks.
func NSeg(fssize int64) int64 {
	return (fssize - NMETA) / SEGSIZE
}

// NInodeMap returns the number of imap blocks needed to cover ninodes
// inodes.
func NInodeMap(ninodes int64) int64 {
	return (ninodes*4 + BSIZE - 1) / BSIZE
}

// SegTableBytes returns the size, in bytes, of the segment usage bitmap,
// rounded up to a multiple of 4 bytes as spec.md §3 requires.
func SegTableBytes(nsegments int64) int64 {
	bits := nsegments
	bytes := (bits + 7) / 8
	return (bytes + 3) / 4 * 4
}

// Superblock is the fixed-order, all-32-bit-unsigned on-disk superblock.
type Superblock struct {
	Magic        uint32
	Size         uint32
	NBlocks      uint32
	NSegments    uint32
	NInodes      uint32
	Checkpoint1  uint32
	Checkpoint2  uint32
	SegStart     uint32
}

// NewSuperblock builds the single fixed superblock this format ever writes.
func NewSuperblock() Superblock {
	return Superblock{
		Magic:       FSMAGIC,
		Size:        FSSIZE,
		NBlocks:     FSSIZE - NMETA,
		NSegments:   uint32(NSeg(FSSIZE)),
		NInodes:     NINODES,
		Checkpoint1: CheckpointBlock1,
		Checkpoint2: CheckpointBlock2,
		SegStart:    NMETA,
	}
}

// Encode writes the superblock's fields into a BSIZE-byte block buffer in
// fixed field order, little-endian.
func (sb Superblock) Encode(block []byte) {
	PutEnc32(block, 0, sb.Magic)
	PutEnc32(block, 4, sb.Size)
	PutEnc32(block, 8, sb.NBlocks)
	PutEnc32(block, 12, sb.NSegments)
	PutEnc32(block, 16, sb.NInodes)
	PutEnc32(block, 20, sb.Checkpoint1)
	PutEnc32(block, 24, sb.Checkpoint2)
	PutEnc32(block, 28, sb.SegStart)
}

// DecodeSuperblock is the inverse of Superblock.Encode.
func DecodeSuperblock(block []byte) Superblock {
	return Superblock{
		Magic:       Dec32(block[0:4]),
		Size:        Dec32(block[4:8]),
		NBlocks:     Dec32(block[8:12]),
		NSegments:   Dec32(block[12:16]),
		NInodes:     Dec32(block[16:20]),
		Checkpoint1: Dec32(block[20:24]),
		Checkpoint2: Dec32(block[24:28]),
		SegStart:    Dec32(block[28:32]),
	}
}

// Valid reports whether the superblock carries the expected magic number.
func (sb Superblock) Valid() bool {
	return sb.Magic == FSMAGIC
}
