package lfsfmt

// BlockType identifies what a segment summary entry describes.
type BlockType uint32

const (
	// BlockEmpty marks an entry for a block that hasn't been allocated
	// yet (or, historically, one that's been freed by a cleaner this
	// format doesn't implement).
	BlockEmpty BlockType = 0
	// BlockInode marks a block holding one inode's dinode array slot.
	BlockInode BlockType = 1
	// BlockData marks a block holding file content.
	BlockData BlockType = 2
	// BlockIndirect marks a block holding a file's single-indirect
	// pointer array.
	BlockIndirect BlockType = 3
	// BlockImap marks a block holding one chunk of the inode map.
	BlockImap BlockType = 4
)

// summaryEntrySize is the encoded size, in bytes, of one SummaryEntry:
// three uint32 fields.
const summaryEntrySize = 12

// entriesPerSegment is the number of summary entries that fit in the first
// block of a segment (SEGSIZE-1 usable data blocks).
const entriesPerSegment = SEGSIZE - 1

// SummaryEntry is one record in a segment summary, describing the content
// of one of the SEGSIZE-1 blocks that follow the summary block in its
// segment.
type SummaryEntry struct {
	Type    BlockType
	Inum    uint32
	BlockNo uint32
}

// Encode writes e into the entry slot at index idx within a BSIZE-byte
// segment summary block buffer.
func (e SummaryEntry) Encode(block []byte, idx int) {
	off := idx * summaryEntrySize
	PutEnc32(block, off, uint32(e.Type))
	PutEnc32(block, off+4, e.Inum)
	PutEnc32(block, off+8, e.BlockNo)
}

// DecodeSummaryEntry reads the entry slot at index idx out of a BSIZE-byte
// segment summary block buffer.
func DecodeSummaryEntry(block []byte, idx int) SummaryEntry {
	off := idx * summaryEntrySize
	return SummaryEntry{
		Type:    BlockType(Dec32(block[off : off+4])),
		Inum:    Dec32(block[off+4 : off+8]),
		BlockNo: Dec32(block[off+8 : off+12]),
	}
}

// SegNum returns which segment contains the freeblock-numbered block, and
// SummaryBlockNo returns that segment's summary block number.
func SegNum(blockno int64) int64 {
	return (blockno - NMETA) / SEGSIZE
}

// SummaryBlockNo returns the block number of the summary block for segment
// segnum.
func SummaryBlockNo(segnum int64) int64 {
	return NMETA + segnum*SEGSIZE
}

// EntryIndex returns the index within its segment summary that describes
// block blockno.
func EntryIndex(blockno int64) int64 {
	segnum := SegNum(blockno)
	bn := SummaryBlockNo(segnum)
	return blockno - bn - 1
}
