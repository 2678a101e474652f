package lfsbuild

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kaist-cp/rv6lfs/pkg/lfsfmt"
)

func newTestBuilder(t *testing.T) *Builder {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fs.img")
	b, err := NewBuilder(path, nil)
	require.NoError(t, err)
	t.Cleanup(func() { b.Close() })
	return b
}

func TestBallocSkipsSegmentSummaryBlock(t *testing.T) {
	b := newTestBuilder(t)

	first, err := b.Balloc(lfsfmt.BlockData, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(lfsfmt.NMETA+1), first, "first data block follows the first segment's summary block")

	for i := 0; i < lfsfmt.SEGSIZE-2; i++ {
		_, err := b.Balloc(lfsfmt.BlockData, 0, uint32(i+1))
		require.NoError(t, err)
	}

	next, err := b.Balloc(lfsfmt.BlockData, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(lfsfmt.NMETA+lfsfmt.SEGSIZE+1), next, "allocator skips the next segment's summary block too")
}

func TestBallocWritesSummaryEntry(t *testing.T) {
	b := newTestBuilder(t)

	bn, err := b.Balloc(lfsfmt.BlockData, 7, 3)
	require.NoError(t, err)

	segnum := lfsfmt.SegNum(bn)
	summaryBn := lfsfmt.SummaryBlockNo(segnum)
	idx := lfsfmt.EntryIndex(bn)

	block, err := b.readRaw(summaryBn)
	require.NoError(t, err)

	entry := lfsfmt.DecodeSummaryEntry(block, int(idx))
	assert.Equal(t, lfsfmt.BlockData, entry.Type)
	assert.Equal(t, uint32(7), entry.Inum)
	assert.Equal(t, uint32(3), entry.BlockNo)
}

func TestBallocExhaustsAtFSSIZE(t *testing.T) {
	b := newTestBuilder(t)
	b.freeblock = lfsfmt.FSSIZE

	_, err := b.Balloc(lfsfmt.BlockData, 0, 0)
	assert.ErrorIs(t, err, lfsfmt.ErrExhaustedBlocks)
}

func TestIallocAssignsSequentialInodesAndWritesDinode(t *testing.T) {
	b := newTestBuilder(t)

	i1, err := b.Ialloc(lfsfmt.TypeDir)
	require.NoError(t, err)
	i2, err := b.Ialloc(lfsfmt.TypeFile)
	require.NoError(t, err)

	assert.Equal(t, i1+1, i2)

	d, err := b.readDinode(i2)
	require.NoError(t, err)
	assert.Equal(t, uint16(lfsfmt.TypeFile), d.Type)
	assert.Equal(t, uint16(1), d.Nlink)
	assert.Equal(t, uint32(0), d.Size)
}

func TestIallocExhaustsAtNINODES(t *testing.T) {
	b := newTestBuilder(t)
	b.freeinode = lfsfmt.NINODES

	_, err := b.Ialloc(lfsfmt.TypeFile)
	assert.ErrorIs(t, err, lfsfmt.ErrExhaustedInodes)
}
