package lfsbuild

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kaist-cp/rv6lfs/pkg/lfsfmt"
)

func TestStripInputNameRules(t *testing.T) {
	cases := []struct {
		arg     string
		want    string
		wantErr bool
	}{
		{"user/motd", "motd", false},
		{"_hidden", "hidden", false},
		{"plain.txt", "plain.txt", false},
		{"user/_both", "both", false},
		{"user/sub/dir", "", true},
	}

	for _, c := range cases {
		got, err := stripInputName(c.arg)
		if c.wantErr {
			assert.ErrorIs(t, err, lfsfmt.ErrNameHasSlash, "arg %q", c.arg)
			continue
		}
		require.NoError(t, err, "arg %q", c.arg)
		assert.Equal(t, c.want, got, "arg %q", c.arg)
	}
}

func readBlockAt(t *testing.T, f *os.File, bn int64) []byte {
	t.Helper()
	buf := make([]byte, lfsfmt.BSIZE)
	_, err := f.ReadAt(buf, bn*lfsfmt.BSIZE)
	require.NoError(t, err)
	return buf
}

func readDinodeAt(t *testing.T, f *os.File, imap []uint32, inum uint32) lfsfmt.Dinode {
	t.Helper()
	chunk, offset := lfsfmt.ImapChunkAndOffset(int64(inum))
	block := readBlockAt(t, f, int64(imap[chunk]))
	entries := lfsfmt.DimapDecode(block)
	dinodeBlock := readBlockAt(t, f, int64(entries[offset]))
	return lfsfmt.DecodeDinode(dinodeBlock)
}

func TestBuildProducesRootDirectoryWithStrippedNames(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "user"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "user", "motd"), []byte("welcome\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "user", "_hidden"), []byte("secret\n"), 0644))

	cwd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(cwd) })

	imagePath := "fs.img"
	err = Build(imagePath, []string{"user/motd", "user/_hidden"}, nil)
	require.NoError(t, err)

	f, err := os.Open(imagePath)
	require.NoError(t, err)
	defer f.Close()

	sbBlock := readBlockAt(t, f, lfsfmt.SuperblockNo)
	sb := lfsfmt.DecodeSuperblock(sbBlock)
	require.True(t, sb.Valid())

	nImap := int(lfsfmt.NInodeMap(lfsfmt.NINODES))
	segTableBytes := int(lfsfmt.SegTableBytes(lfsfmt.NSeg(lfsfmt.FSSIZE)))
	cp1Block := readBlockAt(t, f, lfsfmt.CheckpointBlock1)
	cp1 := lfsfmt.DecodeCheckpoint(cp1Block, nImap, segTableBytes)

	root := readDinodeAt(t, f, cp1.Imap, lfsfmt.ROOTINO)
	assert.Equal(t, uint16(lfsfmt.TypeDir), root.Type)
	assert.Zero(t, int(root.Size)%lfsfmt.BSIZE, "root directory size must be a full block multiple")

	names := map[string]bool{}
	for fbn := uint32(0); int64(fbn)*lfsfmt.BSIZE < int64(root.Size); fbn++ {
		block := readBlockAt(t, f, int64(root.Addrs[fbn]))
		for off := 0; off+2+lfsfmt.DIRSIZ <= lfsfmt.BSIZE; off += 2 + lfsfmt.DIRSIZ {
			d := lfsfmt.DecodeDirent(block[off : off+2+lfsfmt.DIRSIZ])
			if d.Inum != 0 {
				names[d.NameString()] = true
			}
		}
	}

	assert.True(t, names["."])
	assert.True(t, names[".."])
	assert.True(t, names["motd"])
	assert.True(t, names["hidden"])
}

func TestBuildRejectsInputNameWithSlash(t *testing.T) {
	dir := t.TempDir()
	nested := filepath.Join(dir, "user", "sub")
	require.NoError(t, os.MkdirAll(nested, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(nested, "leaf"), []byte("x"), 0644))

	cwd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(cwd) })

	err = Build("fs.img", []string{"user/sub/leaf"}, nil)
	assert.ErrorIs(t, err, lfsfmt.ErrNameHasSlash)
}
