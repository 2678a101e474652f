package lfsfmt

// Inode types, stored in a dinode's Type field.
const (
	TypeFree = 0
	TypeDir  = 1
	TypeFile = 2
	TypeDev  = 3
)

// dinodeSize is the encoded size, in bytes, of one Dinode:
// type(2) + major(2) + minor(2) + nlink(2) + size(4) + addrs[13](4 each).
const dinodeSize = 2 + 2 + 2 + 2 + 4 + (NDIRECT+1)*4

// Dinode is the on-disk inode: type, device numbers, link count, byte size,
// and NDIRECT direct block pointers plus one single-indirect pointer.
type Dinode struct {
	Type  uint16
	Major uint16
	Minor uint16
	Nlink uint16
	Size  uint32
	Addrs [NDIRECT + 1]uint32
}

// Encode serializes the dinode into a dinodeSize-byte buffer.
func (d Dinode) Encode(b []byte) {
	PutEnc16(b, 0, d.Type)
	PutEnc16(b, 2, d.Major)
	PutEnc16(b, 4, d.Minor)
	PutEnc16(b, 6, d.Nlink)
	PutEnc32(b, 8, d.Size)
	off := 12
	for _, a := range d.Addrs {
		PutEnc32(b, off, a)
		off += 4
	}
}

// DecodeDinode is the inverse of Dinode.Encode.
func DecodeDinode(b []byte) Dinode {
	var d Dinode
	d.Type = Dec16(b[0:2])
	d.Major = Dec16(b[2:4])
	d.Minor = Dec16(b[4:6])
	d.Nlink = Dec16(b[6:8])
	d.Size = Dec32(b[8:12])
	off := 12
	for i := range d.Addrs {
		d.Addrs[i] = Dec32(b[off : off+4])
		off += 4
	}
	return d
}

// inodesPerBlock is how many dinodes fit in one BSIZE block. The image
// builder allocates one whole block per inode (spec.md §4.3), so only the
// first dinodeSize bytes of that block are meaningful; this constant exists
// for documentation and for a future denser inode-block layout.
const inodesPerBlock = BSIZE / dinodeSize

// direntSize is the encoded size, in bytes, of one Dirent: inum(2) +
// name[DIRSIZ].
const direntSize = 2 + DIRSIZ

// Dirent is a directory entry: an inode number and a fixed-width,
// NUL-padded name.
type Dirent struct {
	Inum uint16
	Name [DIRSIZ]byte
}

// NewDirent builds a Dirent, truncating name to DIRSIZ bytes if necessary.
func NewDirent(inum uint16, name string) Dirent {
	var d Dirent
	d.Inum = inum
	n := copy(d.Name[:], name)
	_ = n
	return d
}

// Encode serializes the directory entry into a direntSize-byte buffer.
func (d Dirent) Encode(b []byte) {
	PutEnc16(b, 0, d.Inum)
	copy(b[2:2+DIRSIZ], d.Name[:])
}

// DecodeDirent is the inverse of Dirent.Encode.
func DecodeDirent(b []byte) Dirent {
	var d Dirent
	d.Inum = Dec16(b[0:2])
	copy(d.Name[:], b[2:2+DIRSIZ])
	return d
}

// NameString returns the entry's name with trailing NUL bytes trimmed.
func (d Dirent) NameString() string {
	i := 0
	for i < len(d.Name) && d.Name[i] != 0 {
		i++
	}
	return string(d.Name[:i])
}

// DirentsPerBlock is the number of directory entries that fit in one block.
const DirentsPerBlock = BSIZE / direntSize
