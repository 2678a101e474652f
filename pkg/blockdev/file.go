package blockdev

import (
	"fmt"
	"os"
)

// FileDevice is a Device backed by a single host file, large enough to hold
// FSSIZE blocks. It is what the image builder writes through.
type FileDevice struct {
	f *os.File
}

// OpenFileDevice opens (creating if necessary) path as a block device of
// nblocks blocks, truncating it to exactly that size.
func OpenFileDevice(path string, nblocks int64) (*FileDevice, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0644)
	if err != nil {
		return nil, fmt.Errorf("opening image %q: %w", path, err)
	}

	if err := f.Truncate(nblocks * BSIZE); err != nil {
		f.Close()
		return nil, fmt.Errorf("sizing image %q to %d blocks: %w", path, nblocks, err)
	}

	return &FileDevice{f: f}, nil
}

// ReadBlock implements Device.
func (d *FileDevice) ReadBlock(blockno int64, buf []byte) bool {
	if len(buf) != BSIZE {
		return false
	}
	tmp := make([]byte, BSIZE)
	n, err := d.f.ReadAt(tmp, blockno*BSIZE)
	if err != nil || n != BSIZE {
		return false
	}
	copy(buf, tmp)
	return true
}

// WriteBlock implements Device.
func (d *FileDevice) WriteBlock(blockno int64, buf []byte) bool {
	if len(buf) != BSIZE {
		return false
	}
	n, err := d.f.WriteAt(buf, blockno*BSIZE)
	return err == nil && n == BSIZE
}

// Close releases the underlying file descriptor.
func (d *FileDevice) Close() error {
	return d.f.Close()
}

// Sync forces any buffered writes to the host file system.
func (d *FileDevice) Sync() error {
	return d.f.Sync()
}
