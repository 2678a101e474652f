package lfsfmt

import "errors"

// Sentinel errors for the four error kinds spec.md §7 defines. Callers wrap
// these with fmt.Errorf("...: %w", err) at the point of failure, the same
// idiom the teacher's cmd layer uses rather than a third-party errors
// package.
var (
	// ErrExhaustedInodes is returned when the inode allocator has no
	// more inode numbers to hand out.
	ErrExhaustedInodes = errors.New("lfsfmt: out of inodes")

	// ErrExhaustedBlocks is returned when the block allocator would
	// cross FSSIZE.
	ErrExhaustedBlocks = errors.New("lfsfmt: out of blocks")

	// ErrExhaustedBuffers names the condition where every buffer is
	// pinned and a new (dev, blockno) pair is requested. The buffer cache
	// itself reports that condition by returning nil from Bread, not by
	// returning this error.
	ErrExhaustedBuffers = errors.New("lfsfmt: no buffer available")

	// ErrFileTooLarge is returned when a file would grow past MAXFILE
	// blocks.
	ErrFileTooLarge = errors.New("lfsfmt: file exceeds maximum size")

	// ErrNameTooLong flags a directory entry name, after DIRSIZ
	// truncation rules are applied, that still can't be represented.
	ErrNameTooLong = errors.New("lfsfmt: name exceeds DIRSIZ")

	// ErrNameHasSlash is returned when stripping the "user/" prefix and
	// leading underscore from a CLI path argument still leaves a slash
	// in the resulting on-disk name.
	ErrNameHasSlash = errors.New("lfsfmt: on-disk name may not contain '/'")

	// ErrCorruptMagic flags a superblock whose magic number doesn't
	// match FSMAGIC.
	ErrCorruptMagic = errors.New("lfsfmt: superblock magic mismatch")

	// ErrCorruptSegmentEntry flags a segment summary entry whose fields
	// are inconsistent with its block type.
	ErrCorruptSegmentEntry = errors.New("lfsfmt: impossible segment summary entry")
)
