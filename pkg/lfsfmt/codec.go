package lfsfmt

/**
 * SPDX-License-Identifier: Apache-2.0
 */

// All multi-byte integers on disk are fixed little-endian, regardless of
// host byte order. Every on-disk struct in this package is read and written
// through these functions rather than by memcpy-ing a host struct to disk.

// Enc16 lays x out least-significant byte first.
func Enc16(x uint16) [2]byte {
	return [2]byte{byte(x), byte(x >> 8)}
}

// Enc32 lays x out least-significant byte first.
func Enc32(x uint32) [4]byte {
	return [4]byte{byte(x), byte(x >> 8), byte(x >> 16), byte(x >> 24)}
}

// Dec16 is the inverse of Enc16.
func Dec16(b []byte) uint16 {
	return uint16(b[0]) | uint16(b[1])<<8
}

// Dec32 is the inverse of Enc32.
func Dec32(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}

// PutEnc16 writes x into b[off:off+2].
func PutEnc16(b []byte, off int, x uint16) {
	e := Enc16(x)
	copy(b[off:off+2], e[:])
}

// PutEnc32 writes x into b[off:off+4].
func PutEnc32(b []byte, off int, x uint32) {
	e := Enc32(x)
	copy(b[off:off+4], e[:])
}
