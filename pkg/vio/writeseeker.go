// Package vio carries the small number of host-file-system helpers the LFS
// image builder needs: an infinite zero-byte reader used to source the
// all-zero blocks the image starts from.
package vio

import (
	"errors"
	"io"
)

var errClosed = errors.New("lazy readcloser already closed")

type zeroesReader struct {
}

func (rdr *zeroesReader) Read(p []byte) (n int, err error) {

	if len(p) == 0 {
		return
	}
	p[0] = 0
	for bp := 1; bp < len(p); bp *= 2 {
		copy(p[bp:], p[:bp])
	}

	return len(p), nil
}

// Zeroes is an infinite stream of zero bytes.
var Zeroes = io.Reader(&zeroesReader{})
