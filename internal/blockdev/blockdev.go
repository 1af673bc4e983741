// Copyright 2024 The flatfs Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

// Package blockdev provides fixed-size, byte-addressable block stores for
// flatfs to live on.
package blockdev

import (
	"errors"
	"fmt"
	"io"
)

var (
	ErrOutOfRange = errors.New("access out of device range")
	ErrClosed     = errors.New("device closed")
)

// Device is a fixed-capacity medium supporting positioned reads and writes.
// Unlike an io.ReaderAt over a file, a short read is always an error: every
// byte in [0, Size()) exists.
type Device interface {
	io.ReaderAt
	io.WriterAt
	io.Closer
	Size() int64
}

// Syncer is implemented by devices that buffer writes.
type Syncer interface {
	Sync() error
}

func checkRange(size int64, n int, off int64) error {
	if off < 0 || off+int64(n) > size {
		return fmt.Errorf("%w: [%d, %d) on device of %d bytes", ErrOutOfRange, off, off+int64(n), size)
	}
	return nil
}

// Sync flushes dev if it buffers writes.
func Sync(dev Device) error {
	if s, ok := dev.(Syncer); ok {
		return s.Sync()
	}
	return nil
}
