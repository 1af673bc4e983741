// Copyright 2024 The flatfs Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package blockdev

import (
	"fmt"
	"os"
	"sync/atomic"
)

// File is a Device backed by a regular file accessed with pread/pwrite.
type File struct {
	f        *os.File
	size     int64
	isClosed atomic.Bool
}

var _ Device = (*File)(nil)

// OpenFile opens (creating if needed) the image at path and extends it with
// zeroes to size bytes.  Existing images larger than size are used as-is, but
// only the first size bytes are addressable.
func OpenFile(path string, size int64) (*File, error) {
	f, err := openSized(path, size)
	if err != nil {
		return nil, err
	}
	return &File{f: f, size: size}, nil
}

func openSized(path string, size int64) (*os.File, error) {
	if size <= 0 {
		return nil, fmt.Errorf("invalid device size %d", size)
	}
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0644)
	if err != nil {
		return nil, fmt.Errorf("os.OpenFile(%s): %w", path, err)
	}
	stats, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("f.Stat: %w", err)
	}
	if stats.Size() < size {
		if err := f.Truncate(size); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("f.Truncate(%d): %w", size, err)
		}
	}
	return f, nil
}

func (d *File) ReadAt(p []byte, off int64) (int, error) {
	if err := checkRange(d.size, len(p), off); err != nil {
		return 0, err
	}
	n, err := d.f.ReadAt(p, off)
	if err != nil {
		return n, fmt.Errorf("f.ReadAt(%d, len: %d): %w", off, len(p), err)
	}
	return n, nil
}

func (d *File) WriteAt(p []byte, off int64) (int, error) {
	if err := checkRange(d.size, len(p), off); err != nil {
		return 0, err
	}
	n, err := d.f.WriteAt(p, off)
	if err != nil {
		return n, fmt.Errorf("f.WriteAt(%d, len: %d): %w", off, len(p), err)
	}
	return n, nil
}

func (d *File) Size() int64 {
	return d.size
}

func (d *File) Sync() error {
	return d.f.Sync()
}

func (d *File) Close() error {
	if d.isClosed.Swap(true) {
		return nil
	}
	return d.f.Close()
}
