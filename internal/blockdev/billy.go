// Copyright 2024 The flatfs Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package blockdev

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync/atomic"

	"github.com/go-git/go-billy/v5"
)

// Billy is a Device stored as a single file inside a go-billy filesystem,
// e.g. memfs for tests or osfs chrooted at a data directory.
type Billy struct {
	f        billy.File
	size     int64
	isClosed atomic.Bool
}

var _ Device = (*Billy)(nil)

// OpenBilly opens (creating if needed) name in bfs and zero-extends it to
// size bytes.
func OpenBilly(bfs billy.Filesystem, name string, size int64) (*Billy, error) {
	if size <= 0 {
		return nil, fmt.Errorf("invalid device size %d", size)
	}
	f, err := bfs.OpenFile(name, os.O_RDWR|os.O_CREATE, 0644)
	if err != nil {
		return nil, fmt.Errorf("bfs.OpenFile(%s): %w", name, err)
	}
	cur, err := f.Seek(0, io.SeekEnd)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("f.Seek: %w", err)
	}
	if cur < size {
		// not every backend zero-fills on Truncate, so write the zeroes
		if _, err := f.Write(make([]byte, size-cur)); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("f.Write(zeroes): %w", err)
		}
	}
	return &Billy{f: f, size: size}, nil
}

func (d *Billy) ReadAt(p []byte, off int64) (int, error) {
	if d.isClosed.Load() {
		return 0, ErrClosed
	}
	if err := checkRange(d.size, len(p), off); err != nil {
		return 0, err
	}
	n, err := d.f.ReadAt(p, off)
	if n == len(p) && errors.Is(err, io.EOF) {
		err = nil
	}
	if err != nil {
		return n, fmt.Errorf("f.ReadAt(%d, len: %d): %w", off, len(p), err)
	}
	return n, nil
}

func (d *Billy) WriteAt(p []byte, off int64) (int, error) {
	if d.isClosed.Load() {
		return 0, ErrClosed
	}
	if err := checkRange(d.size, len(p), off); err != nil {
		return 0, err
	}
	if wa, ok := d.f.(io.WriterAt); ok {
		n, err := wa.WriteAt(p, off)
		if err != nil {
			return n, fmt.Errorf("f.WriteAt(%d, len: %d): %w", off, len(p), err)
		}
		return n, nil
	}
	if _, err := d.f.Seek(off, io.SeekStart); err != nil {
		return 0, fmt.Errorf("f.Seek(%d): %w", off, err)
	}
	n, err := d.f.Write(p)
	if err != nil {
		return n, fmt.Errorf("f.Write(len: %d): %w", len(p), err)
	}
	return n, nil
}

func (d *Billy) Size() int64 {
	return d.size
}

// Sync flushes the file when the billy backend supports it; memfs doesn't.
func (d *Billy) Sync() error {
	if s, ok := d.f.(interface{ Sync() error }); ok {
		return s.Sync()
	}
	return nil
}

func (d *Billy) Close() error {
	if d.isClosed.Swap(true) {
		return nil
	}
	return d.f.Close()
}
