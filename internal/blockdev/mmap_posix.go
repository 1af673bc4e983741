// Copyright 2024 The flatfs Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

//go:build linux || darwin

package blockdev

import (
	"fmt"
	"os"
	"sync/atomic"

	"golang.org/x/sys/unix"
)

// Mmap is a Device backed by a shared, writable memory mapping of an image
// file.  This is how a disk simulator usually works: the image is the disk.
type Mmap struct {
	f        *os.File
	data     []byte
	isClosed atomic.Bool
}

var _ Device = (*Mmap)(nil)

// OpenMmap maps the first size bytes of the image at path, creating and
// zero-extending it as needed.
func OpenMmap(path string, size int64) (*Mmap, error) {
	f, err := openSized(path, size)
	if err != nil {
		return nil, err
	}

	data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("mmap(%s): %w", path, err)
	}
	// table lookups and content reads jump around the image
	if err := unix.Madvise(data, unix.MADV_RANDOM); err != nil {
		_ = unix.Munmap(data)
		_ = f.Close()
		return nil, fmt.Errorf("madvise: %w", err)
	}

	return &Mmap{f: f, data: data}, nil
}

func (m *Mmap) ReadAt(p []byte, off int64) (int, error) {
	if m.isClosed.Load() {
		return 0, ErrClosed
	}
	if err := checkRange(m.Size(), len(p), off); err != nil {
		return 0, err
	}
	return copy(p, m.data[off:]), nil
}

func (m *Mmap) WriteAt(p []byte, off int64) (int, error) {
	if m.isClosed.Load() {
		return 0, ErrClosed
	}
	if err := checkRange(m.Size(), len(p), off); err != nil {
		return 0, err
	}
	return copy(m.data[off:], p), nil
}

func (m *Mmap) Size() int64 {
	return int64(len(m.data))
}

func (m *Mmap) Sync() error {
	if m.isClosed.Load() {
		return ErrClosed
	}
	if err := unix.Msync(m.data, unix.MS_SYNC); err != nil {
		return fmt.Errorf("msync: %w", err)
	}
	return nil
}

func (m *Mmap) Close() error {
	if m.isClosed.Swap(true) {
		return nil
	}
	syncErr := unix.Msync(m.data, unix.MS_SYNC)
	unmapErr := unix.Munmap(m.data)
	closeErr := m.f.Close()
	m.data = nil
	switch {
	case syncErr != nil:
		return fmt.Errorf("msync: %w", syncErr)
	case unmapErr != nil:
		return fmt.Errorf("munmap: %w", unmapErr)
	default:
		return closeErr
	}
}
