// Copyright 2024 The flatfs Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package blockdev

// Memory is a Device backed by a byte slice.  The zero-filled slice models
// a blank disk.
type Memory struct {
	buf []byte
}

var _ Device = (*Memory)(nil)

func NewMemory(size int64) *Memory {
	return &Memory{buf: make([]byte, size)}
}

// NewMemoryFrom wraps buf without copying it.
func NewMemoryFrom(buf []byte) *Memory {
	return &Memory{buf: buf}
}

func (m *Memory) ReadAt(p []byte, off int64) (int, error) {
	if m.buf == nil {
		return 0, ErrClosed
	}
	if err := checkRange(m.Size(), len(p), off); err != nil {
		return 0, err
	}
	return copy(p, m.buf[off:]), nil
}

func (m *Memory) WriteAt(p []byte, off int64) (int, error) {
	if m.buf == nil {
		return 0, ErrClosed
	}
	if err := checkRange(m.Size(), len(p), off); err != nil {
		return 0, err
	}
	return copy(m.buf[off:], p), nil
}

func (m *Memory) Size() int64 {
	return int64(len(m.buf))
}

// Bytes returns the backing slice.
func (m *Memory) Bytes() []byte {
	return m.buf
}

func (m *Memory) Close() error {
	m.buf = nil
	return nil
}
