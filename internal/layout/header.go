// Copyright 2024 The flatfs Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package layout

import (
	"errors"
	"fmt"
	"io"
)

var (
	ErrBadMagic   = errors.New("bad magic")
	ErrBadVersion = errors.New("unsupported version")
)

type Header struct {
	Magic   [MagicSize]byte
	Version uint8
}

func NewHeader() Header {
	var h Header
	copy(h.Magic[:], Magic)
	h.Version = Version
	return h
}

func (h *Header) MarshalTo(buf []byte) error {
	if len(buf) < HeaderSize {
		return fmt.Errorf("buf too short: %d < %d", len(buf), HeaderSize)
	}
	copy(buf[:MagicSize], h.Magic[:])
	buf[MagicSize] = h.Version
	return nil
}

// UnmarshalBytes decodes a header and verifies it was written by this
// version of flatfs.  The decoded fields are kept even on error so callers
// can log what they found.
func (h *Header) UnmarshalBytes(buf []byte) error {
	if len(buf) < HeaderSize {
		return fmt.Errorf("buf too short: %d < %d", len(buf), HeaderSize)
	}

	copy(h.Magic[:], buf[:MagicSize])
	h.Version = buf[MagicSize]

	if string(h.Magic[:]) != Magic {
		return fmt.Errorf("%w %q -- not a flatfs device or corrupted", ErrBadMagic, h.Magic[:])
	}
	if h.Version != Version {
		return fmt.Errorf("%w: this version of flatfs can only read v%d devices; found v%d", ErrBadVersion, Version, h.Version)
	}
	return nil
}

func (h *Header) WriteTo(w io.WriterAt) error {
	var buf [HeaderSize]byte
	if err := h.MarshalTo(buf[:]); err != nil {
		return err
	}
	if _, err := w.WriteAt(buf[:], 0); err != nil {
		return fmt.Errorf("WriteAt: %w", err)
	}
	return nil
}

func ReadHeader(r io.ReaderAt) (Header, error) {
	var h Header
	var buf [HeaderSize]byte
	if _, err := r.ReadAt(buf[:], 0); err != nil {
		return h, fmt.Errorf("ReadAt: %w", err)
	}
	return h, h.UnmarshalBytes(buf[:])
}
