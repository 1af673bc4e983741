// Copyright 2024 The flatfs Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

// Package ondisk provides fixed-stride arrays of records stored at an offset
// within a positioned reader/writer.
package ondisk

import (
	"fmt"
	"io"

	"github.com/bpowers/flatfs/internal/layout"
)

type ReadWriterAt interface {
	io.ReaderAt
	io.WriterAt
}

// Slots is the file table: len fixed-size slots starting at off.
type Slots struct {
	rwa ReadWriterAt
	len int   // length in number of slots
	off int64 // offset in bytes of the first slot
}

func NewSlots(rwa ReadWriterAt, len int, off int64) *Slots {
	return &Slots{
		rwa: rwa,
		len: len,
		off: off,
	}
}

// NewTable returns the file table at its standard location.
func NewTable(rwa ReadWriterAt) *Slots {
	return NewSlots(rwa, layout.MaxSlots, layout.TableStart)
}

func (s *Slots) Len() int {
	return s.len
}

// Offset returns the absolute byte offset of slot i.
func (s *Slots) Offset(i int) int64 {
	return s.off + int64(i*layout.SlotSize)
}

func (s *Slots) Get(i int) (layout.Slot, error) {
	var slot layout.Slot
	if i < 0 || i >= s.len {
		return slot, fmt.Errorf("slot (%d) out of range (len %d)", i, s.len)
	}
	var buf [layout.SlotSize]byte
	if _, err := s.rwa.ReadAt(buf[:], s.Offset(i)); err != nil {
		return slot, fmt.Errorf("ReadAt(slot %d): %w", i, err)
	}
	if err := slot.UnmarshalBytes(buf[:]); err != nil {
		return slot, fmt.Errorf("slot %d: %w", i, err)
	}
	return slot, nil
}

func (s *Slots) Set(i int, slot layout.Slot) error {
	if i < 0 || i >= s.len {
		return fmt.Errorf("slot (%d) out of range (len %d)", i, s.len)
	}
	var buf [layout.SlotSize]byte
	if err := slot.MarshalTo(buf[:]); err != nil {
		return err
	}
	if _, err := s.rwa.WriteAt(buf[:], s.Offset(i)); err != nil {
		return fmt.Errorf("WriteAt(slot %d): %w", i, err)
	}
	return nil
}
