// Copyright 2024 The flatfs Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package layout

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"

	"github.com/bpowers/flatfs/internal/bytesutil"
)

var (
	ErrNameTooLong = errors.New("file name is too long")
	ErrInvalidName = errors.New("invalid file name")
	ErrBadSlot     = errors.New("bad table slot")
)

// Slot is one decoded file table record.
type Slot struct {
	Name string
	Addr int64
	Size int
}

// ValidateName checks that name can be stored in a slot and parsed back
// unambiguously.
func ValidateName(name string) error {
	if len(name) > MaxNameLen {
		return fmt.Errorf("%w: %d > %d bytes", ErrNameTooLong, len(name), MaxNameLen)
	}
	if len(name) == 0 {
		return fmt.Errorf("%w: empty", ErrInvalidName)
	}
	for i := 0; i < len(name); i++ {
		if c := name[i]; c == Delimiter || c == 0 {
			return fmt.Errorf("%w: %q contains byte %q", ErrInvalidName, name, c)
		}
	}
	return nil
}

// MarshalTo encodes s as name|addr|size into buf, NUL-padding the rest of
// the slot.
func (s *Slot) MarshalTo(buf []byte) error {
	if len(buf) < SlotSize {
		return fmt.Errorf("buf too short: %d < %d", len(buf), SlotSize)
	}
	if err := ValidateName(s.Name); err != nil {
		return err
	}
	if s.Addr < 0 {
		return fmt.Errorf("%w: negative address %d", ErrBadSlot, s.Addr)
	}
	if s.Size < 0 || s.Size > FileCapacity {
		return fmt.Errorf("%w: size %d out of range [0, %d]", ErrBadSlot, s.Size, FileCapacity)
	}

	text := make([]byte, 0, SlotSize)
	text = append(text, s.Name...)
	text = append(text, Delimiter)
	text = strconv.AppendInt(text, s.Addr, 10)
	text = append(text, Delimiter)
	text = strconv.AppendInt(text, int64(s.Size), 10)

	padded, err := bytesutil.Pad(text, SlotSize)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBadSlot, err)
	}
	copy(buf[:SlotSize], padded)
	return nil
}

func (s *Slot) UnmarshalBytes(buf []byte) error {
	if len(buf) < SlotSize {
		return fmt.Errorf("buf too short: %d < %d", len(buf), SlotSize)
	}
	text := bytesutil.TrimNul(buf[:SlotSize])

	fields := bytes.Split(text, []byte{Delimiter})
	if len(fields) != 3 {
		return fmt.Errorf("%w: %q has %d fields", ErrBadSlot, text, len(fields))
	}
	if len(fields[0]) == 0 {
		return fmt.Errorf("%w: %q has an empty name", ErrBadSlot, text)
	}
	addr, err := strconv.ParseInt(string(fields[1]), 10, 64)
	if err != nil || addr < 0 {
		return fmt.Errorf("%w: %q has address %q", ErrBadSlot, text, fields[1])
	}
	size, err := strconv.Atoi(string(fields[2]))
	if err != nil || size < 0 {
		return fmt.Errorf("%w: %q has size %q", ErrBadSlot, text, fields[2])
	}

	s.Name = string(fields[0])
	s.Addr = addr
	s.Size = size
	return nil
}
