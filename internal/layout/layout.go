// Copyright 2024 The flatfs Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package layout

const (
	Magic   = "MYFS"
	Version = 0x03

	MagicSize  = len(Magic)
	HeaderSize = MagicSize + 1

	CountOffset = HeaderSize
	CountSize   = 11

	TableStart = 16
	SlotSize   = 32

	ContentStart = 1024
	FileCapacity = 1024

	MaxNameLen = 20
	Delimiter  = '|'

	// MaxSlots is the number of slots that fit between TableStart and
	// ContentStart.
	MaxSlots = (ContentStart - TableStart) / SlotSize

	// DeviceSize is the smallest device that can hold MaxSlots files.
	DeviceSize = ContentStart + MaxSlots*FileCapacity
)

// SlotOffset returns the absolute offset of table slot i.
func SlotOffset(i int) int64 {
	return int64(TableStart + i*SlotSize)
}

// ContentAddr returns the absolute offset of the content block owned by the
// file in slot i.
func ContentAddr(i int) int64 {
	return int64(ContentStart + i*FileCapacity)
}

// SlotForAddr is the inverse of ContentAddr.  ok is false when addr is not
// the start of a content block.
func SlotForAddr(addr int64) (i int, ok bool) {
	if addr < ContentStart || (addr-ContentStart)%FileCapacity != 0 {
		return 0, false
	}
	return int((addr - ContentStart) / FileCapacity), true
}

// Fits reports whether a device of devSize bytes can hold the content block
// of slot i.
func Fits(devSize int64, i int) bool {
	return i < MaxSlots && ContentAddr(i)+FileCapacity <= devSize
}
