// Copyright 2024 The flatfs Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package layout

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeometry(t *testing.T) {
	require.Equal(t, 5, HeaderSize)
	require.Equal(t, 31, MaxSlots)
	require.LessOrEqual(t, CountOffset+CountSize, TableStart)
	require.LessOrEqual(t, int64(TableStart+MaxSlots*SlotSize), int64(ContentStart))

	require.Equal(t, int64(16), SlotOffset(0))
	require.Equal(t, int64(48), SlotOffset(1))
	require.Equal(t, int64(1024), ContentAddr(0))
	require.Equal(t, int64(3072), ContentAddr(2))

	for i := 0; i < MaxSlots; i++ {
		j, ok := SlotForAddr(ContentAddr(i))
		require.True(t, ok)
		require.Equal(t, i, j)
	}
	for _, addr := range []int64{0, 16, 1023, 1025, 2047} {
		_, ok := SlotForAddr(addr)
		assert.False(t, ok, "addr %d", addr)
	}

	assert.True(t, Fits(2048, 0))
	assert.False(t, Fits(2047, 0))
	assert.False(t, Fits(2048, 1))
	assert.True(t, Fits(DeviceSize, MaxSlots-1))
	assert.False(t, Fits(1<<30, MaxSlots))
}

func TestCount(t *testing.T) {
	for _, n := range []int{0, 1, 31, 99999999999} {
		buf, err := EncodeCount(n)
		require.NoError(t, err)
		require.Len(t, buf, CountSize)
		got, err := DecodeCount(buf)
		require.NoError(t, err)
		require.Equal(t, n, got)
	}

	buf, err := EncodeCount(7)
	require.NoError(t, err)
	require.Equal(t, []byte("7\x00\x00\x00\x00\x00\x00\x00\x00\x00\x00"), buf)

	_, err = EncodeCount(-1)
	require.ErrorIs(t, err, ErrBadCount)
	// too wide for the field
	_, err = EncodeCount(123456789012)
	require.Error(t, err)

	// a never-written field reads as zero
	n, err := DecodeCount(make([]byte, CountSize))
	require.NoError(t, err)
	require.Zero(t, n)

	for _, bad := range []string{"abc", "-3", "1|2", "\xff"} {
		field := make([]byte, CountSize)
		copy(field, bad)
		_, err := DecodeCount(field)
		require.ErrorIs(t, err, ErrBadCount, "input %q", bad)
	}

	_, err = DecodeCount([]byte("1"))
	require.Error(t, err)
}

func TestValidateName(t *testing.T) {
	require.NoError(t, ValidateName("readme"))
	require.NoError(t, ValidateName(strings.Repeat("x", MaxNameLen)))

	require.ErrorIs(t, ValidateName(strings.Repeat("x", MaxNameLen+1)), ErrNameTooLong)
	require.ErrorIs(t, ValidateName(""), ErrInvalidName)
	require.ErrorIs(t, ValidateName("a|b"), ErrInvalidName)
	require.ErrorIs(t, ValidateName("a\x00b"), ErrInvalidName)
}

func TestSlot_RoundTrip(t *testing.T) {
	for _, orig := range []Slot{
		{Name: "readme", Addr: ContentAddr(0), Size: 0},
		{Name: "hello world.txt", Addr: ContentAddr(5), Size: 5},
		{Name: strings.Repeat("n", MaxNameLen), Addr: ContentAddr(MaxSlots - 1), Size: FileCapacity},
	} {
		buf := make([]byte, SlotSize)
		require.NoError(t, orig.MarshalTo(buf))

		var got Slot
		require.NoError(t, got.UnmarshalBytes(buf))
		require.Equal(t, orig, got)
	}

	buf := make([]byte, SlotSize)
	s := Slot{Name: "readme", Addr: 1024, Size: 5}
	require.NoError(t, s.MarshalTo(buf))
	require.Equal(t, "readme|1024|5", strings.TrimRight(string(buf), "\x00"))
}

func TestSlot_MarshalErrors(t *testing.T) {
	buf := make([]byte, SlotSize)

	s := Slot{Name: "a", Addr: 1024}
	require.Error(t, s.MarshalTo(buf[:SlotSize-1]))

	s = Slot{Name: strings.Repeat("x", MaxNameLen+1), Addr: 1024}
	require.ErrorIs(t, s.MarshalTo(buf), ErrNameTooLong)

	s = Slot{Name: "a|b", Addr: 1024}
	require.ErrorIs(t, s.MarshalTo(buf), ErrInvalidName)

	s = Slot{Name: "a", Addr: -1}
	require.ErrorIs(t, s.MarshalTo(buf), ErrBadSlot)

	s = Slot{Name: "a", Addr: 1024, Size: FileCapacity + 1}
	require.ErrorIs(t, s.MarshalTo(buf), ErrBadSlot)

	// name, address and size together must fit in a slot
	s = Slot{Name: strings.Repeat("x", MaxNameLen), Addr: 1 << 40, Size: FileCapacity}
	require.ErrorIs(t, s.MarshalTo(buf), ErrBadSlot)

	// failed marshals don't touch the buffer
	require.Equal(t, make([]byte, SlotSize), buf)
}

func TestSlot_UnmarshalErrors(t *testing.T) {
	for _, bad := range []string{
		"",
		"readme",
		"readme|1024",
		"readme|1024|5|9",
		"|1024|5",
		"readme|x|5",
		"readme|1024|-5",
		"readme|-1024|5",
	} {
		buf := make([]byte, SlotSize)
		copy(buf, bad)
		var s Slot
		require.ErrorIs(t, s.UnmarshalBytes(buf), ErrBadSlot, "input %q", bad)
	}

	var s Slot
	require.Error(t, s.UnmarshalBytes(nil))
}
