// Copyright 2024 The flatfs Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

// Package bitset tracks which of a small, fixed number of blocks are in use.
package bitset

import "math/bits"

// Bitset is conceptually a []bool of fixed length.  Out-of-range positions
// are never set.
type Bitset struct {
	bits   []uint64
	length int
}

func New(length int) *Bitset {
	if length < 0 {
		length = 0
	}
	return &Bitset{
		bits:   make([]uint64, (length+63)/64),
		length: length,
	}
}

func (b *Bitset) inRange(i int) bool {
	return i >= 0 && i < b.length
}

func (b *Bitset) Set(i int) {
	if !b.inRange(i) {
		return
	}
	b.bits[i/64] |= 1 << (uint(i) % 64)
}

func (b *Bitset) Clear(i int) {
	if !b.inRange(i) {
		return
	}
	b.bits[i/64] &^= 1 << (uint(i) % 64)
}

func (b *Bitset) IsSet(i int) bool {
	if !b.inRange(i) {
		return false
	}
	return b.bits[i/64]&(1<<(uint(i)%64)) != 0
}

// TestAndSet sets bit i and reports whether it was already set.
func (b *Bitset) TestAndSet(i int) bool {
	was := b.IsSet(i)
	b.Set(i)
	return was
}

// Count returns the number of set bits.
func (b *Bitset) Count() int {
	n := 0
	for _, w := range b.bits {
		n += bits.OnesCount64(w)
	}
	return n
}

func (b *Bitset) Len() int {
	return b.length
}
