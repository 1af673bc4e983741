// Copyright 2024 The flatfs Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

// Package index maps file names to candidate table slots in memory.  It is
// rebuilt from the table each time a device is opened and never persisted.
package index

import (
	"github.com/dgryski/go-farm"

	"github.com/bpowers/flatfs/internal/unsafestring"
)

const seed = 0

func hashName(name string) uint64 {
	return farm.Hash64WithSeed(unsafestring.ToBytes(name), seed)
}

// Names buckets slot numbers by the hash of the name stored in them.  A
// lookup returns every slot whose name hashes the same as the query, in
// ascending slot order; callers must confirm the name by reading the slot.
type Names struct {
	buckets map[uint64][]int
	n       int
}

func New() *Names {
	return &Names{buckets: make(map[uint64][]int)}
}

func (x *Names) Add(name string, slot int) {
	h := hashName(name)
	bucket := x.buckets[h]
	i := len(bucket)
	for i > 0 && bucket[i-1] > slot {
		i--
	}
	if i > 0 && bucket[i-1] == slot {
		return
	}
	bucket = append(bucket, 0)
	copy(bucket[i+1:], bucket[i:])
	bucket[i] = slot
	x.buckets[h] = bucket
	x.n++
}

func (x *Names) Remove(name string, slot int) {
	h := hashName(name)
	bucket := x.buckets[h]
	for i, s := range bucket {
		if s != slot {
			continue
		}
		bucket = append(bucket[:i], bucket[i+1:]...)
		if len(bucket) == 0 {
			delete(x.buckets, h)
		} else {
			x.buckets[h] = bucket
		}
		x.n--
		return
	}
}

// Candidates returns the slots that may hold name.  The returned slice must
// not be modified.
func (x *Names) Candidates(name string) []int {
	return x.buckets[hashName(name)]
}

func (x *Names) Len() int {
	return x.n
}

func (x *Names) Reset() {
	clear(x.buckets)
	x.n = 0
}
