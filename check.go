// Copyright 2024 The flatfs Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package flatfs

import (
	"errors"
	"fmt"

	"github.com/bpowers/flatfs/internal/bitset"
	"github.com/bpowers/flatfs/internal/layout"
)

// Check verifies the file table: every live slot decodes, points at its own
// content block inside the device, and holds a unique name and a size within
// capacity.  All problems found are joined into the returned error, each
// wrapping ErrCorrupt.
func (fs *FS) Check() error {
	if err := fs.ready(); err != nil {
		return err
	}

	var errs []error
	report := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: %s", ErrCorrupt, fmt.Sprintf(format, args...)))
	}

	blocks := bitset.New(layout.MaxSlots)
	names := make(map[string]int, fs.count)
	for i := 0; i < fs.count; i++ {
		slot, err := fs.table.Get(i)
		if errors.Is(err, layout.ErrBadSlot) {
			report("%v", err)
			continue
		} else if err != nil {
			return fmt.Errorf("table.Get: %w", err)
		}

		if want := layout.ContentAddr(i); slot.Addr != want {
			report("slot %d (%q): address %d, expected %d", i, slot.Name, slot.Addr, want)
		}
		if blk, ok := layout.SlotForAddr(slot.Addr); !ok || blk >= layout.MaxSlots {
			report("slot %d (%q): address %d is not a content block", i, slot.Name, slot.Addr)
		} else if blocks.TestAndSet(blk) {
			report("slot %d (%q): content block at %d is shared", i, slot.Name, slot.Addr)
		}
		if slot.Addr+layout.FileCapacity > fs.dev.Size() {
			report("slot %d (%q): content at %d runs past the device end (%d)", i, slot.Name, slot.Addr, fs.dev.Size())
		}
		if slot.Size > layout.FileCapacity {
			report("slot %d (%q): size %d exceeds capacity %d", i, slot.Name, slot.Size, layout.FileCapacity)
		}
		if j, dup := names[slot.Name]; dup {
			report("slot %d: name %q already used by slot %d", i, slot.Name, j)
		} else {
			names[slot.Name] = i
		}
	}

	return errors.Join(errs...)
}
