// Copyright 2024 The flatfs Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package flatfs

import (
	"errors"
	"fmt"

	"github.com/bpowers/flatfs/internal/layout"
)

// entry is a decoded slot plus where it lives.
type entry struct {
	layout.Slot
	slot int
	off  int64
}

// lookup returns the first live slot, in creation order, whose name is
// exactly name.  The index only narrows the search: every candidate is read
// back from the device before it is trusted.
func (fs *FS) lookup(name string) (entry, error) {
	for _, i := range fs.names.Candidates(name) {
		if i >= fs.count {
			break
		}
		slot, err := fs.table.Get(i)
		if errors.Is(err, layout.ErrBadSlot) {
			continue
		} else if err != nil {
			return entry{}, fmt.Errorf("table.Get: %w", err)
		}
		if slot.Name == name {
			return entry{Slot: slot, slot: i, off: fs.table.Offset(i)}, nil
		}
	}
	return entry{}, fmt.Errorf("%w: %q", ErrNotFound, name)
}

func (fs *FS) exists(name string) (bool, error) {
	_, err := fs.lookup(name)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

// appendEntry writes slot just past the last live slot.  It doesn't check
// for duplicate names or bump the count; that is up to the caller.
func (fs *FS) appendEntry(slot layout.Slot) error {
	if err := fs.table.Set(fs.count, slot); err != nil {
		return fmt.Errorf("table.Set: %w", err)
	}
	return nil
}

// editEntry rewrites the slot currently holding current in place, keeping
// its content address.
func (fs *FS) editEntry(current, name string, size int) (entry, error) {
	e, err := fs.lookup(current)
	if err != nil {
		return entry{}, err
	}

	updated := layout.Slot{Name: name, Addr: e.Addr, Size: size}
	if err := fs.table.Set(e.slot, updated); err != nil {
		return entry{}, fmt.Errorf("table.Set: %w", err)
	}
	if name != current {
		fs.names.Remove(current, e.slot)
		fs.names.Add(name, e.slot)
	}

	e.Slot = updated
	return e, nil
}
