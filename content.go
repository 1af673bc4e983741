// Copyright 2024 The flatfs Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package flatfs

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dgryski/go-farm"

	"github.com/bpowers/flatfs/internal/bytesutil"
	"github.com/bpowers/flatfs/internal/layout"
)

func validateName(name string) error {
	if len(name) > layout.MaxNameLen {
		return fmt.Errorf("%w: %d > %d bytes", ErrNameTooLong, len(name), layout.MaxNameLen)
	}
	if strings.ContainsRune(name, '/') {
		return fmt.Errorf("%w: %q names a nested path", ErrUnsupportedPath, name)
	}
	return layout.ValidateName(name)
}

// CreateFile adds an empty file.  Directories can't be created.
func (fs *FS) CreateFile(name string, isDir bool) error {
	if err := fs.ready(); err != nil {
		return err
	}
	if isDir {
		return fmt.Errorf("%w: can't create directory %q", ErrUnsupportedPath, name)
	}
	if err := validateName(name); err != nil {
		return err
	}
	if ok, err := fs.exists(name); err != nil {
		return err
	} else if ok {
		return fmt.Errorf("%w: %q", ErrAlreadyExists, name)
	}
	if !layout.Fits(fs.dev.Size(), fs.count) {
		return fmt.Errorf("%w: can't fit file %d on a %d-byte device", ErrNoSpace, fs.count+1, fs.dev.Size())
	}

	slot := layout.Slot{Name: name, Addr: layout.ContentAddr(fs.count), Size: 0}
	if err := fs.appendEntry(slot); err != nil {
		return err
	}
	fs.names.Add(name, fs.count)
	fs.count++

	fs.logger.Debug("created file", "name", name, "slot", fs.count-1, "addr", slot.Addr)
	return nil
}

// Content returns the bytes last written to name.
func (fs *FS) Content(name string) ([]byte, error) {
	if err := fs.ready(); err != nil {
		return nil, err
	}
	e, err := fs.lookup(name)
	if err != nil {
		return nil, err
	}

	buf := make([]byte, layout.FileCapacity)
	if _, err := fs.dev.ReadAt(buf, e.Addr); err != nil {
		return nil, fmt.Errorf("dev.ReadAt(%d): %w", e.Addr, err)
	}
	// whatever follows the logical length is padding or stale
	size := min(e.Size, layout.FileCapacity)
	return buf[:size], nil
}

// SetContent replaces the content of name, creating the file if needed.
// Content longer than the per-file capacity is rejected and nothing changes.
func (fs *FS) SetContent(name string, content []byte) error {
	if err := fs.ready(); err != nil {
		return err
	}
	if len(content) > layout.FileCapacity {
		return fmt.Errorf("%w: %d > %d bytes", ErrContentTooLong, len(content), layout.FileCapacity)
	}

	if _, err := fs.lookup(name); errors.Is(err, ErrNotFound) {
		if err := fs.CreateFile(name, false); err != nil {
			return err
		}
	} else if err != nil {
		return err
	}

	padded, err := bytesutil.Pad(content, layout.FileCapacity)
	if err != nil {
		return err
	}
	e, err := fs.editEntry(name, name, len(content))
	if err != nil {
		return err
	}
	if _, err := fs.dev.WriteAt(padded, e.Addr); err != nil {
		return fmt.Errorf("dev.WriteAt(%d): %w", e.Addr, err)
	}

	fs.logger.Debug("set content", "name", name, "size", len(content))
	return nil
}

// Rename gives the file oldName a new name.  Its slot, and so its content
// block, stay where they are.
func (fs *FS) Rename(oldName, newName string) error {
	if err := fs.ready(); err != nil {
		return err
	}
	e, err := fs.lookup(oldName)
	if err != nil {
		return err
	}
	if oldName == newName {
		return nil
	}
	if err := validateName(newName); err != nil {
		return err
	}
	if ok, err := fs.exists(newName); err != nil {
		return err
	} else if ok {
		return fmt.Errorf("%w: %q", ErrAlreadyExists, newName)
	}

	if _, err := fs.editEntry(oldName, newName, e.Size); err != nil {
		return err
	}
	fs.logger.Debug("renamed file", "from", oldName, "to", newName)
	return nil
}

// Checksum returns the farmhash fingerprint of the content of name.
func (fs *FS) Checksum(name string) (uint64, error) {
	content, err := fs.Content(name)
	if err != nil {
		return 0, err
	}
	return farm.Fingerprint64(content), nil
}
