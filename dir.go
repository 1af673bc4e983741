// Copyright 2024 The flatfs Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package flatfs

import (
	"errors"
	"fmt"

	"github.com/bpowers/flatfs/internal/layout"
)

// DirEntry describes one file in a listing.  IsDir is always false.
type DirEntry struct {
	Name  string
	IsDir bool
	Size  int
}

type pathKind uint8

const (
	rootPath pathKind = iota
	nestedPath
)

// classifyPath sorts a directory path into the only two kinds flatfs knows.
// The empty path is the root, as "/" is.
func classifyPath(path string) pathKind {
	if path == "" || path == "/" {
		return rootPath
	}
	return nestedPath
}

// ListDir returns the files under path in creation order.  Only the root
// directory exists; any other path fails with ErrUnsupportedPath.
func (fs *FS) ListDir(path string) ([]DirEntry, error) {
	if err := fs.ready(); err != nil {
		return nil, err
	}
	if classifyPath(path) != rootPath {
		return nil, fmt.Errorf("%w: can't list %q", ErrUnsupportedPath, path)
	}

	entries := make([]DirEntry, 0, fs.count)
	for i := 0; i < fs.count; i++ {
		slot, err := fs.table.Get(i)
		if errors.Is(err, layout.ErrBadSlot) {
			return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
		} else if err != nil {
			return nil, fmt.Errorf("table.Get: %w", err)
		}
		entries = append(entries, DirEntry{Name: slot.Name, Size: slot.Size})
	}
	return entries, nil
}

// Stat describes a single file.
func (fs *FS) Stat(name string) (DirEntry, error) {
	if err := fs.ready(); err != nil {
		return DirEntry{}, err
	}
	e, err := fs.lookup(name)
	if err != nil {
		return DirEntry{}, err
	}
	return DirEntry{Name: e.Name, Size: e.Size}, nil
}
