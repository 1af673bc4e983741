// Copyright 2024 The flatfs Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package flatfs

import (
	"errors"

	"github.com/bpowers/flatfs/internal/layout"
)

var (
	ErrNotFound        = errors.New("file not found")
	ErrAlreadyExists   = errors.New("a file with this name already exists")
	ErrNameTooLong     = layout.ErrNameTooLong
	ErrInvalidName     = layout.ErrInvalidName
	ErrContentTooLong  = errors.New("content too long")
	ErrUnsupportedPath = errors.New("not supported: flatfs has a single flat root directory")
	ErrNoSpace         = errors.New("no space left on device")
	ErrCorrupt         = errors.New("device corrupted")
	ErrClosed          = errors.New("flatfs is closed")
)
