// Copyright 2024 The flatfs Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

//go:build !linux && !darwin

package blockdev

import "errors"

var errMmapUnsupported = errors.New("mmap devices are only supported on linux and darwin")

// Mmap is unavailable on this platform; use OpenFile instead.
type Mmap struct {
	File
}

func OpenMmap(path string, size int64) (*Mmap, error) {
	return nil, errMmapUnsupported
}
