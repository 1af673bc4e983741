// Copyright 2024 The flatfs Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

// Package bytesutil holds helpers for NUL-padded fixed-width fields.
package bytesutil

import (
	"bytes"
	"fmt"
)

// TrimNul returns the prefix of b before the first NUL byte, or all of b if
// it contains none.  The result aliases b.
func TrimNul(b []byte) []byte {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		return b[:i]
	}
	return b
}

// Pad returns a new width-byte slice holding b followed by NUL bytes.
func Pad(b []byte, width int) ([]byte, error) {
	if len(b) > width {
		return nil, fmt.Errorf("field of %d bytes doesn't fit in %d", len(b), width)
	}
	out := make([]byte, width)
	copy(out, b)
	return out, nil
}
