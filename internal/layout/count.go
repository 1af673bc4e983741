// Copyright 2024 The flatfs Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package layout

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/bpowers/flatfs/internal/bytesutil"
)

var ErrBadCount = errors.New("bad file count")

// EncodeCount renders n as decimal text NUL-padded to CountSize bytes.
func EncodeCount(n int) ([]byte, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: negative count %d", ErrBadCount, n)
	}
	return bytesutil.Pad([]byte(strconv.Itoa(n)), CountSize)
}

// DecodeCount parses a count field.  An all-NUL field decodes to zero.
func DecodeCount(buf []byte) (int, error) {
	if len(buf) < CountSize {
		return 0, fmt.Errorf("buf too short: %d < %d", len(buf), CountSize)
	}
	text := bytesutil.TrimNul(buf[:CountSize])
	if len(text) == 0 {
		return 0, nil
	}
	n, err := strconv.Atoi(string(text))
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: %q", ErrBadCount, text)
	}
	return n, nil
}
