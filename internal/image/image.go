// Copyright 2024 The flatfs Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

// Package image copies whole device images to and from zstd streams.
package image

import (
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
)

// maxDecoderMemory bounds what a hostile stream can make the decoder allocate.
const maxDecoderMemory = 64 << 20

var ErrSizeMismatch = errors.New("image size doesn't match device")

// Device is the part of a block device an image is taken from.
type Device interface {
	io.ReaderAt
	Size() int64
}

// WritableDevice is the part of a block device an image is restored onto.
type WritableDevice interface {
	io.WriterAt
	Size() int64
}

// Export writes a compressed copy of every byte of dev to w.
func Export(dev Device, w io.Writer) (int64, error) {
	enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
	if err != nil {
		return 0, fmt.Errorf("zstd.NewWriter: %w", err)
	}

	n, err := io.Copy(enc, io.NewSectionReader(dev, 0, dev.Size()))
	if err != nil {
		enc.Close()
		return n, fmt.Errorf("io.Copy: %w", err)
	}
	if err := enc.Close(); err != nil {
		return n, fmt.Errorf("enc.Close: %w", err)
	}
	return n, nil
}

// Import overwrites dev with the image read from r.  The image must be
// exactly dev.Size() bytes once decompressed.
func Import(r io.Reader, dev WritableDevice) (int64, error) {
	dec, err := zstd.NewReader(r, zstd.WithDecoderMaxMemory(maxDecoderMemory))
	if err != nil {
		return 0, fmt.Errorf("zstd.NewReader: %w", err)
	}
	defer dec.Close()

	size := dev.Size()
	n, err := io.CopyN(io.NewOffsetWriter(dev, 0), dec, size)
	if errors.Is(err, io.EOF) {
		return n, fmt.Errorf("%w: image has %d bytes, device has %d", ErrSizeMismatch, n, size)
	} else if err != nil {
		return n, fmt.Errorf("io.CopyN: %w", err)
	}

	var extra [1]byte
	if m, _ := io.ReadFull(dec, extra[:]); m != 0 {
		return n, fmt.Errorf("%w: image is larger than the %d-byte device", ErrSizeMismatch, size)
	}
	return n, nil
}
