// Copyright 2024 The flatfs Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package flatfs

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/bpowers/flatfs/internal/index"
	"github.com/bpowers/flatfs/internal/layout"
	"github.com/bpowers/flatfs/internal/ondisk"
)

// Device is the block store an FS lives on: positioned reads and writes over
// a fixed number of bytes.
type Device interface {
	io.ReaderAt
	io.WriterAt
	Size() int64
}

// Option configures an FS.
type Option func(*options)

type options struct {
	logger *slog.Logger
}

// WithLogger sets an optional logger for recovery, format and close events.
// If not provided, no logging output will be produced.
func WithLogger(logger *slog.Logger) Option {
	return func(opts *options) {
		opts.logger = logger
	}
}

// FS is an open flatfs instance.  It owns the in-memory file count, which is
// loaded by Open and stored by Close.
type FS struct {
	dev    Device
	table  *ondisk.Slots
	names  *index.Names
	count  int
	logger *slog.Logger
	closed bool
}

// Open recovers the flatfs instance on dev, or formats dev if it doesn't
// hold one written by this version.
func Open(dev Device, opts ...Option) (*FS, error) {
	var options options
	options.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	for _, opt := range opts {
		opt(&options)
	}

	if size := dev.Size(); size < layout.ContentStart {
		return nil, fmt.Errorf("%w: device of %d bytes can't hold the file table (need %d)", ErrNoSpace, size, layout.ContentStart)
	}

	fs := &FS{
		dev:    dev,
		table:  ondisk.NewTable(dev),
		names:  index.New(),
		logger: options.logger,
	}

	_, err := layout.ReadHeader(dev)
	switch {
	case errors.Is(err, layout.ErrBadMagic), errors.Is(err, layout.ErrBadVersion):
		fs.logger.Info("did not find flatfs instance on device, formatting", "reason", err.Error())
		if err := fs.format(); err != nil {
			return nil, err
		}
		return fs, nil
	case err != nil:
		return nil, fmt.Errorf("layout.ReadHeader: %w", err)
	}

	if err := fs.recover(); err != nil {
		return nil, err
	}
	return fs, nil
}

func (fs *FS) recover() error {
	var buf [layout.CountSize]byte
	if _, err := fs.dev.ReadAt(buf[:], int64(layout.CountOffset)); err != nil {
		return fmt.Errorf("dev.ReadAt(count): %w", err)
	}
	count, err := layout.DecodeCount(buf[:])
	if err != nil {
		return fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	if count > layout.MaxSlots {
		return fmt.Errorf("%w: file count %d exceeds table capacity %d", ErrCorrupt, count, layout.MaxSlots)
	}
	fs.count = count

	for i := 0; i < count; i++ {
		slot, err := fs.table.Get(i)
		if errors.Is(err, layout.ErrBadSlot) {
			fs.logger.Warn("skipping undecodable table slot", "slot", i, "error", err.Error())
			continue
		} else if err != nil {
			return fmt.Errorf("table.Get: %w", err)
		}
		fs.names.Add(slot.Name, i)
	}

	fs.logger.Info("recovered flatfs instance", "files", count)
	return nil
}

// Format writes a fresh header and forgets every file.  Table and content
// bytes are left in place but are unreachable.
func (fs *FS) Format() error {
	if err := fs.ready(); err != nil {
		return err
	}
	return fs.format()
}

func (fs *FS) format() error {
	h := layout.NewHeader()
	if err := h.WriteTo(fs.dev); err != nil {
		return fmt.Errorf("header.WriteTo: %w", err)
	}
	fs.count = 0
	fs.names.Reset()
	return nil
}

// Close persists the file count.  It is the only place the count is written;
// every other method fails with ErrClosed afterwards.
func (fs *FS) Close() error {
	if fs.closed {
		return nil
	}
	fs.closed = true

	buf, err := layout.EncodeCount(fs.count)
	if err != nil {
		return err
	}
	if _, err := fs.dev.WriteAt(buf, int64(layout.CountOffset)); err != nil {
		return fmt.Errorf("dev.WriteAt(count): %w", err)
	}
	if s, ok := fs.dev.(interface{ Sync() error }); ok {
		if err := s.Sync(); err != nil {
			return fmt.Errorf("dev.Sync: %w", err)
		}
	}

	fs.logger.Info("saved file count", "files", fs.count)
	return nil
}

// Len returns the number of files.
func (fs *FS) Len() int {
	return fs.count
}

func (fs *FS) ready() error {
	if fs.closed {
		return ErrClosed
	}
	return nil
}
