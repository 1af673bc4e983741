// Copyright 2024 The flatfs Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package flatfs

import (
	"bytes"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bpowers/flatfs/internal/blockdev"
	"github.com/bpowers/flatfs/internal/layout"
)

func openTestFS(t testing.TB, dev Device) *FS {
	fs, err := Open(dev)
	require.NoError(t, err)
	return fs
}

func reopen(t testing.TB, fs *FS) *FS {
	require.NoError(t, fs.Close())
	return openTestFS(t, fs.dev)
}

func TestOpen_FreshDevice(t *testing.T) {
	dev := blockdev.NewMemory(layout.DeviceSize)
	fs := openTestFS(t, dev)
	require.Zero(t, fs.Len())

	h, err := layout.ReadHeader(dev)
	require.NoError(t, err)
	require.Equal(t, layout.NewHeader(), h)

	entries, err := fs.ListDir("/")
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestOpen_RestoresCount(t *testing.T) {
	dev := blockdev.NewMemory(layout.DeviceSize)
	fs := openTestFS(t, dev)
	for _, name := range []string{"a", "b", "c"} {
		require.NoError(t, fs.CreateFile(name, false))
	}
	require.Equal(t, 3, fs.Len())

	fs = reopen(t, fs)
	require.Equal(t, 3, fs.Len())

	// the count is stored as padded decimal text
	require.Equal(t, []byte("3\x00\x00\x00\x00\x00\x00\x00\x00\x00\x00"), dev.Bytes()[layout.CountOffset:layout.CountOffset+layout.CountSize])
}

func TestOpen_CountOnlyPersistedAtClose(t *testing.T) {
	dev := blockdev.NewMemory(layout.DeviceSize)
	fs := openTestFS(t, dev)
	require.NoError(t, fs.CreateFile("a", false))
	require.NoError(t, fs.Close())

	fs = openTestFS(t, dev)
	require.NoError(t, fs.CreateFile("b", false))
	// no Close: simulate the process dying here

	fs = openTestFS(t, dev)
	require.Equal(t, 1, fs.Len())
	_, err := fs.Stat("b")
	require.ErrorIs(t, err, ErrNotFound)
	_, err = fs.Stat("a")
	require.NoError(t, err)
}

func TestOpen_ReformatsForeignHeader(t *testing.T) {
	for _, header := range []string{
		"\x00\x00\x00\x00\x00",
		"MYFS\x02",
		"MYFX\x03",
		"junkjunk",
	} {
		dev := blockdev.NewMemory(layout.DeviceSize)
		fs := openTestFS(t, dev)
		require.NoError(t, fs.SetContent("stale", []byte("old")))
		require.NoError(t, fs.Close())

		copy(dev.Bytes(), header)
		fs = openTestFS(t, dev)
		require.Zero(t, fs.Len(), "header %q", header)
		_, err := fs.Content("stale")
		require.ErrorIs(t, err, ErrNotFound)

		// only the header was rewritten; the old slot bytes are still there
		require.Equal(t, []byte("MYFS\x03"), dev.Bytes()[:layout.HeaderSize])
		require.True(t, bytes.HasPrefix(dev.Bytes()[layout.TableStart:], []byte("stale|1024|3")))

		// and new files reuse slot 0 rather than seeing the stale one
		require.NoError(t, fs.CreateFile("fresh", false))
		content, err := fs.Content("fresh")
		require.NoError(t, err)
		require.Empty(t, content)
	}
}

func TestOpen_CorruptCount(t *testing.T) {
	dev := blockdev.NewMemory(layout.DeviceSize)
	fs := openTestFS(t, dev)
	require.NoError(t, fs.Close())

	copy(dev.Bytes()[layout.CountOffset:], "xyz")
	_, err := Open(dev)
	require.ErrorIs(t, err, ErrCorrupt)

	copy(dev.Bytes()[layout.CountOffset:], "99\x00")
	_, err = Open(dev)
	require.ErrorIs(t, err, ErrCorrupt)
}

func TestOpen_TinyDevice(t *testing.T) {
	_, err := Open(blockdev.NewMemory(layout.ContentStart - 1))
	require.ErrorIs(t, err, ErrNoSpace)

	// big enough for the table, but not for any content
	fs := openTestFS(t, blockdev.NewMemory(layout.ContentStart))
	require.ErrorIs(t, fs.CreateFile("a", false), ErrNoSpace)
	require.Zero(t, fs.Len())
}

func TestFormat(t *testing.T) {
	fs := openTestFS(t, blockdev.NewMemory(layout.DeviceSize))
	require.NoError(t, fs.SetContent("a", []byte("aaa")))
	require.NoError(t, fs.Format())
	require.Zero(t, fs.Len())

	_, err := fs.Content("a")
	require.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, fs.CreateFile("a", false))
	content, err := fs.Content("a")
	require.NoError(t, err)
	require.Empty(t, content)

	fs = reopen(t, fs)
	require.Equal(t, 1, fs.Len())
}

func TestClose(t *testing.T) {
	fs := openTestFS(t, blockdev.NewMemory(layout.DeviceSize))
	require.NoError(t, fs.Close())
	require.NoError(t, fs.Close())

	require.ErrorIs(t, fs.Format(), ErrClosed)
	require.ErrorIs(t, fs.CreateFile("a", false), ErrClosed)
	require.ErrorIs(t, fs.SetContent("a", nil), ErrClosed)
	require.ErrorIs(t, fs.Rename("a", "b"), ErrClosed)
	require.ErrorIs(t, fs.Check(), ErrClosed)
	_, err := fs.Content("a")
	require.ErrorIs(t, err, ErrClosed)
	_, err = fs.ListDir("/")
	require.ErrorIs(t, err, ErrClosed)
	_, err = fs.Stat("a")
	require.ErrorIs(t, err, ErrClosed)
	_, err = fs.Checksum("a")
	require.ErrorIs(t, err, ErrClosed)
}

func TestWithLogger(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))

	dev := blockdev.NewMemory(layout.DeviceSize)
	fs, err := Open(dev, WithLogger(logger))
	require.NoError(t, err)
	require.NoError(t, fs.CreateFile("a", false))
	require.NoError(t, fs.Close())

	fs, err = Open(dev, WithLogger(logger))
	require.NoError(t, err)
	require.NoError(t, fs.Close())

	out := logs.String()
	assert.Contains(t, out, "did not find flatfs instance")
	assert.Contains(t, out, "created file")
	assert.Contains(t, out, "recovered flatfs instance")
	assert.Contains(t, out, "files=1")
}

// The end-to-end scenario: format, create, write, close, reopen, read, list.
func TestReadmeScenario(t *testing.T) {
	for _, backend := range []struct {
		name string
		open func(t *testing.T) blockdev.Device
	}{
		{"memory", func(t *testing.T) blockdev.Device { return blockdev.NewMemory(2048) }},
		{"file", func(t *testing.T) blockdev.Device {
			dev, err := blockdev.OpenFile(filepath.Join(t.TempDir(), "disk.img"), 2048)
			require.NoError(t, err)
			return dev
		}},
	} {
		backend := backend
		t.Run(backend.name, func(t *testing.T) {
			dev := backend.open(t)
			defer dev.Close()

			fs := openTestFS(t, dev)
			require.NoError(t, fs.Format())
			require.NoError(t, fs.CreateFile("readme", false))
			require.NoError(t, fs.SetContent("readme", []byte("hello")))

			fs = reopen(t, fs)
			content, err := fs.Content("readme")
			require.NoError(t, err)
			require.Equal(t, "hello", string(content))

			entries, err := fs.ListDir("/")
			require.NoError(t, err)
			require.Equal(t, []DirEntry{{Name: "readme", IsDir: false, Size: 5}}, entries)
			require.NoError(t, fs.Close())
		})
	}
}

func TestStressFill(t *testing.T) {
	fs := openTestFS(t, blockdev.NewMemory(layout.DeviceSize))
	for i := 0; i < layout.MaxSlots; i++ {
		name := strings.Repeat(string(rune('a'+i%26)), 1+i/26)
		content := bytes.Repeat([]byte{byte(i)}, i*33)
		require.NoError(t, fs.SetContent(name, content))
	}
	require.ErrorIs(t, fs.CreateFile("overflow", false), ErrNoSpace)
	require.ErrorIs(t, fs.SetContent("overflow", []byte("x")), ErrNoSpace)
	require.Equal(t, layout.MaxSlots, fs.Len())

	fs = reopen(t, fs)
	require.NoError(t, fs.Check())
	for i := 0; i < layout.MaxSlots; i++ {
		name := strings.Repeat(string(rune('a'+i%26)), 1+i/26)
		content, err := fs.Content(name)
		require.NoError(t, err)
		require.Equal(t, bytes.Repeat([]byte{byte(i)}, i*33), content)
	}
}
