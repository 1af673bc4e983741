// Copyright 2024 The flatfs Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

// Package flatfs is a tiny flat-namespace file store that lives directly in
// the bytes of a fixed-size block device.
//
// Open recovers an existing instance or formats a fresh one, after which
// files can be created, written, read and listed:
//
//	fs, err := flatfs.Open(dev)
//	if err != nil {
//		return err
//	}
//	defer fs.Close()
//
//	if err := fs.SetContent("readme", []byte("hello")); err != nil {
//		return err
//	}
//	content, err := fs.Content("readme")
//
// Every file owns a fixed 1 KiB content block chosen at creation time, and
// there is exactly one directory, "/".  The number of files is persisted only
// by Close, so an instance that isn't closed loses the files created since it
// was opened.  FS is not safe for concurrent use.
package flatfs
