// Copyright 2024 The flatfs Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

// Package layout describes the fixed geometry of a flatfs device and the
// codecs used for the handful of records stored in it.
//
// A device generally looks like:
//
//	  0 ┌───────────────────┐
//	    │ header            │ 4-byte magic + 1-byte version
//	  5 ├───────────────────┤
//	    │ file count        │ decimal, NUL-padded to 11 bytes
//	 16 ├───────────────────┤
//	    │ file table        │ 31 slots of 32 bytes
//	    │                   │
//	1008├───────────────────┤
//	    │ unused            │
//	1024├───────────────────┤
//	    │ file 0 content    │ 1024 bytes per file
//	    ├───────────────────┤
//	    │ file 1 content    │
//	    ├───────────────────┤
//	    │ ...               │
//	    └───────────────────┘
//
// Each table slot is text, right-padded with NUL bytes:
//
//	name|address|size\x00\x00...
//
// Slot i always describes the i'th file created, and its content lives at
// ContentStart + i*FileCapacity for the lifetime of the device.
package layout
