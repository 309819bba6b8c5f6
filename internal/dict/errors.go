// Copyright 2024 The Godis Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dict

import "github.com/pkg/errors"

// Sentinel errors for the five error kinds of spec.md §7. There are no
// other error outcomes: an operation that can fail either succeeds or
// returns one of these, never a condition a caller could usefully
// retry without changing the call. The one panic is Release on an
// unsafe Iterator that detects a structural mutation.
var (
	// ErrAlreadyRehashing is returned by Expand when the dictionary is
	// already rehashing.
	ErrAlreadyRehashing = errors.New("dict: already rehashing")

	// ErrTargetTooSmall is returned by Expand when the requested size
	// is below the current occupancy of ht[0].
	ErrTargetTooSmall = errors.New("dict: target size below current occupancy")

	// ErrRedundant is returned by Expand when the requested size, rounded
	// up to a power of two, equals the current size of ht[0]. Preserved intentionally even though
	// size == used is allowed elsewhere -- see spec.md §9 Open Question
	// and DESIGN.md.
	ErrRedundant = errors.New("dict: target size equals current size")

	// ErrNotFound is returned by Delete when the key is absent. Unlink
	// reports an absent key with a false second result instead.
	ErrNotFound = errors.New("dict: key not found")

	// ErrKeyExists is returned by Add when the key is already present.
	ErrKeyExists = errors.New("dict: key already exists")
)
