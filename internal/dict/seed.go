// Copyright 2024 The Godis Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dict

import (
	"crypto/rand"
	"sync"
)

// seed is the process-wide 128-bit seed fed to caller-supplied hash
// functions (see Descriptor.Hash). The dict package never hashes a key
// itself; it only stores and hands out the seed so every Descriptor in
// the process can derive its hash from the same bytes.
var (
	seedMu sync.RWMutex
	seed   [16]byte
)

func init() {
	// A random default seed, the way the teacher's default build seeds
	// its own hash function at startup. Deterministic cross-process
	// hashing is explicitly a non-goal (spec.md Non-goals).
	_, _ = rand.Read(seed[:])
}

// SetHashSeed overwrites the process-wide hash seed.
func SetHashSeed(s [16]byte) {
	seedMu.Lock()
	seed = s
	seedMu.Unlock()
}

// GetHashSeed returns the current process-wide hash seed.
func GetHashSeed() [16]byte {
	seedMu.RLock()
	defer seedMu.RUnlock()
	return seed
}
