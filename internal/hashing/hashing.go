// Copyright 2024 The Godis Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package hashing provides the default key-hashing functions callers
// plug into a dict.Descriptor, the stand-in for callers historically
// reaching for SipHash. xxhash is a faster, non-cryptographic
// alternative callers who don't need hash-flooding resistance can
// still seed per process.
package hashing

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"

	"github.com/zyhnesmr/dictkv/internal/dict"
)

// String hashes s, mixing in the process-wide seed so two processes
// (or the same process after dict.SetHashSeed) produce different bucket
// placement for the same key.
func String(s string) uint64 {
	return mixSeed(xxhash.Sum64String(s))
}

// Bytes hashes b the same way String hashes a string.
func Bytes(b []byte) uint64 {
	return mixSeed(xxhash.Sum64(b))
}

// mixSeed folds the 16-byte hash seed into h by hashing h's bytes
// appended to the seed, rather than XORing directly -- XOR would let
// an attacker who can observe one hash output recover bits of the
// seed for any key whose unseeded hash they can compute offline.
func mixSeed(h uint64) uint64 {
	seed := dict.GetHashSeed()

	var buf [24]byte
	copy(buf[:16], seed[:])
	binary.LittleEndian.PutUint64(buf[16:], h)

	return xxhash.Sum64(buf[:])
}
