// Copyright 2024 The Godis Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dict

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHashSeedRoundTrip(t *testing.T) {
	original := GetHashSeed()
	defer SetHashSeed(original)

	want := [16]byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16}
	SetHashSeed(want)
	assert.Equal(t, want, GetHashSeed())
}

func TestHashSeedIsRandomizedAtInit(t *testing.T) {
	// Not a strong guarantee, just a smoke test that init() did not
	// leave the seed at its zero value.
	assert.NotEqual(t, [16]byte{}, GetHashSeed())
}
