// Copyright 2024 The Godis Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dict

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDescriptorDefaultsWithNoCallbacks(t *testing.T) {
	d := &Descriptor[string, int]{Hash: stringHash}

	assert.True(t, d.equal("a", "a"))
	assert.False(t, d.equal("a", "b"))
	assert.Equal(t, "a", d.dupKey("a"))
	assert.Equal(t, 5, d.dupVal(5))

	// No-op destroy hooks must not panic.
	assert.NotPanics(t, func() { d.destroyKey("a") })
	assert.NotPanics(t, func() { d.destroyVal(5) })
}

func TestDescriptorCustomEqualOverridesDefault(t *testing.T) {
	// A length-only comparator, the kind of thing `==` can't do.
	d := &Descriptor[string, int]{
		Hash: stringHash,
		Equal: func(a, b string) bool {
			return len(a) == len(b)
		},
	}
	assert.True(t, d.equal("ab", "xy"))
	assert.False(t, d.equal("ab", "x"))
}

func TestDescriptorDupAndDestroyHooksAreCalled(t *testing.T) {
	var dupped, destroyed int
	d := &Descriptor[string, int]{
		Hash:       stringHash,
		ValDup:     func(v int) int { dupped++; return v * 2 },
		ValDestroy: func(int) { destroyed++ },
	}

	assert.Equal(t, 10, d.dupVal(5))
	assert.Equal(t, 1, dupped)

	d.destroyVal(5)
	assert.Equal(t, 1, destroyed)
}
