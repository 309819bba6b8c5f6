// Copyright 2024 The Godis Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dict

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrapNilReturnsNil(t *testing.T) {
	assert.Nil(t, wrap[string, int](nil))
}

func TestEntryKeyValueAndSetValue(t *testing.T) {
	n := &entry[string, int]{key: "a", val: 1}
	e := wrap(n)

	assert.Equal(t, "a", e.Key())
	assert.Equal(t, 1, e.Value())

	e.SetValue(99)
	assert.Equal(t, 99, e.Value())
	assert.Equal(t, 99, n.val, "SetValue must mutate the underlying node")
}
