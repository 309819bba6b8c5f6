// Copyright 2024 The Godis Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dict

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRandomKeyOnEmptyDictReturnsFalse(t *testing.T) {
	d := newStringIntDict()
	_, ok := d.RandomKey()
	assert.False(t, ok)
}

func TestRandomKeyReturnsAnExistingEntry(t *testing.T) {
	d := newStringIntDict()
	want := make(map[string]bool)
	for i := 0; i < 50; i++ {
		k := fmt.Sprintf("k%d", i)
		require.NoError(t, d.Add(k, i))
		want[k] = true
	}

	for i := 0; i < 100; i++ {
		e, ok := d.RandomKey()
		require.True(t, ok)
		assert.True(t, want[e.Key()])
	}
}

func TestSomeKeysReturnsSubsetOfPresentKeys(t *testing.T) {
	d := newStringIntDict()
	present := make(map[string]bool)
	for i := 0; i < 200; i++ {
		k := fmt.Sprintf("k%d", i)
		require.NoError(t, d.Add(k, i))
		present[k] = true
	}

	keys := d.SomeKeys(30)
	for _, e := range keys {
		assert.True(t, present[e.Key()])
	}
}

func TestFairRandomKeyReturnsTheOnlyEntry(t *testing.T) {
	d := newStringIntDict()
	require.NoError(t, d.Add("only", 1))

	e, ok := d.FairRandomKey()
	require.True(t, ok)
	assert.Equal(t, "only", e.Key())
}

func TestFairRandomKeyOnEmptyDictReturnsFalse(t *testing.T) {
	d := newStringIntDict()
	_, ok := d.FairRandomKey()
	assert.False(t, ok)
}
