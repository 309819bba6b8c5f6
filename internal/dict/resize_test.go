// Copyright 2024 The Godis Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dict

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// drainToIdle runs Rehash until the dictionary reports it is no longer
// rehashing, bypassing the iterator gate the way an idle-tick caller
// would.
func drainToIdle[K comparable, V any](d *Dict[K, V]) {
	for d.Rehash(64) {
	}
}

func TestResizeShrinksAfterDeletions(t *testing.T) {
	d := newStringIntDict()

	for i := 0; i < 64; i++ {
		require.NoError(t, d.Add("k-"+strconv.Itoa(i), i))
	}
	drainToIdle(d)
	sizeBeforeShrink := d.ht[0].size
	require.Equal(t, uint64(64), sizeBeforeShrink)

	for i := 0; i < 60; i++ {
		require.NoError(t, d.Delete("k-"+strconv.Itoa(i)))
	}
	require.Equal(t, uint64(4), d.Len())

	require.NoError(t, d.Resize())
	require.True(t, d.IsRehashing(), "Resize stages its target into ht[1] and starts rehashing")
	drainToIdle(d)

	assert.False(t, d.IsRehashing())
	assert.LessOrEqual(t, float64(d.ht[0].used)/float64(d.ht[0].size), 1.0,
		"used/size must be at most 1 once resize() settles")
	assert.Equal(t, uint64(4), d.Len())
}

func TestResizeIsNoopAtInitialSize(t *testing.T) {
	d := newStringIntDict()
	require.NoError(t, d.Add("only", 1))
	drainToIdle(d)

	require.Equal(t, uint64(initialSize), d.ht[0].size)

	// used (1) rounds up to initialSize already, so the requested target
	// equals the current size: expand() reports ErrRedundant, which
	// Resize surfaces directly rather than masking.
	assert.ErrorIs(t, d.Resize(), ErrRedundant)
	assert.False(t, d.IsRehashing())
	assert.Equal(t, uint64(1), d.Len())
}

func TestDisableResizeSuppressesVoluntaryShrink(t *testing.T) {
	d := newStringIntDict()
	for i := 0; i < 64; i++ {
		require.NoError(t, d.Add("k-"+strconv.Itoa(i), i))
	}
	drainToIdle(d)

	for i := 0; i < 60; i++ {
		require.NoError(t, d.Delete("k-"+strconv.Itoa(i)))
	}

	disabled := false
	d.SetResizeEnabled(&disabled)

	require.NoError(t, d.Resize())
	assert.False(t, d.IsRehashing(), "Resize is a silent no-op when the resize policy disallows it")
	assert.Equal(t, uint64(64), d.ht[0].size)
}

func TestSetResizeEnabledOverridesGlobalFlag(t *testing.T) {
	DisableResize()
	defer EnableResize()

	d := newStringIntDict()
	enabled := true
	d.SetResizeEnabled(&enabled)

	for i := 0; i < 8; i++ {
		require.NoError(t, d.Add("k-"+strconv.Itoa(i), i))
	}
	drainToIdle(d)

	// Load factor is now 8/8 == 1, at the growth threshold; the
	// per-instance override takes precedence over the process-wide
	// DisableResize call above.
	require.NoError(t, d.Add("k-8", 8))
	assert.True(t, d.IsRehashing(), "per-instance override must win over the global disabled flag")
}

func TestGlobalDisableResizeBlocksGrowthBelowForcedRatio(t *testing.T) {
	DisableResize()
	defer EnableResize()

	d := newStringIntDict()
	for i := 0; i < 4; i++ {
		require.NoError(t, d.Add("k-"+strconv.Itoa(i), i))
	}
	drainToIdle(d)
	require.Equal(t, uint64(4), d.ht[0].size)

	// Pushing the load factor from 1 up to (but not past) forceResizeRatio
	// must not trigger growth while the global flag is disabled.
	for i := 4; i < 4*forceResizeRatio; i++ {
		require.NoError(t, d.Add("k-"+strconv.Itoa(i), i))
	}
	assert.False(t, d.IsRehashing(), "load factor within forceResizeRatio must not grow while resize is disabled")
	assert.Equal(t, uint64(4), d.ht[0].size)
}

func TestForceResizeRatioOverridesDisabledResize(t *testing.T) {
	DisableResize()
	defer EnableResize()

	d := newStringIntDict()
	for i := 0; i < 4; i++ {
		require.NoError(t, d.Add("k-"+strconv.Itoa(i), i))
	}
	drainToIdle(d)
	require.Equal(t, uint64(4), d.ht[0].size)

	// Pushing used one past 4*forceResizeRatio makes the load factor
	// checked at the head of the next Add strictly exceed
	// forceResizeRatio, which must force growth even though the global
	// resize flag is disabled.
	for i := 4; i <= 4*forceResizeRatio+1; i++ {
		require.NoError(t, d.Add("k-"+strconv.Itoa(i), i))
	}
	assert.True(t, d.IsRehashing(), "load factor above forceResizeRatio must force growth even when resize is disabled")
}

func TestEnableDisableResizeRoundTrip(t *testing.T) {
	DisableResize()
	assert.False(t, globalResizeEnabled.Load())
	EnableResize()
	assert.True(t, globalResizeEnabled.Load())
}

func TestSetResizeEnabledNilRevertsToGlobalFlag(t *testing.T) {
	DisableResize()
	defer EnableResize()

	d := newStringIntDict()
	enabled := true
	d.SetResizeEnabled(&enabled)
	d.SetResizeEnabled(nil)

	for i := 0; i < 64; i++ {
		require.NoError(t, d.Add("k-"+strconv.Itoa(i), i))
	}
	drainToIdle(d)

	for i := 0; i < 60; i++ {
		require.NoError(t, d.Delete("k-"+strconv.Itoa(i)))
	}
	require.NoError(t, d.Resize())
	assert.False(t, d.IsRehashing(), "nil override must fall back to the disabled global flag")
}
