// Copyright 2024 The Godis Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultMatchesDocumentedKnobs(t *testing.T) {
	c := Default()
	assert.Equal(t, uint64(0), c.InitialCapacity)
	assert.True(t, c.ResizeEnabled)
	assert.Equal(t, 10000, c.SampleWorkloadSize)
	assert.Equal(t, "notice", c.LogLevel)
}

func TestLoadWithoutFileKeepsDefaults(t *testing.T) {
	c := Default()
	require.NoError(t, c.Load(""))
	assert.Equal(t, "notice", c.LogLevel)
}

func TestLoadReadsEnvironmentOverride(t *testing.T) {
	require.NoError(t, os.Setenv("DICTKV_LOG_LEVEL", "debug"))
	defer os.Unsetenv("DICTKV_LOG_LEVEL")

	c := Default()
	require.NoError(t, c.Load(""))
	assert.Equal(t, "debug", c.LogLevel)
}

func TestApplyOverlaysOnlyNonZeroFields(t *testing.T) {
	c := Default()
	c.Apply(Values{LogLevel: "error"})

	assert.Equal(t, "error", c.LogLevel)
	assert.Equal(t, 10000, c.SampleWorkloadSize, "zero-value override must not clobber the existing value")
}

func TestSnapshotIsIndependentCopy(t *testing.T) {
	c := Default()
	snap := c.Snapshot()
	c.Apply(Values{LogLevel: "warning"})

	assert.Equal(t, "notice", snap.LogLevel)
	assert.Equal(t, "warning", c.LogLevel)
}
