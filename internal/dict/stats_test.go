// Copyright 2024 The Godis Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dict

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteStatsReportsMatchingByteCount(t *testing.T) {
	d := newStringIntDict()
	for i := 0; i < 50; i++ {
		require.NoError(t, d.Add(fmt.Sprintf("k%d", i), i))
	}

	var buf bytes.Buffer
	n, err := d.WriteStats(&buf)

	require.NoError(t, err)
	assert.Equal(t, buf.Len(), n)
	assert.NotEmpty(t, buf.String())
	assert.Contains(t, buf.String(), "Hash table 0 stats")
}

func TestWriteStatsCoversBothTablesWhileRehashing(t *testing.T) {
	d := newStringIntDict()
	for i := 0; i < 5; i++ {
		require.NoError(t, d.Add(fmt.Sprintf("k%d", i), i))
	}
	require.True(t, d.IsRehashing())

	var buf bytes.Buffer
	_, err := d.WriteStats(&buf)
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "Hash table 0 stats")
	assert.Contains(t, buf.String(), "Hash table 1 stats")
}

func TestStatsForComputesChainLengthHistogram(t *testing.T) {
	hash := func(s string) uint64 { return 0 } // force a single chain
	d := NewDict[string, int](&Descriptor[string, int]{Hash: hash}, nil)
	for i := 0; i < 5; i++ {
		require.NoError(t, d.Add(fmt.Sprintf("k%d", i), i))
	}
	// The fifth Add grows the table and lands in ht[1]; finish the
	// rehash so all five entries share one chain in ht[0].
	drainToIdle(d)

	s := d.statsFor(0)
	assert.Equal(t, uint64(1), s.nonEmptyCount)
	assert.Equal(t, uint64(5), s.maxChainLength)
	assert.Equal(t, uint64(1), s.histogram[5])
}
