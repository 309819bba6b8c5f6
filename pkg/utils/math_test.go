// Copyright 2024 The Godis Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMaxMinClamp(t *testing.T) {
	assert.Equal(t, int64(5), Max(5, 3))
	assert.Equal(t, int64(3), Min(5, 3))
	assert.Equal(t, int64(0), Clamp(-5, 0, 10))
	assert.Equal(t, int64(10), Clamp(99, 0, 10))
	assert.Equal(t, int64(4), Clamp(4, 0, 10))
}
