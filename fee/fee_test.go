// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package fee_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spa-chain/spa-node/fee"
)

func TestNoneIsAlwaysZero(t *testing.T) {
	got, err := fee.None.Evaluate(12345)
	require.NoError(t, err)
	assert.Equal(t, int64(0), got)
}

func TestSizeBasedExactMultiple(t *testing.T) {
	s := fee.Schedule{ConstantPart: 100, UnitFee: 10, UnitSize: 32}
	got, err := s.Evaluate(64)
	require.NoError(t, err)
	assert.Equal(t, int64(100+2*10), got)
}

func TestSizeBasedRoundsUp(t *testing.T) {
	s := fee.Schedule{ConstantPart: 0, UnitFee: 10, UnitSize: 32}
	got, err := s.Evaluate(33)
	require.NoError(t, err)
	assert.Equal(t, int64(2*10), got)
}

func TestSizeBasedZeroLength(t *testing.T) {
	s := fee.Schedule{ConstantPart: 5, UnitFee: 10, UnitSize: 32}
	got, err := s.Evaluate(0)
	require.NoError(t, err)
	assert.Equal(t, int64(5), got)
}

func TestNegativeSizeRejected(t *testing.T) {
	s := fee.Schedule{ConstantPart: 5, UnitFee: 10, UnitSize: 32}
	_, err := s.Evaluate(-1)
	assert.Error(t, err)
}

func TestInvalidUnitSizeRejected(t *testing.T) {
	s := fee.Schedule{UnitFee: 10, UnitSize: 0}
	_, err := s.Evaluate(10)
	assert.Error(t, err)
}
