// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chain_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spa-chain/spa-node/chain"
)

func TestValid(t *testing.T) {
	assert.True(t, chain.Valid(chain.Mainnet))
	assert.True(t, chain.Valid(chain.Testnet))
	assert.True(t, chain.Valid(chain.Local))
	assert.False(t, chain.Valid("nonsense"))
}

func TestContextRoundTrip(t *testing.T) {
	cfg := chain.DefaultTestnet()
	ctx := chain.WithConfig(context.Background(), cfg)

	got := chain.FromContext(ctx)
	assert.Equal(t, cfg, got)
}

func TestFromContextDefaultsToMainnet(t *testing.T) {
	got := chain.FromContext(context.Background())
	assert.Equal(t, chain.Mainnet, got.Name)
}
