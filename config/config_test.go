// Copyright (c) 2014-2017 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spa-chain/spa-node/chain"
	"github.com/spa-chain/spa-node/config"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"), chain.Mainnet)
	require.NoError(t, err)
	assert.Equal(t, chain.DefaultMainnet(), cfg)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "node.yaml")
	contents := "onespa: 5\nshuffling_block: 10\ninclude_expired_prunable: true\n"
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))

	cfg, err := config.Load(path, chain.Testnet)
	require.NoError(t, err)

	assert.Equal(t, int64(5), cfg.ONESPA)
	assert.Equal(t, int32(10), cfg.ShufflingBlock)
	assert.True(t, cfg.IncludeExpiredPrunable)
	// untouched fields keep the testnet default
	assert.Equal(t, chain.DefaultTestnet().MaxEncryptedMessageLength, cfg.MaxEncryptedMessageLength)
}
