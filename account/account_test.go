// Copyright (c) 2014-2017 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package account_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spa-chain/spa-node/account"
)

func samplePublicKey(b byte) account.PublicKey {
	var key account.PublicKey
	for i := range key {
		key[i] = b
	}
	return key
}

func TestIDFromPublicKeyIsDeterministic(t *testing.T) {
	key := samplePublicKey(0x11)

	id1 := account.IDFromPublicKey(key)
	id2 := account.IDFromPublicKey(key)

	assert.Equal(t, id1, id2)
}

func TestIDFromPublicKeyDiffersByKey(t *testing.T) {
	id1 := account.IDFromPublicKey(samplePublicKey(0x11))
	id2 := account.IDFromPublicKey(samplePublicKey(0x22))

	assert.NotEqual(t, id1, id2)
}

func TestMemoryStoreSetOrVerify(t *testing.T) {
	ctx := context.Background()
	store := account.NewMemoryStore()
	id := account.IDFromPublicKey(samplePublicKey(0x33))
	key := samplePublicKey(0x33)

	fresh, err := store.SetOrVerify(ctx, id, key)
	require.NoError(t, err)
	assert.True(t, fresh)

	fresh, err = store.SetOrVerify(ctx, id, key)
	require.NoError(t, err)
	assert.False(t, fresh)

	got, ok, err := store.GetPublicKey(ctx, id)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, key, got)
}

func TestMemoryStoreRejectsMismatch(t *testing.T) {
	ctx := context.Background()
	store := account.NewMemoryStore()
	id := account.IDFromPublicKey(samplePublicKey(0x44))

	_, err := store.SetOrVerify(ctx, id, samplePublicKey(0x44))
	require.NoError(t, err)

	_, err = store.SetOrVerify(ctx, id, samplePublicKey(0x55))
	assert.ErrorIs(t, err, account.ErrPublicKeyMismatch)
}

func TestMemoryStoreUnknownAccount(t *testing.T) {
	ctx := context.Background()
	store := account.NewMemoryStore()

	_, ok, err := store.GetPublicKey(ctx, account.ID(0))
	require.NoError(t, err)
	assert.False(t, ok)
}

// spec §8 invariant 7: re-applying the same key an account already holds
// is a no-op, not an error.
func TestAccountApplyIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := account.NewMemoryStore()
	key := samplePublicKey(0x66)
	id := account.IDFromPublicKey(key)

	acc := account.NewAccount(id, store)

	require.NoError(t, acc.Apply(ctx, key))
	require.NoError(t, acc.Apply(ctx, key))

	got, ok, err := store.GetPublicKey(ctx, id)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, key, got)
}

func TestAccountApplyRejectsConflictingKey(t *testing.T) {
	ctx := context.Background()
	store := account.NewMemoryStore()
	id := account.IDFromPublicKey(samplePublicKey(0x77))

	acc := account.NewAccount(id, store)
	require.NoError(t, acc.Apply(ctx, samplePublicKey(0x77)))

	err := acc.Apply(ctx, samplePublicKey(0x88))
	assert.ErrorIs(t, err, account.ErrPublicKeyMismatch)
}
