// Copyright (c) 2014-2017 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package spacrypto_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spa-chain/spa-node/spacrypto"
)

func TestEncryptDecryptRoundTrip(t *testing.T) {
	senderPub, senderPriv, err := spacrypto.GenerateKeyPair()
	require.NoError(t, err)
	recipientPub, recipientPriv, err := spacrypto.GenerateKeyPair()
	require.NoError(t, err)

	nonce, err := spacrypto.NewNonce()
	require.NoError(t, err)

	plaintext := []byte("hello appendix")
	ciphertext, err := spacrypto.Encrypt(plaintext, false, recipientPub, senderPriv, nonce)
	require.NoError(t, err)

	got, err := spacrypto.Decrypt(ciphertext, false, senderPub, recipientPriv, nonce)
	require.NoError(t, err)
	assert.Equal(t, plaintext, got)
}

func TestEncryptDecryptRoundTripCompressed(t *testing.T) {
	senderPub, senderPriv, err := spacrypto.GenerateKeyPair()
	require.NoError(t, err)
	recipientPub, recipientPriv, err := spacrypto.GenerateKeyPair()
	require.NoError(t, err)

	nonce, err := spacrypto.NewNonce()
	require.NoError(t, err)

	plaintext := []byte("compress me compress me compress me compress me")
	ciphertext, err := spacrypto.Encrypt(plaintext, true, recipientPub, senderPriv, nonce)
	require.NoError(t, err)
	assert.NotEqual(t, plaintext, ciphertext)

	got, err := spacrypto.Decrypt(ciphertext, true, senderPub, recipientPriv, nonce)
	require.NoError(t, err)
	assert.Equal(t, plaintext, got)
}

func TestDecryptWrongKeyFails(t *testing.T) {
	senderPub, senderPriv, err := spacrypto.GenerateKeyPair()
	require.NoError(t, err)
	recipientPub, _, err := spacrypto.GenerateKeyPair()
	require.NoError(t, err)
	_, otherPriv, err := spacrypto.GenerateKeyPair()
	require.NoError(t, err)

	nonce, err := spacrypto.NewNonce()
	require.NoError(t, err)

	ciphertext, err := spacrypto.Encrypt([]byte("secret"), false, recipientPub, senderPriv, nonce)
	require.NoError(t, err)

	_, err = spacrypto.Decrypt(ciphertext, false, senderPub, otherPriv, nonce)
	assert.Error(t, err)
}

func TestIsCanonicalPublicKeyRejectsZero(t *testing.T) {
	var zero spacrypto.PublicKey
	assert.False(t, spacrypto.IsCanonicalPublicKey(zero))
}

func TestIsCanonicalPublicKeyAcceptsGenerated(t *testing.T) {
	pub, _, err := spacrypto.GenerateKeyPair()
	require.NoError(t, err)
	assert.True(t, spacrypto.IsCanonicalPublicKey(pub))
}

func TestPredictEncryptedLengthMatchesActualOverhead(t *testing.T) {
	_, senderPriv, err := spacrypto.GenerateKeyPair()
	require.NoError(t, err)
	recipientPub, _, err := spacrypto.GenerateKeyPair()
	require.NoError(t, err)
	nonce, err := spacrypto.NewNonce()
	require.NoError(t, err)

	plaintext := []byte("0123456789abcdef0123")
	ciphertext, err := spacrypto.Encrypt(plaintext, false, recipientPub, senderPriv, nonce)
	require.NoError(t, err)

	// box is a stream cipher with a fixed MAC and no block padding, so
	// for uncompressed plaintext the predictor is exact.
	assert.Equal(t, len(ciphertext), spacrypto.PredictEncryptedLength(len(plaintext)))
}

func TestPublicKeyFromPrivateMatchesGeneratedPair(t *testing.T) {
	pub, priv, err := spacrypto.GenerateKeyPair()
	require.NoError(t, err)
	assert.Equal(t, pub, spacrypto.PublicKeyFromPrivate(priv))
}
