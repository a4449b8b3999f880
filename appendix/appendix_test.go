// Copyright (c) 2014-2017 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package appendix

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spa-chain/spa-node/account"
	"github.com/spa-chain/spa-node/buffer"
	"github.com/spa-chain/spa-node/chain"
	"github.com/spa-chain/spa-node/digest"
	"github.com/spa-chain/spa-node/fault"
	"github.com/spa-chain/spa-node/prunable"
	"github.com/spa-chain/spa-node/spacrypto"
)

// fakeTx is a minimal Transaction for exercising appendix Validate/Apply
// without an enclosing transaction envelope, which is out of this
// package's scope.
type fakeTx struct {
	id          int64
	recipient   account.ID
	timestamp   int32
	height      int32
	version     uint8
	hasEncMsg   bool
}

func (t fakeTx) ID() int64                   { return t.id }
func (t fakeTx) RecipientID() account.ID     { return t.recipient }
func (t fakeTx) Timestamp() int32            { return t.timestamp }
func (t fakeTx) Height() int32               { return t.height }
func (t fakeTx) Version() uint8              { return t.version }
func (t fakeTx) HasEncryptedMessage() bool   { return t.hasEncMsg }

func testContext() context.Context {
	ctx := context.Background()
	ctx = chain.WithConfig(ctx, chain.DefaultMainnet())
	ctx = chain.WithClock(ctx, chain.FixedClock(0))
	ctx = account.WithStore(ctx, account.NewMemoryStore())
	ctx = prunable.WithStore(ctx, prunable.NewMemoryStore())
	return ctx
}

// --- Invariant 1: binary round-trip ---

func TestBinaryRoundTripPlainMessage(t *testing.T) {
	pm, err := NewPlainMessage(1, []byte("hi"), true)
	require.NoError(t, err)

	w := buffer.NewWriter()
	require.NoError(t, pm.WriteBinary(w))

	r := buffer.NewReader(w.Bytes()[1:]) // version byte consumed by caller
	got, err := ParsePlainMessageBinary(1, r)
	require.NoError(t, err)
	assert.Equal(t, pm.Message(), got.Message())
	assert.Equal(t, pm.IsText(), got.IsText())
	assert.Equal(t, pm.Version(), got.Version())
}

func TestBinaryRoundTripPublicKeyAnnouncement(t *testing.T) {
	pub, _, err := spacrypto.GenerateKeyPair()
	require.NoError(t, err)

	pka := NewPublicKeyAnnouncement(2, pub)
	w := buffer.NewWriter()
	require.NoError(t, pka.WriteBinary(w))

	r := buffer.NewReader(w.Bytes()[1:])
	got, err := ParsePublicKeyAnnouncementBinary(2, r)
	require.NoError(t, err)
	assert.Equal(t, pka.PublicKey(), got.PublicKey())
}

func TestBinaryRoundTripEncryptedMessage(t *testing.T) {
	em := NewEncryptedMessage(2, []byte("ciphertext-bytes"), make([]byte, 32), false, false)
	w := buffer.NewWriter()
	require.NoError(t, em.WriteBinary(w))

	r := buffer.NewReader(w.Bytes()[1:])
	got, err := ParseEncryptedMessageBinary(2, r)
	require.NoError(t, err)
	assert.Equal(t, em.Data(), got.Data())
	assert.Equal(t, em.Nonce(), got.Nonce())
}

// --- Invariant 3: size contract ---

func TestSizeContractMatchesWrittenLength(t *testing.T) {
	pm, err := NewPlainMessage(1, []byte("hello world"), true)
	require.NoError(t, err)

	w := buffer.NewWriter()
	require.NoError(t, pm.WriteBinary(w))
	assert.Equal(t, pm.Size(), w.Len())
}

func TestSizeContractPrunableEncryptedMessageIsHashOnly(t *testing.T) {
	pem := NewPrunableEncryptedMessage(1, []byte("plaintext-like-bytes"), make([]byte, 32), false, false)
	w := buffer.NewWriter()
	require.NoError(t, pem.WriteBinary(w))
	assert.Equal(t, pem.Size(), w.Len())
	assert.Greater(t, pem.FullSize(), pem.Size())
}

// --- Invariant 4: isText canonicalization ---

func TestIsTextCanonicalizationRejectsNonCanonical(t *testing.T) {
	_, err := NewPlainMessage(1, []byte{0xC3, 0x28}, true)
	assert.ErrorIs(t, err, fault.ErrMessageIsNotUTF8Text)
}

func TestIsTextCanonicalizationAcceptsValidUTF8(t *testing.T) {
	_, err := NewPlainMessage(1, []byte("hi"), true)
	assert.NoError(t, err)
}

// --- Invariant 5: fee monotonicity ---

func TestFeeMonotonicityPlainMessage(t *testing.T) {
	ctx := testContext()
	small, err := NewPlainMessage(1, make([]byte, 10), false)
	require.NoError(t, err)
	big, err := NewPlainMessage(1, make([]byte, 500), false)
	require.NoError(t, err)

	feeSmall, err := small.BaselineFee(ctx, fakeTx{})
	require.NoError(t, err)
	feeBig, err := big.BaselineFee(ctx, fakeTx{})
	require.NoError(t, err)
	assert.LessOrEqual(t, feeSmall, feeBig)
}

// --- Invariant 6: hash stability ---

func TestHashStabilityAcrossTransportPaths(t *testing.T) {
	data := []byte("some ciphertext")
	nonce := make([]byte, 32)

	wire := NewPrunableEncryptedMessage(1, data, nonce, true, false)

	w := buffer.NewWriter()
	require.NoError(t, wire.WriteBinary(w))
	r := buffer.NewReader(w.Bytes()[1:])
	fromWire, err := ParsePrunableEncryptedMessageBinary(1, r)
	require.NoError(t, err)

	rehydrated := NewPrunableEncryptedMessage(1, data, nonce, true, false)

	assert.Equal(t, wire.Hash(), fromWire.Hash())
	assert.Equal(t, wire.Hash(), rehydrated.Hash())
	assert.Equal(t, wire.Hash(), digest.Sum(true, false, data, nonce))
}

// --- Invariant 7: idempotent apply for announcements ---

func TestIdempotentApplyForAnnouncements(t *testing.T) {
	ctx := testContext()
	pub, _, err := spacrypto.GenerateKeyPair()
	require.NoError(t, err)

	var accountKey account.PublicKey
	copy(accountKey[:], pub[:])
	recipient := account.IDFromPublicKey(accountKey)

	pka := NewPublicKeyAnnouncement(1, pub)
	tx := fakeTx{recipient: recipient, version: 1}

	require.NoError(t, pka.Apply(ctx, tx))
	require.NoError(t, pka.Apply(ctx, tx))

	store, err := account.StoreFromContext(ctx)
	require.NoError(t, err)
	key, ok, err := store.GetPublicKey(ctx, recipient)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, accountKey, key)
}

// --- S1: PlainMessage text "hi" ---

func TestScenarioS1PlainMessageHi(t *testing.T) {
	pm, err := NewPlainMessage(1, []byte{0x68, 0x69}, true)
	require.NoError(t, err)

	w := buffer.NewWriter()
	require.NoError(t, pm.WriteBinary(w))
	assert.Equal(t, []byte{0x01, 0x02, 0x00, 0x00, 0x80, 0x68, 0x69}, w.Bytes())

	r := buffer.NewReader(w.Bytes()[1:])
	got, err := ParsePlainMessageBinary(1, r)
	require.NoError(t, err)
	assert.Equal(t, pm.Message(), got.Message())
	assert.Equal(t, pm.IsText(), got.IsText())
}

// --- S2: PlainMessage oversize ---

func TestScenarioS2PlainMessageOversize(t *testing.T) {
	_, err := NewPlainMessage(1, make([]byte, 1001), false)
	assert.ErrorIs(t, err, fault.ErrMessageTooLong)
	assert.True(t, fault.IsNotValid(err))
}

// --- S3: PlainMessage non-UTF-8 marked text ---

func TestScenarioS3PlainMessageNonUTF8Text(t *testing.T) {
	_, err := NewPlainMessage(1, []byte{0xC3, 0x28}, true)
	assert.ErrorIs(t, err, fault.ErrMessageIsNotUTF8Text)
	assert.True(t, fault.IsNotValid(err))
}

// --- S4: PublicKeyAnnouncement mismatch ---

func TestScenarioS4PublicKeyAnnouncementMismatch(t *testing.T) {
	ctx := testContext()
	pub, _, err := spacrypto.GenerateKeyPair()
	require.NoError(t, err)

	pka := NewPublicKeyAnnouncement(1, pub)
	tx := fakeTx{recipient: account.ID(1), version: 1} // arbitrary, almost certainly mismatched

	err = pka.Validate(ctx, tx)
	assert.ErrorIs(t, err, fault.ErrAnnouncedKeyMismatch)
	assert.True(t, fault.IsNotValid(err))
}

// --- S5: PublicKeyAnnouncement conflict ---

func TestScenarioS5PublicKeyAnnouncementConflict(t *testing.T) {
	ctx := testContext()
	pub, _, err := spacrypto.GenerateKeyPair()
	require.NoError(t, err)
	other, _, err := spacrypto.GenerateKeyPair()
	require.NoError(t, err)

	var accountKey account.PublicKey
	copy(accountKey[:], pub[:])
	recipient := account.IDFromPublicKey(accountKey)

	store, err := account.StoreFromContext(ctx)
	require.NoError(t, err)
	var otherKey account.PublicKey
	copy(otherKey[:], other[:])
	_, err = store.SetOrVerify(ctx, recipient, otherKey)
	require.NoError(t, err)

	pka := NewPublicKeyAnnouncement(1, pub)
	tx := fakeTx{recipient: recipient, version: 1}

	err = pka.Validate(ctx, tx)
	assert.ErrorIs(t, err, fault.ErrConflictingPublicKey)
	assert.True(t, fault.IsNotCurrentlyValid(err))
}

// --- S6: PrunableEncryptedMessage rehydration ---

func TestScenarioS6PrunableEncryptedMessageRehydration(t *testing.T) {
	ctx := testContext()
	data := []byte("payload bytes")
	nonce := make([]byte, 32)
	original := NewPrunableEncryptedMessage(1, data, nonce, false, false)
	hash := original.Hash()

	store, err := prunable.StoreFromContext(ctx)
	require.NoError(t, err)
	require.NoError(t, store.Add(ctx, 42, prunable.Payload{
		Hash:       hash,
		CipherText: data,
		Nonce:      nonce,
		Timestamp:  0,
		Height:     0,
	}))

	w := buffer.NewWriter()
	require.NoError(t, original.WriteBinary(w))
	r := buffer.NewReader(w.Bytes()[1:])
	hashOnly, err := ParsePrunableEncryptedMessageBinary(1, r)
	require.NoError(t, err)
	assert.False(t, hashOnly.HasPrunableData())

	tx := fakeTx{id: 42, recipient: account.ID(7), version: 1}
	require.NoError(t, hashOnly.LoadPrunable(ctx, tx, false))
	assert.True(t, hashOnly.HasPrunableData())
	assert.Equal(t, hash, hashOnly.Hash())
}

// --- S7: PrunableEncryptedMessage premature prune ---

func TestScenarioS7PrunableEncryptedMessagePrematurePrune(t *testing.T) {
	ctx := testContext()
	pem, err := ParsePrunableEncryptedMessageBinary(1, buffer.NewReader(digest.Sum(false, false, nil, nil).Bytes()))
	require.NoError(t, err)
	assert.False(t, pem.HasPrunableData())

	tx := fakeTx{id: 99, recipient: account.ID(7), version: 1, timestamp: 0}
	err = pem.Validate(ctx, tx)
	assert.ErrorIs(t, err, fault.ErrPrunedPrematurely)
	assert.True(t, fault.IsNotCurrentlyValid(err))
}
