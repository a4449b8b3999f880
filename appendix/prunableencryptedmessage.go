// Copyright (c) 2014-2017 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package appendix

import (
	"context"
	"sync/atomic"

	"github.com/spa-chain/spa-node/buffer"
	"github.com/spa-chain/spa-node/chain"
	"github.com/spa-chain/spa-node/digest"
	"github.com/spa-chain/spa-node/fault"
	"github.com/spa-chain/spa-node/fee"
	"github.com/spa-chain/spa-node/prunable"
)

// PrunableEncryptedMessage carries the same encrypted payload as
// EncryptedMessage, but always writes only its 32-byte content hash to
// the transaction; the payload itself lives in an external prunable
// store and may be dropped after MAX_PRUNABLE_LIFETIME (spec §4.6).
//
// The lazily loaded payload is published through an atomic pointer
// (spec §5, §9): loadPrunable publishes with a single atomic store, and
// HasPrunableData/body reads never take a lock.
type PrunableEncryptedMessage struct {
	version uint8
	hash    digest.Hash256
	payload atomic.Pointer[encryptedBody]
}

// prunableEncryptedMessageFeeSchedule is spec §4.3's fee for this kind:
// 0.1 SPA per 32 bytes of full (unpruned) size.
func prunableEncryptedMessageFeeSchedule(oneSPA int64) fee.Schedule {
	return fee.Schedule{ConstantPart: 0, UnitFee: oneSPA / 10, UnitSize: 32}
}

// NewPrunableEncryptedMessage constructs a PrunableEncryptedMessage with
// its payload already available, computing the canonical hash (spec
// §4.6).
func NewPrunableEncryptedMessage(version uint8, data, nonce []byte, isText, isCompressed bool) *PrunableEncryptedMessage {
	hash := digest.Sum(isText, isCompressed, data, nonce)
	p := &PrunableEncryptedMessage{version: version, hash: hash}
	p.payload.Store(&encryptedBody{data: data, nonce: nonce, isText: isText, isCompressed: isCompressed})
	return p
}

// ParsePrunableEncryptedMessageBinary reads the 32-byte hash-only body;
// the payload is absent until LoadPrunable rehydrates it.
func ParsePrunableEncryptedMessageBinary(version uint8, r *buffer.Reader) (*PrunableEncryptedMessage, error) {
	raw, err := r.GetBytes(digest.Length)
	if nil != err {
		return nil, err
	}
	hash, err := digest.FromBytes(raw)
	if nil != err {
		return nil, err
	}
	return &PrunableEncryptedMessage{version: version, hash: hash}, nil
}

// Hash returns the payload's canonical content hash.
func (e *PrunableEncryptedMessage) Hash() digest.Hash256 { return e.hash }

// HasPrunableData reports whether the payload is currently held, either
// because this appendix was built from one directly or because
// LoadPrunable rehydrated it.
func (e *PrunableEncryptedMessage) HasPrunableData() bool {
	return nil != e.payload.Load()
}

// Data, Nonce, IsText, IsCompressed return the zero value when the
// payload is not currently held.
func (e *PrunableEncryptedMessage) Data() []byte {
	if b := e.payload.Load(); nil != b {
		return b.data
	}
	return nil
}

func (e *PrunableEncryptedMessage) Nonce() []byte {
	if b := e.payload.Load(); nil != b {
		return b.nonce
	}
	return nil
}

func (e *PrunableEncryptedMessage) IsText() bool {
	if b := e.payload.Load(); nil != b {
		return b.isText
	}
	return false
}

func (e *PrunableEncryptedMessage) IsCompressed() bool {
	if b := e.payload.Load(); nil != b {
		return b.isCompressed
	}
	return false
}

func (e *PrunableEncryptedMessage) Size() int {
	return versionSize(e.version) + digest.Length
}

// FullSize reports what Size would be if the payload were inline, for
// fee purposes (spec §4.6's getFullSize).
func (e *PrunableEncryptedMessage) FullSize() int {
	b := e.payload.Load()
	if nil == b {
		return e.Size()
	}
	return versionSize(e.version) + b.size()
}

func (e *PrunableEncryptedMessage) WriteBinary(w *buffer.Writer) error {
	writeVersion(w, e.version)
	w.PutBytes(e.hash.Bytes())
	return nil
}

func (e *PrunableEncryptedMessage) ToJSON() (map[string]interface{}, error) {
	out := map[string]interface{}{
		"version.PrunableEncryptedMessage": e.version,
		"encryptedMessageHash":             e.hash.String(),
	}
	if b := e.payload.Load(); nil != b {
		out["encryptedMessage"] = map[string]interface{}{
			"data":         buffer.HexBytes(b.data).String(),
			"nonce":        buffer.HexBytes(b.nonce).String(),
			"isText":       b.isText,
			"isCompressed": b.isCompressed,
		}
	}
	return out, nil
}

func (e *PrunableEncryptedMessage) Version() uint8 { return e.version }

func (e *PrunableEncryptedMessage) BaselineFeeHeight() int32 { return 0 }

func (e *PrunableEncryptedMessage) BaselineFee(ctx context.Context, tx Transaction) (int64, error) {
	cfg := chain.FromContext(ctx)
	return prunableEncryptedMessageFeeSchedule(cfg.ONESPA).Evaluate(e.FullSize())
}

func (e *PrunableEncryptedMessage) NextFeeHeight() int32 { return NoScheduledFeeChange }

func (e *PrunableEncryptedMessage) NextFee(ctx context.Context, tx Transaction) (int64, error) {
	return e.BaselineFee(ctx, tx)
}

func (e *PrunableEncryptedMessage) IsPhased(tx Transaction) bool { return false }

// Validate implements spec §4.6.
func (e *PrunableEncryptedMessage) Validate(ctx context.Context, tx Transaction) error {
	if err := validateVersionMatchesTx(tx.Version(), e.version); nil != err {
		return err
	}
	if tx.HasEncryptedMessage() {
		return fault.ErrPrunableDataConflict
	}
	if 0 == tx.RecipientID() {
		return fault.ErrNoRecipient
	}

	cfg := chain.FromContext(ctx)
	clock := chain.ClockFromContext(ctx)
	age := clock.EpochTime() - tx.Timestamp()

	b := e.payload.Load()
	if nil == b {
		if int32(cfg.MinPrunableLifetime.Seconds()) > age {
			return fault.ErrPrunedPrematurely
		}
		return nil
	}

	if len(b.data) > cfg.MaxPrunableEncryptedMessageLength {
		return fault.ErrPrunableMessageTooLong
	}
	return validateNonceDataLengths(b.data, b.nonce)
}

// Apply inserts the payload into the prunable store when the
// transaction is still within MAX_PRUNABLE_LIFETIME (spec §4.6).
func (e *PrunableEncryptedMessage) Apply(ctx context.Context, tx Transaction) error {
	b := e.payload.Load()
	if nil == b {
		return nil
	}

	cfg := chain.FromContext(ctx)
	clock := chain.ClockFromContext(ctx)
	age := clock.EpochTime() - tx.Timestamp()
	if int32(cfg.MaxPrunableLifetime.Seconds()) <= age {
		return nil
	}

	store, err := prunable.StoreFromContext(ctx)
	if nil != err {
		return err
	}
	return store.Add(ctx, tx.ID(), prunable.Payload{
		Hash:         e.hash,
		CipherText:   b.data,
		Nonce:        b.nonce,
		IsText:       b.isText,
		IsCompressed: b.isCompressed,
		Timestamp:    tx.Timestamp(),
		Height:       tx.Height(),
	})
}

// LoadPrunable lazily rehydrates the payload from store when it is
// absent and the transaction's age is within MIN_PRUNABLE_LIFETIME (or
// MAX_PRUNABLE_LIFETIME if includeExpired and the chain configuration
// permits expired inclusion) - spec §4.6's loadPrunable.
func (e *PrunableEncryptedMessage) LoadPrunable(ctx context.Context, tx Transaction, includeExpired bool) error {
	if e.HasPrunableData() {
		return nil
	}

	cfg := chain.FromContext(ctx)
	clock := chain.ClockFromContext(ctx)
	age := clock.EpochTime() - tx.Timestamp()

	lifetime := cfg.MinPrunableLifetime
	if includeExpired && cfg.IncludeExpiredPrunable {
		lifetime = cfg.MaxPrunableLifetime
	}
	if age >= int32(lifetime.Seconds()) {
		return nil
	}

	store, err := prunable.StoreFromContext(ctx)
	if nil != err {
		return err
	}
	p, ok, err := store.Get(ctx, tx.ID())
	if nil != err || !ok {
		return err
	}

	rehydrated := digest.Sum(p.IsText, p.IsCompressed, p.CipherText, p.Nonce)
	if rehydrated != e.hash {
		fault.PanicIfError("prunable store payload hash check", fault.ErrCorruptPrunablePayload)
		return fault.ErrCorruptPrunablePayload
	}

	e.payload.Store(&encryptedBody{data: p.CipherText, nonce: p.Nonce, isText: p.IsText, isCompressed: p.IsCompressed})
	return nil
}

// RestorePrunableData re-inserts a payload previously observed,
// carrying its original timestamp and height through to the store
// (spec §4.6, §9's restorePrunableData) rather than the current block's
// values.
func (e *PrunableEncryptedMessage) RestorePrunableData(ctx context.Context, txID int64, timestamp, height int32) error {
	b := e.payload.Load()
	if nil == b {
		return fault.ErrMissingAppendixField
	}
	store, err := prunable.StoreFromContext(ctx)
	if nil != err {
		return err
	}
	return store.Add(ctx, txID, prunable.Payload{
		Hash:         e.hash,
		CipherText:   b.data,
		Nonce:        b.nonce,
		IsText:       b.isText,
		IsCompressed: b.isCompressed,
		Timestamp:    timestamp,
		Height:       height,
	})
}
