// Copyright (c) 2014-2017 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package appendix

import (
	"context"

	"github.com/spa-chain/spa-node/account"
	"github.com/spa-chain/spa-node/buffer"
	"github.com/spa-chain/spa-node/fault"
	"github.com/spa-chain/spa-node/spacrypto"
)

// PublicKeyAnnouncement binds a recipient's account id to the public key
// that id was derived from (spec §4.7). It is the only appendix kind in
// this package that mutates account state on Apply.
type PublicKeyAnnouncement struct {
	version           uint8
	recipientPublicKey spacrypto.PublicKey
}

// NewPublicKeyAnnouncement constructs a sealed PublicKeyAnnouncement.
// Canonicalization and the accountId binding are checked by Validate,
// not here, since both require the enclosing transaction.
func NewPublicKeyAnnouncement(version uint8, key spacrypto.PublicKey) *PublicKeyAnnouncement {
	return &PublicKeyAnnouncement{version: version, recipientPublicKey: key}
}

// ParsePublicKeyAnnouncementBinary reads the 32-byte key body.
func ParsePublicKeyAnnouncementBinary(version uint8, r *buffer.Reader) (*PublicKeyAnnouncement, error) {
	raw, err := r.GetBytes(spacrypto.KeyLength)
	if nil != err {
		return nil, err
	}
	var key spacrypto.PublicKey
	copy(key[:], raw)
	return NewPublicKeyAnnouncement(version, key), nil
}

// PublicKey returns the announced public key.
func (p *PublicKeyAnnouncement) PublicKey() spacrypto.PublicKey { return p.recipientPublicKey }

func (p *PublicKeyAnnouncement) Size() int {
	return versionSize(p.version) + spacrypto.KeyLength
}

func (p *PublicKeyAnnouncement) FullSize() int { return p.Size() }

func (p *PublicKeyAnnouncement) WriteBinary(w *buffer.Writer) error {
	writeVersion(w, p.version)
	w.PutBytes(p.recipientPublicKey[:])
	return nil
}

func (p *PublicKeyAnnouncement) ToJSON() (map[string]interface{}, error) {
	return map[string]interface{}{
		"version.PublicKeyAnnouncement": p.version,
		"recipientPublicKey":            buffer.HexBytes(p.recipientPublicKey[:]).String(),
	}, nil
}

func (p *PublicKeyAnnouncement) Version() uint8 { return p.version }

func (p *PublicKeyAnnouncement) BaselineFeeHeight() int32 { return 0 }

// BaselineFee is always zero: spec §3's fee column for
// PublicKeyAnnouncement is "none".
func (p *PublicKeyAnnouncement) BaselineFee(ctx context.Context, tx Transaction) (int64, error) {
	return 0, nil
}

func (p *PublicKeyAnnouncement) NextFeeHeight() int32 { return NoScheduledFeeChange }

func (p *PublicKeyAnnouncement) NextFee(ctx context.Context, tx Transaction) (int64, error) {
	return 0, nil
}

func (p *PublicKeyAnnouncement) IsPhased(tx Transaction) bool { return false }

// Validate implements spec §4.7's four validation steps.
func (p *PublicKeyAnnouncement) Validate(ctx context.Context, tx Transaction) error {
	if err := validateVersionMatchesTx(tx.Version(), p.version); nil != err {
		return err
	}
	if 0 == tx.RecipientID() {
		return fault.ErrNoRecipient
	}
	if !spacrypto.IsCanonicalPublicKey(p.recipientPublicKey) {
		return fault.ErrInvalidPublicKey
	}

	var keyBytes account.PublicKey
	copy(keyBytes[:], p.recipientPublicKey[:])
	if account.IDFromPublicKey(keyBytes) != tx.RecipientID() {
		return fault.ErrAnnouncedKeyMismatch
	}

	store, err := account.StoreFromContext(ctx)
	if nil != err {
		return err
	}
	existing, ok, err := store.GetPublicKey(ctx, tx.RecipientID())
	if nil != err {
		return err
	}
	if ok && existing != keyBytes {
		return fault.ErrConflictingPublicKey
	}
	return nil
}

// Apply commits the announced key to the recipient's account (spec
// §4.7's "atomically set... if already set, verify equality").
func (p *PublicKeyAnnouncement) Apply(ctx context.Context, tx Transaction) error {
	store, err := account.StoreFromContext(ctx)
	if nil != err {
		return err
	}
	var keyBytes account.PublicKey
	copy(keyBytes[:], p.recipientPublicKey[:])
	acc := account.NewAccount(tx.RecipientID(), store)
	return acc.Apply(ctx, keyBytes)
}
