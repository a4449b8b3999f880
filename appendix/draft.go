// Copyright (c) 2014-2017 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package appendix

import (
	"context"

	"github.com/spa-chain/spa-node/buffer"
	"github.com/spa-chain/spa-node/chain"
	"github.com/spa-chain/spa-node/digest"
	"github.com/spa-chain/spa-node/fault"
	"github.com/spa-chain/spa-node/spacrypto"
)

// An unsealed draft is a construction-time state, not a runtime
// subtype of its sealed counterpart (spec §9): it holds plaintext and a
// recipient key until Seal produces the immutable sealed appendix. The
// node's outbound-API path is the only caller that ever sees one.

// EncryptedMessageDraft builds an EncryptedMessage.
type EncryptedMessageDraft struct {
	version            uint8
	messageToEncrypt   []byte
	isText             bool
	isCompressed       bool
	recipientPublicKey spacrypto.PublicKey
}

// NewEncryptedMessageDraft constructs an unsealed EncryptedMessageDraft.
func NewEncryptedMessageDraft(version uint8, messageToEncrypt []byte, isText, isCompressed bool, recipientPublicKey spacrypto.PublicKey) *EncryptedMessageDraft {
	return &EncryptedMessageDraft{
		version:            version,
		messageToEncrypt:   messageToEncrypt,
		isText:             isText,
		isCompressed:       isCompressed,
		recipientPublicKey: recipientPublicKey,
	}
}

// Seal encrypts the draft's plaintext to recipientPublicKey using secret
// as the sender's private key, producing the immutable sealed
// EncryptedMessage (spec §4.5).
func (d *EncryptedMessageDraft) Seal(secret spacrypto.PrivateKey) (*EncryptedMessage, error) {
	nonce, err := spacrypto.NewNonce()
	if nil != err {
		return nil, err
	}
	ciphertext, err := spacrypto.Encrypt(d.messageToEncrypt, d.isCompressed, d.recipientPublicKey, secret, nonce)
	if nil != err {
		return nil, err
	}
	return NewEncryptedMessage(d.version, ciphertext, nonce[:], d.isText, d.isCompressed), nil
}

func (d *EncryptedMessageDraft) predictedSize() int {
	return versionSize(d.version) + 4 + spacrypto.PredictEncryptedLength(len(d.messageToEncrypt)) + spacrypto.NonceLength
}

func (d *EncryptedMessageDraft) Size() int     { return d.predictedSize() }
func (d *EncryptedMessageDraft) FullSize() int { return d.predictedSize() }

func (d *EncryptedMessageDraft) WriteBinary(w *buffer.Writer) error { return fault.ErrNotYetEncrypted }

func (d *EncryptedMessageDraft) ToJSON() (map[string]interface{}, error) {
	return map[string]interface{}{
		"version.EncryptedMessage": d.version,
		"encryptedMessage": map[string]interface{}{
			"messageToEncrypt": buffer.HexBytes(d.messageToEncrypt).String(),
			"isText":           d.isText,
			"isCompressed":     d.isCompressed,
		},
		"recipientPublicKey": buffer.HexBytes(d.recipientPublicKey[:]).String(),
	}, nil
}

func (d *EncryptedMessageDraft) Version() uint8 { return d.version }

func (d *EncryptedMessageDraft) BaselineFeeHeight() int32 { return 0 }

func (d *EncryptedMessageDraft) BaselineFee(ctx context.Context, tx Transaction) (int64, error) {
	cfg := chain.FromContext(ctx)
	n := spacrypto.PredictEncryptedLength(len(d.messageToEncrypt))
	return encryptedMessageFeeSchedule(cfg.ONESPA).Evaluate(effectiveEncryptedSize(n))
}

func (d *EncryptedMessageDraft) NextFeeHeight() int32 { return NoScheduledFeeChange }

func (d *EncryptedMessageDraft) NextFee(ctx context.Context, tx Transaction) (int64, error) {
	return d.BaselineFee(ctx, tx)
}

func (d *EncryptedMessageDraft) IsPhased(tx Transaction) bool { return false }

func (d *EncryptedMessageDraft) Validate(ctx context.Context, tx Transaction) error {
	return fault.ErrNotYetEncrypted
}

func (d *EncryptedMessageDraft) Apply(ctx context.Context, tx Transaction) error {
	return fault.ErrNotYetEncrypted
}

// EncryptToSelfMessageDraft builds an EncryptToSelfMessage: Seal derives
// the shared secret from the sender's own public key rather than a
// separately supplied recipient key (spec §4.5).
type EncryptToSelfMessageDraft struct {
	version          uint8
	messageToEncrypt []byte
	isText           bool
	isCompressed     bool
}

// NewEncryptToSelfMessageDraft constructs an unsealed
// EncryptToSelfMessageDraft.
func NewEncryptToSelfMessageDraft(version uint8, messageToEncrypt []byte, isText, isCompressed bool) *EncryptToSelfMessageDraft {
	return &EncryptToSelfMessageDraft{version: version, messageToEncrypt: messageToEncrypt, isText: isText, isCompressed: isCompressed}
}

// Seal encrypts the draft's plaintext to the sender's own public key,
// derived from secret (spacrypto.PublicKeyFromPrivate), using secret as
// the sender's private key.
func (d *EncryptToSelfMessageDraft) Seal(secret spacrypto.PrivateKey) (*EncryptToSelfMessage, error) {
	nonce, err := spacrypto.NewNonce()
	if nil != err {
		return nil, err
	}
	senderPublicKey := spacrypto.PublicKeyFromPrivate(secret)
	ciphertext, err := spacrypto.Encrypt(d.messageToEncrypt, d.isCompressed, senderPublicKey, secret, nonce)
	if nil != err {
		return nil, err
	}
	return NewEncryptToSelfMessage(d.version, ciphertext, nonce[:], d.isText, d.isCompressed), nil
}

func (d *EncryptToSelfMessageDraft) predictedSize() int {
	return versionSize(d.version) + 4 + spacrypto.PredictEncryptedLength(len(d.messageToEncrypt)) + spacrypto.NonceLength
}

func (d *EncryptToSelfMessageDraft) Size() int     { return d.predictedSize() }
func (d *EncryptToSelfMessageDraft) FullSize() int { return d.predictedSize() }

func (d *EncryptToSelfMessageDraft) WriteBinary(w *buffer.Writer) error {
	return fault.ErrNotYetEncrypted
}

func (d *EncryptToSelfMessageDraft) ToJSON() (map[string]interface{}, error) {
	return map[string]interface{}{
		"version.EncryptToSelfMessage": d.version,
		"encryptToSelfMessage": map[string]interface{}{
			"messageToEncrypt": buffer.HexBytes(d.messageToEncrypt).String(),
			"isText":           d.isText,
			"isCompressed":     d.isCompressed,
		},
	}, nil
}

func (d *EncryptToSelfMessageDraft) Version() uint8 { return d.version }

func (d *EncryptToSelfMessageDraft) BaselineFeeHeight() int32 { return 0 }

func (d *EncryptToSelfMessageDraft) BaselineFee(ctx context.Context, tx Transaction) (int64, error) {
	cfg := chain.FromContext(ctx)
	n := spacrypto.PredictEncryptedLength(len(d.messageToEncrypt))
	return encryptedMessageFeeSchedule(cfg.ONESPA).Evaluate(effectiveEncryptedSize(n))
}

func (d *EncryptToSelfMessageDraft) NextFeeHeight() int32 { return NoScheduledFeeChange }

func (d *EncryptToSelfMessageDraft) NextFee(ctx context.Context, tx Transaction) (int64, error) {
	return d.BaselineFee(ctx, tx)
}

func (d *EncryptToSelfMessageDraft) IsPhased(tx Transaction) bool { return false }

func (d *EncryptToSelfMessageDraft) Validate(ctx context.Context, tx Transaction) error {
	return fault.ErrNotYetEncrypted
}

func (d *EncryptToSelfMessageDraft) Apply(ctx context.Context, tx Transaction) error {
	return fault.ErrNotYetEncrypted
}

// PrunableEncryptedMessageDraft builds a PrunableEncryptedMessage.
type PrunableEncryptedMessageDraft struct {
	version            uint8
	messageToEncrypt   []byte
	isText             bool
	isCompressed       bool
	recipientPublicKey spacrypto.PublicKey
}

// NewPrunableEncryptedMessageDraft constructs an unsealed
// PrunableEncryptedMessageDraft.
func NewPrunableEncryptedMessageDraft(version uint8, messageToEncrypt []byte, isText, isCompressed bool, recipientPublicKey spacrypto.PublicKey) *PrunableEncryptedMessageDraft {
	return &PrunableEncryptedMessageDraft{
		version:            version,
		messageToEncrypt:   messageToEncrypt,
		isText:             isText,
		isCompressed:       isCompressed,
		recipientPublicKey: recipientPublicKey,
	}
}

// Seal encrypts the draft's plaintext, producing the immutable sealed
// PrunableEncryptedMessage (spec §4.6).
func (d *PrunableEncryptedMessageDraft) Seal(secret spacrypto.PrivateKey) (*PrunableEncryptedMessage, error) {
	nonce, err := spacrypto.NewNonce()
	if nil != err {
		return nil, err
	}
	ciphertext, err := spacrypto.Encrypt(d.messageToEncrypt, d.isCompressed, d.recipientPublicKey, secret, nonce)
	if nil != err {
		return nil, err
	}
	return NewPrunableEncryptedMessage(d.version, ciphertext, nonce[:], d.isText, d.isCompressed), nil
}

func (d *PrunableEncryptedMessageDraft) predictedSize() int {
	return versionSize(d.version) + 4 + spacrypto.PredictEncryptedLength(len(d.messageToEncrypt)) + spacrypto.NonceLength
}

// Size is the hash-only wire size, identical to the sealed form's.
func (d *PrunableEncryptedMessageDraft) Size() int {
	return versionSize(d.version) + digest.Length
}

func (d *PrunableEncryptedMessageDraft) FullSize() int { return d.predictedSize() }

func (d *PrunableEncryptedMessageDraft) WriteBinary(w *buffer.Writer) error {
	return fault.ErrNotYetEncrypted
}

func (d *PrunableEncryptedMessageDraft) ToJSON() (map[string]interface{}, error) {
	return map[string]interface{}{
		"version.PrunableEncryptedMessage": d.version,
		"encryptedMessage": map[string]interface{}{
			"messageToEncrypt": buffer.HexBytes(d.messageToEncrypt).String(),
			"isText":           d.isText,
			"isCompressed":     d.isCompressed,
		},
		"recipientPublicKey": buffer.HexBytes(d.recipientPublicKey[:]).String(),
	}, nil
}

func (d *PrunableEncryptedMessageDraft) Version() uint8 { return d.version }

func (d *PrunableEncryptedMessageDraft) BaselineFeeHeight() int32 { return 0 }

func (d *PrunableEncryptedMessageDraft) BaselineFee(ctx context.Context, tx Transaction) (int64, error) {
	cfg := chain.FromContext(ctx)
	return prunableEncryptedMessageFeeSchedule(cfg.ONESPA).Evaluate(d.FullSize())
}

func (d *PrunableEncryptedMessageDraft) NextFeeHeight() int32 { return NoScheduledFeeChange }

func (d *PrunableEncryptedMessageDraft) NextFee(ctx context.Context, tx Transaction) (int64, error) {
	return d.BaselineFee(ctx, tx)
}

func (d *PrunableEncryptedMessageDraft) IsPhased(tx Transaction) bool { return false }

func (d *PrunableEncryptedMessageDraft) Validate(ctx context.Context, tx Transaction) error {
	return fault.ErrNotYetEncrypted
}

func (d *PrunableEncryptedMessageDraft) Apply(ctx context.Context, tx Transaction) error {
	return fault.ErrNotYetEncrypted
}
