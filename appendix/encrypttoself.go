// Copyright (c) 2014-2017 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package appendix

import (
	"context"

	"github.com/spa-chain/spa-node/buffer"
	"github.com/spa-chain/spa-node/chain"
)

// EncryptToSelfMessage carries ciphertext the sender can decrypt with
// their own key pair (spec §4.5): the shared secret is derived from the
// sender's own public key rather than a recipient's. It shares its wire
// format and fee schedule with EncryptedMessage but does not require a
// transaction recipient to validate.
type EncryptToSelfMessage struct {
	version uint8
	body    encryptedBody
}

// NewEncryptToSelfMessage constructs a sealed EncryptToSelfMessage from
// an already-encrypted body.
func NewEncryptToSelfMessage(version uint8, data, nonce []byte, isText, isCompressed bool) *EncryptToSelfMessage {
	return &EncryptToSelfMessage{version: version, body: encryptedBody{data: data, nonce: nonce, isText: isText, isCompressed: isCompressed}}
}

// ParseEncryptToSelfMessageBinary reads an EncryptToSelfMessage body.
func ParseEncryptToSelfMessageBinary(version uint8, r *buffer.Reader) (*EncryptToSelfMessage, error) {
	body, err := parseEncryptedBody(r)
	if nil != err {
		return nil, err
	}
	isCompressed, _ := versionIsCompressed(version)
	body.isCompressed = isCompressed
	return &EncryptToSelfMessage{version: version, body: body}, nil
}

func (e *EncryptToSelfMessage) Data() []byte       { return e.body.data }
func (e *EncryptToSelfMessage) Nonce() []byte      { return e.body.nonce }
func (e *EncryptToSelfMessage) IsText() bool       { return e.body.isText }
func (e *EncryptToSelfMessage) IsCompressed() bool { return e.body.isCompressed }

func (e *EncryptToSelfMessage) Size() int     { return versionSize(e.version) + e.body.size() }
func (e *EncryptToSelfMessage) FullSize() int { return e.Size() }

func (e *EncryptToSelfMessage) WriteBinary(w *buffer.Writer) error {
	writeVersion(w, e.version)
	e.body.writeBinary(w)
	return nil
}

func (e *EncryptToSelfMessage) ToJSON() (map[string]interface{}, error) {
	return map[string]interface{}{
		"version.EncryptToSelfMessage": e.version,
		"encryptToSelfMessage": map[string]interface{}{
			"data":         buffer.HexBytes(e.body.data).String(),
			"nonce":        buffer.HexBytes(e.body.nonce).String(),
			"isText":       e.body.isText,
			"isCompressed": e.body.isCompressed,
		},
	}, nil
}

func (e *EncryptToSelfMessage) Version() uint8 { return e.version }

func (e *EncryptToSelfMessage) BaselineFeeHeight() int32 { return 0 }

func (e *EncryptToSelfMessage) BaselineFee(ctx context.Context, tx Transaction) (int64, error) {
	cfg := chain.FromContext(ctx)
	return encryptedMessageFeeSchedule(cfg.ONESPA).Evaluate(effectiveEncryptedSize(len(e.body.data)))
}

func (e *EncryptToSelfMessage) NextFeeHeight() int32 { return NoScheduledFeeChange }

func (e *EncryptToSelfMessage) NextFee(ctx context.Context, tx Transaction) (int64, error) {
	return e.BaselineFee(ctx, tx)
}

func (e *EncryptToSelfMessage) IsPhased(tx Transaction) bool { return false }

// Validate implements spec §4.5 for the self variant: no recipient
// check, since the message is addressed to the sender.
func (e *EncryptToSelfMessage) Validate(ctx context.Context, tx Transaction) error {
	if err := validateVersionMatchesTx(tx.Version(), e.version); nil != err {
		return err
	}
	return validateEncryptedBody(ctx, e.version, e.body, tx.Height())
}

func (e *EncryptToSelfMessage) Apply(ctx context.Context, tx Transaction) error { return nil }
