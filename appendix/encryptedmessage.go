// Copyright (c) 2014-2017 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package appendix

import (
	"context"

	"github.com/spa-chain/spa-node/buffer"
	"github.com/spa-chain/spa-node/chain"
	"github.com/spa-chain/spa-node/fault"
	"github.com/spa-chain/spa-node/fee"
)

// encryptedMessageFeeSchedule is the fee schedule spec §4.3 assigns to
// both EncryptedMessage and EncryptToSelfMessage: 1 SPA flat plus 1 SPA
// per 32 bytes of ciphertext, measured over dataLen-16 to approximate
// the original plaintext length under the fixed 16-byte authentication
// overhead.
func encryptedMessageFeeSchedule(oneSPA int64) fee.Schedule {
	return fee.Schedule{ConstantPart: oneSPA, UnitFee: oneSPA, UnitSize: 32}
}

// encryptedBody is the (ciphertext, nonce, isText, isCompressed) value
// both encrypted message kinds carry (spec §3, §4.5).
type encryptedBody struct {
	data         []byte
	nonce        []byte
	isText       bool
	isCompressed bool
}

func (b encryptedBody) size() int {
	return 4 + len(b.data) + len(b.nonce)
}

func (b encryptedBody) writeBinary(w *buffer.Writer) {
	w.PutLengthField(len(b.data), b.isText)
	w.PutBytes(b.data)
	w.PutBytes(b.nonce)
}

func parseEncryptedBody(r *buffer.Reader) (encryptedBody, error) {
	length, isText, err := r.GetLengthField()
	if nil != err {
		return encryptedBody{}, err
	}
	data, err := r.GetBytes(length)
	if nil != err {
		return encryptedBody{}, err
	}
	nonceLen := spacryptoNonceLengthFor(length)
	nonce, err := r.GetBytes(nonceLen)
	if nil != err {
		return encryptedBody{}, err
	}
	return encryptedBody{data: data, nonce: nonce, isText: isText}, nil
}

// spacryptoNonceLengthFor returns the nonce length the wire format
// carries for a body of the given data length: spec §4.5 allows a
// zero-length nonce only when there is no data (the pruned form).
func spacryptoNonceLengthFor(dataLength int) int {
	if 0 == dataLength {
		return 0
	}
	return nonceLength
}

// nonceLength is the wire nonce size for encrypted message bodies (spec
// §6: "nonce length 32").
const nonceLength = 32

// versionIsCompressed implements spec §4.5's version-to-compression
// mapping: version 1 means compressed, version 2 means not compressed.
func versionIsCompressed(version uint8) (isCompressed bool, ok bool) {
	switch version {
	case 1:
		return true, true
	case 2:
		return false, true
	default:
		return false, false
	}
}

func compressionVersion(isCompressed bool) uint8 {
	if isCompressed {
		return 1
	}
	return 2
}

func validateEncryptedBody(ctx context.Context, version uint8, b encryptedBody, height int32) error {
	cfg := chain.FromContext(ctx)
	if height <= cfg.ShufflingBlock {
		return nil
	}
	if len(b.data) > cfg.MaxEncryptedMessageLength {
		return fault.ErrEncryptedMessageTooLong
	}
	if err := validateNonceDataLengths(b.data, b.nonce); nil != err {
		return err
	}
	isCompressed, ok := versionIsCompressed(version)
	if !ok || isCompressed != b.isCompressed {
		return fault.ErrVersionCompressionMismatch
	}
	return nil
}

func validateNonceDataLengths(data, nonce []byte) error {
	if 0 == len(data) {
		if 0 != len(nonce) {
			return fault.ErrInvalidNonceLength
		}
		return nil
	}
	if len(nonce) != nonceLength {
		return fault.ErrInvalidNonceLength
	}
	return nil
}

// EncryptedMessage carries ciphertext addressed to the transaction's
// recipient (spec §4.5).
type EncryptedMessage struct {
	version uint8
	body    encryptedBody
}

// NewEncryptedMessage constructs a sealed EncryptedMessage from an
// already-encrypted body.
func NewEncryptedMessage(version uint8, data, nonce []byte, isText, isCompressed bool) *EncryptedMessage {
	return &EncryptedMessage{version: version, body: encryptedBody{data: data, nonce: nonce, isText: isText, isCompressed: isCompressed}}
}

// ParseEncryptedMessageBinary reads an EncryptedMessage body.
func ParseEncryptedMessageBinary(version uint8, r *buffer.Reader) (*EncryptedMessage, error) {
	body, err := parseEncryptedBody(r)
	if nil != err {
		return nil, err
	}
	isCompressed, _ := versionIsCompressed(version)
	body.isCompressed = isCompressed
	return &EncryptedMessage{version: version, body: body}, nil
}

// Data, Nonce, IsText, IsCompressed expose the encrypted body.
func (e *EncryptedMessage) Data() []byte         { return e.body.data }
func (e *EncryptedMessage) Nonce() []byte        { return e.body.nonce }
func (e *EncryptedMessage) IsText() bool         { return e.body.isText }
func (e *EncryptedMessage) IsCompressed() bool   { return e.body.isCompressed }

func (e *EncryptedMessage) Size() int     { return versionSize(e.version) + e.body.size() }
func (e *EncryptedMessage) FullSize() int { return e.Size() }

func (e *EncryptedMessage) WriteBinary(w *buffer.Writer) error {
	writeVersion(w, e.version)
	e.body.writeBinary(w)
	return nil
}

func (e *EncryptedMessage) ToJSON() (map[string]interface{}, error) {
	return map[string]interface{}{
		"version.EncryptedMessage": e.version,
		"encryptedMessage": map[string]interface{}{
			"data":         buffer.HexBytes(e.body.data).String(),
			"nonce":        buffer.HexBytes(e.body.nonce).String(),
			"isText":       e.body.isText,
			"isCompressed": e.body.isCompressed,
		},
	}, nil
}

func (e *EncryptedMessage) Version() uint8 { return e.version }

func (e *EncryptedMessage) BaselineFeeHeight() int32 { return 0 }

func (e *EncryptedMessage) BaselineFee(ctx context.Context, tx Transaction) (int64, error) {
	cfg := chain.FromContext(ctx)
	return encryptedMessageFeeSchedule(cfg.ONESPA).Evaluate(effectiveEncryptedSize(len(e.body.data)))
}

func (e *EncryptedMessage) NextFeeHeight() int32 { return NoScheduledFeeChange }

func (e *EncryptedMessage) NextFee(ctx context.Context, tx Transaction) (int64, error) {
	return e.BaselineFee(ctx, tx)
}

func (e *EncryptedMessage) IsPhased(tx Transaction) bool { return false }

func (e *EncryptedMessage) Validate(ctx context.Context, tx Transaction) error {
	if err := validateVersionMatchesTx(tx.Version(), e.version); nil != err {
		return err
	}
	if 0 == tx.RecipientID() {
		return fault.ErrNoRecipient
	}
	return validateEncryptedBody(ctx, e.version, e.body, tx.Height())
}

func (e *EncryptedMessage) Apply(ctx context.Context, tx Transaction) error { return nil }

// effectiveEncryptedSize is dataLen-16, the fee-relevant size spec §4.3
// defines for the encrypted message kinds, floored at zero so a short
// or pruned body never yields a negative size.
func effectiveEncryptedSize(dataLen int) int {
	n := dataLen - 16
	if n < 0 {
		return 0
	}
	return n
}
