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

// MaxPlainMessageLength is the largest a PlainMessage's body may be
// (spec §4.4).
const MaxPlainMessageLength = 1000

// PlainMessage carries an arbitrary, unencrypted byte string, optionally
// marked and validated as canonical UTF-8 text (spec §4.4).
type PlainMessage struct {
	version uint8
	message []byte
	isText  bool
}

// NewPlainMessage constructs a sealed PlainMessage, validating length and
// (if isText) UTF-8 canonicalization - spec §8 scenario S2, S3.
func NewPlainMessage(version uint8, message []byte, isText bool) (*PlainMessage, error) {
	if len(message) > MaxPlainMessageLength {
		return nil, fault.ErrMessageTooLong
	}
	if isText && !buffer.IsCanonicalText(message) {
		return nil, fault.ErrMessageIsNotUTF8Text
	}
	return &PlainMessage{version: version, message: message, isText: isText}, nil
}

// ParsePlainMessageBinary reads a PlainMessage body (the length header and
// message bytes, not the version byte, which the caller has already
// consumed to learn the kind).
func ParsePlainMessageBinary(version uint8, r *buffer.Reader) (*PlainMessage, error) {
	length, isText, err := r.GetLengthField()
	if nil != err {
		return nil, err
	}
	message, err := r.GetBytes(length)
	if nil != err {
		return nil, err
	}
	return NewPlainMessage(version, message, isText)
}

// Message returns the appendix's raw message bytes.
func (p *PlainMessage) Message() []byte { return p.message }

// IsText reports whether Message was validated as canonical UTF-8 text.
func (p *PlainMessage) IsText() bool { return p.isText }

func (p *PlainMessage) Size() int {
	return versionSize(p.version) + 4 + len(p.message)
}

func (p *PlainMessage) FullSize() int { return p.Size() }

func (p *PlainMessage) WriteBinary(w *buffer.Writer) error {
	writeVersion(w, p.version)
	w.PutLengthField(len(p.message), p.isText)
	w.PutBytes(p.message)
	return nil
}

func (p *PlainMessage) ToJSON() (map[string]interface{}, error) {
	return map[string]interface{}{
		"version.PlainMessage": p.version,
		"message":              buffer.HexBytes(p.message).String(),
		"messageIsText":        p.isText,
	}, nil
}

func (p *PlainMessage) Version() uint8 { return p.version }

func (p *PlainMessage) BaselineFeeHeight() int32 { return 0 }

func (p *PlainMessage) BaselineFee(ctx context.Context, tx Transaction) (int64, error) {
	cfg := chain.FromContext(ctx)
	schedule := fee.Schedule{ConstantPart: 0, UnitFee: cfg.ONESPA, UnitSize: 32}
	return schedule.Evaluate(len(p.message))
}

func (p *PlainMessage) NextFeeHeight() int32 { return NoScheduledFeeChange }

func (p *PlainMessage) NextFee(ctx context.Context, tx Transaction) (int64, error) {
	return p.BaselineFee(ctx, tx)
}

func (p *PlainMessage) IsPhased(tx Transaction) bool { return false }

// Validate re-checks the invariants NewPlainMessage already enforced at
// construction, the same shape spec §4.8 describes ("validate may be
// called twice... side-effect-free").
func (p *PlainMessage) Validate(ctx context.Context, tx Transaction) error {
	if err := validateVersionMatchesTx(tx.Version(), p.version); nil != err {
		return err
	}
	if len(p.message) > MaxPlainMessageLength {
		return fault.ErrMessageTooLong
	}
	if p.isText && !buffer.IsCanonicalText(p.message) {
		return fault.ErrMessageIsNotUTF8Text
	}
	return nil
}

func (p *PlainMessage) Apply(ctx context.Context, tx Transaction) error { return nil }
