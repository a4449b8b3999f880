// Copyright (c) 2014-2016 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package digest provides the SHA-256 content hash used to address a
// pruned PrunableEncryptedMessage payload (spec §3, §4.6). It is the
// teacher's merkle.Digest adapted to a different algorithm: the spec
// fixes SHA-256 for this specific hash, not the family of hash the
// teacher's own consensus digest uses (SHA3-256), so this type does not
// share code with a SHA3 digest - see DESIGN.md.
package digest

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/spa-chain/spa-node/fault"
)

// Length is the number of bytes in a Hash256.
const Length = 32

// Hash256 is a content-addressed SHA-256 digest, stored and displayed in
// the same byte order (unlike the teacher's block-style digests, which
// reverse for display - there is no such convention for this hash).
type Hash256 [Length]byte

// Sum computes the canonical PrunableEncryptedMessage hash: spec §4.6
// defines it as sha256(isTextByte ‖ isCompressedByte ‖ ciphertext ‖ nonce).
// Sum is a thin wrapper so callers do not need to know the field order.
func Sum(isText, isCompressed bool, ciphertext, nonce []byte) Hash256 {
	h := sha256.New()
	h.Write([]byte{boolByte(isText), boolByte(isCompressed)})
	h.Write(ciphertext)
	h.Write(nonce)
	var out Hash256
	copy(out[:], h.Sum(nil))
	return out
}

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}

// String renders the digest as lowercase hex.
func (h Hash256) String() string {
	return hex.EncodeToString(h[:])
}

// Bytes returns a copy of the digest's bytes.
func (h Hash256) Bytes() []byte {
	out := make([]byte, Length)
	copy(out, h[:])
	return out
}

// MarshalText renders the digest as hex text for JSON encoding.
func (h Hash256) MarshalText() ([]byte, error) {
	buf := make([]byte, hex.EncodedLen(Length))
	hex.Encode(buf, h[:])
	return buf, nil
}

// UnmarshalText parses hex text into the digest.
func (h *Hash256) UnmarshalText(text []byte) error {
	if hex.DecodedLen(len(text)) != Length {
		return fault.ErrBufferTooShort
	}
	buf := make([]byte, Length)
	if _, err := hex.Decode(buf, text); nil != err {
		return err
	}
	copy(h[:], buf)
	return nil
}

// FromBytes validates and copies a raw byte slice into a Hash256.
func FromBytes(b []byte) (Hash256, error) {
	var h Hash256
	if Length != len(b) {
		return h, fault.ErrBufferTooShort
	}
	copy(h[:], b)
	return h, nil
}
