// Copyright (c) 2014-2017 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package buffer

import "encoding/hex"

// HexBytes is a byte slice that marshals to/from a JSON hex string,
// mirroring account.Signature's MarshalText/UnmarshalText pair in the
// teacher repo. The appendix JSON surface (spec §3 table) represents
// ciphertext, nonces and raw public keys this way.
type HexBytes []byte

// String renders the hex encoding for use by the fmt package.
func (h HexBytes) String() string {
	return hex.EncodeToString(h)
}

// MarshalText converts h to hex text for JSON encoding.
func (h HexBytes) MarshalText() ([]byte, error) {
	buf := make([]byte, hex.EncodedLen(len(h)))
	hex.Encode(buf, h)
	return buf, nil
}

// UnmarshalText decodes a hex string into h.
func (h *HexBytes) UnmarshalText(text []byte) error {
	buf := make([]byte, hex.DecodedLen(len(text)))
	n, err := hex.Decode(buf, text)
	if nil != err {
		return err
	}
	*h = buf[:n]
	return nil
}
