// Copyright (c) 2014-2015 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package buffer

import "unicode/utf8"

// IsCanonicalText reports whether b is valid UTF-8 that re-encodes to
// itself byte-for-byte (spec §3, §4.4, scenario S3). Decoding b rune by
// rune and re-encoding is the canonicalization test: utf8.Valid alone
// would accept the same decoded content encoded two different ways, and
// a message marked isText must round-trip exactly or peers hashing the
// same transaction would disagree about its bytes.
func IsCanonicalText(b []byte) bool {
	re := make([]byte, 0, len(b))
	for i := 0; i < len(b); {
		r, size := utf8.DecodeRune(b[i:])
		if r == utf8.RuneError && size <= 1 {
			return false
		}
		re = utf8.AppendRune(re, r)
		i += size
	}
	return bytesEqual(re, b)
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
