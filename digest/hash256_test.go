// Copyright (c) 2014-2016 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package digest_test

import (
	"crypto/sha256"
	"testing"

	"github.com/spa-chain/spa-node/digest"
)

// S6/invariant 6: the hash is stable and equals a manually computed
// sha256(isTextByte ‖ isCompressedByte ‖ data ‖ nonce).
func TestSumMatchesManualComputation(t *testing.T) {
	data := []byte("ciphertext")
	nonce := make([]byte, 32)

	got := digest.Sum(true, false, data, nonce)

	h := sha256.New()
	h.Write([]byte{1, 0})
	h.Write(data)
	h.Write(nonce)
	var want digest.Hash256
	copy(want[:], h.Sum(nil))

	if got != want {
		t.Fatalf("got %s expected %s", got, want)
	}
}

func TestHashTextRoundTrip(t *testing.T) {
	h := digest.Sum(false, true, []byte("x"), make([]byte, 32))

	text, err := h.MarshalText()
	if nil != err {
		t.Fatalf("unexpected error: %v", err)
	}

	var h2 digest.Hash256
	if err := h2.UnmarshalText(text); nil != err {
		t.Fatalf("unexpected error: %v", err)
	}
	if h != h2 {
		t.Fatalf("got %s expected %s", h2, h)
	}
}

func TestFromBytesRejectsWrongLength(t *testing.T) {
	if _, err := digest.FromBytes(make([]byte, 31)); nil == err {
		t.Fatalf("expected error for short buffer")
	}
}
