// Copyright (c) 2014-2015 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package buffer_test

import (
	"bytes"
	"testing"

	"github.com/spa-chain/spa-node/buffer"
)

// S1 from spec §8: PlainMessage text "hi" at version 1 produces
// 01 02 00 00 80 68 69 - this test checks just the body (no version byte,
// that belongs to the appendix header, not this package).
func TestPutGetLengthField(t *testing.T) {
	w := buffer.NewWriter()
	w.PutLengthField(2, true)
	w.PutBytes([]byte("hi"))

	expected := []byte{0x02, 0x00, 0x00, 0x80, 0x68, 0x69}
	if !bytes.Equal(w.Bytes(), expected) {
		t.Fatalf("got % x expected % x", w.Bytes(), expected)
	}

	r := buffer.NewReader(w.Bytes())
	length, isText, err := r.GetLengthField()
	if nil != err {
		t.Fatalf("unexpected error: %v", err)
	}
	if 2 != length || !isText {
		t.Fatalf("got length=%d isText=%v", length, isText)
	}
	body, err := r.GetBytes(length)
	if nil != err {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.Equal(body, []byte("hi")) {
		t.Fatalf("got %q expected %q", body, "hi")
	}
}

func TestLengthFieldNotText(t *testing.T) {
	w := buffer.NewWriter()
	w.PutLengthField(1000, false)

	r := buffer.NewReader(w.Bytes())
	length, isText, err := r.GetLengthField()
	if nil != err {
		t.Fatalf("unexpected error: %v", err)
	}
	if 1000 != length || isText {
		t.Fatalf("got length=%d isText=%v", length, isText)
	}
}

func TestReaderTruncated(t *testing.T) {
	r := buffer.NewReader([]byte{0x01, 0x02})
	if _, err := r.GetInt32(); nil == err {
		t.Fatalf("expected error on truncated buffer")
	}
	if _, err := buffer.NewReader(nil).GetUint8(); nil == err {
		t.Fatalf("expected error on empty buffer")
	}
}

var canonicalTextTests = []struct {
	text      []byte
	canonical bool
}{
	{[]byte("hi"), true},
	{[]byte{}, true},
	{[]byte{0xc3, 0x28}, false}, // S3: invalid UTF-8 continuation
	{[]byte{0xff, 0xfe}, false},
}

func TestIsCanonicalText(t *testing.T) {
	for i, test := range canonicalTextTests {
		if got := buffer.IsCanonicalText(test.text); got != test.canonical {
			t.Errorf("%d: IsCanonicalText(% x) = %v, expected %v", i, test.text, got, test.canonical)
		}
	}
}
