// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package buffer provides the positional byte-buffer primitives the
// appendix wire format is built from: fixed-width little-endian integers,
// raw byte spans, and the length-field-with-sign-bit-as-flag encoding used
// by the message appendices.
//
// Unlike the teacher's own util.Varint64 codec, the appendix wire format
// uses fixed-width fields throughout - every byte offset is dictated by
// spec, not by a self-describing length prefix - so this package is a
// sibling to util.Varint64, not a wrapper around it.
package buffer

import (
	"encoding/binary"

	"github.com/spa-chain/spa-node/fault"
)

// signBit marks the high bit of the int32 length header as the isText flag.
const signBit = int32(-1 << 31)

// maxLength31 is the largest value that fits in the lower 31 bits.
const maxLength31 = int32(0x7fffffff)

// Writer accumulates bytes for a single appendix body. It is borrowed for
// the duration of one writeBinary call and must not be retained (spec §5).
type Writer struct {
	buf []byte
}

// NewWriter returns an empty Writer.
func NewWriter() *Writer {
	return &Writer{}
}

// PutUint8 appends a single byte.
func (w *Writer) PutUint8(v uint8) {
	w.buf = append(w.buf, v)
}

// PutInt32 appends a little-endian 32-bit integer.
func (w *Writer) PutInt32(v int32) {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], uint32(v))
	w.buf = append(w.buf, tmp[:]...)
}

// PutLengthField appends the int32 length header used by PlainMessage and
// the encrypted message families: the high bit carries isText, the low 31
// bits carry length.
func (w *Writer) PutLengthField(length int, isText bool) {
	v := int32(length) & maxLength31
	if isText {
		v |= signBit
	}
	w.PutInt32(v)
}

// PutBytes appends a raw byte span with no length prefix - the caller is
// responsible for the wire format already having communicated its length.
func (w *Writer) PutBytes(b []byte) {
	w.buf = append(w.buf, b...)
}

// Len returns the number of bytes written so far.
func (w *Writer) Len() int {
	return len(w.buf)
}

// Bytes returns the accumulated buffer. The caller owns the result.
func (w *Writer) Bytes() []byte {
	return w.buf
}

// Reader consumes bytes positionally from a parsed appendix body. Reads
// past the end of the underlying slice raise fault.ErrBufferTooShort
// rather than panicking, per spec §6.
type Reader struct {
	buf []byte
	pos int
}

// NewReader wraps buf for sequential reads starting at offset 0.
func NewReader(buf []byte) *Reader {
	return &Reader{buf: buf}
}

// Remaining reports how many unread bytes are left.
func (r *Reader) Remaining() int {
	return len(r.buf) - r.pos
}

// GetUint8 reads a single byte.
func (r *Reader) GetUint8() (uint8, error) {
	if r.Remaining() < 1 {
		return 0, fault.ErrBufferTooShort
	}
	v := r.buf[r.pos]
	r.pos++
	return v, nil
}

// GetInt32 reads a little-endian 32-bit integer.
func (r *Reader) GetInt32() (int32, error) {
	if r.Remaining() < 4 {
		return 0, fault.ErrBufferTooShort
	}
	v := int32(binary.LittleEndian.Uint32(r.buf[r.pos : r.pos+4]))
	r.pos += 4
	return v, nil
}

// GetLengthField reads the int32 length header and splits it into its
// length and isText components, undoing PutLengthField.
func (r *Reader) GetLengthField() (length int, isText bool, err error) {
	v, err := r.GetInt32()
	if nil != err {
		return 0, false, err
	}
	isText = v < 0
	length = int(v & maxLength31)
	return length, isText, nil
}

// GetBytes reads and returns a copy of the next n bytes.
func (r *Reader) GetBytes(n int) ([]byte, error) {
	if n < 0 || r.Remaining() < n {
		return nil, fault.ErrBufferTooShort
	}
	out := make([]byte, n)
	copy(out, r.buf[r.pos:r.pos+n])
	r.pos += n
	return out, nil
}
