// Copyright (c) 2014-2017 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package spacrypto implements the curve25519 ECDH authenticated
// encryption the encrypted-message appendices seal their payload with
// (spec §4.4, §4.5, §4.6), grounded on the same golang.org/x/crypto/nacl
// primitives a CurveCP-style transport in the pack uses for its own
// box.Seal/box.Open key exchange: GenerateKey produces a key pair, and
// Encrypt/Decrypt seal/open with box.Seal/box.Open under a nonce the
// caller supplies (NewNonce draws a random one).
package spacrypto

import (
	"bytes"
	"compress/gzip"
	"crypto/rand"
	"io"
	"math/big"

	"golang.org/x/crypto/curve25519"
	"golang.org/x/crypto/nacl/box"

	"github.com/spa-chain/spa-node/fault"
)

// KeyLength is the size in bytes of a curve25519 key, public or private.
const KeyLength = 32

// NonceLength is the size in bytes of the nonce field on the wire (spec
// §4.5, §6). box.Seal itself only consumes a 24-byte nonce; the low 24
// bytes of the wire nonce are what is actually fed to it, the remaining
// 8 bytes are carried for wire-format compatibility and are otherwise
// unused randomness - see DESIGN.md.
const NonceLength = 32

// boxNonceLength is the nonce size golang.org/x/crypto/nacl/box expects.
const boxNonceLength = 24

// Overhead is the number of bytes box.Seal adds to a message beyond its
// plaintext length.
const Overhead = box.Overhead

// PublicKey and PrivateKey are raw curve25519 keys.
type PublicKey [KeyLength]byte
type PrivateKey [KeyLength]byte

// curve25519Prime is 2^255 - 19, the field prime a canonical curve25519
// public key's little-endian integer value must fall strictly below.
var curve25519Prime = func() *big.Int {
	p := new(big.Int).Lsh(big.NewInt(1), 255)
	return p.Sub(p, big.NewInt(19))
}()

// IsCanonicalPublicKey reports whether key is a well-formed curve25519
// point encoding: its little-endian integer value must be non-zero and
// less than the field prime. A wire-parsed PublicKeyAnnouncement
// public key that fails this check is rejected as
// NotValid (spec §4.7 invariant 1) rather than fed to box.Seal/box.Open,
// which do not themselves validate their inputs.
func IsCanonicalPublicKey(key PublicKey) bool {
	le := make([]byte, KeyLength)
	for i, b := range key {
		le[KeyLength-1-i] = b
	}
	n := new(big.Int).SetBytes(le)
	return n.Sign() != 0 && n.Cmp(curve25519Prime) < 0
}

// GenerateKeyPair returns a fresh curve25519 key pair.
func GenerateKeyPair() (PublicKey, PrivateKey, error) {
	pub, priv, err := box.GenerateKey(rand.Reader)
	if nil != err {
		return PublicKey{}, PrivateKey{}, err
	}
	return PublicKey(*pub), PrivateKey(*priv), nil
}

// PublicKeyFromPrivate derives the curve25519 public key matching priv by
// scalar-multiplying the curve25519 basepoint, the same derivation
// box.GenerateKey itself uses internally to pair a public key with a
// private scalar. EncryptToSelfMessage uses this to recover the sender's
// own public key from just the secret (spec §4.5, the original's
// Crypto.getPublicKey(secretPhrase)), so its draft's Seal needs no
// separately supplied recipient key.
func PublicKeyFromPrivate(priv PrivateKey) PublicKey {
	var pub PublicKey
	curve25519.ScalarBaseMult((*[KeyLength]byte)(&pub), (*[KeyLength]byte)(&priv))
	return pub
}

// NewNonce draws a random nonce suitable for Encrypt.
func NewNonce() ([NonceLength]byte, error) {
	var nonce [NonceLength]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); nil != err {
		return nonce, err
	}
	return nonce, nil
}

// Encrypt seals plaintext (optionally gzip-compressed first) to
// recipient's public key using senderPrivate as the sender's half of the
// ECDH exchange, the way EncryptedMessage and EncryptToSelfMessage
// produce their ciphertext (spec §4.4, §4.5). It returns only the sealed
// bytes; the post-compression plaintext is not returned.
func Encrypt(plaintext []byte, compress bool, recipient PublicKey, senderPrivate PrivateKey, nonce [NonceLength]byte) (ciphertext []byte, err error) {
	payload := plaintext
	if compress && len(plaintext) > 0 {
		payload, err = gzipCompress(plaintext)
		if nil != err {
			return nil, err
		}
	}
	rpub := [KeyLength]byte(recipient)
	spriv := [KeyLength]byte(senderPrivate)
	var boxNonce [boxNonceLength]byte
	copy(boxNonce[:], nonce[:boxNonceLength])
	return box.Seal(nil, payload, &boxNonce, &rpub, &spriv), nil
}

// Decrypt opens ciphertext sealed by Encrypt, reversing compression if
// isCompressed is set.
func Decrypt(ciphertext []byte, isCompressed bool, sender PublicKey, recipientPrivate PrivateKey, nonce [NonceLength]byte) ([]byte, error) {
	spub := [KeyLength]byte(sender)
	rpriv := [KeyLength]byte(recipientPrivate)
	var boxNonce [boxNonceLength]byte
	copy(boxNonce[:], nonce[:boxNonceLength])
	payload, ok := box.Open(nil, ciphertext, &boxNonce, &spub, &rpriv)
	if !ok {
		return nil, fault.ErrInvalidPublicKey
	}
	if !isCompressed || 0 == len(payload) {
		return payload, nil
	}
	return gzipDecompress(payload)
}

// PredictEncryptedLength returns the exact ciphertext length Encrypt will
// produce for an uncompressed plaintext of plaintextLength bytes, without
// doing the encryption: box.Seal is a stream cipher with a fixed
// Overhead-byte MAC and no block rounding. An unsealed draft appendix
// (spec §7) reports Size/FullSize using this predictor, since it is built
// before a Seal key is available to encrypt with for real. When Encrypt
// compresses first, the prediction is not exact and not a bound: the
// gzip output may be shorter or longer than the plaintext.
func PredictEncryptedLength(plaintextLength int) int {
	return plaintextLength + Overhead
}

func gzipCompress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	if _, err := w.Write(data); nil != err {
		return nil, err
	}
	if err := w.Close(); nil != err {
		return nil, err
	}
	return buf.Bytes(), nil
}

func gzipDecompress(data []byte) ([]byte, error) {
	r, err := gzip.NewReader(bytes.NewReader(data))
	if nil != err {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}
