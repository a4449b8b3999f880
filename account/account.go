// Copyright (c) 2014-2017 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package account derives and tracks the 64-bit account identifiers
// PublicKeyAnnouncement binds to a curve25519 public key (spec §4.7), and
// the narrow account-store interface (spec §6) the appendix subsystem
// validates and applies against. It is the teacher's own account package
// with the address scheme rebuilt for this family: the teacher encodes a
// whole base58 public-key address per account, this subsystem's accounts
// are a 64-bit id derived from a hash of the key, one per recipient.
package account

import (
	"crypto/sha256"
	"encoding/binary"
)

// PublicKeyLength is the size in bytes of a curve25519 public key.
const PublicKeyLength = 32

// PublicKey is a raw curve25519 public key as announced on-chain.
type PublicKey [PublicKeyLength]byte

// ID is the 64-bit account identifier transactions address by.
type ID int64

// IDFromPublicKey derives the account id a public key must match for
// PublicKeyAnnouncement to validate (spec §4.7 invariant 3): the low 8
// bytes of SHA-256(publicKey), read little-endian as a signed int64.
func IDFromPublicKey(key PublicKey) ID {
	sum := sha256.Sum256(key[:])
	return ID(int64(binary.LittleEndian.Uint64(sum[:8])))
}
