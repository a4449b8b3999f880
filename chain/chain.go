// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package chain carries the consensus-relevant constants appendix
// validation is gated on (spec §6): the per-chain height above which
// EncryptedMessage and EncryptToSelfMessage bodies are validated, the
// prunable-lifetime bounds, and the fee unit. It is the teacher's own
// named-chain package, generalized from a bare name validator into a
// config value so these parameters travel through a context instead of
// living as package-level globals.
package chain

import "time"

// names of the chains this node can run as.
const (
	Mainnet = "mainnet"
	Testnet = "testnet"
	Local   = "local"
)

// Valid reports whether name is a recognised chain.
func Valid(name string) bool {
	switch name {
	case Mainnet, Testnet, Local:
		return true
	default:
		return false
	}
}

// Config holds the consensus parameters appendix validation and fee
// computation read (spec §4.3, §4.6, §6). One Config exists per running
// chain; it is threaded through validation calls rather than read from
// globals, so tests can exercise both sides of SHUFFLING_BLOCK without a
// process-wide mutable flag.
type Config struct {
	Name string

	// ONESPA is the smallest currency unit fee constants are expressed in
	// multiples of.
	ONESPA int64

	// ShufflingBlock is the activation height for EncryptedMessage and
	// EncryptToSelfMessage body validation (length limit, nonce/data
	// lengths, version/compression pair). At or below this height those
	// body checks are skipped entirely.
	ShufflingBlock int32

	MinPrunableLifetime time.Duration
	MaxPrunableLifetime time.Duration

	MaxEncryptedMessageLength         int
	MaxPrunableEncryptedMessageLength int

	// IncludeExpiredPrunable permits PrunableEncryptedMessage.LoadPrunable,
	// when called with includeExpired, to rehydrate payloads up to
	// MaxPrunableLifetime old instead of MinPrunableLifetime. It has no
	// effect on Validate.
	IncludeExpiredPrunable bool
}

// DefaultMainnet returns the consensus parameters for Mainnet.
func DefaultMainnet() Config {
	return Config{
		Name:                               Mainnet,
		ONESPA:                             100000000,
		ShufflingBlock:                     1874000,
		MinPrunableLifetime:                14 * 24 * time.Hour,
		MaxPrunableLifetime:                6 * 30 * 24 * time.Hour,
		MaxEncryptedMessageLength:          1000,
		MaxPrunableEncryptedMessageLength:  42496,
		IncludeExpiredPrunable:             false,
	}
}

// DefaultTestnet returns the consensus parameters for Testnet, identical
// to Mainnet except the shuffling rules are active from genesis so test
// fixtures do not need to fabricate height history.
func DefaultTestnet() Config {
	cfg := DefaultMainnet()
	cfg.Name = Testnet
	cfg.ShufflingBlock = 0
	return cfg
}

// Clock is the narrow time source appendix validation needs: the chain's
// notion of "now", expressed as seconds since the Nxt epoch (spec §4.6's
// shouldLoadPrunable gating). A real node backs this with the current
// block's timestamp; tests back it with a fixed value.
type Clock interface {
	EpochTime() int32
}

// FixedClock is a Clock that always reports the same time, for tests and
// for replaying historical blocks.
type FixedClock int32

// EpochTime implements Clock.
func (c FixedClock) EpochTime() int32 { return int32(c) }
