// Copyright (c) 2014-2017 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package appendix implements the transaction appendix kinds: typed,
// optional attachments to a transaction carrying a plaintext message, a
// recipient public-key announcement, or an encrypted or prunable
// variant. It mirrors the shape of the teacher's own transactionrecord
// package - a closed set of concrete kinds dispatched by a tag, each
// owning its own binary pack/unpack and JSON encoding - generalized
// from transaction records to appendices and from a Varint64 tag to a
// fixed-width header plus JSON key sniffing (see parse.go).
//
// Polymorphism here is closed by design: the Appendix interface is
// implemented by exactly the kinds this package defines, dispatched by
// a tag rather than through open inheritance.
package appendix

import (
	"context"

	"github.com/spa-chain/spa-node/account"
	"github.com/spa-chain/spa-node/buffer"
	"github.com/spa-chain/spa-node/fault"
)

// Transaction is the narrow slice of the enclosing transaction envelope
// appendix validation and application need (spec §6). The envelope
// itself is out of scope for this package; callers adapt their own
// transaction type to this interface.
type Transaction interface {
	// ID is the transaction's own 64-bit identifier, the key the
	// prunable message store indexes payloads by.
	ID() int64

	// RecipientID is the account id of the transaction's recipient, or
	// zero if the transaction has none.
	RecipientID() account.ID

	// Timestamp is the transaction's epoch-time field, used for
	// prunable-lifetime age calculations.
	Timestamp() int32

	// Height is the height of the block the transaction is being
	// validated against (the current chain tip during acceptance, or
	// the containing block's height during block application).
	Height() int32

	// Version is the transaction envelope's own version field; appendix
	// version 0 is only legal when this is 0.
	Version() uint8

	// HasEncryptedMessage reports whether the transaction also carries
	// a non-prunable EncryptedMessage appendix, for
	// PrunableEncryptedMessage's conflict check (spec §4.6).
	HasEncryptedMessage() bool
}

// Appendix is the common contract every concrete kind in this package
// implements (spec §4.1).
type Appendix interface {
	// Size returns the number of bytes WriteBinary writes, including
	// the version byte when Version() > 0.
	Size() int

	// FullSize returns Size, except for a PrunableEncryptedMessage whose
	// payload is currently held: there it reports what Size would be if
	// the payload were inline, for fee purposes.
	FullSize() int

	// WriteBinary writes the version byte (if Version() > 0) followed
	// by the kind's body to w. w is borrowed for the call only.
	WriteBinary(w *buffer.Writer) error

	// ToJSON returns this appendix's JSON representation: a
	// "version.<Name>" key plus the kind's own keys (spec §3, §4.2).
	ToJSON() (map[string]interface{}, error)

	// Version returns the appendix's version byte.
	Version() uint8

	// BaselineFeeHeight is the height from which BaselineFee applies.
	BaselineFeeHeight() int32

	// BaselineFee returns the fee this appendix contributes to the
	// enclosing transaction, in base currency units. It reads ONE_SPA
	// from chain.FromContext(ctx) since the fee constants are expressed
	// as multiples of the chain's currency unit.
	BaselineFee(ctx context.Context, tx Transaction) (int64, error)

	// NextFeeHeight is the height from which NextFee replaces
	// BaselineFee. Appendices with no scheduled fee change return
	// NoScheduledFeeChange.
	NextFeeHeight() int32

	// NextFee returns the fee schedule that takes effect at
	// NextFeeHeight. Kinds with no scheduled change delegate to
	// BaselineFee.
	NextFee(ctx context.Context, tx Transaction) (int64, error)

	// IsPhased is always false in this subsystem; the hook is preserved
	// for cross-subsystem uniformity with phased execution, a feature
	// of the wider system this package does not implement.
	IsPhased(tx Transaction) bool

	// Validate checks this appendix against tx and the chain state
	// reachable from ctx (chain.FromContext, chain.ClockFromContext,
	// account.StoreFromContext, prunable.StoreFromContext as needed).
	// It returns a fault.NotValidError, fault.NotCurrentlyValidError, or
	// nil.
	Validate(ctx context.Context, tx Transaction) error

	// Apply mutates state on block application: only
	// PublicKeyAnnouncement and PrunableEncryptedMessage do anything
	// here, every other kind's Apply is a no-op.
	Apply(ctx context.Context, tx Transaction) error
}

// NoScheduledFeeChange is the height NextFeeHeight returns when a kind
// has no upcoming fee schedule change (spec §4.1's "defaults:
// nextFeeHeight = +∞").
const NoScheduledFeeChange = int32(1<<31 - 1)

// writeVersion writes the version byte only when version is non-zero
// (spec §3: "0 only when the enclosing transaction is version-0, a
// legacy form with no per-appendix header byte on the wire").
func writeVersion(w *buffer.Writer, version uint8) {
	if version > 0 {
		w.PutUint8(version)
	}
}

// versionSize returns 1 if version is non-zero, else 0 - the number of
// header bytes WriteBinary contributes beyond the body.
func versionSize(version uint8) int {
	if version > 0 {
		return 1
	}
	return 0
}

// validateVersionMatchesTx enforces spec §3's invariant txVersion == 0
// iff appendixVersion == 0: a legacy version-0 transaction carries no
// per-appendix header byte, so its appendices must themselves be
// version 0, and vice versa.
func validateVersionMatchesTx(txVersion, appendixVersion uint8) error {
	if (0 == txVersion) != (0 == appendixVersion) {
		return fault.ErrVersionMismatch
	}
	return nil
}
