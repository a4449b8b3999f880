// Copyright (c) 2014-2016 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package fault holds the typed errors raised by the appendix subsystem.
//
// Two error kinds carry the consensus distinction from spec §7: a
// NotValidError is permanent (the appendix is malformed or violates a hard
// limit), a NotCurrentlyValidError is transient (the appendix is
// well-formed but momentarily inconsistent with chain state, and a retry
// after chain progress may succeed). NotYetEncryptedError is a third,
// implicit kind: a programmer error, not a consensus condition, raised
// when an unsealed draft is serialized or applied before Seal.
package fault

// error base, following the teacher's single-instance-string convention
// so callers can compare sentinel errors without partial string matches
type GenericError string

type NotValidError GenericError
type NotCurrentlyValidError GenericError
type NotYetEncryptedError GenericError

func (e GenericError) Error() string           { return string(e) }
func (e NotValidError) Error() string          { return string(e) }
func (e NotCurrentlyValidError) Error() string { return string(e) }
func (e NotYetEncryptedError) Error() string   { return string(e) }

// IsNotValid reports whether err is a permanent appendix validation failure.
func IsNotValid(err error) bool { _, ok := err.(NotValidError); return ok }

// IsNotCurrentlyValid reports whether err is a transient validation failure.
func IsNotCurrentlyValid(err error) bool { _, ok := err.(NotCurrentlyValidError); return ok }

// IsNotYetEncrypted reports whether err signals an unsealed draft misuse.
func IsNotYetEncrypted(err error) bool { _, ok := err.(NotYetEncryptedError); return ok }

// common errors - keep in alphabetic order within each kind
var (
	ErrAnnouncedKeyMismatch  = NotValidError("announced public key does not match recipient accountId")
	ErrBufferTooShort        = NotValidError("buffer too short")
	ErrEncryptedMessageTooLong = NotValidError("max encrypted message length exceeded")
	ErrInvalidFeeSchedule    = NotValidError("invalid fee schedule")
	ErrInvalidNonceLength    = NotValidError("invalid nonce length")
	ErrInvalidPublicKey      = NotValidError("invalid recipient public key")
	ErrMessageIsNotUTF8Text  = NotValidError("message is not UTF-8 text")
	ErrMessageTooLong        = NotValidError("invalid arbitrary message length")
	ErrMissingAppendixField  = NotValidError("missing required appendix field")
	ErrNoRecipient           = NotValidError("appendix cannot be attached to a transaction with no recipient")
	ErrPrunableDataConflict  = NotValidError("cannot have both encrypted and prunable encrypted message attachments")
	ErrPrunableMessageTooLong = NotValidError("message length exceeds max prunable encrypted message length")
	ErrVersionCompressionMismatch = NotValidError("appendix version does not match isCompressed flag")
	ErrVersionMismatch       = NotValidError("appendix version does not match transaction version")

	ErrConflictingPublicKey = NotCurrentlyValidError("a different public key for this account has already been announced")
	ErrPrunedPrematurely    = NotCurrentlyValidError("encrypted message has been pruned prematurely")

	ErrNotYetEncrypted = NotYetEncryptedError("appendix draft has not been sealed with encrypt")

	ErrAlreadyInitialised   = GenericError("logger already initialised")

	// ErrCorruptPrunablePayload signals a store-returned payload whose
	// content hash does not match the hash recorded on-chain: a local
	// storage bug, not a consensus condition, reported via PanicIfError.
	ErrCorruptPrunablePayload = GenericError("prunable store returned a payload whose hash does not match the recorded hash")

	ErrInvalidLoggerChannel = GenericError("invalid logger channel")
)
