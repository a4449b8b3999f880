// Copyright (c) 2014-2017 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package appendix

import (
	"github.com/spa-chain/spa-node/buffer"
	"github.com/spa-chain/spa-node/fault"
)

// Kind identifies which concrete appendix a binary flag or JSON key set
// names. The envelope (out of scope for this package) decides which
// kinds are present on a given transaction and in what order; Kind is
// just the tag ParseBinary and ParseJSON switch on.
type Kind int

const (
	KindPlainMessage Kind = iota
	KindPublicKeyAnnouncement
	KindEncryptedMessage
	KindEncryptToSelfMessage
	KindPrunableEncryptedMessage
)

// ParseBinary reads one appendix of the given kind from r. version is
// the version byte the caller has already consumed from the envelope's
// appendix flags (0 for a legacy version-0 transaction, per spec §3).
func ParseBinary(kind Kind, version uint8, r *buffer.Reader) (Appendix, error) {
	switch kind {
	case KindPlainMessage:
		return ParsePlainMessageBinary(version, r)
	case KindPublicKeyAnnouncement:
		return ParsePublicKeyAnnouncementBinary(version, r)
	case KindEncryptedMessage:
		return ParseEncryptedMessageBinary(version, r)
	case KindEncryptToSelfMessage:
		return ParseEncryptToSelfMessageBinary(version, r)
	case KindPrunableEncryptedMessage:
		return ParsePrunableEncryptedMessageBinary(version, r)
	default:
		return nil, fault.ErrMissingAppendixField
	}
}

// jsonVersionKey returns the "version.<Name>" key spec §3/§4.2 uses to
// detect an appendix's presence in a JSON attachment object.
func jsonVersionKey(name string) string { return "version." + name }

// ParseJSON reads one appendix from attachment, a parsed JSON
// attachment object, driven by presence of "version.<AppendixName>"
// (spec §4.2). It returns ok=false if no key for any known kind is
// present. For the encrypted kinds, an inner "messageToEncrypt" field
// with no "data" field signals an unsealed draft.
func ParseJSON(attachment map[string]interface{}) (a Appendix, ok bool, err error) {
	if v, present := attachment[jsonVersionKey("PlainMessage")]; present {
		a, err := parsePlainMessageJSON(versionFromJSON(v), attachment)
		return a, true, err
	}
	if v, present := attachment[jsonVersionKey("PublicKeyAnnouncement")]; present {
		a, err := parsePublicKeyAnnouncementJSON(versionFromJSON(v), attachment)
		return a, true, err
	}
	if v, present := attachment[jsonVersionKey("EncryptedMessage")]; present {
		a, err := parseEncryptedMessageJSON(versionFromJSON(v), attachment)
		return a, true, err
	}
	if v, present := attachment[jsonVersionKey("EncryptToSelfMessage")]; present {
		a, err := parseEncryptToSelfMessageJSON(versionFromJSON(v), attachment)
		return a, true, err
	}
	if v, present := attachment[jsonVersionKey("PrunableEncryptedMessage")]; present {
		a, err := parsePrunableEncryptedMessageJSON(versionFromJSON(v), attachment)
		return a, true, err
	}
	return nil, false, nil
}

func versionFromJSON(v interface{}) uint8 {
	switch t := v.(type) {
	case uint8:
		return t
	case int:
		return uint8(t)
	case float64:
		return uint8(t)
	default:
		return 0
	}
}

func hexField(m map[string]interface{}, key string) ([]byte, error) {
	s, _ := m[key].(string)
	var h buffer.HexBytes
	if err := h.UnmarshalText([]byte(s)); nil != err {
		return nil, fault.ErrMissingAppendixField
	}
	return []byte(h), nil
}

func boolField(m map[string]interface{}, key string) bool {
	b, _ := m[key].(bool)
	return b
}

func parsePlainMessageJSON(version uint8, attachment map[string]interface{}) (*PlainMessage, error) {
	message, err := hexField(attachment, "message")
	if nil != err {
		return nil, err
	}
	isText := boolField(attachment, "messageIsText")
	return NewPlainMessage(version, message, isText)
}

func parsePublicKeyAnnouncementJSON(version uint8, attachment map[string]interface{}) (*PublicKeyAnnouncement, error) {
	raw, err := hexField(attachment, "recipientPublicKey")
	if nil != err {
		return nil, err
	}
	if spacryptoKeyLength != len(raw) {
		return nil, fault.ErrInvalidPublicKey
	}
	var key [spacryptoKeyLength]byte
	copy(key[:], raw)
	return NewPublicKeyAnnouncement(version, key), nil
}

const spacryptoKeyLength = 32

// isDraftJSON reports whether inner (the "encryptedMessage" or
// "encryptToSelfMessage" sub-object) describes an unsealed draft:
// "data" absent, "messageToEncrypt" present (spec §4.2).
func isDraftJSON(inner map[string]interface{}) bool {
	_, hasData := inner["data"]
	_, hasPlain := inner["messageToEncrypt"]
	return !hasData && hasPlain
}

func innerObject(attachment map[string]interface{}, key string) (map[string]interface{}, error) {
	inner, ok := attachment[key].(map[string]interface{})
	if !ok {
		return nil, fault.ErrMissingAppendixField
	}
	return inner, nil
}

func parseEncryptedMessageJSON(version uint8, attachment map[string]interface{}) (Appendix, error) {
	inner, err := innerObject(attachment, "encryptedMessage")
	if nil != err {
		return nil, err
	}
	isText := boolField(inner, "isText")
	isCompressed := boolField(inner, "isCompressed")
	if isDraftJSON(inner) {
		plaintext, err := hexField(inner, "messageToEncrypt")
		if nil != err {
			return nil, err
		}
		raw, err := hexField(attachment, "recipientPublicKey")
		if nil != err {
			return nil, err
		}
		if spacryptoKeyLength != len(raw) {
			return nil, fault.ErrInvalidPublicKey
		}
		var key [spacryptoKeyLength]byte
		copy(key[:], raw)
		return NewEncryptedMessageDraft(version, plaintext, isText, isCompressed, key), nil
	}
	data, err := hexField(inner, "data")
	if nil != err {
		return nil, err
	}
	nonce, err := hexField(inner, "nonce")
	if nil != err {
		return nil, err
	}
	return NewEncryptedMessage(version, data, nonce, isText, isCompressed), nil
}

func parseEncryptToSelfMessageJSON(version uint8, attachment map[string]interface{}) (Appendix, error) {
	inner, err := innerObject(attachment, "encryptToSelfMessage")
	if nil != err {
		return nil, err
	}
	isText := boolField(inner, "isText")
	isCompressed := boolField(inner, "isCompressed")
	if isDraftJSON(inner) {
		plaintext, err := hexField(inner, "messageToEncrypt")
		if nil != err {
			return nil, err
		}
		return NewEncryptToSelfMessageDraft(version, plaintext, isText, isCompressed), nil
	}
	data, err := hexField(inner, "data")
	if nil != err {
		return nil, err
	}
	nonce, err := hexField(inner, "nonce")
	if nil != err {
		return nil, err
	}
	return NewEncryptToSelfMessage(version, data, nonce, isText, isCompressed), nil
}

func parsePrunableEncryptedMessageJSON(version uint8, attachment map[string]interface{}) (Appendix, error) {
	inner, innerErr := innerObject(attachment, "encryptedMessage")
	if nil == innerErr && isDraftJSON(inner) {
		isText := boolField(inner, "isText")
		isCompressed := boolField(inner, "isCompressed")
		plaintext, err := hexField(inner, "messageToEncrypt")
		if nil != err {
			return nil, err
		}
		raw, err := hexField(attachment, "recipientPublicKey")
		if nil != err {
			return nil, err
		}
		if spacryptoKeyLength != len(raw) {
			return nil, fault.ErrInvalidPublicKey
		}
		var key [spacryptoKeyLength]byte
		copy(key[:], raw)
		return NewPrunableEncryptedMessageDraft(version, plaintext, isText, isCompressed, key), nil
	}

	if nil == innerErr {
		isText := boolField(inner, "isText")
		isCompressed := boolField(inner, "isCompressed")
		data, err := hexField(inner, "data")
		if nil != err {
			return nil, err
		}
		nonce, err := hexField(inner, "nonce")
		if nil != err {
			return nil, err
		}
		return NewPrunableEncryptedMessage(version, data, nonce, isText, isCompressed), nil
	}

	hashHex, _ := attachment["encryptedMessageHash"].(string)
	var h buffer.HexBytes
	if err := h.UnmarshalText([]byte(hashHex)); nil != err {
		return nil, fault.ErrMissingAppendixField
	}
	r := buffer.NewReader([]byte(h))
	return ParsePrunableEncryptedMessageBinary(version, r)
}
