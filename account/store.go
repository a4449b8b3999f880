// Copyright (c) 2014-2017 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package account

import (
	"context"
	"errors"
	"sync"
)

// ErrPublicKeyMismatch is returned by SetOrVerify when id already holds a
// different key than the one being applied. Appendix.Validate (spec §4.7
// step 4) is expected to have already caught this as NotCurrentlyValid
// before Apply ever runs, so seeing it here indicates validate and apply
// observed inconsistent store state - a caller bug, not a consensus
// outcome this package itself classifies.
var ErrPublicKeyMismatch = errors.New("account: existing public key does not match")

// Store is the external account-state collaborator from spec §6: the
// appendix subsystem only ever reads a recipient's announced public key,
// and commits a new one through SetOrVerify/Apply. Block/ledger storage
// itself is out of scope (spec §1) - this is the narrow slice of it the
// PublicKeyAnnouncement appendix needs.
type Store interface {
	// GetPublicKey returns the public key currently on file for id, or
	// ok=false if none has been announced yet.
	GetPublicKey(ctx context.Context, id ID) (key PublicKey, ok bool, err error)

	// SetOrVerify stores key for id if none is on file yet (returning
	// fresh=true), or confirms key matches the one already on file
	// (fresh=false, err=nil). A mismatch against an existing different
	// key returns ErrPublicKeyMismatch; PublicKeyAnnouncement.Validate
	// reports that case as NotCurrentlyValid before Apply reaches here.
	SetOrVerify(ctx context.Context, id ID, key PublicKey) (fresh bool, err error)
}

// Account is the per-transaction recipient handle PublicKeyAnnouncement.Apply
// mutates (spec §4.7, §6's "account.apply"). It binds an id to the Store
// that owns it so Apply can commit without the caller threading a Store
// reference through every appendix.
type Account struct {
	ID    ID
	store Store
}

// NewAccount binds id to store for the duration of one Apply call.
func NewAccount(id ID, store Store) *Account {
	return &Account{ID: id, store: store}
}

// Apply commits key as this account's public key. It is idempotent: a
// re-entrant apply of the same key the account already holds is a no-op
// (spec §8 invariant 7, scenario implied by §4.7 step 4).
func (a *Account) Apply(ctx context.Context, key PublicKey) error {
	_, err := a.store.SetOrVerify(ctx, a.ID, key)
	return err
}

// MemoryStore is an in-process reference Store, safe for concurrent use.
// It is the default for tests and for a node that has not wired a
// persistent backend.
type MemoryStore struct {
	mu   sync.RWMutex
	keys map[ID]PublicKey
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{keys: make(map[ID]PublicKey)}
}

func (m *MemoryStore) GetPublicKey(_ context.Context, id ID) (PublicKey, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	key, ok := m.keys[id]
	return key, ok, nil
}

func (m *MemoryStore) SetOrVerify(_ context.Context, id ID, key PublicKey) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.keys[id]
	if !ok {
		m.keys[id] = key
		return true, nil
	}
	if existing != key {
		return false, ErrPublicKeyMismatch
	}
	return false, nil
}
