// Copyright (c) 2014-2017 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package prunable stores and rehydrates the payloads a
// PrunableEncryptedMessage only carries on the wire while fresh (spec
// §4.6, §5, §6, §9). Its Store shape follows the pack's own mongo-backed
// repository: one collection, keyed lookups, insert-if-absent on write -
// keyed by transaction id, the external contract spec §6 specifies for
// this collaborator, not by the payload's own content hash.
package prunable

import (
	"context"
	"sync"

	"github.com/spa-chain/spa-node/digest"
)

// Payload is the prunable data a PrunableEncryptedMessage references by
// hash once it has been pruned from the transaction itself.
type Payload struct {
	Hash         digest.Hash256
	CipherText   []byte
	Nonce        []byte
	IsText       bool
	IsCompressed bool

	// Timestamp and Height are the values the transaction carried when
	// this payload was first seen, carried through to the store so a
	// later rehydration can still answer lifetime questions (spec §9's
	// restorePrunableData) without re-deriving them from the envelope.
	Timestamp int32
	Height    int32
}

// Store persists and retrieves Payloads keyed by the owning
// transaction's id, the shape spec §6 specifies for this collaborator.
type Store interface {
	// Get returns the payload stored for txID, or ok=false if it has
	// been pruned and is not held by this node.
	Get(ctx context.Context, txID int64) (Payload, bool, error)

	// Add stores p for txID if nothing is stored yet, and is a no-op
	// otherwise - the idempotent insert spec §6 requires so a payload
	// seen twice (once live, once restored) does not duplicate work.
	Add(ctx context.Context, txID int64, p Payload) error

	// Prune removes every payload whose Timestamp is before olderThan, the
	// periodic sweep spec §9 describes as part of prunable lifetime
	// enforcement.
	Prune(ctx context.Context, olderThan int32) (removed int, err error)
}

// MemoryStore is an in-process reference Store, safe for concurrent use.
type MemoryStore struct {
	mu       sync.RWMutex
	payloads map[int64]Payload
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{payloads: make(map[int64]Payload)}
}

func (m *MemoryStore) Get(_ context.Context, txID int64) (Payload, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.payloads[txID]
	return p, ok, nil
}

func (m *MemoryStore) Add(_ context.Context, txID int64, p Payload) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.payloads[txID]; ok {
		return nil
	}
	m.payloads[txID] = p
	return nil
}

func (m *MemoryStore) Prune(_ context.Context, olderThan int32) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	removed := 0
	for txID, p := range m.payloads {
		if p.Timestamp < olderThan {
			delete(m.payloads, txID)
			removed++
		}
	}
	return removed, nil
}
