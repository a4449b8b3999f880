// Copyright (c) 2014-2017 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package prunable

import (
	"context"
	"errors"
)

type contextKey struct{ name string }

var storeKey = &contextKey{"prunable-store"}

// ErrNoStore is returned when appendix validation or apply needs the
// prunable message store but none was attached to ctx with WithStore.
var ErrNoStore = errors.New("prunable: no store in context")

// WithStore returns a context carrying store, retrievable with
// StoreFromContext.
func WithStore(ctx context.Context, store Store) context.Context {
	return context.WithValue(ctx, storeKey, store)
}

// StoreFromContext returns the Store attached to ctx by WithStore, or
// ErrNoStore if none was attached.
func StoreFromContext(ctx context.Context) (Store, error) {
	store, ok := ctx.Value(storeKey).(Store)
	if !ok {
		return nil, ErrNoStore
	}
	return store, nil
}
