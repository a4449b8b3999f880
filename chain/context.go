// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chain

import "context"

type contextKey struct{ name string }

var configKey = &contextKey{"chain-config"}
var clockKey = &contextKey{"chain-clock"}

// WithConfig returns a context carrying cfg, retrievable with FromContext.
func WithConfig(ctx context.Context, cfg Config) context.Context {
	return context.WithValue(ctx, configKey, cfg)
}

// FromContext returns the Config attached to ctx by WithConfig, or
// DefaultMainnet if none was attached.
func FromContext(ctx context.Context) Config {
	cfg, ok := ctx.Value(configKey).(Config)
	if !ok {
		return DefaultMainnet()
	}
	return cfg
}

// WithClock returns a context carrying clock, retrievable with
// ClockFromContext. Appendix validation reads the chain's notion of
// "now" this way (spec §9's "process-wide state... pass as an explicit
// context value") rather than a package-level clock variable.
func WithClock(ctx context.Context, clock Clock) context.Context {
	return context.WithValue(ctx, clockKey, clock)
}

// ClockFromContext returns the Clock attached to ctx by WithClock, or a
// FixedClock reporting zero if none was attached.
func ClockFromContext(ctx context.Context) Clock {
	clock, ok := ctx.Value(clockKey).(Clock)
	if !ok {
		return FixedClock(0)
	}
	return clock
}
