// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package fee computes the size-based appendix fee (spec §4.3). It
// plays the same role as the teacher's own currency.GetFee - a small,
// pure lookup with no side effects - generalized from a fixed per-unit
// fee to the linear function of serialized size the appendix subsystem
// needs.
package fee

import "github.com/spa-chain/spa-node/fault"

// Schedule is a linear, size-based fee function: fee(n) = constantPart +
// ceil(n/unitSize)*unitFee. A zero Schedule always returns zero, the
// NONE fee spec §4.3 assigns to PublicKeyAnnouncement.
type Schedule struct {
	ConstantPart int64
	UnitFee      int64
	UnitSize     int
}

// None is the always-zero fee schedule.
var None = Schedule{}

// Evaluate returns the fee for an appendix whose serialized size is n
// bytes. n must not be negative; UnitSize must be positive whenever
// UnitFee is non-zero, or Evaluate returns ErrInvalidFeeSchedule.
func (s Schedule) Evaluate(n int) (int64, error) {
	if n < 0 {
		return 0, fault.ErrInvalidFeeSchedule
	}
	if 0 == s.UnitFee {
		return s.ConstantPart, nil
	}
	if s.UnitSize <= 0 {
		return 0, fault.ErrInvalidFeeSchedule
	}
	units := int64((n + s.UnitSize - 1) / s.UnitSize)
	return s.ConstantPart + units*s.UnitFee, nil
}
