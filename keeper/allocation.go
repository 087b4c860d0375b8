// SPDX-License-Identifier: BUSL-1.1
//
// Copyright (C) 2025, NASD Inc. All rights reserved.
// Use of this software is governed by the Business Source License included
// in the LICENSE file of this repository and at www.mariadb.com/bsl11.
//
// ANY USE OF THE LICENSED WORK IN VIOLATION OF THIS LICENSE WILL AUTOMATICALLY
// TERMINATE YOUR RIGHTS UNDER THIS LICENSE FOR THE CURRENT AND ALL OTHER
// VERSIONS OF THE LICENSED WORK.
//
// THIS LICENSE DOES NOT GRANT YOU ANY RIGHT IN ANY TRADEMARK OR LOGO OF
// LICENSOR OR ITS AFFILIATES (PROVIDED THAT YOU MAY USE A TRADEMARK OR LOGO OF
// LICENSOR AS EXPRESSLY REQUIRED BY THIS LICENSE).
//
// TO THE EXTENT PERMITTED BY APPLICABLE LAW, THE LICENSED WORK IS PROVIDED ON
// AN "AS IS" BASIS. LICENSOR HEREBY DISCLAIMS ALL WARRANTIES AND CONDITIONS,
// EXPRESS OR IMPLIED, INCLUDING (WITHOUT LIMITATION) WARRANTIES OF
// MERCHANTABILITY, FITNESS FOR A PARTICULAR PURPOSE, NON-INFRINGEMENT, AND
// TITLE.

package keeper

import (
	"context"

	"cosmossdk.io/errors"
	"cosmossdk.io/math"

	"vaults.harbor.finance/types"
)

// allocate deploys a fulfilled deposit across the registry. A reserve cut is
// carved off first, then each eligible slot receives its target share of the
// deployable remainder in a single identifier-ordered pass. Whatever the
// pass cannot place, because of minimums, caps or paused slots, joins the
// reserve cut. Returns the per-slot movements and the total retained in
// reserves.
func (k *Keeper) allocate(ctx context.Context, amount math.Int, reserveRatioBps uint32) ([]types.AllocationEntry, math.Int, error) {
	reserve := amount.MulRaw(int64(reserveRatioBps)).QuoRaw(types.BpsDenominator)
	deployable := amount.Sub(reserve)
	remaining := deployable

	slots, err := k.GetActiveSlots(ctx)
	if err != nil {
		return nil, math.ZeroInt(), err
	}

	var entries []types.AllocationEntry
	for _, slot := range slots {
		if !remaining.IsPositive() {
			break
		}
		if slot.Paused || !slot.AcceptingDeposits {
			continue
		}

		target := deployable.MulRaw(int64(slot.TargetBps)).QuoRaw(types.BpsDenominator)
		if !target.IsPositive() {
			continue
		}
		if slot.MinDeposit.IsPositive() && target.LT(slot.MinDeposit) {
			continue
		}
		if slot.MaxDeposit.IsPositive() && target.GT(slot.MaxDeposit) {
			target = slot.MaxDeposit
		}
		target = math.MinInt(target, remaining)

		strategy, err := k.resolveStrategy(ctx, slot)
		if err != nil {
			return nil, math.ZeroInt(), err
		}

		sharesOut, err := strategy.Deposit(ctx, target)
		if err != nil {
			return nil, math.ZeroInt(), errors.Wrapf(types.ErrStrategyCallFailed, "deposit into strategy %d failed: %s", slot.Id, err)
		}

		slot.TotalDeposited, err = slot.TotalDeposited.SafeAdd(target)
		if err != nil {
			return nil, math.ZeroInt(), errors.Wrap(err, "unable to update strategy book value")
		}
		slot.TotalSharesHeld, err = slot.TotalSharesHeld.SafeAdd(sharesOut)
		if err != nil {
			return nil, math.ZeroInt(), errors.Wrap(err, "unable to update strategy share position")
		}
		if err := k.SetSlot(ctx, slot); err != nil {
			return nil, math.ZeroInt(), err
		}

		remaining = remaining.Sub(target)
		entries = append(entries, types.AllocationEntry{StrategyId: slot.Id, Amount: target})
	}

	retained := reserve.Add(remaining)

	ledger, err := k.GetLedger(ctx)
	if err != nil {
		return nil, math.ZeroInt(), err
	}
	ledger.TotalReserves, err = ledger.TotalReserves.SafeAdd(retained)
	if err != nil {
		return nil, math.ZeroInt(), errors.Wrap(err, "unable to grow reserves")
	}
	if err := k.SetLedger(ctx, ledger); err != nil {
		return nil, math.ZeroInt(), errors.Wrap(err, "unable to persist ledger")
	}

	return entries, retained, nil
}
