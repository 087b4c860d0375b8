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

// ensureReserves tops up the reserve bucket until it covers needed,
// unwinding strategy positions in the configured draw-down order. Reserves
// are always consumed before any position is touched. The walk reconciles
// against the amounts each strategy actually returns, so slippage simply
// pushes the walk further down the queue. Covering less than needed after
// exhausting the queue is a solvency failure.
func (k *Keeper) ensureReserves(ctx context.Context, needed math.Int) error {
	ledger, err := k.GetLedger(ctx)
	if err != nil {
		return err
	}
	if ledger.TotalReserves.GTE(needed) {
		return nil
	}
	shortfall := needed.Sub(ledger.TotalReserves)

	queue, err := k.GetWithdrawalQueue(ctx)
	if err != nil {
		return err
	}

	for _, id := range queue.Ids {
		if !shortfall.IsPositive() {
			break
		}

		slot, found, err := k.GetSlot(ctx, id)
		if err != nil {
			return err
		}
		if !found || !slot.Active || slot.Paused || !slot.AcceptingWithdrawals || !slot.TotalSharesHeld.IsPositive() {
			continue
		}

		strategy, err := k.resolveStrategy(ctx, slot)
		if err != nil {
			return err
		}

		// Each strategy prices the shortfall in its own share units.
		sharesToPull, err := strategy.ConvertToShares(ctx, shortfall)
		if err != nil {
			return errors.Wrapf(types.ErrStrategyCallFailed, "unable to price withdrawal from strategy %d: %s", slot.Id, err)
		}
		sharesToPull = math.MinInt(sharesToPull, slot.TotalSharesHeld)
		if !sharesToPull.IsPositive() {
			continue
		}

		realized, err := strategy.Withdraw(ctx, sharesToPull)
		if err != nil {
			return errors.Wrapf(types.ErrStrategyCallFailed, "withdrawal from strategy %d failed: %s", slot.Id, err)
		}

		slot.TotalSharesHeld = slot.TotalSharesHeld.Sub(sharesToPull)
		slot.TotalDeposited = clampNonNegative(slot.TotalDeposited.Sub(realized))
		if err := k.SetSlot(ctx, slot); err != nil {
			return err
		}

		ledger.TotalReserves, err = ledger.TotalReserves.SafeAdd(realized)
		if err != nil {
			return errors.Wrap(err, "unable to grow reserves")
		}
		if err := k.SetLedger(ctx, ledger); err != nil {
			return errors.Wrap(err, "unable to persist ledger")
		}

		shortfall = clampNonNegative(shortfall.Sub(realized))
	}

	if shortfall.IsPositive() {
		return errors.Wrapf(types.ErrInsufficientReserves, "short %s after exhausting the withdrawal queue", shortfall)
	}

	return nil
}
