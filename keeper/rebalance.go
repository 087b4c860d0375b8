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

	"cosmossdk.io/core/event"
	"cosmossdk.io/errors"
	"cosmossdk.io/math"

	"vaults.harbor.finance/types"
)

// rebalancePlan is the snapshot a rebalance works from: the live slot set
// with present values and normalized desired weights.
type rebalancePlan struct {
	slots    []types.StrategySlot
	values   map[uint64]math.Int
	desired  map[uint64]math.Int
	deployed math.Int
}

// buildRebalancePlan values every live position and computes its desired
// value under the current target weights. Targets are normalized over the
// live slot set so a registry targeting less than 10000 bps in aggregate
// still converges.
func (k *Keeper) buildRebalancePlan(ctx context.Context) (rebalancePlan, error) {
	plan := rebalancePlan{
		values:   make(map[uint64]math.Int),
		desired:  make(map[uint64]math.Int),
		deployed: math.ZeroInt(),
	}

	slots, err := k.GetActiveSlots(ctx)
	if err != nil {
		return plan, err
	}
	plan.slots = slots

	var totalTargetBps int64
	for _, slot := range slots {
		totalTargetBps += int64(slot.TargetBps)

		value := math.ZeroInt()
		if slot.TotalSharesHeld.IsPositive() {
			strategy, err := k.resolveStrategy(ctx, slot)
			if err != nil {
				return plan, err
			}
			value, err = strategy.ConvertToAssets(ctx, slot.TotalSharesHeld)
			if err != nil {
				return plan, errors.Wrapf(types.ErrStrategyCallFailed, "unable to value strategy %d: %s", slot.Id, err)
			}
		}

		plan.values[slot.Id] = value
		plan.deployed = plan.deployed.Add(value)
	}

	for _, slot := range slots {
		if totalTargetBps == 0 {
			plan.desired[slot.Id] = math.ZeroInt()
			continue
		}
		plan.desired[slot.Id] = plan.deployed.MulRaw(int64(slot.TargetBps)).QuoRaw(totalTargetBps)
	}

	return plan, nil
}

// maxDriftBps returns the largest per-slot deviation between present and
// desired value, expressed in basis points of deployed capital.
func (p rebalancePlan) maxDriftBps() uint32 {
	if p.deployed.IsZero() {
		return 0
	}

	var max uint32
	for _, slot := range p.slots {
		drift := p.values[slot.Id].Sub(p.desired[slot.Id]).Abs()
		bps := uint32(drift.MulRaw(types.BpsDenominator).Quo(p.deployed).Uint64())
		if bps > max {
			max = bps
		}
	}

	return max
}

// Rebalance moves deployed capital back toward the target weights. The move
// set is computed in two phases: every overweight slot is drained into a
// pool first, then the pool funds underweight slots. Draining first means
// the pool is fully known before any deposit, so a single rebalance never
// needs intermediate reserve dips. Each slot is visited once per rebalance:
// a deficit below a slot's minimum is skipped outright, and a deficit above
// its cap is only funded up to the cap. Pool value no slot can absorb lands
// in reserves rather than being force-fed to the registry.
func (m msgServer) Rebalance(ctx context.Context, msg *types.MsgRebalance) (*types.MsgRebalanceResponse, error) {
	if msg == nil {
		return nil, errors.Wrap(types.ErrInvalidRequest, "message cannot be nil")
	}

	if m.GetPaused(ctx) {
		return nil, errors.Wrap(types.ErrVaultPaused, "rebalancing is suspended")
	}
	params, err := m.requireOperator(ctx, msg.Operator)
	if err != nil {
		return nil, err
	}

	headerInfo := m.header.GetHeaderInfo(ctx)
	last, err := m.GetLastRebalance(ctx)
	if err != nil {
		return nil, err
	}
	if last != 0 {
		elapsed := headerInfo.Time.Unix() - last
		if elapsed < params.RebalanceIntervalSeconds {
			return nil, errors.Wrapf(types.ErrRebalanceTooEarly, "%ds of %ds elapsed", elapsed, params.RebalanceIntervalSeconds)
		}
	}

	if err := m.enter(ctx); err != nil {
		return nil, err
	}

	plan, err := m.buildRebalancePlan(ctx)
	if err != nil {
		return nil, err
	}

	if plan.maxDriftBps() <= params.RebalanceThresholdBps {
		m.logger.Warn("rebalance skipped, drift below threshold", "drift_bps", plan.maxDriftBps(), "threshold_bps", params.RebalanceThresholdBps)
		if err := m.exit(ctx); err != nil {
			return nil, err
		}
		return &types.MsgRebalanceResponse{
			Skipped:            true,
			LeftoverToReserves: math.ZeroInt(),
		}, nil
	}

	var withdrawn, deposited []types.AllocationEntry
	pool := math.ZeroInt()

	for _, slot := range plan.slots {
		excess := plan.values[slot.Id].Sub(plan.desired[slot.Id])
		if !excess.IsPositive() || slot.Paused || !slot.AcceptingWithdrawals {
			continue
		}

		strategy, err := m.resolveStrategy(ctx, slot)
		if err != nil {
			return nil, err
		}

		sharesToPull, err := strategy.ConvertToShares(ctx, excess)
		if err != nil {
			return nil, errors.Wrapf(types.ErrStrategyCallFailed, "unable to price withdrawal from strategy %d: %s", slot.Id, err)
		}
		sharesToPull = math.MinInt(sharesToPull, slot.TotalSharesHeld)
		if !sharesToPull.IsPositive() {
			continue
		}

		realized, err := strategy.Withdraw(ctx, sharesToPull)
		if err != nil {
			return nil, errors.Wrapf(types.ErrStrategyCallFailed, "withdrawal from strategy %d failed: %s", slot.Id, err)
		}

		slot.TotalSharesHeld = slot.TotalSharesHeld.Sub(sharesToPull)
		slot.TotalDeposited = clampNonNegative(slot.TotalDeposited.Sub(realized))
		if err := m.SetSlot(ctx, slot); err != nil {
			return nil, err
		}

		pool = pool.Add(realized)
		withdrawn = append(withdrawn, types.AllocationEntry{StrategyId: slot.Id, Amount: realized})
	}

	for _, slot := range plan.slots {
		if !pool.IsPositive() {
			break
		}

		deficit := plan.desired[slot.Id].Sub(plan.values[slot.Id])
		if !deficit.IsPositive() || slot.Paused || !slot.AcceptingDeposits {
			continue
		}
		amount := math.MinInt(deficit, pool)
		if slot.MinDeposit.IsPositive() && amount.LT(slot.MinDeposit) {
			continue
		}
		if slot.MaxDeposit.IsPositive() && amount.GT(slot.MaxDeposit) {
			m.logger.Warn("clamped rebalance deposit to strategy cap", "strategy", slot.Id, "deficit", amount.String(), "cap", slot.MaxDeposit.String())
			amount = slot.MaxDeposit
		}
		if !amount.IsPositive() {
			continue
		}

		// Reload: phase one may have rewritten this slot.
		current, found, err := m.GetSlot(ctx, slot.Id)
		if err != nil {
			return nil, err
		}
		if !found {
			continue
		}

		strategy, err := m.resolveStrategy(ctx, current)
		if err != nil {
			return nil, err
		}

		sharesOut, err := strategy.Deposit(ctx, amount)
		if err != nil {
			return nil, errors.Wrapf(types.ErrStrategyCallFailed, "deposit into strategy %d failed: %s", current.Id, err)
		}

		current.TotalDeposited, err = current.TotalDeposited.SafeAdd(amount)
		if err != nil {
			return nil, errors.Wrap(err, "unable to update strategy book value")
		}
		current.TotalSharesHeld, err = current.TotalSharesHeld.SafeAdd(sharesOut)
		if err != nil {
			return nil, errors.Wrap(err, "unable to update strategy share position")
		}
		if err := m.SetSlot(ctx, current); err != nil {
			return nil, err
		}

		pool = pool.Sub(amount)
		deposited = append(deposited, types.AllocationEntry{StrategyId: current.Id, Amount: amount})
	}

	if pool.IsPositive() {
		ledger, err := m.GetLedger(ctx)
		if err != nil {
			return nil, err
		}
		ledger.TotalReserves, err = ledger.TotalReserves.SafeAdd(pool)
		if err != nil {
			return nil, errors.Wrap(err, "unable to grow reserves")
		}
		if err := m.SetLedger(ctx, ledger); err != nil {
			return nil, errors.Wrap(err, "unable to persist ledger")
		}
	}

	if err := m.LastRebalance.Set(ctx, headerInfo.Time.Unix()); err != nil {
		return nil, errors.Wrap(err, "unable to record rebalance time")
	}

	if err := m.recomputeCurrentAllocations(ctx); err != nil {
		return nil, err
	}

	if err := m.exit(ctx); err != nil {
		return nil, err
	}

	if err := m.event.EventManager(ctx).EmitKV(ctx, types.EventTypeRebalanced,
		event.Attribute{Key: types.AttributeKeyLeftover, Value: pool.String()},
	); err != nil {
		return nil, errors.Wrap(err, "unable to emit rebalanced event")
	}

	return &types.MsgRebalanceResponse{
		Skipped:            false,
		Withdrawn:          withdrawn,
		Deposited:          deposited,
		LeftoverToReserves: pool,
	}, nil
}

// NeedsRebalancing reports whether any live slot has drifted beyond the
// configured threshold. Read-only; used by hosts that schedule rebalances
// off-chain.
func (k *Keeper) NeedsRebalancing(ctx context.Context) (bool, error) {
	params, err := k.GetParams(ctx)
	if err != nil {
		return false, err
	}

	plan, err := k.buildRebalancePlan(ctx)
	if err != nil {
		return false, err
	}

	return plan.maxDriftBps() > params.RebalanceThresholdBps, nil
}
