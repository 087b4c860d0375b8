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
	"errors"

	"cosmossdk.io/collections"
	sdkerrors "cosmossdk.io/errors"
	"cosmossdk.io/math"

	"vaults.harbor.finance/types"
)

// GetSlot returns one strategy slot by identifier.
func (k *Keeper) GetSlot(ctx context.Context, id uint64) (types.StrategySlot, bool, error) {
	slot, err := k.Slots.Get(ctx, id)
	if err != nil {
		if errors.Is(err, collections.ErrNotFound) {
			return types.StrategySlot{}, false, nil
		}
		return types.StrategySlot{}, false, sdkerrors.Wrap(err, "unable to get strategy slot from state")
	}

	return slot, true, nil
}

// SetSlot stores a strategy slot. Slots are never removed from the arena;
// retirement flips Active instead so the identifier stays resolvable.
func (k *Keeper) SetSlot(ctx context.Context, slot types.StrategySlot) error {
	return k.Slots.Set(ctx, slot.Id, slot)
}

// NextSlotID returns the next monotonic slot identifier, starting at 1.
// Identifiers are never reused, even after a slot is retired.
func (k *Keeper) NextSlotID(ctx context.Context) (uint64, error) {
	id, err := k.SlotNextID.Get(ctx)
	if err != nil {
		if errors.Is(err, collections.ErrNotFound) {
			id = 1
		} else {
			return 0, sdkerrors.Wrap(err, "unable to get next slot id from state")
		}
	}

	if err := k.SlotNextID.Set(ctx, id+1); err != nil {
		return 0, sdkerrors.Wrap(err, "unable to set next slot id in state")
	}

	return id, nil
}

// GetSlots returns every stored slot, retired ones included, ordered by
// identifier.
func (k *Keeper) GetSlots(ctx context.Context) ([]types.StrategySlot, error) {
	var slots []types.StrategySlot

	err := k.Slots.Walk(ctx, nil, func(_ uint64, slot types.StrategySlot) (bool, error) {
		slots = append(slots, slot)
		return false, nil
	})
	if err != nil {
		return nil, sdkerrors.Wrap(err, "unable to walk strategy slots in state")
	}

	return slots, nil
}

// GetActiveSlots returns the live slot set ordered by identifier.
func (k *Keeper) GetActiveSlots(ctx context.Context) ([]types.StrategySlot, error) {
	slots, err := k.GetSlots(ctx)
	if err != nil {
		return nil, err
	}

	active := slots[:0]
	for _, slot := range slots {
		if slot.Active {
			active = append(active, slot)
		}
	}

	return active, nil
}

// ActiveTargetBps sums the target weights of the live slot set.
func (k *Keeper) ActiveTargetBps(ctx context.Context) (uint32, error) {
	slots, err := k.GetActiveSlots(ctx)
	if err != nil {
		return 0, err
	}

	var total uint32
	for _, slot := range slots {
		total += slot.TargetBps
	}

	return total, nil
}

// GetWithdrawalQueue returns the stored draw-down order, empty when none has
// been configured.
func (k *Keeper) GetWithdrawalQueue(ctx context.Context) (types.WithdrawalQueue, error) {
	queue, err := k.WithdrawalQueue.Get(ctx)
	if err != nil {
		if errors.Is(err, collections.ErrNotFound) {
			return types.WithdrawalQueue{}, nil
		}
		return types.WithdrawalQueue{}, sdkerrors.Wrap(err, "unable to get withdrawal queue from state")
	}

	return queue, nil
}

// SetWithdrawalQueue validates that the given order is a permutation of the
// live slot set and stores it.
func (k *Keeper) SetWithdrawalQueue(ctx context.Context, queue types.WithdrawalQueue) error {
	active, err := k.GetActiveSlots(ctx)
	if err != nil {
		return err
	}

	if len(queue.Ids) != len(active) {
		return sdkerrors.Wrapf(types.ErrInvalidQueue, "queue has %d entries, registry has %d live strategies", len(queue.Ids), len(active))
	}

	seen := make(map[uint64]bool, len(queue.Ids))
	for _, id := range queue.Ids {
		if seen[id] {
			return sdkerrors.Wrapf(types.ErrInvalidQueue, "duplicate strategy %d", id)
		}
		seen[id] = true
	}
	for _, slot := range active {
		if !seen[slot.Id] {
			return sdkerrors.Wrapf(types.ErrInvalidQueue, "live strategy %d missing from queue", slot.Id)
		}
	}

	return k.WithdrawalQueue.Set(ctx, queue)
}

// GetLastRebalance returns the unix time of the last executed rebalance,
// zero when none has run.
func (k *Keeper) GetLastRebalance(ctx context.Context) (int64, error) {
	value, err := k.LastRebalance.Get(ctx)
	if err != nil {
		if errors.Is(err, collections.ErrNotFound) {
			return 0, nil
		}
		return 0, sdkerrors.Wrap(err, "unable to get last rebalance time from state")
	}

	return value, nil
}

// resolveStrategy resolves a slot's handle to a live capability and verifies
// the underlying asset matches the vault's before any value moves.
func (k *Keeper) resolveStrategy(ctx context.Context, slot types.StrategySlot) (types.Strategy, error) {
	strategy, err := k.strategies.Resolve(slot.Handle)
	if err != nil {
		return nil, sdkerrors.Wrapf(types.ErrStrategyNotFound, "unable to resolve handle %s of strategy %d", slot.Handle, slot.Id)
	}

	if strategy.AssetType() != k.denom {
		return nil, sdkerrors.Wrapf(types.ErrAssetMismatch, "strategy %d holds %s, vault holds %s", slot.Id, strategy.AssetType(), k.denom)
	}

	return strategy, nil
}

// totalStrategyValue sums the live value of every active position, asking
// each strategy to price its held shares at the current rate.
func (k *Keeper) totalStrategyValue(ctx context.Context) (math.Int, error) {
	slots, err := k.GetActiveSlots(ctx)
	if err != nil {
		return math.ZeroInt(), err
	}

	total := math.ZeroInt()
	for _, slot := range slots {
		if slot.TotalSharesHeld.IsZero() {
			continue
		}

		strategy, err := k.resolveStrategy(ctx, slot)
		if err != nil {
			return math.ZeroInt(), err
		}

		value, err := strategy.ConvertToAssets(ctx, slot.TotalSharesHeld)
		if err != nil {
			return math.ZeroInt(), sdkerrors.Wrapf(types.ErrStrategyCallFailed, "unable to value strategy %d: %s", slot.Id, err)
		}

		total = total.Add(value)
	}

	return total, nil
}

// recomputeCurrentAllocations refreshes every live slot's CurrentBps from
// the present value of its position against total deployed value. With
// nothing deployed all current weights are zero.
func (k *Keeper) recomputeCurrentAllocations(ctx context.Context) error {
	slots, err := k.GetActiveSlots(ctx)
	if err != nil {
		return err
	}

	values := make(map[uint64]math.Int, len(slots))
	deployed := math.ZeroInt()

	for _, slot := range slots {
		value := math.ZeroInt()
		if !slot.TotalSharesHeld.IsZero() {
			strategy, err := k.resolveStrategy(ctx, slot)
			if err != nil {
				return err
			}
			value, err = strategy.ConvertToAssets(ctx, slot.TotalSharesHeld)
			if err != nil {
				return sdkerrors.Wrapf(types.ErrStrategyCallFailed, "unable to value strategy %d: %s", slot.Id, err)
			}
		}

		values[slot.Id] = value
		deployed = deployed.Add(value)
	}

	for _, slot := range slots {
		if deployed.IsZero() {
			slot.CurrentBps = 0
		} else {
			slot.CurrentBps = uint32(values[slot.Id].MulRaw(types.BpsDenominator).Quo(deployed).Uint64())
		}

		if err := k.SetSlot(ctx, slot); err != nil {
			return err
		}
	}

	return nil
}
