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

// AddStrategy registers a new slot in the arena. The slot is live
// immediately and is appended to the withdrawal queue so the queue stays a
// permutation of the live set without a separate governance step.
func (m msgServer) AddStrategy(ctx context.Context, msg *types.MsgAddStrategy) (*types.MsgAddStrategyResponse, error) {
	if msg == nil {
		return nil, errors.Wrap(types.ErrInvalidRequest, "message cannot be nil")
	}
	if err := m.requireAuthority(msg.Authority); err != nil {
		return nil, err
	}
	if msg.Handle == "" {
		return nil, errors.Wrap(types.ErrInvalidRequest, "strategy handle cannot be empty")
	}
	if msg.TargetBps > types.BpsDenominator {
		return nil, errors.Wrapf(types.ErrInvalidBps, "target %d exceeds %d", msg.TargetBps, types.BpsDenominator)
	}

	active, err := m.GetActiveSlots(ctx)
	if err != nil {
		return nil, err
	}
	if len(active) >= types.MaxStrategies {
		return nil, errors.Wrapf(types.ErrRegistryFull, "registry holds %d live strategies", len(active))
	}

	var totalBps uint32
	for _, slot := range active {
		totalBps += slot.TargetBps
	}
	if totalBps+msg.TargetBps > types.BpsDenominator {
		return nil, errors.Wrapf(types.ErrAllocationOverflow, "aggregate target would be %d bps", totalBps+msg.TargetBps)
	}

	minDeposit := msg.MinDeposit
	if minDeposit.IsNil() {
		minDeposit = math.ZeroInt()
	}
	maxDeposit := msg.MaxDeposit
	if maxDeposit.IsNil() {
		maxDeposit = math.ZeroInt()
	}
	if minDeposit.IsNegative() || maxDeposit.IsNegative() {
		return nil, errors.Wrap(types.ErrInvalidAmount, "deposit bounds cannot be negative")
	}
	if maxDeposit.IsPositive() && maxDeposit.LT(minDeposit) {
		return nil, errors.Wrap(types.ErrInvalidAmount, "maximum deposit below minimum deposit")
	}

	slot := types.StrategySlot{
		Handle:               msg.Handle,
		TargetBps:            msg.TargetBps,
		TotalDeposited:       math.ZeroInt(),
		TotalSharesHeld:      math.ZeroInt(),
		MinDeposit:           minDeposit,
		MaxDeposit:           maxDeposit,
		Active:               true,
		AcceptingDeposits:    true,
		AcceptingWithdrawals: true,
	}

	// The handle must resolve to a compatible capability before the slot
	// can ever receive value.
	if _, err := m.resolveStrategy(ctx, slot); err != nil {
		return nil, err
	}

	slot.Id, err = m.NextSlotID(ctx)
	if err != nil {
		return nil, err
	}
	if err := m.SetSlot(ctx, slot); err != nil {
		return nil, err
	}

	queue, err := m.GetWithdrawalQueue(ctx)
	if err != nil {
		return nil, err
	}
	queue.Ids = append(queue.Ids, slot.Id)
	if err := m.WithdrawalQueue.Set(ctx, queue); err != nil {
		return nil, errors.Wrap(err, "unable to persist withdrawal queue")
	}

	if err := m.event.EventManager(ctx).EmitKV(ctx, types.EventTypeStrategyAdded,
		event.Attribute{Key: types.AttributeKeyStrategyID, Value: formatUint(slot.Id)},
		event.Attribute{Key: types.AttributeKeyHandle, Value: msg.Handle},
		event.Attribute{Key: types.AttributeKeyTargetBps, Value: formatUint(uint64(msg.TargetBps))},
	); err != nil {
		return nil, errors.Wrap(err, "unable to emit strategy added event")
	}

	return &types.MsgAddStrategyResponse{Id: slot.Id}, nil
}

// UpdateStrategy adjusts a live slot's weight and gating flags. Retiring a
// slot through Active requires the position to be empty, the same rule
// RemoveStrategy enforces.
func (m msgServer) UpdateStrategy(ctx context.Context, msg *types.MsgUpdateStrategy) (*types.MsgUpdateStrategyResponse, error) {
	if msg == nil {
		return nil, errors.Wrap(types.ErrInvalidRequest, "message cannot be nil")
	}
	if err := m.requireAuthority(msg.Authority); err != nil {
		return nil, err
	}
	if msg.TargetBps > types.BpsDenominator {
		return nil, errors.Wrapf(types.ErrInvalidBps, "target %d exceeds %d", msg.TargetBps, types.BpsDenominator)
	}

	slot, found, err := m.GetSlot(ctx, msg.Id)
	if err != nil {
		return nil, err
	}
	if !found || !slot.Active {
		return nil, errors.Wrapf(types.ErrStrategyNotFound, "no live strategy %d", msg.Id)
	}

	active, err := m.GetActiveSlots(ctx)
	if err != nil {
		return nil, err
	}
	var totalBps uint32
	for _, other := range active {
		if other.Id != slot.Id {
			totalBps += other.TargetBps
		}
	}
	if msg.Active && totalBps+msg.TargetBps > types.BpsDenominator {
		return nil, errors.Wrapf(types.ErrAllocationOverflow, "aggregate target would be %d bps", totalBps+msg.TargetBps)
	}

	if !msg.Active {
		return m.retireSlot(ctx, slot)
	}

	slot.TargetBps = msg.TargetBps
	slot.AcceptingDeposits = msg.AcceptingDeposits
	slot.AcceptingWithdrawals = msg.AcceptingWithdrawals
	if err := m.SetSlot(ctx, slot); err != nil {
		return nil, err
	}

	if err := m.event.EventManager(ctx).EmitKV(ctx, types.EventTypeStrategyUpdated,
		event.Attribute{Key: types.AttributeKeyStrategyID, Value: formatUint(slot.Id)},
		event.Attribute{Key: types.AttributeKeyTargetBps, Value: formatUint(uint64(msg.TargetBps))},
	); err != nil {
		return nil, errors.Wrap(err, "unable to emit strategy updated event")
	}

	return &types.MsgUpdateStrategyResponse{}, nil
}

// RemoveStrategy retires a live, empty slot. The identifier stays in the
// arena forever; only the Active flag flips so historic references remain
// resolvable.
func (m msgServer) RemoveStrategy(ctx context.Context, msg *types.MsgRemoveStrategy) (*types.MsgRemoveStrategyResponse, error) {
	if msg == nil {
		return nil, errors.Wrap(types.ErrInvalidRequest, "message cannot be nil")
	}
	if err := m.requireAuthority(msg.Authority); err != nil {
		return nil, err
	}

	slot, found, err := m.GetSlot(ctx, msg.Id)
	if err != nil {
		return nil, err
	}
	if !found || !slot.Active {
		return nil, errors.Wrapf(types.ErrStrategyNotFound, "no live strategy %d", msg.Id)
	}

	if _, err := m.retireSlot(ctx, slot); err != nil {
		return nil, err
	}

	return &types.MsgRemoveStrategyResponse{}, nil
}

// retireSlot flips a slot inactive after verifying it holds nothing, and
// drops it from the withdrawal queue.
func (m msgServer) retireSlot(ctx context.Context, slot types.StrategySlot) (*types.MsgUpdateStrategyResponse, error) {
	if slot.TotalSharesHeld.IsPositive() {
		return nil, errors.Wrapf(types.ErrStrategyNotEmpty, "strategy %d still holds %s shares", slot.Id, slot.TotalSharesHeld)
	}

	slot.Active = false
	slot.AcceptingDeposits = false
	slot.AcceptingWithdrawals = false
	slot.TargetBps = 0
	if err := m.SetSlot(ctx, slot); err != nil {
		return nil, err
	}

	queue, err := m.GetWithdrawalQueue(ctx)
	if err != nil {
		return nil, err
	}
	remaining := queue.Ids[:0]
	for _, id := range queue.Ids {
		if id != slot.Id {
			remaining = append(remaining, id)
		}
	}
	queue.Ids = remaining
	if err := m.WithdrawalQueue.Set(ctx, queue); err != nil {
		return nil, errors.Wrap(err, "unable to persist withdrawal queue")
	}

	if err := m.event.EventManager(ctx).EmitKV(ctx, types.EventTypeStrategyRemoved,
		event.Attribute{Key: types.AttributeKeyStrategyID, Value: formatUint(slot.Id)},
	); err != nil {
		return nil, errors.Wrap(err, "unable to emit strategy removed event")
	}

	return &types.MsgUpdateStrategyResponse{}, nil
}

// PauseStrategy toggles the emergency pause of one slot. A paused slot is
// invisible to allocation, rebalancing and the withdrawal queue but keeps
// its weight and position.
func (m msgServer) PauseStrategy(ctx context.Context, msg *types.MsgPauseStrategy) (*types.MsgPauseStrategyResponse, error) {
	if msg == nil {
		return nil, errors.Wrap(types.ErrInvalidRequest, "message cannot be nil")
	}
	if err := m.requireAuthority(msg.Authority); err != nil {
		return nil, err
	}

	slot, found, err := m.GetSlot(ctx, msg.Id)
	if err != nil {
		return nil, err
	}
	if !found || !slot.Active {
		return nil, errors.Wrapf(types.ErrStrategyNotFound, "no live strategy %d", msg.Id)
	}

	slot.Paused = msg.Paused
	if err := m.SetSlot(ctx, slot); err != nil {
		return nil, err
	}

	if err := m.event.EventManager(ctx).EmitKV(ctx, types.EventTypeStrategyPaused,
		event.Attribute{Key: types.AttributeKeyStrategyID, Value: formatUint(slot.Id)},
		event.Attribute{Key: types.AttributeKeyPaused, Value: formatBool(msg.Paused)},
	); err != nil {
		return nil, errors.Wrap(err, "unable to emit strategy paused event")
	}

	return &types.MsgPauseStrategyResponse{}, nil
}

// SetWithdrawalQueue replaces the draw-down order wholesale.
func (m msgServer) SetWithdrawalQueue(ctx context.Context, msg *types.MsgSetWithdrawalQueue) (*types.MsgSetWithdrawalQueueResponse, error) {
	if msg == nil {
		return nil, errors.Wrap(types.ErrInvalidRequest, "message cannot be nil")
	}
	if err := m.requireAuthority(msg.Authority); err != nil {
		return nil, err
	}

	if err := m.Keeper.SetWithdrawalQueue(ctx, types.WithdrawalQueue{Ids: msg.Ids}); err != nil {
		return nil, err
	}

	if err := m.event.EventManager(ctx).EmitKV(ctx, types.EventTypeQueueUpdated); err != nil {
		return nil, errors.Wrap(err, "unable to emit queue updated event")
	}

	return &types.MsgSetWithdrawalQueueResponse{}, nil
}

func (m msgServer) UpdateParams(ctx context.Context, msg *types.MsgUpdateParams) (*types.MsgUpdateParamsResponse, error) {
	if msg == nil {
		return nil, errors.Wrap(types.ErrInvalidRequest, "message cannot be nil")
	}
	if err := m.requireAuthority(msg.Authority); err != nil {
		return nil, err
	}

	if msg.Params.Operator != "" {
		if _, err := m.decodeAddress("operator", msg.Params.Operator); err != nil {
			return nil, err
		}
	}

	if err := m.SetParams(ctx, msg.Params); err != nil {
		return nil, err
	}

	if err := m.event.EventManager(ctx).EmitKV(ctx, types.EventTypeParamsUpdated); err != nil {
		return nil, errors.Wrap(err, "unable to emit params updated event")
	}

	return &types.MsgUpdateParamsResponse{}, nil
}

func (m msgServer) SetPaused(ctx context.Context, msg *types.MsgSetPaused) (*types.MsgSetPausedResponse, error) {
	if msg == nil {
		return nil, errors.Wrap(types.ErrInvalidRequest, "message cannot be nil")
	}
	if err := m.requireAuthority(msg.Authority); err != nil {
		return nil, err
	}

	if err := m.Paused.Set(ctx, msg.Paused); err != nil {
		return nil, errors.Wrap(err, "unable to persist pause switch")
	}

	if err := m.event.EventManager(ctx).EmitKV(ctx, types.EventTypePausedSet,
		event.Attribute{Key: types.AttributeKeyPaused, Value: formatBool(msg.Paused)},
	); err != nil {
		return nil, errors.Wrap(err, "unable to emit paused set event")
	}

	return &types.MsgSetPausedResponse{}, nil
}

func formatBool(value bool) string {
	if value {
		return "true"
	}
	return "false"
}
