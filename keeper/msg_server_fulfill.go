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
	"strconv"

	"cosmossdk.io/core/event"
	"cosmossdk.io/errors"
	"cosmossdk.io/math"

	"vaults.harbor.finance/types"
)

func formatUint(value uint64) string {
	return strconv.FormatUint(value, 10)
}

// FulfillDeposit moves up to msg.Assets of a controller's pending deposit
// into the claimable bucket and deploys the accepted assets across the
// registry. A nil or zero amount fulfills the whole pending balance. Any
// failure during deployment aborts the message, leaving state untouched.
func (m msgServer) FulfillDeposit(ctx context.Context, msg *types.MsgFulfillDeposit) (*types.MsgFulfillDepositResponse, error) {
	if msg == nil {
		return nil, errors.Wrap(types.ErrInvalidRequest, "message cannot be nil")
	}

	if m.GetPaused(ctx) {
		return nil, errors.Wrap(types.ErrVaultPaused, "fulfillments are suspended")
	}
	params, err := m.requireOperator(ctx, msg.Operator)
	if err != nil {
		return nil, err
	}

	controller, err := m.decodeAddress("controller", msg.Controller)
	if err != nil {
		return nil, err
	}

	account, found, err := m.GetController(ctx, controller)
	if err != nil {
		return nil, err
	}
	if !found || !account.PendingDepositAssets.IsPositive() {
		return nil, errors.Wrapf(types.ErrInvalidRequest, "controller %s has no pending deposit", msg.Controller)
	}

	headerInfo := m.header.GetHeaderInfo(ctx)
	elapsed := headerInfo.Time.Unix() - account.LastDepositRequest.Unix()
	if elapsed < params.FulfillmentDelaySeconds {
		return nil, errors.Wrapf(types.ErrFulfillmentTooEarly, "%ds of %ds elapsed", elapsed, params.FulfillmentDelaySeconds)
	}

	// Requesting more than is pending fulfills everything that is pending.
	amount := account.PendingDepositAssets
	if !msg.Assets.IsNil() && msg.Assets.IsPositive() && msg.Assets.LT(amount) {
		amount = msg.Assets
	}
	if !msg.Assets.IsNil() && msg.Assets.GT(amount) {
		m.logger.Warn("clamped deposit fulfillment to pending balance", "controller", msg.Controller, "requested", msg.Assets.String(), "fulfilled", amount.String())
	}

	if err := m.enter(ctx); err != nil {
		return nil, err
	}

	account.PendingDepositAssets = account.PendingDepositAssets.Sub(amount)
	account.ClaimableDepositAssets, err = account.ClaimableDepositAssets.SafeAdd(amount)
	if err != nil {
		return nil, errors.Wrap(err, "unable to update claimable deposit assets")
	}
	if err := m.SetController(ctx, controller, account); err != nil {
		return nil, errors.Wrap(err, "unable to store controller account")
	}

	ledger, err := m.GetLedger(ctx)
	if err != nil {
		return nil, err
	}
	ledger.TotalPendingAssets, err = ledger.TotalPendingAssets.SafeSub(amount)
	if err != nil {
		return nil, errors.Wrap(err, "unable to reduce total pending assets")
	}
	ledger.TotalClaimableAssets, err = ledger.TotalClaimableAssets.SafeAdd(amount)
	if err != nil {
		return nil, errors.Wrap(err, "unable to grow total claimable assets")
	}
	if err := m.SetLedger(ctx, ledger); err != nil {
		return nil, errors.Wrap(err, "unable to persist ledger")
	}

	if err := m.AddLifetimeDeposited(ctx, amount); err != nil {
		return nil, err
	}

	if err := m.promoteRequests(ctx, msg.Controller, types.REQUEST_KIND_DEPOSIT, amount); err != nil {
		return nil, err
	}

	allocations, reserve, err := m.allocate(ctx, amount, params.ReserveRatioBps)
	if err != nil {
		return nil, err
	}
	m.logger.Info("deployed fulfilled deposit", "controller", msg.Controller, "assets", amount.String(), "strategies", len(allocations), "reserves", reserve.String())

	if err := m.recomputeCurrentAllocations(ctx); err != nil {
		return nil, err
	}

	if err := m.exit(ctx); err != nil {
		return nil, err
	}

	if err := m.event.EventManager(ctx).EmitKV(ctx, types.EventTypeDepositFulfilled,
		event.Attribute{Key: types.AttributeKeyController, Value: msg.Controller},
		event.Attribute{Key: types.AttributeKeyAssets, Value: amount.String()},
		event.Attribute{Key: types.AttributeKeyReserves, Value: reserve.String()},
	); err != nil {
		return nil, errors.Wrap(err, "unable to emit deposit fulfilled event")
	}

	return &types.MsgFulfillDepositResponse{
		AssetsFulfilled: amount,
		Allocations:     allocations,
		ReserveRetained: reserve,
	}, nil
}

// FulfillRedeem moves up to msg.Shares of a controller's pending redemption
// into the claimable bucket, first realizing the backing assets into
// reserves through the withdrawal queue. The realization is all or nothing:
// if the queue cannot cover the shortfall the message fails.
func (m msgServer) FulfillRedeem(ctx context.Context, msg *types.MsgFulfillRedeem) (*types.MsgFulfillRedeemResponse, error) {
	if msg == nil {
		return nil, errors.Wrap(types.ErrInvalidRequest, "message cannot be nil")
	}

	if m.GetPaused(ctx) {
		return nil, errors.Wrap(types.ErrVaultPaused, "fulfillments are suspended")
	}
	params, err := m.requireOperator(ctx, msg.Operator)
	if err != nil {
		return nil, err
	}

	controller, err := m.decodeAddress("controller", msg.Controller)
	if err != nil {
		return nil, err
	}

	account, found, err := m.GetController(ctx, controller)
	if err != nil {
		return nil, err
	}
	if !found || !account.PendingRedeemShares.IsPositive() {
		return nil, errors.Wrapf(types.ErrInvalidRequest, "controller %s has no pending redemption", msg.Controller)
	}

	headerInfo := m.header.GetHeaderInfo(ctx)
	elapsed := headerInfo.Time.Unix() - account.LastRedeemRequest.Unix()
	if elapsed < params.FulfillmentDelaySeconds {
		return nil, errors.Wrapf(types.ErrFulfillmentTooEarly, "%ds of %ds elapsed", elapsed, params.FulfillmentDelaySeconds)
	}

	shares := account.PendingRedeemShares
	if !msg.Shares.IsNil() && msg.Shares.IsPositive() && msg.Shares.LT(shares) {
		shares = msg.Shares
	}
	if !msg.Shares.IsNil() && msg.Shares.GT(shares) {
		m.logger.Warn("clamped redemption fulfillment to pending balance", "controller", msg.Controller, "requested", msg.Shares.String(), "fulfilled", shares.String())
	}

	if err := m.enter(ctx); err != nil {
		return nil, err
	}

	ledger, err := m.GetLedger(ctx)
	if err != nil {
		return nil, err
	}

	// The payout obligation is sized upward so reserves can never come up
	// short against the floor-rounded amount actually paid at claim time.
	totalAssets, err := m.totalAssets(ctx)
	if err != nil {
		return nil, err
	}
	assetsNeeded, err := ToAssets(shares, totalAssets, ledger.OutstandingShares(), types.RoundUp)
	if err != nil {
		return nil, err
	}

	if err := m.ensureReserves(ctx, assetsNeeded); err != nil {
		return nil, err
	}

	account.PendingRedeemShares = account.PendingRedeemShares.Sub(shares)
	account.ClaimableRedeemShares, err = account.ClaimableRedeemShares.SafeAdd(shares)
	if err != nil {
		return nil, errors.Wrap(err, "unable to update claimable redeem shares")
	}
	if err := m.SetController(ctx, controller, account); err != nil {
		return nil, errors.Wrap(err, "unable to store controller account")
	}

	// Reload: ensureReserves may have moved value out of strategies.
	ledger, err = m.GetLedger(ctx)
	if err != nil {
		return nil, err
	}
	ledger.TotalPendingShares, err = ledger.TotalPendingShares.SafeSub(shares)
	if err != nil {
		return nil, errors.Wrap(err, "unable to reduce total pending shares")
	}
	ledger.TotalClaimableShares, err = ledger.TotalClaimableShares.SafeAdd(shares)
	if err != nil {
		return nil, errors.Wrap(err, "unable to grow total claimable shares")
	}
	if err := m.SetLedger(ctx, ledger); err != nil {
		return nil, errors.Wrap(err, "unable to persist ledger")
	}

	if err := m.promoteRequests(ctx, msg.Controller, types.REQUEST_KIND_REDEEM, shares); err != nil {
		return nil, err
	}

	if err := m.recomputeCurrentAllocations(ctx); err != nil {
		return nil, err
	}

	if err := m.exit(ctx); err != nil {
		return nil, err
	}

	if err := m.event.EventManager(ctx).EmitKV(ctx, types.EventTypeRedeemFulfilled,
		event.Attribute{Key: types.AttributeKeyController, Value: msg.Controller},
		event.Attribute{Key: types.AttributeKeyShares, Value: shares.String()},
		event.Attribute{Key: types.AttributeKeyAssets, Value: assetsNeeded.String()},
	); err != nil {
		return nil, errors.Wrap(err, "unable to emit redeem fulfilled event")
	}

	return &types.MsgFulfillRedeemResponse{
		SharesFulfilled: shares,
		AssetsRealized:  assetsNeeded,
	}, nil
}

// clampNonNegative floors a difference at zero.
func clampNonNegative(value math.Int) math.Int {
	if value.IsNegative() {
		return math.ZeroInt()
	}
	return value
}
