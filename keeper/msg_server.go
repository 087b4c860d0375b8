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
	sdk "github.com/cosmos/cosmos-sdk/types"

	"vaults.harbor.finance/types"
)

var _ types.MsgServer = &msgServer{}

type msgServer struct {
	*Keeper
}

func NewMsgServer(keeper *Keeper) types.MsgServer {
	return &msgServer{Keeper: keeper}
}

// authorizeController verifies that caller may act on behalf of controller:
// either they are the same account or the controller has approved the caller
// as an operator.
func (m msgServer) authorizeController(ctx context.Context, caller, controller sdk.AccAddress) error {
	if caller.Equals(controller) {
		return nil
	}

	approved, err := m.IsOperatorApproved(ctx, controller, caller)
	if err != nil {
		return err
	}
	if !approved {
		return errors.Wrapf(types.ErrUnauthorized, "%s may not act for controller %s", caller, controller)
	}

	return nil
}

// requireOperator verifies that caller is the configured vault operator.
func (m msgServer) requireOperator(ctx context.Context, caller string) (types.Params, error) {
	params, err := m.GetParams(ctx)
	if err != nil {
		return types.Params{}, errors.Wrap(err, "unable to fetch vault parameters")
	}
	if params.Operator == "" || caller != params.Operator {
		return types.Params{}, errors.Wrapf(types.ErrInvalidOperator, "expected %s, got %s", params.Operator, caller)
	}

	return params, nil
}

// requireAuthority verifies that caller is the governance authority.
func (m msgServer) requireAuthority(caller string) error {
	if caller != m.authority {
		return errors.Wrapf(types.ErrInvalidAuthority, "expected %s, got %s", m.authority, caller)
	}
	return nil
}

// decodeAddress decodes a bech32 account address, naming the field on
// failure.
func (m msgServer) decodeAddress(field, value string) (sdk.AccAddress, error) {
	bz, err := m.address.StringToBytes(value)
	if err != nil {
		return nil, errors.Wrapf(types.ErrInvalidRequest, "invalid %s address: %s", field, value)
	}
	return bz, nil
}

func (m msgServer) RequestDeposit(ctx context.Context, msg *types.MsgRequestDeposit) (*types.MsgRequestDepositResponse, error) {
	if msg == nil {
		return nil, errors.Wrap(types.ErrInvalidRequest, "message cannot be nil")
	}
	if msg.Assets.IsNil() || !msg.Assets.IsPositive() {
		return nil, errors.Wrap(types.ErrInvalidAmount, "deposit amount must be positive")
	}

	if m.GetPaused(ctx) {
		return nil, errors.Wrap(types.ErrVaultPaused, "deposit requests are suspended")
	}
	params, err := m.GetParams(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "unable to fetch vault parameters")
	}
	if !params.VaultEnabled {
		return nil, errors.Wrap(types.ErrInvalidRequest, "vault is not accepting new requests")
	}

	owner, err := m.decodeAddress("owner", msg.Owner)
	if err != nil {
		return nil, err
	}
	controller, err := m.decodeAddress("controller", msg.Controller)
	if err != nil {
		return nil, err
	}
	if err := m.authorizeController(ctx, owner, controller); err != nil {
		return nil, err
	}

	balance := m.bank.GetBalance(ctx, owner, m.denom).Amount
	if balance.LT(msg.Assets) {
		return nil, errors.Wrap(types.ErrInvalidAmount, "insufficient balance to fund deposit request")
	}

	coin := sdk.NewCoin(m.denom, msg.Assets)
	if err := m.bank.SendCoins(ctx, owner, types.ModuleAddress, sdk.NewCoins(coin)); err != nil {
		return nil, errors.Wrap(err, "unable to transfer assets into module account")
	}

	headerInfo := m.header.GetHeaderInfo(ctx)

	account, _, err := m.GetController(ctx, controller)
	if err != nil {
		return nil, err
	}
	account.PendingDepositAssets, err = account.PendingDepositAssets.SafeAdd(msg.Assets)
	if err != nil {
		return nil, errors.Wrap(err, "unable to update pending deposit assets")
	}
	account.LastDepositRequest = headerInfo.Time
	if err := m.SetController(ctx, controller, account); err != nil {
		return nil, errors.Wrap(err, "unable to store controller account")
	}

	ledger, err := m.GetLedger(ctx)
	if err != nil {
		return nil, err
	}
	ledger.TotalPendingAssets, err = ledger.TotalPendingAssets.SafeAdd(msg.Assets)
	if err != nil {
		return nil, errors.Wrap(err, "unable to update total pending assets")
	}
	if err := m.SetLedger(ctx, ledger); err != nil {
		return nil, errors.Wrap(err, "unable to persist ledger")
	}

	id, err := m.NextRequestID(ctx)
	if err != nil {
		return nil, err
	}
	if err := m.SetRequest(ctx, types.Request{
		Id:          id,
		Controller:  msg.Controller,
		Kind:        types.REQUEST_KIND_DEPOSIT,
		Amount:      msg.Assets,
		Outstanding: msg.Assets,
		RequestTime: headerInfo.Time,
		Status:      types.REQUEST_STATUS_PENDING,
	}); err != nil {
		return nil, errors.Wrap(err, "unable to store request record")
	}

	if err := m.event.EventManager(ctx).EmitKV(ctx, types.EventTypeDepositRequested,
		event.Attribute{Key: types.AttributeKeyController, Value: msg.Controller},
		event.Attribute{Key: types.AttributeKeyRequestID, Value: formatUint(id)},
		event.Attribute{Key: types.AttributeKeyAssets, Value: msg.Assets.String()},
	); err != nil {
		return nil, errors.Wrap(err, "unable to emit deposit requested event")
	}

	return &types.MsgRequestDepositResponse{RequestId: id}, nil
}

func (m msgServer) RequestRedeem(ctx context.Context, msg *types.MsgRequestRedeem) (*types.MsgRequestRedeemResponse, error) {
	if msg == nil {
		return nil, errors.Wrap(types.ErrInvalidRequest, "message cannot be nil")
	}
	if msg.Shares.IsNil() || !msg.Shares.IsPositive() {
		return nil, errors.Wrap(types.ErrInvalidAmount, "redeem amount must be positive")
	}

	if m.GetPaused(ctx) {
		return nil, errors.Wrap(types.ErrVaultPaused, "redeem requests are suspended")
	}
	params, err := m.GetParams(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "unable to fetch vault parameters")
	}
	if !params.VaultEnabled {
		return nil, errors.Wrap(types.ErrInvalidRequest, "vault is not accepting new requests")
	}

	owner, err := m.decodeAddress("owner", msg.Owner)
	if err != nil {
		return nil, err
	}
	controller, err := m.decodeAddress("controller", msg.Controller)
	if err != nil {
		return nil, err
	}
	if err := m.authorizeController(ctx, owner, controller); err != nil {
		return nil, err
	}

	// The owner's shares leave circulation now. They stay counted in the
	// outstanding supply through the pending bucket until the redemption is
	// claimed, so the exchange rate is unaffected by the burn itself.
	if err := m.SubtractShares(ctx, owner, msg.Shares); err != nil {
		return nil, err
	}

	headerInfo := m.header.GetHeaderInfo(ctx)

	account, _, err := m.GetController(ctx, controller)
	if err != nil {
		return nil, err
	}
	account.PendingRedeemShares, err = account.PendingRedeemShares.SafeAdd(msg.Shares)
	if err != nil {
		return nil, errors.Wrap(err, "unable to update pending redeem shares")
	}
	account.LastRedeemRequest = headerInfo.Time
	if err := m.SetController(ctx, controller, account); err != nil {
		return nil, errors.Wrap(err, "unable to store controller account")
	}

	ledger, err := m.GetLedger(ctx)
	if err != nil {
		return nil, err
	}
	ledger.TotalSupply, err = ledger.TotalSupply.SafeSub(msg.Shares)
	if err != nil {
		return nil, errors.Wrap(err, "unable to reduce total supply")
	}
	ledger.TotalPendingShares, err = ledger.TotalPendingShares.SafeAdd(msg.Shares)
	if err != nil {
		return nil, errors.Wrap(err, "unable to update total pending shares")
	}
	if err := m.SetLedger(ctx, ledger); err != nil {
		return nil, errors.Wrap(err, "unable to persist ledger")
	}

	id, err := m.NextRequestID(ctx)
	if err != nil {
		return nil, err
	}
	if err := m.SetRequest(ctx, types.Request{
		Id:          id,
		Controller:  msg.Controller,
		Kind:        types.REQUEST_KIND_REDEEM,
		Amount:      msg.Shares,
		Outstanding: msg.Shares,
		RequestTime: headerInfo.Time,
		Status:      types.REQUEST_STATUS_PENDING,
	}); err != nil {
		return nil, errors.Wrap(err, "unable to store request record")
	}

	if err := m.event.EventManager(ctx).EmitKV(ctx, types.EventTypeRedeemRequested,
		event.Attribute{Key: types.AttributeKeyController, Value: msg.Controller},
		event.Attribute{Key: types.AttributeKeyRequestID, Value: formatUint(id)},
		event.Attribute{Key: types.AttributeKeyShares, Value: msg.Shares.String()},
	); err != nil {
		return nil, errors.Wrap(err, "unable to emit redeem requested event")
	}

	return &types.MsgRequestRedeemResponse{RequestId: id}, nil
}

func (m msgServer) ClaimDeposit(ctx context.Context, msg *types.MsgClaimDeposit) (*types.MsgClaimDepositResponse, error) {
	if msg == nil {
		return nil, errors.Wrap(types.ErrInvalidRequest, "message cannot be nil")
	}
	if msg.Assets.IsNil() || !msg.Assets.IsPositive() {
		return nil, errors.Wrap(types.ErrInvalidAmount, "claim amount must be positive")
	}

	caller, err := m.decodeAddress("caller", msg.Caller)
	if err != nil {
		return nil, err
	}
	controller, err := m.decodeAddress("controller", msg.Controller)
	if err != nil {
		return nil, err
	}
	receiver, err := m.decodeAddress("receiver", msg.Receiver)
	if err != nil {
		return nil, err
	}
	if err := m.authorizeController(ctx, caller, controller); err != nil {
		return nil, err
	}

	account, found, err := m.GetController(ctx, controller)
	if err != nil {
		return nil, err
	}
	if !found || account.ClaimableDepositAssets.LT(msg.Assets) {
		return nil, errors.Wrapf(types.ErrInsufficientClaimable, "claimable %s, requested %s", account.ClaimableDepositAssets, msg.Assets)
	}

	ledger, err := m.GetLedger(ctx)
	if err != nil {
		return nil, err
	}

	// Shares are priced before the claimed assets rejoin the conversion
	// basis, so the minted amount reflects the pre-claim rate.
	totalAssets, err := m.totalAssets(ctx)
	if err != nil {
		return nil, err
	}
	shares, err := ToShares(msg.Assets, totalAssets, ledger.OutstandingShares(), types.RoundDown)
	if err != nil {
		return nil, err
	}

	account.ClaimableDepositAssets = account.ClaimableDepositAssets.Sub(msg.Assets)
	if err := m.SetController(ctx, controller, account); err != nil {
		return nil, errors.Wrap(err, "unable to store controller account")
	}

	ledger.TotalClaimableAssets, err = ledger.TotalClaimableAssets.SafeSub(msg.Assets)
	if err != nil {
		return nil, errors.Wrap(err, "unable to reduce total claimable assets")
	}
	ledger.TotalSupply, err = ledger.TotalSupply.SafeAdd(shares)
	if err != nil {
		return nil, errors.Wrap(err, "unable to grow total supply")
	}
	if err := m.SetLedger(ctx, ledger); err != nil {
		return nil, errors.Wrap(err, "unable to persist ledger")
	}

	if err := m.AddShares(ctx, receiver, shares); err != nil {
		return nil, err
	}

	if err := m.settleRequests(ctx, msg.Controller, types.REQUEST_KIND_DEPOSIT, types.REQUEST_STATUS_CLAIMABLE, msg.Assets); err != nil {
		return nil, err
	}

	if err := m.event.EventManager(ctx).EmitKV(ctx, types.EventTypeDepositClaimed,
		event.Attribute{Key: types.AttributeKeyController, Value: msg.Controller},
		event.Attribute{Key: types.AttributeKeyReceiver, Value: msg.Receiver},
		event.Attribute{Key: types.AttributeKeyAssets, Value: msg.Assets.String()},
		event.Attribute{Key: types.AttributeKeyShares, Value: shares.String()},
	); err != nil {
		return nil, errors.Wrap(err, "unable to emit deposit claimed event")
	}

	return &types.MsgClaimDepositResponse{SharesMinted: shares}, nil
}

func (m msgServer) ClaimRedeem(ctx context.Context, msg *types.MsgClaimRedeem) (*types.MsgClaimRedeemResponse, error) {
	if msg == nil {
		return nil, errors.Wrap(types.ErrInvalidRequest, "message cannot be nil")
	}
	if msg.Shares.IsNil() || !msg.Shares.IsPositive() {
		return nil, errors.Wrap(types.ErrInvalidAmount, "claim amount must be positive")
	}

	caller, err := m.decodeAddress("caller", msg.Caller)
	if err != nil {
		return nil, err
	}
	controller, err := m.decodeAddress("controller", msg.Controller)
	if err != nil {
		return nil, err
	}
	receiver, err := m.decodeAddress("receiver", msg.Receiver)
	if err != nil {
		return nil, err
	}
	if err := m.authorizeController(ctx, caller, controller); err != nil {
		return nil, err
	}

	account, found, err := m.GetController(ctx, controller)
	if err != nil {
		return nil, err
	}
	if !found || account.ClaimableRedeemShares.LT(msg.Shares) {
		return nil, errors.Wrapf(types.ErrInsufficientClaimable, "claimable %s, requested %s", account.ClaimableRedeemShares, msg.Shares)
	}

	ledger, err := m.GetLedger(ctx)
	if err != nil {
		return nil, err
	}

	totalAssets, err := m.totalAssets(ctx)
	if err != nil {
		return nil, err
	}
	assets, err := ToAssets(msg.Shares, totalAssets, ledger.OutstandingShares(), types.RoundDown)
	if err != nil {
		return nil, err
	}

	if ledger.TotalReserves.LT(assets) {
		return nil, errors.Wrapf(types.ErrInsufficientReserves, "reserves %s, payout %s", ledger.TotalReserves, assets)
	}

	account.ClaimableRedeemShares = account.ClaimableRedeemShares.Sub(msg.Shares)
	if err := m.SetController(ctx, controller, account); err != nil {
		return nil, errors.Wrap(err, "unable to store controller account")
	}

	ledger.TotalClaimableShares, err = ledger.TotalClaimableShares.SafeSub(msg.Shares)
	if err != nil {
		return nil, errors.Wrap(err, "unable to reduce total claimable shares")
	}
	ledger.TotalReserves, err = ledger.TotalReserves.SafeSub(assets)
	if err != nil {
		return nil, errors.Wrap(err, "unable to reduce reserves")
	}
	if err := m.SetLedger(ctx, ledger); err != nil {
		return nil, errors.Wrap(err, "unable to persist ledger")
	}

	coin := sdk.NewCoin(m.denom, assets)
	if err := m.bank.SendCoins(ctx, types.ModuleAddress, receiver, sdk.NewCoins(coin)); err != nil {
		return nil, errors.Wrap(err, "unable to pay out redemption")
	}

	if err := m.AddLifetimeClaimed(ctx, assets); err != nil {
		return nil, err
	}

	if err := m.settleRequests(ctx, msg.Controller, types.REQUEST_KIND_REDEEM, types.REQUEST_STATUS_CLAIMABLE, msg.Shares); err != nil {
		return nil, err
	}

	if err := m.event.EventManager(ctx).EmitKV(ctx, types.EventTypeRedeemClaimed,
		event.Attribute{Key: types.AttributeKeyController, Value: msg.Controller},
		event.Attribute{Key: types.AttributeKeyReceiver, Value: msg.Receiver},
		event.Attribute{Key: types.AttributeKeyShares, Value: msg.Shares.String()},
		event.Attribute{Key: types.AttributeKeyAssets, Value: assets.String()},
	); err != nil {
		return nil, errors.Wrap(err, "unable to emit redeem claimed event")
	}

	return &types.MsgClaimRedeemResponse{AssetsPaid: assets}, nil
}

func (m msgServer) SetOperatorApproval(ctx context.Context, msg *types.MsgSetOperatorApproval) (*types.MsgSetOperatorApprovalResponse, error) {
	if msg == nil {
		return nil, errors.Wrap(types.ErrInvalidRequest, "message cannot be nil")
	}

	controller, err := m.decodeAddress("controller", msg.Controller)
	if err != nil {
		return nil, err
	}
	operator, err := m.decodeAddress("operator", msg.Operator)
	if err != nil {
		return nil, err
	}
	if controller.Equals(operator) {
		return nil, errors.Wrap(types.ErrInvalidRequest, "controller cannot approve itself")
	}

	if err := m.Keeper.SetOperatorApproval(ctx, controller, operator, msg.Approved); err != nil {
		return nil, err
	}

	return &types.MsgSetOperatorApprovalResponse{}, nil
}
