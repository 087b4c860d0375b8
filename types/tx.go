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

package types

import (
	"context"

	"cosmossdk.io/math"
)

// MsgServer is the host-facing mutating surface of the vault engine.
type MsgServer interface {
	RequestDeposit(ctx context.Context, msg *MsgRequestDeposit) (*MsgRequestDepositResponse, error)
	RequestRedeem(ctx context.Context, msg *MsgRequestRedeem) (*MsgRequestRedeemResponse, error)
	FulfillDeposit(ctx context.Context, msg *MsgFulfillDeposit) (*MsgFulfillDepositResponse, error)
	FulfillRedeem(ctx context.Context, msg *MsgFulfillRedeem) (*MsgFulfillRedeemResponse, error)
	ClaimDeposit(ctx context.Context, msg *MsgClaimDeposit) (*MsgClaimDepositResponse, error)
	ClaimRedeem(ctx context.Context, msg *MsgClaimRedeem) (*MsgClaimRedeemResponse, error)
	SetOperatorApproval(ctx context.Context, msg *MsgSetOperatorApproval) (*MsgSetOperatorApprovalResponse, error)

	AddStrategy(ctx context.Context, msg *MsgAddStrategy) (*MsgAddStrategyResponse, error)
	UpdateStrategy(ctx context.Context, msg *MsgUpdateStrategy) (*MsgUpdateStrategyResponse, error)
	RemoveStrategy(ctx context.Context, msg *MsgRemoveStrategy) (*MsgRemoveStrategyResponse, error)
	PauseStrategy(ctx context.Context, msg *MsgPauseStrategy) (*MsgPauseStrategyResponse, error)
	SetWithdrawalQueue(ctx context.Context, msg *MsgSetWithdrawalQueue) (*MsgSetWithdrawalQueueResponse, error)

	Rebalance(ctx context.Context, msg *MsgRebalance) (*MsgRebalanceResponse, error)
	UpdateParams(ctx context.Context, msg *MsgUpdateParams) (*MsgUpdateParamsResponse, error)
	SetPaused(ctx context.Context, msg *MsgSetPaused) (*MsgSetPausedResponse, error)
}

// MsgRequestDeposit registers a deposit request. Owner funds the request;
// Controller owns the resulting claim. Owner must be the controller or an
// operator the controller approved.
type MsgRequestDeposit struct {
	Owner      string
	Controller string
	Assets     math.Int
}

type MsgRequestDepositResponse struct {
	RequestId uint64
}

// MsgRequestRedeem registers a redemption request, burning Owner's shares
// immediately.
type MsgRequestRedeem struct {
	Owner      string
	Controller string
	Shares     math.Int
}

type MsgRequestRedeemResponse struct {
	RequestId uint64
}

// MsgFulfillDeposit moves a controller's pending deposit to claimable and
// deploys the fulfilled assets. Operator-only.
type MsgFulfillDeposit struct {
	Operator   string
	Controller string
	Assets     math.Int
}

type MsgFulfillDepositResponse struct {
	AssetsFulfilled math.Int
	Allocations     []AllocationEntry
	ReserveRetained math.Int
}

// MsgFulfillRedeem moves a controller's pending redeem shares to claimable,
// realizing the backing assets into reserves first. Operator-only.
type MsgFulfillRedeem struct {
	Operator   string
	Controller string
	Shares     math.Int
}

type MsgFulfillRedeemResponse struct {
	SharesFulfilled math.Int
	AssetsRealized  math.Int
}

type MsgClaimDeposit struct {
	Caller     string
	Controller string
	Receiver   string
	Assets     math.Int
}

type MsgClaimDepositResponse struct {
	SharesMinted math.Int
}

type MsgClaimRedeem struct {
	Caller     string
	Controller string
	Receiver   string
	Shares     math.Int
}

type MsgClaimRedeemResponse struct {
	AssetsPaid math.Int
}

type MsgSetOperatorApproval struct {
	Controller string
	Operator   string
	Approved   bool
}

type MsgSetOperatorApprovalResponse struct{}

type MsgAddStrategy struct {
	Authority  string
	Handle     string
	TargetBps  uint32
	MinDeposit math.Int
	MaxDeposit math.Int
}

type MsgAddStrategyResponse struct {
	Id uint64
}

type MsgUpdateStrategy struct {
	Authority            string
	Id                   uint64
	TargetBps            uint32
	Active               bool
	AcceptingDeposits    bool
	AcceptingWithdrawals bool
}

type MsgUpdateStrategyResponse struct{}

type MsgRemoveStrategy struct {
	Authority string
	Id        uint64
}

type MsgRemoveStrategyResponse struct{}

type MsgPauseStrategy struct {
	Authority string
	Id        uint64
	Paused    bool
}

type MsgPauseStrategyResponse struct{}

type MsgSetWithdrawalQueue struct {
	Authority string
	Ids       []uint64
}

type MsgSetWithdrawalQueueResponse struct{}

type MsgRebalance struct {
	Operator string
}

// MsgRebalanceResponse reports the executed move-set. Skipped is true when
// no slot drifted beyond the threshold.
type MsgRebalanceResponse struct {
	Skipped            bool
	Withdrawn          []AllocationEntry
	Deposited          []AllocationEntry
	LeftoverToReserves math.Int
}

type MsgUpdateParams struct {
	Authority string
	Params    Params
}

type MsgUpdateParamsResponse struct{}

type MsgSetPaused struct {
	Authority string
	Paused    bool
}

type MsgSetPausedResponse struct{}

// AllocationEntry reports one strategy movement inside an allocation or
// rebalance.
type AllocationEntry struct {
	StrategyId uint64
	Amount     math.Int
}
