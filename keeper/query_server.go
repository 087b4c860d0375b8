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

	"vaults.harbor.finance/types"
)

var _ types.QueryServer = &queryServer{}

type queryServer struct {
	*Keeper
}

func NewQueryServer(keeper *Keeper) types.QueryServer {
	return &queryServer{Keeper: keeper}
}

func (q queryServer) Params(ctx context.Context, req *types.QueryParams) (*types.QueryParamsResponse, error) {
	if req == nil {
		return nil, errors.Wrap(types.ErrInvalidRequest, "request cannot be nil")
	}

	params, err := q.GetParams(ctx)
	if err != nil {
		return nil, err
	}

	return &types.QueryParamsResponse{Params: params}, nil
}

func (q queryServer) Ledger(ctx context.Context, req *types.QueryLedger) (*types.QueryLedgerResponse, error) {
	if req == nil {
		return nil, errors.Wrap(types.ErrInvalidRequest, "request cannot be nil")
	}

	ledger, err := q.GetLedger(ctx)
	if err != nil {
		return nil, err
	}
	totalAssets, err := q.totalAssets(ctx)
	if err != nil {
		return nil, err
	}

	return &types.QueryLedgerResponse{Ledger: ledger, TotalAssets: totalAssets}, nil
}

func (q queryServer) Controller(ctx context.Context, req *types.QueryController) (*types.QueryControllerResponse, error) {
	if req == nil {
		return nil, errors.Wrap(types.ErrInvalidRequest, "request cannot be nil")
	}

	controller, err := q.address.StringToBytes(req.Controller)
	if err != nil {
		return nil, errors.Wrapf(types.ErrInvalidRequest, "invalid controller address: %s", req.Controller)
	}

	account, _, err := q.GetController(ctx, controller)
	if err != nil {
		return nil, err
	}

	return &types.QueryControllerResponse{Account: account}, nil
}

func (q queryServer) Requests(ctx context.Context, req *types.QueryRequests) (*types.QueryRequestsResponse, error) {
	if req == nil {
		return nil, errors.Wrap(types.ErrInvalidRequest, "request cannot be nil")
	}

	requests, err := q.GetRequestsByController(ctx, req.Controller)
	if err != nil {
		return nil, err
	}

	return &types.QueryRequestsResponse{Requests: requests}, nil
}

func (q queryServer) Strategy(ctx context.Context, req *types.QueryStrategy) (*types.QueryStrategyResponse, error) {
	if req == nil {
		return nil, errors.Wrap(types.ErrInvalidRequest, "request cannot be nil")
	}

	slot, found, err := q.GetSlot(ctx, req.Id)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, errors.Wrapf(types.ErrStrategyNotFound, "no strategy %d", req.Id)
	}

	return &types.QueryStrategyResponse{Slot: slot}, nil
}

func (q queryServer) Strategies(ctx context.Context, req *types.QueryStrategies) (*types.QueryStrategiesResponse, error) {
	if req == nil {
		return nil, errors.Wrap(types.ErrInvalidRequest, "request cannot be nil")
	}

	slots, err := q.GetSlots(ctx)
	if err != nil {
		return nil, err
	}

	return &types.QueryStrategiesResponse{Slots: slots}, nil
}

func (q queryServer) WithdrawalQueue(ctx context.Context, req *types.QueryWithdrawalQueue) (*types.QueryWithdrawalQueueResponse, error) {
	if req == nil {
		return nil, errors.Wrap(types.ErrInvalidRequest, "request cannot be nil")
	}

	queue, err := q.GetWithdrawalQueue(ctx)
	if err != nil {
		return nil, err
	}

	return &types.QueryWithdrawalQueueResponse{Queue: queue}, nil
}

func (q queryServer) NeedsRebalancing(ctx context.Context, req *types.QueryNeedsRebalancing) (*types.QueryNeedsRebalancingResponse, error) {
	if req == nil {
		return nil, errors.Wrap(types.ErrInvalidRequest, "request cannot be nil")
	}

	needed, err := q.Keeper.NeedsRebalancing(ctx)
	if err != nil {
		return nil, err
	}

	return &types.QueryNeedsRebalancingResponse{Needed: needed}, nil
}

func (q queryServer) ShareBalance(ctx context.Context, req *types.QueryShareBalance) (*types.QueryShareBalanceResponse, error) {
	if req == nil {
		return nil, errors.Wrap(types.ErrInvalidRequest, "request cannot be nil")
	}

	address, err := q.address.StringToBytes(req.Address)
	if err != nil {
		return nil, errors.Wrapf(types.ErrInvalidRequest, "invalid address: %s", req.Address)
	}

	shares, err := q.GetShares(ctx, address)
	if err != nil {
		return nil, err
	}

	return &types.QueryShareBalanceResponse{Shares: shares}, nil
}

// Preview is always rejected. The rate a pending request settles at is
// unknowable before fulfillment, and publishing a guess invites front-running
// against the fulfillment.
func (q queryServer) Preview(_ context.Context, req *types.QueryPreview) (*types.QueryPreviewResponse, error) {
	if req == nil {
		return nil, errors.Wrap(types.ErrInvalidRequest, "request cannot be nil")
	}

	return nil, errors.Wrap(types.ErrUnsupportedPreview, "conversion rates are set at fulfillment")
}
