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

// QueryServer exposes read-only snapshots of realized state. There are
// deliberately no preview conversions for pending requests: the true rate is
// unknowable until fulfillment.
type QueryServer interface {
	Params(ctx context.Context, req *QueryParams) (*QueryParamsResponse, error)
	Ledger(ctx context.Context, req *QueryLedger) (*QueryLedgerResponse, error)
	Controller(ctx context.Context, req *QueryController) (*QueryControllerResponse, error)
	Requests(ctx context.Context, req *QueryRequests) (*QueryRequestsResponse, error)
	Strategy(ctx context.Context, req *QueryStrategy) (*QueryStrategyResponse, error)
	Strategies(ctx context.Context, req *QueryStrategies) (*QueryStrategiesResponse, error)
	WithdrawalQueue(ctx context.Context, req *QueryWithdrawalQueue) (*QueryWithdrawalQueueResponse, error)
	NeedsRebalancing(ctx context.Context, req *QueryNeedsRebalancing) (*QueryNeedsRebalancingResponse, error)
	ShareBalance(ctx context.Context, req *QueryShareBalance) (*QueryShareBalanceResponse, error)
	Preview(ctx context.Context, req *QueryPreview) (*QueryPreviewResponse, error)
}

type QueryParams struct{}

type QueryParamsResponse struct {
	Params Params
}

type QueryLedger struct{}

type QueryLedgerResponse struct {
	Ledger VaultLedger
	// TotalAssets is assets under management: reserves plus strategy value,
	// excluding pending and claimable earmarks.
	TotalAssets math.Int
}

type QueryController struct {
	Controller string
}

type QueryControllerResponse struct {
	Account ControllerAccount
}

type QueryRequests struct {
	Controller string
}

type QueryRequestsResponse struct {
	Requests []Request
}

type QueryStrategy struct {
	Id uint64
}

type QueryStrategyResponse struct {
	Slot StrategySlot
}

type QueryStrategies struct{}

type QueryStrategiesResponse struct {
	Slots []StrategySlot
}

type QueryWithdrawalQueue struct{}

type QueryWithdrawalQueueResponse struct {
	Queue WithdrawalQueue
}

type QueryNeedsRebalancing struct{}

type QueryNeedsRebalancingResponse struct {
	Needed bool
}

type QueryShareBalance struct {
	Address string
}

type QueryShareBalanceResponse struct {
	Shares math.Int
}

// QueryPreview asks what a pending request would convert to. Always
// rejected: see the QueryServer doc.
type QueryPreview struct {
	Controller string
	Kind       RequestKind
}

type QueryPreviewResponse struct{}
