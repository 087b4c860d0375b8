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

package keeper_test

import (
	"testing"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vaults.harbor.finance/types"
	"vaults.harbor.finance/utils"
	"vaults.harbor.finance/utils/mocks"
)

func TestQuerySurface(t *testing.T) {
	env := setupTest(t)
	bob := utils.TestAccount()

	// ARRANGE: One venue, one fulfilled deposit, one pending request.
	env.addStrategy(t, "venue", 5000)
	env.depositAndClaim(t, bob, math.NewInt(1000))
	env.bank.Mint(bob.Bytes, sdk.NewCoins(sdk.NewCoin(mocks.TestDenom, math.NewInt(200))))
	_, err := env.server.RequestDeposit(env.ctx, &types.MsgRequestDeposit{
		Owner: bob.Address, Controller: bob.Address, Assets: math.NewInt(200),
	})
	require.NoError(t, err)

	// ACT / ASSERT: Params round-trip.
	params, err := env.query.Params(env.ctx, &types.QueryParams{})
	require.NoError(t, err)
	assert.Equal(t, env.operator.Address, params.Params.Operator)

	// ACT / ASSERT: Ledger reports assets under management.
	ledger, err := env.query.Ledger(env.ctx, &types.QueryLedger{})
	require.NoError(t, err)
	assert.Equal(t, math.NewInt(1000), ledger.TotalAssets)
	assert.Equal(t, math.NewInt(200), ledger.Ledger.TotalPendingAssets)

	// ACT / ASSERT: Controller snapshot.
	controller, err := env.query.Controller(env.ctx, &types.QueryController{Controller: bob.Address})
	require.NoError(t, err)
	assert.Equal(t, math.NewInt(200), controller.Account.PendingDepositAssets)

	// ACT / ASSERT: Open request records.
	requests, err := env.query.Requests(env.ctx, &types.QueryRequests{Controller: bob.Address})
	require.NoError(t, err)
	require.Len(t, requests.Requests, 1)
	assert.Equal(t, math.NewInt(200), requests.Requests[0].Outstanding)

	// ACT / ASSERT: Registry and queue.
	strategies, err := env.query.Strategies(env.ctx, &types.QueryStrategies{})
	require.NoError(t, err)
	require.Len(t, strategies.Slots, 1)
	queue, err := env.query.WithdrawalQueue(env.ctx, &types.QueryWithdrawalQueue{})
	require.NoError(t, err)
	assert.Equal(t, []uint64{strategies.Slots[0].Id}, queue.Queue.Ids)

	// ACT / ASSERT: Share balance.
	shares, err := env.query.ShareBalance(env.ctx, &types.QueryShareBalance{Address: bob.Address})
	require.NoError(t, err)
	assert.Equal(t, math.NewInt(1000), shares.Shares)

	// ACT / ASSERT: Unknown strategy.
	_, err = env.query.Strategy(env.ctx, &types.QueryStrategy{Id: 42})
	require.ErrorIs(t, err, types.ErrStrategyNotFound)

	// ACT / ASSERT: Previews are never served.
	_, err = env.query.Preview(env.ctx, &types.QueryPreview{Controller: bob.Address, Kind: types.REQUEST_KIND_DEPOSIT})
	require.ErrorIs(t, err, types.ErrUnsupportedPreview)
}
