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
	"time"

	"cosmossdk.io/core/header"
	"cosmossdk.io/math"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vaults.harbor.finance/types"
	"vaults.harbor.finance/utils"
	"vaults.harbor.finance/utils/mocks"
)

func TestRebalanceConvergence(t *testing.T) {
	env := setupTest(t)
	bob := utils.TestAccount()

	// ARRANGE: All capital lands in alpha, then beta joins at equal
	// weight.
	alpha, alphaID := env.addStrategy(t, "alpha", 5000)
	env.depositAndClaim(t, bob, math.NewInt(10000))
	require.Equal(t, math.NewInt(5000), alpha.Assets)

	beta, betaID := env.addStrategy(t, "beta", 5000)

	// ASSERT: The drift is visible before the rebalance.
	needed, err := env.k.NeedsRebalancing(env.ctx)
	require.NoError(t, err)
	assert.True(t, needed)

	// ACT
	resp, err := env.server.Rebalance(env.ctx, &types.MsgRebalance{
		Operator: env.operator.Address,
	})

	// ASSERT: Half of alpha moves to beta and nothing leaks.
	require.NoError(t, err)
	assert.False(t, resp.Skipped)
	require.Len(t, resp.Withdrawn, 1)
	assert.Equal(t, alphaID, resp.Withdrawn[0].StrategyId)
	assert.Equal(t, math.NewInt(2500), resp.Withdrawn[0].Amount)
	require.Len(t, resp.Deposited, 1)
	assert.Equal(t, betaID, resp.Deposited[0].StrategyId)
	assert.Equal(t, math.NewInt(2500), resp.Deposited[0].Amount)
	assert.True(t, resp.LeftoverToReserves.IsZero())

	assert.Equal(t, math.NewInt(2500), alpha.Assets)
	assert.Equal(t, math.NewInt(2500), beta.Assets)

	// ASSERT: Current weights converged to the targets.
	alphaSlot, _, err := env.k.GetSlot(env.ctx, alphaID)
	require.NoError(t, err)
	betaSlot, _, err := env.k.GetSlot(env.ctx, betaID)
	require.NoError(t, err)
	assert.Equal(t, uint32(5000), alphaSlot.CurrentBps)
	assert.Equal(t, uint32(5000), betaSlot.CurrentBps)

	needed, err = env.k.NeedsRebalancing(env.ctx)
	require.NoError(t, err)
	assert.False(t, needed)

	require.NoError(t, env.k.CheckInvariants(env.ctx))
}

func TestRebalanceLeftoverStaysInReserves(t *testing.T) {
	env := setupTest(t)
	bob := utils.TestAccount()

	// ARRANGE: Alpha is overweight and beta, the only underweight slot,
	// refuses deposits.
	alpha, _ := env.addStrategy(t, "alpha", 5000)
	env.depositAndClaim(t, bob, math.NewInt(10000))
	_, betaID := env.addStrategy(t, "beta", 5000)
	_, err := env.server.UpdateStrategy(env.ctx, &types.MsgUpdateStrategy{
		Authority:            env.authority.Address,
		Id:                   betaID,
		TargetBps:            5000,
		Active:               true,
		AcceptingDeposits:    false,
		AcceptingWithdrawals: true,
	})
	require.NoError(t, err)

	reservesBefore, err := env.k.GetLedger(env.ctx)
	require.NoError(t, err)

	// ACT
	resp, err := env.server.Rebalance(env.ctx, &types.MsgRebalance{
		Operator: env.operator.Address,
	})

	// ASSERT: The withdrawn excess has no destination and parks in
	// reserves instead of being forced back into the registry.
	require.NoError(t, err)
	assert.Equal(t, math.NewInt(2500), resp.LeftoverToReserves)
	assert.Empty(t, resp.Deposited)
	assert.Equal(t, math.NewInt(2500), alpha.Assets)

	ledger, err := env.k.GetLedger(env.ctx)
	require.NoError(t, err)
	assert.Equal(t, reservesBefore.TotalReserves.Add(math.NewInt(2500)), ledger.TotalReserves)
}

func TestRebalanceRespectsStrategyMinimum(t *testing.T) {
	env := setupTest(t)
	bob := utils.TestAccount()

	// ARRANGE: All capital sits in alpha. Beta joins at equal weight but
	// refuses positions below 5000.
	alpha, _ := env.addStrategy(t, "alpha", 5000)
	env.depositAndClaim(t, bob, math.NewInt(10000))

	beta := mocks.NewStrategy(mocks.TestDenom)
	env.router.Register("beta", beta)
	_, err := env.server.AddStrategy(env.ctx, &types.MsgAddStrategy{
		Authority:  env.authority.Address,
		Handle:     "beta",
		TargetBps:  5000,
		MinDeposit: math.NewInt(5000),
	})
	require.NoError(t, err)

	// ACT
	resp, err := env.server.Rebalance(env.ctx, &types.MsgRebalance{
		Operator: env.operator.Address,
	})

	// ASSERT: Beta's 2500 deficit is below its minimum, so it receives
	// nothing and the withdrawn excess parks in reserves.
	require.NoError(t, err)
	require.Len(t, resp.Withdrawn, 1)
	assert.Empty(t, resp.Deposited)
	assert.Equal(t, math.NewInt(2500), resp.LeftoverToReserves)
	assert.Equal(t, math.NewInt(2500), alpha.Assets)
	assert.True(t, beta.Assets.IsZero())

	ledger, err := env.k.GetLedger(env.ctx)
	require.NoError(t, err)
	assert.Equal(t, math.NewInt(7500), ledger.TotalReserves)
}

func TestRebalanceExactThresholdStaysQuiet(t *testing.T) {
	env := setupTest(t)
	bob := utils.TestAccount()

	// ARRANGE: 9000 in each venue, then alpha accrues yield until its
	// drift sits exactly on the 500 bps threshold.
	alpha, _ := env.addStrategy(t, "alpha", 5000)
	env.addStrategy(t, "beta", 5000)
	env.depositAndClaim(t, bob, math.NewInt(18000))
	alpha.Accrue(math.NewInt(2000))

	// ASSERT: Drift equal to the threshold does not demand a rebalance.
	needed, err := env.k.NeedsRebalancing(env.ctx)
	require.NoError(t, err)
	assert.False(t, needed)

	// ACT
	resp, err := env.server.Rebalance(env.ctx, &types.MsgRebalance{
		Operator: env.operator.Address,
	})

	// ASSERT: Nothing moves.
	require.NoError(t, err)
	assert.True(t, resp.Skipped)
	assert.Empty(t, resp.Withdrawn)
	assert.Equal(t, math.NewInt(11000), alpha.Assets)

	// ARRANGE: More yield pushes the drift strictly past the threshold.
	alpha.Accrue(math.NewInt(100))

	// ASSERT
	needed, err = env.k.NeedsRebalancing(env.ctx)
	require.NoError(t, err)
	assert.True(t, needed)
}

func TestRebalanceSkipsBelowThreshold(t *testing.T) {
	env := setupTest(t)
	bob := utils.TestAccount()

	// ARRANGE: A balanced registry.
	env.addStrategy(t, "alpha", 5000)
	env.addStrategy(t, "beta", 5000)
	env.depositAndClaim(t, bob, math.NewInt(10000))

	// ACT
	resp, err := env.server.Rebalance(env.ctx, &types.MsgRebalance{
		Operator: env.operator.Address,
	})

	// ASSERT: Nothing moves.
	require.NoError(t, err)
	assert.True(t, resp.Skipped)
	assert.Empty(t, resp.Withdrawn)
	assert.Empty(t, resp.Deposited)
}

func TestRebalanceIntervalGating(t *testing.T) {
	env := setupTest(t)
	bob := utils.TestAccount()

	// ARRANGE: A day-long interval and a drifted registry.
	env.setParams(t, types.Params{
		Operator:                 env.operator.Address,
		RebalanceThresholdBps:    500,
		RebalanceIntervalSeconds: 86400,
		VaultEnabled:             true,
	})
	env.addStrategy(t, "alpha", 5000)
	env.depositAndClaim(t, bob, math.NewInt(10000))
	env.addStrategy(t, "beta", 5000)

	// ACT: First rebalance executes.
	resp, err := env.server.Rebalance(env.ctx, &types.MsgRebalance{
		Operator: env.operator.Address,
	})
	require.NoError(t, err)
	require.False(t, resp.Skipped)

	// ARRANGE: Recreate drift right away.
	env.depositAndClaim(t, bob, math.NewInt(10000))

	// ACT: A second attempt inside the interval.
	_, err = env.server.Rebalance(env.ctx, &types.MsgRebalance{
		Operator: env.operator.Address,
	})

	// ASSERT
	require.ErrorIs(t, err, types.ErrRebalanceTooEarly)

	// ACT: Past the interval it executes again.
	later := env.ctx.WithHeaderInfo(header.Info{Time: env.ctx.HeaderInfo().Time.Add(24 * time.Hour)})
	_, err = env.server.Rebalance(later, &types.MsgRebalance{
		Operator: env.operator.Address,
	})

	// ASSERT
	require.NoError(t, err)
}

func TestRebalanceRequiresOperator(t *testing.T) {
	env := setupTest(t)
	mallory := utils.TestAccount()

	// ACT
	_, err := env.server.Rebalance(env.ctx, &types.MsgRebalance{
		Operator: mallory.Address,
	})

	// ASSERT
	require.ErrorIs(t, err, types.ErrInvalidOperator)
}
