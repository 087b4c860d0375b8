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
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vaults.harbor.finance/keeper"
	"vaults.harbor.finance/types"
	"vaults.harbor.finance/utils"
	"vaults.harbor.finance/utils/mocks"
)

const ONE = 1_000_000

type testEnv struct {
	k      *keeper.Keeper
	server types.MsgServer
	query  types.QueryServer
	bank   *mocks.BankKeeper
	router mocks.Router
	events mocks.EventService
	ctx    sdk.Context

	authority utils.Account
	operator  utils.Account
}

// setupTest builds a vault with a configured operator, no fulfillment delay
// and no reserve carve. Tests that exercise delays, reserves or thresholds
// override the parameters themselves.
func setupTest(t *testing.T) testEnv {
	t.Helper()

	bank := mocks.BankKeeper{Balances: make(map[string]sdk.Coins)}
	router := mocks.NewRouter()
	authority := utils.TestAccount()
	operator := utils.TestAccount()

	k, events, ctx := mocks.VaultKeeper(t, authority.Address, bank, router)
	ctx = ctx.WithHeaderInfo(header.Info{Time: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)})

	env := testEnv{
		k:         k,
		server:    keeper.NewMsgServer(k),
		query:     keeper.NewQueryServer(k),
		bank:      &bank,
		router:    router,
		events:    events,
		ctx:       ctx,
		authority: authority,
		operator:  operator,
	}

	_, err := env.server.UpdateParams(ctx, &types.MsgUpdateParams{
		Authority: authority.Address,
		Params: types.Params{
			Operator:              operator.Address,
			RebalanceThresholdBps: 500,
			VaultEnabled:          true,
		},
	})
	require.NoError(t, err)

	return env
}

// setParams rewrites the vault parameters through governance.
func (env testEnv) setParams(t *testing.T, params types.Params) {
	t.Helper()

	_, err := env.server.UpdateParams(env.ctx, &types.MsgUpdateParams{
		Authority: env.authority.Address,
		Params:    params,
	})
	require.NoError(t, err)
}

// addStrategy registers a fresh mock venue under the given handle.
func (env testEnv) addStrategy(t *testing.T, handle string, targetBps uint32) (*mocks.Strategy, uint64) {
	t.Helper()

	strategy := mocks.NewStrategy(mocks.TestDenom)
	env.router.Register(handle, strategy)

	resp, err := env.server.AddStrategy(env.ctx, &types.MsgAddStrategy{
		Authority: env.authority.Address,
		Handle:    handle,
		TargetBps: targetBps,
	})
	require.NoError(t, err)

	return strategy, resp.Id
}

// depositAndClaim runs the full deposit flow for an account and returns the
// minted shares.
func (env testEnv) depositAndClaim(t *testing.T, account utils.Account, amount math.Int) math.Int {
	t.Helper()

	env.bank.Mint(account.Bytes, sdk.NewCoins(sdk.NewCoin(mocks.TestDenom, amount)))

	_, err := env.server.RequestDeposit(env.ctx, &types.MsgRequestDeposit{
		Owner:      account.Address,
		Controller: account.Address,
		Assets:     amount,
	})
	require.NoError(t, err)

	_, err = env.server.FulfillDeposit(env.ctx, &types.MsgFulfillDeposit{
		Operator:   env.operator.Address,
		Controller: account.Address,
	})
	require.NoError(t, err)

	resp, err := env.server.ClaimDeposit(env.ctx, &types.MsgClaimDeposit{
		Caller:     account.Address,
		Controller: account.Address,
		Receiver:   account.Address,
		Assets:     amount,
	})
	require.NoError(t, err)

	return resp.SharesMinted
}

func TestRequestDepositBasic(t *testing.T) {
	env := setupTest(t)
	bob := utils.TestAccount()

	// ARRANGE: Fund Bob with 100 tokens.
	env.bank.Mint(bob.Bytes, sdk.NewCoins(sdk.NewCoin(mocks.TestDenom, math.NewInt(100*ONE))))

	// ACT: Bob requests a 60 token deposit.
	resp, err := env.server.RequestDeposit(env.ctx, &types.MsgRequestDeposit{
		Owner:      bob.Address,
		Controller: bob.Address,
		Assets:     math.NewInt(60 * ONE),
	})

	// ASSERT: The request is registered under id 1 and funds moved into
	// the module account.
	require.NoError(t, err)
	assert.Equal(t, uint64(1), resp.RequestId)
	assert.Equal(t, math.NewInt(40*ONE), env.bank.Balances[bob.Address].AmountOf(mocks.TestDenom))
	assert.Equal(t, math.NewInt(60*ONE), env.bank.Balances[types.ModuleAddress.String()].AmountOf(mocks.TestDenom))

	account, _, err := env.k.GetController(env.ctx, bob.Bytes)
	require.NoError(t, err)
	assert.Equal(t, math.NewInt(60*ONE), account.PendingDepositAssets)

	ledger, err := env.k.GetLedger(env.ctx)
	require.NoError(t, err)
	assert.Equal(t, math.NewInt(60*ONE), ledger.TotalPendingAssets)

	// ASSERT: A pending request record exists.
	request, found, err := env.k.GetRequest(env.ctx, 1)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, types.REQUEST_KIND_DEPOSIT, request.Kind)
	assert.Equal(t, types.REQUEST_STATUS_PENDING, request.Status)
	assert.Equal(t, math.NewInt(60*ONE), request.Outstanding)
}

func TestRequestDepositValidation(t *testing.T) {
	env := setupTest(t)
	bob := utils.TestAccount()

	// ACT: Zero amount.
	_, err := env.server.RequestDeposit(env.ctx, &types.MsgRequestDeposit{
		Owner:      bob.Address,
		Controller: bob.Address,
		Assets:     math.ZeroInt(),
	})
	// ASSERT
	require.ErrorIs(t, err, types.ErrInvalidAmount)

	// ACT: Unfunded owner.
	_, err = env.server.RequestDeposit(env.ctx, &types.MsgRequestDeposit{
		Owner:      bob.Address,
		Controller: bob.Address,
		Assets:     math.NewInt(ONE),
	})
	// ASSERT
	require.ErrorIs(t, err, types.ErrInvalidAmount)

	// ACT: Malformed controller address.
	_, err = env.server.RequestDeposit(env.ctx, &types.MsgRequestDeposit{
		Owner:      bob.Address,
		Controller: "not-an-address",
		Assets:     math.NewInt(ONE),
	})
	// ASSERT
	require.ErrorIs(t, err, types.ErrInvalidRequest)
}

func TestMonotonicRequestIDs(t *testing.T) {
	env := setupTest(t)
	bob := utils.TestAccount()

	// ARRANGE
	env.bank.Mint(bob.Bytes, sdk.NewCoins(sdk.NewCoin(mocks.TestDenom, math.NewInt(100*ONE))))

	// ACT: Two identical requests from the same controller.
	first, err := env.server.RequestDeposit(env.ctx, &types.MsgRequestDeposit{
		Owner: bob.Address, Controller: bob.Address, Assets: math.NewInt(10 * ONE),
	})
	require.NoError(t, err)
	second, err := env.server.RequestDeposit(env.ctx, &types.MsgRequestDeposit{
		Owner: bob.Address, Controller: bob.Address, Assets: math.NewInt(10 * ONE),
	})
	require.NoError(t, err)

	// ASSERT: Same amounts, distinct identities.
	assert.Equal(t, uint64(1), first.RequestId)
	assert.Equal(t, uint64(2), second.RequestId)
}

func TestOperatorApprovalFlow(t *testing.T) {
	env := setupTest(t)
	bob := utils.TestAccount()
	carol := utils.TestAccount()

	// ARRANGE: Carol holds the funds.
	env.bank.Mint(carol.Bytes, sdk.NewCoins(sdk.NewCoin(mocks.TestDenom, math.NewInt(50*ONE))))

	// ACT: Carol tries to open a request for Bob without approval.
	_, err := env.server.RequestDeposit(env.ctx, &types.MsgRequestDeposit{
		Owner:      carol.Address,
		Controller: bob.Address,
		Assets:     math.NewInt(50 * ONE),
	})

	// ASSERT
	require.ErrorIs(t, err, types.ErrUnauthorized)

	// ARRANGE: Bob approves Carol.
	_, err = env.server.SetOperatorApproval(env.ctx, &types.MsgSetOperatorApproval{
		Controller: bob.Address,
		Operator:   carol.Address,
		Approved:   true,
	})
	require.NoError(t, err)

	// ACT: Carol retries.
	_, err = env.server.RequestDeposit(env.ctx, &types.MsgRequestDeposit{
		Owner:      carol.Address,
		Controller: bob.Address,
		Assets:     math.NewInt(50 * ONE),
	})

	// ASSERT: The claim belongs to Bob, funded by Carol.
	require.NoError(t, err)
	account, _, err := env.k.GetController(env.ctx, bob.Bytes)
	require.NoError(t, err)
	assert.Equal(t, math.NewInt(50*ONE), account.PendingDepositAssets)

	// ARRANGE: Bob revokes Carol.
	_, err = env.server.SetOperatorApproval(env.ctx, &types.MsgSetOperatorApproval{
		Controller: bob.Address,
		Operator:   carol.Address,
		Approved:   false,
	})
	require.NoError(t, err)

	// ACT: Carol tries again.
	_, err = env.server.RequestDeposit(env.ctx, &types.MsgRequestDeposit{
		Owner:      carol.Address,
		Controller: bob.Address,
		Assets:     math.NewInt(1),
	})

	// ASSERT
	require.ErrorIs(t, err, types.ErrUnauthorized)
}

func TestDepositLifecycle(t *testing.T) {
	env := setupTest(t)
	bob := utils.TestAccount()

	// ACT: Full request, fulfill, claim cycle on an empty vault.
	shares := env.depositAndClaim(t, bob, math.NewInt(100*ONE))

	// ASSERT: First depositor mints at the identity rate.
	assert.Equal(t, math.NewInt(100*ONE), shares)

	balance, err := env.k.GetShares(env.ctx, bob.Bytes)
	require.NoError(t, err)
	assert.Equal(t, math.NewInt(100*ONE), balance)

	// ASSERT: Buckets are drained, supply and reserves reflect the flow.
	ledger, err := env.k.GetLedger(env.ctx)
	require.NoError(t, err)
	assert.True(t, ledger.TotalPendingAssets.IsZero())
	assert.True(t, ledger.TotalClaimableAssets.IsZero())
	assert.Equal(t, math.NewInt(100*ONE), ledger.TotalSupply)
	assert.Equal(t, math.NewInt(100*ONE), ledger.TotalReserves)

	// ASSERT: The controller entry and the request record are pruned.
	_, found, err := env.k.GetController(env.ctx, bob.Bytes)
	require.NoError(t, err)
	assert.False(t, found)
	_, found, err = env.k.GetRequest(env.ctx, 1)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, env.k.CheckInvariants(env.ctx))
}

func TestRedeemLifecycle(t *testing.T) {
	env := setupTest(t)
	bob := utils.TestAccount()

	// ARRANGE: Bob holds 100 shares against 100 reserves.
	env.depositAndClaim(t, bob, math.NewInt(100*ONE))

	// ACT: Bob requests redemption of half his shares.
	_, err := env.server.RequestRedeem(env.ctx, &types.MsgRequestRedeem{
		Owner:      bob.Address,
		Controller: bob.Address,
		Shares:     math.NewInt(50 * ONE),
	})
	require.NoError(t, err)

	// ASSERT: Shares leave circulation immediately but stay outstanding.
	balance, err := env.k.GetShares(env.ctx, bob.Bytes)
	require.NoError(t, err)
	assert.Equal(t, math.NewInt(50*ONE), balance)

	ledger, err := env.k.GetLedger(env.ctx)
	require.NoError(t, err)
	assert.Equal(t, math.NewInt(50*ONE), ledger.TotalSupply)
	assert.Equal(t, math.NewInt(50*ONE), ledger.TotalPendingShares)
	assert.Equal(t, math.NewInt(100*ONE), ledger.OutstandingShares())

	// ACT: Fulfill and claim.
	fulfillResp, err := env.server.FulfillRedeem(env.ctx, &types.MsgFulfillRedeem{
		Operator:   env.operator.Address,
		Controller: bob.Address,
	})
	require.NoError(t, err)
	assert.Equal(t, math.NewInt(50*ONE), fulfillResp.SharesFulfilled)
	assert.Equal(t, math.NewInt(50*ONE), fulfillResp.AssetsRealized)

	claimResp, err := env.server.ClaimRedeem(env.ctx, &types.MsgClaimRedeem{
		Caller:     bob.Address,
		Controller: bob.Address,
		Receiver:   bob.Address,
		Shares:     math.NewInt(50 * ONE),
	})
	require.NoError(t, err)

	// ASSERT: Bob is paid at the one-to-one rate and the vault shrinks.
	assert.Equal(t, math.NewInt(50*ONE), claimResp.AssetsPaid)
	assert.Equal(t, math.NewInt(50*ONE), env.bank.Balances[bob.Address].AmountOf(mocks.TestDenom))

	ledger, err = env.k.GetLedger(env.ctx)
	require.NoError(t, err)
	assert.Equal(t, math.NewInt(50*ONE), ledger.TotalSupply)
	assert.True(t, ledger.TotalPendingShares.IsZero())
	assert.True(t, ledger.TotalClaimableShares.IsZero())
	assert.Equal(t, math.NewInt(50*ONE), ledger.TotalReserves)

	require.NoError(t, env.k.CheckInvariants(env.ctx))
}

func TestRedeemInsufficientSharesLeavesStateUntouched(t *testing.T) {
	env := setupTest(t)
	bob := utils.TestAccount()

	// ARRANGE: Bob holds 100 shares.
	env.depositAndClaim(t, bob, math.NewInt(100*ONE))
	before, err := env.k.GetLedger(env.ctx)
	require.NoError(t, err)

	// ACT: Bob tries to redeem more than he holds.
	_, err = env.server.RequestRedeem(env.ctx, &types.MsgRequestRedeem{
		Owner:      bob.Address,
		Controller: bob.Address,
		Shares:     math.NewInt(200 * ONE),
	})

	// ASSERT: The request fails and nothing moved.
	require.ErrorIs(t, err, types.ErrInsufficientShares)

	balance, err := env.k.GetShares(env.ctx, bob.Bytes)
	require.NoError(t, err)
	assert.Equal(t, math.NewInt(100*ONE), balance)

	after, err := env.k.GetLedger(env.ctx)
	require.NoError(t, err)
	assert.Equal(t, before, after)

	_, found, err := env.k.GetController(env.ctx, bob.Bytes)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestPartialClaims(t *testing.T) {
	env := setupTest(t)
	bob := utils.TestAccount()

	// ARRANGE: A fulfilled 100 token deposit.
	env.bank.Mint(bob.Bytes, sdk.NewCoins(sdk.NewCoin(mocks.TestDenom, math.NewInt(100*ONE))))
	_, err := env.server.RequestDeposit(env.ctx, &types.MsgRequestDeposit{
		Owner: bob.Address, Controller: bob.Address, Assets: math.NewInt(100 * ONE),
	})
	require.NoError(t, err)
	_, err = env.server.FulfillDeposit(env.ctx, &types.MsgFulfillDeposit{
		Operator: env.operator.Address, Controller: bob.Address,
	})
	require.NoError(t, err)

	// ACT: Claim in two unequal parts.
	first, err := env.server.ClaimDeposit(env.ctx, &types.MsgClaimDeposit{
		Caller: bob.Address, Controller: bob.Address, Receiver: bob.Address,
		Assets: math.NewInt(30 * ONE),
	})
	require.NoError(t, err)
	second, err := env.server.ClaimDeposit(env.ctx, &types.MsgClaimDeposit{
		Caller: bob.Address, Controller: bob.Address, Receiver: bob.Address,
		Assets: math.NewInt(70 * ONE),
	})
	require.NoError(t, err)

	// ASSERT: Both claims settle and the total matches a single claim.
	assert.Equal(t, math.NewInt(100*ONE), first.SharesMinted.Add(second.SharesMinted))

	// ACT: A third claim has nothing left to take.
	_, err = env.server.ClaimDeposit(env.ctx, &types.MsgClaimDeposit{
		Caller: bob.Address, Controller: bob.Address, Receiver: bob.Address,
		Assets: math.NewInt(1),
	})

	// ASSERT
	require.ErrorIs(t, err, types.ErrInsufficientClaimable)
	require.NoError(t, env.k.CheckInvariants(env.ctx))
}

func TestClaimToSeparateReceiver(t *testing.T) {
	env := setupTest(t)
	bob := utils.TestAccount()
	carol := utils.TestAccount()

	// ARRANGE: A fulfilled deposit controlled by Bob.
	env.bank.Mint(bob.Bytes, sdk.NewCoins(sdk.NewCoin(mocks.TestDenom, math.NewInt(10*ONE))))
	_, err := env.server.RequestDeposit(env.ctx, &types.MsgRequestDeposit{
		Owner: bob.Address, Controller: bob.Address, Assets: math.NewInt(10 * ONE),
	})
	require.NoError(t, err)
	_, err = env.server.FulfillDeposit(env.ctx, &types.MsgFulfillDeposit{
		Operator: env.operator.Address, Controller: bob.Address,
	})
	require.NoError(t, err)

	// ACT: Bob directs the minted shares to Carol.
	_, err = env.server.ClaimDeposit(env.ctx, &types.MsgClaimDeposit{
		Caller:     bob.Address,
		Controller: bob.Address,
		Receiver:   carol.Address,
		Assets:     math.NewInt(10 * ONE),
	})

	// ASSERT
	require.NoError(t, err)
	carolShares, err := env.k.GetShares(env.ctx, carol.Bytes)
	require.NoError(t, err)
	assert.Equal(t, math.NewInt(10*ONE), carolShares)
	bobShares, err := env.k.GetShares(env.ctx, bob.Bytes)
	require.NoError(t, err)
	assert.True(t, bobShares.IsZero())
}

func TestVaultPausedBlocksRequests(t *testing.T) {
	env := setupTest(t)
	bob := utils.TestAccount()
	env.bank.Mint(bob.Bytes, sdk.NewCoins(sdk.NewCoin(mocks.TestDenom, math.NewInt(ONE))))

	// ARRANGE: The authority pauses the vault.
	_, err := env.server.SetPaused(env.ctx, &types.MsgSetPaused{
		Authority: env.authority.Address,
		Paused:    true,
	})
	require.NoError(t, err)

	// ACT
	_, err = env.server.RequestDeposit(env.ctx, &types.MsgRequestDeposit{
		Owner: bob.Address, Controller: bob.Address, Assets: math.NewInt(ONE),
	})

	// ASSERT
	require.ErrorIs(t, err, types.ErrVaultPaused)

	// ARRANGE: Unpause.
	_, err = env.server.SetPaused(env.ctx, &types.MsgSetPaused{
		Authority: env.authority.Address,
		Paused:    false,
	})
	require.NoError(t, err)

	// ACT
	_, err = env.server.RequestDeposit(env.ctx, &types.MsgRequestDeposit{
		Owner: bob.Address, Controller: bob.Address, Assets: math.NewInt(ONE),
	})

	// ASSERT
	require.NoError(t, err)
}

func TestYieldAccrualPricesLaterDeposits(t *testing.T) {
	env := setupTest(t)
	alice := utils.TestAccount()
	bob := utils.TestAccount()

	// ARRANGE: One strategy takes all deployable capital.
	strategy, _ := env.addStrategy(t, "venue", 10000)

	// ARRANGE: Alice deposits 1000 and claims 1000 shares at identity.
	aliceShares := env.depositAndClaim(t, alice, math.NewInt(1000*ONE))
	require.Equal(t, math.NewInt(1000*ONE), aliceShares)

	// ARRANGE: The venue doubles in value.
	strategy.Accrue(math.NewInt(1000 * ONE))

	// ACT: Bob deposits 1000 after the accrual.
	bobShares := env.depositAndClaim(t, bob, math.NewInt(1000*ONE))

	// ASSERT: Bob pays the appreciated rate: 1000 * 1000 / 2000 = 500.
	assert.Equal(t, math.NewInt(500*ONE), bobShares)
	require.NoError(t, env.k.CheckInvariants(env.ctx))
}
