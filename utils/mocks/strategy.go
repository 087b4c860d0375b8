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

package mocks

import (
	"context"
	"fmt"

	"cosmossdk.io/math"

	"vaults.harbor.finance/types"
)

var _ types.Strategy = &Strategy{}

// Strategy is an in-memory yield venue. It maintains its own share ledger
// and an asset pool; yield is simulated by growing the pool, slippage by a
// haircut on withdrawals.
type Strategy struct {
	Denom string

	Shares math.Int
	Assets math.Int

	SlippageBps     uint32
	FailDeposits    bool
	FailWithdrawals bool
}

func NewStrategy(denom string) *Strategy {
	return &Strategy{
		Denom:  denom,
		Shares: math.ZeroInt(),
		Assets: math.ZeroInt(),
	}
}

func (s *Strategy) Deposit(_ context.Context, amount math.Int) (math.Int, error) {
	if s.FailDeposits {
		return math.ZeroInt(), fmt.Errorf("deposit failure injected")
	}

	shares := amount
	if !s.Shares.IsZero() && !s.Assets.IsZero() {
		shares = amount.Mul(s.Shares).Quo(s.Assets)
	}

	s.Assets = s.Assets.Add(amount)
	s.Shares = s.Shares.Add(shares)

	return shares, nil
}

func (s *Strategy) Withdraw(_ context.Context, shares math.Int) (math.Int, error) {
	if s.FailWithdrawals {
		return math.ZeroInt(), fmt.Errorf("withdrawal failure injected")
	}
	if shares.GT(s.Shares) {
		return math.ZeroInt(), fmt.Errorf("position holds %s shares, redeeming %s", s.Shares, shares)
	}

	assets := shares
	if !s.Shares.IsZero() {
		assets = shares.Mul(s.Assets).Quo(s.Shares)
	}

	s.Assets = s.Assets.Sub(assets)
	s.Shares = s.Shares.Sub(shares)

	returned := assets.MulRaw(int64(types.BpsDenominator - s.SlippageBps)).QuoRaw(types.BpsDenominator)
	return returned, nil
}

func (s *Strategy) TotalAssets(_ context.Context) (math.Int, error) {
	return s.Assets, nil
}

func (s *Strategy) ConvertToShares(_ context.Context, assets math.Int) (math.Int, error) {
	if s.Shares.IsZero() || s.Assets.IsZero() {
		return assets, nil
	}
	return assets.Mul(s.Shares).Quo(s.Assets), nil
}

func (s *Strategy) ConvertToAssets(_ context.Context, shares math.Int) (math.Int, error) {
	if s.Shares.IsZero() {
		return shares, nil
	}
	return shares.Mul(s.Assets).Quo(s.Shares), nil
}

func (s *Strategy) AssetType() string {
	return s.Denom
}

// Accrue simulates yield landing in the venue.
func (s *Strategy) Accrue(amount math.Int) {
	s.Assets = s.Assets.Add(amount)
}

var _ types.StrategyRouter = Router{}

// Router resolves handles against a fixed table.
type Router struct {
	Strategies map[string]types.Strategy
}

func NewRouter() Router {
	return Router{Strategies: make(map[string]types.Strategy)}
}

func (r Router) Register(handle string, strategy types.Strategy) {
	r.Strategies[handle] = strategy
}

func (r Router) Resolve(handle string) (types.Strategy, error) {
	strategy, ok := r.Strategies[handle]
	if !ok {
		return nil, fmt.Errorf("no strategy registered for handle %s", handle)
	}
	return strategy, nil
}
