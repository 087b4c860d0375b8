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
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// BankKeeper is the narrow move-value primitive the engine delegates token
// custody to.
type BankKeeper interface {
	SendCoins(ctx context.Context, from, to sdk.AccAddress, amt sdk.Coins) error
	GetBalance(ctx context.Context, addr sdk.AccAddress, denom string) sdk.Coin
}

// Strategy is the capability interface of one yield-bearing integration.
// Deposit and Withdraw return the realized amounts; callers must reconcile
// against those observed values rather than the requested ones, since an
// integration may return less due to slippage or rounding. Strategy shares
// and vault shares are distinct unit systems and must never be conflated.
type Strategy interface {
	Deposit(ctx context.Context, amount math.Int) (math.Int, error)
	Withdraw(ctx context.Context, shares math.Int) (math.Int, error)
	TotalAssets(ctx context.Context) (math.Int, error)
	ConvertToShares(ctx context.Context, assets math.Int) (math.Int, error)
	ConvertToAssets(ctx context.Context, shares math.Int) (math.Int, error)
	AssetType() string
}

// StrategyRouter resolves the opaque handle stored in a registry slot to a
// live strategy capability. Injected at keeper construction.
type StrategyRouter interface {
	Resolve(handle string) (Strategy, error)
}
