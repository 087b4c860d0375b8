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
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vaults.harbor.finance/keeper"
	"vaults.harbor.finance/types"
)

func TestConversionIdentityAtZeroSupply(t *testing.T) {
	// ACT: Convert in both directions against an empty vault.
	shares, err := keeper.ToShares(math.NewInt(1234), math.ZeroInt(), math.ZeroInt(), types.RoundDown)
	require.NoError(t, err)
	assets, err := keeper.ToAssets(math.NewInt(1234), math.ZeroInt(), math.ZeroInt(), types.RoundDown)
	require.NoError(t, err)

	// ASSERT: The rate is one-to-one regardless of held assets.
	assert.Equal(t, math.NewInt(1234), shares)
	assert.Equal(t, math.NewInt(1234), assets)
}

func TestConversionRounding(t *testing.T) {
	totalAssets := math.NewInt(3000)
	totalSupply := math.NewInt(1000)

	// ACT: Convert an amount that does not divide evenly.
	down, err := keeper.ToShares(math.NewInt(100), totalAssets, totalSupply, types.RoundDown)
	require.NoError(t, err)
	up, err := keeper.ToShares(math.NewInt(100), totalAssets, totalSupply, types.RoundUp)
	require.NoError(t, err)

	// ASSERT: 100*1000/3000 = 33.33 floors to 33 and ceils to 34.
	assert.Equal(t, math.NewInt(33), down)
	assert.Equal(t, math.NewInt(34), up)

	// ACT: Convert shares back at the same rate.
	downAssets, err := keeper.ToAssets(math.NewInt(100), totalAssets, totalSupply, types.RoundDown)
	require.NoError(t, err)
	upAssets, err := keeper.ToAssets(math.NewInt(100), totalAssets, totalSupply, types.RoundUp)
	require.NoError(t, err)

	// ASSERT: 100*3000/1000 = 300 exactly, both directions agree.
	assert.Equal(t, math.NewInt(300), downAssets)
	assert.Equal(t, math.NewInt(300), upAssets)
}

func TestConversionDrainedVault(t *testing.T) {
	// ACT: Convert against a vault with outstanding shares and no assets.
	_, sharesErr := keeper.ToShares(math.NewInt(100), math.ZeroInt(), math.NewInt(1000), types.RoundDown)
	_, assetsErr := keeper.ToAssets(math.NewInt(100), math.ZeroInt(), math.NewInt(1000), types.RoundDown)

	// ASSERT: Pricing is refused in both directions.
	require.ErrorIs(t, sharesErr, types.ErrZeroAssetsWithSupply)
	require.ErrorIs(t, assetsErr, types.ErrZeroAssetsWithSupply)
}

func TestConversionRoundTripNeverProfits(t *testing.T) {
	totalAssets := math.NewInt(7919)
	totalSupply := math.NewInt(4409)

	for _, amount := range []int64{1, 7, 100, 3571, 7919} {
		assets := math.NewInt(amount)

		// ACT: Assets to shares and back, both floored.
		shares, err := keeper.ToShares(assets, totalAssets, totalSupply, types.RoundDown)
		require.NoError(t, err)
		back, err := keeper.ToAssets(shares, totalAssets, totalSupply, types.RoundDown)
		require.NoError(t, err)

		// ASSERT: A round trip can lose dust but never mints value.
		assert.True(t, back.LTE(assets), "round trip of %s produced %s", assets, back)
	}
}
