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
	"cosmossdk.io/errors"
	"cosmossdk.io/math"

	"vaults.harbor.finance/types"
)

// ToShares converts an asset amount into vault shares at the current rate.
// With zero supply the rate is identity (1 asset mints 1 share). A vault that
// holds no assets while shares are outstanding is fully drained; pricing is
// undefined there and conversion refuses rather than minting from nothing.
func ToShares(assets, totalAssets, totalSupply math.Int, rounding types.Rounding) (math.Int, error) {
	if totalSupply.IsZero() {
		return assets, nil
	}
	if totalAssets.IsZero() {
		return math.ZeroInt(), errors.Wrap(types.ErrZeroAssetsWithSupply, "unable to price assets into shares")
	}

	return mulDiv(assets, totalSupply, totalAssets, rounding), nil
}

// ToAssets converts vault shares into an asset amount at the current rate.
// Identity with zero supply, refusal on a drained vault, same as ToShares.
func ToAssets(shares, totalAssets, totalSupply math.Int, rounding types.Rounding) (math.Int, error) {
	if totalSupply.IsZero() {
		return shares, nil
	}
	if totalAssets.IsZero() {
		return math.ZeroInt(), errors.Wrap(types.ErrZeroAssetsWithSupply, "unable to price shares into assets")
	}

	return mulDiv(shares, totalAssets, totalSupply, rounding), nil
}

// mulDiv computes a*b/c with explicit rounding. math.Int is arbitrary
// precision so the intermediate product cannot overflow.
func mulDiv(a, b, c math.Int, rounding types.Rounding) math.Int {
	product := a.Mul(b)
	if rounding == types.RoundUp {
		return product.Add(c.SubRaw(1)).Quo(c)
	}
	return product.Quo(c)
}
