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
	"errors"

	"cosmossdk.io/collections"
	sdkerrors "cosmossdk.io/errors"
	"cosmossdk.io/math"

	"vaults.harbor.finance/types"
)

// GetParams returns the stored parameters, falling back to defaults when
// nothing has been stored yet.
func (k *Keeper) GetParams(ctx context.Context) (types.Params, error) {
	params, err := k.Params.Get(ctx)
	if err != nil {
		if errors.Is(err, collections.ErrNotFound) {
			return types.DefaultParams(), nil
		}
		return types.Params{}, sdkerrors.Wrap(err, "unable to get params from state")
	}

	return params, nil
}

// SetParams validates and stores the parameter set.
func (k *Keeper) SetParams(ctx context.Context, params types.Params) error {
	if err := params.Validate(); err != nil {
		return sdkerrors.Wrap(types.ErrInvalidRequest, err.Error())
	}

	return k.Params.Set(ctx, params)
}

// GetLedger returns the aggregate vault ledger, zeroed when nothing has been
// stored yet.
func (k *Keeper) GetLedger(ctx context.Context) (types.VaultLedger, error) {
	ledger, err := k.Ledger.Get(ctx)
	if err != nil {
		if errors.Is(err, collections.ErrNotFound) {
			return types.NewVaultLedger(), nil
		}
		return types.VaultLedger{}, sdkerrors.Wrap(err, "unable to get ledger from state")
	}

	return ledger, nil
}

// SetLedger stores the aggregate vault ledger.
func (k *Keeper) SetLedger(ctx context.Context, ledger types.VaultLedger) error {
	return k.Ledger.Set(ctx, ledger)
}

// GetLifetimeDeposited returns the cumulative assets ever accepted into the
// vault via deposit requests.
func (k *Keeper) GetLifetimeDeposited(ctx context.Context) (math.Int, error) {
	value, err := k.LifetimeDeposited.Get(ctx)
	if err != nil {
		if errors.Is(err, collections.ErrNotFound) {
			return math.ZeroInt(), nil
		}
		return math.ZeroInt(), sdkerrors.Wrap(err, "unable to get lifetime deposited from state")
	}

	return value, nil
}

// AddLifetimeDeposited increments the cumulative deposit counter. Amounts
// that are not positive are ignored.
func (k *Keeper) AddLifetimeDeposited(ctx context.Context, amount math.Int) error {
	if !amount.IsPositive() {
		return nil
	}

	current, err := k.GetLifetimeDeposited(ctx)
	if err != nil {
		return err
	}

	updated, err := current.SafeAdd(amount)
	if err != nil {
		return sdkerrors.Wrap(err, "unable to add lifetime deposited")
	}

	return k.LifetimeDeposited.Set(ctx, updated)
}

// GetLifetimeClaimed returns the cumulative assets ever paid out of the vault
// via redemption claims.
func (k *Keeper) GetLifetimeClaimed(ctx context.Context) (math.Int, error) {
	value, err := k.LifetimeClaimed.Get(ctx)
	if err != nil {
		if errors.Is(err, collections.ErrNotFound) {
			return math.ZeroInt(), nil
		}
		return math.ZeroInt(), sdkerrors.Wrap(err, "unable to get lifetime claimed from state")
	}

	return value, nil
}

// AddLifetimeClaimed increments the cumulative payout counter. Amounts that
// are not positive are ignored.
func (k *Keeper) AddLifetimeClaimed(ctx context.Context, amount math.Int) error {
	if !amount.IsPositive() {
		return nil
	}

	current, err := k.GetLifetimeClaimed(ctx)
	if err != nil {
		return err
	}

	updated, err := current.SafeAdd(amount)
	if err != nil {
		return sdkerrors.Wrap(err, "unable to add lifetime claimed")
	}

	return k.LifetimeClaimed.Set(ctx, updated)
}

// totalAssets is the conversion basis of the vault: reserves plus the live
// value of every registry position. Claimable deposit assets are already
// deployed but still owed to depositors as shares, so they are carved back
// out to keep the rate honest for everyone else.
func (k *Keeper) totalAssets(ctx context.Context) (math.Int, error) {
	ledger, err := k.GetLedger(ctx)
	if err != nil {
		return math.ZeroInt(), err
	}

	strategyValue, err := k.totalStrategyValue(ctx)
	if err != nil {
		return math.ZeroInt(), err
	}

	total := ledger.TotalReserves.Add(strategyValue).Sub(ledger.TotalClaimableAssets)
	if total.IsNegative() {
		return math.ZeroInt(), nil
	}

	return total, nil
}
