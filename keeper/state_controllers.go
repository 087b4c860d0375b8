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
	sdk "github.com/cosmos/cosmos-sdk/types"

	"vaults.harbor.finance/types"
)

// GetController returns the request state of one controller, along with
// whether an entry exists in state. A missing entry decodes as a zeroed
// account.
func (k *Keeper) GetController(ctx context.Context, controller sdk.AccAddress) (types.ControllerAccount, bool, error) {
	account, err := k.Controllers.Get(ctx, controller)
	if err != nil {
		if errors.Is(err, collections.ErrNotFound) {
			return types.NewControllerAccount(), false, nil
		}
		return types.ControllerAccount{}, false, sdkerrors.Wrap(err, "unable to get controller account from state")
	}

	return account, true, nil
}

// SetController stores a controller account, removing the entry entirely
// once every bucket is drained.
func (k *Keeper) SetController(ctx context.Context, controller sdk.AccAddress, account types.ControllerAccount) error {
	if account.IsDrained() {
		err := k.Controllers.Remove(ctx, controller)
		if err != nil && !errors.Is(err, collections.ErrNotFound) {
			return sdkerrors.Wrap(err, "unable to remove drained controller account from state")
		}
		return nil
	}

	return k.Controllers.Set(ctx, controller, account)
}

// SetOperatorApproval grants or revokes an operator for a controller. A
// revocation removes the entry instead of storing false.
func (k *Keeper) SetOperatorApproval(ctx context.Context, controller, operator sdk.AccAddress, approved bool) error {
	key := collections.Join([]byte(controller), []byte(operator))

	if !approved {
		err := k.OperatorApprovals.Remove(ctx, key)
		if err != nil && !errors.Is(err, collections.ErrNotFound) {
			return sdkerrors.Wrap(err, "unable to remove operator approval from state")
		}
		return nil
	}

	return k.OperatorApprovals.Set(ctx, key, true)
}

// IsOperatorApproved reports whether operator may act for controller.
func (k *Keeper) IsOperatorApproved(ctx context.Context, controller, operator sdk.AccAddress) (bool, error) {
	approved, err := k.OperatorApprovals.Get(ctx, collections.Join([]byte(controller), []byte(operator)))
	if err != nil {
		if errors.Is(err, collections.ErrNotFound) {
			return false, nil
		}
		return false, sdkerrors.Wrap(err, "unable to get operator approval from state")
	}

	return approved, nil
}

// GetShares returns the vault share balance of an address, zero when absent.
func (k *Keeper) GetShares(ctx context.Context, address sdk.AccAddress) (math.Int, error) {
	shares, err := k.Shares.Get(ctx, address)
	if err != nil {
		if errors.Is(err, collections.ErrNotFound) {
			return math.ZeroInt(), nil
		}
		return math.ZeroInt(), sdkerrors.Wrap(err, "unable to get share balance from state")
	}

	return shares, nil
}

// AddShares credits vault shares to an address. Amounts that are not
// positive are ignored.
func (k *Keeper) AddShares(ctx context.Context, address sdk.AccAddress, amount math.Int) error {
	if !amount.IsPositive() {
		return nil
	}

	current, err := k.GetShares(ctx, address)
	if err != nil {
		return err
	}

	updated, err := current.SafeAdd(amount)
	if err != nil {
		return sdkerrors.Wrap(err, "unable to add share balance")
	}

	return k.Shares.Set(ctx, address, updated)
}

// SubtractShares debits vault shares from an address, removing the entry at
// zero. Debiting more than the balance is a solvency violation.
func (k *Keeper) SubtractShares(ctx context.Context, address sdk.AccAddress, amount math.Int) error {
	if !amount.IsPositive() {
		return nil
	}

	current, err := k.GetShares(ctx, address)
	if err != nil {
		return err
	}
	if current.LT(amount) {
		return sdkerrors.Wrapf(types.ErrInsufficientShares, "balance %s, requested %s", current, amount)
	}

	updated, err := current.SafeSub(amount)
	if err != nil {
		return sdkerrors.Wrap(err, "unable to subtract share balance")
	}

	if updated.IsZero() {
		return k.Shares.Remove(ctx, address)
	}
	return k.Shares.Set(ctx, address, updated)
}

// NextRequestID returns the next monotonic request identifier, starting at 1.
// Identifiers are never reused.
func (k *Keeper) NextRequestID(ctx context.Context) (uint64, error) {
	id, err := k.RequestNextID.Get(ctx)
	if err != nil {
		if errors.Is(err, collections.ErrNotFound) {
			id = 1
		} else {
			return 0, sdkerrors.Wrap(err, "unable to get next request id from state")
		}
	}

	if err := k.RequestNextID.Set(ctx, id+1); err != nil {
		return 0, sdkerrors.Wrap(err, "unable to set next request id in state")
	}

	return id, nil
}

// GetRequest returns one request record by identifier.
func (k *Keeper) GetRequest(ctx context.Context, id uint64) (types.Request, bool, error) {
	request, err := k.Requests.Get(ctx, id)
	if err != nil {
		if errors.Is(err, collections.ErrNotFound) {
			return types.Request{}, false, nil
		}
		return types.Request{}, false, sdkerrors.Wrap(err, "unable to get request from state")
	}

	return request, true, nil
}

// SetRequest stores a request record, pruning it once nothing is
// outstanding.
func (k *Keeper) SetRequest(ctx context.Context, request types.Request) error {
	if request.Outstanding.IsZero() {
		err := k.Requests.Remove(ctx, request.Id)
		if err != nil && !errors.Is(err, collections.ErrNotFound) {
			return sdkerrors.Wrap(err, "unable to remove settled request from state")
		}
		return nil
	}

	return k.Requests.Set(ctx, request.Id, request)
}

// GetRequestsByController returns all live request records of one
// controller, ordered by identifier.
func (k *Keeper) GetRequestsByController(ctx context.Context, controller string) ([]types.Request, error) {
	var requests []types.Request

	err := k.Requests.Walk(ctx, nil, func(_ uint64, request types.Request) (bool, error) {
		if request.Controller == controller {
			requests = append(requests, request)
		}
		return false, nil
	})
	if err != nil {
		return nil, sdkerrors.Wrap(err, "unable to walk requests in state")
	}

	return requests, nil
}

// settleRequests reduces the outstanding remainder of a controller's
// requests of the given kind and status in identifier order, consuming up to
// amount. Partially consumed records stay live; drained ones are pruned.
func (k *Keeper) settleRequests(ctx context.Context, controller string, kind types.RequestKind, status types.RequestStatus, amount math.Int) error {
	remaining := amount

	requests, err := k.GetRequestsByController(ctx, controller)
	if err != nil {
		return err
	}

	for _, request := range requests {
		if !remaining.IsPositive() {
			break
		}
		if request.Kind != kind || request.Status != status {
			continue
		}

		portion := math.MinInt(request.Outstanding, remaining)
		request.Outstanding = request.Outstanding.Sub(portion)
		remaining = remaining.Sub(portion)

		if err := k.SetRequest(ctx, request); err != nil {
			return err
		}
	}

	return nil
}

// promoteRequests flips a controller's pending records of the given kind to
// claimable in identifier order, consuming up to amount. A record straddling
// the fulfillment boundary is split so the claimable portion gets its own
// record under a fresh identifier.
func (k *Keeper) promoteRequests(ctx context.Context, controller string, kind types.RequestKind, amount math.Int) error {
	remaining := amount

	requests, err := k.GetRequestsByController(ctx, controller)
	if err != nil {
		return err
	}

	for _, request := range requests {
		if !remaining.IsPositive() {
			break
		}
		if request.Kind != kind || request.Status != types.REQUEST_STATUS_PENDING {
			continue
		}

		if request.Outstanding.LTE(remaining) {
			remaining = remaining.Sub(request.Outstanding)
			request.Status = types.REQUEST_STATUS_CLAIMABLE
			if err := k.SetRequest(ctx, request); err != nil {
				return err
			}
			continue
		}

		splitID, err := k.NextRequestID(ctx)
		if err != nil {
			return err
		}

		claimable := request
		claimable.Id = splitID
		claimable.Amount = remaining
		claimable.Outstanding = remaining
		claimable.Status = types.REQUEST_STATUS_CLAIMABLE
		if err := k.SetRequest(ctx, claimable); err != nil {
			return err
		}

		request.Amount = request.Amount.Sub(remaining)
		request.Outstanding = request.Outstanding.Sub(remaining)
		if err := k.SetRequest(ctx, request); err != nil {
			return err
		}

		remaining = math.ZeroInt()
	}

	return nil
}
