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

import "cosmossdk.io/errors"

var (
	// Input validation errors. Surfaced immediately, no partial effect.
	ErrInvalidRequest = errors.Register(ModuleName, 1, "invalid request")
	ErrInvalidAmount  = errors.Register(ModuleName, 2, "invalid amount")
	ErrInvalidBps     = errors.Register(ModuleName, 3, "basis points out of range")
	ErrInvalidQueue   = errors.Register(ModuleName, 4, "withdrawal queue is not a permutation of live strategies")

	// Authorization errors.
	ErrInvalidAuthority = errors.Register(ModuleName, 5, "caller is not the authority")
	ErrInvalidOperator  = errors.Register(ModuleName, 6, "caller is not the vault operator")
	ErrUnauthorized     = errors.Register(ModuleName, 7, "caller is neither the controller nor an approved operator")

	// Timing errors. Retryable, not fatal.
	ErrFulfillmentTooEarly = errors.Register(ModuleName, 8, "fulfillment delay has not elapsed")
	ErrRebalanceTooEarly   = errors.Register(ModuleName, 9, "rebalance interval has not elapsed")

	// Solvency and invariant errors. Always fatal to the current operation.
	ErrInsufficientClaimable = errors.Register(ModuleName, 10, "insufficient claimable balance")
	ErrInsufficientShares    = errors.Register(ModuleName, 11, "insufficient share balance")
	ErrInsufficientReserves  = errors.Register(ModuleName, 12, "insufficient reserves to complete redemption")
	ErrAssetMismatch         = errors.Register(ModuleName, 13, "strategy underlying asset does not match vault asset")
	ErrZeroAssetsWithSupply  = errors.Register(ModuleName, 14, "vault is fully drained with outstanding shares")

	// Registry errors.
	ErrRegistryFull       = errors.Register(ModuleName, 15, "strategy registry is at capacity")
	ErrAllocationOverflow = errors.Register(ModuleName, 16, "aggregate target allocation exceeds 10000 bps")
	ErrStrategyNotFound   = errors.Register(ModuleName, 17, "strategy not found")
	ErrStrategyNotEmpty   = errors.Register(ModuleName, 18, "strategy still holds shares")

	// External-capability failures abort the whole operation; there is no
	// fallback code path.
	ErrStrategyCallFailed = errors.Register(ModuleName, 19, "strategy call failed")

	ErrVaultPaused        = errors.Register(ModuleName, 20, "vault is paused")
	ErrReentrantCall      = errors.Register(ModuleName, 21, "reentrant call")
	ErrUnsupportedPreview = errors.Register(ModuleName, 22, "preview conversions are not supported for pending requests")
)
