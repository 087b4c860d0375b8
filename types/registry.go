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

import "cosmossdk.io/math"

// StrategySlot is one allocation target in the registry. Slots live in a
// stable-identity arena: an identifier is never reused, and removal only
// flips Active so in-flight references (withdrawal queue entries, request
// history) never silently point at a different logical strategy.
type StrategySlot struct {
	Id     uint64 `json:"id"`
	Handle string `json:"handle"`

	TargetBps  uint32 `json:"target_bps"`
	CurrentBps uint32 `json:"current_bps"`

	// TotalDeposited is the book value of assets placed into the strategy.
	// TotalSharesHeld counts strategy shares, a unit system distinct from
	// vault shares.
	TotalDeposited  math.Int `json:"total_deposited"`
	TotalSharesHeld math.Int `json:"total_shares_held"`

	MinDeposit math.Int `json:"min_deposit"`
	// MaxDeposit caps a single allocation; zero means unbounded.
	MaxDeposit math.Int `json:"max_deposit"`

	Active               bool `json:"active"`
	AcceptingDeposits    bool `json:"accepting_deposits"`
	AcceptingWithdrawals bool `json:"accepting_withdrawals"`

	// Paused is orthogonal to Active: a paused slot is skipped by both
	// allocation and rebalancing regardless of its other flags.
	Paused bool `json:"paused"`
}

// WithdrawalQueue is the explicit strategy draw-down order consulted when a
// redemption cannot be satisfied from reserves. It must always be a
// bijection over the live (active) slot set.
type WithdrawalQueue struct {
	Ids []uint64 `json:"ids"`
}

// Contains reports whether the queue references the given slot.
func (q WithdrawalQueue) Contains(id uint64) bool {
	for _, candidate := range q.Ids {
		if candidate == id {
			return true
		}
	}
	return false
}
