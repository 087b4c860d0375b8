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
	"time"

	"cosmossdk.io/math"
)

// Rounding selects the direction of share/asset conversion rounding. Every
// call site chooses explicitly; there is no implicit default.
type Rounding uint8

const (
	// RoundDown floors the conversion result. Used for shares owed to a
	// depositor and assets paid out, favouring the vault.
	RoundDown Rounding = iota

	// RoundUp ceils the conversion result. Used for asset amounts the vault
	// must still receive.
	RoundUp
)

// ControllerAccount is the per-controller request state across both flows.
// Created implicitly on first request and deleted once fully drained.
type ControllerAccount struct {
	PendingDepositAssets   math.Int `json:"pending_deposit_assets"`
	ClaimableDepositAssets math.Int `json:"claimable_deposit_assets"`
	PendingRedeemShares    math.Int `json:"pending_redeem_shares"`
	ClaimableRedeemShares  math.Int `json:"claimable_redeem_shares"`

	LastDepositRequest time.Time `json:"last_deposit_request"`
	LastRedeemRequest  time.Time `json:"last_redeem_request"`
}

// NewControllerAccount returns a zeroed controller account with initialised
// integers.
func NewControllerAccount() ControllerAccount {
	return ControllerAccount{
		PendingDepositAssets:   math.ZeroInt(),
		ClaimableDepositAssets: math.ZeroInt(),
		PendingRedeemShares:    math.ZeroInt(),
		ClaimableRedeemShares:  math.ZeroInt(),
	}
}

// IsDrained reports whether every bucket is empty, allowing the store entry
// to be removed.
func (c ControllerAccount) IsDrained() bool {
	return c.PendingDepositAssets.IsZero() &&
		c.ClaimableDepositAssets.IsZero() &&
		c.PendingRedeemShares.IsZero() &&
		c.ClaimableRedeemShares.IsZero()
}

// VaultLedger holds the aggregate vault counters. The sum of all
// per-controller buckets equals the corresponding aggregate at all times.
type VaultLedger struct {
	TotalPendingAssets    math.Int `json:"total_pending_assets"`
	TotalClaimableAssets  math.Int `json:"total_claimable_assets"`
	TotalPendingShares    math.Int `json:"total_pending_shares"`
	TotalClaimableShares  math.Int `json:"total_claimable_shares"`
	TotalSupply           math.Int `json:"total_supply"`
	TotalReserves         math.Int `json:"total_reserves"`
}

// NewVaultLedger returns a zeroed ledger with initialised integers.
func NewVaultLedger() VaultLedger {
	return VaultLedger{
		TotalPendingAssets:   math.ZeroInt(),
		TotalClaimableAssets: math.ZeroInt(),
		TotalPendingShares:   math.ZeroInt(),
		TotalClaimableShares: math.ZeroInt(),
		TotalSupply:          math.ZeroInt(),
		TotalReserves:        math.ZeroInt(),
	}
}

// OutstandingShares is the effective share supply used for pricing: live
// supply plus redeem shares that are burned from circulation but still
// entitled to vault assets. Burned-but-unclaimed shares keep their claim on
// assets until the redemption is claimed, so they must keep diluting.
func (l VaultLedger) OutstandingShares() math.Int {
	return l.TotalSupply.Add(l.TotalPendingShares).Add(l.TotalClaimableShares)
}

type RequestKind int32

const (
	REQUEST_KIND_DEPOSIT RequestKind = iota
	REQUEST_KIND_REDEEM
)

func (k RequestKind) String() string {
	switch k {
	case REQUEST_KIND_DEPOSIT:
		return "deposit"
	case REQUEST_KIND_REDEEM:
		return "redeem"
	}
	return "unknown"
}

type RequestStatus int32

const (
	REQUEST_STATUS_PENDING RequestStatus = iota
	REQUEST_STATUS_CLAIMABLE
)

func (s RequestStatus) String() string {
	switch s {
	case REQUEST_STATUS_PENDING:
		return "pending"
	case REQUEST_STATUS_CLAIMABLE:
		return "claimable"
	}
	return "unknown"
}

// Request is the audit record of a single deposit or redemption request.
// Requests are identified by a monotonic per-vault identifier rather than by
// amount matching, so two same-amount requests from one controller stay
// distinguishable. Outstanding tracks the unclaimed remainder; the record is
// pruned when it reaches zero.
type Request struct {
	Id          uint64        `json:"id"`
	Controller  string        `json:"controller"`
	Kind        RequestKind   `json:"kind"`
	Amount      math.Int      `json:"amount"`
	Outstanding math.Int      `json:"outstanding"`
	RequestTime time.Time     `json:"request_time"`
	Status      RequestStatus `json:"status"`
}
