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

import authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"

const ModuleName = "vaults"

// ModuleAddress is the account that custodies pending request assets and the
// vault reserve.
var ModuleAddress = authtypes.NewModuleAddress(ModuleName)

const (
	// BpsDenominator is the basis point scale: 10000 bps = 100%.
	BpsDenominator = 10000

	// MaxStrategies caps the number of active strategy slots in the registry.
	MaxStrategies = 20

	// DefaultRebalanceThresholdBps is the allocation drift, in basis points,
	// beyond which a rebalance becomes necessary.
	DefaultRebalanceThresholdBps = 500

	// DefaultRebalanceIntervalSeconds is the minimum wall-clock spacing
	// between two rebalance executions.
	DefaultRebalanceIntervalSeconds = 86400
)

var (
	ParamsKey              = []byte("vaults/params")
	PausedKey              = []byte("vaults/paused")
	EnteredKey             = []byte("vaults/entered")
	LedgerKey              = []byte("vaults/ledger")
	ControllerPrefix       = []byte("vaults/controller/")
	OperatorApprovalPrefix = []byte("vaults/operator_approval/")
	SharesPrefix           = []byte("vaults/shares/")
	RequestPrefix          = []byte("vaults/request/")
	RequestNextIDKey       = []byte("vaults/request_next_id")
	SlotPrefix             = []byte("vaults/slot/")
	SlotNextIDKey          = []byte("vaults/slot_next_id")
	WithdrawalQueueKey     = []byte("vaults/withdrawal_queue")
	LastRebalanceKey       = []byte("vaults/last_rebalance")
	LifetimeDepositedKey   = []byte("vaults/lifetime_deposited")
	LifetimeClaimedKey     = []byte("vaults/lifetime_claimed")
)
