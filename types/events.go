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

// Event types emitted through the host's event service.
const (
	EventTypeDepositRequested = "vaults.deposit_requested"
	EventTypeRedeemRequested  = "vaults.redeem_requested"
	EventTypeDepositFulfilled = "vaults.deposit_fulfilled"
	EventTypeRedeemFulfilled  = "vaults.redeem_fulfilled"
	EventTypeDepositClaimed   = "vaults.deposit_claimed"
	EventTypeRedeemClaimed    = "vaults.redeem_claimed"
	EventTypeStrategyAdded    = "vaults.strategy_added"
	EventTypeStrategyUpdated  = "vaults.strategy_updated"
	EventTypeStrategyRemoved  = "vaults.strategy_removed"
	EventTypeStrategyPaused   = "vaults.strategy_paused"
	EventTypeQueueUpdated     = "vaults.withdrawal_queue_updated"
	EventTypeRebalanced       = "vaults.rebalanced"
	EventTypeParamsUpdated    = "vaults.params_updated"
	EventTypePausedSet        = "vaults.paused_set"
)

// Event attribute keys.
const (
	AttributeKeyController = "controller"
	AttributeKeyReceiver   = "receiver"
	AttributeKeyRequestID  = "request_id"
	AttributeKeyAssets     = "assets"
	AttributeKeyShares     = "shares"
	AttributeKeyStrategyID = "strategy_id"
	AttributeKeyHandle     = "handle"
	AttributeKeyTargetBps  = "target_bps"
	AttributeKeyReserves   = "reserves"
	AttributeKeyLeftover   = "leftover"
	AttributeKeyPaused     = "paused"
)
