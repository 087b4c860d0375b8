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
	"cosmossdk.io/core/address"
	"cosmossdk.io/core/event"
	"cosmossdk.io/core/header"
	"cosmossdk.io/core/store"
	"cosmossdk.io/log"
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"vaults.harbor.finance/types"
)

// Keeper owns the vault engine state: the request ledger, the strategy
// registry and the aggregate accounting. It is driven by a single-writer
// host; the only synchronisation primitive is the reentrancy guard wrapped
// around operations that invoke strategy capabilities.
type Keeper struct {
	denom     string
	authority string

	store store.KVStoreService

	logger     log.Logger
	header     header.Service
	event      event.Service
	address    address.Codec
	bank       types.BankKeeper
	strategies types.StrategyRouter

	Paused  collections.Item[bool]
	Entered collections.Item[bool]
	Params  collections.Item[types.Params]
	Ledger  collections.Item[types.VaultLedger]

	Controllers       collections.Map[[]byte, types.ControllerAccount]
	OperatorApprovals collections.Map[collections.Pair[[]byte, []byte], bool]
	Shares            collections.Map[[]byte, math.Int]
	Requests          collections.Map[uint64, types.Request]
	RequestNextID     collections.Item[uint64]

	Slots           collections.Map[uint64, types.StrategySlot]
	SlotNextID      collections.Item[uint64]
	WithdrawalQueue collections.Item[types.WithdrawalQueue]
	LastRebalance   collections.Item[int64]

	LifetimeDeposited collections.Item[math.Int]
	LifetimeClaimed   collections.Item[math.Int]
}

func NewKeeper(
	denom string,
	authority string,
	store store.KVStoreService,
	logger log.Logger,
	header header.Service,
	event event.Service,
	address address.Codec,
	bank types.BankKeeper,
	strategies types.StrategyRouter,
) *Keeper {
	builder := collections.NewSchemaBuilder(store)

	keeper := &Keeper{
		denom:     denom,
		authority: authority,

		store: store,

		logger:     logger.With("module", types.ModuleName),
		header:     header,
		event:      event,
		address:    address,
		bank:       bank,
		strategies: strategies,

		Paused:  collections.NewItem(builder, types.PausedKey, "paused", collections.BoolValue),
		Entered: collections.NewItem(builder, types.EnteredKey, "entered", collections.BoolValue),
		Params:  collections.NewItem(builder, types.ParamsKey, "params", types.JSONValue[types.Params]("params")),
		Ledger:  collections.NewItem(builder, types.LedgerKey, "ledger", types.JSONValue[types.VaultLedger]("ledger")),

		Controllers:       collections.NewMap(builder, types.ControllerPrefix, "controllers", collections.BytesKey, types.JSONValue[types.ControllerAccount]("controller_account")),
		OperatorApprovals: collections.NewMap(builder, types.OperatorApprovalPrefix, "operator_approvals", collections.PairKeyCodec(collections.BytesKey, collections.BytesKey), collections.BoolValue),
		Shares:            collections.NewMap(builder, types.SharesPrefix, "shares", collections.BytesKey, sdk.IntValue),
		Requests:          collections.NewMap(builder, types.RequestPrefix, "requests", collections.Uint64Key, types.JSONValue[types.Request]("request")),
		RequestNextID:     collections.NewItem(builder, types.RequestNextIDKey, "request_next_id", collections.Uint64Value),

		Slots:           collections.NewMap(builder, types.SlotPrefix, "slots", collections.Uint64Key, types.JSONValue[types.StrategySlot]("strategy_slot")),
		SlotNextID:      collections.NewItem(builder, types.SlotNextIDKey, "slot_next_id", collections.Uint64Value),
		WithdrawalQueue: collections.NewItem(builder, types.WithdrawalQueueKey, "withdrawal_queue", types.JSONValue[types.WithdrawalQueue]("withdrawal_queue")),
		LastRebalance:   collections.NewItem(builder, types.LastRebalanceKey, "last_rebalance", collections.Int64Value),

		LifetimeDeposited: collections.NewItem(builder, types.LifetimeDepositedKey, "lifetime_deposited", sdk.IntValue),
		LifetimeClaimed:   collections.NewItem(builder, types.LifetimeClaimedKey, "lifetime_claimed", sdk.IntValue),
	}

	_, err := builder.Build()
	if err != nil {
		panic(err)
	}

	return keeper
}

// GetDenom returns the configured underlying asset denomination.
func (k *Keeper) GetDenom() string {
	return k.denom
}

// GetAuthority returns the configured governance authority address.
func (k *Keeper) GetAuthority() string {
	return k.authority
}

// SetStrategyRouter overwrites the strategy router used by this keeper.
// This exists for hosts that construct integrations after the keeper.
func (k *Keeper) SetStrategyRouter(strategies types.StrategyRouter) {
	k.strategies = strategies
}

// GetPaused returns the global pause switch, defaulting to false.
func (k *Keeper) GetPaused(ctx context.Context) bool {
	paused, err := k.Paused.Get(ctx)
	if err != nil {
		return false
	}
	return paused
}

// enter acquires the reentrancy guard. Operations that invoke strategy
// capabilities hold it for their full duration so a strategy calling back
// into the engine observes a consistent "locked" state and fails fast.
func (k *Keeper) enter(ctx context.Context) error {
	entered, err := k.Entered.Get(ctx)
	if err != nil && !errors.Is(err, collections.ErrNotFound) {
		return err
	}
	if entered {
		return types.ErrReentrantCall
	}

	return k.Entered.Set(ctx, true)
}

// exit releases the reentrancy guard.
func (k *Keeper) exit(ctx context.Context) error {
	return k.Entered.Set(ctx, false)
}
