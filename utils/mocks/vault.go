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

package mocks

import (
	"context"
	"testing"

	"cosmossdk.io/core/event"
	"cosmossdk.io/core/header"
	"cosmossdk.io/log"
	storetypes "cosmossdk.io/store/types"
	"github.com/cosmos/cosmos-sdk/codec/address"
	"github.com/cosmos/cosmos-sdk/runtime"
	"github.com/cosmos/cosmos-sdk/testutil"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"google.golang.org/protobuf/runtime/protoiface"

	"vaults.harbor.finance/keeper"
	"vaults.harbor.finance/types"
)

// TestDenom is the underlying asset used across the test suite.
const TestDenom = "uusdc"

// HeaderService reads header info straight from the SDK context.
type HeaderService struct{}

func (HeaderService) GetHeaderInfo(ctx context.Context) header.Info {
	return sdk.UnwrapSDKContext(ctx).HeaderInfo()
}

// EmittedEvent is one recorded EmitKV call.
type EmittedEvent struct {
	Type       string
	Attributes []event.Attribute
}

// EventService records emissions for assertion.
type EventService struct {
	Events *[]EmittedEvent
}

func NewEventService() EventService {
	return EventService{Events: &[]EmittedEvent{}}
}

func (s EventService) EventManager(_ context.Context) event.Manager {
	return eventManager{events: s.Events}
}

type eventManager struct {
	events *[]EmittedEvent
}

func (m eventManager) Emit(_ context.Context, _ protoiface.MessageV1) error {
	return nil
}

func (m eventManager) EmitKV(_ context.Context, eventType string, attrs ...event.Attribute) error {
	*m.events = append(*m.events, EmittedEvent{Type: eventType, Attributes: attrs})
	return nil
}

func (m eventManager) EmitNonConsensus(_ context.Context, _ protoiface.MessageV1) error {
	return nil
}

// VaultKeeper builds a keeper over an in-memory store with mock bank,
// router and event recording.
func VaultKeeper(t *testing.T, authority string, bank types.BankKeeper, router types.StrategyRouter) (*keeper.Keeper, EventService, sdk.Context) {
	t.Helper()

	key := storetypes.NewKVStoreKey(types.ModuleName)
	tkey := storetypes.NewTransientStoreKey("transient_" + types.ModuleName)
	testCtx := testutil.DefaultContextWithDB(t, key, tkey)

	events := NewEventService()

	k := keeper.NewKeeper(
		TestDenom,
		authority,
		runtime.NewKVStoreService(key),
		log.NewNopLogger(),
		HeaderService{},
		events,
		address.NewBech32Codec(sdk.GetConfig().GetBech32AccountAddrPrefix()),
		bank,
		router,
	)

	return k, events, testCtx.Ctx
}
