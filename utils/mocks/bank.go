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
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

// BankKeeper is an in-memory double of the bank move-value primitive,
// keyed by bech32 address.
type BankKeeper struct {
	Balances map[string]sdk.Coins
	Failing  bool
}

func (k BankKeeper) SendCoins(_ context.Context, from, to sdk.AccAddress, amt sdk.Coins) error {
	if k.Failing {
		return fmt.Errorf("send failure injected")
	}

	balance := k.Balances[from.String()]
	updated, negative := balance.SafeSub(amt...)
	if negative {
		return fmt.Errorf("insufficient balance: %s has %s, sending %s", from, balance, amt)
	}

	k.Balances[from.String()] = updated
	k.Balances[to.String()] = k.Balances[to.String()].Add(amt...)

	return nil
}

func (k BankKeeper) GetBalance(_ context.Context, addr sdk.AccAddress, denom string) sdk.Coin {
	return sdk.Coin{
		Denom:  denom,
		Amount: k.Balances[addr.String()].AmountOf(denom),
	}
}

// Mint credits an address out of thin air.
func (k BankKeeper) Mint(addr sdk.AccAddress, amt sdk.Coins) {
	k.Balances[addr.String()] = k.Balances[addr.String()].Add(amt...)
}
