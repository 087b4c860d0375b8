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

import "fmt"

// Params holds the host-governed configuration of the vault engine.
type Params struct {
	// Operator is the system-wide role allowed to fulfill pending requests
	// and trigger rebalancing.
	Operator string `json:"operator"`

	// FulfillmentDelaySeconds is the minimum time between a request and its
	// fulfillment. Anti-front-running measure.
	FulfillmentDelaySeconds int64 `json:"fulfillment_delay_seconds"`

	// ReserveRatioBps is the portion of every fulfilled deposit kept
	// undeployed to satisfy near-term redemptions.
	ReserveRatioBps uint32 `json:"reserve_ratio_bps"`

	RebalanceThresholdBps    uint32 `json:"rebalance_threshold_bps"`
	RebalanceIntervalSeconds int64  `json:"rebalance_interval_seconds"`

	// VaultEnabled gates new requests. Fulfillments and claims remain
	// possible while disabled so outstanding obligations can drain.
	VaultEnabled bool `json:"vault_enabled"`
}

// DefaultParams returns the parameter set used when none has been stored.
// Operator is intentionally empty: fulfillments are impossible until the
// authority configures one.
func DefaultParams() Params {
	return Params{
		RebalanceThresholdBps:    DefaultRebalanceThresholdBps,
		RebalanceIntervalSeconds: DefaultRebalanceIntervalSeconds,
		VaultEnabled:             true,
	}
}

// Validate checks parameter ranges.
func (p Params) Validate() error {
	if p.ReserveRatioBps > BpsDenominator {
		return fmt.Errorf("reserve ratio %d exceeds %d bps", p.ReserveRatioBps, BpsDenominator)
	}
	if p.RebalanceThresholdBps > BpsDenominator {
		return fmt.Errorf("rebalance threshold %d exceeds %d bps", p.RebalanceThresholdBps, BpsDenominator)
	}
	if p.FulfillmentDelaySeconds < 0 {
		return fmt.Errorf("fulfillment delay cannot be negative")
	}
	if p.RebalanceIntervalSeconds < 0 {
		return fmt.Errorf("rebalance interval cannot be negative")
	}
	return nil
}
