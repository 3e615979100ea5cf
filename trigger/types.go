// Copyright 2026 The autometa Authors
// This file is part of the autometa library.
//
// The autometa library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The autometa library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the autometa library. If not, see <http://www.gnu.org/licenses/>.

// Package trigger implements the three pure trigger predicates and the
// tagged variant that replaces the original dynamic dict payload for
// trigger parameters (see the "dynamic dict payloads" redesign note).
package trigger

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Comparator is the relational operator a price trigger checks the
// current price against. Values match the JSON convenience form's
// comparator field: 0=< 1=<= 2=> 3=>=. The on-chain ABI tuple carries only
// a direction byte (0=above, 1=below); see DecodePrice/EncodePrice.
type Comparator uint8

const (
	LessThan Comparator = iota
	LessOrEqual
	GreaterThan
	GreaterOrEqual
)

// Eval applies the comparator to (current, target).
func (c Comparator) Eval(current, target float64) bool {
	switch c {
	case LessThan:
		return current < target
	case LessOrEqual:
		return current <= target
	case GreaterThan:
		return current > target
	case GreaterOrEqual:
		return current >= target
	default:
		return false
	}
}

// Data is the tagged variant: TriggerData = Time | Price | WalletEvent.
type Data interface {
	isTriggerData()
}

// Time fires when wall-clock has reached the workflow's nextRun; the
// evaluator reads only the workflow record. IntervalSeconds is the value
// the ABI-encoded triggerData carries (TIME has no JSON form).
type Time struct {
	IntervalSeconds uint64
}

func (Time) isTriggerData() {}

// Price fires when the adapter's current price for Token satisfies
// Comparator against ThresholdUSD.
type Price struct {
	Token        string
	Comparator   Comparator
	ThresholdUSD float64
}

func (Price) isTriggerData() {}

// WalletEvent fires when an ERC-20 Transfer to Monitor carrying at least
// MinAmount appears in the scanned block window. Token nil means native
// transfer detection, which this version does not implement (§9.4).
type WalletEvent struct {
	Monitor   common.Address
	Token     *common.Address
	MinAmount *big.Int
}

func (WalletEvent) isTriggerData() {}
