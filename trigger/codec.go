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

package trigger

import (
	"encoding/json"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"

	"github.com/autometa/engine/internal/fault"
)

var (
	typeUint256, _ = abi.NewType("uint256", "", nil)
	typeUint8, _   = abi.NewType("uint8", "", nil)
	typeBytes32, _ = abi.NewType("bytes32", "", nil)
	typeAddress, _ = abi.NewType("address", "", nil)

	timeArgs  = abi.Arguments{{Type: typeUint256}}
	priceArgs = abi.Arguments{{Type: typeBytes32}, {Type: typeUint256}, {Type: typeUint8}}
	walletArgs = abi.Arguments{{Type: typeAddress}, {Type: typeUint8}}
)

// priceScale converts between the on-chain 1e18-scaled threshold and the
// plain USD float the price trigger compares against.
var priceScale = new(big.Float).SetFloat64(1e18)

// jsonPrice is the convenience JSON form price_trigger.py accepted in
// triggerData, kept for backward compatibility per the redesign note.
type jsonPrice struct {
	Token      string  `json:"token"`
	Comparator int     `json:"comparator"`
	PriceUSD   float64 `json:"price_usd"`
}

// jsonWalletEvent is the convenience JSON form wallet_event_trigger.py
// accepted in triggerData.
type jsonWalletEvent struct {
	Monitor   string `json:"monitor"`
	Token     string `json:"token"`
	MinAmount string `json:"min_amount"`
}

// DecodeTime decodes a TIME trigger's raw bytes. TIME triggers carry no
// JSON convenience form in the original source (time_trigger.py reads
// only the workflow's nextRun/active fields), so this is ABI-only.
func DecodeTime(raw []byte) (Time, error) {
	if len(raw) == 0 {
		return Time{}, nil
	}
	vals, err := timeArgs.Unpack(raw)
	if err != nil {
		return Time{}, errors.Wrap(fault.ErrMalformedTriggerData, err.Error())
	}
	interval := abi.ConvertType(vals[0], new(big.Int)).(*big.Int)
	return Time{IntervalSeconds: interval.Uint64()}, nil
}

// EncodeTime ABI-encodes a TIME trigger, per spec §6.
func EncodeTime(t Time) ([]byte, error) {
	return timeArgs.Pack(new(big.Int).SetUint64(t.IntervalSeconds))
}

// DecodePrice decodes a PRICE trigger, accepting either the on-chain ABI
// tuple or the convenience JSON object, per the redesign note.
func DecodePrice(raw []byte) (Price, error) {
	if looksLikeJSON(raw) {
		var p jsonPrice
		if err := json.Unmarshal(raw, &p); err != nil {
			return Price{}, errors.Wrap(fault.ErrMalformedTriggerData, err.Error())
		}
		return Price{Token: p.Token, Comparator: Comparator(p.Comparator), ThresholdUSD: p.PriceUSD}, nil
	}
	vals, err := priceArgs.Unpack(raw)
	if err != nil {
		return Price{}, errors.Wrap(fault.ErrMalformedTriggerData, err.Error())
	}
	symbol := strings.TrimRight(string(vals[0].([32]byte)[:]), "\x00")
	threshold := abi.ConvertType(vals[1], new(big.Int)).(*big.Int)
	direction := vals[2].(uint8)

	thresholdUSD, _ := new(big.Float).Quo(new(big.Float).SetInt(threshold), priceScale).Float64()
	cmp := GreaterThan
	if direction == 1 {
		cmp = LessThan
	}
	return Price{Token: symbol, Comparator: cmp, ThresholdUSD: thresholdUSD}, nil
}

// EncodePrice ABI-encodes a PRICE trigger. Comparator is collapsed to the
// binary above/below direction the on-chain tuple carries; LessThan/
// LessOrEqual both encode as "below", GreaterThan/GreaterOrEqual as
// "above" (the strict/non-strict distinction only matters off-chain).
func EncodePrice(p Price) ([]byte, error) {
	var symbol [32]byte
	copy(symbol[:], p.Token)
	threshold, _ := new(big.Float).Mul(big.NewFloat(p.ThresholdUSD), priceScale).Int(nil)
	direction := uint8(0)
	if p.Comparator == LessThan || p.Comparator == LessOrEqual {
		direction = 1
	}
	return priceArgs.Pack(symbol, threshold, direction)
}

// DecodeWalletEvent decodes a WALLET_EVENT trigger. The ABI tuple form
// carries only (token, eventType); ownerFallback supplies Monitor (the
// workflow's own owner address) and MinAmount defaults to zero, since
// the on-chain encoding has no room for either — see DESIGN.md's open
// question decision 4.
func DecodeWalletEvent(raw []byte, ownerFallback common.Address) (WalletEvent, error) {
	if looksLikeJSON(raw) {
		var w jsonWalletEvent
		if err := json.Unmarshal(raw, &w); err != nil {
			return WalletEvent{}, errors.Wrap(fault.ErrMalformedTriggerData, err.Error())
		}
		amount, ok := new(big.Int).SetString(w.MinAmount, 10)
		if !ok {
			amount = big.NewInt(0)
		}
		we := WalletEvent{Monitor: common.HexToAddress(w.Monitor), MinAmount: amount}
		if w.Token != "" {
			tok := common.HexToAddress(w.Token)
			we.Token = &tok
		}
		return we, nil
	}
	vals, err := walletArgs.Unpack(raw)
	if err != nil {
		return WalletEvent{}, errors.Wrap(fault.ErrMalformedTriggerData, err.Error())
	}
	token := vals[0].(common.Address)
	we := WalletEvent{Monitor: ownerFallback, MinAmount: big.NewInt(0)}
	if token != (common.Address{}) {
		we.Token = &token
	}
	return we, nil
}

// EncodeWalletEvent ABI-encodes a WALLET_EVENT trigger's (token, eventType)
// pair. eventType is fixed at 0 (transfer-in), the only kind this version
// evaluates.
func EncodeWalletEvent(w WalletEvent) ([]byte, error) {
	token := common.Address{}
	if w.Token != nil {
		token = *w.Token
	}
	return walletArgs.Pack(token, uint8(0))
}

func looksLikeJSON(raw []byte) bool {
	trimmed := strings.TrimSpace(string(raw))
	return strings.HasPrefix(trimmed, "{")
}
