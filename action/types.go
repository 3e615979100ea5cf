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

// Package action holds the three executable action kinds a workflow can
// carry (native transfer, ERC-20 transfer, arbitrary contract call) and
// their encode/decode to the on-chain actionData byte string, replacing
// the original source's dict-shaped action_params with a tagged variant
// (mirroring trigger.Data's redesign).
package action

import "math/big"

// Data is implemented by each of the three action variants. There is no
// Kind() method: the caller already has the workflow's actionType field,
// so Decode takes it as an explicit parameter instead of re-deriving it
// from the payload, and Encode's counterpart prepends the matching tag
// byte on the way back out. See codec.go.
type Data interface {
	isAction()
}

// NativeTransfer moves the chain's native token out of the FeeEscrow
// contract to Recipient.
type NativeTransfer struct {
	Recipient string // 0x-prefixed address
	Amount    *big.Int
}

func (NativeTransfer) isAction() {}

// ERC20Transfer calls Token.transfer(Recipient, Amount) on the owner's
// behalf via the ActionExecutor.
type ERC20Transfer struct {
	Token     string
	Recipient string
	Amount    *big.Int
}

func (ERC20Transfer) isAction() {}

// ContractCall invokes Target with an arbitrary ABI-encoded Calldata and
// an optional native Value, via the ActionExecutor.
type ContractCall struct {
	Target   string
	Value    *big.Int
	Calldata []byte
}

func (ContractCall) isAction() {}
