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

package action

import (
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"

	"github.com/autometa/engine/chain"
	"github.com/autometa/engine/internal/fault"
)

var (
	typeAddress, _ = abi.NewType("address", "", nil)
	typeUint256, _ = abi.NewType("uint256", "", nil)
	typeBytes, _   = abi.NewType("bytes", "", nil)

	nativeTransferArgs = abi.Arguments{{Type: typeAddress}, {Type: typeUint256}}
	erc20TransferArgs  = abi.Arguments{{Type: typeAddress}, {Type: typeAddress}, {Type: typeUint256}}
	contractCallArgs   = abi.Arguments{{Type: typeAddress}, {Type: typeUint256}, {Type: typeBytes}}
)

// Decode reads actionData's leading type-tag byte and ABI-decodes the
// remainder into the matching Data variant, per encoder_service.py's
// "actionType (1 byte) + ABI params" wire format.
func Decode(kind chain.ActionType, raw []byte) (Data, error) {
	if len(raw) < 1 {
		return nil, errors.Wrap(fault.ErrMalformedActionData, "empty action data")
	}
	tag := chain.ActionType(raw[0])
	if tag != kind {
		return nil, errors.Wrapf(fault.ErrMalformedActionData, "action type tag %d does not match workflow actionType %d", tag, kind)
	}
	body := raw[1:]

	switch kind {
	case chain.ActionNativeTransfer:
		vals, err := nativeTransferArgs.Unpack(body)
		if err != nil {
			return nil, errors.Wrap(fault.ErrMalformedActionData, err.Error())
		}
		return NativeTransfer{
			Recipient: vals[0].(common.Address).Hex(),
			Amount:    abi.ConvertType(vals[1], new(big.Int)).(*big.Int),
		}, nil

	case chain.ActionERC20Transfer:
		vals, err := erc20TransferArgs.Unpack(body)
		if err != nil {
			return nil, errors.Wrap(fault.ErrMalformedActionData, err.Error())
		}
		return ERC20Transfer{
			Token:     vals[0].(common.Address).Hex(),
			Recipient: vals[1].(common.Address).Hex(),
			Amount:    abi.ConvertType(vals[2], new(big.Int)).(*big.Int),
		}, nil

	case chain.ActionContractCall:
		vals, err := contractCallArgs.Unpack(body)
		if err != nil {
			return nil, errors.Wrap(fault.ErrMalformedActionData, err.Error())
		}
		return ContractCall{
			Target:   vals[0].(common.Address).Hex(),
			Value:    abi.ConvertType(vals[1], new(big.Int)).(*big.Int),
			Calldata: vals[2].([]byte),
		}, nil

	default:
		return nil, errors.Wrapf(fault.ErrMalformedActionData, "unknown action type %d", kind)
	}
}

// Encode is Decode's inverse: it ABI-encodes a Data variant's fields and
// prepends its type-tag byte.
func Encode(data Data) ([]byte, error) {
	switch a := data.(type) {
	case NativeTransfer:
		params, err := nativeTransferArgs.Pack(common.HexToAddress(a.Recipient), a.Amount)
		if err != nil {
			return nil, err
		}
		return append([]byte{byte(chain.ActionNativeTransfer)}, params...), nil

	case ERC20Transfer:
		params, err := erc20TransferArgs.Pack(common.HexToAddress(a.Token), common.HexToAddress(a.Recipient), a.Amount)
		if err != nil {
			return nil, err
		}
		return append([]byte{byte(chain.ActionERC20Transfer)}, params...), nil

	case ContractCall:
		params, err := contractCallArgs.Pack(common.HexToAddress(a.Target), a.Value, a.Calldata)
		if err != nil {
			return nil, err
		}
		return append([]byte{byte(chain.ActionContractCall)}, params...), nil

	default:
		return nil, errors.Wrap(fault.ErrMalformedActionData, "unsupported action data type")
	}
}
