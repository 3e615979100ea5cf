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
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autometa/engine/chain"
)

// normalizeAddrs rewrites any plain hex address field to the EIP-55
// checksummed form common.Address.Hex() always returns, so the
// round-trip comparison isn't sensitive to the input's casing. It also
// copies every *big.Int through Set, so a zero built with big.NewInt and
// a zero decoded from ABI bytes (which differ only in whether the
// internal word slice is nil) compare equal.
func normalizeAddrs(data Data) Data {
	switch a := data.(type) {
	case NativeTransfer:
		a.Recipient = common.HexToAddress(a.Recipient).Hex()
		a.Amount = new(big.Int).Set(a.Amount)
		return a
	case ERC20Transfer:
		a.Token = common.HexToAddress(a.Token).Hex()
		a.Recipient = common.HexToAddress(a.Recipient).Hex()
		a.Amount = new(big.Int).Set(a.Amount)
		return a
	case ContractCall:
		a.Target = common.HexToAddress(a.Target).Hex()
		a.Value = new(big.Int).Set(a.Value)
		return a
	default:
		return data
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	cases := []struct {
		name string
		kind chain.ActionType
		data Data
	}{
		{
			name: "native transfer",
			kind: chain.ActionNativeTransfer,
			data: NativeTransfer{
				Recipient: "0x000000000000000000000000000000000000aa",
				Amount:    big.NewInt(1_000_000_000_000_000_000),
			},
		},
		{
			name: "erc20 transfer",
			kind: chain.ActionERC20Transfer,
			data: ERC20Transfer{
				Token:     "0x000000000000000000000000000000000000bb",
				Recipient: "0x000000000000000000000000000000000000cc",
				Amount:    big.NewInt(42),
			},
		},
		{
			name: "contract call",
			kind: chain.ActionContractCall,
			data: ContractCall{
				Target:   "0x000000000000000000000000000000000000dd",
				Value:    big.NewInt(0),
				Calldata: []byte{0xde, 0xad, 0xbe, 0xef},
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			raw, err := Encode(tc.data)
			require.NoError(t, err)
			require.NotEmpty(t, raw)
			assert.Equal(t, byte(tc.kind), raw[0])

			decoded, err := Decode(tc.kind, raw)
			require.NoError(t, err)
			assert.Equal(t, normalizeAddrs(tc.data), normalizeAddrs(decoded))
		})
	}
}

func TestDecodeRejectsEmpty(t *testing.T) {
	_, err := Decode(chain.ActionNativeTransfer, nil)
	assert.Error(t, err)
}

func TestDecodeRejectsMismatchedTag(t *testing.T) {
	raw, err := Encode(NativeTransfer{
		Recipient: "0x000000000000000000000000000000000000aa",
		Amount:    big.NewInt(1),
	})
	require.NoError(t, err)

	_, err = Decode(chain.ActionERC20Transfer, raw)
	assert.Error(t, err)
}
