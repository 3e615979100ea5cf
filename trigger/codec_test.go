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
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimeEncodeDecodeRoundTrip(t *testing.T) {
	want := Time{IntervalSeconds: 3600}
	raw, err := EncodeTime(want)
	require.NoError(t, err)

	got, err := DecodeTime(raw)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestDecodeTimeEmptyIsZeroValue(t *testing.T) {
	got, err := DecodeTime(nil)
	require.NoError(t, err)
	assert.Equal(t, Time{}, got)
}

func TestPriceEncodeDecodeRoundTripABI(t *testing.T) {
	want := Price{Token: "eth", Comparator: GreaterThan, ThresholdUSD: 2000}
	raw, err := EncodePrice(want)
	require.NoError(t, err)

	got, err := DecodePrice(raw)
	require.NoError(t, err)
	assert.Equal(t, want.Token, got.Token)
	assert.InDelta(t, want.ThresholdUSD, got.ThresholdUSD, 0.0001)
	// GreaterThan collapses to the same "above" direction as GreaterOrEqual.
	assert.Equal(t, GreaterThan, got.Comparator)
}

func TestPriceDecodeJSONForm(t *testing.T) {
	raw := []byte(`{"token":"btc","comparator":0,"price_usd":30000.5}`)
	got, err := DecodePrice(raw)
	require.NoError(t, err)
	assert.Equal(t, "btc", got.Token)
	assert.Equal(t, LessThan, got.Comparator)
	assert.Equal(t, 30000.5, got.ThresholdUSD)
}

func TestWalletEventEncodeDecodeRoundTripABI(t *testing.T) {
	token := common.HexToAddress("0x00000000000000000000000000000000000001")
	owner := common.HexToAddress("0x00000000000000000000000000000000000002")
	want := WalletEvent{Token: &token}

	raw, err := EncodeWalletEvent(want)
	require.NoError(t, err)

	got, err := DecodeWalletEvent(raw, owner)
	require.NoError(t, err)
	require.NotNil(t, got.Token)
	assert.Equal(t, token, *got.Token)
	// The ABI tuple carries no monitor/min-amount, so these fall back to
	// the caller-supplied owner and zero, per the codec's documented gap.
	assert.Equal(t, owner, got.Monitor)
	assert.Equal(t, big.NewInt(0), got.MinAmount)
}

func TestWalletEventDecodeJSONForm(t *testing.T) {
	raw := []byte(`{"monitor":"0x0000000000000000000000000000000000000a","token":"0x0000000000000000000000000000000000000b","min_amount":"500"}`)
	got, err := DecodeWalletEvent(raw, common.Address{})
	require.NoError(t, err)
	assert.Equal(t, common.HexToAddress("0x0a"), got.Monitor)
	require.NotNil(t, got.Token)
	assert.Equal(t, common.HexToAddress("0x0b"), *got.Token)
	assert.Equal(t, big.NewInt(500), got.MinAmount)
}

func TestDecodePriceMalformedIsError(t *testing.T) {
	_, err := DecodePrice([]byte{0x01, 0x02})
	assert.Error(t, err)
}
