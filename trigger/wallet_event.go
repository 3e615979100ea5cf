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
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/autometa/engine/chain"
	"github.com/autometa/engine/internal/fault"
	"github.com/autometa/engine/internal/log"
)

var walletEventLogger = log.NewModuleLogger(log.Trigger)

// transferEventSignature is keccak256("Transfer(address,address,uint256)"),
// the ERC-20 Transfer log topic0.
var transferEventSignature = crypto.Keccak256Hash([]byte("Transfer(address,address,uint256)"))

// DefaultScanWindow is the number of trailing blocks scanned for ERC-20
// Transfer logs, per spec §4.2 ("last N=100 blocks, configurable").
const DefaultScanWindow = uint64(100)

// WalletEventEvaluator is the wallet-event-trigger predicate. It scans
// ERC-20 Transfer logs over a trailing block window; native-transfer
// detection (Token == nil) is not implemented in this version and is
// always not-ready, per spec §4.2/§9.4.
type WalletEventEvaluator struct {
	Client     *ethclient.Client
	ScanWindow uint64 // defaults to DefaultScanWindow when zero
}

// IsReady decodes wf's triggerData and scans for a qualifying transfer.
func (e *WalletEventEvaluator) IsReady(ctx context.Context, wf chain.Workflow) (bool, error) {
	if !wf.Active {
		return false, nil
	}
	owner := common.HexToAddress(wf.Owner)
	evt, err := DecodeWalletEvent(wf.TriggerData, owner)
	if err != nil {
		return false, nil
	}
	if evt.Token == nil {
		// Native-transfer detection requires scanning tx receipts block by
		// block; not implemented in this version. Explicit known gap.
		walletEventLogger.Debug("native transfer trigger not supported", "workflow", wf.ID, "err", fault.ErrNativeTransferUnsupported)
		return false, nil
	}
	return e.scanTransfers(ctx, *evt.Token, evt.Monitor, evt.MinAmount)
}

func (e *WalletEventEvaluator) scanTransfers(ctx context.Context, token, monitor common.Address, minAmount *big.Int) (bool, error) {
	window := e.ScanWindow
	if window == 0 {
		window = DefaultScanWindow
	}
	latest, err := e.Client.BlockNumber(ctx)
	if err != nil {
		return false, err
	}
	from := int64(0)
	if latest >= window {
		from = int64(latest - window + 1)
	}
	toTopic := common.BytesToHash(monitor.Bytes())
	logs, err := e.Client.FilterLogs(ctx, ethereum.FilterQuery{
		FromBlock: big.NewInt(from),
		ToBlock:   new(big.Int).SetUint64(latest),
		Addresses: []common.Address{token},
		Topics:    [][]common.Hash{{transferEventSignature}, nil, {toTopic}},
	})
	if err != nil {
		return false, err
	}
	for _, l := range logs {
		if len(l.Data) < 32 {
			continue
		}
		value := new(big.Int).SetBytes(l.Data[:32])
		if value.Cmp(minAmount) >= 0 {
			return true, nil
		}
	}
	return false, nil
}
