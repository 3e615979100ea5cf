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

package chain

import (
	"context"
	"crypto/ecdsa"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/pkg/errors"

	"github.com/autometa/engine/internal/fault"
	"github.com/autometa/engine/internal/log"
)

var signerLogger = log.NewModuleLogger(log.Chain)

// maxPriorityFeePerGas is a constant 2 gwei tip, per the signer design.
var maxPriorityFeePerGas = big.NewInt(2_000_000_000)

// fallbackGasLimit is used when gas estimation fails.
const fallbackGasLimit = uint64(500_000)

const (
	receiptPollInterval = 2 * time.Second
	receiptWaitTimeout  = 120 * time.Second
)

// ExecutionResult is what Signer.ExecuteWorkflow returns: either a
// confirmed receipt, or — if the wait times out — just the hash of a
// transaction that may still confirm later.
type ExecutionResult struct {
	TxHash  common.Hash
	Receipt *types.Receipt // nil if the wait timed out
}

// Signer builds, signs and submits executeWorkflow transactions, then
// polls for their receipt. It is single-writer by construction: the job
// worker's sequential loop is the only caller, so nonces can be read
// fresh on every call without a local counter.
type Signer struct {
	client      *ethclient.Client
	executor    *actionExecutorContract
	executorAt  common.Address
	privateKey  *ecdsa.PrivateKey
	fromAddress common.Address
	chainID     *big.Int
}

// NewSigner loads the worker's private key and binds the ActionExecutor
// contract. A missing or malformed key is a config-fatal startup error.
func NewSigner(client *ethclient.Client, privateKeyHex, executorAddr string, chainID *big.Int) (*Signer, error) {
	if privateKeyHex == "" {
		return nil, errors.New("WORKER_PRIVATE_KEY not set")
	}
	key, err := crypto.HexToECDSA(trimHexPrefix(privateKeyHex))
	if err != nil {
		return nil, errors.Wrap(err, "parse worker private key")
	}
	addr := common.HexToAddress(executorAddr)
	executor, err := newActionExecutorContract(addr, client)
	if err != nil {
		return nil, errors.Wrap(err, "bind ActionExecutor")
	}
	from := crypto.PubkeyToAddress(key.PublicKey)
	signerLogger.Info("signer initialized", "worker", from.Hex())
	return &Signer{
		client:      client,
		executor:    executor,
		executorAt:  addr,
		privateKey:  key,
		fromAddress: from,
		chainID:     chainID,
	}, nil
}

// Address returns the worker's signing address.
func (s *Signer) Address() common.Address { return s.fromAddress }

// ExecuteWorkflow builds an EIP-1559 executeWorkflow transaction, signs
// and submits it, and waits up to receiptWaitTimeout for its receipt.
func (s *Signer) ExecuteWorkflow(ctx context.Context, workflowID uint64, actionData []byte, newNextRun int64, user string, gasToCharge *big.Int) (*ExecutionResult, error) {
	data, err := s.executor.pack(new(big.Int).SetUint64(workflowID), actionData, big.NewInt(newNextRun), common.HexToAddress(user), gasToCharge)
	if err != nil {
		return nil, errors.Wrap(err, "pack executeWorkflow calldata")
	}

	head, err := s.client.HeaderByNumber(ctx, nil)
	if err != nil {
		return nil, errors.Wrap(err, "fetch latest header")
	}
	baseFee := head.BaseFee
	if baseFee == nil {
		baseFee = big.NewInt(0)
	}
	maxFee := new(big.Int).Add(new(big.Int).Mul(baseFee, big.NewInt(2)), maxPriorityFeePerGas)

	nonce, err := s.client.PendingNonceAt(ctx, s.fromAddress)
	if err != nil {
		return nil, errors.Wrap(err, "fetch pending nonce")
	}

	gasLimit, err := s.estimateGas(ctx, data)
	if err != nil {
		signerLogger.Warn("gas estimation failed, using fallback", "workflow", workflowID, "err", err)
		gasLimit = fallbackGasLimit
	}

	tx := types.NewTx(&types.DynamicFeeTx{
		ChainID:   s.chainID,
		Nonce:     nonce,
		GasTipCap: maxPriorityFeePerGas,
		GasFeeCap: maxFee,
		Gas:       gasLimit,
		To:        &s.executorAt,
		Value:     big.NewInt(0),
		Data:      data,
	})

	signed, err := types.SignTx(tx, types.NewLondonSigner(s.chainID), s.privateKey)
	if err != nil {
		return nil, errors.Wrap(err, "sign transaction")
	}

	if err := s.client.SendTransaction(ctx, signed); err != nil {
		return nil, errors.Wrap(err, "send transaction")
	}
	txHash := signed.Hash()
	signerLogger.Info("sent executeWorkflow tx", "workflow", workflowID, "tx", txHash.Hex())

	receipt, err := s.waitForReceipt(ctx, txHash)
	if err != nil {
		if errors.Is(err, fault.ErrReceiptTimeout) {
			signerLogger.Warn("timeout waiting for receipt", "workflow", workflowID, "tx", txHash.Hex())
			return &ExecutionResult{TxHash: txHash}, nil
		}
		return nil, err
	}
	if receipt.Status == types.ReceiptStatusSuccessful {
		signerLogger.Info("workflow executed successfully", "workflow", workflowID, "tx", txHash.Hex())
	} else {
		signerLogger.Error("workflow execution reverted", "workflow", workflowID, "tx", txHash.Hex())
	}
	return &ExecutionResult{TxHash: txHash, Receipt: receipt}, nil
}

// estimateGas estimates gas for the executeWorkflow call and applies the
// 20% safety buffer from the signer design.
func (s *Signer) estimateGas(ctx context.Context, data []byte) (uint64, error) {
	est, err := s.client.EstimateGas(ctx, ethereum.CallMsg{
		From: s.fromAddress,
		To:   &s.executorAt,
		Data: data,
	})
	if err != nil {
		return 0, err
	}
	return est * 12 / 10, nil
}

func (s *Signer) waitForReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error) {
	deadline := time.Now().Add(receiptWaitTimeout)
	ticker := time.NewTicker(receiptPollInterval)
	defer ticker.Stop()
	for {
		receipt, err := s.client.TransactionReceipt(ctx, txHash)
		if err == nil {
			return receipt, nil
		}
		if time.Now().After(deadline) {
			return nil, fault.ErrReceiptTimeout
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

func trimHexPrefix(s string) string {
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		return s[2:]
	}
	return s
}
