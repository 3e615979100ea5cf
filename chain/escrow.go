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
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/pkg/errors"
)

// EscrowService reads a user's gas balance from the FeeEscrow contract.
// It is the worker's preflight check: balance < gasBudget drops the job
// without spending a transaction.
type EscrowService struct {
	escrow *feeEscrowContract
}

// NewEscrowService binds the FeeEscrow contract at escrowAddr.
func NewEscrowService(client *ethclient.Client, escrowAddr string) (*EscrowService, error) {
	esc, err := newFeeEscrowContract(common.HexToAddress(escrowAddr), client)
	if err != nil {
		return nil, errors.Wrap(err, "bind FeeEscrow")
	}
	return &EscrowService{escrow: esc}, nil
}

// Balance returns owner's current escrow balance, in the smallest unit of
// native currency.
func (e *EscrowService) Balance(ctx context.Context, owner string) (*big.Int, error) {
	bal, err := e.escrow.balances(&bind.CallOpts{Context: ctx}, common.HexToAddress(owner))
	if err != nil {
		return nil, errors.Wrapf(err, "balances(%s)", owner)
	}
	return bal, nil
}
