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

// Package chain holds the read-only views of on-chain state the scheduler
// and worker act on, plus the clients (registry gateway, escrow service,
// EVM signer) that talk to the WorkflowRegistry, FeeEscrow and
// ActionExecutor contracts.
package chain

import "math/big"

// TriggerType enumerates the three supported trigger kinds. Plug-in
// trigger types beyond these three are explicitly out of scope.
type TriggerType uint8

const (
	TriggerTime        TriggerType = 1
	TriggerPrice       TriggerType = 2
	TriggerWalletEvent TriggerType = 3
)

// ActionType enumerates the three supported action kinds.
type ActionType uint8

const (
	ActionNativeTransfer ActionType = 1
	ActionERC20Transfer  ActionType = 2
	ActionContractCall   ActionType = 3
)

// Workflow is a transient, read-only snapshot of one on-chain workflow.
// id is immutable, owner never changes post-create, and nextRun only ever
// advances on-chain; the off-chain core never mutates any of these fields.
type Workflow struct {
	ID          uint64
	Owner       string // 0x-prefixed hex address
	TriggerType TriggerType
	TriggerData []byte
	ActionType  ActionType
	ActionData  []byte
	NextRun     int64
	Interval    int64
	Active      bool
	GasBudget   *big.Int
}
