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

// This file is derived from client/bridge_client.go's thin wrapping of an
// RPC-backed contract client, adapted to the WorkflowRegistry interface.

package chain

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/pkg/errors"

	"github.com/autometa/engine/internal/log"
)

var registryLogger = log.NewModuleLogger(log.Chain)

// RegistryGateway exposes read-only access to the on-chain workflow
// catalog. It is stateless beyond the bound contract and RPC client: any
// network or decode error surfaces as a plain Go error for the caller
// (the scheduler) to catch per-id, so one bad id never aborts a sweep.
type RegistryGateway struct {
	client   *ethclient.Client
	registry *registryContract
}

// NewRegistryGateway binds the WorkflowRegistry contract at registryAddr
// over an already dialled client.
func NewRegistryGateway(client *ethclient.Client, registryAddr string) (*RegistryGateway, error) {
	addr := common.HexToAddress(registryAddr)
	reg, err := newRegistryContract(addr, client)
	if err != nil {
		return nil, errors.Wrap(err, "bind WorkflowRegistry")
	}
	registryLogger.Info("registry gateway initialized", "address", registryAddr)
	return &RegistryGateway{client: client, registry: reg}, nil
}

// TotalCount returns the number of registered workflows.
func (g *RegistryGateway) TotalCount(ctx context.Context) (uint64, error) {
	n, err := g.registry.totalWorkflows(&bind.CallOpts{Context: ctx})
	if err != nil {
		return 0, errors.Wrap(err, "totalWorkflows")
	}
	return n.Uint64(), nil
}

// GetWorkflow fetches and decodes the workflow snapshot for id.
func (g *RegistryGateway) GetWorkflow(ctx context.Context, id uint64) (Workflow, error) {
	raw, err := g.registry.getWorkflow(&bind.CallOpts{Context: ctx}, new(big.Int).SetUint64(id))
	if err != nil {
		return Workflow{}, errors.Wrapf(err, "getWorkflow(%d)", id)
	}
	return Workflow{
		ID:          id,
		Owner:       raw.Owner.Hex(),
		TriggerType: TriggerType(raw.TriggerType),
		TriggerData: raw.TriggerData,
		ActionType:  ActionType(raw.ActionType),
		ActionData:  raw.ActionData,
		NextRun:     raw.NextRun.Int64(),
		Interval:    raw.Interval.Int64(),
		Active:      raw.Active,
		GasBudget:   raw.GasBudget,
	}, nil
}

// GetWorkflowsByOwner returns the ids owned by addr.
func (g *RegistryGateway) GetWorkflowsByOwner(ctx context.Context, addr string) ([]uint64, error) {
	ids, err := g.registry.getWorkflowsByOwner(&bind.CallOpts{Context: ctx}, common.HexToAddress(addr))
	if err != nil {
		return nil, errors.Wrap(err, "getWorkflowsByOwner")
	}
	out := make([]uint64, len(ids))
	for i, id := range ids {
		out[i] = id.Uint64()
	}
	return out, nil
}
