// Code generated in the style of abigen output, then hand-adapted.
// This file is part of the autometa library.

package chain

import (
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
)

// registryABI is the input ABI used to bind WorkflowRegistry, per spec §6.
const registryABI = `[
	{"constant":true,"inputs":[],"name":"totalWorkflows","outputs":[{"name":"","type":"uint256"}],"stateMutability":"view","type":"function"},
	{"constant":true,"inputs":[{"name":"workflowId","type":"uint256"}],"name":"getWorkflow","outputs":[{"components":[
		{"name":"owner","type":"address"},
		{"name":"triggerType","type":"uint8"},
		{"name":"triggerData","type":"bytes"},
		{"name":"actionType","type":"uint8"},
		{"name":"actionData","type":"bytes"},
		{"name":"nextRun","type":"uint256"},
		{"name":"interval","type":"uint256"},
		{"name":"active","type":"bool"},
		{"name":"gasBudget","type":"uint256"}
	],"name":"","type":"tuple"}],"stateMutability":"view","type":"function"},
	{"constant":true,"inputs":[{"name":"owner","type":"address"}],"name":"getWorkflowsByOwner","outputs":[{"name":"","type":"uint256[]"}],"stateMutability":"view","type":"function"}
]`

// actionExecutorABI is the input ABI used to bind ActionExecutor, per spec §6.
const actionExecutorABI = `[
	{"constant":false,"inputs":[
		{"name":"id","type":"uint256"},
		{"name":"actionData","type":"bytes"},
		{"name":"newNextRun","type":"uint256"},
		{"name":"user","type":"address"},
		{"name":"gasToCharge","type":"uint256"}
	],"name":"executeWorkflow","outputs":[],"stateMutability":"nonpayable","type":"function"},
	{"anonymous":false,"inputs":[
		{"indexed":false,"name":"id","type":"uint256"},
		{"indexed":false,"name":"user","type":"address"},
		{"indexed":false,"name":"success","type":"bool"}
	],"name":"WorkflowExecuted","type":"event"}
]`

// feeEscrowABI is the input ABI used to bind FeeEscrow, per spec §6.
const feeEscrowABI = `[
	{"constant":true,"inputs":[{"name":"","type":"address"}],"name":"balances","outputs":[{"name":"","type":"uint256"}],"stateMutability":"view","type":"function"}
]`

// rawWorkflow mirrors the tuple getWorkflow returns, before translation
// into the package's own Workflow view type.
type rawWorkflow struct {
	Owner       common.Address
	TriggerType uint8
	TriggerData []byte
	ActionType  uint8
	ActionData  []byte
	NextRun     *big.Int
	Interval    *big.Int
	Active      bool
	GasBudget   *big.Int
}

// registryContract is a thin abigen-style binding around WorkflowRegistry.
type registryContract struct {
	contract *bind.BoundContract
}

func newRegistryContract(address common.Address, backend bind.ContractBackend) (*registryContract, error) {
	parsed, err := abi.JSON(strings.NewReader(registryABI))
	if err != nil {
		return nil, err
	}
	return &registryContract{contract: bind.NewBoundContract(address, parsed, backend, backend, backend)}, nil
}

func (r *registryContract) totalWorkflows(opts *bind.CallOpts) (*big.Int, error) {
	var out []interface{}
	err := r.contract.Call(opts, &out, "totalWorkflows")
	if err != nil {
		return nil, err
	}
	return *abi.ConvertType(out[0], new(big.Int)).(*big.Int), nil
}

func (r *registryContract) getWorkflow(opts *bind.CallOpts, id *big.Int) (rawWorkflow, error) {
	var out []interface{}
	err := r.contract.Call(opts, &out, "getWorkflow", id)
	if err != nil {
		return rawWorkflow{}, err
	}
	return *abi.ConvertType(out[0], new(rawWorkflow)).(*rawWorkflow), nil
}

func (r *registryContract) getWorkflowsByOwner(opts *bind.CallOpts, owner common.Address) ([]*big.Int, error) {
	var out []interface{}
	err := r.contract.Call(opts, &out, "getWorkflowsByOwner", owner)
	if err != nil {
		return nil, err
	}
	return *abi.ConvertType(out[0], new([]*big.Int)).(*[]*big.Int), nil
}

// actionExecutorContract is a thin abigen-style binding around ActionExecutor.
type actionExecutorContract struct {
	contract *bind.BoundContract
}

func newActionExecutorContract(address common.Address, backend bind.ContractBackend) (*actionExecutorContract, error) {
	parsed, err := abi.JSON(strings.NewReader(actionExecutorABI))
	if err != nil {
		return nil, err
	}
	return &actionExecutorContract{contract: bind.NewBoundContract(address, parsed, backend, backend, backend)}, nil
}

func (a *actionExecutorContract) pack(id *big.Int, actionData []byte, newNextRun *big.Int, user common.Address, gasToCharge *big.Int) ([]byte, error) {
	return a.contract.Abi().Pack("executeWorkflow", id, actionData, newNextRun, user, gasToCharge)
}

// feeEscrowContract is a thin abigen-style binding around FeeEscrow.
type feeEscrowContract struct {
	contract *bind.BoundContract
}

func newFeeEscrowContract(address common.Address, backend bind.ContractBackend) (*feeEscrowContract, error) {
	parsed, err := abi.JSON(strings.NewReader(feeEscrowABI))
	if err != nil {
		return nil, err
	}
	return &feeEscrowContract{contract: bind.NewBoundContract(address, parsed, backend, backend, backend)}, nil
}

func (f *feeEscrowContract) balances(opts *bind.CallOpts, owner common.Address) (*big.Int, error) {
	var out []interface{}
	err := f.contract.Call(opts, &out, "balances", owner)
	if err != nil {
		return nil, err
	}
	return *abi.ConvertType(out[0], new(big.Int)).(*big.Int), nil
}
