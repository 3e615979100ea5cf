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

package worker

import (
	"context"
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autometa/engine/chain"
	"github.com/autometa/engine/history"
	"github.com/autometa/engine/internal/fault"
	"github.com/autometa/engine/queue"
)

type fakeEscrow struct {
	balance *big.Int
	err     error
}

func (f *fakeEscrow) Balance(ctx context.Context, owner string) (*big.Int, error) {
	return f.balance, f.err
}

type fakeExecutor struct {
	result *chain.ExecutionResult
	err    error
	calls  int
}

func (f *fakeExecutor) ExecuteWorkflow(ctx context.Context, workflowID uint64, actionData []byte, newNextRun int64, user string, gasToCharge *big.Int) (*chain.ExecutionResult, error) {
	f.calls++
	return f.result, f.err
}

func TestProcessDropsJobWhenUnderfunded(t *testing.T) {
	escrow := &fakeEscrow{balance: big.NewInt(1)}
	exec := &fakeExecutor{result: &chain.ExecutionResult{}}
	store := history.NewStore(10)

	w := &Worker{Escrow: escrow, Executor: exec, History: store}
	job := queue.Job{WorkflowID: 1, Owner: "0xabc", GasBudget: "1000", ActionData: "0x"}

	w.process(context.Background(), job)

	assert.Equal(t, 0, exec.calls, "execution must not be attempted when balance is below gas budget")
	records := store.ForWorkflow(1)
	require.Len(t, records, 1)
	assert.False(t, records[0].Succeeded)
	assert.Equal(t, fault.Underfunded, records[0].Kind)
}

func TestProcessProceedsWhenEscrowCheckErrors(t *testing.T) {
	escrow := &fakeEscrow{err: errors.New("rpc timeout")}
	exec := &fakeExecutor{result: &chain.ExecutionResult{
		TxHash:  common.HexToHash("0x01"),
		Receipt: &types.Receipt{Status: types.ReceiptStatusSuccessful},
	}}
	store := history.NewStore(10)

	w := &Worker{Escrow: escrow, Executor: exec, History: store}
	job := queue.Job{WorkflowID: 2, Owner: "0xabc", GasBudget: "1000", ActionData: "0x"}

	w.process(context.Background(), job)

	assert.Equal(t, 1, exec.calls, "execution should proceed on a fail-safe escrow check error")
	records := store.ForWorkflow(2)
	require.Len(t, records, 1)
	assert.True(t, records[0].Succeeded)
}

func TestProcessSingleAttemptNoRetryOnFailure(t *testing.T) {
	escrow := &fakeEscrow{balance: big.NewInt(1_000_000)}
	exec := &fakeExecutor{err: errors.New("execution reverted: insufficient balance")}
	store := history.NewStore(10)

	w := &Worker{Escrow: escrow, Executor: exec, History: store}
	job := queue.Job{WorkflowID: 3, Owner: "0xabc", GasBudget: "1", ActionData: "0xdeadbeef"}

	w.process(context.Background(), job)

	assert.Equal(t, 1, exec.calls, "a failed execution must not be retried in-process")
	records := store.ForWorkflow(3)
	require.Len(t, records, 1)
	assert.False(t, records[0].Succeeded)
	assert.Equal(t, fault.Underfunded, records[0].Kind)
}

func TestProcessRejectsMalformedActionData(t *testing.T) {
	escrow := &fakeEscrow{balance: big.NewInt(1_000_000)}
	exec := &fakeExecutor{}
	store := history.NewStore(10)

	w := &Worker{Escrow: escrow, Executor: exec, History: store}
	job := queue.Job{WorkflowID: 4, Owner: "0xabc", GasBudget: "1", ActionData: "0xzz"}

	w.process(context.Background(), job)

	assert.Equal(t, 0, exec.calls)
	records := store.ForWorkflow(4)
	require.Len(t, records, 1)
	assert.Equal(t, fault.Malformed, records[0].Kind)
}

func TestRunStopsOnContextCancel(t *testing.T) {
	q := &blockingDequeuer{}
	store := history.NewStore(10)
	w := &Worker{Queue: q, Escrow: &fakeEscrow{balance: big.NewInt(0)}, Executor: &fakeExecutor{}, History: store, PopTimeout: 5 * time.Millisecond}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	done := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(1 * time.Second):
		t.Fatal("worker did not stop after context cancellation")
	}
}

type blockingDequeuer struct{}

func (b *blockingDequeuer) Pop(timeout time.Duration) (queue.Job, bool, error) {
	time.Sleep(timeout)
	return queue.Job{}, false, nil
}
