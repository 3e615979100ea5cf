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

// Package worker pulls jobs off the queue one at a time and executes
// them on-chain via the signer. Unlike the original source's job_worker,
// this loop makes exactly one execution attempt per job: no in-worker
// retry loop, no re-enqueue on failure. A failed job is logged and
// recorded to history, then dropped. This is the authoritative
// resolution of the two competing job_worker variants found in the
// original source — one with 3-attempt exponential backoff and
// re-enqueue, one without — per the design decision to leave
// re-evaluating and re-enqueueing a failed workflow to the scheduler's
// next sweep, not the worker.
package worker

import (
	"context"
	"encoding/hex"
	"math/big"
	"strings"
	"time"

	"github.com/autometa/engine/chain"
	"github.com/autometa/engine/history"
	"github.com/autometa/engine/internal/fault"
	"github.com/autometa/engine/internal/log"
	"github.com/autometa/engine/queue"
)

var logger = log.NewModuleLogger(log.Worker)

// defaultInterval is used when a job carries no interval, matching
// job_worker.py's "interval = job.get('interval', 60)" default.
const defaultInterval = int64(60)

// Dequeuer is the read side of queue.JobQueue the worker needs.
type Dequeuer interface {
	Pop(timeout time.Duration) (queue.Job, bool, error)
}

// Escrow is the read side of chain.EscrowService the worker needs.
type Escrow interface {
	Balance(ctx context.Context, owner string) (*big.Int, error)
}

// Executor is the part of chain.Signer the worker needs: it signs and
// submits the execution transaction.
type Executor interface {
	ExecuteWorkflow(ctx context.Context, workflowID uint64, actionData []byte, newNextRun int64, user string, gasToCharge *big.Int) (*chain.ExecutionResult, error)
}

// Worker is the sequential job-processing loop. It is deliberately
// single-threaded: the signer assumes a single in-flight nonce holder,
// so two concurrent workers sharing one key would race on PendingNonceAt.
type Worker struct {
	Queue    Dequeuer
	Escrow   Escrow
	Executor Executor
	History  *history.Store

	PopTimeout time.Duration
}

// Run pulls and processes jobs until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) {
	logger.Info("worker loop started")
	timeout := w.PopTimeout
	if timeout <= 0 {
		timeout = queue.DefaultPopTimeout
	}
	for {
		select {
		case <-ctx.Done():
			logger.Info("worker stopped")
			return
		default:
		}

		job, ok, err := w.Queue.Pop(timeout)
		if err != nil {
			logger.Error("failed to pop job", "err", err)
			continue
		}
		if !ok {
			continue
		}
		w.process(ctx, job)
	}
}

// process executes a single job exactly once, recording the terminal
// outcome to history regardless of success or failure.
func (w *Worker) process(ctx context.Context, job queue.Job) {
	logger.Info("processing job", "workflow", job.WorkflowID, "owner", job.Owner)

	gasBudget, ok := new(big.Int).SetString(job.GasBudget, 10)
	if !ok {
		gasBudget = big.NewInt(0)
	}

	if balance, err := w.Escrow.Balance(ctx, job.Owner); err != nil {
		// Fail-safe-proceed: an escrow read failure shouldn't block
		// execution the way an actually-insufficient balance should.
		logger.Warn("escrow balance check failed, proceeding anyway", "workflow", job.WorkflowID, "err", err)
	} else if balance.Cmp(gasBudget) < 0 {
		logger.Error("owner escrow balance below gas budget, dropping job", "workflow", job.WorkflowID, "balance", balance.String(), "gas_budget", gasBudget.String())
		w.History.Append(history.Record{
			WorkflowID: job.WorkflowID,
			Succeeded:  false,
			Kind:       fault.Underfunded,
			Err:        "owner escrow balance below gas budget",
			At:         time.Now(),
		})
		return
	}

	actionData, err := decodeActionData(job.ActionData)
	if err != nil {
		logger.Error("malformed action data, dropping job", "workflow", job.WorkflowID, "err", err)
		w.History.Append(history.Record{
			WorkflowID: job.WorkflowID,
			Succeeded:  false,
			Kind:       fault.Malformed,
			Err:        err.Error(),
			At:         time.Now(),
		})
		return
	}

	interval := job.Interval
	if interval == 0 {
		interval = defaultInterval
	}
	newNextRun := time.Now().Unix() + interval

	result, err := w.Executor.ExecuteWorkflow(ctx, job.WorkflowID, actionData, newNextRun, job.Owner, gasBudget)
	if err != nil {
		kind := fault.Classify(err)
		logger.Error("execution failed", "workflow", job.WorkflowID, "kind", kind, "err", err)
		w.History.Append(history.Record{
			WorkflowID: job.WorkflowID,
			Succeeded:  false,
			Kind:       kind,
			Err:        err.Error(),
			At:         time.Now(),
		})
		return
	}

	rec := history.Record{
		WorkflowID: job.WorkflowID,
		TxHash:     result.TxHash,
		At:         time.Now(),
	}
	switch {
	case result.Receipt == nil:
		rec.Kind = fault.ReceiptTimeout
		rec.Err = "receipt not confirmed before timeout"
		logger.Warn("receipt not confirmed before timeout", "workflow", job.WorkflowID, "tx", result.TxHash.Hex())
	case result.Receipt.Status == 1:
		rec.Succeeded = true
		logger.Info("workflow executed successfully", "workflow", job.WorkflowID, "tx", result.TxHash.Hex())
	default:
		rec.Kind = fault.Revert
		rec.Err = "transaction reverted"
		logger.Error("workflow execution reverted", "workflow", job.WorkflowID, "tx", result.TxHash.Hex())
	}
	w.History.Append(rec)
}

func decodeActionData(raw string) ([]byte, error) {
	trimmed := strings.TrimPrefix(raw, "0x")
	if trimmed == "" {
		return nil, nil
	}
	data, err := hex.DecodeString(trimmed)
	if err != nil {
		return nil, err
	}
	return data, nil
}
