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

// Package scheduler sweeps the on-chain workflow registry on an interval,
// evaluates each workflow's trigger, and pushes ready ones onto the job
// queue for the worker to execute.
package scheduler

import (
	"context"
	"encoding/hex"
	"sync"
	"time"

	"github.com/autometa/engine/chain"
	"github.com/autometa/engine/internal/log"
	"github.com/autometa/engine/queue"
	"github.com/autometa/engine/trigger"
)

var logger = log.NewModuleLogger(log.Scheduler)

// Registry is the read side of chain.RegistryGateway the scheduler needs.
type Registry interface {
	TotalCount(ctx context.Context) (uint64, error)
	GetWorkflow(ctx context.Context, id uint64) (chain.Workflow, error)
}

// Enqueuer is the write side of queue.JobQueue the scheduler needs,
// narrowed out so tests can substitute an in-memory fake.
type Enqueuer interface {
	Push(job queue.Job) error
	Len() (int64, error)
}

// Scheduler runs the sweep loop: one goroutine per workflow id per sweep,
// bounded by a semaphore so a registry with many workflows can't spawn an
// unbounded number of concurrent RPC calls.
type Scheduler struct {
	Registry     Registry
	Queue        Enqueuer
	TimeTrigger  *trigger.TimeEvaluator
	PriceTrigger *trigger.PriceEvaluator
	EventTrigger *trigger.WalletEventEvaluator

	PollInterval          time.Duration
	MaxConcurrentSweepIDs int
}

// Run executes sweeps on PollInterval until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) {
	logger.Info("scheduler loop started", "poll_interval", s.PollInterval)
	for {
		if err := s.runOnce(ctx); err != nil {
			logger.Error("sweep failed", "err", err)
		}
		select {
		case <-ctx.Done():
			logger.Info("scheduler stopped")
			return
		case <-time.After(s.PollInterval):
		}
	}
}

// runOnce performs a single sweep: fan out across every registered
// workflow id, collect the ones whose trigger fired, and enqueue them.
func (s *Scheduler) runOnce(ctx context.Context) error {
	total, err := s.Registry.TotalCount(ctx)
	if err != nil {
		return err
	}
	logger.Debug("scanning workflows", "total", total)

	limit := s.MaxConcurrentSweepIDs
	if limit <= 0 {
		limit = 3
	}
	sem := make(chan struct{}, limit)

	// Results are written to a pre-sized slice indexed by id-1, not
	// appended on completion, so ties among simultaneously-ready
	// workflows are still broken by ascending workflow id (the scan
	// order) regardless of which goroutine's RPC/HTTP call returns
	// first — matching asyncio.gather's order-preserving result list.
	var wg sync.WaitGroup
	results := make([]chain.Workflow, total)
	ready := make([]bool, total)
	for id := uint64(1); id <= total; id++ {
		id := id
		wg.Add(1)
		sem <- struct{}{}
		go func() {
			defer wg.Done()
			defer func() { <-sem }()
			wf, isReady := s.evaluate(ctx, id)
			if isReady {
				results[id-1] = wf
				ready[id-1] = true
			}
		}()
	}
	wg.Wait()

	readyCount := 0
	for i, isReady := range ready {
		if !isReady {
			continue
		}
		s.enqueue(results[i])
		readyCount++
	}
	if readyCount > 0 {
		qlen, err := s.Queue.Len()
		if err != nil {
			logger.Warn("failed to read queue length", "err", err)
		}
		logger.Info("enqueued ready workflows", "count", readyCount, "queue_length", qlen)
	}
	return nil
}

// evaluate fetches and trigger-checks a single workflow id. Any per-id
// error is logged and treated as not-ready so one bad id never aborts a
// sweep, per the original source's per-task error containment.
func (s *Scheduler) evaluate(ctx context.Context, id uint64) (chain.Workflow, bool) {
	wf, err := s.Registry.GetWorkflow(ctx, id)
	if err != nil {
		logger.Error("failed to fetch workflow", "id", id, "err", err)
		return chain.Workflow{}, false
	}

	switch wf.TriggerType {
	case chain.TriggerTime:
		return wf, s.TimeTrigger.IsReady(wf)
	case chain.TriggerPrice:
		ready, err := s.PriceTrigger.IsReady(ctx, wf)
		if err != nil {
			logger.Error("price trigger error", "id", id, "err", err)
			return chain.Workflow{}, false
		}
		return wf, ready
	case chain.TriggerWalletEvent:
		ready, err := s.EventTrigger.IsReady(ctx, wf)
		if err != nil {
			logger.Error("wallet event trigger error", "id", id, "err", err)
			return chain.Workflow{}, false
		}
		return wf, ready
	default:
		return chain.Workflow{}, false
	}
}

func (s *Scheduler) enqueue(wf chain.Workflow) {
	job := queue.Job{
		WorkflowID:  wf.ID,
		Owner:       wf.Owner,
		TriggerType: uint8(wf.TriggerType),
		ActionType:  uint8(wf.ActionType),
		ActionData:  "0x" + hex.EncodeToString(wf.ActionData),
		NextRun:     wf.NextRun,
		Interval:    wf.Interval,
	}
	if wf.GasBudget != nil {
		job.GasBudget = wf.GasBudget.String()
	}
	if err := s.Queue.Push(job); err != nil {
		logger.Error("failed to enqueue workflow", "id", wf.ID, "err", err)
		return
	}
	logger.Info("enqueued workflow", "id", wf.ID, "owner", wf.Owner)
}
