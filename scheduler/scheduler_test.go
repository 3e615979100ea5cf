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

package scheduler

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autometa/engine/chain"
	"github.com/autometa/engine/queue"
	"github.com/autometa/engine/trigger"
)

type fakeRegistry struct {
	workflows map[uint64]chain.Workflow
	total     uint64 // overrides len(workflows) when non-zero
}

func (f *fakeRegistry) TotalCount(ctx context.Context) (uint64, error) {
	if f.total != 0 {
		return f.total, nil
	}
	return uint64(len(f.workflows)), nil
}

func (f *fakeRegistry) GetWorkflow(ctx context.Context, id uint64) (chain.Workflow, error) {
	wf, ok := f.workflows[id]
	if !ok {
		return chain.Workflow{}, assert.AnError
	}
	return wf, nil
}

type fakeEnqueuer struct {
	mu   sync.Mutex
	jobs []queue.Job
}

func (f *fakeEnqueuer) Push(job queue.Job) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.jobs = append(f.jobs, job)
	return nil
}

func (f *fakeEnqueuer) Len() (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.jobs)), nil
}

func TestRunOnceEnqueuesReadyTimeWorkflowsOnly(t *testing.T) {
	registry := &fakeRegistry{workflows: map[uint64]chain.Workflow{
		1: {ID: 1, TriggerType: chain.TriggerTime, Active: true, NextRun: 0},   // ready: nextRun in the past
		2: {ID: 2, TriggerType: chain.TriggerTime, Active: true, NextRun: 9999999999}, // not ready
		3: {ID: 3, TriggerType: chain.TriggerTime, Active: false, NextRun: 0},  // inactive
	}}
	enq := &fakeEnqueuer{}

	s := &Scheduler{
		Registry:              registry,
		Queue:                 enq,
		TimeTrigger:           &trigger.TimeEvaluator{},
		PriceTrigger:          &trigger.PriceEvaluator{},
		EventTrigger:          &trigger.WalletEventEvaluator{},
		MaxConcurrentSweepIDs: 2,
	}

	err := s.runOnce(context.Background())
	require.NoError(t, err)

	require.Len(t, enq.jobs, 1)
	assert.Equal(t, uint64(1), enq.jobs[0].WorkflowID)
}

func TestRunOnceSkipsUnfetchableWorkflows(t *testing.T) {
	// total count says 2 workflows exist but id 2 isn't in the map, simulating
	// a transient fetch failure that must not abort the rest of the sweep.
	registry := &fakeRegistry{
		total: 2,
		workflows: map[uint64]chain.Workflow{
			1: {ID: 1, TriggerType: chain.TriggerTime, Active: true, NextRun: 0},
		},
	}

	enq := &fakeEnqueuer{}
	s := &Scheduler{
		Registry:              registry,
		Queue:                 enq,
		TimeTrigger:           &trigger.TimeEvaluator{},
		PriceTrigger:          &trigger.PriceEvaluator{},
		EventTrigger:          &trigger.WalletEventEvaluator{},
		MaxConcurrentSweepIDs: 2,
	}

	err := s.runOnce(context.Background())
	require.NoError(t, err)
	require.Len(t, enq.jobs, 1)
}

// slowRegistry wraps a fakeRegistry and adds a per-id delay to
// GetWorkflow, so ids can resolve in an order other than ascending.
type slowRegistry struct {
	*fakeRegistry
	delay map[uint64]time.Duration
}

func (s *slowRegistry) GetWorkflow(ctx context.Context, id uint64) (chain.Workflow, error) {
	time.Sleep(s.delay[id])
	return s.fakeRegistry.GetWorkflow(ctx, id)
}

// TestRunOnceEnqueuesInAscendingIDOrderRegardlessOfCompletionOrder covers
// the scan-order tie-break guarantee: with several simultaneously-ready
// workflows resolving out of order (id 3 fastest, id 1 slowest), the
// enqueued jobs must still land in ascending workflow id order.
func TestRunOnceEnqueuesInAscendingIDOrderRegardlessOfCompletionOrder(t *testing.T) {
	base := &fakeRegistry{workflows: map[uint64]chain.Workflow{
		1: {ID: 1, TriggerType: chain.TriggerTime, Active: true, NextRun: 0},
		2: {ID: 2, TriggerType: chain.TriggerTime, Active: true, NextRun: 0},
		3: {ID: 3, TriggerType: chain.TriggerTime, Active: true, NextRun: 0},
		4: {ID: 4, TriggerType: chain.TriggerTime, Active: true, NextRun: 0},
	}}
	registry := &slowRegistry{
		fakeRegistry: base,
		delay: map[uint64]time.Duration{
			1: 30 * time.Millisecond,
			2: 20 * time.Millisecond,
			3: 0,
			4: 10 * time.Millisecond,
		},
	}
	enq := &fakeEnqueuer{}

	s := &Scheduler{
		Registry:              registry,
		Queue:                 enq,
		TimeTrigger:           &trigger.TimeEvaluator{},
		PriceTrigger:          &trigger.PriceEvaluator{},
		EventTrigger:          &trigger.WalletEventEvaluator{},
		MaxConcurrentSweepIDs: 4,
	}

	err := s.runOnce(context.Background())
	require.NoError(t, err)

	require.Len(t, enq.jobs, 4)
	for i, job := range enq.jobs {
		assert.Equal(t, uint64(i+1), job.WorkflowID, "jobs must be enqueued in ascending workflow id order")
	}
}

func TestRunStopsOnContextCancel(t *testing.T) {
	registry := &fakeRegistry{workflows: map[uint64]chain.Workflow{}}
	enq := &fakeEnqueuer{}
	s := &Scheduler{
		Registry:              registry,
		Queue:                 enq,
		TimeTrigger:           &trigger.TimeEvaluator{},
		PriceTrigger:          &trigger.PriceEvaluator{},
		EventTrigger:          &trigger.WalletEventEvaluator{},
		PollInterval:          10 * time.Millisecond,
		MaxConcurrentSweepIDs: 1,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 25*time.Millisecond)
	defer cancel()

	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(1 * time.Second):
		t.Fatal("scheduler did not stop after context cancellation")
	}
}
