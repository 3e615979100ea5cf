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

// Package queue is the durable handoff between the scheduler and the
// worker: a Redis list the scheduler RPUSHes ready jobs onto and the
// worker BLPOPs from, one at a time.
package queue

// Job is one scheduler-to-worker handoff: everything the worker needs
// to execute a single ready workflow without going back to the chain
// for anything but the execution itself.
type Job struct {
	WorkflowID uint64 `json:"workflowId"`
	Owner      string `json:"owner"`
	TriggerType uint8  `json:"triggerType"`
	ActionType  uint8  `json:"actionType"`
	ActionData  string `json:"actionData"` // 0x-prefixed hex
	NextRun     int64  `json:"nextRun"`
	GasBudget   string `json:"gasBudget"` // decimal string, wei
	Interval    int64  `json:"interval"`
	RetryCount  int    `json:"retryCount"`
}
