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

// Package history is an in-process, append-only record of every
// execution outcome the worker produces, supplementing a gap the
// original source left unaddressed (no execution history was persisted
// anywhere outside chain logs). It is intentionally not durable: a
// restart loses it, the same way the worker's own in-memory state does.
package history

import (
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/autometa/engine/internal/fault"
)

// Record is one terminal outcome of a single workflow execution attempt.
type Record struct {
	WorkflowID uint64
	TxHash     common.Hash
	Succeeded  bool
	Kind       fault.Kind // Unknown when Succeeded is true
	Err        string     // empty when Succeeded is true
	At         time.Time
}

// Store is a bounded, thread-safe ring of the most recent Records.
type Store struct {
	mu      sync.RWMutex
	records []Record
	cap     int
}

// DefaultCapacity bounds memory use for a long-running worker process.
const DefaultCapacity = 1000

// NewStore creates a Store holding up to capacity records; zero means
// DefaultCapacity.
func NewStore(capacity int) *Store {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Store{cap: capacity}
}

// Append records outcome, evicting the oldest record if the store is full.
func (s *Store) Append(r Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, r)
	if len(s.records) > s.cap {
		s.records = s.records[len(s.records)-s.cap:]
	}
}

// ForWorkflow returns every retained record for workflowID, oldest first.
func (s *Store) ForWorkflow(workflowID uint64) []Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Record
	for _, r := range s.records {
		if r.WorkflowID == workflowID {
			out = append(out, r)
		}
	}
	return out
}

// Recent returns the n most recent records, newest last.
func (s *Store) Recent(n int) []Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if n <= 0 || n > len(s.records) {
		n = len(s.records)
	}
	out := make([]Record, n)
	copy(out, s.records[len(s.records)-n:])
	return out
}
