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

package trigger

import (
	"time"

	"github.com/autometa/engine/chain"
)

// TimeEvaluator is the no-I/O predicate for TIME-triggered workflows.
type TimeEvaluator struct {
	// Now is overridable for tests; defaults to time.Now when nil.
	Now func() time.Time
}

// IsReady reports whether wf is active and its nextRun has arrived.
func (e *TimeEvaluator) IsReady(wf chain.Workflow) bool {
	if !wf.Active {
		return false
	}
	now := time.Now
	if e.Now != nil {
		now = e.Now
	}
	return now().Unix() >= wf.NextRun
}
