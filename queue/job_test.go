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

package queue

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestJobJSONKeysMatchWireFormat guards the field names the worker and
// any still-running Python-side producer must agree on: the original
// source reads job["workflowId"], job["actionData"], etc. directly out
// of the same Redis list, so a silent camelCase/snake_case drift here
// would desync the two without either side erroring.
func TestJobJSONKeysMatchWireFormat(t *testing.T) {
	job := Job{
		WorkflowID:  7,
		Owner:       "0xabc",
		TriggerType: 1,
		ActionType:  2,
		ActionData:  "0xdead",
		NextRun:     1234,
		GasBudget:   "1000",
		Interval:    60,
		RetryCount:  0,
	}
	raw, err := json.Marshal(job)
	require.NoError(t, err)

	var m map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &m))

	for _, key := range []string{"workflowId", "owner", "triggerType", "actionType", "actionData", "nextRun", "gasBudget", "interval", "retryCount"} {
		_, ok := m[key]
		assert.True(t, ok, "expected wire key %q in encoded job", key)
	}
}
