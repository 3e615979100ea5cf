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

package price

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestHealthStateAllowsInitialProbe(t *testing.T) {
	h := &healthState{}
	assert.True(t, h.allowProbe())
}

func TestHealthStateStaysUnhealthyUntilReprobe(t *testing.T) {
	h := &healthState{}
	h.markUnhealthy()
	assert.False(t, h.allowProbe(), "an unhealthy verdict should be trusted until reprobeInterval elapses")

	h.markedAt = time.Now().Add(-reprobeInterval)
	assert.True(t, h.allowProbe(), "reprobe should be allowed once the interval has elapsed")
}

func TestHealthStateManualOverride(t *testing.T) {
	h := &healthState{}
	h.setManual(true)
	assert.True(t, h.isHealthy())

	h.setManual(false)
	assert.False(t, h.isHealthy())
}
