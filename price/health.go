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
	"sync"
	"time"
)

// backendHealth is one of Unknown/Healthy/Unhealthy. This replaces the
// original source's sticky "backend unavailable" boolean, which the
// design notes flag as having no recovery path, with a small state
// machine that re-probes on a timer (see SPEC_FULL §4.3 and DESIGN.md's
// open question decision 3).
type backendHealth int

const (
	healthUnknown backendHealth = iota
	healthHealthy
	healthUnhealthy
)

// reprobeInterval is how long an Unhealthy verdict is trusted before the
// adapter allows another health check to run.
const reprobeInterval = 60 * time.Second

type healthState struct {
	mu          sync.Mutex
	state       backendHealth
	markedAt    time.Time
}

// allowProbe reports whether a fresh health check should run: always
// when state is Unknown, and again once reprobeInterval has elapsed
// since the last Unhealthy verdict.
func (h *healthState) allowProbe() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.state != healthUnhealthy {
		return h.state == healthUnknown
	}
	if time.Since(h.markedAt) >= reprobeInterval {
		h.state = healthUnknown
		return true
	}
	return false
}

func (h *healthState) markHealthy() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.state = healthHealthy
	h.markedAt = time.Now()
}

func (h *healthState) markUnhealthy() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.state = healthUnhealthy
	h.markedAt = time.Now()
}

func (h *healthState) isHealthy() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state == healthHealthy
}

func (h *healthState) setManual(healthy bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if healthy {
		h.state = healthHealthy
	} else {
		h.state = healthUnhealthy
	}
	h.markedAt = time.Now()
}
