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

// Package price implements the three-tier price lookup: local in-process
// TTL cache, backend HTTP cache, direct oracle HTTP fetch. This is the
// "enhanced" adapter from the design notes; the basic single-tier
// variant is not carried forward (§9.2: the enhanced adapter is
// authoritative).
package price

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/autometa/engine/internal/log"
)

var logger = log.NewModuleLogger(log.Price)

const (
	httpTimeout    = 10 * time.Second
	httpConnect    = 5 * time.Second
	backendCacheOK = "backend-cache"
)

// Adapter is the three-tier price lookup described in spec §4.3.
type Adapter struct {
	httpClient *http.Client

	oracleURL string
	backendURL string
	useBackend bool

	cache  *localCache
	health *healthState
}

// NewAdapter builds an Adapter. backendURL may be empty, in which case
// the backend tier is always skipped (equivalent to USE_BACKEND_INTEGRATION=false).
func NewAdapter(oracleURL, backendURL string, useBackend bool) *Adapter {
	return &Adapter{
		httpClient: &http.Client{Timeout: httpTimeout},
		oracleURL:  oracleURL,
		backendURL: backendURL,
		useBackend: useBackend && backendURL != "",
		cache:      newLocalCache(),
		health:     &healthState{},
	}
}

// SetBackendAvailable lets callers (tests, or a failover controller)
// force the sticky health flag, per enhanced_price_adapter.py's
// set_backend_available.
func (a *Adapter) SetBackendAvailable(healthy bool) {
	a.health.setManual(healthy)
}

// GetPriceUSD resolves symbol's current USD price via the three tiers,
// writing the local cache on any tier's success.
func (a *Adapter) GetPriceUSD(ctx context.Context, symbol string) (float64, string, error) {
	key := ResolveOracleID(symbol)
	if entry, ok := a.cache.get(key); ok {
		logger.Debug("price from local cache", "symbol", key, "price", entry.Price)
		return entry.Price, entry.Source + "-cached", nil
	}

	var (
		price  float64
		source string
		err    error
	)

	if a.useBackend && a.backendAvailable(ctx) {
		price, source, err = a.fetchFromBackend(ctx, key)
		if err != nil {
			logger.Warn("backend price fetch failed, falling back", "symbol", key, "err", err)
			a.health.markUnhealthy()
		}
	}

	if source == "" {
		price, err = a.fetchOracleDirect(ctx, key)
		if err != nil {
			return 0, "", fmt.Errorf("all price sources failed for %s: %w", symbol, err)
		}
		source = "coingecko-direct"
	}

	a.cache.set(key, Entry{Price: price, Timestamp: time.Now(), Source: source})
	return price, source, nil
}

// GetMultiplePrices fetches prices for several symbols in parallel,
// suppressing individual failures into the returned map (spec §4.3).
func (a *Adapter) GetMultiplePrices(ctx context.Context, symbols []string) map[string]Entry {
	var (
		mu  sync.Mutex
		wg  sync.WaitGroup
		out = make(map[string]Entry, len(symbols))
	)
	for _, sym := range symbols {
		sym := sym
		wg.Add(1)
		go func() {
			defer wg.Done()
			price, source, err := a.GetPriceUSD(ctx, sym)
			if err != nil {
				logger.Error("failed to get price", "symbol", sym, "err", err)
				return
			}
			mu.Lock()
			out[sym] = Entry{Price: price, Timestamp: time.Now(), Source: source}
			mu.Unlock()
		}()
	}
	wg.Wait()
	return out
}

func (a *Adapter) backendAvailable(ctx context.Context) bool {
	if !a.health.allowProbe() && a.health.isHealthy() {
		return true
	}
	if !a.health.allowProbe() {
		return false
	}
	healthy := a.healthCheck(ctx)
	if healthy {
		a.health.markHealthy()
	} else {
		a.health.markUnhealthy()
	}
	return healthy
}

type healthzResponse struct {
	Success bool   `json:"success"`
	Status  string `json:"status"`
}

func (a *Adapter) healthCheck(ctx context.Context) bool {
	var resp healthzResponse
	if err := a.getJSON(ctx, a.backendURL+"/api/utils/healthz", &resp); err != nil {
		return false
	}
	return resp.Success && resp.Status == "healthy"
}

type backendPriceResponse struct {
	Success  bool    `json:"success"`
	PriceUSD float64 `json:"price_usd"`
}

func (a *Adapter) fetchFromBackend(ctx context.Context, symbol string) (float64, string, error) {
	var resp backendPriceResponse
	endpoint := a.backendURL + "/api/price/" + url.PathEscape(symbol)
	if err := a.getJSON(ctx, endpoint, &resp); err != nil {
		return 0, "", err
	}
	if !resp.Success {
		return 0, "", fmt.Errorf("backend price query unsuccessful for %s", symbol)
	}
	return resp.PriceUSD, "backend-" + backendCacheOK, nil
}

func (a *Adapter) fetchOracleDirect(ctx context.Context, tokenID string) (float64, error) {
	q := url.Values{"ids": {tokenID}, "vs_currencies": {"usd"}}
	endpoint := a.oracleURL + "?" + q.Encode()

	var raw map[string]map[string]float64
	if err := a.getJSON(ctx, endpoint, &raw); err != nil {
		return 0, err
	}
	inner, ok := raw[tokenID]
	if !ok {
		return 0, fmt.Errorf("price not found in oracle response for %s", tokenID)
	}
	usd, ok := inner["usd"]
	if !ok {
		return 0, fmt.Errorf("price not found in oracle response for %s", tokenID)
	}
	return usd, nil
}

func (a *Adapter) getJSON(ctx context.Context, endpoint string, out interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, httpTimeout)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	resp, err := a.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d from %s", resp.StatusCode, endpoint)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
