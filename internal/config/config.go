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

// Package config loads the engine's configuration from the exhaustive
// environment variable list. No third-party config loader (viper,
// envconfig, godotenv) appears anywhere in the corpus this was built
// from, so this one ambient concern is plain os.Getenv plus defaults.
package config

import (
	"os"
	"strconv"
	"strings"
)

// Config holds every environment-derived setting the engine uses.
type Config struct {
	RPCURL                string
	ChainID                int64
	WorkflowRegistryAddr   string
	ActionExecutorAddr     string
	FeeEscrowAddr          string
	WorkerPrivateKey       string
	RedisURL               string
	RedisCacheTTLSeconds   int
	PriceFeedURL           string
	SupportedAssets        []string
	BackendAPIURL          string
	UseBackendIntegration  bool
	PollIntervalSeconds    int
	MaxConcurrentExecution int
}

// Load reads the Config from the process environment, applying the
// defaults the off-chain engine has always shipped with.
func Load() Config {
	return Config{
		RPCURL:                 getenv("MOONBASE_RPC", "https://rpc.api.moonbase.moonbeam.network"),
		ChainID:                getenvInt64("CHAIN_ID", 1287),
		WorkflowRegistryAddr:   os.Getenv("WORKFLOW_REGISTRY_ADDRESS"),
		ActionExecutorAddr:     os.Getenv("ACTION_EXECUTOR_ADDRESS"),
		FeeEscrowAddr:          os.Getenv("FEE_ESCROW_ADDRESS"),
		WorkerPrivateKey:       firstNonEmpty(os.Getenv("RELAYER_PRIVATE_KEY"), os.Getenv("WORKER_PRIVATE_KEY")),
		RedisURL:               getenv("REDIS_URL", "redis://localhost:6379/0"),
		RedisCacheTTLSeconds:   getenvInt("REDIS_CACHE_TTL", 30),
		PriceFeedURL:           getenv("PRICE_FEED_URL", "https://api.coingecko.com/api/v3/simple/price"),
		SupportedAssets:        getenvList("SUPPORTED_ASSETS"),
		BackendAPIURL:          getenv("BACKEND_API_URL", "http://localhost:8000"),
		UseBackendIntegration:  getenvBool("USE_BACKEND_INTEGRATION", true),
		PollIntervalSeconds:    getenvInt("POLL_INTERVAL", 10),
		MaxConcurrentExecution: getenvInt("MAX_CONCURRENT_EXECUTIONS", 3),
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

func getenvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func getenvInt64(key string, def int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return def
	}
	return n
}

func getenvBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func getenvList(key string) []string {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
