// Copyright 2026 The autometa Authors
// This file is part of the autometa library.
//
// The autometa library is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The autometa library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with the autometa library. If not, see <http://www.gnu.org/licenses/>.

// This file is derived from cmd/kcn/main.go, trimmed from a full node's
// flag surface down to the two-subcommand entry point this engine needs.

package main

import (
	"context"
	"fmt"
	"math/big"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ethereum/go-ethereum/ethclient"
	"gopkg.in/urfave/cli.v1"

	"github.com/autometa/engine/chain"
	"github.com/autometa/engine/history"
	"github.com/autometa/engine/internal/config"
	"github.com/autometa/engine/internal/log"
	"github.com/autometa/engine/price"
	"github.com/autometa/engine/queue"
	"github.com/autometa/engine/scheduler"
	"github.com/autometa/engine/trigger"
	"github.com/autometa/engine/worker"
)

var logger = log.NewModuleLogger(log.CMD)

var app = cli.NewApp()

func init() {
	app.Name = "autometa"
	app.Usage = "off-chain scheduler and worker for the workflow automation engine"
	app.HideVersion = true
	app.Commands = []cli.Command{
		{
			Name:   "scheduler",
			Usage:  "run the trigger-evaluation sweep loop",
			Action: runScheduler,
		},
		{
			Name:   "worker",
			Usage:  "run the job execution loop",
			Action: runWorker,
		},
	}
}

func main() {
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// shutdownContext returns a context cancelled on SIGINT/SIGTERM, so both
// long-running loops stop gracefully: the scheduler after its current
// sleep, the worker after its current job.
func shutdownContext() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("shutdown signal received")
		cancel()
	}()
	return ctx
}

func runScheduler(c *cli.Context) error {
	cfg := config.Load()
	ctx := shutdownContext()

	client, err := ethclient.DialContext(ctx, cfg.RPCURL)
	if err != nil {
		logger.Fatal("failed to dial RPC endpoint", "url", cfg.RPCURL, "err", err)
	}

	registry, err := chain.NewRegistryGateway(client, cfg.WorkflowRegistryAddr)
	if err != nil {
		logger.Fatal("failed to bind workflow registry", "err", err)
	}

	q, err := queue.New(cfg.RedisURL)
	if err != nil {
		logger.Fatal("failed to connect to job queue", "err", err)
	}

	adapter := price.NewAdapter(cfg.PriceFeedURL, cfg.BackendAPIURL, cfg.UseBackendIntegration)

	s := &scheduler.Scheduler{
		Registry:              registry,
		Queue:                 q,
		TimeTrigger:           &trigger.TimeEvaluator{},
		PriceTrigger:          &trigger.PriceEvaluator{Source: adapter},
		EventTrigger:          &trigger.WalletEventEvaluator{Client: client},
		PollInterval:          time.Duration(cfg.PollIntervalSeconds) * time.Second,
		MaxConcurrentSweepIDs: cfg.MaxConcurrentExecution,
	}
	s.Run(ctx)
	return nil
}

func runWorker(c *cli.Context) error {
	cfg := config.Load()
	ctx := shutdownContext()

	client, err := ethclient.DialContext(ctx, cfg.RPCURL)
	if err != nil {
		logger.Fatal("failed to dial RPC endpoint", "url", cfg.RPCURL, "err", err)
	}

	escrow, err := chain.NewEscrowService(client, cfg.FeeEscrowAddr)
	if err != nil {
		logger.Fatal("failed to bind fee escrow", "err", err)
	}

	signer, err := chain.NewSigner(client, cfg.WorkerPrivateKey, cfg.ActionExecutorAddr, big.NewInt(cfg.ChainID))
	if err != nil {
		logger.Fatal("failed to initialize signer", "err", err)
	}

	q, err := queue.New(cfg.RedisURL)
	if err != nil {
		logger.Fatal("failed to connect to job queue", "err", err)
	}

	w := &worker.Worker{
		Queue:    q,
		Escrow:   escrow,
		Executor: signer,
		History:  history.NewStore(history.DefaultCapacity),
	}
	w.Run(ctx)
	return nil
}
