// Copyright (c) 2018 The VeChainThor developers
// Copyright (c) 2026 The RewardMill developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	cli "gopkg.in/urfave/cli.v1"
	"golang.org/x/sync/errgroup"

	"github.com/rewardmill/rewardmill/admin"
	"github.com/rewardmill/rewardmill/api"
	"github.com/rewardmill/rewardmill/cmd/rewardmill/httpserver"
	"github.com/rewardmill/rewardmill/genesis"
	"github.com/rewardmill/rewardmill/kv"
	"github.com/rewardmill/rewardmill/log"
	"github.com/rewardmill/rewardmill/logdb"
	"github.com/rewardmill/rewardmill/metrics"
	"github.com/rewardmill/rewardmill/runtime"
	"github.com/rewardmill/rewardmill/state"
)

var (
	version   string
	gitCommit string
	gitTag    string
	logger    = log.WithContext("pkg", "main")
)

func fullVersion() string {
	versionMeta := "release"
	if gitTag == "" {
		versionMeta = "dev"
	}
	return fmt.Sprintf("RewardMill/%s-%s-%s", version, gitCommit, versionMeta)
}

func main() {
	app := cli.App{
		Version:   fullVersion(),
		Name:      "RewardMill",
		Usage:     "Multi-pool staking rewards node",
		Copyright: "2026 The RewardMill developers",
		Flags: []cli.Flag{
			dataDirFlag,
			configFlag,
			persistFlag,
			apiAddrFlag,
			apiCorsFlag,
			apiLogsLimitFlag,
			apiSlowQueriesThresholdFlag,
			apiLog5xxErrorsFlag,
			enableAPILogsFlag,
			verbosityFlag,
			jsonLogsFlag,
			enableMetricsFlag,
			metricsAddrFlag,
			enableAdminFlag,
			adminAddrFlag,
			clockFlag,
			clockStartFlag,
			ntpServerFlag,
			cacheFlag,
		},
		Action: defaultAction,
		Commands: []cli.Command{
			{
				Name:  "dump",
				Usage: "print pools and vault state",
				Flags: []cli.Flag{
					dataDirFlag,
					configFlag,
					persistFlag,
					verbosityFlag,
					clockFlag,
					clockStartFlag,
					cacheFlag,
				},
				Action: dumpAction,
			},
			{
				Name:  "version",
				Usage: "print the version",
				Action: func(*cli.Context) error {
					fmt.Println(fullVersion())
					return nil
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type stores struct {
	main    kv.Store
	logDB   *logdb.LogDB
	dataDir string
	close   func()
}

func openStores(ctx *cli.Context) *stores {
	if !ctx.Bool(persistFlag.Name) {
		mainDB := openMemMainDB()
		logDB := openMemLogDB()
		return &stores{mainDB, logDB, "Memory", func() {
			logDB.Close()
			mainDB.Close()
		}}
	}
	dataDir := makeDataDir(ctx)
	mainDB := openMainDB(ctx, dataDir)
	logDB := openLogDB(dataDir)
	return &stores{mainDB, logDB, dataDir, func() {
		logger.Info("closing event database...")
		logDB.Close()
		logger.Info("closing state database...")
		mainDB.Close()
	}}
}

// bootstrap opens the stores and applies genesis if the state is empty.
func bootstrap(ctx *cli.Context) (*stores, *genesis.Config, *runtime.Runtime) {
	cfg := loadConfig(ctx)
	st := openStores(ctx)
	rt := runtime.New(state.New(st.main), st.logDB, newClock(ctx))

	receipt, err := genesis.Apply(context.Background(), rt, cfg)
	if err != nil {
		st.close()
		fatal(fmt.Sprintf("apply genesis: %v", err))
	}
	if receipt != nil {
		logger.Info("genesis applied", "receipt", receipt.ID, "events", len(receipt.Events))
	} else {
		logger.Info("state already initialized")
	}
	return st, cfg, rt
}

func defaultAction(ctx *cli.Context) error {
	defer func() { logger.Info("exited") }()

	logLevel := initLogger(ctx)
	if ctx.Bool(enableMetricsFlag.Name) {
		metrics.InitializePrometheusMetrics()
	}

	st, cfg, rt := bootstrap(ctx)
	defer st.close()

	apiLogs := &atomic.Bool{}
	apiLogs.Store(ctx.Bool(enableAPILogsFlag.Name))

	handler, closeSubs := api.New(rt, st.logDB, api.Options{
		AllowedOrigins:       ctx.String(apiCorsFlag.Name),
		EnableMetrics:        ctx.Bool(enableMetricsFlag.Name),
		EnableReqLogger:      apiLogs,
		SlowQueriesThreshold: ctx.Uint64(apiSlowQueriesThresholdFlag.Name),
		Log5xxErrors:         ctx.Bool(apiLog5xxErrorsFlag.Name),
		LogsLimit:            ctx.Uint64(apiLogsLimitFlag.Name),
	})
	defer closeSubs()

	apiURL, stopAPI, err := httpserver.StartAPIServer(ctx.String(apiAddrFlag.Name), handler)
	if err != nil {
		return err
	}
	defer func() { logger.Info("stopping API server..."); stopAPI() }()

	var metricsURL string
	if ctx.Bool(enableMetricsFlag.Name) {
		url, stop, err := httpserver.StartMetricsServer(ctx.String(metricsAddrFlag.Name))
		if err != nil {
			return err
		}
		defer func() { logger.Info("stopping metrics server..."); stop() }()
		metricsURL = url
	}

	var adminURL string
	if ctx.Bool(enableAdminFlag.Name) {
		url, stop, err := admin.StartServer(ctx.String(adminAddrFlag.Name), logLevel, apiLogs, rt)
		if err != nil {
			return err
		}
		defer func() { logger.Info("stopping admin server..."); stop() }()
		adminURL = url
	}

	printStartupMessage(cfg, rt, st.logDB, st.dataDir, apiURL, metricsURL, adminURL)

	exitCtx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	g, gctx := errgroup.WithContext(exitCtx)
	g.Go(func() error {
		return houseKeeping(gctx, rt, ctx.String(ntpServerFlag.Name))
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("got interrupt, shutting down...")
		return nil
	})
	return g.Wait()
}
