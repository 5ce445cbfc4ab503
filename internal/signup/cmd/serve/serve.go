// Copyright © 2025 jackelyj <dreamerlyj@gmail.com>
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.
//

package serve

import (
	"context"
	"fmt"
	"os"

	"github.com/innovationmech/signup/internal/signup/config"
	"github.com/innovationmech/signup/internal/signup/db"
	"github.com/innovationmech/signup/internal/signup/deps"
	"github.com/innovationmech/signup/internal/signup/server"
	"github.com/innovationmech/signup/pkg/lifecycle"
	"github.com/innovationmech/signup/pkg/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// Store openers, replaced in tests.
var (
	openDB    = db.Open
	migrateDB = db.Migrate
	openRedis = db.OpenRedis
)

// NewServeCmd creates a new serve command.
func NewServeCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the signup server",
		Long: `Start the signup server:
- connect to MySQL (and Redis when configured) with retries
- serve the registration API over HTTP
- shut down gracefully on SIGINT or SIGTERM`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}
			if err := logger.Configure(cfg.Logging.Level, cfg.Logging.Development); err != nil {
				return err
			}
			return Run(cmd.Context(), cfg, logger.GetLogger(), os.Exit)
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", os.Getenv("SIGNUP_CONFIG"), "path to the configuration file")

	return cmd
}

// Run connects the stores, serves HTTP and blocks until the shutdown
// coordinator has called exit. A store that cannot be reached aborts startup
// with the connection error.
func Run(ctx context.Context, cfg *config.SignupConfig, log *zap.Logger, exit func(int)) error {
	if ctx == nil {
		ctx = context.Background()
	}
	log.Info("Starting signup server...")

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics, err := lifecycle.NewMetrics("signup", reg)
	if err != nil {
		return err
	}

	connectOpts := func(target string) []lifecycle.ConnectOption {
		return append(metrics.ConnectOptions(target), lifecycle.WithConnectLogger(log))
	}

	gdb, err := openDB(ctx, cfg, connectOpts(db.DBTarget)...)
	if err != nil {
		log.Error("Failed to connect to the database, exiting", zap.Error(err))
		return err
	}
	metrics.ObserveConnected(db.DBTarget)
	opened := []lifecycle.Resource{db.Resource(gdb)}
	if err := migrateDB(gdb); err != nil {
		closeAll(log, opened)
		return err
	}

	var rdb *redis.Client
	if cfg.Redis.Addr != "" {
		rdb, err = openRedis(ctx, cfg, connectOpts(db.RedisTarget)...)
		if err != nil {
			log.Error("Failed to connect to Redis, exiting", zap.Error(err))
			closeAll(log, opened)
			return err
		}
		metrics.ObserveConnected(db.RedisTarget)
		opened = append(opened, db.RedisResource(rdb))
	}

	dependencies, err := deps.NewDependencies(cfg, gdb, rdb, reg, log)
	if err != nil {
		closeAll(log, opened)
		return err
	}

	exited := make(chan int, 1)
	var coordinator *lifecycle.Coordinator
	opts := server.Options{
		Addr:         ":" + cfg.Server.Port,
		UserService:  dependencies.UserSrv,
		HealthChecks: dependencies.HealthChecks(),
		Gatherer:     reg,
		CORSOrigins:  cfg.Server.CORSOrigins,
		Logger:       log,
	}
	if cfg.Server.EnableStop {
		opts.OnStop = func() { coordinator.Handle("HTTP") }
	}
	srv := server.New(opts)

	coordinator, err = lifecycle.NewCoordinator(srv, dependencies.Resources(), cfg.Server.ShutdownTimeout,
		lifecycle.WithLogger(log),
		lifecycle.WithOutcomeHook(metrics.ObserveOutcome),
		lifecycle.WithExit(func(code int) {
			exited <- code
			exit(code)
		}),
	)
	if err != nil {
		closeAll(log, dependencies.Resources())
		return err
	}

	if err := srv.Listen(); err != nil {
		log.Error("Failed to start HTTP server", zap.Error(err))
		closeAll(log, dependencies.Resources())
		return err
	}
	log.Info("Server is running", zap.String("address", srv.Addr()))

	stop := lifecycle.NotifySignals(ctx, coordinator.Handle)
	defer stop()

	if err := srv.Serve(); err != nil {
		log.Error("HTTP server failed", zap.Error(err))
		closeAll(log, dependencies.Resources())
		return err
	}

	code := <-exited
	if code != 0 {
		return fmt.Errorf("shutdown finished with exit code %d", code)
	}
	return nil
}

// closeAll releases stores opened before the coordinator could take them
// over.
func closeAll(log *zap.Logger, resources []lifecycle.Resource) {
	for _, r := range resources {
		if err := r.Close(context.Background()); err != nil {
			log.Warn("Failed to close "+r.Name, zap.Error(err))
		}
	}
}
