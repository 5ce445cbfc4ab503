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

// Package db opens the service's backing stores with retries.
package db

import (
	"context"
	"fmt"

	"github.com/innovationmech/signup/internal/signup/config"
	"github.com/innovationmech/signup/internal/signup/model"
	"github.com/innovationmech/signup/pkg/lifecycle"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// DBTarget names the database in connect logs and as a shutdown resource.
const DBTarget = "DB"

var (
	// newDialector builds the gorm dialector for a DSN.
	// It's a variable so it can be replaced by a mock in tests.
	newDialector = func(dsn string) gorm.Dialector {
		return mysql.Open(dsn)
	}
)

// Open connects to MySQL, retrying per cfg.Database.Connect. Each attempt
// opens a fresh pool and pings it; failed pools are closed.
func Open(ctx context.Context, cfg *config.SignupConfig, opts ...lifecycle.ConnectOption) (*gorm.DB, error) {
	dsn := cfg.DatabaseDSN()
	return lifecycle.Connect(ctx, DBTarget, cfg.Database.Connect, func(ctx context.Context) (*gorm.DB, error) {
		return dial(ctx, newDialector(dsn))
	}, opts...)
}

func dial(ctx context.Context, dialector gorm.Dialector) (*gorm.DB, error) {
	gdb, err := gorm.Open(dialector, &gorm.Config{
		TranslateError:       true,
		DisableAutomaticPing: true,
		Logger:               gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, err
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	return gdb, nil
}

// Migrate creates or updates the schema for all models.
func Migrate(gdb *gorm.DB) error {
	if err := gdb.AutoMigrate(&model.User{}); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

// Resource returns the shutdown resource that closes the pool.
func Resource(gdb *gorm.DB) lifecycle.Resource {
	return lifecycle.Resource{
		Name: DBTarget,
		Close: func(context.Context) error {
			if gdb == nil {
				return nil
			}
			sqlDB, err := gdb.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		},
	}
}

// Ping reports whether the database is reachable.
func Ping(gdb *gorm.DB) func(context.Context) error {
	return func(ctx context.Context) error {
		sqlDB, err := gdb.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	}
}
