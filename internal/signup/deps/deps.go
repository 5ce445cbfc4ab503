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

package deps

import (
	"context"
	"errors"
	"fmt"

	"github.com/innovationmech/signup/internal/signup/config"
	"github.com/innovationmech/signup/internal/signup/db"
	"github.com/innovationmech/signup/internal/signup/handler/http/health"
	"github.com/innovationmech/signup/internal/signup/lock"
	"github.com/innovationmech/signup/internal/signup/repository"
	userv1 "github.com/innovationmech/signup/internal/signup/service/user/v1"
	"github.com/innovationmech/signup/pkg/lifecycle"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrServiceInitialization wraps failures while building the service layer.
var ErrServiceInitialization = errors.New("service initialization failed")

// registrationLockPrefix namespaces per-email lock keys in Redis.
const registrationLockPrefix = "signup:register:"

// Dependencies holds the connected stores and the services built on them.
type Dependencies struct {
	// Infrastructure
	DB    *gorm.DB
	Redis *redis.Client

	// Repository layer
	UserRepo repository.UserRepository

	// Service layer
	UserSrv userv1.UserService
}

// NewDependencies builds the repository and service layers on already
// connected stores. rdb may be nil, in which case registrations are not
// locked across instances.
func NewDependencies(cfg *config.SignupConfig, gdb *gorm.DB, rdb *redis.Client, reg prometheus.Registerer, log *zap.Logger) (*Dependencies, error) {
	userRepo := repository.NewUserRepository(gdb)

	var locker lock.Locker = lock.NoopLocker{}
	if rdb != nil {
		locker = lock.NewRedisLocker(rdb, registrationLockPrefix, cfg.Redis.LockTTL)
	}

	userSrv, err := userv1.NewUserSrv(
		userv1.WithUserRepository(userRepo),
		userv1.WithLocker(locker),
		userv1.WithLogger(log),
		userv1.WithRegistrationCounter(userv1.NewRegistrationCounter("signup", reg)),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: user service - %v", ErrServiceInitialization, err)
	}

	d := &Dependencies{
		DB:       gdb,
		Redis:    rdb,
		UserRepo: userRepo,
		UserSrv:  userSrv,
	}
	if err := d.Validate(); err != nil {
		return nil, fmt.Errorf("%w: validation failed - %v", ErrServiceInitialization, err)
	}

	log.Info("successfully initialized all dependencies")
	return d, nil
}

// Validate checks that all required dependencies are properly initialized
func (d *Dependencies) Validate() error {
	if d == nil {
		return fmt.Errorf("dependencies struct is nil")
	}
	if d.DB == nil {
		return fmt.Errorf("database connection is nil")
	}
	if d.UserRepo == nil {
		return fmt.Errorf("user repository is nil")
	}
	if d.UserSrv == nil {
		return fmt.Errorf("user service is nil")
	}
	return nil
}

// Resources lists the stores to close on shutdown, in the order they were
// opened.
func (d *Dependencies) Resources() []lifecycle.Resource {
	resources := []lifecycle.Resource{db.Resource(d.DB)}
	if d.Redis != nil {
		resources = append(resources, db.RedisResource(d.Redis))
	}
	return resources
}

// HealthChecks returns readiness probes for every connected store.
func (d *Dependencies) HealthChecks() map[string]health.Check {
	checks := map[string]health.Check{db.DBTarget: db.Ping(d.DB)}
	if d.Redis != nil {
		checks[db.RedisTarget] = func(ctx context.Context) error {
			return d.Redis.Ping(ctx).Err()
		}
	}
	return checks
}
