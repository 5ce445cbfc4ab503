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

package v1

import (
	"context"
	"errors"
	"net/http"

	"github.com/innovationmech/signup/internal/signup/lock"
	"github.com/innovationmech/signup/internal/signup/model"
	"github.com/innovationmech/signup/internal/signup/repository"
	"github.com/innovationmech/signup/internal/signup/types"
	"github.com/innovationmech/signup/pkg/utils"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

const (
	// MsgUserExists is the conflict message returned for a taken email.
	MsgUserExists = "User already exists"
	// MsgRegistrationBusy is returned while another registration holds the
	// email lock. Clients may retry.
	MsgRegistrationBusy = "Registration already in progress, please retry"
)

// Registration results recorded by the registrations counter.
const (
	ResultCreated  = "created"
	ResultConflict = "conflict"
	ResultInvalid  = "invalid"
	ResultBusy     = "busy"
	ResultError    = "error"
)

// UserService registers new users.
type UserService interface {
	Register(ctx context.Context, req *model.RegisterRequest) (*model.User, error)
}

// UserServiceConfig user service config
type UserServiceConfig struct {
	UserRepo      repository.UserRepository
	Locker        lock.Locker
	Logger        *zap.Logger
	Registrations *prometheus.CounterVec
	PasswordCost  int
}

// UserServiceOption user service option function type
type UserServiceOption func(*UserServiceConfig)

type userService struct {
	config *UserServiceConfig
}

// WithUserRepository set the user repository dependency
func WithUserRepository(repo repository.UserRepository) UserServiceOption {
	return func(config *UserServiceConfig) {
		config.UserRepo = repo
	}
}

// WithLocker serialises registrations per email.
func WithLocker(l lock.Locker) UserServiceOption {
	return func(config *UserServiceConfig) {
		config.Locker = l
	}
}

func WithLogger(l *zap.Logger) UserServiceOption {
	return func(config *UserServiceConfig) {
		config.Logger = l
	}
}

// WithRegistrationCounter records every Register call by result.
func WithRegistrationCounter(c *prometheus.CounterVec) UserServiceOption {
	return func(config *UserServiceConfig) {
		config.Registrations = c
	}
}

// WithPasswordCost overrides the bcrypt cost. Tests use bcrypt.MinCost.
func WithPasswordCost(cost int) UserServiceOption {
	return func(config *UserServiceConfig) {
		config.PasswordCost = cost
	}
}

// NewRegistrationCounter creates and registers the registrations counter.
func NewRegistrationCounter(namespace string, reg prometheus.Registerer) *prometheus.CounterVec {
	c := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "User registrations by result.",
	}, []string{"result"})
	if reg != nil {
		reg.MustRegister(c)
	}
	return c
}

// NewUserSrv creates a new user service using options pattern.
func NewUserSrv(opts ...UserServiceOption) (UserService, error) {
	config := &UserServiceConfig{
		Locker:       lock.NoopLocker{},
		Logger:       zap.NewNop(),
		PasswordCost: utils.PasswordCost,
	}
	for _, opt := range opts {
		opt(config)
	}

	if config.UserRepo == nil {
		return nil, types.ErrValidation("user repository is required")
	}

	return &userService{config: config}, nil
}

// Register validates req, rejects taken emails and stores the new user with
// a hashed password.
func (s *userService) Register(ctx context.Context, req *model.RegisterRequest) (*model.User, error) {
	user, err := s.register(ctx, req)
	s.observe(err)
	return user, err
}

func (s *userService) register(ctx context.Context, req *model.RegisterRequest) (*model.User, error) {
	if req == nil {
		return nil, types.ErrValidation("request body is required")
	}
	if err := req.Validate(); err != nil {
		return nil, types.NewServiceErrorWithCause(types.ErrCodeValidation, "invalid registration request", http.StatusBadRequest, err)
	}

	release, err := s.config.Locker.Acquire(ctx, req.Email)
	if err != nil {
		if errors.Is(err, lock.ErrLockHeld) {
			return nil, types.ErrServiceUnavailable(MsgRegistrationBusy)
		}
		return nil, types.ErrInternalWithCause("failed to lock registration", err)
	}
	defer func() {
		if err := release(context.WithoutCancel(ctx)); err != nil {
			s.config.Logger.Warn("Failed to release registration lock", zap.Error(err))
		}
	}()

	exists, err := s.config.UserRepo.CheckUserExists(ctx, req.Email)
	if err != nil {
		return nil, types.ErrInternalWithCause("failed to check user existence", err)
	}
	if exists {
		return nil, types.ErrConflict(MsgUserExists)
	}

	hash, err := utils.HashPasswordWithCost(req.Password, s.config.PasswordCost)
	if err != nil {
		return nil, types.ErrInternalWithCause("failed to hash password", err)
	}

	user := req.ToUser(hash)
	if err := s.config.UserRepo.SaveUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateUser) {
			return nil, types.ErrConflict(MsgUserExists)
		}
		return nil, types.ErrInternalWithCause("failed to create user", err)
	}

	s.config.Logger.Info("User registered", zap.String("id", user.ID.String()))
	return user, nil
}

func (s *userService) observe(err error) {
	if s.config.Registrations == nil {
		return
	}
	result := ResultCreated
	if err != nil {
		result = ResultError
		if types.IsConflict(err) {
			result = ResultConflict
		} else if se := types.GetServiceError(err); se != nil {
			switch se.Code {
			case types.ErrCodeValidation:
				result = ResultInvalid
			case types.ErrCodeServiceUnavailable:
				result = ResultBusy
			}
		}
	}
	s.config.Registrations.WithLabelValues(result).Inc()
}
