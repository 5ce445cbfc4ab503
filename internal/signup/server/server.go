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

package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/innovationmech/signup/internal/signup/handler/http/health"
	"github.com/innovationmech/signup/internal/signup/handler/http/stop"
	userv1 "github.com/innovationmech/signup/internal/signup/handler/http/user/v1"
	"github.com/innovationmech/signup/internal/signup/middleware"
	usersvc "github.com/innovationmech/signup/internal/signup/service/user/v1"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Options configures the HTTP server.
type Options struct {
	Addr           string
	UserService    usersvc.UserService
	HealthChecks   map[string]health.Check
	Gatherer       prometheus.Gatherer
	RequestTimeout time.Duration
	// CORSOrigins enables CORS for these origins when non-empty.
	CORSOrigins []string
	// OnStop enables POST /api/v1/stop/shutdown when set.
	OnStop func()
	Logger *zap.Logger
}

// Server is the HTTP front of the service. It satisfies lifecycle.Listener.
type Server struct {
	httpServer *http.Server
	router     *gin.Engine
	listener   net.Listener
	logger     *zap.Logger
}

// New builds the router and mounts every route.
func New(opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 30 * time.Second
	}

	router := gin.New()
	router.Use(gin.Recovery(), middleware.AccessLog(opts.Logger), middleware.RequestTimeout(opts.RequestTimeout))
	if len(opts.CORSOrigins) > 0 {
		router.Use(middleware.CORS(opts.CORSOrigins, opts.Logger))
	}

	health.NewHandler(opts.HealthChecks).RegisterRoutes(router)
	userv1.NewUserHandler(opts.UserService).RegisterRoutes(router)
	if opts.Gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{})))
	}
	if opts.OnStop != nil {
		stop.RegisterRoutes(router, opts.OnStop)
	}

	return &Server{
		httpServer: &http.Server{
			Addr:              opts.Addr,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
		router: router,
		logger: opts.Logger,
	}
}

// Router exposes the gin engine, mainly for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Listen binds the configured address. It lets callers fail fast on a busy
// port before the serve loop starts.
func (s *Server) Listen() error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.httpServer.Addr, err)
	}
	s.listener = ln
	return nil
}

// Addr returns the bound address, or the configured one before Listen.
func (s *Server) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.httpServer.Addr
}

// Serve accepts connections until Shutdown. It returns nil after a
// graceful stop.
func (s *Server) Serve() error {
	if s.listener == nil {
		if err := s.Listen(); err != nil {
			return err
		}
	}
	s.logger.Info("Starting HTTP server", zap.String("address", s.Addr()))
	if err := s.httpServer.Serve(s.listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting connections and waits for in-flight requests
// until ctx is done.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
