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
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/innovationmech/signup/internal/signup/model"
	"github.com/innovationmech/signup/pkg/lifecycle"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubUserService struct{}

func (stubUserService) Register(_ context.Context, req *model.RegisterRequest) (*model.User, error) {
	return req.ToUser("hash"), nil
}

var _ lifecycle.Listener = (*Server)(nil)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestNew_Routes(t *testing.T) {
	reg := prometheus.NewRegistry()
	counter := prometheus.NewCounter(prometheus.CounterOpts{Name: "test_total", Help: "test"})
	reg.MustRegister(counter)
	counter.Inc()

	s := New(Options{Addr: ":0", UserService: stubUserService{}, Gatherer: reg})

	tests := []struct {
		method, path, body string
		wantStatus         int
		wantContains       string
	}{
		{http.MethodGet, "/health", "", http.StatusOK, `"status":"OK"`},
		{http.MethodGet, "/health/ready", "", http.StatusOK, `"status":"ready"`},
		{http.MethodGet, "/metrics", "", http.StatusOK, "test_total 1"},
		{http.MethodPost, "/register", `{"firstName":"A","lastName":"B","email":"a@b.co","password":"secret1"}`, http.StatusOK, "User registered successfully"},
		{http.MethodPost, "/api/v1/stop/shutdown", "", http.StatusNotFound, ""},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			req, _ := http.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			s.Router().ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantContains)
		})
	}
}

func TestNew_StopRouteEnabled(t *testing.T) {
	stopped := make(chan struct{}, 1)
	s := New(Options{UserService: stubUserService{}, OnStop: func() { stopped <- struct{}{} }})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/stop/shutdown", nil)
	s.Router().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("OnStop not called")
	}
}

func TestServer_ServeAndShutdown(t *testing.T) {
	s := New(Options{Addr: "127.0.0.1:0", UserService: stubUserService{}})
	require.NoError(t, s.Listen())

	served := make(chan error, 1)
	go func() { served <- s.Serve() }()

	resp, err := http.Get(fmt.Sprintf("http://%s/health", s.Addr()))
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"OK"}`, string(body))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, s.Shutdown(ctx))

	select {
	case err := <-served:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not return after Shutdown")
	}
}

func TestServer_ListenBusyPort(t *testing.T) {
	first := New(Options{Addr: "127.0.0.1:0", UserService: stubUserService{}})
	require.NoError(t, first.Listen())
	defer first.Shutdown(context.Background())
	go first.Serve()

	second := New(Options{Addr: first.Addr(), UserService: stubUserService{}})
	assert.Error(t, second.Listen())
}
