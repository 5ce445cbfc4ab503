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

package stop

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/innovationmech/signup/pkg/logger"
)

// Handler triggers a graceful shutdown over HTTP.
type Handler struct {
	shutdownFunc func()
}

// NewHandler creates a stop handler that calls shutdownFunc after replying.
func NewHandler(shutdownFunc func()) *Handler {
	return &Handler{shutdownFunc: shutdownFunc}
}

// Stop replies first and then starts the shutdown in the background so the
// response can be flushed before the listener closes.
func (h *Handler) Stop(c *gin.Context) {
	logger.GetLogger().Info("Shutdown request received via HTTP")
	c.JSON(http.StatusOK, gin.H{"message": "Server is stopping"})
	go h.shutdownFunc()
}

// RegisterRoutes mounts POST /api/v1/stop/shutdown.
func RegisterRoutes(router gin.IRouter, shutdownFunc func()) {
	h := NewHandler(shutdownFunc)
	router.Group("/api/v1/stop").POST("/shutdown", h.Stop)
}
