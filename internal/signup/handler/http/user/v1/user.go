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
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/innovationmech/signup/internal/signup/model"
	usersvc "github.com/innovationmech/signup/internal/signup/service/user/v1"
	"github.com/innovationmech/signup/internal/signup/types"
	"github.com/innovationmech/signup/pkg/logger"
	"go.uber.org/zap"
)

// UserHandler handles user-related HTTP requests
type UserHandler struct {
	userSrv usersvc.UserService
}

// NewUserHandler creates a new user controller with dependency injection.
func NewUserHandler(userSrv usersvc.UserService) *UserHandler {
	return &UserHandler{userSrv: userSrv}
}

// RegisterRoutes mounts the registration endpoint on its legacy and
// versioned paths.
func (uc *UserHandler) RegisterRoutes(router gin.IRouter) {
	router.POST("/register", uc.Register)
	router.Group("/api/v1/users").POST("/register", uc.Register)
}

// Register registers a new user.
//
//	@Summary		Register a new user
//	@Description	Register a new user with name, email and password
//	@Tags			users
//	@Accept			json
//	@Produce		json
//	@Param			user	body		model.RegisterRequest	true	"User information"
//	@Success		200		{object}	map[string]interface{}	"User registered successfully"
//	@Failure		400		{object}	map[string]interface{}	"Validation failed or user already exists"
//	@Failure		500		{object}	map[string]interface{}	"Internal server error"
//	@Router			/register [post]
func (uc *UserHandler) Register(c *gin.Context) {
	var req model.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		issues := []model.Issue{{Field: "body", Rule: "json", Message: "must be a valid JSON object"}}
		if model.Issues(err) != nil {
			// gin reports Go field names; re-run our validator for json names.
			issues = model.Issues(req.Validate())
		}
		c.JSON(http.StatusBadRequest, gin.H{"errors": issues})
		return
	}

	user, err := uc.userSrv.Register(c.Request.Context(), &req)
	if err != nil {
		uc.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "User registered successfully",
		"data":    user,
	})
}

func (uc *UserHandler) writeError(c *gin.Context, err error) {
	if issues := model.Issues(err); issues != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": issues})
		return
	}
	if se := types.GetServiceError(err); se != nil && se.Code != types.ErrCodeInternal {
		c.JSON(se.HTTPStatus, gin.H{"error": se.Message})
		return
	}

	logger.GetLogger().Error("Registration failed", zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
}
