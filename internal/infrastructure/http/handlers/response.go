// Package handlers provides HTTP handlers for the REST API
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/nutrino-ai/nutrino/internal/infrastructure/http/middleware"
	"github.com/nutrino-ai/nutrino/internal/ports/inbound"
	"github.com/nutrino-ai/nutrino/pkg/errors"
)

// APIResponse represents a standard API response
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
}

func respond(c *gin.Context, status int, data interface{}, message string) {
	c.JSON(status, APIResponse{
		Success: true,
		Data:    data,
		Message: message,
	})
}

// fail hands err to the ErrorHandler middleware
func fail(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

// callerIdentity returns the authenticated caller or reports 401
func callerIdentity(c *gin.Context) (inbound.Identity, bool) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		fail(c, errors.NewUnauthorizedError(""))
		return inbound.Identity{}, false
	}
	return identity, true
}

// bindJSON decodes and validates the request body into req
func bindJSON(c *gin.Context, validate *validator.Validate, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		fail(c, errors.NewBadRequestError("Invalid JSON payload").WithCause(err))
		return false
	}
	if err := validate.Struct(req); err != nil {
		fail(c, errors.FromValidator(err))
		return false
	}
	return true
}

// bindQuery decodes and validates query parameters into req
func bindQuery(c *gin.Context, validate *validator.Validate, req interface{}) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		fail(c, errors.NewBadRequestError("Invalid query parameters").WithCause(err))
		return false
	}
	if err := validate.Struct(req); err != nil {
		fail(c, errors.FromValidator(err))
		return false
	}
	return true
}

// RootMessage is the banner served at GET /
const RootMessage = "Nutrino AI Backend is Running!"

// Root handles GET /
func Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": RootMessage})
}
