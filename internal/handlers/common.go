// internal/handlers/common.go
package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/propfolio/brokerage-backend/internal/commission"
	"github.com/propfolio/brokerage-backend/internal/utils"
)

// requireUserID pulls the authenticated user's id from the request context
// and writes the error response itself when it is missing or malformed.
func requireUserID(c *gin.Context) (uuid.UUID, bool) {
	userID, ok := utils.CurrentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return uuid.Nil, false
	}
	return userID, true
}

func parseIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid "+name, nil)
		return uuid.Nil, false
	}
	return id, true
}

// respondServiceError maps domain and service errors onto the response
// envelope: commission validation errors become 400s, illegal status
// transitions become 409s, and the usual not-found/unauthorized strings get
// their status codes. Everything else is a 400 with the error text.
func respondServiceError(c *gin.Context, err error) {
	var transitionErr *commission.InvalidTransitionError
	if errors.As(err, &transitionErr) {
		utils.InvalidTransitionResponse(c, transitionErr.Error())
		return
	}

	var validationErr *commission.ValidationError
	if errors.As(err, &validationErr) {
		utils.BadRequestResponse(c, validationErr.Error(), gin.H{"field": validationErr.Field})
		return
	}

	msg := err.Error()
	switch {
	case strings.Contains(msg, "not found"):
		utils.ErrorResponse(c, http.StatusNotFound, "NOT_FOUND", msg, nil)
	case strings.Contains(msg, "unauthorized"):
		utils.ForbiddenResponse(c, msg)
	case strings.Contains(msg, "validation failed"):
		utils.BadRequestResponse(c, msg, nil)
	default:
		utils.BadRequestResponse(c, msg, nil)
	}
}
