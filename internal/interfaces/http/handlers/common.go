// Package handlers implements the REST endpoints over the planner service.
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/roofsight/RoofSight-Engine/internal/interfaces/http/middleware"
	"github.com/roofsight/RoofSight-Engine/pkg/errors"
	"github.com/roofsight/RoofSight-Engine/pkg/types/common"
)

// respond writes the standard success envelope.
func respond(c *gin.Context, status int, data interface{}) {
	resp := common.NewSuccessResponse(data)
	resp.RequestID = middleware.GetRequestID(c)
	c.JSON(status, resp)
}

// respondError maps an error onto the standard error envelope. AppError
// codes pick their HTTP status; anything else is a masked 500.
func respondError(c *gin.Context, err error) {
	code := errors.GetCode(err)
	if code == errors.CodeUnknown {
		code = errors.ErrCodeInternal
	}
	status := errors.HTTPStatusForCode(code)

	message := err.Error()
	if errors.IsServerError(code) {
		// Mask internals; the request log carries the real error.
		message = errors.DefaultMessageForCode(code)
	}

	_ = c.Error(err)
	resp := common.NewErrorResponse(code.String(), message)
	resp.RequestID = middleware.GetRequestID(c)
	c.JSON(status, resp)
}

// respondErrorCode writes the envelope for a handler-originated error code.
func respondErrorCode(c *gin.Context, code errors.ErrorCode, message string) {
	if message == "" {
		message = errors.DefaultMessageForCode(code)
	}
	resp := common.NewErrorResponse(code.String(), message)
	resp.RequestID = middleware.GetRequestID(c)
	c.JSON(errors.HTTPStatusForCode(code), resp)
}
