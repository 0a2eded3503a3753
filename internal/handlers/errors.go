package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/statement_review_app/internal/apperrors"
	"github.com/SscSPs/statement_review_app/internal/dto"
	"github.com/SscSPs/statement_review_app/internal/middleware"
	"github.com/SscSPs/statement_review_app/internal/utils/validation"
	"github.com/gin-gonic/gin"
)

// statusFor maps a service error onto its HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperrors.ErrInvalidState):
		return http.StatusConflict
	case errors.Is(err, apperrors.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, apperrors.ErrDependencyFailure):
		return http.StatusBadGateway
	case errors.Is(err, apperrors.ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, apperrors.ErrForbidden):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes the error body shared by every endpoint. Internal errors are logged and masked.
func respondError(c *gin.Context, err error, internalMsg string) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	status := statusFor(err)
	body := dto.ErrorResponse{Error: err.Error(), Code: apperrors.Code(err)}

	var verr *apperrors.ValidationError
	if errors.As(err, &verr) {
		body.Fields = verr.Fields
	}

	switch {
	case status == http.StatusInternalServerError:
		logger.Error(internalMsg, slog.String("error", err.Error()))
		body.Error = internalMsg
	case status == http.StatusBadGateway:
		logger.Error(internalMsg, slog.String("error", err.Error()))
	default:
		logger.Warn(internalMsg, slog.String("error", err.Error()), slog.String("code", body.Code))
	}
	c.JSON(status, body)
}

// respondBindError reports a request that failed binding or struct validation.
func respondBindError(c *gin.Context, err error) {
	respondError(c, validation.FromError(err), "Invalid request")
}
