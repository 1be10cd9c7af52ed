package helpers

import (
	"errors"
	"fmt"
	"net/http"

	"antique-catalog/internal/catalogerrors"
	"antique-catalog/utils"

	"github.com/gin-gonic/gin"
)

// HandleBindError sends a standardized JSON error for binding failures
func HandleBindError(c *gin.Context, handlerName string, err error) {
	wrappedErr := fmt.Errorf("invalid request payload: %w", err)
	utils.JSONError(c, http.StatusBadRequest, wrappedErr, "invalid request payload")
	utils.Warn(handlerName+": binding error", map[string]any{"error": err.Error()})
}

// HandleServiceError maps err to a JSON error response and logs it
func HandleServiceError(c *gin.Context, handlerName string, err error, fields map[string]any) {
	status, message := MapErrorToHTTP(err)
	utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)

	if fields == nil {
		fields = map[string]any{}
	}
	fields["handler"] = handlerName
	fields["error"] = err.Error()
	if status >= http.StatusInternalServerError {
		utils.Error(handlerName+": request failed", fields)
		return
	}
	utils.Warn(handlerName+": request rejected", fields)
}

// MapErrorToHTTP maps domain/service errors to HTTP status code and message
func MapErrorToHTTP(err error) (int, string) {
	switch {
	case errors.Is(err, catalogerrors.ErrProductNotFound):
		return http.StatusNotFound, "product not found"
	case errors.Is(err, catalogerrors.ErrSubmissionNotFound):
		return http.StatusNotFound, "submission not found"
	case errors.Is(err, catalogerrors.ErrOfferNotFound):
		return http.StatusNotFound, "offer not found"
	case errors.Is(err, catalogerrors.ErrOfferDiscountNotFound):
		return http.StatusNotFound, "offer discount not found"
	case errors.Is(err, catalogerrors.ErrNotificationNotFound):
		return http.StatusNotFound, "notification not found"
	case errors.Is(err, catalogerrors.ErrInvalidProduct):
		return http.StatusBadRequest, "invalid product details"
	case errors.Is(err, catalogerrors.ErrInvalidSubmission):
		return http.StatusBadRequest, "invalid submission details"
	case errors.Is(err, catalogerrors.ErrInvalidOffer):
		return http.StatusBadRequest, "invalid offer details"
	case errors.Is(err, catalogerrors.ErrInvalidOfferDiscount):
		return http.StatusBadRequest, "invalid offer discount details"
	case errors.Is(err, catalogerrors.ErrUnknownCategory):
		return http.StatusBadRequest, "unknown category"
	case errors.Is(err, catalogerrors.ErrInvalidAudience):
		return http.StatusBadRequest, "invalid audience"
	case errors.Is(err, catalogerrors.ErrInvalidStatusTransition):
		return http.StatusConflict, "status change not allowed"
	case errors.Is(err, catalogerrors.ErrQueueClosed):
		return http.StatusServiceUnavailable, "catalog is shutting down"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

// LogSuccess is a small helper to standardize logging of successful operations
func LogSuccess(handlerName, message string, ctx map[string]any) {
	utils.Info(handlerName+": "+message, ctx)
}
