package mcp

import (
	"errors"
	"fmt"

	"github.com/rpggio/readtrail/internal/domain/activity"
	"github.com/rpggio/readtrail/internal/domain/export"
	"github.com/rpggio/readtrail/internal/domain/insight"
	"github.com/rpggio/readtrail/internal/flomo"
	"github.com/rpggio/readtrail/internal/repository"
)

// ErrInvalidInput reports tool arguments that cannot be interpreted.
var ErrInvalidInput = errors.New("invalid input")

// APIError represents an MCP error response.
type APIError struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	Details      any    `json:"details,omitempty"`
	RecoveryHint string `json:"recovery_hint,omitempty"`
}

func (e *APIError) Error() string {
	if e.RecoveryHint != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.RecoveryHint)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// MapError maps domain errors to MCP error codes.
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, insight.ErrInvalidRange):
		return &APIError{Code: "INVALID_RANGE", Message: err.Error(), RecoveryHint: "Use today, week, month, year, or custom with from/to as YYYY-MM-DD"}
	case errors.Is(err, ErrInvalidInput), errors.Is(err, activity.ErrInvalidInput):
		return &APIError{Code: "INVALID_INPUT", Message: err.Error(), RecoveryHint: "Check argument names and formats"}
	case errors.Is(err, export.ErrNothingToExport):
		return &APIError{Code: "NOTHING_TO_EXPORT", Message: "no activity matches the selection", RecoveryHint: "Widen the time range or relax filters"}
	case errors.Is(err, flomo.ErrNotConfigured):
		return &APIError{Code: "PUBLISH_NOT_CONFIGURED", Message: "flomo webhook URL is not set", RecoveryHint: "Set READTRAIL_FLOMO_WEBHOOK_URL"}
	case errors.Is(err, flomo.ErrSubscriptionRequired):
		return &APIError{Code: "SUBSCRIPTION_REQUIRED", Message: "flomo API requires a PRO membership"}
	case errors.Is(err, repository.ErrClosed):
		return &APIError{Code: "STORE_CLOSED", Message: "activity store is closed", RecoveryHint: "Restart the server"}
	default:
		return nil
	}
}

func mapError(err error) error {
	if apiErr := MapError(err); apiErr != nil {
		return apiErr
	}
	return err
}
