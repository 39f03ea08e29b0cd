package httpclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	apperrors "github.com/eximroyals/storefront/pkg/errors"
)

// upstreamError is the error body shape the catalog API answers with. Only
// the message is read, and only for logs.
type upstreamError struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// ParseResponseError reads the body of a non-2xx HTTP response and translates
// it into an AppError for resource. The upstream text ends up in the wrapped
// cause for logs, never in the user facing message.
//
// The response body is fully consumed and closed.
func ParseResponseError(resp *http.Response, resource string) error {
	defer func() { _ = resp.Body.Close() }()

	detail := fmt.Sprintf("status %d", resp.StatusCode)
	bodyBytes, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err == nil {
		var body upstreamError
		if json.Unmarshal(bodyBytes, &body) == nil {
			if body.Message != "" {
				detail += ": " + body.Message
			} else if body.Error != "" {
				detail += ": " + body.Error
			}
		}
	}

	return MapStatus(resp.StatusCode, resource, errors.New(detail))
}

// MapStatus maps an upstream status code to the error taxonomy.
func MapStatus(status int, resource string, cause error) error {
	switch {
	case status == http.StatusNotFound:
		return &apperrors.AppError{
			Code:    "NOT_FOUND",
			Message: resource + " not found",
			Status:  http.StatusNotFound,
			Err:     fmt.Errorf("%w: %w", apperrors.ErrNotFound, cause),
		}
	case status == http.StatusUnauthorized, status == http.StatusForbidden:
		return &apperrors.AppError{
			Code:    "UNAUTHORIZED",
			Message: resource + " rejected the credentials",
			Status:  http.StatusUnauthorized,
			Err:     fmt.Errorf("%w: %w", apperrors.ErrUnauthorized, cause),
		}
	case IsClientError(status):
		return &apperrors.AppError{
			Code:    "INVALID_INPUT",
			Message: resource + " rejected the request",
			Status:  http.StatusBadRequest,
			Err:     fmt.Errorf("%w: %w", apperrors.ErrInvalidInput, cause),
		}
	default:
		return apperrors.NetworkFailure(resource+" request failed", cause)
	}
}

// TransportError converts a failed call (no usable response) into a
// NetworkFailure. It covers dial errors, timeouts, cancellation, an open
// breaker and 5xx answers.
func TransportError(resource string, err error) error {
	var serverErr *ServerError
	switch {
	case errors.Is(err, ErrCircuitOpen):
		return apperrors.NetworkFailure(resource+" unavailable", err)
	case errors.As(err, &serverErr):
		return apperrors.NetworkFailure(resource+" request failed", err)
	default:
		return apperrors.NetworkFailure(resource+" unreachable", err)
	}
}

// IsClientError returns true if the HTTP status code is a 4xx client error.
func IsClientError(status int) bool {
	return status >= 400 && status < 500
}
