package lookup

import (
	"context"
	"errors"
	"net/http"
)

// Error categories. Every error returned by Service wraps exactly one of them.
var (
	// ErrGenerator means the generator call failed, timed out or was cancelled.
	ErrGenerator = errors.New("generator failed")
	// ErrUpstreamFormat means the generator answered but no JSON array could be recovered.
	ErrUpstreamFormat = errors.New("generator response is not in the expected format")
	// ErrSchema means a JSON object was recovered but lacks the required fields.
	ErrSchema = errors.New("generator response does not match schema")
	// ErrValidation means the caller input is missing required fields.
	ErrValidation = errors.New("invalid request")
)

// StatusCode maps an error returned by Service to the HTTP status a boundary should answer with.
func StatusCode(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrGenerator) && errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, ErrGenerator), errors.Is(err, ErrUpstreamFormat), errors.Is(err, ErrSchema):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// ErrorType is a short stable label for metrics and response bodies.
func ErrorType(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrValidation):
		return "validation"
	case errors.Is(err, ErrGenerator):
		return "generator"
	case errors.Is(err, ErrUpstreamFormat):
		return "upstream_format"
	case errors.Is(err, ErrSchema):
		return "schema"
	default:
		return "internal"
	}
}
