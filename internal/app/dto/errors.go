package dto

import (
	"errors"

	"github.com/flowgraph/flowbuilder/pkg/validation"
)

// Session errors
var (
	ErrMissingFlowID   = errors.New("flow ID is required")
	ErrSessionNotFound = errors.New("flow session not found")
	ErrSessionLimit    = errors.New("too many open flow sessions")
)

// ErrorBody is the payload of every non-2xx JSON response, shared with the
// request validation middleware.
type ErrorBody = validation.ErrorBody

// ErrorResponse wraps ErrorBody.
type ErrorResponse = validation.ErrorResponse
