// Package validation provides validation utilities for FlowBuilder: the save
// rule applied to a flow, structural checks for flows loaded from outside the
// editor, and request validation for the HTTP API.
package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Validator interface for custom validation
// PRINCIPLES:
// - ISP: Simple interface with single method
// - DIP: Depend on interface, not concrete types
type Validator interface {
	Validate() error
}

// ValidationError represents a validation error with details
type ValidationError struct {
	Field   string      `json:"field"`
	Value   interface{} `json:"value"`
	Message string      `json:"message"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("validation error on field '%s': %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors represents multiple validation errors
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// ValidationConfig holds validation configuration
type ValidationConfig struct {
	MaxErrors int `json:"max_errors"`
}

// DefaultValidationConfig returns default validation configuration
func DefaultValidationConfig() *ValidationConfig {
	return &ValidationConfig{MaxErrors: 10}
}

// ValidateWithConfig runs tag validation and then, when v implements
// Validator, its own rules. The number of reported errors is capped by
// config.MaxErrors.
func ValidateWithConfig(v interface{}, config *ValidationConfig) error {
	if config == nil {
		config = DefaultValidationConfig()
	}

	if err := ValidateWithPlayground(v); err != nil {
		var verrs ValidationErrors
		if errors.As(err, &verrs) && config.MaxErrors > 0 && len(verrs) > config.MaxErrors {
			return verrs[:config.MaxErrors]
		}
		return err
	}

	if custom, ok := v.(Validator); ok {
		return custom.Validate()
	}
	return nil
}

// Error codes written by Middleware
const (
	CodeBadRequest           = "bad_request"
	CodeUnsupportedMediaType = "unsupported_media_type"
)

// ErrorBody is the payload of every non-2xx JSON response. Details lists the
// individual field failures of a rejected request.
type ErrorBody struct {
	Code    string           `json:"code"`
	Message string           `json:"message"`
	Roots   []string         `json:"roots,omitempty"`
	Details ValidationErrors `json:"details,omitempty"`
}

// ErrorResponse wraps ErrorBody.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// MarshalValidationErrors marshals validation errors into the error envelope
func MarshalValidationErrors(code string, errs ValidationErrors) ([]byte, error) {
	return json.Marshal(ErrorResponse{Error: ErrorBody{
		Code:    code,
		Message: errs.Error(),
		Details: errs,
	}})
}
