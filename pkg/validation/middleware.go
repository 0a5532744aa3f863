// Package validation provides middleware for HTTP request validation
package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
)

// DefaultMaxBodyBytes caps request bodies read by Decode.
const DefaultMaxBodyBytes = 1 << 20

// Middleware provides validation helpers for HTTP handlers
type Middleware struct {
	config   *ValidationConfig
	maxBytes int64
}

// NewMiddleware creates a new validation middleware
func NewMiddleware(config *ValidationConfig) *Middleware {
	if config == nil {
		config = DefaultValidationConfig()
	}

	return &Middleware{
		config:   config,
		maxBytes: DefaultMaxBodyBytes,
	}
}

// RequireJSON rejects requests carrying a body that is not declared as JSON.
func (m *Middleware) RequireJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.ContentLength != 0 && (r.Method == http.MethodPost || r.Method == http.MethodPut) {
			mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
			if err != nil || mediaType != "application/json" {
				m.writeErrorResponse(w, http.StatusUnsupportedMediaType, CodeUnsupportedMediaType, ValidationErrors{{
					Field:   "Content-Type",
					Value:   r.Header.Get("Content-Type"),
					Message: "must be application/json",
				}})
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

// Decode reads the JSON body of r into dst and validates it. On failure it
// writes a 400 response and returns false.
func (m *Middleware) Decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, m.maxBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		m.writeErrorResponse(w, http.StatusBadRequest, CodeBadRequest, ValidationErrors{{
			Field:   "request_body",
			Value:   nil,
			Message: fmt.Sprintf("invalid JSON: %v", err),
		}})
		return false
	}

	if err := ValidateWithConfig(dst, m.config); err != nil {
		var verrs ValidationErrors
		if errors.As(err, &verrs) {
			m.writeErrorResponse(w, http.StatusBadRequest, CodeBadRequest, verrs)
			return false
		}
		m.writeErrorResponse(w, http.StatusBadRequest, CodeBadRequest, ValidationErrors{{
			Field:   "validation",
			Value:   nil,
			Message: err.Error(),
		}})
		return false
	}
	return true
}

// writeErrorResponse writes validation errors in the error envelope
func (m *Middleware) writeErrorResponse(w http.ResponseWriter, statusCode int, code string, errs ValidationErrors) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	errorData, err := MarshalValidationErrors(code, errs)
	if err != nil {
		// Fallback error response
		w.Write([]byte(`{"error":{"code":"` + code + `","message":"validation failed"}}`))
		return
	}

	w.Write(errorData)
}
