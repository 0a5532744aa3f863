// Package validation provides enhanced validation with go-playground/validator integration
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validate is the main validator instance
var Validate *validator.Validate

var (
	nodeIDPattern   = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
	nodeKindPattern = regexp.MustCompile(`^[a-z][a-zA-Z0-9_-]*$`)
)

func init() {
	Validate = validator.New()

	// Register custom validation functions
	Validate.RegisterValidation("node_id", validateNodeID)
	Validate.RegisterValidation("node_kind", validateNodeKind)
	Validate.RegisterValidation("socket", validateSocket)
	Validate.RegisterValidation("color_mode", validateColorMode)

	// Register tag name function to use JSON tags for field names
	Validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
}

// ValidateWithPlayground validates using go-playground/validator
func ValidateWithPlayground(s interface{}) error {
	err := Validate.Struct(s)
	if err != nil {
		return formatValidationErrors(err)
	}
	return nil
}

// formatValidationErrors converts validator errors to our custom format
func formatValidationErrors(err error) error {
	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return err
	}

	var out ValidationErrors
	for _, fe := range fieldErrors {
		out = append(out, ValidationError{
			Field:   fe.Field(),
			Value:   fe.Value(),
			Message: getErrorMessage(fe),
		})
	}
	return out
}

// getErrorMessage returns a human-readable error message
func getErrorMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "field is required"
	case "min":
		return fmt.Sprintf("minimum value/length is %s", fe.Param())
	case "max":
		return fmt.Sprintf("maximum value/length is %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "hostname_port":
		return "must be host:port"
	case "node_id":
		return "must be a valid node identifier (alphanumeric, underscore, hyphen)"
	case "node_kind":
		return "must be a valid node type"
	case "socket":
		return "must be a socket role (source, target)"
	case "color_mode":
		return "must be a color mode (light, dark)"
	default:
		return fmt.Sprintf("validation failed: %s", fe.Tag())
	}
}

// Custom validation functions for FlowBuilder-specific rules

// validateNodeID validates node identifier format
func validateNodeID(fl validator.FieldLevel) bool {
	nodeID := fl.Field().String()
	return len(nodeID) <= 100 && nodeIDPattern.MatchString(nodeID)
}

// validateNodeKind validates the format of a palette drag token. Whether the
// kind is registered is decided by the node kind registry, not here.
func validateNodeKind(fl validator.FieldLevel) bool {
	kind := fl.Field().String()
	return len(kind) <= 50 && nodeKindPattern.MatchString(kind)
}

func validateSocket(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "source", "target":
		return true
	}
	return false
}

func validateColorMode(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "light", "dark":
		return true
	}
	return false
}
