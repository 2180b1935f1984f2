package services

import (
	"fmt"
	"strings"

	"github.com/MuhamadAgungGumelar/analytics-engine-be/internal/core/reports/sqlbuilder"
	"github.com/go-playground/validator/v10"
)

// NewValidator returns a validator with the report configuration rules registered
func NewValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("qualified_identifier", validateQualifiedIdentifier)
	return v
}

// validateQualifiedIdentifier accepts table or procedure names such as "payments" or "analytics.payments"
func validateQualifiedIdentifier(fl validator.FieldLevel) bool {
	for _, part := range strings.Split(fl.Field().String(), ".") {
		if !sqlbuilder.IsIdentifier(part) {
			return false
		}
	}
	return true
}

// ValidationError carries the failed fields of a request
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid fields: %s", strings.Join(e.Fields, ", "))
}

func validationError(err error) error {
	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	fields := make([]string, 0, len(errs))
	for _, fe := range errs {
		fields = append(fields, fmt.Sprintf("%s (%s)", fe.Field(), fe.Tag()))
	}
	return &ValidationError{Fields: fields}
}
