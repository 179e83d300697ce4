package common

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"spinecrm/internal/models"

	"github.com/go-playground/validator/v10"
)

// RequestValidator implements echo.Validator on top of go-playground/validator
type RequestValidator struct {
	validate *validator.Validate
}

// nullChecker is implemented by sparse update payloads that may not clear
// NOT NULL columns
type nullChecker interface {
	NullViolations() []string
}

// NewValidator creates a validator that reports fields by their JSON names
// and understands models.Optional and the prospect enumerations
func NewValidator() *RequestValidator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	v.RegisterCustomTypeFunc(optionalValue,
		models.Optional[string]{},
		models.Optional[models.ProspectSource]{},
		models.Optional[models.ProspectStatus]{},
	)

	// Registration only fails on an empty tag or nil func
	_ = v.RegisterValidation("prospect_source", func(fl validator.FieldLevel) bool {
		return models.ProspectSource(fl.Field().String()).IsValid()
	})
	_ = v.RegisterValidation("prospect_status", func(fl validator.FieldLevel) bool {
		return models.ProspectStatus(fl.Field().String()).IsValid()
	})

	return &RequestValidator{validate: v}
}

// Validate checks struct tags first, then NOT NULL constraints of sparse payloads
func (rv *RequestValidator) Validate(i interface{}) error {
	if err := rv.validate.Struct(i); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return err
		}
		details := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			details[fe.Field()] = describe(fe)
		}
		return Validation("Validation failed", details)
	}

	if nc, ok := i.(nullChecker); ok {
		if fields := nc.NullViolations(); len(fields) > 0 {
			details := make(map[string]string, len(fields))
			for _, f := range fields {
				details[f] = "may not be null"
			}
			return Validation("Validation failed", details)
		}
	}
	return nil
}

func optionalValue(field reflect.Value) interface{} {
	if o, ok := field.Interface().(interface{ ValidationValue() any }); ok {
		return o.ValidationValue()
	}
	return nil
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "prospect_source":
		return "must be one of: " + joinValues(models.AllProspectSources())
	case "prospect_status":
		return "must be one of: " + joinValues(models.AllProspectStatuses())
	default:
		return "is invalid"
	}
}

func joinValues[T ~string](values []T) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = string(v)
	}
	return strings.Join(parts, ", ")
}
