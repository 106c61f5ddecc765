// Package validation builds the struct validator used at the service
// boundary and renders its failures as client facing messages.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/yogaflow/yoga-sessions/internal/goal"
)

// New returns a validator that reports fields by their JSON names and
// understands the "goal" tag.
func New() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	// RegisterValidation only fails for an empty tag or a nil func.
	_ = v.RegisterValidation("goal", func(fl validator.FieldLevel) bool {
		g, ok := fl.Field().Interface().(goal.Goal)
		if !ok {
			return false
		}
		return g.Valid()
	})

	return v
}

// Describe turns a validation error into a single line message.
func Describe(err error) string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err.Error()
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, describeField(fe))
	}

	return strings.Join(msgs, "; ")
}

func describeField(fe validator.FieldError) string {
	field := fe.Namespace()
	if _, rest, ok := strings.Cut(field, "."); ok {
		field = rest
	}

	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "min", "gte":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max", "lte":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "goal":
		return fmt.Sprintf("%s has unknown goal %q", field, fe.Value())
	default:
		return fmt.Sprintf("%s failed on %s", field, fe.Tag())
	}
}
