package orchestrators

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"academy/internal/domain/course"
)

// validate checks orchestrator inputs against their struct tags. Field names in
// errors come from the form tag so they match what HTTP clients submitted.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("form"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return v
}

// validateInput runs struct-tag validation and converts the first failure into
// a *course.ValidationError naming the offending field.
// PRE: in is a struct or pointer to struct
// POST: Returns nil, a *course.ValidationError, or the validator's own error
func validateInput(in any) error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return &course.ValidationError{Field: fe.Field(), Message: fieldMessage(fe)}
	}
	return err
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "cannot be empty"
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	default:
		return fmt.Sprintf("failed %s check", fe.Tag())
	}
}
