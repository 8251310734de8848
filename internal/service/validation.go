package service

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"hospital-locator/pkg/utils"

	"github.com/go-playground/validator/v10"
)

var capabilityPattern = regexp.MustCompile(`^[a-zA-Z0-9_ \-]+$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("capability", func(fl validator.FieldLevel) bool {
		return capabilityPattern.MatchString(fl.Field().String())
	})
	return v
}

type coordinates struct {
	Lat float64 `json:"lat" validate:"latitude"`
	Lon float64 `json:"lon" validate:"longitude"`
}

// validateStruct runs the validator and converts its output to a ValidationError
func validateStruct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return newValidationError("body", err.Error())
	}
	out := &ValidationError{}
	for _, fe := range fieldErrs {
		out.Violations = append(out.Violations, FieldViolation{
			Field:   fe.Field(),
			Message: violationMessage(fe),
		})
	}
	return out
}

func violationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s long", fe.Param())
	case "latitude":
		return "must be between -90 and 90"
	case "longitude":
		return "must be between -180 and 180"
	case "capability":
		return "may only contain letters, digits, spaces, '_' and '-'"
	}
	return "is invalid"
}

func normalizeTags(tags []string) []string {
	return utils.NormalizeTags(tags)
}
