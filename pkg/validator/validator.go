package validator

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"anoa.com/placementportal/pkg/apperror"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Register installs the custom tags and json field naming on gin's validator.
// It must run once before the router starts serving.
func Register() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected validator engine %T", binding.Validator.Engine())
	}
	return Configure(v)
}

// Configure applies the portal's rules to any validator instance.
func Configure(v *validator.Validate) error {
	v.RegisterTagNameFunc(jsonFieldName)

	if err := v.RegisterValidation("pdfurl", validatePDFURL); err != nil {
		return err
	}
	return v.RegisterValidation("future", validateFuture)
}

func jsonFieldName(fld reflect.StructField) string {
	for _, tag := range []string{"json", "form", "uri"} {
		name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return fld.Name
}

func validatePDFURL(fl validator.FieldLevel) bool {
	value := strings.TrimSpace(fl.Field().String())
	return strings.HasSuffix(strings.ToLower(value), ".pdf")
}

func validateFuture(fl validator.FieldLevel) bool {
	field := fl.Field()
	if field.Kind() == reflect.Ptr {
		if field.IsNil() {
			return true
		}
		field = field.Elem()
	}

	t, ok := field.Interface().(time.Time)
	if !ok {
		return false
	}
	return t.After(time.Now())
}

// Issues itemises every field violation carried by err.
func Issues(err error) []apperror.Issue {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return nil
	}

	issues := make([]apperror.Issue, 0, len(validationErrors))
	for _, fieldError := range validationErrors {
		issues = append(issues, apperror.Issue{
			Field:   fieldError.Field(),
			Message: getFieldErrorMessage(fieldError),
		})
	}
	return issues
}

func getFieldErrorMessage(fe validator.FieldError) string {
	field := fe.Field()

	switch fe.Tag() {
	case "required", "required_if", "required_without":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email", field)
	case "uuid", "uuid4":
		return fmt.Sprintf("%s must be a valid id", field)
	case "pdfurl":
		return fmt.Sprintf("%s must point to a .pdf file", field)
	case "future":
		return fmt.Sprintf("%s must be in the future", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "url":
		return fmt.Sprintf("%s must be a valid url", field)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
