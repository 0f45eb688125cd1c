package book

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	validate.RegisterValidation("date", validateDate)
}

func validateDate(fl validator.FieldLevel) bool {
	_, err := ParseDate(fl.Field().String())
	return err == nil
}

// validateStruct runs the struct tags of s and folds every failure into one
// ErrValidation error.
func validateStruct(s any) error {
	return validationError(validate.Struct(s), "")
}

// validateField checks a single value against tag, reporting it as field.
func validateField(field, value, tag string) error {
	return validationError(validate.Var(value, tag), field)
}

func validationError(err error, field string) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	messages := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		name := fe.Field()
		if field != "" {
			name = field
		}
		messages = append(messages, fieldMessage(name, fe.Tag()))
	}
	return fmt.Errorf("%w: %s", ErrValidation, strings.Join(messages, ", "))
}

func fieldMessage(field, tag string) string {
	switch tag {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "date":
		return fmt.Sprintf("%s must be a date (YYYY-MM-DD)", field)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
