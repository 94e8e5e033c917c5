package services

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/ahmetcoskunkizilkaya/campus-governance/internal/models"
	"github.com/go-playground/validator/v10"
)

// ValidationError reports every invalid field of a request at once.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+" "+e.Fields[name])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their wire names.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, tag := range []string{"json", "query"} {
			name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
			if name != "" && name != "-" {
				return name
			}
		}
		return f.Name
	})

	_ = v.RegisterValidation("report_category", func(fl validator.FieldLevel) bool {
		return models.ValidCategory(fl.Field().String())
	})
	_ = v.RegisterValidation("report_status", func(fl validator.FieldLevel) bool {
		return models.Status(fl.Field().String()).Valid()
	})
	return v
}

func validateStruct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	out := &ValidationError{Fields: make(map[string]string, len(fieldErrs))}
	for _, fe := range fieldErrs {
		out.Fields[fe.Field()] = describe(fe)
	}
	return out
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "report_category":
		return "must be one of: " + strings.Join(models.ReportCategories, ", ")
	case "report_status":
		statuses := make([]string, len(models.Statuses))
		for i, s := range models.Statuses {
			statuses[i] = string(s)
		}
		return "must be one of: " + strings.Join(statuses, ", ")
	default:
		return "is invalid"
	}
}
